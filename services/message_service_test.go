package services

import (
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"tradehub_backend/models"
	"tradehub_backend/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// capturePublisher records published messages for assertions.
type capturePublisher struct {
	mu   sync.Mutex
	msgs []*models.Message
	done chan struct{}
}

func newCapturePublisher() *capturePublisher {
	return &capturePublisher{done: make(chan struct{}, 16)}
}

func (p *capturePublisher) PublishMessage(msg *models.Message) {
	p.mu.Lock()
	p.msgs = append(p.msgs, msg)
	p.mu.Unlock()
	p.done <- struct{}{}
}

func (p *capturePublisher) wait(t *testing.T) *models.Message {
	t.Helper()
	select {
	case <-p.done:
	case <-time.After(2 * time.Second):
		t.Fatal("publisher was never invoked")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.msgs[len(p.msgs)-1]
}

// stalledPublisher simulates an unreachable delivery channel: it hangs until
// released and never reports anything back.
type stalledPublisher struct {
	release chan struct{}
}

func (p *stalledPublisher) PublishMessage(msg *models.Message) {
	<-p.release
}

func newTestService(t *testing.T, pub MessagePublisher) (*MessageService, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "svc.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Product{}, &models.Message{}))

	svc := NewMessageService(
		repository.NewMessageRepository(db),
		repository.NewUserRepository(db),
		repository.NewProductRepository(db),
		pub,
		nil,
	)
	return svc, db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Email: username + "@example.com", Password: "hash"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestSendPersistsAndPublishes(t *testing.T) {
	pub := newCapturePublisher()
	svc, db := newTestService(t, pub)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	msg, err := svc.Send(alice.ID, bob.ID, nil, "hi bob")
	require.NoError(t, err)
	assert.NotZero(t, msg.ID)
	assert.False(t, msg.IsRead)

	published := pub.wait(t)
	assert.Equal(t, msg.ID, published.ID)
	assert.Equal(t, alice.ID, published.SenderID)
	assert.Equal(t, bob.ID, published.ReceiverID)
}

func TestSendRejectsSelfMessage(t *testing.T) {
	svc, db := newTestService(t, nil)
	alice := seedUser(t, db, "alice")

	_, err := svc.Send(alice.ID, alice.ID, nil, "talking to myself")
	assert.ErrorIs(t, err, ErrInvalidArgument)

	var count int64
	require.NoError(t, db.Model(&models.Message{}).Count(&count).Error)
	assert.Zero(t, count, "rejected send must not persist a row")
}

func TestSendRejectsBadContent(t *testing.T) {
	svc, db := newTestService(t, nil)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	_, err := svc.Send(alice.ID, bob.ID, nil, "   ")
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = svc.Send(alice.ID, bob.ID, nil, strings.Repeat("x", models.MaxMessageContentLength+1))
	assert.ErrorIs(t, err, ErrInvalidArgument)

	var count int64
	require.NoError(t, db.Model(&models.Message{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSendContentBoundCountsCharactersNotBytes(t *testing.T) {
	pub := newCapturePublisher()
	svc, db := newTestService(t, pub)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	// 1000 multibyte characters is within the bound even though the byte
	// length is far beyond it.
	msg, err := svc.Send(alice.ID, bob.ID, nil, strings.Repeat("日", models.MaxMessageContentLength))
	require.NoError(t, err)
	assert.NotZero(t, msg.ID)

	_, err = svc.Send(alice.ID, bob.ID, nil, strings.Repeat("日", models.MaxMessageContentLength+1))
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestSendRejectsUnknownParticipants(t *testing.T) {
	svc, db := newTestService(t, nil)
	alice := seedUser(t, db, "alice")

	_, err := svc.Send(alice.ID, 9999, nil, "hello?")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Send(9999, alice.ID, nil, "hello?")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSendToleratesMissingProduct(t *testing.T) {
	pub := newCapturePublisher()
	svc, db := newTestService(t, pub)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	ghost := uint(4242)
	msg, err := svc.Send(alice.ID, bob.ID, &ghost, "is this still available?")
	require.NoError(t, err)
	require.NotNil(t, msg.ProductID)
	assert.Equal(t, ghost, *msg.ProductID)
}

func TestSendSurvivesStalledDelivery(t *testing.T) {
	pub := &stalledPublisher{release: make(chan struct{})}
	defer close(pub.release)
	svc, db := newTestService(t, pub)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	msg, err := svc.Send(alice.ID, bob.ID, nil, "delivery may hang")
	require.NoError(t, err, "a stalled push must not fail the send")

	var persisted models.Message
	require.NoError(t, db.First(&persisted, msg.ID).Error)
	assert.Equal(t, msg.Content, persisted.Content)
	assert.Equal(t, msg.CreatedAt.Unix(), persisted.CreatedAt.Unix())
}

func TestRoundTripThroughConversation(t *testing.T) {
	pub := newCapturePublisher()
	svc, db := newTestService(t, pub)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	product := uint(7)
	sent, err := svc.Send(alice.ID, bob.ID, &product, "round trip")
	require.NoError(t, err)

	msgs, err := svc.GetConversation(bob.ID, alice.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, sent.ID, msgs[0].ID)
	assert.Equal(t, "round trip", msgs[0].Content)
	require.NotNil(t, msgs[0].ProductID)
	assert.Equal(t, product, *msgs[0].ProductID)
}

func TestGetConversationUnknownUser(t *testing.T) {
	svc, db := newTestService(t, nil)
	alice := seedUser(t, db, "alice")

	_, err := svc.GetConversation(alice.ID, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInboxRecencyOrderedDeduplication(t *testing.T) {
	pub := newCapturePublisher()
	svc, db := newTestService(t, pub)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	carol := seedUser(t, db, "carol")

	// A->B, then A->C, then B->A. The most recent interaction with B is
	// newest, so the inbox must be [B, C] and never [C, B].
	_, err := svc.Send(alice.ID, bob.ID, nil, "t1")
	require.NoError(t, err)
	_, err = svc.Send(alice.ID, carol.ID, nil, "t2")
	require.NoError(t, err)
	_, err = svc.Send(bob.ID, alice.ID, nil, "t3")
	require.NoError(t, err)

	inbox, err := svc.GetInbox(alice.ID)
	require.NoError(t, err)
	require.Len(t, inbox, 2)
	assert.Equal(t, bob.ID, inbox[0].ID)
	assert.Equal(t, carol.ID, inbox[1].ID)
}

func TestInboxEmptyForNewUser(t *testing.T) {
	svc, db := newTestService(t, nil)
	alice := seedUser(t, db, "alice")

	inbox, err := svc.GetInbox(alice.ID)
	require.NoError(t, err)
	assert.Empty(t, inbox)
}

func TestMarkReadDropsUnreadCount(t *testing.T) {
	pub := newCapturePublisher()
	svc, db := newTestService(t, pub)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	carol := seedUser(t, db, "carol")

	for i := 0; i < 3; i++ {
		_, err := svc.Send(alice.ID, bob.ID, nil, "ping")
		require.NoError(t, err)
	}
	_, err := svc.Send(carol.ID, bob.ID, nil, "other sender")
	require.NoError(t, err)

	count, err := svc.UnreadCount(bob.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 4, count)

	affected, err := svc.MarkRead(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, affected)

	count, err = svc.UnreadCount(bob.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count, "unread from other senders stays")

	// Idempotent: same post-state and no error on repeat.
	affected, err = svc.MarkRead(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Zero(t, affected)
}

func TestResolveUserAcceptsIDAndEmail(t *testing.T) {
	svc, db := newTestService(t, nil)
	alice := seedUser(t, db, "alice")

	byID, err := svc.ResolveUser(strconv.FormatUint(uint64(alice.ID), 10))
	require.NoError(t, err)

	byEmail, err := svc.ResolveUser("alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, byID.ID, byEmail.ID)

	_, err = svc.ResolveUser("nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOperationsRequireIdentity(t *testing.T) {
	svc, _ := newTestService(t, nil)

	_, err := svc.Send(0, 1, nil, "anonymous")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = svc.GetInbox(0)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = svc.UnreadCount(0)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = svc.MarkRead(1, 0)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}
