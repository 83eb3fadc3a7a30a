package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"tradehub_backend/models"
	"tradehub_backend/repository"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// unreadCacheTTL bounds staleness of the cached unread count when an
// invalidation is lost (e.g. Redis restart).
const unreadCacheTTL = 5 * time.Minute

// MessagePublisher pushes a freshly persisted message to the live connections
// of its participants. Delivery is best-effort: implementations must tolerate
// offline participants and must never return delivery problems to the sender.
type MessagePublisher interface {
	PublishMessage(msg *models.Message)
}

// MessageService implements the direct-messaging operations: sending,
// per-pair history, the inbox fold and read-state transitions.
type MessageService struct {
	messages  *repository.MessageRepository
	users     *repository.UserRepository
	products  *repository.ProductRepository
	publisher MessagePublisher
	cache     *redis.Client // nil when caching is disabled
}

func NewMessageService(
	messages *repository.MessageRepository,
	users *repository.UserRepository,
	products *repository.ProductRepository,
	publisher MessagePublisher,
	cache *redis.Client,
) *MessageService {
	return &MessageService{
		messages:  messages,
		users:     users,
		products:  products,
		publisher: publisher,
		cache:     cache,
	}
}

// Send validates and persists a message, then pushes it to both participants'
// live connections in the background. The returned result reflects the
// persisted row only; push failures never surface here.
func (s *MessageService) Send(senderID, receiverID uint, productID *uint, content string) (*models.Message, error) {
	if senderID == 0 {
		return nil, ErrUnauthenticated
	}
	if senderID == receiverID {
		return nil, fmt.Errorf("%w: cannot message yourself", ErrInvalidArgument)
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: content is empty", ErrInvalidArgument)
	}
	if utf8.RuneCountInString(content) > models.MaxMessageContentLength {
		return nil, fmt.Errorf("%w: content exceeds %d characters", ErrInvalidArgument, models.MaxMessageContentLength)
	}

	if _, err := s.users.FindByID(senderID); err != nil {
		return nil, wrapLookupErr(err, "sender")
	}
	if _, err := s.users.FindByID(receiverID); err != nil {
		return nil, wrapLookupErr(err, "receiver")
	}

	// The product reference is a loose contextual tag. A missing listing is
	// tolerated and the tag is kept as supplied.
	if productID != nil {
		if ok, err := s.products.Exists(*productID); err == nil && !ok {
			log.Printf("Message references missing product %d", *productID)
		}
	}

	msg, err := s.messages.Append(senderID, receiverID, productID, content)
	if err != nil {
		return nil, err
	}

	s.invalidateUnread(receiverID)

	// Fire-and-forget delivery, decoupled from the append. A slow or dead
	// connection must never block or fail the send.
	if s.publisher != nil {
		go s.publisher.PublishMessage(msg)
	}

	return msg, nil
}

// ResolveUser resolves an opaque identity key, either a numeric id or a login
// email, to the account it names.
func (s *MessageService) ResolveUser(key string) (*models.User, error) {
	user, err := s.users.Resolve(key)
	if err != nil {
		return nil, wrapLookupErr(err, "user")
	}
	return user, nil
}

// GetConversation returns the full two-way history between the requester and
// the other user, oldest first.
func (s *MessageService) GetConversation(requesterID, otherID uint) ([]models.Message, error) {
	if requesterID == 0 {
		return nil, ErrUnauthenticated
	}
	if _, err := s.users.FindByID(otherID); err != nil {
		return nil, wrapLookupErr(err, "user")
	}
	return s.messages.FindConversation(requesterID, otherID)
}

// GetInbox folds the user's message log into a deduplicated list of
// conversation partners ordered by most recent interaction.
func (s *MessageService) GetInbox(userID uint) ([]models.UserSummary, error) {
	if userID == 0 {
		return nil, ErrUnauthenticated
	}

	msgs, err := s.messages.FindRecentForParticipant(userID)
	if err != nil {
		return nil, err
	}

	// The input is newest-first, so keeping the first occurrence of each
	// partner preserves recency order. An unordered set would lose it.
	seen := make(map[uint]bool)
	partnerIDs := make([]uint, 0)
	for _, m := range msgs {
		partner := m.SenderID
		if m.SenderID == userID {
			partner = m.ReceiverID
		}
		if !seen[partner] {
			seen[partner] = true
			partnerIDs = append(partnerIDs, partner)
		}
	}

	return s.users.FindSummaries(partnerIDs)
}

// UnreadCount returns how many messages addressed to the user are unread.
func (s *MessageService) UnreadCount(userID uint) (int64, error) {
	if userID == 0 {
		return 0, ErrUnauthenticated
	}

	if s.cache != nil {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if cached, err := s.cache.Get(ctx, unreadKey(userID)).Result(); err == nil {
			if n, err := strconv.ParseInt(cached, 10, 64); err == nil {
				return n, nil
			}
		}
	}

	count, err := s.messages.CountUnreadFor(userID)
	if err != nil {
		return 0, err
	}

	if s.cache != nil {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := s.cache.Set(ctx, unreadKey(userID), count, unreadCacheTTL).Err(); err != nil {
			log.Printf("Failed to cache unread count for user %d: %v", userID, err)
		}
	}

	return count, nil
}

// MarkRead marks every message from the given sender to the caller as read.
// Marking an already-read (or empty) set affects zero rows and is not an error.
func (s *MessageService) MarkRead(senderID, userID uint) (int64, error) {
	if userID == 0 {
		return 0, ErrUnauthenticated
	}

	affected, err := s.messages.MarkRead(senderID, userID)
	if err != nil {
		return 0, err
	}
	if affected > 0 {
		s.invalidateUnread(userID)
	}
	return affected, nil
}

func (s *MessageService) invalidateUnread(userID uint) {
	if s.cache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Del(ctx, unreadKey(userID)).Err(); err != nil {
		log.Printf("Failed to invalidate unread count for user %d: %v", userID, err)
	}
}

func unreadKey(userID uint) string {
	return fmt.Sprintf("unread:%d", userID)
}

func wrapLookupErr(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, what)
	}
	return err
}
