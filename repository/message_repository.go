package repository

import (
	"tradehub_backend/models"

	"gorm.io/gorm"
)

// MessageRepository is the single source of truth for the message log.
// It enforces nothing beyond the schema; validation lives in the service.
type MessageRepository struct {
	DB *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{DB: db}
}

// Append durably inserts a new message. The store assigns the id and the
// creation timestamp.
func (r *MessageRepository) Append(senderID, receiverID uint, productID *uint, content string) (*models.Message, error) {
	msg := &models.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		ProductID:  productID,
		Content:    content,
		IsRead:     false,
	}
	if err := r.DB.Create(msg).Error; err != nil {
		return nil, err
	}
	return msg, nil
}

// FindConversation returns every message between the two users in either
// direction, oldest first. Ties on the timestamp are broken by insertion order.
func (r *MessageRepository) FindConversation(userA, userB uint) ([]models.Message, error) {
	var msgs []models.Message
	err := r.DB.
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userA, userB, userB, userA).
		Order("created_at ASC, id ASC").
		Find(&msgs).Error
	return msgs, err
}

// FindRecentForParticipant returns every message the user sent or received,
// newest first. Feeds the inbox fold, which relies on this ordering.
func (r *MessageRepository) FindRecentForParticipant(userID uint) ([]models.Message, error) {
	var msgs []models.Message
	err := r.DB.
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Order("created_at DESC, id DESC").
		Find(&msgs).Error
	return msgs, err
}

// CountUnreadFor counts unread messages addressed to the user.
func (r *MessageRepository) CountUnreadFor(receiverID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&models.Message{}).
		Where("receiver_id = ? AND is_read = ?", receiverID, false).
		Count(&count).Error
	return count, err
}

// MarkRead flips every unread message from senderID to receiverID to read in
// one conditional UPDATE. Direction-specific: messages going the other way are
// untouched. Idempotent: a second call affects zero rows and is not an error.
func (r *MessageRepository) MarkRead(senderID, receiverID uint) (int64, error) {
	res := r.DB.Model(&models.Message{}).
		Where("sender_id = ? AND receiver_id = ? AND is_read = ?", senderID, receiverID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}
