package repository

import (
	"devmarket/internal/model"

	"github.com/samber/lo"
	"gorm.io/gorm"
)

type MessageRepository interface {
	Create(message *model.Message) error
	FindSince(userID, otherID, sinceID uint, limit int) ([]model.Message, error)
	MarkRead(receiverID uint, ids []uint) error
	Conversations(userID uint) ([]model.Conversation, error)
	UnreadCount(userID uint) (int64, error)
}

type messageRepo struct {
	db *gorm.DB
}

func NewMessageRepo(db *gorm.DB) MessageRepository {
	return &messageRepo{db}
}

func (r *messageRepo) Create(message *model.Message) error {
	return r.db.Create(message).Error
}

// FindSince returns the messages exchanged by the two users with id > sinceID, oldest first
func (r *messageRepo) FindSince(userID, otherID, sinceID uint, limit int) ([]model.Message, error) {
	q := r.db.Preload("Sender").
		Where("id > ?", sinceID).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)", userID, otherID, otherID, userID).
		Order("id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var messages []model.Message
	err := q.Find(&messages).Error
	return messages, err
}

func (r *messageRepo) MarkRead(receiverID uint, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.Model(&model.Message{}).
		Where("receiver_id = ? AND id IN ? AND is_read = ?", receiverID, ids, false).
		Update("is_read", true).Error
}

// Conversations lists one row per partner, newest thread first
func (r *messageRepo) Conversations(userID uint) ([]model.Conversation, error) {
	type threadRow struct {
		PartnerID   uint
		LastID      uint
		UnreadCount int64
	}

	query := `
		SELECT
			t.partner_id,
			t.last_id,
			(
				SELECT COUNT(*)
				FROM messages um
				WHERE um.sender_id = t.partner_id
				AND um.receiver_id = ?
				AND um.is_read = ?
			) AS unread_count
		FROM (
			SELECT
				CASE WHEN sender_id = ? THEN receiver_id ELSE sender_id END AS partner_id,
				MAX(id) AS last_id
			FROM messages
			WHERE sender_id = ? OR receiver_id = ?
			GROUP BY CASE WHEN sender_id = ? THEN receiver_id ELSE sender_id END
		) t
		ORDER BY t.last_id DESC
	`

	var rows []threadRow
	if err := r.db.Raw(query, userID, false, userID, userID, userID, userID).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []model.Conversation{}, nil
	}

	lastIDs := make([]uint, len(rows))
	partnerIDs := make([]uint, len(rows))
	for i, row := range rows {
		lastIDs[i] = row.LastID
		partnerIDs[i] = row.PartnerID
	}

	var lastMessages []model.Message
	if err := r.db.Where("id IN ?", lastIDs).Find(&lastMessages).Error; err != nil {
		return nil, err
	}
	var partners []model.User
	if err := r.db.Where("id IN ?", partnerIDs).Find(&partners).Error; err != nil {
		return nil, err
	}

	messagesByID := lo.KeyBy(lastMessages, func(m model.Message) uint { return m.ID })
	partnersByID := lo.KeyBy(partners, func(u model.User) uint { return u.ID })

	results := make([]model.Conversation, 0, len(rows))
	for _, row := range rows {
		conv := model.Conversation{PartnerID: row.PartnerID, UnreadCount: row.UnreadCount}
		if m, ok := messagesByID[row.LastID]; ok {
			conv.LastMessage = m.Message
			conv.LastMessageAt = m.CreatedAt
		}
		if u, ok := partnersByID[row.PartnerID]; ok {
			conv.PartnerUsername = u.Username
		}
		results = append(results, conv)
	}
	return results, nil
}

func (r *messageRepo) UnreadCount(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Message{}).Where("receiver_id = ? AND is_read = ?", userID, false).Count(&count).Error
	return count, err
}
