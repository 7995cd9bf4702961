package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/cindypham04/engrave/models"
	"github.com/cindypham04/engrave/pkg/logging"
)

type messageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, msg *models.ChatMessage) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

func (r *messageRepository) ListByThread(ctx context.Context, threadID string) ([]*models.ChatMessage, error) {
	var res []*models.ChatMessage
	err := r.db.WithContext(ctx).Where("thread_id = ?", threadID).Order("created_at").Find(&res).Error
	if err != nil {
		logging.Logger.Error("fail ListByThread", "error", err)
		return nil, err
	}
	return res, nil
}

func (r *messageRepository) ListByFile(ctx context.Context, fileID string) ([]*models.ChatMessage, error) {
	var res []*models.ChatMessage
	err := r.db.WithContext(ctx).
		Joins("JOIN chat_threads ON chat_threads.id = chat_messages.thread_id").
		Where("chat_threads.file_id = ?", fileID).
		Order("chat_messages.created_at").
		Find(&res).Error
	if err != nil {
		logging.Logger.Error("fail ListByFile messages", "error", err)
		return nil, err
	}
	return res, nil
}

func (r *messageRepository) DeleteByThread(ctx context.Context, threadID string) error {
	return r.db.WithContext(ctx).Where("thread_id = ?", threadID).Delete(&models.ChatMessage{}).Error
}
