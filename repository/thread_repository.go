package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/cindypham04/engrave/models"
	"github.com/cindypham04/engrave/pkg/logging"
)

type threadRepository struct {
	db *gorm.DB
}

func NewThreadRepository(db *gorm.DB) ThreadRepository {
	return &threadRepository{db: db}
}

func (r *threadRepository) Create(ctx context.Context, thread *models.ChatThread) error {
	return r.db.WithContext(ctx).Create(thread).Error
}

func (r *threadRepository) GetByID(ctx context.Context, threadID string) (*models.ChatThread, error) {
	var thread models.ChatThread
	err := r.db.WithContext(ctx).Where("id = ?", threadID).First(&thread).Error
	if err != nil {
		return nil, err
	}
	return &thread, nil
}

func (r *threadRepository) GetByAnnotation(ctx context.Context, annotationID string) (*models.ChatThread, error) {
	var thread models.ChatThread
	err := r.db.WithContext(ctx).Where("source_annotation_id = ?", annotationID).First(&thread).Error
	if err != nil {
		return nil, err
	}
	return &thread, nil
}

func (r *threadRepository) ListByFile(ctx context.Context, fileID string) ([]*models.ChatThread, error) {
	var res []*models.ChatThread
	err := r.db.WithContext(ctx).Where("file_id = ?", fileID).Order("created_at").Find(&res).Error
	if err != nil {
		logging.Logger.Error("fail ListByFile threads", "error", err)
		return nil, err
	}
	return res, nil
}

// DocumentThread returns the file's single thread not derived from an
// annotation.
func (r *threadRepository) DocumentThread(ctx context.Context, fileID string) (*models.ChatThread, error) {
	var thread models.ChatThread
	err := r.db.WithContext(ctx).
		Where("file_id = ? AND (source_annotation_id IS NULL OR source_annotation_id = '')", fileID).
		First(&thread).Error
	if err != nil {
		return nil, err
	}
	return &thread, nil
}

func (r *threadRepository) Delete(ctx context.Context, threadID string) error {
	return r.db.WithContext(ctx).Where("id = ?", threadID).Delete(&models.ChatThread{}).Error
}

func (r *threadRepository) DeleteByFile(ctx context.Context, fileID string) error {
	return r.db.WithContext(ctx).Where("file_id = ?", fileID).Delete(&models.ChatThread{}).Error
}
