package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/cindypham04/engrave/models"
	"github.com/cindypham04/engrave/pkg/logging"
)

type annotationRepository struct {
	db *gorm.DB
}

func NewAnnotationRepository(db *gorm.DB) AnnotationRepository {
	return &annotationRepository{db: db}
}

func (r *annotationRepository) Create(ctx context.Context, a *models.Annotation) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *annotationRepository) GetByID(ctx context.Context, annotationID string) (*models.Annotation, error) {
	var a models.Annotation
	err := r.db.WithContext(ctx).Where("id = ?", annotationID).First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *annotationRepository) ListByFile(ctx context.Context, fileID string) ([]*models.Annotation, error) {
	var res []*models.Annotation
	err := r.db.WithContext(ctx).Where("file_id = ?", fileID).Order("created_at").Find(&res).Error
	if err != nil {
		logging.Logger.Error("fail ListByFile annotations", "error", err)
		return nil, err
	}
	return res, nil
}

func (r *annotationRepository) SetDerivedThread(ctx context.Context, annotationID, threadID string) error {
	return r.db.WithContext(ctx).
		Model(&models.Annotation{}).
		Where("id = ?", annotationID).
		Update("derived_thread_id", threadID).Error
}

func (r *annotationRepository) Delete(ctx context.Context, annotationID string) error {
	return r.db.WithContext(ctx).Where("id = ?", annotationID).Delete(&models.Annotation{}).Error
}

func (r *annotationRepository) DeleteByFile(ctx context.Context, fileID string) error {
	return r.db.WithContext(ctx).Where("file_id = ?", fileID).Delete(&models.Annotation{}).Error
}
