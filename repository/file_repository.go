package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/cindypham04/engrave/models"
	"github.com/cindypham04/engrave/pkg/logging"
)

type fileRepository struct {
	db *gorm.DB
}

func NewFileRepository(db *gorm.DB) FileRepository {
	return &fileRepository{db: db}
}

func (r *fileRepository) Create(ctx context.Context, file *models.FileMeta) error {
	return r.db.WithContext(ctx).Create(file).Error
}

func (r *fileRepository) GetByID(ctx context.Context, fileID string) (*models.FileMeta, error) {
	var file models.FileMeta
	err := r.db.WithContext(ctx).Where("id = ?", fileID).First(&file).Error
	if err != nil {
		return nil, err
	}
	return &file, nil
}

func (r *fileRepository) ListByFolder(ctx context.Context, folderID string) ([]*models.FileMeta, error) {
	var res []*models.FileMeta
	err := r.db.WithContext(ctx).Where("folder_id = ?", folderID).Order("created_at").Find(&res).Error
	if err != nil {
		logging.Logger.Error("fail ListByFolder", "error", err)
		return nil, err
	}
	return res, nil
}

func (r *fileRepository) Delete(ctx context.Context, fileID string) error {
	return r.db.WithContext(ctx).Where("id = ?", fileID).Delete(&models.FileMeta{}).Error
}

func (r *fileRepository) CreateFolder(ctx context.Context, folder *models.Folder) error {
	return r.db.WithContext(ctx).Create(folder).Error
}

func (r *fileRepository) ListFolders(ctx context.Context, parentID string) ([]*models.Folder, error) {
	var res []*models.Folder
	err := r.db.WithContext(ctx).Where("parent_id = ?", parentID).Order("created_at").Find(&res).Error
	if err != nil {
		logging.Logger.Error("fail ListFolders", "error", err)
		return nil, err
	}
	return res, nil
}
