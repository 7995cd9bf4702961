package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"

	"github.com/cindypham04/engrave/config"
	"github.com/cindypham04/engrave/models"
	"github.com/cindypham04/engrave/pkg/logging"
	"github.com/cindypham04/engrave/utils"
)

type Service struct {
	Client           *minio.Client
	Config           *minio.Options
	Bucket           string
	StorageType      string
	FileKeyGenerator *utils.FileKeyGenerator
}

func InitStorageService(cfg *config.Config) (*Service, error) {
	minioClient, err := utils.NewBucketClient(cfg)
	if err != nil {
		logging.Logger.Error("fail InitStorageService", "error", err)
		return nil, err
	}

	keyGenerator := utils.NewFileKeyGenerator("pdfs")
	ss := &Service{
		Client:           minioClient,
		Config:           &minio.Options{Region: cfg.BucketRegion},
		Bucket:           cfg.BucketName,
		StorageType:      cfg.StorageType,
		FileKeyGenerator: keyGenerator,
	}
	if err := ss.EnsureBucketExists(); err != nil {
		logging.Logger.Error("fail InitStorageService", "error", err)
		return nil, err
	}
	logging.Logger.Info("Storage service initialized",
		"type", cfg.StorageType,
		"bucket", cfg.BucketName,
		"region", cfg.BucketRegion,
	)

	return ss, nil
}

func (ss *Service) EnsureBucketExists() error {
	ctx := context.Background()
	exists, err := ss.Client.BucketExists(ctx, ss.Bucket)
	if err != nil {
		logging.Logger.Error("fail ensureBucketExists", "error", err)
		return err
	}
	if exists {
		return nil
	}
	err = ss.Client.MakeBucket(ctx, ss.Bucket, minio.MakeBucketOptions{
		Region: ss.Config.Region,
	})
	if err != nil {
		if ss.StorageType == "s3" {
			logging.Logger.Warn("Could not create S3 bucket (might exist or no permission)",
				"bucket", ss.Bucket, "error", err)
			return nil
		}
		logging.Logger.Error("fail ensureBucketExists", "error", err)
		return err
	}
	logging.Logger.Info("Bucket created successfully")
	return nil
}

// GeneratePresignedPostUpload issues a POST policy restricted to one PDF
// upload under a fresh object key.
func (ss *Service) GeneratePresignedPostUpload(filename string, maxFileSize int64, fileID string) (*models.UploadResp, error) {
	fileKey := ss.FileKeyGenerator.GenerateFileKey(filename)

	policy := minio.NewPostPolicy()
	if err := policy.SetBucket(ss.Bucket); err != nil {
		return nil, err
	}
	if err := policy.SetKey(fileKey); err != nil {
		return nil, err
	}
	if err := policy.SetExpires(time.Now().Add(15 * time.Minute)); err != nil {
		return nil, err
	}
	if maxFileSize > 0 {
		if err := policy.SetContentLengthRange(1, maxFileSize); err != nil {
			return nil, err
		}
	}
	if err := policy.SetContentType("application/pdf"); err != nil {
		return nil, err
	}

	postURL, formData, err := ss.Client.PresignedPostPolicy(context.Background(), policy)
	if err != nil {
		return nil, fmt.Errorf("failed to generate presigned POST: %w", err)
	}

	return &models.UploadResp{
		FileID:    fileID,
		UploadURL: postURL.String(),
		FileKey:   fileKey,
		Fields:    formData,
		Expires:   time.Now().Add(15 * time.Minute),
		Provider:  ss.StorageType,
	}, nil
}

// GeneratePresignedGetDownload hands out a time-limited URL the PDF
// viewer loads the file from.
func (ss *Service) GeneratePresignedGetDownload(fileKey string, expiration time.Time) (string, error) {
	duration := time.Until(expiration)
	if duration <= 0 {
		logging.Logger.Error("fail GeneratePresignedGetDownload, expiration error", "expiration", expiration)
		return "", fmt.Errorf("expiration error")
	}
	presignedURL, err := ss.Client.PresignedGetObject(
		context.Background(),
		ss.Bucket,
		fileKey,
		duration,
		nil,
	)
	if err != nil {
		logging.Logger.Error("fail GeneratePresignedGetDownload", "error", err)
		return "", err
	}
	return presignedURL.String(), nil
}

func (ss *Service) FileExists(fileKey string) (bool, error) {
	_, err := ss.Client.StatObject(context.Background(), ss.Bucket, fileKey, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// RemoveObject deletes the stored PDF when its file record is destroyed.
func (ss *Service) RemoveObject(fileKey string) error {
	if fileKey == "" {
		return nil
	}
	err := ss.Client.RemoveObject(context.Background(), ss.Bucket, fileKey, minio.RemoveObjectOptions{})
	if err != nil {
		logging.Logger.Error("fail RemoveObject", "error", err, "fileKey", fileKey)
	}
	return err
}
