package utils

import (
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/cindypham04/engrave/config"
)

// NewBucketClient builds the object-storage client for the configured
// provider. Both providers speak the S3 API through minio-go.
func NewBucketClient(cfg *config.Config) (*minio.Client, error) {
	creds := credentials.NewStaticV4(cfg.BucketAccessID, cfg.BucketAccessKey, "")

	switch cfg.StorageType {
	case "minio":
		return minio.New(cfg.BucketEndpoint, &minio.Options{
			Creds:  creds,
			Secure: cfg.UseSSL,
		})
	case "s3":
		return minio.New("s3.amazonaws.com", &minio.Options{
			Creds:  creds,
			Secure: cfg.UseSSL,
			Region: cfg.BucketRegion,
		})
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.StorageType)
	}
}
