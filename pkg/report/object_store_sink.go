package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"

	"github.com/Avi18971911/product-reindexer/pkg/reindex/model"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type ObjectStoreConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Prefix    string
	Region    string
	UseSSL    bool
}

func (c ObjectStoreConfig) Validate() error {
	if c.Endpoint == "" {
		return errors.New("object store endpoint is required")
	}
	if c.Bucket == "" {
		return errors.New("object store bucket is required")
	}
	if c.AccessKey == "" || c.SecretKey == "" {
		return errors.New("object store credentials are required")
	}
	return nil
}

// ObjectStoreSink uploads reports to an S3 compatible bucket as <prefix>/<index>/<run id>.json.
type ObjectStoreSink struct {
	client *minio.Client
	cfg    ObjectStoreConfig
}

func NewObjectStoreSink(cfg ObjectStoreConfig) (*ObjectStoreSink, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create object store client: %w", err)
	}
	return &ObjectStoreSink{client: client, cfg: cfg}, nil
}

func (s *ObjectStoreSink) Publish(ctx context.Context, report model.Report) error {
	payload, err := marshalReport(report)
	if err != nil {
		return err
	}
	if err := s.ensureBucket(ctx); err != nil {
		return err
	}
	_, err = s.client.PutObject(
		ctx,
		s.cfg.Bucket,
		ObjectKey(s.cfg.Prefix, report),
		bytes.NewReader(payload),
		int64(len(payload)),
		minio.PutObjectOptions{ContentType: "application/json"},
	)
	if err != nil {
		return fmt.Errorf("failed to upload report: %w", err)
	}
	return nil
}

func (s *ObjectStoreSink) ensureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.cfg.Bucket)
	if err != nil {
		return fmt.Errorf("failed to check report bucket: %w", err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.cfg.Bucket, minio.MakeBucketOptions{Region: s.cfg.Region}); err != nil {
		return fmt.Errorf("failed to create report bucket: %w", err)
	}
	return nil
}

func ObjectKey(prefix string, report model.Report) string {
	return path.Join(prefix, report.Index, report.RunID+".json")
}
