package modelsource

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3Config describes the bucket models are stored in.
type S3Config struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	UseSSL    bool   `yaml:"use_ssl"`
}

// Enabled reports whether enough is configured to build an S3Reader.
func (c S3Config) Enabled() bool {
	return c.Endpoint != "" && c.Bucket != ""
}

// S3Reader reads models from an S3-compatible bucket. ref is an object key.
type S3Reader struct {
	api    *minio.Client
	bucket string
}

var _ Reader = (*S3Reader)(nil)

func NewS3Reader(cfg S3Config) (*S3Reader, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("s3.endpoint is required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3.bucket is required")
	}
	api, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create s3 client: %w", err)
	}
	return &S3Reader{api: api, bucket: cfg.Bucket}, nil
}

func (r *S3Reader) ReadModel(ctx context.Context, ref string) (Model, error) {
	obj, err := r.api.GetObject(ctx, r.bucket, ref, minio.GetObjectOptions{})
	if err != nil {
		return Model{}, fmt.Errorf("get object %s/%s: %w", r.bucket, ref, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return Model{}, fmt.Errorf("read object %s/%s: %w", r.bucket, ref, err)
	}
	return Model{FileName: path.Base(ref), Data: data}, nil
}
