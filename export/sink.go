package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"osuindex/dotosu"
)

// Sink stores exported documents under a slash-separated name.
type Sink interface {
	Put(ctx context.Context, name string, content []byte) error
}

// Write marshals b and stores it under ObjectName(b.Path).
func Write(ctx context.Context, sink Sink, b *dotosu.Beatmap) error {
	data, err := Marshal(b)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", b.Path, err)
	}
	name := ObjectName(b.Path)
	if err := sink.Put(ctx, name, data); err != nil {
		return fmt.Errorf("export %s: %w", name, err)
	}
	return nil
}

// ObjectName maps a source path to its export name: the parent directory
// (the beatmap set folder or archive) and file name, with .json appended.
func ObjectName(path string) string {
	path = filepath.ToSlash(path)
	dir, file := filepath.Base(filepath.Dir(path)), filepath.Base(path)
	if dir == "." || dir == "/" {
		return file + ".json"
	}
	return dir + "/" + file + ".json"
}

type DirSink struct {
	Dir string
}

func (s DirSink) Put(_ context.Context, name string, content []byte) error {
	name = strings.TrimLeft(strings.TrimSpace(name), "/")
	if name == "" {
		return fmt.Errorf("name is required")
	}
	path := filepath.Join(s.Dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, content, 0o644)
}

type S3Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// S3Sink writes documents to an S3-compatible bucket, creating the bucket
// on first use.
type S3Sink struct {
	client   *minio.Client
	bucket   string
	region   string
	initOnce sync.Once
	initErr  error
}

func NewS3Sink(cfg S3Config) (*S3Sink, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("s3 endpoint is required")
	}
	access := strings.TrimSpace(cfg.AccessKey)
	secret := strings.TrimSpace(cfg.SecretKey)
	if access == "" || secret == "" {
		return nil, fmt.Errorf("s3 access key and secret key are required")
	}
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "us-east-1"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(access, secret, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("init s3 client: %w", err)
	}
	return &S3Sink{client: client, bucket: bucket, region: region}, nil
}

func (s *S3Sink) ensureBucket(ctx context.Context) error {
	s.initOnce.Do(func() {
		exists, err := s.client.BucketExists(ctx, s.bucket)
		if err != nil {
			s.initErr = err
			return
		}
		if exists {
			return
		}
		s.initErr = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region})
	})
	return s.initErr
}

func (s *S3Sink) Put(ctx context.Context, name string, content []byte) error {
	name = strings.TrimLeft(strings.TrimSpace(name), "/")
	if name == "" {
		return fmt.Errorf("name is required")
	}
	if err := s.ensureBucket(ctx); err != nil {
		return fmt.Errorf("ensure bucket: %w", err)
	}
	_, err := s.client.PutObject(ctx, s.bucket, name, bytes.NewReader(content), int64(len(content)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	return err
}

// MultiSink fans a document out to every sink and joins their errors.
type MultiSink []Sink

func (m MultiSink) Put(ctx context.Context, name string, content []byte) error {
	var errs []error
	for _, s := range m {
		if err := s.Put(ctx, name, content); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
