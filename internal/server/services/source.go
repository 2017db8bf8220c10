package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	sc "github.com/dmitrijs2005/fincontext/internal/server/config"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	listObjects = func(c *s3.Client, ctx context.Context, in *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
		return c.ListObjectsV2(ctx, in, optFns...)
	}

	getObject = func(c *s3.Client, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
		return c.GetObject(ctx, in, optFns...)
	}
)

// DocumentSource lists and opens the raw files an ingest run reads from,
// either a local directory or an S3 bucket.
type DocumentSource interface {
	List(ctx context.Context) ([]string, error)
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

// LocalSource reads files from a directory on disk.
type LocalSource struct {
	dir string
}

func NewLocalSource(dir string) *LocalSource {
	return &LocalSource{dir: dir}
}

func (s *LocalSource) List(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", s.dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

func (s *LocalSource) Open(_ context.Context, name string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(s.dir, name))
}

// S3Source reads files from an S3 bucket (MinIO in the demo compose setup).
// A non-empty prefix restricts listing to keys under it.
type S3Source struct {
	config *sc.Config
	prefix string
}

func NewS3Source(config *sc.Config, prefix string) *S3Source {
	return &S3Source{config: config, prefix: prefix}
}

func (s *S3Source) getClient(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,     // MINIO_ROOT_USER
			s.config.S3RootPassword, // MINIO_ROOT_PASSWORD
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return client, nil
}

func (s *S3Source) List(ctx context.Context) ([]string, error) {
	client, err := s.getClient(ctx)
	if err != nil {
		return nil, err
	}

	in := &s3.ListObjectsV2Input{
		Bucket: aws.String(s.config.S3Bucket),
	}
	if s.prefix != "" {
		in.Prefix = aws.String(s.prefix + "/")
	}

	out, err := listObjects(client, ctx, in)
	if err != nil {
		return nil, fmt.Errorf("list bucket %s: %w", s.config.S3Bucket, err)
	}

	var names []string
	for _, obj := range out.Contents {
		if obj.Key != nil {
			names = append(names, *obj.Key)
		}
	}
	return names, nil
}

func (s *S3Source) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	client, err := s.getClient(ctx)
	if err != nil {
		return nil, err
	}

	out, err := getObject(client, ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.config.S3Bucket),
		Key:    aws.String(name),
	})
	if err != nil {
		return nil, fmt.Errorf("get object %s: %w", name, err)
	}

	return out.Body, nil
}
