package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"dashboard-backend-go/internal/config"
)

// S3Backend uploads to object storage under a timestamped key and returns a
// durable public URL. First in the chain when bucket, region, and credentials
// are configured.
type S3Backend struct {
	Config config.Config
}

func (b *S3Backend) Name() string { return "s3" }

func (b *S3Backend) Available() bool { return b.Config.S3Configured() }

func (b *S3Backend) client(ctx context.Context) (*s3.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(b.Config.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			b.Config.S3AccessKey,
			b.Config.S3SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if b.Config.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(b.Config.S3BaseEndpoint)
		}
	}), nil
}

func (b *S3Backend) Store(ctx context.Context, data []byte, originalName, contentType string) (StoredFile, error) {
	client, err := b.client(ctx)
	if err != nil {
		return StoredFile{}, err
	}
	key := StorageKey(originalName)
	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(b.Config.S3Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return StoredFile{}, err
	}
	fileURL := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s",
		b.Config.S3Bucket, b.Config.S3Region, url.PathEscape(key))
	return StoredFile{FileURL: fileURL, FileName: originalName, FileType: contentType}, nil
}

// StorageKey derives a collision-resistant object key from a millisecond
// timestamp and the sanitized original name.
func StorageKey(originalName string) string {
	return fmt.Sprintf("uploads/%d-%s", time.Now().UnixMilli(), SanitizeFilename(originalName))
}
