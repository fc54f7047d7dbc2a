// Package media stores profile avatars in S3. Uploads are keyed under a
// configurable prefix; a replace uploads the new object before deleting the
// old one so a failed swap never loses the persisted avatar.
package media

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// Store is the interface the HTTP layer consumes; *S3Store implements it.
type Store interface {
	Upload(ctx context.Context, filename, contentType string, body io.Reader) (Object, error)
	Replace(ctx context.Context, oldKey, filename, contentType string, body io.Reader) (Object, error)
	Delete(ctx context.Context, key string) error
}

type Object struct {
	Key string
	URL string
}

type S3Store struct {
	client *s3.Client
	bucket string
	region string
	prefix string
}

func NewS3Store(ctx context.Context, bucket, region, prefix string) (*S3Store, error) {
	if bucket == "" {
		return nil, fmt.Errorf("bucket is required for media storage")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &S3Store{
		client: s3.NewFromConfig(awsCfg),
		bucket: bucket,
		region: region,
		prefix: strings.Trim(prefix, "/"),
	}, nil
}

func (m *S3Store) Upload(ctx context.Context, filename, contentType string, body io.Reader) (Object, error) {
	key := m.objectKey(filename)
	_, err := m.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(m.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return Object{}, fmt.Errorf("media upload failed: %w", err)
	}
	return Object{Key: key, URL: m.objectURL(key)}, nil
}

// Replace uploads the new avatar first and deletes the old object only after
// the upload succeeded. A delete failure is ignored: the new object is already
// authoritative and an orphan is harmless.
func (m *S3Store) Replace(ctx context.Context, oldKey, filename, contentType string, body io.Reader) (Object, error) {
	object, err := m.Upload(ctx, filename, contentType, body)
	if err != nil {
		return Object{}, err
	}
	if oldKey != "" && oldKey != object.Key {
		_ = m.Delete(ctx, oldKey)
	}
	return object, nil
}

func (m *S3Store) Delete(ctx context.Context, key string) error {
	_, err := m.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(m.bucket),
		Key:    aws.String(key),
	})
	return err
}

func (m *S3Store) objectKey(filename string) string {
	name := uuid.NewString()
	if ext := path.Ext(filename); ext != "" {
		name += ext
	}
	if m.prefix == "" {
		return name
	}
	return m.prefix + "/" + name
}

func (m *S3Store) objectURL(key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", m.bucket, m.region, key)
}
