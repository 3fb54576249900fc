package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/pageza/foodgram/backend/config"
	"github.com/rs/zerolog/log"
)

// ImageStore persists an uploaded image and returns its public URL.
type ImageStore interface {
	Save(ctx context.Context, prefix string, dataURI string) (string, error)
}

// ObjectPutter is the part of the S3 client the image store needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3ImageStore uploads base64 data URIs to an S3 bucket.
type S3ImageStore struct {
	client    ObjectPutter
	bucket    string
	publicURL func(key string) string
}

func NewS3ImageStore(cfg *config.S3Config) *S3ImageStore {
	return &S3ImageStore{
		client:    cfg.Client,
		bucket:    cfg.BucketName,
		publicURL: cfg.PublicURL,
	}
}

// NewS3ImageStoreWithClient is used when the client is not a *s3.Client.
func NewS3ImageStoreWithClient(client ObjectPutter, cfg *config.S3Config) *S3ImageStore {
	return &S3ImageStore{
		client:    client,
		bucket:    cfg.BucketName,
		publicURL: cfg.PublicURL,
	}
}

// Save decodes dataURI and stores it under prefix/<uuid>.<ext>.
func (s *S3ImageStore) Save(ctx context.Context, prefix string, dataURI string) (string, error) {
	data, mime, err := DecodeDataURI(dataURI)
	if err != nil {
		return "", err
	}
	contentType := mime.String()

	key := fmt.Sprintf("%s/%s%s", strings.Trim(prefix, "/"), uuid.New().String(), mime.Extension())
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	url := s.publicURL(key)
	log.Debug().Str("key", key).Str("content_type", contentType).Msg("uploaded image")
	return url, nil
}

// DecodeDataURI parses "data:<mime>;base64,<payload>". The content type is
// sniffed from the payload, which must be an image.
func DecodeDataURI(uri string) ([]byte, *mimetype.MIME, error) {
	invalid := &ValidationError{}
	invalid.Add("image", "Upload a valid image as a base64 data URI.")

	header, payload, ok := strings.Cut(uri, ",")
	if !ok || !strings.HasPrefix(header, "data:") || !strings.HasSuffix(header, ";base64") {
		return nil, nil, invalid
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil || len(data) == 0 {
		return nil, nil, invalid
	}

	mime := mimetype.Detect(data)
	if !strings.HasPrefix(mime.String(), "image/") {
		return nil, nil, invalid
	}
	return data, mime, nil
}
