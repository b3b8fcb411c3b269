package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// ReelPrefix is the key prefix every reel is stored under.
const ReelPrefix = "reels/"

// AllowedVideoTypes lists the content types accepted for reels.
var AllowedVideoTypes = map[string]bool{
	"video/mp4": true,
	"video/mov": true,
	"video/avi": true,
}

var (
	ErrReelNotFound         = errors.New("reel not found")
	ErrStorageNotConfigured = errors.New("object storage is not configured")
	// ErrStorageAccess covers rejected credentials and bucket misconfiguration.
	ErrStorageAccess = errors.New("object storage rejected credentials or configuration")
)

// accessErrorCodes are provider error codes caused by credentials or bucket setup.
var accessErrorCodes = map[string]bool{
	"InvalidAccessKeyId":           true,
	"SignatureDoesNotMatch":        true,
	"AccessDenied":                 true,
	"ExpiredToken":                 true,
	"InvalidToken":                 true,
	"NoSuchBucket":                 true,
	"PermanentRedirect":            true,
	"AuthorizationHeaderMalformed": true,
}

// UploadResult contains the result of a reel upload.
type UploadResult struct {
	Key    string `json:"key"`
	URL    string `json:"url"`
	Bucket string `json:"bucket"`
	Region string `json:"region"`
	Size   int64  `json:"size"`
}

// S3Store keeps reels in an S3 bucket.
type S3Store struct {
	client *s3.Client
	bucket string
	region string
}

// NewS3Store creates an S3Store. Static credentials are used when both keys are set,
// otherwise the default AWS credential chain applies.
func NewS3Store(ctx context.Context, accessKey, secretKey, region, bucket string) (*S3Store, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if accessKey != "" && secretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return NewS3StoreFromClient(s3.NewFromConfig(cfg), region, bucket), nil
}

// NewS3StoreFromClient wraps an existing client.
func NewS3StoreFromClient(client *s3.Client, region, bucket string) *S3Store {
	return &S3Store{client: client, bucket: bucket, region: region}
}

// ObjectURL returns the public URL of key.
func (s *S3Store) ObjectURL(key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}

// UploadReel streams body to reels/<filename>.
func (s *S3Store) UploadReel(ctx context.Context, filename, contentType string, body io.Reader, size int64) (*UploadResult, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	key := ReelPrefix + filename
	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	}
	if size > 0 {
		input.ContentLength = aws.Int64(size)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return nil, classifyError(fmt.Errorf("failed to upload to S3: %w", err))
	}

	return &UploadResult{
		Key:    key,
		URL:    s.ObjectURL(key),
		Bucket: s.bucket,
		Region: s.region,
		Size:   size,
	}, nil
}

// ListReels returns the URL of every object under the reel prefix.
func (s *S3Store) ListReels(ctx context.Context) ([]string, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(ReelPrefix),
	})

	var urls []string
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, classifyError(fmt.Errorf("failed to list S3 objects: %w", err))
		}
		for _, obj := range page.Contents {
			urls = append(urls, s.ObjectURL(aws.ToString(obj.Key)))
		}
	}
	return urls, nil
}

// DeleteReel removes reels/<filename>. S3 deletes are idempotent, so the key is
// checked first and a missing one reported as ErrReelNotFound.
func (s *S3Store) DeleteReel(ctx context.Context, filename string) error {
	if err := s.ready(); err != nil {
		return err
	}

	key := ReelPrefix + filename
	if _, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}); err != nil {
		return classifyError(fmt.Errorf("failed to look up S3 object: %w", err))
	}

	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}); err != nil {
		return classifyError(fmt.Errorf("failed to delete from S3: %w", err))
	}
	return nil
}

func (s *S3Store) ready() error {
	if s.client == nil || strings.TrimSpace(s.bucket) == "" {
		return ErrStorageNotConfigured
	}
	return nil
}

// classifyError maps provider errors onto ErrReelNotFound and ErrStorageAccess,
// leaving everything else untouched.
func classifyError(err error) error {
	var noSuchKey *types.NoSuchKey
	var notFound *types.NotFound
	if errors.As(err, &noSuchKey) || errors.As(err, &notFound) {
		return fmt.Errorf("%w: %w", ErrReelNotFound, err)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && accessErrorCodes[apiErr.ErrorCode()] {
		return fmt.Errorf("%w: %w", ErrStorageAccess, err)
	}
	return err
}
