package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	appcfg "cv-intake/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

const defaultContentType = "application/octet-stream"

// UploadError is a fatal object-storage failure. Code carries the provider's
// error category when one is available.
type UploadError struct {
	Code  string
	Cause error
}

func (e *UploadError) Error() string {
	if e == nil {
		return ""
	}
	if e.Code != "" {
		return fmt.Sprintf("upload failed (%s): %v", e.Code, e.Cause)
	}
	return fmt.Sprintf("upload failed: %v", e.Cause)
}

func (e *UploadError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

type Uploader interface {
	Upload(ctx context.Context, content io.Reader, fileName, contentType string) (string, error)
}

type s3Uploader struct {
	client *s3.Client
	bucket string
	region string
	logger *log.Logger

	now func() time.Time
}

// NewS3Uploader builds the uploader from startup configuration. Credential
// validation happened at config load; a constructor error here is fatal to the
// process.
func NewS3Uploader(ctx context.Context, cfg appcfg.StorageConfig, logger *log.Logger) (Uploader, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, err
	}

	return &s3Uploader{
		client: s3.NewFromConfig(awsCfg),
		bucket: cfg.Bucket,
		region: cfg.Region,
		logger: logger,
		now:    time.Now,
	}, nil
}

func (u *s3Uploader) Upload(ctx context.Context, content io.Reader, fileName, contentType string) (string, error) {
	if u == nil || u.client == nil {
		return "", &UploadError{Cause: errors.New("nil uploader")}
	}

	buf, err := io.ReadAll(content)
	if err != nil {
		return "", &UploadError{Cause: err}
	}

	ct := strings.TrimSpace(contentType)
	if ct == "" {
		ct = defaultContentType
	}

	key := fmt.Sprintf("cv/%d-%s", u.now().UnixMilli(), strings.TrimSpace(fileName))

	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(buf),
		ContentType: aws.String(ct),
	})
	if err != nil {
		code := ""
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			code = apiErr.ErrorCode()
		}
		if u.logger != nil {
			u.logger.Printf("[Storage] Upload failed key=%s code=%s err=%v", key, code, err)
		}
		return "", &UploadError{Code: code, Cause: err}
	}

	url := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.bucket, u.region, key)
	if u.logger != nil {
		u.logger.Printf("[Storage] Uploaded key=%s bytes=%d", key, len(buf))
	}
	return url, nil
}

var _ Uploader = (*s3Uploader)(nil)
