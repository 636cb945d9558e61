// Package mirror copies saved search reports to an S3 bucket.
package mirror

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Settings name the destination bucket. An empty Bucket disables mirroring.
type Settings struct {
	Bucket string
	Prefix string
	Region string
}

func (s Settings) Enabled() bool {
	return strings.TrimSpace(s.Bucket) != ""
}

// Uploader stores one report and returns where it landed.
type Uploader interface {
	Upload(ctx context.Context, key string, body []byte) (string, error)
}

type objectUploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// S3 is an Uploader backed by the s3 transfer manager.
type S3 struct {
	settings Settings
	uploader objectUploader
}

// New builds an S3 mirror using the default AWS credential chain.
func New(ctx context.Context, settings Settings) (*S3, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region := strings.TrimSpace(settings.Region); region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	return &S3{
		settings: settings,
		uploader: manager.NewUploader(s3.NewFromConfig(cfg)),
	}, nil
}

// Key maps a vault-relative note path to an object key under the prefix.
func (m *S3) Key(rel string) string {
	rel = strings.TrimPrefix(path.Clean("/"+strings.ReplaceAll(rel, "\\", "/")), "/")
	prefix := strings.Trim(m.settings.Prefix, "/")
	if prefix == "" {
		return rel
	}
	return prefix + "/" + rel
}

func (m *S3) Upload(ctx context.Context, rel string, body []byte) (string, error) {
	key := m.Key(rel)
	out, err := m.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(m.settings.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("text/markdown; charset=utf-8"),
	})
	if err != nil {
		return "", fmt.Errorf("uploading s3://%s/%s: %w", m.settings.Bucket, key, err)
	}
	if out != nil && out.Location != "" {
		return out.Location, nil
	}
	return fmt.Sprintf("s3://%s/%s", m.settings.Bucket, key), nil
}
