// Package s3mirror copies every persisted snapshot to an S3-compatible bucket
// (AWS S3 or MinIO) and can hydrate an empty store from it.
package s3mirror

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/frahmantamala/mvd-portal/internal/store"
)

type Config struct {
	Bucket          string
	Region          string
	Endpoint        string // optional, e.g. a MinIO URL
	PathStyle       bool
	Prefix          string
	AccessKeyID     string // optional, default credential chain otherwise
	SecretAccessKey string
}

type Mirror struct {
	client *s3.Client
	bucket string
	object string
}

func New(ctx context.Context, cfg Config, key string, optFns ...func(*s3.Options)) (*Mirror, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 mirror: bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("s3 mirror: load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
		o.ResponseChecksumValidation = aws.ResponseChecksumValidationWhenRequired
		for _, fn := range optFns {
			fn(o)
		}
	})

	return &Mirror{client: client, bucket: cfg.Bucket, object: cfg.Prefix + key + ".json"}, nil
}

// ObjectKey is the object name the snapshot is mirrored under.
func (m *Mirror) ObjectKey() string {
	return m.object
}

func (m *Mirror) Upload(ctx context.Context, payload []byte) error {
	_, err := m.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(m.bucket),
		Key:           aws.String(m.object),
		Body:          bytes.NewReader(payload),
		ContentLength: aws.Int64(int64(len(payload))),
		ContentType:   aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("s3 mirror: put %s: %w", m.object, err)
	}
	return nil
}

// Fetch returns the mirrored payload or store.ErrEmpty when no object exists.
func (m *Mirror) Fetch(ctx context.Context) ([]byte, error) {
	out, err := m.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(m.bucket),
		Key:    aws.String(m.object),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, store.ErrEmpty
		}
		return nil, fmt.Errorf("s3 mirror: get %s: %w", m.object, err)
	}
	defer out.Body.Close()

	payload, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("s3 mirror: read %s: %w", m.object, err)
	}
	return payload, nil
}

func isNotFound(err error) bool {
	var noKey *types.NoSuchKey
	if errors.As(err, &noKey) {
		return true
	}
	var respErr *awshttp.ResponseError
	return errors.As(err, &respErr) && respErr.HTTPStatusCode() == http.StatusNotFound
}
