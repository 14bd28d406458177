// Package s3 mirrors packaged archives to an S3-compatible bucket.
package s3

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/custodia-labs/scanprep/internal/core/domain"
	"github.com/custodia-labs/scanprep/internal/core/ports/driven"
)

// Ensure Mirror implements the interface.
var _ driven.ArchiveMirror = (*Mirror)(nil)

// DefaultRegion is used when no region is configured.
const DefaultRegion = "us-east-1"

// Config holds configuration for the archive mirror.
type Config struct {
	Bucket string
	Region string

	// Endpoint overrides the service address (MinIO, Localstack, ...).
	// Path-style addressing is used when set.
	Endpoint string

	// Static credentials. When empty the default AWS credential chain
	// (environment, shared config, instance role) applies.
	AccessKeyID     string
	SecretAccessKey string
}

// Mirror uploads files with PutObject.
type Mirror struct {
	client *s3.Client
	bucket string
}

// NewMirror loads the AWS configuration and creates the S3 client.
func NewMirror(ctx context.Context, cfg Config) (*Mirror, error) {
	if cfg.Bucket == "" {
		return nil, domain.ErrMirrorNotConfigured
	}
	if cfg.Region == "" {
		cfg.Region = DefaultRegion
	}

	configOptions := []func(*awsConfig.LoadOptions) error{
		awsConfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		configOptions = append(configOptions, awsConfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsConfig.LoadDefaultConfig(ctx, configOptions...)
	if err != nil {
		return nil, fmt.Errorf("%w: loading AWS config: %w", domain.ErrConfiguration, err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
	})

	return &Mirror{client: client, bucket: cfg.Bucket}, nil
}

// Put uploads filePath under key and returns its s3:// location.
func (m *Mirror) Put(ctx context.Context, key, filePath string) (string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrNotFound, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrIO, err)
	}

	_, err = m.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(m.bucket),
		Key:           aws.String(key),
		Body:          f,
		ContentLength: aws.Int64(info.Size()),
	})
	if err != nil {
		return "", fmt.Errorf("%w: put object %s: %w", domain.ErrTransport, key, err)
	}

	return "s3://" + m.bucket + "/" + key, nil
}
