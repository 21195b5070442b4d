package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type R2ArchiverConfig struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	// Endpoint overrides the Cloudflare endpoint derived from AccountID,
	// which lets any S3-compatible store be used.
	Endpoint      string
	PublicBaseURL string
}

// objectPutter is the slice of *s3.Client the archiver needs.
type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type r2Archiver struct {
	client        objectPutter
	bucketName    string
	publicBaseURL string
}

func NewR2Archiver(ctx context.Context, cfg R2ArchiverConfig) (RoundArchiver, error) {
	if cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" || cfg.BucketName == "" {
		return nil, errors.New("invalid R2 archive configuration: access key, secret and bucket are required")
	}
	endpoint := cfg.Endpoint
	if endpoint == "" {
		if cfg.AccountID == "" {
			return nil, errors.New("invalid R2 archive configuration: endpoint or account id is required")
		}
		endpoint = fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID)
	}

	sdkCfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
		config.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS SDK config for R2: %w", err)
	}

	client := s3.NewFromConfig(sdkCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})

	return newR2Archiver(client, cfg.BucketName, cfg.PublicBaseURL), nil
}

func newR2Archiver(client objectPutter, bucketName, publicBaseURL string) *r2Archiver {
	return &r2Archiver{client: client, bucketName: bucketName, publicBaseURL: publicBaseURL}
}

func (a *r2Archiver) Archive(ctx context.Context, key string, snapshot interface{}) (*ArchiveResult, error) {
	body, err := json.MarshalIndent(snapshot, "", "\t")
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot %s: %w", key, err)
	}

	result, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload snapshot to R2 (key: %s): %w", key, err)
	}

	etag := ""
	if result.ETag != nil {
		// S3-compatible APIs return the ETag wrapped in quotes.
		etag = strings.Trim(*result.ETag, "\"")
	}

	return &ArchiveResult{
		Key:      key,
		Location: a.GetPublicURL(key),
		ETag:     etag,
	}, nil
}

func (a *r2Archiver) GetPublicURL(key string) string {
	if a.publicBaseURL == "" || key == "" {
		return ""
	}
	base, err := url.Parse(a.publicBaseURL)
	if err != nil {
		return ""
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}
	ref, err := url.Parse(strings.TrimPrefix(key, "/"))
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}
