package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// S3Lister implements Lister for Amazon S3 prefixes
type S3Lister struct {
	client *s3.Client
}

// NewS3Lister creates a new S3 listing backend
// Uses AWS SDK default credentials chain (env vars, config files, IAM roles)
func NewS3Lister(ctx context.Context) (*S3Lister, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &S3Lister{
		client: s3.NewFromConfig(cfg),
	}, nil
}

// NewS3ListerWithClient creates a new S3 lister with a custom client
// Useful for testing and custom configurations
func NewS3ListerWithClient(client *s3.Client) *S3Lister {
	return &S3Lister{
		client: client,
	}
}

// parseS3URI parses s3://bucket/prefix into bucket and prefix. An empty
// prefix lists the whole bucket.
func parseS3URI(uri string) (bucket, prefix string, err error) {
	scheme, path, err := ParseURI(uri)
	if err != nil {
		return "", "", err
	}

	if scheme != "s3" {
		return "", "", fmt.Errorf("S3 lister only supports s3:// URIs, got %s://", scheme)
	}

	// path is "bucket/prefix"
	parts := strings.SplitN(path, "/", 2)
	if len(parts) < 1 || parts[0] == "" {
		return "", "", fmt.Errorf("invalid S3 URI: missing bucket name")
	}

	bucket = parts[0]
	if len(parts) > 1 {
		prefix = parts[1]
	}

	return bucket, prefix, nil
}

// List enumerates the object keys under an s3://bucket/prefix URI and
// returns their base names, paginating through the full result set
func (s *S3Lister) List(ctx context.Context, uri string) ([]string, error) {
	bucket, prefix, err := parseS3URI(uri)
	if err != nil {
		return nil, err
	}

	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
	}
	if prefix != "" {
		input.Prefix = aws.String(prefix)
	}

	var names []string
	paginator := s3.NewListObjectsV2Paginator(s.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			var apiErr smithy.APIError
			if errors.As(err, &apiErr) && apiErr.ErrorCode() == "NoSuchBucket" {
				return nil, fmt.Errorf("bucket %s does not exist", bucket)
			}
			return nil, fmt.Errorf("failed to list S3 objects: %w", err)
		}
		for _, obj := range page.Contents {
			names = append(names, baseName(aws.ToString(obj.Key)))
		}
	}

	return names, nil
}

// baseName strips the key prefix up to the last slash
func baseName(key string) string {
	if i := strings.LastIndex(key, "/"); i >= 0 {
		return key[i+1:]
	}
	return key
}
