// Package storage downloads analytics processor results from their s3
// location.
package storage

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const defaultRegion = "us-east-1"

// S3ResultStore downloads the files an analytics processor run stored on s3
type S3ResultStore struct {
	client     *s3.Client
	downloader *manager.Downloader
}

// NewS3ResultStore creates a store from static credentials. If accessKeyID is
// empty, the default aws credentials chain is used. region may be empty.
func NewS3ResultStore(ctx context.Context, accessKeyID, secretAccessKey, region string) (*S3ResultStore, error) {
	if region == "" {
		region = defaultRegion
	}
	opts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if accessKeyID != "" {
		opts = append(opts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKeyID, secretAccessKey, "")))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("NewS3ResultStore.LoadDefaultConfig: %w", err)
	}

	client := s3.NewFromConfig(cfg)
	return &S3ResultStore{
		client: client,
		downloader: manager.NewDownloader(client, func(d *manager.Downloader) {
			d.PartSize = 10 * 1024 * 1024 // 10MB per part
		}),
	}, nil
}

// ParseURI splits an s3://bucket/prefix uri
func ParseURI(uri string) (string, string, error) {
	u, err := url.Parse(uri)
	if err != nil || u.Scheme != "s3" || u.Host == "" {
		return "", "", fmt.Errorf("ParseURI: not an s3 uri: %s", uri)
	}
	return u.Host, strings.TrimPrefix(u.Path, "/"), nil
}

// DownloadResults downloads every object under the s3 uri (as returned by
// AnalyticsProcessor.S3Path) into localDir and returns the local file paths.
func (s *S3ResultStore) DownloadResults(ctx context.Context, uri string, localDir string) ([]string, error) {
	bucket, prefix, err := ParseURI(uri)
	if err != nil {
		return nil, fmt.Errorf("DownloadResults.%w", err)
	}

	if err := os.MkdirAll(localDir, 0755); err != nil {
		return nil, fmt.Errorf("DownloadResults.MkdirAll: %w", err)
	}

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
		Prefix: aws.String(prefix),
	})

	var files []string
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("DownloadResults.NextPage: %w", err)
		}
		for _, object := range page.Contents {
			objectKey := aws.ToString(object.Key)
			localFilePath := path.Join(localDir, objectKey[strings.LastIndex(objectKey, "/")+1:])
			if err := s.downloadObjectToFile(ctx, bucket, objectKey, localFilePath); err != nil {
				return nil, fmt.Errorf("DownloadResults.%w", err)
			}
			files = append(files, localFilePath)
		}
	}
	return files, nil
}

func (s *S3ResultStore) downloadObjectToFile(ctx context.Context, bucket, objectKey, localPath string) error {
	file, err := os.Create(localPath)
	if err != nil {
		return fmt.Errorf("downloadObjectToFile: failed to create file %s: %w", localPath, err)
	}
	defer file.Close()

	if _, err = s.downloader.Download(ctx, file, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(objectKey),
	}); err != nil {
		return fmt.Errorf("downloadObjectToFile: failed to download object %s:%s: %w", bucket, objectKey, err)
	}
	return nil
}
