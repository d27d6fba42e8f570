package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"
)

// Uploader mirrors result files into an S3 bucket, keyed by the same
// store/category/date layout the local tree uses.
type Uploader struct {
	client *s3.Client
	bucket string
}

// NewUploader builds an Uploader from the default AWS credential
// chain. An empty bucket disables uploading and returns nil.
func NewUploader(ctx context.Context, region, bucket string) (*Uploader, error) {
	if bucket == "" {
		return nil, nil
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}
	return &Uploader{client: s3.NewFromConfig(cfg), bucket: bucket}, nil
}

// UploadFile puts one local result file into the bucket. The object
// key is the file path relative to the output root, slash-separated.
func (u *Uploader) UploadFile(ctx context.Context, outputRoot, path string) error {
	rel, err := filepath.Rel(outputRoot, path)
	if err != nil {
		rel = filepath.Base(path)
	}
	key := filepath.ToSlash(rel)

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	contentType := "text/csv"
	if strings.HasSuffix(path, ".json") {
		contentType = "application/json"
	}

	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s to S3: %w", key, err)
	}

	logrus.WithFields(logrus.Fields{"bucket": u.bucket, "key": key}).Info("Uploaded result file")
	return nil
}
