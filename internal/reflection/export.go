package reflection

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3API is the slice of the S3 client Exporter uses.
type S3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Exporter uploads finished reflections to S3 for sharing through a CDN.
type Exporter struct {
	client     S3API
	bucket     string
	cdnBaseURL string
}

func NewExporter(client S3API, bucket, cdnBaseURL string) *Exporter {
	return &Exporter{client: client, bucket: bucket, cdnBaseURL: strings.TrimSuffix(cdnBaseURL, "/")}
}

type exportDoc struct {
	*Session
	ExportedAt time.Time `json:"exportedAt"`
}

// Export uploads the session as JSON and returns its key and public URL.
func (e *Exporter) Export(ctx context.Context, sess *Session) (key, url string, err error) {
	key = "reflections/" + sess.ID + ".json"

	body, err := json.MarshalIndent(exportDoc{Session: sess, ExportedAt: time.Now().UTC()}, "", "  ")
	if err != nil {
		return "", "", fmt.Errorf("marshal export: %w", err)
	}

	_, err = e.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        &e.bucket,
		Key:           &key,
		Body:          bytes.NewReader(body),
		ContentType:   aws.String("application/json"),
		ContentLength: aws.Int64(int64(len(body))),
	})
	if err != nil {
		return "", "", fmt.Errorf("upload to s3: %w", err)
	}

	url = e.cdnBaseURL + "/" + key
	return key, url, nil
}
