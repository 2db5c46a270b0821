package server

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Mirror pushes each accepted page to an S3-compatible bucket so the site
// survives loss of the local web root. It is optional: with no endpoint
// configured the server publishes to the local file only.
type Mirror struct {
	client    *minio.Client
	bucket    string
	objectKey string
}

func parseEndpoint(raw string) (endpoint string, secure bool, err error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false, fmt.Errorf("empty endpoint")
	}

	// Accept either "minio:9000" or "http://minio:9000" / "https://minio:9000".
	if strings.Contains(raw, "://") {
		u, err := url.Parse(raw)
		if err != nil {
			return "", false, err
		}
		if u.Host == "" {
			return "", false, fmt.Errorf("invalid endpoint")
		}
		if u.Path != "" && u.Path != "/" {
			return "", false, fmt.Errorf("endpoint must not contain a path")
		}
		secure = (u.Scheme == "https")
		return u.Host, secure, nil
	}

	// No scheme provided, treat as host:port (insecure by default for local MinIO).
	return raw, false, nil
}

// NewMirrorFromEnv builds a mirror from PGT_S3_* variables. Returns
// (nil, nil) when PGT_S3_ENDPOINT is unset, and an error when the
// remaining configuration is incomplete or the bucket is unreachable.
func NewMirrorFromEnv() (*Mirror, error) {
	rawEndpoint := os.Getenv("PGT_S3_ENDPOINT")
	if rawEndpoint == "" {
		return nil, nil
	}

	accessKey := os.Getenv("PGT_S3_ACCESS_KEY")
	secretKey := os.Getenv("PGT_S3_SECRET_KEY")
	bucket := os.Getenv("PGT_BUCKET")
	if accessKey == "" || secretKey == "" || bucket == "" {
		return nil, fmt.Errorf("mirror configuration incomplete")
	}

	objectKey := os.Getenv("PGT_OBJECT_KEY")
	if objectKey == "" {
		objectKey = "index.html"
	}

	endpoint, secure, err := parseEndpoint(rawEndpoint)
	if err != nil {
		return nil, err
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: secure,
	})
	if err != nil {
		return nil, err
	}

	// Sanity check: bucket must exist.
	exists, err := client.BucketExists(context.Background(), bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("mirror bucket does not exist: %s", bucket)
	}

	return &Mirror{client: client, bucket: bucket, objectKey: objectKey}, nil
}

// Push uploads the page body under the configured object key.
func (m *Mirror) Push(ctx context.Context, body []byte) error {
	_, err := m.client.PutObject(
		ctx,
		m.bucket,
		m.objectKey,
		bytes.NewReader(body),
		int64(len(body)),
		minio.PutObjectOptions{ContentType: "text/html; charset=utf-8"},
	)
	return err
}

// Check verifies the bucket is still reachable.
func (m *Mirror) Check(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("mirror bucket does not exist: %s", m.bucket)
	}
	return nil
}

// mirrorAsync pushes the accepted body in the background. Failures are
// logged and counted only; the HTTP response has already been decided.
func (s *Server) mirrorAsync(body []byte, rid string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		if err := s.cfg.Mirror.Push(ctx, body); err != nil {
			GetMetrics().RecordMirrorError()
			Error("mirror push failed", map[string]any{"request_id": rid}, err)
			return
		}
		GetMetrics().RecordMirrorPush(int64(len(body)))
		Info("mirror push ok", map[string]any{"request_id": rid, "bytes": len(body)})
	}()
}
