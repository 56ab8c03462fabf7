package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	appconfig "shelf/internal/config"
	"shelf/internal/errs"

	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/minio/minio-go/v7/pkg/encrypt"
)

const minioPageSize = 1000

// MinioClient talks to MinIO or any S3-compatible endpoint through the
// MinIO SDK. It is safe for concurrent use by multiple goroutines.
type MinioClient struct {
	client         *miniogo.Client
	requestTimeout time.Duration
	pageSize       int
}

func NewMinioClient(cfg appconfig.S3Config) (*MinioClient, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("s3 endpoint is required for the minio driver")
	}
	host, secure, err := endpointHost(cfg.Endpoint)
	if err != nil {
		return nil, err
	}
	if cfg.Insecure {
		secure = false
	}

	client, err := miniogo.New(host, &miniogo.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: secure,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, errs.Wrap(errs.KindBackend, "create minio client", err)
	}

	return &MinioClient{
		client:         client,
		requestTimeout: cfg.Timeout(),
		pageSize:       minioPageSize,
	}, nil
}

// endpointHost strips an optional http(s) scheme from the configured
// endpoint. The MinIO SDK wants a bare host:port and a separate TLS flag.
func endpointHost(endpoint string) (string, bool, error) {
	if !strings.Contains(endpoint, "://") {
		return endpoint, true, nil
	}
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return "", false, errors.New("s3 endpoint must be a valid http(s) URL")
	}
	switch u.Scheme {
	case "http":
		return u.Host, false, nil
	case "https":
		return u.Host, true, nil
	default:
		return "", false, errors.New("s3 endpoint must use http or https")
	}
}

func (c *MinioClient) PutObject(ctx context.Context, bucket, key string, data []byte, opts PutOptions) error {
	ctx, cancel := c.opContext(ctx)
	defer cancel()

	putOpts := miniogo.PutObjectOptions{}
	if opts.SSEKMSKeyID != "" {
		sse, err := encrypt.NewSSEKMS(opts.SSEKMSKeyID, nil)
		if err != nil {
			return errs.Wrap(errs.KindValidation, "configure sse-kms", err)
		}
		putOpts.ServerSideEncryption = sse
	}

	if _, err := c.client.PutObject(ctx, bucket, key, bytes.NewReader(data), int64(len(data)), putOpts); err != nil {
		return mapMinioError("put object", err)
	}
	return nil
}

func (c *MinioClient) GetObject(ctx context.Context, bucket, key string) ([]byte, error) {
	ctx, cancel := c.opContext(ctx)
	defer cancel()

	obj, err := c.client.GetObject(ctx, bucket, key, miniogo.GetObjectOptions{})
	if err != nil {
		return nil, mapMinioError("get object", err)
	}
	defer obj.Close()

	// The SDK opens the stream lazily, so a missing key surfaces here.
	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, mapMinioError("read object body", err)
	}
	return data, nil
}

func (c *MinioClient) DeleteObject(ctx context.Context, bucket, key string) error {
	ctx, cancel := c.opContext(ctx)
	defer cancel()

	if err := c.client.RemoveObject(ctx, bucket, key, miniogo.RemoveObjectOptions{}); err != nil {
		return mapMinioError("delete object", err)
	}
	return nil
}

func (c *MinioClient) HeadObject(ctx context.Context, bucket, key string) error {
	ctx, cancel := c.opContext(ctx)
	defer cancel()

	if _, err := c.client.StatObject(ctx, bucket, key, miniogo.StatObjectOptions{}); err != nil {
		return mapMinioError("stat object", err)
	}
	return nil
}

func (c *MinioClient) ListObjectsPage(ctx context.Context, bucket, prefix, token string) (Page, error) {
	ctx, cancel := c.opContext(ctx)
	defer cancel()

	size := c.pageSize
	if size <= 0 {
		size = minioPageSize
	}

	opts := miniogo.ListObjectsOptions{
		Prefix:     prefix,
		Recursive:  true,
		StartAfter: token,
	}

	var page Page
	for obj := range c.client.ListObjects(ctx, bucket, opts) {
		if obj.Err != nil {
			return Page{}, mapMinioError("list objects", obj.Err)
		}
		// Reading one entry past the page size tells us more remain;
		// the deferred cancel stops the lister goroutine.
		if len(page.Keys) == size {
			page.Truncated = true
			page.NextToken = page.Keys[len(page.Keys)-1]
			break
		}
		page.Keys = append(page.Keys, obj.Key)
	}
	return page, nil
}

func (c *MinioClient) CopyObject(ctx context.Context, bucket, srcKey, dstKey string) error {
	ctx, cancel := c.opContext(ctx)
	defer cancel()

	dst := miniogo.CopyDestOptions{Bucket: bucket, Object: dstKey}
	src := miniogo.CopySrcOptions{Bucket: bucket, Object: srcKey}
	if _, err := c.client.CopyObject(ctx, dst, src); err != nil {
		return mapMinioError("copy object", err)
	}
	return nil
}

func (c *MinioClient) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.requestTimeout > 0 {
		return context.WithTimeout(ctx, c.requestTimeout)
	}
	return context.WithCancel(ctx)
}

// mapMinioError translates a MinIO SDK error, keeping the cause chain
// intact so errors.Is still sees context deadline errors.
func mapMinioError(op string, err error) error {
	var resp miniogo.ErrorResponse
	if errors.As(err, &resp) {
		if resp.StatusCode == http.StatusNotFound {
			return errs.Wrap(errs.KindNotFound, op, err)
		}
		switch resp.Code {
		case "NoSuchBucket", "NoSuchKey", "NoSuchUpload":
			return errs.Wrap(errs.KindNotFound, op, err)
		case "InvalidBucketName", "InvalidObjectName", "KeyTooLongError":
			return errs.Wrap(errs.KindValidation, op, err)
		}
	}
	return errs.Wrap(errs.KindBackend, op, err)
}
