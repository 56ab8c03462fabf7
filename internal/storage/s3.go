package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/url"
	"time"

	appconfig "shelf/internal/config"
	"shelf/internal/errs"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/transfermanager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	CopyObject(ctx context.Context, params *s3.CopyObjectInput, optFns ...func(*s3.Options)) (*s3.CopyObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

type s3Uploader interface {
	UploadObject(ctx context.Context, input *transfermanager.UploadObjectInput, optFns ...func(*transfermanager.Options)) (*transfermanager.UploadObjectOutput, error)
}

// S3Client talks to AWS S3. Plain puts stream through the transfer
// manager; puts that request SSE-KMS go through the api directly so the
// encryption headers ride on a single request.
type S3Client struct {
	api            s3API
	uploader       s3Uploader
	requestTimeout time.Duration
}

func NewS3Client(cfg appconfig.S3Config) (*S3Client, error) {
	if cfg.Region == "" {
		return nil, errors.New("s3 region is required")
	}
	if cfg.Endpoint != "" {
		u, err := url.Parse(cfg.Endpoint)
		if err != nil || u.Host == "" {
			return nil, errors.New("s3 endpoint must be a valid http(s) URL")
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return nil, errors.New("s3 endpoint must use http or https")
		}
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, err
	}
	if cfg.Endpoint != "" {
		awsCfg.BaseEndpoint = aws.String(cfg.Endpoint)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.UsePathStyle = true
		}
	})

	return &S3Client{
		api:            client,
		uploader:       transfermanager.New(client),
		requestTimeout: cfg.Timeout(),
	}, nil
}

// NewFromConfig selects the driver named by the config: the local
// filesystem client by default, AWS S3, or a MinIO-compatible endpoint.
func NewFromConfig(cfg appconfig.S3Config, localRoot string) (ObjectStore, error) {
	switch cfg.Driver {
	case "", appconfig.DriverLocal:
		return NewLocalClient(localRoot), nil
	case appconfig.DriverAWS:
		return NewS3Client(cfg)
	case appconfig.DriverMinio:
		return NewMinioClient(cfg)
	default:
		return nil, errs.Newf(errs.KindValidation, "unsupported s3 driver %q", cfg.Driver)
	}
}

func (c *S3Client) PutObject(ctx context.Context, bucket, key string, data []byte, opts PutOptions) error {
	ctx, cancel := c.opContext(ctx)
	defer cancel()

	if opts.SSEKMSKeyID != "" {
		if c.api == nil {
			return errs.New(errs.KindBackend, "s3 api client is not configured")
		}
		input := &s3.PutObjectInput{
			Bucket:               aws.String(bucket),
			Key:                  aws.String(key),
			Body:                 bytes.NewReader(data),
			ContentLength:        aws.Int64(int64(len(data))),
			ServerSideEncryption: types.ServerSideEncryptionAwsKms,
			SSEKMSKeyId:          aws.String(opts.SSEKMSKeyID),
		}
		if _, err := c.api.PutObject(ctx, input); err != nil {
			return mapAWSError("put object", err)
		}
		return nil
	}

	if c.uploader == nil {
		return errs.New(errs.KindBackend, "s3 uploader is not configured")
	}
	input := &transfermanager.UploadObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
	}
	if _, err := c.uploader.UploadObject(ctx, input); err != nil {
		return mapAWSError("put object", err)
	}
	return nil
}

func (c *S3Client) GetObject(ctx context.Context, bucket, key string) ([]byte, error) {
	if c.api == nil {
		return nil, errs.New(errs.KindBackend, "s3 api client is not configured")
	}

	ctx, cancel := c.opContext(ctx)
	defer cancel()

	out, err := c.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, mapAWSError("get object", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, errs.Wrap(errs.KindBackend, "read object body", err)
	}
	return data, nil
}

func (c *S3Client) DeleteObject(ctx context.Context, bucket, key string) error {
	if c.api == nil {
		return errs.New(errs.KindBackend, "s3 api client is not configured")
	}

	ctx, cancel := c.opContext(ctx)
	defer cancel()

	if _, err := c.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}); err != nil {
		return mapAWSError("delete object", err)
	}
	return nil
}

func (c *S3Client) HeadObject(ctx context.Context, bucket, key string) error {
	if c.api == nil {
		return errs.New(errs.KindBackend, "s3 api client is not configured")
	}

	ctx, cancel := c.opContext(ctx)
	defer cancel()

	if _, err := c.api.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}); err != nil {
		return mapAWSError("head object", err)
	}
	return nil
}

func (c *S3Client) ListObjectsPage(ctx context.Context, bucket, prefix, token string) (Page, error) {
	if c.api == nil {
		return Page{}, errs.New(errs.KindBackend, "s3 api client is not configured")
	}

	ctx, cancel := c.opContext(ctx)
	defer cancel()

	input := &s3.ListObjectsV2Input{Bucket: aws.String(bucket)}
	if prefix != "" {
		input.Prefix = aws.String(prefix)
	}
	if token != "" {
		input.ContinuationToken = aws.String(token)
	}

	out, err := c.api.ListObjectsV2(ctx, input)
	if err != nil {
		return Page{}, mapAWSError("list objects", err)
	}

	page := Page{
		NextToken: aws.ToString(out.NextContinuationToken),
		Truncated: aws.ToBool(out.IsTruncated),
	}
	for _, obj := range out.Contents {
		if obj.Key == nil {
			continue
		}
		page.Keys = append(page.Keys, *obj.Key)
	}
	return page, nil
}

func (c *S3Client) CopyObject(ctx context.Context, bucket, srcKey, dstKey string) error {
	if c.api == nil {
		return errs.New(errs.KindBackend, "s3 api client is not configured")
	}

	ctx, cancel := c.opContext(ctx)
	defer cancel()

	if _, err := c.api.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(bucket),
		Key:        aws.String(dstKey),
		CopySource: aws.String(url.PathEscape(bucket + "/" + srcKey)),
	}); err != nil {
		return mapAWSError("copy object", err)
	}
	return nil
}

func (c *S3Client) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.requestTimeout > 0 {
		return context.WithTimeout(ctx, c.requestTimeout)
	}
	return ctx, func() {}
}

// mapAWSError classifies SDK failures, keeping the cause chain intact so
// errors.Is still sees context deadline errors.
func mapAWSError(op string, err error) error {
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return errs.Wrap(errs.KindNotFound, op, err)
	}
	var notFound *types.NotFound
	if errors.As(err, &notFound) {
		return errs.Wrap(errs.KindNotFound, op, err)
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NoSuchBucket", "NotFound":
			return errs.Wrap(errs.KindNotFound, op, err)
		}
	}
	return errs.Wrap(errs.KindBackend, op, err)
}
