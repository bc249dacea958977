package blob

import (
	"context"
	stderrs "errors"
	"io"
	"sort"
	"strings"

	perr "brreg/internal/platform/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// s3API is the slice of the S3 client the store uses
type s3API interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// S3Config holds explicit construction parameters
type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string // optional; custom endpoint such as MinIO
	PathStyle bool
	Prefix    string // optional key prefix, e.g. "companies/"
}

// S3 stores keys as objects in one bucket below an optional prefix
type S3 struct {
	client s3API
	bucket string
	prefix string
}

// NewS3 builds an S3 store using the default AWS credential chain
func NewS3(ctx context.Context, cfg S3Config) (*S3, error) {
	if cfg.Bucket == "" {
		return nil, perr.Configf("s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeConfig, "load aws config")
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.PathStyle {
			o.UsePathStyle = true
		}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return newS3WithClient(client, cfg.Bucket, cfg.Prefix), nil
}

func newS3WithClient(client s3API, bucket, prefix string) *S3 {
	prefix = strings.Trim(prefix, "/")
	if prefix != "" {
		prefix += "/"
	}
	return &S3{client: client, bucket: bucket, prefix: prefix}
}

// Driver implements Store
func (s *S3) Driver() Driver { return DriverS3 }

// Location implements Store
func (s *S3) Location() string { return "s3://" + s.bucket + "/" + s.prefix }

func (s *S3) objectKey(key string) (string, error) {
	k, err := sanitizeKey(key)
	if err != nil {
		return "", err
	}
	return s.prefix + k, nil
}

// Get implements Store
func (s *S3) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	ok, err := s.objectKey(key)
	if err != nil {
		return nil, err
	}
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{Bucket: &s.bucket, Key: &ok})
	if err != nil {
		if isNotFound(err) {
			return nil, perr.NotFoundf("%s%s not found", s.Location(), key)
		}
		return nil, perr.IOf(err, "get %s", ok)
	}
	return out.Body, nil
}

// Put implements Store; S3 object writes replace the whole object atomically
func (s *S3) Put(ctx context.Context, key string, r io.Reader) error {
	ok, err := s.objectKey(key)
	if err != nil {
		return err
	}
	ct := "text/csv; charset=utf-8"
	if _, err := s.client.PutObject(ctx, &s3.PutObjectInput{Bucket: &s.bucket, Key: &ok, Body: r, ContentType: &ct}); err != nil {
		return perr.IOf(err, "put %s", ok)
	}
	return nil
}

// Exists implements Store
func (s *S3) Exists(ctx context.Context, key string) (bool, error) {
	ok, err := s.objectKey(key)
	if err != nil {
		return false, err
	}
	if _, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{Bucket: &s.bucket, Key: &ok}); err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, perr.IOf(err, "head %s", ok)
	}
	return true, nil
}

// List implements Store
func (s *S3) List(ctx context.Context, prefix string) ([]string, error) {
	full := s.prefix + prefix
	var keys []string
	var token *string
	for {
		out, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{Bucket: &s.bucket, Prefix: &full, ContinuationToken: token})
		if err != nil {
			return nil, perr.IOf(err, "list %s", full)
		}
		for _, obj := range out.Contents {
			k := strings.TrimPrefix(aws.ToString(obj.Key), s.prefix)
			if k == "" || hidden(k) {
				continue
			}
			keys = append(keys, k)
		}
		if aws.ToBool(out.IsTruncated) && out.NextContinuationToken != nil {
			token = out.NextContinuationToken
			continue
		}
		break
	}
	sort.Strings(keys)
	return keys, nil
}

// Lock implements Store using a conditional create (If-None-Match: *)
func (s *S3) Lock(ctx context.Context, owner string) (Release, error) {
	key := s.prefix + LockKey
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &s.bucket,
		Key:         &key,
		Body:        strings.NewReader(owner),
		IfNoneMatch: aws.String("*"),
	})
	if err != nil {
		if isPreconditionFailed(err) {
			holder := ""
			if out, gerr := s.client.GetObject(ctx, &s3.GetObjectInput{Bucket: &s.bucket, Key: &key}); gerr == nil {
				b, _ := io.ReadAll(io.LimitReader(out.Body, 256))
				_ = out.Body.Close()
				holder = string(b)
			}
			return nil, lockConflict(s.Location(), holder)
		}
		return nil, perr.IOf(err, "create lock %s", key)
	}
	return func() error {
		// the run context may already be cancelled when releasing
		if _, err := s.client.DeleteObject(context.WithoutCancel(ctx), &s3.DeleteObjectInput{Bucket: &s.bucket, Key: &key}); err != nil {
			return perr.IOf(err, "delete lock %s", key)
		}
		return nil
	}, nil
}

func isNotFound(err error) bool {
	var nsk *types.NoSuchKey
	if stderrs.As(err, &nsk) {
		return true
	}
	var nf *types.NotFound
	if stderrs.As(err, &nf) {
		return true
	}
	var api smithy.APIError
	if stderrs.As(err, &api) {
		switch api.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}
	return false
}

func isPreconditionFailed(err error) bool {
	var api smithy.APIError
	if stderrs.As(err, &api) {
		switch api.ErrorCode() {
		case "PreconditionFailed", "ConditionalRequestConflict":
			return true
		}
	}
	return false
}
