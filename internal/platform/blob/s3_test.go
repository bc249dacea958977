package blob

import (
	"bytes"
	"context"
	"io"
	"reflect"
	"sort"
	"strings"
	"sync"
	"testing"

	perr "brreg/internal/platform/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// fakeS3 is a map-backed s3API honouring If-None-Match and paging
type fakeS3 struct {
	mu       sync.Mutex
	objects  map[string][]byte
	pageSize int
	failPut  error
}

func newFakeS3() *fakeS3 { return &fakeS3{objects: map[string][]byte{}, pageSize: 2} }

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(b))}, nil
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.failPut != nil {
		return nil, f.failPut
	}
	b, _ := io.ReadAll(in.Body)
	f.mu.Lock()
	defer f.mu.Unlock()
	key := aws.ToString(in.Key)
	if aws.ToString(in.IfNoneMatch) == "*" {
		if _, exists := f.objects[key]; exists {
			return nil, &smithy.GenericAPIError{Code: "PreconditionFailed", Message: "At least one of the pre-conditions you specified did not hold"}
		}
	}
	f.objects[key] = b
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.objects[aws.ToString(in.Key)]; !ok {
		return nil, &types.NotFound{}
	}
	return &s3.HeadObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeS3) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var keys []string
	for k := range f.objects {
		if strings.HasPrefix(k, aws.ToString(in.Prefix)) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	start := 0
	if in.ContinuationToken != nil {
		start = sort.SearchStrings(keys, *in.ContinuationToken)
	}
	end := start + f.pageSize
	if end > len(keys) {
		end = len(keys)
	}
	out := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(end < len(keys))}
	for _, k := range keys[start:end] {
		out.Contents = append(out.Contents, types.Object{Key: aws.String(k)})
	}
	if end < len(keys) {
		out.NextContinuationToken = aws.String(keys[end])
	}
	return out, nil
}

func TestS3_PutGetExistsList(t *testing.T) {
	ctx := context.Background()
	fake := newFakeS3()
	s := newS3WithClient(fake, "registry", "/companies/")

	if s.Driver() != DriverS3 || s.Location() != "s3://registry/companies/" {
		t.Fatalf("driver/location: %s %s", s.Driver(), s.Location())
	}

	for _, k := range []string{"AS/B.csv", "AS/A.csv", "ENK/A.csv", "NUF/OTHER.csv"} {
		if err := s.Put(ctx, k, strings.NewReader(k)); err != nil {
			t.Fatalf("Put: %v", err)
		}
	}
	fake.objects["other/AS/A.csv"] = []byte("outside prefix")
	fake.objects["companies/"+LockKey] = []byte("run")

	if _, ok := fake.objects["companies/AS/A.csv"]; !ok {
		t.Fatalf("prefix not applied: %v", fake.objects)
	}

	rc, err := s.Get(ctx, "AS/A.csv")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	b, _ := io.ReadAll(rc)
	if string(b) != "AS/A.csv" {
		t.Fatalf("Get = %q", b)
	}
	if _, err := s.Get(ctx, "AS/Z.csv"); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("want not found, got %v", err)
	}
	if ok, err := s.Exists(ctx, "ENK/A.csv"); err != nil || !ok {
		t.Fatalf("Exists = %v %v", ok, err)
	}
	if ok, err := s.Exists(ctx, "ENK/Z.csv"); err != nil || ok {
		t.Fatalf("Exists missing = %v %v", ok, err)
	}

	keys, err := s.List(ctx, "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if want := []string{"AS/A.csv", "AS/B.csv", "ENK/A.csv", "NUF/OTHER.csv"}; !reflect.DeepEqual(keys, want) {
		t.Fatalf("List = %v, want %v", keys, want)
	}
	keys, _ = s.List(ctx, "AS/")
	if !reflect.DeepEqual(keys, []string{"AS/A.csv", "AS/B.csv"}) {
		t.Fatalf("List prefix = %v", keys)
	}
}

func TestS3_Lock(t *testing.T) {
	ctx := context.Background()
	fake := newFakeS3()
	s := newS3WithClient(fake, "registry", "companies")

	release, err := s.Lock(ctx, "run-1")
	if err != nil {
		t.Fatalf("Lock: %v", err)
	}
	_, err = s.Lock(ctx, "run-2")
	if !perr.IsCode(err, perr.ErrorCodeConflict) {
		t.Fatalf("want conflict, got %v", err)
	}
	if hs := perr.HintsOf(err); len(hs) == 0 || hs[0] != "held by run-1" {
		t.Fatalf("hints = %v", hs)
	}
	if err := release(); err != nil {
		t.Fatalf("release: %v", err)
	}
	if _, ok := fake.objects["companies/"+LockKey]; ok {
		t.Fatalf("lock object should be deleted")
	}
}

func TestS3_PutFailureIsIO(t *testing.T) {
	fake := newFakeS3()
	fake.failPut = &smithy.GenericAPIError{Code: "AccessDenied"}
	s := newS3WithClient(fake, "registry", "")
	if err := s.Put(context.Background(), "AS/A.csv", strings.NewReader("x")); !perr.IsCode(err, perr.ErrorCodeIO) {
		t.Fatalf("want io error, got %v", err)
	}
	if _, err := s.Lock(context.Background(), "x"); !perr.IsCode(err, perr.ErrorCodeIO) {
		t.Fatalf("lock with failing put should be io error, got %v", err)
	}
}

func TestS3ErrorClassifiers(t *testing.T) {
	if !isNotFound(&types.NoSuchKey{}) || !isNotFound(&types.NotFound{}) ||
		!isNotFound(&smithy.GenericAPIError{Code: "NotFound"}) {
		t.Fatalf("isNotFound misses")
	}
	if isNotFound(&smithy.GenericAPIError{Code: "AccessDenied"}) {
		t.Fatalf("isNotFound false positive")
	}
	if !isPreconditionFailed(&smithy.GenericAPIError{Code: "PreconditionFailed"}) ||
		isPreconditionFailed(&types.NoSuchKey{}) {
		t.Fatalf("isPreconditionFailed mismatch")
	}
}

func TestNewS3_RequiresBucket(t *testing.T) {
	if _, err := NewS3(context.Background(), S3Config{}); !perr.IsCode(err, perr.ErrorCodeConfig) {
		t.Fatalf("want config error, got %v", err)
	}
}
