package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBucket is a tiny path-style S3 endpoint holding objects in memory.
type fakeBucket struct {
	mu      sync.Mutex
	name    string
	objects map[string][]byte
	types   map[string]string
}

func newFakeBucket(name string) *fakeBucket {
	return &fakeBucket{name: name, objects: map[string][]byte{}, types: map[string]string{}}
}

func (b *fakeBucket) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	path := strings.TrimPrefix(r.URL.Path, "/"+b.name)
	key := strings.TrimPrefix(path, "/")

	switch {
	case r.Method == http.MethodGet && key == "":
		prefix := r.URL.Query().Get("prefix")
		var contents strings.Builder
		count := 0
		for k := range b.objects {
			if strings.HasPrefix(k, prefix) {
				fmt.Fprintf(&contents, "<Contents><Key>%s</Key><Size>%d</Size></Contents>", k, len(b.objects[k]))
				count++
			}
		}
		w.Header().Set("Content-Type", "application/xml")
		fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?>`+
			`<ListBucketResult xmlns="http://s3.amazonaws.com/doc/2006-03-01/">`+
			`<Name>%s</Name><Prefix>%s</Prefix><KeyCount>%d</KeyCount><MaxKeys>1000</MaxKeys>`+
			`<IsTruncated>false</IsTruncated>%s</ListBucketResult>`, b.name, prefix, count, contents.String())
	case r.Method == http.MethodPut:
		data, _ := io.ReadAll(r.Body)
		b.objects[key] = data
		b.types[key] = r.Header.Get("Content-Type")
		w.Header().Set("ETag", `"etag"`)
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodHead:
		if _, ok := b.objects[key]; !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Length", fmt.Sprint(len(b.objects[key])))
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodDelete:
		delete(b.objects, key)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newTestStore(t *testing.T, bucket *fakeBucket) *S3Store {
	srv := httptest.NewServer(bucket)
	t.Cleanup(srv.Close)

	client := s3.New(s3.Options{
		Region:           "eu-west-1",
		BaseEndpoint:     aws.String(srv.URL),
		UsePathStyle:     true,
		Credentials:      credentials.NewStaticCredentialsProvider("AKID", "SECRET", ""),
		RetryMaxAttempts: 1,
	})
	return NewS3StoreFromClient(client, "eu-west-1", bucket.name)
}

func TestObjectURL(t *testing.T) {
	store := &S3Store{bucket: "media-bucket", region: "ap-south-1"}

	assert.Equal(t, "https://media-bucket.s3.ap-south-1.amazonaws.com/reels/clip.mp4", store.ObjectURL("reels/clip.mp4"))
}

func TestAllowedVideoTypes(t *testing.T) {
	for _, ct := range []string{"video/mp4", "video/mov", "video/avi"} {
		assert.True(t, AllowedVideoTypes[ct], ct)
	}
	for _, ct := range []string{"video/webm", "image/png", ""} {
		assert.False(t, AllowedVideoTypes[ct], ct)
	}
}

func TestUnconfiguredStore(t *testing.T) {
	store := &S3Store{region: "us-east-1"}
	ctx := context.Background()

	_, err := store.UploadReel(ctx, "a.mp4", "video/mp4", bytes.NewReader(nil), 0)
	assert.ErrorIs(t, err, ErrStorageNotConfigured)
	_, err = store.ListReels(ctx)
	assert.ErrorIs(t, err, ErrStorageNotConfigured)
	assert.ErrorIs(t, store.DeleteReel(ctx, "a.mp4"), ErrStorageNotConfigured)
}

func TestUploadListDelete(t *testing.T) {
	bucket := newFakeBucket("reels-bucket")
	bucket.objects["avatars/other.png"] = []byte("x")
	store := newTestStore(t, bucket)
	ctx := context.Background()

	payload := []byte("fake-mp4-data")
	result, err := store.UploadReel(ctx, "clip.mp4", "video/mp4", bytes.NewReader(payload), int64(len(payload)))
	require.NoError(t, err)
	assert.Equal(t, "reels/clip.mp4", result.Key)
	assert.Equal(t, "https://reels-bucket.s3.eu-west-1.amazonaws.com/reels/clip.mp4", result.URL)
	assert.Equal(t, payload, bucket.objects["reels/clip.mp4"])
	assert.Equal(t, "video/mp4", bucket.types["reels/clip.mp4"])

	urls, err := store.ListReels(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://reels-bucket.s3.eu-west-1.amazonaws.com/reels/clip.mp4"}, urls)

	require.NoError(t, store.DeleteReel(ctx, "clip.mp4"))
	_, exists := bucket.objects["reels/clip.mp4"]
	assert.False(t, exists)

	urls, err = store.ListReels(ctx)
	require.NoError(t, err)
	assert.Empty(t, urls)
}

func TestDeleteMissingReel(t *testing.T) {
	store := newTestStore(t, newFakeBucket("reels-bucket"))

	err := store.DeleteReel(context.Background(), "missing.mp4")

	assert.ErrorIs(t, err, ErrReelNotFound)
}

func TestClassifyError(t *testing.T) {
	assert.ErrorIs(t, classifyError(&types.NoSuchKey{}), ErrReelNotFound)
	assert.ErrorIs(t, classifyError(&types.NotFound{}), ErrReelNotFound)

	denied := &smithy.GenericAPIError{Code: "InvalidAccessKeyId", Message: "bad key"}
	err := classifyError(fmt.Errorf("wrapped: %w", denied))
	assert.ErrorIs(t, err, ErrStorageAccess)
	assert.Contains(t, err.Error(), "bad key")

	throttled := &smithy.GenericAPIError{Code: "SlowDown", Message: "reduce rate"}
	err = classifyError(throttled)
	assert.False(t, errors.Is(err, ErrStorageAccess))
	assert.False(t, errors.Is(err, ErrReelNotFound))
}
