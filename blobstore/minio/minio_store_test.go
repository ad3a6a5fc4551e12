package minio

import (
	"context"
	"os"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/strigo"
)

// dialStore connects to a local MinIO instance and skips the test when
// none is reachable. Endpoint and credentials follow the usual dev
// defaults and can be overridden via MINIO_ENDPOINT / MINIO_ACCESS_KEY /
// MINIO_SECRET_KEY.
func dialStore(t *testing.T) *Store {
	t.Helper()

	endpoint := os.Getenv("MINIO_ENDPOINT")
	if endpoint == "" {
		endpoint = "localhost:9000"
	}
	accessKey := os.Getenv("MINIO_ACCESS_KEY")
	if accessKey == "" {
		accessKey = "minioadmin"
	}
	secretKey := os.Getenv("MINIO_SECRET_KEY")
	if secretKey == "" {
		secretKey = "minioadmin"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: false,
	})
	if err != nil {
		t.Skipf("MinIO client creation failed: %v", err)
	}

	ctx := context.Background()
	if _, err := client.ListBuckets(ctx); err != nil {
		t.Skipf("MinIO not available: %v", err)
	}

	const bucket = "strigo-it"
	exists, err := client.BucketExists(ctx, bucket)
	require.NoError(t, err)
	if !exists {
		require.NoError(t, client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}))
	}

	return NewStore(client, bucket, "it/")
}

func TestStore_Integration_Blobs(t *testing.T) {
	store := dialStore(t)
	ctx := context.Background()

	segment := []byte("segment payload for range reads")
	require.NoError(t, store.Put(ctx, "indexes/city/v1/trie", segment))

	blob, err := store.Open(ctx, "indexes/city/v1/trie")
	require.NoError(t, err)
	require.Equal(t, int64(len(segment)), blob.Size())

	buf := make([]byte, len(segment))
	n, err := blob.ReadAt(ctx, buf, 0)
	require.NoError(t, err)
	require.Equal(t, len(segment), n)
	require.Equal(t, segment, buf)
	require.NoError(t, blob.Close())

	blob, err = store.Open(ctx, "indexes/city/v1/trie")
	require.NoError(t, err)
	rc, err := blob.ReadRange(ctx, 8, 7)
	require.NoError(t, err)
	part := make([]byte, 7)
	_, err = rc.Read(part)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(part))
	require.NoError(t, rc.Close())
	require.NoError(t, blob.Close())

	names, err := store.List(ctx, "indexes/city/v1/")
	require.NoError(t, err)
	assert.Contains(t, names, "indexes/city/v1/trie")

	wb, err := store.Create(ctx, "indexes/city/v1/offsets")
	require.NoError(t, err)
	_, err = wb.Write([]byte("streamed segment"))
	require.NoError(t, err)
	require.NoError(t, wb.Close())

	blob, err = store.Open(ctx, "indexes/city/v1/offsets")
	require.NoError(t, err)
	assert.Equal(t, int64(16), blob.Size())
	require.NoError(t, blob.Close())

	require.NoError(t, store.Delete(ctx, "indexes/city/v1/trie"))
	_, err = store.Open(ctx, "indexes/city/v1/trie")
	require.Error(t, err)

	_ = store.Delete(ctx, "indexes/city/v1/offsets")
}

func TestStore_Integration_IndexRoundTrip(t *testing.T) {
	store := dialStore(t)
	ctx := context.Background()

	idx := strigo.New()
	values := []string{"berlin", "paris", "berlin", "tokyo", "toronto"}
	require.NoError(t, idx.Build(ctx, values))
	require.NoError(t, idx.Save(ctx, store, "indexes/rt/v1"))

	loaded, err := strigo.Open(ctx, store, "indexes/rt/v1")
	require.NoError(t, err)
	require.Equal(t, len(values), loaded.Rows())

	want, err := idx.PrefixMatch("to")
	require.NoError(t, err)
	got, err := loaded.PrefixMatch("to")
	require.NoError(t, err)
	assert.True(t, want.Equal(got))

	for _, name := range []string{"trie", "offsets"} {
		_ = store.Delete(ctx, "indexes/rt/v1/"+name)
	}
}
