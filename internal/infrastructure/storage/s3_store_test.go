package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestS3BlobStore_Presign(t *testing.T) {
	store := NewS3BlobStore("us-east-1", "holocron-assets", "AKIDEXAMPLE", "test-secret")

	url, fields, err := store.Presign(context.Background(), 42)
	require.NoError(t, err)

	assert.Contains(t, url, "holocron-assets")
	assert.True(t, strings.HasPrefix(fields["key"], "42/"))
	assert.NotEmpty(t, fields["X-Amz-Signature"])
}

func TestS3BlobStore_Presign_KeysPerOwner(t *testing.T) {
	store := NewS3BlobStore("us-east-1", "holocron-assets", "AKIDEXAMPLE", "test-secret")
	ctx := context.Background()

	_, first, err := store.Presign(ctx, 1)
	require.NoError(t, err)
	_, second, err := store.Presign(ctx, 2)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(first["key"], "1/"))
	assert.True(t, strings.HasPrefix(second["key"], "2/"))
	assert.NotEqual(t, first["key"], second["key"])
}
