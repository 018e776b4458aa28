package tokenstore

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

// runs against a real Redis when PTB_TEST_REDIS_URL is set
func TestRedisStore(t *testing.T) {
	url := os.Getenv("PTB_TEST_REDIS_URL")
	if url == "" {
		t.Skip("PTB_TEST_REDIS_URL not set")
	}

	store, err := NewRedisStoreFromURL(context.Background(), url, "test-"+t.Name())
	require.NoError(t, err)
	defer store.Close() //nolint:errcheck // test cleanup

	exerciseStore(t, store)
}

func TestRedisStore_BadURL(t *testing.T) {
	_, err := NewRedisStoreFromURL(context.Background(), "not a url", "default")
	require.Error(t, err)
}
