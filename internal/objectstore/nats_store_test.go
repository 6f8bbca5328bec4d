// Package objectstore_test tests the NATS object store implementation.
package objectstore_test

import (
	"context"
	"testing"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats-server/v2/test"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/require"

	"github.com/book-expert/audiobook-service/internal/objectstore"
)

// startTestServer starts an in-memory NATS server for testing purposes.
func startTestServer(t *testing.T) (*server.Server, *nats.Conn) {
	t.Helper()

	opts := test.DefaultTestOptions
	opts.Port = -1 // Use a random port
	opts.JetStream = true
	natsServer := test.RunServer(&opts)

	natsConnection, err := nats.Connect(natsServer.ClientURL())
	if err != nil {
		t.Fatalf("Failed to connect to test NATS server: %v", err)
	}

	return natsServer, natsConnection
}

func TestStore_UploadDownload(t *testing.T) {
	t.Parallel()

	natsServer, natsConnection := startTestServer(t)
	defer natsServer.Shutdown()
	defer natsConnection.Close()

	jetstreamContext, err := natsConnection.JetStream()
	require.NoError(t, err)

	store, err := objectstore.New(jetstreamContext, "narration-text")
	require.NoError(t, err)

	ctx := context.Background()
	key := "page-0042.txt"
	uploadData := []byte("Once upon a time, in a land of tests.")

	err = store.Upload(ctx, key, uploadData)
	require.NoError(t, err)

	downloadData, err := store.Download(ctx, key)
	require.NoError(t, err)

	require.Equal(t, uploadData, downloadData)
}

func TestStore_DownloadMissingKey(t *testing.T) {
	t.Parallel()

	natsServer, natsConnection := startTestServer(t)
	defer natsServer.Shutdown()
	defer natsConnection.Close()

	jetstreamContext, err := natsConnection.JetStream()
	require.NoError(t, err)

	store, err := objectstore.New(jetstreamContext, "narration-audio")
	require.NoError(t, err)

	_, err = store.Download(context.Background(), "no-such-key")
	require.Error(t, err)
}

func TestStore_Delete(t *testing.T) {
	t.Parallel()

	natsServer, natsConnection := startTestServer(t)
	defer natsServer.Shutdown()
	defer natsConnection.Close()

	jetstreamContext, err := natsConnection.JetStream()
	require.NoError(t, err)

	store, err := objectstore.New(jetstreamContext, "narration-scratch")
	require.NoError(t, err)

	ctx := context.Background()

	err = store.Upload(ctx, "ephemeral.txt", []byte("gone soon"))
	require.NoError(t, err)

	err = store.Delete(ctx, "ephemeral.txt")
	require.NoError(t, err)

	_, err = store.Download(ctx, "ephemeral.txt")
	require.Error(t, err)

	// Deleting an already absent key is not an error.
	err = store.Delete(ctx, "never-existed.txt")
	require.NoError(t, err)
}

func TestStore_BindsToExistingBucket(t *testing.T) {
	t.Parallel()

	natsServer, natsConnection := startTestServer(t)
	defer natsServer.Shutdown()
	defer natsConnection.Close()

	jetstreamContext, err := natsConnection.JetStream()
	require.NoError(t, err)

	first, err := objectstore.New(jetstreamContext, "shared-bucket")
	require.NoError(t, err)

	err = first.Upload(context.Background(), "key", []byte("payload"))
	require.NoError(t, err)

	second, err := objectstore.New(jetstreamContext, "shared-bucket")
	require.NoError(t, err)

	data, err := second.Download(context.Background(), "key")
	require.NoError(t, err)
	require.Equal(t, []byte("payload"), data)
}
