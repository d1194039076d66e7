package log_shipper

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/transaction-fraud-monitor/internal/metrics"
)

// recordingIngester captures shipped payloads for assertions
type recordingIngester struct {
	mu       sync.Mutex
	payloads [][]byte
	err      error
	done     chan struct{}
}

func newRecordingIngester(expected int) *recordingIngester {
	return &recordingIngester{done: make(chan struct{}, expected)}
}

func (r *recordingIngester) Ingest(ctx context.Context, payload []byte) error {
	r.mu.Lock()
	r.payloads = append(r.payloads, payload)
	r.mu.Unlock()
	r.done <- struct{}{}
	return r.err
}

func (r *recordingIngester) wait(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-r.done:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for ingestion")
		}
	}
}

func TestHandler_ShipsMessage(t *testing.T) {
	ingester := newRecordingIngester(1)
	handler, err := NewHandler(slog.Default(), ingester, 2, metrics.New("test"))
	require.NoError(t, err)
	defer handler.Shutdown()

	value := []byte(`{"transactionId":"abc"}`)
	require.NoError(t, handler.HandleMessage(context.Background(), []byte("ACC100000"), value))

	ingester.wait(t, 1)
	ingester.mu.Lock()
	defer ingester.mu.Unlock()
	require.Len(t, ingester.payloads, 1)
	assert.Equal(t, value, ingester.payloads[0])
}

func TestHandler_CopiesPayloadBeforeQueueing(t *testing.T) {
	ingester := newRecordingIngester(1)
	handler, err := NewHandler(slog.Default(), ingester, 2, metrics.New("test"))
	require.NoError(t, err)
	defer handler.Shutdown()

	value := []byte(`{"transactionId":"abc"}`)
	require.NoError(t, handler.HandleMessage(context.Background(), []byte("key"), value))

	// The consumer may reuse its fetch buffer immediately after the handler returns
	for i := range value {
		value[i] = 'x'
	}

	ingester.wait(t, 1)
	ingester.mu.Lock()
	defer ingester.mu.Unlock()
	assert.Equal(t, []byte(`{"transactionId":"abc"}`), ingester.payloads[0])
}

func TestHandler_IngestFailureDoesNotStallFeed(t *testing.T) {
	ingester := newRecordingIngester(1)
	ingester.err = errors.New("index unavailable")
	handler, err := NewHandler(slog.Default(), ingester, 2, metrics.New("test"))
	require.NoError(t, err)
	defer handler.Shutdown()

	// Shipping is best effort: the handler commits past the record regardless
	require.NoError(t, handler.HandleMessage(context.Background(), []byte("key"), []byte(`{}`)))
	ingester.wait(t, 1)
}

func TestHandler_SubmitAfterShutdownStillCommits(t *testing.T) {
	ingester := newRecordingIngester(1)
	handler, err := NewHandler(slog.Default(), ingester, 2, metrics.New("test"))
	require.NoError(t, err)

	handler.Shutdown()

	require.NoError(t, handler.HandleMessage(context.Background(), []byte("key"), []byte(`{}`)))
	ingester.mu.Lock()
	defer ingester.mu.Unlock()
	assert.Empty(t, ingester.payloads)
}
