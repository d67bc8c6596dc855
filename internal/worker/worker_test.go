package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storesync/internal/config"
	shopifyconn "storesync/internal/connectors/shopify"
	"storesync/internal/logger"
)

type countingSyncer struct {
	calls atomic.Int32
	err   error
	ran   chan struct{}
}

func (s *countingSyncer) SyncProducts(ctx context.Context) (*shopifyconn.SyncResult, error) {
	s.calls.Add(1)
	defer func() { s.ran <- struct{}{} }()
	if s.err != nil {
		return nil, s.err
	}
	return &shopifyconn.SyncResult{Synced: 3}, nil
}

func waitRun(t *testing.T, ran <-chan struct{}) {
	t.Helper()
	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("sync did not run")
	}
}

func TestWorkerRunsTriggeredSync(t *testing.T) {
	syncer := &countingSyncer{ran: make(chan struct{}, 4)}
	w := New(&config.Config{}, logger.NewNop(), syncer)
	assert.Nil(t, w.reader)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	require.True(t, w.Trigger("test"))
	waitRun(t, syncer.ran)

	cancel()
	<-done
	assert.Equal(t, int32(1), syncer.calls.Load())
}

func TestWorkerSurvivesFailedRun(t *testing.T) {
	syncer := &countingSyncer{err: errors.New("boom"), ran: make(chan struct{}, 4)}
	w := New(&config.Config{}, logger.NewNop(), syncer)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	w.Trigger("first")
	waitRun(t, syncer.ran)
	w.Trigger("second")
	waitRun(t, syncer.ran)

	assert.Equal(t, int32(2), syncer.calls.Load())
}

func TestTriggerCoalesces(t *testing.T) {
	w := New(&config.Config{}, logger.NewNop(), &countingSyncer{})

	assert.True(t, w.Trigger("a"))
	assert.False(t, w.Trigger("b"))
}

func TestNewBuildsReaderWhenKafkaConfigured(t *testing.T) {
	w := New(&config.Config{KafkaBrokers: "localhost:9092", KafkaSyncRequestTopic: "catalog-sync-requests"}, logger.NewNop(), &countingSyncer{})
	require.NotNil(t, w.reader)
	w.Stop()
}
