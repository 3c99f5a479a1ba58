package server

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	applogger "StockPulse/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeServer struct {
	mu       sync.Mutex
	started  bool
	stopped  bool
	startErr error
}

func (s *fakeServer) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started = true
	return s.startErr
}

func (s *fakeServer) Stop(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	return nil
}

func (s *fakeServer) isStarted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

func TestRunStopsOnCancel(t *testing.T) {
	srv := &fakeServer{}
	var order []string
	var bg context.Context

	app := New(srv, applogger.NewNop(),
		WithBackground(func(ctx context.Context) { bg = ctx }),
		WithOnStop(func() { order = append(order, "first") }),
		WithOnStop(func() { order = append(order, "second") }),
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	assert.Eventually(t, srv.isStarted, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return")
	}
	assert.True(t, srv.stopped)
	assert.Equal(t, []string{"second", "first"}, order)
	require.NotNil(t, bg)
	assert.Error(t, bg.Err())
}

func TestRunStartFailure(t *testing.T) {
	srv := &fakeServer{startErr: errors.New("address in use")}
	hooks := 0
	app := New(srv, applogger.NewNop(), WithOnStop(func() { hooks++ }))

	err := app.Run(context.Background())
	assert.ErrorContains(t, err, "address in use")
	assert.Equal(t, 1, hooks)
	assert.False(t, srv.stopped)
}
