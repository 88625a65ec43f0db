package delivery

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func waitRun(t *testing.T, done <-chan error) {
	t.Helper()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run still serving after Close returned")
	}
}

func TestServerCloseBeforeRun(t *testing.T) {
	s := NewServer("127.0.0.1", 0, http.NotFoundHandler(), zap.NewNop().Sugar())
	require.NoError(t, s.Close(context.Background()))

	done := make(chan error, 1)
	go func() {
		done <- s.Run()
	}()

	waitRun(t, done)
}

func TestServerCloseRightAfterRun(t *testing.T) {
	for range 20 {
		s := NewServer("127.0.0.1", 0, http.NotFoundHandler(), zap.NewNop().Sugar())

		done := make(chan error, 1)
		go func() {
			done <- s.Run()
		}()

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		require.NoError(t, s.Close(ctx))
		cancel()

		waitRun(t, done)
	}
}
