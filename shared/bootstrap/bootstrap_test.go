package bootstrap

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nirob844/mini-e-commerce-microservices/shared/config"
)

func TestLoadReadsFlagsAndEnv(t *testing.T) {
	t.Setenv("SHOP_HTTP_PORT", "4001")
	cfg, _, err := Load("user", []string{"--config", ""})
	require.NoError(t, err)
	assert.Equal(t, "4001", cfg.HTTP.Port)
	assert.Equal(t, "user_queue", cfg.Broker.Queue)

	_, _, err = Load("user", []string{"--bogus"})
	assert.Error(t, err)
}

func TestRunStopsAllTasksOnFailure(t *testing.T) {
	boom := errors.New("boom")
	stopped := make(chan struct{})

	err := Run(context.Background(), zerolog.Nop(),
		func(ctx context.Context) error {
			<-ctx.Done()
			close(stopped)
			return nil
		},
		func(context.Context) error {
			time.Sleep(10 * time.Millisecond)
			return boom
		},
	)
	assert.ErrorIs(t, err, boom)
	select {
	case <-stopped:
	default:
		t.Fatal("sibling task was not cancelled")
	}
}

func TestRunReturnsNilOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	err := Run(ctx, zerolog.Nop(), func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	assert.NoError(t, err)
}

func TestNewEngineServesHealthAndMetrics(t *testing.T) {
	engine := NewEngine("user", zerolog.Nop())

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","service":"user"}`, w.Body.String())

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "shop_http_requests_total")
}

func TestFabricCloseDropsReplyStream(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := config.Default(config.Order)
	cfg.Broker.URL = "redis://" + mr.Addr() + "/0"

	fabric, err := ConnectFabric(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)

	reply := fabric.Dispatcher.ReplyQueue()
	require.NoError(t, fabric.Transport.Publish(context.Background(), reply, []byte(`{}`)))
	require.True(t, mr.Exists(reply))

	require.NoError(t, fabric.Close())
	assert.False(t, mr.Exists(reply))
}

func TestFabricTasks(t *testing.T) {
	mr := miniredis.RunT(t)
	for service, want := range map[string]int{config.Order: 2, config.Gateway: 1} {
		cfg := config.Default(service)
		cfg.Broker.URL = "redis://" + mr.Addr() + "/0"
		fabric, err := ConnectFabric(context.Background(), cfg, zerolog.Nop())
		require.NoError(t, err)
		assert.Len(t, fabric.Tasks(), want, service)
		require.NoError(t, fabric.Close())
	}
}
