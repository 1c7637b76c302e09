package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/dmitrijs2005/buildhub/internal/server/config"
	"github.com/dmitrijs2005/buildhub/internal/server/images"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	var c config.Config
	c.LoadDefaults()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	c.ListenAddr = l.Addr().String()
	require.NoError(t, l.Close())
	return &c
}

func TestNewApp_ImageStoreError(t *testing.T) {
	orig := newImageStore
	newImageStore = func(context.Context, *config.Config) (images.Store, error) {
		return nil, errors.New("bucket unreachable")
	}
	t.Cleanup(func() { newImageStore = orig })

	_, err := NewApp(context.Background(), testConfig(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bucket unreachable")
}

func TestApp_RunServesUntilCancelled(t *testing.T) {
	c := testConfig(t)
	app, err := NewApp(context.Background(), c)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		app.Run(ctx)
		close(done)
	}()

	url := "http://" + c.ListenAddr + c.BasePath + "/health"
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(shutdownTimeout + time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
