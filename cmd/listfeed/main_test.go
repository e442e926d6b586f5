package main

import (
	"context"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_MissingConfig(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	opts := Opts{
		Config: "non-existent-config.yml",
	}

	err := run(ctx, opts)
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to load config")
}

func TestRun_InvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invalid-config.yml")
	require.NoError(t, os.WriteFile(path, []byte("invalid: yaml: content: ["), 0o600))

	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	err := run(ctx, Opts{Config: path})
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to load config")
}

func TestRun_BadDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	cfg := "database:\n  dsn: \"file:/non/existent/dir/listfeed.db\"\n"
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o600))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := run(ctx, Opts{Config: path})
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to open database")
}

func TestRun_ServerStartStop(t *testing.T) {
	t.Setenv("DB_PATH", t.TempDir())

	// find free port for the listen override
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	wd, err := os.Getwd()
	require.NoError(t, err)
	opts := Opts{
		Config: filepath.Join(wd, "testdata", "test_config.yml"),
		Listen: addr,
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- run(ctx, opts)
	}()

	base := "http://" + addr
	require.Eventually(t, func() bool {
		resp, err := http.Get(base + "/ping")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 50*time.Millisecond, "server didn't start")

	// create a feed with one entry through the admin API and fetch the document
	resp, err := http.Post(base+"/api/v1/feeds", "application/json",
		strings.NewReader(`{"name":"blocklist-a","kind":"ip"}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err = http.Post(base+"/api/v1/feeds/1/entries", "application/json",
		strings.NewReader(`{"value":"10.0.0.1/24"}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err = http.Get(base + "/feed/blocklist-a")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "10.0.0.0/24\n", string(body))
	etag := resp.Header.Get("ETag")
	assert.NotEmpty(t, etag)

	req, err := http.NewRequest(http.MethodGet, base+"/feed/blocklist-a", http.NoBody)
	require.NoError(t, err)
	req.Header.Set("If-None-Match", etag)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotModified, resp.StatusCode)

	resp, err = http.Get(base + "/feed/unknown")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// shutdown
	cancel()
	select {
	case err := <-serverErr:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server shutdown timeout")
	}
}

func TestSetupLog(t *testing.T) {
	t.Run("debug mode enabled", func(t *testing.T) {
		setupLog(true)
	})

	t.Run("debug mode disabled", func(t *testing.T) {
		setupLog(false)
	})

	t.Run("with secrets", func(t *testing.T) {
		setupLog(true, "secret1", "secret2")
	})
}

func TestOpts_Parse(t *testing.T) {
	for _, env := range []string{"CONFIG", "LISTEN", "DEBUG"} {
		t.Setenv(env, "") // restores the original value after the test
		require.NoError(t, os.Unsetenv(env))
	}

	var opts Opts
	_, err := flags.ParseArgs(&opts, []string{"--listen", "0.0.0.0:9000", "--dbg"})
	require.NoError(t, err)
	assert.Equal(t, "config.yml", opts.Config)
	assert.Equal(t, "0.0.0.0:9000", opts.Listen)
	assert.True(t, opts.Debug)

	opts = Opts{}
	_, err = flags.ParseArgs(&opts, []string{"-c", "/etc/listfeed.yml"})
	require.NoError(t, err)
	assert.Equal(t, "/etc/listfeed.yml", opts.Config)
	assert.Empty(t, opts.Listen)
}
