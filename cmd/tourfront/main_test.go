package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nkiryanov/tourfront/internal/testutil"
)

func Test_run(t *testing.T) {
	noEnv := func(string) string { return "" }
	getwd := func() (string, error) { return t.TempDir(), nil }

	port, err := testutil.RandomPort()
	require.NoError(t, err, "failed to get random port to start server")
	listenAddr := fmt.Sprintf("localhost:%d", port)

	t.Run("stop with signal", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond) // Half Second
		t.Cleanup(cancel)

		err := run(ctx, noEnv, getwd, []string{
			"--address", listenAddr,
			"--log-level", "debug",
			"--api", "http://localhost:8001/api/",
			"--state-file", filepath.Join(t.TempDir(), "state.json"),
			"--secret-key", "secret",
			"--whatsapp", "+39 333 123 4567",
			"--inquiry-email", "info@example.com",
		})

		require.NoError(t, err, "on correct stop should not return error")
	})

	t.Run("serves while running", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		t.Cleanup(cancel)

		done := make(chan error, 1)
		go func() {
			done <- run(ctx, noEnv, getwd, []string{
				"--address", listenAddr,
				"--whatsapp", "+39 333 123 4567",
				"--inquiry-email", "info@example.com",
			})
		}()

		require.Eventually(t, func() bool {
			resp, err := http.Get("http://" + listenAddr + "/api/preferences/language")
			if err != nil {
				return false
			}
			defer resp.Body.Close() // nolint:errcheck
			return resp.StatusCode == http.StatusOK
		}, 2*time.Second, 20*time.Millisecond)

		cancel()
		require.NoError(t, <-done)
	})

	t.Run("stop with config error", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond) // Half Second
		t.Cleanup(cancel)

		// Inquiry channels are required
		err := run(ctx, noEnv, os.Getwd, []string{
			"--address", listenAddr,
		})

		require.Error(t, err, "on incorrect config should return error")
	})

	t.Run("with postgres", func(t *testing.T) {
		pg := testutil.StartPostgresContainer(t)
		t.Cleanup(pg.Terminate)

		ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond) // Half Second
		t.Cleanup(cancel)

		err := run(ctx, noEnv, getwd, []string{
			"--address", listenAddr,
			"--database", pg.DSN,
			"--whatsapp", "+39 333 123 4567",
			"--inquiry-email", "info@example.com",
		})

		require.NoError(t, err)
	})
}
