// Package servertest starts an in-process relay for tests.
package servertest

import (
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"

	"pigeon/internal/server"
	"pigeon/internal/storage"
)

// Start runs a relay over in-memory badger and returns its base URL. It is
// shut down when the test ends.
func Start(tb testing.TB) string {
	tb.Helper()
	st, err := storage.OpenBadger(storage.BadgerConfig{InMemory: true})
	if err != nil {
		tb.Fatalf("open badger: %v", err)
	}
	logger, _ := test.NewNullLogger()
	srv, err := server.New(server.Config{}, st, logger)
	if err != nil {
		_ = st.Close()
		tb.Fatalf("new server: %v", err)
	}
	ts := httptest.NewServer(srv)
	tb.Cleanup(func() {
		ts.Close()
		srv.Close()
		_ = st.Close()
	})
	return ts.URL
}
