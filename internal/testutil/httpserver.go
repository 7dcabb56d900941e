package testutil

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

// NewHTTPTestServer starts an httptest server closed at test cleanup. The
// test is skipped when no local listener can be opened.
func NewHTTPTestServer(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()

	var srv *httptest.Server
	func() {
		defer func() {
			if r := recover(); r != nil {
				t.Skipf("skipping HTTP test: local listener unavailable (%v)", r)
			}
		}()
		srv = httptest.NewServer(handler)
	}()
	t.Cleanup(srv.Close)
	return srv
}
