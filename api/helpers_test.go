package api

import (
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/bcdev/ocdb-client/common/stats"
	"github.com/bcdev/ocdb-client/config"
)

// received is a copy of one request seen by a testServer.
type received struct {
	method      string
	path        string
	escapedPath string
	query       string
	contentType string
	userAgent   string
	body        []byte
}

// testServer answers every request with a fixed status and body and keeps the
// requests it got.
type testServer struct {
	*httptest.Server
	status   int
	response string

	mu       sync.Mutex
	requests []received
}

func newTestServer(t *testing.T, status int, response string) *testServer {
	s := &testServer{status: status, response: response}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := ioutil.ReadAll(r.Body)
		if err != nil {
			t.Errorf("Reading request body: %v", err)
		}
		s.mu.Lock()
		s.requests = append(s.requests, received{
			method:      r.Method,
			path:        r.URL.Path,
			escapedPath: r.URL.EscapedPath(),
			query:       r.URL.RawQuery,
			contentType: r.Header.Get("Content-Type"),
			userAgent:   r.Header.Get("User-Agent"),
			body:        body,
		})
		s.mu.Unlock()
		w.WriteHeader(s.status)
		w.Write([]byte(s.response))
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *testServer) last(t *testing.T) received {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		t.Fatal("Expected a request to reach the server")
	}
	return s.requests[len(s.requests)-1]
}

func makeTestClient(t *testing.T, serverURL string, stat stats.StatsReceiver) *Client {
	t.Helper()
	c, err := NewClient(ClientConfig{
		Store:      config.NewMemStore(nil),
		HTTPClient: &http.Client{},
		Stats:      stat,
		ServerURL:  serverURL,
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := t.TempDir() + "/" + name
	if err := ioutil.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}
