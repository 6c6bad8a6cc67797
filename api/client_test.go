package api

import (
	"bytes"
	"context"
	"io/ioutil"
	"net/http"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/golang/mock/gomock"
	"github.com/pkg/errors"

	"github.com/bcdev/ocdb-client/common"
	"github.com/bcdev/ocdb-client/common/stats"
	"github.com/bcdev/ocdb-client/config"
)

func TestMakeURL(t *testing.T) {
	tests := []struct {
		server string
		path   string
		want   string
	}{
		{"http://localhost:4000", "/datasets", "http://localhost:4000/eocdb/api/v0.1.0/datasets"},
		{"http://localhost:4000/", "/datasets", "http://localhost:4000/eocdb/api/v0.1.0/datasets"},
		{"http://localhost:4000", "users/login", "http://localhost:4000/eocdb/api/v0.1.0/users/login"},
	}
	for _, test := range tests {
		c := makeTestClient(t, test.server, nil)
		got, err := c.makeURL(test.path)
		if err != nil {
			t.Fatalf("makeURL(%q): %v", test.path, err)
		}
		if got != test.want {
			t.Errorf("makeURL(%q) with server %q = %q, expected %q", test.path, test.server, got, test.want)
		}
	}
}

func TestServerURLNotConfigured(t *testing.T) {
	c, err := NewClient(ClientConfig{Store: config.NewMemStore(nil)})
	if err != nil {
		t.Fatal(err)
	}
	_, err = c.GetDataset(context.Background(), "ds-1")
	if errors.Cause(err) != ErrServerURLNotConfigured {
		t.Fatalf("Expected ErrServerURLNotConfigured, got %v", err)
	}
	if err.Error() != `"server_url" is not configured` {
		t.Errorf("Unexpected message: %s", err)
	}
}

func TestSetServerURLEmpty(t *testing.T) {
	c := makeTestClient(t, "http://localhost:4000", nil)
	if err := c.SetServerURL(""); err == nil || err.Error() != `"server_url" must be specified` {
		t.Fatalf("Expected missing server_url error, got %v", err)
	}
}

func TestConfigParams(t *testing.T) {
	store := config.NewMemStore(config.Config{config.ServerURL: "http://ocdb.test"})
	c, err := NewClient(ClientConfig{Store: store})
	if err != nil {
		t.Fatal(err)
	}

	if err := c.SetConfigParam("color", "red", true); err == nil || err.Error() != `unknown configuration parameter "color"` {
		t.Fatalf("Expected unknown parameter error, got %v", err)
	}
	if v, _ := c.ConfigParam(config.ServerURL); v != "http://ocdb.test" {
		t.Fatalf("Expected stored server_url, got %q", v)
	}
	if v, _ := c.ConfigParam(config.PasswordKey); v != "" {
		t.Fatalf("Expected empty password-key, got %q", v)
	}

	if err := c.SetConfigParam(config.PasswordKey, "k", false); err != nil {
		t.Fatal(err)
	}
	stored, _ := store.Read()
	if _, ok := stored[config.PasswordKey]; ok {
		t.Fatalf("Expected unwritten parameter to stay out of the store: %s", spew.Sdump(stored))
	}

	if err := c.SetConfigParam(config.PasswordKey, "k2", true); err != nil {
		t.Fatal(err)
	}
	stored, _ = store.Read()
	if stored[config.PasswordKey] != "k2" || stored[config.ServerURL] != "http://ocdb.test" {
		t.Fatalf("Expected whole config to be written, got %s", spew.Sdump(stored))
	}

	cfg, _ := c.Config()
	cfg[config.ServerURL] = "changed"
	if v, _ := c.ServerURL(); v != "http://ocdb.test" {
		t.Errorf("Expected Config() to return a copy, server_url is now %q", v)
	}
}

func TestServerURLOverrideNotPersisted(t *testing.T) {
	store := config.NewMemStore(config.Config{config.ServerURL: "http://stored"})
	c, err := NewClient(ClientConfig{Store: store, ServerURL: "http://override"})
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := c.ServerURL(); v != "http://override" {
		t.Fatalf("Expected override to win, got %q", v)
	}
	if err := c.SetConfigParam(config.PasswordKey, "k", true); err != nil {
		t.Fatal(err)
	}
	stored, _ := store.Read()
	if stored[config.ServerURL] != "http://stored" || stored[config.PasswordKey] != "k" {
		t.Fatalf("Expected override to stay out of the store, got %s", spew.Sdump(stored))
	}

	if err := c.SetServerURL("http://other"); err != nil {
		t.Fatal(err)
	}
	if err := c.SetConfigParam(config.PasswordKey, "k2", true); err != nil {
		t.Fatal(err)
	}
	stored, _ = store.Read()
	if stored[config.ServerURL] != "http://stored" {
		t.Errorf("Expected SetServerURL not to be persisted, got %s", spew.Sdump(stored))
	}
	if v, _ := c.ServerURL(); v != "http://other" {
		t.Errorf("Expected http://other, got %q", v)
	}
}

func TestStoredUnknownParamRejected(t *testing.T) {
	c, err := NewClient(ClientConfig{Store: config.NewMemStore(config.Config{"proxy": "x"})})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.Config(); err == nil || !strings.Contains(err.Error(), `unknown configuration parameter "proxy"`) {
		t.Fatalf("Expected unknown parameter error, got %v", err)
	}
}

func TestRequestHeadersAndStats(t *testing.T) {
	s := newTestServer(t, http.StatusOK, `{"id": "ds-1"}`)
	stat := stats.DefaultStatsReceiver()
	c := makeTestClient(t, s.URL, stat)

	got, err := c.GetDataset(context.Background(), "ds-1")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != `{"id": "ds-1"}` {
		t.Errorf("Expected raw response, got %s", got)
	}
	r := s.last(t)
	if r.userAgent != common.UserAgent {
		t.Errorf("Expected user agent %q, got %q", common.UserAgent, r.userAgent)
	}
	if r.method != "GET" || r.path != "/eocdb/api/v0.1.0/datasets/ds-1" {
		t.Errorf("Unexpected request %s", spew.Sdump(r))
	}

	stats.VerifyStats(t, "TestRequestHeadersAndStats", stat, map[string]stats.Rule{
		stats.APIClientScope + "/" + stats.APIRequestCounter:                         {Checker: stats.Int64EqTest, Value: 1},
		stats.APIClientScope + "/" + stats.APIRequestErrCounter:                      {Checker: stats.DoesNotExistTest},
		stats.APIClientScope + "/" + stats.APIRequestLatency_ms + "/getDataset.count": {Checker: stats.Int64EqTest, Value: 1},
	})
}

func TestStatusError(t *testing.T) {
	s := newTestServer(t, http.StatusNotFound, "Dataset not found\n")
	stat := stats.DefaultStatsReceiver()
	c := makeTestClient(t, s.URL, stat)

	_, err := c.GetDataset(context.Background(), "nope")
	if !IsNotFound(err) {
		t.Fatalf("Expected not found error, got %v", err)
	}
	se := errors.Cause(err).(*StatusError)
	if se.Body != "Dataset not found" || se.Method != "GET" {
		t.Errorf("Unexpected status error %s", spew.Sdump(se))
	}
	if StatusCodeOf(err) != http.StatusNotFound || StatusCodeOf(errors.New("x")) != 0 {
		t.Error("Unexpected StatusCodeOf result")
	}
	stats.VerifyStats(t, "TestStatusError", stat, map[string]stats.Rule{
		stats.APIClientScope + "/" + stats.APIResponseStatusErrCounter: {Checker: stats.Int64EqTest, Value: 1},
	})
}

func TestEmptyAndInvalidBodies(t *testing.T) {
	s := newTestServer(t, http.StatusOK, "")
	c := makeTestClient(t, s.URL, nil)
	got, err := c.DeleteDataset(context.Background(), "ds-1")
	if err != nil || got != nil {
		t.Fatalf("Expected empty result, got %q, %v", got, err)
	}

	s = newTestServer(t, http.StatusOK, "<html>")
	c = makeTestClient(t, s.URL, nil)
	if _, err := c.GetDataset(context.Background(), "ds-1"); err == nil {
		t.Fatal("Expected error for non JSON response")
	}
}

func TestTransportFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	doer := NewMockDoer(ctrl)
	doer.EXPECT().Do(gomock.Any()).Return(nil, errors.New("connection refused"))

	stat := stats.DefaultStatsReceiver()
	c, err := NewClient(ClientConfig{
		Store:      config.NewMemStore(nil),
		HTTPClient: doer,
		Stats:      stat,
		ServerURL:  "http://ocdb.test",
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.GetUser(context.Background(), "scott"); err == nil || !strings.Contains(err.Error(), "connection refused") {
		t.Fatalf("Expected transport error, got %v", err)
	}
	stats.VerifyStats(t, "TestTransportFailure", stat, map[string]stats.Rule{
		stats.APIClientScope + "/" + stats.APIRequestErrCounter: {Checker: stats.Int64EqTest, Value: 1},
	})
}

func TestMockedResponse(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	doer := NewMockDoer(ctrl)
	doer.EXPECT().Do(gomock.Any()).Return(&http.Response{
		StatusCode: http.StatusOK,
		Status:     "200 OK",
		Body:       ioutil.NopCloser(bytes.NewBufferString(`["a", "b"]`)),
	}, nil)

	c, _ := NewClient(ClientConfig{Store: config.NewMemStore(nil), HTTPClient: doer, ServerURL: "http://ocdb.test"})
	got, err := c.GetSubmissionsForUser(context.Background(), "scott")
	if err != nil || string(got) != `["a", "b"]` {
		t.Fatalf("Expected mocked body, got %s, %v", got, err)
	}
}

func TestPesterClient(t *testing.T) {
	s := newTestServer(t, http.StatusOK, `{"status": "OK"}`)
	c, err := NewClient(ClientConfig{
		Store:      config.NewMemStore(nil),
		HTTPClient: MakePesterClient(common.DefaultHTTPTries, common.DefaultClientTimeout),
		ServerURL:  s.URL,
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.LoginUser(context.Background(), "scott", "tiger"); err != nil {
		t.Fatal(err)
	}
	if r := s.last(t); string(r.body) != `{"username":"scott","password":"tiger"}` {
		t.Errorf("Unexpected login body %s", r.body)
	}
}

func TestRequestErrorType(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	doer := NewMockDoer(ctrl)
	cause := errors.New("no route to host")
	doer.EXPECT().Do(gomock.Any()).Return(nil, cause)

	c, _ := NewClient(ClientConfig{Store: config.NewMemStore(nil), HTTPClient: doer, ServerURL: "http://ocdb.test"})
	_, err := c.DeleteSubmission(context.Background(), "sub-1")
	re, ok := err.(*RequestError)
	if !ok {
		t.Fatalf("Expected *RequestError, got %T", err)
	}
	if re.Method != "DELETE" || errors.Cause(err) != cause {
		t.Errorf("Unexpected request error %s", spew.Sdump(re))
	}
	if !IsRequestError(errors.Wrap(err, "sbm delete")) || IsRequestError(cause) {
		t.Error("Unexpected IsRequestError result")
	}
}
