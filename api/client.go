// Package api implements the OCDB REST operations on top of an HTTP Doer and
// a config.Store holding the server URL and password key.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"io/ioutil"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/luci/go-render/render"
	"github.com/pkg/errors"
	"github.com/sethgrid/pester"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cast"

	"github.com/bcdev/ocdb-client/common"
	"github.com/bcdev/ocdb-client/common/stats"
	"github.com/bcdev/ocdb-client/config"
)

// DefaultPathPrefix is prepended to every operation path.
const DefaultPathPrefix = "/eocdb/api/v0.1.0"

var validConfigNames = map[string]bool{
	config.ServerURL:   true,
	config.PasswordKey: true,
}

var ErrServerURLNotConfigured = errors.New(`"server_url" is not configured`)

// Doer sends a single HTTP request. *http.Client and *pester.Client both
// satisfy it.
type Doer interface {
	Do(req *http.Request) (resp *http.Response, err error)
}

// MakePesterClient returns the default transport. tries of 0 and 1 both mean a
// single attempt.
func MakePesterClient(tries int, timeout time.Duration) *pester.Client {
	client := pester.New()
	client.Backoff = pester.ExponentialBackoff
	client.MaxRetries = tries
	client.Timeout = timeout
	client.LogHook = func(e pester.ErrEntry) {
		log.Errorf("Request attempt failed: %+v", e)
	}
	return client
}

type ClientConfig struct {
	// Store holds the persisted parameters. Required.
	Store config.Store
	// HTTPClient defaults to MakePesterClient(common.DefaultHTTPTries, common.DefaultClientTimeout).
	HTTPClient Doer
	Stats      stats.StatsReceiver
	// ServerURL, if set, overrides the stored server_url without persisting it.
	ServerURL  string
	PathPrefix string
}

// Client talks to one OCDB server. The stored configuration is read lazily on
// first use.
type Client struct {
	store      config.Store
	http       Doer
	stat       stats.StatsReceiver
	pathPrefix string

	mu  sync.Mutex
	cfg config.Config
	// serverURL overrides cfg[config.ServerURL] and is never written to the store.
	serverURL string
}

func NewClient(cc ClientConfig) (*Client, error) {
	if cc.Store == nil {
		return nil, errors.New("api client requires a config store")
	}
	c := &Client{
		store:      cc.Store,
		http:       cc.HTTPClient,
		stat:       cc.Stats,
		pathPrefix: cc.PathPrefix,
	}
	if c.http == nil {
		c.http = MakePesterClient(common.DefaultHTTPTries, common.DefaultClientTimeout)
	}
	if c.stat == nil {
		c.stat = stats.NilStatsReceiver()
	}
	c.stat = c.stat.Scope(stats.APIClientScope)
	if c.pathPrefix == "" {
		c.pathPrefix = DefaultPathPrefix
	}
	c.serverURL = cc.ServerURL
	return c, nil
}

// Config returns a copy of the effective configuration, with the server URL
// override applied.
func (c *Client) Config() (config.Config, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.ensureConfig(); err != nil {
		return nil, err
	}
	cfg := c.cfg.Copy()
	if c.serverURL != "" {
		cfg[config.ServerURL] = c.serverURL
	}
	return cfg, nil
}

// ConfigParam returns the effective value of the named parameter, or "" when
// unset.
func (c *Client) ConfigParam(name string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.ensureConfig(); err != nil {
		return "", err
	}
	if name == config.ServerURL && c.serverURL != "" {
		return c.serverURL, nil
	}
	v, ok := c.cfg[name]
	if !ok || v == nil {
		return "", nil
	}
	return cast.ToStringE(v)
}

// SetConfigParam sets name to value and, if write is set, persists the whole
// configuration.
func (c *Client) SetConfigParam(name, value string, write bool) error {
	if err := ensureValidConfigName(name); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.ensureConfig(); err != nil {
		return err
	}
	c.cfg[name] = value
	if !write {
		return nil
	}
	log.Debugf("Writing configuration %s", render.Render(c.cfg))
	return errors.Wrap(c.store.Write(c.cfg), "write configuration")
}

func (c *Client) ServerURL() (string, error) {
	return c.ConfigParam(config.ServerURL)
}

// SetServerURL overrides the server URL for this client only.
func (c *Client) SetServerURL(serverURL string) error {
	if serverURL == "" {
		return errors.New(`"server_url" must be specified`)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.serverURL = serverURL
	return nil
}

// ensureConfig must be called with mu held.
func (c *Client) ensureConfig() error {
	if c.cfg != nil {
		return nil
	}
	cfg, err := c.store.Read()
	if err != nil {
		return errors.Wrap(err, "read configuration")
	}
	for name := range cfg {
		if err := ensureValidConfigName(name); err != nil {
			return err
		}
	}
	if cfg == nil {
		cfg = config.Config{}
	}
	c.cfg = cfg
	return nil
}

func ensureValidConfigName(name string) error {
	if !validConfigNames[name] {
		return errors.Errorf("unknown configuration parameter %q", name)
	}
	return nil
}

func (c *Client) makeURL(path string) (string, error) {
	url, err := c.ServerURL()
	if err != nil {
		return "", err
	}
	if url == "" {
		return "", ErrServerURLNotConfigured
	}
	url = strings.TrimSuffix(url, "/")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return url + c.pathPrefix + path, nil
}

func (c *Client) newRequest(ctx context.Context, method, path, contentType string, body []byte) (*http.Request, error) {
	url, err := c.makeURL(path)
	if err != nil {
		return nil, err
	}
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}
	req, err := http.NewRequest(method, url, r)
	if err != nil {
		return nil, errors.Wrapf(err, "create %s request for %s", method, url)
	}
	req = req.WithContext(ctx)
	req.Header.Set("User-Agent", common.UserAgent)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req, nil
}

// send performs req and returns the response if its status is 2xx. The caller
// owns the body.
func (c *Client) send(op string, req *http.Request) (*http.Response, error) {
	log.Infof("%s %s", req.Method, req.URL)
	c.stat.Counter(stats.APIRequestCounter).Inc(1)
	defer c.stat.Latency(stats.APIRequestLatency_ms, op).Time().Stop()

	resp, err := c.http.Do(req)
	if err != nil {
		c.stat.Counter(stats.APIRequestErrCounter).Inc(1)
		return nil, &RequestError{Method: req.Method, URL: req.URL.String(), Err: err}
	}
	if resp.StatusCode/100 == 2 {
		log.Infof("%s %s: %s", req.Method, req.URL, resp.Status)
		return resp, nil
	}
	defer resp.Body.Close()
	c.stat.Counter(stats.APIResponseStatusErrCounter).Inc(1)
	body, _ := ioutil.ReadAll(resp.Body)
	log.Errorf("%s %s response status error: %s", req.Method, req.URL, resp.Status)
	return nil, &StatusError{
		Method:     req.Method,
		URL:        req.URL.String(),
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Body:       string(bytes.TrimSpace(body)),
	}
}

// do sends a request and returns the JSON response body. An empty body yields
// a nil result.
func (c *Client) do(ctx context.Context, op, method, path, contentType string, body []byte) (json.RawMessage, error) {
	req, err := c.newRequest(ctx, method, path, contentType, body)
	if err != nil {
		return nil, err
	}
	resp, err := c.send(op, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	data, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "read response of %s %s", method, req.URL)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}
	if !json.Valid(data) {
		return nil, errors.Errorf("%s %s: response is not valid JSON: %.200s", method, req.URL, data)
	}
	log.Debugf("%s %s returned %d bytes", method, req.URL, len(data))
	return json.RawMessage(data), nil
}

func (c *Client) doJSON(ctx context.Context, op, method, path string, v interface{}) (json.RawMessage, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrapf(err, "encode %s request", op)
	}
	log.Debugf("%s request: %s", op, render.Render(v))
	return c.do(ctx, op, method, path, "application/json", body)
}
