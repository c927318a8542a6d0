package fakebin

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tombowditch/pastebin/internal/store"
	"github.com/tombowditch/pastebin/pastebin"
)

type stubLimiter struct {
	mu    sync.Mutex
	allow bool
	seen  []string
}

func (l *stubLimiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seen = append(l.seen, ip)
	return l.allow
}

func (l *stubLimiter) set(allow bool) {
	l.mu.Lock()
	l.allow = allow
	l.mu.Unlock()
}

type fixture struct {
	srv      *httptest.Server
	store    store.Store
	limiter  *stubLimiter
	registry *prometheus.Registry
	client   *pastebin.Client
}

func newFixture(t *testing.T, errorPrefix string) *fixture {
	t.Helper()
	return newFixtureWithStore(t, errorPrefix, store.NewMemory())
}

func newFixtureWithStore(t *testing.T, errorPrefix string, s store.Store) *fixture {
	t.Helper()
	f := &fixture{
		store:    s,
		limiter:  &stubLimiter{allow: true},
		registry: prometheus.NewRegistry(),
	}

	// BaseURL is only known once the server is listening.
	var handler http.Handler
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handler.ServeHTTP(w, r)
	}))
	t.Cleanup(f.srv.Close)

	handler = NewHandler(f.store, f.limiter, Options{
		BaseURL:     f.srv.URL,
		DevKeys:     []string{"good-key"},
		ErrorPrefix: errorPrefix,
		Registry:    f.registry,
	})

	f.client = pastebin.New(
		pastebin.WithAPIURL(f.srv.URL+APIPath),
		pastebin.WithBaseURL(f.srv.URL),
		pastebin.WithErrorPrefix(errorPrefix),
	)
	return f
}

func (f *fixture) post(t *testing.T, form url.Values) string {
	t.Helper()
	resp, err := http.PostForm(f.srv.URL+APIPath, form)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func (f *fixture) raw(t *testing.T, pasteURL string) (int, string) {
	t.Helper()
	id := pasteURL[strings.LastIndex(pasteURL, "/")+1:]
	resp, err := http.Get(f.srv.URL + "/raw/" + id)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestClientRoundTrip(t *testing.T) {
	f := newFixture(t, "")

	pasteURL, err := f.client.Upload(context.Background(), "good-key", "hello from the client",
		pastebin.WithName("greeting"),
		pastebin.WithVisibility(pastebin.Unlisted),
		pastebin.WithExpiration(pastebin.OneDay),
		pastebin.WithFormat("go"),
	)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(pasteURL, f.srv.URL+"/"))
	assert.Len(t, strings.TrimPrefix(pasteURL, f.srv.URL+"/"), 8)

	status, body := f.raw(t, pasteURL)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "hello from the client", body)

	expected := `
# HELP fakebin_paste_created_total no. of pastes created
# TYPE fakebin_paste_created_total counter
fakebin_paste_created_total 1
`
	assert.NoError(t, testutil.GatherAndCompare(f.registry, strings.NewReader(expected), "fakebin_paste_created_total"))
}

func TestClientErrorClassification(t *testing.T) {
	for _, prefix := range []string{"", pastebin.LiveErrorPrefix} {
		t.Run("prefix="+prefix, func(t *testing.T) {
			f := newFixture(t, prefix)
			ctx := context.Background()

			_, err := f.client.Upload(ctx, "wrong-key", "content")
			assert.True(t, pastebin.IsInvalidKey(err), "got %v", err)

			_, err = f.client.Upload(ctx, "good-key", "content", pastebin.WithFormat("brainfudge"))
			assert.True(t, pastebin.IsInvalidPasteFormat(err), "got %v", err)

			f.limiter.set(false)
			_, err = f.client.Upload(ctx, "good-key", "content")
			assert.True(t, pastebin.IsBlockedIP(err), "got %v", err)
		})
	}
}

func TestClientWithoutPrefixStrippingSeesUnknown(t *testing.T) {
	f := newFixture(t, pastebin.LiveErrorPrefix)
	c := pastebin.New(
		pastebin.WithAPIURL(f.srv.URL+APIPath),
		pastebin.WithBaseURL(f.srv.URL),
	)

	_, err := c.Upload(context.Background(), "wrong-key", "content")
	require.True(t, pastebin.IsUnknown(err))
	assert.Equal(t, "pastebin: Bad API request, invalid api_dev_key", err.Error())
}

func TestCreatePasteRejections(t *testing.T) {
	base := func() url.Values {
		return url.Values{
			"api_option":     {"paste"},
			"api_dev_key":    {"good-key"},
			"api_paste_code": {"content"},
		}
	}

	tests := []struct {
		name   string
		mutate func(url.Values)
		want   string
	}{
		{"bad option", func(v url.Values) { v.Set("api_option", "list") }, msgInvalidOption},
		{"missing key", func(v url.Values) { v.Del("api_dev_key") }, msgInvalidKey},
		{"empty code", func(v url.Values) { v.Set("api_paste_code", "") }, msgEmptyCode},
		{"too big", func(v url.Values) { v.Set("api_paste_code", strings.Repeat("a", pastebin.MaxPasteSize+1)) }, msgTooBig},
		{"bad private", func(v url.Values) { v.Set("api_paste_private", "2") }, msgInvalidPrivate},
		{"bad expire", func(v url.Values) { v.Set("api_paste_expire_date", "3D") }, msgInvalidExpire},
		{"bad format", func(v url.Values) { v.Set("api_paste_format", "") }, msgInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, pastebin.LiveErrorPrefix)
			form := base()
			tt.mutate(form)
			assert.Equal(t, pastebin.LiveErrorPrefix+tt.want, f.post(t, form))
		})
	}
}

type failingStore struct{}

func (failingStore) Get(string) (string, error) { return "", errors.New("store down") }
func (failingStore) Create(string, []byte, time.Duration) (bool, error) {
	return false, errors.New("store down")
}

type recordingStore struct {
	store.Store
	ttls []time.Duration
}

func (s *recordingStore) Create(id string, body []byte, ttl time.Duration) (bool, error) {
	s.ttls = append(s.ttls, ttl)
	return s.Store.Create(id, body, ttl)
}

func TestUnrecognizedResponseReachesClientVerbatim(t *testing.T) {
	f := newFixtureWithStore(t, "", failingStore{})

	_, err := f.client.Upload(context.Background(), "good-key", "x")
	require.True(t, pastebin.IsUnknown(err))
	assert.False(t, pastebin.IsTransport(err))
	assert.Equal(t, "pastebin: could not create paste", err.Error())
}

func TestCreatePasteUsesExpirationAsTTL(t *testing.T) {
	rs := &recordingStore{Store: store.NewMemory()}
	f := newFixtureWithStore(t, "", rs)
	ctx := context.Background()

	_, err := f.client.Upload(ctx, "good-key", "brief", pastebin.WithExpiration(pastebin.TenMinutes))
	require.NoError(t, err)
	_, err = f.client.Upload(ctx, "good-key", "forever")
	require.NoError(t, err)
	_, err = f.client.Upload(ctx, "good-key", "a year", pastebin.WithExpiration(pastebin.OneYear))
	require.NoError(t, err)

	assert.Equal(t, []time.Duration{10 * time.Minute, 0, 365 * 24 * time.Hour}, rs.ttls)
}

func TestGetRawNotFound(t *testing.T) {
	f := newFixture(t, "")

	status, body := f.raw(t, f.srv.URL+"/missing1")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "not found or expired", body)
}

func TestIndexAndMetricsRoutes(t *testing.T) {
	f := newFixture(t, "")

	resp, err := http.Get(f.srv.URL + "/")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), APIPath)

	_, err = f.client.Upload(context.Background(), "wrong-key", "x")
	require.Error(t, err)

	resp, err = http.Get(f.srv.URL + "/metrics")
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `fakebin_paste_rejected_total{reason="invalid_key"} 1`)
}

func TestLimiterSeesRemoteIP(t *testing.T) {
	f := newFixture(t, "")

	_, err := f.client.Upload(context.Background(), "good-key", "x")
	require.NoError(t, err)
	require.Len(t, f.limiter.seen, 1)
	assert.Equal(t, "127.0.0.1", f.limiter.seen[0])
}

func TestGetClientIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, APIPath, nil)
	r.RemoteAddr = "10.0.0.9:5555"
	r.Header.Set("X-Forwarded-For", "1.2.3.4, 10.0.0.1")
	r.Header.Set("X-Real-IP", "5.6.7.8")

	assert.Equal(t, "10.0.0.9", getClientIP(r, false))
	assert.Equal(t, "1.2.3.4", getClientIP(r, true))

	r.Header.Del("X-Forwarded-For")
	assert.Equal(t, "5.6.7.8", getClientIP(r, true))

	r.RemoteAddr = "no-port"
	assert.Equal(t, "no-port", getClientIP(r, false))
}

func TestMemoryLimiter(t *testing.T) {
	l := NewMemoryLimiter(time.Hour, 2)

	assert.True(t, l.Allow("1.1.1.1"))
	assert.True(t, l.Allow("1.1.1.1"))
	assert.False(t, l.Allow("1.1.1.1"))
	assert.True(t, l.Allow("2.2.2.2"))
}
