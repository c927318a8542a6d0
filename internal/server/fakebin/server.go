// Package fakebin emulates the paste creation endpoint of the Pastebin
// API so the client can be exercised without a real developer key.
package fakebin

import (
	"net"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tombowditch/pastebin/internal/config"
	"github.com/tombowditch/pastebin/internal/logging"
	"github.com/tombowditch/pastebin/internal/store"
	"github.com/tombowditch/pastebin/internal/util/randutil"
	"github.com/tombowditch/pastebin/pastebin"
)

// APIPath is where pastes are posted, matching the live service.
const APIPath = "/api/api_post.php"

// Response bodies, as sent by the live service minus its error prefix.
const (
	msgBlockedIP      = "IP blocked"
	msgInvalidKey     = "invalid api_dev_key"
	msgInvalidOption  = "invalid api_option"
	msgInvalidPost    = "invalid POST request"
	msgEmptyCode      = "api_paste_code was empty"
	msgTooBig         = "maximum paste file size exceeded"
	msgInvalidPrivate = "invalid api_paste_private"
	msgInvalidExpire  = "invalid api_paste_expire_date"
	msgInvalidFormat  = "invalid api_paste_format"
)

// Options configures the emulator.
type Options struct {
	// BaseURL prefixes the paste URLs handed back to clients.
	BaseURL string
	// DevKeys are the accepted api_dev_key values.
	DevKeys []string
	// ErrorPrefix is prepended to every error body. Set it to
	// pastebin.LiveErrorPrefix to reproduce the live service.
	ErrorPrefix string
	// TrustProxy makes X-Forwarded-For and X-Real-IP decide the client IP.
	TrustProxy bool
	// Formats overrides config.KnownFormats.
	Formats []string
	// Registry receives the emulator's metrics. A private one is used if nil.
	Registry *prometheus.Registry
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store   store.Store
	limiter Limiter
	opts    Options
	devKeys map[string]bool
	formats map[string]bool
	metrics *metrics
}

// NewHandler creates an HTTP handler with all routes configured.
func NewHandler(s store.Store, l Limiter, opts Options) http.Handler {
	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
	}
	if opts.Formats == nil {
		opts.Formats = config.KnownFormats
	}
	opts.BaseURL = strings.TrimSuffix(opts.BaseURL, "/")

	srv := &Server{
		store:   s,
		limiter: l,
		opts:    opts,
		devKeys: toSet(opts.DevKeys),
		formats: toSet(opts.Formats),
		metrics: newMetrics(opts.Registry),
	}

	r := httprouter.New()
	r.GET("/", srv.indexPage)
	r.GET("/raw/:identifier", srv.getRaw)
	r.POST(APIPath, srv.createPaste)
	r.Handler(http.MethodGet, "/metrics", promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{}))

	return r
}

func (s *Server) indexPage(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	writeText(w, http.StatusOK, `fakebin - local stand-in for the pastebin.com paste API

POST `+APIPath+` with api_option=paste, api_dev_key and api_paste_code
GET  /raw/<key> to read a paste back
`)
}

func (s *Server) getRaw(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	identifier := ps.ByName("identifier")

	val, err := s.store.Get(identifier)
	if err != nil {
		if err != store.ErrNotFound {
			logging.Error().Err(err).Str("identifier", identifier).Msg("store get failed")
		}
		s.metrics.reads.WithLabelValues("miss").Inc()
		writeText(w, http.StatusNotFound, "not found or expired")
		return
	}

	s.metrics.reads.WithLabelValues("hit").Inc()
	writeText(w, http.StatusOK, val)
}

func (s *Server) createPaste(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	defer r.Body.Close()

	cip := getClientIP(r, s.opts.TrustProxy)
	if !s.limiter.Allow(cip) {
		logging.Warn().Str("ip", cip).Msg("rate limit exceeded")
		s.reject(w, "blocked_ip", msgBlockedIP)
		return
	}

	if err := r.ParseForm(); err != nil {
		s.reject(w, "bad_form", msgInvalidPost)
		return
	}
	form := r.PostForm

	if !s.devKeys[form.Get("api_dev_key")] {
		s.reject(w, "invalid_key", msgInvalidKey)
		return
	}
	if form.Get("api_option") != "paste" {
		s.reject(w, "invalid_option", msgInvalidOption)
		return
	}

	code := form.Get("api_paste_code")
	if len(code) == 0 {
		s.reject(w, "empty", msgEmptyCode)
		return
	}
	if len(code) > config.MaxPayloadSize {
		s.reject(w, "too_big", msgTooBig)
		return
	}

	if v, ok := form["api_paste_private"]; ok {
		if _, ok := pastebin.ParseVisibility(v[0]); !ok {
			s.reject(w, "invalid_private", msgInvalidPrivate)
			return
		}
	}

	expiration := pastebin.Never
	if v, ok := form["api_paste_expire_date"]; ok {
		e, ok := pastebin.ParseExpiration(v[0])
		if !ok {
			s.reject(w, "invalid_expire", msgInvalidExpire)
			return
		}
		expiration = e
	}

	if v, ok := form["api_paste_format"]; ok && !s.formats[v[0]] {
		s.reject(w, "invalid_format", msgInvalidFormat)
		return
	}

	// Generate unique identifier and store atomically
	for tried := 0; tried < 10; tried++ {
		identifier, err := randutil.PasteID(config.IDLength)
		if err != nil {
			logging.Error().Err(err).Msg("generating paste id failed")
			break
		}
		ok, err := s.store.Create(identifier, []byte(code), expiration.Duration())
		if err != nil {
			logging.Error().Err(err).Msg("store create failed")
			break
		}
		if ok {
			logging.Info().
				Str("identifier", identifier).
				Str("remote", cip).
				Str("expire", expiration.Code()).
				Int("size", len(code)).
				Msg("created paste")
			s.metrics.created.Inc()
			writeText(w, http.StatusOK, s.opts.BaseURL+"/"+identifier)
			return
		}
		logging.Debug().Str("identifier", identifier).Msg("identifier collision, retrying")
	}

	writeText(w, http.StatusInternalServerError, "could not create paste")
}

func (s *Server) reject(w http.ResponseWriter, reason, msg string) {
	s.metrics.rejected.WithLabelValues(reason).Inc()
	writeText(w, http.StatusOK, s.opts.ErrorPrefix+msg)
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(status)
	w.Write([]byte(body))
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

// getClientIP extracts the client IP. Forwarding headers are only
// consulted when trustProxy is set.
func getClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		// X-Forwarded-For can be comma-separated list: client, proxy1, proxy2
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			if idx := strings.Index(xff, ","); idx != -1 {
				return strings.TrimSpace(xff[:idx])
			}
			return strings.TrimSpace(xff)
		}
		if xri := r.Header.Get("X-Real-IP"); xri != "" {
			return strings.TrimSpace(xri)
		}
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
