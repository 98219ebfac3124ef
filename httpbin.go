package httpbin

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/always-cache/httpbin/assets"
	recorder "github.com/always-cache/httpbin/pkg/response-recorder"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

const (
	defaultMaxDelay       = 10 * time.Second
	defaultStreamInterval = time.Second
)

type Config struct {
	// Source of the static pages and images.
	// The embedded assets are used if nil.
	Assets assets.AssetProvider
	// Logger to use. A console logger is used if nil.
	Logger *zerolog.Logger
	// Optional request metrics.
	Metrics *Metrics
	// Use X-Forwarded-For / X-Real-IP as the origin of requests.
	// Only enable behind a trusted proxy.
	TrustProxy bool
	// Upper bound for /delay. Defaults to 10 seconds.
	MaxDelay time.Duration
	// Pause between the lines of /stream. Defaults to 1 second.
	StreamInterval time.Duration
	// Optional function used for every simulated wait.
	// It must return early with an error when the context is done.
	Sleep func(ctx context.Context, d time.Duration) error
}

type HttpBin struct {
	assets         assets.AssetProvider
	log            zerolog.Logger
	metrics        *Metrics
	maxDelay       time.Duration
	streamInterval time.Duration
	sleep          func(ctx context.Context, d time.Duration) error
	routes         []rule
	handler        http.Handler
}

// New creates the httpbin handler.
func New(config Config) *HttpBin {
	// use console logger if not specified in config
	var logger zerolog.Logger
	if config.Logger == nil {
		logger = zerolog.New(zerolog.NewConsoleWriter())
	} else {
		logger = *config.Logger
	}
	logger = logger.With().Str("component", "httpbin").Logger()

	h := &HttpBin{
		assets:         config.Assets,
		log:            logger,
		metrics:        config.Metrics,
		maxDelay:       config.MaxDelay,
		streamInterval: config.StreamInterval,
		sleep:          config.Sleep,
	}
	if h.assets == nil {
		h.assets = assets.NewMemAssets()
	}
	if h.maxDelay <= 0 {
		h.maxDelay = defaultMaxDelay
	}
	if h.streamInterval <= 0 {
		h.streamInterval = defaultStreamInterval
	}
	if h.sleep == nil {
		h.sleep = sleepContext
	}
	h.routes = h.catalog()

	// only the chi middleware chain is used, the chi mux answers unknown methods with 405
	mws := chi.Middlewares{middleware.RequestID}
	if config.TrustProxy {
		mws = append(mws, middleware.RealIP)
	}
	mws = append(mws, h.instrument)
	h.handler = chi.Chain(mws...).Handler(http.HandlerFunc(h.dispatch))

	return h
}

// ServeHTTP implements the http.Handler interface.
func (h *HttpBin) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.handler.ServeHTTP(w, r)
}

type routeKey struct{}

// instrument wraps the response writer to log every request and record metrics.
// The dispatcher reports the matched rule through the request context.
func (h *HttpBin) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recorder.NewResponseRecorder(w)
		route := new(string)
		next.ServeHTTP(rec, r.WithContext(context.WithValue(r.Context(), routeKey{}, route)))
		h.logRequest(r, rec, *route)
		h.metrics.observe(*route, rec.StatusCode(), rec.Duration())
	})
}

func setRoute(ctx context.Context, name string) {
	if route, ok := ctx.Value(routeKey{}).(*string); ok {
		*route = name
	}
}

func (h *HttpBin) logRequest(r *http.Request, rec *recorder.ResponseRecorder, route string) {
	h.log.Debug().
		Str("reqId", middleware.GetReqID(r.Context())).
		Str("method", r.Method).
		Str("url", r.URL.String()).
		Str("sourceIp", getRequestSourceIp(r)).
		Str("route", route).
		Int("status", rec.StatusCode()).
		Int64("bytes", rec.BytesWritten()).
		Dur("duration", rec.Duration()).
		Msg("Sent response to client")
}

func getRequestSourceIp(r *http.Request) string {
	// RemoteAddr is in the format:
	// 1.2.3.4:10000 for ipv4
	// [1:2:3]:10000 for ipv6
	// or just the address when set by a proxy header
	ipAndPort := r.RemoteAddr
	portSepIdx := strings.LastIndex(ipAndPort, ":")
	// if not found, or part of a bare ipv6 address, return as is
	if portSepIdx < 0 || strings.Count(ipAndPort, ":") > 1 && !strings.HasPrefix(ipAndPort, "[") {
		return ipAndPort
	}
	ip := ipAndPort[:portSepIdx]
	return strings.Trim(ip, "[]")
}

// sleepContext blocks for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
