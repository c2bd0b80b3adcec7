package api

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// handle registers h on route with request logging and metrics.
func (s *Server) handle(route string, h http.HandlerFunc) {
	s.mux.HandleFunc(route, func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		h(rec, r)
		elapsed := time.Since(start)

		s.metrics.RecordRequest(route, rec.code, elapsed)
		s.log.Debug("request",
			zap.String("method", r.Method),
			zap.String("route", route),
			zap.Int("code", rec.code),
			zap.Duration("elapsed", elapsed),
		)
	})
}

// limit rejects POST requests from clients over their rate.
func (s *Server) limit(h http.HandlerFunc) http.HandlerFunc {
	if s.limiter == nil {
		return h
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && !s.limiter.GetLimiter(clientIP(r)).Allow() {
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		h(w, r)
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RateLimiterIdle is how long a client IP may stay silent before its
// limiter is forgotten.
const RateLimiterIdle = 10 * time.Minute

type ipClient struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter hands out one token bucket per client IP. Buckets left
// unused for RateLimiterIdle are swept at most once per idle period, so the
// map holds at most the clients seen within the last two periods.
type IPRateLimiter struct {
	ips       map[string]*ipClient
	mu        *sync.Mutex
	r         rate.Limit
	b         int
	idle      time.Duration
	lastSweep time.Time
	now       func() time.Time
}

func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	return &IPRateLimiter{
		ips:       make(map[string]*ipClient),
		mu:        &sync.Mutex{},
		r:         r,
		b:         b,
		idle:      RateLimiterIdle,
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

func (l *IPRateLimiter) GetLimiter(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= l.idle {
		l.sweep(now)
	}

	c, exists := l.ips[ip]
	if !exists {
		c = &ipClient{limiter: rate.NewLimiter(l.r, l.b)}
		l.ips[ip] = c
	}
	c.lastSeen = now

	return c.limiter
}

// Len is the number of tracked client IPs.
func (l *IPRateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.ips)
}

func (l *IPRateLimiter) sweep(now time.Time) {
	for ip, c := range l.ips {
		if now.Sub(c.lastSeen) >= l.idle {
			delete(l.ips, ip)
		}
	}
	l.lastSweep = now
}

// statusRecorder captures the response code while keeping streaming and
// websocket upgrades working.
type statusRecorder struct {
	http.ResponseWriter
	code        int
	wroteHeader bool
}

func (r *statusRecorder) WriteHeader(code int) {
	if !r.wroteHeader {
		r.code = code
		r.wroteHeader = true
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("hijack not supported")
	}
	r.code = http.StatusSwitchingProtocols
	return h.Hijack()
}

func (r *statusRecorder) Unwrap() http.ResponseWriter { return r.ResponseWriter }
