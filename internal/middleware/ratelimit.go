package middleware

import (
	"log/slog"
	"math"
	"net"
	"net/http"
	"net/netip"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/foliokit/folio/internal/apperr"
	"github.com/foliokit/folio/internal/respond"
)

// RateLimiter counts requests per client in fixed windows.
type RateLimiter struct {
	mu        sync.Mutex
	clients   map[string]*clientWindow
	limit     int
	window    time.Duration
	lastSweep time.Time
	now       func() time.Time
}

type clientWindow struct {
	count   int
	resetAt time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		clients: make(map[string]*clientWindow),
		limit:   limit,
		window:  window,
		now:     time.Now,
	}
}

// Allow records a request from client. When the limit is reached it
// returns false and the time until the window resets.
func (rl *RateLimiter) Allow(client string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.sweep(now)

	w, ok := rl.clients[client]
	if !ok || !now.Before(w.resetAt) {
		w = &clientWindow{resetAt: now.Add(rl.window)}
		rl.clients[client] = w
	}

	if w.count >= rl.limit {
		return false, w.resetAt.Sub(now)
	}
	w.count++
	return true, 0
}

// sweep drops expired windows at most once per window, so idle clients do
// not accumulate without a background goroutine.
func (rl *RateLimiter) sweep(now time.Time) {
	if now.Sub(rl.lastSweep) < rl.window {
		return
	}
	rl.lastSweep = now
	for client, w := range rl.clients {
		if !now.Before(w.resetAt) {
			delete(rl.clients, client)
		}
	}
}

// RateLimit allows limit requests per window per client IP. Every call
// returns an independent limiter.
func RateLimit(limit int, window time.Duration, proxies TrustedProxies) Guard {
	limiter := NewRateLimiter(limit, window)

	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			ip := proxies.ClientIP(r)

			ok, retryAfter := limiter.Allow(ip)
			if !ok {
				slog.Warn("rate limit exceeded", "ip", ip, "path", r.URL.Path)
				w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
				respond.Error(w, r, apperr.E(apperr.KindTooManyRequests, "Too many requests. Please try again later.", nil))
				return
			}

			next(w, r)
		}
	}
}

// RateLimitAuth limits login and registration: 5 requests per 15 minutes per IP
func RateLimitAuth(proxies TrustedProxies) Guard {
	return RateLimit(5, 15*time.Minute, proxies)
}

// TrustedProxies are the reverse proxies whose forwarding headers are
// believed. Without any, the connection address is the client.
type TrustedProxies []netip.Prefix

// ParseTrustedProxies reads addresses and CIDR ranges. Invalid entries
// are logged and skipped.
func ParseTrustedProxies(values []string) TrustedProxies {
	var proxies TrustedProxies
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if strings.Contains(v, "/") {
			prefix, err := netip.ParsePrefix(v)
			if err != nil {
				slog.Warn("ignoring invalid trusted proxy", "value", v, "error", err)
				continue
			}
			proxies = append(proxies, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(v)
		if err != nil {
			slog.Warn("ignoring invalid trusted proxy", "value", v, "error", err)
			continue
		}
		addr = addr.Unmap()
		proxies = append(proxies, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return proxies
}

func (t TrustedProxies) trusts(ip string) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range t {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// ClientIP returns the connection address unless it belongs to a trusted
// proxy. Behind one, X-Forwarded-For is read right to left and the first
// hop that is not itself a trusted proxy wins, then X-Real-IP.
func (t TrustedProxies) ClientIP(r *http.Request) string {
	remote := remoteHost(r)
	if !t.trusts(remote) {
		return remote
	}

	var hops []string
	for _, header := range r.Header.Values("X-Forwarded-For") {
		for _, hop := range strings.Split(header, ",") {
			if hop = strings.TrimSpace(hop); hop != "" {
				hops = append(hops, hop)
			}
		}
	}
	for i := len(hops) - 1; i >= 0; i-- {
		if !t.trusts(hops[i]) {
			return hops[i]
		}
	}
	if len(hops) > 0 {
		return hops[0]
	}

	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	return remote
}

func remoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
