package handlers

import (
	"context"
	"log"
	"net/http"
	"sync"

	"golang.org/x/time/rate"
)

// writeChunk is the maximum number of bytes pushed through the rate limiter
// in a single pass. Smaller values give smoother limiting; 32 KiB balances
// accuracy against syscall overhead.
const writeChunk = 32 * 1024

// BandwidthManager enforces a server-wide download bandwidth cap shared
// fairly across unique client IPs: each active IP receives an equal share of
// the total regardless of how many concurrent connections it holds, so a
// download manager opening parallel streams cannot claim extra budget.
// Shares are rebalanced synchronously on every connect and disconnect.
type BandwidthManager struct {
	mu       sync.Mutex
	limitBps float64             // total cap in bytes/sec (0 = unlimited)
	active   map[string]*ipShare // keyed by remote IP
}

type ipShare struct {
	limiter *rate.Limiter
	refs    int // active transfers from this IP
}

// NewBandwidthManager creates a manager with the given total cap in bytes
// per second. Pass 0 to disable rate limiting entirely.
func NewBandwidthManager(bytesPerSec float64) *BandwidthManager {
	return &BandwidthManager{
		limitBps: bytesPerSec,
		active:   make(map[string]*ipShare),
	}
}

// Wrap applies bandwidth limiting to h. With no cap set, h is returned
// unchanged with zero overhead.
func (bm *BandwidthManager) Wrap(h http.Handler) http.Handler {
	if bm.limitBps == 0 {
		return h
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		limiter := bm.acquire(clientIP(r))
		defer bm.release(clientIP(r))

		h.ServeHTTP(&throttledWriter{
			ResponseWriter: w,
			ctx:            r.Context(),
			limiter:        limiter,
		}, r)
	})
}

// acquire registers one more transfer for ip and returns its limiter,
// rebalancing every active share.
func (bm *BandwidthManager) acquire(ip string) *rate.Limiter {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	s, ok := bm.active[ip]
	if !ok {
		// Placeholder rate; rebalance sets the real value immediately.
		s = &ipShare{limiter: rate.NewLimiter(1, writeChunk)}
		bm.active[ip] = s
	}
	s.refs++
	bm.rebalanceLocked()
	return s.limiter
}

// release drops one transfer for ip, removes the share at zero, and
// rebalances the remaining ones.
func (bm *BandwidthManager) release(ip string) {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	s, ok := bm.active[ip]
	if !ok {
		return
	}
	s.refs--
	if s.refs <= 0 {
		delete(bm.active, ip)
	}
	bm.rebalanceLocked()
}

// rebalanceLocked splits the total cap evenly over the active IPs.
// Must be called with bm.mu held.
func (bm *BandwidthManager) rebalanceLocked() {
	n := len(bm.active)
	if n == 0 || bm.limitBps == 0 {
		return
	}
	perIP := rate.Limit(bm.limitBps / float64(n))
	for ip, s := range bm.active {
		s.limiter.SetLimit(perIP)
		// Burst of one chunk: responsive, but never more than one
		// write-buffer worth of free data.
		s.limiter.SetBurst(writeChunk)
		log.Printf("rate rebalance  ip=%-15s  peers=%-2d", ip, n)
	}
}

// throttledWriter wraps http.ResponseWriter and pushes every Write through a
// token-bucket limiter in writeChunk-sized pieces.
type throttledWriter struct {
	http.ResponseWriter
	ctx     context.Context
	limiter *rate.Limiter
}

func (tw *throttledWriter) Write(p []byte) (int, error) {
	total := 0
	for len(p) > 0 {
		select {
		case <-tw.ctx.Done():
			return total, tw.ctx.Err()
		default:
		}

		n := len(p)
		if n > writeChunk {
			n = writeChunk
		}
		if err := tw.limiter.WaitN(tw.ctx, n); err != nil {
			return total, err
		}

		written, err := tw.ResponseWriter.Write(p[:n])
		total += written
		if err != nil {
			return total, err
		}
		p = p[n:]
	}
	return total, nil
}

// Unwrap lets http.ResponseController reach the underlying ResponseWriter.
func (tw *throttledWriter) Unwrap() http.ResponseWriter {
	return tw.ResponseWriter
}
