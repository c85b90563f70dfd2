package fetcher

import (
	"context"
	"sync"
	"time"

	"github.com/jmhodges/clock"
)

// SEC hosts gated at a fixed interval.
var SECHosts = []string{"www.sec.gov", "data.sec.gov", "efts.sec.gov"}

// IntervalGate enforces a fixed minimum delay between consecutive requests.
// Callers are served one at a time in arrival order.
type IntervalGate struct {
	mu       sync.Mutex
	clk      clock.Clock
	interval time.Duration
	last     time.Time
}

// NewIntervalGate creates a gate that spaces requests by at least interval.
func NewIntervalGate(clk clock.Clock, interval time.Duration) *IntervalGate {
	return &IntervalGate{clk: clk, interval: interval}
}

// Wait sleeps until interval has elapsed since the previous request.
func (g *IntervalGate) Wait(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	if !g.last.IsZero() {
		if wait := g.interval - g.clk.Now().Sub(g.last); wait > 0 {
			g.clk.Sleep(wait)
		}
	}
	g.last = g.clk.Now()
	return nil
}

// SECGates returns one interval gate per SEC host. The hosts are separate
// services, so each keeps its own spacing.
func SECGates(clk clock.Clock, interval time.Duration) map[string]Gate {
	gates := make(map[string]Gate, len(SECHosts))
	for _, host := range SECHosts {
		gates[host] = NewIntervalGate(clk, interval)
	}
	return gates
}
