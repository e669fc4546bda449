package dashboard

import (
	"context"
	"errors"
	"sync"
	"time"

	"coinwatch/internal/domain"
)

// DefaultFetchTimeout is the hard ceiling on one chart/history fetch.
const DefaultFetchTimeout = 60 * time.Second

type fetchKey struct {
	kind   ExpansionKind
	symbol string
}

type inflightRequest struct {
	cancel context.CancelFunc
}

// Coordinator owns the in-flight chart and history fetches. It guarantees
// at most one outstanding request per (kind, symbol): beginning a second
// one cancels the first. Requests for different keys never affect each
// other. Cancellation is invisible; timeouts and server errors go to the
// error handler for user-visible, auto-expiring display.
type Coordinator struct {
	mu       sync.Mutex
	timeout  time.Duration
	inflight map[fetchKey]*inflightRequest
	loading  map[string]ExpansionKind
	onError  func(kind ExpansionKind, symbol string, err error)
	wg       sync.WaitGroup
}

// NewCoordinator creates a coordinator with the given fetch timeout
// (DefaultFetchTimeout when zero). onError may be nil.
func NewCoordinator(timeout time.Duration, onError func(kind ExpansionKind, symbol string, err error)) *Coordinator {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &Coordinator{
		timeout:  timeout,
		inflight: make(map[fetchKey]*inflightRequest),
		loading:  make(map[string]ExpansionKind),
		onError:  onError,
	}
}

// Begin starts fetch for (kind, symbol), cancelling any request already in
// flight for the same key. fetch runs on its own goroutine under a
// deadline context; it is expected to store its result into the cache on
// success. Outcomes:
//   - success: handle and loading marker cleared, nothing reported
//   - cancellation (superseded or torn down): silently dropped
//   - timeout or error: cleared, then reported through the error handler
func (c *Coordinator) Begin(kind ExpansionKind, symbol string, fetch func(ctx context.Context) error) {
	key := fetchKey{kind: kind, symbol: domain.NormalizeSymbol(symbol)}

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	req := &inflightRequest{cancel: cancel}

	c.mu.Lock()
	if prev, ok := c.inflight[key]; ok {
		prev.cancel()
	}
	c.inflight[key] = req
	c.loading[key.symbol] = kind
	c.mu.Unlock()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer cancel()

		err := fetch(ctx)

		c.mu.Lock()
		if c.inflight[key] == req {
			delete(c.inflight, key)
			if c.loading[key.symbol] == kind {
				delete(c.loading, key.symbol)
			}
		}
		c.mu.Unlock()

		if err == nil || errors.Is(err, context.Canceled) {
			return
		}
		if c.onError != nil {
			c.onError(kind, key.symbol, err)
		}
	}()
}

// Loading returns the kind currently loading for symbol, if any.
func (c *Coordinator) Loading(symbol string) (ExpansionKind, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	kind, ok := c.loading[domain.NormalizeSymbol(symbol)]
	return kind, ok
}

// InFlight reports whether a request for (kind, symbol) is outstanding.
func (c *Coordinator) InFlight(kind ExpansionKind, symbol string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.inflight[fetchKey{kind: kind, symbol: domain.NormalizeSymbol(symbol)}]
	return ok
}

// CancelAll aborts every outstanding request. Used on teardown.
func (c *Coordinator) CancelAll() {
	c.mu.Lock()
	for _, req := range c.inflight {
		req.cancel()
	}
	c.mu.Unlock()
}

// Wait blocks until every started fetch goroutine has finished.
func (c *Coordinator) Wait() {
	c.wg.Wait()
}
