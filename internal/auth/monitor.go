package auth

import (
	"log/slog"
	"sync"
	"time"
)

// DefaultMonitorInterval is how often the expiration monitor re-checks the
// token store when the caller does not say otherwise.
const DefaultMonitorInterval = 10 * time.Second

// StartExpirationMonitor polls the token store and invokes onExpired when
// the token is absent, undecodable, or past its expiry. The check runs once
// immediately and then every interval. onExpired fires at most once per
// monitor lifetime; polling continues afterwards but later detections are
// no-ops (the caller is expected to navigate away).
//
// The returned stop function halts the monitor and is safe to call more
// than once. Install the monitor only for authenticated sessions.
func StartExpirationMonitor(store TokenStore, onExpired func(), interval time.Duration) (stop func()) {
	if interval <= 0 {
		interval = DefaultMonitorInterval
	}

	done := make(chan struct{})
	go func() {
		fired := false
		check := func() {
			if fired {
				return
			}
			token, ok := store.Get()
			if !ok {
				slog.Debug("expiration monitor: no token present")
				fired = true
				onExpired()
				return
			}
			if IsTokenExpired(token, time.Now()) {
				slog.Info("expiration monitor: session expired")
				fired = true
				onExpired()
				return
			}
			if remaining := TimeUntilExpiration(token, time.Now()); remaining < 5*time.Minute {
				slog.Debug("session expiring soon", slog.Duration("remaining", remaining))
			}
		}

		check()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				check()
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(done) })
	}
}
