package roleswitch

import (
	"context"
	"time"

	"github.com/portalhq/go-portal-auth/sessions"
)

// Poll intervals for session-change detection. There is no push notification
// of session changes: consumers poll the store and tolerate up to one
// interval of staleness.
const (
	SwitcherInterval  = 10 * time.Second
	IndicatorInterval = 5 * time.Second
)

// Poller periodically reads the active role set and invokes the callback
// when it changes. The callback also fires once on start with the initial
// set.
type Poller struct {
	store    *sessions.Store
	interval time.Duration
	onChange func([]sessions.Role)

	cancel context.CancelFunc
	done   chan struct{}
}

// NewPoller creates a poller over the store. onChange runs on the poller's
// goroutine and must not block for long.
func NewPoller(store *sessions.Store, interval time.Duration, onChange func([]sessions.Role)) *Poller {
	return &Poller{
		store:    store,
		interval: interval,
		onChange: onChange,
	}
}

// Start begins polling until the context is cancelled or Stop is called.
func (p *Poller) Start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(ctx)
	p.done = make(chan struct{})
	go p.run(ctx)
}

// Stop cancels polling and waits for the polling goroutine to exit.
func (p *Poller) Stop() {
	if p.cancel == nil {
		return
	}
	p.cancel()
	<-p.done
}

func (p *Poller) run(ctx context.Context) {
	defer close(p.done)

	last := p.store.ActiveRoles()
	p.onChange(last)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			current := p.store.ActiveRoles()
			if !rolesEqual(current, last) {
				last = current
				p.onChange(current)
			}
		}
	}
}

func rolesEqual(a, b []sessions.Role) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
