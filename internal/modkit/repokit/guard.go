package repokit

import (
	"context"
	"fmt"
	"time"

	"kycdesk/internal/platform/store"
)

// Pinger is anything that answers a health ping
type Pinger = store.Pinger

// Ping runs p.Ping with a default 3s deadline when ctx has none
// a nil dependency reports as an error rather than a panic so readiness can show it
func Ping(ctx context.Context, name string, p Pinger) error {
	if p == nil {
		return fmt.Errorf("%s: not configured", name)
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
	}
	if err := p.Ping(ctx); err != nil {
		return fmt.Errorf("%s ping failed: %w", name, err)
	}
	return nil
}

// MustGuard runs st.Guard and panics on any error, used once at startup
func MustGuard(ctx context.Context, st interface{ Guard(context.Context) error }) {
	if err := st.Guard(ctx); err != nil {
		panic(fmt.Errorf("dependency guard failed: %w", err))
	}
}
