package repokit

import (
	"context"
	"fmt"
	"time"
)

// MustPing panics when a dependency is nil or does not answer Ping; 5s unless ctx has a deadline
func MustPing(ctx context.Context, name string, p interface{ Ping(context.Context) error }) {
	if p == nil {
		panic(fmt.Sprintf("%s: nil dependency", name))
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
	}
	if err := p.Ping(ctx); err != nil {
		panic(fmt.Sprintf("%s ping failed: %v", name, err))
	}
}

// MustGuard runs a store guard and panics on failure, for service startup
func MustGuard(ctx context.Context, st interface{ Guard(context.Context) error }) {
	if err := st.Guard(ctx); err != nil {
		panic(fmt.Errorf("dependency guard failed: %w", err))
	}
}
