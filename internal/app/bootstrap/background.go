// internal/app/bootstrap/background.go
package bootstrap

import (
	"context"
	"sync"
)

// background owns the goroutines BuildHandler starts. Shutdown stops them.
type background struct {
	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

var workers background

// Go runs fn under a context that Stop cancels.
func (b *background) Go(fn func(ctx context.Context)) {
	b.mu.Lock()
	if b.cancel == nil {
		b.ctx, b.cancel = context.WithCancel(context.Background())
	}
	ctx := b.ctx
	b.wg.Add(1)
	b.mu.Unlock()

	go func() {
		defer b.wg.Done()
		fn(ctx)
	}()
}

// Stop cancels every running goroutine and waits for them to return.
// Go may be called again afterwards.
func (b *background) Stop() {
	b.mu.Lock()
	if b.cancel != nil {
		b.cancel()
		b.cancel = nil
	}
	b.mu.Unlock()
	b.wg.Wait()
}
