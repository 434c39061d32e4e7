package news

import (
	"context"
	"log/slog"
	"sync"
)

// KeyValidator checks the provider credentials once per process and remembers the answer.
type KeyValidator struct {
	provider Provider

	once  sync.Once
	valid bool
}

func NewKeyValidator(p Provider) *KeyValidator {
	return &KeyValidator{provider: p}
}

// Valid runs the check on first use; concurrent callers wait for that single call.
func (k *KeyValidator) Valid(ctx context.Context) bool {
	k.once.Do(func() {
		if !k.provider.Configured() {
			slog.Error("no news API key configured, serving mock articles", "provider", k.provider.Name())
			return
		}
		// Detached from ctx cancellation; the answer is cached process-wide.
		if err := k.provider.Latest(context.WithoutCancel(ctx)); err != nil {
			slog.Error("news API key validation failed", "provider", k.provider.Name(), "error", err)
			return
		}
		slog.Debug("news API key validated", "provider", k.provider.Name())
		k.valid = true
	})
	return k.valid
}
