package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/swaritsharma001/welness-studio/internal/provider"
	"github.com/swaritsharma001/welness-studio/internal/repository"
)

// Reconciler resolves the current provider status of payment intents. A
// short-TTL cache in front of the provider keeps listings from hammering the
// payment API when they are refreshed repeatedly.
type Reconciler struct {
	payments provider.Provider
	cache    repository.IntentStatusCache
	logger   *slog.Logger
}

// NewReconciler creates a new payment status reconciler. The cache is
// optional; passing nil polls the provider on every call.
func NewReconciler(payments provider.Provider, cache repository.IntentStatusCache, logger *slog.Logger) *Reconciler {
	return &Reconciler{
		payments: payments,
		cache:    cache,
		logger:   logger,
	}
}

// IntentStatus returns the provider status for the given intent reference,
// consulting the cache first.
func (r *Reconciler) IntentStatus(ctx context.Context, ref string) (string, error) {
	if r.cache != nil {
		status, ok, err := r.cache.Get(ctx, ref)
		if err != nil {
			// A broken cache must not block reconciliation.
			r.logger.WarnContext(ctx, "intent status cache read failed",
				slog.String("ref", ref),
				slog.String("error", err.Error()),
			)
		} else if ok {
			return status, nil
		}
	}

	intent, err := r.payments.GetIntent(ctx, ref)
	if err != nil {
		return "", fmt.Errorf("get intent %s: %w", ref, err)
	}

	if r.cache != nil {
		if err := r.cache.Set(ctx, ref, intent.Status); err != nil {
			r.logger.WarnContext(ctx, "intent status cache write failed",
				slog.String("ref", ref),
				slog.String("error", err.Error()),
			)
		}
	}

	return intent.Status, nil
}
