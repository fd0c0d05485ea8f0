// Package notify delivers operator notifications about withdrawals that need review.
package notify

import (
	"context"
	"errors"

	"offerwall-rewards/internal/core/domain"
	"offerwall-rewards/internal/core/ports"
)

// Noop drops every notification. Used when no channel is configured.
type Noop struct{}

func (Noop) NotifyWithdrawal(context.Context, *domain.Withdrawal) error { return nil }

// Multi fans a notification out to several channels.
// Every channel is tried; their errors are joined.
type Multi []ports.AdminNotifier

func (m Multi) NotifyWithdrawal(ctx context.Context, w *domain.Withdrawal) error {
	var errs []error
	for _, n := range m {
		if err := n.NotifyWithdrawal(ctx, w); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Combine returns the narrowest notifier covering the given channels.
func Combine(notifiers ...ports.AdminNotifier) ports.AdminNotifier {
	switch len(notifiers) {
	case 0:
		return Noop{}
	case 1:
		return notifiers[0]
	default:
		return Multi(notifiers)
	}
}
