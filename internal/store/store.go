package store

import (
	"context"
	"errors"

	"customer-analytics-buddy/internal/model"
)

// ErrNotFound signals that no document exists for the shop.
var ErrNotFound = errors.New("document not found")

// Store is the persistence boundary for per-shop state. Metric data never
// passes through here; only onboarding, usage and connection documents do.
type Store interface {
	GetOnboarding(ctx context.Context, shopDomain string) (model.OnboardingDoc, error)
	UpsertOnboarding(ctx context.Context, doc model.OnboardingDoc) error
	SaveMailchimpConnection(ctx context.Context, conn model.MailchimpConnection) error
	RecordUsageBatch(ctx context.Context, events []model.UsageEvent) error
}
