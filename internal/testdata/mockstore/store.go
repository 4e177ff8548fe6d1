package mockstore

import (
	"context"

	"github.com/stretchr/testify/mock"

	"customer-analytics-buddy/internal/model"
	"customer-analytics-buddy/internal/store"
)

type Store struct {
	mock.Mock
}

// Interface compliance check
var _ store.Store = &Store{}

func (m *Store) GetOnboarding(ctx context.Context, shopDomain string) (model.OnboardingDoc, error) {
	args := m.Called(ctx, shopDomain)
	return args.Get(0).(model.OnboardingDoc), args.Error(1)
}

func (m *Store) UpsertOnboarding(ctx context.Context, doc model.OnboardingDoc) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *Store) SaveMailchimpConnection(ctx context.Context, conn model.MailchimpConnection) error {
	args := m.Called(ctx, conn)
	return args.Error(0)
}

func (m *Store) RecordUsageBatch(ctx context.Context, events []model.UsageEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}
