package store

import (
	"context"
	"fmt"
	"time"

	supa "github.com/nedpals/supabase-go"

	"customer-analytics-buddy/internal/logger"
	"customer-analytics-buddy/internal/model"
)

const (
	onboardingTable = "onboarding"
	connectionTable = "mailchimp_connections"
	usageTable      = "usage_events"
)

type supabaseStore struct {
	client *supa.Client
	log    *logger.Logger
}

// NewSupabaseStore builds a Store backed by the Supabase REST interface.
func NewSupabaseStore(baseURL, serviceKey string, log *logger.Logger) (Store, error) {
	client := supa.CreateClient(baseURL, serviceKey)
	if client == nil {
		return nil, fmt.Errorf("create supabase client for %s", baseURL)
	}
	return &supabaseStore{client: client, log: log}, nil
}

func (s *supabaseStore) GetOnboarding(ctx context.Context, shopDomain string) (model.OnboardingDoc, error) {
	var docs []model.OnboardingDoc
	err := s.client.DB.From(onboardingTable).
		Select("*").
		Eq("shop_domain", shopDomain).
		ExecuteWithContext(ctx, &docs)
	if err != nil {
		return model.OnboardingDoc{}, fmt.Errorf("get onboarding for %s: %w", shopDomain, err)
	}
	if len(docs) == 0 {
		return model.OnboardingDoc{}, ErrNotFound
	}
	return docs[0], nil
}

func (s *supabaseStore) UpsertOnboarding(ctx context.Context, doc model.OnboardingDoc) error {
	doc.UpdatedAt = time.Now().UTC()

	var saved []model.OnboardingDoc
	err := s.client.DB.From(onboardingTable).
		Upsert(doc).
		ExecuteWithContext(ctx, &saved)
	if err != nil {
		return fmt.Errorf("upsert onboarding for %s: %w", doc.ShopDomain, err)
	}
	return nil
}

func (s *supabaseStore) SaveMailchimpConnection(ctx context.Context, conn model.MailchimpConnection) error {
	var saved []model.MailchimpConnection
	err := s.client.DB.From(connectionTable).
		Upsert(conn).
		ExecuteWithContext(ctx, &saved)
	if err != nil {
		return fmt.Errorf("save mailchimp connection for %s: %w", conn.ShopDomain, err)
	}
	return nil
}

func (s *supabaseStore) RecordUsageBatch(ctx context.Context, events []model.UsageEvent) error {
	if len(events) == 0 {
		return nil
	}

	var saved []model.UsageEvent
	err := s.client.DB.From(usageTable).
		Insert(events).
		ExecuteWithContext(ctx, &saved)
	if err != nil {
		return fmt.Errorf("record %d usage events: %w", len(events), err)
	}
	return nil
}
