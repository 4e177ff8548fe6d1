package model

import "time"

// OnboardingDoc is the per-shop onboarding checklist document.
type OnboardingDoc struct {
	ShopDomain     string          `json:"shop_domain"`
	StepsCompleted map[string]bool `json:"steps_completed"`
	Dismissed      bool            `json:"dismissed"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// MailchimpConnection holds the stored outcome of the OAuth exchange.
// Mailchimp access tokens do not expire, so there is no refresh state.
type MailchimpConnection struct {
	ShopDomain   string    `json:"shop_domain"`
	AccessToken  string    `json:"access_token"`
	ServerPrefix string    `json:"server_prefix"`
	ConnectedAt  time.Time `json:"connected_at"`
}

// UsageEvent is one dashboard usage signal, flushed in batches.
type UsageEvent struct {
	ShopDomain string    `json:"shop_domain"`
	Kind       string    `json:"kind"`
	OccurredAt time.Time `json:"occurred_at"`
}
