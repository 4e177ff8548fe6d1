package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"customer-analytics-buddy/internal/logger"
)

// Session identifies one shop and its Admin API token. The hosting layer
// authenticates the merchant; this package only consumes the result.
type Session struct {
	ShopDomain  string
	AccessToken string
}

// Client executes one GraphQL request against the Admin API. It knows
// nothing about pagination; that is the fetcher's job.
type Client interface {
	Query(ctx context.Context, query string, variables map[string]any, out any) error
}

type client struct {
	httpClient *http.Client
	endpoint   string
	token      string
	log        *logger.Logger
}

// NewClient builds a shop-scoped Admin API client.
func NewClient(session Session, apiVersion string, log *logger.Logger) Client {
	return &client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		endpoint:   fmt.Sprintf("https://%s/admin/api/%s/graphql.json", session.ShopDomain, apiVersion),
		token:      session.AccessToken,
		log:        log,
	}
}

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// Query posts one GraphQL document and unmarshals the data payload into
// out. Server-reported errors abort the call: access-denial markers map to
// ErrProtectedDataAccessDenied, everything else to a QueryError carrying
// the server's message. Transport failures propagate as-is, no retry.
func (c *client) Query(ctx context.Context, query string, variables map[string]any, out any) error {
	body, err := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("marshal graphql request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build graphql request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Access-Token", c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute graphql request: %w", err)
	}
	defer resp.Body.Close()

	var parsed graphqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return fmt.Errorf("decode graphql response: %w", err)
	}

	if len(parsed.Errors) > 0 {
		for _, respErr := range parsed.Errors {
			if isAccessDenied(respErr.Message) {
				c.log.Warnw("protected data access denied", "endpoint", c.endpoint)
				return ErrProtectedDataAccessDenied
			}
		}
		return &QueryError{Message: parsed.Errors[0].Message}
	}

	if out != nil {
		if err := json.Unmarshal(parsed.Data, out); err != nil {
			return fmt.Errorf("unmarshal graphql data: %w", err)
		}
	}

	return nil
}
