package mailchimp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"customer-analytics-buddy/internal/logger"
)

const defaultLoginBaseURL = "https://login.mailchimp.com"

// Credentials is the outcome of a completed authorization-code exchange.
type Credentials struct {
	AccessToken  string
	ServerPrefix string
}

// Connector implements the three-step Mailchimp OAuth flow: build the
// authorize URL, exchange the code for a token, then read the metadata
// endpoint for the server prefix. Tokens do not expire, so there is no
// refresh path.
type Connector struct {
	clientID     string
	clientSecret string
	redirectURI  string
	loginBaseURL string
	httpClient   *retryablehttp.Client
	log          *logger.Logger
}

// NewConnector builds a Connector. The token exchange is idempotent on the
// Mailchimp side, so transient failures are retried with backoff.
func NewConnector(clientID, clientSecret, redirectURI string, log *logger.Logger) *Connector {
	httpClient := retryablehttp.NewClient()
	httpClient.RetryMax = 3
	httpClient.HTTPClient.Timeout = 15 * time.Second
	httpClient.Logger = nil

	return &Connector{
		clientID:     clientID,
		clientSecret: clientSecret,
		redirectURI:  redirectURI,
		loginBaseURL: defaultLoginBaseURL,
		httpClient:   httpClient,
		log:          log,
	}
}

// AuthorizeURL is where the merchant's browser is sent to grant access.
func (c *Connector) AuthorizeURL(state string) string {
	query := url.Values{}
	query.Set("response_type", "code")
	query.Set("client_id", c.clientID)
	query.Set("redirect_uri", c.redirectURI)
	query.Set("state", state)
	return c.loginBaseURL + "/oauth2/authorize?" + query.Encode()
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

type metadataResponse struct {
	DC          string `json:"dc"`
	APIEndpoint string `json:"api_endpoint"`
}

// ExchangeCode trades the authorization code for an access token and
// resolves the account's server prefix.
func (c *Connector) ExchangeCode(ctx context.Context, code string) (Credentials, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)
	form.Set("redirect_uri", c.redirectURI)
	form.Set("code", code)

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.loginBaseURL+"/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return Credentials{}, fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Credentials{}, fmt.Errorf("exchange authorization code: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Credentials{}, fmt.Errorf("token endpoint returned status %d", resp.StatusCode)
	}

	var token tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return Credentials{}, fmt.Errorf("decode token response: %w", err)
	}
	if token.AccessToken == "" {
		return Credentials{}, fmt.Errorf("token endpoint returned no access token")
	}

	prefix, err := c.serverPrefix(ctx, token.AccessToken)
	if err != nil {
		return Credentials{}, err
	}

	c.log.Infow("mailchimp account connected", "server_prefix", prefix)
	return Credentials{AccessToken: token.AccessToken, ServerPrefix: prefix}, nil
}

func (c *Connector) serverPrefix(ctx context.Context, accessToken string) (string, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, c.loginBaseURL+"/oauth2/metadata", nil)
	if err != nil {
		return "", fmt.Errorf("build metadata request: %w", err)
	}
	req.Header.Set("Authorization", "OAuth "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch account metadata: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("metadata endpoint returned status %d", resp.StatusCode)
	}

	var metadata metadataResponse
	if err := json.NewDecoder(resp.Body).Decode(&metadata); err != nil {
		return "", fmt.Errorf("decode metadata response: %w", err)
	}
	if metadata.DC == "" {
		return "", fmt.Errorf("metadata endpoint returned no server prefix")
	}

	return metadata.DC, nil
}
