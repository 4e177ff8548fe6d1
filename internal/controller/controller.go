package controller

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"customer-analytics-buddy/internal/mailchimp"
	"customer-analytics-buddy/internal/model"
	"customer-analytics-buddy/internal/service"
	"customer-analytics-buddy/internal/shopify"
	"customer-analytics-buddy/internal/store"
)

// errProtectedData is the fixed error code the dashboard keys its
// "access not approved" state on.
const errProtectedData = "protected_customer_data_not_approved"

type DashboardController interface {
	GetReviewers(c *fiber.Ctx) error
	GetReturningCustomers(c *fiber.Ctx) error
	GetOrderBehavior(c *fiber.Ctx) error
	GetDiscountUsers(c *fiber.Ctx) error
	GetOnboarding(c *fiber.Ctx) error
	PutOnboarding(c *fiber.Ctx) error
	RecordUsage(c *fiber.Ctx) error
	MailchimpConnect(c *fiber.Ctx) error
	MailchimpCallback(c *fiber.Ctx) error
}

// FetcherFactory builds a shop-scoped order fetcher for one request.
type FetcherFactory func(session shopify.Session) shopify.OrderFetcher

type dashboardController struct {
	metrics    service.MetricsService
	docs       store.Store
	usage      service.UsageWorker
	mailchimp  *mailchimp.Connector
	newFetcher FetcherFactory
}

// NewDashboardController builds a DashboardController.
func NewDashboardController(metrics service.MetricsService, docs store.Store, usage service.UsageWorker, mc *mailchimp.Connector, newFetcher FetcherFactory) DashboardController {
	return &dashboardController{
		metrics:    metrics,
		docs:       docs,
		usage:      usage,
		mailchimp:  mc,
		newFetcher: newFetcher,
	}
}

// GetReviewers returns the distinct reviewer count, with optional per-day
// data points when ?date= is supplied.
func (h *dashboardController) GetReviewers(c *fiber.Ctx) error {
	session, err := sessionFromRequest(c)
	if err != nil {
		return err
	}

	var day *time.Time
	if raw := utils.Trim(c.Query("date"), ' '); raw != "" {
		parsed, parseErr := time.Parse("2006-01-02", raw)
		if parseErr != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		}
		day = &parsed
	}

	h.trackUsage(session.ShopDomain, "metric_reviewers")

	result, err := h.metrics.Reviewers(c.Context(), h.newFetcher(session), rangeToken(c), day)
	if err != nil {
		return metricError(c, err)
	}
	return c.JSON(result)
}

// GetReturningCustomers returns the distinct returning-customer count.
func (h *dashboardController) GetReturningCustomers(c *fiber.Ctx) error {
	session, err := sessionFromRequest(c)
	if err != nil {
		return err
	}

	h.trackUsage(session.ShopDomain, "metric_returning_customers")

	result, err := h.metrics.ReturningCustomers(c.Context(), h.newFetcher(session), rangeToken(c))
	if err != nil {
		return metricError(c, err)
	}
	return c.JSON(result)
}

// GetOrderBehavior returns COD/prepaid/cancelled order counts.
func (h *dashboardController) GetOrderBehavior(c *fiber.Ctx) error {
	session, err := sessionFromRequest(c)
	if err != nil {
		return err
	}

	h.trackUsage(session.ShopDomain, "metric_order_behavior")

	result, err := h.metrics.OrderBehavior(c.Context(), h.newFetcher(session), rangeToken(c))
	if err != nil {
		return metricError(c, err)
	}
	return c.JSON(result)
}

// GetDiscountUsers returns the distinct discount-user count.
func (h *dashboardController) GetDiscountUsers(c *fiber.Ctx) error {
	session, err := sessionFromRequest(c)
	if err != nil {
		return err
	}

	h.trackUsage(session.ShopDomain, "metric_discount_users")

	result, err := h.metrics.DiscountUsers(c.Context(), h.newFetcher(session), rangeToken(c))
	if err != nil {
		return metricError(c, err)
	}
	return c.JSON(result)
}

// GetOnboarding returns the shop's checklist document, or an empty one
// when the shop has never saved it.
func (h *dashboardController) GetOnboarding(c *fiber.Ctx) error {
	shop, err := shopFromRequest(c)
	if err != nil {
		return err
	}

	doc, err := h.docs.GetOnboarding(c.Context(), shop)
	if errors.Is(err, store.ErrNotFound) {
		doc = model.OnboardingDoc{ShopDomain: shop, StepsCompleted: map[string]bool{}}
	} else if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to load onboarding state")
	}

	return c.JSON(doc)
}

// PutOnboarding upserts the shop's checklist document.
func (h *dashboardController) PutOnboarding(c *fiber.Ctx) error {
	shop, err := shopFromRequest(c)
	if err != nil {
		return err
	}

	var doc model.OnboardingDoc
	if err := c.BodyParser(&doc); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json payload")
	}
	doc.ShopDomain = shop

	if err := h.docs.UpsertOnboarding(c.Context(), doc); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to save onboarding state")
	}

	return c.JSON(fiber.Map{"status": "saved"})
}

type usageRequest struct {
	Kind string `json:"kind"`
}

// RecordUsage enqueues one usage event; persistence happens in the
// background worker.
func (h *dashboardController) RecordUsage(c *fiber.Ctx) error {
	shop, err := shopFromRequest(c)
	if err != nil {
		return err
	}

	var req usageRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json payload")
	}
	if req.Kind == "" {
		req.Kind = "dashboard_viewed"
	}

	h.trackUsage(shop, req.Kind)

	return c.SendStatus(fiber.StatusAccepted)
}

// MailchimpConnect returns the URL the merchant's browser should visit to
// authorize the integration.
func (h *dashboardController) MailchimpConnect(c *fiber.Ctx) error {
	shop, err := shopFromRequest(c)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"authorizeUrl": h.mailchimp.AuthorizeURL(shop)})
}

// MailchimpCallback completes the authorization-code exchange and stores
// the resulting connection on the shop document.
func (h *dashboardController) MailchimpCallback(c *fiber.Ctx) error {
	code := utils.Trim(c.Query("code"), ' ')
	if code == "" {
		return fiber.NewError(fiber.StatusBadRequest, "code is required")
	}
	shop := utils.Trim(c.Query("state"), ' ')
	if shop == "" {
		return fiber.NewError(fiber.StatusBadRequest, "state is required")
	}

	creds, err := h.mailchimp.ExchangeCode(c.Context(), code)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "mailchimp authorization failed")
	}

	conn := model.MailchimpConnection{
		ShopDomain:   shop,
		AccessToken:  creds.AccessToken,
		ServerPrefix: creds.ServerPrefix,
		ConnectedAt:  time.Now().UTC(),
	}
	if err := h.docs.SaveMailchimpConnection(c.Context(), conn); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to save mailchimp connection")
	}

	return c.JSON(fiber.Map{"status": "connected", "serverPrefix": creds.ServerPrefix})
}

func (h *dashboardController) trackUsage(shop, kind string) {
	h.usage.Enqueue(model.UsageEvent{
		ShopDomain: shop,
		Kind:       kind,
		OccurredAt: time.Now().UTC(),
	})
}

func rangeToken(c *fiber.Ctx) string {
	return utils.Trim(c.Query("range", "30days"), ' ')
}

func sessionFromRequest(c *fiber.Ctx) (shopify.Session, error) {
	domain := c.Get("X-Shop-Domain")
	token := c.Get("X-Shopify-Access-Token")
	if domain == "" || token == "" {
		return shopify.Session{}, fiber.NewError(fiber.StatusBadRequest, "shop session headers are required")
	}
	return shopify.Session{ShopDomain: domain, AccessToken: token}, nil
}

func shopFromRequest(c *fiber.Ctx) (string, error) {
	domain := c.Get("X-Shop-Domain")
	if domain == "" {
		return "", fiber.NewError(fiber.StatusBadRequest, "X-Shop-Domain header is required")
	}
	return domain, nil
}

func metricError(c *fiber.Ctx, err error) error {
	if errors.Is(err, shopify.ErrProtectedDataAccessDenied) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": errProtectedData})
	}

	var validation *service.ValidationError
	if errors.As(err, &validation) {
		return fiber.NewError(fiber.StatusBadRequest, validation.Message)
	}

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}
