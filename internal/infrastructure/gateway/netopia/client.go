package netopia

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"unimarket/internal/application/billing/gateway"
	"unimarket/internal/domain/billing"
	"unimarket/internal/shared/config"
	"unimarket/internal/shared/logger"
	"unimarket/internal/shared/utils"
)

const (
	startPaymentPath     = "/payment/card/start"
	recurringPaymentPath = "/payment/card/recurrent"

	requestTimeout = 30 * time.Second
)

// Client talks to the Netopia card payment API. All failures, transport
// or protocol, are folded into PaymentResult{Success: false} so callers
// always get an outcome they can reconcile.
type Client struct {
	cfg        config.NetopiaConfig
	httpClient *http.Client
	logger     logger.Interface
}

func NewClient(cfg config.NetopiaConfig, logger logger.Interface) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: requestTimeout},
		logger:     logger,
	}
}

type billingPayload struct {
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	City        string `json:"city"`
	Country     int    `json:"country"`
	CountryName string `json:"countryName"`
	State       string `json:"state"`
	PostalCode  string `json:"postalCode"`
	Details     string `json:"details"`
}

type orderPayload struct {
	NtpID        string         `json:"ntpID,omitempty"`
	PosSignature string         `json:"posSignature"`
	DateTime     string         `json:"dateTime"`
	Description  string         `json:"description"`
	OrderID      string         `json:"orderID"`
	Amount       float64        `json:"amount"`
	Currency     string         `json:"currency"`
	Billing      billingPayload `json:"billing"`
}

type configPayload struct {
	NotifyURL   string `json:"notifyUrl"`
	RedirectURL string `json:"redirectUrl"`
	Language    string `json:"language"`
}

type startRequest struct {
	Config configPayload `json:"config"`
	Order  orderPayload  `json:"order"`
}

type recurringRequest struct {
	Config  configPayload `json:"config"`
	Order   orderPayload  `json:"order"`
	Payment struct {
		Token string `json:"token"`
	} `json:"payment"`
}

type apiResponse struct {
	CustomerAction struct {
		URL string `json:"url"`
	} `json:"customerAction"`
	Error struct {
		Code    json.Number `json:"code"`
		Message string      `json:"message"`
	} `json:"error"`
	Payment struct {
		NtpID   string  `json:"ntpID"`
		Status  int     `json:"status"`
		Amount  float64 `json:"amount"`
		Token   string  `json:"token"`
		Binding struct {
			Token       string `json:"token"`
			ExpireMonth int    `json:"expireMonth"`
			ExpireYear  int    `json:"expireYear"`
		} `json:"binding"`
		Instrument struct {
			PanMasked string `json:"panMasked"`
		} `json:"instrument"`
	} `json:"payment"`
}

func (c *Client) StartPayment(ctx context.Context, req gateway.StartPaymentRequest) *gateway.PaymentResult {
	body := startRequest{
		Config: configPayload{
			NotifyURL:   c.cfg.NotifyURL,
			RedirectURL: c.cfg.ReturnURL,
			Language:    "ro",
		},
		Order: c.orderPayload(req.OrderID, req.Amount, req.Currency, req.Description, req.Billing),
	}

	resp, err := c.post(ctx, startPaymentPath, body)
	if err != nil {
		c.logger.Errorw("start payment request failed", "order_id", req.OrderID, "error", err)
		return &gateway.PaymentResult{Success: false, ErrorMessage: err.Error()}
	}

	result := c.toResult(resp)
	result.RedirectURL = resp.CustomerAction.URL

	// On checkout a 3-D Secure challenge is an accepted request; the
	// customer completes it on the page behind the redirect.
	if resp.Payment.Status == billing.GatewayStatusPending3DS &&
		result.ErrorCode == 0 && result.RedirectURL != "" {
		result.Success = true
	}
	return result
}

func (c *Client) CreateRecurringPayment(ctx context.Context, req gateway.RecurringPaymentRequest) *gateway.PaymentResult {
	body := recurringRequest{
		Config: configPayload{
			NotifyURL: c.cfg.NotifyURL,
			Language:  "ro",
		},
		Order: c.orderPayload(req.OrderID, req.Amount, req.Currency, req.Description, req.Billing),
	}
	body.Payment.Token = req.Token

	resp, err := c.post(ctx, recurringPaymentPath, body)
	if err != nil {
		c.logger.Errorw("recurring payment request failed", "order_id", req.OrderID, "error", err)
		return &gateway.PaymentResult{Success: false, ErrorMessage: err.Error()}
	}

	return c.toResult(resp)
}

func (c *Client) orderPayload(orderID string, amount float64, currency, description string, b billing.BillingInfo) orderPayload {
	first, last := splitName(b.Name)
	return orderPayload{
		PosSignature: c.cfg.Signature,
		DateTime:     time.Now().UTC().Format(time.RFC3339),
		Description:  description,
		OrderID:      orderID,
		Amount:       amount,
		Currency:     currency,
		Billing: billingPayload{
			Email:       b.Email,
			Phone:       b.Phone,
			FirstName:   first,
			LastName:    last,
			City:        b.City,
			Country:     countryCode(b.Country),
			CountryName: b.Country,
			State:       b.City,
			PostalCode:  b.PostalCode,
			Details:     b.Address,
		},
	}
}

func (c *Client) post(ctx context.Context, path string, body any) (*apiResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway unreachable: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read gateway response: %w", err)
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("gateway returned HTTP %d", resp.StatusCode)
	}

	var parsed apiResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("malformed gateway response: %w", err)
	}

	return &parsed, nil
}

// toResult normalizes a gateway response. Statuses 1 (accepted), 3
// (paid) and 5 (confirmed) all count as success; the caller picks the
// final order status from the numeric code.
func (c *Client) toResult(resp *apiResponse) *gateway.PaymentResult {
	result := &gateway.PaymentResult{
		Status:       resp.Payment.Status,
		NtpID:        resp.Payment.NtpID,
		Token:        resp.Payment.Token,
		MaskedCard:   maskedPan(resp.Payment.Instrument.PanMasked),
		ErrorMessage: resp.Error.Message,
	}

	if resp.Payment.Binding.Token != "" {
		result.Token = resp.Payment.Binding.Token
		if resp.Payment.Binding.ExpireMonth > 0 && resp.Payment.Binding.ExpireYear > 0 {
			result.TokenExpiry = fmt.Sprintf("%02d/%02d", resp.Payment.Binding.ExpireMonth, resp.Payment.Binding.ExpireYear%100)
		}
	}

	if code, err := resp.Error.Code.Int64(); err == nil {
		result.ErrorCode = int(code)
	}

	switch resp.Payment.Status {
	case billing.GatewayStatusPendingAuth, billing.GatewayStatusPaid,
		billing.GatewayStatusConfirmed:
		result.Success = result.ErrorCode == 0
	default:
		result.Success = false
	}

	return result
}

// maskedPan normalizes whatever PAN shape the gateway echoed to a
// uniform last-four form before it is stored or mailed.
func maskedPan(pan string) string {
	if pan == "" {
		return ""
	}
	return utils.MaskCard(pan)
}

func splitName(full string) (first, last string) {
	for i := len(full) - 1; i >= 0; i-- {
		if full[i] == ' ' {
			return full[:i], full[i+1:]
		}
	}
	return full, full
}
