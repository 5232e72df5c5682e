package toss

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const defaultBaseURL = "https://api.tosspayments.com"

// Client is a minimal Toss Payments API client covering the three server-side
// calls this service makes: payment confirmation, billing key issuance and
// recurring charges against a billing key.
type Client struct {
	httpClient *http.Client
	secretKey  string
	baseURL    string
}

// NewClient constructs a client. An empty baseURL selects the production
// endpoint; tests point it at a local server.
func NewClient(httpClient *http.Client, secretKey, baseURL string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		httpClient: httpClient,
		secretKey:  secretKey,
		baseURL:    baseURL,
	}
}

// Payment is the gateway's payment object, trimmed to the fields we store.
type Payment struct {
	PaymentKey  string     `json:"paymentKey"`
	OrderID     string     `json:"orderId"`
	Status      string     `json:"status"`
	Method      string     `json:"method"`
	TotalAmount int64      `json:"totalAmount"`
	ApprovedAt  *time.Time `json:"approvedAt"`
	Receipt     *Receipt   `json:"receipt"`
}

// Receipt carries the hosted receipt URL.
type Receipt struct {
	URL string `json:"url"`
}

// ReceiptURL returns the receipt URL or "" when the gateway sent none.
func (p *Payment) ReceiptURL() string {
	if p.Receipt == nil {
		return ""
	}
	return p.Receipt.URL
}

// BillingAuth is the response of the billing key issuance call.
type BillingAuth struct {
	MID             string `json:"mId"`
	CustomerKey     string `json:"customerKey"`
	AuthenticatedAt string `json:"authenticatedAt"`
	Method          string `json:"method"`
	BillingKey      string `json:"billingKey"`
	Card            *Card  `json:"card"`
}

// Card describes the saved payment method behind a billing key.
type Card struct {
	Company  string `json:"company"`
	Number   string `json:"number"`
	CardType string `json:"cardType"`
}

// ChargeRequest is the body of a recurring charge against a billing key.
type ChargeRequest struct {
	CustomerKey string `json:"customerKey"`
	Amount      int64  `json:"amount"`
	OrderID     string `json:"orderId"`
	OrderName   string `json:"orderName"`
}

// APIError is a non-2xx gateway response. The message is passed through to
// callers unchanged.
type APIError struct {
	StatusCode int
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("toss: unexpected status %d", e.StatusCode)
}

// ConfirmPayment approves a payment the client initiated.
func (c *Client) ConfirmPayment(ctx context.Context, paymentKey, orderID string, amount int64) (*Payment, error) {
	body := map[string]interface{}{
		"paymentKey": paymentKey,
		"orderId":    orderID,
		"amount":     amount,
	}
	var payment Payment
	if err := c.post(ctx, "/v1/payments/confirm", body, &payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

// IssueBillingKey exchanges a one-time auth key from the initial payment for
// a durable billing key.
func (c *Client) IssueBillingKey(ctx context.Context, authKey, customerKey string) (*BillingAuth, error) {
	body := map[string]interface{}{
		"authKey":     authKey,
		"customerKey": customerKey,
	}
	var auth BillingAuth
	if err := c.post(ctx, "/v1/billing/authorizations/issue", body, &auth); err != nil {
		return nil, err
	}
	return &auth, nil
}

// ChargeBillingKey charges a saved payment method without user interaction.
func (c *Client) ChargeBillingKey(ctx context.Context, billingKey string, req ChargeRequest) (*Payment, error) {
	var payment Payment
	if err := c.post(ctx, "/v1/billing/"+billingKey, req, &payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

func (c *Client) post(ctx context.Context, path string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Basic "+c.authorization())

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		_ = json.NewDecoder(resp.Body).Decode(apiErr)
		return apiErr
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

// authorization builds the Basic credential: base64 of "<secretKey>:".
func (c *Client) authorization() string {
	return base64.StdEncoding.EncodeToString([]byte(c.secretKey + ":"))
}
