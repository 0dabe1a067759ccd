package zibal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aminzare2005/vlonefarsi/pkg/config"
	pkgerrors "github.com/aminzare2005/vlonefarsi/pkg/errors"
	"github.com/aminzare2005/vlonefarsi/pkg/logger"
)

// Zibal result codes. 100 is the only success code; the rest are the
// documented failure reasons the gateway returns.
const (
	ResultOK              = 100
	ResultAlreadyVerified = 201
	ResultNotPaid         = 202
	ResultInvalidTrackID  = 203
)

const (
	requestPath = "/v1/request"
	verifyPath  = "/v1/verify"
)

var resultMessages = map[int]string{
	102: "merchant not found",
	103: "merchant is inactive",
	104: "merchant is invalid",
	105: "amount must be at least 1,000 rials",
	106: "invalid callback url",
	113: "amount exceeds the transaction ceiling",
	201: "payment already verified",
	202: "payment not completed or failed",
	203: "invalid track id",
}

var errLoggerRequired = errors.New("zibal logger is required")

// Client is a narrow wrapper over the Zibal payment gateway REST API with
// centralized logging and error mapping.
type Client struct {
	merchant   string
	baseURL    string
	httpClient *http.Client
	logger     *logger.Logger
}

// RequestParams describes a payment session request. AmountToman is the order
// total in Tomans; the gateway is paid in Rials and the conversion happens
// inside the client.
type RequestParams struct {
	AmountToman int64
	CallbackURL string
	Description string
	OrderID     string
}

// RequestResult is the gateway's answer to a session request.
type RequestResult struct {
	TrackID int64
	Result  int
	Message string
}

// VerifyResult is the gateway's answer to a verification call.
type VerifyResult struct {
	Result      int
	Message     string
	PaidAt      string
	Amount      int64
	RefNumber   *int64
	CardNumber  string
	OrderID     string
	Description string
}

// Confirmed reports whether the gateway settled the payment. An
// already-verified response counts as confirmed so that replayed callbacks
// stay idempotent.
func (v VerifyResult) Confirmed() bool {
	return v.Result == ResultOK || v.Result == ResultAlreadyVerified
}

type requestBody struct {
	Merchant    string `json:"merchant"`
	Amount      int64  `json:"amount"`
	CallbackURL string `json:"callbackUrl"`
	Description string `json:"description,omitempty"`
	OrderID     string `json:"orderId,omitempty"`
}

type requestResponse struct {
	TrackID int64  `json:"trackId"`
	Result  int    `json:"result"`
	Message string `json:"message"`
}

type verifyBody struct {
	Merchant string `json:"merchant"`
	TrackID  int64  `json:"trackId"`
}

type verifyResponse struct {
	Result      int    `json:"result"`
	Message     string `json:"message"`
	PaidAt      string `json:"paidAt"`
	Amount      int64  `json:"amount"`
	RefNumber   *int64 `json:"refNumber"`
	CardNumber  string `json:"cardNumber"`
	OrderID     string `json:"orderId"`
	Description string `json:"description"`
}

// NewClient initializes the Zibal wrapper.
func NewClient(ctx context.Context, cfg config.ZibalConfig, logg *logger.Logger) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	merchant := strings.TrimSpace(cfg.Merchant)
	if merchant == "" {
		return nil, errors.New("zibal merchant is required")
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("zibal base url is required")
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	c := &Client{
		merchant:   merchant,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logg,
	}
	logg.Info(ctx, "zibal client initialized")
	return c, nil
}

// StartURL returns the hosted payment page for a track id.
func (c *Client) StartURL(trackID int64) string {
	return fmt.Sprintf("%s/start/%d", c.baseURL, trackID)
}

// Request opens a payment session for an order. The amount is converted from
// Tomans to Rials before it is sent.
func (c *Client) Request(ctx context.Context, params RequestParams) (*RequestResult, error) {
	body := requestBody{
		Merchant:    c.merchant,
		Amount:      params.AmountToman * 10,
		CallbackURL: params.CallbackURL,
		Description: params.Description,
		OrderID:     params.OrderID,
	}
	c.log(ctx, "request", "payment_request", map[string]any{
		"order_id": params.OrderID,
		"amount":   params.AmountToman,
	})

	var resp requestResponse
	if err := c.post(ctx, requestPath, body, &resp); err != nil {
		c.log(ctx, "error", "payment_request", map[string]any{"error": err.Error()})
		return nil, err
	}

	result := &RequestResult{
		TrackID: resp.TrackID,
		Result:  resp.Result,
		Message: messageFor(resp.Result, resp.Message),
	}
	c.log(ctx, "response", "payment_request", map[string]any{
		"order_id": params.OrderID,
		"track_id": resp.TrackID,
		"result":   resp.Result,
	})

	if resp.Result != ResultOK {
		return result, pkgerrors.New(
			pkgerrors.CodeDependency,
			fmt.Sprintf("zibal payment request rejected: %s", result.Message),
		)
	}
	return result, nil
}

// Verify asks the gateway whether a track id was settled. A non-confirmed
// result is returned without error so callers can branch on the outcome.
func (c *Client) Verify(ctx context.Context, trackID int64) (*VerifyResult, error) {
	c.log(ctx, "request", "payment_verify", map[string]any{"track_id": trackID})

	var resp verifyResponse
	if err := c.post(ctx, verifyPath, verifyBody{Merchant: c.merchant, TrackID: trackID}, &resp); err != nil {
		c.log(ctx, "error", "payment_verify", map[string]any{"error": err.Error()})
		return nil, err
	}

	result := &VerifyResult{
		Result:      resp.Result,
		Message:     messageFor(resp.Result, resp.Message),
		PaidAt:      resp.PaidAt,
		Amount:      resp.Amount,
		RefNumber:   resp.RefNumber,
		CardNumber:  resp.CardNumber,
		OrderID:     resp.OrderID,
		Description: resp.Description,
	}
	c.log(ctx, "response", "payment_verify", map[string]any{
		"track_id":  trackID,
		"result":    resp.Result,
		"confirmed": result.Confirmed(),
	})
	return result, nil
}

func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding zibal payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building zibal request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// one retry on transport failure, the body is replayable
		retryReq := req.Clone(ctx)
		retryReq.Body = io.NopCloser(bytes.NewReader(raw))
		resp, err = c.httpClient.Do(retryReq)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "calling zibal gateway")
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return pkgerrors.New(
			pkgerrors.CodeDependency,
			fmt.Sprintf("zibal gateway returned status %d", resp.StatusCode),
		)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decoding zibal response")
	}
	return nil
}

func (c *Client) log(ctx context.Context, phase, op string, fields map[string]any) {
	if c == nil || c.logger == nil {
		return
	}
	logFields := map[string]any{
		"operation": op,
		"phase":     phase,
	}
	for k, v := range fields {
		logFields[k] = v
	}
	ctx = c.logger.WithFields(ctx, logFields)
	switch phase {
	case "error":
		c.logger.Error(ctx, fmt.Sprintf("zibal %s", op), errors.New(fmt.Sprint(fields["error"])))
	default:
		c.logger.Info(ctx, fmt.Sprintf("zibal %s", phase))
	}
}

func messageFor(result int, fallback string) string {
	if msg, ok := resultMessages[result]; ok {
		return msg
	}
	if strings.TrimSpace(fallback) != "" {
		return fallback
	}
	return fmt.Sprintf("result code %d", result)
}
