package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"payment-status-bot/internal/domain/ports/adapter"

	"github.com/rs/zerolog"
)

var _ adapter.PaymentStatusClient = (*PaymentStatusClient)(nil)

const paymentStatusFailed = "❌ Failed to retrieve payment status."

// PaymentStatusClient queries the gateway status endpoint with
// CompanyNum and Order query parameters.
type PaymentStatusClient struct {
	base
	endpoint string
}

func NewPaymentStatusClient(endpoint string, hc *http.Client, timeout time.Duration, logger *zerolog.Logger) *PaymentStatusClient {
	return &PaymentStatusClient{base: newBase("payment_status", hc, timeout, logger), endpoint: endpoint}
}

// flexString accepts a JSON string, number or null.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

type statusRecord struct {
	ReplyDesc      flexString `json:"replyDesc"`
	TransDate      flexString `json:"trans_date"`
	ClientFullName flexString `json:"client_fullName"`
	ClientEmail    flexString `json:"client_email"`
	TransID        flexString `json:"trans_id"`
	ReplyCode      flexString `json:"replyCode"`
	MerchantID     flexString `json:"merchantID"`
	TransAmount    flexString `json:"trans_amount"`
	TransCurrency  flexString `json:"trans_currency"`
}

type statusResponse struct {
	Data []statusRecord `json:"data"`
}

func (c *PaymentStatusClient) QueryPaymentStatus(ctx context.Context, accountID, orderID string) adapter.PaymentStatus {
	start := time.Now()
	rec, found, err := c.fetch(ctx, accountID, orderID)
	switch {
	case err != nil:
		c.observe(outcomeError, start)
		c.log.Error().Err(err).Str("order", orderID).Msg("payment status query failed")
		return adapter.PaymentStatus{Found: false, Message: paymentStatusFailed}
	case !found:
		c.observe(outcomeNotFound, start)
		return adapter.PaymentStatus{Found: false, Message: fmt.Sprintf("Order %s: No data found.", orderID)}
	default:
		c.observe(outcomeOK, start)
		return adapter.PaymentStatus{Found: true, Message: formatStatus(orderID, rec)}
	}
}

func (c *PaymentStatusClient) fetch(ctx context.Context, accountID, orderID string) (statusRecord, bool, error) {
	ctx, cancel := c.withDeadline(ctx)
	defer cancel()

	u, err := url.Parse(c.endpoint)
	if err != nil {
		return statusRecord{}, false, fmt.Errorf("parse endpoint: %w", err)
	}
	q := u.Query()
	q.Set("CompanyNum", accountID)
	q.Set("Order", orderID)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return statusRecord{}, false, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return statusRecord{}, false, err
	}
	defer resp.Body.Close()
	if !isSuccess(resp.StatusCode) {
		return statusRecord{}, false, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var out statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return statusRecord{}, false, fmt.Errorf("decode: %w", err)
	}
	if len(out.Data) == 0 {
		return statusRecord{}, false, nil
	}
	return out.Data[0], true, nil
}

func formatStatus(orderID string, r statusRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Order: %s\n", orderID)
	fmt.Fprintf(&b, "Date: %s\n", r.TransDate)
	fmt.Fprintf(&b, "Transaction ID: %s\n", r.TransID)
	fmt.Fprintf(&b, "Response Code: %s\n", r.ReplyCode)
	fmt.Fprintf(&b, "Response Description: %s\n", r.ReplyDesc)
	fmt.Fprintf(&b, "Amount: %s %s\n", r.TransAmount, r.TransCurrency)
	fmt.Fprintf(&b, "Client: %s\n", r.ClientFullName)
	fmt.Fprintf(&b, "Email: %s", r.ClientEmail)
	return b.String()
}
