package upstream

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"payment-status-bot/internal/domain/model"
	"payment-status-bot/internal/domain/ports/adapter"
	"payment-status-bot/internal/infra/logging"

	"github.com/rs/zerolog"
)

var _ adapter.BlacklistClient = (*BlacklistClient)(nil)

// DefaultBlacklistComment is sent when the caller passes no comment.
const DefaultBlacklistComment = "Blacklisted via TelegramBot"

// BlacklistClient posts filterValue, filterType and comments as a form.
type BlacklistClient struct {
	base
	endpoint string
	comment  string
	dev      bool
}

func NewBlacklistClient(endpoint, defaultComment string, hc *http.Client, timeout time.Duration, logger *zerolog.Logger, dev bool) *BlacklistClient {
	if defaultComment == "" {
		defaultComment = DefaultBlacklistComment
	}
	return &BlacklistClient{
		base:     newBase("blacklist", hc, timeout, logger),
		endpoint: endpoint,
		comment:  defaultComment,
		dev:      dev,
	}
}

func (c *BlacklistClient) SubmitBlacklist(ctx context.Context, value string, filterType model.FilterType, comment string) adapter.BlacklistResult {
	if comment == "" {
		comment = c.comment
	}
	start := time.Now()
	log := c.log.With().Str("filter_type", filterType.String()).Str("value", logging.Redact(value, c.dev)).Logger()

	status, body, err := c.post(ctx, value, filterType, comment)
	if err != nil {
		c.observe(outcomeError, start)
		log.Error().Err(err).Msg("blacklist submission failed")
		return adapter.BlacklistResult{Message: fmt.Sprintf("Error while submitting blacklist: %v", err)}
	}
	if !isSuccess(status) {
		c.observe(outcomeRejected, start)
		log.Warn().Int("status", status).Msg("blacklist submission rejected")
		return adapter.BlacklistResult{Message: fmt.Sprintf("Failed to submit blacklist. Server response: %s", body)}
	}
	c.observe(outcomeOK, start)
	log.Info().Msg("blacklist submitted")
	return adapter.BlacklistResult{Submitted: true, Message: "User successfully blacklisted."}
}

func (c *BlacklistClient) post(ctx context.Context, value string, filterType model.FilterType, comment string) (int, string, error) {
	ctx, cancel := c.withDeadline(ctx)
	defer cancel()

	form := url.Values{}
	form.Set("filterValue", value)
	form.Set("filterType", filterType.String())
	form.Set("comments", comment)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return 0, "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := c.client.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()
	body, err := readBody(resp)
	if err != nil {
		return 0, "", err
	}
	return resp.StatusCode, body, nil
}
