package upstream

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"payment-status-bot/internal/domain/ports/adapter"

	"github.com/rs/zerolog"
)

var _ adapter.DescriptorSource = (*DescriptorSource)(nil)

// DescriptorsUnavailable is returned in place of the content on any failure.
const DescriptorsUnavailable = "Failed to retrieve descriptor information."

// DescriptorSource reads the descriptor list from a URL when one is
// configured, otherwise from a local file.
type DescriptorSource struct {
	base
	url   string
	path  string
	limit int64
}

func NewDescriptorSource(url, path string, hc *http.Client, timeout time.Duration, logger *zerolog.Logger) *DescriptorSource {
	return &DescriptorSource{base: newBase("descriptors", hc, timeout, logger), url: url, path: path, limit: maxDescriptorBytes}
}

func (s *DescriptorSource) FetchDescriptors(ctx context.Context) adapter.Descriptors {
	start := time.Now()
	var (
		text string
		err  error
	)
	if s.url != "" {
		text, err = s.download(ctx)
	} else {
		text, err = s.readFile()
	}
	if err != nil {
		s.observe(outcomeError, start)
		s.log.Error().Err(err).Msg("failed to read descriptors")
		return adapter.Descriptors{Text: DescriptorsUnavailable}
	}
	s.observe(outcomeOK, start)
	return adapter.Descriptors{Text: text, Available: true}
}

func (s *DescriptorSource) readFile() (string, error) {
	if s.path == "" {
		return "", errors.New("no descriptor source configured")
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (s *DescriptorSource) download(ctx context.Context) (string, error) {
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return "", err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if !isSuccess(resp.StatusCode) {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return readFullBody(resp, s.limit)
}
