// Package log_shipper copies every consumed transaction message into a
// search index, out of band from the fraud pipeline. Ingestion is best
// effort: a failure is counted and logged, never retried and never allowed
// to affect classification or routing.
package log_shipper

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/sony/gobreaker"
	"github.com/transaction-fraud-monitor/internal/config"
)

// Ingester ships one raw message to the search index
type Ingester interface {
	Ingest(ctx context.Context, payload []byte) error
}

// SearchIngester posts raw JSON documents to an Elasticsearch-compatible
// endpoint. A circuit breaker stops hammering the index while it is down;
// while the breaker is open, ingestion fails fast and the shipper keeps
// consuming.
type SearchIngester struct {
	client  *http.Client
	docURL  string
	breaker *gobreaker.CircuitBreaker
	logger  *slog.Logger
}

// NewSearchIngester creates an ingester for the configured index
func NewSearchIngester(logger *slog.Logger, cfg *config.SearchConfig) *SearchIngester {
	maxFailures := cfg.BreakerFailures
	if maxFailures == 0 {
		maxFailures = 5
	}

	settings := gobreaker.Settings{
		Name:    "search-index",
		Timeout: cfg.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Search index circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}

	return &SearchIngester{
		client:  &http.Client{Timeout: cfg.Timeout},
		docURL:  fmt.Sprintf("%s/%s/_doc", cfg.URL, cfg.Index),
		breaker: gobreaker.NewCircuitBreaker(settings),
		logger:  logger,
	}
}

// Ingest posts one document to the index through the circuit breaker
func (s *SearchIngester) Ingest(ctx context.Context, payload []byte) error {
	_, err := s.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.docURL, bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("failed to build index request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := s.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to post document to search index: %w", err)
		}
		defer func() {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
		}()

		if resp.StatusCode >= http.StatusMultipleChoices {
			return nil, fmt.Errorf("search index returned status %d", resp.StatusCode)
		}
		return nil, nil
	})
	return err
}
