package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"driveqa/internal/domain"
)

const defaultTimeout = 30 * time.Second

// FetcherConfig configures the authorized HTTP fetcher.
type FetcherConfig struct {
	Token   string
	Timeout time.Duration // per call
	Client  *http.Client
}

// Fetcher performs GET requests with a bearer token. Every call runs under its own
// deadline; there is no automatic retry.
type Fetcher struct {
	token   string
	timeout time.Duration
	client  *http.Client
	log     zerolog.Logger
}

func NewFetcher(cfg FetcherConfig, log zerolog.Logger) *Fetcher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	client := cfg.Client
	if client == nil {
		client = &http.Client{}
	}
	return &Fetcher{token: cfg.Token, timeout: timeout, client: client, log: log}
}

// AuthorizedFetch GETs url and returns the status and body. A transport failure, a
// deadline or a non-2xx status is returned as *domain.FetchError.
func (f *Fetcher) AuthorizedFetch(ctx context.Context, url string) (int, []byte, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, nil, &domain.FetchError{Op: http.MethodGet, URL: url, Err: err}
	}
	if f.token != "" {
		req.Header.Set("Authorization", "Bearer "+f.token)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); errors.Is(ctxErr, context.DeadlineExceeded) {
			err = fmt.Errorf("%w after %s", ctxErr, f.timeout)
		}
		f.log.Warn().Err(err).Str("url", url).Msg("remote call failed")
		return 0, nil, &domain.FetchError{Op: http.MethodGet, URL: url, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, &domain.FetchError{Op: http.MethodGet, URL: url, Status: resp.StatusCode, Err: err}
	}
	f.log.Debug().
		Str("url", url).
		Int("status", resp.StatusCode).
		Int("bytes", len(body)).
		Dur("took", time.Since(start)).
		Msg("remote call")
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, body, &domain.FetchError{Op: http.MethodGet, URL: url, Status: resp.StatusCode}
	}
	return resp.StatusCode, body, nil
}
