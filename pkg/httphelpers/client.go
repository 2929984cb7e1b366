package httphelpers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sunet/atls/pkg/logger"
)

// Client is a small, timeout-bounded HTTP client used for fetching JWKS
// documents over plain HTTPS. It carries none of the attested-connection
// machinery; a JKU is a normal public key distribution endpoint and is
// fetched over the ambient TLS trust store like any other HTTPS resource.
type Client struct {
	log        *logger.Log
	httpClient *http.Client
}

// New returns a Client whose requests are each bounded by timeout.
func New(log *logger.Log, timeout time.Duration) *Client {
	return &Client{
		log: log,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// GetJSON issues a GET to url and returns the response body, failing if the
// status code is not 200.
func (c *Client) GetJSON(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	c.log.Debug("fetching", "url", url)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d fetching %s", resp.StatusCode, url)
	}

	return body, nil
}
