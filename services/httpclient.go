package services

import (
	"fmt"
	"time"

	"disasterprep/domain"

	"github.com/go-resty/resty/v2"
)

const defaultTimeout = 10 * time.Second

// newHTTPClient builds the resty client shared by the provider adapters.
// Calls are attempted once; retrying is left to the caller.
func newHTTPClient(baseURL string, timeout time.Duration) *resty.Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
}

// checkResponse turns a transport error or non-2xx status into an upstream error.
func checkResponse(provider string, resp *resty.Response, err error) error {
	if err != nil {
		return domain.Upstream(provider, err)
	}
	if resp.IsError() {
		return domain.Upstream(provider, fmt.Errorf("status %d: %s", resp.StatusCode(), truncateBody(resp.String())))
	}
	return nil
}

func truncateBody(s string) string {
	const max = 200
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
