package nyutai

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const DefaultBaseURL = "https://site1.nyutai.com/api/chief/v1"

// StatusError is returned when the API answers with anything other than 200.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("nyutai %s: unexpected status %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

// ObserveFunc is called once per request with the HTTP status (0 when the
// request never got a response) and the time it took.
type ObserveFunc func(endpoint string, status int, dur time.Duration)

// Client talks to the nyutai chief API using a static token.
type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
	Observe ObserveFunc
}

func NewClient(baseURL, token string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		HTTP:    &http.Client{Timeout: timeout},
	}
}

type envelope[T any] struct {
	Data []T `json:"data"`
}

// getData issues a GET against endpoint and decodes the "data" array of the body.
func getData[T any](ctx context.Context, client *Client, endpoint string, query url.Values) ([]T, error) {
	u := client.BaseURL + "/" + endpoint
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Api-Token", client.Token)
	req.Header.Set("Accept", "application/json")

	httpClient := client.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	start := time.Now()
	resp, err := httpClient.Do(req)
	if err != nil {
		client.observe(endpoint, 0, time.Since(start))
		return nil, fmt.Errorf("nyutai %s request failed: %w", endpoint, err)
	}
	defer resp.Body.Close()
	client.observe(endpoint, resp.StatusCode, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &StatusError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	var out envelope[T]
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("nyutai %s: decode response: %w", endpoint, err)
	}
	return out.Data, nil
}

func (client *Client) observe(endpoint string, status int, dur time.Duration) {
	if client.Observe != nil {
		client.Observe(endpoint, status, dur)
	}
}
