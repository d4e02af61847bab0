package bankapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the public service-network feed of the bank site
	DefaultBaseURL = "https://site-api.bankofbaku.com/categories/serviceNetwork/individual"

	// DefaultOrigin identifies the calling site; the upstream rejects
	// requests without a matching Origin/Referer pair
	DefaultOrigin = "https://www.bankofbaku.com"

	defaultHTTPTimeout = 10 * time.Second
)

// Client fetches the bank's service-network feed.
type Client interface {
	FetchServiceNetwork(ctx context.Context) (*ServiceNetworkResponse, error)
}

// UpstreamError indicates a non-success HTTP status from the feed.
type UpstreamError struct {
	StatusCode int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("bank api returned status %d", e.StatusCode)
}

// MalformedResponseError indicates the feed answered 2xx but the payload did
// not have the expected shape.
type MalformedResponseError struct {
	Reason string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("invalid bank api response: %s", e.Reason)
}

// FlexID tolerates the feed sending ids as either JSON strings or numbers.
type FlexID string

func (f *FlexID) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*f = ""
		return nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexID(n.String())
	return nil
}

// Location is one raw feed record. The feed repeats every location once per
// supported language; Location is the combined "lat, lng" position string.
type Location struct {
	Title        string `json:"title"`
	Address      string `json:"address"`
	ServiceNames string `json:"serviceNames"`
	Location     string `json:"location"`
	Slug         string `json:"slug"`
	Language     string `json:"language"`
	ID           FlexID `json:"id"`
}

// ServiceNetworkPayload is the inner payload of the feed response
type ServiceNetworkPayload struct {
	Contents      []Location `json:"contents"`
	PositionOrder int        `json:"positionOrder"`
	PageType      string     `json:"pageType"`
	SiteMode      string     `json:"siteMode"`
	CategoryType  string     `json:"categoryType"`
}

// ServiceNetworkResponse is the top-level feed response
type ServiceNetworkResponse struct {
	StatusCode int                    `json:"statusCode"`
	Messages   *string                `json:"messages"`
	Payload    *ServiceNetworkPayload `json:"payload"`
}

// HTTPClient is the production feed client. One attempt per invocation, no
// retries; only the client timeout bounds the call.
type HTTPClient struct {
	baseURL    string
	origin     string
	httpClient *http.Client
}

// NewClient creates a feed client. Empty arguments fall back to the
// production endpoint and origin.
func NewClient(baseURL, origin string) *HTTPClient {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	if strings.TrimSpace(origin) == "" {
		origin = DefaultOrigin
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		origin:  strings.TrimRight(origin, "/"),
		httpClient: &http.Client{
			Timeout: defaultHTTPTimeout,
		},
	}
}

// FetchServiceNetwork performs the single GET against the feed endpoint.
func (c *HTTPClient) FetchServiceNetwork(ctx context.Context) (*ServiceNetworkResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Origin", c.origin)
	req.Header.Set("Referer", c.origin+"/")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &UpstreamError{StatusCode: resp.StatusCode}
	}

	out := &ServiceNetworkResponse{}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return nil, &MalformedResponseError{Reason: fmt.Sprintf("undecodable body: %v", err)}
	}

	if out.Payload == nil || out.Payload.Contents == nil {
		return nil, &MalformedResponseError{Reason: "payload.contents missing"}
	}

	return out, nil
}
