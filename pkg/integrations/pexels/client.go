package pexels

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/matzehuels/taskgraph/pkg/cache"
	"github.com/matzehuels/taskgraph/pkg/integrations"
)

// DefaultBaseURL is the Pexels v1 API root.
const DefaultBaseURL = "https://api.pexels.com/v1"

// Client searches Pexels for task illustrations.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	apiKey  string
	baseURL string
}

// NewClient creates a Pexels client. An empty apiKey yields a client whose
// searches always return "".
func NewClient(backend cache.Cache, apiKey string, cacheTTL time.Duration) *Client {
	var headers map[string]string
	if apiKey != "" {
		headers = map[string]string{"Authorization": apiKey}
	}
	return &Client{
		Client:  integrations.NewClient(backend, "pexels:", cacheTTL, headers),
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
	}
}

// WithBaseURL points the client at another API root. Empty keeps the current one.
func (c *Client) WithBaseURL(base string) *Client {
	if base != "" {
		c.baseURL = strings.TrimRight(base, "/")
	}
	return c
}

// Enabled reports whether an API key is configured.
func (c *Client) Enabled() bool { return c.apiKey != "" }

// SearchImage returns the medium-size URL of the first photo matching query,
// or "" when nothing matches or no API key is configured.
//
// Returns [integrations.ErrNetwork] for HTTP failures that survive retries.
func (c *Client) SearchImage(ctx context.Context, query string) (string, error) {
	query = strings.TrimSpace(query)
	if !c.Enabled() || query == "" {
		return "", nil
	}

	endpoint := fmt.Sprintf("%s/search?query=%s&per_page=1", c.baseURL, url.QueryEscape(query))
	body, err := c.Cached(ctx, cache.Key("", query), false, func() ([]byte, error) {
		return c.GetBytes(ctx, endpoint, nil)
	})
	if err != nil {
		return "", err
	}
	return parseSearch(body)
}

func parseSearch(body []byte) (string, error) {
	if !gjson.ValidBytes(body) {
		return "", fmt.Errorf("%w: malformed search response", integrations.ErrNetwork)
	}
	return gjson.GetBytes(body, "photos.0.src.medium").String(), nil
}
