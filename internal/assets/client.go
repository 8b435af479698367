// Package assets fetches block model JSON and texture images from a remote
// asset store and caches them on disk, with an sqlite index that also
// remembers negative lookups so repeated misses stay off the network.
package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"
)

// DefaultBaseURL points at a pinned asset pack version. Overridable via
// config so renders stay reproducible against one pack.
const DefaultBaseURL = "https://raw.githubusercontent.com/InventivetalentDev/minecraft-assets/1.19.4/assets/minecraft"

// ErrNotFound marks an asset the remote store does not have.
var ErrNotFound = errors.New("asset not found")

const maxAssetBytes = 16 << 20

// Client is a plain HTTP GET client for the asset store.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "https://" + baseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base url: %s", baseURL)
	}
	return &Client{
		baseURL: strings.TrimRight(u.String(), "/"),
		httpClient: &http.Client{
			Timeout: 2 * time.Minute,
		},
	}, nil
}

// FetchModel retrieves raw model JSON, e.g. name "block/stone" maps to
// <base>/models/block/stone.json.
func (c *Client) FetchModel(ctx context.Context, name string) ([]byte, error) {
	return c.get(ctx, "models/"+name+".json")
}

// FetchTexture retrieves a raw texture image, e.g. name "block/stone" maps to
// <base>/textures/block/stone.png.
func (c *Client) FetchTexture(ctx context.Context, name string) ([]byte, error) {
	return c.get(ctx, "textures/"+name+".png")
}

func (c *Client) get(ctx context.Context, assetPath string) ([]byte, error) {
	assetPath = normalizeAssetPath(assetPath)
	if assetPath == "" {
		return nil, fmt.Errorf("empty asset path")
	}
	requestURL := c.baseURL + "/" + escapePath(assetPath)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		body, err := io.ReadAll(io.LimitReader(resp.Body, maxAssetBytes))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", assetPath, err)
		}
		return body, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%s: %w", assetPath, ErrNotFound)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 8*1024))
		return nil, fmt.Errorf("get %s: status=%d body=%s", assetPath, resp.StatusCode, strings.TrimSpace(string(body)))
	}
}

// normalizeAssetPath rejects traversal and collapses separators so asset
// names stay safe to use as cache-relative file paths.
func normalizeAssetPath(p string) string {
	p = strings.TrimSpace(strings.ReplaceAll(p, "\\", "/"))
	p = strings.TrimPrefix(p, "/")
	if p == "" {
		return ""
	}
	clean := path.Clean("/" + p)
	clean = strings.TrimPrefix(clean, "/")
	if clean == "." || strings.HasPrefix(clean, "../") {
		return ""
	}
	return clean
}

func escapePath(p string) string {
	parts := strings.Split(p, "/")
	for i := range parts {
		parts[i] = url.PathEscape(parts[i])
	}
	return strings.Join(parts, "/")
}
