package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/specworks/refcrawl"
	"github.com/specworks/refcrawl/crawl"
)

// DefaultRegistryURL is the base URL of the specification registry API.
const DefaultRegistryURL = "https://api.w3.org"

// Ensure Registry implements refcrawl.SpecRegistry at compile time.
var _ refcrawl.SpecRegistry = (*Registry)(nil)

// Registry looks up version history and repository metadata from the
// W3C API. Transient failures are retried with backoff; a shortname
// the API does not know is ENOTFOUND and not retried.
type Registry struct {
	client      *http.Client
	baseURL     string
	retryDelays []time.Duration
	logger      *slog.Logger
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithRegistryURL overrides the registry API base URL.
func WithRegistryURL(baseURL string) RegistryOption {
	return func(r *Registry) {
		r.baseURL = baseURL
	}
}

// WithRegistryClient sets the HTTP client used for API calls.
func WithRegistryClient(client *http.Client) RegistryOption {
	return func(r *Registry) {
		r.client = client
	}
}

// WithRetryDelays overrides the backoff delays for transient failures.
// Useful for testing without waiting for real delays.
func WithRetryDelays(delays []time.Duration) RegistryOption {
	return func(r *Registry) {
		r.retryDelays = delays
	}
}

// WithRegistryLogger sets the logger used for retry diagnostics.
func WithRegistryLogger(logger *slog.Logger) RegistryOption {
	return func(r *Registry) {
		r.logger = logger
	}
}

// NewRegistry creates a Registry client for the public W3C API.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		client:      &http.Client{Timeout: DefaultFetchTimeout},
		baseURL:     DefaultRegistryURL,
		retryDelays: crawl.DefaultRetryDelays(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// specResponse is the registry's description of one specification.
type specResponse struct {
	Shortlink   string `json:"shortlink"`
	EditorDraft string `json:"editor-draft"`
	Links       struct {
		LatestVersion struct {
			Href string `json:"href"`
		} `json:"latest-version"`
		VersionHistory []struct {
			Href string `json:"href"`
		} `json:"version-history"`
	} `json:"_links"`
}

// FindVersions returns the known URL variants for a shortname.
// Returns ENOTFOUND if the registry does not know the shortname.
func (r *Registry) FindVersions(ctx context.Context, shortname string) (*refcrawl.SpecVersions, error) {
	var versions *refcrawl.SpecVersions
	var notFound error

	op := func(ctx context.Context) error {
		v, err := r.fetchVersions(ctx, shortname)
		if refcrawl.ErrorCode(err) == refcrawl.ENOTFOUND {
			// A missing shortname is a final answer, not a transient
			// failure worth retrying.
			notFound = err
			return nil
		}
		if err != nil {
			return err
		}
		versions = v
		return nil
	}

	if err := crawl.RetryWithDelays(ctx, op, r.logf, r.retryDelays); err != nil {
		return nil, err
	}
	if notFound != nil {
		return nil, notFound
	}
	return versions, nil
}

func (r *Registry) fetchVersions(ctx context.Context, shortname string) (*refcrawl.SpecVersions, error) {
	endpoint := r.baseURL + "/specifications/" + url.PathEscape(shortname)

	var spec specResponse
	if err := r.getJSON(ctx, endpoint, &spec); err != nil {
		return nil, err
	}

	versions := &refcrawl.SpecVersions{
		Latest:       spec.Links.LatestVersion.Href,
		EditorsDraft: spec.EditorDraft,
	}
	if versions.Latest == "" {
		versions.Latest = spec.Shortlink
	}
	for _, v := range spec.Links.VersionHistory {
		if v.Href != "" {
			versions.Aliases = append(versions.Aliases, v.Href)
		}
	}
	return versions, nil
}

// repositoriesResponse is the registry's answer to a batched
// repository lookup.
type repositoriesResponse struct {
	Repositories map[string]string `json:"repositories"`
}

// Repositories maps spec URLs to repository URLs in one batched call.
// URLs the registry does not know are absent from the result.
func (r *Registry) Repositories(ctx context.Context, urls []string) (map[string]string, error) {
	if len(urls) == 0 {
		return map[string]string{}, nil
	}

	payload, err := json.Marshal(struct {
		URLs []string `json:"urls"`
	}{URLs: urls})
	if err != nil {
		return nil, refcrawl.Errorf(refcrawl.EINTERNAL, "encoding repository request: %v", err)
	}

	var repos map[string]string
	op := func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/repositories", bytes.NewReader(payload))
		if err != nil {
			return refcrawl.Errorf(refcrawl.EINVALID, "creating repository request: %v", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", DefaultUserAgent)

		resp, err := r.client.Do(req)
		if err != nil {
			return refcrawl.Errorf(refcrawl.EUNAVAILABLE, "repository lookup: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return refcrawl.Errorf(refcrawl.EUNAVAILABLE, "repository lookup: HTTP %d", resp.StatusCode)
		}

		var decoded repositoriesResponse
		if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
			return refcrawl.Errorf(refcrawl.EUNAVAILABLE, "decoding repository response: %v", err)
		}
		repos = decoded.Repositories
		return nil
	}

	if err := crawl.RetryWithDelays(ctx, op, r.logf, r.retryDelays); err != nil {
		return nil, err
	}
	if repos == nil {
		repos = map[string]string{}
	}
	return repos, nil
}

func (r *Registry) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return refcrawl.Errorf(refcrawl.EINVALID, "creating request for %s: %v", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", DefaultUserAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return refcrawl.Errorf(refcrawl.EUNAVAILABLE, "GET %s: %v", endpoint, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return refcrawl.Errorf(refcrawl.ENOTFOUND, "registry does not know %s", endpoint)
	case resp.StatusCode != http.StatusOK:
		return refcrawl.Errorf(refcrawl.EUNAVAILABLE, "GET %s: HTTP %d", endpoint, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return refcrawl.Errorf(refcrawl.EUNAVAILABLE, "reading %s: %v", endpoint, err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return refcrawl.Errorf(refcrawl.EUNAVAILABLE, "decoding %s: %v", endpoint, err)
	}
	return nil
}

func (r *Registry) logf(format string, args ...any) {
	if r.logger != nil {
		r.logger.Debug(fmt.Sprintf(format, args...))
	}
}
