package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/specworks/refcrawl"
	refcrawlhttp "github.com/specworks/refcrawl/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var noDelays = []time.Duration{0, 0, 0}

func newTestRegistry(serverURL string) *refcrawlhttp.Registry {
	return refcrawlhttp.NewRegistry(
		refcrawlhttp.WithRegistryURL(serverURL),
		refcrawlhttp.WithRetryDelays(noDelays),
	)
}

func TestRegistry_FindVersions(t *testing.T) {
	t.Parallel()

	t.Run("returns known URL variants for a shortname", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/specifications/css-grid-1", r.URL.Path)
			_, _ = w.Write([]byte(`{
				"shortlink": "https://www.w3.org/TR/css-grid-1/",
				"editor-draft": "https://drafts.csswg.org/css-grid-1/",
				"_links": {
					"latest-version": {"href": "https://www.w3.org/TR/css-grid-1/"},
					"version-history": [
						{"href": "https://www.w3.org/TR/2020/CRD-css-grid-1-20201218/"}
					]
				}
			}`))
		}))
		defer server.Close()

		versions, err := newTestRegistry(server.URL).FindVersions(context.Background(), "css-grid-1")
		require.NoError(t, err)

		assert.Equal(t, "https://www.w3.org/TR/css-grid-1/", versions.Latest)
		assert.Equal(t, "https://drafts.csswg.org/css-grid-1/", versions.EditorsDraft)
		assert.Equal(t, []string{"https://www.w3.org/TR/2020/CRD-css-grid-1-20201218/"}, versions.Aliases)
	})

	t.Run("falls back to shortlink when latest-version is absent", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"shortlink": "https://www.w3.org/TR/css-contain-3/"}`))
		}))
		defer server.Close()

		versions, err := newTestRegistry(server.URL).FindVersions(context.Background(), "css-contain-3")
		require.NoError(t, err)
		assert.Equal(t, "https://www.w3.org/TR/css-contain-3/", versions.Latest)
	})

	t.Run("returns ENOTFOUND without retrying for unknown shortnames", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		_, err := newTestRegistry(server.URL).FindVersions(context.Background(), "no-such-spec")
		assert.Equal(t, refcrawl.ENOTFOUND, refcrawl.ErrorCode(err))
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("retries transient failures", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) < 3 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			_, _ = w.Write([]byte(`{"shortlink": "https://www.w3.org/TR/css-color-4/"}`))
		}))
		defer server.Close()

		versions, err := newTestRegistry(server.URL).FindVersions(context.Background(), "css-color-4")
		require.NoError(t, err)
		assert.Equal(t, "https://www.w3.org/TR/css-color-4/", versions.Latest)
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("gives up after exhausting retries", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		_, err := newTestRegistry(server.URL).FindVersions(context.Background(), "css-color-4")
		assert.Equal(t, refcrawl.EUNAVAILABLE, refcrawl.ErrorCode(err))
	})
}

func TestRegistry_Repositories(t *testing.T) {
	t.Parallel()

	t.Run("returns the batched URL to repository map", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/repositories", r.URL.Path)

			var req struct {
				URLs []string `json:"urls"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Len(t, req.URLs, 2)

			_, _ = w.Write([]byte(`{"repositories": {
				"https://www.w3.org/TR/css-grid-1/": "https://github.com/w3c/csswg-drafts"
			}}`))
		}))
		defer server.Close()

		repos, err := newTestRegistry(server.URL).Repositories(context.Background(), []string{
			"https://www.w3.org/TR/css-grid-1/",
			"https://example.test/unknown/",
		})
		require.NoError(t, err)

		assert.Equal(t, "https://github.com/w3c/csswg-drafts", repos["https://www.w3.org/TR/css-grid-1/"])
		_, known := repos["https://example.test/unknown/"]
		assert.False(t, known)
	})

	t.Run("empty input avoids the network entirely", func(t *testing.T) {
		t.Parallel()

		registry := newTestRegistry("http://127.0.0.1:0")
		repos, err := registry.Repositories(context.Background(), nil)
		require.NoError(t, err)
		assert.Empty(t, repos)
	})

	t.Run("returns EUNAVAILABLE when the lookup keeps failing", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		_, err := newTestRegistry(server.URL).Repositories(context.Background(), []string{"https://www.w3.org/TR/css-grid-1/"})
		assert.Equal(t, refcrawl.EUNAVAILABLE, refcrawl.ErrorCode(err))
	})
}
