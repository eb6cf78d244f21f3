package goquery_test

import (
	"context"
	"testing"

	"github.com/specworks/refcrawl"
	"github.com/specworks/refcrawl/goquery"
	"github.com/specworks/refcrawl/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const specHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta name="generator" content="Bikeshed version 4da1398">
<title>CSS Overflow Module Level 4 (Editor's Draft)</title>
</head>
<body>
<div class="head">
	<h1>CSS Overflow Module Level 4</h1>
	<time class="dt-updated" datetime="2024-03-02">2 March 2024</time>
</div>
<div class="abstract">
	<p>This module contains the features of CSS relating to overflow.</p>
</div>
<p>See <a href="https://www.w3.org/TR/css-display-3/">CSS Display</a>
and <a href="https://www.w3.org/TR/css-display-3/#box-layout">its box model</a>
and <a href="#local-section">a local section</a>.</p>
<table class="def propdef">
	<tbody>
		<tr><th>Name:</th><td><dfn data-dfn-type="property" id="propdef-overflow">overflow</dfn></td></tr>
		<tr><th>Value:</th><td>visible | hidden | scroll</td></tr>
	</tbody>
</table>
<pre class="idl">interface mixin GeometryUtils {
  sequence&lt;DOMQuad&gt; getBoxQuads();
};</pre>
<h3 id="normative">Normative References</h3>
<dl>
	<dt>[CSS-DISPLAY-3]</dt>
	<dd><a href="https://www.w3.org/TR/css-display-3/">CSS Display Module Level 3</a></dd>
</dl>
<h3 id="informative">Informative References</h3>
<dl>
	<dt>[CSS-REGIONS-1]</dt>
	<dd><a href="https://www.w3.org/TR/css-regions-1/">CSS Regions Module Level 1</a></dd>
</dl>
</body>
</html>`

func newExtractor(fetchedHTML string) *goquery.Extractor {
	fetcher := &mock.Fetcher{
		FetchFn: func(ctx context.Context, url string) (string, error) {
			return fetchedHTML, nil
		},
	}
	return goquery.NewExtractor(fetcher, goquery.DefaultRegistry(), nil)
}

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("extracts the full payload from a Bikeshed document", func(t *testing.T) {
		t.Parallel()

		e := newExtractor(specHTML)
		spec := &refcrawl.Spec{
			URL:        "https://www.w3.org/TR/css-overflow-4/",
			CrawledURL: "https://drafts.csswg.org/css-overflow-4/",
		}

		res, err := e.Extract(context.Background(), spec)
		require.NoError(t, err)

		assert.Equal(t, "CSS Overflow Module Level 4", res.Title)
		assert.Equal(t, "2024-03-02", res.Date)
		assert.Equal(t, "This module contains the features of CSS relating to overflow.", res.Abstract)
		assert.NotEmpty(t, res.ContentHash)

		// Fragments collapse so the two display links count once; the
		// self-referential local anchor is dropped. The bibliography
		// anchors are links like any other.
		assert.Equal(t, []string{
			"https://www.w3.org/TR/css-display-3/",
			"https://www.w3.org/TR/css-regions-1/",
		}, res.Links)

		require.NotNil(t, res.References)
		require.Len(t, res.References.Normative, 1)
		assert.Equal(t, "CSS-DISPLAY-3", res.References.Normative[0].Name)
		assert.Equal(t, "https://www.w3.org/TR/css-display-3/", res.References.Normative[0].URL)
		require.Len(t, res.References.Informative, 1)
		assert.Equal(t, "CSS-REGIONS-1", res.References.Informative[0].Name)

		require.NotNil(t, res.IDL)
		assert.Contains(t, res.IDL.Raw, "interface mixin GeometryUtils")
		assert.False(t, res.IDL.HasObsoleteConstructs)

		require.NotNil(t, res.CSS)
		require.Len(t, res.CSS.Properties, 1)
		assert.Equal(t, "overflow", res.CSS.Properties[0].Name)
		assert.Equal(t, "visible | hidden | scroll", res.CSS.Properties[0].Value)
		assert.Equal(t, "https://drafts.csswg.org/css-overflow-4/#propdef-overflow", res.CSS.Properties[0].Href)
	})

	t.Run("prefers the crawled URL over the canonical URL", func(t *testing.T) {
		t.Parallel()

		var fetched string
		fetcher := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				fetched = url
				return "<html><head><title>t</title></head><body></body></html>", nil
			},
		}
		e := goquery.NewExtractor(fetcher, goquery.DefaultRegistry(), nil)

		_, err := e.Extract(context.Background(), &refcrawl.Spec{
			URL:        "https://www.w3.org/TR/css-overflow-4/",
			CrawledURL: "https://drafts.csswg.org/css-overflow-4/",
		})

		require.NoError(t, err)
		assert.Equal(t, "https://drafts.csswg.org/css-overflow-4/", fetched)
	})

	t.Run("returns EINVALID for a spec without URLs", func(t *testing.T) {
		t.Parallel()

		e := newExtractor("")

		_, err := e.Extract(context.Background(), &refcrawl.Spec{})
		assert.Equal(t, refcrawl.EINVALID, refcrawl.ErrorCode(err))
	})

	t.Run("propagates fetch errors", func(t *testing.T) {
		t.Parallel()

		fetcher := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				return "", refcrawl.Errorf(refcrawl.EUNAVAILABLE, "connection refused")
			},
		}
		e := goquery.NewExtractor(fetcher, goquery.DefaultRegistry(), nil)

		_, err := e.Extract(context.Background(), &refcrawl.Spec{URL: "https://example.test/"})
		assert.Equal(t, refcrawl.EUNAVAILABLE, refcrawl.ErrorCode(err))
	})

	t.Run("uses the summarizer when head markup is missing", func(t *testing.T) {
		t.Parallel()

		fetcher := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				return "<html><body><p>Some prose about an API.</p></body></html>", nil
			},
		}
		summarizer := &mock.Summarizer{
			SummarizeFn: func(html string) (*refcrawl.Summary, error) {
				return &refcrawl.Summary{Title: "Recovered Title", Abstract: "Recovered abstract."}, nil
			},
		}
		e := goquery.NewExtractor(fetcher, goquery.DefaultRegistry(), summarizer)

		res, err := e.Extract(context.Background(), &refcrawl.Spec{URL: "https://example.test/"})
		require.NoError(t, err)
		assert.Equal(t, "Recovered Title", res.Title)
		assert.Equal(t, "Recovered abstract.", res.Abstract)
	})

	t.Run("omits empty sections from the result", func(t *testing.T) {
		t.Parallel()

		e := newExtractor("<html><head><title>Plain</title></head><body></body></html>")

		res, err := e.Extract(context.Background(), &refcrawl.Spec{URL: "https://example.test/"})
		require.NoError(t, err)
		assert.Equal(t, "Plain", res.Title)
		assert.Nil(t, res.CSS)
		assert.Nil(t, res.IDL)
		assert.Nil(t, res.References)
		assert.Empty(t, res.Links)
	})

	t.Run("flags obsolete IDL constructs", func(t *testing.T) {
		t.Parallel()

		e := newExtractor(`<html><body><pre class="idl">Window implements WindowOrWorkerGlobalScope;</pre></body></html>`)

		res, err := e.Extract(context.Background(), &refcrawl.Spec{URL: "https://example.test/"})
		require.NoError(t, err)
		require.NotNil(t, res.IDL)
		assert.True(t, res.IDL.HasObsoleteConstructs)
	})
}
