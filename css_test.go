package refcrawl_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specworks/refcrawl"
)

func TestCSSExtract_Empty(t *testing.T) {
	t.Parallel()

	t.Run("nil extract is empty", func(t *testing.T) {
		t.Parallel()

		var e *refcrawl.CSSExtract
		assert.True(t, e.Empty())
	})

	t.Run("no entries in any category is empty", func(t *testing.T) {
		t.Parallel()

		assert.True(t, (&refcrawl.CSSExtract{}).Empty())
	})

	t.Run("one entry in any category is not empty", func(t *testing.T) {
		t.Parallel()

		e := &refcrawl.CSSExtract{
			Selectors: []*refcrawl.CSSEntry{{Name: ":hover"}},
		}
		assert.False(t, e.Empty())
	})
}

func TestSeriesExtracts(t *testing.T) {
	t.Parallel()

	t.Run("collects extracts tagged by series", func(t *testing.T) {
		t.Parallel()

		specs := []*refcrawl.Spec{
			{
				URL:             "https://www.w3.org/TR/css-text-4/",
				SeriesShortname: "css-text",
				SeriesVersion:   4,
				CSS: &refcrawl.CSSExtract{
					Properties: []*refcrawl.CSSEntry{{Name: "overflow-wrap"}},
				},
			},
		}

		extracts := refcrawl.SeriesExtracts(specs)
		require.Len(t, extracts, 1)
		assert.Equal(t, "css-text", extracts[0].Series)
		assert.Equal(t, 4, extracts[0].Version)
	})

	t.Run("skips errored specs and empty extracts", func(t *testing.T) {
		t.Parallel()

		specs := []*refcrawl.Spec{
			{
				URL:   "https://www.w3.org/TR/css-display-3/",
				Error: "crawl timeout",
				CSS: &refcrawl.CSSExtract{
					Properties: []*refcrawl.CSSEntry{{Name: "display"}},
				},
			},
			{
				URL: "https://www.w3.org/TR/webidl/",
				CSS: &refcrawl.CSSExtract{},
			},
			{
				URL: "https://www.w3.org/TR/fetch/",
			},
		}

		assert.Empty(t, refcrawl.SeriesExtracts(specs))
	})

	t.Run("falls back to shortname when series is unset", func(t *testing.T) {
		t.Parallel()

		specs := []*refcrawl.Spec{
			{
				URL:       "https://www.w3.org/TR/css-grid-2/",
				Shortname: "css-grid-2",
				CSS: &refcrawl.CSSExtract{
					Properties: []*refcrawl.CSSEntry{{Name: "grid"}},
				},
			},
		}

		extracts := refcrawl.SeriesExtracts(specs)
		require.Len(t, extracts, 1)
		assert.Equal(t, "css-grid-2", extracts[0].Series)
	})
}
