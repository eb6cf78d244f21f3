package merge_test

import (
	"testing"

	"github.com/specworks/refcrawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsolidate_Normalization(t *testing.T) {
	t.Parallel()

	t.Run("wrapping angle brackets are stripped", func(t *testing.T) {
		t.Parallel()

		ds := mustConsolidate(t, []refcrawl.SeriesExtract{
			extract("css-values", 1, &refcrawl.CSSExtract{
				Values: []*refcrawl.CSSEntry{
					{Name: "<length-percentage>", Href: "https://a/#lp", Type: "type", Value: "<length> | <percentage>"},
				},
			}),
		})

		require.Len(t, ds.Types, 1)
		assert.Equal(t, "length-percentage", ds.Types[0].Name)
		// The brackets span whole tokens, not the whole field.
		assert.Equal(t, "<length> | <percentage>", ds.Types[0].Syntax)
	})

	t.Run("syntax wrapped in one bracket pair is stripped", func(t *testing.T) {
		t.Parallel()

		ds := mustConsolidate(t, []refcrawl.SeriesExtract{
			extract("css-values", 1, &refcrawl.CSSExtract{
				Values: []*refcrawl.CSSEntry{
					{Name: "<alias>", Href: "https://a/#alias", Type: "type", Value: "<target>"},
				},
			}),
		})

		require.Len(t, ds.Types, 1)
		assert.Equal(t, "target", ds.Types[0].Syntax)
	})

	t.Run("nested brackets closing at the end are stripped once", func(t *testing.T) {
		t.Parallel()

		ds := mustConsolidate(t, []refcrawl.SeriesExtract{
			extract("css-values", 1, &refcrawl.CSSExtract{
				Values: []*refcrawl.CSSEntry{
					{Name: "<outer <inner>>", Href: "https://a/#o", Type: "type", Value: "x"},
				},
			}),
		})

		require.Len(t, ds.Types, 1)
		assert.Equal(t, "outer <inner>", ds.Types[0].Name)
	})

	t.Run("unbalanced brackets are left alone", func(t *testing.T) {
		t.Parallel()

		ds := mustConsolidate(t, []refcrawl.SeriesExtract{
			extract("css-values", 1, &refcrawl.CSSExtract{
				Values: []*refcrawl.CSSEntry{
					{Name: "<broken", Href: "https://a/#b", Type: "type", Value: "x"},
				},
			}),
		})

		require.Len(t, ds.Types, 1)
		assert.Equal(t, "<broken", ds.Types[0].Name)
	})

	t.Run("categories sort by name then href", func(t *testing.T) {
		t.Parallel()

		ds := mustConsolidate(t, []refcrawl.SeriesExtract{
			extract("css-a", 1, &refcrawl.CSSExtract{
				Selectors: []*refcrawl.CSSEntry{
					{Name: "::before", Href: "https://a/#before", Value: ""},
					{Name: ":hover", Href: "https://a/#hover", Value: ""},
					{Name: ":active", Href: "https://a/#active", Value: ""},
				},
			}),
		})

		require.Len(t, ds.Selectors, 3)
		assert.Equal(t, "::before", ds.Selectors[0].Name)
		assert.Equal(t, ":active", ds.Selectors[1].Name)
		assert.Equal(t, ":hover", ds.Selectors[2].Name)
	})
}
