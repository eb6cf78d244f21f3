package merge_test

import (
	"testing"

	"github.com/specworks/refcrawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsolidate_Values(t *testing.T) {
	t.Parallel()

	t.Run("functions and types split by classification", func(t *testing.T) {
		t.Parallel()

		ds := mustConsolidate(t, []refcrawl.SeriesExtract{
			extract("css-values", 1, &refcrawl.CSSExtract{
				Values: []*refcrawl.CSSEntry{
					{Name: "<length>", Href: "https://a/#length", Type: "type", Value: "<number><unit>"},
					{Name: "calc()", Href: "https://a/#calc", Type: "function", Value: "calc( <calc-sum> )"},
				},
			}),
		})

		require.Len(t, ds.Functions, 1)
		assert.Equal(t, "calc()", ds.Functions[0].Name)
		require.Len(t, ds.Types, 1)
		assert.Equal(t, "length", ds.Types[0].Name)
	})

	t.Run("classification inferred from name when untagged", func(t *testing.T) {
		t.Parallel()

		ds := mustConsolidate(t, []refcrawl.SeriesExtract{
			extract("css-values", 1, &refcrawl.CSSExtract{
				Values: []*refcrawl.CSSEntry{
					{Name: "minmax()", Href: "https://a/#minmax", Value: "minmax( <track-breadth> , <track-breadth> )"},
					{Name: "<flex>", Href: "https://a/#flex", Value: "<number>fr"},
				},
			}),
		})

		require.Len(t, ds.Functions, 1)
		assert.Equal(t, "minmax()", ds.Functions[0].Name)
		require.Len(t, ds.Types, 1)
		assert.Equal(t, "flex", ds.Types[0].Name)
	})

	t.Run("nested values promoted with container scope", func(t *testing.T) {
		t.Parallel()

		ds := mustConsolidate(t, []refcrawl.SeriesExtract{
			extract("css-shapes", 1, &refcrawl.CSSExtract{
				Values: []*refcrawl.CSSEntry{
					{Name: "<basic-shape>", Href: "https://a/#shape", Type: "type", Value: "<circle()> | <inset()>",
						Values: []*refcrawl.CSSEntry{
							{Name: "circle()", Href: "https://a/#circle", Value: "circle( <radius> )"},
						}},
				},
			}),
		})

		require.Len(t, ds.Functions, 1)
		fn := ds.Functions[0]
		assert.Equal(t, "circle()", fn.Name)
		assert.Equal(t, []string{"basic-shape"}, fn.For)
		require.Len(t, ds.Types, 1)
		assert.Empty(t, ds.Types[0].For)
	})

	t.Run("unscoped definition supersedes scoped duplicates", func(t *testing.T) {
		t.Parallel()

		ds := mustConsolidate(t, []refcrawl.SeriesExtract{
			extract("css-a", 1, &refcrawl.CSSExtract{
				Values: []*refcrawl.CSSEntry{
					{Name: "<position>", Href: "https://a/#pos", Type: "type", Value: "left | right", For: "background-position"},
				},
			}),
			extract("css-b", 1, &refcrawl.CSSExtract{
				Values: []*refcrawl.CSSEntry{
					{Name: "<position>", Href: "https://a/#pos", Type: "type", Value: "left | right"},
				},
			}),
		})

		require.Len(t, ds.Types, 1)
		assert.Empty(t, ds.Types[0].For)
	})

	t.Run("scopes union across specs", func(t *testing.T) {
		t.Parallel()

		ds := mustConsolidate(t, []refcrawl.SeriesExtract{
			extract("css-a", 1, &refcrawl.CSSExtract{
				Values: []*refcrawl.CSSEntry{
					{Name: "<track-size>", Href: "https://a/#ts", Type: "type", Value: "<length>", For: "grid-template-rows"},
				},
			}),
			extract("css-b", 1, &refcrawl.CSSExtract{
				Values: []*refcrawl.CSSEntry{
					{Name: "<track-size>", Href: "https://a/#ts", Type: "type", Value: "<length>", For: "grid-template-columns"},
				},
			}),
		})

		require.Len(t, ds.Types, 1)
		assert.Equal(t, []string{"grid-template-columns", "grid-template-rows"}, ds.Types[0].For)
	})

	t.Run("same name with distinct syntax survives as overloads", func(t *testing.T) {
		t.Parallel()

		ds := mustConsolidate(t, []refcrawl.SeriesExtract{
			extract("css-images-3", 1, &refcrawl.CSSExtract{
				Values: []*refcrawl.CSSEntry{
					{Name: "image()", Href: "https://a/#image", Type: "function", Value: "image( <url> )"},
				},
			}),
			extract("css-images-4", 1, &refcrawl.CSSExtract{
				Values: []*refcrawl.CSSEntry{
					{Name: "image()", Href: "https://b/#image", Type: "function", Value: "image( <url> , <color>? )"},
				},
			}),
		})

		require.Len(t, ds.Functions, 2)
		assert.Equal(t, ds.Functions[0].Name, ds.Functions[1].Name)
		assert.NotEqual(t, ds.Functions[0].Syntax, ds.Functions[1].Syntax)
	})

	t.Run("same name and syntax under different hrefs collapse", func(t *testing.T) {
		t.Parallel()

		ds := mustConsolidate(t, []refcrawl.SeriesExtract{
			extract("css-a", 1, &refcrawl.CSSExtract{
				Values: []*refcrawl.CSSEntry{
					{Name: "<angle>", Href: "https://b/#angle", Type: "type", Value: "<number>deg"},
				},
			}),
			extract("css-b", 1, &refcrawl.CSSExtract{
				Values: []*refcrawl.CSSEntry{
					{Name: "<angle>", Href: "https://a/#angle", Type: "type", Value: "<number>deg"},
				},
			}),
		})

		require.Len(t, ds.Types, 1)
		assert.Equal(t, "https://a/#angle", ds.Types[0].Href)
	})
}
