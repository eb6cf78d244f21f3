package main_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specworks/refcrawl"
	main "github.com/specworks/refcrawl/cmd/refcrawl"
)

func writeSpecList(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "specs.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadSpecList(t *testing.T) {
	t.Parallel()

	t.Run("reads a specs list", func(t *testing.T) {
		t.Parallel()

		path := writeSpecList(t, "specs:\n  - css-text-4\n  - https://www.w3.org/TR/css-display-3/\n")
		specs, err := main.LoadSpecList(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"css-text-4", "https://www.w3.org/TR/css-display-3/"}, specs)
	})

	t.Run("reads a bare list of strings", func(t *testing.T) {
		t.Parallel()

		path := writeSpecList(t, "- css-text-4\n- css-display-3\n")
		specs, err := main.LoadSpecList(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"css-text-4", "css-display-3"}, specs)
	})

	t.Run("drops empty entries", func(t *testing.T) {
		t.Parallel()

		path := writeSpecList(t, "- css-text-4\n- \"\"\n- css-display-3\n")
		specs, err := main.LoadSpecList(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"css-text-4", "css-display-3"}, specs)
	})

	t.Run("rejects unexpected shapes", func(t *testing.T) {
		t.Parallel()

		path := writeSpecList(t, "name: not-a-list\n")
		_, err := main.LoadSpecList(path)
		require.Error(t, err)
		assert.Equal(t, refcrawl.EINVALID, refcrawl.ErrorCode(err))
	})

	t.Run("rejects a missing file", func(t *testing.T) {
		t.Parallel()

		_, err := main.LoadSpecList(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
		assert.Equal(t, refcrawl.EINVALID, refcrawl.ErrorCode(err))
	})
}
