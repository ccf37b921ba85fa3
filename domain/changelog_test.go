package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const sampleChangelog = `# Changelog

## [Unreleased]

### Changed

- changed ` + "`typescript`" + ` from ` + "`5.8.0`" + ` to ` + "`5.9.0`" + ` (npm)

## [1.0.0] - 2026-01-01

### Added

- initial release
`

func TestInsertChangelogEntries(t *testing.T) {
	t.Parallel()

	t.Run("should append entries after the last existing bullet", func(t *testing.T) {
		t.Parallel()

		// given
		entries := []string{"- changed `react` from `19.1.0` to `19.2.0` (npm)"}

		// when
		result := InsertChangelogEntries(sampleChangelog, entries)

		// then
		tsIdx := strings.Index(result, "`typescript`")
		reactIdx := strings.Index(result, "`react`")
		releaseIdx := strings.Index(result, "## [1.0.0]")
		assert.Greater(t, reactIdx, tsIdx)
		assert.Less(t, reactIdx, releaseIdx)
	})

	t.Run("should create the Changed subsection when missing", func(t *testing.T) {
		t.Parallel()

		// given
		content := "# Changelog\n\n## [Unreleased]\n\n## [1.0.0] - 2026-01-01\n"
		entries := []string{"- changed `vite` from `7.2.0` to `7.2.2` (npm)"}

		// when
		result := InsertChangelogEntries(content, entries)

		// then
		assert.Contains(t, result, "### Changed")
		changedIdx := strings.Index(result, "### Changed")
		entryIdx := strings.Index(result, "`vite`")
		releaseIdx := strings.Index(result, "## [1.0.0]")
		assert.Less(t, changedIdx, entryIdx)
		assert.Less(t, entryIdx, releaseIdx)
	})

	t.Run("should return the content unchanged when there is no Unreleased section", func(t *testing.T) {
		t.Parallel()

		// given
		content := "# Changelog\n\n## [1.0.0] - 2026-01-01\n"
		entries := []string{"- changed `react` from `19.1.0` to `19.2.0` (npm)"}

		// when
		result := InsertChangelogEntries(content, entries)

		// then
		assert.Equal(t, content, result)
	})

	t.Run("should return the content unchanged for an empty entry list", func(t *testing.T) {
		t.Parallel()

		// when
		result := InsertChangelogEntries(sampleChangelog, nil)

		// then
		assert.Equal(t, sampleChangelog, result)
	})
}
