package domain

import "strings"

const (
	unreleasedHeading = "## [Unreleased]"
	changedHeading    = "### Changed"
	releaseHeading    = "## ["
)

// InsertChangelogEntries inserts bullet entries into the "### Changed"
// subsection under "## [Unreleased]" of a Keep-a-Changelog document.
// When the Unreleased section is missing the content is returned unchanged;
// when the Changed subsection is missing it is created directly below the
// Unreleased heading. Existing bullets keep their position, new entries are
// appended after the last one.
func InsertChangelogEntries(content string, entries []string) string {
	if len(entries) == 0 {
		return content
	}

	lines := strings.Split(content, "\n")

	unreleased := indexOfHeading(lines, 0, len(lines), unreleasedHeading)
	if unreleased < 0 {
		return content
	}

	sectionEnd := len(lines)
	for i := unreleased + 1; i < len(lines); i++ {
		if strings.HasPrefix(strings.TrimSpace(lines[i]), releaseHeading) {
			sectionEnd = i
			break
		}
	}

	changed := indexOfHeading(lines, unreleased+1, sectionEnd, changedHeading)
	if changed < 0 {
		block := append([]string{"", changedHeading, ""}, entries...)
		return strings.Join(spliceLines(lines, unreleased+1, block), "\n")
	}

	insertAt := lastBulletIndex(lines, changed, sectionEnd) + 1
	return strings.Join(spliceLines(lines, insertAt, entries), "\n")
}

func indexOfHeading(lines []string, start, end int, heading string) int {
	for i := start; i < end; i++ {
		if strings.TrimSpace(lines[i]) == heading {
			return i
		}
	}
	return -1
}

// lastBulletIndex returns the index of the last "- " line that still belongs
// to the subsection starting at headingIdx.
func lastBulletIndex(lines []string, headingIdx, end int) int {
	last := headingIdx
	for i := headingIdx + 1; i < end; i++ {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed == "" {
			continue
		}
		if !strings.HasPrefix(trimmed, "- ") {
			break
		}
		last = i
	}
	return last
}

func spliceLines(lines []string, at int, extra []string) []string {
	out := make([]string, 0, len(lines)+len(extra))
	out = append(out, lines[:at]...)
	out = append(out, extra...)
	out = append(out, lines[at:]...)
	return out
}
