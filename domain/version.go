package domain

import (
	"strconv"
	"strings"
)

const semverComponents = 3 // major, minor, patch

// CompareVersions compares two dotted version strings numerically,
// left to right. Missing trailing components count as 0, and components
// that do not parse as integers (prerelease tags, revision hashes)
// also count as 0 instead of failing. Returns -1, 0 or 1.
func CompareVersions(a, b string) int {
	aParts := strings.Split(a, ".")
	bParts := strings.Split(b, ".")

	length := len(aParts)
	if len(bParts) > length {
		length = len(bParts)
	}

	for i := range length {
		av := componentAt(aParts, i)
		bv := componentAt(bParts, i)
		if av < bv {
			return -1
		}
		if av > bv {
			return 1
		}
	}

	return 0
}

// ClassifyUpdateType names the first differing component (major, minor or
// patch) between two versions. It returns UpdateTypeUnknown when either
// version has fewer than three components, any of the leading three
// components is non-numeric, or the three numeric components are equal
// (e.g. only a prerelease tag differs).
func ClassifyUpdateType(from, to string) UpdateType {
	fromParts := strings.Split(from, ".")
	toParts := strings.Split(to, ".")

	if len(fromParts) < semverComponents || len(toParts) < semverComponents {
		return UpdateTypeUnknown
	}

	var fromNums, toNums [semverComponents]int
	for i := range semverComponents {
		f, fErr := strconv.Atoi(strings.TrimSpace(fromParts[i]))
		t, tErr := strconv.Atoi(strings.TrimSpace(toParts[i]))
		if fErr != nil || tErr != nil {
			return UpdateTypeUnknown
		}
		fromNums[i] = f
		toNums[i] = t
	}

	names := [semverComponents]UpdateType{UpdateTypeMajor, UpdateTypeMinor, UpdateTypePatch}
	for i := range semverComponents {
		if fromNums[i] != toNums[i] {
			return names[i]
		}
	}

	return UpdateTypeUnknown
}

// componentAt returns the numeric value of the i-th version component,
// treating missing or unparsable components as 0.
func componentAt(parts []string, i int) int {
	if i >= len(parts) {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(parts[i]))
	if err != nil {
		return 0
	}
	return n
}
