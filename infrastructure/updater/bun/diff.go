package bun

import (
	"regexp"
	"sort"
	"strings"

	"github.com/depshift/depshift/domain"
)

// manifestLinePattern matches one added or removed dependency pin inside a
// unified diff of package.json files:
//
//	-    "react": "^19.1.0",
//	+    "react": "^19.2.0",
//
// Capture groups: sign, package name, version (with optional ^/~ prefix).
var manifestLinePattern = regexp.MustCompile(`^([+-])\s+"([^"]+)":\s*"([\^~]?[^"]+)"`)

// logLinePattern matches bun's human-readable update log:
//
//	↑ vite 7.2.0 → 7.2.2
//	↓ typescript 5.9.0 → 5.8.3
//
// The ASCII arrow form "->" is accepted as well.
var logLinePattern = regexp.MustCompile(`^\s*[↑↓]\s+(\S+)\s+(\S+)\s+(?:→|->)\s+(\S+)`)

// extractManifestDiffUpdates parses a unified diff spanning one or more
// package.json files into version updates. Removed lines populate a before
// map and added lines an after map (later occurrences of the same package
// overwrite earlier ones); a package removed without a matching addition, or
// added without a matching removal, yields nothing since neither expresses a
// version change. Malformed lines are skipped silently.
func extractManifestDiffUpdates(diff string) []domain.PackageUpdate {
	before := make(map[string]string)
	after := make(map[string]string)

	for _, line := range strings.Split(diff, "\n") {
		match := manifestLinePattern.FindStringSubmatch(line)
		if match == nil {
			continue
		}

		name := match[2]
		version := stripRangePrefix(match[3])

		if match[1] == "-" {
			before[name] = version
		} else {
			after[name] = version
		}
	}

	names := make([]string, 0, len(before))
	for name := range before {
		names = append(names, name)
	}
	sort.Strings(names)

	var updates []domain.PackageUpdate
	for _, name := range names {
		from := before[name]
		to, ok := after[name]
		if !ok || from == to {
			continue
		}
		updates = append(updates, domain.PackageUpdate{
			Name:        name,
			FromVersion: from,
			ToVersion:   to,
			UpdateType:  domain.ClassifyUpdateType(from, to),
			Ecosystem:   domain.EcosystemNPM,
		})
	}

	return updates
}

// extractLogUpdates parses bun's own update log output. This is the fallback
// of last resort, used when no manifest diff is obtainable; the log already
// carries bare versions so no prefix stripping is needed.
func extractLogUpdates(output string) []domain.PackageUpdate {
	var updates []domain.PackageUpdate

	for _, line := range strings.Split(output, "\n") {
		match := logLinePattern.FindStringSubmatch(line)
		if match == nil {
			continue
		}

		name, from, to := match[1], match[2], match[3]
		if from == to {
			continue
		}

		updates = append(updates, domain.PackageUpdate{
			Name:        name,
			FromVersion: from,
			ToVersion:   to,
			UpdateType:  domain.ClassifyUpdateType(from, to),
			Ecosystem:   domain.EcosystemNPM,
		})
	}

	return updates
}

// stripRangePrefix removes a single leading ^ or ~ range operator.
func stripRangePrefix(version string) string {
	if strings.HasPrefix(version, "^") || strings.HasPrefix(version, "~") {
		return version[1:]
	}
	return version
}
