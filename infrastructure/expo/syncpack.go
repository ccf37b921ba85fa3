package expo

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"
)

const (
	// managedLabelPrefix marks the version groups owned by the SDK
	// reconciliation; everything else in the document is a custom rule.
	managedLabelPrefix = "expo-sdk: "

	constraintFileMode = 0o644
)

// VersionGroup is one syncpack version group: a pin of one or more
// dependencies to an exact version across the workspace.
type VersionGroup struct {
	Label        string   `json:"label,omitempty"`
	Dependencies []string `json:"dependencies"`
	Packages     []string `json:"packages,omitempty"`
	PinVersion   string   `json:"pinVersion,omitempty"`
}

// ConstraintDocument is the persisted syncpack configuration reconciling
// desired version ranges across the workspace's manifests.
type ConstraintDocument struct {
	VersionGroups []VersionGroup `json:"versionGroups"`
}

// Reconcile merges the resolved recommendation set into the constraint
// document at docPath and writes the result back. Every package named by the
// recommendations gets a managed pin group replacing any previous group for
// that package. With preserveCustomRules, pre-existing groups for other
// packages are carried over unmodified; without it the document is
// regenerated from the recommendations alone. A missing document is treated
// as empty; parse and write failures are returned, since this is the one
// write side effect of the engine.
func Reconcile(recommendations *PackageVersions, docPath string, preserveCustomRules bool) error {
	doc, err := loadConstraintDocument(docPath)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(recommendations.Packages))
	for name := range recommendations.Packages {
		names = append(names, name)
	}
	sort.Strings(names)

	groups := make([]VersionGroup, 0, len(names))
	for _, name := range names {
		groups = append(groups, VersionGroup{
			Label:        managedLabelPrefix + name,
			Dependencies: []string{name},
			Packages:     []string{"**"},
			PinVersion:   recommendations.Packages[name],
		})
	}

	if preserveCustomRules {
		for _, group := range doc.VersionGroups {
			if !mentionsAny(group, recommendations.Packages) {
				groups = append(groups, group)
			}
		}
	}

	data, err := json.MarshalIndent(ConstraintDocument{VersionGroups: groups}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode constraint document: %w", err)
	}

	if writeErr := os.WriteFile(docPath, append(data, '\n'), constraintFileMode); writeErr != nil {
		return fmt.Errorf("failed to write constraint document %s: %w", docPath, writeErr)
	}

	return nil
}

// ManagedPins reads the single-dependency pins currently recorded in the
// constraint document, keyed by package name. Used to diff a reconciliation
// against the previously persisted state. A missing or unreadable document
// yields an empty mapping.
func ManagedPins(docPath string) map[string]string {
	doc, err := loadConstraintDocument(docPath)
	if err != nil {
		return map[string]string{}
	}

	pins := make(map[string]string)
	for _, group := range doc.VersionGroups {
		if len(group.Dependencies) != 1 || group.PinVersion == "" {
			continue
		}
		if strings.HasPrefix(group.Label, managedLabelPrefix) {
			pins[group.Dependencies[0]] = group.PinVersion
		}
	}

	return pins
}

func loadConstraintDocument(docPath string) (*ConstraintDocument, error) {
	data, err := os.ReadFile(docPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &ConstraintDocument{}, nil
		}
		return nil, fmt.Errorf("failed to read constraint document %s: %w", docPath, err)
	}

	var doc ConstraintDocument
	if unmarshalErr := json.Unmarshal(data, &doc); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse constraint document %s: %w", docPath, unmarshalErr)
	}

	return &doc, nil
}

// mentionsAny reports whether the group pins any package present in the
// recommendation set.
func mentionsAny(group VersionGroup, recommended map[string]string) bool {
	for _, dep := range group.Dependencies {
		if _, ok := recommended[dep]; ok {
			return true
		}
	}
	return false
}
