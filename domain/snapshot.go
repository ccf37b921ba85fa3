package domain

import "sort"

// Snapshot maps a stable dependency identifier to its currently resolved
// version or revision. Snapshots are captured before and after an external
// tool runs, compared once, then discarded.
type Snapshot map[string]string

// DiffSnapshots emits one PackageUpdate for every key present in both
// snapshots whose value changed. Keys only in after (newly introduced) or
// only in before (removed) produce no update: the differ reports changes,
// not membership changes. Revision-style values cannot be classified
// numerically, so every update carries UpdateTypeUnknown.
func DiffSnapshots(before, after Snapshot, eco Ecosystem) []PackageUpdate {
	names := make([]string, 0, len(after))
	for name := range after {
		names = append(names, name)
	}
	sort.Strings(names)

	var updates []PackageUpdate
	for _, name := range names {
		from, ok := before[name]
		if !ok || from == after[name] {
			continue
		}
		updates = append(updates, PackageUpdate{
			Name:        name,
			FromVersion: from,
			ToVersion:   after[name],
			UpdateType:  UpdateTypeUnknown,
			Ecosystem:   eco,
		})
	}

	return updates
}
