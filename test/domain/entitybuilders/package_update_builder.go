package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	testkit "github.com/rios0rios0/testkit/pkg/test"

	"github.com/depshift/depshift/domain"
)

// PackageUpdateBuilder helps create test package updates with a fluent interface.
type PackageUpdateBuilder struct {
	*testkit.BaseBuilder
	name        string
	fromVersion string
	toVersion   string
	updateType  domain.UpdateType
	ecosystem   domain.Ecosystem
}

// NewPackageUpdateBuilder creates a new builder with sensible defaults.
func NewPackageUpdateBuilder() *PackageUpdateBuilder {
	return &PackageUpdateBuilder{
		BaseBuilder: testkit.NewBaseBuilder(),
		name:        "test-package",
		fromVersion: "1.0.0",
		toVersion:   "1.1.0",
		updateType:  domain.UpdateTypeMinor,
		ecosystem:   domain.EcosystemNPM,
	}
}

// WithName sets the package name.
func (b *PackageUpdateBuilder) WithName(name string) *PackageUpdateBuilder {
	b.name = name
	return b
}

// WithFromVersion sets the version before the update.
func (b *PackageUpdateBuilder) WithFromVersion(version string) *PackageUpdateBuilder {
	b.fromVersion = version
	return b
}

// WithToVersion sets the version after the update.
func (b *PackageUpdateBuilder) WithToVersion(version string) *PackageUpdateBuilder {
	b.toVersion = version
	return b
}

// WithUpdateType sets the update severity.
func (b *PackageUpdateBuilder) WithUpdateType(updateType domain.UpdateType) *PackageUpdateBuilder {
	b.updateType = updateType
	return b
}

// WithEcosystem sets the ecosystem the update belongs to.
func (b *PackageUpdateBuilder) WithEcosystem(ecosystem domain.Ecosystem) *PackageUpdateBuilder {
	b.ecosystem = ecosystem
	return b
}

// Build creates the package update (satisfies testkit.Builder interface).
func (b *PackageUpdateBuilder) Build() interface{} {
	return b.BuildPackageUpdate()
}

// BuildPackageUpdate creates the package update with a concrete return type.
func (b *PackageUpdateBuilder) BuildPackageUpdate() domain.PackageUpdate {
	return domain.PackageUpdate{
		Name:        b.name,
		FromVersion: b.fromVersion,
		ToVersion:   b.toVersion,
		UpdateType:  b.updateType,
		Ecosystem:   b.ecosystem,
	}
}

// Reset clears the builder state, allowing it to be reused.
func (b *PackageUpdateBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.name = "test-package"
	b.fromVersion = "1.0.0"
	b.toVersion = "1.1.0"
	b.updateType = domain.UpdateTypeMinor
	b.ecosystem = domain.EcosystemNPM
	return b
}

// Clone creates a deep copy of the PackageUpdateBuilder.
func (b *PackageUpdateBuilder) Clone() testkit.Builder {
	return &PackageUpdateBuilder{
		BaseBuilder: b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		name:        b.name,
		fromVersion: b.fromVersion,
		toVersion:   b.toVersion,
		updateType:  b.updateType,
		ecosystem:   b.ecosystem,
	}
}
