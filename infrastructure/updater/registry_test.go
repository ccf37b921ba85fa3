package updater //nolint:testpackage // tests unexported functions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/depshift/depshift/domain"
	testdoubles "github.com/depshift/depshift/test"
)

func TestRegistry(t *testing.T) {
	t.Parallel()

	t.Run("should return updaters in registration order", func(t *testing.T) {
		t.Parallel()

		// given
		r := NewRegistry()
		r.Register(&testdoubles.SpyUpdater{UpdaterName: "bun", UpdaterEcosystem: domain.EcosystemNPM})
		r.Register(&testdoubles.SpyUpdater{UpdaterName: "devenv", UpdaterEcosystem: domain.EcosystemNix})
		r.Register(&testdoubles.SpyUpdater{UpdaterName: "nixpkgs", UpdaterEcosystem: domain.EcosystemNixpkgs})

		// when
		all := r.All()
		names := r.Names()

		// then
		require.Len(t, all, 3)
		assert.Equal(t, []string{"bun", "devenv", "nixpkgs"}, names)
		assert.Equal(t, "bun", all[0].Name())
	})

	t.Run("should replace an updater without changing its position", func(t *testing.T) {
		t.Parallel()

		// given
		r := NewRegistry()
		r.Register(&testdoubles.SpyUpdater{UpdaterName: "bun"})
		r.Register(&testdoubles.SpyUpdater{UpdaterName: "devenv"})
		replacement := &testdoubles.SpyUpdater{UpdaterName: "bun", Detected: true}

		// when
		r.Register(replacement)

		// then
		assert.Equal(t, []string{"bun", "devenv"}, r.Names())
		assert.True(t, r.Get("bun").Detect("/anywhere"))
	})

	t.Run("should return nil for an unknown name", func(t *testing.T) {
		t.Parallel()

		// given
		r := NewRegistry()

		// when
		u := r.Get("missing")

		// then
		assert.Nil(t, u)
	})
}
