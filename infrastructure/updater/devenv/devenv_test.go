package devenv //nolint:testpackage // tests unexported functions

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/depshift/depshift/domain"
	testdoubles "github.com/depshift/depshift/test"
)

const lockBefore = `{
  "nodes": {
    "root": {},
    "nixpkgs": {
      "locked": {
        "rev": "abc1234567890abcdef1234567890abcdef12345"
      }
    },
    "devenv": {
      "locked": {
        "rev": "1111111222222233333334444444555555566666"
      }
    }
  }
}`

const lockAfter = `{
  "nodes": {
    "root": {},
    "nixpkgs": {
      "locked": {
        "rev": "def5678901234abcdef5678901234abcdef56789"
      }
    },
    "devenv": {
      "locked": {
        "rev": "1111111222222233333334444444555555566666"
      }
    }
  }
}`

// rewriteLockRunner swaps the lock file when "devenv update" runs, imitating
// the tool's in-place rewrite.
type rewriteLockRunner struct {
	testdoubles.SpyRunner
	lockPath string
}

func (r *rewriteLockRunner) Run(
	ctx context.Context,
	dir string,
	name string,
	args ...string,
) (string, error) {
	if name == "devenv" {
		if err := os.WriteFile(r.lockPath, []byte(lockAfter), 0o644); err != nil {
			return "", err
		}
	}
	return r.SpyRunner.Run(ctx, dir, name, args...)
}

func TestDevenvUpdater_Name(t *testing.T) {
	t.Parallel()

	t.Run("should return devenv", func(t *testing.T) {
		t.Parallel()

		// given
		u := New(&testdoubles.SpyRunner{})

		// when
		name := u.Name()

		// then
		assert.Equal(t, "devenv", name)
		assert.Equal(t, domain.EcosystemNix, u.Ecosystem())
	})
}

func TestDevenvUpdater_Detect(t *testing.T) {
	t.Parallel()

	t.Run("should detect a directory with devenv.nix", func(t *testing.T) {
		t.Parallel()

		// given
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "devenv.nix"), []byte("{}"), 0o644))

		// when
		detected := New(&testdoubles.SpyRunner{}).Detect(dir)

		// then
		assert.True(t, detected)
	})

	t.Run("should detect a directory with only devenv.lock", func(t *testing.T) {
		t.Parallel()

		// given
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "devenv.lock"), []byte("{}"), 0o644))

		// when
		detected := New(&testdoubles.SpyRunner{}).Detect(dir)

		// then
		assert.True(t, detected)
	})

	t.Run("should not detect an unrelated directory", func(t *testing.T) {
		t.Parallel()

		// when
		detected := New(&testdoubles.SpyRunner{}).Detect(t.TempDir())

		// then
		assert.False(t, detected)
	})
}

func TestDevenvUpdater_Update(t *testing.T) {
	t.Parallel()

	t.Run("should report inputs whose locked revision changed", func(t *testing.T) {
		t.Parallel()

		// given
		dir := t.TempDir()
		lockPath := filepath.Join(dir, "devenv.lock")
		require.NoError(t, os.WriteFile(lockPath, []byte(lockBefore), 0o644))
		runner := &rewriteLockRunner{lockPath: lockPath}
		u := New(runner)

		// when
		result := u.Update(context.Background(), dir, domain.UpdateOptions{})

		// then
		require.True(t, result.Success)
		require.Len(t, result.Updates, 1)
		assert.Equal(t, "nixpkgs", result.Updates[0].Name)
		assert.Equal(t, "abc1234", result.Updates[0].FromVersion)
		assert.Equal(t, "def5678", result.Updates[0].ToVersion)
		assert.Equal(t, domain.UpdateTypeUnknown, result.Updates[0].UpdateType)
		assert.Equal(t, domain.EcosystemNix, result.Updates[0].Ecosystem)
	})

	t.Run("should fail when the tool fails", func(t *testing.T) {
		t.Parallel()

		// given
		runner := &testdoubles.SpyRunner{
			Errors: map[string]error{"devenv update": errors.New("exit status 1")},
		}
		u := New(runner)

		// when
		result := u.Update(context.Background(), t.TempDir(), domain.UpdateOptions{})

		// then
		assert.False(t, result.Success)
		assert.Contains(t, result.Error, "devenv update failed")
	})

	t.Run("should run nothing in dry-run mode", func(t *testing.T) {
		t.Parallel()

		// given
		runner := &testdoubles.SpyRunner{}
		u := New(runner)

		// when
		result := u.Update(context.Background(), t.TempDir(), domain.UpdateOptions{DryRun: true})

		// then
		assert.True(t, result.Success)
		assert.Empty(t, result.Updates)
		assert.Empty(t, runner.Calls)
	})

	t.Run("should report nothing when the lock file never existed", func(t *testing.T) {
		t.Parallel()

		// given
		runner := &testdoubles.SpyRunner{}
		u := New(runner)

		// when
		result := u.Update(context.Background(), t.TempDir(), domain.UpdateOptions{})

		// then
		assert.True(t, result.Success)
		assert.Empty(t, result.Updates)
	})
}

func TestReadLockSnapshot(t *testing.T) {
	t.Parallel()

	t.Run("should shorten revisions and skip nodes without one", func(t *testing.T) {
		t.Parallel()

		// given
		dir := t.TempDir()
		lockPath := filepath.Join(dir, "devenv.lock")
		require.NoError(t, os.WriteFile(lockPath, []byte(lockBefore), 0o644))

		// when
		snapshot := readLockSnapshot(lockPath)

		// then
		assert.Equal(t, domain.Snapshot{
			"nixpkgs": "abc1234",
			"devenv":  "1111111",
		}, snapshot)
	})

	t.Run("should degrade to an empty snapshot on malformed JSON", func(t *testing.T) {
		t.Parallel()

		// given
		dir := t.TempDir()
		lockPath := filepath.Join(dir, "devenv.lock")
		require.NoError(t, os.WriteFile(lockPath, []byte("not json"), 0o644))

		// when
		snapshot := readLockSnapshot(lockPath)

		// then
		assert.Empty(t, snapshot)
	})
}
