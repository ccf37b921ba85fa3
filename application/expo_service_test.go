package application //nolint:testpackage // tests unexported functions

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/depshift/depshift/config"
	"github.com/depshift/depshift/domain"
	"github.com/depshift/depshift/infrastructure/expo"
)

// newFakeSDKHosts serves a minimal registry and raw-content host for SDK 54.
func newFakeSDKHosts(t *testing.T) (registryURL, rawURL string) {
	t.Helper()

	registry := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Path == "/expo/latest" {
			_, _ = w.Write([]byte(`{"version": "54.0.10"}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(registry.Close)

	raw := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		switch req.URL.Path {
		case "/sdk-54/packages/expo/bundledNativeModules.json":
			_, _ = w.Write([]byte(`{"expo-router": "~6.0.0"}`))
		case "/sdk-54/packages/expo/package.json":
			_, _ = w.Write([]byte(`{"peerDependencies": {"react": "19.2.0", "react-native": "0.82.0"}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(raw.Close)

	return registry.URL, raw.URL
}

func TestExpoService_Sync(t *testing.T) {
	t.Parallel()

	t.Run("should resolve the latest SDK and write the constraint document", func(t *testing.T) {
		t.Parallel()

		// given
		registryURL, rawURL := newFakeSDKHosts(t)
		service := NewExpoService(expo.NewResolverWithBaseURLs(registryURL, rawURL))
		workspace := t.TempDir()
		cfg := &config.Config{
			Workspace: workspace,
			Expo:      config.ExpoConfig{Constraints: ".syncpackrc.json"},
		}

		// when
		result := service.Sync(context.Background(), cfg, domain.UpdateOptions{})

		// then
		require.True(t, result.Success)
		assert.Equal(t, domain.EcosystemExpo, result.Ecosystem)

		pins := expo.ManagedPins(filepath.Join(workspace, ".syncpackrc.json"))
		assert.Equal(t, "~54.0.10", pins["expo"])
		assert.Equal(t, "~6.0.0", pins["expo-router"])
		assert.Equal(t, "19.2.0", pins["react"])
	})

	t.Run("should report pin changes against the previous document", func(t *testing.T) {
		t.Parallel()

		// given - a document persisted by an earlier sync of SDK 53
		registryURL, rawURL := newFakeSDKHosts(t)
		service := NewExpoService(expo.NewResolverWithBaseURLs(registryURL, rawURL))
		workspace := t.TempDir()
		cfg := &config.Config{
			Workspace: workspace,
			Expo:      config.ExpoConfig{Constraints: ".syncpackrc.json"},
		}
		previous := &expo.PackageVersions{
			SDKVersion: "53.0.0",
			Packages:   map[string]string{"expo": "~53.0.0"},
		}
		require.NoError(t, expo.Reconcile(previous, filepath.Join(workspace, ".syncpackrc.json"), false))

		// when
		result := service.Sync(context.Background(), cfg, domain.UpdateOptions{})

		// then
		require.True(t, result.Success)
		var expoUpdate *domain.PackageUpdate
		for i := range result.Updates {
			if result.Updates[i].Name == "expo" {
				expoUpdate = &result.Updates[i]
			}
		}
		require.NotNil(t, expoUpdate)
		assert.Equal(t, "~53.0.0", expoUpdate.FromVersion)
		assert.Equal(t, "~54.0.10", expoUpdate.ToVersion)
	})

	t.Run("should not write the document in a dry run", func(t *testing.T) {
		t.Parallel()

		// given
		registryURL, rawURL := newFakeSDKHosts(t)
		service := NewExpoService(expo.NewResolverWithBaseURLs(registryURL, rawURL))
		workspace := t.TempDir()
		cfg := &config.Config{
			Workspace: workspace,
			Expo:      config.ExpoConfig{Constraints: ".syncpackrc.json"},
		}

		// when
		result := service.Sync(context.Background(), cfg, domain.UpdateOptions{DryRun: true})

		// then
		require.True(t, result.Success)
		_, err := os.Stat(filepath.Join(workspace, ".syncpackrc.json"))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("should use the configured SDK pin instead of the registry", func(t *testing.T) {
		t.Parallel()

		// given - no registry at all; only the raw host is reachable
		_, rawURL := newFakeSDKHosts(t)
		service := NewExpoService(expo.NewResolverWithBaseURLs("http://unreachable.invalid", rawURL))
		workspace := t.TempDir()
		cfg := &config.Config{
			Workspace: workspace,
			Expo: config.ExpoConfig{
				Constraints: ".syncpackrc.json",
				SDKVersion:  "54.0.10",
			},
		}

		// when
		result := service.Sync(context.Background(), cfg, domain.UpdateOptions{})

		// then
		assert.True(t, result.Success)
	})

	t.Run("should fail when the SDK version cannot be resolved", func(t *testing.T) {
		t.Parallel()

		// given
		service := NewExpoService(expo.NewResolverWithBaseURLs("http://unreachable.invalid", "http://unreachable.invalid"))
		cfg := &config.Config{
			Workspace: t.TempDir(),
			Expo:      config.ExpoConfig{Constraints: ".syncpackrc.json"},
		}

		// when
		result := service.Sync(context.Background(), cfg, domain.UpdateOptions{})

		// then
		assert.False(t, result.Success)
		assert.NotEmpty(t, result.Error)
	})

	t.Run("should fail when the recommendation set cannot be fetched", func(t *testing.T) {
		t.Parallel()

		// given
		registryURL, _ := newFakeSDKHosts(t)
		service := NewExpoService(expo.NewResolverWithBaseURLs(registryURL, "http://unreachable.invalid"))
		cfg := &config.Config{
			Workspace: t.TempDir(),
			Expo:      config.ExpoConfig{Constraints: ".syncpackrc.json"},
		}

		// when
		result := service.Sync(context.Background(), cfg, domain.UpdateOptions{})

		// then
		assert.False(t, result.Success)
		assert.Contains(t, result.Error, "failed to fetch bundled module versions")
	})
}
