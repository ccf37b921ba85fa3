// Package expo resolves the dependency matrix bundled with an Expo SDK
// release and reconciles it into the workspace's version-constraint file.
package expo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	logger "github.com/sirupsen/logrus"
)

// errNotFound marks a fetch that reached the host but found no document
// there. Callers may treat absence as a degradable condition; every other
// fetch failure is a transport problem and stays a hard error.
var errNotFound = errors.New("document not found")

const (
	defaultRegistryBaseURL = "https://registry.npmjs.org"
	defaultRawBaseURL      = "https://raw.githubusercontent.com/expo/expo"
	fetchTimeout           = 15 * time.Second

	sdkPackageName = "expo"

	// Fallback peer versions, used only when the SDK branch's own manifest
	// (or its peerDependencies section) is unavailable. Last known pairing
	// for the current SDK line.
	fallbackReactVersion       = "19.1.0"
	fallbackReactNativeVersion = "0.81.4"
)

// criticalPackages is the fixed allow-list used by FilterToCritical: the
// packages whose version skew breaks a managed workspace outright.
var criticalPackages = []string{
	"expo",
	"expo-router",
	"react",
	"react-dom",
	"react-native",
	"react-native-web",
}

// PackageVersions is the resolved recommendation set for one SDK release:
// the SDK version itself plus the officially bundled version of every
// managed package.
type PackageVersions struct {
	SDKVersion string
	Packages   map[string]string
}

// Resolver fetches Expo's officially bundled dependency versions from the
// npm registry and the expo/expo repository's raw-content host.
type Resolver struct {
	client      *http.Client
	registryURL string
	rawURL      string
}

// NewResolver creates a resolver against the public npm registry and GitHub
// raw-content host.
func NewResolver() *Resolver {
	return &Resolver{
		client:      &http.Client{Timeout: fetchTimeout},
		registryURL: defaultRegistryBaseURL,
		rawURL:      defaultRawBaseURL,
	}
}

// NewResolverWithBaseURLs creates a resolver against custom endpoints.
// Used by tests; production code uses NewResolver.
func NewResolverWithBaseURLs(registryURL, rawURL string) *Resolver {
	return &Resolver{
		client:      &http.Client{Timeout: fetchTimeout},
		registryURL: strings.TrimSuffix(registryURL, "/"),
		rawURL:      strings.TrimSuffix(rawURL, "/"),
	}
}

// ResolveCurrentVersion reads the pinned expo version from a package.json
// manifest, checking dependencies then devDependencies and stripping a
// single leading range prefix. It returns "" when the manifest is missing,
// malformed, or does not pin expo — absence is expected, not an error.
func (r *Resolver) ResolveCurrentVersion(manifestPath string) string {
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		logger.Warnf("[expo] Failed to read manifest %s: %v", manifestPath, err)
		return ""
	}

	var manifest struct {
		Dependencies    map[string]string `json:"dependencies"`
		DevDependencies map[string]string `json:"devDependencies"`
	}
	if unmarshalErr := json.Unmarshal(data, &manifest); unmarshalErr != nil {
		logger.Warnf("[expo] Failed to parse manifest %s: %v", manifestPath, unmarshalErr)
		return ""
	}

	for _, group := range []map[string]string{manifest.Dependencies, manifest.DevDependencies} {
		if pinned, ok := group[sdkPackageName]; ok {
			return stripRangePrefix(pinned)
		}
	}

	return ""
}

// ResolveLatestVersion asks the npm registry for the latest published expo
// release. Network failures are returned as errors: there is no meaningful
// fallback for an unknown target.
func (r *Resolver) ResolveLatestVersion(ctx context.Context) (string, error) {
	var release struct {
		Version string `json:"version"`
	}
	url := fmt.Sprintf("%s/%s/latest", r.registryURL, sdkPackageName)
	if err := r.fetchJSON(ctx, url, &release); err != nil {
		return "", fmt.Errorf("failed to resolve latest SDK version: %w", err)
	}
	if release.Version == "" {
		return "", fmt.Errorf("registry returned no version for %s", sdkPackageName)
	}
	return release.Version, nil
}

// FetchRecommendedVersions fetches the dependency matrix Expo bundles with
// the targeted SDK release: the bundled-native-module map plus the SDK
// package's own peer dependencies, merged with a synthesized constraint for
// the SDK package itself. Unlike the best-effort paths elsewhere, a fetch
// failure here is a hard error — reconciling against a partial
// recommendation set is worse than failing outright.
func (r *Resolver) FetchRecommendedVersions(ctx context.Context, targetVersion string) (*PackageVersions, error) {
	branch := sdkBranch(targetVersion)

	bundled := map[string]string{}
	bundledURL := fmt.Sprintf("%s/%s/packages/expo/bundledNativeModules.json", r.rawURL, branch)
	if err := r.fetchJSON(ctx, bundledURL, &bundled); err != nil {
		return nil, fmt.Errorf("failed to fetch bundled module versions for SDK %s: %w", targetVersion, err)
	}

	merged, err := r.peerVersions(ctx, branch)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch peer versions for SDK %s: %w", targetVersion, err)
	}
	merged[sdkPackageName] = "~" + targetVersion
	for name, version := range bundled {
		merged[name] = version
	}

	return &PackageVersions{
		SDKVersion: targetVersion,
		Packages:   merged,
	}, nil
}

// FilterToCritical projects the full recommendation mapping down to the
// fixed allow-list of high-impact packages, omitting any the source mapping
// does not carry.
func FilterToCritical(versions *PackageVersions) map[string]string {
	critical := make(map[string]string)
	for _, name := range criticalPackages {
		if version, ok := versions.Packages[name]; ok {
			critical[name] = version
		}
	}
	return critical
}

// peerVersions reads react/react-native from the SDK package's own manifest
// on the release branch. Only absence degrades: a missing document or missing
// fields fall back to the documented pairing with a warning, while transport
// failures propagate so the whole resolution fails hard.
func (r *Resolver) peerVersions(ctx context.Context, branch string) (map[string]string, error) {
	versions := map[string]string{
		"react":        fallbackReactVersion,
		"react-native": fallbackReactNativeVersion,
	}

	var sdkManifest struct {
		PeerDependencies map[string]string `json:"peerDependencies"`
	}
	url := fmt.Sprintf("%s/%s/packages/expo/package.json", r.rawURL, branch)
	if err := r.fetchJSON(ctx, url, &sdkManifest); err != nil {
		if errors.Is(err, errNotFound) {
			logger.Warnf("[expo] Falling back to default peer versions: %v", err)
			return versions, nil
		}
		return nil, err
	}

	for name := range versions {
		if pinned, ok := sdkManifest.PeerDependencies[name]; ok {
			versions[name] = stripRangePrefix(pinned)
		}
	}

	return versions, nil
}

func (r *Resolver) fetchJSON(ctx context.Context, url string, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request for %s: %w", url, err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", errNotFound, url)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}

	if decodeErr := json.NewDecoder(resp.Body).Decode(target); decodeErr != nil {
		return fmt.Errorf("failed to parse response from %s: %w", url, decodeErr)
	}

	return nil
}

// sdkBranch derives the release branch name from a target version's major
// component, e.g. "54.0.0" -> "sdk-54".
func sdkBranch(targetVersion string) string {
	major := strings.SplitN(targetVersion, ".", 2)[0]
	return "sdk-" + major
}

// stripRangePrefix removes a single leading ^ or ~ range operator.
func stripRangePrefix(version string) string {
	if strings.HasPrefix(version, "^") || strings.HasPrefix(version, "~") {
		return version[1:]
	}
	return version
}
