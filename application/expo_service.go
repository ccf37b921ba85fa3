package application

import (
	"context"
	"fmt"
	"path/filepath"

	logger "github.com/sirupsen/logrus"
	"golang.org/x/mod/semver"

	"github.com/depshift/depshift/config"
	"github.com/depshift/depshift/domain"
	"github.com/depshift/depshift/infrastructure/expo"
)

// ExpoService resolves the target Expo SDK's bundled dependency matrix and
// reconciles it into the workspace's version-constraint file. It returns the
// same uniform result shape as the ecosystem updaters so the reporting layer
// treats all four ecosystems alike.
type ExpoService struct {
	resolver *expo.Resolver
}

// NewExpoService creates a new service around the given resolver.
func NewExpoService(resolver *expo.Resolver) *ExpoService {
	return &ExpoService{resolver: resolver}
}

// Sync resolves the recommendation set and rewrites the constraint document.
// Resolution failures are hard failures: reconciling against a partial
// recommendation set would silently misalign the workspace.
func (s *ExpoService) Sync(
	ctx context.Context,
	cfg *config.Config,
	opts domain.UpdateOptions,
) domain.UpdateResult {
	target, err := s.resolveTarget(ctx, cfg)
	if err != nil {
		return domain.FailureResult(domain.EcosystemExpo, err.Error())
	}

	s.logCurrentVersion(cfg, target)

	recommendations, err := s.resolver.FetchRecommendedVersions(ctx, target)
	if err != nil {
		return domain.FailureResult(domain.EcosystemExpo, err.Error())
	}

	for name, version := range expo.FilterToCritical(recommendations) {
		logger.Infof("[expo] SDK %s pins %s %s", target, name, version)
	}

	docPath := filepath.Join(cfg.Workspace, cfg.Expo.Constraints)
	previous := expo.ManagedPins(docPath)

	if opts.DryRun {
		logger.Infof("[expo] [DRY RUN] Would reconcile %d pins into %s", len(recommendations.Packages), docPath)
		return domain.SuccessResult(domain.EcosystemExpo, diffPins(previous, recommendations))
	}

	if reconcileErr := expo.Reconcile(recommendations, docPath, cfg.Expo.PreserveCustomRules); reconcileErr != nil {
		return domain.FailureResult(
			domain.EcosystemExpo,
			fmt.Sprintf("failed to reconcile constraint document: %v", reconcileErr),
		)
	}

	return domain.SuccessResult(domain.EcosystemExpo, diffPins(previous, recommendations))
}

// resolveTarget picks the SDK version to sync against: the config pin when
// set, otherwise the latest release published on the registry.
func (s *ExpoService) resolveTarget(ctx context.Context, cfg *config.Config) (string, error) {
	if cfg.Expo.SDKVersion != "" {
		return cfg.Expo.SDKVersion, nil
	}

	latest, err := s.resolver.ResolveLatestVersion(ctx)
	if err != nil {
		return "", err
	}

	logger.Infof("[expo] Latest published SDK version: %s", latest)
	return latest, nil
}

// logCurrentVersion reports where the manifest currently stands relative to
// the target, warning on downgrades.
func (s *ExpoService) logCurrentVersion(cfg *config.Config, target string) {
	if cfg.Expo.Manifest == "" {
		return
	}

	current := s.resolver.ResolveCurrentVersion(filepath.Join(cfg.Workspace, cfg.Expo.Manifest))
	if current == "" {
		return
	}

	logger.Infof("[expo] Current SDK version in manifest: %s", current)
	if semver.Compare("v"+target, "v"+current) < 0 {
		logger.Warnf("[expo] Target SDK %s is older than the manifest's %s", target, current)
	}
}

// diffPins expresses the reconciliation as package updates, comparing the
// previously persisted managed pins against the fresh recommendations.
func diffPins(previous map[string]string, recommendations *expo.PackageVersions) []domain.PackageUpdate {
	return domain.DiffSnapshots(previous, recommendations.Packages, domain.EcosystemExpo)
}
