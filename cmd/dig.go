package cmd

import (
	"go.uber.org/dig"

	"github.com/depshift/depshift/application"
	"github.com/depshift/depshift/domain"
	"github.com/depshift/depshift/infrastructure/command"
	"github.com/depshift/depshift/infrastructure/expo"
	updaterPkg "github.com/depshift/depshift/infrastructure/updater"
	bunUpdater "github.com/depshift/depshift/infrastructure/updater/bun"
	devenvUpdater "github.com/depshift/depshift/infrastructure/updater/devenv"
	nixpkgsUpdater "github.com/depshift/depshift/infrastructure/updater/nixpkgs"
)

// buildContainer wires the whole engine: command runner -> updaters ->
// registry -> services.
func buildContainer() (*dig.Container, error) {
	container := dig.New()

	providers := []any{
		command.NewExecRunner,
		expo.NewResolver,
		newUpdaterRegistry,
		application.NewUpdateService,
		application.NewExpoService,
	}

	for _, provider := range providers {
		if err := container.Provide(provider); err != nil {
			return nil, err
		}
	}

	return container, nil
}

func newUpdaterRegistry(runner domain.CommandRunner) *updaterPkg.Registry {
	registry := updaterPkg.NewRegistry()
	registry.Register(bunUpdater.New(runner))
	registry.Register(devenvUpdater.New(runner))
	registry.Register(nixpkgsUpdater.New(runner))
	return registry
}

func injectUpdateService() *application.UpdateService {
	container, err := buildContainer()
	if err != nil {
		panic(err)
	}

	var service *application.UpdateService
	if invokeErr := container.Invoke(func(s *application.UpdateService) {
		service = s
	}); invokeErr != nil {
		panic(invokeErr)
	}

	return service
}

func injectExpoService() *application.ExpoService {
	container, err := buildContainer()
	if err != nil {
		panic(err)
	}

	var service *application.ExpoService
	if invokeErr := container.Invoke(func(s *application.ExpoService) {
		service = s
	}); invokeErr != nil {
		panic(invokeErr)
	}

	return service
}

func injectRegistry() *updaterPkg.Registry {
	container, err := buildContainer()
	if err != nil {
		panic(err)
	}

	var registry *updaterPkg.Registry
	if invokeErr := container.Invoke(func(r *updaterPkg.Registry) {
		registry = r
	}); invokeErr != nil {
		panic(invokeErr)
	}

	return registry
}
