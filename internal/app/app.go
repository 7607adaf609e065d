package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/specialistvlad/svcgrid/internal/bridge"
	"github.com/specialistvlad/svcgrid/internal/config"
	"github.com/specialistvlad/svcgrid/internal/controller"
	"github.com/specialistvlad/svcgrid/internal/ctxlog"
	"github.com/specialistvlad/svcgrid/internal/registry"
	"github.com/specialistvlad/svcgrid/internal/service"
)

// DefaultServiceName names the service when no service block is configured.
const DefaultServiceName = "svcgrid"

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW       io.Writer
	logger     *slog.Logger
	config     *Config
	model      *config.Model
	service    *service.Service
	httpServer *http.Server
	results    []Result
}

// NewApp is the constructor for the main application. It loads the
// configuration, registers all controllers and validates the registrations.
// Any failure here is a fatal startup error and panics.
func NewApp(ctx context.Context, outW io.Writer, appConfig *Config, loader config.Loader, modules ...registry.Module) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Logger configured successfully.")

	// Merge all configuration paths into a single collection for the loader.
	var configPaths []string
	if appConfig.ManifestPath != "" {
		configPaths = append(configPaths, appConfig.ManifestPath)
	}
	if appConfig.RequestsPath != "" && appConfig.RequestsPath != appConfig.ManifestPath {
		configPaths = append(configPaths, appConfig.RequestsPath)
	}

	model, err := loader.Load(ctx, configPaths...)
	if err != nil {
		panic(fmt.Errorf("failed to load configuration: %w", err))
	}
	logger.Debug("Configuration loaded and translated into unified model.")

	if len(modules) == 0 {
		modules = coreModules(outW)
	}
	reg := registry.New(modules...)
	logger.Debug("All Go modules registered.", "count", len(modules), "kinds", reg.Kinds())

	name := DefaultServiceName
	var opts controller.Options
	if model.Service != nil {
		name = model.Service.Name
		opts = controller.Options(model.Service.Options)
	}
	svc := service.New(name, reg,
		service.WithOptions(opts),
		service.WithBridge(bridge.NewLegacy()),
	)

	if model.Service != nil {
		for _, decl := range model.Service.Controllers {
			if err := svc.Declare(decl); err != nil {
				panic(fmt.Errorf("failed to declare controller: %w", err))
			}
		}
	}
	if appConfig.ControllersPath != "" {
		if err := svc.LoadControllerDirectory(ctx, appConfig.ControllersPath); err != nil {
			panic(err)
		}
	}

	// A registration pointing nowhere is a configuration error, so we panic.
	if err := svc.Validate(ctx); err != nil {
		panic(err)
	}
	logger.Debug("Service validation passed.", "service", name, "controllers", reg.Names())

	return &App{
		outW:    outW,
		logger:  logger,
		config:  appConfig,
		model:   model,
		service: svc,
	}
}

// Service returns the application's service. This is primarily for testing.
func (a *App) Service() *service.Service {
	return a.service
}

// Results returns the outcome of every request of the last Run.
func (a *App) Results() []Result {
	return a.results
}
