package manifest

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/svcgrid/internal/controller"
	"github.com/specialistvlad/svcgrid/internal/ctxlog"
)

var (
	// ErrUnknownKind is returned when a manifest names a kind nobody registered.
	ErrUnknownKind = errors.New("unknown controller kind")
	// ErrManifestShape is returned when a manifest does not hold exactly one controller block.
	ErrManifestShape = errors.New("a controller manifest must declare exactly one controller block")
)

// KindCatalog looks up controller factories by kind.
type KindCatalog interface {
	Kind(kind string) (controller.Factory, bool)
}

// Resolver reads controller manifests. It implements loader.Resolver.
type Resolver struct {
	kinds KindCatalog
}

// NewResolver creates a Resolver that looks kinds up in kinds.
func NewResolver(kinds KindCatalog) *Resolver {
	return &Resolver{kinds: kinds}
}

type controllerManifest struct {
	Controllers []*controllerManifestBlock `hcl:"controller,block"`
	Remain      hcl.Body                   `hcl:",remain"`
}

type controllerManifestBlock struct {
	Kind    string         `hcl:"kind,label"`
	Options hcl.Expression `hcl:"options,optional"`
}

// Resolve parses the manifest at locator and returns the factory for the
// kind it declares together with its options.
func (r *Resolver) Resolve(ctx context.Context, locator string) (controller.Factory, controller.Options, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Resolving controller manifest.", "file", locator)

	// hclparse.Parser caches files and is not safe for concurrent use, and
	// different controllers load concurrently.
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(locator)
	if diags.HasErrors() {
		return nil, nil, fmt.Errorf("failed to parse controller manifest %s: %w", locator, diags)
	}

	evalCtx := evalContext()
	var m controllerManifest
	if diags := gohcl.DecodeBody(file.Body, evalCtx, &m); diags.HasErrors() {
		return nil, nil, fmt.Errorf("failed to decode controller manifest %s: %w", locator, diags)
	}
	if len(m.Controllers) != 1 {
		return nil, nil, fmt.Errorf("%s: %w, found %d", locator, ErrManifestShape, len(m.Controllers))
	}
	block := m.Controllers[0]

	factory, ok := r.kinds.Kind(block.Kind)
	if !ok {
		return nil, nil, fmt.Errorf("%s: %w '%s'", locator, ErrUnknownKind, block.Kind)
	}

	opts, err := objectToNative(block.Options, evalCtx, "options")
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", locator, err)
	}

	logger.Debug("Controller manifest resolved.", "file", locator, "kind", block.Kind, "options", len(opts))
	return factory, controller.Options(opts), nil
}
