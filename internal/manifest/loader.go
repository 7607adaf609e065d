package manifest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/svcgrid/internal/config"
	"github.com/specialistvlad/svcgrid/internal/ctxlog"
	"github.com/specialistvlad/svcgrid/internal/fsutil"
)

// ErrDuplicateService is returned when more than one service block is found.
var ErrDuplicateService = errors.New("only one service block may be declared")

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// fileRoot is a struct used to decode all possible top-level blocks from any file.
type fileRoot struct {
	Services       []*serviceBlock       `hcl:"service,block"`
	Requests       []*requestBlock       `hcl:"request,block"`
	LegacyRequests []*legacyRequestBlock `hcl:"legacy_request,block"`
	Remain         hcl.Body              `hcl:",remain"`
}

type serviceBlock struct {
	Name        string             `hcl:"name,label"`
	Options     hcl.Expression     `hcl:"options,optional"`
	Controllers []*controllerBlock `hcl:"controller,block"`
}

type controllerBlock struct {
	Name string  `hcl:"name,label"`
	Kind *string `hcl:"kind,optional"`
	Path *string `hcl:"path,optional"`
}

type requestBlock struct {
	Object  string         `hcl:"object,label"`
	Action  string         `hcl:"action,label"`
	Count   *int           `hcl:"count,optional"`
	Payload hcl.Expression `hcl:"payload,optional"`
}

type legacyRequestBlock struct {
	Resource string         `hcl:"resource,label"`
	Method   *string        `hcl:"method,optional"`
	ID       *string        `hcl:"id,optional"`
	Count    *int           `hcl:"count,optional"`
	Body     hcl.Expression `hcl:"body,optional"`
}

// Load parses every .hcl file under paths and merges the service and request
// blocks into one model. Paths that do not exist are skipped.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	model := &config.Model{}

	hclFiles, err := findAllHCLFiles(paths)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered HCL files.", "count", len(hclFiles))

	parser := hclparse.NewParser()
	evalCtx := evalContext()

	for _, file := range hclFiles {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		for _, svc := range root.Services {
			if model.Service != nil {
				return nil, fmt.Errorf("%s: %w (found '%s' and '%s')", file, ErrDuplicateService, model.Service.Name, svc.Name)
			}
			def, err := translateService(svc, filepath.Dir(file), evalCtx)
			if err != nil {
				return nil, fmt.Errorf("in %s: %w", file, err)
			}
			model.Service = def
		}
		for _, req := range root.Requests {
			def, err := translateRequest(req, evalCtx)
			if err != nil {
				return nil, fmt.Errorf("in %s: %w", file, err)
			}
			model.Requests = append(model.Requests, def)
		}
		for _, req := range root.LegacyRequests {
			def, err := translateLegacyRequest(req, evalCtx)
			if err != nil {
				return nil, fmt.Errorf("in %s: %w", file, err)
			}
			model.LegacyRequests = append(model.LegacyRequests, def)
		}
	}

	logger.Debug("HCL loading complete.", "service", model.Service != nil, "requests", len(model.Requests), "legacy_requests", len(model.LegacyRequests))
	return model, nil
}

func translateService(b *serviceBlock, baseDir string, evalCtx *hcl.EvalContext) (*config.Service, error) {
	opts, err := objectToNative(b.Options, evalCtx, "options")
	if err != nil {
		return nil, fmt.Errorf("service '%s': %w", b.Name, err)
	}
	def := &config.Service{Name: b.Name, Options: opts}

	seen := make(map[string]struct{}, len(b.Controllers))
	for _, c := range b.Controllers {
		if _, dup := seen[c.Name]; dup {
			return nil, fmt.Errorf("service '%s': controller '%s' declared twice", b.Name, c.Name)
		}
		seen[c.Name] = struct{}{}

		decl := &config.ControllerDeclaration{Name: c.Name}
		if c.Kind != nil {
			decl.Kind = *c.Kind
		}
		if c.Path != nil {
			decl.Path = *c.Path
			if !filepath.IsAbs(decl.Path) {
				decl.Path = filepath.Join(baseDir, decl.Path)
			}
		}
		if decl.Kind != "" && decl.Path != "" {
			return nil, fmt.Errorf("service '%s': controller '%s' sets both kind and path", b.Name, c.Name)
		}
		def.Controllers = append(def.Controllers, decl)
	}
	return def, nil
}

func translateRequest(b *requestBlock, evalCtx *hcl.EvalContext) (*config.Request, error) {
	count, err := countOf(b.Count)
	if err != nil {
		return nil, fmt.Errorf("request '%s.%s': %w", b.Object, b.Action, err)
	}
	payload, err := exprToNative(b.Payload, evalCtx)
	if err != nil {
		return nil, fmt.Errorf("request '%s.%s': invalid payload: %w", b.Object, b.Action, err)
	}
	return &config.Request{Object: b.Object, Action: b.Action, Count: count, Payload: payload}, nil
}

func translateLegacyRequest(b *legacyRequestBlock, evalCtx *hcl.EvalContext) (*config.LegacyRequest, error) {
	count, err := countOf(b.Count)
	if err != nil {
		return nil, fmt.Errorf("legacy_request '%s': %w", b.Resource, err)
	}
	body, err := exprToNative(b.Body, evalCtx)
	if err != nil {
		return nil, fmt.Errorf("legacy_request '%s': invalid body: %w", b.Resource, err)
	}
	def := &config.LegacyRequest{Resource: b.Resource, Body: body, Count: count}
	if b.Method != nil {
		def.Method = *b.Method
	}
	if b.ID != nil {
		def.ID = *b.ID
	}
	return def, nil
}

func countOf(c *int) (int, error) {
	if c == nil {
		return 1, nil
	}
	if *c < 0 {
		return 0, fmt.Errorf("count must not be negative, got %d", *c)
	}
	return *c, nil
}

// findAllHCLFiles walks all given paths and returns a flat list of all .hcl files found.
func findAllHCLFiles(paths []string) ([]string, error) {
	var allFiles []string
	seen := make(map[string]struct{})
	add := func(p string) {
		if _, wasSeen := seen[p]; !wasSeen {
			allFiles = append(allFiles, p)
			seen[p] = struct{}{}
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue // It's not an error if a configured path doesn't exist.
			}
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}

		if !info.IsDir() {
			if filepath.Ext(path) == ".hcl" {
				add(path)
			}
			continue
		}
		files, err := fsutil.FindFilesByExtension(path, ".hcl")
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			add(f)
		}
	}
	return allFiles, nil
}
