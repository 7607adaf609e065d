package registry

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/specialistvlad/svcgrid/internal/ctxlog"
	"github.com/specialistvlad/svcgrid/internal/fsutil"
)

// ManifestExtension is the extension of controller manifest files.
const ManifestExtension = ".hcl"

// LoadDirectory registers one Path registration per controller manifest found
// directly inside dir. Manifests are not parsed here; that happens when the
// controller is first loaded.
func (r *Registry) LoadDirectory(ctx context.Context, dir string) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Registry loading controller manifests...", "path", dir)

	filePaths, err := fsutil.ListFilesByExtension(dir, ManifestExtension)
	if err != nil {
		logger.Error("Failed to read controller directory", "path", dir, "error", err)
		return fmt.Errorf("failed to read controller directory %s: %w", dir, err)
	}

	if len(filePaths) == 0 {
		logger.Warn("No controller manifests found in path", "path", dir)
		return nil
	}

	for _, filePath := range filePaths {
		name := ControllerName(filePath)
		if name == "" {
			continue
		}
		r.Register(name, Path{Locator: filePath})
		logger.Debug("Registered controller manifest", "controller", name, "file", filePath)
	}

	logger.Info("Controller directory loaded.", "path", dir, "controllers", len(filePaths))
	return nil
}

// ControllerName derives a controller name from a manifest path: the base
// name without its extension, with the first character lower-cased.
// "/srv/UserProfile.hcl" becomes "userProfile".
func ControllerName(path string) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if base == "" {
		return ""
	}
	first, size := utf8.DecodeRuneInString(base)
	return string(unicode.ToLower(first)) + base[size:]
}
