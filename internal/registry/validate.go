package registry

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/specialistvlad/svcgrid/internal/ctxlog"
)

// Validate performs a startup sanity check of all registrations. It reports
// every Path registration whose manifest cannot be read and every Factory
// registration without a constructor, so configuration mistakes surface
// before the first request rather than as a service_error at dispatch time.
func (r *Registry) Validate(ctx context.Context) error {
	var errs []string
	logger := ctxlog.FromContext(ctx)

	r.mu.RLock()
	defer r.mu.RUnlock()

	for name, reg := range r.registrations {
		switch v := reg.(type) {
		case Path:
			info, err := os.Stat(v.Locator)
			if err != nil {
				errs = append(errs, fmt.Sprintf("controller '%s': manifest '%s' is not accessible: %v", name, v.Locator, err))
				continue
			}
			if info.IsDir() {
				errs = append(errs, fmt.Sprintf("controller '%s': manifest '%s' is a directory", name, v.Locator))
			}
		case Factory:
			if v.New == nil {
				errs = append(errs, fmt.Sprintf("controller '%s': factory registration has no constructor", name))
			}
		case Auto:
			logger.Debug("Controller will be auto-provisioned.", "controller", name)
		default:
			errs = append(errs, fmt.Sprintf("controller '%s': unsupported registration type %T", name, reg))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}
