package app

import (
	"context"
	"os"
	"testing"

	"github.com/specialistvlad/svcgrid/internal/manifest"
	"github.com/specialistvlad/svcgrid/internal/registry"
	"github.com/specialistvlad/svcgrid/internal/testutil"
)

// setupAppTest creates a new app instance for system testing. Logs are
// captured and printed only when SVCGRID_TEST_LOGS is "true".
func setupAppTest(t *testing.T, cfg Config, modules ...registry.Module) (*App, *testutil.SafeBuffer) {
	t.Helper()

	appConfig, err := NewConfig(cfg)
	if err != nil {
		t.Fatalf("invalid test config: %v", err)
	}
	appConfig.LogLevel = "debug"

	logBuffer := &testutil.SafeBuffer{}
	testApp := NewApp(context.Background(), logBuffer, appConfig, manifest.NewLoader(), modules...)

	t.Cleanup(func() {
		if os.Getenv("SVCGRID_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})

	return testApp, logBuffer
}
