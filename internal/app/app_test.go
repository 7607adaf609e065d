package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/svcgrid/internal/message"
	"github.com/specialistvlad/svcgrid/internal/registry"
	"github.com/specialistvlad/svcgrid/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const serviceHCL = `
service "shop" {
  controller "users" {}

  controller "greeter" {
    kind = "echo"
  }
}
`

func TestRun_DispatchesScript(t *testing.T) {
	dir := testutil.WriteFiles(t, t.TempDir(), map[string]string{
		"service.hcl": serviceHCL,
		"requests.hcl": `
request "users" "create" {
  count   = 3
  payload = { name = "ada" }
}

request "greeter" "echo" {
  payload = "ping"
}

legacy_request "users" {}
`,
		"controllers/Widgets.hcl": `controller "auto" {}`,
	})

	a, logs := setupAppTest(t, Config{
		RequestsPath:    filepath.Join(dir, "requests.hcl"),
		ManifestPath:    filepath.Join(dir, "service.hcl"),
		ControllersPath: filepath.Join(dir, "controllers"),
		Concurrency:     1,
	})
	assert.Equal(t, "shop", a.Service().Name())
	assert.Equal(t, []string{"greeter", "users", "widgets"}, a.Service().Registry().Names())

	require.NoError(t, a.Run(context.Background()))

	results := a.Results()
	require.Len(t, results, 5)
	for _, r := range results {
		assert.True(t, r.OK(), "%s.%s: %d %s", r.Object, r.Action, r.Status, r.Message)
	}
	assert.Equal(t, message.StatusCreated, results[0].Status)
	assert.True(t, results[4].Legacy)
	assert.Len(t, results[4].Data, 3, "the legacy GET lists every created user")

	out := logs.String()
	assert.Contains(t, out, "201 created users.create")
	assert.Contains(t, out, "200 ok legacy users GET")
}

func TestRun_ReportsFailures(t *testing.T) {
	dir := testutil.WriteFiles(t, t.TempDir(), map[string]string{
		"service.hcl": serviceHCL,
		"requests.hcl": `
request "ghost" "list" {}
request "users" "archive" {}
request "users" "list" {}
`,
	})

	a, logs := setupAppTest(t, Config{RequestsPath: dir})
	err := a.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, "2 of 3 requests failed", err.Error())

	results := a.Results()
	require.Len(t, results, 3)
	assert.Equal(t, message.KindObjectNotFound, results[0].Kind)
	assert.Equal(t, message.KindActionNotFound, results[1].Kind)
	assert.True(t, results[2].OK())
	assert.Contains(t, logs.String(), "[object_not_found]")
}

func TestRun_ConcurrentFirstUseLoadsOnce(t *testing.T) {
	spy := &testutil.Spy{}
	module := spyModule{kind: "spy", spy: spy}
	dir := testutil.WriteFiles(t, t.TempDir(), map[string]string{
		"all.hcl": `
service "shop" {
  controller "widget" {
    kind = "spy"
  }
}

request "widget" "list" {
  count = 20
}
`,
	})

	a, _ := setupAppTest(t, Config{RequestsPath: dir, Concurrency: 8}, module)
	require.NoError(t, a.Run(context.Background()))
	assert.Len(t, a.Results(), 20)
	assert.Equal(t, int32(1), spy.Constructed.Load())
}

func TestRun_NoRequests(t *testing.T) {
	dir := testutil.WriteFiles(t, t.TempDir(), map[string]string{"service.hcl": serviceHCL})

	a, logs := setupAppTest(t, Config{RequestsPath: dir})
	require.NoError(t, a.Run(context.Background()))
	assert.Empty(t, a.Results())
	assert.Contains(t, logs.String(), "nothing to dispatch")
}

func TestNewApp_DefaultServiceName(t *testing.T) {
	dir := testutil.WriteFiles(t, t.TempDir(), map[string]string{"r.hcl": `request "users" "list" {}`})

	a, _ := setupAppTest(t, Config{RequestsPath: dir})
	assert.Equal(t, DefaultServiceName, a.Service().Name())
}

func TestNewApp_PanicsOnBadConfiguration(t *testing.T) {
	cases := map[string]map[string]string{
		"invalid hcl": {"a.hcl": `service "x" {`},
		"unknown kind": {"a.hcl": `
service "x" {
  controller "c" {
    kind = "mystery"
  }
}`},
		"missing manifest": {"a.hcl": `
service "x" {
  controller "c" {
    path = "nowhere.hcl"
  }
}`},
	}
	for name, files := range cases {
		t.Run(name, func(t *testing.T) {
			dir := testutil.WriteFiles(t, t.TempDir(), files)
			assert.Panics(t, func() { setupAppTest(t, Config{RequestsPath: dir}) })
		})
	}
}

func TestHealthHandler(t *testing.T) {
	dir := testutil.WriteFiles(t, t.TempDir(), map[string]string{"service.hcl": serviceHCL})
	a, _ := setupAppTest(t, Config{RequestsPath: dir})

	rec := httptest.NewRecorder()
	a.healthHandler(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK shop [greeter,users]\n", rec.Body.String())
}

func TestCloseHealthcheckServer_NotRunning(t *testing.T) {
	dir := testutil.WriteFiles(t, t.TempDir(), map[string]string{"service.hcl": serviceHCL})
	a, _ := setupAppTest(t, Config{RequestsPath: dir})
	assert.NoError(t, a.closeHealthcheckServer(context.Background()))
}

func TestNewConfig(t *testing.T) {
	_, err := NewConfig(Config{})
	assert.Error(t, err)

	_, err = NewConfig(Config{RequestsPath: "r", Concurrency: -1})
	assert.Error(t, err)

	cfg, err := NewConfig(Config{RequestsPath: "r"})
	require.NoError(t, err)
	assert.Equal(t, DefaultConcurrency, cfg.Concurrency)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, "DEBUG", parseLevel("debug").String())
	assert.Equal(t, "WARN", parseLevel("warn").String())
	assert.Equal(t, "ERROR", parseLevel("error").String())
	assert.Equal(t, "INFO", parseLevel("anything").String())
}

type spyModule struct {
	kind string
	spy  *testutil.Spy
}

func (m spyModule) Register(r *registry.Registry) { r.RegisterKind(m.kind, m.spy.Factory()) }

func TestRun_PrintControllerWritesToOutput(t *testing.T) {
	dir := testutil.WriteFiles(t, t.TempDir(), map[string]string{
		"all.hcl": `
service "shop" {
  controller "printer" {
    kind = "print"
  }
}

request "printer" "print" {
  payload = { greeting = "hello" }
}
`,
	})

	a, out := setupAppTest(t, Config{RequestsPath: dir})
	require.NoError(t, a.Run(context.Background()))
	assert.Contains(t, out.String(), `greeting = "hello"`)
	assert.Contains(t, out.String(), "200 ok printer.print")
}
