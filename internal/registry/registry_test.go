package registry

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/svcgrid/internal/controller"
	"github.com/specialistvlad/svcgrid/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type kindModule struct{ kind string }

func (m kindModule) Register(r *Registry) {
	r.RegisterKind(m.kind, controller.NewAuto)
}

func TestRegister_NilMeansAuto(t *testing.T) {
	r := New()
	r.Register("users", nil)

	reg, ok := r.Lookup("users")
	require.True(t, ok)
	assert.Equal(t, Auto{}, reg)
	assert.True(t, r.IsRegistered("users"))
	assert.False(t, r.IsRegistered("orders"))
}

func TestRegister_Overwrites(t *testing.T) {
	r := New()
	r.Register("users", Path{Locator: "/srv/users.hcl"})
	r.Register("users", Factory{New: controller.NewAuto})

	reg, ok := r.Lookup("users")
	require.True(t, ok)
	_, isFactory := reg.(Factory)
	assert.True(t, isFactory, "the second registration should win")
	assert.Equal(t, []string{"users"}, r.Names())
}

func TestNames_Sorted(t *testing.T) {
	r := New()
	for _, name := range []string{"widgets", "accounts", "orders"} {
		r.Register(name, nil)
	}
	assert.Equal(t, []string{"accounts", "orders", "widgets"}, r.Names())
}

func TestRegistration_String(t *testing.T) {
	assert.Equal(t, "path(/a.hcl)", Path{Locator: "/a.hcl"}.String())
	assert.Equal(t, "factory", Factory{}.String())
	assert.Equal(t, "auto", Auto{}.String())
}

func TestRegisterKind(t *testing.T) {
	r := New(kindModule{kind: "echo"}, kindModule{kind: "auto"})

	f, ok := r.Kind("echo")
	require.True(t, ok)
	assert.NotNil(t, f)
	assert.Equal(t, []string{"auto", "echo"}, r.Kinds())

	_, ok = r.Kind("missing")
	assert.False(t, ok)
}

func TestRegisterKind_Panics(t *testing.T) {
	r := New(kindModule{kind: "echo"})

	assert.Panics(t, func() { r.RegisterKind("echo", controller.NewAuto) }, "duplicate kind")
	assert.Panics(t, func() { r.RegisterKind("", controller.NewAuto) }, "empty kind")
	assert.Panics(t, func() { r.RegisterKind("other", nil) }, "nil factory")
}

func TestControllerName(t *testing.T) {
	cases := map[string]string{
		"/srv/UserProfile.hcl": "userProfile",
		"widget.hcl":           "widget",
		"/a/b/Ärger.hcl":       "ärger",
		"/a/b/.hcl":            "",
	}
	for path, want := range cases {
		assert.Equal(t, want, ControllerName(path), path)
	}
}

func TestLoadDirectory(t *testing.T) {
	dir := testutil.WriteFiles(t, t.TempDir(), map[string]string{
		"Widgets.hcl":       `controller "auto" {}`,
		"orders.hcl":        `controller "auto" {}`,
		"README.md":         "not a manifest",
		"nested/deeper.hcl": `controller "auto" {}`,
	})

	r := New()
	require.NoError(t, r.LoadDirectory(context.Background(), dir))

	assert.Equal(t, []string{"orders", "widgets"}, r.Names(), "only top-level manifests are registered")
	reg, ok := r.Lookup("widgets")
	require.True(t, ok)
	assert.Equal(t, Path{Locator: filepath.Join(dir, "Widgets.hcl")}, reg)
}

func TestLoadDirectory_Empty(t *testing.T) {
	r := New()
	require.NoError(t, r.LoadDirectory(context.Background(), t.TempDir()))
	assert.Empty(t, r.Names())
}

func TestLoadDirectory_Missing(t *testing.T) {
	r := New()
	err := r.LoadDirectory(context.Background(), filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Empty(t, r.Names())
}

func TestValidate(t *testing.T) {
	dir := testutil.WriteFiles(t, t.TempDir(), map[string]string{
		"ok.hcl":       `controller "auto" {}`,
		"folder.hcl/x": "",
	})

	t.Run("valid registrations pass", func(t *testing.T) {
		r := New()
		r.Register("ok", Path{Locator: filepath.Join(dir, "ok.hcl")})
		r.Register("auto", nil)
		r.Register("fn", Factory{New: controller.NewAuto})
		assert.NoError(t, r.Validate(context.Background()))
	})

	t.Run("every problem is reported", func(t *testing.T) {
		r := New()
		r.Register("missing", Path{Locator: filepath.Join(dir, "missing.hcl")})
		r.Register("folder", Path{Locator: filepath.Join(dir, "folder.hcl")})
		r.Register("empty", Factory{})

		err := r.Validate(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "registry validation failed")
		assert.Contains(t, err.Error(), "controller 'missing'")
		assert.Contains(t, err.Error(), "controller 'folder': manifest")
		assert.Contains(t, err.Error(), "is a directory")
		assert.Contains(t, err.Error(), "controller 'empty': factory registration has no constructor")
	})
}

// embeddedPath is a Registration only through embedding.
type embeddedPath struct{ Path }

func TestValidate_RejectsUnknownRegistrationType(t *testing.T) {
	r := New()
	r.Register("widget", embeddedPath{Path{Locator: "/srv/widget.hcl"}})

	err := r.Validate(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "controller 'widget': unsupported registration type registry.embeddedPath")
}
