package cli

import (
	"bytes"
	"testing"

	"github.com/specialistvlad/svcgrid/internal/app"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_PathSources(t *testing.T) {
	cases := map[string]struct {
		args []string
		want string
	}{
		"long flag":  {[]string{"-requests", "a.hcl"}, "a.hcl"},
		"short flag": {[]string{"-r", "b.hcl"}, "b.hcl"},
		"positional": {[]string{"c.hcl"}, "c.hcl"},
		"long wins":  {[]string{"-requests", "a.hcl", "-r", "b.hcl", "c.hcl"}, "a.hcl"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			cfg, exit, err := Parse(tc.args, &bytes.Buffer{})
			require.NoError(t, err)
			assert.False(t, exit)
			assert.Equal(t, tc.want, cfg.RequestsPath)
		})
	}
}

func TestParse_AllFlags(t *testing.T) {
	cfg, exit, err := Parse([]string{
		"-manifest", "svc.hcl",
		"-controllers", "ctrl/",
		"-healthcheck-port", "8080",
		"-log-format", "JSON",
		"-log-level", "Debug",
		"-concurrency", "4",
		"requests/",
	}, &bytes.Buffer{})
	require.NoError(t, err)
	require.False(t, exit)

	assert.Equal(t, &app.Config{
		RequestsPath:    "requests/",
		ManifestPath:    "svc.hcl",
		ControllersPath: "ctrl/",
		LogFormat:       "json",
		LogLevel:        "debug",
		HealthcheckPort: 8080,
		Concurrency:     4,
	}, cfg)
}

func TestParse_Defaults(t *testing.T) {
	cfg, _, err := Parse([]string{"r.hcl"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, app.DefaultConcurrency, cfg.Concurrency)
	assert.Zero(t, cfg.HealthcheckPort)
}

func TestParse_NoPathPrintsUsage(t *testing.T) {
	out := &bytes.Buffer{}
	cfg, exit, err := Parse(nil, out)
	require.NoError(t, err)
	assert.True(t, exit)
	assert.Nil(t, cfg)
	assert.Contains(t, out.String(), "Usage:")
}

func TestParse_InvalidInput(t *testing.T) {
	cases := map[string][]string{
		"log format":   {"-log-format", "xml", "r.hcl"},
		"log level":    {"-log-level", "loud", "r.hcl"},
		"concurrency":  {"-concurrency", "0", "r.hcl"},
		"unknown flag": {"-nope"},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			_, exit, err := Parse(args, &bytes.Buffer{})
			require.Error(t, err)
			assert.False(t, exit)
			var exitErr *ExitError
			require.ErrorAs(t, err, &exitErr)
			assert.Equal(t, 2, exitErr.Code)
		})
	}
}
