package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/eregister/console/internal/config"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load(t.TempDir())
	require.NoError(t, err)

	require.Equal(t, ":8080", cfg.Server.Addr)
	require.Equal(t, "consoleSessionId", cfg.Session.CookieName)
	require.Equal(t, 50, cfg.List.PageSize)
	require.Equal(t, 500*time.Millisecond, cfg.List.SearchDebounce)
	require.Equal(t, "http://localhost:5000/api/", cfg.Services.AuthBaseURL)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	contents := []byte(`
server:
  addr: ":9090"
  env: PROD
services:
  auth_base_url: https://auth.example.com/api/
  course_base_url: https://courses.example.com/api/
list:
  page_size: 25
  search_debounce: 250ms
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "console.yaml"), contents, 0o644))

	cfg, err := config.Load(dir)
	require.NoError(t, err)

	require.Equal(t, ":9090", cfg.Server.Addr)
	require.Equal(t, "PROD", cfg.Server.Env)
	require.Equal(t, "https://auth.example.com/api/", cfg.Services.AuthBaseURL)
	require.Equal(t, 25, cfg.List.PageSize)
	require.Equal(t, 250*time.Millisecond, cfg.List.SearchDebounce)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("EREGISTER_SERVER_ADDR", ":3000")
	t.Setenv("EREGISTER_SERVICES_COURSE_BASE_URL", "https://override.example.com/api/")

	cfg, err := config.Load(t.TempDir())
	require.NoError(t, err)

	require.Equal(t, ":3000", cfg.Server.Addr)
	require.Equal(t, "https://override.example.com/api/", cfg.Services.CourseBaseURL)
}
