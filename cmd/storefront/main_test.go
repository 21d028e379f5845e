package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseParams(t *testing.T) {
	form, err := parseParams([]string{"s_prodcode[]=MUG", "s_prodcode[]=TEE", "b_action=add", "empty="})
	require.NoError(t, err)
	assert.Equal(t, []string{"MUG", "TEE"}, form["s_prodcode[]"])
	assert.Equal(t, "add", form.Get("b_action"))
	assert.True(t, form.Has("empty"))

	_, err = parseParams([]string{"novalue"})
	assert.Error(t, err)
	_, err = parseParams([]string{"=value"})
	assert.Error(t, err)
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "storefront.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte(`
storefront:
  addr: ":9090"
  base_path: /shop
  shutdown_grace: 2s
client:
  html:
    catalog:
      stock:
        sort: "-stock.stocklevel"
`), 0o644))
	dotenv := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(dotenv, []byte("STOREFRONT_STOREFRONT_CURRENCY=USD\n"), 0o644))

	configPath, envFile = cfgFile, dotenv
	t.Cleanup(func() {
		configPath, envFile = "", ".env"
		_ = os.Unsetenv("STOREFRONT_STOREFRONT_CURRENCY")
	})

	store, settings, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, ":9090", settings.Addr)
	assert.Equal(t, "/shop", settings.BasePath)
	assert.Equal(t, 2*time.Second, settings.ShutdownGrace)
	assert.Equal(t, "-stock.stocklevel", store.String("client/html/catalog/stock/sort", ""))
	assert.Equal(t, "USD", store.String("storefront/currency", ""))
}

func TestLoadConfig_MissingEnvFileIsIgnored(t *testing.T) {
	configPath, envFile = "", filepath.Join(t.TempDir(), "missing.env")
	t.Cleanup(func() { configPath, envFile = "", ".env" })

	_, settings, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, ":8080", settings.Addr)
}
