package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFromYAML(t *testing.T) {
	path := writeConfig(t, `
toggl:
  api_token: toggl-secret
invoiceninja:
  api_token: ninja-secret
  base_url: https://invoices.example.com
sync:
  ref_label: "IN Task: "
  round_minutes: 15
  billable_only: true
  timezone: Europe/Berlin
mappings:
  clients:
    Acme: c1
  projects:
    Website: p1
  users:
    jo: u1
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "toggl-secret", cfg.Toggl.APIToken)
	assert.Equal(t, "https://api.track.toggl.com", cfg.Toggl.BaseURL, "default base url applies")
	assert.Equal(t, "IN Task: ", cfg.Sync.RefLabel)
	assert.Equal(t, 15, cfg.Sync.RoundMinutes)
	assert.True(t, cfg.Sync.BillableOnly)
	assert.Equal(t, "c1", cfg.Mappings.Clients["Acme"])
	assert.Equal(t, "Europe/Berlin", cfg.Location().String())
}

func TestLoadEnvOverridesYAML(t *testing.T) {
	path := writeConfig(t, `
toggl:
  api_token: from-yaml
invoiceninja:
  api_token: ninja-secret
  base_url: https://invoices.example.com
`)
	t.Setenv("TOGGL_API_TOKEN", "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Toggl.APIToken)
}

func TestLoadRejectsMissingTokens(t *testing.T) {
	path := writeConfig(t, `
invoiceninja:
  api_token: ninja-secret
  base_url: https://invoices.example.com
`)
	_, err := Load(path)
	assert.ErrorContains(t, err, "TOGGL_API_TOKEN")
}

func TestLoadRejectsBadTimezone(t *testing.T) {
	path := writeConfig(t, `
toggl:
  api_token: x
invoiceninja:
  api_token: y
  base_url: https://invoices.example.com
sync:
  timezone: Mars/Olympus
`)
	_, err := Load(path)
	assert.ErrorContains(t, err, "timezone")
}
