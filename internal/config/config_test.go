package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", `
app:
  env: prod
ai:
  enabled: false
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "prod", cfg.App.Env)
	assert.Equal(t, "info", cfg.App.LogLevel)
	assert.Equal(t, []string{"OPENROUTER_API_KEY", "OPENAI_API_KEY"}, cfg.AI.APIKeyEnv)
	assert.Equal(t, 60, cfg.AI.TimeoutSeconds)
	assert.Equal(t, 2.0, cfg.Intel.AggressionTolerance)
	assert.Equal(t, 5, cfg.Intel.MinClusterSamples)
	assert.Equal(t, 100, cfg.Strategy.MinReasoningChars)
	assert.Equal(t, []string{"profit", "risk", "competition", "strategy"}, cfg.Strategy.ReasoningKeywords)
	assert.Equal(t, 10, cfg.History.SimilarLimit)
}

func TestLoadMergesIncludes(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "base.yaml", `
ai:
  enabled: true
  model: base-model
  temperature: 0.3
`)
	path := writeConfig(t, dir, "config.yaml", `
include: [base.yaml]
ai:
  model: override-model
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "override-model", cfg.AI.Model, "主文件覆盖 include")
	assert.True(t, cfg.AI.Enabled)
	assert.InDelta(t, 0.3, cfg.AI.Temperature, 1e-9)
}

func TestLoadRejectsIncludeCycle(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "a.yaml", "include: [b.yaml]\n")
	path := writeConfig(t, dir, "b.yaml", "include: [a.yaml]\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle")
}

func TestValidateRejectsBadValues(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", `
app:
  log_level: loud
`)
	_, err := Load(path)
	assert.Error(t, err)

	path = writeConfig(t, t.TempDir(), "config.yaml", `
intel:
  resource_high_cutoff: 0.4
  resource_medium_cutoff: 0.6
`)
	_, err = Load(path)
	assert.Error(t, err)
}
