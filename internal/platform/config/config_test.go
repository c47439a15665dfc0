package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadAppliesDefaultsWhenUnset(t *testing.T) {
	clearExamforgeEnv(t)

	cfg := Load()

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 3, cfg.Pipeline.MaxRevisions)
	assert.Equal(t, "data/concepts", cfg.ConceptsDir)
	assert.False(t, cfg.Discovery.Enabled())
	assert.Equal(t, 5000, cfg.Ports[RoleOrchestrator])
}

func TestLoadReadsOverridesFromEnv(t *testing.T) {
	clearExamforgeEnv(t)
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("EXAMFORGE_MAX_REVISIONS", "5")
	t.Setenv("EXAMFORGE_CONCEPTS_DIR", "/srv/concepts")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("EXAMFORGE_QUOTA_CONFIG", "/srv/quota.yaml")

	cfg := Load()

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 5, cfg.Pipeline.MaxRevisions)
	assert.Equal(t, "/srv/concepts", cfg.ConceptsDir)
	assert.True(t, cfg.Discovery.Enabled())
	assert.Equal(t, "/srv/quota.yaml", cfg.QuotaConfigPath)
}

func TestValidRoleAcceptsOnlyTheClosedSet(t *testing.T) {
	assert.True(t, ValidRole("orchestrator"))
	assert.True(t, ValidRole("all"))
	assert.False(t, ValidRole("nonexistent"))
}

// clearExamforgeEnv resets every env var Load() reads to "" for the
// duration of the test (t.Setenv restores the prior value on cleanup);
// Load treats an empty value the same as unset.
func clearExamforgeEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"DB_HOST", "DB_PORT", "DB_NAME", "DB_USER", "DB_PASSWORD",
		"GEMINI_API_KEY", "R2_ACCOUNT_ID", "R2_BUCKET_NAME", "R2_ACCESS_KEY",
		"R2_SECRET_KEY", "R2_PUBLIC_URL", "A2A_LOG_LEVEL", "A2A_LOG_VERBOSE",
		"A2A_LOG_LLM", "A2A_LOG_MESSAGES", "EXAMFORGE_MAX_REVISIONS",
		"EXAMFORGE_RETRY_ROUNDS", "EXAMFORGE_STRICT_CORRECTNESS",
		"EXAMFORGE_CONCEPTS_DIR", "REDIS_URL", "EXAMFORGE_QUOTA_CONFIG",
	} {
		t.Setenv(key, "")
	}
}
