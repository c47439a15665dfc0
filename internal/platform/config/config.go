// Package config loads examforge's runtime configuration from environment
// variables and an optional .env file, the way the teacher framework's
// Config.LoadFromEnv does: explicit per-field os.Getenv reads, no
// reflection, defaults applied first.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Role is one of the closed set of CLI roles from spec.md §6.
type Role string

const (
	RoleOrchestrator      Role = "orchestrator"
	RoleConceptGuide      Role = "concept_guide"
	RoleQuestionGenerator Role = "question_generator"
	RoleQualityChecker    Role = "quality_checker"
	RoleCorrectness       Role = "correctness"
	RoleImage             Role = "image"
	RoleDatabase          Role = "database"
	RoleVerifier          Role = "verifier"
	RoleAll               Role = "all"
)

// Roles is the closed set accepted on the command line, in the order
// spec.md §6 lists them.
var Roles = []Role{
	RoleOrchestrator, RoleConceptGuide, RoleQuestionGenerator,
	RoleQualityChecker, RoleCorrectness, RoleImage, RoleDatabase,
	RoleVerifier, RoleAll,
}

// ValidRole reports whether r is one of the closed set, including the
// meta-role "all".
func ValidRole(r string) bool {
	for _, role := range Roles {
		if string(role) == r {
			return true
		}
	}
	return false
}

// defaultPorts is the 5000-5009 default assignment from spec.md §6.
// "all" has no single port; the "all" role binds each service's listener
// on its own configured port within the same process.
var defaultPorts = map[Role]int{
	RoleOrchestrator:      5000,
	RoleImage:             5002,
	RoleDatabase:          5003,
	RoleVerifier:          5006,
	RoleConceptGuide:      5007,
	RoleQuestionGenerator: 5008,
	RoleQualityChecker:    5009,
	RoleCorrectness:       5001,
}

// DefaultPort returns the configured default port for a role.
func DefaultPort(r Role) int {
	return defaultPorts[r]
}

// DatabaseConfig configures the external Postgres collaborator (§1, §6).
type DatabaseConfig struct {
	Host     string
	Port     int
	Name     string
	User     string
	Password string
}

// ConnectionString builds a libpq-style DSN for pgx.
func (d DatabaseConfig) ConnectionString() string {
	return "postgresql://" + d.User + ":" + d.Password + "@" + d.Host + ":" +
		strconv.Itoa(d.Port) + "/" + d.Name + "?sslmode=prefer"
}

// ObjectStoreConfig configures the external object-store collaborator.
type ObjectStoreConfig struct {
	AccountID string
	Bucket    string
	AccessKey string
	SecretKey string
	PublicURL string
}

// LLMConfig configures the external LLM collaborator.
type LLMConfig struct {
	APIKey string
}

// LoggingConfig controls structured-log output.
type LoggingConfig struct {
	Level   string
	Format  string
	Verbose bool
	LogLLM  bool
	LogMsgs bool
}

// PipelineConfig holds the per-question/batch tunables from spec.md §4.7/§4.8.
type PipelineConfig struct {
	MaxRevisions      int
	RetryRounds       int
	StrictCorrectness bool
}

// DiscoveryConfig configures the optional Redis-backed service registry
// (`internal/discovery`). Unset RedisURL leaves discovery disabled and
// every role falls back to the static port table.
type DiscoveryConfig struct {
	RedisURL string
}

// Enabled reports whether a Redis URL was configured.
func (d DiscoveryConfig) Enabled() bool {
	return d.RedisURL != ""
}

// Config aggregates every configuration surface named in spec.md §6.
type Config struct {
	Database    DatabaseConfig
	ObjectStore ObjectStoreConfig
	LLM         LLMConfig
	Logging     LoggingConfig
	Pipeline    PipelineConfig
	Discovery   DiscoveryConfig
	ConceptsDir string
	// QuotaConfigPath optionally points at a YAML file overriding the
	// Orchestrator's built-in subtopic quotas (orchestrator.QuotaOverrides).
	// Empty leaves the built-in model.DefaultQuota in effect.
	QuotaConfigPath string
	Ports           map[Role]int
}

// Load reads an optional .env file (ignored if absent, matching
// load_dotenv()'s default behavior) then populates Config from the
// environment, applying defaults for anything unset.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		Database: DatabaseConfig{
			Host: "localhost",
			Port: 5432,
			Name: "examforge",
			User: "postgres",
		},
		Logging: LoggingConfig{
			Level:   "INFO",
			Format:  "text",
			LogLLM:  true,
			LogMsgs: true,
		},
		Pipeline: PipelineConfig{
			MaxRevisions: 3,
			RetryRounds:  3,
		},
		ConceptsDir: "data/concepts",
		Ports:       map[Role]int{},
	}
	for role, port := range defaultPorts {
		cfg.Ports[role] = port
	}

	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = p
		}
	}
	if v := os.Getenv("DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("R2_ACCOUNT_ID"); v != "" {
		cfg.ObjectStore.AccountID = v
	}
	if v := os.Getenv("R2_BUCKET_NAME"); v != "" {
		cfg.ObjectStore.Bucket = v
	}
	if v := os.Getenv("R2_ACCESS_KEY"); v != "" {
		cfg.ObjectStore.AccessKey = v
	}
	if v := os.Getenv("R2_SECRET_KEY"); v != "" {
		cfg.ObjectStore.SecretKey = v
	}
	if v := os.Getenv("R2_PUBLIC_URL"); v != "" {
		cfg.ObjectStore.PublicURL = v
	}
	if v := os.Getenv("A2A_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = strings.ToUpper(v)
	}
	if v := os.Getenv("A2A_LOG_VERBOSE"); v != "" {
		cfg.Logging.Verbose = parseBool(v, false)
	}
	if v := os.Getenv("A2A_LOG_LLM"); v != "" {
		cfg.Logging.LogLLM = parseBool(v, true)
	}
	if v := os.Getenv("A2A_LOG_MESSAGES"); v != "" {
		cfg.Logging.LogMsgs = parseBool(v, true)
	}
	if v := os.Getenv("EXAMFORGE_MAX_REVISIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Pipeline.MaxRevisions = n
		}
	}
	if v := os.Getenv("EXAMFORGE_RETRY_ROUNDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Pipeline.RetryRounds = n
		}
	}
	if v := os.Getenv("EXAMFORGE_STRICT_CORRECTNESS"); v != "" {
		cfg.Pipeline.StrictCorrectness = parseBool(v, false)
	}
	if v := os.Getenv("EXAMFORGE_CONCEPTS_DIR"); v != "" {
		cfg.ConceptsDir = v
	}
	if v := os.Getenv("EXAMFORGE_QUOTA_CONFIG"); v != "" {
		cfg.QuotaConfigPath = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Discovery.RedisURL = v
	}

	for _, role := range Roles {
		if role == RoleAll {
			continue
		}
		envKey := "EXAMFORGE_PORT_" + strings.ToUpper(string(role))
		if v := os.Getenv(envKey); v != "" {
			if p, err := strconv.Atoi(v); err == nil {
				cfg.Ports[role] = p
			}
		}
	}

	return cfg
}

func parseBool(v string, fallback bool) bool {
	switch strings.ToLower(v) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	default:
		return fallback
	}
}

// CallTimeout is the per-call deadline from spec.md §4.1 (120s default).
const CallTimeout = 120 * time.Second

// BatchCallTimeout is the orchestrator's batch-driving call timeout (300s).
const BatchCallTimeout = 300 * time.Second
