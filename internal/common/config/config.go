// internal/common/config/config.go
package config

import "fmt"

// Candidate sources.
const (
	SourceMemory        = "memory"
	SourcePostgres      = "postgres"
	SourceElasticsearch = "elasticsearch"
)

// Feedback and audit sinks.
const (
	SinkLog      = "log"
	SinkSNS      = "sns"
	SinkKafka    = "kafka"
	SinkPostgres = "postgres"
)

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig               `mapstructure:"app"`
	Server        ServerConfig            `mapstructure:"server"`
	Camunda       CamundaConfig           `mapstructure:"camunda"`
	Database      DatabaseConfig          `mapstructure:"database"`
	Matching      MatchingConfig          `mapstructure:"matching"`
	Feedback      FeedbackConfig          `mapstructure:"feedback"`
	Audit         AuditConfig             `mapstructure:"audit"`
	Workers       map[string]WorkerConfig `mapstructure:"workers"`
	Logging       LoggingConfig           `mapstructure:"logging"`
	Observability ObservabilityConfig     `mapstructure:"observability"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// ServerConfig covers the HTTP API and the ops endpoints.
type ServerConfig struct {
	Address         string          `mapstructure:"address"`
	OpsAddress      string          `mapstructure:"ops_address"`      // /health, /ready, /metrics
	ReadTimeout     int             `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int             `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int             `mapstructure:"shutdown_timeout"` // milliseconds
	RateLimit       RateLimitConfig `mapstructure:"rate_limit"`
}

// RateLimitConfig is a per-client-IP token bucket.
type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

type CamundaConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Addresses      []string `mapstructure:"addresses"`
	Username       string   `mapstructure:"username"`
	Password       string   `mapstructure:"password"`
	SSLEnabled     bool     `mapstructure:"ssl_enabled"`
	URL            string   `mapstructure:"url"` // Single URL for backwards compatibility
	CaregiverIndex string   `mapstructure:"caregiver_index"`
}

// GetURL returns the first address or the URL field
func (e ElasticsearchConfig) GetURL() string {
	if e.URL != "" {
		return e.URL
	}
	if len(e.Addresses) > 0 {
		return e.Addresses[0]
	}
	return ""
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// MatchingConfig tunes the matching pipeline.
type MatchingConfig struct {
	Concurrency           int     `mapstructure:"concurrency"`
	RequestTimeout        int     `mapstructure:"request_timeout"`    // milliseconds
	RepositoryTimeout     int     `mapstructure:"repository_timeout"` // milliseconds, per attempt
	RepositoryRetries     int     `mapstructure:"repository_retries"`
	RetryBaseDelay        int     `mapstructure:"retry_base_delay"` // milliseconds
	RetryMaxDelay         int     `mapstructure:"retry_max_delay"`  // milliseconds
	CandidateSource       string  `mapstructure:"candidate_source"`
	MaxServiceRadius      float64 `mapstructure:"max_service_radius"` // miles, database prefilter
	CacheEnabled          bool    `mapstructure:"cache_enabled"`
	CacheTTL              int     `mapstructure:"cache_ttl"` // milliseconds
	AlgorithmRegistryPath string  `mapstructure:"algorithm_registry_path"`
	DefaultAlgorithm      string  `mapstructure:"default_algorithm"`
}

type FeedbackConfig struct {
	Sink string `mapstructure:"sink"`
	AWS  struct {
		Region      string `mapstructure:"region"`
		SNSTopicARN string `mapstructure:"sns_topic_arn"`
	} `mapstructure:"aws"`
	Kafka KafkaConfig `mapstructure:"kafka"`
}

type KafkaConfig struct {
	Brokers      []string `mapstructure:"brokers"`
	Topic        string   `mapstructure:"topic"`
	WriteTimeout int      `mapstructure:"write_timeout"` // milliseconds
}

type AuditConfig struct {
	Sink  string `mapstructure:"sink"`
	Table string `mapstructure:"table"`
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // For error handling
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

type ObservabilityConfig struct {
	ServiceName    string  `mapstructure:"service_name"`
	TracingEnabled bool    `mapstructure:"tracing_enabled"`
	JaegerEndpoint string  `mapstructure:"jaeger_endpoint"`
	SampleRatio    float64 `mapstructure:"sample_ratio"`
}
