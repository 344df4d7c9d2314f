package configs

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v2"
)

const (
	StorageLocal = "local"
	StorageS3    = "s3"
)

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	DB       DBConfig       `yaml:"db"`
	Storage  StorageConfig  `yaml:"storage"`
	Grader   GraderConfig   `yaml:"grader"`
	Identity IdentityConfig `yaml:"identity"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
}

type HTTPConfig struct {
	Address      string        `yaml:"address"`
	MaxBodyBytes int64         `yaml:"max_body_bytes"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

type DBConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	User           string `yaml:"user"`
	Password       string `yaml:"password"` //nolint:gosec // config struct, not hardcoded cred
	DBName         string `yaml:"dbname"`
	SSLMode        string `yaml:"sslmode"`
	MaxConns       int32  `yaml:"max_conns"`
	MinConns       int32  `yaml:"min_conns"`
	MigrationsPath string `yaml:"migrations_path"`
}

type StorageConfig struct {
	Backend   string   `yaml:"backend"`
	UploadDir string   `yaml:"upload_dir"`
	S3        S3Config `yaml:"s3"`
}

type S3Config struct {
	Bucket          string `yaml:"bucket"`
	Endpoint        string `yaml:"endpoint"`
	Region          string `yaml:"region"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"` //nolint:gosec // config struct, not hardcoded cred
}

type GraderConfig struct {
	APIKey     string        `yaml:"api_key"` //nolint:gosec // config struct, not hardcoded cred
	Model      string        `yaml:"model"`
	BaseURL    string        `yaml:"base_url"`
	Timeout    time.Duration `yaml:"timeout"`
	MaxChars   int           `yaml:"max_chars"`
	Retries    int           `yaml:"retries"`
	RetryDelay time.Duration `yaml:"retry_delay"`
}

type IdentityConfig struct {
	Issuer   string        `yaml:"issuer"`
	Timeout  time.Duration `yaml:"timeout"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"` //nolint:gosec // config struct, not hardcoded cred
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers          []string      `yaml:"brokers"`
	EventsTopic      string        `yaml:"events_topic"`
	RemindersTopic   string        `yaml:"reminders_topic"`
	ReminderInterval time.Duration `yaml:"reminder_interval"`
	ReminderWindow   time.Duration `yaml:"reminder_window"`
	PublishTimeout   time.Duration `yaml:"publish_timeout"`
}

func Load() (*Config, error) {
	return LoadFile(getConfigPath())
}

// LoadFile reads the config at path. A missing file is not an error: the
// service can be configured from the environment alone.
func LoadFile(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path) //nolint:gosec // config path from env/flag
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	setDefaults(&cfg)
	overrideFromEnv(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func getConfigPath() string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}

	possiblePaths := []string{
		"config/config.yaml",
		"/etc/grading-service/config.yaml",
		"./config.yaml",
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return "config.yaml"
}

func setDefaults(cfg *Config) {
	if cfg.HTTP.Address == "" {
		cfg.HTTP.Address = ":8080"
	}
	if cfg.HTTP.MaxBodyBytes == 0 {
		cfg.HTTP.MaxBodyBytes = 32 << 20
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 30 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 10 * time.Minute
	}

	if cfg.DB.Port == 0 {
		cfg.DB.Port = 5432
	}
	if cfg.DB.SSLMode == "" {
		cfg.DB.SSLMode = "disable"
	}
	if cfg.DB.MaxConns == 0 {
		cfg.DB.MaxConns = 10
	}
	if cfg.DB.MigrationsPath == "" {
		cfg.DB.MigrationsPath = "file://migrations"
	}

	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = StorageLocal
	}
	if cfg.Storage.UploadDir == "" {
		cfg.Storage.UploadDir = "uploads"
	}
	if cfg.Storage.S3.Region == "" {
		cfg.Storage.S3.Region = "us-east-1"
	}

	if cfg.Grader.Model == "" {
		cfg.Grader.Model = "gpt-4o-mini"
	}
	if cfg.Grader.Timeout == 0 {
		cfg.Grader.Timeout = 60 * time.Second
	}
	if cfg.Grader.MaxChars == 0 {
		cfg.Grader.MaxChars = 12000
	}
	if cfg.Grader.Retries == 0 {
		cfg.Grader.Retries = 2
	}
	if cfg.Grader.RetryDelay == 0 {
		cfg.Grader.RetryDelay = 500 * time.Millisecond
	}

	if cfg.Identity.Timeout == 0 {
		cfg.Identity.Timeout = 10 * time.Second
	}
	if cfg.Identity.CacheTTL == 0 {
		cfg.Identity.CacheTTL = 5 * time.Minute
	}

	if cfg.Kafka.EventsTopic == "" {
		cfg.Kafka.EventsTopic = "submission-events"
	}
	if cfg.Kafka.RemindersTopic == "" {
		cfg.Kafka.RemindersTopic = "assignment-reminders"
	}
	if cfg.Kafka.ReminderInterval == 0 {
		cfg.Kafka.ReminderInterval = time.Hour
	}
	if cfg.Kafka.ReminderWindow == 0 {
		cfg.Kafka.ReminderWindow = 24 * time.Hour
	}
	if cfg.Kafka.PublishTimeout == 0 {
		cfg.Kafka.PublishTimeout = 2 * time.Second
	}
}

func overrideFromEnv(cfg *Config) {
	if val := os.Getenv("HTTP_ADDRESS"); val != "" {
		cfg.HTTP.Address = val
	}
	if val := os.Getenv("HTTP_MAX_BODY_BYTES"); val != "" {
		if size, err := strconv.ParseInt(val, 10, 64); err == nil {
			cfg.HTTP.MaxBodyBytes = size
		}
	}

	if val := os.Getenv("DB_HOST"); val != "" {
		cfg.DB.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		if port, err := strconv.Atoi(val); err == nil {
			cfg.DB.Port = port
		}
	}
	if val := os.Getenv("DB_USER"); val != "" {
		cfg.DB.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		cfg.DB.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		cfg.DB.DBName = val
	}
	if val := os.Getenv("DB_SSL_MODE"); val != "" {
		cfg.DB.SSLMode = val
	}

	if val := os.Getenv("STORAGE_BACKEND"); val != "" {
		cfg.Storage.Backend = val
	}
	if val := os.Getenv("UPLOAD_FOLDER"); val != "" {
		cfg.Storage.UploadDir = val
	}
	if val := os.Getenv("S3_BUCKET"); val != "" {
		cfg.Storage.S3.Bucket = val
	}
	if val := os.Getenv("S3_ENDPOINT"); val != "" {
		cfg.Storage.S3.Endpoint = val
	}
	if val := os.Getenv("S3_REGION"); val != "" {
		cfg.Storage.S3.Region = val
	}
	if val := os.Getenv("S3_ACCESS_KEY_ID"); val != "" {
		cfg.Storage.S3.AccessKeyID = val
	}
	if val := os.Getenv("S3_SECRET_ACCESS_KEY"); val != "" {
		cfg.Storage.S3.SecretAccessKey = val
	}

	if val := os.Getenv("OPENAI_API_KEY"); val != "" {
		cfg.Grader.APIKey = val
	}
	if val := os.Getenv("OPENAI_MODEL"); val != "" {
		cfg.Grader.Model = val
	}
	if val := os.Getenv("OPENAI_BASE_URL"); val != "" {
		cfg.Grader.BaseURL = val
	}
	if val := os.Getenv("GRADER_TIMEOUT"); val != "" {
		if timeout, err := strconv.Atoi(val); err == nil {
			cfg.Grader.Timeout = time.Duration(timeout) * time.Second
		}
	}

	if val := os.Getenv("NETLIFY_ISSUER"); val != "" {
		cfg.Identity.Issuer = val
	}

	if val := os.Getenv("REDIS_ADDRESS"); val != "" {
		cfg.Redis.Address = val
	}
	if val := os.Getenv("REDIS_PASSWORD"); val != "" {
		cfg.Redis.Password = val
	}

	if val := os.Getenv("KAFKA_BROKERS"); val != "" {
		cfg.Kafka.Brokers = strings.Split(val, ",")
	}
	if val := os.Getenv("KAFKA_EVENTS_TOPIC"); val != "" {
		cfg.Kafka.EventsTopic = val
	}
	if val := os.Getenv("KAFKA_REMINDERS_TOPIC"); val != "" {
		cfg.Kafka.RemindersTopic = val
	}
}

func validateConfig(cfg *Config) error {
	if cfg.DB.Host == "" || cfg.DB.User == "" || cfg.DB.DBName == "" {
		return fmt.Errorf("database configuration is incomplete")
	}

	switch cfg.Storage.Backend {
	case StorageLocal:
	case StorageS3:
		if cfg.Storage.S3.Bucket == "" {
			return fmt.Errorf("s3 bucket must be specified")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}

	if cfg.HTTP.MaxBodyBytes < 0 {
		return fmt.Errorf("http max body size must be positive")
	}
	if cfg.Grader.MaxChars < 0 {
		return fmt.Errorf("grader max chars must be positive")
	}

	return nil
}

func (c *Config) GetDBConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DB.Host,
		c.DB.Port,
		c.DB.User,
		c.DB.Password,
		c.DB.DBName,
		c.DB.SSLMode,
	)
}

