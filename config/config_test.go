package configs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFile_Defaults(t *testing.T) {
	path := writeConfig(t, `
db:
  host: localhost
  user: grader
  dbname: grading
`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Address)
	assert.Equal(t, int64(32<<20), cfg.HTTP.MaxBodyBytes)
	assert.Equal(t, 5432, cfg.DB.Port)
	assert.Equal(t, StorageLocal, cfg.Storage.Backend)
	assert.Equal(t, "uploads", cfg.Storage.UploadDir)
	assert.Equal(t, "gpt-4o-mini", cfg.Grader.Model)
	assert.Equal(t, 60*time.Second, cfg.Grader.Timeout)
	assert.Equal(t, 12000, cfg.Grader.MaxChars)
	assert.Equal(t, "assignment-reminders", cfg.Kafka.RemindersTopic)
	assert.Equal(t, 2*time.Second, cfg.Kafka.PublishTimeout)
	assert.Empty(t, cfg.Grader.APIKey)
	assert.Empty(t, cfg.Kafka.Brokers)
}

func TestLoadFile_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `
db:
  host: localhost
  user: grader
  dbname: grading
grader:
  model: gpt-4o
`)
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OPENAI_MODEL", "gpt-4.1-mini")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("NETLIFY_ISSUER", "https://example.netlify.app/.netlify/identity")
	t.Setenv("GRADER_TIMEOUT", "5")

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "sk-test", cfg.Grader.APIKey)
	assert.Equal(t, "gpt-4.1-mini", cfg.Grader.Model)
	assert.Equal(t, 6543, cfg.DB.Port)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "https://example.netlify.app/.netlify/identity", cfg.Identity.Issuer)
	assert.Equal(t, 5*time.Second, cfg.Grader.Timeout)
}

func TestLoadFile_MissingFileUsesEnv(t *testing.T) {
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_USER", "grader")
	t.Setenv("DB_NAME", "grading")

	cfg, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "db", cfg.DB.Host)
}

func TestLoadFile_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "incomplete database",
			body: "db:\n  host: localhost\n",
		},
		{
			name: "s3 without bucket",
			body: "db:\n  host: h\n  user: u\n  dbname: d\nstorage:\n  backend: s3\n",
		},
		{
			name: "unknown backend",
			body: "db:\n  host: h\n  user: u\n  dbname: d\nstorage:\n  backend: ftp\n",
		},
		{
			name: "malformed yaml",
			body: "db: [",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFile(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestGetDBConnectionString(t *testing.T) {
	cfg := &Config{DB: DBConfig{Host: "h", Port: 5432, User: "u", Password: "p", DBName: "d", SSLMode: "disable"}}
	assert.Equal(t, "host=h port=5432 user=u password=p dbname=d sslmode=disable", cfg.GetDBConnectionString())
}
