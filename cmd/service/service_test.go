package main

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	configs "grading_service/config"
	"grading_service/internal/storage"
	"grading_service/pkg/logger"
)

type countingSender struct {
	calls atomic.Int32
	err   error
}

func (s *countingSender) SendDueReminders(context.Context) (int, error) {
	s.calls.Add(1)
	return 1, s.err
}

func TestReminderWorker(t *testing.T) {
	for _, sendErr := range []error{nil, errors.New("db down")} {
		sender := &countingSender{err: sendErr}
		worker := NewReminderWorker(sender, 5*time.Millisecond, logger.NewNop())

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			worker.Start(ctx)
			close(done)
		}()

		assert.Eventually(t, func() bool { return sender.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
		cancel()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("worker did not stop")
		}
	}
}

func TestNewReminderWorkerDefaultInterval(t *testing.T) {
	worker := NewReminderWorker(&countingSender{}, 0, logger.NewNop())
	assert.Equal(t, time.Hour, worker.interval)
}

func TestGraderConfig(t *testing.T) {
	cfg := graderConfig(configs.GraderConfig{
		APIKey:     "sk-test",
		Model:      "gpt-4o-mini",
		Timeout:    time.Minute,
		MaxChars:   12000,
		Retries:    2,
		RetryDelay: 500 * time.Millisecond,
	})

	assert.Equal(t, "sk-test", cfg.APIKey)
	assert.Equal(t, 3, cfg.MaxAttempts)
	assert.Equal(t, 12000, cfg.MaxChars)
}

func TestNewStorageLocal(t *testing.T) {
	dir := t.TempDir()

	files, err := newStorage(context.Background(), configs.StorageConfig{
		Backend:   configs.StorageLocal,
		UploadDir: dir,
	})
	require.NoError(t, err)
	assert.IsType(t, &storage.Local{}, files)
}

func TestNewAuthorizer(t *testing.T) {
	cfg := &configs.Config{}
	assert.Nil(t, newAuthorizer(cfg, logger.NewNop()))

	cfg.Identity.Issuer = "https://example.netlify.app/.netlify/identity"
	cfg.Identity.Timeout = time.Second
	cfg.Identity.CacheTTL = time.Minute
	assert.NotNil(t, newAuthorizer(cfg, logger.NewNop()))
}

func TestDBConfig(t *testing.T) {
	cfg := &configs.Config{DB: configs.DBConfig{
		Host:           "localhost",
		Port:           5432,
		User:           "grader",
		DBName:         "grading",
		SSLMode:        "disable",
		MaxConns:       10,
		MigrationsPath: "file://migrations",
	}}

	got := dbConfig(cfg)
	assert.Equal(t, "localhost", got.Host)
	assert.Equal(t, int32(10), got.MaxConns)
	assert.Equal(t, "file://migrations", got.MigrationsPath)
}
