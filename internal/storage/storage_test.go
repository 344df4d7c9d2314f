package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grading_service/internal/storage"
)

func TestSafeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Essay1 - John Smith.txt", "Essay1_-_John_Smith.txt"},
		{"../../etc/passwd", "etc_passwd"},
		{`C:\Users\x\report.pdf`, "C_Users_x_report.pdf"},
		{"Résumé final.docx", "Resume_final.docx"},
		{"  spaced   out  .txt", "spaced_out_.txt"},
		{"what?*<>|.pdf", "what.pdf"},
		{".hidden.txt", "hidden.txt"},
		{"CON.txt", "_CON.txt"},
		{"日本語", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, storage.SafeName(tt.in))
		})
	}
}

func TestLocal(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "uploads")

	s, err := storage.NewLocal(dir)
	require.NoError(t, err)

	t.Run("save and read", func(t *testing.T) {
		loc, err := s.Save(ctx, "essay.txt", []byte("Hello world"))
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "essay.txt"), loc)

		data, err := s.Read(ctx, loc)
		require.NoError(t, err)
		assert.Equal(t, "Hello world", string(data))
	})

	t.Run("same name overwrites", func(t *testing.T) {
		first, err := s.Save(ctx, "dup.txt", []byte("first"))
		require.NoError(t, err)
		second, err := s.Save(ctx, "dup.txt", []byte("second"))
		require.NoError(t, err)
		assert.Equal(t, first, second)

		data, err := s.Read(ctx, second)
		require.NoError(t, err)
		assert.Equal(t, "second", string(data))
	})

	t.Run("rejects escaping paths", func(t *testing.T) {
		_, err := s.Save(ctx, "../outside.txt", []byte("x"))
		assert.ErrorIs(t, err, storage.ErrInvalidPath)

		_, err = s.Read(ctx, "/etc/passwd")
		assert.ErrorIs(t, err, storage.ErrInvalidPath)
	})

	t.Run("delete", func(t *testing.T) {
		loc, err := s.Save(ctx, "gone.txt", []byte("x"))
		require.NoError(t, err)
		require.NoError(t, s.Delete(ctx, loc))

		_, err = os.Stat(loc)
		assert.True(t, os.IsNotExist(err))
		assert.NoError(t, s.Delete(ctx, loc))
	})
}
