package store

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/haras/pkg/types"
)

func TestOpen(t *testing.T) {
	tests := []struct {
		backend  string
		wantFile string
	}{
		{types.BackendSQLite, "haras.db"},
		{types.BackendJSONL, "horses.jsonl"},
	}
	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			dir := t.TempDir()
			s, err := Open(types.Config{Backend: tt.backend, DataDir: dir})
			require.NoError(t, err)
			defer s.Detach()

			_, err = os.Stat(filepath.Join(dir, tt.wantFile))
			require.NoError(t, err)

			h := types.Horse{ID: "a", Name: "A", BirthDate: types.NewDate(2020, time.January, 1), Gender: types.GenderMale}
			require.NoError(t, s.Insert(h))
			got, err := s.ListAll()
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, "A", got[0].Name)
		})
	}
}

func TestOpen_InvalidConfig(t *testing.T) {
	_, err := Open(types.Config{Backend: "postgres"})
	assert.True(t, errors.Is(err, types.ErrBackendUnknown))
}

func TestNew(t *testing.T) {
	s, err := New(types.BackendJSONL)
	require.NoError(t, err)
	_, err = s.ListAll()
	assert.Equal(t, types.ErrStoreDetached, err, "New does not attach")

	_, err = New("")
	assert.Equal(t, types.ErrBackendEmpty, err)
	_, err = New("redis")
	assert.True(t, errors.Is(err, types.ErrBackendUnknown))
}

func TestNew_JSONLReportsSkippedLines(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "horses.jsonl"), []byte("not json\n"), 0o644))

	var logs bytes.Buffer
	s, err := New(types.BackendJSONL, WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))
	require.NoError(t, err)
	require.NoError(t, s.Attach(types.Config{Backend: types.BackendJSONL, DataDir: dir}))
	defer s.Detach()

	assert.Contains(t, logs.String(), "skipping horse document")
}
