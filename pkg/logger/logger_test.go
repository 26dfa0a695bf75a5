package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"syscall"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// resetGlobals lets a test run Setup again and restores the previous state.
func resetGlobals(t *testing.T) {
	t.Helper()
	origZap, origLogr := zapBase, global
	once = sync.Once{}
	zapBase, global = nil, nil
	t.Cleanup(func() {
		once = sync.Once{}
		if origLogr != nil {
			once.Do(func() {})
		}
		zapBase, global = origZap, origLogr
	})
}

func TestSetupWritesJSONToOutput(t *testing.T) {
	resetGlobals(t)
	var buf bytes.Buffer
	lgr := Setup(Options{Level: 0, Output: &buf})
	require.NotNil(t, lgr)

	WithValues(lgr, SessionKey, "abc").Info("catalog loaded", "types", 3)
	Sync()

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "catalog loaded", entry[MessageKey])
	assert.Equal(t, "abc", entry[SessionKey])
	assert.EqualValues(t, 3, entry["types"])
	assert.Contains(t, entry, TimeStampKey)
	assert.Contains(t, entry, VersionKey)
}

func TestSetupHonoursLevel(t *testing.T) {
	resetGlobals(t)
	var buf bytes.Buffer
	lgr := Setup(Options{Level: 0, Output: &buf})
	lgr.V(1).Info("hidden")
	assert.Empty(t, buf.String())

	resetGlobals(t)
	buf.Reset()
	lgr = Setup(Options{Level: -1, Output: &buf})
	lgr.V(1).Info("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestSetupOnlyOnce(t *testing.T) {
	resetGlobals(t)
	var first, second bytes.Buffer
	l1 := Setup(Options{Output: &first})
	l2 := Setup(Options{Output: &second})
	assert.Same(t, l1, l2)
	l2.Info("to first")
	assert.NotEmpty(t, first.String())
	assert.Empty(t, second.String())
}

func TestSetupConsoleFormat(t *testing.T) {
	resetGlobals(t)
	var buf bytes.Buffer
	Setup(Options{Format: FormatConsole, Output: &buf}).Info("reloaded", CatalogKey, "demo")
	Sync()

	line := buf.String()
	assert.Contains(t, line, "INFO")
	assert.Contains(t, line, "reloaded")
	assert.Contains(t, line, `"catalog": "demo"`)
	assert.False(t, json.Valid(buf.Bytes()), "console lines are not JSON")
}

func TestValidFormat(t *testing.T) {
	for _, f := range []string{"", FormatJSON, FormatConsole} {
		assert.True(t, ValidFormat(f), f)
	}
	assert.False(t, ValidFormat("logfmt"))
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tabc.log")
	f, err := OpenFile(path)
	require.NoError(t, err)
	_, err = f.WriteString("line\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	f, err = OpenFile(path)
	require.NoError(t, err)
	_, err = f.WriteString("again\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "line\nagain\n", string(data), "opened for append")

	_, err = OpenFile(filepath.Join(t.TempDir(), "missing", "tabc.log"))
	assert.Error(t, err)
}

func TestContextPropagation(t *testing.T) {
	resetGlobals(t)
	assert.Same(t, GetNoopLogger(), FromContext(context.Background()), "no global logger yet")

	lgr := Setup(Options{Output: &bytes.Buffer{}})
	assert.Same(t, lgr, FromContext(context.Background()))

	other := logr.Discard()
	ctx := WithLogger(context.Background(), &other)
	assert.Same(t, &other, FromContext(ctx))
	assert.Equal(t, ctx, WithLogger(ctx, &other), "same logger keeps the context")
	assert.Same(t, lgr, FromContext(WithLogger(ctx, lgr)))
}

func TestWithValues(t *testing.T) {
	base := GetNoopLogger()
	got := WithValues(base, BackendKey, "expr")
	require.NotNil(t, got)
	assert.NotSame(t, base, got)
	assert.Panics(t, func() { _ = WithValues(nil, "k", "v") })
}

func TestSyncWithoutLogger(t *testing.T) {
	resetGlobals(t)
	assert.NotPanics(t, Sync)

	zapBase = zap.NewNop()
	assert.NotPanics(t, Sync)
}

func TestIsIgnorableSyncError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"enotty", syscall.ENOTTY, true},
		{"einval_wrapped", &os.PathError{Op: "sync", Path: "/dev/stderr", Err: syscall.EINVAL}, true},
		{"windows_handle", errors.New("sync /dev/stderr: The handle is invalid."), true},
		{"other", errors.New("disk full"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isIgnorableSyncError(tt.err))
		})
	}
}
