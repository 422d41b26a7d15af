package logger

import (
	"errors"
	"net"
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"umazing_chat_server/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInitWritesToRotatedFile(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.LogConfig{LogPath: dir, Level: "debug"}

	require.NoError(t, Init(cfg, "release"))
	assert.Equal(t, filepath.Join(dir, "app.log"), cfg.FileName)

	zap.L().Info("hello from test")
	_ = zap.L().Sync()

	data, err := os.ReadFile(cfg.FileName)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello from test")
}

func TestInitRejectsBadLevel(t *testing.T) {
	cfg := &config.LogConfig{LogPath: t.TempDir(), Level: "loud"}
	assert.Error(t, Init(cfg, "release"))
}

func TestRedactQuery(t *testing.T) {
	dump := "GET /wss?token=secret HTTP/1.1\r\nHost: localhost\r\n\r\n"
	got := redactQuery(dump)
	assert.NotContains(t, got, "secret")
	assert.Contains(t, got, "GET /wss HTTP/1.1")
	assert.Contains(t, got, "Host: localhost")
}

func TestIsBrokenPipeError(t *testing.T) {
	err := &net.OpError{Op: "write", Err: os.NewSyscallError("write", syscall.EPIPE)}
	assert.True(t, isBrokenPipeError(err))
	assert.False(t, isBrokenPipeError(errors.New("other")))
	assert.False(t, isBrokenPipeError(nil))
}
