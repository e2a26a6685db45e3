package configwatcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"mock_interview_backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const configBody = `
auth:
  jwt_secret: test-secret
ai:
  api_key: test-key
quota:
  max_requests: %d
`

func writeConfig(t *testing.T, file string, maxRequests int) {
	t.Helper()
	require.NoError(t, os.WriteFile(file, []byte(fmt.Sprintf(configBody, maxRequests)), 0o644))
}

func TestWatchConfigReloadsOnWrite(t *testing.T) {
	testChdir(t, t.TempDir())
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	writeConfig(t, file, 10)

	reloaded := make(chan *config.Config, 1)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- WatchConfig(ctx, file, func(cfg *config.Config) {
			select {
			case reloaded <- cfg:
			default:
			}
		})
	}()

	// 等待 watcher 完成注册
	time.Sleep(200 * time.Millisecond)
	writeConfig(t, file, 42)

	select {
	case cfg := <-reloaded:
		assert.Equal(t, 42, cfg.Quota.MaxRequests)
	case <-time.After(5 * time.Second):
		t.Fatal("config was not reloaded")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop after cancel")
	}
}

func TestWatchConfigMissingDirectory(t *testing.T) {
	err := WatchConfig(context.Background(), filepath.Join(t.TempDir(), "missing", "config.yaml"), func(*config.Config) {})
	assert.Error(t, err)
}

// testChdir 切换工作目录，并在测试结束时恢复（Go 1.21 没有 t.Chdir）。
func testChdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}
