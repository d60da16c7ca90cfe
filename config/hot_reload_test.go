package config_test

import (
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nanoex-go/config"
)

func TestHotReloaderInvokesHandlerOnWrite(t *testing.T) {
	path := writeTemp(t, "logLevel: info\n")

	hr, err := config.NewHotReloader(path, config.HotReloadConfig{Enabled: true, CooldownTime: 0})
	require.NoError(t, err)

	var mu sync.Mutex
	var got config.AppConfig
	seen := make(chan struct{}, 1)
	hr.SetHandler(func(cfg config.AppConfig) {
		mu.Lock()
		got = cfg
		mu.Unlock()
		select {
		case seen <- struct{}{}:
		default:
		}
	})

	require.NoError(t, hr.Start())
	defer hr.Stop()

	require.NoError(t, os.WriteFile(path, []byte("logLevel: debug\n"), 0o644))

	select {
	case <-seen:
	case <-time.After(2 * time.Second):
		t.Fatal("handler was not invoked after config file write")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "debug", got.LogLevel)
}

func TestHotReloaderDisabledNeverWatches(t *testing.T) {
	path := writeTemp(t, "logLevel: info\n")
	hr, err := config.NewHotReloader(path, config.HotReloadConfig{Enabled: false})
	require.NoError(t, err)
	require.NoError(t, hr.Start())
	require.NoError(t, hr.Stop())
}
