package config

import "sync"

// RuntimeSettings holds values that can change while the loop is running.
type RuntimeSettings struct {
	mu       sync.RWMutex
	fpsLimit int // 0 means uncapped
}

var globalRuntimeSettings = &RuntimeSettings{
	fpsLimit: 60,
}

// GetFPSLimit returns the current frame cap, 0 when uncapped.
func GetFPSLimit() int {
	globalRuntimeSettings.mu.RLock()
	defer globalRuntimeSettings.mu.RUnlock()
	return globalRuntimeSettings.fpsLimit
}

// SetFPSLimit sets the frame cap. Negative values disable the cap,
// positive values are clamped to [15, 500].
func SetFPSLimit(limit int) {
	globalRuntimeSettings.mu.Lock()
	defer globalRuntimeSettings.mu.Unlock()

	if limit <= 0 {
		globalRuntimeSettings.fpsLimit = 0
		return
	}
	if limit < 15 {
		limit = 15
	}
	if limit > 500 {
		limit = 500
	}
	globalRuntimeSettings.fpsLimit = limit
}
