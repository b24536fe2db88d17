package conf

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsValidate(t *testing.T) {
	settings, err := Load()
	require.NoError(t, err)
	require.NotNil(t, settings)

	assert.Equal(t, 5*time.Second, settings.Pipeline.ReadyTimeout)
	assert.Equal(t, 10*time.Millisecond, settings.Pipeline.GraceDelay)
	assert.Equal(t, 64, settings.Pipeline.DefaultQueueSize)
	assert.Equal(t, RotationDaily, settings.Log.Rotation)
	assert.False(t, settings.Telemetry.Enabled)
}

func TestValidateSettings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr bool
	}{
		{"valid", func(s *Settings) {}, false},
		{"zero_ready_timeout", func(s *Settings) { s.Pipeline.ReadyTimeout = 0 }, true},
		{"negative_grace_delay", func(s *Settings) { s.Pipeline.GraceDelay = -time.Millisecond }, true},
		{"zero_queue_size", func(s *Settings) { s.Pipeline.DefaultQueueSize = 0 }, true},
		{"bad_rotation", func(s *Settings) { s.Log.Rotation = "hourly" }, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			settings := &Settings{
				Log: LogConfig{Rotation: RotationDaily},
				Pipeline: PipelineConfig{
					ReadyTimeout:     5 * time.Second,
					GraceDelay:       10 * time.Millisecond,
					DefaultQueueSize: 64,
				},
			}
			tt.mutate(settings)
			err := ValidateSettings(settings)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSaveDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, SaveDefaultConfig(path))
	assert.FileExists(t, path)
}
