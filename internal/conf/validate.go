package conf

import "fmt"

// ValidateSettings checks the loaded settings for values the engine
// cannot operate with.
func ValidateSettings(settings *Settings) error {
	if settings.Pipeline.ReadyTimeout <= 0 {
		return fmt.Errorf("pipeline.readytimeout must be positive, got %v", settings.Pipeline.ReadyTimeout)
	}
	if settings.Pipeline.GraceDelay < 0 {
		return fmt.Errorf("pipeline.gracedelay must not be negative, got %v", settings.Pipeline.GraceDelay)
	}
	if settings.Pipeline.DefaultQueueSize < 1 {
		return fmt.Errorf("pipeline.defaultqueuesize must be at least 1, got %d", settings.Pipeline.DefaultQueueSize)
	}
	switch settings.Log.Rotation {
	case RotationDaily, RotationWeekly, RotationSize:
	default:
		return fmt.Errorf("unknown log rotation type: %q", settings.Log.Rotation)
	}
	return nil
}
