// conf/defaults.go default values for settings
package conf

import (
	"time"

	"github.com/spf13/viper"
)

// Sets default values for the configuration.
func setDefaultConfig() {
	viper.SetDefault("debug", false)
	viper.SetDefault("name", "mediaflow")

	viper.SetDefault("log.enabled", true)
	viper.SetDefault("log.path", "mediaflow.log")
	viper.SetDefault("log.rotation", RotationDaily)
	viper.SetDefault("log.maxsize", 1048576)
	viper.SetDefault("log.rotationday", time.Sunday.String())

	viper.SetDefault("pipeline.readytimeout", 5*time.Second)
	viper.SetDefault("pipeline.gracedelay", 10*time.Millisecond)
	viper.SetDefault("pipeline.defaultqueuesize", 64)

	viper.SetDefault("telemetry.enabled", false)
	viper.SetDefault("telemetry.listen", "0.0.0.0:8090")
}
