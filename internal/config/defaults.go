package config

import (
	"path/filepath"

	"github.com/spf13/viper"
)

// setDefaults sets default values for every configuration key.
func setDefaults(v *viper.Viper, dataDir string) {
	v.SetDefault("camera.device", 0)
	v.SetDefault("camera.width", 640)
	v.SetDefault("camera.height", 480)
	v.SetDefault("camera.fps", 30)

	v.SetDefault("detector.staticmode", false)
	v.SetDefault("detector.maxhands", 2)
	v.SetDefault("detector.detectionconfidence", 0.75)
	v.SetDefault("detector.trackingconfidence", 0.5)
	v.SetDefault("detector.draw", true)

	v.SetDefault("display.enabled", true)
	v.SetDefault("display.window", "Hand Gesture Detection")
	v.SetDefault("display.quitkey", "q")

	v.SetDefault("action.mode", "level")

	v.SetDefault("keyboard.backend", "robotgo")
	v.SetDefault("keyboard.plugin", "keyboard")
	v.SetDefault("keyboard.timeout", "2s")

	v.SetDefault("plugins.dir", filepath.Join(dataDir, "plugins"))

	v.SetDefault("store.path", filepath.Join(dataDir, "mudra.db"))

	v.SetDefault("server.enabled", true)
	v.SetDefault("server.listen", ":8080")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.path", filepath.Join(dataDir, "logs", "mudra.log"))
	v.SetDefault("log.maxsize", 10)
	v.SetDefault("log.maxbackups", 3)
	v.SetDefault("log.maxage", 28)
}
