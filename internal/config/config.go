// Package config loads mudra settings from defaults, config.yaml, the
// environment and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/ayusman/mudra/internal/action"
)

// EnvPrefix prefixes environment overrides, e.g. MUDRA_CAMERA_DEVICE.
const EnvPrefix = "MUDRA"

// Settings is the complete application configuration.
type Settings struct {
	Camera struct {
		Device int // capture device index
		Width  int // requested frame width
		Height int // requested frame height
		FPS    int
	}

	Detector struct {
		StaticMode          bool
		MaxHands            int
		DetectionConfidence float64
		TrackingConfidence  float64
		Draw                bool // overlay landmarks on shown frames
	}

	Display struct {
		Enabled bool
		Window  string
		QuitKey string
	}

	Action struct {
		Mode string // level or edge
	}

	Keyboard struct {
		Backend string // robotgo, plugin or none
		Plugin  string
		Timeout time.Duration
	}

	Plugins struct {
		Dir string
	}

	Store struct {
		Path string
	}

	Server struct {
		Enabled bool
		Listen  string
	}

	Log struct {
		Level      string
		Path       string
		MaxSize    int // megabytes
		MaxBackups int
		MaxAge     int // days
	}
}

// DataDir returns ~/.mudra, or .mudra when the home directory is unknown.
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".mudra"
	}
	return filepath.Join(home, ".mudra")
}

// New returns a viper instance with defaults, config search paths and
// environment overrides configured.
func New() *viper.Viper {
	v := viper.New()
	dataDir := DataDir()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath(dataDir)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v, dataDir)
	return v
}

// Load reads the configuration into Settings. An explicit configFile must
// exist; otherwise a missing config.yaml is not an error.
func Load(v *viper.Viper, configFile string) (*Settings, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	settings := &Settings{}
	if err := v.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("error unmarshaling config into struct: %w", err)
	}

	if err := Validate(settings); err != nil {
		return nil, fmt.Errorf("error validating settings: %w", err)
	}

	return settings, nil
}

// Validate checks value ranges and enumerations.
func Validate(s *Settings) error {
	var errs []error

	if s.Camera.Width <= 0 || s.Camera.Height <= 0 {
		errs = append(errs, fmt.Errorf("camera resolution must be positive, got %dx%d", s.Camera.Width, s.Camera.Height))
	}
	if s.Camera.FPS <= 0 {
		errs = append(errs, fmt.Errorf("camera.fps must be positive, got %d", s.Camera.FPS))
	}
	if s.Detector.MaxHands < 1 {
		errs = append(errs, fmt.Errorf("detector.maxhands must be at least 1, got %d", s.Detector.MaxHands))
	}
	if c := s.Detector.DetectionConfidence; c <= 0 || c > 1 {
		errs = append(errs, fmt.Errorf("detector.detectionconfidence must be in (0,1], got %v", c))
	}
	if c := s.Detector.TrackingConfidence; c <= 0 || c > 1 {
		errs = append(errs, fmt.Errorf("detector.trackingconfidence must be in (0,1], got %v", c))
	}
	if len(s.Display.QuitKey) != 1 {
		errs = append(errs, fmt.Errorf("display.quitkey must be a single character, got %q", s.Display.QuitKey))
	}
	if _, err := action.ParseMode(s.Action.Mode); err != nil {
		errs = append(errs, err)
	}
	switch strings.ToLower(s.Keyboard.Backend) {
	case "robotgo", "plugin", "none":
	default:
		errs = append(errs, fmt.Errorf("unknown keyboard.backend %q", s.Keyboard.Backend))
	}
	if s.Server.Enabled && s.Server.Listen == "" {
		errs = append(errs, errors.New("server.listen is required when the server is enabled"))
	}

	return errors.Join(errs...)
}
