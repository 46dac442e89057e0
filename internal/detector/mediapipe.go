package detector

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/hand"
)

const (
	serviceScript = "mediapipe_service.py"
	idleTimeout   = 30 * time.Second
)

// ErrServiceNotFound is returned when the MediaPipe service script cannot be located.
var ErrServiceNotFound = errors.New(serviceScript + " not found")

// MediaPipeDetector implements Provider using a Python MediaPipe subprocess.
// Frames are sent as length-prefixed JPEG and hands come back as one JSON
// line per frame with coordinates normalized to [0,1].
type MediaPipeDetector struct {
	config Config
	script string
	python string
	logger *slog.Logger

	cmd       *exec.Cmd
	stdin     io.WriteCloser
	stdout    *bufio.Reader
	mu        sync.Mutex
	started   bool
	idleTimer *time.Timer
}

// NewMediaPipeDetector creates a new MediaPipe detector.
// The Python process is started lazily on first detection.
func NewMediaPipeDetector(config Config, logger *slog.Logger) (*MediaPipeDetector, error) {
	script := findMediaPipeScript()
	if script == "" {
		return nil, ErrServiceNotFound
	}
	if logger == nil {
		logger = slog.Default()
	}

	python := findVenvPython()
	if python == "" {
		python = "python3"
	}

	return &MediaPipeDetector{
		config: config.withDefaults(),
		script: script,
		python: python,
		logger: logger,
	}, nil
}

// Detect analyzes a frame and returns the hands found, scaled to the frame's pixel grid.
func (d *MediaPipeDetector) Detect(frame *gocv.Mat) ([]hand.Observation, error) {
	if frame == nil || frame.Empty() {
		return nil, nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.ensureStarted(); err != nil {
		return nil, err
	}

	buf, err := gocv.IMEncode(".jpg", *frame)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	data := buf.GetBytes()

	length := make([]byte, 4)
	binary.BigEndian.PutUint32(length, uint32(len(data)))

	if _, err := d.stdin.Write(length); err != nil {
		return nil, d.restartAfter(fmt.Errorf("write length: %w", err))
	}
	if _, err := d.stdin.Write(data); err != nil {
		return nil, d.restartAfter(fmt.Errorf("write data: %w", err))
	}

	line, err := d.stdout.ReadString('\n')
	if err != nil {
		return nil, d.restartAfter(fmt.Errorf("read response: %w", err))
	}

	hands, err := parseResponse([]byte(line), frame.Cols(), frame.Rows(), d.logger)
	if err != nil {
		return nil, err
	}

	d.resetIdleTimer()
	return hands, nil
}

// Close shuts down the Python process.
func (d *MediaPipeDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.shutdown()
}

func (d *MediaPipeDetector) args() []string {
	return []string{
		d.script,
		"--max-hands", strconv.Itoa(d.config.MaxHands),
		"--detection-confidence", strconv.FormatFloat(d.config.MinDetectionConfidence, 'f', -1, 64),
		"--tracking-confidence", strconv.FormatFloat(d.config.MinTrackingConfidence, 'f', -1, 64),
		"--static-mode=" + strconv.FormatBool(d.config.StaticMode),
	}
}

func (d *MediaPipeDetector) ensureStarted() error {
	if d.started {
		return nil
	}

	d.cmd = exec.Command(d.python, d.args()...)

	stdin, err := d.cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("create stdin pipe: %w", err)
	}

	stdout, err := d.cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("create stdout pipe: %w", err)
	}

	d.cmd.Stderr = os.Stderr

	if err := d.cmd.Start(); err != nil {
		return fmt.Errorf("start mediapipe service: %w", err)
	}

	d.stdin = stdin
	d.stdout = bufio.NewReader(stdout)
	d.started = true
	d.logger.Info("mediapipe service started", "python", d.python, "script", d.script)

	return nil
}

func (d *MediaPipeDetector) shutdown() error {
	if !d.started {
		return nil
	}

	if d.idleTimer != nil {
		d.idleTimer.Stop()
		d.idleTimer = nil
	}

	if d.stdin != nil {
		d.stdin.Close()
	}

	err := d.cmd.Wait()
	d.started = false
	d.cmd = nil
	d.stdin = nil
	d.stdout = nil

	return err
}

// restartAfter tears down a service whose pipes failed so the next Detect
// starts a fresh one. It returns err.
func (d *MediaPipeDetector) restartAfter(err error) error {
	if werr := d.shutdown(); werr != nil {
		d.logger.Warn("mediapipe service exited", "error", werr)
	}
	return err
}

func (d *MediaPipeDetector) resetIdleTimer() {
	if d.idleTimer != nil {
		d.idleTimer.Stop()
	}
	d.idleTimer = time.AfterFunc(idleTimeout, func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		if err := d.shutdown(); err != nil {
			d.logger.Debug("mediapipe service exited", "error", err)
		}
	})
}

func searchDirs() []string {
	var dirs []string
	if execPath, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Dir(execPath))
	}
	dirs = append(dirs, ".", "..")
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".mudra"))
	}
	return dirs
}

func firstExisting(rel string) string {
	for _, dir := range searchDirs() {
		path := filepath.Join(dir, rel)
		if _, err := os.Stat(path); err == nil {
			if abs, err := filepath.Abs(path); err == nil {
				return abs
			}
			return path
		}
	}
	return ""
}

func findMediaPipeScript() string {
	return firstExisting(filepath.Join("scripts", serviceScript))
}

// findVenvPython looks for a Python interpreter in a virtual environment
// next to the binary, the working directory, or ~/.mudra.
func findVenvPython() string {
	return firstExisting(filepath.Join("venv", "bin", "python"))
}

// jsonHand represents the JSON structure from the Python service.
type jsonHand struct {
	Points     []jsonPoint `json:"points"`
	Handedness string      `json:"handedness"`
	Score      float64     `json:"score"`
}

type jsonPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// toObservation scales normalized landmarks onto a width x height frame.
// Coordinates are truncated toward zero.
func (h jsonHand) toObservation(width, height int) (hand.Observation, error) {
	points := make([]hand.Point, len(h.Points))
	for i, p := range h.Points {
		points[i] = hand.Point{
			X: int(p.X * float64(width)),
			Y: int(p.Y * float64(height)),
		}
	}

	obs, err := hand.FromPoints(points)
	if err != nil {
		return obs, err
	}
	obs.Handedness = h.Handedness
	obs.Score = h.Score
	return obs, nil
}

// parseResponse decodes one service reply. Hands with fewer than 21
// landmarks are dropped.
func parseResponse(line []byte, width, height int, logger *slog.Logger) ([]hand.Observation, error) {
	var response struct {
		Hands []jsonHand `json:"hands"`
		Error string     `json:"error,omitempty"`
	}
	if err := json.Unmarshal(line, &response); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	if response.Error != "" {
		return nil, fmt.Errorf("mediapipe service: %s", response.Error)
	}

	result := make([]hand.Observation, 0, len(response.Hands))
	for i, h := range response.Hands {
		obs, err := h.toObservation(width, height)
		if err != nil {
			logger.Warn("dropping hand", "index", i, "error", err)
			continue
		}
		result = append(result, obs)
	}
	return result, nil
}
