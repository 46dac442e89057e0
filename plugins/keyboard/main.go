// Package main provides a keyboard plugin that taps named keys through the
// platform's scripting tools: osascript on macOS and xdotool on X11.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

// Request represents the input from the plugin executor.
type Request struct {
	Action string          `json:"action"`
	Params json.RawMessage `json:"params"`
}

// Response represents the output to the plugin executor.
type Response struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// KeystrokeParams names the key to tap.
type KeystrokeParams struct {
	Key string `json:"key"`
}

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeResponse(Response{Error: fmt.Sprintf("failed to decode request: %v", err)})
		return
	}

	if req.Action != "keystroke" {
		writeResponse(Response{Error: fmt.Sprintf("unknown action: %s", req.Action)})
		return
	}

	if err := handleKeystroke(req.Params); err != nil {
		writeResponse(Response{Error: fmt.Sprintf("keystroke failed: %v", err)})
		return
	}
	writeResponse(Response{Success: true})
}

// handleKeystroke taps the key named in params.
func handleKeystroke(params json.RawMessage) error {
	var p KeystrokeParams
	if err := json.Unmarshal(params, &p); err != nil {
		return fmt.Errorf("failed to parse params: %w", err)
	}

	name, args, err := keyCommand(runtime.GOOS, p.Key)
	if err != nil {
		return err
	}

	out, err := exec.Command(name, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, out)
	}
	return nil
}

func writeResponse(resp Response) {
	json.NewEncoder(os.Stdout).Encode(resp)
}
