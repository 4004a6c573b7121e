// Package notifier delivers desktop notifications through the tally tray app.
// The tray app advertises its webhook in a lockfile of the form port|pid|secret.
package notifier

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/tally/internal/constants"
)

var (
	userConfigDirFunc = os.UserConfigDir
	findProcessFunc   = ps.FindProcess
)

var ErrTrayNotRunning = errors.New(constants.TrayAppExecutable + " is not running")

type Notifier struct {
	client *http.Client
}

type WebhookPayload struct {
	Text       string `json:"text"`
	DurationMs uint32 `json:"duration_ms"`
}

func New() *Notifier {
	return &Notifier{client: &http.Client{Timeout: constants.NotifyTimeout}}
}

// Notify shows text in a tray notification.
func (n *Notifier) Notify(text string) error {
	dir, err := TrayAppConfigDir()
	if err != nil {
		return err
	}
	endpoint, err := locateTray(filepath.Join(dir, constants.NotifierLockfileName))
	if err != nil {
		return err
	}
	return n.send(endpoint, WebhookPayload{Text: text, DurationMs: constants.NotificationDurationMs})
}

// TrayAppConfigDir is where the tray app keeps its lockfile. The tray's
// settings.json may move it with lockfile_dir.
func TrayAppConfigDir() (string, error) {
	configDir, err := userConfigDirFunc()
	if err != nil {
		return "", fmt.Errorf("failed to get user config dir: %w", err)
	}
	trayDir := filepath.Join(configDir, constants.TrayAppIdentifier)

	data, err := os.ReadFile(filepath.Join(trayDir, "settings.json"))
	if err != nil {
		return trayDir, nil
	}
	var settings struct {
		Settings struct {
			LockfileDir string `json:"lockfile_dir"`
		} `json:"settings"`
	}
	if json.Unmarshal(data, &settings) == nil && settings.Settings.LockfileDir != "" {
		return settings.Settings.LockfileDir, nil
	}
	return trayDir, nil
}

type trayEndpoint struct {
	port   int
	pid    int
	secret string
}

func parseLockfile(content string) (trayEndpoint, error) {
	parts := strings.Split(strings.TrimSpace(content), "|")
	if len(parts) != 3 {
		return trayEndpoint{}, errors.New("lockfile is malformed")
	}
	port, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return trayEndpoint{}, errors.New("invalid port number in lockfile")
	}
	if port < 1 || port > 65535 {
		return trayEndpoint{}, fmt.Errorf("port number %d is outside valid range (1-65535)", port)
	}
	pid, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return trayEndpoint{}, errors.New("invalid process ID in lockfile")
	}
	secret := strings.TrimSpace(parts[2])
	if secret == "" {
		return trayEndpoint{}, errors.New("secret in lockfile is empty")
	}
	return trayEndpoint{port: port, pid: pid, secret: secret}, nil
}

// locateTray reads the lockfile and checks that its pid is a live tray process.
func locateTray(lockfilePath string) (trayEndpoint, error) {
	content, err := os.ReadFile(lockfilePath)
	if err != nil {
		return trayEndpoint{}, ErrTrayNotRunning
	}
	endpoint, err := parseLockfile(string(content))
	if err != nil {
		return trayEndpoint{}, err
	}

	process, err := findProcessFunc(endpoint.pid)
	if err != nil || process == nil {
		return trayEndpoint{}, ErrTrayNotRunning
	}
	if !strings.HasPrefix(process.Executable(), constants.TrayAppExecutable) {
		return trayEndpoint{}, fmt.Errorf("process with PID %d is not %s (is %s)", endpoint.pid, constants.TrayAppExecutable, process.Executable())
	}
	return endpoint, nil
}

func (n *Notifier) send(endpoint trayEndpoint, payload WebhookPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPost, fmt.Sprintf("http://127.0.0.1:%d", endpoint.port), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(constants.TraySecretHeader, endpoint.secret)

	res, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusOK {
		return nil
	}
	msg, _ := io.ReadAll(res.Body)
	return fmt.Errorf("notification failed with status %d: %s", res.StatusCode, strings.TrimSpace(string(msg)))
}
