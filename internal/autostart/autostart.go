// Package autostart installs the service as a login startup item.
package autostart

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"text/template"
)

const systemdUserUnit = `[Unit]
Description=padbridge UDP input bridge
After=network.target

[Service]
ExecStart={{.ExecutablePath}}
Restart=on-failure

[Install]
WantedBy=default.target
`

const macLaunchAgentPlist = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
    <key>Label</key>
    <string>com.padbridge.daemon</string>
    <key>ProgramArguments</key>
    <array>
        <string>{{.ExecutablePath}}</string>
    </array>
    <key>RunAtLoad</key>
    <true/>
    <key>KeepAlive</key>
    <false/>
</dict>
</plist>`

// Enable enables auto-start on login.
func Enable() error {
	switch runtime.GOOS {
	case "linux":
		return enableLinux()
	case "darwin":
		return enableMac()
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
}

// Disable disables auto-start on login.
func Disable() error {
	switch runtime.GOOS {
	case "linux":
		return disableLinux()
	case "darwin":
		return disableMac()
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
}

// IsEnabled checks whether auto-start is enabled.
func IsEnabled() bool {
	p, err := unitPath()
	if err != nil {
		return false
	}
	_, err = os.Stat(p)
	return err == nil
}

// unitPath returns the platform's startup item path.
func unitPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	switch runtime.GOOS {
	case "linux":
		return filepath.Join(home, ".config", "systemd", "user", "padbridge.service"), nil
	case "darwin":
		return filepath.Join(home, "Library", "LaunchAgents", "com.padbridge.daemon.plist"), nil
	default:
		return "", fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
}

func writeStartupItem(tmplText string) error {
	execPath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to get executable path: %w", err)
	}

	p, err := unitPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return err
	}

	tmpl, err := template.New("startup").Parse(tmplText)
	if err != nil {
		return err
	}

	f, err := os.Create(p)
	if err != nil {
		return err
	}
	defer f.Close()

	return tmpl.Execute(f, struct{ ExecutablePath string }{execPath})
}

func removeStartupItem() error {
	p, err := unitPath()
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func enableLinux() error {
	// The unit still needs `systemctl --user enable padbridge` to be
	// picked up before the next login.
	return writeStartupItem(systemdUserUnit)
}

func disableLinux() error {
	return removeStartupItem()
}

func enableMac() error {
	return writeStartupItem(macLaunchAgentPlist)
}

func disableMac() error {
	return removeStartupItem()
}
