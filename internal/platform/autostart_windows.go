//go:build windows

package platform

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

const registryRunKey = `HKCU\Software\Microsoft\Windows\CurrentVersion\Run`

func (service *platformService) EnableAutostart(appName, execPath string) error {
	if execPath == "" {
		return fmt.Errorf("enable autostart: exec path is empty")
	}
	if err := runReg(appName, "add", "/t", "REG_SZ", "/d", runCommandLine(execPath), "/f"); err != nil {
		return fmt.Errorf("enable autostart: %w", err)
	}
	return nil
}

func (service *platformService) DisableAutostart(appName string) error {
	if err := runReg(appName, "delete", "/f"); err != nil {
		return fmt.Errorf("disable autostart: %w", err)
	}
	return nil
}

func (service *platformService) AutostartEnabled(appName string) (bool, error) {
	if strings.TrimSpace(appName) == "" {
		return false, fmt.Errorf("check autostart: app name is empty")
	}
	// reg query exits non-zero when the value is absent.
	err := exec.Command("reg", "query", registryRunKey, "/v", appName).Run()
	return err == nil, nil
}

// runReg runs "reg <verb> <Run key> /v appName extra...".
func runReg(appName, verb string, extra ...string) error {
	if strings.TrimSpace(appName) == "" {
		return fmt.Errorf("app name is empty")
	}
	args := append([]string{verb, registryRunKey, "/v", appName}, extra...)
	output, err := exec.Command("reg", args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("reg %s: %w: %s", verb, err, strings.TrimSpace(string(output)))
	}
	return nil
}

func fallbackConfigDir(homeDir string) string {
	return filepath.Join(homeDir, "AppData", "Roaming")
}

func runCommandLine(execPath string) string {
	trimmed := strings.Trim(execPath, `"`)
	return fmt.Sprintf(`"%s" run`, trimmed)
}
