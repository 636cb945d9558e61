package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Paintersrp/periodsearch/internal/constants"
)

func GetConfigPath(homeDir string) string {
	return filepath.Join(
		homeDir,
		constants.ConfigDir,
		constants.ConfigFile+"."+constants.ConfigFileType,
	)
}

// CreateConfigIfMissing creates an empty config file, and its directory,
// when none exists yet.
func CreateConfigIfMissing(homeDir string) error {
	configPath := GetConfigPath(homeDir)

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		file, err := os.Create(configPath)
		if err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}
		file.Close()
	} else if err != nil {
		return fmt.Errorf("failed to check config file existence: %w", err)
	}

	return nil
}

// EnsureConfigExists creates the config file when missing and requires the
// active workspace to name a vault.
func EnsureConfigExists(homeDir string) error {
	if err := CreateConfigIfMissing(homeDir); err != nil {
		return err
	}

	cfg, err := Load(homeDir)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ws, err := cfg.ActiveWorkspace()
	if err != nil {
		return err
	}

	if strings.TrimSpace(ws.VaultDir) == "" {
		return &ConfigInitError{Key: "vaultdir", Path: GetConfigPath(homeDir)}
	}

	return nil
}
