package state

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/viper"

	"github.com/Paintersrp/periodsearch/internal/config"
	"github.com/Paintersrp/periodsearch/internal/constants"
	"github.com/Paintersrp/periodsearch/internal/logger"
	"github.com/Paintersrp/periodsearch/internal/notes"
)

type State struct {
	Config        *config.Config
	Workspace     *config.Workspace
	WorkspaceName string
	Home          string
	Vault         string
	Store         *notes.Store
	Logger        *logger.Logger
}

// Options tune how state is assembled for one invocation.
type Options struct {
	Workspace string
	Debug     bool
	LogOutput io.Writer
	Styled    bool
}

func NewState(opts Options) (*State, error) {
	home, err := GetHomeDir()
	if err != nil {
		return nil, err
	}

	cfg, err := LoadConfig(home)
	if err != nil {
		return nil, err
	}

	return FromConfig(cfg, home, opts)
}

// FromConfig builds state around an already loaded config.
func FromConfig(cfg *config.Config, home string, opts Options) (*State, error) {
	if opts.Workspace != "" {
		if err := cfg.ActivateWorkspace(opts.Workspace); err != nil {
			return nil, err
		}
	}

	ws, err := cfg.ActiveWorkspace()
	if err != nil {
		return nil, err
	}

	out := opts.LogOutput
	if out == nil {
		out = os.Stderr
	}

	return &State{
		Config:        cfg,
		Workspace:     ws,
		WorkspaceName: cfg.CurrentWorkspace,
		Home:          home,
		Vault:         ws.VaultDir,
		Store:         notes.NewStore(ws.VaultDir, ws.CalendarDir),
		Logger:        logger.New(out, opts.Debug, opts.Styled),
	}, nil
}

func GetHomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return home, nil
}

func LoadConfig(home string) (*config.Config, error) {
	viper.AddConfigPath(home + constants.ConfigDir)
	viper.SetConfigName(constants.ConfigFile)
	viper.SetConfigType(constants.ConfigFileType)
	_ = viper.ReadInConfig()

	if err := config.EnsureConfigExists(home); err != nil {
		return nil, err
	}

	return config.Load(home)
}

// LoadUnconfigured loads the config file, creating it when missing, without
// requiring the active workspace to name a vault.
func LoadUnconfigured(home string) (*config.Config, error) {
	if err := config.CreateConfigIfMissing(home); err != nil {
		return nil, err
	}
	return config.Load(home)
}
