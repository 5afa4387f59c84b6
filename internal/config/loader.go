package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// ProjectConfigFile is the name of the working-directory config file
	ProjectConfigFile = "unitconv.yaml"
	// UserConfigDir is the directory for user-level config, relative to $HOME
	UserConfigDir = ".config/unitconv"
	// UserConfigFile is the name of the user-level config file
	UserConfigFile = "config.yaml"
)

// Loader handles configuration loading with layered precedence
type Loader struct {
	logger  *slog.Logger
	getenv  func(string) string
	homeDir func() (string, error)
	workDir func() (string, error)
}

// NewLoader creates a new configuration loader
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		logger:  logger,
		getenv:  os.Getenv,
		homeDir: os.UserHomeDir,
		workDir: os.Getwd,
	}
}

// Load loads configuration with layered precedence:
// 1. Default config
// 2. User config (~/.config/unitconv/config.yaml)
// 3. Project config (unitconv.yaml in the working directory), or the
//    explicit path if one is given
// 4. UNITCONV_* environment variables
//
// It returns the resolved config and the path of the file that should be
// watched for hot reload ("" if none was found).
func (l *Loader) Load(explicitPath string) (*Config, string, error) {
	config := l.base()

	// Load project or explicit config
	watchPath := explicitPath
	if explicitPath != "" {
		fileConfig, err := readLayer(explicitPath)
		if err != nil {
			return nil, "", err
		}
		l.logger.Debug("Loaded config", slog.String("path", explicitPath))
		config.Merge(fileConfig)
	} else if projectConfigPath := l.findProjectConfig(); projectConfigPath != "" {
		if projectConfig, err := readLayer(projectConfigPath); err == nil {
			l.logger.Debug("Loaded project config", slog.String("path", projectConfigPath))
			config.Merge(projectConfig)
			watchPath = projectConfigPath
		} else {
			l.logger.Warn("Failed to load project config", slog.String("path", projectConfigPath), slog.String("error", err.Error()))
		}
	} else {
		l.logger.Debug("No project config found")
	}

	config.ApplyEnv(l.getenv)

	// Validate final config
	if err := config.Validate(); err != nil {
		return nil, "", err
	}

	return config, watchPath, nil
}

// Reload re-reads path on top of defaults and env, for hot reload.
func (l *Loader) Reload(path string) (*Config, error) {
	config := l.base()
	fileConfig, err := readLayer(path)
	if err != nil {
		return nil, err
	}
	config.Merge(fileConfig)
	config.ApplyEnv(l.getenv)
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// base returns defaults merged with the user config, if any.
func (l *Loader) base() *Config {
	config := DefaultConfig()

	userConfigPath := l.userConfigPath()
	if userConfigPath == "" {
		return config
	}
	if userConfig, err := readLayer(userConfigPath); err == nil {
		l.logger.Debug("Loaded user config", slog.String("path", userConfigPath))
		config.Merge(userConfig)
	} else if !errors.Is(err, fs.ErrNotExist) {
		l.logger.Warn("Failed to load user config", slog.String("path", userConfigPath), slog.String("error", err.Error()))
	}
	return config
}

func (l *Loader) userConfigPath() string {
	home, err := l.homeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, UserConfigDir, UserConfigFile)
}

func (l *Loader) findProjectConfig() string {
	cwd, err := l.workDir()
	if err != nil {
		return ""
	}
	path := filepath.Join(cwd, ProjectConfigFile)
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return ""
}

// readLayer parses path onto a zero Config so that only fields present in
// the file take part in Merge.
func readLayer(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	layer := &Config{}
	if err := yaml.Unmarshal(data, layer); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return layer, nil
}
