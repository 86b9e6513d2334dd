// Package config loads config.yaml with Viper. Every key can be overridden
// by a STORAGE_QUEST_* environment variable except data_dir, whose
// precedence is handled by package paths.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/storagequest/pkg/types"
)

const (
	fileName = "config"
	fileType = "yaml"

	// FileBase is the config file name inside the config directory.
	FileBase = "config.yaml"

	// EnvPrefix prefixes environment overrides, e.g. STORAGE_QUEST_BACKEND.
	EnvPrefix = "STORAGE_QUEST"
)

// Config keys.
const (
	KeyBackend           = "backend"
	KeyDataDir           = "data_dir"
	KeySyncStrategy      = "sync.strategy"
	KeySyncBatchSize     = "sync.batch_size"
	KeySyncBatchInterval = "sync.batch_interval"
	KeyLogLevel          = "log.level"
	KeyLogFormat         = "log.format"
	KeyListenAddr        = "server.listen_addr"
)

// Defaults.
const (
	DefaultBackend    = types.BackendJSON
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "text"
	DefaultListenAddr = ":8080"
)

// defaultConfigYAML is written to config.yaml on first run.
const defaultConfigYAML = `# Storage Quest configuration

# Backend selection: json or sqlite
backend: json

# Data directory (optional; overridable by --data-dir flag)
# data_dir:

sync:
  # immediate, on_close or batch
  strategy: immediate
  batch_size: 10
  batch_interval: 5

log:
  level: info
  format: text

server:
  listen_addr: ":8080"
`

// Settings is the decoded configuration.
type Settings struct {
	Store      types.Config
	LogLevel   string
	LogFormat  string
	ListenAddr string
}

// File is the structure init writes to config.yaml.
type File struct {
	Backend string     `yaml:"backend"`
	DataDir string     `yaml:"data_dir,omitempty"`
	Sync    FileSync   `yaml:"sync"`
	Log     FileLog    `yaml:"log"`
	Server  FileServer `yaml:"server"`
}

// FileSync is the sync section of config.yaml.
type FileSync struct {
	Strategy      string `yaml:"strategy"`
	BatchSize     int    `yaml:"batch_size"`
	BatchInterval int    `yaml:"batch_interval"`
}

// FileLog is the log section of config.yaml.
type FileLog struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// FileServer is the server section of config.yaml.
type FileServer struct {
	ListenAddr string `yaml:"listen_addr"`
}

// DefaultFile returns the default config file contents for dataDir.
func DefaultFile(dataDir string) File {
	return File{
		Backend: DefaultBackend,
		DataDir: dataDir,
		Sync: FileSync{
			Strategy:      types.SyncImmediate,
			BatchSize:     types.DefaultBatchSize,
			BatchInterval: types.DefaultBatchInterval,
		},
		Log:    FileLog{Level: DefaultLogLevel, Format: DefaultLogFormat},
		Server: FileServer{ListenAddr: DefaultListenAddr},
	}
}

// Load reads config.yaml from configDir. It creates the directory and a
// default config.yaml on first run. A missing config.yaml is not an error.
func Load(configDir string) (*viper.Viper, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(KeyBackend, DefaultBackend)
	v.SetDefault(KeySyncStrategy, types.SyncImmediate)
	v.SetDefault(KeySyncBatchSize, types.DefaultBatchSize)
	v.SetDefault(KeySyncBatchInterval, types.DefaultBatchInterval)
	v.SetDefault(KeyLogLevel, DefaultLogLevel)
	v.SetDefault(KeyLogFormat, DefaultLogFormat)
	v.SetDefault(KeyListenAddr, DefaultListenAddr)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName(fileName)
	v.SetConfigType(fileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// Decode extracts Settings from v and validates them. Store.DataDir is left
// empty; resolve it with DataDir and paths.ResolveDataDir.
func Decode(v *viper.Viper) (Settings, error) {
	s := Settings{
		Store: types.Config{
			Backend: v.GetString(KeyBackend),
			Sync: types.SyncConfig{
				Strategy:      v.GetString(KeySyncStrategy),
				BatchSize:     v.GetInt(KeySyncBatchSize),
				BatchInterval: v.GetInt(KeySyncBatchInterval),
			},
		},
		LogLevel:   v.GetString(KeyLogLevel),
		LogFormat:  v.GetString(KeyLogFormat),
		ListenAddr: v.GetString(KeyListenAddr),
	}
	if err := s.Store.Validate(); err != nil {
		return Settings{}, fmt.Errorf("invalid config: %w", err)
	}
	return s, nil
}

// DataDir returns data_dir as written in config.yaml, ignoring the
// environment, so that paths.ResolveDataDir can rank it above
// STORAGE_QUEST_DATA_DIR.
func DataDir(v *viper.Viper) (string, error) {
	path := v.ConfigFileUsed()
	if path == "" || !v.InConfig(KeyDataDir) {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read config: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return "", fmt.Errorf("parse config: %w", err)
	}
	return f.DataDir, nil
}

// WriteIfMissing writes f to path as YAML unless the file already exists.
// It reports whether a file was written.
func WriteIfMissing(path string, f File) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}

	data, err := yaml.Marshal(&f)
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, err
	}
	return true, nil
}

// ensureDefaultConfigFile creates a default config.yaml if the file does not
// exist in the config directory.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, FileBase)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
