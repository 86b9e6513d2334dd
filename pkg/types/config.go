package types

import "errors"

// Config holds backend selection and parameters for Backend.Attach.
type Config struct {
	Backend string     `json:"backend" yaml:"backend"`
	DataDir string     `json:"data_dir" yaml:"data_dir"`
	Sync    SyncConfig `json:"sync" yaml:"sync"`
}

// Supported backend names.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Sync strategies control when snapshots are written to the backend.
const (
	SyncImmediate = "immediate"
	SyncOnClose   = "on_close"
	SyncBatch     = "batch"
)

// Sync defaults.
const (
	DefaultBatchSize     = 10
	DefaultBatchInterval = 5
)

// SyncConfig selects a sync strategy. BatchInterval is in seconds.
type SyncConfig struct {
	Strategy      string `json:"strategy" yaml:"strategy"`
	BatchSize     int    `json:"batch_size" yaml:"batch_size"`
	BatchInterval int    `json:"batch_interval" yaml:"batch_interval"`
}

// Config validation errors.
var (
	ErrBackendEmpty         = errors.New("backend must not be empty")
	ErrBackendUnknown       = errors.New("unknown backend")
	ErrSyncStrategyUnknown  = errors.New("unknown sync strategy")
	ErrBatchSizeInvalid     = errors.New("batch size must be positive")
	ErrBatchIntervalInvalid = errors.New("batch interval must be positive")
)

var knownBackends = map[string]bool{
	BackendJSON:   true,
	BackendSQLite: true,
}

var knownStrategies = map[string]bool{
	SyncImmediate: true,
	SyncOnClose:   true,
	SyncBatch:     true,
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure. An empty sync strategy means immediate.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	return c.Sync.Validate()
}

// Validate checks the sync settings. Batch size and interval are only
// checked for the batch strategy.
func (s SyncConfig) Validate() error {
	if s.Strategy == "" {
		return nil
	}
	if !knownStrategies[s.Strategy] {
		return ErrSyncStrategyUnknown
	}
	if s.Strategy != SyncBatch {
		return nil
	}
	if s.BatchSize < 0 {
		return ErrBatchSizeInvalid
	}
	if s.BatchInterval < 0 {
		return ErrBatchIntervalInvalid
	}
	return nil
}

// GetStrategy returns the effective strategy, defaulting to immediate.
func (s SyncConfig) GetStrategy() string {
	if s.Strategy == "" {
		return SyncImmediate
	}
	return s.Strategy
}

// GetBatchSize returns the batch size, defaulting when unset.
func (s SyncConfig) GetBatchSize() int {
	if s.BatchSize == 0 {
		return DefaultBatchSize
	}
	return s.BatchSize
}

// GetBatchInterval returns the batch interval in seconds, defaulting when unset.
func (s SyncConfig) GetBatchInterval() int {
	if s.BatchInterval == 0 {
		return DefaultBatchInterval
	}
	return s.BatchInterval
}
