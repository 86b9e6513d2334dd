package types

import (
	"errors"
	"testing"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{
			name:    "empty backend returns ErrBackendEmpty",
			config:  Config{Backend: "", DataDir: "/tmp/data"},
			wantErr: ErrBackendEmpty,
		},
		{
			name:    "unknown backend returns ErrBackendUnknown",
			config:  Config{Backend: "postgres", DataDir: "/tmp/data"},
			wantErr: ErrBackendUnknown,
		},
		{
			name:   "valid json config",
			config: Config{Backend: BackendJSON, DataDir: "/tmp/data"},
		},
		{
			name:   "valid sqlite config",
			config: Config{Backend: BackendSQLite, DataDir: "/tmp/data"},
		},
		{
			name:   "empty DataDir is valid at config level",
			config: Config{Backend: BackendJSON},
		},
		{
			name:    "unknown sync strategy",
			config:  Config{Backend: BackendJSON, Sync: SyncConfig{Strategy: "eventually"}},
			wantErr: ErrSyncStrategyUnknown,
		},
		{
			name:    "negative batch size",
			config:  Config{Backend: BackendJSON, Sync: SyncConfig{Strategy: SyncBatch, BatchSize: -1}},
			wantErr: ErrBatchSizeInvalid,
		},
		{
			name:    "negative batch interval",
			config:  Config{Backend: BackendJSON, Sync: SyncConfig{Strategy: SyncBatch, BatchInterval: -5}},
			wantErr: ErrBatchIntervalInvalid,
		},
		{
			name:   "batch settings ignored for immediate",
			config: Config{Backend: BackendJSON, Sync: SyncConfig{Strategy: SyncImmediate, BatchSize: -1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("expected nil error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestSyncConfigDefaults(t *testing.T) {
	var s SyncConfig
	if got := s.GetStrategy(); got != SyncImmediate {
		t.Errorf("GetStrategy() = %q, want %q", got, SyncImmediate)
	}
	if got := s.GetBatchSize(); got != DefaultBatchSize {
		t.Errorf("GetBatchSize() = %d, want %d", got, DefaultBatchSize)
	}
	if got := s.GetBatchInterval(); got != DefaultBatchInterval {
		t.Errorf("GetBatchInterval() = %d, want %d", got, DefaultBatchInterval)
	}
}
