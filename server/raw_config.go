package server

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/dogechain-lab/smartwallet/state"
	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/hcl"
)

// RawConfig is the file representation of Config
type RawConfig struct {
	ChainID          uint64        `json:"chain_id" hcl:"chain_id"`
	DataDir          string        `json:"data_dir" hcl:"data_dir"`
	RevocationPolicy string        `json:"revocation_policy" hcl:"revocation_policy"`
	InitAtomicity    string        `json:"init_atomicity" hcl:"init_atomicity"`
	BatchPolicy      string        `json:"batch_policy" hcl:"batch_policy"`
	MaxParallel      int           `json:"max_parallel" hcl:"max_parallel"`
	RequireDeployed  bool          `json:"require_deployed_code" hcl:"require_deployed_code"`
	LogLevel         string        `json:"log_level" hcl:"log_level"`
	LogFilePath      string        `json:"log_to" hcl:"log_to"`
	Leveldb          *RawLeveldb   `json:"leveldb" hcl:"leveldb"`
	Cache            *RawCache     `json:"cache" hcl:"cache"`
	Telemetry        *RawTelemetry `json:"telemetry" hcl:"telemetry"`
}

type RawLeveldb struct {
	CacheSize           int  `json:"cache_size" hcl:"cache_size"`
	Handles             int  `json:"handles" hcl:"handles"`
	BloomKeyBits        int  `json:"bloom_bits" hcl:"bloom_bits"`
	CompactionTableSize int  `json:"table_size" hcl:"table_size"`
	CompactionTotalSize int  `json:"total_table_size" hcl:"total_table_size"`
	NoSync              bool `json:"nosync" hcl:"nosync"`
}

type RawCache struct {
	Accounts  int `json:"accounts" hcl:"accounts"`
	CodeBytes int `json:"code_bytes" hcl:"code_bytes"`
	Signers   int `json:"signers" hcl:"signers"`
}

type RawTelemetry struct {
	PrometheusAddr string `json:"prometheus" hcl:"prometheus"`
	JaegerURL      string `json:"jaeger_url" hcl:"jaeger_url"`
}

// ReadConfigFile reads a .hcl or .json config file
func ReadConfigFile(path string) (*RawConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var decode func([]byte, interface{}) error

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".hcl":
		decode = func(b []byte, v interface{}) error {
			return hcl.Decode(v, string(b))
		}
	case ".json":
		decode = json.Unmarshal
	default:
		return nil, fmt.Errorf("unsupported config file extension %q", ext)
	}

	raw := &RawConfig{}
	if err := decode(data, raw); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	return raw, nil
}

// Build merges the raw values over DefaultConfig
func (r *RawConfig) Build() (*Config, error) {
	config := DefaultConfig()

	if r.ChainID != 0 {
		config.ChainID = r.ChainID
	}

	config.DataDir = r.DataDir
	config.LogFilePath = r.LogFilePath
	config.MaxParallel = r.MaxParallel
	config.RequireDeployedCode = r.RequireDeployed

	if r.RevocationPolicy != "" {
		config.RevocationPolicy = state.RevocationPolicy(r.RevocationPolicy)
	}

	if r.InitAtomicity != "" {
		config.InitAtomicity = state.AtomicityPolicy(r.InitAtomicity)
	}

	if r.BatchPolicy != "" {
		config.BatchPolicy = state.AtomicityPolicy(r.BatchPolicy)
	}

	if r.LogLevel != "" {
		if config.LogLevel = hclog.LevelFromString(r.LogLevel); config.LogLevel == hclog.NoLevel {
			return nil, fmt.Errorf("unknown log level %q", r.LogLevel)
		}
	}

	if l := r.Leveldb; l != nil {
		opts := config.LeveldbOptions

		setIfPositive(&opts.CacheSize, l.CacheSize)
		setIfPositive(&opts.Handles, l.Handles)
		setIfPositive(&opts.BloomKeyBits, l.BloomKeyBits)
		setIfPositive(&opts.CompactionTableSize, l.CompactionTableSize)
		setIfPositive(&opts.CompactionTotalSize, l.CompactionTotalSize)
		opts.NoSync = l.NoSync
	}

	if c := r.Cache; c != nil {
		setIfPositive(&config.Cache.Accounts, c.Accounts)
		setIfPositive(&config.Cache.CodeBytes, c.CodeBytes)
		setIfPositive(&config.Cache.Signers, c.Signers)
	}

	if t := r.Telemetry; t != nil {
		if t.PrometheusAddr != "" {
			addr, err := net.ResolveTCPAddr("tcp", t.PrometheusAddr)
			if err != nil {
				return nil, fmt.Errorf("invalid prometheus address: %w", err)
			}

			config.Telemetry.PrometheusAddr = addr
		}

		config.Telemetry.JaegerURL = t.JaegerURL
	}

	if err := config.stateConfig().Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func setIfPositive(dst *int, v int) {
	if v > 0 {
		*dst = v
	}
}
