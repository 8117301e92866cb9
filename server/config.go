package server

import (
	"net"

	"github.com/dogechain-lab/smartwallet/authority"
	"github.com/dogechain-lab/smartwallet/helper/kvdb/leveldb"
	"github.com/dogechain-lab/smartwallet/state"
	"github.com/hashicorp/go-hclog"
)

// Config is used to parametrize the delegation service
type Config struct {
	ChainID uint64

	RevocationPolicy state.RevocationPolicy
	InitAtomicity    state.AtomicityPolicy
	BatchPolicy      state.AtomicityPolicy
	MaxParallel      int

	// RequireDeployedCode refuses delegations to code refs never deployed
	RequireDeployedCode bool

	// DataDir holds the account database, accounts are kept in memory when empty
	DataDir string

	LeveldbOptions *LeveldbOptions
	Cache          *CacheConfig
	Telemetry      *Telemetry

	LogLevel    hclog.Level
	LogFilePath string
}

// LeveldbOptions holds the leveldb options
type LeveldbOptions struct {
	CacheSize           int
	Handles             int
	BloomKeyBits        int
	CompactionTableSize int
	CompactionTotalSize int
	NoSync              bool
}

// CacheConfig sizes the in-process caches
type CacheConfig struct {
	Accounts  int // account records
	CodeBytes int // code images, in bytes
	Signers   int // recovered authorization signers
}

// Telemetry holds the config details for metric and tracing services
type Telemetry struct {
	PrometheusAddr *net.TCPAddr
	JaegerURL      string
}

// DefaultConfig returns an in-memory configuration
func DefaultConfig() *Config {
	return &Config{
		ChainID:          state.DefaultConfig().ChainID,
		RevocationPolicy: state.RevocationRetain,
		InitAtomicity:    state.Independent,
		BatchPolicy:      state.Independent,
		LeveldbOptions: &LeveldbOptions{
			CacheSize:           leveldb.DefaultCache,
			Handles:             leveldb.DefaultHandles,
			BloomKeyBits:        leveldb.DefaultBloomKeyBits,
			CompactionTableSize: leveldb.DefaultCompactionTableSize,
			CompactionTotalSize: leveldb.DefaultCompactionTotalSize,
			NoSync:              leveldb.DefaultNoSyncFlag,
		},
		Cache: &CacheConfig{
			Accounts:  state.DefaultAccountCacheSize,
			CodeBytes: state.DefaultCodeCacheSize,
			Signers:   authority.DefaultSignerCacheSize,
		},
		Telemetry: &Telemetry{},
		LogLevel:  hclog.Info,
	}
}

func (c *Config) stateConfig() *state.Config {
	return &state.Config{
		ChainID:          c.ChainID,
		RevocationPolicy: c.RevocationPolicy,
		InitAtomicity:    c.InitAtomicity,
		BatchPolicy:      c.BatchPolicy,
		MaxParallel:      c.MaxParallel,

		RequireDeployedCode: c.RequireDeployedCode,
	}
}
