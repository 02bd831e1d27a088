package mirrorview

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Counter modes select which axis the per-item exposure counters are keyed
// by. Condition mode balances exposure within each experimental arm; group
// mode balances within each participant group instead (the flat quota
// variant of the study used group-keyed counters).
const (
	CounterModeCondition = "condition"
	CounterModeGroup     = "group"
)

// KVBucketConfig configures the NATS JetStream KV buckets backing the engine.
type KVBucketConfig struct {
	// LedgerBucket is the bucket name for committed assignment ledgers.
	LedgerBucket string `yaml:"ledgerBucket"`

	// PendingBucket is the bucket name for pending reservation documents.
	PendingBucket string `yaml:"pendingBucket"`

	// PendingTTL is how long pending documents remain in KV (0 = no
	// expiration). A TTL bounds the pending-table growth from abandoned
	// sessions; committed ledgers must never expire.
	PendingTTL time.Duration `yaml:"pendingTtl"`

	// Replicas is the JetStream replica count for both buckets.
	Replicas int `yaml:"replicas"`
}

// Config is the configuration for the Engine.
//
// All duration fields accept standard Go duration strings like "30s", "5m".
type Config struct {
	// Groups are the participant groups the study recognizes.
	// A request carrying any other group is rejected.
	Groups []string `yaml:"groups"`

	// Conditions are the experimental arms. The first entry is the baseline
	// that unknown or empty request conditions fall back to.
	Conditions []string `yaml:"conditions"`

	// Buckets are the stratification category names, in priority order.
	// Empty means no stratification: the whole catalog forms one pool.
	Buckets []string `yaml:"buckets"`

	// TargetCount is the number of items assigned per participant.
	TargetCount int `yaml:"targetCount"`

	// CounterMode selects the exposure counter axis: CounterModeCondition
	// or CounterModeGroup.
	CounterMode string `yaml:"counterMode"`

	// AlternateConditions, when true, ignores the request's condition and
	// alternates conditions within each group by commit order, keeping arms
	// balanced per group without coordination from the caller.
	AlternateConditions bool `yaml:"alternateConditions"`

	// MaxExposurePerKey caps how many committed assignments may reference
	// one item under one counter key. Only consulted when no explicit
	// strategy is injected and Buckets is empty (the flat quota variant);
	// 0 disables the cap.
	MaxExposurePerKey int `yaml:"maxExposurePerKey"`

	// ConflictRetries bounds how many times a write is retried after losing
	// an optimistic-concurrency race before giving up.
	ConflictRetries int `yaml:"conflictRetries"`

	// OperationTimeout is the timeout applied to each store operation when
	// the caller's context carries no deadline.
	OperationTimeout time.Duration `yaml:"operationTimeout"`

	// AllowProductionReset permits Reset on the production scope. Leave
	// false everywhere except disposable environments.
	AllowProductionReset bool `yaml:"allowProductionReset"`

	// KVBuckets controls NATS JetStream KV bucket configuration.
	KVBuckets KVBucketConfig `yaml:"kvBuckets"`
}

// DefaultConfig returns a Config with the study's production defaults.
//
// Returns:
//   - Config: Configuration with default values
func DefaultConfig() Config {
	return Config{
		Groups:          []string{"democrat", "republican"},
		Conditions:      []string{"control", "linked_fate"},
		Buckets:         nil,
		TargetCount:     5,
		CounterMode:     CounterModeCondition,
		ConflictRetries: 5,
		OperationTimeout: 10 * time.Second,
		KVBuckets: KVBucketConfig{
			LedgerBucket:  "mirrorview-ledger",
			PendingBucket: "mirrorview-pending",
			PendingTTL:    0, // No TTL - reservations persist until committed or reset
			Replicas:      1,
		},
	}
}

// SetDefaults fills in missing configuration values with production defaults.
//
// Parameters:
//   - cfg: Config to apply defaults to (modified in place)
func SetDefaults(cfg *Config) {
	defaults := DefaultConfig()

	if len(cfg.Groups) == 0 {
		cfg.Groups = defaults.Groups
	}
	if len(cfg.Conditions) == 0 {
		cfg.Conditions = defaults.Conditions
	}
	if cfg.TargetCount == 0 {
		cfg.TargetCount = defaults.TargetCount
	}
	if cfg.CounterMode == "" {
		cfg.CounterMode = defaults.CounterMode
	}
	if cfg.ConflictRetries == 0 {
		cfg.ConflictRetries = defaults.ConflictRetries
	}
	if cfg.OperationTimeout == 0 {
		cfg.OperationTimeout = defaults.OperationTimeout
	}
	if cfg.KVBuckets.LedgerBucket == "" {
		cfg.KVBuckets.LedgerBucket = defaults.KVBuckets.LedgerBucket
	}
	if cfg.KVBuckets.PendingBucket == "" {
		cfg.KVBuckets.PendingBucket = defaults.KVBuckets.PendingBucket
	}
	if cfg.KVBuckets.Replicas == 0 {
		cfg.KVBuckets.Replicas = defaults.KVBuckets.Replicas
	}
	// Note: PendingTTL of 0 is valid (no expiration), so we don't apply default
}

// Validate checks configuration constraints and returns error for invalid values.
//
// Hard Validation Rules:
//   - At least one group and one condition
//   - No duplicate groups, conditions, or buckets
//   - TargetCount > 0
//   - CounterMode is "condition" or "group"
//   - ConflictRetries >= 1
//   - MaxExposurePerKey >= 0
//   - Distinct ledger and pending bucket names
//
// Returns:
//   - error: Validation error with clear explanation, nil if valid
func (cfg *Config) Validate() error {
	if len(cfg.Groups) == 0 {
		return fmt.Errorf("%w: at least one group is required", ErrInvalidConfig)
	}
	if err := distinct("group", cfg.Groups); err != nil {
		return err
	}

	if len(cfg.Conditions) == 0 {
		return fmt.Errorf("%w: at least one condition is required", ErrInvalidCondition)
	}
	if err := distinct("condition", cfg.Conditions); err != nil {
		return err
	}

	if err := distinct("bucket", cfg.Buckets); err != nil {
		return err
	}

	if cfg.TargetCount <= 0 {
		return fmt.Errorf("%w: TargetCount must be > 0, got %d", ErrInvalidConfig, cfg.TargetCount)
	}

	if cfg.CounterMode != CounterModeCondition && cfg.CounterMode != CounterModeGroup {
		return fmt.Errorf("%w: CounterMode must be %q or %q, got %q",
			ErrInvalidConfig, CounterModeCondition, CounterModeGroup, cfg.CounterMode)
	}

	if cfg.ConflictRetries < 1 {
		return fmt.Errorf("%w: ConflictRetries must be >= 1, got %d", ErrInvalidConfig, cfg.ConflictRetries)
	}

	if cfg.MaxExposurePerKey < 0 {
		return fmt.Errorf("%w: MaxExposurePerKey must be >= 0, got %d", ErrInvalidConfig, cfg.MaxExposurePerKey)
	}

	if cfg.KVBuckets.LedgerBucket == cfg.KVBuckets.PendingBucket {
		return fmt.Errorf("%w: ledger and pending buckets must be distinct, both are %q",
			ErrInvalidConfig, cfg.KVBuckets.LedgerBucket)
	}

	return nil
}

func distinct(kind string, values []string) error {
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		if v == "" {
			return fmt.Errorf("%w: empty %s name", ErrInvalidConfig, kind)
		}
		if seen[v] {
			return fmt.Errorf("%w: duplicate %s %q", ErrInvalidConfig, kind, v)
		}
		seen[v] = true
	}

	return nil
}

// LoadConfig reads a YAML configuration file, applies defaults, and validates
// the result.
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - Config: Parsed and validated configuration
//   - error: Read, parse, or validation error
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	SetDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// TestConfig returns a configuration optimized for fast test execution.
//
// Uses the production group and condition sets with a short operation
// timeout and a tight conflict budget so failure-path tests finish quickly.
//
// Returns:
//   - Config: Configuration with fast timings for tests
//
// Example:
//
//	cfg := mirrorview.TestConfig()
//	cfg.TargetCount = 4
//	engine, err := mirrorview.New(cfg, stores, provider)
func TestConfig() Config {
	cfg := DefaultConfig()

	cfg.OperationTimeout = 2 * time.Second
	cfg.ConflictRetries = 3
	cfg.KVBuckets.LedgerBucket = "test-ledger"
	cfg.KVBuckets.PendingBucket = "test-pending"
	cfg.KVBuckets.PendingTTL = time.Minute

	return cfg
}
