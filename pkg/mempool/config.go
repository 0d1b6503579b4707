package mempool

import "gopkg.in/yaml.v3"

// Config holds the pool's bookkeeping knobs. It has no capacity-eviction
// knob and no effect on acceptance semantics; it only sizes the
// recently-rejected cache used to throttle debug logging.
type Config struct {
	// RecentCacheSize bounds the recently-rejected hash cache (see
	// recent.go). Zero disables it.
	RecentCacheSize int `yaml:"RecentCacheSize"`
}

// DefaultConfig returns the configuration used when a node doesn't supply
// one of its own.
func DefaultConfig() Config {
	return Config{RecentCacheSize: 256}
}

// LoadConfig decodes a YAML-encoded Config, filling unset fields from
// DefaultConfig.
func LoadConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
