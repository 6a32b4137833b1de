package pageconfig

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Record is the persisted form of a Config. Stores treat it as opaque bytes.
type Record []byte

// Encode serialises c as a Record.
func Encode(c Config) (Record, error) {
	c = c.Clone()
	c.Kickstarters.Normalize()
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode page config: %w", err)
	}
	return Record(data), nil
}

// Hydrate decodes rec over a fresh copy of Defaults. Fields missing from rec keep
// their defaults; slices present in rec replace the default slice. An empty
// record yields Defaults.
func Hydrate(rec Record) (Config, error) {
	cfg := Defaults()
	if len(bytes.TrimSpace(rec)) == 0 {
		return cfg, nil
	}
	if err := json.Unmarshal(rec, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode page config: %w", err)
	}
	cfg.Kickstarters.Normalize()
	return cfg, nil
}
