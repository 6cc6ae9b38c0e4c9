package ergo

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// LoadTable reads table overrides from a TOML file on top of the
// defaults. Only the keys present in the file change.
func LoadTable(path string) (*Table, error) {
	table := DefaultTable()
	if path == "" {
		return table, nil
	}
	if _, err := toml.DecodeFile(path, table); err != nil {
		return nil, fmt.Errorf("reading ergonomic table %s: %w", path, err)
	}
	if err := table.validate(); err != nil {
		return nil, fmt.Errorf("ergonomic table %s: %w", path, err)
	}
	return table, nil
}

func (t *Table) validate() error {
	for kind, tmu := range t.BaseTimeTMU {
		if tmu < 0 {
			return fmt.Errorf("base time for %s is negative", kind)
		}
	}
	for kind, cost := range t.OnetimeCost {
		if cost < 0 {
			return fmt.Errorf("one-off cost for %s is negative", kind)
		}
	}
	if t.WalkTMUPerPace < 0 || t.RecoveryGrant < 0 {
		return fmt.Errorf("negative walk time or recovery grant")
	}
	return nil
}
