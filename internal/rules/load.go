package rules

import (
	"fmt"

	"github.com/spf13/viper"
)

// Load reads a rule set from a TOML rules file. Sections absent from the
// file keep the default contents, so a deployment can override just the
// taxonomy lists without restating the factor tables.
func Load(c Config) (*Rules, error) {
	if c.Path == "" {
		return Default(), nil
	}

	v := viper.New()
	v.SetConfigFile(c.Path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}

	l := defaultLists()
	if err := v.Unmarshal(&l); err != nil {
		return nil, fmt.Errorf("failed to unmarshal rules file: %w", err)
	}
	return fromLists(l), nil
}
