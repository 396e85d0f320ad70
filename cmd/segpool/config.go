package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// envPrefix namespaces environment overrides: --segment-size is SEGPOOL_SEGMENT_SIZE.
const envPrefix = "SEGPOOL"

// loadConfig merges, in decreasing priority, the command line flags, the
// SEGPOOL_* environment, the optional config file and the flag defaults.
func loadConfig(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, fmt.Errorf("binding flags: %w", err)
	}

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}
	return v, nil
}

// positiveInt reads key and rejects values below 1.
func positiveInt(v *viper.Viper, key string) (int, error) {
	n := v.GetInt(key)
	if n < 1 {
		return 0, fmt.Errorf("--%s must be at least 1, got %d", key, n)
	}
	return n, nil
}
