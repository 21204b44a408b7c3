package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
)

type Config struct {
	Verbose          bool `mapstructure:"verbose"`          // Print the conversion report
	Provenance       bool `mapstructure:"provenance"`       // Write the "c zprime mapping" block
	CheckClauseCount bool `mapstructure:"checkClauseCount"` // Warn when the declared clause count differs from the parsed one
}

func Default() Config {
	return Config{
		Verbose:          false,
		Provenance:       true,
		CheckClauseCount: true,
	}
}

// FromJson reads a JSON configuration file. Keys absent from the file keep their default value.
func FromJson(file string) (Config, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return Config{}, fmt.Errorf("cannot read config file: %w", err)
	}

	var configJson map[string]any
	if err := json.Unmarshal(bytes, &configJson); err != nil {
		return Config{}, fmt.Errorf("cannot parse config file %v: %w", file, err)
	}

	return FromMap(configJson)
}

func FromMap(values map[string]any) (Config, error) {
	config := Default()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &config,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return Config{}, err
	}

	if err := decoder.Decode(values); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return config, nil
}
