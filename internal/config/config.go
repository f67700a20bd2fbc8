// Package config holds the flat, JSON-tagged configuration struct for
// cmd/sudogrid and the JSON-file override it accepts via -c, in the shape
// of kcptun's own client/server Config types.
package config

import (
	"encoding/json"
	"os"
)

// Config mirrors every cmd/sudogrid flag.
type Config struct {
	Template  string `json:"template"`
	Exclude   string `json:"exclude"`
	Eliminate string `json:"eliminate"`
	Expand    int    `json:"expand"`
	Symmetry  string `json:"symmetry"`
	Unique    bool   `json:"unique"`
	Basics    bool   `json:"basics"`
	Dedupe    bool   `json:"dedupe"`
	Limit     int    `json:"limit"`
	Progress  bool   `json:"progress"`
	Out       string `json:"out"`
	Compress  bool   `json:"compress"`
}

// ParseJSONFile decodes path's contents over config, overriding whichever
// fields it sets.
func ParseJSONFile(config *Config, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return json.NewDecoder(file).Decode(config)
}
