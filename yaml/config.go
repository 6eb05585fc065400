// Package yaml loads crawl configuration files.
package yaml

import (
	"bytes"
	"errors"
	"io"
	"os"

	"github.com/fwojciec/harvest"
	"gopkg.in/yaml.v3"
)

// LoadConfig reads the YAML file at path over harvest.DefaultConfig.
// Keys missing from the file keep their default values; unknown keys are
// rejected.
func LoadConfig(path string) (*harvest.Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, harvest.Errorf(harvest.ENOTFOUND, "config file %s not found", path)
		}
		return nil, err
	}
	return ParseConfig(data)
}

// ParseConfig decodes YAML data over harvest.DefaultConfig.
func ParseConfig(data []byte) (*harvest.Config, error) {
	cfg := harvest.DefaultConfig()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, harvest.Errorf(harvest.EINVALID, "invalid config: %v", err)
	}
	return cfg, nil
}
