package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	yaml "gopkg.in/yaml.v2"
)

// DefaultFile is the config file read when CONFIG_FILE is not set.
const DefaultFile = "config.yml"

// Init fills Config from the yaml file named by CONFIG_FILE (DefaultFile
// when unset), then overlays environment variables. The default file may be
// absent so env-only deployments work; an explicitly named one may not.
func Init() error {
	path := os.Getenv("CONFIG_FILE")
	if path == "" {
		path = DefaultFile
	}
	return Load(path)
}

// Load fills Config from the given yaml file and the environment.
func Load(path string) error {
	if err := readFile(&Config, path); err != nil {
		return err
	}
	return readEnv(&Config)
}

func readFile(cfg *Configuration, path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) && path == DefaultFile {
			return nil
		}
		return fmt.Errorf("open config file: %w", err)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func readEnv(cfg *Configuration) error {
	if err := envconfig.Process("", cfg); err != nil {
		return fmt.Errorf("read environment config: %w", err)
	}
	return nil
}
