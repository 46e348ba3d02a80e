package main

import (
	"io/ioutil"
	"os"
	"path/filepath"

	yaml "gopkg.in/yaml.v2"
)

// Config is read from -config or <input>.polytri.yaml. Flags given on the
// command line override it.
type Config struct {
	EpsilonScale float32 `yaml:"epsilon_scale"`
	Strict       bool    `yaml:"strict"`
	Scale        float32 `yaml:"scale"`
	Unlit        bool    `yaml:"unlit"`
	TextureLimit int     `yaml:"texture_limit"`
}

func defaultConfig() *Config {
	return &Config{Scale: 1}
}

func defaultConfigFile(input string) string {
	path := input[0:len(input)-len(filepath.Ext(input))] + ".polytri.yaml"
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

func loadConfig(path string) (*Config, error) {
	conf := defaultConfig()
	if path == "" {
		return conf, nil
	}
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.UnmarshalStrict(data, conf); err != nil {
		return nil, err
	}
	return conf, nil
}
