package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// linkedTableConfig is one entry of a --config file's `linked_tables` list,
// letting a session preopen its CREATE LINKED TABLE connections instead of
// typing the DDL by hand every run.
type linkedTableConfig struct {
	Name        string `yaml:"name"`
	Driver      string `yaml:"driver"`
	DSN         string `yaml:"dsn"`
	RemoteTable string `yaml:"remote_table"`
}

// fileConfig is the --config YAML document's root shape.
type fileConfig struct {
	LinkedTables []linkedTableConfig `yaml:"linked_tables"`
}

func loadConfig(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %q: %w", path, err)
	}
	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %q: %w", path, err)
	}
	return &cfg, nil
}
