/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// AppConfig is the effective configuration of a conversion run.
// Precedence, lowest to highest: Defaults, YAML file, .env file, process
// environment, command-line flags (applied by the caller).
//
// config_version: bump when the structure changes in a backward-incompatible way.

type LoggingConfig struct {
	Level  string `yaml:"level" env:"PLAYPARSE_LOG_LEVEL"`
	Format string `yaml:"format" env:"PLAYPARSE_LOG_FORMAT"`
	Source bool   `yaml:"source" env:"PLAYPARSE_LOG_SOURCE"`
	File   string `yaml:"file" env:"PLAYPARSE_LOG_FILE"`
}

type AppConfig struct {
	ConfigVersion int    `yaml:"config_version"`
	Input         string `yaml:"input" env:"PLAYPARSE_INPUT"`
	Output        string `yaml:"output" env:"PLAYPARSE_OUTPUT"`
	CRLF          bool   `yaml:"crlf" env:"PLAYPARSE_CRLF"`
	// Optional derived outputs; empty disables them.
	PDF     string        `yaml:"pdf,omitempty" env:"PLAYPARSE_PDF"`
	Cast    string        `yaml:"cast,omitempty" env:"PLAYPARSE_CAST"`
	Index   string        `yaml:"index,omitempty" env:"PLAYPARSE_INDEX"`
	Logging LoggingConfig `yaml:"logging"`
}

const (
	DefaultInput  = "Midsummer_Dream1stCut.md"
	DefaultOutput = "_data/midsummer_dream_parsed.csv"

	// DefaultFile is picked up from the working directory when present.
	DefaultFile = "playparse.yaml"
	// EnvConfigFile names an explicit config file.
	EnvConfigFile = "PLAYPARSE_CONFIG"
	// DotEnvFile is loaded from the working directory when present.
	DotEnvFile = ".env"
)

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		Input:         DefaultInput,
		Output:        DefaultOutput,
		CRLF:          true,
		Logging:       LoggingConfig{Level: "info", Format: "console"},
	}
}

// Load resolves the effective configuration.
// path names a YAML file that must exist; when empty, $PLAYPARSE_CONFIG is
// used (must exist), then ./playparse.yaml (optional).
func Load(path string) (AppConfig, error) {
	return load(path, DotEnvFile)
}

func load(path, dotenv string) (AppConfig, error) {
	cfg := Defaults()

	required := true
	if strings.TrimSpace(path) == "" {
		path = strings.TrimSpace(os.Getenv(EnvConfigFile))
	}
	if path == "" {
		path, required = DefaultFile, false
	}
	if err := mergeFile(&cfg, path, required); err != nil {
		return cfg, err
	}

	if dotenv != "" {
		// godotenv never overrides variables that are already set
		if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return cfg, fmt.Errorf("load %s: %w", dotenv, err)
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	normalize(&cfg)
	return cfg, cfg.Validate()
}

func mergeFile(cfg *AppConfig, path string, required bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}
	// Unmarshal over the defaults so that absent keys keep their default values.
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func normalize(cfg *AppConfig) {
	cfg.Input = strings.TrimSpace(cfg.Input)
	cfg.Output = strings.TrimSpace(cfg.Output)
	cfg.PDF = strings.TrimSpace(cfg.PDF)
	cfg.Cast = strings.TrimSpace(cfg.Cast)
	cfg.Index = strings.TrimSpace(cfg.Index)
	cfg.Logging.Level = strings.ToLower(strings.TrimSpace(cfg.Logging.Level))
	cfg.Logging.Format = strings.ToLower(strings.TrimSpace(cfg.Logging.Format))
	cfg.Logging.File = strings.TrimSpace(cfg.Logging.File)
}

// Validate reports configuration that cannot drive a run.
func (c AppConfig) Validate() error {
	var errs []error
	if c.Input == "" {
		errs = append(errs, errors.New("input path is required"))
	}
	if c.Output == "" {
		errs = append(errs, errors.New("output path is required"))
	}
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown logging format %q", c.Logging.Format))
	}
	return errors.Join(errs...)
}

// Write renders cfg as YAML.
func Write(w io.Writer, cfg AppConfig) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return enc.Close()
}
