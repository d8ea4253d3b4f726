/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package config loads the settings of the data-access layer.
//
// Sources, later ones winning: an optional YAML file, a .env file in the
// working directory, then the process environment. Environment keys are
// section-prefixed: DATABASE_URL maps to database.url, LOG_LEVEL to
// log.level and so on.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/tomoncle/userstore/database"
	"github.com/tomoncle/userstore/utils"
	"gopkg.in/yaml.v3"
)

// PathEnv names the environment variable holding the YAML file path used
// when Load is called with an empty path.
const PathEnv = "USERSTORE_CONFIG"

var sections = []string{"database", "log"}

type Config struct {
	Database database.ConnectionConfig `koanf:"database" yaml:"database" validate:"required"`
	Log      LogConfig                 `koanf:"log" yaml:"log"`
}

type LogConfig struct {
	Level  string `koanf:"level" yaml:"level" validate:"omitempty,oneof=trace debug info warn warning error fatal panic"`
	Format string `koanf:"format" yaml:"format" validate:"omitempty,oneof=text json"`
}

// Default returns the configuration used before any source is applied.
func Default() *Config {
	return &Config{
		Database: *database.DefaultConnectionConfig(),
		Log:      LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads the configuration. path may be empty, in which case PathEnv is
// consulted; a missing file at an explicit path is an error. Validation
// failures are reported as *database.ConfigurationError.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := Default()

	if path == "" {
		path = os.Getenv(PathEnv)
	}
	if path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, &database.ConfigurationError{Key: "environment", Err: err}
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Apply pushes the logging settings into the utils logger registry.
func (c *Config) Apply() {
	utils.ConfigureLogLevel(c.Log.Level)
	utils.ConfigureConsoleLogFormat(c.Log.Format)
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return &database.ConfigurationError{Key: path, Err: fmt.Errorf("failed to parse config file: %w", err)}
	}
	return nil
}

// envKey maps DATABASE_MAX_OPEN_CONNS to database.max_open_conns. Variables
// outside the known sections are skipped.
func envKey(s string) string {
	key := strings.ToLower(s)
	for _, section := range sections {
		if rest, ok := strings.CutPrefix(key, section+"_"); ok && rest != "" {
			return section + "." + rest
		}
	}
	return ""
}

func validate(cfg *Config) error {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("koanf"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	err := v.Struct(cfg)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		first := verrs[0]
		return &database.ConfigurationError{
			Key: envName(first.Namespace()),
			Err: fmt.Errorf("failed on the %q rule", first.Tag()),
		}
	}
	return &database.ConfigurationError{Key: "config", Err: err}
}

// envName turns a validator namespace such as Config.database.url into the
// environment variable that sets it.
func envName(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) > 0 && parts[0] == "Config" {
		parts = parts[1:]
	}
	return strings.ToUpper(strings.Join(parts, "_"))
}
