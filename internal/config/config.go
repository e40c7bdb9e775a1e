// Copyright 2025 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"

	"github.com/blinklabs-io/lottery/database/plugin"
	"github.com/blinklabs-io/lottery/lottery"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

type ctxKey string

const configContextKey ctxKey = "lottery.config"

func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configContextKey, cfg)
}

func FromContext(ctx context.Context) *Config {
	cfg, ok := ctx.Value(configContextKey).(*Config)
	if !ok {
		return nil
	}
	return cfg
}

const (
	DefaultBlobPlugin     = "badger"
	DefaultMetadataPlugin = "sqlite"
	DefaultDataDir        = ".lottery"
)

// ErrPluginListRequested is returned when the user asks for the available
// plugins instead of naming one
var ErrPluginListRequested = errors.New("plugin list requested")

type tempConfig struct {
	Config   yaml.Node                 `yaml:"config,omitempty"`
	Database *databaseConfig           `yaml:"database,omitempty"`
	Blob     map[string]map[string]any `yaml:"blob,omitempty"`
	Metadata map[string]map[string]any `yaml:"metadata,omitempty"`
}

type databaseConfig struct {
	Blob     map[string]any `yaml:"blob,omitempty"`
	Metadata map[string]any `yaml:"metadata,omitempty"`
}

type Config struct {
	DataDir        string `yaml:"dataDir"        split_words:"true"`
	BlobPlugin     string `yaml:"blobPlugin"     envconfig:"DATABASE_BLOB_PLUGIN"`
	MetadataPlugin string `yaml:"metadataPlugin" envconfig:"DATABASE_METADATA_PLUGIN"`
	Genesis        string `yaml:"genesis"`
	// Prometheus text file written when a command exits
	MetricsFile string `yaml:"metricsFile" split_words:"true"`
	// Fixed unix time reported to lottery operations, 0 uses the system clock
	FixedTime     uint64                `yaml:"fixedTime"     split_words:"true"`
	Debug         bool                  `yaml:"debug"`
	Tracing       bool                  `yaml:"tracing"`
	TracingStdout bool                  `yaml:"tracingStdout" split_words:"true"`
	Program       lottery.ProgramConfig `yaml:"program"`
}

// Clock returns the clock selected by the configuration
func (c *Config) Clock() lottery.Clock {
	if c.FixedTime > 0 {
		return lottery.FixedClock(c.FixedTime)
	}
	return lottery.SystemClock{}
}

func (c *Config) Validate() error {
	if err := c.Program.Validate(); err != nil {
		return fmt.Errorf("invalid program config: %w", err)
	}
	if c.BlobPlugin == "" || c.MetadataPlugin == "" {
		return errors.New("database plugins must be set")
	}
	return nil
}

// ListPlugins writes the available plugins of any type set to "list" and
// returns ErrPluginListRequested when it did so
func (c *Config) ListPlugins(w io.Writer) error {
	listed := false
	if c.BlobPlugin == "list" {
		fmt.Fprintln(w, "Available blob plugins:")
		for _, p := range plugin.GetPlugins(plugin.PluginTypeBlob) {
			fmt.Fprintf(w, "  %s: %s\n", p.Name, p.Description)
		}
		listed = true
	}
	if c.MetadataPlugin == "list" {
		fmt.Fprintln(w, "Available metadata plugins:")
		for _, p := range plugin.GetPlugins(plugin.PluginTypeMetadata) {
			fmt.Fprintf(w, "  %s: %s\n", p.Name, p.Description)
		}
		listed = true
	}
	if listed {
		return ErrPluginListRequested
	}
	return nil
}

var globalConfig = defaultConfig()

func defaultConfig() *Config {
	return &Config{
		DataDir:        DefaultDataDir,
		BlobPlugin:     DefaultBlobPlugin,
		MetadataPlugin: DefaultMetadataPlugin,
		Program:        lottery.DefaultProgramConfig(),
	}
}

// LoadConfig builds the configuration from defaults, the config file and the
// environment, in that order
func LoadConfig(configFile string) (*Config, error) {
	globalConfig = defaultConfig()
	// Load config file as YAML if provided
	if configFile == "" {
		// Check for config file in this path: ~/.lottery/lottery.yaml
		if homeDir, err := os.UserHomeDir(); err == nil {
			userPath := filepath.Join(homeDir, ".lottery", "lottery.yaml")
			if _, err := os.Stat(userPath); err == nil {
				configFile = userPath
			}
		}
		if configFile == "" {
			systemPath := "/etc/lottery/lottery.yaml"
			if _, err := os.Stat(systemPath); err == nil {
				configFile = systemPath
			}
		}
	}

	if configFile != "" {
		buf, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		if err := loadYaml(buf); err != nil {
			return nil, err
		}
	}
	// Process environment variables
	err := envconfig.Process("lottery", globalConfig)
	if err != nil {
		return nil, fmt.Errorf("error processing environment: %w", err)
	}
	// Process plugin environment variables
	err = plugin.ProcessEnvVars()
	if err != nil {
		return nil, fmt.Errorf(
			"error processing plugin environment variables: %w",
			err,
		)
	}
	return globalConfig, nil
}

func loadYaml(buf []byte) error {
	// First unmarshal into temp config to handle plugin sections
	var tempCfg tempConfig
	if err := yaml.Unmarshal(buf, &tempCfg); err != nil {
		return fmt.Errorf("error parsing config file: %w", err)
	}
	if tempCfg.Config.Kind != 0 {
		// Overlay only the keys present in the config section
		if err := tempCfg.Config.Decode(globalConfig); err != nil {
			return fmt.Errorf("error parsing config section: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(buf, globalConfig); err != nil {
			return fmt.Errorf("error parsing config file: %w", err)
		}
	}
	pluginConfig := make(map[string]map[string]map[string]any)
	if tempCfg.Blob != nil {
		pluginConfig["blob"] = tempCfg.Blob
	}
	if tempCfg.Metadata != nil {
		pluginConfig["metadata"] = tempCfg.Metadata
	}
	if tempCfg.Database != nil {
		if tempCfg.Database.Blob != nil {
			if name, ok := tempCfg.Database.Blob["plugin"].(string); ok {
				globalConfig.BlobPlugin = name
				delete(tempCfg.Database.Blob, "plugin")
			}
			mergePluginSection(pluginConfig, "blob", tempCfg.Database.Blob)
		}
		if tempCfg.Database.Metadata != nil {
			if name, ok := tempCfg.Database.Metadata["plugin"].(string); ok {
				globalConfig.MetadataPlugin = name
				delete(tempCfg.Database.Metadata, "plugin")
			}
			mergePluginSection(
				pluginConfig,
				"metadata",
				tempCfg.Database.Metadata,
			)
		}
	}
	if len(pluginConfig) > 0 {
		if err := plugin.ProcessConfig(pluginConfig); err != nil {
			return fmt.Errorf("error processing plugin config: %w", err)
		}
	}
	return nil
}

// mergePluginSection adds the per-plugin maps of a database section to the
// plugin config for the given plugin type
func mergePluginSection(
	pluginConfig map[string]map[string]map[string]any,
	pluginType string,
	section map[string]any,
) {
	sectionConfig := make(map[string]map[string]any)
	for k, v := range section {
		switch val := v.(type) {
		case map[string]any:
			sectionConfig[k] = val
		case map[any]any:
			stringAnyMap := make(map[string]any)
			for vk, vv := range val {
				if keyStr, ok := vk.(string); ok {
					stringAnyMap[keyStr] = vv
				}
			}
			sectionConfig[k] = stringAnyMap
		default:
			fmt.Fprintf(
				os.Stderr,
				"warning: skipping %s config entry %q: expected map, got %T\n",
				pluginType,
				k,
				v,
			)
		}
	}
	if pluginConfig[pluginType] == nil {
		pluginConfig[pluginType] = sectionConfig
	} else {
		maps.Copy(pluginConfig[pluginType], sectionConfig)
	}
}

func GetConfig() *Config {
	return globalConfig
}
