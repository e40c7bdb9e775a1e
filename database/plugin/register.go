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

package plugin

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/pflag"
)

// EnvPrefix is prepended to plugin option environment variable names
const EnvPrefix = "LOTTERY"

type PluginType int

const (
	PluginTypeBlob PluginType = iota + 1
	PluginTypeMetadata
)

func PluginTypeName(pluginType PluginType) string {
	switch pluginType {
	case PluginTypeBlob:
		return "blob"
	case PluginTypeMetadata:
		return "metadata"
	default:
		return "unknown"
	}
}

type PluginOptionType int

const (
	PluginOptionTypeString PluginOptionType = iota + 1
	PluginOptionTypeBool
	PluginOptionTypeInt
	PluginOptionTypeUint
)

type PluginOption struct {
	DefaultValue any
	Dest         any
	Name         string
	Description  string
	Type         PluginOptionType
}

type PluginEntry struct {
	NewFromOptionsFunc func(StartOptions) Plugin
	Name               string
	Description        string
	Options            []PluginOption
	Type               PluginType
}

var (
	pluginEntries      []PluginEntry
	pluginEntriesMutex sync.RWMutex
)

// Register adds a plugin to the registry. Plugins call this from init()
func Register(pluginEntry PluginEntry) {
	pluginEntriesMutex.Lock()
	defer pluginEntriesMutex.Unlock()
	pluginEntries = append(pluginEntries, pluginEntry)
}

// GetPlugins returns the registered plugins of the given type
func GetPlugins(pluginType PluginType) []PluginEntry {
	pluginEntriesMutex.RLock()
	defer pluginEntriesMutex.RUnlock()
	ret := []PluginEntry{}
	for _, entry := range pluginEntries {
		if entry.Type == pluginType {
			ret = append(ret, entry)
		}
	}
	return ret
}

// GetPlugin creates a new instance of the named plugin, or returns nil if
// no such plugin is registered
func GetPlugin(
	pluginType PluginType,
	pluginName string,
	opts StartOptions,
) Plugin {
	entry := findEntry(pluginType, pluginName)
	if entry == nil || entry.NewFromOptionsFunc == nil {
		return nil
	}
	return entry.NewFromOptionsFunc(opts)
}

func findEntry(pluginType PluginType, pluginName string) *PluginEntry {
	pluginEntriesMutex.RLock()
	defer pluginEntriesMutex.RUnlock()
	for i := range pluginEntries {
		if pluginEntries[i].Type == pluginType &&
			pluginEntries[i].Name == pluginName {
			return &pluginEntries[i]
		}
	}
	return nil
}

func optionKey(pluginType PluginType, pluginName string, optionName string) string {
	return fmt.Sprintf(
		"%s-%s-%s",
		PluginTypeName(pluginType),
		pluginName,
		optionName,
	)
}

// PopulateCmdlineOptions adds a flag for every plugin option, named
// <type>-<plugin>-<option>
func PopulateCmdlineOptions(fs *pflag.FlagSet) error {
	pluginEntriesMutex.RLock()
	defer pluginEntriesMutex.RUnlock()
	for _, entry := range pluginEntries {
		for _, opt := range entry.Options {
			name := optionKey(entry.Type, entry.Name, opt.Name)
			switch opt.Type {
			case PluginOptionTypeString:
				dest, ok := opt.Dest.(*string)
				defVal, ok2 := opt.DefaultValue.(string)
				if !ok || !ok2 {
					return fmt.Errorf("invalid string option %s", name)
				}
				fs.StringVar(dest, name, defVal, opt.Description)
			case PluginOptionTypeBool:
				dest, ok := opt.Dest.(*bool)
				defVal, ok2 := opt.DefaultValue.(bool)
				if !ok || !ok2 {
					return fmt.Errorf("invalid bool option %s", name)
				}
				fs.BoolVar(dest, name, defVal, opt.Description)
			case PluginOptionTypeInt:
				dest, ok := opt.Dest.(*int)
				defVal, ok2 := opt.DefaultValue.(int)
				if !ok || !ok2 {
					return fmt.Errorf("invalid int option %s", name)
				}
				fs.IntVar(dest, name, defVal, opt.Description)
			case PluginOptionTypeUint:
				dest, ok := opt.Dest.(*uint64)
				defVal, ok2 := opt.DefaultValue.(uint64)
				if !ok || !ok2 {
					return fmt.Errorf("invalid uint option %s", name)
				}
				fs.Uint64Var(dest, name, defVal, opt.Description)
			default:
				return fmt.Errorf("unknown plugin option type %d for option %s", opt.Type, name)
			}
		}
	}
	return nil
}

// ProcessEnvVars applies plugin options from environment variables named
// LOTTERY_<TYPE>_<PLUGIN>_<OPTION>
func ProcessEnvVars() error {
	for _, pluginType := range []PluginType{PluginTypeBlob, PluginTypeMetadata} {
		for _, entry := range GetPlugins(pluginType) {
			for _, opt := range entry.Options {
				envName := EnvPrefix + "_" + strings.ToUpper(
					strings.ReplaceAll(
						optionKey(entry.Type, entry.Name, opt.Name),
						"-",
						"_",
					),
				)
				envVal, ok := os.LookupEnv(envName)
				if !ok {
					continue
				}
				value, err := parseOptionValue(opt.Type, envVal)
				if err != nil {
					return fmt.Errorf("environment variable %s: %w", envName, err)
				}
				if err := opt.set(value); err != nil {
					return fmt.Errorf("environment variable %s: %w", envName, err)
				}
			}
		}
	}
	return nil
}

func parseOptionValue(optType PluginOptionType, val string) (any, error) {
	switch optType {
	case PluginOptionTypeString:
		return val, nil
	case PluginOptionTypeBool:
		return strconv.ParseBool(val)
	case PluginOptionTypeInt:
		return strconv.Atoi(val)
	case PluginOptionTypeUint:
		return strconv.ParseUint(val, 10, 64)
	default:
		return nil, fmt.Errorf("unknown plugin option type %d", optType)
	}
}

// ProcessConfig applies plugin options from the config file. The map is
// keyed by plugin type name, then plugin name, then option name.
func ProcessConfig(pluginConfig map[string]map[string]map[string]any) error {
	for _, pluginType := range []PluginType{PluginTypeBlob, PluginTypeMetadata} {
		typeConfig, ok := pluginConfig[PluginTypeName(pluginType)]
		if !ok {
			continue
		}
		for pluginName, options := range typeConfig {
			if findEntry(pluginType, pluginName) == nil {
				return fmt.Errorf(
					"unknown %s plugin: %s",
					PluginTypeName(pluginType),
					pluginName,
				)
			}
			for optName, optValue := range options {
				if err := SetPluginOption(pluginType, pluginName, optName, optValue); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
