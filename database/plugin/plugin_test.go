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

package plugin_test

import (
	"testing"

	"github.com/blinklabs-io/lottery/database/plugin"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type optionDests struct {
	name    string
	cache   uint64
	gc      bool
	workers int
}

func registerOptionPlugin(t *testing.T, name string) *optionDests {
	t.Helper()
	dests := &optionDests{}
	plugin.Register(plugin.PluginEntry{
		Type:               plugin.PluginTypeBlob,
		Name:               name,
		NewFromOptionsFunc: newMock,
		Options: []plugin.PluginOption{
			{
				Name:         "label",
				Type:         plugin.PluginOptionTypeString,
				DefaultValue: "default",
				Dest:         &(dests.name),
			},
			{
				Name:         "cache-size",
				Type:         plugin.PluginOptionTypeUint,
				DefaultValue: uint64(1024),
				Dest:         &(dests.cache),
			},
			{
				Name:         "gc",
				Type:         plugin.PluginOptionTypeBool,
				DefaultValue: true,
				Dest:         &(dests.gc),
			},
			{
				Name:         "workers",
				Type:         plugin.PluginOptionTypeInt,
				DefaultValue: 2,
				Dest:         &(dests.workers),
			},
		},
	})
	return dests
}

func TestSetPluginOption(t *testing.T) {
	dests := registerOptionPlugin(t, "opt-set")

	require.NoError(t, plugin.SetPluginOption(plugin.PluginTypeBlob, "opt-set", "label", "x"))
	assert.Equal(t, "x", dests.name)
	require.Error(t, plugin.SetPluginOption(plugin.PluginTypeBlob, "opt-set", "label", 123))

	require.NoError(t, plugin.SetPluginOption(plugin.PluginTypeBlob, "opt-set", "cache-size", uint64(5)))
	assert.Equal(t, uint64(5), dests.cache)
	require.NoError(t, plugin.SetPluginOption(plugin.PluginTypeBlob, "opt-set", "cache-size", 6))
	assert.Equal(t, uint64(6), dests.cache)
	require.Error(t, plugin.SetPluginOption(plugin.PluginTypeBlob, "opt-set", "cache-size", -1))

	require.NoError(t, plugin.SetPluginOption(plugin.PluginTypeBlob, "opt-set", "gc", false))
	assert.False(t, dests.gc)
	require.NoError(t, plugin.SetPluginOption(plugin.PluginTypeBlob, "opt-set", "workers", 8))
	assert.Equal(t, 8, dests.workers)

	// Unknown options are ignored
	require.NoError(t, plugin.SetPluginOption(plugin.PluginTypeBlob, "opt-set", "does-not-exist", "x"))
	require.Error(t, plugin.SetPluginOption(plugin.PluginTypeBlob, "nonexistent", "label", "x"))
}

func TestPopulateCmdlineOptions(t *testing.T) {
	dests := registerOptionPlugin(t, "opt-flags")
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	require.NoError(t, plugin.PopulateCmdlineOptions(fs))
	assert.Equal(t, "default", dests.name)
	assert.Equal(t, uint64(1024), dests.cache)
	require.NoError(t, fs.Parse([]string{
		"--blob-opt-flags-label=custom",
		"--blob-opt-flags-cache-size=2048",
		"--blob-opt-flags-gc=false",
	}))
	assert.Equal(t, "custom", dests.name)
	assert.Equal(t, uint64(2048), dests.cache)
	assert.False(t, dests.gc)
}

func TestProcessEnvVars(t *testing.T) {
	dests := registerOptionPlugin(t, "opt-env")
	t.Setenv("LOTTERY_BLOB_OPT_ENV_CACHE_SIZE", "4096")
	t.Setenv("LOTTERY_BLOB_OPT_ENV_GC", "true")
	require.NoError(t, plugin.ProcessEnvVars())
	assert.Equal(t, uint64(4096), dests.cache)
	assert.True(t, dests.gc)

	t.Setenv("LOTTERY_BLOB_OPT_ENV_WORKERS", "many")
	require.Error(t, plugin.ProcessEnvVars())
}

func TestProcessConfig(t *testing.T) {
	dests := registerOptionPlugin(t, "opt-config")
	err := plugin.ProcessConfig(map[string]map[string]map[string]any{
		"blob": {
			"opt-config": {
				"label":      "from-config",
				"cache-size": 10,
			},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "from-config", dests.name)
	assert.Equal(t, uint64(10), dests.cache)

	err = plugin.ProcessConfig(map[string]map[string]map[string]any{
		"metadata": {"no-such-plugin": {}},
	})
	require.Error(t, err)
}
