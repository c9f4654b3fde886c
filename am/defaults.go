package am

import (
	"github.com/spf13/viper"
)

// Default values shared by SetDefaults and Default()
var (
	DefaultInternalModules    = []string{"dsl", "ffi", "runtime", "reactive", "kryon"}
	DefaultExternalPlugins    = []string{"plugins/", "kryon-plugin-"}
	DefaultReservedStateNames = []string{"__kryon_meta", "__module_id", "__source_file", "__hot_reload"}
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("codegen.target", "lua")
	v.SetDefault("codegen.indent_width", 0) // dialect default
	v.SetDefault("codegen.preserve_source", true)
	v.SetDefault("codegen.internal_modules", DefaultInternalModules)
	v.SetDefault("codegen.external_plugins", DefaultExternalPlugins)
	v.SetDefault("codegen.reserved_state_names", DefaultReservedStateNames)
	v.SetDefault("codegen.parallelism", 4)
	v.SetDefault("codegen.formatter", "")
	v.SetDefault("codegen.compiler_version", "")

	v.SetDefault("log.json", false)
	v.SetDefault("log.theme", "everforest")

	v.SetDefault("watch.debounce_ms", 300)
	v.SetDefault("watch.max_runs_per_minute", 30)
}

// Default returns a Config populated with the built-in defaults only,
// without reading files or the environment.
func Default() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg, err := LoadWithViper(v)
	if err != nil {
		// Defaults always unmarshal; a failure here is a programming error
		panic(err)
	}
	return cfg
}
