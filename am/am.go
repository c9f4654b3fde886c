package am

// Config represents the kirgen configuration
type Config struct {
	Codegen CodegenConfig `mapstructure:"codegen" toml:"codegen" json:"codegen" yaml:"codegen"`
	Log     LogConfig     `mapstructure:"log" toml:"log" json:"log" yaml:"log"`
	Watch   WatchConfig   `mapstructure:"watch" toml:"watch" json:"watch" yaml:"watch"`
}

// CodegenConfig configures source reconstruction and multi-module generation
type CodegenConfig struct {
	Target         string `mapstructure:"target" toml:"target" json:"target" yaml:"target"`                         // lua or python
	IndentWidth    int    `mapstructure:"indent_width" toml:"indent_width" json:"indent_width" yaml:"indent_width"` // 0 = dialect default
	PreserveSource bool   `mapstructure:"preserve_source" toml:"preserve_source" json:"preserve_source" yaml:"preserve_source"`

	// Module ids never generated: runtime modules shipped with the host,
	// and plugin ids (matched by prefix) resolved at load time.
	InternalModules []string `mapstructure:"internal_modules" toml:"internal_modules" json:"internal_modules" yaml:"internal_modules"`
	ExternalPlugins []string `mapstructure:"external_plugins" toml:"external_plugins" json:"external_plugins" yaml:"external_plugins"`

	// Housekeeping state variables that never get an initializer
	ReservedStateNames []string `mapstructure:"reserved_state_names" toml:"reserved_state_names" json:"reserved_state_names" yaml:"reserved_state_names"`

	Parallelism     int    `mapstructure:"parallelism" toml:"parallelism" json:"parallelism" yaml:"parallelism"`                     // concurrent module generations
	Formatter       string `mapstructure:"formatter" toml:"formatter" json:"formatter" yaml:"formatter"`                             // e.g. "stylua {file}"
	CompilerVersion string `mapstructure:"compiler_version" toml:"compiler_version" json:"compiler_version" yaml:"compiler_version"` // semver constraint on metadata.compiler_version
}

// LogConfig configures diagnostic output
type LogConfig struct {
	JSON  bool   `mapstructure:"json" toml:"json" json:"json" yaml:"json"`
	Theme string `mapstructure:"theme" toml:"theme" json:"theme" yaml:"theme"` // gruvbox, everforest
}

// WatchConfig configures regeneration on KIR file changes
type WatchConfig struct {
	DebounceMs       int `mapstructure:"debounce_ms" toml:"debounce_ms" json:"debounce_ms" yaml:"debounce_ms"`
	MaxRunsPerMinute int `mapstructure:"max_runs_per_minute" toml:"max_runs_per_minute" json:"max_runs_per_minute" yaml:"max_runs_per_minute"` // 0 = unlimited
}

// Supported target languages
var Targets = []string{"lua", "python"}

// File system constants
const (
	DefaultDirPermissions  = 0755 // Standard directory permissions (rwxr-xr-x)
	DefaultFilePermissions = 0644 // Standard file permissions (rw-r--r--)
)

// ProjectConfigName is the file name searched for when walking up from the working directory
const ProjectConfigName = "kirgen.toml"
