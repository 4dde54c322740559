// Package config loads scan configuration from
// .jsmanifest/config.yml with environment variable overrides.
package config

// Config represents the complete jsmanifest configuration.
type Config struct {
	Paths  PathsConfig  `yaml:"paths" mapstructure:"paths"`
	Output OutputConfig `yaml:"output" mapstructure:"output"`
}

// PathsConfig defines which files to scan and which to ignore.
type PathsConfig struct {
	Include []string `yaml:"include" mapstructure:"include"` // glob patterns for source files
	Ignore  []string `yaml:"ignore" mapstructure:"ignore"`   // glob patterns to skip
}

// OutputConfig defines where and how the manifest is written.
type OutputConfig struct {
	File       string `yaml:"file" mapstructure:"file"`               // manifest path, relative to the working directory
	Compress   bool   `yaml:"compress" mapstructure:"compress"`       // gzip the output
	FullFormat bool   `yaml:"full_format" mapstructure:"full_format"` // skip LLM simplification
	Intern     bool   `yaml:"intern" mapstructure:"intern"`           // apply string interning
}

// DefaultOutputFile is the manifest filename used when none is
// configured.
const DefaultOutputFile = "project.manifest.json"

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			Include: []string{
				"**/*.ts",
				"**/*.tsx",
				"**/*.js",
				"**/*.jsx",
				"**/*.mjs",
				"**/*.cjs",
				"**/*.mts",
				"**/*.cts",
			},
			Ignore: []string{
				"node_modules/**",
				".git/**",
				"dist/**",
				"build/**",
				"coverage/**",
				"vendor/**",
				"**/*.d.ts",
			},
		},
		Output: OutputConfig{
			File: DefaultOutputFile,
		},
	}
}

// SourceExtensions extracts unique file extensions from the include
// patterns, with leading dot. Used by watch mode to filter events.
func (c *Config) SourceExtensions() []string {
	seen := make(map[string]bool)
	extensions := []string{}
	for _, pattern := range c.Paths.Include {
		ext := extractExtension(pattern)
		if ext == "" || seen[ext] {
			continue
		}
		seen[ext] = true
		extensions = append(extensions, ext)
	}
	return extensions
}

// extractExtension extracts the file extension from a glob pattern.
// Returns empty string if the pattern doesn't end in a simple *.ext
// form. Examples: "**/*.ts" -> ".ts", "*.js" -> ".js".
func extractExtension(pattern string) string {
	for i := len(pattern) - 1; i >= 1; i-- {
		if pattern[i] == '.' && pattern[i-1] == '*' {
			return pattern[i:]
		}
	}
	return ""
}
