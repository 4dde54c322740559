package config

import (
	"github.com/gobwas/glob"

	"github.com/lkoehl/jsmanifest/internal/errs"
)

// Validate checks a configuration for user errors before a scan
// starts: every glob pattern must compile and the output file must be
// set.
func Validate(cfg *Config) error {
	if len(cfg.Paths.Include) == 0 {
		return errs.Input("paths.include must list at least one pattern")
	}
	for _, pattern := range cfg.Paths.Include {
		if _, err := glob.Compile(pattern, '/'); err != nil {
			return errs.Input("invalid include pattern %q: %v", pattern, err)
		}
	}
	for _, pattern := range cfg.Paths.Ignore {
		if _, err := glob.Compile(pattern, '/'); err != nil {
			return errs.Input("invalid ignore pattern %q: %v", pattern, err)
		}
	}
	if cfg.Output.File == "" {
		return errs.Input("output.file must not be empty")
	}
	return nil
}
