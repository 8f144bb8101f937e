package configloader

import "github.com/yaklabco/folio/pkg/config"

// Overrides holds configuration set by CLI flags. Nil fields were not given
// on the command line and leave the loaded value alone.
type Overrides struct {
	Addr     *string
	Watch    *bool
	OutDir   *string
	Jobs     *int
	Drafts   *bool
	LogLevel *string
}

// applyOverrides copies every set override onto cfg.
func applyOverrides(cfg *config.Config, o *Overrides) {
	if cfg == nil || o == nil {
		return
	}

	if o.Addr != nil {
		cfg.Server.Addr = *o.Addr
	}
	if o.Watch != nil {
		cfg.Server.Watch = *o.Watch
	}
	if o.OutDir != nil {
		cfg.Build.OutDir = *o.OutDir
	}
	if o.Jobs != nil {
		cfg.Build.Jobs = *o.Jobs
	}
	if o.Drafts != nil {
		cfg.Posts.Drafts = *o.Drafts
	}
	if o.LogLevel != nil {
		cfg.LogLevel = *o.LogLevel
	}
}
