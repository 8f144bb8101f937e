package logging

// Field name constants for structured logging.
// Using constants prevents typos and enables IDE autocomplete.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldInput      = "input"
	FieldOutput     = "output"
	FieldWorkingDir = "working_dir"
	FieldConfig     = "config"

	// Content fields.
	FieldSlug    = "slug"
	FieldTitle   = "title"
	FieldPosts   = "posts"
	FieldSource  = "source"
	FieldEvent   = "event"
	FieldWords   = "words"
	FieldChanged = "changed"

	// HTTP fields.
	FieldAddr     = "addr"
	FieldMethod   = "method"
	FieldRoute    = "route"
	FieldStatus   = "status"
	FieldDuration = "duration"

	// Build fields.
	FieldJobs      = "jobs"
	FieldPages     = "pages"
	FieldWritten   = "written"
	FieldUnchanged = "unchanged"
	FieldFailed    = "failed"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
