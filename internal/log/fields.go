package log

// Canonical field name constants for structured logging.
const (
	FieldService   = "service"
	FieldComponent = "component"
	FieldRunID     = "run_id"

	// Host / item fields
	FieldHost    = "host"
	FieldItem    = "item"
	FieldName    = "name"
	FieldFile    = "file"
	FieldPath    = "path"
	FieldCommand = "command"

	// Session fields
	FieldProject  = "project"
	FieldTimeline = "timeline"

	// Timing fields
	FieldFPS          = "fps"
	FieldTimelineFPS  = "timeline_fps"
	FieldDropFrame    = "drop_frame"
	FieldSourceTC     = "source_tc"
	FieldStartTC      = "start_tc"
	FieldStartFrame   = "start_frame"
	FieldLeftOffset   = "left_offset"
	FieldCompoundName = "compound_name"
)
