package ir

// Version constants for the record schema and engine.
const (
	// SchemaVersion is the record JSON layout version.
	SchemaVersion = "1"

	// EngineVersion is the classroom engine version.
	EngineVersion = "0.1.0"
)
