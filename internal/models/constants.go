package models

// Field limits enforced before writes reach the store
const (
	MaxNameLength    = 100
	MaxTitleLength   = 255
	MaxCommentLength = 5000
)

// DoneStatusName is the conventional name of the terminal status. Tasks in a status
// with this name are not counted as open on the dashboard.
const DoneStatusName = "Done"
