// Package logfields defines the logging field names used across packages.
package logfields

const (
	// LogSubsys is the field denoting the subsystem when logging
	LogSubsys = "subsys"

	// File is the input file a message refers to ("-" for stdin)
	File = "file"

	// Line is a 1-based line number in File
	Line = "line"

	// Column is a 1-based byte column in Line
	Column = "column"

	// Policy is the name of the rewrite policy
	Policy = "policy"

	// Region is the lexical region left open by malformed input
	Region = "region"

	// RunID is the ULID of a batch run
	RunID = "runID"

	// Files is a number of input files
	Files = "files"

	// Duration is the time spent on one file
	Duration = "duration"
)
