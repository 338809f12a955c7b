package importer

import "errors"

// Import errors. Directory failures end the run, naming failures skip one
// file, and mapping or storage failures skip one row.
var (
	ErrDirectory = errors.New("upload directory unavailable")
	ErrNaming    = errors.New("cannot extract class from file name")
	ErrMapping   = errors.New("row cannot be mapped")
	ErrStorage   = errors.New("record not stored")
)
