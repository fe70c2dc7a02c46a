package subs

import "errors"

// Sentinel errors returned by the parsers and reconstructors in this
// package. Callers that need a stage-tagged error for user display should
// wrap these with internal/subterr.StageError.
var (
	// ErrUnknownFormat is returned by ParseFormat for an unrecognized
	// subtitle file extension.
	ErrUnknownFormat = errors.New("subs: unknown subtitle format")
)
