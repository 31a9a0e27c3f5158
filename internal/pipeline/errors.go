package pipeline

import "errors"

// ErrNoCandidates means the analyzing stage had nothing to select from.
// The job fails explicitly instead of completing with zero shorts.
var ErrNoCandidates = errors.New("no candidate segments produced")

// FetchError marks an unrecoverable media fetch failure: unreachable URL,
// no downloadable formats, or a network error mid-download.
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string {
	return "Failed to download video: " + e.Err.Error()
}

func (e *FetchError) Unwrap() error { return e.Err }

// RenderError means every selected segment failed to render. Individual
// render failures are recorded on their shorts and are not errors here.
type RenderError struct {
	Attempted int
	Err       error
}

func (e *RenderError) Error() string {
	if e.Err != nil {
		return "Failed to generate shorts: " + e.Err.Error()
	}
	return "Failed to generate shorts: all clips failed to render"
}

func (e *RenderError) Unwrap() error { return e.Err }
