package vacmap

import "fmt"

// FetchError reports a failed blob or API fetch.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// FormatDecodeError reports a malformed or undersized header or payload.
type FormatDecodeError struct {
	Reason string
	Err    error
}

func (e *FormatDecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decoding map data: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("decoding map data: %s", e.Reason)
}

func (e *FormatDecodeError) Unwrap() error { return e.Err }

// decodeErrf builds a FormatDecodeError with a formatted reason.
func decodeErrf(format string, args ...any) *FormatDecodeError {
	return &FormatDecodeError{Reason: fmt.Sprintf(format, args...)}
}

// UnsupportedFormatError reports a recognized but unhandled map version.
type UnsupportedFormatError struct {
	Version int
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("map version %d is not supported", e.Version)
}

// PathDecodeError reports a failed path payload decode. It is always
// recovered by the pipeline: the map renders without a path overlay.
type PathDecodeError struct {
	Err error
}

func (e *PathDecodeError) Error() string {
	return fmt.Sprintf("decoding path data: %v", e.Err)
}

func (e *PathDecodeError) Unwrap() error { return e.Err }

// pathErrf builds a PathDecodeError from a formatted message.
func pathErrf(format string, args ...any) *PathDecodeError {
	return &PathDecodeError{Err: fmt.Errorf(format, args...)}
}

// RenderError reports a rasterization or compositing failure. Failures after
// the base raster exists are recovered: the pre-transform image is returned.
type RenderError struct {
	Stage string
	Err   error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("rendering (%s): %v", e.Stage, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }
