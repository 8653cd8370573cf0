package photark

import "fmt"

// DecodeError reports a source file that could not be opened or decoded as
// an image. It is fatal for that build: dimensions cannot be assumed, so no
// derivatives are produced.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// EncodeError reports a derivative that could not be written. It is fatal
// for the remaining steps of that build; derivatives written before it are
// left for best-effort cleanup.
type EncodeError struct {
	Path string
	Err  error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("encode %s: %v", e.Path, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }
