package types

import "errors"

// Error kinds surfaced by the pipeline. Wrap with fmt.Errorf("%w: ...") and
// match with errors.Is. Thumbnail extraction failures are intentionally not
// represented here: they are logged and swallowed, never propagated.
var (
	// ErrInvalidInput covers empty narration, zero audio duration and
	// collaborator output that does not parse into the expected shape.
	ErrInvalidInput = errors.New("invalid input")

	// ErrCollaboratorFailure covers failed script/image/speech/probe calls.
	ErrCollaboratorFailure = errors.New("collaborator failure")

	// ErrEncodingFailure covers a non-zero encoder exit or missing output.
	ErrEncodingFailure = errors.New("encoding failure")
)
