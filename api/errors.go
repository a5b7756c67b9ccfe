package api

// ErrorCode defines error types for API operations
type ErrorCode string

const (
	// ErrInvalidConfig represents a service configuration that cannot be used
	ErrInvalidConfig ErrorCode = "InvalidConfig"
	// ErrResolutionDepthExceeded represents a chain of "drops" links that
	// does not end
	ErrResolutionDepthExceeded ErrorCode = "ResolutionDepthExceeded"
	// ErrUnexpectedStatus represents an error response other than 401
	ErrUnexpectedStatus ErrorCode = "UnexpectedStatus"
	// ErrTemplateNotFound represents a resource without the form an
	// operation needs
	ErrTemplateNotFound ErrorCode = "TemplateNotFound"
	// ErrMissingLocation represents an upload that did not say where the
	// drop was created
	ErrMissingLocation ErrorCode = "MissingLocation"
	// ErrNoDrop represents a resource that does not contain a drop
	ErrNoDrop ErrorCode = "NoDrop"
	// ErrUnknownAction represents an action the representation does not offer
	ErrUnknownAction ErrorCode = "UnknownAction"
	// ErrNoToken represents an authentication response without a token
	ErrNoToken ErrorCode = "NoToken"
	// ErrInvalidFile represents an upload without content
	ErrInvalidFile ErrorCode = "InvalidFile"
)

func (c ErrorCode) ErrorCode() string {
	return string(c)
}
