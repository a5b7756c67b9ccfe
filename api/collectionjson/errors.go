package collectionjson

// ErrorCode defines error types for document handling
type ErrorCode string

const (
	// ErrLinkNotFound represents a relation the server did not provide
	ErrLinkNotFound ErrorCode = "LinkNotFound"
	// ErrInvalidDocument represents a response body that is not a JSON object
	ErrInvalidDocument ErrorCode = "InvalidDocument"
)

func (c ErrorCode) ErrorCode() string {
	return string(c)
}
