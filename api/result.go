package api

// Result is the outcome of a service operation. A 401 from the server is not
// an error: it is reported by Unauthorized and the value is the zero value.
type Result[T any] struct {
	value        T
	unauthorized bool
}

func success[T any](v T) Result[T] {
	return Result[T]{value: v}
}

func denied[T any]() Result[T] {
	return Result[T]{unauthorized: true}
}

// Value returns the resolved value. It is the zero value when Unauthorized.
func (r Result[T]) Value() T {
	return r.value
}

// Successful reports whether the server accepted the credentials.
func (r Result[T]) Successful() bool {
	return !r.unauthorized
}

// Unauthorized reports whether the server answered 401.
func (r Result[T]) Unauthorized() bool {
	return r.unauthorized
}
