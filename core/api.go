package core

import "context"

// APIRequest describes one call to the remote REST API.
type APIRequest struct {
	Method string
	Path   string
	Body   interface{} // serialized as JSON when not nil

	// Auth attaches `Authorization: Bearer <Token>`. The token is not checked locally;
	// the backend is trusted to reject it.
	Auth  bool
	Token string
}

// APIClient performs requests against the remote REST API.
// Failures are always returned as *RequestError.
type APIClient interface {
	Do(ctx context.Context, req APIRequest, out interface{}) error
}

// Result is the outcome of one submission: either a value or a failure.
// It is produced once per attempt and consumed by the caller to update UI state.
type Result[T any] struct {
	value   T
	failure *RequestError
}

func Success[T any](v T) Result[T] {
	return Result[T]{value: v}
}

func Failure[T any](err *RequestError) Result[T] {
	if err == nil {
		err = &RequestError{}
	}
	return Result[T]{failure: err}
}

func (r Result[T]) Ok() bool { return r.failure == nil }

func (r Result[T]) Value() T { return r.value }

func (r Result[T]) Failure() *RequestError { return r.failure }

// Err returns the failure as an error, or nil on success.
func (r Result[T]) Err() error {
	if r.failure == nil {
		return nil
	}
	return r.failure
}
