package user

import "errors"

var ErrNotFound = errors.New("user not found")

// InvalidArgumentError is returned when a create request fails validation.
type InvalidArgumentError struct {
	Field   string
	Message string
}

func (e *InvalidArgumentError) Error() string {
	return e.Message
}

// Extensions is surfaced by the GraphQL layer next to the error message.
func (e *InvalidArgumentError) Extensions() map[string]interface{} {
	return map[string]interface{}{
		"code":  "BAD_USER_INPUT",
		"field": e.Field,
	}
}

func invalidArgument(field string) *InvalidArgumentError {
	return &InvalidArgumentError{Field: field, Message: "Invalid " + field + " value"}
}

// StorageError wraps a failure of the persistence layer. Its message is the
// underlying error's message.
type StorageError struct {
	Op   string
	Code string
	Err  error
}

func (e *StorageError) Error() string {
	return e.Err.Error()
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
