package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthorized indicates a request without a valid session.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrConflict indicates a uniqueness violation.
	ErrConflict = errors.New("already exists")
)

// UserSafeMessage maps internal errors to messages safe to return to clients.
func UserSafeMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return "Resource not found"
	case errors.Is(err, ErrInvalidCredentials):
		return "Invalid email or password"
	case errors.Is(err, ErrUnauthorized):
		return "Please sign in first"
	case errors.Is(err, ErrConflict):
		return "A record with the same identifier already exists"
	}
	var ve ValidationError
	if errors.As(err, &ve) {
		return ve.Error()
	}
	return "Something went wrong, please try again"
}

// HTTPStatus maps service errors onto response codes.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return 200
	case errors.Is(err, ErrNotFound):
		return 404
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrInvalidCredentials):
		return 401
	case errors.Is(err, ErrConflict):
		return 409
	}
	var ve ValidationError
	if errors.As(err, &ve) {
		return 422
	}
	return 500
}

// ValidationError carries a message that is already phrased for end users.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

// Invalid builds a ValidationError.
func Invalid(msg string) error { return ValidationError(msg) }
