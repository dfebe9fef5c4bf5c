package errs

import (
	"errors"
	"net/http"
)

const (
	ErrStatusInternalServer         = http.StatusInternalServerError
	ErrStatusClient                 = http.StatusBadRequest
	ErrStatusNotLoggedIn            = http.StatusUnauthorized
	ErrStatusNoPermission           = http.StatusForbidden
	ErrStatusNotFound               = http.StatusNotFound
	ErrStatusConflict               = http.StatusConflict
	ErrStatusValidation             = http.StatusUnprocessableEntity
	ErrStatusFileSizeExceedingLimit = http.StatusRequestEntityTooLarge
)

var (
	ErrInternalServer         = errors.New("Internal server error")
	ErrClient                 = errors.New("Bad request")
	ErrValidation             = errors.New("Invalid request payload")
	ErrNotLoggedIn            = errors.New("No token, authorization denied")
	ErrInvalidToken           = errors.New("Invalid token")
	ErrTokenExpired           = errors.New("The token is already expired")
	ErrForbidden              = errors.New("Not authorised")
	ErrInvalidCredentials     = errors.New("Email or password is incorrect")
	ErrNotFound               = errors.New("Resource not found")
	ErrEmailAlreadyUsed       = errors.New("Email has already been used")
	ErrAlreadyReviewed        = errors.New("Product already reviewed")
	ErrConflict               = errors.New("Conflicting record found")
	ErrNoFileSelected         = errors.New("No file selected")
	ErrNotAnImage             = errors.New("Uploaded file is not an image")
	ErrFileSizeExceedingLimit = errors.New("Uploaded file exceeds the size limit")
)

var errorMap = map[error]int{
	ErrInternalServer:         ErrStatusInternalServer,
	ErrClient:                 ErrStatusClient,
	ErrValidation:             ErrStatusValidation,
	ErrNotLoggedIn:            ErrStatusNotLoggedIn,
	ErrInvalidToken:           ErrStatusNoPermission,
	ErrTokenExpired:           ErrStatusNoPermission,
	ErrForbidden:              ErrStatusNoPermission,
	ErrInvalidCredentials:     ErrStatusClient,
	ErrNotFound:               ErrStatusNotFound,
	ErrEmailAlreadyUsed:       ErrStatusConflict,
	ErrAlreadyReviewed:        ErrStatusConflict,
	ErrConflict:               ErrStatusConflict,
	ErrNoFileSelected:         ErrStatusClient,
	ErrNotAnImage:             ErrStatusClient,
	ErrFileSizeExceedingLimit: ErrStatusFileSizeExceedingLimit,
}

// GetErrorStatusCode returns the status of the sentinel err wraps. Unknown
// errors map to 500.
func GetErrorStatusCode(err error) int {
	return errorMap[Public(err)]
}

// Public returns the sentinel that is safe to show to a caller, or
// ErrInternalServer when err wraps none.
func Public(err error) error {
	if err == nil {
		return ErrInternalServer
	}

	for sentinel := range errorMap {
		if errors.Is(err, sentinel) {
			return sentinel
		}
	}

	return ErrInternalServer
}
