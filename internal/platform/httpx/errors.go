package httpx

import (
	"errors"
	"net/http"

	"github.com/cazuela-chapina/cazuela/internal/shared"
)

// RespondError maps domain errors to HTTP responses.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		Fail(w, http.StatusNotFound, err.Error())
	case errors.Is(err, shared.ErrValidation),
		errors.Is(err, shared.ErrNoFields),
		errors.Is(err, shared.ErrInvalidInput):
		Fail(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, shared.ErrInvalidCredentials),
		errors.Is(err, shared.ErrUnauthorized):
		Fail(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, shared.ErrForbidden):
		Fail(w, http.StatusForbidden, err.Error())
	case errors.Is(err, shared.ErrDuplicate):
		Fail(w, http.StatusConflict, err.Error())
	default:
		Fail(w, http.StatusInternalServerError, "internal error")
	}
}
