package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/tyrekeeper/internal/common"
	"github.com/dmitrijs2005/tyrekeeper/internal/validation"
)

const internalErrorMessage = "Internal server error"

// responseFor maps err to the outward status and message. fallback is the
// route-specific message used for store failures and duplicate usernames.
func responseFor(err error, fallback string) (int, string) {
	if fallback == "" {
		fallback = internalErrorMessage
	}

	switch common.KindOf(err) {
	case common.KindValidation:
		var verr *validation.Error
		if errors.As(err, &verr) {
			return http.StatusBadRequest, verr.Error()
		}
		return http.StatusBadRequest, "validation error"
	case common.KindInvalidCredentials:
		return http.StatusUnauthorized, "Invalid username or password"
	case common.KindMissingAuthHeader:
		return http.StatusUnauthorized, "Authorization header missing"
	case common.KindInvalidToken:
		return http.StatusUnauthorized, "Invalid token"
	case common.KindNotFound:
		return http.StatusNotFound, "Not found"
	case common.KindDuplicateUsername:
		// same answer as any other registration failure
		return http.StatusInternalServerError, fallback
	default:
		return http.StatusInternalServerError, fallback
	}
}
