package httpx

import (
	"errors"
	"net/http"

	"github.com/tyreledger/tyreledger/internal/shared"
)

// RespondError maps the engine's error taxonomy to HTTP responses.
func RespondError(w http.ResponseWriter, err error) {
	var ve *shared.ValidationError
	switch {
	case errors.As(err, &ve):
		Problem(w, http.StatusBadRequest, "Validation Failed", ve.Error())
	case errors.Is(err, shared.ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, shared.ErrIdempotencyConflict):
		Problem(w, http.StatusConflict, "Duplicate Operation", err.Error())
	case errors.Is(err, shared.ErrStore):
		Problem(w, http.StatusBadGateway, "Store Unavailable", err.Error())
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
