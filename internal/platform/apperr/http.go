package apperr

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// HTTPStatus maps an error kind to its response status code.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindAuthorization:
		return http.StatusForbidden
	case KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// errorBody is the JSON error envelope returned to clients.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// HTTPErrorHandler returns an echo error handler that translates classified
// errors into their status codes. Unclassified errors become opaque 500s;
// echo.HTTPError values pass through unchanged.
func HTTPErrorHandler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		body := errorBody{Error: "internal", Message: "internal server error"}

		if he, ok := err.(*echo.HTTPError); ok {
			status = he.Code
			body.Error = http.StatusText(status)
			if msg, ok := he.Message.(string); ok {
				body.Message = msg
			}
		} else if kind := KindOf(err); kind != KindUnknown {
			status = HTTPStatus(kind)
			body.Error = kind.String()
			body.Message = err.Error()
		} else {
			logger.Error().Err(err).Str("path", c.Request().URL.Path).Msg("unclassified error")
		}

		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(status)
		} else {
			werr = c.JSON(status, body)
		}
		if werr != nil {
			logger.Error().Err(werr).Msg("failed to write error response")
		}
	}
}
