package server

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/theplant/staymarket/filter"
)

type errorResponse struct {
	Error    string   `json:"error"`
	Message  string   `json:"message"`
	Problems []string `json:"problems,omitempty"`
}

func errorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		resp := errorResponse{Message: "internal server error"}

		var verr *filter.ValidationError
		var herr *echo.HTTPError
		switch {
		case errors.As(err, &verr):
			code = http.StatusBadRequest
			resp.Message = "invalid filter"
			resp.Problems = verr.Problems
		case errors.As(err, &herr):
			code = herr.Code
			resp.Message = fmt.Sprint(herr.Message)
		default:
			req := c.Request()
			logger.ErrorContext(req.Context(), "request failed",
				"method", req.Method,
				"uri", req.RequestURI,
				"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
				"error", err,
			)
		}
		resp.Error = http.StatusText(code)

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, resp)
		}
		if err != nil {
			logger.Error("failed to write error response", "error", err)
		}
	}
}
