package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime"

	"github.com/labstack/echo/v4"
)

// recoveryStackSize is the maximum stack trace size captured on panic (4KB).
const recoveryStackSize = 4 << 10

// Recovery returns a middleware that recovers from handler panics, logs the
// error with a stack trace, and answers with a 500 envelope. Command
// executors already contain their handlers' panics; this guards everything
// outside the executor boundary (binding, routing, response writing).
func Recovery(logger *slog.Logger) echo.MiddlewareFunc {
	if logger == nil {
		logger = slog.Default()
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			defer func() {
				if r := recover(); r != nil {
					err, ok := r.(error)
					if !ok {
						err = fmt.Errorf("%v", r)
					}

					stack := make([]byte, recoveryStackSize)
					length := runtime.Stack(stack, false)

					req := c.Request()
					logger.Error("panic recovered",
						slog.String("error", err.Error()),
						slog.String("method", req.Method),
						slog.String("path", req.URL.Path),
						slog.String("stack", string(stack[:length])),
					)

					if !c.Response().Committed {
						_ = c.JSON(http.StatusInternalServerError, map[string]any{
							"success": false,
							"errors": []map[string]string{{
								"message": "An internal error occurred",
								"kind":    "unknown_error",
							}},
						})
					}
				}
			}()

			return next(c)
		}
	}
}
