package apperr

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Body is the JSON shape of every error response.
type Body struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

var kindStatus = map[Kind]int{
	KindNotFound:        fiber.StatusNotFound,
	KindValidation:      fiber.StatusUnprocessableEntity,
	KindForbidden:       fiber.StatusForbidden,
	KindUnauthenticated: fiber.StatusUnauthorized,
	KindConflict:        fiber.StatusConflict,
	KindUnavailable:     fiber.StatusServiceUnavailable,
}

// Status maps a kind to its HTTP status code.
func Status(k Kind) int {
	if status, ok := kindStatus[k]; ok {
		return status
	}
	return fiber.StatusInternalServerError
}

var statusCodes = map[int]string{
	fiber.StatusBadRequest:          KindValidation.Code(),
	fiber.StatusUnprocessableEntity: KindValidation.Code(),
	fiber.StatusUnauthorized:        KindUnauthenticated.Code(),
	fiber.StatusForbidden:           KindForbidden.Code(),
	fiber.StatusNotFound:            KindNotFound.Code(),
	fiber.StatusMethodNotAllowed:    "method_not_allowed",
	fiber.StatusConflict:            KindConflict.Code(),
	fiber.StatusServiceUnavailable:  KindUnavailable.Code(),
}

// Handler returns the Fiber ErrorHandler translating errors into {code, message} bodies.
// Internal failures are logged and never leak their cause to the caller.
func Handler(log *zap.Logger) fiber.ErrorHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *fiber.Ctx, err error) error {
		status, body := resolve(err)
		if status >= fiber.StatusInternalServerError {
			log.Error("request failed",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Int("status", status),
				zap.Error(err),
			)
		}
		return c.Status(status).JSON(body)
	}
}

func resolve(err error) (int, Body) {
	var appErr *Error
	if errors.As(err, &appErr) {
		status := Status(appErr.Kind)
		msg := appErr.Message
		if appErr.Kind == KindInternal || msg == "" {
			msg = defaultMessage(status)
		}
		return status, Body{Code: appErr.Kind.Code(), Message: msg}
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code, ok := statusCodes[fiberErr.Code]
		if !ok {
			code = KindInternal.Code()
		}
		msg := fiberErr.Message
		if fiberErr.Code >= fiber.StatusInternalServerError {
			msg = defaultMessage(fiberErr.Code)
		}
		return fiberErr.Code, Body{Code: code, Message: msg}
	}

	return fiber.StatusInternalServerError, Body{
		Code:    KindInternal.Code(),
		Message: defaultMessage(fiber.StatusInternalServerError),
	}
}

func defaultMessage(status int) string {
	switch status {
	case fiber.StatusServiceUnavailable:
		return "service unavailable"
	case fiber.StatusInternalServerError:
		return "internal server error"
	}
	return "request failed"
}
