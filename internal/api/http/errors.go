package httpapi

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/oceanwx/marine-aggregator/internal/apperr"
)

// errorBody is the fixed shape every error response takes, regardless of
// which layer raised it.
type errorBody struct {
	Status    int       `json:"status"`
	Message   string    `json:"message"`
	Path      string    `json:"path"`
	Method    string    `json:"method"`
	Timestamp time.Time `json:"timestamp"`
}

// ErrorHandler centralizes status-code mapping: apperr codes map to
// NotFound->404, Timeout->504, Upstream->502, Internal->500; a bare
// *fiber.Error (routing, body parsing) keeps its own status.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := err.Error()

	if fe, ok := err.(*fiber.Error); ok {
		status = fe.Code
		message = fe.Message
	} else {
		switch apperr.CodeOf(err) {
		case apperr.CodeNotFound:
			status = fiber.StatusNotFound
		case apperr.CodeTimeout:
			status = fiber.StatusGatewayTimeout
		case apperr.CodeUpstreamUnavailable:
			status = fiber.StatusBadGateway
		default:
			status = fiber.StatusInternalServerError
		}
	}

	return c.Status(status).JSON(errorBody{
		Status:    status,
		Message:   message,
		Path:      c.Path(),
		Method:    c.Method(),
		Timestamp: time.Now().UTC(),
	})
}
