// Package response renders the uniform status envelope. Every outcome,
// success or failure, leaves the process as transport 200 with the real
// code inside the status block.
package response

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Status carries the real outcome of a request plus a correlation id.
type Status struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	TraceID string `json:"traceId"`
}

// Envelope is the body of every action endpoint.
type Envelope struct {
	Status Status `json:"status"`
}

// NewStatus builds a status block with a fresh trace id.
func NewStatus(code int, message string) Status {
	return Status{
		Code:    code,
		Message: message,
		TraceID: uuid.NewString(),
	}
}

// OK writes a success envelope.
func OK(c *fiber.Ctx, message string) error {
	return c.JSON(Envelope{Status: NewStatus(fiber.StatusOK, message)})
}

// Fail writes a failure envelope. The transport status stays 200.
func Fail(c *fiber.Ctx, code int, message string) error {
	return c.JSON(Envelope{Status: NewStatus(code, message)})
}
