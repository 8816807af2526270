// Package auth contains the per-request authentication gate, the access
// policy enforcement, and the login endpoint.
//
// Authentication and authorization are deliberately two stages: the gate
// only establishes an identity (or leaves the request anonymous) and never
// rejects anything itself, so public routes stay reachable even with a
// garbage Authorization header. Rejection is the policy's job.
package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ftoscano/user-directory/internal/apperr"
	"github.com/ftoscano/user-directory/internal/logging"
	"github.com/ftoscano/user-directory/internal/token"
)

const (
	bearerPrefix = "Bearer "
	identityKey  = "identity"
)

// Gate authenticates requests from their bearer token.
type Gate struct {
	tokens *token.Manager
	log    logging.Logger
}

func NewGate(tokens *token.Manager, log logging.Logger) *Gate {
	return &Gate{tokens: tokens, log: log}
}

// Authenticate runs once per request before the handlers. A missing header,
// a wrong scheme or an invalid token all leave the request anonymous; the
// verification sub-reason is logged but never surfaces to the client.
func (g *Gate) Authenticate(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" || !strings.HasPrefix(header, bearerPrefix) {
		return c.Next()
	}

	subject, err := g.tokens.Verify(strings.TrimPrefix(header, bearerPrefix))
	if err != nil {
		g.log.Warn(c.UserContext(), "token rejected", "reason", err, "path", c.Path())
		return c.Next()
	}

	if subject != "" && c.Locals(identityKey) == nil {
		c.Locals(identityKey, subject)
	}

	return c.Next()
}

// Subject returns the verified identity installed for this request, if any.
func Subject(c *fiber.Ctx) (string, bool) {
	subject, ok := c.Locals(identityKey).(string)
	return subject, ok && subject != ""
}

// Policy decides whether a request may proceed given its identity. A nil
// return allows it; the returned error is rendered into the envelope with
// transport status 200 like every other failure.
type Policy func(subject string, authenticated bool) error

// Authenticated allows any request that carries a verified identity.
func Authenticated(_ string, authenticated bool) error {
	if !authenticated {
		return apperr.Unauthorized()
	}
	return nil
}

// Require enforces policy on every route registered after it.
func Require(policy Policy) fiber.Handler {
	return func(c *fiber.Ctx) error {
		subject, ok := Subject(c)
		if err := policy(subject, ok); err != nil {
			return err
		}
		return c.Next()
	}
}
