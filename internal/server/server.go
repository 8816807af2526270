// Package server wires the Fiber application: middleware chain, route
// registration order, and the centralized error-to-envelope mapping.
package server

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/ftoscano/user-directory/internal/apperr"
	"github.com/ftoscano/user-directory/internal/auth"
	"github.com/ftoscano/user-directory/internal/logging"
	"github.com/ftoscano/user-directory/internal/response"
	"github.com/ftoscano/user-directory/internal/token"
	"github.com/ftoscano/user-directory/internal/user"
)

// New builds the HTTP application. Route order matters: public routes are
// registered before the gate and policy middleware so they terminate the
// chain without touching either; everything registered after requires an
// identity.
func New(log logging.Logger, tokens *token.Manager, store user.Store) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: errorHandler(log),
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(requestLogger(log))

	userService := user.NewService(store, log)
	userHandler := user.NewHandler(userService)
	authHandler := auth.NewHandler(tokens, store)
	gate := auth.NewGate(tokens, log)

	authHandler.RegisterPublicRoutes(app)
	userHandler.RegisterPublicRoutes(app)

	app.Use(gate.Authenticate)
	app.Use(auth.Require(auth.Authenticated))

	userHandler.RegisterProtectedRoutes(app)

	// unmatched routes fall through to here and still get the envelope;
	// unauthenticated callers are stopped by the policy first, as upstream.
	app.Use(func(c *fiber.Ctx) error {
		return apperr.New(fiber.StatusNotFound, fmt.Sprintf("No endpoint %s %s", c.Method(), c.Path()))
	})

	return app
}

// errorHandler is the single place where errors become responses. Business
// errors keep their code and message; anything unexpected is logged in full
// and replaced by the generic error so no internal detail leaks. Transport
// status is always 200.
func errorHandler(log logging.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		if appErr, ok := apperr.As(err); ok {
			return response.Fail(c, appErr.Code, appErr.Message)
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return response.Fail(c, fiberErr.Code, fiberErr.Message)
		}

		log.Error(c.UserContext(), "unhandled error", "method", c.Method(), "path", c.Path(), "err", err)
		generic := apperr.Generic()
		return response.Fail(c, generic.Code, generic.Message)
	}
}

func requestLogger(log logging.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		log.Info(c.UserContext(), "request",
			"method", c.Method(),
			"path", c.Path(),
			"duration", time.Since(start),
		)
		return err
	}
}
