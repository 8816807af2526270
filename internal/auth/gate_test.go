package auth

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ftoscano/user-directory/internal/apperr"
	"github.com/ftoscano/user-directory/internal/logging"
	"github.com/ftoscano/user-directory/internal/response"
	"github.com/ftoscano/user-directory/internal/token"
)

const gateTestSecret = "0123456789abcdef0123456789abcdef"

func newGateTestManager(t *testing.T) *token.Manager {
	t.Helper()
	m, err := token.NewManager(token.Config{Secret: gateTestSecret, Issuer: "user-directory", TTL: time.Hour})
	if err != nil {
		t.Fatalf("token manager: %v", err)
	}
	return m
}

func discardLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// builds an app mirroring the production middleware order: a public probe,
// then the gate, then the policy, then a protected probe echoing the subject.
func makeGateApp(t *testing.T, tokens *token.Manager) *fiber.App {
	t.Helper()
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if appErr, ok := apperr.As(err); ok {
				return response.Fail(c, appErr.Code, appErr.Message)
			}
			return response.Fail(c, 500, "Generic error")
		},
	})

	app.Get("/public", func(c *fiber.Ctx) error {
		return c.SendString("public ok")
	})

	gate := NewGate(tokens, discardLogger())
	app.Use(gate.Authenticate)
	app.Use(Require(Authenticated))

	app.Get("/whoami", func(c *fiber.Ctx) error {
		subject, _ := Subject(c)
		return c.SendString(subject)
	})

	return app
}

func TestGate_MissingHeaderStaysAnonymous(t *testing.T) {
	app := makeGateApp(t, newGateTestManager(t))

	res, err := app.Test(httptest.NewRequest("GET", "/whoami", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("rejections must keep transport 200, got %d", res.StatusCode)
	}
	var env response.Envelope
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil {
		t.Fatalf("could not decode envelope: %v", err)
	}
	if env.Status.Code != 401 || env.Status.Message != "Unauthorized" {
		t.Fatalf("expected 401 Unauthorized in envelope, got %+v", env.Status)
	}
	if env.Status.TraceID == "" {
		t.Fatalf("expected a traceId on the rejection envelope")
	}
}

func TestGate_InvalidTokenFallsThroughSilently(t *testing.T) {
	app := makeGateApp(t, newGateTestManager(t))

	// a garbage token must not block public routes
	req := httptest.NewRequest("GET", "/public", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("public request failed: %v", err)
	}
	b, _ := io.ReadAll(res.Body)
	if string(b) != "public ok" {
		t.Fatalf("public route not reachable with garbage token: %s", string(b))
	}

	// on a protected route it simply means anonymous, so the policy rejects
	req2 := httptest.NewRequest("GET", "/whoami", nil)
	req2.Header.Set("Authorization", "Bearer garbage")
	res2, err := app.Test(req2)
	if err != nil {
		t.Fatalf("protected request failed: %v", err)
	}
	var env response.Envelope
	if err := json.NewDecoder(res2.Body).Decode(&env); err != nil {
		t.Fatalf("could not decode envelope: %v", err)
	}
	if env.Status.Code != 401 {
		t.Fatalf("expected envelope 401 for invalid token, got %+v", env.Status)
	}
}

func TestGate_ValidTokenInstallsSubject(t *testing.T) {
	tokens := newGateTestManager(t)
	app := makeGateApp(t, tokens)

	signed, err := tokens.Issue("mario.rossi@test.it")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	b, _ := io.ReadAll(res.Body)
	if string(b) != "mario.rossi@test.it" {
		t.Fatalf("expected verified subject, got %q", string(b))
	}
}

func TestGate_DoesNotOverwriteExistingIdentity(t *testing.T) {
	tokens := newGateTestManager(t)

	app := fiber.New()
	// something upstream already established an identity for this request
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(identityKey, "already-set@test.it")
		return c.Next()
	})
	gate := NewGate(tokens, discardLogger())
	app.Use(gate.Authenticate)
	app.Get("/whoami", func(c *fiber.Ctx) error {
		subject, _ := Subject(c)
		return c.SendString(subject)
	})

	signed, err := tokens.Issue("other@test.it")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	b, _ := io.ReadAll(res.Body)
	if string(b) != "already-set@test.it" {
		t.Fatalf("identity was overwritten: %q", string(b))
	}
}

func TestRequire_ForbiddenPolicyKeepsTransport200(t *testing.T) {
	tokens := newGateTestManager(t)

	denyAll := func(subject string, authenticated bool) error {
		if !authenticated {
			return apperr.Unauthorized()
		}
		return apperr.Forbidden()
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if appErr, ok := apperr.As(err); ok {
				return response.Fail(c, appErr.Code, appErr.Message)
			}
			return response.Fail(c, 500, "Generic error")
		},
	})
	gate := NewGate(tokens, discardLogger())
	app.Use(gate.Authenticate)
	app.Use(Require(denyAll))
	app.Get("/restricted", func(c *fiber.Ctx) error { return c.SendString("never") })

	signed, err := tokens.Issue("mario.rossi@test.it")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	req := httptest.NewRequest("GET", "/restricted", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected transport 200, got %d", res.StatusCode)
	}
	var env response.Envelope
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil {
		t.Fatalf("could not decode envelope: %v", err)
	}
	if env.Status.Code != 403 || env.Status.Message != "Forbidden" {
		t.Fatalf("expected 403 Forbidden in envelope, got %+v", env.Status)
	}
}
