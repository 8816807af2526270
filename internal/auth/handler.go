package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ftoscano/user-directory/internal/apperr"
	"github.com/ftoscano/user-directory/internal/response"
	"github.com/ftoscano/user-directory/internal/token"
	"github.com/ftoscano/user-directory/internal/user"
)

// Handler exposes the login endpoint. Login only checks that the email is
// known to the directory and then issues a token for it; there is no
// password in this flow.
type Handler struct {
	tokens *token.Manager
	store  user.Store
}

func NewHandler(tokens *token.Manager, store user.Store) *Handler {
	return &Handler{tokens: tokens, store: store}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Post("/auth/login", h.login)
}

type loginRequest struct {
	Email string `json:"email"`
}

func (h *Handler) login(c *fiber.Ctx) error {
	req := new(loginRequest)
	if err := c.BodyParser(req); err != nil {
		return apperr.New(400, "Email is required")
	}
	if strings.TrimSpace(req.Email) == "" {
		return apperr.New(400, "Email is required")
	}

	if _, err := h.store.GetByEmail(req.Email); err != nil {
		return apperr.Unauthorized()
	}

	signed, err := h.tokens.Issue(req.Email)
	if err != nil {
		return err
	}

	// success envelope carries the token in the message field
	return response.OK(c, signed)
}
