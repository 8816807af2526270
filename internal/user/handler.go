package user

import (
	"regexp"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"

	"github.com/ftoscano/user-directory/internal/apperr"
	"github.com/ftoscano/user-directory/internal/response"
)

// Names must start with a letter; letters, spaces, dots, apostrophes and
// dashes are allowed after that.
var namePattern = regexp.MustCompile(`^\p{L}[\p{L} .'-]*$`)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes mounts the routes reachable without an identity.
// User creation is deliberately public so new users can be registered
// before they can log in.
func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Post("/user/v1/user", h.addUser)
}

// RegisterProtectedRoutes mounts the routes behind the access policy.
func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Put("/user/v1/user/:guid", h.updateUser)
	app.Get("/user/v1/user", h.getUsers)
}

type addUserRequest struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
}

// Validate checks the request fields in declaration order and reports the
// first violation only.
func (r addUserRequest) Validate() error {
	if err := validation.Validate(r.FirstName,
		validation.Required.Error("First name is required"),
		validation.RuneLength(0, 20).Error("First name is too long"),
		validation.Match(namePattern).Error("First name contains invalid characters"),
	); err != nil {
		return apperr.New(400, err.Error())
	}
	if err := validation.Validate(r.LastName,
		validation.Required.Error("Last name is required"),
		validation.RuneLength(0, 20).Error("Last name is too long"),
		validation.Match(namePattern).Error("Last name contains invalid characters"),
	); err != nil {
		return apperr.New(400, err.Error())
	}
	if err := validation.Validate(r.Email,
		validation.Required.Error("Email is required"),
		validation.RuneLength(0, 254).Error("Email is too long"),
	); err != nil {
		return apperr.New(400, err.Error())
	}
	if err := validation.Validate(r.PhoneNumber,
		validation.Required.Error("Phone is required"),
		validation.RuneLength(0, 20).Error("Phone is too long"),
		validation.Match(phonePattern).Error("Phone is not valid"),
	); err != nil {
		return apperr.New(400, err.Error())
	}
	return nil
}

func (r addUserRequest) toCriteria() AddCriteria {
	return AddCriteria{
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		Email:       r.Email,
		PhoneNumber: r.PhoneNumber,
	}
}

type getUsersResponse struct {
	Total int    `json:"total"`
	Users []View `json:"users"`
}

func (h *Handler) addUser(c *fiber.Ctx) error {
	req := new(addUserRequest)
	if err := c.BodyParser(req); err != nil {
		return apperr.New(400, "Request body is not valid")
	}
	if err := req.Validate(); err != nil {
		return err
	}

	if err := h.service.Add(req.toCriteria()); err != nil {
		return err
	}

	return response.OK(c, "User added.")
}

func (h *Handler) updateUser(c *fiber.Ctx) error {
	req := new(addUserRequest)
	if err := c.BodyParser(req); err != nil {
		return apperr.New(400, "Request body is not valid")
	}
	if err := req.Validate(); err != nil {
		return err
	}

	if err := h.service.Update(c.Params("guid"), req.toCriteria()); err != nil {
		return err
	}

	return response.OK(c, "User update.")
}

func (h *Handler) getUsers(c *fiber.Ctx) error {
	order, err := ParseOrderKey(c.Query("order"))
	if err != nil {
		return err
	}
	offset, err := intQuery(c, "offset", "Offset is not valid")
	if err != nil {
		return err
	}
	limit, err := intQuery(c, "limit", "Limit is not valid")
	if err != nil {
		return err
	}

	page, err := h.service.Find(&Criteria{
		Query:  c.Query("query"),
		Order:  order,
		Offset: offset,
		Limit:  limit,
	})
	if err != nil {
		return err
	}

	return c.JSON(getUsersResponse{Total: page.Total, Users: page.Items})
}

func intQuery(c *fiber.Ctx, name, invalidMsg string) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.New(400, invalidMsg)
	}
	return value, nil
}
