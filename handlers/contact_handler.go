package handlers

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/ozanyurt/voice-campaign-service/internal/domain"
	"github.com/ozanyurt/voice-campaign-service/pkg/response"
	"github.com/ozanyurt/voice-campaign-service/pkg/validator"
)

// contactRegistry is the slice of the contact repository these glue
// endpoints need.
type contactRegistry interface {
	Create(ctx context.Context, name, phoneNumber, tag, region string) (*domain.Contact, error)
	GetAll(ctx context.Context, page, pageSize int) ([]domain.Contact, int64, error)
}

type ContactHandler struct {
	contacts contactRegistry
}

func NewContactHandler(contacts contactRegistry) *ContactHandler {
	return &ContactHandler{contacts: contacts}
}

type CreateContactRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	PhoneNumber string `json:"phoneNumber" validate:"required,e164"`
	Tag         string `json:"tag" validate:"omitempty,max=100"`
	Region      string `json:"region" validate:"omitempty,max=50"`
}

// CreateContact godoc
// @Summary Add a contact
// @Tags contacts
// @Accept json
// @Produce json
// @Param x-api-key header string true "API key for contacts"
// @Param contact body CreateContactRequest true "Contact to add"
// @Success 201 {object} response.SuccessResponse
// @Failure 400 {object} response.ErrorResponse
// @Router /api/v1/contacts [post]
func (h *ContactHandler) CreateContact(c echo.Context) error {
	var req CreateContactRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return validator.HandleValidationError(c, err)
	}

	region := req.Region
	if region == "" {
		region = "global"
	}

	contact, err := h.contacts.Create(c.Request().Context(), req.Name, req.PhoneNumber, req.Tag, region)
	if err != nil {
		return response.InternalServerError(c, err)
	}

	return response.Created(c, "Contact created successfully", contact)
}

// ListContacts godoc
// @Summary List contacts
// @Tags contacts
// @Produce json
// @Param x-api-key header string true "API key for contacts"
// @Param page query int false "Page number (default: 1)"
// @Param pageSize query int false "Page size (default: 20, max: 100)"
// @Success 200 {object} response.PaginatedResponse
// @Failure 400 {object} response.ErrorResponse
// @Router /api/v1/contacts [get]
func (h *ContactHandler) ListContacts(c echo.Context) error {
	page, pageSize, err := parsePaginationParams(c)
	if err != nil {
		return response.BadRequest(c, err)
	}

	contacts, totalCount, err := h.contacts.GetAll(c.Request().Context(), page, pageSize)
	if err != nil {
		return response.InternalServerError(c, err)
	}

	return response.Paginated(c, contacts, page, pageSize, totalCount)
}
