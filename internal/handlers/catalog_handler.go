package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/skillbridge/backend/internal/models"
	"github.com/skillbridge/backend/libs/handlers"
	"go.uber.org/zap"
)

// CategoryService is the interface that wraps methods for category business logic
type CategoryService interface {
	// Create stores a category. A duplicate name results in apperrors.ErrConflict.
	Create(ctx context.Context, req *models.CreateCategoryRequest) (*models.Category, error)
	GetAll(ctx context.Context) ([]models.Category, error)
	GetByID(ctx context.Context, id int) (*models.Category, error)
	// Update applies a partial update; nil fields are left untouched.
	Update(ctx context.Context, id int, req *models.UpdateCategoryRequest) (*models.Category, error)
	Delete(ctx context.Context, id int) error
}

// ContactService is the interface that wraps methods for contact form business logic
type ContactService interface {
	Create(ctx context.Context, req *models.CreateContactRequest) (*models.ContactMessage, error)
	// GetAll lists messages newest first. Zero page or count fall back to defaults.
	GetAll(ctx context.Context, page, count int) ([]models.ContactMessage, error)
}

// CatalogHandler handles category and contact form HTTP requests
type CatalogHandler struct {
	handlers.BaseHandler
	categoryService CategoryService
	contactService  ContactService
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(categoryService CategoryService, contactService ContactService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		BaseHandler:     handlers.BaseHandler{Logger: logger},
		categoryService: categoryService,
		contactService:  contactService,
	}
}

// RegisterRoutes registers all catalog handler routes
func (h *CatalogHandler) RegisterRoutes(r chi.Router, guards Guards) {
	r.Get("/categories", h.GetCategories)
	r.Get("/categories/{categoryId}", h.GetCategory)
	r.With(guards.Admin).Post("/categories", h.CreateCategory)
	r.With(guards.Admin).Patch("/categories/{categoryId}", h.UpdateCategory)
	r.With(guards.Admin).Delete("/categories/{categoryId}", h.DeleteCategory)

	r.Post("/contact", h.CreateContactMessage)
	r.With(guards.Admin).Get("/contact", h.GetContactMessages)
}

// GetCategories handles GET /categories
// @Summary List categories
// @Tags categories
// @Produce json
// @Success 200 {object} handlers.Response{data=[]models.Category} "Categories"
// @Router /categories [get]
func (h *CatalogHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoryService.GetAll(r.Context())
	if err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	h.RespondSuccess(w, http.StatusOK, "categories fetched", categories)
}

// GetCategory handles GET /categories/{categoryId}
// @Summary Get category by ID
// @Tags categories
// @Produce json
// @Param categoryId path int true "Category ID"
// @Success 200 {object} handlers.Response{data=models.Category} "Category"
// @Failure 404 {object} handlers.Response "Category not found"
// @Router /categories/{categoryId} [get]
func (h *CatalogHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "categoryId")
	if err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	category, err := h.categoryService.GetByID(r.Context(), id)
	if err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	h.RespondSuccess(w, http.StatusOK, "category fetched", category)
}

// CreateCategory handles POST /categories
// @Summary Create category
// @Tags categories
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body models.CreateCategoryRequest true "Category"
// @Success 201 {object} handlers.Response{data=models.Category} "Created category"
// @Failure 403 {object} handlers.Response "Admin role required"
// @Failure 409 {object} handlers.Response "Category already exists"
// @Router /categories [post]
func (h *CatalogHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	category, err := h.categoryService.Create(r.Context(), &req)
	if err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	h.RespondSuccess(w, http.StatusCreated, "category created", category)
}

// UpdateCategory handles PATCH /categories/{categoryId}
// @Summary Update category
// @Tags categories
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param categoryId path int true "Category ID"
// @Param request body models.UpdateCategoryRequest true "Fields to update"
// @Success 200 {object} handlers.Response{data=models.Category} "Updated category"
// @Failure 404 {object} handlers.Response "Category not found"
// @Router /categories/{categoryId} [patch]
func (h *CatalogHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "categoryId")
	if err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	var req models.UpdateCategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	category, err := h.categoryService.Update(r.Context(), id, &req)
	if err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	h.RespondSuccess(w, http.StatusOK, "category updated", category)
}

// DeleteCategory handles DELETE /categories/{categoryId}
// @Summary Delete category
// @Tags categories
// @Produce json
// @Security ApiKeyAuth
// @Param categoryId path int true "Category ID"
// @Success 200 {object} handlers.Response "Category deleted"
// @Failure 404 {object} handlers.Response "Category not found"
// @Failure 409 {object} handlers.Response "Category still has courses"
// @Router /categories/{categoryId} [delete]
func (h *CatalogHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "categoryId")
	if err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	if err := h.categoryService.Delete(r.Context(), id); err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	h.RespondSuccess(w, http.StatusOK, "category deleted", nil)
}

// CreateContactMessage handles POST /contact
// @Summary Send a contact form message
// @Tags contact
// @Accept json
// @Produce json
// @Param request body models.CreateContactRequest true "Message"
// @Success 201 {object} handlers.Response{data=models.ContactMessage} "Message stored"
// @Failure 400 {object} handlers.Response "Invalid request body"
// @Router /contact [post]
func (h *CatalogHandler) CreateContactMessage(w http.ResponseWriter, r *http.Request) {
	var req models.CreateContactRequest
	if err := decodeJSON(r, &req); err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	msg, err := h.contactService.Create(r.Context(), &req)
	if err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	h.RespondSuccess(w, http.StatusCreated, "message sent", msg)
}

// GetContactMessages handles GET /contact
// @Summary List contact form messages
// @Tags contact
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "Page number, starting at 1"
// @Param count query int false "Messages per page"
// @Success 200 {object} handlers.Response{data=[]models.ContactMessage} "Messages"
// @Failure 403 {object} handlers.Response "Admin role required"
// @Router /contact [get]
func (h *CatalogHandler) GetContactMessages(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page")
	if err != nil {
		h.RespondServiceError(w, r, err)
		return
	}
	count, err := queryInt(r, "count")
	if err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	messages, err := h.contactService.GetAll(r.Context(), page, count)
	if err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	h.RespondSuccess(w, http.StatusOK, "messages fetched", messages)
}
