package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/skillbridge/backend/internal/models"
	"github.com/skillbridge/backend/libs/handlers"
	"go.uber.org/zap"
)

// CartService is the interface that wraps methods for cart business logic
type CartService interface {
	// AddToCart puts a public course into the user's cart.
	//
	// An enrolled course or a course already in the cart results in apperrors.ErrConflict.
	AddToCart(ctx context.Context, userID, courseID int) (*models.CartItem, error)
	GetCart(ctx context.Context, userID int) ([]models.CartItem, error)
	// RemoveFromCart deletes a cart entry. A missing entry results in apperrors.ErrNotFound.
	RemoveFromCart(ctx context.Context, userID, courseID int) error
}

// CartHandler handles cart HTTP requests
type CartHandler struct {
	handlers.BaseHandler
	cartService CartService
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService CartService, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		BaseHandler: handlers.BaseHandler{Logger: logger},
		cartService: cartService,
	}
}

// RegisterRoutes registers all cart handler routes
func (h *CartHandler) RegisterRoutes(r chi.Router, guards Guards) {
	r.Group(func(r chi.Router) {
		r.Use(guards.Student)
		r.Post("/add-to-cart", h.AddToCart)
		r.Get("/my-cart", h.GetCart)
		r.Delete("/remove-from-cart", h.RemoveFromCart)
	})
}

// AddToCart handles POST /add-to-cart
// @Summary Add a course to the cart
// @Tags cart
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body models.CartCourseRequest true "Course"
// @Success 201 {object} handlers.Response{data=models.CartItem} "Course added"
// @Failure 404 {object} handlers.Response "Course not found"
// @Failure 409 {object} handlers.Response "Already in cart or enrolled"
// @Router /add-to-cart [post]
func (h *CartHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	caller, ok := actor(r)
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req models.CartCourseRequest
	if err := decodeJSON(r, &req); err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	item, err := h.cartService.AddToCart(r.Context(), caller.UserID, req.CourseID)
	if err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	h.RespondSuccess(w, http.StatusCreated, "course added to cart", item)
}

// GetCart handles GET /my-cart
// @Summary List cart entries
// @Tags cart
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} handlers.Response{data=[]models.CartItem} "Cart"
// @Router /my-cart [get]
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	caller, ok := actor(r)
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	items, err := h.cartService.GetCart(r.Context(), caller.UserID)
	if err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	h.RespondSuccess(w, http.StatusOK, "cart fetched", items)
}

// RemoveFromCart handles DELETE /remove-from-cart
// @Summary Remove a course from the cart
// @Tags cart
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body models.CartCourseRequest true "Course"
// @Success 200 {object} handlers.Response "Course removed"
// @Failure 404 {object} handlers.Response "Course not in cart"
// @Router /remove-from-cart [delete]
func (h *CartHandler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	caller, ok := actor(r)
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req models.CartCourseRequest
	if err := decodeJSON(r, &req); err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	if err := h.cartService.RemoveFromCart(r.Context(), caller.UserID, req.CourseID); err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	h.RespondSuccess(w, http.StatusOK, "course removed from cart", nil)
}
