package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/swaritsharma001/welness-studio/internal/service"
	"github.com/swaritsharma001/welness-studio/pkg/httputil"
	"github.com/swaritsharma001/welness-studio/pkg/validator"
)

// BookingHandler handles instructor management and session booking endpoints.
type BookingHandler struct {
	bookingService *service.BookingService
	logger         *slog.Logger
}

// NewBookingHandler creates a new booking handler.
func NewBookingHandler(bookingService *service.BookingService, logger *slog.Logger) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
		logger:         logger,
	}
}

// CreateInstructorRequest is the request body for adding an instructor.
type CreateInstructorRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=100"`
	Price       int64   `json:"price" validate:"required,gt=0"`
	Description string  `json:"description" validate:"max=2000"`
	Image       string  `json:"image" validate:"omitempty,url"`
	Rating      float64 `json:"rating" validate:"gte=0,lte=5"`
}

// BookSessionRequest is the request body for booking a session.
type BookSessionRequest struct {
	InstructorID string `json:"instructor_id" validate:"required,uuid"`
	Date         string `json:"date" validate:"required,max=40"`
	Time         string `json:"time" validate:"required,max=40"`
	Mobile       string `json:"mobile" validate:"required,min=5,max=20"`
}

// UpdateSessionStatusRequest is the request body for the administrative
// status update.
type UpdateSessionStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed cancelled completed"`
}

// ListInstructors handles GET /api/v1/yoga/instructors.
func (h *BookingHandler) ListInstructors(w http.ResponseWriter, r *http.Request) {
	instructors, err := h.bookingService.ListInstructors(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: instructors})
}

// CreateInstructor handles POST /api/v1/yoga/instructors. Elevated roles only.
func (h *BookingHandler) CreateInstructor(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req CreateInstructorRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	instructor, err := h.bookingService.CreateInstructor(r.Context(), service.CreateInstructorInput{
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
		Image:       req.Image,
		Rating:      req.Rating,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: instructor})
}

// DeleteInstructor handles DELETE /api/v1/yoga/instructors/{id}. Elevated
// roles only.
func (h *BookingHandler) DeleteInstructor(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.bookingService.DeleteInstructor(r.Context(), id.String()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: map[string]string{"message": "instructor deleted"},
	})
}

// BookSession handles POST /api/v1/yoga/sessions.
func (h *BookingHandler) BookSession(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req BookSessionRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	user := UserFromContext(r.Context())

	result, err := h.bookingService.Book(r.Context(), user, service.BookInput{
		InstructorID: req.InstructorID,
		Date:         req.Date,
		Time:         req.Time,
		Mobile:       req.Mobile,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

// ListOwnSessions handles GET /api/v1/yoga/sessions.
func (h *BookingHandler) ListOwnSessions(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	sessions, err := h.bookingService.ListOwnSessions(r.Context(), user.ID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: sessions})
}

// ListAllSessions handles GET /api/v1/yoga/sessions/all. Elevated roles only.
func (h *BookingHandler) ListAllSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.bookingService.ListAllSessions(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: sessions})
}

// UpdateSessionStatus handles PATCH /api/v1/yoga/sessions/{id}/status.
// Elevated roles only.
func (h *BookingHandler) UpdateSessionStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req UpdateSessionStatusRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	session, err := h.bookingService.UpdateSessionStatus(r.Context(), id.String(), req.Status)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: session})
}

// DeleteSession handles DELETE /api/v1/yoga/sessions/{id}. Owners of the
// session or elevated roles.
func (h *BookingHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	user := UserFromContext(r.Context())

	if err := h.bookingService.DeleteSession(r.Context(), user, id.String()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: map[string]string{"message": "session deleted"},
	})
}
