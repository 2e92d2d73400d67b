package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/swaritsharma001/welness-studio/internal/domain"
	"github.com/swaritsharma001/welness-studio/internal/event"
	"github.com/swaritsharma001/welness-studio/internal/provider"
	"github.com/swaritsharma001/welness-studio/internal/repository"
	apperrors "github.com/swaritsharma001/welness-studio/pkg/errors"
)

// BookingService implements instructor management and session booking.
type BookingService struct {
	instructorRepo repository.InstructorRepository
	sessionRepo    repository.SessionRepository
	userRepo       repository.UserRepository
	payments       provider.Provider
	producer       *event.Producer
	reconciler     *Reconciler
	logger         *slog.Logger
}

// NewBookingService creates a new booking service.
func NewBookingService(
	instructorRepo repository.InstructorRepository,
	sessionRepo repository.SessionRepository,
	userRepo repository.UserRepository,
	payments provider.Provider,
	producer *event.Producer,
	reconciler *Reconciler,
	logger *slog.Logger,
) *BookingService {
	return &BookingService{
		instructorRepo: instructorRepo,
		sessionRepo:    sessionRepo,
		userRepo:       userRepo,
		payments:       payments,
		producer:       producer,
		reconciler:     reconciler,
		logger:         logger,
	}
}

// CreateInstructorInput holds the parameters for adding an instructor.
type CreateInstructorInput struct {
	Name        string
	Price       int64
	Description string
	Image       string
	Rating      float64
}

// CreateInstructor adds a new instructor.
func (s *BookingService) CreateInstructor(ctx context.Context, input CreateInstructorInput) (*domain.Instructor, error) {
	if input.Name == "" {
		return nil, apperrors.InvalidInput("name is required")
	}
	if input.Price <= 0 {
		return nil, apperrors.InvalidInput("price must be positive")
	}

	now := time.Now().UTC()
	instructor := &domain.Instructor{
		ID:          uuid.New().String(),
		Name:        input.Name,
		Price:       input.Price,
		Description: input.Description,
		Image:       input.Image,
		Rating:      input.Rating,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.instructorRepo.Create(ctx, instructor); err != nil {
		return nil, fmt.Errorf("create instructor: %w", err)
	}

	s.logger.InfoContext(ctx, "instructor created",
		slog.String("instructor_id", instructor.ID),
		slog.String("name", instructor.Name),
	)

	return instructor, nil
}

// ListInstructors returns all instructors.
func (s *BookingService) ListInstructors(ctx context.Context) ([]domain.Instructor, error) {
	instructors, err := s.instructorRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list instructors: %w", err)
	}
	return instructors, nil
}

// DeleteInstructor removes an instructor.
func (s *BookingService) DeleteInstructor(ctx context.Context, id string) error {
	if err := s.instructorRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete instructor: %w", err)
	}

	s.logger.InfoContext(ctx, "instructor deleted",
		slog.String("instructor_id", id),
	)

	return nil
}

// BookInput holds the parameters for booking a session.
type BookInput struct {
	InstructorID string
	Date         string
	Time         string
	Mobile       string
}

// BookingResult is returned from a successful booking payment initiation.
type BookingResult struct {
	SessionID   string `json:"session_id"`
	RedirectURL string `json:"redirect_url"`
	Amount      int64  `json:"amount"`
}

// Book creates a pending session for the user with the instructor's
// tax-inclusive rate and initiates a payment. The session is persisted
// before the provider is called: if the provider fails, the session survives
// as pending with no provider reference and ErrPaymentFailed is returned.
func (s *BookingService) Book(ctx context.Context, user *domain.User, input BookInput) (*BookingResult, error) {
	instructor, err := s.instructorRepo.GetByID(ctx, input.InstructorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("instructor", input.InstructorID)
		}
		return nil, fmt.Errorf("get instructor: %w", err)
	}

	total := domain.TotalWithTax(instructor.Price)

	now := time.Now().UTC()
	session := &domain.BookingSession{
		ID:           uuid.New().String(),
		UserID:       user.ID,
		InstructorID: instructor.ID,
		Date:         input.Date,
		Time:         input.Time,
		Mobile:       input.Mobile,
		AmountTotal:  total,
		Currency:     domain.Currency,
		Status:       domain.SessionStatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("create booking session: %w", err)
	}

	if err := s.producer.PublishSessionBooked(ctx, session); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish session.booked event",
			slog.String("session_id", session.ID),
			slog.String("error", err.Error()),
		)
	}

	intent, err := s.payments.CreateIntent(ctx, &provider.IntentInput{
		AmountMinor:   domain.MinorUnits(total),
		CurrencyCode:  domain.Currency,
		Message:       "Yoga session payment",
		CustomerEmail: user.Email,
		Metadata: provider.Metadata{
			OrderID: session.ID,
			UserID:  user.ID,
		},
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "payment intent creation failed",
			slog.String("session_id", session.ID),
			slog.String("error", err.Error()),
		)
		return nil, apperrors.PaymentFailed("payment could not be initiated")
	}

	if err := s.sessionRepo.SetProviderRef(ctx, session.ID, intent.ID); err != nil {
		return nil, fmt.Errorf("set session provider ref: %w", err)
	}

	s.logger.InfoContext(ctx, "session booked",
		slog.String("session_id", session.ID),
		slog.String("instructor_id", instructor.ID),
		slog.Int64("amount", total),
	)

	return &BookingResult{
		SessionID:   session.ID,
		RedirectURL: intent.RedirectURL,
		Amount:      total,
	}, nil
}

// ListOwnSessions returns the user's sessions with payment statuses
// reconciled before responding.
func (s *BookingService) ListOwnSessions(ctx context.Context, userID string) ([]domain.BookingSession, error) {
	sessions, err := s.sessionRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	for i := range sessions {
		s.reconcileSession(ctx, &sessions[i])
	}

	return sessions, nil
}

// ListAllSessions returns every session, removing orphaned records whose
// user or instructor no longer exists, and reconciling the rest.
func (s *BookingService) ListAllSessions(ctx context.Context) ([]domain.BookingSession, error) {
	sessions, err := s.sessionRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	result := make([]domain.BookingSession, 0, len(sessions))
	for i := range sessions {
		if s.isOrphan(ctx, &sessions[i]) {
			if err := s.sessionRepo.Delete(ctx, sessions[i].ID); err != nil {
				s.logger.WarnContext(ctx, "orphaned session cleanup failed",
					slog.String("session_id", sessions[i].ID),
					slog.String("error", err.Error()),
				)
			} else {
				s.logger.InfoContext(ctx, "orphaned session removed",
					slog.String("session_id", sessions[i].ID),
				)
			}
			continue
		}
		s.reconcileSession(ctx, &sessions[i])
		result = append(result, sessions[i])
	}

	return result, nil
}

// UpdateSessionStatus sets an explicit administrative status on a session.
func (s *BookingService) UpdateSessionStatus(ctx context.Context, id, status string) (*domain.BookingSession, error) {
	if !domain.IsValidSessionStatus(status) {
		return nil, apperrors.InvalidInput("invalid session status: " + status)
	}

	session, err := s.sessionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("booking session", id)
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	if session.Status == status {
		return session, nil
	}

	if err := s.sessionRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("update session status: %w", err)
	}

	if err := s.producer.PublishSessionStatusChanged(ctx, id, session.Status, status); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish session.status_changed event",
			slog.String("session_id", id),
			slog.String("error", err.Error()),
		)
	}

	session.Status = status
	return session, nil
}

// DeleteSession removes a session. Users may delete their own sessions;
// elevated roles may delete any.
func (s *BookingService) DeleteSession(ctx context.Context, requester *domain.User, id string) error {
	session, err := s.sessionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NotFound("booking session", id)
		}
		return fmt.Errorf("get session: %w", err)
	}

	if session.UserID != requester.ID && !domain.IsElevated(requester.Role) {
		return apperrors.Forbidden("cannot delete another user's session")
	}

	if err := s.sessionRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	s.logger.InfoContext(ctx, "session deleted",
		slog.String("session_id", id),
		slog.String("requested_by", requester.ID),
	)

	return nil
}

// isOrphan reports whether the session points at a missing user or
// instructor.
func (s *BookingService) isOrphan(ctx context.Context, session *domain.BookingSession) bool {
	if _, err := s.userRepo.GetByID(ctx, session.UserID); err != nil {
		return errors.Is(err, apperrors.ErrNotFound)
	}
	if _, err := s.instructorRepo.GetByID(ctx, session.InstructorID); err != nil {
		return errors.Is(err, apperrors.ErrNotFound)
	}
	return false
}

// reconcileSession refreshes one session's status from the provider.
// Terminal statuses are sticky. A failed poll leaves the stored status
// untouched so the listing can continue.
func (s *BookingService) reconcileSession(ctx context.Context, sess *domain.BookingSession) {
	if sess.ProviderRef == "" || domain.IsTerminalSessionStatus(sess.Status) {
		return
	}

	status, err := s.reconciler.IntentStatus(ctx, sess.ProviderRef)
	if err != nil {
		s.logger.WarnContext(ctx, "session reconciliation skipped",
			slog.String("session_id", sess.ID),
			slog.String("error", err.Error()),
		)
		return
	}

	newStatus := domain.SessionStatusPending
	if provider.Completed(status) {
		newStatus = domain.SessionStatusConfirmed
	}
	if newStatus == sess.Status {
		return
	}

	if err := s.sessionRepo.UpdateStatus(ctx, sess.ID, newStatus); err != nil {
		s.logger.WarnContext(ctx, "session status update failed",
			slog.String("session_id", sess.ID),
			slog.String("error", err.Error()),
		)
		return
	}

	if err := s.producer.PublishSessionStatusChanged(ctx, sess.ID, sess.Status, newStatus); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish session.status_changed event",
			slog.String("session_id", sess.ID),
			slog.String("error", err.Error()),
		)
	}

	sess.Status = newStatus
}
