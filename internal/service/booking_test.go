package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/swaritsharma001/welness-studio/internal/domain"
	"github.com/swaritsharma001/welness-studio/internal/provider"
	apperrors "github.com/swaritsharma001/welness-studio/pkg/errors"
)

func newTestBookingService(
	instructorRepo *mockInstructorRepository,
	sessionRepo *mockSessionRepository,
	userRepo *mockUserRepository,
	payments *mockPaymentProvider,
	cache *mockIntentCache,
) *BookingService {
	logger := newTestLogger()
	reconciler := NewReconciler(payments, cache, logger)
	return NewBookingService(instructorRepo, sessionRepo, userRepo, payments, newTestEventProducer(), reconciler, logger)
}

func sampleInstructor() *domain.Instructor {
	return &domain.Instructor{
		ID:     "inst-1",
		Name:   "Maya",
		Price:  200,
		Rating: 4.8,
	}
}

func pendingSession(id, ref string) domain.BookingSession {
	return domain.BookingSession{
		ID:           id,
		UserID:       "user-1",
		InstructorID: "inst-1",
		Status:       domain.SessionStatusPending,
		ProviderRef:  ref,
		Currency:     domain.Currency,
	}
}

// --- Instructor Tests ---

func TestCreateInstructor_Success(t *testing.T) {
	instructorRepo := new(mockInstructorRepository)
	svc := newTestBookingService(instructorRepo, new(mockSessionRepository), new(mockUserRepository), new(mockPaymentProvider), new(mockIntentCache))
	ctx := context.Background()

	instructorRepo.On("Create", ctx, mock.AnythingOfType("*domain.Instructor")).Return(nil)

	instructor, err := svc.CreateInstructor(ctx, CreateInstructorInput{
		Name:   "Maya",
		Price:  200,
		Rating: 4.8,
	})

	require.NoError(t, err)
	assert.NotEmpty(t, instructor.ID)
	assert.Equal(t, "Maya", instructor.Name)
	instructorRepo.AssertExpectations(t)
}

func TestCreateInstructor_NonPositivePrice(t *testing.T) {
	instructorRepo := new(mockInstructorRepository)
	svc := newTestBookingService(instructorRepo, new(mockSessionRepository), new(mockUserRepository), new(mockPaymentProvider), new(mockIntentCache))

	instructor, err := svc.CreateInstructor(context.Background(), CreateInstructorInput{Name: "Maya", Price: 0})

	assert.Nil(t, instructor)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	instructorRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// --- Book Tests ---

func TestBook_Success_ChargesTaxInclusiveTotal(t *testing.T) {
	instructorRepo := new(mockInstructorRepository)
	sessionRepo := new(mockSessionRepository)
	payments := new(mockPaymentProvider)
	svc := newTestBookingService(instructorRepo, sessionRepo, new(mockUserRepository), payments, new(mockIntentCache))
	ctx := context.Background()

	instructorRepo.On("GetByID", ctx, "inst-1").Return(sampleInstructor(), nil)
	sessionRepo.On("Create", ctx, mock.AnythingOfType("*domain.BookingSession")).Return(nil)
	payments.On("CreateIntent", ctx, mock.AnythingOfType("*provider.IntentInput")).Return(&provider.Intent{
		ID:          "pi_9",
		RedirectURL: "https://pay.example.com/pi_9",
	}, nil)
	sessionRepo.On("SetProviderRef", ctx, mock.AnythingOfType("string"), "pi_9").Return(nil)

	result, err := svc.Book(ctx, testUser(), BookInput{
		InstructorID: "inst-1",
		Date:         "2026-09-15",
		Time:         "07:30",
		Mobile:       "+971501234567",
	})

	require.NoError(t, err)
	// 200 + 8% tax = 216 AED, charged as 21600 minor units.
	assert.Equal(t, int64(216), result.Amount)
	intentInput := payments.Calls[0].Arguments.Get(1).(*provider.IntentInput)
	assert.Equal(t, int64(21600), intentInput.AmountMinor)
	assert.Equal(t, result.SessionID, intentInput.Metadata.OrderID)

	created := sessionRepo.Calls[0].Arguments.Get(1).(*domain.BookingSession)
	assert.Equal(t, domain.SessionStatusPending, created.Status)
	assert.Equal(t, int64(216), created.AmountTotal)
}

func TestBook_UnknownInstructor(t *testing.T) {
	instructorRepo := new(mockInstructorRepository)
	sessionRepo := new(mockSessionRepository)
	payments := new(mockPaymentProvider)
	svc := newTestBookingService(instructorRepo, sessionRepo, new(mockUserRepository), payments, new(mockIntentCache))
	ctx := context.Background()

	instructorRepo.On("GetByID", ctx, "inst-missing").Return(nil, apperrors.ErrNotFound)

	result, err := svc.Book(ctx, testUser(), BookInput{InstructorID: "inst-missing"})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	sessionRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestBook_ProviderFailure_KeepsPendingSession(t *testing.T) {
	instructorRepo := new(mockInstructorRepository)
	sessionRepo := new(mockSessionRepository)
	payments := new(mockPaymentProvider)
	svc := newTestBookingService(instructorRepo, sessionRepo, new(mockUserRepository), payments, new(mockIntentCache))
	ctx := context.Background()

	instructorRepo.On("GetByID", ctx, "inst-1").Return(sampleInstructor(), nil)
	sessionRepo.On("Create", ctx, mock.AnythingOfType("*domain.BookingSession")).Return(nil)
	payments.On("CreateIntent", ctx, mock.AnythingOfType("*provider.IntentInput")).
		Return(nil, errors.New("provider unreachable"))

	result, err := svc.Book(ctx, testUser(), BookInput{InstructorID: "inst-1"})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperrors.ErrPaymentFailed)
	sessionRepo.AssertCalled(t, "Create", ctx, mock.AnythingOfType("*domain.BookingSession"))
	sessionRepo.AssertNotCalled(t, "SetProviderRef", mock.Anything, mock.Anything, mock.Anything)
}

// --- Session Listing Tests ---

func TestListOwnSessions_CompletedIntent_MovesToConfirmed(t *testing.T) {
	sessionRepo := new(mockSessionRepository)
	payments := new(mockPaymentProvider)
	cache := new(mockIntentCache)
	svc := newTestBookingService(new(mockInstructorRepository), sessionRepo, new(mockUserRepository), payments, cache)
	ctx := context.Background()

	sessionRepo.On("ListByUser", ctx, "user-1").Return([]domain.BookingSession{pendingSession("sess-1", "pi_1")}, nil)
	cache.On("Get", ctx, "pi_1").Return("", false, nil)
	payments.On("GetIntent", ctx, "pi_1").Return(&provider.Intent{ID: "pi_1", Status: "completed"}, nil)
	cache.On("Set", ctx, "pi_1", "completed").Return(nil)
	sessionRepo.On("UpdateStatus", ctx, "sess-1", domain.SessionStatusConfirmed).Return(nil)

	sessions, err := svc.ListOwnSessions(ctx, "user-1")

	require.NoError(t, err)
	assert.Equal(t, domain.SessionStatusConfirmed, sessions[0].Status)
	sessionRepo.AssertExpectations(t)
}

func TestListAllSessions_RemovesOrphans(t *testing.T) {
	instructorRepo := new(mockInstructorRepository)
	sessionRepo := new(mockSessionRepository)
	userRepo := new(mockUserRepository)
	payments := new(mockPaymentProvider)
	cache := new(mockIntentCache)
	svc := newTestBookingService(instructorRepo, sessionRepo, userRepo, payments, cache)
	ctx := context.Background()

	valid := pendingSession("sess-1", "")
	orphan := pendingSession("sess-2", "")
	orphan.UserID = "user-gone"

	sessionRepo.On("List", ctx).Return([]domain.BookingSession{valid, orphan}, nil)
	userRepo.On("GetByID", ctx, "user-1").Return(testUser(), nil)
	instructorRepo.On("GetByID", ctx, "inst-1").Return(sampleInstructor(), nil)
	userRepo.On("GetByID", ctx, "user-gone").Return(nil, apperrors.ErrNotFound)
	sessionRepo.On("Delete", ctx, "sess-2").Return(nil)

	sessions, err := svc.ListAllSessions(ctx)

	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "sess-1", sessions[0].ID)
	sessionRepo.AssertCalled(t, "Delete", ctx, "sess-2")
}

func TestListAllSessions_TerminalStatusSticky(t *testing.T) {
	instructorRepo := new(mockInstructorRepository)
	sessionRepo := new(mockSessionRepository)
	userRepo := new(mockUserRepository)
	payments := new(mockPaymentProvider)
	svc := newTestBookingService(instructorRepo, sessionRepo, userRepo, payments, new(mockIntentCache))
	ctx := context.Background()

	cancelled := pendingSession("sess-1", "pi_1")
	cancelled.Status = domain.SessionStatusCancelled

	sessionRepo.On("List", ctx).Return([]domain.BookingSession{cancelled}, nil)
	userRepo.On("GetByID", ctx, "user-1").Return(testUser(), nil)
	instructorRepo.On("GetByID", ctx, "inst-1").Return(sampleInstructor(), nil)

	sessions, err := svc.ListAllSessions(ctx)

	require.NoError(t, err)
	assert.Equal(t, domain.SessionStatusCancelled, sessions[0].Status)
	payments.AssertNotCalled(t, "GetIntent", mock.Anything, mock.Anything)
}

// --- Session Administration Tests ---

func TestUpdateSessionStatus_InvalidStatus(t *testing.T) {
	sessionRepo := new(mockSessionRepository)
	svc := newTestBookingService(new(mockInstructorRepository), sessionRepo, new(mockUserRepository), new(mockPaymentProvider), new(mockIntentCache))

	session, err := svc.UpdateSessionStatus(context.Background(), "sess-1", "shipped")

	assert.Nil(t, session)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	sessionRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateSessionStatus_SameStatus_NoWrite(t *testing.T) {
	sessionRepo := new(mockSessionRepository)
	svc := newTestBookingService(new(mockInstructorRepository), sessionRepo, new(mockUserRepository), new(mockPaymentProvider), new(mockIntentCache))
	ctx := context.Background()

	existing := pendingSession("sess-1", "")
	sessionRepo.On("GetByID", ctx, "sess-1").Return(&existing, nil)

	session, err := svc.UpdateSessionStatus(ctx, "sess-1", domain.SessionStatusPending)

	require.NoError(t, err)
	assert.Equal(t, domain.SessionStatusPending, session.Status)
	sessionRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateSessionStatus_Success(t *testing.T) {
	sessionRepo := new(mockSessionRepository)
	svc := newTestBookingService(new(mockInstructorRepository), sessionRepo, new(mockUserRepository), new(mockPaymentProvider), new(mockIntentCache))
	ctx := context.Background()

	existing := pendingSession("sess-1", "")
	sessionRepo.On("GetByID", ctx, "sess-1").Return(&existing, nil)
	sessionRepo.On("UpdateStatus", ctx, "sess-1", domain.SessionStatusCompleted).Return(nil)

	session, err := svc.UpdateSessionStatus(ctx, "sess-1", domain.SessionStatusCompleted)

	require.NoError(t, err)
	assert.Equal(t, domain.SessionStatusCompleted, session.Status)
	sessionRepo.AssertExpectations(t)
}

func TestDeleteSession_OwnSession(t *testing.T) {
	sessionRepo := new(mockSessionRepository)
	svc := newTestBookingService(new(mockInstructorRepository), sessionRepo, new(mockUserRepository), new(mockPaymentProvider), new(mockIntentCache))
	ctx := context.Background()

	existing := pendingSession("sess-1", "")
	existing.UserID = testUser().ID
	sessionRepo.On("GetByID", ctx, "sess-1").Return(&existing, nil)
	sessionRepo.On("Delete", ctx, "sess-1").Return(nil)

	err := svc.DeleteSession(ctx, testUser(), "sess-1")

	require.NoError(t, err)
	sessionRepo.AssertExpectations(t)
}

func TestDeleteSession_OtherUsersSession_Forbidden(t *testing.T) {
	sessionRepo := new(mockSessionRepository)
	svc := newTestBookingService(new(mockInstructorRepository), sessionRepo, new(mockUserRepository), new(mockPaymentProvider), new(mockIntentCache))
	ctx := context.Background()

	existing := pendingSession("sess-1", "")
	existing.UserID = "someone-else"
	sessionRepo.On("GetByID", ctx, "sess-1").Return(&existing, nil)

	err := svc.DeleteSession(ctx, testUser(), "sess-1")

	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	sessionRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDeleteSession_AdminCanDeleteAny(t *testing.T) {
	sessionRepo := new(mockSessionRepository)
	svc := newTestBookingService(new(mockInstructorRepository), sessionRepo, new(mockUserRepository), new(mockPaymentProvider), new(mockIntentCache))
	ctx := context.Background()

	existing := pendingSession("sess-1", "")
	existing.UserID = "someone-else"
	sessionRepo.On("GetByID", ctx, "sess-1").Return(&existing, nil)
	sessionRepo.On("Delete", ctx, "sess-1").Return(nil)

	admin := testUser()
	admin.Role = domain.RoleAdmin

	err := svc.DeleteSession(ctx, admin, "sess-1")

	require.NoError(t, err)
	sessionRepo.AssertExpectations(t)
}
