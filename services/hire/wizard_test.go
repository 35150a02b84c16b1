package hire

import (
	"context"
	"errors"
	"testing"
	"time"

	"taskly/models"
	"taskly/services/fees"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSaga struct {
	outcome Outcome
	calls   int
	lastReq models.HireRequest
}

func (f *fakeSaga) Execute(ctx context.Context, req models.HireRequest) Outcome {
	f.calls++
	f.lastReq = req
	return f.outcome
}

type wizardFixture struct {
	svc    *DefaultWizardService
	store  *RedisSessionStore
	wallet *fakeWalletClient
	saga   *fakeSaga
}

func newWizardFixture(t *testing.T) *wizardFixture {
	t.Helper()
	mr := miniredis.RunT(t)
	store := NewRedisSessionStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}))

	f := &wizardFixture{
		store:  store,
		wallet: &fakeWalletClient{balance: 1000},
		saga: &fakeSaga{outcome: Outcome{
			Success:     true,
			WorkOrderID: "wo-1",
			BookingID:   "bk-1",
			HoldID:      "hold-1",
			AmountHeld:  100,
		}},
	}
	f.svc = &DefaultWizardService{
		Store:     store,
		Wallet:    f.wallet,
		Fees:      fees.NewCalculator(0.15),
		Saga:      f.saga,
		MinBudget: 10,
		Logger:    zap.NewNop(),
	}
	return f
}

func futureDate() string {
	return time.Now().AddDate(0, 0, 7).Format("2006-01-02")
}

// walkToReview drives a fresh session through every form step.
func walkToReview(t *testing.T, f *wizardFixture) *WizardSession {
	t.Helper()
	ctx := context.Background()

	session, err := f.svc.Start(ctx, "user-1", "provider-1")
	require.NoError(t, err)
	require.Equal(t, StepDetails, session.Step)
	id := session.SessionID

	_, err = f.svc.UpdateStep(ctx, id, "user-1", StepInput{Details: &DetailsInput{
		Title:       "Fix the kitchen sink",
		Category:    "plumbing",
		Description: "The kitchen sink leaks under the cabinet and needs a new trap.",
		Location:    "12 Main St",
	}})
	require.NoError(t, err)
	session, err = f.svc.Advance(ctx, id, "user-1")
	require.NoError(t, err)
	require.Equal(t, StepSchedule, session.Step)

	_, err = f.svc.UpdateStep(ctx, id, "user-1", StepInput{Schedule: &ScheduleInput{
		ScheduledDate: futureDate(),
		TimeSlot:      "morning",
	}})
	require.NoError(t, err)
	session, err = f.svc.Advance(ctx, id, "user-1")
	require.NoError(t, err)
	require.Equal(t, StepBudget, session.Step)

	_, err = f.svc.UpdateStep(ctx, id, "user-1", StepInput{Budget: &BudgetInput{
		Budget:         100,
		EstimatedHours: 2,
		PaymentType:    models.PaymentTypeFixed,
	}})
	require.NoError(t, err)
	session, err = f.svc.Advance(ctx, id, "user-1")
	require.NoError(t, err)
	require.Equal(t, StepPayment, session.Step)

	_, err = f.svc.UpdateStep(ctx, id, "user-1", StepInput{Payment: &PaymentInput{HoldAuthAck: true}})
	require.NoError(t, err)
	session, err = f.svc.Advance(ctx, id, "user-1")
	require.NoError(t, err)
	require.Equal(t, StepReview, session.Step)

	_, err = f.svc.UpdateStep(ctx, id, "user-1", StepInput{Review: &ReviewInput{EscrowAck: true, TermsAck: true}})
	require.NoError(t, err)

	session, err = f.store.Get(ctx, id)
	require.NoError(t, err)
	return session
}

func TestWizardHappyPath(t *testing.T) {
	f := newWizardFixture(t)
	ctx := context.Background()

	session := walkToReview(t, f)

	presented, err := f.svc.Submit(ctx, session.SessionID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, StatusSucceeded, presented.Status)
	assert.Equal(t, "wo-1", presented.WorkOrderID)
	assert.Equal(t, []string{"view_bookings", "message_provider"}, presented.NextActions)

	assert.Equal(t, 1, f.saga.calls)
	assert.Equal(t, "user-1", f.saga.lastReq.RequesterID)
	assert.Equal(t, "provider-1", f.saga.lastReq.ProviderID)
	assert.Equal(t, 100.0, f.saga.lastReq.Budget)

	stored, err := f.store.Get(ctx, session.SessionID)
	require.NoError(t, err)
	assert.Equal(t, StepSucceeded, stored.Step)
	assert.True(t, stored.Submitted)

	// A completed session cannot submit again.
	_, err = f.svc.Submit(ctx, session.SessionID, "user-1")
	assert.ErrorIs(t, err, ErrAlreadySubmitted)
	assert.Equal(t, 1, f.saga.calls)
}

func TestWizardValidationFailureKeepsStep(t *testing.T) {
	f := newWizardFixture(t)
	ctx := context.Background()

	session, err := f.svc.Start(ctx, "user-1", "provider-1")
	require.NoError(t, err)

	_, err = f.svc.UpdateStep(ctx, session.SessionID, "user-1", StepInput{Details: &DetailsInput{
		Title:       "Fix",
		Category:    "plumbing",
		Description: "The kitchen sink leaks under the cabinet and needs a new trap.",
	}})
	require.NoError(t, err)

	_, err = f.svc.Advance(ctx, session.SessionID, "user-1")
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, StepDetails, vErr.Step)
	assert.Equal(t, "title", vErr.Field)

	stored, err := f.store.Get(ctx, session.SessionID)
	require.NoError(t, err)
	assert.Equal(t, StepDetails, stored.Step)
	assert.Equal(t, "Fix", stored.Request.Title, "entered data survives a failed advance")
}

func TestWizardBackKeepsCollectedData(t *testing.T) {
	f := newWizardFixture(t)
	ctx := context.Background()

	session := walkToReview(t, f)
	id := session.SessionID

	back, err := f.svc.Back(ctx, id, "user-1")
	require.NoError(t, err)
	assert.Equal(t, StepPayment, back.Step)
	assert.Equal(t, "Fix the kitchen sink", back.Request.Title)
	assert.Equal(t, 100.0, back.Request.Budget)
	assert.True(t, back.EscrowAck, "review acknowledgments survive back navigation")

	// Forward again without re-entering anything.
	fwd, err := f.svc.Advance(ctx, id, "user-1")
	require.NoError(t, err)
	assert.Equal(t, StepReview, fwd.Step)
}

func TestWizardBackStopsAtFirstStep(t *testing.T) {
	f := newWizardFixture(t)
	ctx := context.Background()

	session, err := f.svc.Start(ctx, "user-1", "provider-1")
	require.NoError(t, err)

	back, err := f.svc.Back(ctx, session.SessionID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, StepDetails, back.Step)
}

func TestWizardUpdateAppliesOnlyCurrentStepGroup(t *testing.T) {
	f := newWizardFixture(t)
	ctx := context.Background()

	session, err := f.svc.Start(ctx, "user-1", "provider-1")
	require.NoError(t, err)

	// A budget payload sent while at Details must be ignored.
	updated, err := f.svc.UpdateStep(ctx, session.SessionID, "user-1", StepInput{
		Budget: &BudgetInput{Budget: 9999},
	})
	require.NoError(t, err)
	assert.Zero(t, updated.Request.Budget)
}

func TestWizardInsufficientBalanceBlocksPaymentStep(t *testing.T) {
	f := newWizardFixture(t)
	f.wallet.balance = 40
	ctx := context.Background()

	session, err := f.svc.Start(ctx, "user-1", "provider-1")
	require.NoError(t, err)
	id := session.SessionID

	_, err = f.svc.UpdateStep(ctx, id, "user-1", StepInput{Details: &DetailsInput{
		Title:       "Fix the kitchen sink",
		Category:    "plumbing",
		Description: "The kitchen sink leaks under the cabinet and needs a new trap.",
	}})
	require.NoError(t, err)
	_, err = f.svc.Advance(ctx, id, "user-1")
	require.NoError(t, err)
	_, err = f.svc.UpdateStep(ctx, id, "user-1", StepInput{Schedule: &ScheduleInput{
		ScheduledDate: futureDate(),
		TimeSlot:      "morning",
	}})
	require.NoError(t, err)
	_, err = f.svc.Advance(ctx, id, "user-1")
	require.NoError(t, err)
	_, err = f.svc.UpdateStep(ctx, id, "user-1", StepInput{Budget: &BudgetInput{
		Budget:         100,
		EstimatedHours: 2,
		PaymentType:    models.PaymentTypeHourly,
	}})
	require.NoError(t, err)
	_, err = f.svc.Advance(ctx, id, "user-1")
	require.NoError(t, err)
	_, err = f.svc.UpdateStep(ctx, id, "user-1", StepInput{Payment: &PaymentInput{HoldAuthAck: true}})
	require.NoError(t, err)

	_, err = f.svc.Advance(ctx, id, "user-1")
	var balErr *InsufficientBalanceError
	require.ErrorAs(t, err, &balErr)
	assert.Equal(t, 40.0, balErr.Balance)
	assert.Equal(t, 100.0, balErr.Required)

	stored, err := f.store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, StepPayment, stored.Step)
	assert.Zero(t, f.saga.calls, "a blocked payment step must never reach the saga")
}

func TestWizardGetIncludesAffordabilityPreview(t *testing.T) {
	f := newWizardFixture(t)
	ctx := context.Background()

	session := walkToReview(t, f)

	view, err := f.svc.Get(ctx, session.SessionID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 15.0, view.Quote.PlatformFee)
	assert.Equal(t, 85.0, view.Quote.ProviderEarnings)
	require.NotNil(t, view.Affordability)
	assert.True(t, view.Affordability.Sufficient)
	assert.Equal(t, 900.0, view.Affordability.BalanceAfterHold)
}

func TestWizardGetPreviewDegradesOnWalletFailure(t *testing.T) {
	f := newWizardFixture(t)
	ctx := context.Background()

	session := walkToReview(t, f)
	f.wallet.balanceErr = errors.New("connection refused")

	view, err := f.svc.Get(ctx, session.SessionID, "user-1")
	require.NoError(t, err, "a preview failure must not fail the session read")
	assert.Nil(t, view.Affordability)
	assert.Equal(t, 15.0, view.Quote.PlatformFee)
}

func TestWizardSubmitOnlyFromReview(t *testing.T) {
	f := newWizardFixture(t)
	ctx := context.Background()

	session, err := f.svc.Start(ctx, "user-1", "provider-1")
	require.NoError(t, err)

	_, err = f.svc.Submit(ctx, session.SessionID, "user-1")
	assert.ErrorIs(t, err, ErrNotAtReview)
	assert.Zero(t, f.saga.calls)
}

func TestWizardSubmitFailureReturnsToReviewAndAllowsRetry(t *testing.T) {
	f := newWizardFixture(t)
	ctx := context.Background()

	f.saga.outcome = Outcome{
		Success: false,
		Stage:   StageHold,
		Reason:  "insufficient funds at hold time",
	}

	session := walkToReview(t, f)
	id := session.SessionID

	presented, err := f.svc.Submit(ctx, id, "user-1")
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, presented.Status)
	assert.Equal(t, StepReview, presented.ReturnToStep)
	assert.Equal(t, "The hire could not be completed. No charges were made.", presented.Message)

	stored, err := f.store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, StepReview, stored.Step)
	assert.False(t, stored.Submitted)

	// The latch was released, so a retry goes through.
	f.saga.outcome = Outcome{Success: true, WorkOrderID: "wo-2", BookingID: "bk-2"}
	presented, err = f.svc.Submit(ctx, id, "user-1")
	require.NoError(t, err)
	assert.Equal(t, StatusSucceeded, presented.Status)
	assert.Equal(t, 2, f.saga.calls)
}

func TestWizardSubmitFailureRoutesInvalidDataToOwningStep(t *testing.T) {
	f := newWizardFixture(t)
	ctx := context.Background()

	f.saga.outcome = Outcome{
		Success:     false,
		Stage:       StageHold,
		Reason:      "hold amount must be positive",
		DataInvalid: true,
	}

	session := walkToReview(t, f)

	presented, err := f.svc.Submit(ctx, session.SessionID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, StepBudget, presented.ReturnToStep)

	stored, err := f.store.Get(ctx, session.SessionID)
	require.NoError(t, err)
	assert.Equal(t, StepBudget, stored.Step)
}

func TestWizardSubmitLatchBlocksConcurrentSubmission(t *testing.T) {
	f := newWizardFixture(t)
	ctx := context.Background()

	session := walkToReview(t, f)

	// Simulate an in-flight submission holding the latch.
	acquired, err := f.store.AcquireSubmitLatch(ctx, session.SessionID)
	require.NoError(t, err)
	require.True(t, acquired)

	_, err = f.svc.Submit(ctx, session.SessionID, "user-1")
	assert.ErrorIs(t, err, ErrSubmissionInFlight)
	assert.Zero(t, f.saga.calls)
}

func TestWizardCrashedSubmissionRecoversAfterLatchLapses(t *testing.T) {
	f := newWizardFixture(t)
	ctx := context.Background()

	session := walkToReview(t, f)
	id := session.SessionID

	// A crash after Submit flipped the step leaves the session parked at
	// Submitting with no latch held (the latch TTL has lapsed).
	session.Step = StepSubmitting
	require.NoError(t, f.store.Save(ctx, session))

	presented, err := f.svc.Submit(ctx, id, "user-1")
	require.NoError(t, err)
	assert.Equal(t, StatusSucceeded, presented.Status)
	assert.Equal(t, 1, f.saga.calls)

	stored, err := f.store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, StepSucceeded, stored.Step)
}

func TestWizardStrandedSubmissionStaysBlockedWhileLatchHeld(t *testing.T) {
	f := newWizardFixture(t)
	ctx := context.Background()

	session := walkToReview(t, f)
	id := session.SessionID

	session.Step = StepSubmitting
	require.NoError(t, f.store.Save(ctx, session))

	acquired, err := f.store.AcquireSubmitLatch(ctx, id)
	require.NoError(t, err)
	require.True(t, acquired)

	_, err = f.svc.Submit(ctx, id, "user-1")
	assert.ErrorIs(t, err, ErrSubmissionInFlight)
	assert.Zero(t, f.saga.calls)
}

func TestWizardScheduleAcceptsToday(t *testing.T) {
	f := newWizardFixture(t)
	ctx := context.Background()

	session, err := f.svc.Start(ctx, "user-1", "provider-1")
	require.NoError(t, err)
	id := session.SessionID

	_, err = f.svc.UpdateStep(ctx, id, "user-1", StepInput{Details: &DetailsInput{
		Title:       "Fix the kitchen sink",
		Category:    "plumbing",
		Description: "The kitchen sink leaks under the cabinet and needs a new trap.",
	}})
	require.NoError(t, err)
	_, err = f.svc.Advance(ctx, id, "user-1")
	require.NoError(t, err)

	// Today's local calendar date is valid regardless of the server's zone.
	_, err = f.svc.UpdateStep(ctx, id, "user-1", StepInput{Schedule: &ScheduleInput{
		ScheduledDate: time.Now().Format("2006-01-02"),
		TimeSlot:      "morning",
	}})
	require.NoError(t, err)
	advanced, err := f.svc.Advance(ctx, id, "user-1")
	require.NoError(t, err)
	assert.Equal(t, StepBudget, advanced.Step)
}

func TestWizardScheduleRejectsPastDate(t *testing.T) {
	f := newWizardFixture(t)
	ctx := context.Background()

	session, err := f.svc.Start(ctx, "user-1", "provider-1")
	require.NoError(t, err)
	id := session.SessionID

	_, err = f.svc.UpdateStep(ctx, id, "user-1", StepInput{Details: &DetailsInput{
		Title:       "Fix the kitchen sink",
		Category:    "plumbing",
		Description: "The kitchen sink leaks under the cabinet and needs a new trap.",
	}})
	require.NoError(t, err)
	_, err = f.svc.Advance(ctx, id, "user-1")
	require.NoError(t, err)

	_, err = f.svc.UpdateStep(ctx, id, "user-1", StepInput{Schedule: &ScheduleInput{
		ScheduledDate: time.Now().AddDate(0, 0, -1).Format("2006-01-02"),
		TimeSlot:      "morning",
	}})
	require.NoError(t, err)

	_, err = f.svc.Advance(ctx, id, "user-1")
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "scheduled_date", vErr.Field)
}

func TestWizardSubmitWithWarning(t *testing.T) {
	f := newWizardFixture(t)
	ctx := context.Background()

	f.saga.outcome = Outcome{
		Success:     true,
		Warning:     "work order status update failed; the booking and escrow hold are intact",
		WorkOrderID: "wo-1",
		BookingID:   "bk-1",
		AmountHeld:  100,
	}

	session := walkToReview(t, f)

	presented, err := f.svc.Submit(ctx, session.SessionID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, StatusSucceededWithWarning, presented.Status)
	assert.Contains(t, presented.Message, "Provider hired")

	stored, err := f.store.Get(ctx, session.SessionID)
	require.NoError(t, err)
	assert.Equal(t, StepSucceeded, stored.Step, "a degraded success is still terminal")
}

func TestWizardOwnershipEnforced(t *testing.T) {
	f := newWizardFixture(t)
	ctx := context.Background()

	session, err := f.svc.Start(ctx, "user-1", "provider-1")
	require.NoError(t, err)

	_, err = f.svc.Get(ctx, session.SessionID, "user-2")
	assert.ErrorIs(t, err, ErrNotSessionOwner)

	_, err = f.svc.Advance(ctx, session.SessionID, "user-2")
	assert.ErrorIs(t, err, ErrNotSessionOwner)

	err = f.svc.Cancel(ctx, session.SessionID, "user-2")
	assert.ErrorIs(t, err, ErrNotSessionOwner)
}

func TestWizardCancelDiscardsSession(t *testing.T) {
	f := newWizardFixture(t)
	ctx := context.Background()

	session, err := f.svc.Start(ctx, "user-1", "provider-1")
	require.NoError(t, err)

	require.NoError(t, f.svc.Cancel(ctx, session.SessionID, "user-1"))

	_, err = f.svc.Get(ctx, session.SessionID, "user-1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
