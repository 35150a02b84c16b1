package hire

import (
	"context"
	"time"

	"taskly/models"
	"taskly/services/wallet"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Step identifies a wizard state.
type Step string

const (
	StepDetails    Step = "details"
	StepSchedule   Step = "schedule"
	StepBudget     Step = "budget"
	StepPayment    Step = "payment"
	StepReview     Step = "review"
	StepSubmitting Step = "submitting"
	StepSucceeded  Step = "succeeded"
)

// stepOrder is the linear forward path through the form steps.
var stepOrder = []Step{StepDetails, StepSchedule, StepBudget, StepPayment, StepReview}

func nextStep(s Step) (Step, bool) {
	for i, st := range stepOrder {
		if st == s && i+1 < len(stepOrder) {
			return stepOrder[i+1], true
		}
	}
	return s, false
}

func prevStep(s Step) (Step, bool) {
	for i, st := range stepOrder {
		if st == s && i > 0 {
			return stepOrder[i-1], true
		}
	}
	return s, false
}

// WizardSession is the cached state of one in-progress direct-hire flow.
// All step data accumulates in the single embedded HireRequest, so back
// navigation never loses anything.
type WizardSession struct {
	SessionID string             `json:"session_id"`
	Step      Step               `json:"step"`
	Request   models.HireRequest `json:"request"`

	// Payment step acknowledgment.
	HoldAuthAck bool `json:"hold_auth_ack"`

	// Review step acknowledgments.
	EscrowAck bool `json:"escrow_ack"`
	TermsAck  bool `json:"terms_ack"`

	Submitted bool             `json:"submitted"`
	Outcome   *PresentedOutcome `json:"outcome,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Step input payloads. Each carries exactly one step's field group; an
// update writes only its own group, so an in-flight balance fetch or a stale
// client retry can never clobber fields belonging to another step.
type (
	DetailsInput struct {
		Title       string `json:"title"`
		Category    string `json:"category"`
		Description string `json:"description"`
		Location    string `json:"location"`
		IsUrgent    bool   `json:"is_urgent"`
	}

	ScheduleInput struct {
		ScheduledDate string `json:"scheduled_date"`
		TimeSlot      string `json:"time_slot"`
		Flexibility   string `json:"flexibility"`
	}

	BudgetInput struct {
		Budget         float64 `json:"budget"`
		EstimatedHours int     `json:"estimated_hours"`
		PaymentType    string  `json:"payment_type"`
	}

	PaymentInput struct {
		HoldAuthAck bool `json:"hold_auth_ack"`
	}

	ReviewInput struct {
		EscrowAck bool `json:"escrow_ack"`
		TermsAck  bool `json:"terms_ack"`
	}
)

// StepInput carries at most one step's payload; only the group matching the
// session's current step is applied.
type StepInput struct {
	Details  *DetailsInput  `json:"details,omitempty"`
	Schedule *ScheduleInput `json:"schedule,omitempty"`
	Budget   *BudgetInput   `json:"budget,omitempty"`
	Payment  *PaymentInput  `json:"payment,omitempty"`
	Review   *ReviewInput   `json:"review,omitempty"`
}

// Start creates a fresh session at the Details step.
func (s *DefaultWizardService) Start(ctx context.Context, requesterID, providerID string) (*WizardSession, error) {
	session := &WizardSession{
		SessionID: uuid.New().String(),
		Step:      StepDetails,
		Request: models.HireRequest{
			RequesterID: requesterID,
			ProviderID:  providerID,
		},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := s.Store.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Get loads a session and, once the flow has reached the Payment step, a
// live affordability preview. The preview is advisory; a fetch failure is
// reported as a nil preview, never as a session error.
func (s *DefaultWizardService) Get(ctx context.Context, sessionID, requesterID string) (*SessionView, error) {
	session, err := s.load(ctx, sessionID, requesterID)
	if err != nil {
		return nil, err
	}

	view := &SessionView{Session: session}
	if session.Request.Budget > 0 {
		view.Quote = s.Fees.Quote(session.Request.Budget)
		afford, err := wallet.CheckAffordability(ctx, s.Wallet, requesterID, view.Quote.Budget)
		if err != nil {
			s.Logger.Warn("affordability preview unavailable",
				zap.String("sessionID", sessionID), zap.Error(err))
		} else {
			view.Affordability = afford
		}
	}
	return view, nil
}

// UpdateStep applies the current step's field group to the session. Data for
// other steps is left untouched.
func (s *DefaultWizardService) UpdateStep(ctx context.Context, sessionID, requesterID string, input StepInput) (*WizardSession, error) {
	session, err := s.load(ctx, sessionID, requesterID)
	if err != nil {
		return nil, err
	}
	if session.terminal() {
		return nil, ErrSessionTerminal
	}

	switch session.Step {
	case StepDetails:
		if input.Details != nil {
			session.Request.Title = input.Details.Title
			session.Request.Category = input.Details.Category
			session.Request.Description = input.Details.Description
			session.Request.Location = input.Details.Location
			session.Request.IsUrgent = input.Details.IsUrgent
		}
	case StepSchedule:
		if input.Schedule != nil {
			session.Request.ScheduledDate = input.Schedule.ScheduledDate
			session.Request.TimeSlot = input.Schedule.TimeSlot
			session.Request.Flexibility = input.Schedule.Flexibility
		}
	case StepBudget:
		if input.Budget != nil {
			session.Request.Budget = input.Budget.Budget
			session.Request.EstimatedHours = input.Budget.EstimatedHours
			session.Request.PaymentType = input.Budget.PaymentType
		}
	case StepPayment:
		if input.Payment != nil {
			session.HoldAuthAck = input.Payment.HoldAuthAck
		}
	case StepReview:
		if input.Review != nil {
			session.EscrowAck = input.Review.EscrowAck
			session.TermsAck = input.Review.TermsAck
		}
	}

	session.UpdatedAt = time.Now()
	if err := s.Store.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Advance moves to the next step if the current step's validation predicate
// passes. On a validation failure the session is left exactly as it was.
func (s *DefaultWizardService) Advance(ctx context.Context, sessionID, requesterID string) (*WizardSession, error) {
	session, err := s.load(ctx, sessionID, requesterID)
	if err != nil {
		return nil, err
	}
	if session.terminal() {
		return nil, ErrSessionTerminal
	}

	if err := s.validateStep(ctx, session); err != nil {
		return nil, err
	}

	next, ok := nextStep(session.Step)
	if !ok {
		// Already at Review; advancing further means submitting.
		return session, nil
	}
	session.Step = next
	session.UpdatedAt = time.Now()
	if err := s.Store.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Back returns to the previous step. Collected data is kept.
func (s *DefaultWizardService) Back(ctx context.Context, sessionID, requesterID string) (*WizardSession, error) {
	session, err := s.load(ctx, sessionID, requesterID)
	if err != nil {
		return nil, err
	}
	if session.terminal() {
		return nil, ErrSessionTerminal
	}

	prev, ok := prevStep(session.Step)
	if !ok {
		return session, nil
	}
	session.Step = prev
	session.UpdatedAt = time.Now()
	if err := s.Store.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Cancel discards the session. No durable records exist before submission,
// so there is nothing to undo.
func (s *DefaultWizardService) Cancel(ctx context.Context, sessionID, requesterID string) error {
	if _, err := s.load(ctx, sessionID, requesterID); err != nil {
		return err
	}
	return s.Store.Delete(ctx, sessionID)
}

// Submit triggers the hire saga. Only the Review step may submit, only once
// per session; the redis latch blocks double-firing from repeated user
// action while the saga is pending. A session stranded at Submitting by a
// crashed attempt becomes submittable again once that attempt's latch lapses.
func (s *DefaultWizardService) Submit(ctx context.Context, sessionID, requesterID string) (*PresentedOutcome, error) {
	session, err := s.load(ctx, sessionID, requesterID)
	if err != nil {
		return nil, err
	}
	if session.Submitted || session.Step == StepSucceeded {
		return nil, ErrAlreadySubmitted
	}

	latched := false
	if session.Step == StepSubmitting {
		// A submission that crashed after flipping the step leaves the
		// session parked here with no saga running. Claiming the latch
		// proves the previous attempt is gone (its latch lapsed), so the
		// session is retryable from Review.
		acquired, err := s.Store.AcquireSubmitLatch(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		if !acquired {
			return nil, ErrSubmissionInFlight
		}
		session.Step = StepReview
		latched = true
	}
	if session.Step != StepReview {
		return nil, ErrNotAtReview
	}
	if err := validateReview(session); err != nil {
		if latched {
			_ = s.Store.ReleaseSubmitLatch(ctx, sessionID)
		}
		return nil, err
	}

	if !latched {
		acquired, err := s.Store.AcquireSubmitLatch(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		if !acquired {
			return nil, ErrSubmissionInFlight
		}
	}

	session.Step = StepSubmitting
	session.UpdatedAt = time.Now()
	if err := s.Store.Save(ctx, session); err != nil {
		_ = s.Store.ReleaseSubmitLatch(ctx, sessionID)
		return nil, err
	}

	outcome := s.Saga.Execute(ctx, session.Request)
	presented := PresentOutcome(outcome)

	if outcome.Success {
		session.Step = StepSucceeded
		session.Submitted = true
	} else {
		// Back to Review (or the offending step) so the user can retry
		// without re-entering everything.
		session.Step = presented.ReturnToStep
		if session.Step == "" {
			session.Step = StepReview
		}
		if err := s.Store.ReleaseSubmitLatch(ctx, sessionID); err != nil {
			s.Logger.Warn("failed to release submit latch",
				zap.String("sessionID", sessionID), zap.Error(err))
		}
	}
	session.Outcome = &presented
	session.UpdatedAt = time.Now()
	if err := s.Store.Save(ctx, session); err != nil {
		s.Logger.Error("failed to persist session after submission",
			zap.String("sessionID", sessionID), zap.Error(err))
	}

	return &presented, nil
}

func (s *DefaultWizardService) load(ctx context.Context, sessionID, requesterID string) (*WizardSession, error) {
	session, err := s.Store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Request.RequesterID != requesterID {
		return nil, ErrNotSessionOwner
	}
	return session, nil
}

func (sess *WizardSession) terminal() bool {
	return sess.Step == StepSucceeded || sess.Step == StepSubmitting
}
