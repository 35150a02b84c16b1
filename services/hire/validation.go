package hire

import (
	"context"
	"time"

	"taskly/services/wallet"
)

const (
	minTitleLen       = 5
	minDescriptionLen = 20
	minEstimatedHours = 1
)

// validateStep runs the current step's local predicate. A nil return means
// the wizard may advance.
func (s *DefaultWizardService) validateStep(ctx context.Context, sess *WizardSession) error {
	switch sess.Step {
	case StepDetails:
		return validateDetails(sess)
	case StepSchedule:
		return validateSchedule(sess)
	case StepBudget:
		return s.validateBudget(sess)
	case StepPayment:
		return s.validatePayment(ctx, sess)
	case StepReview:
		return validateReview(sess)
	}
	return nil
}

func validateDetails(sess *WizardSession) error {
	req := sess.Request
	if len(req.Title) < minTitleLen {
		return &ValidationError{Step: StepDetails, Field: "title", Message: "title must be at least 5 characters"}
	}
	if req.Category == "" {
		return &ValidationError{Step: StepDetails, Field: "category", Message: "category is required"}
	}
	if len(req.Description) < minDescriptionLen {
		return &ValidationError{Step: StepDetails, Field: "description", Message: "description must be at least 20 characters"}
	}
	return nil
}

func validateSchedule(sess *WizardSession) error {
	req := sess.Request
	if req.ScheduledDate == "" {
		return &ValidationError{Step: StepSchedule, Field: "scheduled_date", Message: "date is required"}
	}
	date, err := time.Parse("2006-01-02", req.ScheduledDate)
	if err != nil {
		return &ValidationError{Step: StepSchedule, Field: "scheduled_date", Message: "date must be in YYYY-MM-DD format"}
	}
	// The parsed date is UTC midnight, so "today" must be built from the
	// local calendar date in UTC too; truncating time.Now() would shift the
	// boundary by the server's zone offset.
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if date.Before(today) {
		return &ValidationError{Step: StepSchedule, Field: "scheduled_date", Message: "date must not be in the past"}
	}
	if req.TimeSlot == "" {
		return &ValidationError{Step: StepSchedule, Field: "time_slot", Message: "time slot is required"}
	}
	return nil
}

func (s *DefaultWizardService) validateBudget(sess *WizardSession) error {
	req := sess.Request
	if req.Budget < s.MinBudget {
		return &ValidationError{Step: StepBudget, Field: "budget", Message: "budget is below the minimum"}
	}
	if req.EstimatedHours < minEstimatedHours {
		return &ValidationError{Step: StepBudget, Field: "estimated_hours", Message: "estimated hours must be at least 1"}
	}
	if req.PaymentType != "fixed" && req.PaymentType != "hourly" {
		return &ValidationError{Step: StepBudget, Field: "payment_type", Message: "payment type must be fixed or hourly"}
	}
	return nil
}

// validatePayment checks wallet sufficiency and the hold authorization
// acknowledgment. The balance read here is advisory only; the saga's hold
// step is the authoritative gate.
func (s *DefaultWizardService) validatePayment(ctx context.Context, sess *WizardSession) error {
	if !sess.HoldAuthAck {
		return &ValidationError{Step: StepPayment, Field: "hold_auth_ack", Message: "escrow hold must be authorized"}
	}

	quote := s.Fees.Quote(sess.Request.Budget)
	afford, err := wallet.CheckAffordability(ctx, s.Wallet, sess.Request.RequesterID, quote.Budget)
	if err != nil {
		return err
	}
	if !afford.Sufficient {
		return &InsufficientBalanceError{Balance: afford.Balance, Required: quote.Budget}
	}
	return nil
}

func validateReview(sess *WizardSession) error {
	if !sess.EscrowAck {
		return &ValidationError{Step: StepReview, Field: "escrow_ack", Message: "escrow terms must be acknowledged"}
	}
	if !sess.TermsAck {
		return &ValidationError{Step: StepReview, Field: "terms_ack", Message: "terms of service must be acknowledged"}
	}
	return nil
}
