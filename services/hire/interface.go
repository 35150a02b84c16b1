package hire

import (
	"context"

	"taskly/models"
	"taskly/services/fees"
	"taskly/services/wallet"

	"go.uber.org/zap"
)

// WizardService drives the five-step direct-hire wizard.
type WizardService interface {
	Start(ctx context.Context, requesterID, providerID string) (*WizardSession, error)
	Get(ctx context.Context, sessionID, requesterID string) (*SessionView, error)
	UpdateStep(ctx context.Context, sessionID, requesterID string, input StepInput) (*WizardSession, error)
	Advance(ctx context.Context, sessionID, requesterID string) (*WizardSession, error)
	Back(ctx context.Context, sessionID, requesterID string) (*WizardSession, error)
	Cancel(ctx context.Context, sessionID, requesterID string) error
	Submit(ctx context.Context, sessionID, requesterID string) (*PresentedOutcome, error)
}

// SagaRunner executes the ordered hire transaction for a finalized request.
type SagaRunner interface {
	Execute(ctx context.Context, req models.HireRequest) Outcome
}

// SessionView is a session plus its live fee and affordability preview.
type SessionView struct {
	Session       *WizardSession        `json:"session"`
	Quote         fees.Quote            `json:"quote,omitempty"`
	Affordability *wallet.Affordability `json:"affordability,omitempty"`
}

// DefaultWizardService implements WizardService.
type DefaultWizardService struct {
	Store     SessionStore
	Wallet    wallet.Client
	Fees      fees.Calculator
	Saga      SagaRunner
	MinBudget float64
	Logger    *zap.Logger
}
