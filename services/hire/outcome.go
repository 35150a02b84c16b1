package hire

// Outcome statuses surfaced to the caller.
const (
	StatusSucceeded            = "succeeded"
	StatusSucceededWithWarning = "succeeded_with_warning"
	StatusFailed               = "failed"
)

// PresentedOutcome is the terminal state rendered back to the caller.
type PresentedOutcome struct {
	Status  string `json:"status"`
	Message string `json:"message"`

	WorkOrderID string  `json:"work_order_id,omitempty"`
	BookingID   string  `json:"booking_id,omitempty"`
	AmountHeld  float64 `json:"amount_held,omitempty"`

	Stage        Stage    `json:"stage,omitempty"`
	Reason       string   `json:"reason,omitempty"`
	ReturnToStep Step     `json:"return_to_step,omitempty"`
	NextActions  []string `json:"next_actions,omitempty"`
}

// PresentOutcome maps a saga outcome to its caller-facing rendering.
func PresentOutcome(o Outcome) PresentedOutcome {
	if o.Success {
		p := PresentedOutcome{
			Status:      StatusSucceeded,
			Message:     "Provider hired. Funds are held in escrow until the task is complete.",
			WorkOrderID: o.WorkOrderID,
			BookingID:   o.BookingID,
			AmountHeld:  o.AmountHeld,
			NextActions: []string{"view_bookings", "message_provider"},
		}
		if o.Warning != "" {
			p.Status = StatusSucceededWithWarning
			p.Message = "Provider hired. " + o.Warning + "."
		}
		return p
	}

	return PresentedOutcome{
		Status:       StatusFailed,
		Message:      "The hire could not be completed. No charges were made.",
		Stage:        o.Stage,
		Reason:       o.Reason,
		ReturnToStep: returnStepFor(o),
	}
}

// returnStepFor picks where the wizard resumes after a failure: Review by
// default, or the step owning the invalid data.
func returnStepFor(o Outcome) Step {
	if !o.DataInvalid {
		return StepReview
	}
	switch o.Stage {
	case StageWorkOrder, StageBooking:
		return StepDetails
	case StageHold:
		return StepBudget
	default:
		return StepReview
	}
}
