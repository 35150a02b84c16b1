package hire

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingRepo "taskly/database/repository/booking"
	workorderRepo "taskly/database/repository/workorder"
	"taskly/models"
	"taskly/services/fees"
	"taskly/services/notification"
	"taskly/services/wallet"

	auditRepo "taskly/database/repository/audit"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Stage tags a saga step in outcomes and logs.
type Stage string

const (
	StageWorkOrder Stage = "work_order"
	StageBooking   Stage = "booking"
	StageHold      Stage = "hold"
	StageStatus    Stage = "status_update"
	StageNotify    Stage = "notify"
	StageAudit     Stage = "audit"
)

// Outcome is the saga's single structured result. The saga never panics or
// returns an error past its boundary.
type Outcome struct {
	Success bool
	// Warning is set on the degraded-success path (step 4 failed after the
	// hold was placed).
	Warning string

	Stage  Stage
	Reason string
	// DataInvalid marks failures caused by the request data itself, so the
	// presenter can route the user to the offending step instead of Review.
	DataInvalid bool

	WorkOrderID string
	BookingID   string
	HoldID      string
	AmountHeld  float64
	Ref         string
	Quote       fees.Quote
}

// HireSaga performs the ordered side effects of a hire submission: create
// work order, create booking, place escrow hold, flip the work order to
// in_progress, then best-effort notify and audit. Steps 1-3 compensate in
// reverse order on failure so a work order and booking never outlive a
// missing hold.
type HireSaga struct {
	WorkOrders  workorderRepo.WorkOrderRepository
	Bookings    bookingRepo.BookingRepository
	Wallet      wallet.Client
	Notifier    notification.Service
	Audit       auditRepo.AuditRepository
	Fees        fees.Calculator
	StepTimeout time.Duration
	Logger      *zap.Logger
}

// Execute runs the saga for a finalized, validated request.
func (s *HireSaga) Execute(ctx context.Context, req models.HireRequest) Outcome {
	ref := uuid.New().String()
	// Amounts are recomputed here; a client-supplied fee is never trusted.
	quote := s.Fees.Quote(req.Budget)
	out := Outcome{Ref: ref, Quote: quote}

	// Step 1: create the work order. Nothing exists yet, so failure here
	// needs no compensation.
	var workOrderID string
	err := s.runStep(ctx, StageWorkOrder, func(stepCtx context.Context) error {
		wo := models.WorkOrder{
			RequesterID: req.RequesterID,
			Title:       req.Title,
			Category:    req.Category,
			Description: req.Description,
			Location:    req.Location,
			PayAmount:   quote.Budget,
			Priority:    req.IsUrgent,
			Status:      models.WorkOrderStatusOpen,
			Ref:         ref,
		}
		id, createErr := s.WorkOrders.Create(stepCtx, wo)
		workOrderID = id
		return createErr
	})
	if err != nil {
		return s.fail(out, StageWorkOrder, err)
	}
	out.WorkOrderID = workOrderID

	// Step 2: create the booking linked to the work order.
	var bookingID string
	err = s.runStep(ctx, StageBooking, func(stepCtx context.Context) error {
		bk := models.Booking{
			WorkOrderID: workOrderID,
			ProviderID:  req.ProviderID,
			RequesterID: req.RequesterID,
			Status:      models.BookingStatusPending,
			Message:     bookingMessage(req, quote),
			Ref:         ref,
		}
		id, createErr := s.Bookings.Create(stepCtx, bk)
		bookingID = id
		return createErr
	})
	if err != nil {
		s.compensate(workOrderID, "")
		return s.fail(out, StageBooking, err)
	}
	out.BookingID = bookingID

	// Step 3: place the escrow hold. The wallet's atomic conditional
	// decrement is the authoritative sufficiency gate; a rejection here is
	// an ordinary step failure, not an anomaly.
	var holdID string
	err = s.runStep(ctx, StageHold, func(stepCtx context.Context) error {
		id, holdErr := s.Wallet.PlaceHold(stepCtx, req.RequesterID, quote.Budget, wallet.HoldRef{
			WorkOrderID: workOrderID,
			BookingID:   bookingID,
			Ref:         ref,
		})
		holdID = id
		return holdErr
	})
	if err != nil {
		s.compensate(workOrderID, bookingID)
		return s.fail(out, StageHold, err)
	}
	out.HoldID = holdID
	out.AmountHeld = quote.Budget

	// Step 4: mark the work order in progress. The money is already held
	// and the booking exists; compensating now would orphan the hold, so a
	// failure degrades the outcome instead of rolling back.
	err = s.runStep(ctx, StageStatus, func(stepCtx context.Context) error {
		return s.WorkOrders.UpdateStatus(stepCtx, workOrderID, models.WorkOrderStatusInProgress)
	})
	if err != nil {
		s.Logger.Warn("work order status update failed after successful hold",
			zap.String("workOrderID", workOrderID), zap.Error(err))
		out.Warning = "work order status update failed; the booking and escrow hold are intact"
	}

	// Steps 5 and 6 are best-effort: log and move on.
	s.runBestEffort(ctx, StageNotify, func(stepCtx context.Context) error {
		return s.Notifier.Send(stepCtx, req.ProviderID,
			"New direct hire request",
			fmt.Sprintf("You have been hired for %q on %s.", req.Title, req.ScheduledDate),
			map[string]string{
				"type":          "direct_hire",
				"work_order_id": workOrderID,
				"booking_id":    bookingID,
			})
	})

	s.runBestEffort(ctx, StageAudit, func(stepCtx context.Context) error {
		return s.Audit.Append(stepCtx, models.AuditEvent{
			Actor:  req.RequesterID,
			Action: "hire.direct.completed",
			RefID:  ref,
			Details: map[string]string{
				"work_order_id": workOrderID,
				"booking_id":    bookingID,
				"hold_id":       holdID,
				"provider_id":   req.ProviderID,
				"amount_held":   fmt.Sprintf("%.2f", quote.Budget),
			},
		})
	})

	out.Success = true
	return out
}

// runStep executes a critical step under the configured timeout. A timeout
// is indistinguishable from an explicit failure: the unknown outcome is
// resolved conservatively by the caller's compensation path.
func (s *HireSaga) runStep(ctx context.Context, stage Stage, fn func(ctx context.Context) error) error {
	stepCtx, cancel := context.WithTimeout(ctx, s.stepTimeout())
	defer cancel()

	err := fn(stepCtx)
	if err != nil {
		s.Logger.Info("hire saga step failed", zap.String("stage", string(stage)), zap.Error(err))
	}
	return err
}

// runBestEffort executes a step whose failure never changes the outcome.
func (s *HireSaga) runBestEffort(ctx context.Context, stage Stage, fn func(ctx context.Context) error) {
	stepCtx, cancel := context.WithTimeout(ctx, s.stepTimeout())
	defer cancel()

	if err := fn(stepCtx); err != nil {
		s.Logger.Warn("best-effort hire saga step failed",
			zap.String("stage", string(stage)), zap.Error(err))
	}
}

// compensate undoes already-created records in reverse creation order, so a
// booking never references a deleted work order during the undo window. It
// runs on a fresh context: a cancelled request must not leave half a hire
// behind. Deletes tolerate "already gone"; a delete that errors leaves an
// orphan and is escalated for manual reconciliation.
func (s *HireSaga) compensate(workOrderID, bookingID string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.stepTimeout())
	defer cancel()

	if bookingID != "" {
		if err := s.Bookings.DeleteByID(ctx, bookingID); err != nil {
			s.Logger.Error("ORPHANED RECORD: failed to compensate booking",
				zap.String("bookingID", bookingID), zap.Error(err))
		}
	}
	if workOrderID != "" {
		if err := s.WorkOrders.DeleteByID(ctx, workOrderID); err != nil {
			s.Logger.Error("ORPHANED RECORD: failed to compensate work order",
				zap.String("workOrderID", workOrderID), zap.Error(err))
		}
	}
}

func (s *HireSaga) fail(out Outcome, stage Stage, err error) Outcome {
	out.Success = false
	out.Stage = stage
	out.Reason = reasonFor(stage, err)
	out.DataInvalid = errors.Is(err, wallet.ErrInvalidAmount)
	// Identifiers of compensated records must not leak into the outcome.
	out.WorkOrderID = ""
	out.BookingID = ""
	out.HoldID = ""
	out.AmountHeld = 0
	return out
}

func reasonFor(stage Stage, err error) string {
	switch {
	case errors.Is(err, wallet.ErrInsufficientFunds):
		return "insufficient funds at hold time"
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Sprintf("%s step timed out", stage)
	default:
		return err.Error()
	}
}

func (s *HireSaga) stepTimeout() time.Duration {
	if s.StepTimeout > 0 {
		return s.StepTimeout
	}
	return 5 * time.Second
}

func bookingMessage(req models.HireRequest, quote fees.Quote) string {
	return fmt.Sprintf("Direct hire for %q on %s (%s). Budget %.2f %s, est. %d hours. Provider earns %.2f after platform fee.",
		req.Title, req.ScheduledDate, req.TimeSlot,
		quote.Budget, req.PaymentType, req.EstimatedHours,
		quote.ProviderEarnings)
}
