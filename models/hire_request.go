package models

// PaymentType describes how the provider is paid for a work order.
const (
	PaymentTypeFixed  = "fixed"
	PaymentTypeHourly = "hourly"
)

// HireRequest accumulates the data entered across the direct-hire wizard
// steps. It lives in the session cache while the flow is in progress and is
// converted into durable records only at submission.
type HireRequest struct {
	RequesterID string `json:"requester_id"`
	ProviderID  string `json:"provider_id"`

	// Details step.
	Title       string `json:"title"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Location    string `json:"location"`
	IsUrgent    bool   `json:"is_urgent"`

	// Schedule step. Date in "YYYY-MM-DD" format.
	ScheduledDate string `json:"scheduled_date"`
	TimeSlot      string `json:"time_slot"`
	Flexibility   string `json:"flexibility"`

	// Budget step.
	EstimatedHours int     `json:"estimated_hours"`
	Budget         float64 `json:"budget"`
	PaymentType    string  `json:"payment_type"`
}
