package domain

import "time"

type RefundStatus string

const (
	RefundStatusPending    RefundStatus = "pending"
	RefundStatusProcessing RefundStatus = "processing"
	RefundStatusCompleted  RefundStatus = "completed"
	RefundStatusFailed     RefundStatus = "failed"
)

// Cancellation records the outcome of voiding a booking: the computed fee,
// the refund owed to the user's wallet, and how far refund processing got.
// There is at most one per booking and it is terminal once the refund status
// reaches completed or failed.
type Cancellation struct {
	ID           string
	BookingID    string
	Reason       string
	Fee          int64
	RefundAmount int64
	RefundStatus RefundStatus
	ProcessedAt  *time.Time
	CreatedAt    time.Time
}
