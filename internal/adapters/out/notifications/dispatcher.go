// Package notifications is the outbound adapter for the notification
// collaborator. Delivery of push messages and SMS is owned by that service;
// this process only emits the facts. The dispatcher is fire and forget, so
// callers never fail a transaction over a notification.
package notifications

import (
	"context"
	"log/slog"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
)

// SlogDispatcher records every notification on the structured log. The
// notification service tails the log stream; swapping in a queue-backed
// dispatcher only requires another implementation of the same port.
type SlogDispatcher struct {
	logger *slog.Logger
}

// NewSlogDispatcher creates a log-backed notification dispatcher.
func NewSlogDispatcher(logger *slog.Logger) *SlogDispatcher {
	return &SlogDispatcher{logger: logger.With("component", "notifications")}
}

// CandidateNotified tells a courier they are a candidate for a delivery.
func (d *SlogDispatcher) CandidateNotified(
	ctx context.Context,
	courierID kernel.UUID,
	deliveryID kernel.UUID,
	attempt int,
) {
	d.logger.InfoContext(ctx, "Candidate notified",
		"courier_id", courierID.String(),
		"delivery_id", deliveryID.String(),
		"attempt", attempt)
}

// StatusChanged announces a delivery status transition.
func (d *SlogDispatcher) StatusChanged(
	ctx context.Context,
	deliveryID kernel.UUID,
	from delivery.Status,
	to delivery.Status,
) {
	d.logger.InfoContext(ctx, "Delivery status changed",
		"delivery_id", deliveryID.String(),
		"from", from.String(),
		"to", to.String())
}

// OTPIssued sends a freshly issued confirmation code to the recipient.
// The code itself never reaches the log; only the issuance fact does.
func (d *SlogDispatcher) OTPIssued(
	ctx context.Context,
	deliveryID kernel.UUID,
	recipientPhone string,
	_ string,
) {
	d.logger.InfoContext(ctx, "Confirmation code issued",
		"delivery_id", deliveryID.String(),
		"recipient_phone", maskPhone(recipientPhone))
}

// maskPhone keeps the last two digits for correlation.
func maskPhone(phone string) string {
	if len(phone) <= 2 {
		return "**"
	}
	masked := make([]byte, len(phone)-2)
	for i := range masked {
		masked[i] = '*'
	}
	return string(masked) + phone[len(phone)-2:]
}
