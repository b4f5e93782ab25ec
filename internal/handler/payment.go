package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/braincreator/flow-masters-access/internal/domain/order"
	"github.com/braincreator/flow-masters-access/internal/events"
)

// paymentCallback is the payload posted by the payment provider when an
// order's payment state changes.
type paymentCallback struct {
	OrderID     string `json:"order_id"`
	Status      string `json:"status"`
	ProviderRef string `json:"provider_ref"`
}

// paymentResponse acknowledges a processed callback.
type paymentResponse struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}

// handlePaymentCallback applies the reported status transition to the order
// and hands (new, previous) to the access workflow. The workflow only acts
// on the not-paid -> paid edge, so provider re-deliveries are no-ops.
// Workflow failures are logged for operator follow-up but still acknowledged:
// the payment itself is recorded.
func (h *Handler) handlePaymentCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var cb paymentCallback
	if err := json.NewDecoder(r.Body).Decode(&cb); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if cb.OrderID == "" {
		writeError(w, http.StatusBadRequest, "order_id is required")
		return
	}
	newStatus := order.Status(cb.Status)
	if !newStatus.Valid() {
		writeError(w, http.StatusBadRequest, "unknown status "+cb.Status)
		return
	}

	prev, err := h.orders.GetByID(ctx, cb.OrderID)
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			writeError(w, http.StatusNotFound, "order not found")
			return
		}
		zctx.From(ctx).Error("load order failed", zap.String("order_id", cb.OrderID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if !prev.Status.CanTransitionTo(newStatus) {
		writeError(w, http.StatusUnprocessableEntity,
			(&order.InvalidTransitionError{From: prev.Status, To: newStatus}).Error())
		return
	}

	cur := prev
	if prev.Status != newStatus {
		cur, err = h.orders.UpdateStatus(ctx, cb.OrderID, newStatus, cb.ProviderRef)
		if err != nil {
			zctx.From(ctx).Error("update order status failed", zap.String("order_id", cb.OrderID), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
	}

	// The grant is separate from recording the payment: its failure is
	// logged inside Safe and surfaced to operators, not to the provider.
	events.Safe(ctx, events.OpContext{
		EventType: "order.status_changed",
		EventID:   cur.ID,
	}, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, h.access.OnOrderChange(ctx, cur, prev)
	})

	writeJSON(w, http.StatusOK, paymentResponse{OrderID: cur.ID, Status: string(cur.Status)})
}
