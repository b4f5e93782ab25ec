// Package handler exposes the service's inbound HTTP surface: the payment
// provider callback that drives the access-granting workflow, and the
// assessment submission event that feeds notification dispatch.
package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/braincreator/flow-masters-access/internal/domain/notification"
	"github.com/braincreator/flow-masters-access/internal/domain/order"
)

// AccessGranter receives (new, previous) order documents after a status
// change. Satisfied by enrollment.Service.
type AccessGranter interface {
	OnOrderChange(ctx context.Context, cur, prev *order.Order) error
}

// Notifier sends a user-facing notification. Satisfied by
// notification.Dispatcher.
type Notifier interface {
	Send(ctx context.Context, in notification.Input) (*notification.Notification, error)
}

// Handler holds the dependencies of the inbound endpoints.
type Handler struct {
	orders   order.Repository
	access   AccessGranter
	notifier Notifier
}

// New constructs a Handler.
func New(orders order.Repository, access AccessGranter, notifier Notifier) *Handler {
	return &Handler{orders: orders, access: access, notifier: notifier}
}

// Register mounts the endpoints on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /webhooks/payment", h.handlePaymentCallback)
	mux.HandleFunc("POST /events/assessment", h.handleAssessmentSubmitted)
}

// errorResponse is the JSON error body.
type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Code: status, Message: msg})
}
