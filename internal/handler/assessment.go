package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/braincreator/flow-masters-access/internal/domain/notification"
	"github.com/braincreator/flow-masters-access/internal/events"
)

// assessmentEvent is posted by the learning platform when a user submits an
// assessment. It only feeds notification dispatch; no entitlement changes.
type assessmentEvent struct {
	UserID       string `json:"user_id"`
	CourseID     string `json:"course_id"`
	AssessmentID string `json:"assessment_id"`
	Title        string `json:"title"`
}

func (h *Handler) handleAssessmentSubmitted(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var ev assessmentEvent
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if ev.UserID == "" || ev.AssessmentID == "" {
		writeError(w, http.StatusBadRequest, "user_id and assessment_id are required")
		return
	}

	res := events.Safe(ctx, events.OpContext{
		EventType: "assessment.submitted",
		EventID:   ev.AssessmentID,
	}, func(ctx context.Context) (*notification.Notification, error) {
		return h.notifier.Send(ctx, notification.Input{
			UserID:  ev.UserID,
			Type:    notification.TypeAssessmentSubmitted,
			Title:   "Assessment submitted",
			Message: fmt.Sprintf("Your submission for %s was received", ev.Title),
			Metadata: map[string]string{
				"assessment_id": ev.AssessmentID,
				"course_id":     ev.CourseID,
			},
		})
	})
	if !res.OK {
		// Persistence failed; delivery problems alone never reach here.
		writeError(w, http.StatusInternalServerError, "notification could not be recorded")
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"notification_id": res.Data.ID})
}
