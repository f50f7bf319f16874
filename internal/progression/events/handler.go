package events

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/Majdiscode/calinode/internal/telemetry/metrics"
	"github.com/Majdiscode/calinode/internal/telemetry/tracing"
	"github.com/Majdiscode/calinode/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=events_test

type progressionTracker interface {
	UpdateQuestProgress(ctx context.Context, userID string, event WorkoutEvent) error
}

type WorkoutProcessedResponse struct {
	EventID   string `json:"eventId"`
	Processed bool   `json:"processed"`
}

type Handler struct {
	tracker progressionTracker
	metrics *metrics.Manager
}

func NewHandler(tracker progressionTracker, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		tracker: tracker,
		metrics: metricsManager,
	}
}

func (h *Handler) HandleWorkoutFinished(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progression.workout")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	userID := mux.Vars(r)["uid"]
	if userID == "" {
		http.Error(w, "user id is required", http.StatusBadRequest)
		return
	}

	var event WorkoutEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		log.Errorf("workout finished, unmarshal json params: %s", err)
		http.Error(w, "process workout failed", http.StatusBadRequest)
		return
	}
	event.UserID = userID

	if err := h.tracker.UpdateQuestProgress(ctx, userID, event); err != nil {
		log.Errorf("process workout for user %s: %s", userID, err)
		http.Error(w, "process workout failed", http.StatusInternalServerError)
		return
	}

	h.metrics.CounterWorkoutEvents.Inc()

	respJson, err := json.Marshal(WorkoutProcessedResponse{
		EventID:   event.ID,
		Processed: true,
	})
	if err != nil {
		log.Errorf("failed to marshal workout processed response: %s", err)
		http.Error(w, "process workout failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusOK)
}
