package streaks

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/Majdiscode/calinode/internal/telemetry/tracing"
	"github.com/Majdiscode/calinode/pkg"
)

type WeeklyViewResponse struct {
	Workouts []DayStatus `json:"workouts"`
	Quests   []DayStatus `json:"quests"`
}

type MonthlyViewResponse struct {
	WorkoutRatio float64 `json:"workoutRatio"`
	QuestRatio   float64 `json:"questRatio"`
}

type StreakStatusResponse struct {
	StreakData
	WorkoutStreakActive bool `json:"workoutStreakActive"`
	QuestStreakActive   bool `json:"questStreakActive"`
}

type Handler struct {
	tracker *Tracker
	now     func() time.Time
}

func NewHandler(tracker *Tracker) *Handler {
	return &Handler{
		tracker: tracker,
		now:     time.Now,
	}
}

func (h *Handler) HandleGetStreaks(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progression.streaks")
	defer span.End()

	userID := mux.Vars(r)["uid"]
	if userID == "" {
		http.Error(w, "user id is required", http.StatusBadRequest)
		return
	}

	s, err := h.tracker.Get(ctx, userID)
	if err != nil {
		log.Errorf("get streaks for user %s: %s", userID, err)
		http.Error(w, "get streaks failed", http.StatusInternalServerError)
		return
	}

	now := h.now()
	respJson, err := json.Marshal(StreakStatusResponse{
		StreakData:          *s,
		WorkoutStreakActive: s.IsWorkoutStreakActive(now),
		QuestStreakActive:   s.IsQuestStreakActive(now),
	})
	if err != nil {
		log.Errorf("failed to marshal streak data: %s", err)
		http.Error(w, "get streaks failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}

func (h *Handler) HandleWeeklyView(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progression.streaks.weekly")
	defer span.End()

	userID := mux.Vars(r)["uid"]
	if userID == "" {
		http.Error(w, "user id is required", http.StatusBadRequest)
		return
	}

	s, err := h.tracker.Get(ctx, userID)
	if err != nil {
		log.Errorf("weekly streak view for user %s: %s", userID, err)
		http.Error(w, "get weekly view failed", http.StatusInternalServerError)
		return
	}

	now := h.now()
	respJson, err := json.Marshal(WeeklyViewResponse{
		Workouts: s.WeeklyWorkoutView(now),
		Quests:   s.WeeklyQuestView(now),
	})
	if err != nil {
		log.Errorf("failed to marshal weekly streak view: %s", err)
		http.Error(w, "get weekly view failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}

func (h *Handler) HandleMonthlyView(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progression.streaks.monthly")
	defer span.End()

	userID := mux.Vars(r)["uid"]
	if userID == "" {
		http.Error(w, "user id is required", http.StatusBadRequest)
		return
	}

	s, err := h.tracker.Get(ctx, userID)
	if err != nil {
		log.Errorf("monthly streak view for user %s: %s", userID, err)
		http.Error(w, "get monthly view failed", http.StatusInternalServerError)
		return
	}

	now := h.now()
	respJson, err := json.Marshal(MonthlyViewResponse{
		WorkoutRatio: s.MonthlyWorkoutRatio(now),
		QuestRatio:   s.MonthlyQuestRatio(now),
	})
	if err != nil {
		log.Errorf("failed to marshal monthly streak view: %s", err)
		http.Error(w, "get monthly view failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}

func (h *Handler) HandleResetStreaks(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progression.streaks.reset")
	defer span.End()

	userID := mux.Vars(r)["uid"]
	if userID == "" {
		http.Error(w, "user id is required", http.StatusBadRequest)
		return
	}

	if err := h.tracker.Reset(ctx, userID); err != nil {
		log.Errorf("reset streaks for user %s: %s", userID, err)
		http.Error(w, "reset streaks failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteTextResponseOK(w, "streaks reset")
}
