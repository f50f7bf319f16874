package quests

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/Majdiscode/calinode/internal/progression/progress"
	"github.com/Majdiscode/calinode/internal/telemetry/tracing"
	"github.com/Majdiscode/calinode/pkg"
)

type DailyQuestsResponse struct {
	Quests      []Quest `json:"quests"`
	GeneratedAt string  `json:"generatedAt"`
}

type Handler struct {
	generator    *Generator
	tracker      *Tracker
	repo         *Repo
	progressRepo *progress.Repo
}

func NewHandler(generator *Generator, tracker *Tracker, repo *Repo, progressRepo *progress.Repo) *Handler {
	return &Handler{
		generator:    generator,
		tracker:      tracker,
		repo:         repo,
		progressRepo: progressRepo,
	}
}

func (h *Handler) HandleGetDailyQuests(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progression.quests")
	defer span.End()

	userID := mux.Vars(r)["uid"]
	if userID == "" {
		http.Error(w, "user id is required", http.StatusBadRequest)
		return
	}

	ds, err := h.generator.EnsureDailyQuests(ctx, userID)
	if err != nil {
		log.Errorf("get daily quests for user %s: %s", userID, err)
		http.Error(w, "get daily quests failed", http.StatusInternalServerError)
		return
	}

	h.writeDailySet(w, ds)
}

func (h *Handler) HandleRegenerate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progression.quests.regenerate")
	defer span.End()

	userID := mux.Vars(r)["uid"]
	if userID == "" {
		http.Error(w, "user id is required", http.StatusBadRequest)
		return
	}

	if err := h.tracker.Regenerate(ctx, userID); err != nil {
		log.Errorf("regenerate quests for user %s: %s", userID, err)
		http.Error(w, "regenerate quests failed", http.StatusInternalServerError)
		return
	}

	ds, err := h.generator.EnsureDailyQuests(ctx, userID)
	if err != nil {
		log.Errorf("load regenerated quests for user %s: %s", userID, err)
		http.Error(w, "regenerate quests failed", http.StatusInternalServerError)
		return
	}

	h.writeDailySet(w, ds)
}

func (h *Handler) HandleGetHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progression.quests.history")
	defer span.End()

	vars := mux.Vars(r)
	userID := vars["uid"]
	day := vars["date"]
	if userID == "" || day == "" {
		http.Error(w, "user id and date are required", http.StatusBadRequest)
		return
	}

	archived, err := h.repo.GetArchivedDay(ctx, userID, day)
	if err != nil {
		if errors.Is(err, ErrNoDailySet) {
			http.Error(w, "no quest history for that day", http.StatusNotFound)
			return
		}
		log.Errorf("get quest history for user %s, day %s: %s", userID, day, err)
		http.Error(w, "get quest history failed", http.StatusInternalServerError)
		return
	}

	archivedJson, err := json.Marshal(archived)
	if err != nil {
		log.Errorf("failed to marshal quest history: %s", err)
		http.Error(w, "get quest history failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, archivedJson)
}

func (h *Handler) HandleGetProgress(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progression.progress")
	defer span.End()

	userID := mux.Vars(r)["uid"]
	if userID == "" {
		http.Error(w, "user id is required", http.StatusBadRequest)
		return
	}

	up, err := h.progressRepo.Get(ctx, userID)
	if err != nil {
		log.Errorf("get progress for user %s: %s", userID, err)
		http.Error(w, "get progress failed", http.StatusInternalServerError)
		return
	}

	progressJson, err := json.Marshal(up)
	if err != nil {
		log.Errorf("failed to marshal user progress: %s", err)
		http.Error(w, "get progress failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, progressJson)
}

func (h *Handler) HandleResetQuests(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progression.quests.reset")
	defer span.End()

	userID := mux.Vars(r)["uid"]
	if userID == "" {
		http.Error(w, "user id is required", http.StatusBadRequest)
		return
	}

	if err := h.tracker.Reset(ctx, userID); err != nil {
		log.Errorf("reset quests for user %s: %s", userID, err)
		http.Error(w, "reset quests failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteTextResponseOK(w, "quests reset")
}

func (h *Handler) writeDailySet(w http.ResponseWriter, ds *DailySet) {
	respJson, err := json.Marshal(DailyQuestsResponse{
		Quests:      ds.Quests,
		GeneratedAt: ds.GeneratedAt.Format(dayFormat),
	})
	if err != nil {
		log.Errorf("failed to marshal daily quests: %s", err)
		http.Error(w, "get daily quests failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}
