package profile

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/Majdiscode/calinode/internal/telemetry/tracing"
	"github.com/Majdiscode/calinode/pkg"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service: service,
	}
}

func (h *Handler) HandleCompleteAssessment(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progression.assessment")
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

	var result AssessmentResult
	if err := json.NewDecoder(r.Body).Decode(&result); err != nil {
		log.Errorf("complete assessment, unmarshal json params: %s", err)
		http.Error(w, "complete assessment failed", http.StatusBadRequest)
		return
	}

	p, err := h.service.CompleteAssessment(ctx, userID, result)
	if err != nil {
		log.Errorf("complete assessment for user %s: %s", userID, err)
		http.Error(w, "complete assessment failed", http.StatusInternalServerError)
		return
	}

	profileJson, err := json.Marshal(p)
	if err != nil {
		log.Errorf("failed to marshal capability profile: %s", err)
		http.Error(w, "complete assessment failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, profileJson, http.StatusCreated)
}

func (h *Handler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progression.getProfile")
	defer span.End()

	userID := mux.Vars(r)["uid"]
	if userID == "" {
		http.Error(w, "user id is required", http.StatusBadRequest)
		return
	}

	p, err := h.service.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			http.Error(w, "capability profile not found", http.StatusNotFound)
			return
		}
		log.Errorf("get profile for user %s: %s", userID, err)
		http.Error(w, "get profile failed", http.StatusInternalServerError)
		return
	}

	profileJson, err := json.Marshal(p)
	if err != nil {
		log.Errorf("failed to marshal capability profile: %s", err)
		http.Error(w, "get profile failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, profileJson)
}
