package readiness

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

type AvailableTestsResponse struct {
	Tests []progress.SkillReadinessTest `json:"tests"`
}

type CompleteTestRequest struct {
	Results map[string]int `json:"results"`
}

type CompleteTestResponse struct {
	TestID string `json:"testId"`
	Passed bool   `json:"passed"`
}

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service: service,
	}
}

func (h *Handler) HandleAvailableTests(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progression.readiness")
	defer span.End()

	userID := mux.Vars(r)["uid"]
	if userID == "" {
		http.Error(w, "user id is required", http.StatusBadRequest)
		return
	}

	tests, err := h.service.AvailableTests(ctx, userID)
	if err != nil {
		log.Errorf("available readiness tests for user %s: %s", userID, err)
		http.Error(w, "get readiness tests failed", http.StatusInternalServerError)
		return
	}

	respJson, err := json.Marshal(AvailableTestsResponse{Tests: tests})
	if err != nil {
		log.Errorf("failed to marshal readiness tests: %s", err)
		http.Error(w, "get readiness tests failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}

func (h *Handler) HandleCompleteTest(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progression.readiness.complete")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	vars := mux.Vars(r)
	userID := vars["uid"]
	testID := vars["testId"]
	if userID == "" || testID == "" {
		http.Error(w, "user id and test id are required", http.StatusBadRequest)
		return
	}

	var req CompleteTestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("complete readiness test, unmarshal json params: %s", err)
		http.Error(w, "complete readiness test failed", http.StatusBadRequest)
		return
	}

	passed, err := h.service.CompleteReadinessTest(ctx, userID, testID, req.Results)
	if err != nil {
		if errors.Is(err, ErrTestNotFound) {
			http.Error(w, "readiness test not found", http.StatusNotFound)
			return
		}
		log.Errorf("complete readiness test %s for user %s: %s", testID, userID, err)
		http.Error(w, "complete readiness test failed", http.StatusInternalServerError)
		return
	}

	respJson, err := json.Marshal(CompleteTestResponse{
		TestID: testID,
		Passed: passed,
	})
	if err != nil {
		log.Errorf("failed to marshal readiness test result: %s", err)
		http.Error(w, "complete readiness test failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}
