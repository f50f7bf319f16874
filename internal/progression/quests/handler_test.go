package quests_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Majdiscode/calinode/internal/progression/quests"
)

func newHandler(t *testing.T) (*quests.Handler, trackerDeps) {
	t.Helper()
	deps := newTrackerDeps(t)
	return quests.NewHandler(deps.generator, deps.tracker, deps.questRepo, deps.progressRepo), deps
}

func TestHandler_GetDailyQuests(t *testing.T) {
	handler, _ := newHandler(t)

	req := httptest.NewRequest("GET", "/user/user-a/quests", nil)
	req = mux.SetURLVars(req, map[string]string{"uid": "user-a"})
	rr := httptest.NewRecorder()

	handler.HandleGetDailyQuests(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp quests.DailyQuestsResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Quests, 2)
	assert.Equal(t, "Start Your Journey", resp.Quests[0].Title)
	assert.Equal(t, "Take the Assessment", resp.Quests[1].Title)
}

func TestHandler_GetDailyQuests_missingUserID(t *testing.T) {
	handler, _ := newHandler(t)

	req := httptest.NewRequest("GET", "/user//quests", nil)
	rr := httptest.NewRecorder()

	handler.HandleGetDailyQuests(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandler_GetHistory_notFound(t *testing.T) {
	handler, _ := newHandler(t)

	req := httptest.NewRequest("GET", "/user/user-a/quests/history/2026-08-30", nil)
	req = mux.SetURLVars(req, map[string]string{"uid": "user-a", "date": "2026-08-30"})
	rr := httptest.NewRecorder()

	handler.HandleGetHistory(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHandler_ResetQuests(t *testing.T) {
	ctx := context.Background()
	handler, deps := newHandler(t)

	_, err := deps.generator.EnsureDailyQuests(ctx, "user-a")
	require.NoError(t, err)

	req := httptest.NewRequest("DELETE", "/user/user-a/quests", nil)
	req = mux.SetURLVars(req, map[string]string{"uid": "user-a"})
	rr := httptest.NewRecorder()

	handler.HandleResetQuests(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	_, err = deps.questRepo.GetDailySet(ctx, "user-a")
	assert.ErrorIs(t, err, quests.ErrNoDailySet)
}
