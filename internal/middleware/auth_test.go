package middleware_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Majdiscode/calinode/internal/auth"
	"github.com/Majdiscode/calinode/internal/middleware"
)

func TestAuthMiddlewareHandler_AuthCheck(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	loginChecker := auth.NewLoginChecker(time.Hour, db)
	authMiddleware := middleware.NewAuthMiddlewareHandler("ios-app-secret", loginChecker)

	validToken := "valid-token"
	mock.ExpectGet("calinode-service-session||" + validToken).
		SetVal(fmt.Sprintf("%d", time.Now().Unix()))

	testCases := []struct {
		name               string
		path               string
		method             string
		appSecretHeader    string
		authTokenHeader    string
		expectedStatusCode int
	}{
		{
			name:               "AllowedPathWithoutToken",
			path:               "/version",
			method:             "GET",
			expectedStatusCode: http.StatusOK,
		},
		{
			name:               "ProgressionWithAppSecret",
			path:               "/progression/user/user-a/quests",
			method:             "GET",
			appSecretHeader:    "ios-app-secret",
			expectedStatusCode: http.StatusOK,
		},
		{
			name:               "ProgressionWithWrongAppSecret",
			path:               "/progression/user/user-a/quests",
			method:             "GET",
			appSecretHeader:    "nope",
			expectedStatusCode: http.StatusUnauthorized,
		},
		{
			name:               "ProgressionWithoutAppSecret",
			path:               "/progression/user/user-a/quests",
			method:             "GET",
			expectedStatusCode: http.StatusUnauthorized,
		},
		{
			name:               "AdminRouteWithoutToken",
			path:               "/admin/panel",
			method:             "GET",
			expectedStatusCode: http.StatusUnauthorized,
		},
		{
			name:               "AdminRouteWithValidToken",
			path:               "/admin/panel",
			method:             "GET",
			authTokenHeader:    validToken,
			expectedStatusCode: http.StatusOK,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			if tc.appSecretHeader != "" {
				req.Header.Set("X-CALINODE-APP-SECRET", tc.appSecretHeader)
			}
			if tc.authTokenHeader != "" {
				req.Header.Set("X-CALINODE-TOKEN", tc.authTokenHeader)
			}

			rr := httptest.NewRecorder()
			handler := authMiddleware.AuthCheck()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatusCode, rr.Code)
		})
	}
}

func TestAuthMiddlewareHandler_AuthCheck_emptyAppSecret(t *testing.T) {
	db, _ := redismock.NewClientMock()
	defer db.Close()

	// no app secret configured: progression routes must stay closed,
	// an empty request header is not a match
	authMiddleware := middleware.NewAuthMiddlewareHandler("", auth.NewLoginChecker(time.Hour, db))

	req := httptest.NewRequest("GET", "/progression/user/user-a/quests", nil)
	rr := httptest.NewRecorder()

	nextCalled := false
	handler := authMiddleware.AuthCheck()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
	}))
	handler.ServeHTTP(rr, req)

	require.False(t, nextCalled)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
