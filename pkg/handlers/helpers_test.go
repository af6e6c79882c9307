package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"leadflow-backend/pkg/config"
	"leadflow-backend/pkg/database"
	"leadflow-backend/pkg/middleware"
	"leadflow-backend/pkg/models"
)

func testConfig() *config.Config {
	return &config.Config{
		Environment:    "development",
		Port:           "8080",
		JWTSecret:      "unit-test-secret",
		AllowedOrigins: []string{"*"},
	}
}

func newTestUser(t *testing.T, db database.Store, email string) *models.User {
	t.Helper()
	user := &models.User{Email: email}
	require.NoError(t, db.CreateUser(user))
	return user
}

func newTestCampaign(t *testing.T, db database.Store, userID, name string) *models.Campaign {
	t.Helper()
	c := &models.Campaign{Name: name, UserID: userID}
	require.NoError(t, db.CreateCampaign(c))
	return c
}

func newTestLead(t *testing.T, db database.Store, campaignID, name string, status models.LeadStatus) *models.Lead {
	t.Helper()
	l := &models.Lead{
		Name:       name,
		Email:      name + "@example.com",
		Status:     status,
		CampaignID: campaignID,
	}
	require.NoError(t, db.CreateLead(l))
	return l
}

// newRequest builds a request the way the router would deliver it: the
// session user in the context and the {id} route parameter, when given,
// in the chi route context.
func newRequest(t *testing.T, method, target string, body interface{}, user *models.User, id string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")

	ctx := req.Context()
	if user != nil {
		ctx = context.WithValue(ctx, middleware.UserContextKey, user)
	}
	if id != "" {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", id)
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}
	return req.WithContext(ctx)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(v))
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	decodeBody(t, rec, &body)
	return body.Error
}
