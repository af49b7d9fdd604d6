package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"totocalcio/internal/apperr"
	"totocalcio/internal/auth"
	"totocalcio/internal/models"
	"totocalcio/internal/repository"
	"totocalcio/internal/services"
)

func setupRouter(t *testing.T) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	clock := func() time.Time { return time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC) }
	pool := services.NewPoolService(repository.NewRepository(db), nil, services.WithClock(clock))

	router := gin.New()
	NewPoolHandler(pool).RegisterRoutes(router)

	auth.InitJWT("handler-test-secret")
	token, err := auth.GenerateToken("tester", time.Hour)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	return router, token
}

func do(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

var tournamentBody = map[string]interface{}{
	"name":                    "Serie A",
	"year":                    2026,
	"start_date":              "2026-08-23",
	"num_rounds":              36,
	"num_matches_per_round":   13,
	"num_participants":        20,
	"min_correct_predictions": 9,
	"participant_fee":         "10",
	"weekly_prize_percentage": "20",
	"final_prizes_percentage": "80",
}

func TestCreateTournamentEndpoint(t *testing.T) {
	router, token := setupRouter(t)

	if w := do(t, router, http.MethodPost, "/api/tournaments", "", tournamentBody); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}

	w := do(t, router, http.MethodPost, "/api/tournaments", token, tournamentBody)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var created models.Tournament
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if created.WeeklyBudget.String() != "200" || created.State != models.TournamentStateAddingParticipants {
		t.Errorf("unexpected tournament: %+v", created)
	}

	if w := do(t, router, http.MethodPost, "/api/tournaments", token, tournamentBody); w.Code != http.StatusConflict {
		t.Errorf("expected 409 for a second active tournament, got %d", w.Code)
	}

	w = do(t, router, http.MethodGet, "/api/tournaments/active", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w := do(t, router, http.MethodGet, "/api/tournaments/999", "", nil); w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
	if w := do(t, router, http.MethodGet, "/api/tournaments/abc", "", nil); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for a malformed id, got %d", w.Code)
	}
}

func TestCreateTournamentEndpointValidation(t *testing.T) {
	router, token := setupRouter(t)

	invalid := map[string]interface{}{}
	for k, v := range tournamentBody {
		invalid[k] = v
	}
	invalid["num_participants"] = 5
	if w := do(t, router, http.MethodPost, "/api/tournaments", token, invalid); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for invalid config, got %d", w.Code)
	}

	invalid["num_participants"] = 20
	invalid["start_date"] = "23/08/2026"
	if w := do(t, router, http.MethodPost, "/api/tournaments", token, invalid); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for a malformed date, got %d", w.Code)
	}
}

func TestParticipantAndRoundEndpoints(t *testing.T) {
	router, token := setupRouter(t)
	if w := do(t, router, http.MethodPost, "/api/tournaments", token, tournamentBody); w.Code != http.StatusCreated {
		t.Fatalf("failed to create tournament: %d", w.Code)
	}

	w := do(t, router, http.MethodPost, "/api/participants", token, map[string]string{"name": "Alice"})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if w := do(t, router, http.MethodPost, "/api/participants", token, map[string]string{"name": "alice"}); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for a duplicate name, got %d", w.Code)
	}

	w = do(t, router, http.MethodPut, "/api/matches/1/result", token, map[string]string{"result": "1"})
	if w.Code != http.StatusConflict {
		t.Errorf("expected 409 before the tournament starts, got %d", w.Code)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode error: %v", err)
	}
	if body["kind"] != string(apperr.KindState) {
		t.Errorf("expected state kind, got %v", body["kind"])
	}

	if w := do(t, router, http.MethodGet, "/api/rounds/current", "", nil); w.Code != http.StatusNotFound {
		t.Errorf("expected 404 before the first round, got %d", w.Code)
	}
	if w := do(t, router, http.MethodGet, "/api/rounds/zero/summary", "", nil); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for a malformed round number, got %d", w.Code)
	}

	w = do(t, router, http.MethodGet, "/api/participants", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var list struct {
		Total int `json:"total"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("failed to decode participants: %v", err)
	}
	if list.Total != 1 {
		t.Errorf("expected 1 participant, got %d", list.Total)
	}

	w = do(t, router, http.MethodGet, "/api/final-prizes/target?percentage=50", "", nil)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{apperr.Validation("bad"), http.StatusBadRequest},
		{apperr.State("wrong state"), http.StatusConflict},
		{apperr.Participant("full"), http.StatusUnprocessableEntity},
		{apperr.Match("foreign"), http.StatusUnprocessableEntity},
		{apperr.Prediction("missing"), http.StatusUnprocessableEntity},
		{apperr.Result("foreign"), http.StatusUnprocessableEntity},
		{apperr.Prize("shape"), http.StatusUnprocessableEntity},
		{apperr.NotFound("gone"), http.StatusNotFound},
		{apperr.Database(errors.New("disk"), "failed"), http.StatusInternalServerError},
		{apperr.Export(context.DeadlineExceeded, "failed"), http.StatusBadGateway},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.status {
			t.Errorf("%v: expected %d, got %d", tt.err, tt.status, got)
		}
	}
}
