package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/p2e-inferno/rewards-service/internal/api/handlers"
	"github.com/p2e-inferno/rewards-service/internal/models"
	"github.com/p2e-inferno/rewards-service/internal/repository"
	"github.com/p2e-inferno/rewards-service/internal/service"
	"github.com/p2e-inferno/rewards-service/internal/verification"
	"github.com/p2e-inferno/rewards-service/internal/xp"
	"gorm.io/gorm"
)

// mockStrategy makes every registered task type verifiable without touching
// a chain or an auth provider.
type mockStrategy struct {
	result verification.Result
}

func (m *mockStrategy) Verify(ctx context.Context, taskType verification.TaskType, submission verification.Submission, userID, userAddress string, opts *verification.Options) verification.Result {
	return m.result
}

// Integration test setup
func setupTestRouter(t *testing.T, registry *verification.Registry) (*gin.Engine, *gorm.DB) {
	gin.SetMode(gin.TestMode)

	// Setup test database
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	// Auto-migrate
	db.AutoMigrate(
		&models.CheckinStreak{},
		&models.CheckinRecord{},
		&models.QuestTask{},
		&models.TaskCompletion{},
	)

	// Setup services
	repo := repository.NewRewardsRepository(db)
	calc := xp.NewContextualCalculator(xp.NewTieredCalculator(xp.DefaultConfig()))
	checkinService := service.NewCheckinService(repo, calc)
	questService := service.NewQuestService(repo, registry, nil, nil)
	if err := questService.SeedDefaultTasks(context.Background()); err != nil {
		t.Fatalf("Failed to seed tasks: %v", err)
	}

	// Setup router
	router := gin.New()
	checkinHandler := handlers.NewCheckinHandler(checkinService)
	questHandler := handlers.NewQuestHandler(questService)

	router.GET("/health", questHandler.HealthCheck)
	v1 := router.Group("/api/v1")
	{
		v1.POST("/checkin", checkinHandler.PerformCheckin)
		v1.GET("/checkin/:userId/streak", checkinHandler.GetStreak)
		v1.GET("/checkin/:userId/preview", checkinHandler.PreviewNextCheckin)
		v1.GET("/checkin/:userId/history", checkinHandler.GetCheckinHistory)
		v1.POST("/quests/verify", questHandler.VerifyTask)
		v1.GET("/quests/:userId/completions", questHandler.GetCompletions)
		v1.GET("/admin/stats", checkinHandler.GetStats)
		v1.GET("/admin/contexts", checkinHandler.GetContexts)
		v1.POST("/admin/contexts", checkinHandler.AddContext)
		v1.DELETE("/admin/contexts/:name", checkinHandler.RemoveContext)
	}

	return router, db
}

func doJSON(router *gin.Engine, method, path string, payload interface{}) *httptest.ResponseRecorder {
	var req *http.Request
	if payload != nil {
		body, _ := json.Marshal(payload)
		req, _ = http.NewRequest(method, path, bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, _ = http.NewRequest(method, path, nil)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := setupTestRouter(t, verification.NewRegistry())

	resp := doJSON(router, "GET", "/health", nil)

	if resp.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.Code)
	}

	var result map[string]interface{}
	json.Unmarshal(resp.Body.Bytes(), &result)

	if result["status"] != "healthy" {
		t.Errorf("Health check status = %v", result["status"])
	}
}

func TestCheckinEndToEnd(t *testing.T) {
	router, _ := setupTestRouter(t, verification.NewRegistry())

	// First check-in awards base XP.
	resp := doJSON(router, "POST", "/api/v1/checkin", map[string]interface{}{
		"user_id":        "user123",
		"wallet_address": "0x1234567890123456789012345678901234567890",
	})

	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d. Body: %s", resp.Code, resp.Body.String())
	}

	var result map[string]interface{}
	json.Unmarshal(resp.Body.Bytes(), &result)

	if result["success"] != true {
		t.Fatalf("Check-in failed: %v", result["error"])
	}
	if result["current_streak"].(float64) != 1 {
		t.Errorf("Expected streak 1, got %v", result["current_streak"])
	}

	xpData := result["xp"].(map[string]interface{})
	if xpData["total_xp"].(float64) != 50 {
		t.Errorf("Expected 50 XP, got %v", xpData["total_xp"])
	}

	// A second check-in the same day is rejected with a 200.
	resp = doJSON(router, "POST", "/api/v1/checkin", map[string]interface{}{
		"user_id":        "user123",
		"wallet_address": "0x1234567890123456789012345678901234567890",
	})

	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.Code)
	}
	json.Unmarshal(resp.Body.Bytes(), &result)
	if result["success"] != false {
		t.Error("Same-day check-in should be rejected")
	}
	if result["error"] != "already checked in today" {
		t.Errorf("Unexpected error: %v", result["error"])
	}

	// Streak endpoint reflects the check-in.
	resp = doJSON(router, "GET", "/api/v1/checkin/user123/streak", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.Code)
	}
	json.Unmarshal(resp.Body.Bytes(), &result)
	if result["current_streak"].(float64) != 1 {
		t.Errorf("Expected streak 1, got %v", result["current_streak"])
	}

	// History has one record.
	resp = doJSON(router, "GET", "/api/v1/checkin/user123/history", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.Code)
	}
	var history []map[string]interface{}
	json.Unmarshal(resp.Body.Bytes(), &history)
	if len(history) != 1 {
		t.Errorf("Expected 1 history entry, got %d", len(history))
	}
}

func TestPreviewEndpoint(t *testing.T) {
	router, _ := setupTestRouter(t, verification.NewRegistry())

	doJSON(router, "POST", "/api/v1/checkin", map[string]interface{}{
		"user_id": "user123",
	})

	resp := doJSON(router, "GET", "/api/v1/checkin/user123/preview", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.Code)
	}

	var result map[string]interface{}
	json.Unmarshal(resp.Body.Bytes(), &result)

	if result["next_streak"].(float64) != 2 {
		t.Errorf("Expected next streak 2, got %v", result["next_streak"])
	}
	if result["xp"] == nil {
		t.Error("Preview should contain xp")
	}
	if result["tier"] == nil {
		t.Error("Preview should contain tier for the tiered calculator")
	}

	// Preview does not record anything.
	resp = doJSON(router, "GET", "/api/v1/checkin/user123/streak", nil)
	json.Unmarshal(resp.Body.Bytes(), &result)
	if result["current_streak"].(float64) != 1 {
		t.Errorf("Preview mutated streak: %v", result["current_streak"])
	}
}

func TestQuestVerificationEndToEnd(t *testing.T) {
	registry := verification.NewRegistry()
	registry.Register(&mockStrategy{result: verification.Ok(map[string]interface{}{
		"amount": "100",
	})}, verification.TaskVendorBuy)

	router, _ := setupTestRouter(t, registry)

	resp := doJSON(router, "POST", "/api/v1/quests/verify", map[string]interface{}{
		"user_id":          "user123",
		"wallet_address":   "0x1234567890123456789012345678901234567890",
		"task_type":        "vendor_buy",
		"transaction_hash": "0xabc",
	})

	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d. Body: %s", resp.Code, resp.Body.String())
	}

	var result map[string]interface{}
	json.Unmarshal(resp.Body.Bytes(), &result)

	if result["success"] != true {
		t.Fatalf("Verification failed: %v", result["error"])
	}
	if result["xp_awarded"].(float64) != 100 {
		t.Errorf("Expected 100 XP, got %v", result["xp_awarded"])
	}

	// Replaying the same transaction is rejected.
	resp = doJSON(router, "POST", "/api/v1/quests/verify", map[string]interface{}{
		"user_id":          "user456",
		"task_type":        "vendor_buy",
		"transaction_hash": "0xabc",
	})
	json.Unmarshal(resp.Body.Bytes(), &result)
	if result["success"] != false {
		t.Error("Transaction replay should be rejected")
	}

	// Completions list the verified task.
	resp = doJSON(router, "GET", "/api/v1/quests/user123/completions", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.Code)
	}
	var completions []map[string]interface{}
	json.Unmarshal(resp.Body.Bytes(), &completions)
	if len(completions) != 1 {
		t.Fatalf("Expected 1 completion, got %d", len(completions))
	}
	if completions[0]["task_type"] != "vendor_buy" {
		t.Errorf("Unexpected completion: %v", completions[0])
	}
}

func TestQuestVerificationFailure(t *testing.T) {
	registry := verification.NewRegistry()
	registry.Register(&mockStrategy{result: verification.Fail("Transaction failed")}, verification.TaskVendorBuy)

	router, _ := setupTestRouter(t, registry)

	resp := doJSON(router, "POST", "/api/v1/quests/verify", map[string]interface{}{
		"user_id":          "user123",
		"task_type":        "vendor_buy",
		"transaction_hash": "0xabc",
	})

	// Business rejection is a 200 with success=false.
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.Code)
	}

	var result map[string]interface{}
	json.Unmarshal(resp.Body.Bytes(), &result)
	if result["success"] != false {
		t.Error("Expected failed verification")
	}
	if result["error"] != "Transaction failed" {
		t.Errorf("Unexpected error: %v", result["error"])
	}
}

func TestQuestVerificationUnconfigured(t *testing.T) {
	// vendor_buy is in the seeded catalog, but no vendor strategy was
	// registered (no chain configured). That is a server problem, not a
	// user rejection.
	router, _ := setupTestRouter(t, verification.NewRegistry())

	resp := doJSON(router, "POST", "/api/v1/quests/verify", map[string]interface{}{
		"user_id":          "user123",
		"task_type":        "vendor_buy",
		"transaction_hash": "0xabc",
	})

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("Expected status 500, got %d. Body: %s", resp.Code, resp.Body.String())
	}

	var result map[string]interface{}
	json.Unmarshal(resp.Body.Bytes(), &result)
	if result["error"] != "Verification not configured" {
		t.Errorf("Unexpected error: %v", result["error"])
	}
}

func TestAdminContexts(t *testing.T) {
	router, _ := setupTestRouter(t, verification.NewRegistry())

	// Register a context and verify it boosts check-in XP.
	resp := doJSON(router, "POST", "/api/v1/admin/contexts", map[string]interface{}{
		"name":       "launch_week",
		"multiplier": 2.0,
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.Code)
	}

	resp = doJSON(router, "POST", "/api/v1/checkin", map[string]interface{}{
		"user_id": "user123",
	})

	var result map[string]interface{}
	json.Unmarshal(resp.Body.Bytes(), &result)
	xpData := result["xp"].(map[string]interface{})
	if xpData["total_xp"].(float64) != 100 {
		t.Errorf("Expected 100 XP with 2x context, got %v", xpData["total_xp"])
	}

	// Remove the context.
	resp = doJSON(router, "DELETE", "/api/v1/admin/contexts/launch_week", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.Code)
	}

	resp = doJSON(router, "GET", "/api/v1/admin/contexts", nil)
	json.Unmarshal(resp.Body.Bytes(), &result)
	contexts := result["contexts"].(map[string]interface{})
	if len(contexts) != 0 {
		t.Errorf("Expected no contexts, got %v", contexts)
	}
}

func TestStatsEndpoint(t *testing.T) {
	router, _ := setupTestRouter(t, verification.NewRegistry())

	doJSON(router, "POST", "/api/v1/checkin", map[string]interface{}{"user_id": "user1"})
	doJSON(router, "POST", "/api/v1/checkin", map[string]interface{}{"user_id": "user2"})

	resp := doJSON(router, "GET", "/api/v1/admin/stats", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.Code)
	}

	var result map[string]interface{}
	json.Unmarshal(resp.Body.Bytes(), &result)

	if result["active_streaks"].(float64) != 2 {
		t.Errorf("Expected 2 active streaks, got %v", result["active_streaks"])
	}
	if result["total_checkins"].(float64) != 2 {
		t.Errorf("Expected 2 check-ins, got %v", result["total_checkins"])
	}
}

func TestInvalidRequestHandling(t *testing.T) {
	router, _ := setupTestRouter(t, verification.NewRegistry())

	tests := []struct {
		name           string
		method         string
		path           string
		body           string
		expectedStatus int
	}{
		{
			name:           "Invalid JSON in check-in request",
			method:         "POST",
			path:           "/api/v1/checkin",
			body:           "invalid json",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Missing user_id in check-in",
			method:         "POST",
			path:           "/api/v1/checkin",
			body:           "{}",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Missing task_type in verify",
			method:         "POST",
			path:           "/api/v1/quests/verify",
			body:           `{"user_id": "user123"}`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(tt.method, tt.path, bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")

			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)

			if resp.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, resp.Code)
			}
		})
	}
}
