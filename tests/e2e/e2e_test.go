package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"designmarket/internal/database"
	"designmarket/internal/middleware"
	"designmarket/internal/modules/auth"
	"designmarket/internal/modules/chat"
	"designmarket/internal/modules/notification"
	"designmarket/internal/modules/proposal"
	"designmarket/internal/modules/request"
	"designmarket/internal/modules/wallet"
	jwtsvc "designmarket/internal/pkg/jwt"
	"designmarket/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type E2ETestSuite struct {
	router *gin.Engine
	db     *gorm.DB
}

type TestResponse struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Error   *ErrorDetail           `json:"error,omitempty"`
}

type ErrorDetail struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func setupTestSuite(t *testing.T) *E2ETestSuite {
	t.Helper()

	dsn := fmt.Sprintf("file:e2e_%s?mode=memory&cache=shared", t.Name())
	db, err := database.Connect(dsn)
	require.NoError(t, err, "Failed to connect to test database")
	require.NoError(t, database.Migrate(db), "Failed to migrate test database")

	userRepo := repository.NewUserRepository(db)
	requestRepo := repository.NewRequestRepository(db)
	proposalRepo := repository.NewProposalRepository(db)
	chatRepo := repository.NewChatRepository(db)

	jwtService := jwtsvc.New("test_secret_key_32_characters_min", 24*time.Hour)

	notifService := notification.NewService(notification.NewRepository(db))
	notifHandler := notification.NewHandler(notifService)

	authHandler := auth.NewHandler(auth.NewService(userRepo, jwtService))
	requestHandler := request.NewHandler(request.NewService(requestRepo))
	proposalHandler := proposal.NewHandler(proposal.NewService(requestRepo, proposalRepo, notifService))
	walletHandler := wallet.NewHandler(wallet.NewService(db))

	hub := chat.NewHub()
	chatService := chat.NewService(chatRepo, userRepo, requestRepo, notifService, hub)
	chatHandler := chat.NewHandler(chatService, hub)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery())

	v1 := r.Group("/api/v1")
	authHandler.RegisterRoutes(v1)

	protected := v1.Group("")
	protected.Use(middleware.JWTAuth(jwtService))
	{
		authHandler.RegisterProtectedRoutes(protected)
		requestHandler.RegisterRoutes(protected)
		proposalHandler.RegisterRoutes(protected)
		walletHandler.RegisterRoutes(protected)
		chatHandler.RegisterRoutes(protected)
		notifHandler.RegisterRoutes(protected)
	}

	return &E2ETestSuite{router: r, db: db}
}

func (s *E2ETestSuite) makeRequest(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()

	var bodyBytes []byte
	if body != nil {
		var err error
		bodyBytes, err = json.Marshal(body)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(method, path, bytes.NewBuffer(bodyBytes))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) *TestResponse {
	t.Helper()

	var resp TestResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response (status %d): %s", w.Code, w.Body.String())
	}
	return &resp
}

// registerUser creates an account and returns (userID, token).
func (s *E2ETestSuite) registerUser(t *testing.T, email, role string) (int64, string) {
	t.Helper()

	w := s.makeRequest(t, "POST", "/api/v1/auth/register", map[string]interface{}{
		"email":    email,
		"password": "Password123!",
		"name":     "Test " + role,
		"role":     role,
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, "registration failed: %s", w.Body.String())

	resp := parseResponse(t, w)
	require.True(t, resp.Success)
	token := resp.Data["token"].(string)
	user := resp.Data["user"].(map[string]interface{})
	return int64(user["id"].(float64)), token
}

// =============================================================================
// Flow 1: Registration and authentication
// =============================================================================

func TestFlow1_RegistrationAndAuth(t *testing.T) {
	suite := setupTestSuite(t)

	t.Run("register client", func(t *testing.T) {
		w := suite.makeRequest(t, "POST", "/api/v1/auth/register", map[string]interface{}{
			"email":    "client@test.com",
			"password": "Password123!",
			"name":     "John Doe",
			"role":     "client",
		}, "")
		require.Equal(t, http.StatusCreated, w.Code)

		resp := parseResponse(t, w)
		assert.True(t, resp.Success)
		assert.NotEmpty(t, resp.Data["token"])
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		w := suite.makeRequest(t, "POST", "/api/v1/auth/register", map[string]interface{}{
			"email":    "client@test.com",
			"password": "Password123!",
			"name":     "John Doe",
			"role":     "client",
		}, "")
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("login and fetch profile", func(t *testing.T) {
		w := suite.makeRequest(t, "POST", "/api/v1/auth/login", map[string]interface{}{
			"email":    "client@test.com",
			"password": "Password123!",
		}, "")
		require.Equal(t, http.StatusOK, w.Code)

		resp := parseResponse(t, w)
		token := resp.Data["token"].(string)

		w = suite.makeRequest(t, "GET", "/api/v1/auth/me", nil, token)
		require.Equal(t, http.StatusOK, w.Code)

		me := parseResponse(t, w)
		assert.Equal(t, "client@test.com", me.Data["email"])
	})

	t.Run("wrong password rejected", func(t *testing.T) {
		w := suite.makeRequest(t, "POST", "/api/v1/auth/login", map[string]interface{}{
			"email":    "client@test.com",
			"password": "not-the-password",
		}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("protected route without token", func(t *testing.T) {
		w := suite.makeRequest(t, "GET", "/api/v1/requests", nil, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

// =============================================================================
// Flow 2: Request and proposal lifecycle
// =============================================================================

func TestFlow2_ProposalLifecycle(t *testing.T) {
	suite := setupTestSuite(t)

	_, clientToken := suite.registerUser(t, "client@test.com", "client")
	_, designerAToken := suite.registerUser(t, "nora@test.com", "designer")
	_, designerBToken := suite.registerUser(t, "pavel@test.com", "designer")
	_, designerCToken := suite.registerUser(t, "mia@test.com", "designer")

	var requestID int64
	var proposalAID, proposalBID int64

	t.Run("client posts a request", func(t *testing.T) {
		w := suite.makeRequest(t, "POST", "/api/v1/requests", map[string]interface{}{
			"title":         "Living room redesign",
			"description":   "Budget-friendly refresh",
			"room_type":     "living_room",
			"budget":        500,
			"duration_days": 14,
		}, clientToken)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		resp := parseResponse(t, w)
		requestID = int64(resp.Data["id"].(float64))
		assert.Equal(t, "pending", resp.Data["status"])
	})

	t.Run("designer role required to propose", func(t *testing.T) {
		w := suite.makeRequest(t, "POST", fmt.Sprintf("/api/v1/requests/%d/proposals", requestID), map[string]interface{}{
			"price":          100,
			"estimated_days": 7,
		}, clientToken)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("first proposal moves request to proposal_submitted", func(t *testing.T) {
		w := suite.makeRequest(t, "POST", fmt.Sprintf("/api/v1/requests/%d/proposals", requestID), map[string]interface{}{
			"price":          300,
			"estimated_days": 10,
			"description":    "Two concept boards",
		}, designerAToken)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		proposalAID = int64(parseResponse(t, w).Data["id"].(float64))

		w = suite.makeRequest(t, "GET", fmt.Sprintf("/api/v1/requests/%d", requestID), nil, clientToken)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "proposal_submitted", parseResponse(t, w).Data["status"])
	})

	t.Run("price above budget rejected", func(t *testing.T) {
		w := suite.makeRequest(t, "POST", fmt.Sprintf("/api/v1/requests/%d/proposals", requestID), map[string]interface{}{
			"price":          700,
			"estimated_days": 5,
		}, designerBToken)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("second designer proposes", func(t *testing.T) {
		w := suite.makeRequest(t, "POST", fmt.Sprintf("/api/v1/requests/%d/proposals", requestID), map[string]interface{}{
			"price":          450,
			"estimated_days": 8,
		}, designerBToken)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		proposalBID = int64(parseResponse(t, w).Data["id"].(float64))
	})

	t.Run("duplicate proposal conflicts", func(t *testing.T) {
		w := suite.makeRequest(t, "POST", fmt.Sprintf("/api/v1/requests/%d/proposals", requestID), map[string]interface{}{
			"price":          200,
			"estimated_days": 4,
		}, designerAToken)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("proposals list newest first", func(t *testing.T) {
		w := suite.makeRequest(t, "GET", fmt.Sprintf("/api/v1/requests/%d/proposals", requestID), nil, clientToken)
		require.Equal(t, http.StatusOK, w.Code)

		resp := parseResponse(t, w)
		items := resp.Data["proposals"].([]interface{})
		require.Len(t, items, 2)
	})

	t.Run("only the owner can accept", func(t *testing.T) {
		w := suite.makeRequest(t, "POST", fmt.Sprintf("/api/v1/proposals/%d/accept", proposalAID), nil, designerAToken)
		// Designers are blocked by the role guard before ownership is checked.
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("accept rejects every sibling atomically", func(t *testing.T) {
		w := suite.makeRequest(t, "POST", fmt.Sprintf("/api/v1/proposals/%d/accept", proposalAID), nil, clientToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, "accepted", parseResponse(t, w).Data["status"])

		w = suite.makeRequest(t, "GET", fmt.Sprintf("/api/v1/proposals/%d", proposalBID), nil, clientToken)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "rejected", parseResponse(t, w).Data["status"])

		w = suite.makeRequest(t, "GET", fmt.Sprintf("/api/v1/requests/%d", requestID), nil, clientToken)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "in_progress", parseResponse(t, w).Data["status"])
	})

	t.Run("losing designer was notified", func(t *testing.T) {
		w := suite.makeRequest(t, "GET", "/api/v1/notifications", nil, designerBToken)
		require.Equal(t, http.StatusOK, w.Code)

		resp := parseResponse(t, w)
		items := resp.Data["notifications"].([]interface{})
		require.NotEmpty(t, items)
		first := items[0].(map[string]interface{})
		assert.Equal(t, "proposal_rejected", first["type"])
	})

	t.Run("submitting to a closed request conflicts", func(t *testing.T) {
		w := suite.makeRequest(t, "POST", fmt.Sprintf("/api/v1/requests/%d/proposals", requestID), map[string]interface{}{
			"price":          100,
			"estimated_days": 3,
		}, designerCToken)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("second accept conflicts", func(t *testing.T) {
		w := suite.makeRequest(t, "POST", fmt.Sprintf("/api/v1/proposals/%d/accept", proposalBID), nil, clientToken)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("complete closes the request", func(t *testing.T) {
		w := suite.makeRequest(t, "POST", fmt.Sprintf("/api/v1/proposals/%d/complete", proposalAID), nil, clientToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, "completed", parseResponse(t, w).Data["status"])

		w = suite.makeRequest(t, "GET", fmt.Sprintf("/api/v1/requests/%d", requestID), nil, clientToken)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "completed", parseResponse(t, w).Data["status"])
	})
}

// =============================================================================
// Flow 3: Rejecting the only proposal reopens the request
// =============================================================================

func TestFlow3_RejectReopensRequest(t *testing.T) {
	suite := setupTestSuite(t)

	_, clientToken := suite.registerUser(t, "client@test.com", "client")
	_, designerToken := suite.registerUser(t, "nora@test.com", "designer")

	w := suite.makeRequest(t, "POST", "/api/v1/requests", map[string]interface{}{
		"title":         "Bedroom refresh",
		"room_type":     "bedroom",
		"budget":        1000,
		"duration_days": 7,
	}, clientToken)
	require.Equal(t, http.StatusCreated, w.Code)
	requestID := int64(parseResponse(t, w).Data["id"].(float64))

	w = suite.makeRequest(t, "POST", fmt.Sprintf("/api/v1/requests/%d/proposals", requestID), map[string]interface{}{
		"price":          800,
		"estimated_days": 6,
	}, designerToken)
	require.Equal(t, http.StatusCreated, w.Code)
	proposalID := int64(parseResponse(t, w).Data["id"].(float64))

	w = suite.makeRequest(t, "POST", fmt.Sprintf("/api/v1/proposals/%d/reject", proposalID), nil, clientToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = suite.makeRequest(t, "GET", fmt.Sprintf("/api/v1/requests/%d", requestID), nil, clientToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pending", parseResponse(t, w).Data["status"])
}

// =============================================================================
// Flow 4: Wallet
// =============================================================================

func TestFlow4_Wallet(t *testing.T) {
	suite := setupTestSuite(t)

	_, clientToken := suite.registerUser(t, "client@test.com", "client")

	t.Run("fresh wallet starts at zero", func(t *testing.T) {
		w := suite.makeRequest(t, "GET", "/api/v1/wallets/me", nil, clientToken)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, float64(0), parseResponse(t, w).Data["balance"])
	})

	t.Run("withdraw from empty wallet fails", func(t *testing.T) {
		w := suite.makeRequest(t, "POST", "/api/v1/wallets/me/withdraw", map[string]interface{}{
			"amount": 100,
		}, clientToken)
		require.Equal(t, http.StatusPaymentRequired, w.Code)
		assert.Equal(t, "INSUFFICIENT_FUNDS", parseResponse(t, w).Error.Code)
	})

	t.Run("deposit then withdraw to zero", func(t *testing.T) {
		w := suite.makeRequest(t, "POST", "/api/v1/wallets/me/deposit", map[string]interface{}{
			"amount": 5000,
		}, clientToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = suite.makeRequest(t, "POST", "/api/v1/wallets/me/withdraw", map[string]interface{}{
			"amount": 5000,
		}, clientToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		wallet := parseResponse(t, w).Data["wallet"].(map[string]interface{})
		assert.Equal(t, float64(0), wallet["balance"])
	})

	t.Run("non-positive amount rejected", func(t *testing.T) {
		w := suite.makeRequest(t, "POST", "/api/v1/wallets/me/deposit", map[string]interface{}{
			"amount": 0,
		}, clientToken)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("transaction history records both sides", func(t *testing.T) {
		w := suite.makeRequest(t, "GET", "/api/v1/wallets/me/transactions", nil, clientToken)
		require.Equal(t, http.StatusOK, w.Code)

		items := parseResponse(t, w).Data["transactions"].([]interface{})
		require.Len(t, items, 2)
	})
}

// =============================================================================
// Flow 5: Chat and notifications
// =============================================================================

func TestFlow5_ChatAndNotifications(t *testing.T) {
	suite := setupTestSuite(t)

	_, clientToken := suite.registerUser(t, "client@test.com", "client")
	designerID, designerToken := suite.registerUser(t, "nora@test.com", "designer")

	var conversationID int64

	t.Run("client opens a conversation", func(t *testing.T) {
		w := suite.makeRequest(t, "POST", "/api/v1/chat/conversations", map[string]interface{}{
			"recipient_id":    designerID,
			"initial_message": "Hi, loved your portfolio",
		}, clientToken)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		resp := parseResponse(t, w)
		conv := resp.Data["conversation"].(map[string]interface{})
		conversationID = int64(conv["id"].(float64))
		assert.NotNil(t, resp.Data["initial_message"])
	})

	t.Run("offline recipient gets a notification", func(t *testing.T) {
		w := suite.makeRequest(t, "GET", "/api/v1/notifications/unread-count", nil, designerToken)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, float64(1), parseResponse(t, w).Data["unread_count"])
	})

	t.Run("designer replies and client reads", func(t *testing.T) {
		w := suite.makeRequest(t, "POST", fmt.Sprintf("/api/v1/chat/conversations/%d/messages", conversationID), map[string]interface{}{
			"content": "Thanks! Tell me about the space.",
		}, designerToken)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		w = suite.makeRequest(t, "GET", fmt.Sprintf("/api/v1/chat/conversations/%d/messages", conversationID), nil, clientToken)
		require.Equal(t, http.StatusOK, w.Code)
		msgs := parseResponse(t, w).Data["messages"].([]interface{})
		require.Len(t, msgs, 2)

		w = suite.makeRequest(t, "POST", fmt.Sprintf("/api/v1/chat/conversations/%d/read", conversationID), nil, clientToken)
		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("outsider cannot read the thread", func(t *testing.T) {
		_, strangerToken := suite.registerUser(t, "stranger@test.com", "client")

		w := suite.makeRequest(t, "GET", fmt.Sprintf("/api/v1/chat/conversations/%d/messages", conversationID), nil, strangerToken)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
