//go:build integration

// internal/api/api_integration_test.go
package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	app "banking-service/internal"
)

// testApp is the global application instance for testing.
var testApp *app.Application

// testServer is the httptest server.
var testServer *httptest.Server

// TestMain is the special entry point for Go tests, executed once before all tests.
func TestMain(m *testing.M) {
	// 1. Set up environment variables (ensure DB_NAME points to the test database).
	setupEnvVars()

	// 2. Initialize the application.
	testApp = app.NewApplication()
	if err := testApp.Initialize(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize test application: %v\n", err)
		os.Exit(1)
	}

	// 3. Start an httptest server to test the HTTP handling layer.
	testServer = httptest.NewServer(testApp.HTTPHandler)
	defer testServer.Close()

	// 4. Run all tests.
	code := m.Run()

	// 5. Shut down application resources after tests.
	if err := testApp.Shutdown(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to shutdown test application: %v\n", err)
		os.Exit(1)
	}

	os.Exit(code)
}

// setupEnvVars sets the database environment variables required for testing
// when they are not provided by the environment.
func setupEnvVars() {
	defaults := map[string]string{
		"SERVER_PORT": "8080",
		"DB_HOST":     "localhost",
		"DB_PORT":     "5432",
		"DB_USER":     "user",
		"DB_PASSWORD": "password",
		"DB_NAME":     "bankingdb_test",
		"DB_SSLMODE":  "disable",
		"JWT_SECRET":  "integration-test-secret",
	}
	for key, value := range defaults {
		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}
}

// clearDatabase truncates all relevant tables so each test starts clean.
func clearDatabase(t *testing.T) {
	// Order is important due to foreign key dependencies.
	tables := []string{"email", "phone_number", "app_user"}
	for _, table := range tables {
		_, err := testApp.DB.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE;", table))
		require.NoError(t, err, "Failed to truncate table %s", table)
	}
}

// makeRequest sends an HTTP request to the test server. An empty token leaves
// the request unauthenticated.
func makeRequest(t *testing.T, method, path, token string, body io.Reader) (*http.Response, string) {
	req, err := http.NewRequest(method, testServer.URL+path, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(respBody)
}

// registerTestUser registers a user through the API and returns its id and a
// bearer token for subsequent authenticated calls.
func registerTestUser(t *testing.T, login, email, phone string, deposit decimal.Decimal) (int64, string) {
	requestBody := fmt.Sprintf(`{
		"first_name": "Test",
		"last_name": "User",
		"login": %q,
		"password": "s3cret-pass",
		"birth_year": 1990,
		"email": %q,
		"phone_number": %q,
		"account": "%s"
	}`, login, email, phone, deposit.String())

	resp, body := makeRequest(t, "POST", "/register", "", strings.NewReader(requestBody))
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode, "register failed: %s", body)

	var responseMap map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(body), &responseMap))
	token := responseMap["token"].(string)
	user := responseMap["user"].(map[string]interface{})
	return int64(user["id"].(float64)), token
}

func TestRegisterAndLoginIntegration(t *testing.T) {
	clearDatabase(t)

	t.Run("RegisterThenLogin", func(t *testing.T) {
		userID, _ := registerTestUser(t, "alice", "alice@example.com", "79990000001", decimal.NewFromInt(1200))
		assert.Greater(t, userID, int64(0))

		resp, body := makeRequest(t, "POST", "/login", "", strings.NewReader(`{"login": "alice", "password": "s3cret-pass"}`))
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var responseMap map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(body), &responseMap))
		assert.NotEmpty(t, responseMap["token"])
		user := responseMap["user"].(map[string]interface{})
		assert.Equal(t, "alice", user["login"])

		balance, err := decimal.NewFromString(user["balance"].(string))
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(1200).Equal(balance))
	})

	t.Run("DuplicateLoginRejected", func(t *testing.T) {
		requestBody := `{
			"first_name": "Other",
			"last_name": "User",
			"login": "alice",
			"password": "another-pass",
			"birth_year": 1985,
			"email": "other@example.com",
			"phone_number": "79990000002",
			"account": "100"
		}`
		resp, body := makeRequest(t, "POST", "/register", "", strings.NewReader(requestBody))
		defer resp.Body.Close()
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Contains(t, body, "Already exists")
	})

	t.Run("WrongPasswordRejected", func(t *testing.T) {
		resp, body := makeRequest(t, "POST", "/login", "", strings.NewReader(`{"login": "alice", "password": "wrong"}`))
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Contains(t, body, "Invalid credentials")
	})

	t.Run("UsersRouteRequiresToken", func(t *testing.T) {
		resp, _ := makeRequest(t, "GET", "/users/1", "", nil)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestTransferIntegration(t *testing.T) {
	clearDatabase(t)
	_, senderToken := registerTestUser(t, "sender", "sender@example.com", "79990000010", decimal.NewFromInt(1300))
	receiverID, _ := registerTestUser(t, "receiver", "receiver@example.com", "79990000011", decimal.NewFromInt(5000))

	t.Run("SuccessfulTransfer", func(t *testing.T) {
		path := fmt.Sprintf("/users/account?money=100&receiverId=%d", receiverID)
		resp, body := makeRequest(t, "PATCH", path, senderToken, nil)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var summary map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(body), &summary))
		balance, err := decimal.NewFromString(summary["balance"].(string))
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(1200).Equal(balance), "sender balance should be 1200, got %s", balance)

		// Receiver side of the invariant.
		respGet, bodyGet := makeRequest(t, "GET", fmt.Sprintf("/users/%d", receiverID), senderToken, nil)
		defer respGet.Body.Close()
		assert.Equal(t, http.StatusOK, respGet.StatusCode)
		var receiver map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(bodyGet), &receiver))
		receiverBalance, err := decimal.NewFromString(receiver["balance"].(string))
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(5100).Equal(receiverBalance))
	})

	t.Run("InsufficientFunds", func(t *testing.T) {
		path := fmt.Sprintf("/users/account?money=999999&receiverId=%d", receiverID)
		resp, body := makeRequest(t, "PATCH", path, senderToken, nil)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusPaymentRequired, resp.StatusCode)
		assert.Contains(t, body, "Insufficient funds")
	})

	t.Run("UnknownReceiver", func(t *testing.T) {
		resp, body := makeRequest(t, "PATCH", "/users/account?money=10&receiverId=9999", senderToken, nil)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Contains(t, body, "Resource not found")
	})

	t.Run("NonPositiveAmount", func(t *testing.T) {
		path := fmt.Sprintf("/users/account?money=-5&receiverId=%d", receiverID)
		resp, _ := makeRequest(t, "PATCH", path, senderToken, nil)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestContactIntegration(t *testing.T) {
	clearDatabase(t)
	_, token := registerTestUser(t, "carol", "carol@example.com", "79990000020", decimal.NewFromInt(500))
	registerTestUser(t, "dave", "dave@example.com", "79990000021", decimal.NewFromInt(500))

	t.Run("AddSecondEmail", func(t *testing.T) {
		resp, body := makeRequest(t, "POST", "/users/email?email="+url.QueryEscape("carol.work@example.com"), token, nil)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var summary map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(body), &summary))
		assert.Len(t, summary["emails"].([]interface{}), 2)
	})

	t.Run("DuplicateEmailAcrossUsersRejected", func(t *testing.T) {
		resp, body := makeRequest(t, "POST", "/users/email?email="+url.QueryEscape("dave@example.com"), token, nil)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Contains(t, body, "Already exists")
	})

	t.Run("EditEmailKeepsOwnership", func(t *testing.T) {
		params := url.Values{}
		params.Set("oldEmail", "carol.work@example.com")
		params.Set("newEmail", "carol.new@example.com")
		resp, body := makeRequest(t, "PATCH", "/users/email?"+params.Encode(), token, nil)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, body, "carol.new@example.com")
		assert.NotContains(t, body, "carol.work@example.com")
	})

	t.Run("DeleteDownToOneThenRefuse", func(t *testing.T) {
		resp, _ := makeRequest(t, "DELETE", "/users/email?email="+url.QueryEscape("carol.new@example.com"), token, nil)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		respLast, bodyLast := makeRequest(t, "DELETE", "/users/email?email="+url.QueryEscape("carol@example.com"), token, nil)
		defer respLast.Body.Close()
		assert.Equal(t, http.StatusBadRequest, respLast.StatusCode)
		assert.Contains(t, bodyLast, "Cannot remove the last contact")
	})

	t.Run("SearchByName", func(t *testing.T) {
		resp, body := makeRequest(t, "GET", "/users?name=Test&page=0&size=10", token, nil)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var page map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(body), &page))
		assert.Equal(t, float64(2), page["total_count"])
	})
}
