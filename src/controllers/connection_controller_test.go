package controllers_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/travelbunk/backend/src/connections"
	"github.com/travelbunk/backend/src/controllers"
	"github.com/travelbunk/backend/src/notify"
	"github.com/travelbunk/backend/src/routes"
	"github.com/travelbunk/backend/src/store"
)

// newTestApp wires the store-backed routes against the in-memory user store,
// so the whole signup -> request -> respond flow runs without MongoDB. The
// tests live outside the controllers package because they register routes,
// and routes already imports controllers.
func newTestApp() *fiber.App {
	mem := store.NewMemoryUserStore()
	controllers.Init(mem, connections.NewManager(mem, notify.NopSink{}), notify.NopSink{}, notify.NewHub())

	app := fiber.New()
	routes.AuthRoutes(app)
	routes.ConnectionRoutes(app)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string) (int, map[string]any) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out), "body: %s", raw)
	return resp.StatusCode, out
}

func signup(t *testing.T, app *fiber.App, firstName, email string) {
	t.Helper()
	code, body := doJSON(t, app, "POST", "/api/signup",
		`{"firstName":"`+firstName+`","email":"`+email+`","password":"secret","aadhaar":"123412341234"}`)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, true, body["success"], "signup failed: %v", body["message"])
}

func TestConnectionRequestFlow(t *testing.T) {
	app := newTestApp()
	signup(t, app, "Alice", "alice@x.com")
	signup(t, app, "Bob", "bob@x.com")

	// alice sends a request with trip context
	code, body := doJSON(t, app, "POST", "/api/send-request",
		`{"fromEmail":"alice@x.com","toEmail":"bob@x.com","trip":{"destination":"Goa"}}`)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, true, body["success"], "send failed: %v", body["message"])

	// bob sees it incoming
	code, body = doJSON(t, app, "GET", "/api/requests?email=bob@x.com", "")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, true, body["success"])
	reqs := body["requests"].([]any)
	require.Len(t, reqs, 1)
	first := reqs[0].(map[string]any)
	assert.Equal(t, "alice@x.com", first["fromEmail"])
	assert.Equal(t, "pending", first["status"])

	// duplicate send conflicts
	code, body = doJSON(t, app, "POST", "/api/send-request",
		`{"fromEmail":"alice@x.com","toEmail":"bob@x.com"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Request already sent", body["message"])

	// bob accepts
	code, body = doJSON(t, app, "POST", "/api/respond-request",
		`{"toEmail":"bob@x.com","fromEmail":"alice@x.com","action":"accept"}`)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, true, body["success"])

	// both directions now read connected
	code, body = doJSON(t, app, "GET", "/api/connection-status?from=alice@x.com&to=bob@x.com", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "connected", body["status"])
	_, body = doJSON(t, app, "GET", "/api/connection-status?from=bob@x.com&to=alice@x.com", "")
	assert.Equal(t, "connected", body["status"])
}

func TestSendRequestToSelfFails(t *testing.T) {
	app := newTestApp()
	signup(t, app, "Alice", "alice@x.com")

	code, body := doJSON(t, app, "POST", "/api/send-request",
		`{"fromEmail":"alice@x.com","toEmail":"alice@x.com"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Cannot send request to yourself", body["message"])
}

func TestRespondRequestInvalidActionHTTP(t *testing.T) {
	app := newTestApp()
	signup(t, app, "Alice", "alice@x.com")
	signup(t, app, "Bob", "bob@x.com")

	code, body := doJSON(t, app, "POST", "/api/respond-request",
		`{"toEmail":"bob@x.com","fromEmail":"alice@x.com","action":"ignore"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Invalid action", body["message"])
}

func TestGetRequestsUnknownUser(t *testing.T) {
	app := newTestApp()

	code, body := doJSON(t, app, "GET", "/api/requests?email=ghost@x.com", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "User not found", body["message"])
}
