package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/ecocollect/waste-backend/api/apicommon"
	"github.com/ecocollect/waste-backend/db"
	"github.com/ecocollect/waste-backend/internal"
	"github.com/ecocollect/waste-backend/realtime"
	"github.com/ecocollect/waste-backend/test"
)

const (
	testSecret   = "super-secret"
	testPass     = "password123"
	testUserName = "Test User"
	testHost     = "0.0.0.0"
	testPort     = 7788

	testAddress  = "123 Main Street"
	testTimeSlot = "09:00"
)

// testDB is the MongoDB storage for the tests. Make it global so it can be
// accessed by the tests directly.
var testDB *db.MongoStorage

// testBus is the in-process event bus wired into the test API server.
var testBus *realtime.Bus

// testURL helper function returns the full URL for the given path using the
// test host and port.
func testURL(path string) string {
	return fmt.Sprintf("http://%s:%d%s", testHost, testPort, path)
}

// mustMarshal helper function marshalls the input interface into a byte slice.
// It panics if the marshalling fails.
func mustMarshal(i any) []byte {
	b, err := json.Marshal(i)
	if err != nil {
		panic(err)
	}
	return b
}

// testRequest helper function executes a request against the test API server
// with the given method, JWT token and body, and returns the response body
// and status code.
func testRequest(t *testing.T, method, jwt string, body any, urlPath string) ([]byte, int) {
	t.Helper()
	var bodyReader io.Reader
	if body != nil {
		switch b := body.(type) {
		case []byte:
			bodyReader = bytes.NewReader(b)
		case string:
			bodyReader = bytes.NewReader([]byte(b))
		default:
			bodyReader = bytes.NewReader(mustMarshal(b))
		}
	}
	req, err := http.NewRequest(method, testURL(urlPath), bodyReader)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if jwt != "" {
		req.Header.Set("Authorization", "Bearer "+jwt)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("failed to execute request: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	return respBody, resp.StatusCode
}

// registerTestUser helper function registers a new account with the given
// email and role, and returns the login response with the fresh token.
func registerTestUser(t *testing.T, email string, role db.Role) *apicommon.LoginResponse {
	t.Helper()
	body, code := testRequest(t, http.MethodPost, "", &apicommon.UserInfo{
		Name:     testUserName,
		Email:    email,
		Password: testPass,
		Role:     string(role),
	}, authRegisterEndpoint)
	if code != http.StatusCreated {
		t.Fatalf("failed to register %s: %d %s", email, code, body)
	}
	res := &apicommon.LoginResponse{}
	if err := json.Unmarshal(body, res); err != nil {
		t.Fatalf("failed to decode login response: %v", err)
	}
	return res
}

// uniqueEmail helper function returns an email address unlikely to collide
// with the ones used by other tests sharing the database.
func uniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%s@test.com", prefix, internal.NewObjectID().Hex())
}

// internalNewHex helper function returns the hex form of a fresh ObjectID,
// useful to reference documents that do not exist.
func internalNewHex() string {
	return internal.NewObjectID().Hex()
}

// pingAPI helper function pings the API endpoint and retries the request
// if it fails until the retries limit is reached. It returns an error if the
// request fails or the status code is not 200 as many times as the retries
// limit.
func pingAPI(endpoint string, retries int) error {
	req, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	var pingErr error
	for i := 0; i < retries; i++ {
		var resp *http.Response
		if resp, pingErr = http.DefaultClient.Do(req); pingErr == nil {
			if resp.StatusCode == http.StatusOK {
				return nil
			}
			pingErr = fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}
		time.Sleep(time.Second)
	}
	return pingErr
}

// TestMain function starts the MongoDB container and the API server before
// running the tests. It creates a new MongoDB connection with a random
// database name and waits for the API to come up.
func TestMain(m *testing.M) {
	ctx := context.Background()
	// start a MongoDB container for testing
	dbContainer, err := test.StartMongoContainer(ctx)
	if err != nil {
		panic(err)
	}
	// ensure the container is stopped when the test finishes
	defer func() { _ = dbContainer.Terminate(ctx) }()
	// get the MongoDB connection string
	mongoURI, err := dbContainer.Endpoint(ctx, "mongodb")
	if err != nil {
		panic(err)
	}
	// create a new MongoDB connection with the test database
	if testDB, err = db.New(mongoURI, test.RandomDatabaseName()); err != nil {
		panic(err)
	}
	defer testDB.Close()
	// wire the event bus and the WebSocket hub
	testBus = realtime.NewBus()
	hub := realtime.NewHub(testBus)
	hubCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go hub.Run(hubCtx)
	// start the API
	New(&Config{
		Host:   testHost,
		Port:   testPort,
		Secret: testSecret,
		DB:     testDB,
		Bus:    testBus,
		Hub:    hub,
	}).Start()
	// wait for the API to start
	if err := pingAPI(testURL("/ping"), 5); err != nil {
		panic(err)
	}
	// run the tests
	os.Exit(m.Run())
}
