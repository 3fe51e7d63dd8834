package db

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/ecocollect/waste-backend/internal"
	"github.com/ecocollect/waste-backend/test"
)

var testDB *MongoStorage

// Common test constants
const (
	testUserEmail   = "resident@email.test"
	testUserPass    = "testpass123"
	testUserName    = "Test Resident"
	testUserPhone   = "+34678909090"
	testBizEmail    = "business@email.test"
	testColEmail    = "collector@email.test"
	testAddress     = "123 Main Street"
	testTimeSlot    = "09:00"
	testVehicleType = "truck"
	testVehicleNum  = "WM-1234"
	testTipContent  = "Rinse containers before recycling them."
)

func TestMain(m *testing.M) {
	ctx := context.Background()
	// start a MongoDB container for testing
	dbContainer, err := test.StartMongoContainer(ctx)
	if err != nil {
		panic(fmt.Sprintf("failed to start MongoDB container: %v", err))
	}

	// get the MongoDB connection string
	mongoURI, err := dbContainer.Endpoint(ctx, "mongodb")
	if err != nil {
		panic(fmt.Sprintf("failed to get MongoDB endpoint: %v", err))
	}

	testDB, err = New(mongoURI, test.RandomDatabaseName())
	if err != nil {
		panic(fmt.Sprintf("failed to create new MongoDB connection: %v", err))
	}

	code := m.Run()

	// close the database connection
	testDB.Close()

	// stop the MongoDB container
	if err := dbContainer.Terminate(ctx); err != nil {
		panic(fmt.Sprintf("failed to stop MongoDB container: %v", err))
	}

	os.Exit(code)
}

// newTestUser inserts a user with the given role and returns its ID.
func newTestUser(t *testing.T, email string, role Role) internal.ObjectID {
	t.Helper()
	id, err := testDB.SetUser(&User{
		Name:     testUserName,
		Email:    email,
		Password: testUserPass,
		Role:     role,
	})
	if err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return id
}

// newTestRequest inserts a pending request for the given owner and returns it.
// Bulk requests get a business owner kind and a quantity.
func newTestRequest(t *testing.T, owner internal.ObjectID, kind RequestKind) *WasteRequest {
	t.Helper()
	req := &WasteRequest{
		OwnerID:   owner,
		OwnerKind: ResidentOwner,
		Kind:      kind,
		Date:      time.Now().AddDate(0, 0, 1),
		TimeSlot:  testTimeSlot,
		WasteType: WasteBiodegradable,
		Address:   testAddress,
	}
	if kind == BulkRequest {
		req.OwnerKind = BusinessOwner
		req.Quantity = 5
	}
	created, err := testDB.CreateRequest(req)
	if err != nil {
		t.Fatalf("failed to create test request: %v", err)
	}
	return created
}
