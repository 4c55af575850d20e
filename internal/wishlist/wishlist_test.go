package wishlist

import (
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"shelterly/server/internal/models"
)

// MockBackend is a mock implementation of the Backend interface
type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) Upsert(entry models.WishlistEntry) error {
	args := m.Called(entry)
	return args.Error(0)
}

func (m *MockBackend) Delete(userID, listingID string) error {
	args := m.Called(userID, listingID)
	return args.Error(0)
}

func (m *MockBackend) ListByUser(userID string) ([]models.WishlistEntry, error) {
	args := m.Called(userID)
	return args.Get(0).([]models.WishlistEntry), args.Error(1)
}

func loggedInAs(userID string) func() (string, bool) {
	return func() (string, bool) { return userID, userID != "" }
}

func testListing(id string) models.Listing {
	return models.Listing{
		ID:       id,
		Name:     "Listing " + id,
		Locality: "Koramangala",
		Status:   models.StatusActive,
	}
}

func TestStore_AddItem(t *testing.T) {
	backend := &MockBackend{}
	backend.On("Upsert", mock.AnythingOfType("models.WishlistEntry")).Return(nil).Once()

	s := NewStore(backend, loggedInAs("user-1"), logrus.New())

	assert.NoError(t, s.AddItem(testListing("pg-1")))
	assert.True(t, s.IsInWishlist("pg-1"))
	backend.AssertExpectations(t)
}

func TestStore_AddItemIsIdempotent(t *testing.T) {
	backend := &MockBackend{}
	backend.On("Upsert", mock.AnythingOfType("models.WishlistEntry")).Return(nil).Once()

	s := NewStore(backend, loggedInAs("user-1"), logrus.New())

	assert.NoError(t, s.AddItem(testListing("pg-1")))
	assert.NoError(t, s.AddItem(testListing("pg-1")))
	assert.NoError(t, s.AddItem(testListing("pg-1")))

	assert.Len(t, s.Items(), 1)
	backend.AssertNumberOfCalls(t, "Upsert", 1)
}

func TestStore_AddItemRequiresAuthentication(t *testing.T) {
	backend := &MockBackend{}
	s := NewStore(backend, loggedInAs(""), logrus.New())

	err := s.AddItem(testListing("pg-1"))
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.False(t, s.IsInWishlist("pg-1"))
	backend.AssertNotCalled(t, "Upsert", mock.Anything)
}

func TestStore_AddItemBackendFailureLeavesLocalSetUnchanged(t *testing.T) {
	backend := &MockBackend{}
	backend.On("Upsert", mock.AnythingOfType("models.WishlistEntry")).Return(errors.New("write failed"))

	s := NewStore(backend, loggedInAs("user-1"), logrus.New())

	err := s.AddItem(testListing("pg-1"))
	assert.Error(t, err)
	assert.False(t, s.IsInWishlist("pg-1"))
	assert.Empty(t, s.Items())
}

func TestStore_RemoveItem(t *testing.T) {
	backend := &MockBackend{}
	backend.On("Upsert", mock.AnythingOfType("models.WishlistEntry")).Return(nil)
	backend.On("Delete", "user-1", "pg-1").Return(nil)

	s := NewStore(backend, loggedInAs("user-1"), logrus.New())

	assert.NoError(t, s.AddItem(testListing("pg-1")))
	assert.NoError(t, s.RemoveItem("pg-1"))
	assert.False(t, s.IsInWishlist("pg-1"))
	backend.AssertExpectations(t)
}

func TestStore_RemoveItemIsOptimistic(t *testing.T) {
	backend := &MockBackend{}
	backend.On("Upsert", mock.AnythingOfType("models.WishlistEntry")).Return(nil)
	backend.On("Delete", "user-1", "pg-1").Return(errors.New("delete failed"))

	s := NewStore(backend, loggedInAs("user-1"), logrus.New())

	assert.NoError(t, s.AddItem(testListing("pg-1")))

	// The local set updates even when the backend delete fails
	assert.NoError(t, s.RemoveItem("pg-1"))
	assert.False(t, s.IsInWishlist("pg-1"))
}

func TestStore_RemoveItemRequiresAuthentication(t *testing.T) {
	backend := &MockBackend{}
	s := NewStore(backend, loggedInAs(""), logrus.New())

	err := s.RemoveItem("pg-1")
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	backend.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestStore_ItemsOrderedByAddedAtDescending(t *testing.T) {
	older := models.NewWishlistEntry("user-1", testListing("pg-1"))
	older.AddedAt = time.Now().Add(-time.Hour)
	newer := models.NewWishlistEntry("user-1", testListing("pg-2"))

	backend := &MockBackend{}
	backend.On("ListByUser", "user-1").Return([]models.WishlistEntry{older, newer}, nil)

	s := NewStore(backend, loggedInAs("user-1"), logrus.New())
	assert.NoError(t, s.Refresh())

	items := s.Items()
	assert.Len(t, items, 2)
	assert.Equal(t, "pg-2", items[0].ListingID)
	assert.Equal(t, "pg-1", items[1].ListingID)
}

func TestStore_RefreshReplacesLocalSet(t *testing.T) {
	remote := models.NewWishlistEntry("user-1", testListing("pg-2"))

	backend := &MockBackend{}
	backend.On("Upsert", mock.AnythingOfType("models.WishlistEntry")).Return(nil)
	backend.On("ListByUser", "user-1").Return([]models.WishlistEntry{remote}, nil)

	s := NewStore(backend, loggedInAs("user-1"), logrus.New())

	assert.NoError(t, s.AddItem(testListing("pg-1")))
	assert.NoError(t, s.Refresh())

	assert.False(t, s.IsInWishlist("pg-1"))
	assert.True(t, s.IsInWishlist("pg-2"))
}

func TestStore_RefreshClearsForAnonymousVisitor(t *testing.T) {
	userID := "user-1"
	backend := &MockBackend{}
	backend.On("Upsert", mock.AnythingOfType("models.WishlistEntry")).Return(nil)

	s := NewStore(backend, func() (string, bool) { return userID, userID != "" }, logrus.New())

	assert.NoError(t, s.AddItem(testListing("pg-1")))

	userID = ""
	assert.NoError(t, s.Refresh())
	assert.Empty(t, s.Items())
	backend.AssertNotCalled(t, "ListByUser", mock.Anything)
}

func TestStore_Clear(t *testing.T) {
	backend := &MockBackend{}
	backend.On("Upsert", mock.AnythingOfType("models.WishlistEntry")).Return(nil)

	s := NewStore(backend, loggedInAs("user-1"), logrus.New())

	assert.NoError(t, s.AddItem(testListing("pg-1")))
	s.Clear()
	assert.Empty(t, s.Items())
}
