package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/tavvy/atlas-backend/internal/domain"
)

// MockSubmissionRepository is a mock implementation of SubmissionRepository
type MockSubmissionRepository struct {
	mock.Mock
}

func (m *MockSubmissionRepository) InsertPlace(place *domain.Place) (string, error) {
	args := m.Called(place)
	return args.String(0), args.Error(1)
}

func (m *MockSubmissionRepository) InsertEvent(event *domain.Event) (string, error) {
	args := m.Called(event)
	return args.String(0), args.Error(1)
}

func (m *MockSubmissionRepository) InsertRvCampground(site *domain.RvCampground) (string, error) {
	args := m.Called(site)
	return args.String(0), args.Error(1)
}

func submittableDraft(contentType domain.ContentType, subtype domain.ContentSubtype) *domain.ContentDraft {
	lat, lng := 25.76, -80.19
	return &domain.ContentDraft{
		ID:             "draft-1",
		UserID:         "user-1",
		Status:         domain.StatusDraftReview,
		CurrentStep:    5,
		Latitude:       &lat,
		Longitude:      &lng,
		ContentType:    &contentType,
		ContentSubtype: &subtype,
		Data:           domain.JSONMap{},
		Photos:         domain.StringList{},
		CreatedAt:      time.Now().UTC(),
		UpdatedAt:      time.Now().UTC(),
	}
}

func TestSubmit_MissingLocation(t *testing.T) {
	repo := new(MockSubmissionRepository)
	svc := NewSubmissionService(repo, 50)

	draft := submittableDraft(domain.TypeBusiness, domain.SubtypePhysical)
	draft.Latitude = nil

	result := svc.Submit(context.Background(), draft, "user-1")

	assert.False(t, result.Success)
	assert.Equal(t, "Location is required", result.Error)
	repo.AssertNotCalled(t, "InsertPlace", mock.Anything)
}

func TestSubmit_MissingContentType(t *testing.T) {
	repo := new(MockSubmissionRepository)
	svc := NewSubmissionService(repo, 50)

	draft := submittableDraft(domain.TypeBusiness, domain.SubtypePhysical)
	draft.ContentType = nil

	result := svc.Submit(context.Background(), draft, "user-1")

	assert.False(t, result.Success)
	assert.Equal(t, "Content type is required", result.Error)
	repo.AssertNotCalled(t, "InsertPlace", mock.Anything)
}

func TestSubmit_UnknownContentType(t *testing.T) {
	repo := new(MockSubmissionRepository)
	svc := NewSubmissionService(repo, 50)

	draft := submittableDraft(domain.ContentType("hologram"), domain.SubtypePhysical)

	result := svc.Submit(context.Background(), draft, "user-1")

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "Unknown content type")
	repo.AssertNotCalled(t, "InsertPlace", mock.Anything)
	repo.AssertNotCalled(t, "InsertEvent", mock.Anything)
	repo.AssertNotCalled(t, "InsertRvCampground", mock.Anything)
}

func TestSubmit_BusinessMapsToPlace(t *testing.T) {
	repo := new(MockSubmissionRepository)
	svc := NewSubmissionService(repo, 50)

	draft := submittableDraft(domain.TypeBusiness, domain.SubtypePhysical)
	draft.Data = domain.JSONMap{
		"name":        "Joe's Tacos",
		"description": "street tacos",
		"phone":       "555-0101",
	}
	draft.Photos = domain.StringList{"a.jpg", "b.jpg"}
	cover := "a.jpg"
	draft.CoverPhoto = &cover

	var inserted *domain.Place
	repo.On("InsertPlace", mock.AnythingOfType("*domain.Place")).
		Run(func(args mock.Arguments) { inserted = args.Get(0).(*domain.Place) }).
		Return("place-1", nil)

	result := svc.Submit(context.Background(), draft, "user-1")

	assert.True(t, result.Success)
	assert.Equal(t, "place-1", result.FinalID)
	assert.Equal(t, "tavvy_places", result.FinalTable)
	assert.Equal(t, 50, result.TapsEarned)

	assert.Equal(t, "Joe's Tacos", inserted.Name)
	assert.Equal(t, domain.PlaceTypeFixed, inserted.PlaceType)
	assert.Equal(t, "user", inserted.Source)
	assert.Equal(t, "user-1", inserted.CreatedBy)
	assert.Equal(t, "draft-1", inserted.DraftID)
	assert.False(t, inserted.IsQuickAdd)
	assert.Equal(t, "555-0101", *inserted.Phone)
	assert.Equal(t, "a.jpg", *inserted.CoverImageURL)
}

func TestSubmit_ServiceWithoutPhysicalLocationIsOnTheGo(t *testing.T) {
	repo := new(MockSubmissionRepository)
	svc := NewSubmissionService(repo, 50)

	draft := submittableDraft(domain.TypeBusiness, domain.SubtypeService)
	draft.Data = domain.JSONMap{"name": "Mobile Grooming", "has_physical_location": false}

	var inserted *domain.Place
	repo.On("InsertPlace", mock.AnythingOfType("*domain.Place")).
		Run(func(args mock.Arguments) { inserted = args.Get(0).(*domain.Place) }).
		Return("place-2", nil)

	result := svc.Submit(context.Background(), draft, "user-1")

	assert.True(t, result.Success)
	assert.Equal(t, domain.PlaceTypeOnTheGo, inserted.PlaceType)
}

func TestSubmit_QuickAddDefaults(t *testing.T) {
	repo := new(MockSubmissionRepository)
	svc := NewSubmissionService(repo, 50)

	draft := submittableDraft(domain.TypeQuickAdd, domain.SubtypeRestroom)

	var inserted *domain.Place
	repo.On("InsertPlace", mock.AnythingOfType("*domain.Place")).
		Run(func(args mock.Arguments) { inserted = args.Get(0).(*domain.Place) }).
		Return("place-3", nil)

	result := svc.Submit(context.Background(), draft, "user-1")

	assert.True(t, result.Success)
	assert.True(t, inserted.IsQuickAdd)
	assert.Equal(t, domain.SubtypeRestroom, *inserted.QuickAddType)
	assert.Equal(t, "restroom", inserted.Name, "name falls back to the subtype")
	assert.Equal(t, "restroom", inserted.Category)
}

func TestSubmit_EventDefaults(t *testing.T) {
	repo := new(MockSubmissionRepository)
	svc := NewSubmissionService(repo, 50)

	draft := submittableDraft(domain.TypeEvent, domain.SubtypePhysical)
	draft.Data = domain.JSONMap{"name": "Food Truck Friday", "start_datetime": "2026-09-04T18:00:00Z"}

	var inserted *domain.Event
	repo.On("InsertEvent", mock.AnythingOfType("*domain.Event")).
		Run(func(args mock.Arguments) { inserted = args.Get(0).(*domain.Event) }).
		Return("event-1", nil)

	result := svc.Submit(context.Background(), draft, "user-1")

	assert.True(t, result.Success)
	assert.Equal(t, "tavvy_events", result.FinalTable)
	assert.True(t, inserted.IsFree, "events are free unless the draft says otherwise")
	assert.False(t, inserted.IsAllDay)
	assert.Equal(t, "published", inserted.Status)
}

func TestSubmit_RvCampgroundMapsAmenities(t *testing.T) {
	repo := new(MockSubmissionRepository)
	svc := NewSubmissionService(repo, 50)

	draft := submittableDraft(domain.TypeRvCampground, domain.SubtypeBoondocking)
	draft.Data = domain.JSONMap{
		"name":         "Desert Flats",
		"amenities":    map[string]interface{}{"fire_pit": true},
		"has_electric": false,
		"has_water":    true,
	}

	var inserted *domain.RvCampground
	repo.On("InsertRvCampground", mock.AnythingOfType("*domain.RvCampground")).
		Run(func(args mock.Arguments) { inserted = args.Get(0).(*domain.RvCampground) }).
		Return("rv-1", nil)

	result := svc.Submit(context.Background(), draft, "user-1")

	assert.True(t, result.Success)
	assert.Equal(t, domain.SubtypeBoondocking, *inserted.CampgroundType)
	assert.Equal(t, true, inserted.Amenities["fire_pit"])
	assert.False(t, *inserted.HasElectric)
	assert.True(t, *inserted.HasWater)
}

func TestSubmit_InsertFailureReturnsStructuredError(t *testing.T) {
	repo := new(MockSubmissionRepository)
	svc := NewSubmissionService(repo, 50)

	draft := submittableDraft(domain.TypeBusiness, domain.SubtypePhysical)
	repo.On("InsertPlace", mock.Anything).Return("", errors.New("duplicate entry"))

	result := svc.Submit(context.Background(), draft, "user-1")

	assert.False(t, result.Success)
	assert.Equal(t, "duplicate entry", result.Error)
	assert.Zero(t, result.TapsEarned)
}

func TestSubmit_RewardComesFromConfig(t *testing.T) {
	repo := new(MockSubmissionRepository)
	svc := NewSubmissionService(repo, 75)

	draft := submittableDraft(domain.TypeBusiness, domain.SubtypePhysical)
	repo.On("InsertPlace", mock.Anything).Return("place-4", nil)

	result := svc.Submit(context.Background(), draft, "user-1")
	assert.Equal(t, 75, result.TapsEarned)
}
