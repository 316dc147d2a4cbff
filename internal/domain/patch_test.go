package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/tavvy/atlas-backend/internal/common"
)

func newTestDraft() *ContentDraft {
	lat, lng := 25.76, -80.19
	return &ContentDraft{
		ID:          "d-1",
		UserID:      "u-1",
		Status:      StatusDraftLocation,
		CurrentStep: 1,
		Latitude:    &lat,
		Longitude:   &lng,
		Data:        JSONMap{},
		Photos:      StringList{},
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}
}

func TestPatchMerge_DataMergesKeyWise(t *testing.T) {
	p := DraftPatch{"data": map[string]interface{}{"name": "Joe's Tacos"}}
	p.Merge(DraftPatch{"data": map[string]interface{}{"phone": "555-0101"}})
	p.Merge(DraftPatch{"data": map[string]interface{}{"phone": "555-0202"}})

	data := p["data"].(map[string]interface{})
	assert.Equal(t, "Joe's Tacos", data["name"], "earlier keys must survive later merges")
	assert.Equal(t, "555-0202", data["phone"], "later edits to the same key win")
}

func TestPatchMerge_ScalarsOverwrite(t *testing.T) {
	p := DraftPatch{"current_step": 2}
	p.Merge(DraftPatch{"current_step": 3, "content_type": "business"})

	assert.Equal(t, 3, p["current_step"])
	assert.Equal(t, "business", p["content_type"])
}

func TestPatchApply_DataNeverDropsKeys(t *testing.T) {
	d := newTestDraft()
	now := time.Now().UTC()

	err := DraftPatch{"data": map[string]interface{}{"name": "Joe's Tacos"}}.Apply(d, now)
	assert.NoError(t, err)
	err = DraftPatch{"data": map[string]interface{}{"phone": "555-0101"}}.Apply(d, now)
	assert.NoError(t, err)
	err = DraftPatch{"data": map[string]interface{}{"phone": "555-0202"}}.Apply(d, now)
	assert.NoError(t, err)

	assert.Equal(t, "Joe's Tacos", d.Data["name"])
	assert.Equal(t, "555-0202", d.Data["phone"])
}

func TestPatchApply_StatusForwardOnly(t *testing.T) {
	d := newTestDraft()
	d.Status = StatusDraftDetails
	d.CurrentStep = 4

	err := DraftPatch{"status": "draft_type_selected"}.Apply(d, time.Now().UTC())
	assert.ErrorIs(t, err, common.ErrStatusRegression)
	assert.Equal(t, StatusDraftDetails, d.Status)

	err = DraftPatch{"status": "draft_review"}.Apply(d, time.Now().UTC())
	assert.NoError(t, err)
	assert.Equal(t, StatusDraftReview, d.Status)
	assert.Equal(t, 5, d.CurrentStep, "step follows the status transition")
}

func TestPatchApply_FailedReachableFromAnyNonTerminalState(t *testing.T) {
	for _, from := range []DraftStatus{StatusDraftLocation, StatusDraftDetails, StatusDraftReview} {
		d := newTestDraft()
		d.Status = from
		err := DraftPatch{"status": "failed"}.Apply(d, time.Now().UTC())
		assert.NoError(t, err, "failed must be reachable from %s", from)
	}
}

func TestPatchApply_PhotoCap(t *testing.T) {
	d := newTestDraft()
	photos := make([]interface{}, MaxPhotos+1)
	for i := range photos {
		photos[i] = "https://cdn.example.com/p.jpg"
	}

	err := DraftPatch{"photos": photos}.Apply(d, time.Now().UTC())
	assert.ErrorIs(t, err, common.ErrTooManyPhotos)
	assert.Empty(t, d.Photos, "excess photos are rejected before storage")
}

func TestPatchApplyCapped_ConfiguredPhotoCap(t *testing.T) {
	d := newTestDraft()
	photos := []interface{}{"a.jpg", "b.jpg", "c.jpg"}

	err := DraftPatch{"photos": photos}.ApplyCapped(d, time.Now().UTC(), 2)
	assert.ErrorIs(t, err, common.ErrTooManyPhotos)

	err = DraftPatch{"photos": photos[:2]}.ApplyCapped(d, time.Now().UTC(), 2)
	assert.NoError(t, err)
	assert.Len(t, d.Photos, 2)

	// non-positive cap falls back to the default
	big := make([]interface{}, MaxPhotos)
	for i := range big {
		big[i] = "p.jpg"
	}
	err = DraftPatch{"photos": big}.ApplyCapped(newTestDraft(), time.Now().UTC(), 0)
	assert.NoError(t, err)
}

func TestPatchApply_UnknownKeysLandInData(t *testing.T) {
	d := newTestDraft()
	err := DraftPatch{"has_physical_location": false}.Apply(d, time.Now().UTC())
	assert.NoError(t, err)
	assert.Equal(t, false, d.Data["has_physical_location"])
}

func TestWizardStep_FallsBackToCurrentStep(t *testing.T) {
	d := newTestDraft()
	d.Status = DraftStatus("draft_something_newer")
	d.CurrentStep = 3
	assert.Equal(t, 3, d.WizardStep())

	d.Status = StatusDraftSubtypeSelected
	assert.Equal(t, 3, d.WizardStep())
	d.Status = StatusDraftReview
	assert.Equal(t, 5, d.WizardStep())
}

func TestSnoozed(t *testing.T) {
	d := newTestDraft()
	now := time.Now().UTC()
	assert.False(t, d.Snoozed(now))

	future := now.Add(24 * time.Hour)
	d.RemindLaterUntil = &future
	assert.True(t, d.Snoozed(now))
	assert.False(t, d.Snoozed(future.Add(time.Minute)), "an elapsed snooze no longer hides the draft")
}

func TestOfflineIDs(t *testing.T) {
	id := NewOfflineID()
	assert.True(t, IsOfflineID(id))
	assert.False(t, IsOfflineID("2b26b5c0-45c7-4cbb-a847-1b2e9a0c2a1f"))
}
