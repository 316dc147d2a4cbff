package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tavvy/atlas-backend/internal/common"
	"github.com/tavvy/atlas-backend/internal/domain"
)

// Locally generated ids must never reach content_drafts; the guard fires
// before any query is built, so no database is needed here.
func TestDraftRepository_RejectsOfflineIDs(t *testing.T) {
	repo := NewDraftRepository(nil)

	err := repo.Create(&domain.ContentDraft{ID: domain.NewOfflineID(), UserID: "user-1"})
	assert.ErrorIs(t, err, common.ErrOfflineSubmission)

	_, err = repo.Update(domain.OfflineIDPrefix+"abc", "user-1", domain.DraftPatch{"current_step": 2})
	assert.ErrorIs(t, err, common.ErrOfflineSubmission)
}
