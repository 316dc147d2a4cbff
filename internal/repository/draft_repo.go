package repository

import (
	"time"

	"github.com/tavvy/atlas-backend/internal/common"
	"github.com/tavvy/atlas-backend/internal/domain"
	"gorm.io/gorm"
)

// DraftRepository handles content_drafts table operations
type DraftRepository interface {
	// Create inserts a new draft and returns the stored row
	Create(draft *domain.ContentDraft) error
	// FindByID returns a draft scoped to its owner
	FindByID(id, userID string) (*domain.ContentDraft, error)
	// Update applies a partial update to the owner's draft and returns the row
	Update(id, userID string, patch domain.DraftPatch) (*domain.ContentDraft, error)
	// FindPending returns the most recently updated unfinished, non-snoozed
	// draft for a user, or nil when none exists
	FindPending(userID string, now time.Time) (*domain.ContentDraft, error)
	// Delete removes the owner's draft
	Delete(id, userID string) error
	// MarkSubmitted soft-terminates a draft, keeping the row for audit
	MarkSubmitted(id, userID string) error
}

type draftRepository struct {
	db *gorm.DB
}

// NewDraftRepository creates a new DraftRepository
func NewDraftRepository(db *gorm.DB) DraftRepository {
	return &draftRepository{db: db}
}

// Create inserts a new draft. Locally generated ids never reach this table;
// reconciliation assigns a server id first.
func (r *draftRepository) Create(draft *domain.ContentDraft) error {
	if domain.IsOfflineID(draft.ID) {
		return common.ErrOfflineSubmission
	}
	return r.db.Create(draft).Error
}

// FindByID returns a draft scoped to its owner
func (r *draftRepository) FindByID(id, userID string) (*domain.ContentDraft, error) {
	var draft domain.ContentDraft
	err := r.db.Where("id = ? AND user_id = ?", id, userID).
		First(&draft).Error
	if err != nil {
		return nil, err
	}
	return &draft, nil
}

// Update applies a partial column update scoped to the owner, then reloads.
// The patch's keys are column names; the "data" map is written whole because
// the caller has already merged it against the in-memory draft.
func (r *draftRepository) Update(id, userID string, patch domain.DraftPatch) (*domain.ContentDraft, error) {
	if domain.IsOfflineID(id) {
		return nil, common.ErrOfflineSubmission
	}
	updates := make(map[string]interface{}, len(patch))
	for k, v := range patch {
		switch k {
		case "data":
			if m, ok := v.(map[string]interface{}); ok {
				updates[k] = domain.JSONMap(m)
				continue
			}
			updates[k] = v
		case "photos":
			if l, ok := v.([]interface{}); ok {
				photos := make(domain.StringList, 0, len(l))
				for _, item := range l {
					if s, ok := item.(string); ok {
						photos = append(photos, s)
					}
				}
				updates[k] = photos
				continue
			}
			updates[k] = v
		default:
			updates[k] = v
		}
	}

	err := r.db.Model(&domain.ContentDraft{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(updates).Error
	if err != nil {
		return nil, err
	}
	return r.FindByID(id, userID)
}

// FindPending excludes submitted drafts and unexpired snoozes, newest first
func (r *draftRepository) FindPending(userID string, now time.Time) (*domain.ContentDraft, error) {
	var draft domain.ContentDraft
	err := r.db.Where("user_id = ?", userID).
		Where("status <> ?", domain.StatusSubmitted).
		Where("remind_later_until IS NULL OR remind_later_until <= ?", now).
		Order("updated_at DESC").
		First(&draft).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &draft, nil
}

// Delete removes the owner's draft
func (r *draftRepository) Delete(id, userID string) error {
	return r.db.Where("id = ? AND user_id = ?", id, userID).
		Delete(&domain.ContentDraft{}).Error
}

// MarkSubmitted soft-terminates a draft
func (r *draftRepository) MarkSubmitted(id, userID string) error {
	return r.db.Model(&domain.ContentDraft{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]interface{}{
			"status":      domain.StatusSubmitted,
			"sync_status": domain.SyncSynced,
			"updated_at":  time.Now().UTC(),
		}).Error
}
