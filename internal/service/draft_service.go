package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/tavvy/atlas-backend/internal/common"
	"github.com/tavvy/atlas-backend/internal/domain"
	"github.com/tavvy/atlas-backend/internal/repository"
	"github.com/tavvy/atlas-backend/pkg/connectivity"
	"github.com/tavvy/atlas-backend/pkg/logger"
)

// LocalCache is the local draft cache surface the service needs.
// Implemented by pkg/cache.DraftCache; mocked in tests.
type LocalCache interface {
	SaveDraft(ctx context.Context, draft *domain.ContentDraft) error
	RemoveDraft(ctx context.Context, userID, draftID string) error
	ListDrafts(ctx context.Context, userID string) ([]domain.ContentDraft, error)
	GetDraft(ctx context.Context, userID, draftID string) (*domain.ContentDraft, error)
}

// SessionFlags are the observable signals the wizard UI polls
type SessionFlags struct {
	IsLoading      bool   `json:"is_loading"`
	IsSaving       bool   `json:"is_saving"`
	IsOnline       bool   `json:"is_online"`
	ActiveDraftID  string `json:"active_draft_id,omitempty"`
	PendingDraftID string `json:"pending_draft_id,omitempty"`
}

// DraftService owns the draft lifecycle: the per-user active/pending drafts,
// debounced persistence, pending-draft resolution, and submission sequencing.
type DraftService interface {
	// Create starts a new draft from a resolved location
	Create(ctx context.Context, userID string, input domain.CreateDraftInput) (*domain.ContentDraft, error)
	// Update merges a partial edit into the active draft and schedules a flush
	Update(ctx context.Context, userID string, patch domain.DraftPatch, immediate bool) (*domain.ContentDraft, error)
	// Flush synchronously persists any accumulated edits (wizard teardown)
	Flush(userID string)
	// Delete removes a draft; empty id targets the active draft
	Delete(ctx context.Context, userID, draftID string) error
	// Snooze hides the active draft until now + hours
	Snooze(ctx context.Context, userID string, hours int) error
	// CheckPending resolves the single resumable draft for the user
	CheckPending(ctx context.Context, userID string) (*domain.ContentDraft, error)
	// Resume promotes the pending draft to active
	Resume(userID string) (*domain.ContentDraft, error)
	// DismissPending drops the pending offer without touching storage
	DismissPending(userID string)
	// Submit flushes, validates, and routes the active draft
	Submit(ctx context.Context, userID string) domain.SubmitResult
	// Flags returns the session's observable signals
	Flags(userID string) SessionFlags
}

// draftSession is one user's in-memory draft state. Invariants: at most one
// active draft, and at most one pending flush timer for it.
type draftSession struct {
	mu        sync.Mutex
	active    *domain.ContentDraft
	pending   *domain.ContentDraft
	engine    *SyncEngine
	isLoading atomic.Bool
	isSaving  atomic.Bool
}

type draftService struct {
	repo       repository.DraftRepository
	cache      LocalCache
	monitor    connectivity.Monitor
	submission SubmissionService

	autoSaveDelay time.Duration
	maxPhotos     int

	mu       sync.Mutex
	sessions map[string]*draftSession
}

// NewDraftService wires the draft store to its collaborators.
// maxPhotos caps the photos list per draft; non-positive uses the default.
func NewDraftService(
	repo repository.DraftRepository,
	cache LocalCache,
	monitor connectivity.Monitor,
	submission SubmissionService,
	autoSaveDelay time.Duration,
	maxPhotos int,
) DraftService {
	if maxPhotos <= 0 {
		maxPhotos = domain.MaxPhotos
	}
	return &draftService{
		repo:          repo,
		cache:         cache,
		monitor:       monitor,
		submission:    submission,
		autoSaveDelay: autoSaveDelay,
		maxPhotos:     maxPhotos,
		sessions:      make(map[string]*draftSession),
	}
}

func (s *draftService) session(userID string) *draftSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[userID]
	if !ok {
		sess = &draftSession{}
		sess.engine = NewSyncEngine(s.autoSaveDelay, s.flushFunc(userID, sess))
		s.sessions[userID] = sess
		activeDraftSessions.Inc()
	}
	return sess
}

// flushFunc persists one accumulated patch for the session's active draft.
// Routing: the local cache is authoritative for offline-born drafts and
// whenever the monitor reports offline; the remote table otherwise.
func (s *draftService) flushFunc(userID string, sess *draftSession) FlushFunc {
	return func(patch domain.DraftPatch) {
		sess.isSaving.Store(true)
		defer sess.isSaving.Store(false)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		sess.mu.Lock()
		active := sess.active
		if active == nil {
			sess.mu.Unlock()
			return
		}
		draftID := active.ID
		toCache := active.IsOffline || !s.monitor.Online()
		var snapshot *domain.ContentDraft
		if toCache {
			// a flush targeting an offline draft always leaves it pending
			active.SyncStatus = domain.SyncPending
			snapshot = active.Clone()
		} else {
			patch = patch.Clone()
			if _, ok := patch["data"]; ok {
				// the optimistic state already holds the key-wise merge;
				// write the whole map so no earlier key is dropped
				patch["data"] = map[string]interface{}(active.Data)
			}
			patch["updated_at"] = active.UpdatedAt
		}
		sess.mu.Unlock()

		if toCache {
			if err := s.cache.SaveDraft(ctx, snapshot); err != nil {
				draftFlushesTotal.WithLabelValues("cache", "error").Inc()
				logger.WithDraftID(draftID).Error().Err(err).Msg("cache flush failed")
				return
			}
			draftFlushesTotal.WithLabelValues("cache", "success").Inc()
			return
		}

		updated, err := s.repo.Update(draftID, userID, patch)
		if err != nil {
			// optimistic in-memory state is kept; the next edit's flush retries
			draftFlushesTotal.WithLabelValues("remote", "error").Inc()
			logger.WithDraftID(draftID).Error().Err(err).Msg("remote flush failed")
			return
		}
		draftFlushesTotal.WithLabelValues("remote", "success").Inc()

		sess.mu.Lock()
		if updated != nil && sess.active != nil && sess.active.ID == draftID && !sess.engine.Dirty() {
			// adopt the authoritative row unless newer edits are already queued
			sess.active = updated
		}
		sess.mu.Unlock()
	}
}

// Create allocates a draft at draft_location, step 1. Offline creation gets a
// local identifier and a pending sync status; online creation persists
// immediately under a server identifier.
func (s *draftService) Create(ctx context.Context, userID string, input domain.CreateDraftInput) (*domain.ContentDraft, error) {
	if userID == "" {
		return nil, common.ErrUnauthorized
	}

	sess := s.session(userID)
	sess.isLoading.Store(true)
	defer sess.isLoading.Store(false)

	sess.mu.Lock()
	hadActive := sess.active != nil
	sess.mu.Unlock()
	if hadActive {
		// replacing the active draft must not drop its queued edits
		sess.engine.FlushNow()
	}

	now := time.Now().UTC()
	draft := &domain.ContentDraft{
		UserID:           userID,
		Status:           domain.StatusDraftLocation,
		CurrentStep:      1,
		Latitude:         &input.Latitude,
		Longitude:        &input.Longitude,
		AddressLine1:     input.AddressLine1,
		AddressLine2:     input.AddressLine2,
		City:             input.City,
		Region:           input.Region,
		PostalCode:       input.PostalCode,
		Country:          input.Country,
		FormattedAddress: input.FormattedAddress,
		Data:             domain.JSONMap{},
		Photos:           domain.StringList{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if !s.monitor.Online() {
		draft.ID = domain.NewOfflineID()
		draft.IsOffline = true
		draft.OfflineCreatedAt = &now
		draft.SyncStatus = domain.SyncPending
		if err := s.cache.SaveDraft(ctx, draft); err != nil {
			logger.WithUserID(userID).Error().Err(err).Msg("offline draft create failed")
			return nil, err
		}
	} else {
		draft.ID = uuid.New().String()
		draft.SyncStatus = domain.SyncSynced
		if err := s.repo.Create(draft); err != nil {
			logger.WithUserID(userID).Error().Err(err).Msg("draft create failed")
			return nil, err
		}
	}

	sess.mu.Lock()
	sess.engine.Cancel()
	sess.active = draft
	sess.mu.Unlock()

	return draft.Clone(), nil
}

// Update merges the patch into the in-memory draft optimistically, then asks
// the engine to persist it, debounced or immediately.
func (s *draftService) Update(ctx context.Context, userID string, patch domain.DraftPatch, immediate bool) (*domain.ContentDraft, error) {
	if userID == "" {
		return nil, common.ErrUnauthorized
	}
	sess := s.session(userID)

	sess.mu.Lock()
	if sess.active == nil {
		sess.mu.Unlock()
		return nil, common.ErrNoActiveDraft
	}
	if sess.active.Status == domain.StatusSubmitted {
		sess.mu.Unlock()
		return nil, common.ErrDraftSubmitted
	}
	if err := patch.ApplyCapped(sess.active, time.Now().UTC(), s.maxPhotos); err != nil {
		sess.mu.Unlock()
		return nil, err
	}
	result := sess.active.Clone()
	sess.mu.Unlock()

	sess.engine.Queue(patch, immediate)
	return result, nil
}

// Flush persists accumulated edits synchronously. Navigating away from the
// wizard calls this so nothing queued is silently dropped.
func (s *draftService) Flush(userID string) {
	if userID == "" {
		return
	}
	s.session(userID).engine.FlushNow()
}

// Delete removes a draft from whichever store holds it and cancels any
// pending flush timer so a stale write cannot resurrect it.
func (s *draftService) Delete(ctx context.Context, userID, draftID string) error {
	if userID == "" {
		return common.ErrUnauthorized
	}
	sess := s.session(userID)

	sess.mu.Lock()
	if draftID == "" {
		if sess.active == nil {
			sess.mu.Unlock()
			return common.ErrNoActiveDraft
		}
		draftID = sess.active.ID
	}
	deletingActive := sess.active != nil && sess.active.ID == draftID
	sess.mu.Unlock()

	if deletingActive {
		sess.engine.Cancel()
	}

	var err error
	if domain.IsOfflineID(draftID) {
		err = s.cache.RemoveDraft(ctx, userID, draftID)
	} else {
		err = s.repo.Delete(draftID, userID)
	}
	if err != nil {
		return err
	}

	sess.mu.Lock()
	if sess.active != nil && sess.active.ID == draftID {
		sess.active = nil
	}
	if sess.pending != nil && sess.pending.ID == draftID {
		sess.pending = nil
	}
	sess.mu.Unlock()
	return nil
}

// Snooze stamps remind_later_until, persists immediately, then clears the
// session. The draft stays in storage, hidden until the timestamp elapses.
func (s *draftService) Snooze(ctx context.Context, userID string, hours int) error {
	if userID == "" {
		return common.ErrUnauthorized
	}
	if hours <= 0 {
		hours = 24
	}
	remindAt := time.Now().UTC().Add(time.Duration(hours) * time.Hour)

	if _, err := s.Update(ctx, userID, domain.DraftPatch{"remind_later_until": remindAt}, true); err != nil {
		return err
	}

	sess := s.session(userID)
	sess.engine.Cancel()
	sess.mu.Lock()
	sess.active = nil
	sess.pending = nil
	sess.mu.Unlock()
	return nil
}

// CheckPending resolves the single most recently updated unfinished,
// non-snoozed draft across the remote table and the local cache. Pure
// reconciliation: nothing is mutated until the user chooses.
func (s *draftService) CheckPending(ctx context.Context, userID string) (*domain.ContentDraft, error) {
	if userID == "" {
		return nil, common.ErrUnauthorized
	}
	sess := s.session(userID)

	sess.mu.Lock()
	hasActive := sess.active != nil
	sess.mu.Unlock()
	if hasActive {
		return nil, nil
	}

	now := time.Now().UTC()
	var candidate *domain.ContentDraft

	if s.monitor.Online() {
		remote, err := s.repo.FindPending(userID, now)
		if err != nil {
			logger.WithUserID(userID).Error().Err(err).Msg("pending draft query failed")
		} else {
			candidate = remote
		}
	}

	cached, err := s.cache.ListDrafts(ctx, userID)
	if err != nil {
		logger.WithUserID(userID).Error().Err(err).Msg("pending draft cache scan failed")
	}
	for i := range cached {
		d := &cached[i]
		if d.Status == domain.StatusSubmitted || d.Snoozed(now) {
			continue
		}
		if candidate == nil || d.UpdatedAt.After(candidate.UpdatedAt) {
			candidate = d
		}
	}

	if candidate == nil {
		return nil, nil
	}

	sess.mu.Lock()
	sess.pending = candidate
	sess.mu.Unlock()
	return candidate.Clone(), nil
}

// Resume promotes the pending draft to active, re-entering the wizard at the
// step implied by its status.
func (s *draftService) Resume(userID string) (*domain.ContentDraft, error) {
	if userID == "" {
		return nil, common.ErrUnauthorized
	}
	sess := s.session(userID)

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.pending == nil {
		return nil, common.ErrDraftNotFound
	}
	sess.engine.Cancel()
	sess.active = sess.pending
	sess.pending = nil
	sess.active.CurrentStep = sess.active.WizardStep()
	return sess.active.Clone(), nil
}

// DismissPending drops the pending offer for this session only
func (s *draftService) DismissPending(userID string) {
	if userID == "" {
		return
	}
	sess := s.session(userID)
	sess.mu.Lock()
	sess.pending = nil
	sess.mu.Unlock()
}

// Submit runs the flush-then-submit sequence: accumulated edits are persisted
// synchronously before the router reads the draft, so the submitted payload
// always reflects the latest edits.
func (s *draftService) Submit(ctx context.Context, userID string) domain.SubmitResult {
	if userID == "" {
		return domain.SubmitFailure("Not authenticated")
	}
	sess := s.session(userID)

	sess.mu.Lock()
	if sess.active == nil {
		sess.mu.Unlock()
		return domain.SubmitFailure("No draft to submit")
	}
	sess.mu.Unlock()

	sess.engine.FlushNow()

	if !s.monitor.Online() {
		// the flush above already routed the accumulated edits to the local
		// cache; the draft stays active with sync_status=pending until the
		// user retries with connectivity
		sess.mu.Lock()
		ctLabel := "none"
		if sess.active != nil && sess.active.ContentType != nil {
			ctLabel = string(*sess.active.ContentType)
		}
		sess.mu.Unlock()
		draftSubmissionsTotal.WithLabelValues(ctLabel, "offline").Inc()
		return domain.SubmitFailure("Cannot submit while offline")
	}

	sess.isLoading.Store(true)
	defer sess.isLoading.Store(false)

	sess.mu.Lock()
	draft := sess.active.Clone()
	sess.mu.Unlock()

	result := s.submission.Submit(ctx, draft, userID)
	if !result.Success {
		// draft untouched, still resumable
		return result
	}

	// retention follows the store the draft lives in: the remote row is the
	// audit record; a promoted offline stub has no further use
	if domain.IsOfflineID(draft.ID) {
		if err := s.cache.RemoveDraft(ctx, userID, draft.ID); err != nil {
			logger.WithDraftID(draft.ID).Error().Err(err).Msg("offline draft cleanup failed")
		}
	} else {
		if err := s.repo.MarkSubmitted(draft.ID, userID); err != nil {
			logger.WithDraftID(draft.ID).Error().Err(err).Msg("submitted status update failed")
		}
	}

	sess.engine.Cancel()
	sess.mu.Lock()
	if sess.active != nil && sess.active.ID == draft.ID {
		sess.active = nil
	}
	sess.mu.Unlock()

	return result
}

// Flags returns the session's observable signals
func (s *draftService) Flags(userID string) SessionFlags {
	sess := s.session(userID)
	flags := SessionFlags{
		IsLoading: sess.isLoading.Load(),
		IsSaving:  sess.isSaving.Load(),
		IsOnline:  s.monitor.Online(),
	}
	sess.mu.Lock()
	if sess.active != nil {
		flags.ActiveDraftID = sess.active.ID
	}
	if sess.pending != nil {
		flags.PendingDraftID = sess.pending.ID
	}
	sess.mu.Unlock()
	return flags
}
