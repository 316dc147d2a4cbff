package repository

import (
	"github.com/google/uuid"
	"github.com/tavvy/atlas-backend/internal/domain"
	"gorm.io/gorm"
)

// SubmissionRepository writes finalized drafts into the target resource tables
type SubmissionRepository interface {
	// InsertPlace writes a place row and returns its id
	InsertPlace(place *domain.Place) (string, error)
	// InsertEvent writes an event row and returns its id
	InsertEvent(event *domain.Event) (string, error)
	// InsertRvCampground writes an RV/campground row and returns its id
	InsertRvCampground(site *domain.RvCampground) (string, error)
}

type submissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository creates a new SubmissionRepository
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

// InsertPlace writes a place row
func (r *submissionRepository) InsertPlace(place *domain.Place) (string, error) {
	if place.ID == "" {
		place.ID = uuid.New().String()
	}
	if err := r.db.Create(place).Error; err != nil {
		return "", err
	}
	return place.ID, nil
}

// InsertEvent writes an event row
func (r *submissionRepository) InsertEvent(event *domain.Event) (string, error) {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if err := r.db.Create(event).Error; err != nil {
		return "", err
	}
	return event.ID, nil
}

// InsertRvCampground writes an RV/campground row
func (r *submissionRepository) InsertRvCampground(site *domain.RvCampground) (string, error) {
	if site.ID == "" {
		site.ID = uuid.New().String()
	}
	if err := r.db.Create(site).Error; err != nil {
		return "", err
	}
	return site.ID, nil
}
