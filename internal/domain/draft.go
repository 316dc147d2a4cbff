package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DraftStatus is the wizard state machine for a content draft
type DraftStatus string

const (
	StatusDraftLocation        DraftStatus = "draft_location"
	StatusDraftTypeSelected    DraftStatus = "draft_type_selected"
	StatusDraftSubtypeSelected DraftStatus = "draft_subtype_selected"
	StatusDraftDetails         DraftStatus = "draft_details"
	StatusDraftReview          DraftStatus = "draft_review"
	StatusSubmitted            DraftStatus = "submitted"
	StatusFailed               DraftStatus = "failed"
)

// statusRank orders the forward-only wizard progression.
// failed is reachable from any non-terminal state, so it shares the top rank.
var statusRank = map[DraftStatus]int{
	StatusDraftLocation:        1,
	StatusDraftTypeSelected:    2,
	StatusDraftSubtypeSelected: 3,
	StatusDraftDetails:         4,
	StatusDraftReview:          5,
	StatusSubmitted:            6,
	StatusFailed:               6,
}

// Known reports whether s is a recognized wizard status
func (s DraftStatus) Known() bool {
	_, ok := statusRank[s]
	return ok
}

// Step maps a status to its wizard step number.
// Returns 0 for unknown statuses; callers fall back to current_step.
func (s DraftStatus) Step() int {
	switch s {
	case StatusDraftLocation:
		return 1
	case StatusDraftTypeSelected:
		return 2
	case StatusDraftSubtypeSelected:
		return 3
	case StatusDraftDetails:
		return 4
	case StatusDraftReview:
		return 5
	default:
		return 0
	}
}

// CanAdvanceTo reports whether moving from s to next is a legal forward transition
func (s DraftStatus) CanAdvanceTo(next DraftStatus) bool {
	if s == StatusSubmitted {
		return false
	}
	if next == StatusFailed {
		return true
	}
	cur, ok := statusRank[s]
	if !ok {
		return true
	}
	n, ok := statusRank[next]
	if !ok {
		return false
	}
	return n >= cur
}

// ContentType is the closed set of submission targets
type ContentType string

const (
	TypeBusiness     ContentType = "business"
	TypeEvent        ContentType = "event"
	TypeRvCampground ContentType = "rv_campground"
	TypeQuickAdd     ContentType = "quick_add"
)

// Valid reports whether t is a known content type
func (t ContentType) Valid() bool {
	switch t {
	case TypeBusiness, TypeEvent, TypeRvCampground, TypeQuickAdd:
		return true
	}
	return false
}

// ContentSubtype refines a content type
type ContentSubtype string

const (
	SubtypePhysical ContentSubtype = "physical"
	SubtypeService  ContentSubtype = "service"
	SubtypeOnTheGo  ContentSubtype = "on_the_go"

	SubtypeRvPark           ContentSubtype = "rv_park"
	SubtypeCampground       ContentSubtype = "campground"
	SubtypeBoondocking      ContentSubtype = "boondocking"
	SubtypeOvernightParking ContentSubtype = "overnight_parking"

	SubtypeRestroom      ContentSubtype = "restroom"
	SubtypeParking       ContentSubtype = "parking"
	SubtypeATM           ContentSubtype = "atm"
	SubtypeWaterFountain ContentSubtype = "water_fountain"
	SubtypePetRelief     ContentSubtype = "pet_relief"
	SubtypePhotoSpot     ContentSubtype = "photo_spot"
)

// SyncStatus tracks whether a draft's durable copy matches the remote table
type SyncStatus string

const (
	SyncSynced  SyncStatus = "synced"
	SyncPending SyncStatus = "pending"
	SyncFailed  SyncStatus = "failed"
)

// MaxPhotos caps the photo list per draft; excess is rejected before storage
const MaxPhotos = 10

// OfflineIDPrefix marks locally generated identifiers that have never been
// assigned by the server. A draft with such an id must never be written to the
// remote table directly.
const OfflineIDPrefix = "offline_"

// NewOfflineID generates a local identifier for a draft created while disconnected
func NewOfflineID() string {
	return OfflineIDPrefix + uuid.New().String()
}

// IsOfflineID reports whether id is a locally generated identifier
func IsOfflineID(id string) bool {
	return strings.HasPrefix(id, OfflineIDPrefix)
}

// JSONMap is a schema-less key/value payload stored as a JSON column
type JSONMap map[string]interface{}

// Value implements driver.Valuer
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner
func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = JSONMap{}
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("unsupported JSON column type %T", value)
		}
		b = []byte(s)
	}
	return json.Unmarshal(b, m)
}

// StringList is an ordered list stored as a JSON array column
type StringList []string

// Value implements driver.Valuer
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("unsupported JSON column type %T", value)
		}
		b = []byte(s)
	}
	return json.Unmarshal(b, l)
}

// ContentDraft is the unit of work for the add-content wizard (content_drafts table).
// Timestamps are set by the writer, not the database, so offline creation works.
type ContentDraft struct {
	ID          string      `gorm:"column:id;primaryKey;type:varchar(64)" json:"id"`
	UserID      string      `gorm:"column:user_id;index;type:varchar(36)" json:"user_id"`
	Status      DraftStatus `gorm:"column:status;type:varchar(32)" json:"status"`
	CurrentStep int         `gorm:"column:current_step" json:"current_step"`

	Latitude         *float64 `gorm:"column:latitude" json:"latitude"`
	Longitude        *float64 `gorm:"column:longitude" json:"longitude"`
	AddressLine1     *string  `gorm:"column:address_line1;size:255" json:"address_line1"`
	AddressLine2     *string  `gorm:"column:address_line2;size:255" json:"address_line2"`
	City             *string  `gorm:"column:city;size:128" json:"city"`
	Region           *string  `gorm:"column:region;size:128" json:"region"`
	PostalCode       *string  `gorm:"column:postal_code;size:32" json:"postal_code"`
	Country          *string  `gorm:"column:country;size:128" json:"country"`
	FormattedAddress *string  `gorm:"column:formatted_address;size:512" json:"formatted_address"`

	ContentType    *ContentType    `gorm:"column:content_type;type:varchar(32)" json:"content_type"`
	ContentSubtype *ContentSubtype `gorm:"column:content_subtype;type:varchar(32)" json:"content_subtype"`

	Data       JSONMap    `gorm:"column:data;type:json" json:"data"`
	Photos     StringList `gorm:"column:photos;type:json" json:"photos"`
	CoverPhoto *string    `gorm:"column:cover_photo;size:512" json:"cover_photo"`

	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`

	RemindLaterUntil *time.Time `gorm:"column:remind_later_until" json:"remind_later_until"`

	IsOffline        bool       `gorm:"column:is_offline" json:"is_offline"`
	OfflineCreatedAt *time.Time `gorm:"column:offline_created_at" json:"offline_created_at"`
	SyncStatus       SyncStatus `gorm:"column:sync_status;type:varchar(16)" json:"sync_status"`
}

// TableName returns the table name for ContentDraft
func (ContentDraft) TableName() string {
	return "content_drafts"
}

// Submittable reports whether the draft satisfies the submission preconditions
func (d *ContentDraft) Submittable() bool {
	return d.Latitude != nil && d.Longitude != nil && d.ContentType != nil
}

// Snoozed reports whether the draft is hidden from pending queries at time now
func (d *ContentDraft) Snoozed(now time.Time) bool {
	return d.RemindLaterUntil != nil && d.RemindLaterUntil.After(now)
}

// WizardStep resolves the step to re-enter the wizard at: the step implied by
// status, falling back to the stored current_step when status is unrecognized.
func (d *ContentDraft) WizardStep() int {
	if step := d.Status.Step(); step > 0 {
		return step
	}
	return d.CurrentStep
}

// Clone returns a deep copy so optimistic in-memory state never aliases
// the accumulator or a cached draft.
func (d *ContentDraft) Clone() *ContentDraft {
	cp := *d
	cp.Data = make(JSONMap, len(d.Data))
	for k, v := range d.Data {
		cp.Data[k] = v
	}
	cp.Photos = append(StringList(nil), d.Photos...)
	return &cp
}

// CreateDraftInput carries the resolved location that starts a draft
type CreateDraftInput struct {
	Latitude         float64 `json:"latitude" binding:"required"`
	Longitude        float64 `json:"longitude" binding:"required"`
	AddressLine1     *string `json:"address_line1"`
	AddressLine2     *string `json:"address_line2"`
	City             *string `json:"city"`
	Region           *string `json:"region"`
	PostalCode       *string `json:"postal_code"`
	Country          *string `json:"country"`
	FormattedAddress *string `json:"formatted_address"`
}
