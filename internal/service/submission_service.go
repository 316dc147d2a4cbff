package service

import (
	"context"

	"github.com/tavvy/atlas-backend/internal/domain"
	"github.com/tavvy/atlas-backend/internal/repository"
	"github.com/tavvy/atlas-backend/pkg/logger"
)

// DefaultSubmissionTaps is the reward reported per successful submission
const DefaultSubmissionTaps = 50

// SubmissionService is the terminal step of the wizard: it validates a draft
// and routes its payload into exactly one target resource table.
type SubmissionService interface {
	// Submit validates and dispatches the draft. On failure the draft is
	// untouched and the result carries a human-readable reason.
	Submit(ctx context.Context, draft *domain.ContentDraft, userID string) domain.SubmitResult
}

type submissionService struct {
	repo repository.SubmissionRepository
	taps int
}

// NewSubmissionService creates a SubmissionService. taps <= 0 falls back to
// the default reward.
func NewSubmissionService(repo repository.SubmissionRepository, taps int) SubmissionService {
	if taps <= 0 {
		taps = DefaultSubmissionTaps
	}
	return &submissionService{repo: repo, taps: taps}
}

// Submit dispatches on content type. Preconditions are checked before any
// network call; violations return a structured failure with no side effects.
func (s *submissionService) Submit(ctx context.Context, draft *domain.ContentDraft, userID string) domain.SubmitResult {
	if draft.Latitude == nil || draft.Longitude == nil {
		return domain.SubmitFailure("Location is required")
	}
	if draft.ContentType == nil {
		return domain.SubmitFailure("Content type is required")
	}

	var result domain.SubmitResult
	switch *draft.ContentType {
	case domain.TypeBusiness, domain.TypeQuickAdd:
		result = s.submitPlace(draft, userID)
	case domain.TypeEvent:
		result = s.submitEvent(draft, userID)
	case domain.TypeRvCampground:
		result = s.submitRvCampground(draft, userID)
	default:
		draftSubmissionsTotal.WithLabelValues(string(*draft.ContentType), "unknown_type").Inc()
		return domain.SubmitFailure("Unknown content type: " + string(*draft.ContentType))
	}

	outcome := "success"
	if !result.Success {
		outcome = "error"
	}
	draftSubmissionsTotal.WithLabelValues(string(*draft.ContentType), outcome).Inc()
	return result
}

func (s *submissionService) submitPlace(draft *domain.ContentDraft, userID string) domain.SubmitResult {
	name := dataString(draft.Data, "name")
	if name == "" && draft.ContentSubtype != nil {
		name = string(*draft.ContentSubtype)
	}
	if name == "" {
		name = "Place"
	}
	category := dataString(draft.Data, "tavvy_category")
	if category == "" && draft.ContentSubtype != nil {
		category = string(*draft.ContentSubtype)
	}
	if category == "" {
		category = "other"
	}

	place := &domain.Place{
		Name:        name,
		Description: dataOptString(draft.Data, "description"),
		Category:    category,
		Subcategory: dataOptString(draft.Data, "tavvy_subcategory"),

		Latitude:  *draft.Latitude,
		Longitude: *draft.Longitude,

		Address:          draft.AddressLine1,
		AddressLine1:     draft.AddressLine1,
		AddressLine2:     draft.AddressLine2,
		FormattedAddress: draft.FormattedAddress,
		City:             draft.City,
		Region:           draft.Region,
		Postcode:         draft.PostalCode,
		Country:          draft.Country,

		Phone:     dataOptString(draft.Data, "phone"),
		Email:     dataOptString(draft.Data, "email"),
		Website:   dataOptString(draft.Data, "website"),
		Instagram: dataOptString(draft.Data, "instagram"),
		Facebook:  dataOptString(draft.Data, "facebook"),
		Twitter:   dataOptString(draft.Data, "twitter"),
		TikTok:    dataOptString(draft.Data, "tiktok"),

		Photos:        draft.Photos,
		CoverImageURL: draft.CoverPhoto,

		PlaceType:    domain.PlaceTypeFor(draft.ContentSubtype, draft.Data["has_physical_location"]),
		PlaceSubtype: draft.ContentSubtype,
		ServiceArea:  dataOptString(draft.Data, "service_area"),

		IsQuickAdd: *draft.ContentType == domain.TypeQuickAdd,

		Source:    "user",
		CreatedBy: userID,
		DraftID:   draft.ID,
		Notes:     dataOptString(draft.Data, "notes"),
	}
	if place.IsQuickAdd {
		place.QuickAddType = draft.ContentSubtype
	}

	id, err := s.repo.InsertPlace(place)
	if err != nil {
		logger.GetLogger().Error().Err(err).Str("draft_id", draft.ID).Msg("place submission failed")
		return domain.SubmitFailure(err.Error())
	}
	return domain.SubmitResult{Success: true, FinalID: id, FinalTable: domain.Place{}.TableName(), TapsEarned: s.taps}
}

func (s *submissionService) submitEvent(draft *domain.ContentDraft, userID string) domain.SubmitResult {
	event := &domain.Event{
		Name:        dataString(draft.Data, "name"),
		Description: dataOptString(draft.Data, "description"),

		Latitude:  *draft.Latitude,
		Longitude: *draft.Longitude,

		AddressLine1:     draft.AddressLine1,
		City:             draft.City,
		Region:           draft.Region,
		Country:          draft.Country,
		FormattedAddress: draft.FormattedAddress,

		StartDatetime: dataOptString(draft.Data, "start_datetime"),
		EndDatetime:   dataOptString(draft.Data, "end_datetime"),
		IsAllDay:      dataBool(draft.Data, "is_all_day", false),
		EventCategory: dataOptString(draft.Data, "event_category"),

		CoverPhoto: draft.CoverPhoto,
		Photos:     draft.Photos,

		TicketURL: dataOptString(draft.Data, "ticket_url"),
		// free unless the draft explicitly says otherwise
		IsFree: dataBool(draft.Data, "is_free", true),

		CreatedBy: userID,
		Status:    "published",
	}

	id, err := s.repo.InsertEvent(event)
	if err != nil {
		logger.GetLogger().Error().Err(err).Str("draft_id", draft.ID).Msg("event submission failed")
		return domain.SubmitFailure(err.Error())
	}
	return domain.SubmitResult{Success: true, FinalID: id, FinalTable: domain.Event{}.TableName(), TapsEarned: s.taps}
}

func (s *submissionService) submitRvCampground(draft *domain.ContentDraft, userID string) domain.SubmitResult {
	amenities := domain.JSONMap{}
	if m, ok := draft.Data["amenities"].(map[string]interface{}); ok {
		amenities = domain.JSONMap(m)
	}

	site := &domain.RvCampground{
		Name:        dataString(draft.Data, "name"),
		Description: dataOptString(draft.Data, "description"),

		Latitude:  *draft.Latitude,
		Longitude: *draft.Longitude,

		AddressLine1:     draft.AddressLine1,
		City:             draft.City,
		Region:           draft.Region,
		Country:          draft.Country,
		FormattedAddress: draft.FormattedAddress,

		CampgroundType: draft.ContentSubtype,
		Amenities:      amenities,

		HasElectric: dataOptBool(draft.Data, "has_electric"),
		HasWater:    dataOptBool(draft.Data, "has_water"),
		HasSewer:    dataOptBool(draft.Data, "has_sewer"),
		HasWifi:     dataOptBool(draft.Data, "has_wifi"),

		PricePerNight: dataOptFloat(draft.Data, "price_per_night"),
		Phone:         dataOptString(draft.Data, "phone"),
		Website:       dataOptString(draft.Data, "website"),

		CoverPhoto: draft.CoverPhoto,
		Photos:     draft.Photos,

		CreatedBy: userID,
		Status:    "published",
	}

	id, err := s.repo.InsertRvCampground(site)
	if err != nil {
		logger.GetLogger().Error().Err(err).Str("draft_id", draft.ID).Msg("rv campground submission failed")
		return domain.SubmitFailure(err.Error())
	}
	return domain.SubmitResult{Success: true, FinalID: id, FinalTable: domain.RvCampground{}.TableName(), TapsEarned: s.taps}
}

func dataString(data domain.JSONMap, key string) string {
	if s, ok := data[key].(string); ok {
		return s
	}
	return ""
}

func dataOptString(data domain.JSONMap, key string) *string {
	if s, ok := data[key].(string); ok {
		return &s
	}
	return nil
}

func dataBool(data domain.JSONMap, key string, fallback bool) bool {
	if b, ok := data[key].(bool); ok {
		return b
	}
	return fallback
}

func dataOptBool(data domain.JSONMap, key string) *bool {
	if b, ok := data[key].(bool); ok {
		return &b
	}
	return nil
}

func dataOptFloat(data domain.JSONMap, key string) *float64 {
	switch n := data[key].(type) {
	case float64:
		return &n
	case int:
		f := float64(n)
		return &f
	}
	return nil
}
