package domain

import (
	"fmt"
	"time"

	"github.com/tavvy/atlas-backend/internal/common"
)

// DraftPatch is a partial update to a draft. Keys are column names; the "data"
// key holds a nested map that merges key-wise instead of replacing wholesale.
type DraftPatch map[string]interface{}

// Merge folds other into p: scalar keys overwrite, the "data" map merges
// key-wise so later edits never drop earlier keys.
func (p DraftPatch) Merge(other DraftPatch) {
	for k, v := range other {
		if k != "data" {
			p[k] = v
			continue
		}
		incoming, ok := v.(map[string]interface{})
		if !ok {
			if jm, ok := v.(JSONMap); ok {
				incoming = map[string]interface{}(jm)
			} else {
				p[k] = v
				continue
			}
		}
		existing, _ := p["data"].(map[string]interface{})
		if existing == nil {
			existing = make(map[string]interface{}, len(incoming))
		}
		for dk, dv := range incoming {
			existing[dk] = dv
		}
		p["data"] = existing
	}
}

// Clone returns a copy of the patch with its own "data" map
func (p DraftPatch) Clone() DraftPatch {
	cp := make(DraftPatch, len(p))
	for k, v := range p {
		cp[k] = v
	}
	if data, ok := p["data"].(map[string]interface{}); ok {
		dc := make(map[string]interface{}, len(data))
		for k, v := range data {
			dc[k] = v
		}
		cp["data"] = dc
	}
	return cp
}

// Apply merges the patch into the draft using the default photo cap
func (p DraftPatch) Apply(d *ContentDraft, now time.Time) error {
	return p.ApplyCapped(d, now, MaxPhotos)
}

// ApplyCapped merges the patch into the draft's in-memory state. Map-valued
// data merges key-wise; photos replace wholesale but are capped at maxPhotos
// (non-positive falls back to MaxPhotos). The draft's updated_at is stamped
// by the caller owning the write.
func (p DraftPatch) ApplyCapped(d *ContentDraft, now time.Time, maxPhotos int) error {
	if maxPhotos <= 0 {
		maxPhotos = MaxPhotos
	}
	for key, raw := range p {
		switch key {
		case "status":
			s, err := asString(raw)
			if err != nil {
				return fmt.Errorf("status: %w", err)
			}
			next := DraftStatus(s)
			if !d.Status.CanAdvanceTo(next) {
				return common.ErrStatusRegression
			}
			d.Status = next
			if step := next.Step(); step > 0 {
				d.CurrentStep = step
			}
		case "current_step":
			n, err := asInt(raw)
			if err != nil {
				return fmt.Errorf("current_step: %w", err)
			}
			d.CurrentStep = n
		case "content_type":
			s, err := asString(raw)
			if err != nil {
				return fmt.Errorf("content_type: %w", err)
			}
			t := ContentType(s)
			d.ContentType = &t
		case "content_subtype":
			s, err := asString(raw)
			if err != nil {
				return fmt.Errorf("content_subtype: %w", err)
			}
			st := ContentSubtype(s)
			d.ContentSubtype = &st
		case "data":
			m, err := asMap(raw)
			if err != nil {
				return fmt.Errorf("data: %w", err)
			}
			if d.Data == nil {
				d.Data = JSONMap{}
			}
			for k, v := range m {
				d.Data[k] = v
			}
		case "photos":
			photos, err := asStringList(raw)
			if err != nil {
				return fmt.Errorf("photos: %w", err)
			}
			if len(photos) > maxPhotos {
				return common.ErrTooManyPhotos
			}
			d.Photos = photos
		case "cover_photo":
			if raw == nil {
				d.CoverPhoto = nil
				break
			}
			s, err := asString(raw)
			if err != nil {
				return fmt.Errorf("cover_photo: %w", err)
			}
			d.CoverPhoto = &s
		case "remind_later_until":
			if raw == nil {
				d.RemindLaterUntil = nil
				break
			}
			t, err := asTime(raw)
			if err != nil {
				return fmt.Errorf("remind_later_until: %w", err)
			}
			d.RemindLaterUntil = &t
		case "sync_status":
			s, err := asString(raw)
			if err != nil {
				return fmt.Errorf("sync_status: %w", err)
			}
			d.SyncStatus = SyncStatus(s)
		case "latitude":
			f, err := asFloat(raw)
			if err != nil {
				return fmt.Errorf("latitude: %w", err)
			}
			d.Latitude = &f
		case "longitude":
			f, err := asFloat(raw)
			if err != nil {
				return fmt.Errorf("longitude: %w", err)
			}
			d.Longitude = &f
		case "address_line1":
			d.AddressLine1 = optString(raw)
		case "address_line2":
			d.AddressLine2 = optString(raw)
		case "city":
			d.City = optString(raw)
		case "region":
			d.Region = optString(raw)
		case "postal_code":
			d.PostalCode = optString(raw)
		case "country":
			d.Country = optString(raw)
		case "formatted_address":
			d.FormattedAddress = optString(raw)
		default:
			// Unknown top-level keys land in the open data map
			if d.Data == nil {
				d.Data = JSONMap{}
			}
			d.Data[key] = raw
		}
	}
	d.UpdatedAt = now
	return nil
}

func asString(v interface{}) (string, error) {
	switch s := v.(type) {
	case string:
		return s, nil
	case DraftStatus:
		return string(s), nil
	case ContentType:
		return string(s), nil
	case ContentSubtype:
		return string(s), nil
	case SyncStatus:
		return string(s), nil
	}
	return "", fmt.Errorf("expected string, got %T", v)
}

func optString(v interface{}) *string {
	if v == nil {
		return nil
	}
	if s, err := asString(v); err == nil {
		return &s
	}
	return nil
}

func asInt(v interface{}) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64: // JSON numbers decode as float64
		return int(n), nil
	}
	return 0, fmt.Errorf("expected number, got %T", v)
}

func asFloat(v interface{}) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	}
	return 0, fmt.Errorf("expected number, got %T", v)
}

func asMap(v interface{}) (map[string]interface{}, error) {
	switch m := v.(type) {
	case map[string]interface{}:
		return m, nil
	case JSONMap:
		return map[string]interface{}(m), nil
	}
	return nil, fmt.Errorf("expected object, got %T", v)
}

func asStringList(v interface{}) (StringList, error) {
	switch l := v.(type) {
	case []string:
		return StringList(l), nil
	case StringList:
		return l, nil
	case []interface{}:
		out := make(StringList, 0, len(l))
		for _, item := range l {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("expected string element, got %T", item)
			}
			out = append(out, s)
		}
		return out, nil
	}
	return nil, fmt.Errorf("expected array, got %T", v)
}

func asTime(v interface{}) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case string:
		return time.Parse(time.RFC3339, t)
	}
	return time.Time{}, fmt.Errorf("expected timestamp, got %T", v)
}
