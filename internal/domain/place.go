package domain

import "time"

// PlaceType is the tavvy_places place_type constraint; only two values are accepted
type PlaceType string

const (
	PlaceTypeFixed   PlaceType = "fixed"
	PlaceTypeOnTheGo PlaceType = "on_the_go"
)

// PlaceTypeFor maps a draft subtype onto the place_type constraint.
// on_the_go stays on_the_go; a service business is on_the_go only when the
// draft explicitly declares it has no physical location; everything else is fixed.
func PlaceTypeFor(subtype *ContentSubtype, hasPhysicalLocation interface{}) PlaceType {
	if subtype != nil && *subtype == SubtypeOnTheGo {
		return PlaceTypeOnTheGo
	}
	if subtype != nil && *subtype == SubtypeService {
		if b, ok := hasPhysicalLocation.(bool); ok && !b {
			return PlaceTypeOnTheGo
		}
	}
	return PlaceTypeFixed
}

// Place is a row in the tavvy_places target table
type Place struct {
	ID          string  `gorm:"column:id;primaryKey;type:varchar(36);default:(UUID())" json:"id"`
	Name        string  `gorm:"column:name;size:255" json:"name"`
	Description *string `gorm:"column:description;type:text" json:"description"`

	Category    string  `gorm:"column:tavvy_category;size:64" json:"tavvy_category"`
	Subcategory *string `gorm:"column:tavvy_subcategory;size:64" json:"tavvy_subcategory"`

	Latitude  float64 `gorm:"column:latitude" json:"latitude"`
	Longitude float64 `gorm:"column:longitude" json:"longitude"`

	Address          *string `gorm:"column:address;size:255" json:"address"`
	AddressLine1     *string `gorm:"column:address_line1;size:255" json:"address_line1"`
	AddressLine2     *string `gorm:"column:address_line2;size:255" json:"address_line2"`
	FormattedAddress *string `gorm:"column:formatted_address;size:512" json:"formatted_address"`
	City             *string `gorm:"column:city;size:128" json:"city"`
	Region           *string `gorm:"column:region;size:128" json:"region"`
	Postcode         *string `gorm:"column:postcode;size:32" json:"postcode"`
	Country          *string `gorm:"column:country;size:128" json:"country"`

	Phone     *string `gorm:"column:phone;size:32" json:"phone"`
	Email     *string `gorm:"column:email;size:255" json:"email"`
	Website   *string `gorm:"column:website;size:512" json:"website"`
	Instagram *string `gorm:"column:instagram;size:255" json:"instagram"`
	Facebook  *string `gorm:"column:facebook;size:255" json:"facebook"`
	Twitter   *string `gorm:"column:twitter;size:255" json:"twitter"`
	TikTok    *string `gorm:"column:tiktok;size:255" json:"tiktok"`

	Photos        StringList `gorm:"column:photos;type:json" json:"photos"`
	CoverImageURL *string    `gorm:"column:cover_image_url;size:512" json:"cover_image_url"`

	PlaceType    PlaceType       `gorm:"column:place_type;type:varchar(16)" json:"place_type"`
	PlaceSubtype *ContentSubtype `gorm:"column:place_subtype;type:varchar(32)" json:"place_subtype"`
	ServiceArea  *string         `gorm:"column:service_area;size:255" json:"service_area"`

	IsQuickAdd   bool            `gorm:"column:is_quick_add" json:"is_quick_add"`
	QuickAddType *ContentSubtype `gorm:"column:quick_add_type;type:varchar(32)" json:"quick_add_type"`

	Source    string    `gorm:"column:source;size:32" json:"source"`
	CreatedBy string    `gorm:"column:created_by;type:varchar(36)" json:"created_by"`
	DraftID   string    `gorm:"column:draft_id;type:varchar(64)" json:"draft_id"`
	Notes     *string   `gorm:"column:notes;type:text" json:"notes"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// TableName returns the table name for Place
func (Place) TableName() string {
	return "tavvy_places"
}
