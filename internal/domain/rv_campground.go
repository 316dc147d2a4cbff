package domain

import "time"

// RvCampground is a row in the tavvy_rv_campgrounds target table
type RvCampground struct {
	ID          string  `gorm:"column:id;primaryKey;type:varchar(36);default:(UUID())" json:"id"`
	Name        string  `gorm:"column:name;size:255" json:"name"`
	Description *string `gorm:"column:description;type:text" json:"description"`

	Latitude  float64 `gorm:"column:latitude" json:"latitude"`
	Longitude float64 `gorm:"column:longitude" json:"longitude"`

	AddressLine1     *string `gorm:"column:address_line1;size:255" json:"address_line1"`
	City             *string `gorm:"column:city;size:128" json:"city"`
	Region           *string `gorm:"column:region;size:128" json:"region"`
	Country          *string `gorm:"column:country;size:128" json:"country"`
	FormattedAddress *string `gorm:"column:formatted_address;size:512" json:"formatted_address"`

	CampgroundType *ContentSubtype `gorm:"column:campground_type;type:varchar(32)" json:"campground_type"`
	Amenities      JSONMap         `gorm:"column:amenities;type:json" json:"amenities"`

	HasElectric *bool `gorm:"column:has_electric" json:"has_electric"`
	HasWater    *bool `gorm:"column:has_water" json:"has_water"`
	HasSewer    *bool `gorm:"column:has_sewer" json:"has_sewer"`
	HasWifi     *bool `gorm:"column:has_wifi" json:"has_wifi"`

	PricePerNight *float64 `gorm:"column:price_per_night" json:"price_per_night"`
	Phone         *string  `gorm:"column:phone;size:32" json:"phone"`
	Website       *string  `gorm:"column:website;size:512" json:"website"`

	CoverPhoto *string    `gorm:"column:cover_photo;size:512" json:"cover_photo"`
	Photos     StringList `gorm:"column:photos;type:json" json:"photos"`

	CreatedBy string    `gorm:"column:created_by;type:varchar(36)" json:"created_by"`
	Status    string    `gorm:"column:status;size:32" json:"status"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// TableName returns the table name for RvCampground
func (RvCampground) TableName() string {
	return "tavvy_rv_campgrounds"
}
