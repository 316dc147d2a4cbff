package domain

import "time"

// Event is a row in the tavvy_events target table
type Event struct {
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

	StartDatetime *string `gorm:"column:start_datetime;size:64" json:"start_datetime"`
	EndDatetime   *string `gorm:"column:end_datetime;size:64" json:"end_datetime"`
	IsAllDay      bool    `gorm:"column:is_all_day" json:"is_all_day"`
	EventCategory *string `gorm:"column:event_category;size:64" json:"event_category"`

	CoverPhoto *string    `gorm:"column:cover_photo;size:512" json:"cover_photo"`
	Photos     StringList `gorm:"column:photos;type:json" json:"photos"`

	TicketURL *string `gorm:"column:ticket_url;size:512" json:"ticket_url"`
	IsFree    bool    `gorm:"column:is_free" json:"is_free"`

	CreatedBy string    `gorm:"column:created_by;type:varchar(36)" json:"created_by"`
	Status    string    `gorm:"column:status;size:32" json:"status"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// TableName returns the table name for Event
func (Event) TableName() string {
	return "tavvy_events"
}
