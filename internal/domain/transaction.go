package domain

import "time" // Timestamps

// Location is where the expense happened, as reported by the device
type Location struct {
	Lat     float64 `json:"lat" bson:"lat" gorm:"not null"`             // Latitude
	Long    float64 `json:"long" bson:"long" gorm:"not null"`           // Longitude
	Address string  `json:"address,omitempty" bson:"address,omitempty"` // Resolved address, never filled by the server
}

// Transaction Model
type Transaction struct {
	ID        string    `json:"_id" gorm:"primaryKey;size:36"`                     // Opaque id assigned by the active store
	DeviceID  string    `json:"deviceId" gorm:"index;size:128;not null"`           // Owner device, the only partition key
	Amount    float64   `json:"amount" gorm:"not null"`                            // Amount spent, no currency or sign rules
	Note      string    `json:"note,omitempty" gorm:"size:512"`                    // Free text note
	Location  Location  `json:"location" gorm:"embedded;embeddedPrefix:location_"` // Coordinates of the expense
	CreatedAt time.Time `json:"timestamp" gorm:"index"`                            // Creation time, set once on save
}
