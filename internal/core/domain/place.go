package domain

import "time"

// Coordinates represents a geographic point.
type Coordinates struct {
	Lat float64 `json:"lat" bson:"lat"`
	Lng float64 `json:"lng" bson:"lng"`
}

// Place is a geocoded directory entry created by exactly one user.
// Creator is immutable after creation; the owning user's Places list
// must always contain this place's ID (the relation invariant).
type Place struct {
	ID          string      `json:"id" bson:"_id,omitempty"`
	Title       string      `json:"title" bson:"title"`
	Description string      `json:"description" bson:"description"`
	Image       string      `json:"image" bson:"image"`
	Address     string      `json:"address" bson:"address"`
	Location    Coordinates `json:"location" bson:"location"`
	Creator     string      `json:"creator" bson:"creator"`
	CreatedAt   time.Time   `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at" bson:"updated_at"`
}
