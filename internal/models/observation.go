package models

import "time"

// Observation represents a recorded field sighting.
// SnakeID is resolved best-effort from the species common name at creation
// time and stays nil when no catalogued species matches.
type Observation struct {
	ID              int       `json:"id"`
	SnakeID         *int      `json:"snake_id"`
	Species         string    `json:"species"`
	LengthCM        float64   `json:"length_cm"`
	WeightG         *float64  `json:"weight_g"`
	Location        string    `json:"location"`
	DateObserved    string    `json:"date_observed"`
	PictureURL      *string   `json:"picture_url"`
	Notes           *string   `json:"notes"`
	SnakeCommonName *string   `json:"snake_common_name,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// CreateObservationRequest represents an observation creation request body
type CreateObservationRequest struct {
	Species      string   `json:"species"`
	Length       float64  `json:"length"`
	Weight       *float64 `json:"weight"`
	Location     string   `json:"location"`
	DateObserved string   `json:"date_observed"`
	PictureURL   *string  `json:"picture_url"`
	Notes        *string  `json:"notes"`
}
