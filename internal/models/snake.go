package models

import "time"

// VenomLevel describes how dangerous a species' bite is
type VenomLevel string

// Venom levels recognized by the catalog
const (
	VenomNone   VenomLevel = "Non-venomous"
	VenomMild   VenomLevel = "Mildly venomous"
	VenomHighly VenomLevel = "Highly venomous"
)

// ValidVenomLevel reports whether v is one of the recognized venom levels
func ValidVenomLevel(v string) bool {
	switch VenomLevel(v) {
	case VenomNone, VenomMild, VenomHighly:
		return true
	}
	return false
}

// Snake represents a catalogued species
type Snake struct {
	ID             int        `json:"id"`
	CommonName     string     `json:"common_name"`
	SpeciesName    string     `json:"species_name"`
	Venomous       VenomLevel `json:"venomous"`
	Status         string     `json:"status"`
	Distribution   string     `json:"distribution"`
	Habitat        string     `json:"habitat"`
	Description    string     `json:"description"`
	EcologicalRole string     `json:"ecological_role"`
	ImageURL       *string    `json:"image_url"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// CreateSnakeRequest represents a snake creation request body
type CreateSnakeRequest struct {
	CommonName     string  `json:"common_name"`
	SpeciesName    string  `json:"species_name"`
	Venomous       string  `json:"venomous"`
	Status         string  `json:"status"`
	Distribution   string  `json:"distribution"`
	Habitat        string  `json:"habitat"`
	Description    string  `json:"description"`
	EcologicalRole string  `json:"ecological_role"`
	ImageURL       *string `json:"image_url"`
}

// UpdateSnakeRequest represents a partial snake update; nil fields are left unchanged
type UpdateSnakeRequest struct {
	CommonName     *string `json:"common_name"`
	SpeciesName    *string `json:"species_name"`
	Venomous       *string `json:"venomous"`
	Status         *string `json:"status"`
	Distribution   *string `json:"distribution"`
	Habitat        *string `json:"habitat"`
	Description    *string `json:"description"`
	EcologicalRole *string `json:"ecological_role"`
	ImageURL       *string `json:"image_url"`
}
