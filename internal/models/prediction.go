package models

// Prediction is one ranked species guess from the ML classification service
type Prediction struct {
	SpeciesName    string  `json:"species_name"`
	ScientificName string  `json:"scientific_name"`
	Confidence     float64 `json:"confidence"`
	Venomous       string  `json:"venomous"`
}

// PredictRequest represents an image classification request body.
// Image is a base64-encoded picture, with or without a data URL prefix.
type PredictRequest struct {
	Image string `json:"image"`
}
