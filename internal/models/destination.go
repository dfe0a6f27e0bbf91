package models

// AnalyzeResponse is what GET /groups/groups/{group_id}/analyze returns.
type AnalyzeResponse struct {
	GroupID               int                   `json:"group_id"`
	AggregatedPreferences AggregatedPreferences `json:"aggregated_preferences"`
	SuggestedDestinations []Destination         `json:"suggested_destinations"`
}

// AggregatedPreferences is the group-wide summary the backend computes from every
// member's preferences.
type AggregatedPreferences struct {
	Origin      *string  `json:"origin,omitempty"`
	TravelMonth string   `json:"travel_month"`
	Budget      *int     `json:"budget,omitempty"`
	Interests   []string `json:"interests,omitempty"`
	Weather     *string  `json:"weather,omitempty"`
}

// Destination is a single suggested city. City doubles as its identity key.
type Destination struct {
	City           string `json:"city"`
	Country        string `json:"country"`
	IATACode       string `json:"iata_code"`
	Reason         string `json:"reason"`
	EstimatedPrice int    `json:"estimated_price"`
	ImageURL       string `json:"image_url"`
	SkyscannerURL  string `json:"skyscanner_url"`
	GeminiPrice    *int   `json:"gemini_price,omitempty"`
	Votes          Votes  `json:"votes"`
}

// Votes counts the votes a destination has received.
type Votes struct {
	Number int `json:"number"`
}
