package entity

// ActivitySuggestion is one generated recommendation. Never persisted by the core.
type ActivitySuggestion struct {
	Activity         string  `json:"activity"`
	Location         string  `json:"location"`
	Description      string  `json:"description"`
	TimeAvailability string  `json:"time_availability"`
	Longitude        float64 `json:"longitude"`
	Latitude         float64 `json:"latitude"`
}

// GeoLocation is the coarse place an IP resolves to.
type GeoLocation struct {
	City   string `json:"city"`
	Region string `json:"region"`
}
