package models

type DestinationRef struct {
	ID   int64  `json:"id"`
	Slug string `json:"slug"`
	Name string `json:"name"`
}

type Destination struct {
	ID          int64  `json:"id"`
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Country     string `json:"country,omitempty"`
	Region      string `json:"region,omitempty"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
	ToursCount  int    `json:"tours_count"`
	Featured    bool   `json:"is_featured"`
	BestTime    string `json:"best_time_to_visit,omitempty"`
}
