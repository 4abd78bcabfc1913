package models

// FishingSpecies is one row of the KDWP species table: what is biting,
// how well, and on what.
type FishingSpecies struct {
	Name    string `json:"name"`
	Rating  string `json:"rating"`
	Size    string `json:"size"`
	Details string `json:"details"`
}

// FishingReport is the parsed Kanopolis Reservoir fishing report.
type FishingReport struct {
	Species     []FishingSpecies `json:"species"`
	Report      *string          `json:"report"`
	UpdatedDate *string          `json:"updated_date"`
	Source      string           `json:"source"`
	URL         string           `json:"url"`
	FetchedAt   string           `json:"fetched_at"`
	Error       bool             `json:"error,omitempty"`
}
