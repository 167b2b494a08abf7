package movies

import "fmt"

const (
	NotAvailable      = "N/A"
	UnknownTitle      = "Unknown Title"
	NoDescription     = "No description available"
	PlaceholderPoster = "https://via.placeholder.com/300x450?text=No+Image"
)

// MovieSummary is the normalized catalog record. Every field is populated:
// missing remote values are replaced with placeholders at the client boundary.
type MovieSummary struct {
	ID                int64   `json:"id"`
	Title             string  `json:"title"`
	Genre             string  `json:"genre"`
	Description       string  `json:"description"`
	Director          string  `json:"director"`
	DurationMinutes   int     `json:"duration_minutes"`
	MainLead          string  `json:"main_lead"`
	PosterURL         string  `json:"poster_url"`
	BannerURL         string  `json:"banner_url"`
	Premium           bool    `json:"premium"`
	Rating            float64 `json:"rating"`
	ReleaseYear       int     `json:"release_year"`
	StreamingPlatform string  `json:"streaming_platform"`
}

// DurationLabel renders the runtime the way the cards show it.
func (m MovieSummary) DurationLabel() string {
	if m.DurationMinutes <= 0 {
		return NotAvailable
	}
	return fmt.Sprintf("%d min", m.DurationMinutes)
}

// MovieDetail is the detail page record.
type MovieDetail struct {
	MovieSummary
	Languages     string `json:"languages"`
	Subtitles     string `json:"subtitles"`
	DurationLabel string `json:"duration_label"`
}

// SearchResultSet is one page of movies plus the page count it belongs to.
type SearchResultSet struct {
	Movies     []MovieSummary `json:"movies"`
	TotalPages int            `json:"total_pages"`
}

// Carousel is one titled row on the dashboard.
type Carousel struct {
	Title  string         `json:"title"`
	Genre  string         `json:"genre"`
	Movies []MovieSummary `json:"movies"`
	Error  string         `json:"error,omitempty"`
}
