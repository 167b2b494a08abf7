package movies

import "mime/multipart"

// MovieForm is the admin create/update form.
type MovieForm struct {
	Title             string                `form:"title" binding:"required,max=255"`
	Genre             string                `form:"genre" binding:"required"`
	ReleaseYear       int                   `form:"release_year" binding:"required,min=1888,max=2100"`
	Director          string                `form:"director" binding:"required"`
	Duration          int                   `form:"duration" binding:"required,min=1"`
	Description       string                `form:"description" binding:"required"`
	MainLead          string                `form:"main_lead" binding:"required"`
	StreamingPlatform string                `form:"streaming_platform" binding:"required"`
	Rating            float64               `form:"rating" binding:"min=0,max=10"`
	Premium           bool                  `form:"premium"`
	Poster            *multipart.FileHeader `form:"poster"`
	Banner            *multipart.FileHeader `form:"banner"`
}
