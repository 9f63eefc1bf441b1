package models

// AnalyzeRequest is the payload for POST /api/v1/analyze.
type AnalyzeRequest struct {
	// URL is the target page to analyze. Required.
	URL string `json:"url" binding:"required,url"`

	// Enhance toggles the description rewrite for this request.
	// Default: true (subject to server configuration).
	Enhance *bool `json:"enhance,omitempty"`

	// MaxAge allows serving a cached result younger than this many
	// milliseconds. 0 disables the cache for this request.
	MaxAge int `json:"max_age,omitempty" binding:"omitempty,min=0"`
}

// Defaults applies default values to unset fields.
func (r *AnalyzeRequest) Defaults() {
	if r.Enhance == nil {
		t := true
		r.Enhance = &t
	}
}
