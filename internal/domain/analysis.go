package domain

// AnalysisRequest is the caller's input: at least one URL is required.
type AnalysisRequest struct {
	YouTubeURL   string `json:"youtubeUrl,omitempty"`
	InstagramURL string `json:"instagramUrl,omitempty"`
	ForceRefresh bool   `json:"forceRefresh,omitempty"`
}

// AnalysisResult is the response envelope payload, identical in shape whether it was
// served from the cache store or freshly computed.
type AnalysisResult struct {
	YouTube   *YouTubeProfile   `json:"youtube"`
	Instagram *InstagramProfile `json:"instagram"`
	Persona   *Persona          `json:"persona"`
}
