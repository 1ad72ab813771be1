package transfer

// PostCreation carries the multipart form fields of the create-post request.
// Platforms and Hashtags arrive JSON-encoded.
type PostCreation struct {
	ClientID      string
	Caption       string
	Title         string
	ScheduledTime string
	Platforms     string
	Hashtags      string
	MediaCaptions string
}

// PlatformDeclaration is one requested publish target inside a PostCreation.
type PlatformDeclaration struct {
	Platform string `json:"platform"`
	PageID   string `json:"page_id,omitempty"`
}
