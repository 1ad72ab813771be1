package transfer

type LinkedinUserInfo struct {
	Sub        string `json:"sub"`
	Name       string `json:"name"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Email      string `json:"email"`
	Picture    string `json:"picture"`
}

type LinkedinRegisterUploadRequest struct {
	RegisterUploadRequest struct {
		Recipes              []string `json:"recipes"`
		Owner                string   `json:"owner"`
		ServiceRelationships []struct {
			RelationshipType string `json:"relationshipType"`
			Identifier       string `json:"identifier"`
		} `json:"serviceRelationships"`
	} `json:"registerUploadRequest"`
}

type LinkedinRegisterUploadResponse struct {
	Value struct {
		Asset           string                               `json:"asset"`
		UploadMechanism map[string]LinkedinUploadHTTPRequest `json:"uploadMechanism"`
	} `json:"value"`
}

type LinkedinUploadHTTPRequest struct {
	UploadURL string            `json:"uploadUrl"`
	Headers   map[string]string `json:"headers"`
}

type LinkedinErrorResponse struct {
	Message      string `json:"message"`
	Status       int    `json:"status"`
	ServiceError int    `json:"serviceErrorCode"`
}
