package external

// TokenType is the only token type the health service requests.
const TokenType = "stone-viewer-publication"

// LevelStudy scopes a token resource to a whole study.
const LevelStudy = "study"

// TokenRequest is the body of PUT /tokens/{type} on orthanc-auth-service.
type TokenRequest struct {
	ID             string          `json:"id"`
	Resources      []TokenResource `json:"resources"`
	Type           string          `json:"type"`
	ExpirationDate string          `json:"expiration-date"`
}

type TokenResource struct {
	DicomUID string `json:"dicom-uid"`
	Level    string `json:"level"`
}

// TokenResponse is the successful answer of orthanc-auth-service.
type TokenResponse struct {
	Token string `json:"token"`
	URL   string `json:"url,omitempty"`
}
