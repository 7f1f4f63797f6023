package dto

// SettingsResponse wraps the current application settings
type SettingsResponse struct {
	Settings map[string]interface{} `json:"settings"`
}

// UploadResponse is the public location of an uploaded file
type UploadResponse struct {
	URL string `json:"url"`
}
