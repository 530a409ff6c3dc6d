package organization

type InstallRequest struct {
	ExternalID       string `json:"external_id" binding:"required"`
	Name             string `json:"name"`
	InstallationData string `json:"installation_data" binding:"required"`
}

type OrganizationResponse struct {
	ID         string `json:"id"`
	ExternalID string `json:"external_id"`
	Name       string `json:"name"`
	Restored   bool   `json:"restored,omitempty"`
}
