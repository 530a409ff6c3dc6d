package employee

type SyncEmployeeRequest struct {
	ExternalID string `json:"external_id" binding:"required"`
	Name       string `json:"name"`
	Timezone   string `json:"timezone"`
}

type UpdateEmployeeRequest struct {
	Name          *string  `json:"name"`
	IsAdmin       *bool    `json:"is_admin"`
	AnnualPtoDays *float64 `json:"annual_pto_days"`
	UsedPtoDays   *float64 `json:"used_pto_days"`
	Timezone      *string  `json:"timezone"`
}

type EmployeeResponse struct {
	ID               string  `json:"id"`
	OrganizationID   string  `json:"organization_id,omitempty"`
	ExternalID       string  `json:"external_id"`
	Name             string  `json:"name"`
	IsAdmin          bool    `json:"is_admin"`
	AnnualPtoDays    float64 `json:"annual_pto_days"`
	UsedPtoDays      float64 `json:"used_pto_days"`
	RemainingPtoDays float64 `json:"remaining_pto_days"`
	Timezone         string  `json:"timezone"`
}
