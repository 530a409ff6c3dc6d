package ptorequest

type CreatePtoRequest struct {
	TemplateID  string   `json:"template_id" binding:"required,uuid"`
	StartDate   string   `json:"start_date" binding:"required"`
	EndDate     string   `json:"end_date" binding:"required"`
	Title       string   `json:"title" binding:"required"`
	Reason      string   `json:"reason"`
	ApproverIDs []string `json:"approver_ids" binding:"required,min=1,dive,uuid"`
}

type DecisionRequest struct {
	Comment string `json:"comment"`
}

type RequestResponse struct {
	ID                string             `json:"id"`
	RequestNumber     int64              `json:"request_number"`
	OrganizationID    string             `json:"organization_id"`
	RequesterID       string             `json:"requester_id"`
	RequesterName     string             `json:"requester_name,omitempty"`
	TemplateID        string             `json:"template_id"`
	TemplateTitle     string             `json:"template_title,omitempty"`
	Title             string             `json:"title"`
	Reason            string             `json:"reason,omitempty"`
	StartDate         string             `json:"start_date"`
	EndDate           string             `json:"end_date"`
	Status            string             `json:"status"`
	ConsumedDays      float64            `json:"consumed_days"`
	OnGoing           bool               `json:"on_going"`
	CurrentApprovalID *string            `json:"current_approval_id,omitempty"`
	Approvals         []ApprovalResponse `json:"approvals,omitempty"`
}

type ApprovalResponse struct {
	ID           string           `json:"id"`
	RequestID    string           `json:"request_id"`
	ApproverID   string           `json:"approver_id"`
	ApproverName string           `json:"approver_name,omitempty"`
	Sequence     int              `json:"sequence"`
	Status       string           `json:"status"`
	Comment      *string          `json:"comment,omitempty"`
	ActionDate   *string          `json:"action_date,omitempty"`
	Request      *RequestResponse `json:"request,omitempty"`
}

type DeleteResponse struct {
	Deleted         bool    `json:"deleted"`
	DecrementedDays float64 `json:"decremented_days"`
}
