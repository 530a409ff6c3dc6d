package ptotemplate

type CreateTemplateRequest struct {
	Title        string  `json:"title" binding:"required"`
	Description  string  `json:"description"`
	Content      string  `json:"content"`
	DaysConsumed float64 `json:"days_consumed" binding:"min=0,max=1"`
}

type UpdateTemplateRequest struct {
	Title        *string  `json:"title"`
	Description  *string  `json:"description"`
	Content      *string  `json:"content"`
	Enabled      *bool    `json:"enabled"`
	DaysConsumed *float64 `json:"days_consumed"`
}

type TemplateResponse struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	Description  string  `json:"description,omitempty"`
	Content      string  `json:"content,omitempty"`
	Enabled      bool    `json:"enabled"`
	DaysConsumed float64 `json:"days_consumed"`
}
