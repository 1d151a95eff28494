package proposal

type SubmitProposalRequest struct {
	RequestID     int64  `json:"-"`
	DesignerID    int64  `json:"-"`
	Price         int64  `json:"price" binding:"gte=0"`
	EstimatedDays int    `json:"estimated_days" binding:"required,gt=0"`
	Description   string `json:"description"`
}
