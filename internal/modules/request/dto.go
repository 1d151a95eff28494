package request

type CreateRequestRequest struct {
	ClientID          int64  `json:"-"`
	Title             string `json:"title" binding:"required"`
	Description       string `json:"description"`
	RoomType          string `json:"room_type" binding:"required"`
	Budget            int64  `json:"budget" binding:"gte=0"`
	DurationDays      int    `json:"duration_days" binding:"required,gt=0"`
	ReferenceImageURL string `json:"reference_image_url"`
}
