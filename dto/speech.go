package dto

type SpeakRequest struct {
	Text     string  `json:"text" validate:"required,min=1,max=500"`
	Language string  `json:"language" validate:"required"`
	Rate     float64 `json:"rate" validate:"omitempty,gte=0.5,lte=2"`
}
