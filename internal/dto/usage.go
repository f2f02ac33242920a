package dto

// UsageQuery captures GET /usage query parameters.
type UsageQuery struct {
	Limit int `form:"limit" validate:"omitempty,min=1,max=1000"`
}
