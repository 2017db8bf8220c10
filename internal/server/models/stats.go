package models

// Stats are the aggregate figures shown on the dashboard for one user.
type Stats struct {
	TotalSpend  float64 `json:"total_spend"`
	TotalIncome float64 `json:"total_income"`
	TopCategory string  `json:"top_category"`
}
