package domain

// DailyGrowth is one bar of the growth histogram.
type DailyGrowth struct {
	Day        int    `json:"day"`
	Date       string `json:"date"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
}

// GrowthReport is the sign-up histogram for one month.
// TotalUsers is always the sum of DailyGrowth counts. DayTotal is set only when a day was requested.
type GrowthReport struct {
	Year        int           `json:"year"`
	Month       string        `json:"month"`
	TotalUsers  int           `json:"totalUsers"`
	DailyGrowth []DailyGrowth `json:"dailyGrowth"`
	Day         int           `json:"day,omitempty"`
	DayTotal    *int          `json:"dayTotal,omitempty"`
}
