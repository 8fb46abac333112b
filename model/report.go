package model

type DashboardStats struct {
	TodayBookings        int64   `json:"todayBookings"`
	TodayCovers          int64   `json:"todayCovers"`
	UpcomingEvents       int64   `json:"upcomingEvents"`
	RevenueThisMonth     float64 `json:"revenueThisMonth"`
	RevenueLastMonth     float64 `json:"revenueLastMonth"`
	RevenueGrowth        float64 `json:"revenueGrowth"`
	OutstandingInvoices  float64 `json:"outstandingInvoices"`
	OverdueInvoices      float64 `json:"overdueInvoices"`
	OverdueInvoiceCount  int64   `json:"overdueInvoiceCount"`
	LoyaltyMembers       int64   `json:"loyaltyMembers"`
	MessagesSentLastWeek int64   `json:"messagesSentLastWeek"`
}

type NoShowDailyReport struct {
	Date           string  `json:"date"`
	TotalBookings  int     `json:"totalBookings"`
	NoShowBookings int     `json:"noShowBookings"`
	NoShowRate     float64 `json:"noShowRate"`
	LostDeposits   float64 `json:"lostDeposits"`
}

type RevenueDailyReport struct {
	Date     string  `json:"date"`
	Payments int64   `json:"payments"`
	Amount   float64 `json:"amount"`
}
