package entity

import "github.com/shopspring/decimal"

// DashboardStats aggregates admin overview numbers.
type DashboardStats struct {
	UsersByStatus      map[string]int64 `json:"users_by_status"`
	OrdersByStatus     map[string]int64 `json:"orders_by_status"`
	Revenue            decimal.Decimal  `json:"revenue"`
	DonationsCompleted decimal.Decimal  `json:"donations_completed"`
	TicketsSold        int64            `json:"tickets_sold"`
	LowStockCount      int64            `json:"low_stock_count"`
	RecentOrders       []*Order         `json:"recent_orders"`
}
