package models

import "time"

// DashboardStats — сводка для панели администратора.
type DashboardStats struct {
	Students        int `json:"students"`
	ActiveSubs      int `json:"active_subscriptions"`
	MealsToday      int `json:"meals_served_today"`
	RevenueToday    int `json:"revenue_today"`
	LowStockCount   int `json:"low_stock_count"`
	PendingRequests int `json:"pending_requests"`
}

// PaymentStat — агрегат платежей по типу за период.
type PaymentStat struct {
	PaymentType string `json:"payment_type"`
	Count       int    `json:"count"`
	Total       int    `json:"total"`
}

// AttendanceStat — количество выдач питания за календарный день.
type AttendanceStat struct {
	Day   time.Time `json:"day"`
	Count int       `json:"count"`
}
