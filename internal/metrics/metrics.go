// Package metrics содержит прометеевские метрики приложения.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MealsClaimed считает подтверждённые выдачи питания по источнику
// финансирования: subscription, payment или purchase.
var MealsClaimed = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "cafeteria_meals_claimed_total",
	Help: "Total number of confirmed meal claims by funding source.",
}, []string{"source"})

// WalletTopups считает пополнения кошелька.
var WalletTopups = promauto.NewCounter(prometheus.CounterOpts{
	Name: "cafeteria_wallet_topups_total",
	Help: "Total number of wallet top-ups.",
})
