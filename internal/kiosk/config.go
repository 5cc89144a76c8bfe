package kiosk

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/vendstack/kiosk-backend/pkg/config"
)

// Config tunes session behavior: the accepted cash denominations and the
// receipt pacing timers.
type Config struct {
	Denominations    []decimal.Decimal
	RevealDelay      time.Duration
	ReceiptCountdown time.Duration
	SessionTTL       time.Duration
	ReapInterval     time.Duration
}

// ConfigFrom converts the environment-level kiosk settings.
func ConfigFrom(app config.KioskConfig) Config {
	denominations := make([]decimal.Decimal, 0, len(app.Denominations))
	for _, d := range app.Denominations {
		denominations = append(denominations, decimal.NewFromInt(int64(d)))
	}
	return Config{
		Denominations:    denominations,
		RevealDelay:      app.RevealDelay,
		ReceiptCountdown: app.ReceiptCountdown,
		SessionTTL:       app.SessionTTL,
		ReapInterval:     app.ReapInterval,
	}
}

// accepts reports whether the face value is part of the accepted set.
func (c Config) accepts(value decimal.Decimal) bool {
	for _, d := range c.Denominations {
		if d.Equal(value) {
			return true
		}
	}
	return false
}
