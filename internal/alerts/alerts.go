// Package alerts sends notifications to Telegram and Discord webhooks.
package alerts

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/solarb/solarb/internal/eventbus"
	"github.com/solarb/solarb/internal/logger"
)

// Manager fans alert messages out to the configured webhooks. Delivery is
// best effort: a failed webhook is logged, never propagated, and the caller
// is never blocked beyond the HTTP timeout.
type Manager struct {
	telegramWebhook string
	discordWebhook  string
	client          *resty.Client
	log             *logger.Logger
}

// NewManager creates a manager; empty webhook URLs disable that channel.
func NewManager(telegramWebhook, discordWebhook string, log *logger.Logger) *Manager {
	client := resty.New().
		SetTimeout(5 * time.Second).
		SetRetryCount(1)

	return &Manager{
		telegramWebhook: telegramWebhook,
		discordWebhook:  discordWebhook,
		client:          client,
		log:             log,
	}
}

// SendCritical delivers a critical alert to every configured channel.
func (m *Manager) SendCritical(ctx context.Context, message string) {
	formatted := "🚨 CRITICAL: " + message
	m.log.Error(ctx, formatted)

	m.postTelegram(ctx, map[string]string{
		"text":       formatted,
		"parse_mode": "HTML",
	})
	m.postDiscord(ctx, map[string]string{
		"content":  "@everyone " + formatted,
		"username": "solarb alert",
	})
}

// SendInfo delivers an informational message.
func (m *Manager) SendInfo(ctx context.Context, message string) {
	formatted := "ℹ️ " + message
	m.log.Info(ctx, formatted)

	m.postTelegram(ctx, map[string]string{"text": formatted})
	m.postDiscord(ctx, map[string]string{
		"content":  formatted,
		"username": "solarb alert",
	})
}

// SendProfit reports a realized profit.
func (m *Manager) SendProfit(ctx context.Context, profit float64, details string) {
	m.SendInfo(ctx, fmt.Sprintf("💰 Profit: $%.2f\n%s", profit, details))
}

func (m *Manager) postTelegram(ctx context.Context, body map[string]string) {
	if m.telegramWebhook == "" {
		return
	}
	_, err := m.client.R().SetContext(ctx).SetBody(body).Post(m.telegramWebhook)
	if err != nil {
		m.log.Warn(ctx, "telegram alert failed", "error", err)
	}
}

func (m *Manager) postDiscord(ctx context.Context, body map[string]string) {
	if m.discordWebhook == "" {
		return
	}
	_, err := m.client.R().SetContext(ctx).SetBody(body).Post(m.discordWebhook)
	if err != nil {
		m.log.Warn(ctx, "discord alert failed", "error", err)
	}
}

// Listen consumes bus events and raises alerts for the critical classes.
// It returns when the context ends or the subscription closes.
func (m *Manager) Listen(ctx context.Context, bus *eventbus.Bus) {
	sub := bus.Subscribe()
	defer sub.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-sub.C:
			if !ok {
				return
			}
			m.handle(ctx, ev)
		}
	}
}

func (m *Manager) handle(ctx context.Context, ev eventbus.Event) {
	switch e := ev.(type) {
	case eventbus.EmergencyStop:
		m.SendCritical(ctx, "emergency stop: "+e.Reason)
	case eventbus.RiskLimitBreached:
		m.SendCritical(ctx, fmt.Sprintf("risk limit breached: %s at %.2f (max %.2f)", e.LimitType, e.Current, e.Max))
	case eventbus.CircuitBreakerStateChanged:
		if e.New == "open" {
			m.SendCritical(ctx, "circuit breaker opened (was "+e.Old+")")
		} else {
			m.SendInfo(ctx, "circuit breaker "+e.Old+" -> "+e.New)
		}
	case eventbus.SystemStarted:
		m.SendInfo(ctx, "trading started in "+e.Mode+" mode")
	case eventbus.SystemStopping:
		m.SendInfo(ctx, "trading stopping: "+e.Reason)
	}
}
