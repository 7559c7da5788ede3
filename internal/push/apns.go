// Package push delivers APNs alerts to users' devices.
package push

import (
	"fmt"

	"github.com/pagoda8/Walking-Buddy-sub000/internal/config"

	"github.com/rs/zerolog/log"
	"github.com/sideshow/apns2"
	"github.com/sideshow/apns2/payload"
	"github.com/sideshow/apns2/token"
)

// Notifier sends alert notifications over APNs.
type Notifier struct {
	client *apns2.Client
	topic  string
}

// NewNotifier creates a Notifier from APNs token credentials. Returns nil
// without error when no key file is configured, so callers can treat push as
// optional in development.
func NewNotifier(cfg config.APNsConfig) (*Notifier, error) {
	if cfg.KeyFile == "" {
		return nil, nil
	}

	authKey, err := token.AuthKeyFromFile(cfg.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load APNs auth key: %w", err)
	}

	t := &token.Token{
		AuthKey: authKey,
		KeyID:   cfg.KeyID,
		TeamID:  cfg.TeamID,
	}

	client := apns2.NewTokenClient(t)
	if cfg.Production {
		client = client.Production()
	} else {
		client = client.Development()
	}

	return &Notifier{client: client, topic: cfg.Topic}, nil
}

// Alert sends a title/body alert to a device token. Failures are logged, not
// returned; a missed notification never fails the flow that triggered it.
func (n *Notifier) Alert(deviceToken, title, body string) {
	if n == nil || deviceToken == "" {
		return
	}

	notification := &apns2.Notification{
		DeviceToken: deviceToken,
		Topic:       n.topic,
		Payload: payload.NewPayload().
			AlertTitle(title).
			AlertBody(body).
			Sound("default"),
	}

	res, err := n.client.Push(notification)
	if err != nil {
		log.Error().Err(err).Msg("Failed to send push notification")
		return
	}
	if !res.Sent() {
		log.Warn().
			Int("status", res.StatusCode).
			Str("reason", res.Reason).
			Msg("Push notification rejected")
	}
}
