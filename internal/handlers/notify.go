package handlers

import (
	"context"

	"github.com/pagoda8/Walking-Buddy-sub000/internal/push"
	"github.com/pagoda8/Walking-Buddy-sub000/internal/services"

	"github.com/rs/zerolog/log"
)

// Notifier delivers an event to a user: over the WebSocket hub when they are
// connected, otherwise as an APNs alert if they registered a push token.
type Notifier struct {
	hub            *services.Hub
	push           *push.Notifier
	profileService *services.ProfileService
}

// NewNotifier creates a new notifier
func NewNotifier(hub *services.Hub, pushNotifier *push.Notifier, profileService *services.ProfileService) *Notifier {
	return &Notifier{
		hub:            hub,
		push:           pushNotifier,
		profileService: profileService,
	}
}

// Send delivers eventType/data to userID, falling back from the hub to APNs.
// Delivery is best-effort; failures are logged and never fail the request
// that triggered them.
func (n *Notifier) Send(ctx context.Context, userID, eventType string, data interface{}, title, body string) {
	if n.hub.IsOnline(userID) {
		if err := n.hub.Notify(userID, eventType, data); err == nil {
			return
		}
	}

	// Events without alert text are realtime-only.
	if title == "" {
		return
	}

	profile, err := n.profileService.Get(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to load profile for notification")
		return
	}
	if profile.PushToken != nil {
		n.push.Alert(*profile.PushToken, title, body)
	}
}
