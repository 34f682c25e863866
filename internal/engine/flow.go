package engine

import (
	"context"

	"github.com/voltmesh/solarbot/pkg/message"
)

// Flow owns one branch of the conversation. Callback data is routed on its
// first colon-separated segment ("solar_onboarding:search_subsidies" goes to
// the flow whose Prefix is "solar_onboarding"), and plain text is routed to
// the flow whose Prefix prefixes the session state.
type Flow interface {
	// Prefix returns the callback and state prefix this flow owns.
	Prefix() string

	// HandleAction processes one inline-button press. action is the second
	// segment of the callback data and args everything after it.
	HandleAction(ctx context.Context, t *Turn, action string, args []string) error

	// HandleText processes free text sent while the session is in one of
	// this flow's states. It returns false when the state expects no text,
	// in which case the engine falls back to the navigation hint.
	HandleText(ctx context.Context, t *Turn, text string) (bool, error)
}

// PhotoHandler is implemented by flows that accept photo uploads in some
// states. Returning false means the current state does not expect a photo.
type PhotoHandler interface {
	HandlePhoto(ctx context.Context, t *Turn, photo message.ContentBlock) (bool, error)
}
