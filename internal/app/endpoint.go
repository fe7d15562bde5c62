package app

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dkeye/Meet/internal/domain"
	"github.com/rs/zerolog/log"
)

// ResolveEndpoint parses a combined "host:port" string into a
// SessionEndpoint, subtracting portOffset from the parsed port.
//
// Trailing empty segments after ':' are dropped. When the input does not
// split into exactly (host, port), the offset itself stands in for the
// port string, so the net port comes out 0. An unparseable port defaults
// to 0 before the offset is subtracted; negative results pass through.
// Never fails: every input yields a usable endpoint.
func ResolveEndpoint(audioHostURL string, portOffset int) domain.SessionEndpoint {
	parts := strings.Split(audioHostURL, ":")
	for len(parts) > 0 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}

	host := ""
	if len(parts) > 0 {
		host = parts[0]
	}
	portStr := strconv.Itoa(portOffset)
	if len(parts) == 2 {
		portStr = parts[1]
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		log.Warn().Str("module", "app.endpoint").Str("port", portStr).Msg("unparseable port, defaulting to 0")
		port = 0
	}

	return domain.SessionEndpoint{Host: host, Port: port - portOffset}
}

// DeriveSignalingURL builds the websocket URL for a meeting from the
// resolved host. The first two dot-separated labels are stripped off
// (they address the media cell, not the signaling tier) and the
// remainder plus the meeting id fill the template.
func DeriveSignalingURL(template, host, meetingID string) string {
	labels := strings.Split(host, ".")
	if len(labels) > 2 {
		host = strings.Join(labels[2:], ".")
	}
	return fmt.Sprintf(template, host, meetingID)
}
