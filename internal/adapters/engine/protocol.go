// Package engine provides the websocket-signaled implementation of the
// core.AudioEngine boundary: control frames travel over the meeting's
// signaling socket, media over a webrtc peer connection negotiated
// through the same socket.
package engine

import "github.com/pion/webrtc/v4"

// frame is the envelope for every signaling message, both directions.
// Only the fields relevant to the Type are populated.
type frame struct {
	Type string `json:"type"`

	// join
	MeetingID        string `json:"meeting_id,omitempty"`
	AttendeeID       string `json:"attendee_id,omitempty"`
	Token            string `json:"token,omitempty"`
	Host             string `json:"host,omitempty"`
	Port             int    `json:"port,omitempty"`
	Transport        int    `json:"transport,omitempty"`
	SendCodec        int    `json:"send_codec,omitempty"`
	RecvCodec        int    `json:"recv_codec,omitempty"`
	MicEnabled       bool   `json:"mic,omitempty"`
	SpeakerEnabled   bool   `json:"speaker,omitempty"`
	PresenterEnabled bool   `json:"presenter,omitempty"`

	// state
	State  int `json:"state,omitempty"`
	Status int `json:"status,omitempty"`

	// volume / signal_strength
	Attendees []string `json:"attendees,omitempty"`
	Levels    []int    `json:"levels,omitempty"`

	// mute / route
	Muted bool `json:"muted,omitempty"`
	Route int  `json:"route,omitempty"`

	// offer / answer / candidate
	SDP       string                   `json:"sdp,omitempty"`
	Candidate *webrtc.ICECandidateInit `json:"candidate,omitempty"`
}

const (
	frameJoin           = "join"
	frameLeave          = "leave"
	frameState          = "state"
	frameVolume         = "volume"
	frameSignalStrength = "signal_strength"
	frameMute           = "mute"
	frameRoute          = "route"
	frameOffer          = "offer"
	frameAnswer         = "answer"
	frameCandidate      = "candidate"
)
