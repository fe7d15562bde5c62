package engine

import (
	"context"

	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"
)

// PeerConnection is the media leg of a session: a thin wrapper over a
// pion PeerConnection on the offering side, with ICE candidates and the
// answer arriving over the signaling socket.
type PeerConnection struct {
	pc     *webrtc.PeerConnection
	cancel context.CancelFunc

	onICE   func(webrtc.ICECandidateInit)
	onState func(webrtc.PeerConnectionState)
}

func DefaultRTCConfig() webrtc.Configuration {
	return webrtc.Configuration{
		ICEServers: []webrtc.ICEServer{
			{
				URLs: []string{"stun:stun.l.google.com:19302"},
			},
		},
	}
}

func NewPeerConnection(cfg webrtc.Configuration) (*PeerConnection, error) {
	pc, err := webrtc.NewPeerConnection(cfg)
	if err != nil {
		return nil, err
	}
	return &PeerConnection{pc: pc}, nil
}

func (c *PeerConnection) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	c.pc.OnICEConnectionStateChange(func(s webrtc.ICEConnectionState) {
		log.Info().Str("module", "engine.peer").Str("ice_state", s.String()).Msg("ICE state")
		if s == webrtc.ICEConnectionStateDisconnected ||
			s == webrtc.ICEConnectionStateFailed ||
			s == webrtc.ICEConnectionStateClosed {
			cancel()
		}
	})

	c.pc.OnConnectionStateChange(func(s webrtc.PeerConnectionState) {
		log.Info().Str("module", "engine.peer").Str("peer_connection_state", s.String()).Msg("peer state")
		if c.onState != nil {
			c.onState(s)
		}
	})

	c.pc.OnICECandidate(func(cand *webrtc.ICECandidate) {
		if cand != nil && c.onICE != nil {
			c.onICE(cand.ToJSON())
		}
	})

	return nil
}

// CreateAndSetOffer builds the local offer and waits for ICE gathering
// to complete so the SDP carries the candidates.
func (c *PeerConnection) CreateAndSetOffer() (*webrtc.SessionDescription, error) {
	offer, err := c.pc.CreateOffer(nil)
	if err != nil {
		return nil, err
	}

	gatherComplete := webrtc.GatheringCompletePromise(c.pc)
	if err := c.pc.SetLocalDescription(offer); err != nil {
		return nil, err
	}
	<-gatherComplete

	return c.pc.LocalDescription(), nil
}

func (c *PeerConnection) ApplyAnswer(answer webrtc.SessionDescription) error {
	return c.pc.SetRemoteDescription(answer)
}

func (c *PeerConnection) AddICECandidate(ci webrtc.ICECandidateInit) error {
	return c.pc.AddICECandidate(ci)
}

func (c *PeerConnection) OnICECandidate(fn func(webrtc.ICECandidateInit)) {
	c.onICE = fn
}

// OnConnectionStateChange sets the engine-level callback for peer state.
func (c *PeerConnection) OnConnectionStateChange(fn func(webrtc.PeerConnectionState)) {
	c.onState = fn
}

func (c *PeerConnection) Close() {
	if c.cancel != nil {
		c.cancel()
	}
	if c.pc != nil {
		if err := c.pc.Close(); err != nil {
			log.Error().Err(err).Str("module", "engine.peer").Msg("close error")
		} else {
			log.Info().Str("module", "engine.peer").Msg("closed")
		}
	}
}
