package engine

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/dkeye/Meet/internal/core"
	"github.com/dkeye/Meet/internal/domain"
	"github.com/gorilla/websocket"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"
)

var ErrBackpressure = errors.New("backpressure")

const (
	sendQueueSize = 32
	writeDeadline = 5 * time.Second
	dialTimeout   = 10 * time.Second
)

// WSEngine implements core.AudioEngine over a signaling websocket.
// Configuration setters only record values locally; they are flushed
// into the join frame on StartSession. State, volume and signal
// strength frames from the backend feed the sink from the read pump's
// goroutine.
type WSEngine struct {
	ctx  context.Context
	sink core.EngineSink

	// non-nil enables the webrtc media leg
	rtcConfig *webrtc.Configuration

	mu     sync.RWMutex
	sid    domain.SessionID
	conn   *websocket.Conn
	send   chan []byte
	cancel context.CancelFunc
	closed bool
	peer   *PeerConnection

	hwRate, ioRate       int
	micFrames, spkFrames int
	micRoute             core.MicRoute
	noise, echo          core.ProcessingMode
	route                int
	muted                bool
}

var _ core.AudioEngine = (*WSEngine)(nil)

// Option configures a WSEngine.
type Option func(*WSEngine)

// WithMedia enables the webrtc media leg with the given configuration.
// Without it the engine runs signaling-only.
func WithMedia(cfg webrtc.Configuration) Option {
	return func(e *WSEngine) { e.rtcConfig = &cfg }
}

func New(ctx context.Context, sink core.EngineSink, opts ...Option) *WSEngine {
	e := &WSEngine{ctx: ctx, sink: sink}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *WSEngine) SetHardwareSampleRate(hz int) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.hwRate = hz
	return core.EngineOK
}

func (e *WSEngine) SetIOSampleRate(hz int) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ioRate = hz
	return core.EngineOK
}

func (e *WSEngine) SetMicBufferFrames(frames int) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.micFrames = frames
	return core.EngineOK
}

func (e *WSEngine) SetSpeakerBufferFrames(frames int) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.spkFrames = frames
	return core.EngineOK
}

func (e *WSEngine) SetMicRoute(route core.MicRoute) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.micRoute = route
	return core.EngineOK
}

func (e *WSEngine) SetNoiseSuppression(mode core.ProcessingMode) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.noise = mode
	return core.EngineOK
}

func (e *WSEngine) SetEchoCancellation(mode core.ProcessingMode) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.echo = mode
	return core.EngineOK
}

// StartSession dials the signaling URL, optionally negotiates the media
// leg, and sends the join frame. Failures are reported through the
// result code, never panics.
func (e *WSEngine) StartSession(p core.SessionParameters) int {
	dialCtx, dialCancel := context.WithTimeout(e.ctx, dialTimeout)
	defer dialCancel()

	conn, _, err := websocket.DefaultDialer.DialContext(dialCtx, p.SignalingURL, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "engine.ws").Str("url", p.SignalingURL).Msg("signaling dial failed")
		return core.EngineErr
	}

	ctx, cancel := context.WithCancel(e.ctx)
	sid := domain.NewSessionID()

	e.mu.Lock()
	e.sid = sid
	e.conn = conn
	e.send = make(chan []byte, sendQueueSize)
	e.cancel = cancel
	e.closed = false
	e.mu.Unlock()

	join := frame{
		Type:             frameJoin,
		MeetingID:        p.MeetingID,
		AttendeeID:       p.AttendeeID,
		Token:            p.JoinToken,
		Host:             p.Endpoint.Host,
		Port:             p.Endpoint.Port,
		Transport:        p.Transport,
		SendCodec:        p.SendCodec,
		RecvCodec:        p.RecvCodec,
		MicEnabled:       p.MicEnabled,
		SpeakerEnabled:   p.SpeakerEnabled,
		PresenterEnabled: p.PresenterEnabled,
	}

	if e.rtcConfig != nil {
		peer, err := NewPeerConnection(*e.rtcConfig)
		if err != nil {
			log.Error().Err(err).Str("module", "engine.ws").Msg("peer connection setup failed")
			cancel()
			_ = conn.Close()
			return core.EngineErr
		}
		peer.OnICECandidate(func(cand webrtc.ICECandidateInit) {
			e.sendFrame(frame{Type: frameCandidate, Candidate: &cand})
		})
		peer.OnConnectionStateChange(func(s webrtc.PeerConnectionState) {
			switch s {
			case webrtc.PeerConnectionStateConnected:
				e.sink.OnStateChange(int(core.StateConnected), int(domain.StatusOK))
			case webrtc.PeerConnectionStateFailed, webrtc.PeerConnectionStateClosed:
				e.sink.OnStateChange(int(core.StateDisconnected), int(domain.StatusAudioDisconnected))
			}
		})
		if err := peer.Start(ctx); err != nil {
			log.Error().Err(err).Str("module", "engine.ws").Msg("peer start failed")
			peer.Close()
			cancel()
			_ = conn.Close()
			return core.EngineErr
		}
		offer, err := peer.CreateAndSetOffer()
		if err != nil {
			log.Error().Err(err).Str("module", "engine.ws").Msg("offer failed")
			peer.Close()
			cancel()
			_ = conn.Close()
			return core.EngineErr
		}
		join.SDP = offer.SDP
		e.mu.Lock()
		e.peer = peer
		e.mu.Unlock()
	}

	go e.writePump(ctx)
	go e.readPump(ctx)

	if err := e.sendFrame(join); err != nil {
		log.Error().Err(err).Str("module", "engine.ws").Msg("join frame not sent")
		e.teardown()
		return core.EngineErr
	}

	log.Info().Str("module", "engine.ws").Str("sid", string(sid)).
		Str("meeting", p.MeetingID).Str("attendee", p.AttendeeID).Msg("session joined")
	return core.EngineOK
}

func (e *WSEngine) StopSession() int {
	_ = e.sendFrame(frame{Type: frameLeave})
	e.teardown()
	return core.EngineOK
}

func (e *WSEngine) Route() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.route
}

func (e *WSEngine) SetRoute(route int) int {
	e.mu.Lock()
	e.route = route
	e.mu.Unlock()
	if err := e.sendFrame(frame{Type: frameRoute, Route: route}); err != nil {
		return core.EngineErr
	}
	return core.EngineOK
}

func (e *WSEngine) SetMicMute(muted bool) int {
	e.mu.Lock()
	e.muted = muted
	e.mu.Unlock()
	if err := e.sendFrame(frame{Type: frameMute, Muted: muted}); err != nil {
		return core.EngineErr
	}
	return core.EngineOK
}

func (e *WSEngine) sendFrame(f frame) error {
	b, err := json.Marshal(f)
	if err != nil {
		return err
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.closed || e.send == nil {
		return errors.New("connection closed")
	}
	select {
	case e.send <- b:
		return nil
	default:
		return ErrBackpressure
	}
}

func (e *WSEngine) teardown() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	if e.cancel != nil {
		e.cancel()
	}
	if e.send != nil {
		close(e.send)
	}
	conn := e.conn
	peer := e.peer
	sid := e.sid
	e.conn = nil
	e.peer = nil
	e.mu.Unlock()

	if peer != nil {
		peer.Close()
	}
	if conn != nil {
		_ = conn.Close()
	}
	log.Info().Str("module", "engine.ws").Str("sid", string(sid)).Msg("session torn down")
}

func (e *WSEngine) writePump(ctx context.Context) {
	e.mu.RLock()
	conn, send := e.conn, e.send
	e.mu.RUnlock()
	for {
		select {
		case <-ctx.Done():
			return
		case data, ok := <-send:
			if !ok {
				return
			}
			if err := conn.SetWriteDeadline(time.Now().Add(writeDeadline)); err != nil {
				log.Error().Err(err).Str("module", "engine.ws").Msg("writePump set deadline")
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "engine.ws").Msg("writePump write error")
				return
			}
		}
	}
}

func (e *WSEngine) readPump(ctx context.Context) {
	e.mu.RLock()
	conn := e.conn
	e.mu.RUnlock()
	defer func() {
		log.Info().Str("module", "engine.ws").Msg("readPump closing")
		e.teardown()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		default:
			_, data, err := conn.ReadMessage()
			if err != nil {
				e.mu.RLock()
				closed := e.closed
				e.mu.RUnlock()
				if !closed {
					log.Error().Err(err).Str("module", "engine.ws").Msg("readPump read error")
					e.sink.OnStateChange(int(core.StateDisconnected), int(domain.StatusAudioDisconnected))
				}
				return
			}
			e.handleFrame(data)
		}
	}
}

func (e *WSEngine) handleFrame(data []byte) {
	var f frame
	if err := json.Unmarshal(data, &f); err != nil {
		log.Error().Err(err).Str("module", "engine.ws").Msg("bad frame json")
		return
	}

	switch f.Type {
	case frameState:
		e.sink.OnStateChange(f.State, f.Status)
	case frameVolume:
		e.sink.OnVolumeChange(f.Attendees, f.Levels)
	case frameSignalStrength:
		e.sink.OnSignalStrengthChange(f.Attendees, f.Levels)
	case frameAnswer:
		e.mu.RLock()
		peer := e.peer
		e.mu.RUnlock()
		if peer == nil {
			return
		}
		if err := peer.ApplyAnswer(webrtc.SessionDescription{Type: webrtc.SDPTypeAnswer, SDP: f.SDP}); err != nil {
			log.Error().Err(err).Str("module", "engine.ws").Msg("apply answer")
		}
	case frameCandidate:
		e.mu.RLock()
		peer := e.peer
		e.mu.RUnlock()
		if peer == nil || f.Candidate == nil {
			return
		}
		if err := peer.AddICECandidate(*f.Candidate); err != nil {
			log.Error().Err(err).Str("module", "engine.ws").Msg("add candidate")
		}
	default:
		log.Warn().Str("module", "engine.ws").Str("type", f.Type).Msg("unknown frame")
	}
}
