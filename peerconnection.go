// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

// Package jsep implements the offer/answer negotiation core of a
// peer-to-peer media session: local and remote session descriptions, ICE
// candidate exchange and the registry of local media streams.
package jsep

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/pion/jsep/internal/util"
	"github.com/pion/jsep/pkg/rtcerr"
	"github.com/pion/logging"
)

// PeerConnection negotiates a media session with a remote peer.
//
// Stream operations and AddICECandidate complete synchronously.
// CreateOffer, CreateAnswer, SetLocalDescription and SetRemoteDescription
// run one at a time in submission order and deliver their result on the
// returned channel. Handlers fire from internal goroutines; they may start
// new operations but must not wait for their results or call Close.
type PeerConnection struct {
	mu sync.RWMutex

	configuration Configuration

	negotiator negotiator

	currentLocalDescription  *SessionDescription
	pendingLocalDescription  *SessionDescription
	currentRemoteDescription *SessionDescription
	pendingRemoteDescription *SessionDescription

	localStreams  *streamRegistry
	remoteStreams *streamRegistry

	// streamsVersion counts local stream mutations.
	streamsVersion uint64

	isClosed                *atomic.Bool
	isNegotiationNeeded     *atomic.Bool
	negotiationNeededNotify bool

	onReadyStateChangeHandler     func(ReadyStateChange)
	onStreamAddedHandler          func(*MediaStream)
	onStreamRemovedHandler        func(*MediaStream)
	onNegotiationNeededHandler    func()
	onICECandidateHandler         func(*ICECandidate)
	onICEGatheringCompleteHandler func()
	onNegotiationErrorHandler     func(NegotiationErrorKind, error)

	iceGatherer *ICEGatherer

	ops *operations

	// A reference to the associated API state used by this connection
	api *API
	log logging.LeveledLogger
}

// NewPeerConnection creates a PeerConnection with the default settings.
// See API.NewPeerConnection for details.
func NewPeerConnection(configuration Configuration) (*PeerConnection, error) {
	return NewAPI().NewPeerConnection(configuration)
}

// NewPeerConnection creates a new PeerConnection with the provided configuration against the received API object.
// Malformed ICE server entries are logged and skipped.
func (api *API) NewPeerConnection(configuration Configuration) (*PeerConnection, error) {
	pc := &PeerConnection{
		configuration: Configuration{
			ICEServers: append([]ICEServer{}, configuration.ICEServers...),
		},
		negotiator:          newNegotiator(),
		localStreams:        newStreamRegistry(true),
		remoteStreams:       newStreamRegistry(false),
		isClosed:            &atomic.Bool{},
		isNegotiationNeeded: &atomic.Bool{},
		api:                 api,
		log:                 api.settingEngine.LoggerFactory.NewLogger("pc"),
	}
	pc.ops = newOperations(pc.onOperationsDrained)

	stunServers, turnServers := parseICEServers(
		configuration.ICEServers, api.settingEngine.getDefaultSTUNPort(), pc.log,
	)
	pc.log.Debugf("Using %d STUN and %d TURN servers", len(stunServers), len(turnServers))

	transport, err := api.settingEngine.getICETransportFactory()(ICETransportConfig{
		STUNServers:   stunServers,
		TURNServers:   turnServers,
		NetworkTypes:  toICENetworkTypes(api.settingEngine.candidates.ICENetworkTypes),
		PortMin:       api.settingEngine.ephemeralUDP.PortMin,
		PortMax:       api.settingEngine.ephemeralUDP.PortMax,
		LoggerFactory: api.settingEngine.LoggerFactory,
	})
	if err != nil {
		return nil, wrapTransportErr(err)
	}

	pc.iceGatherer = NewICEGatherer(transport, api.settingEngine.LoggerFactory)
	pc.iceGatherer.OnLocalCandidate(pc.onLocalCandidate)
	pc.iceGatherer.OnGatheringComplete(pc.onGatheringComplete)

	return pc, nil
}

// GetConfiguration returns the configuration the PeerConnection was
// created with.
func (pc *PeerConnection) GetConfiguration() Configuration {
	pc.mu.RLock()
	defer pc.mu.RUnlock()

	return Configuration{ICEServers: append([]ICEServer{}, pc.configuration.ICEServers...)}
}

// OnReadyStateChange sets an event handler which is invoked when the
// ready state changes.
func (pc *PeerConnection) OnReadyStateChange(f func(ReadyStateChange)) {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	pc.onReadyStateChangeHandler = f
}

// OnStreamAdded sets an event handler which is invoked for every stream a
// remote description introduces.
func (pc *PeerConnection) OnStreamAdded(f func(*MediaStream)) {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	pc.onStreamAddedHandler = f
}

// OnStreamRemoved sets an event handler which is invoked for every stream
// a remote description no longer carries.
func (pc *PeerConnection) OnStreamRemoved(f func(*MediaStream)) {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	pc.onStreamRemovedHandler = f
}

// OnNegotiationNeeded sets an event handler which is invoked when the local
// streams changed and a new offer/answer exchange is needed.
func (pc *PeerConnection) OnNegotiationNeeded(f func()) {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	pc.onNegotiationNeededHandler = f
}

// OnICECandidate sets an event handler which is invoked when a new ICE
// candidate is found.
func (pc *PeerConnection) OnICECandidate(f func(*ICECandidate)) {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	pc.onICECandidateHandler = f
}

// OnICEGatheringComplete sets an event handler which is invoked once all
// local candidates were delivered.
func (pc *PeerConnection) OnICEGatheringComplete(f func()) {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	pc.onICEGatheringCompleteHandler = f
}

// OnNegotiationError sets an event handler which is invoked when the ICE
// transport fails outside of a caller's request.
func (pc *PeerConnection) OnNegotiationError(f func(NegotiationErrorKind, error)) {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	pc.onNegotiationErrorHandler = f
}

func (pc *PeerConnection) onReadyStateChange(change *ReadyStateChange) {
	if change == nil {
		return
	}

	pc.mu.RLock()
	handler := pc.onReadyStateChangeHandler
	pc.mu.RUnlock()

	pc.log.Infof("ready state changed to %s (renegotiation: %t)", change.State, change.Renegotiation)
	if handler != nil {
		handler(*change)
	}
}

func (pc *PeerConnection) onRemoteStreamsChanged(added, removed []*MediaStream) {
	pc.mu.RLock()
	onAdded, onRemoved := pc.onStreamAddedHandler, pc.onStreamRemovedHandler
	pc.mu.RUnlock()

	for _, stream := range removed {
		pc.log.Debugf("Remote stream %q removed", stream.Label())
		if onRemoved != nil {
			onRemoved(stream)
		}
	}
	for _, stream := range added {
		pc.log.Debugf("Remote stream %q added", stream.Label())
		if onAdded != nil {
			onAdded(stream)
		}
	}
}

func (pc *PeerConnection) onLocalCandidate(candidate ICECandidate) {
	pc.mu.RLock()
	handler := pc.onICECandidateHandler
	pc.mu.RUnlock()

	if handler != nil && !pc.isClosed.Load() {
		handler(&candidate)
	}
}

func (pc *PeerConnection) onGatheringComplete() {
	pc.mu.RLock()
	handler := pc.onICEGatheringCompleteHandler
	pc.mu.RUnlock()

	if handler != nil && !pc.isClosed.Load() {
		handler()
	}
}

func (pc *PeerConnection) onNegotiationError(err error) {
	if err == nil {
		return
	}

	pc.mu.RLock()
	handler := pc.onNegotiationErrorHandler
	pc.mu.RUnlock()

	kind := ErrorKind(err)
	pc.log.Errorf("%s: %v", kind, err)
	if handler != nil {
		handler(kind, err)
	}
}

// NegotiationNeeded reports whether the local streams changed since the
// last completed offer/answer exchange.
func (pc *PeerConnection) NegotiationNeeded() bool {
	return pc.isNegotiationNeeded.Load()
}

// ClearNegotiationNeeded resets the flag reported by NegotiationNeeded and
// drops any notification that has not fired yet.
func (pc *PeerConnection) ClearNegotiationNeeded() {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	pc.isNegotiationNeeded.Store(false)
	pc.negotiationNeededNotify = false
}

// markNegotiationNeeded must be called after a local stream mutation.
func (pc *PeerConnection) markNegotiationNeeded() {
	pc.mu.Lock()
	pc.streamsVersion++
	pc.isNegotiationNeeded.Store(true)
	pc.negotiationNeededNotify = true
	pc.mu.Unlock()

	// OnNegotiationNeeded fires once the chain drains
	pc.ops.Enqueue(func() {})
}

func (pc *PeerConnection) onOperationsDrained() {
	// a later drain reports the operations enqueued meanwhile
	if !pc.ops.IsEmpty() {
		return
	}

	pc.mu.Lock()
	if !pc.negotiationNeededNotify || pc.negotiator.offerPending() || pc.isClosed.Load() {
		pc.mu.Unlock()

		return
	}
	pc.negotiationNeededNotify = false
	handler := pc.onNegotiationNeededHandler
	pc.mu.Unlock()

	if handler != nil && pc.isNegotiationNeeded.Load() {
		handler()
	}
}

// completeRoundLocked must be called with mu held after the ready state
// moved to ReadyStateActive. The flag stays set unless the applied local
// description covers every stream mutation.
func (pc *PeerConnection) completeRoundLocked() {
	local := pc.currentLocalDescription
	if local == nil || !local.fromStreams || local.streamsVersion != pc.streamsVersion {
		return
	}
	pc.isNegotiationNeeded.Store(false)
	pc.negotiationNeededNotify = false
}

// AddStream registers a local stream for the next offer or answer.
func (pc *PeerConnection) AddStream(stream *MediaStream) error {
	if pc.isClosed.Load() {
		return &rtcerr.InvalidStateError{Err: ErrConnectionClosed}
	}
	if _, err := pc.localStreams.add(stream); err != nil {
		return err
	}
	pc.log.Debugf("Added local stream %q", stream.Label())
	pc.markNegotiationNeeded()

	return nil
}

// RemoveStream removes a stream previously passed to AddStream.
func (pc *PeerConnection) RemoveStream(stream *MediaStream) error {
	if pc.isClosed.Load() {
		return &rtcerr.InvalidStateError{Err: ErrConnectionClosed}
	}
	if stream == nil {
		return &rtcerr.InvalidAccessError{Err: errNilStream}
	}
	if _, err := pc.localStreams.remove(stream.Handle()); err != nil {
		return err
	}
	pc.log.Debugf("Removed local stream %q", stream.Label())
	pc.markNegotiationNeeded()

	return nil
}

// SDPCodec returns the codec of the API the PeerConnection was created
// with. Signaling channels use it to exchange descriptions.
func (pc *PeerConnection) SDPCodec() SDPCodec {
	return pc.api.sdpCodec
}

// LocalStreams returns a snapshot of the local streams.
func (pc *PeerConnection) LocalStreams() StreamCollection {
	return pc.localStreams.collection()
}

// RemoteStreams returns a snapshot of the streams the remote description
// carries.
func (pc *PeerConnection) RemoteStreams() StreamCollection {
	return pc.remoteStreams.collection()
}

// snapshotTracks assigns SSRCs and returns the stream mutation count the
// tracks reflect.
func (pc *PeerConnection) snapshotTracks() ([]registryTrack, uint64) {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	return pc.localStreams.assignSSRCs(), pc.streamsVersion
}

// CreateOffer starts an offer describing the local streams. The result is
// delivered once on the returned channel.
func (pc *PeerConnection) CreateOffer() <-chan DescriptionResult {
	result := make(chan DescriptionResult, 1)
	if !pc.ops.Enqueue(func() {
		desc, err := pc.createOffer()
		result <- DescriptionResult{Description: desc, Err: err}
	}) {
		result <- DescriptionResult{Err: &rtcerr.InvalidStateError{Err: ErrConnectionClosed}}
	}

	return result
}

func (pc *PeerConnection) createOffer() (*SessionDescription, error) {
	if pc.isClosed.Load() {
		return nil, &rtcerr.InvalidStateError{Err: ErrConnectionClosed}
	}

	pc.mu.RLock()
	err := pc.negotiator.check(stateChangeOpSetLocal, SDPTypeOffer)
	pc.mu.RUnlock()
	if err != nil {
		return nil, err
	}

	tracks, version := pc.snapshotTracks()
	offer, err := buildOffer(tracks)
	if err != nil {
		return nil, err
	}
	offer.describe(version)
	pc.log.Debugf("Created offer with %d contents", len(offer.contents))

	return offer, nil
}

// CreateAnswer starts an answer to the pending remote offer. The result is
// delivered once on the returned channel.
func (pc *PeerConnection) CreateAnswer() <-chan DescriptionResult {
	result := make(chan DescriptionResult, 1)
	if !pc.ops.Enqueue(func() {
		desc, err := pc.createAnswer()
		result <- DescriptionResult{Description: desc, Err: err}
	}) {
		result <- DescriptionResult{Err: &rtcerr.InvalidStateError{Err: ErrConnectionClosed}}
	}

	return result
}

func (pc *PeerConnection) createAnswer() (*SessionDescription, error) {
	if pc.isClosed.Load() {
		return nil, &rtcerr.InvalidStateError{Err: ErrConnectionClosed}
	}

	pc.mu.RLock()
	offer := pc.pendingRemoteDescription
	pc.mu.RUnlock()
	if offer == nil || offer.Type() != SDPTypeOffer {
		return nil, &rtcerr.InvalidStateError{Err: ErrNoRemoteDescription}
	}

	tracks, version := pc.snapshotTracks()
	answer, err := buildAnswer(tracks, offer, pc.log)
	if err != nil {
		return nil, err
	}
	answer.describe(version)
	pc.log.Debugf("Created answer with %d contents", len(answer.contents))

	return answer, nil
}

// SetLocalDescription applies desc as the local description. The first
// local description starts ICE gathering.
func (pc *PeerConnection) SetLocalDescription(desc *SessionDescription) <-chan error {
	result := make(chan error, 1)
	if !pc.ops.Enqueue(func() {
		result <- pc.setDescription(desc, stateChangeOpSetLocal)
	}) {
		result <- &rtcerr.InvalidStateError{Err: ErrConnectionClosed}
	}

	return result
}

// SetRemoteDescription applies desc as the remote description and updates
// the remote streams from it.
func (pc *PeerConnection) SetRemoteDescription(desc *SessionDescription) <-chan error {
	result := make(chan error, 1)
	if !pc.ops.Enqueue(func() {
		result <- pc.setDescription(desc, stateChangeOpSetRemote)
	}) {
		result <- &rtcerr.InvalidStateError{Err: ErrConnectionClosed}
	}

	return result
}

func (pc *PeerConnection) setDescription(desc *SessionDescription, op stateChangeOp) error {
	switch {
	case pc.isClosed.Load():
		return &rtcerr.InvalidStateError{Err: ErrConnectionClosed}
	case desc == nil:
		return &rtcerr.InvalidAccessError{Err: ErrNilSessionDescription}
	}

	pc.mu.Lock()
	change, err := pc.negotiator.apply(op, desc.Type())
	if err != nil {
		pc.mu.Unlock()

		return err
	}

	isLocal := op == stateChangeOpSetLocal
	switch {
	case isLocal && desc.Type() == SDPTypeOffer:
		pc.pendingLocalDescription = desc
	case isLocal:
		pc.currentLocalDescription = desc
		pc.currentRemoteDescription = pc.pendingRemoteDescription
		pc.pendingLocalDescription, pc.pendingRemoteDescription = nil, nil
	case desc.Type() == SDPTypeOffer:
		pc.pendingRemoteDescription = desc
	default:
		pc.currentRemoteDescription = desc
		pc.currentLocalDescription = pc.pendingLocalDescription
		pc.pendingLocalDescription, pc.pendingRemoteDescription = nil, nil
	}
	if change != nil && change.State == ReadyStateActive {
		pc.completeRoundLocked()
	}
	pc.mu.Unlock()

	pc.log.Debugf("%s(%s) applied", op, desc.Type())
	pc.onReadyStateChange(change)

	if isLocal {
		pc.startGathering(desc)

		return nil
	}

	added, removed := pc.remoteStreams.sync(desc.Streams())
	pc.onRemoteStreamsChanged(added, removed)

	return nil
}

// startGathering starts the ICE gatherer with the first content of desc.
// Gathering starts only once.
func (pc *PeerConnection) startGathering(desc *SessionDescription) {
	var sdpMid string
	if len(desc.contents) > 0 {
		sdpMid = desc.contents[0].Mid
	}
	if err := pc.iceGatherer.Gather(sdpMid, 0); err != nil {
		pc.onNegotiationError(err)
	}
}

// AddICECandidate hands a remote candidate to the ICE transport. The
// candidate must name a content of the remote description by mid or, if
// the mid is empty, by m-line index.
func (pc *PeerConnection) AddICECandidate(init ICECandidateInit) error {
	if pc.isClosed.Load() {
		return &rtcerr.InvalidStateError{Err: ErrConnectionClosed}
	}

	remote := pc.RemoteDescription()
	if remote == nil {
		return &rtcerr.InvalidStateError{Err: ErrNoRemoteDescription}
	}

	candidate, err := NewICECandidateFromInit(init)
	if err != nil {
		return err
	}
	if !remote.hasContent(candidate.SDPMid, init.SDPMLineIndex) {
		return &rtcerr.InvalidAccessError{
			Err: fmt.Errorf("%w: mid %q", ErrUnknownCandidateMid, candidate.SDPMid),
		}
	}

	if err = pc.iceGatherer.AddRemoteCandidate(*candidate); err != nil {
		pc.onNegotiationError(err)

		return err
	}

	return nil
}

// ReadyState returns the negotiation lifecycle phase.
func (pc *PeerConnection) ReadyState() ReadyState {
	pc.mu.RLock()
	defer pc.mu.RUnlock()

	return pc.negotiator.readyState
}

// SignalingState returns the offer/answer phase.
func (pc *PeerConnection) SignalingState() SignalingState {
	pc.mu.RLock()
	defer pc.mu.RUnlock()

	return pc.negotiator.signalingState
}

// LocalDescription returns the pending local description if there is one,
// the current one otherwise.
func (pc *PeerConnection) LocalDescription() *SessionDescription {
	pc.mu.RLock()
	defer pc.mu.RUnlock()

	if pc.pendingLocalDescription != nil {
		return pc.pendingLocalDescription
	}

	return pc.currentLocalDescription
}

// RemoteDescription returns the pending remote description if there is
// one, the current one otherwise.
func (pc *PeerConnection) RemoteDescription() *SessionDescription {
	pc.mu.RLock()
	defer pc.mu.RUnlock()

	if pc.pendingRemoteDescription != nil {
		return pc.pendingRemoteDescription
	}

	return pc.currentRemoteDescription
}

// ICEGatheringState returns the state of local candidate gathering.
func (pc *PeerConnection) ICEGatheringState() ICEGatheringState {
	return pc.iceGatherer.State()
}

// LocalCandidates returns the local candidates gathered so far.
func (pc *PeerConnection) LocalCandidates() []ICECandidate {
	return pc.iceGatherer.LocalCandidates()
}

// Close ends the PeerConnection. Operations that have not run yet fail
// with ErrConnectionClosed.
func (pc *PeerConnection) Close() error {
	if pc.isClosed.Swap(true) {
		return nil
	}

	pc.mu.Lock()
	change := pc.negotiator.close()
	pc.negotiationNeededNotify = false
	pc.mu.Unlock()
	pc.onReadyStateChange(change)

	// Try closing everything and collect the errors
	var closeErrs []error

	pc.ops.GracefulClose()
	closeErrs = append(closeErrs, pc.iceGatherer.Close())

	return util.FlattenErrs(closeErrs)
}
