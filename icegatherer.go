// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package jsep

import (
	"errors"
	"fmt"
	"sync"

	"github.com/pion/ice/v4"
	"github.com/pion/jsep/internal/util"
	"github.com/pion/logging"
)

// ICEGatherer discovers local candidates through an ICETransport and
// tracks the remote candidates handed to it.
//
// Local candidates are stored and emitted in discovery order, each exactly
// once, from a dedicated operations chain. Handlers must not call Close.
type ICEGatherer struct {
	lock  sync.RWMutex
	state ICEGatheringState

	transport     ICETransport
	sdpMid        string
	sdpMLineIndex uint16

	started   bool
	gathering bool
	closed    bool
	done      chan struct{}

	local         []ICECandidate
	remote        []ice.Candidate
	pendingRemote []ice.Candidate

	onLocalCandidateHandler    func(ICECandidate)
	onGatheringCompleteHandler func()

	ops *operations
	log logging.LeveledLogger
}

// NewICEGatherer creates an ICEGatherer that owns transport.
func NewICEGatherer(transport ICETransport, loggerFactory logging.LoggerFactory) *ICEGatherer {
	if loggerFactory == nil {
		loggerFactory = logging.NewDefaultLoggerFactory()
	}

	return &ICEGatherer{
		state:     ICEGatheringStateNew,
		transport: transport,
		done:      make(chan struct{}),
		ops:       newOperations(nil),
		log:       loggerFactory.NewLogger("ice"),
	}
}

// State indicates the current state of the ICE gatherer.
func (g *ICEGatherer) State() ICEGatheringState {
	g.lock.RLock()
	defer g.lock.RUnlock()

	return g.state
}

// OnLocalCandidate sets an event handler which fires for every discovered
// local candidate.
func (g *ICEGatherer) OnLocalCandidate(f func(ICECandidate)) {
	g.lock.Lock()
	defer g.lock.Unlock()
	g.onLocalCandidateHandler = f
}

// OnGatheringComplete sets an event handler which fires once after the
// last local candidate was emitted.
func (g *ICEGatherer) OnGatheringComplete(f func()) {
	g.lock.Lock()
	defer g.lock.Unlock()
	g.onGatheringCompleteHandler = f
}

// Done returns a channel closed once gathering is complete.
func (g *ICEGatherer) Done() <-chan struct{} {
	return g.done
}

// Gather starts candidate discovery, tagging every candidate with sdpMid
// and sdpMLineIndex. Only the first call has an effect.
func (g *ICEGatherer) Gather(sdpMid string, sdpMLineIndex uint16) error {
	g.lock.Lock()
	if g.closed {
		g.lock.Unlock()

		return errGathererClosed
	}
	if g.started {
		g.lock.Unlock()

		return nil
	}
	g.started = true
	g.state = ICEGatheringStateGathering
	g.sdpMid, g.sdpMLineIndex = sdpMid, sdpMLineIndex
	transport := g.transport
	g.lock.Unlock()

	g.log.Debugf("Gathering candidates for mid %q", sdpMid)
	if err := transport.Gather(g.onCandidate); err != nil {
		g.lock.Lock()
		g.started = false
		g.state = ICEGatheringStateNew
		g.lock.Unlock()

		return wrapTransportErr(err)
	}

	g.lock.Lock()
	g.gathering = true
	pending := g.pendingRemote
	g.pendingRemote = nil
	g.lock.Unlock()

	var errs []error
	for _, candidate := range pending {
		if err := transport.AddRemoteCandidate(candidate); err != nil {
			errs = append(errs, wrapTransportErr(err))
		}
	}

	return util.FlattenErrs(errs)
}

func (g *ICEGatherer) onCandidate(candidate ice.Candidate) {
	g.ops.Enqueue(func() {
		if candidate == nil {
			g.complete()

			return
		}

		g.lock.Lock()
		if g.closed || g.state == ICEGatheringStateComplete {
			g.lock.Unlock()

			return
		}
		c := newICECandidateFromICE(candidate, g.sdpMid, g.sdpMLineIndex)
		g.local = append(g.local, c)
		handler := g.onLocalCandidateHandler
		g.lock.Unlock()

		g.log.Debugf("Local candidate %s", c)
		if handler != nil {
			handler(c)
		}
	})
}

func (g *ICEGatherer) complete() {
	g.lock.Lock()
	if g.closed || g.state == ICEGatheringStateComplete {
		g.lock.Unlock()

		return
	}
	g.state = ICEGatheringStateComplete
	close(g.done)
	handler := g.onGatheringCompleteHandler
	count := len(g.local)
	g.lock.Unlock()

	g.log.Debugf("Gathering complete with %d candidates", count)
	if handler != nil {
		handler()
	}
}

// LocalCandidates returns the local candidates emitted so far.
func (g *ICEGatherer) LocalCandidates() []ICECandidate {
	g.lock.RLock()
	defer g.lock.RUnlock()

	return append([]ICECandidate{}, g.local...)
}

// AddRemoteCandidate hands a remote candidate to the transport. Candidates
// received before gathering started are held back until it does.
// Duplicates are ignored.
func (g *ICEGatherer) AddRemoteCandidate(candidate ICECandidate) error {
	if candidate.candidate == nil {
		return ErrInvalidCandidate
	}

	g.lock.Lock()
	if g.closed {
		g.lock.Unlock()

		return errGathererClosed
	}
	for _, seen := range g.remote {
		if seen.Equal(candidate.candidate) {
			g.lock.Unlock()
			g.log.Debugf("Ignoring duplicate remote candidate %s", candidate)

			return nil
		}
	}
	g.remote = append(g.remote, candidate.candidate)
	if !g.gathering {
		g.pendingRemote = append(g.pendingRemote, candidate.candidate)
		g.lock.Unlock()

		return nil
	}
	transport := g.transport
	g.lock.Unlock()

	if err := transport.AddRemoteCandidate(candidate.candidate); err != nil {
		return wrapTransportErr(err)
	}

	return nil
}

// Close stops emission and closes the transport.
func (g *ICEGatherer) Close() error {
	g.lock.Lock()
	if g.closed {
		g.lock.Unlock()

		return nil
	}
	g.closed = true
	transport := g.transport
	g.lock.Unlock()

	g.ops.GracefulClose()

	return transport.Close()
}

func wrapTransportErr(err error) error {
	if errors.Is(err, ErrICETransportFailure) {
		return err
	}

	return fmt.Errorf("%w: %w", ErrICETransportFailure, err)
}
