// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package jsep

// negotiator tracks the ready state and the offer/answer phase of a
// PeerConnection. It holds no lock; the PeerConnection serializes access.
type negotiator struct {
	readyState     ReadyState
	signalingState SignalingState

	// renegotiating is set while an offer made from ReadyStateActive is
	// outstanding.
	renegotiating bool
}

func newNegotiator() negotiator {
	return negotiator{
		readyState:     ReadyStateNew,
		signalingState: SignalingStateStable,
	}
}

// check reports whether applying a description of sdpType through op is a
// valid transition, without changing anything.
func (n *negotiator) check(op stateChangeOp, sdpType SDPType) error {
	_, err := checkNextSignalingState(n.signalingState, proposedSignalingState(op, sdpType), op, sdpType)

	return err
}

// apply performs the transition for a description of sdpType applied
// through op. It returns the ready state change to report, or nil if the
// ready state did not change.
func (n *negotiator) apply(op stateChangeOp, sdpType SDPType) (*ReadyStateChange, error) {
	prev := n.signalingState
	next, err := checkNextSignalingState(prev, proposedSignalingState(op, sdpType), op, sdpType)
	if err != nil {
		return nil, err
	}
	n.signalingState = next

	switch {
	case prev == SignalingStateStable && next != SignalingStateStable:
		n.renegotiating = n.readyState == ReadyStateActive
		n.readyState = ReadyStateOpening

		return &ReadyStateChange{State: ReadyStateOpening, Renegotiation: n.renegotiating}, nil
	case prev != SignalingStateStable && next == SignalingStateStable:
		change := &ReadyStateChange{State: ReadyStateActive, Renegotiation: n.renegotiating}
		n.readyState = ReadyStateActive
		n.renegotiating = false

		return change, nil
	default:
		// an offer replaced by another one in the same direction
		return nil, nil
	}
}

// offerPending reports whether an offer awaits its answer.
func (n *negotiator) offerPending() bool {
	return n.signalingState == SignalingStateHaveLocalOffer || n.signalingState == SignalingStateHaveRemoteOffer
}

// close moves to ReadyStateClosed. It returns nil if already closed.
func (n *negotiator) close() *ReadyStateChange {
	if n.readyState == ReadyStateClosed {
		return nil
	}
	n.readyState = ReadyStateClosed
	n.signalingState = SignalingStateClosed
	n.renegotiating = false

	return &ReadyStateChange{State: ReadyStateClosed}
}
