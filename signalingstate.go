// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package jsep

import (
	"fmt"

	"github.com/pion/jsep/pkg/rtcerr"
)

type stateChangeOp int

const (
	stateChangeOpSetLocal stateChangeOp = iota + 1
	stateChangeOpSetRemote
)

func (op stateChangeOp) String() string {
	switch op {
	case stateChangeOpSetLocal:
		return "SetLocal"
	case stateChangeOpSetRemote:
		return "SetRemote"
	default:
		return "Unknown State Change Operation"
	}
}

// SignalingState indicates the offer/answer phase a PeerConnection is in.
type SignalingState int

const (
	// SignalingStateUnknown is the enum's zero-value.
	SignalingStateUnknown SignalingState = iota

	// SignalingStateStable indicates there is no offer/answer exchange in
	// progress.
	SignalingStateStable

	// SignalingStateHaveLocalOffer indicates that a local offer has been
	// applied and the remote answer is outstanding.
	SignalingStateHaveLocalOffer

	// SignalingStateHaveRemoteOffer indicates that a remote offer has been
	// applied and the local answer is outstanding.
	SignalingStateHaveRemoteOffer

	// SignalingStateClosed indicates the PeerConnection has been closed.
	SignalingStateClosed
)

// This is done this way because of a linter.
const (
	signalingStateStableStr          = "stable"
	signalingStateHaveLocalOfferStr  = "have-local-offer"
	signalingStateHaveRemoteOfferStr = "have-remote-offer"
	signalingStateClosedStr          = "closed"
)

func (t SignalingState) String() string {
	switch t {
	case SignalingStateStable:
		return signalingStateStableStr
	case SignalingStateHaveLocalOffer:
		return signalingStateHaveLocalOfferStr
	case SignalingStateHaveRemoteOffer:
		return signalingStateHaveRemoteOfferStr
	case SignalingStateClosed:
		return signalingStateClosedStr
	default:
		return ErrUnknownType.Error()
	}
}

// proposedSignalingState is the phase a description of sdpType leads to
// when applied through op.
func proposedSignalingState(op stateChangeOp, sdpType SDPType) SignalingState {
	switch {
	case sdpType == SDPTypeAnswer:
		return SignalingStateStable
	case sdpType == SDPTypeOffer && op == stateChangeOpSetLocal:
		return SignalingStateHaveLocalOffer
	case sdpType == SDPTypeOffer && op == stateChangeOpSetRemote:
		return SignalingStateHaveRemoteOffer
	default:
		return SignalingStateUnknown
	}
}

func checkNextSignalingState(cur, next SignalingState, op stateChangeOp, sdpType SDPType) (SignalingState, error) {
	switch cur {
	case SignalingStateStable:
		switch op {
		case stateChangeOpSetLocal:
			// stable->SetLocal(offer)->have-local-offer
			if sdpType == SDPTypeOffer && next == SignalingStateHaveLocalOffer {
				return next, nil
			}
		case stateChangeOpSetRemote:
			// stable->SetRemote(offer)->have-remote-offer
			if sdpType == SDPTypeOffer && next == SignalingStateHaveRemoteOffer {
				return next, nil
			}
		}
	case SignalingStateHaveLocalOffer:
		switch {
		// have-local-offer->SetRemote(answer)->stable
		case op == stateChangeOpSetRemote && sdpType == SDPTypeAnswer && next == SignalingStateStable:
			return next, nil
		// have-local-offer->SetLocal(offer)->have-local-offer
		case op == stateChangeOpSetLocal && sdpType == SDPTypeOffer && next == SignalingStateHaveLocalOffer:
			return next, nil
		}
	case SignalingStateHaveRemoteOffer:
		switch {
		// have-remote-offer->SetLocal(answer)->stable
		case op == stateChangeOpSetLocal && sdpType == SDPTypeAnswer && next == SignalingStateStable:
			return next, nil
		// have-remote-offer->SetRemote(offer)->have-remote-offer
		case op == stateChangeOpSetRemote && sdpType == SDPTypeOffer && next == SignalingStateHaveRemoteOffer:
			return next, nil
		}
	case SignalingStateClosed:
		return cur, &rtcerr.InvalidStateError{Err: ErrConnectionClosed}
	}

	return cur, &rtcerr.InvalidStateError{
		Err: fmt.Errorf("%w: %s->%s(%s)->%s", ErrIncorrectSignalingState, cur, op, sdpType, next),
	}
}
