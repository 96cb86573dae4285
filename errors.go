// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package jsep

import (
	"errors"
)

var (
	// ErrConnectionClosed indicates an operation executed after the
	// PeerConnection was closed.
	ErrConnectionClosed = errors.New("connection closed")

	// ErrMalformedServerURI indicates an ICE server URI that could not be
	// parsed. Such entries are dropped from the configuration.
	ErrMalformedServerURI = errors.New("malformed ice server uri")

	// ErrDuplicateTrackLabel indicates two tracks in one session description
	// share a label.
	ErrDuplicateTrackLabel = errors.New("duplicate track label")

	// ErrRegistryInvariantViolation indicates AddStream was rejected because
	// the stream would break a local stream registry invariant.
	ErrRegistryInvariantViolation = errors.New("stream registry invariant violation")

	// ErrAudioTrackLimit indicates more than one audio track across all local
	// streams.
	ErrAudioTrackLimit = errors.New("at most one audio track is allowed across local streams")

	// ErrNoRemoteDescription indicates an operation that requires a remote
	// description, e.g. AddICECandidate or CreateAnswer, was called before one
	// was set.
	ErrNoRemoteDescription = errors.New("remote description is not set")

	// ErrNegotiationTimeout indicates a caller gave up waiting on a
	// negotiation result. The core itself never times out.
	ErrNegotiationTimeout = errors.New("negotiation timed out")

	// ErrIncorrectSignalingState indicates a description whose type does not
	// fit the current offer/answer exchange.
	ErrIncorrectSignalingState = errors.New("operation can not be run in current signaling state")

	// ErrStreamNotFound indicates the stream is not, or no longer, held by
	// the registry.
	ErrStreamNotFound = errors.New("stream not found")

	// ErrStreamIndexOutOfRange indicates a stream collection index outside
	// [0, Count()).
	ErrStreamIndexOutOfRange = errors.New("stream index out of range")

	// ErrUnknownCandidateMid indicates a remote candidate whose mid and m-line
	// index match no content of the remote description.
	ErrUnknownCandidateMid = errors.New("candidate does not match any remote content")

	// ErrInvalidCandidate indicates a candidate payload that could not be
	// parsed.
	ErrInvalidCandidate = errors.New("invalid ice candidate")

	// ErrSDPUnmarshalling indicates the SDP text could not be parsed.
	ErrSDPUnmarshalling = errors.New("failed to unmarshal SDP")

	// ErrNilSessionDescription indicates a nil description was applied.
	ErrNilSessionDescription = errors.New("session description is nil")

	// ErrICETransportFailure indicates the ICE transport collaborator failed.
	ErrICETransportFailure = errors.New("ice transport failure")

	// ErrUnknownType indicates an error with Unknown info.
	ErrUnknownType = errors.New("unknown")

	errInvalidPortRange        = errors.New("invalid port range: max is less than min")
	errInvalidSTUNPort         = errors.New("default stun port out of range")
	errUnknownMediaKind        = errors.New("unknown media kind")
	errUnknownSDPType          = errors.New("unknown sdp type")
	errDuplicateSSRC           = errors.New("duplicate ssrc in session description")
	errNilStream               = errors.New("stream is nil")
	errStreamAlreadyAdded      = errors.New("stream is already added")
	errEmptyTrackLabel         = errors.New("track label is empty")
	errLabelWhitespace         = errors.New("label contains whitespace")
	errGathererClosed          = errors.New("ice gatherer is closed")
	errTransportNotGathering   = errors.New("ice transport has not started gathering")
	errUnsupportedServerScheme = errors.New("unsupported ice server scheme")
)

// NegotiationErrorKind classifies failures reported by the negotiation core.
type NegotiationErrorKind int

const (
	// NegotiationErrorKindUnknown is any error outside the taxonomy.
	NegotiationErrorKindUnknown NegotiationErrorKind = iota
	// NegotiationErrorKindMalformedServerURI degrades to an omitted server.
	NegotiationErrorKindMalformedServerURI
	// NegotiationErrorKindDuplicateTrackLabel fails CreateOffer/CreateAnswer.
	NegotiationErrorKindDuplicateTrackLabel
	// NegotiationErrorKindRegistryInvariantViolation rejects AddStream.
	NegotiationErrorKindRegistryInvariantViolation
	// NegotiationErrorKindNoRemoteDescription rejects AddICECandidate and
	// CreateAnswer before a remote description exists.
	NegotiationErrorKindNoRemoteDescription
	// NegotiationErrorKindSessionClosed is terminal.
	NegotiationErrorKindSessionClosed
	// NegotiationErrorKindNegotiationTimeout comes from the caller's own
	// bounded wait.
	NegotiationErrorKindNegotiationTimeout
	// NegotiationErrorKindCollaboratorFailure is an asynchronous failure of
	// the ICE transport or SDP codec.
	NegotiationErrorKindCollaboratorFailure
)

func (k NegotiationErrorKind) String() string {
	switch k {
	case NegotiationErrorKindMalformedServerURI:
		return "MalformedServerUri"
	case NegotiationErrorKindDuplicateTrackLabel:
		return "DuplicateTrackLabel"
	case NegotiationErrorKindRegistryInvariantViolation:
		return "RegistryInvariantViolation"
	case NegotiationErrorKindNoRemoteDescription:
		return "NoRemoteDescription"
	case NegotiationErrorKindSessionClosed:
		return "SessionClosed"
	case NegotiationErrorKindNegotiationTimeout:
		return "NegotiationTimeout"
	case NegotiationErrorKindCollaboratorFailure:
		return "CollaboratorFailure"
	default:
		return ErrUnknownType.Error()
	}
}

// ErrorKind classifies err into the negotiation error taxonomy.
func ErrorKind(err error) NegotiationErrorKind {
	switch {
	case err == nil:
		return NegotiationErrorKindUnknown
	case errors.Is(err, ErrConnectionClosed):
		return NegotiationErrorKindSessionClosed
	case errors.Is(err, ErrMalformedServerURI):
		return NegotiationErrorKindMalformedServerURI
	case errors.Is(err, ErrRegistryInvariantViolation):
		return NegotiationErrorKindRegistryInvariantViolation
	case errors.Is(err, ErrDuplicateTrackLabel):
		return NegotiationErrorKindDuplicateTrackLabel
	case errors.Is(err, ErrNoRemoteDescription):
		return NegotiationErrorKindNoRemoteDescription
	case errors.Is(err, ErrNegotiationTimeout):
		return NegotiationErrorKindNegotiationTimeout
	case errors.Is(err, ErrICETransportFailure), errors.Is(err, ErrSDPUnmarshalling):
		return NegotiationErrorKindCollaboratorFailure
	default:
		return NegotiationErrorKindUnknown
	}
}
