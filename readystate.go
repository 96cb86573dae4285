// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package jsep

// ReadyState indicates the negotiation lifecycle phase of a PeerConnection.
type ReadyState int

const (
	// ReadyStateUnknown is the enum's zero-value.
	ReadyStateUnknown ReadyState = iota

	// ReadyStateNew indicates no offer has been applied yet.
	ReadyStateNew

	// ReadyStateOpening indicates an offer has been applied, locally or
	// remotely, and the matching answer is outstanding.
	ReadyStateOpening

	// ReadyStateActive indicates the last offer/answer exchange completed.
	ReadyStateActive

	// ReadyStateClosed indicates the PeerConnection has been closed. It is
	// terminal.
	ReadyStateClosed
)

// This is done this way because of a linter.
const (
	readyStateNewStr     = "new"
	readyStateOpeningStr = "opening"
	readyStateActiveStr  = "active"
	readyStateClosedStr  = "closed"
)

func (t ReadyState) String() string {
	switch t {
	case ReadyStateNew:
		return readyStateNewStr
	case ReadyStateOpening:
		return readyStateOpeningStr
	case ReadyStateActive:
		return readyStateActiveStr
	case ReadyStateClosed:
		return readyStateClosedStr
	default:
		return ErrUnknownType.Error()
	}
}

// ReadyStateChange is delivered to OnReadyStateChange handlers.
// Renegotiation is set when an Opening state is entered from Active, that
// is, when a new offer is layered on an already negotiated session.
type ReadyStateChange struct {
	State         ReadyState
	Renegotiation bool
}
