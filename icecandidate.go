// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package jsep

import (
	"fmt"
	"strings"

	"github.com/pion/ice/v4"
	"github.com/pion/jsep/pkg/rtcerr"
)

const candidatePrefix = "candidate:"

// ICECandidate is a local or remote ICE candidate together with the content
// it belongs to.
type ICECandidate struct {
	SDPMid        string
	SDPMLineIndex uint16

	candidate ice.Candidate
}

// ICECandidateInit is used to serialize ice candidates.
type ICECandidateInit struct {
	Candidate     string  `json:"candidate"`
	SDPMid        *string `json:"sdpMid,omitempty"`
	SDPMLineIndex *uint16 `json:"sdpMLineIndex,omitempty"`
}

// NewICECandidate parses a serialized candidate, as produced by Marshal.
// The candidate: prefix is optional.
func NewICECandidate(sdpMid string, sdpMLineIndex uint16, payload string) (*ICECandidate, error) {
	candidate, err := ice.UnmarshalCandidate(strings.TrimPrefix(payload, candidatePrefix))
	if err != nil {
		return nil, &rtcerr.SyntaxError{Err: fmt.Errorf("%w: %w", ErrInvalidCandidate, err)}
	}

	return &ICECandidate{
		SDPMid:        sdpMid,
		SDPMLineIndex: sdpMLineIndex,
		candidate:     candidate,
	}, nil
}

// NewICECandidateFromInit parses the JSON form of a candidate.
func NewICECandidateFromInit(init ICECandidateInit) (*ICECandidate, error) {
	var (
		sdpMid        string
		sdpMLineIndex uint16
	)
	if init.SDPMid != nil {
		sdpMid = *init.SDPMid
	}
	if init.SDPMLineIndex != nil {
		sdpMLineIndex = *init.SDPMLineIndex
	}

	return NewICECandidate(sdpMid, sdpMLineIndex, init.Candidate)
}

func newICECandidateFromICE(candidate ice.Candidate, sdpMid string, sdpMLineIndex uint16) ICECandidate {
	return ICECandidate{
		SDPMid:        sdpMid,
		SDPMLineIndex: sdpMLineIndex,
		candidate:     candidate,
	}
}

// Marshal returns the serialized candidate, candidate:<foundation> ...
func (c ICECandidate) Marshal() string {
	if c.candidate == nil {
		return ""
	}

	return candidatePrefix + c.candidate.Marshal()
}

// ToJSON returns an ICECandidateInit.
func (c ICECandidate) ToJSON() ICECandidateInit {
	sdpMid, sdpMLineIndex := c.SDPMid, c.SDPMLineIndex

	return ICECandidateInit{
		Candidate:     c.Marshal(),
		SDPMid:        &sdpMid,
		SDPMLineIndex: &sdpMLineIndex,
	}
}

// Address returns the transport address of the candidate.
func (c ICECandidate) Address() string {
	if c.candidate == nil {
		return ""
	}

	return c.candidate.Address()
}

// Port returns the transport port of the candidate.
func (c ICECandidate) Port() int {
	if c.candidate == nil {
		return 0
	}

	return c.candidate.Port()
}

// Equal reports whether both candidates describe the same transport
// address for the same content.
func (c ICECandidate) Equal(other ICECandidate) bool {
	if c.SDPMid != other.SDPMid || c.SDPMLineIndex != other.SDPMLineIndex {
		return false
	}
	if c.candidate == nil || other.candidate == nil {
		return c.candidate == other.candidate
	}

	return c.candidate.Equal(other.candidate)
}

func (c ICECandidate) String() string {
	return fmt.Sprintf("%s (mid=%q index=%d)", c.Marshal(), c.SDPMid, c.SDPMLineIndex)
}
