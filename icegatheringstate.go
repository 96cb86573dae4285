// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package jsep

// ICEGatheringState describes the state of local candidate gathering.
type ICEGatheringState int

const (
	// ICEGatheringStateUnknown is the enum's zero-value.
	ICEGatheringStateUnknown ICEGatheringState = iota

	// ICEGatheringStateNew indicates gathering has not started, no local
	// description has been applied yet.
	ICEGatheringStateNew

	// ICEGatheringStateGathering indicates the transport is discovering
	// candidates.
	ICEGatheringStateGathering

	// ICEGatheringStateComplete indicates the transport reported no further
	// candidates.
	ICEGatheringStateComplete
)

// This is done this way because of a linter.
const (
	iceGatheringStateNewStr       = "new"
	iceGatheringStateGatheringStr = "gathering"
	iceGatheringStateCompleteStr  = "complete"
)

// NewICEGatheringState takes a string and converts it to ICEGatheringState.
func NewICEGatheringState(raw string) ICEGatheringState {
	switch raw {
	case iceGatheringStateNewStr:
		return ICEGatheringStateNew
	case iceGatheringStateGatheringStr:
		return ICEGatheringStateGathering
	case iceGatheringStateCompleteStr:
		return ICEGatheringStateComplete
	default:
		return ICEGatheringStateUnknown
	}
}

func (t ICEGatheringState) String() string {
	switch t {
	case ICEGatheringStateNew:
		return iceGatheringStateNewStr
	case ICEGatheringStateGathering:
		return iceGatheringStateGatheringStr
	case ICEGatheringStateComplete:
		return iceGatheringStateCompleteStr
	default:
		return ErrUnknownType.Error()
	}
}
