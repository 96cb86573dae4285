// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package jsep

import "fmt"

// MediaKind determines the type of media a track carries.
type MediaKind int

const (
	// MediaKindUnknown is the enum's zero-value.
	MediaKindUnknown MediaKind = iota

	// MediaKindAudio indicates this is an audio track.
	MediaKindAudio

	// MediaKindVideo indicates this is a video track.
	MediaKindVideo
)

// This is done this way because of a linter.
const (
	mediaKindAudioStr = "audio"
	mediaKindVideoStr = "video"
)

// NewMediaKind creates a MediaKind from the media name used in SDP.
func NewMediaKind(raw string) (MediaKind, error) {
	switch raw {
	case mediaKindAudioStr:
		return MediaKindAudio, nil
	case mediaKindVideoStr:
		return MediaKindVideo, nil
	default:
		return MediaKindUnknown, fmt.Errorf("%w: %s", errUnknownMediaKind, raw)
	}
}

func (k MediaKind) String() string {
	switch k {
	case MediaKindAudio:
		return mediaKindAudioStr
	case MediaKindVideo:
		return mediaKindVideoStr
	default:
		return ErrUnknownType.Error()
	}
}

// mid is the content identifier offered for this kind.
func (k MediaKind) mid() string {
	if k == MediaKindAudio {
		return audioMid
	}

	return videoMid
}
