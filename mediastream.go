// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package jsep

// MediaStreamTrack is a single audio or video source inside a MediaStream.
// Its SSRC is assigned by the PeerConnection when a description is built,
// never by the caller.
type MediaStreamTrack struct {
	kind  MediaKind
	label string
	ssrc  uint32
}

// NewAudioTrack creates an audio track with the given label.
func NewAudioTrack(label string) MediaStreamTrack {
	return MediaStreamTrack{kind: MediaKindAudio, label: label}
}

// NewVideoTrack creates a video track with the given label.
func NewVideoTrack(label string) MediaStreamTrack {
	return MediaStreamTrack{kind: MediaKindVideo, label: label}
}

// Kind returns the media kind of the track.
func (t MediaStreamTrack) Kind() MediaKind { return t.kind }

// Label returns the label of the track.
func (t MediaStreamTrack) Label() string { return t.label }

// SSRC returns the synchronization source of the track, zero if none was
// assigned yet.
func (t MediaStreamTrack) SSRC() uint32 { return t.ssrc }

// MediaStream groups an ordered set of tracks under a label.
type MediaStream struct {
	label  string
	tracks []MediaStreamTrack

	// set by the registry that holds the stream
	handle StreamHandle
}

// NewMediaStream creates an empty stream.
func NewMediaStream(label string) *MediaStream {
	return &MediaStream{label: label}
}

// Label returns the label of the stream.
func (s *MediaStream) Label() string { return s.label }

// AddTrack appends a track to the stream. Adding a track to a stream that
// is already registered does not change the registered copy; remove and add
// the stream again to renegotiate it.
func (s *MediaStream) AddTrack(track MediaStreamTrack) {
	s.tracks = append(s.tracks, track)
}

// Tracks returns a copy of the tracks of the stream in insertion order.
func (s *MediaStream) Tracks() []MediaStreamTrack {
	return append([]MediaStreamTrack(nil), s.tracks...)
}

// Handle returns the handle of the stream inside the registry that holds it.
// The zero handle means the stream was never registered.
func (s *MediaStream) Handle() StreamHandle { return s.handle }

func (s *MediaStream) clone() *MediaStream {
	return &MediaStream{
		label:  s.label,
		tracks: s.Tracks(),
		handle: s.handle,
	}
}
