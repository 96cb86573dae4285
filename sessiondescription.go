// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package jsep

import (
	"fmt"

	"github.com/pion/jsep/pkg/rtcerr"
	"github.com/pion/logging"
)

// TrackDescription is a single track announced in a content section.
type TrackDescription struct {
	StreamLabel string `json:"streamLabel"`
	Label       string `json:"label"`
	SSRC        uint32 `json:"ssrc"`
}

// ContentDescription is one media section of a session description.
type ContentDescription struct {
	Mid    string             `json:"mid"`
	Kind   MediaKind          `json:"kind"`
	Tracks []TrackDescription `json:"tracks"`
}

func (c ContentDescription) clone() ContentDescription {
	c.Tracks = append([]TrackDescription(nil), c.Tracks...)

	return c
}

// SessionDescription is an offer or answer. It is immutable: accessors
// return copies.
type SessionDescription struct {
	typ      SDPType
	contents []ContentDescription

	// set on descriptions built from the local streams
	fromStreams    bool
	streamsVersion uint64
}

// NewSessionDescription creates a description from already parsed contents,
// e.g. by an SDPCodec. The contents are copied.
func NewSessionDescription(typ SDPType, contents []ContentDescription) *SessionDescription {
	d := &SessionDescription{typ: typ}
	for _, content := range contents {
		d.contents = append(d.contents, content.clone())
	}

	return d
}

// describe records the local stream mutation count d was built from. It
// is called once, before d is handed out.
func (d *SessionDescription) describe(streamsVersion uint64) {
	d.fromStreams = true
	d.streamsVersion = streamsVersion
}

// Type returns whether the description is an offer or an answer.
func (d *SessionDescription) Type() SDPType { return d.typ }

// Contents returns a copy of the content sections in order.
func (d *SessionDescription) Contents() []ContentDescription {
	contents := make([]ContentDescription, 0, len(d.contents))
	for _, content := range d.contents {
		contents = append(contents, content.clone())
	}

	return contents
}

// Content returns the first content section of the given kind.
func (d *SessionDescription) Content(kind MediaKind) (ContentDescription, bool) {
	for _, content := range d.contents {
		if content.Kind == kind {
			return content.clone(), true
		}
	}

	return ContentDescription{}, false
}

// FirstSSRC returns the SSRC of the first track of the first content of the
// given kind.
func (d *SessionDescription) FirstSSRC(kind MediaKind) (uint32, bool) {
	content, ok := d.Content(kind)
	if !ok || len(content.Tracks) == 0 {
		return 0, false
	}

	return content.Tracks[0].SSRC, true
}

// Streams groups the described tracks by stream label, in order of first
// appearance.
func (d *SessionDescription) Streams() []*MediaStream {
	var streams []*MediaStream
	byLabel := map[string]*MediaStream{}
	for _, content := range d.contents {
		for _, track := range content.Tracks {
			stream, ok := byLabel[track.StreamLabel]
			if !ok {
				stream = NewMediaStream(track.StreamLabel)
				byLabel[track.StreamLabel] = stream
				streams = append(streams, stream)
			}
			stream.AddTrack(MediaStreamTrack{kind: content.Kind, label: track.Label, ssrc: track.SSRC})
		}
	}

	return streams
}

// hasContent reports whether a content section matches the mid, or, if the
// mid is empty, the m-line index.
func (d *SessionDescription) hasContent(mid string, mLineIndex *uint16) bool {
	if mid != "" {
		for _, content := range d.contents {
			if content.Mid == mid {
				return true
			}
		}

		return false
	}

	return mLineIndex != nil && int(*mLineIndex) < len(d.contents)
}

// validateTracks rejects track sets that can not be described: a label used
// twice anywhere in the session, or an SSRC used twice.
func validateTracks(tracks []registryTrack) error {
	labels := map[string]MediaKind{}
	ssrcs := map[uint32]string{}
	for _, track := range tracks {
		if kind, exists := labels[track.label]; exists {
			return &rtcerr.InvalidAccessError{
				Err: fmt.Errorf("%w: %q used by %s and %s tracks", ErrDuplicateTrackLabel, track.label, kind, track.kind),
			}
		}
		labels[track.label] = track.kind

		if other, exists := ssrcs[track.ssrc]; exists {
			return &rtcerr.OperationError{
				Err: fmt.Errorf("%w: %d used by %q and %q", errDuplicateSSRC, track.ssrc, other, track.label),
			}
		}
		ssrcs[track.ssrc] = track.label
	}

	return nil
}

func contentFor(kind MediaKind, mid string, tracks []registryTrack) ContentDescription {
	content := ContentDescription{Mid: mid, Kind: kind}
	for _, track := range tracks {
		if track.kind != kind {
			continue
		}
		content.Tracks = append(content.Tracks, TrackDescription{
			StreamLabel: track.streamLabel,
			Label:       track.label,
			SSRC:        track.ssrc,
		})
	}

	return content
}

// buildOffer describes the local tracks. The offer always carries an audio
// and a video content, so the remote side can send both even when nothing
// is sent locally.
func buildOffer(tracks []registryTrack) (*SessionDescription, error) {
	if err := validateTracks(tracks); err != nil {
		return nil, err
	}

	return &SessionDescription{
		typ: SDPTypeOffer,
		contents: []ContentDescription{
			contentFor(MediaKindAudio, MediaKindAudio.mid(), tracks),
			contentFor(MediaKindVideo, MediaKindVideo.mid(), tracks),
		},
	}, nil
}

// buildAnswer describes the local tracks against offer. The answer mirrors
// the kinds, mids and order of the offer's contents; local tracks of a kind
// the offer lacks are left out.
func buildAnswer(tracks []registryTrack, offer *SessionDescription, log logging.LeveledLogger) (*SessionDescription, error) {
	if err := validateTracks(tracks); err != nil {
		return nil, err
	}

	answer := &SessionDescription{typ: SDPTypeAnswer}
	claimed := map[MediaKind]bool{}
	for _, content := range offer.contents {
		if claimed[content.Kind] {
			// Local tracks of a kind go into the first matching content.
			answer.contents = append(answer.contents, ContentDescription{Mid: content.Mid, Kind: content.Kind})

			continue
		}
		claimed[content.Kind] = true
		answer.contents = append(answer.contents, contentFor(content.Kind, content.Mid, tracks))
	}

	for _, track := range tracks {
		if !claimed[track.kind] {
			log.Warnf("Offer has no %s content, track %q is not answered", track.kind, track.label)
		}
	}

	return answer, nil
}
