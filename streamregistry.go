// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package jsep

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/pion/jsep/pkg/rtcerr"
	"github.com/pion/randutil"
)

// StreamHandle identifies a stream held by a registry. Removing the stream
// invalidates every outstanding handle to it.
type StreamHandle struct {
	registry   uint32
	index      uint32
	generation uint32
}

// IsZero reports whether the handle was never assigned.
func (h StreamHandle) IsZero() bool { return h.generation == 0 }

type streamSlot struct {
	generation uint32
	stream     *MediaStream
}

// registryTrack is a track as seen by description builders.
type registryTrack struct {
	streamLabel string
	label       string
	kind        MediaKind
	ssrc        uint32
}

// streamRegistry owns the local or the remote streams of a PeerConnection.
// Streams live in an arena of slots; a handle is valid while its generation
// matches the slot's. The local registry enforces the single audio track
// and per-kind unique label invariants, the remote one mirrors whatever the
// remote description describes.
type streamRegistry struct {
	mu sync.RWMutex

	id                uint32
	enforceInvariants bool

	slots []streamSlot
	free  []uint32
	order []StreamHandle

	ssrcGen randutil.MathRandomGenerator
}

var registryIDs atomic.Uint32 //nolint:gochecknoglobals

func newStreamRegistry(enforceInvariants bool) *streamRegistry {
	return &streamRegistry{
		id:                registryIDs.Add(1),
		enforceInvariants: enforceInvariants,
		ssrcGen:           randutil.NewMathRandomGenerator(),
	}
}

// add takes a copy of stream into the registry and stamps the new handle on
// both the copy and the caller's stream.
func (r *streamRegistry) add(stream *MediaStream) (StreamHandle, error) {
	if stream == nil {
		return StreamHandle{}, &rtcerr.InvalidAccessError{Err: errNilStream}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.slotLocked(stream.handle); err == nil {
		return StreamHandle{}, &rtcerr.InvalidAccessError{Err: errStreamAlreadyAdded}
	}
	if r.enforceInvariants {
		if err := r.checkInvariants(stream); err != nil {
			return StreamHandle{}, err
		}
	}

	owned := stream.clone()
	for i := range owned.tracks {
		owned.tracks[i].ssrc = 0
	}
	handle := r.insertLocked(owned)
	stream.handle = handle

	return handle, nil
}

func (r *streamRegistry) insertLocked(owned *MediaStream) StreamHandle {
	var index uint32
	if n := len(r.free); n > 0 {
		index = r.free[n-1]
		r.free = r.free[:n-1]
	} else {
		index = uint32(len(r.slots)) //nolint:gosec // G115
		r.slots = append(r.slots, streamSlot{})
	}
	slot := &r.slots[index]
	slot.generation++
	slot.stream = owned

	owned.handle = StreamHandle{registry: r.id, index: index, generation: slot.generation}
	r.order = append(r.order, owned.handle)

	return owned.handle
}

func (r *streamRegistry) releaseLocked(handle StreamHandle) *MediaStream {
	slot := &r.slots[handle.index]
	released := slot.stream
	slot.stream = nil
	slot.generation++
	r.free = append(r.free, handle.index)

	return released
}

// checkInvariants must be called with mu held.
func (r *streamRegistry) checkInvariants(stream *MediaStream) error {
	audioTracks := 0
	labels := map[MediaKind]map[string]struct{}{
		MediaKindAudio: {},
		MediaKindVideo: {},
	}
	addTrack := func(track MediaStreamTrack) error {
		if track.label == "" {
			return &rtcerr.InvalidAccessError{Err: errEmptyTrackLabel}
		}
		if hasWhitespace(track.label) {
			return &rtcerr.InvalidAccessError{
				Err: fmt.Errorf("%w: %w: track %q", ErrRegistryInvariantViolation, errLabelWhitespace, track.label),
			}
		}
		if track.kind == MediaKindAudio {
			audioTracks++
		}
		byLabel, ok := labels[track.kind]
		if !ok {
			return &rtcerr.InvalidAccessError{Err: fmt.Errorf("%w: %s", errUnknownMediaKind, track.kind)}
		}
		if _, exists := byLabel[track.label]; exists {
			return &rtcerr.InvalidAccessError{
				Err: fmt.Errorf("%w: %w: %s track %q", ErrRegistryInvariantViolation, ErrDuplicateTrackLabel, track.kind, track.label),
			}
		}
		byLabel[track.label] = struct{}{}

		return nil
	}

	if hasWhitespace(stream.label) {
		return &rtcerr.InvalidAccessError{
			Err: fmt.Errorf("%w: %w: stream %q", ErrRegistryInvariantViolation, errLabelWhitespace, stream.label),
		}
	}

	for _, handle := range r.order {
		for _, track := range r.slots[handle.index].stream.tracks {
			if err := addTrack(track); err != nil {
				return err
			}
		}
	}
	for _, track := range stream.tracks {
		if err := addTrack(track); err != nil {
			return err
		}
	}

	if audioTracks > 1 {
		return &rtcerr.InvalidAccessError{Err: fmt.Errorf("%w: %w", ErrRegistryInvariantViolation, ErrAudioTrackLimit)}
	}

	return nil
}

// remove drops the stream the handle refers to and invalidates the handle.
func (r *streamRegistry) remove(handle StreamHandle) (*MediaStream, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.slotLocked(handle); err != nil {
		return nil, err
	}
	removed := r.releaseLocked(handle)

	for i, h := range r.order {
		if h == handle {
			r.order = append(r.order[:i], r.order[i+1:]...)

			break
		}
	}

	return removed.clone(), nil
}

func (r *streamRegistry) slotLocked(handle StreamHandle) (*streamSlot, error) {
	if handle.IsZero() || handle.registry != r.id || int(handle.index) >= len(r.slots) {
		return nil, &rtcerr.InvalidAccessError{Err: ErrStreamNotFound}
	}
	slot := &r.slots[handle.index]
	if slot.generation != handle.generation || slot.stream == nil {
		return nil, &rtcerr.InvalidAccessError{Err: ErrStreamNotFound}
	}

	return slot, nil
}

func (r *streamRegistry) count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.order)
}

func (r *streamRegistry) at(i int) (*MediaStream, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i < 0 || i >= len(r.order) {
		return nil, &rtcerr.RangeError{Err: fmt.Errorf("%w: %d not in [0, %d)", ErrStreamIndexOutOfRange, i, len(r.order))}
	}

	return r.slots[r.order[i].index].stream.clone(), nil
}

// collection returns an immutable snapshot of the streams in order.
func (r *streamRegistry) collection() StreamCollection {
	r.mu.RLock()
	defer r.mu.RUnlock()

	streams := make([]*MediaStream, 0, len(r.order))
	for _, handle := range r.order {
		streams = append(streams, r.slots[handle.index].stream.clone())
	}

	return StreamCollection{streams: streams}
}

// assignSSRCs snapshots every track in registry order, assigning an SSRC to
// each track that has none. SSRCs are non-zero, unique across the registry
// and stay with a track until its stream is removed.
func (r *streamRegistry) assignSSRCs() []registryTrack {
	r.mu.Lock()
	defer r.mu.Unlock()

	inUse := map[uint32]struct{}{}
	for _, handle := range r.order {
		for _, track := range r.slots[handle.index].stream.tracks {
			if track.ssrc != 0 {
				inUse[track.ssrc] = struct{}{}
			}
		}
	}

	var tracks []registryTrack
	for _, handle := range r.order {
		stream := r.slots[handle.index].stream
		for i := range stream.tracks {
			track := &stream.tracks[i]
			if track.ssrc == 0 {
				track.ssrc = r.newSSRCLocked(inUse)
			}
			tracks = append(tracks, registryTrack{
				streamLabel: stream.label,
				label:       track.label,
				kind:        track.kind,
				ssrc:        track.ssrc,
			})
		}
	}

	return tracks
}

func (r *streamRegistry) newSSRCLocked(inUse map[uint32]struct{}) uint32 {
	for {
		ssrc := r.ssrcGen.Uint32()
		if _, taken := inUse[ssrc]; ssrc == 0 || taken {
			continue
		}
		inUse[ssrc] = struct{}{}

		return ssrc
	}
}

// sync replaces the registry contents with streams, matching existing
// entries by label. Streams that keep their label keep their handle and get
// their tracks replaced. It returns copies of the added and removed streams.
func (r *streamRegistry) sync(streams []*MediaStream) (added, removed []*MediaStream) {
	r.mu.Lock()
	defer r.mu.Unlock()

	wanted := map[string]*MediaStream{}
	for _, stream := range streams {
		wanted[stream.label] = stream
	}

	kept := r.order[:0]
	for _, handle := range r.order {
		slot := &r.slots[handle.index]
		if next, ok := wanted[slot.stream.label]; ok {
			slot.stream.tracks = next.Tracks()
			kept = append(kept, handle)

			continue
		}
		removed = append(removed, r.releaseLocked(handle))
	}
	r.order = kept

	for _, stream := range streams {
		if r.hasLabelLocked(stream.label) {
			continue
		}
		r.insertLocked(stream.clone())
		added = append(added, r.slots[r.order[len(r.order)-1].index].stream.clone())
	}

	return added, removed
}

func (r *streamRegistry) hasLabelLocked(label string) bool {
	for _, handle := range r.order {
		if r.slots[handle.index].stream.label == label {
			return true
		}
	}

	return false
}

// StreamCollection is an ordered, immutable snapshot of the streams held by
// a PeerConnection.
type StreamCollection struct {
	streams []*MediaStream
}

// Count returns the number of streams in the collection.
func (c StreamCollection) Count() int {
	return len(c.streams)
}

// At returns the stream at index i. The stream is a copy; pass it to
// RemoveStream to remove the registered original.
func (c StreamCollection) At(i int) (*MediaStream, error) {
	if i < 0 || i >= len(c.streams) {
		return nil, &rtcerr.RangeError{Err: fmt.Errorf("%w: %d not in [0, %d)", ErrStreamIndexOutOfRange, i, len(c.streams))}
	}

	return c.streams[i].clone(), nil
}

// Labels returns the stream labels in order.
func (c StreamCollection) Labels() []string {
	labels := make([]string, 0, len(c.streams))
	for _, stream := range c.streams {
		labels = append(labels, stream.label)
	}

	return labels
}
