// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package jsep

import (
	"testing"

	"github.com/pion/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildOffer(t *testing.T) {
	registry := newStreamRegistry(true)
	_, err := registry.add(newAudioVideoStream("local_stream_1", "audio_label", "video_label"))
	require.NoError(t, err)

	offer, err := buildOffer(registry.assignSSRCs())
	require.NoError(t, err)
	assert.Equal(t, SDPTypeOffer, offer.Type())

	contents := offer.Contents()
	require.Len(t, contents, 2)
	assert.Equal(t, MediaKindAudio, contents[0].Kind)
	assert.Equal(t, "audio", contents[0].Mid)
	assert.Equal(t, MediaKindVideo, contents[1].Kind)
	assert.Equal(t, "video", contents[1].Mid)

	audioSSRC, ok := offer.FirstSSRC(MediaKindAudio)
	require.True(t, ok)
	videoSSRC, ok := offer.FirstSSRC(MediaKindVideo)
	require.True(t, ok)
	assert.NotEqual(t, audioSSRC, videoSSRC)

	streams := offer.Streams()
	require.Len(t, streams, 1)
	assert.Equal(t, "local_stream_1", streams[0].Label())
	assert.Len(t, streams[0].Tracks(), 2)
}

func TestBuildOffer_Empty(t *testing.T) {
	offer, err := buildOffer(nil)
	require.NoError(t, err)
	require.Len(t, offer.Contents(), 2)

	_, ok := offer.FirstSSRC(MediaKindAudio)
	assert.False(t, ok)
	assert.Empty(t, offer.Streams())
}

func TestBuildOfferAnswer_DuplicateTrackLabel(t *testing.T) {
	log := logging.NewDefaultLoggerFactory().NewLogger("test")

	registry := newStreamRegistry(true)
	_, err := registry.add(newAudioVideoStream("local_stream_1", "track_label", "track_label"))
	require.NoError(t, err)

	_, err = buildOffer(registry.assignSSRCs())
	assert.ErrorIs(t, err, ErrDuplicateTrackLabel)
	assert.Equal(t, NegotiationErrorKindDuplicateTrackLabel, ErrorKind(err))

	remoteOffer, err := buildOffer(nil)
	require.NoError(t, err)
	_, err = buildAnswer(registry.assignSSRCs(), remoteOffer, log)
	assert.ErrorIs(t, err, ErrDuplicateTrackLabel)
}

func TestValidateTracks_DuplicateSSRC(t *testing.T) {
	err := validateTracks([]registryTrack{
		{streamLabel: "s", label: "a", kind: MediaKindAudio, ssrc: 1},
		{streamLabel: "s", label: "v", kind: MediaKindVideo, ssrc: 1},
	})
	assert.ErrorIs(t, err, errDuplicateSSRC)
}

func TestBuildAnswer_MirrorsOffer(t *testing.T) {
	log := logging.NewDefaultLoggerFactory().NewLogger("test")

	offer := NewSessionDescription(SDPTypeOffer, []ContentDescription{
		{Mid: "0", Kind: MediaKindVideo},
		{Mid: "1", Kind: MediaKindVideo},
		{Mid: "2", Kind: MediaKindAudio},
	})

	registry := newStreamRegistry(true)
	_, err := registry.add(newAudioVideoStream("local_stream_1", "audio_label", "video_label"))
	require.NoError(t, err)

	answer, err := buildAnswer(registry.assignSSRCs(), offer, log)
	require.NoError(t, err)
	assert.Equal(t, SDPTypeAnswer, answer.Type())

	contents := answer.Contents()
	require.Len(t, contents, 3)
	assert.Equal(t, "0", contents[0].Mid)
	assert.Equal(t, MediaKindVideo, contents[0].Kind)
	assert.Len(t, contents[0].Tracks, 1)
	assert.Equal(t, "1", contents[1].Mid)
	assert.Empty(t, contents[1].Tracks)
	assert.Equal(t, "2", contents[2].Mid)
	assert.Equal(t, "audio_label", contents[2].Tracks[0].Label)

	// Tracks of a kind the offer lacks are not answered.
	audioOnly := NewSessionDescription(SDPTypeOffer, []ContentDescription{{Mid: "audio", Kind: MediaKindAudio}})
	answer, err = buildAnswer(registry.assignSSRCs(), audioOnly, log)
	require.NoError(t, err)
	require.Len(t, answer.Contents(), 1)
	_, ok := answer.Content(MediaKindVideo)
	assert.False(t, ok)
}

func TestSessionDescription_Immutable(t *testing.T) {
	contents := []ContentDescription{{
		Mid:    "audio",
		Kind:   MediaKindAudio,
		Tracks: []TrackDescription{{StreamLabel: "s", Label: "a", SSRC: 1}},
	}}
	desc := NewSessionDescription(SDPTypeOffer, contents)

	contents[0].Tracks[0].SSRC = 2
	got := desc.Contents()
	assert.Equal(t, uint32(1), got[0].Tracks[0].SSRC)

	got[0].Tracks[0].SSRC = 3
	ssrc, ok := desc.FirstSSRC(MediaKindAudio)
	assert.True(t, ok)
	assert.Equal(t, uint32(1), ssrc)
}

func TestSessionDescription_HasContent(t *testing.T) {
	desc := NewSessionDescription(SDPTypeOffer, []ContentDescription{
		{Mid: "audio", Kind: MediaKindAudio},
		{Mid: "video", Kind: MediaKindVideo},
	})

	zero, two := uint16(0), uint16(2)
	assert.True(t, desc.hasContent("video", nil))
	assert.False(t, desc.hasContent("data", &zero))
	assert.True(t, desc.hasContent("", &zero))
	assert.False(t, desc.hasContent("", &two))
	assert.False(t, desc.hasContent("", nil))
}
