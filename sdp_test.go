// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package jsep

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSEPCodec_RoundTrip(t *testing.T) {
	codec := NewJSEPCodec(nil)

	offer := NewSessionDescription(SDPTypeOffer, []ContentDescription{
		{
			Mid:  "audio",
			Kind: MediaKindAudio,
			Tracks: []TrackDescription{
				{StreamLabel: "local_stream_1", Label: "audio_label", SSRC: 1111},
			},
		},
		{
			Mid:  "video",
			Kind: MediaKindVideo,
			Tracks: []TrackDescription{
				{StreamLabel: "local_stream_1", Label: "video_label", SSRC: 2222},
				{StreamLabel: "local_stream_2", Label: "screen", SSRC: 3333},
			},
		},
	})

	text, err := codec.Marshal(offer)
	require.NoError(t, err)
	assert.Contains(t, text, "a=group:BUNDLE audio video")
	assert.Contains(t, text, "a=ssrc:1111 msid:local_stream_1 audio_label")

	parsed, err := codec.Unmarshal(text, SDPTypeOffer)
	require.NoError(t, err)
	assert.Equal(t, offer.Type(), parsed.Type())
	assert.Equal(t, offer.Contents(), parsed.Contents())

	// The same text may be applied as an answer.
	asAnswer, err := codec.Unmarshal(text, SDPTypeAnswer)
	require.NoError(t, err)
	assert.Equal(t, SDPTypeAnswer, asAnswer.Type())
	assert.Equal(t, offer.Contents(), asAnswer.Contents())
}

func TestJSEPCodec_WhitespaceLabels(t *testing.T) {
	codec := NewJSEPCodec(nil)

	for _, track := range []TrackDescription{
		{StreamLabel: "my stream", Label: "camera", SSRC: 1111},
		{StreamLabel: "camera", Label: "front camera", SSRC: 2222},
	} {
		desc := NewSessionDescription(SDPTypeOffer, []ContentDescription{
			{Mid: "video", Kind: MediaKindVideo, Tracks: []TrackDescription{track}},
		})

		text, err := codec.Marshal(desc)
		assert.ErrorIs(t, err, errLabelWhitespace)
		assert.Empty(t, text)
	}
}

func TestJSEPCodec_PackageHelpers(t *testing.T) {
	offer, err := buildOffer(nil)
	require.NoError(t, err)

	text, err := MarshalSessionDescription(offer)
	require.NoError(t, err)

	parsed, err := UnmarshalSessionDescription(text, SDPTypeOffer)
	require.NoError(t, err)
	assert.Equal(t, offer.Contents(), parsed.Contents())

	_, err = MarshalSessionDescription(nil)
	assert.ErrorIs(t, err, ErrNilSessionDescription)
}

func TestJSEPCodec_Unmarshal(t *testing.T) {
	codec := NewJSEPCodec(nil)

	t.Run("invalid", func(t *testing.T) {
		_, err := codec.Unmarshal("not sdp", SDPTypeOffer)
		assert.ErrorIs(t, err, ErrSDPUnmarshalling)
		assert.Equal(t, NegotiationErrorKindCollaboratorFailure, ErrorKind(err))
	})

	t.Run("foreign sections and rtx", func(t *testing.T) {
		text := strings.Join([]string{
			"v=0",
			"o=- 4596489990601351948 2 IN IP4 127.0.0.1",
			"s=-",
			"t=0 0",
			"m=application 9 UDP/DTLS/SCTP webrtc-datachannel",
			"c=IN IP4 0.0.0.0",
			"a=mid:data",
			"m=video 9 UDP/TLS/RTP/SAVPF 96 97",
			"c=IN IP4 0.0.0.0",
			"a=rtpmap:96 VP8/90000",
			"a=rtpmap:97 rtx/90000",
			"a=ssrc-group:FID 1000 2000",
			"a=ssrc:1000 cname:abc",
			"a=ssrc:1000 msid:stream track",
			"a=ssrc:2000 cname:abc",
			"a=ssrc:2000 msid:stream track",
			"a=ssrc:3000 cname:abc",
			"",
		}, "\r\n")

		desc, err := codec.Unmarshal(text, SDPTypeOffer)
		require.NoError(t, err)

		contents := desc.Contents()
		require.Len(t, contents, 1)
		assert.Equal(t, MediaKindVideo, contents[0].Kind)
		assert.Equal(t, "1", contents[0].Mid)
		assert.Equal(t, []TrackDescription{{StreamLabel: "stream", Label: "track", SSRC: 1000}}, contents[0].Tracks)
	})
}
