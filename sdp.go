// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package jsep

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/pion/jsep/internal/util"
	"github.com/pion/jsep/pkg/rtcerr"
	"github.com/pion/logging"
	"github.com/pion/sdp/v3"
)

// SDPCodec converts session descriptions to and from their SDP text form.
// A round trip must preserve the type, the content order and the SSRC of
// every track.
type SDPCodec interface {
	Marshal(desc *SessionDescription) (string, error)
	Unmarshal(text string, typ SDPType) (*SessionDescription, error)
}

const (
	cnameLength = 16

	audioPayloadType = 111
	videoPayloadType = 96

	attrKeySendRecv = "sendrecv"
)

// JSEPCodec is the default SDPCodec. It writes JSEP style SDP with one
// bundled media section per content and announces tracks through
// a=ssrc msid lines.
type JSEPCodec struct {
	cname string
	log   logging.LeveledLogger
}

// NewJSEPCodec creates a JSEPCodec. A nil loggerFactory selects the default
// pion logger factory.
func NewJSEPCodec(loggerFactory logging.LoggerFactory) *JSEPCodec {
	if loggerFactory == nil {
		loggerFactory = logging.NewDefaultLoggerFactory()
	}

	return &JSEPCodec{
		cname: util.MathRandAlpha(cnameLength),
		log:   loggerFactory.NewLogger("sdp"),
	}
}

// Marshal serializes desc into SDP text.
func (c *JSEPCodec) Marshal(desc *SessionDescription) (string, error) {
	if desc == nil {
		return "", &rtcerr.InvalidAccessError{Err: ErrNilSessionDescription}
	}

	d, err := sdp.NewJSEPSessionDescription(false)
	if err != nil {
		return "", err
	}

	mids := make([]string, 0, len(desc.contents))
	for _, content := range desc.contents {
		media := sdp.NewJSEPMediaDescription(content.Kind.String(), []string{}).
			WithValueAttribute(sdp.AttrKeyMID, content.Mid).
			WithPropertyAttribute(sdp.AttrKeyRTCPMux).
			WithPropertyAttribute(attrKeySendRecv)

		switch content.Kind {
		case MediaKindAudio:
			media.WithCodec(audioPayloadType, "opus", 48000, 2, "minptime=10;useinbandfec=1")
		case MediaKindVideo:
			media.WithCodec(videoPayloadType, "VP8", 90000, 0, "")
		default:
			return "", fmt.Errorf("%w: %s", errUnknownMediaKind, content.Kind)
		}

		for _, track := range content.Tracks {
			if hasWhitespace(track.StreamLabel) || hasWhitespace(track.Label) {
				return "", &rtcerr.InvalidAccessError{
					Err: fmt.Errorf("%w: msid %q %q", errLabelWhitespace, track.StreamLabel, track.Label),
				}
			}
			media.WithMediaSource(track.SSRC, c.cname, track.StreamLabel, track.Label)
		}

		d.WithMedia(media)
		mids = append(mids, content.Mid)
	}
	if len(mids) > 0 {
		d.WithValueAttribute(sdp.AttrKeyGroup, "BUNDLE "+strings.Join(mids, " "))
	}

	raw, err := d.Marshal()
	if err != nil {
		return "", err
	}

	return string(raw), nil
}

// Unmarshal parses SDP text into a description of the given type. Media
// sections other than audio and video are skipped.
func (c *JSEPCodec) Unmarshal(text string, typ SDPType) (*SessionDescription, error) {
	parsed := &sdp.SessionDescription{}
	if err := parsed.UnmarshalString(text); err != nil {
		return nil, &rtcerr.SyntaxError{Err: fmt.Errorf("%w: %w", ErrSDPUnmarshalling, err)}
	}

	desc := &SessionDescription{typ: typ}
	for i, media := range parsed.MediaDescriptions {
		kind, err := NewMediaKind(media.MediaName.Media)
		if err != nil {
			c.log.Debugf("Skipping media section %d: %v", i, err)

			continue
		}

		mid, ok := media.Attribute(sdp.AttrKeyMID)
		if !ok {
			mid = strconv.Itoa(i)
		}

		desc.contents = append(desc.contents, ContentDescription{
			Mid:    mid,
			Kind:   kind,
			Tracks: c.tracksFromMedia(media),
		})
	}

	return desc, nil
}

// tracksFromMedia extracts the tracks announced by a=ssrc msid lines, in
// order of first appearance. RTX repair flows declared through an FID
// ssrc-group are not tracks and are skipped.
func (c *JSEPCodec) tracksFromMedia(media *sdp.MediaDescription) []TrackDescription {
	rtxRepairFlows := map[uint32]bool{}
	for _, attr := range media.Attributes {
		if attr.Key != sdp.AttrKeySSRCGroup {
			continue
		}
		split := strings.Split(attr.Value, " ")
		if len(split) != 3 || split[0] != sdp.SemanticTokenFlowIdentification {
			continue
		}
		rtxRepairFlow, err := strconv.ParseUint(split[2], 10, 32)
		if err != nil {
			c.log.Warnf("Failed to parse SSRC: %v", err)

			continue
		}
		rtxRepairFlows[uint32(rtxRepairFlow)] = true
	}

	var tracks []TrackDescription
	seen := map[uint32]bool{}
	for _, attr := range media.Attributes {
		if attr.Key != sdp.AttrKeySSRC {
			continue
		}

		split := strings.Split(attr.Value, " ")
		ssrc64, err := strconv.ParseUint(split[0], 10, 32)
		if err != nil {
			c.log.Warnf("Failed to parse SSRC: %v", err)

			continue
		}
		ssrc := uint32(ssrc64)
		if rtxRepairFlows[ssrc] || seen[ssrc] {
			continue
		}
		if len(split) != 3 || !strings.HasPrefix(split[1], "msid:") {
			continue
		}

		seen[ssrc] = true
		tracks = append(tracks, TrackDescription{
			StreamLabel: strings.TrimPrefix(split[1], "msid:"),
			Label:       split[2],
			SSRC:        ssrc,
		})
	}

	return tracks
}

// hasWhitespace reports whether label cannot be carried as a single msid
// token.
func hasWhitespace(label string) bool {
	return strings.IndexFunc(label, unicode.IsSpace) >= 0
}

var defaultSDPCodec = NewJSEPCodec(nil) //nolint:gochecknoglobals

// MarshalSessionDescription serializes desc with the default JSEPCodec.
func MarshalSessionDescription(desc *SessionDescription) (string, error) {
	return defaultSDPCodec.Marshal(desc)
}

// UnmarshalSessionDescription parses text with the default JSEPCodec.
func UnmarshalSessionDescription(text string, typ SDPType) (*SessionDescription, error) {
	return defaultSDPCodec.Unmarshal(text, typ)
}
