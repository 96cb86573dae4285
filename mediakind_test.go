// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package jsep

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewMediaKind(t *testing.T) {
	kind, err := NewMediaKind("audio")
	assert.NoError(t, err)
	assert.Equal(t, MediaKindAudio, kind)

	kind, err = NewMediaKind("video")
	assert.NoError(t, err)
	assert.Equal(t, MediaKindVideo, kind)

	kind, err = NewMediaKind("application")
	assert.ErrorIs(t, err, errUnknownMediaKind)
	assert.Equal(t, MediaKindUnknown, kind)
}

func TestMediaKind_String(t *testing.T) {
	assert.Equal(t, "audio", MediaKindAudio.String())
	assert.Equal(t, "video", MediaKindVideo.String())
	assert.Equal(t, unknownStr, MediaKindUnknown.String())
}
