// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package jsep

import (
	"testing"
	"time"

	"github.com/pion/ice/v4"
	"github.com/pion/transport/v4/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAgentTransport_InvalidPortRange(t *testing.T) {
	_, err := NewAgentTransport(ICETransportConfig{PortMin: 5000, PortMax: 4000})
	assert.ErrorIs(t, err, errInvalidPortRange)
}

func TestAgentTransport_AddRemoteCandidateBeforeGather(t *testing.T) {
	transport, err := NewAgentTransport(ICETransportConfig{})
	require.NoError(t, err)

	candidate := newHostCandidate(t, "10.0.0.1", 5000)
	assert.ErrorIs(t, transport.AddRemoteCandidate(candidate), errTransportNotGathering)
	assert.NoError(t, transport.Close())
	assert.NoError(t, transport.Close())
}

func TestAgentTransport_GatherAfterClose(t *testing.T) {
	transport, err := NewAgentTransport(ICETransportConfig{})
	require.NoError(t, err)
	require.NoError(t, transport.Close())

	assert.ErrorIs(t, transport.Gather(func(ice.Candidate) {}), errGathererClosed)
}

func TestAgentTransport_Gather(t *testing.T) {
	lim := test.TimeOut(time.Second * 20)
	defer lim.Stop()

	transport, err := NewAgentTransport(ICETransportConfig{
		NetworkTypes: []ice.NetworkType{ice.NetworkTypeUDP4},
	})
	require.NoError(t, err)

	done := make(chan struct{})
	require.NoError(t, transport.Gather(func(c ice.Candidate) {
		if c == nil {
			close(done)
		}
	}))

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		assert.Fail(t, "gathering did not complete")
	}

	// a second call is a no-op
	assert.NoError(t, transport.Gather(func(ice.Candidate) {}))
	assert.NoError(t, transport.Close())
}
