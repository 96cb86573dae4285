// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package jsep

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNegotiator_OfferAnswer(t *testing.T) {
	n := newNegotiator()
	assert.Equal(t, ReadyStateNew, n.readyState)
	assert.False(t, n.offerPending())

	change, err := n.apply(stateChangeOpSetLocal, SDPTypeOffer)
	require.NoError(t, err)
	assert.Equal(t, &ReadyStateChange{State: ReadyStateOpening}, change)
	assert.True(t, n.offerPending())

	change, err = n.apply(stateChangeOpSetRemote, SDPTypeAnswer)
	require.NoError(t, err)
	assert.Equal(t, &ReadyStateChange{State: ReadyStateActive}, change)
	assert.Equal(t, SignalingStateStable, n.signalingState)
	assert.False(t, n.offerPending())
}

func TestNegotiator_Renegotiation(t *testing.T) {
	n := newNegotiator()
	_, err := n.apply(stateChangeOpSetRemote, SDPTypeOffer)
	require.NoError(t, err)
	_, err = n.apply(stateChangeOpSetLocal, SDPTypeAnswer)
	require.NoError(t, err)
	require.Equal(t, ReadyStateActive, n.readyState)

	change, err := n.apply(stateChangeOpSetLocal, SDPTypeOffer)
	require.NoError(t, err)
	assert.Equal(t, &ReadyStateChange{State: ReadyStateOpening, Renegotiation: true}, change)

	change, err = n.apply(stateChangeOpSetRemote, SDPTypeAnswer)
	require.NoError(t, err)
	assert.Equal(t, &ReadyStateChange{State: ReadyStateActive, Renegotiation: true}, change)
}

func TestNegotiator_ReplacedOffer(t *testing.T) {
	n := newNegotiator()
	_, err := n.apply(stateChangeOpSetLocal, SDPTypeOffer)
	require.NoError(t, err)

	change, err := n.apply(stateChangeOpSetLocal, SDPTypeOffer)
	require.NoError(t, err)
	assert.Nil(t, change)
	assert.Equal(t, ReadyStateOpening, n.readyState)
}

func TestNegotiator_InvalidTransition(t *testing.T) {
	n := newNegotiator()

	assert.ErrorIs(t, n.check(stateChangeOpSetLocal, SDPTypeAnswer), ErrIncorrectSignalingState)
	change, err := n.apply(stateChangeOpSetRemote, SDPTypeAnswer)
	assert.ErrorIs(t, err, ErrIncorrectSignalingState)
	assert.Nil(t, change)
	assert.Equal(t, ReadyStateNew, n.readyState)
	assert.Equal(t, SignalingStateStable, n.signalingState)
}

func TestNegotiator_Close(t *testing.T) {
	n := newNegotiator()
	_, err := n.apply(stateChangeOpSetLocal, SDPTypeOffer)
	require.NoError(t, err)

	assert.Equal(t, &ReadyStateChange{State: ReadyStateClosed}, n.close())
	assert.Nil(t, n.close())

	_, err = n.apply(stateChangeOpSetRemote, SDPTypeAnswer)
	assert.ErrorIs(t, err, ErrConnectionClosed)
	assert.Equal(t, ReadyStateClosed, n.readyState)
}
