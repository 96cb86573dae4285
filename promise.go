// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package jsep

import (
	"context"
)

// DescriptionResult is delivered once by CreateOffer and CreateAnswer.
type DescriptionResult struct {
	Description *SessionDescription
	Err         error
}

// AwaitDescription waits for the result of CreateOffer or CreateAnswer.
// It returns ErrNegotiationTimeout if ctx ends first.
func AwaitDescription(ctx context.Context, result <-chan DescriptionResult) (*SessionDescription, error) {
	select {
	case r := <-result:
		return r.Description, r.Err
	case <-ctx.Done():
		return nil, ErrNegotiationTimeout
	}
}

// AwaitError waits for the result of SetLocalDescription or
// SetRemoteDescription. It returns ErrNegotiationTimeout if ctx ends first.
func AwaitError(ctx context.Context, result <-chan error) error {
	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ErrNegotiationTimeout
	}
}

// GatheringCompletePromise is a Pion specific helper function that returns a channel that is closed
// when gathering is complete.
// This function may be helpful in cases where you are unable to trickle your ICE Candidates.
//
// It is better to not use this function, and instead trickle candidates.
// If you use this function you will see longer connection startup times.
// When the call is connected you will see no impact however.
func GatheringCompletePromise(pc *PeerConnection) (gatherComplete <-chan struct{}) {
	return pc.iceGatherer.Done()
}
