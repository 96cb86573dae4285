// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package jsep

// Configuration defines a set of parameters to configure how the
// peer-to-peer communication via PeerConnection is established.
type Configuration struct {
	// ICEServers defines a slice describing servers available to be used by
	// ICE, such as STUN and TURN servers. Malformed entries are skipped.
	ICEServers []ICEServer `json:"iceServers,omitempty"`
}
