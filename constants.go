// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package jsep

const (
	// Unknown defines default public constant to use for "enum" like struct
	// comparisons when no value was defined.
	Unknown    = iota
	unknownStr = "unknown"

	// defaultSTUNPort is applied to STUN/TURN URIs without an explicit port
	// unless the SettingEngine overrides it.
	defaultSTUNPort = 3478

	audioMid = "audio"
	videoMid = "video"
)
