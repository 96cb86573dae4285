// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package jsep

import (
	"fmt"

	"github.com/pion/ice/v4"
)

// NetworkType represents the type of network candidates are gathered on.
type NetworkType int

const (
	// NetworkTypeUnknown is the enum's zero-value.
	NetworkTypeUnknown NetworkType = iota

	// NetworkTypeUDP4 indicates UDP over IPv4.
	NetworkTypeUDP4

	// NetworkTypeUDP6 indicates UDP over IPv6.
	NetworkTypeUDP6

	// NetworkTypeTCP4 indicates TCP over IPv4.
	NetworkTypeTCP4

	// NetworkTypeTCP6 indicates TCP over IPv6.
	NetworkTypeTCP6
)

// This is done this way because of a linter.
const (
	networkTypeUDP4Str = "udp4"
	networkTypeUDP6Str = "udp6"
	networkTypeTCP4Str = "tcp4"
	networkTypeTCP6Str = "tcp6"
)

func (t NetworkType) String() string {
	switch t {
	case NetworkTypeUDP4:
		return networkTypeUDP4Str
	case NetworkTypeUDP6:
		return networkTypeUDP6Str
	case NetworkTypeTCP4:
		return networkTypeTCP4Str
	case NetworkTypeTCP6:
		return networkTypeTCP6Str
	default:
		return ErrUnknownType.Error()
	}
}

// NewNetworkType allows create network type from string
// It will be useful for getting custom network types from external config.
func NewNetworkType(raw string) (NetworkType, error) {
	switch raw {
	case networkTypeUDP4Str:
		return NetworkTypeUDP4, nil
	case networkTypeUDP6Str:
		return NetworkTypeUDP6, nil
	case networkTypeTCP4Str:
		return NetworkTypeTCP4, nil
	case networkTypeTCP6Str:
		return NetworkTypeTCP6, nil
	default:
		return NetworkTypeUnknown, fmt.Errorf("%w: network type %s", ErrUnknownType, raw)
	}
}

func (t NetworkType) toICE() (ice.NetworkType, bool) {
	switch t {
	case NetworkTypeUDP4:
		return ice.NetworkTypeUDP4, true
	case NetworkTypeUDP6:
		return ice.NetworkTypeUDP6, true
	case NetworkTypeTCP4:
		return ice.NetworkTypeTCP4, true
	case NetworkTypeTCP6:
		return ice.NetworkTypeTCP6, true
	default:
		return 0, false
	}
}

func toICENetworkTypes(types []NetworkType) []ice.NetworkType {
	var converted []ice.NetworkType
	for _, t := range types {
		if networkType, ok := t.toICE(); ok {
			converted = append(converted, networkType)
		}
	}

	return converted
}
