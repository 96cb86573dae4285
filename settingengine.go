// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package jsep

import (
	"fmt"

	"github.com/pion/logging"
)

// SettingEngine allows influencing behavior in ways that are not
// part of the negotiation API itself.
type SettingEngine struct {
	ephemeralUDP struct {
		PortMin uint16
		PortMax uint16
	}
	candidates struct {
		ICENetworkTypes []NetworkType
	}
	defaultSTUNPort     int
	iceTransportFactory ICETransportFactory
	LoggerFactory       logging.LoggerFactory
}

// SetEphemeralUDPPortRange limits the pool of ephemeral ports that
// ICE UDP connections can allocate from.
func (e *SettingEngine) SetEphemeralUDPPortRange(portMin, portMax uint16) error {
	if portMax < portMin {
		return errInvalidPortRange
	}

	e.ephemeralUDP.PortMin = portMin
	e.ephemeralUDP.PortMax = portMax

	return nil
}

// SetNetworkTypes configures what types of candidate networks are supported
// during local and server reflexive gathering.
func (e *SettingEngine) SetNetworkTypes(candidateTypes []NetworkType) {
	e.candidates.ICENetworkTypes = candidateTypes
}

// SetDefaultSTUNPort sets the port used for ICE server URIs that carry
// none. It defaults to 3478 and must be in 1-65535.
func (e *SettingEngine) SetDefaultSTUNPort(port int) error {
	if port <= 0 || port > 65535 {
		return fmt.Errorf("%w: %d", errInvalidSTUNPort, port)
	}
	e.defaultSTUNPort = port

	return nil
}

// SetICETransportFactory replaces the ICE transport PeerConnections are
// built with. It defaults to NewAgentTransport.
func (e *SettingEngine) SetICETransportFactory(factory ICETransportFactory) {
	e.iceTransportFactory = factory
}

func (e *SettingEngine) getDefaultSTUNPort() int {
	if e.defaultSTUNPort == 0 {
		return defaultSTUNPort
	}

	return e.defaultSTUNPort
}

func (e *SettingEngine) getICETransportFactory() ICETransportFactory {
	if e.iceTransportFactory == nil {
		return NewAgentTransport
	}

	return e.iceTransportFactory
}
