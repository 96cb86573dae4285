// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package jsep

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetEphemeralUDPPortRange(t *testing.T) {
	s := SettingEngine{}

	assert.Equal(t, uint16(0), s.ephemeralUDP.PortMin)
	assert.Equal(t, uint16(0), s.ephemeralUDP.PortMax)

	// set bad ephemeral ports
	assert.ErrorIs(t, s.SetEphemeralUDPPortRange(3000, 2999), errInvalidPortRange)

	assert.NoError(t, s.SetEphemeralUDPPortRange(3000, 4000))
	assert.Equal(t, uint16(3000), s.ephemeralUDP.PortMin)
	assert.Equal(t, uint16(4000), s.ephemeralUDP.PortMax)
}

func TestSetDefaultSTUNPort(t *testing.T) {
	s := SettingEngine{}
	assert.Equal(t, 3478, s.getDefaultSTUNPort())

	for _, port := range []int{-1, 0, 70000} {
		assert.ErrorIs(t, s.SetDefaultSTUNPort(port), errInvalidSTUNPort, port)
	}
	assert.Equal(t, 3478, s.getDefaultSTUNPort())

	assert.NoError(t, s.SetDefaultSTUNPort(19302))
	assert.Equal(t, 19302, s.getDefaultSTUNPort())
	assert.ErrorIs(t, s.SetDefaultSTUNPort(0), errInvalidSTUNPort)
	assert.Equal(t, 19302, s.getDefaultSTUNPort())
}

func TestSetICETransportFactory(t *testing.T) {
	s := SettingEngine{}
	assert.NotNil(t, s.getICETransportFactory())

	factory := newFakeTransportFactory(t)
	s.SetICETransportFactory(factory.New)

	_, err := s.getICETransportFactory()(ICETransportConfig{})
	assert.NoError(t, err)
	assert.Len(t, factory.configs, 1)
}

func TestSetNetworkTypes(t *testing.T) {
	s := SettingEngine{}
	s.SetNetworkTypes([]NetworkType{NetworkTypeUDP4})
	assert.Equal(t, []NetworkType{NetworkTypeUDP4}, s.candidates.ICENetworkTypes)
}
