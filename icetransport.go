// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package jsep

import (
	"fmt"
	"sync"

	"github.com/pion/ice/v4"
	"github.com/pion/logging"
	"github.com/pion/stun/v3"
)

// ICETransport is the connectivity provider a PeerConnection gathers local
// candidates from and hands remote candidates to.
type ICETransport interface {
	// Gather starts candidate discovery. onCandidate is invoked once per
	// discovered candidate and finally with nil once gathering completes.
	// It may be invoked before Gather returns.
	Gather(onCandidate func(ice.Candidate)) error

	// AddRemoteCandidate hands a remote candidate to connectivity checks.
	AddRemoteCandidate(candidate ice.Candidate) error

	Close() error
}

// ICETransportConfig is passed to an ICETransportFactory when a
// PeerConnection is created.
type ICETransportConfig struct {
	STUNServers   []*stun.URI
	TURNServers   []*stun.URI
	NetworkTypes  []ice.NetworkType
	PortMin       uint16
	PortMax       uint16
	LoggerFactory logging.LoggerFactory
}

// ICETransportFactory creates the ICETransport of a PeerConnection.
type ICETransportFactory func(config ICETransportConfig) (ICETransport, error)

// NewAgentTransport is the default ICETransportFactory. It gathers with a
// pion/ice Agent created on the first call to Gather.
func NewAgentTransport(config ICETransportConfig) (ICETransport, error) {
	if config.PortMax < config.PortMin {
		return nil, errInvalidPortRange
	}
	if config.LoggerFactory == nil {
		config.LoggerFactory = logging.NewDefaultLoggerFactory()
	}

	return &agentTransport{
		config: config,
		log:    config.LoggerFactory.NewLogger("ice"),
	}, nil
}

type agentTransport struct {
	mu     sync.Mutex
	config ICETransportConfig
	agent  *ice.Agent
	closed bool
	log    logging.LeveledLogger
}

func (t *agentTransport) Gather(onCandidate func(ice.Candidate)) error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()

		return errGathererClosed
	}
	if t.agent != nil {
		t.mu.Unlock()

		return nil
	}

	urls := append(append([]*stun.URI{}, t.config.STUNServers...), t.config.TURNServers...)
	networkTypes := t.config.NetworkTypes
	if len(networkTypes) == 0 {
		networkTypes = []ice.NetworkType{ice.NetworkTypeUDP4, ice.NetworkTypeUDP6}
	}

	agent, err := ice.NewAgent(&ice.AgentConfig{
		Urls:          urls,
		NetworkTypes:  networkTypes,
		PortMin:       t.config.PortMin,
		PortMax:       t.config.PortMax,
		LoggerFactory: t.config.LoggerFactory,
	})
	if err != nil {
		t.mu.Unlock()

		return fmt.Errorf("%w: %w", ErrICETransportFailure, err)
	}
	t.agent = agent
	t.mu.Unlock()

	if err = agent.OnCandidate(onCandidate); err != nil {
		return t.discardAgent(agent, err)
	}
	t.log.Debugf("Gathering with %d STUN and %d TURN servers", len(t.config.STUNServers), len(t.config.TURNServers))
	if err = agent.GatherCandidates(); err != nil {
		return t.discardAgent(agent, err)
	}

	return nil
}

// discardAgent closes an agent whose gathering failed so a later Gather
// starts over.
func (t *agentTransport) discardAgent(agent *ice.Agent, err error) error {
	t.mu.Lock()
	if t.agent == agent {
		t.agent = nil
	}
	t.mu.Unlock()

	if closeErr := agent.Close(); closeErr != nil {
		t.log.Warnf("Failed to close ICE agent: %v", closeErr)
	}

	return fmt.Errorf("%w: %w", ErrICETransportFailure, err)
}

func (t *agentTransport) AddRemoteCandidate(candidate ice.Candidate) error {
	t.mu.Lock()
	agent := t.agent
	t.mu.Unlock()

	if agent == nil {
		return errTransportNotGathering
	}
	if err := agent.AddRemoteCandidate(candidate); err != nil {
		return fmt.Errorf("%w: %w", ErrICETransportFailure, err)
	}

	return nil
}

func (t *agentTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}
	t.closed = true
	if t.agent == nil {
		return nil
	}

	return t.agent.Close()
}
