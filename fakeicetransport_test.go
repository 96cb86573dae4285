// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package jsep

import (
	"sync"
	"testing"

	"github.com/pion/ice/v4"
)

// fakeTransportFactory records every configuration it is handed and
// produces transports that emit a fixed set of host candidates.
type fakeTransportFactory struct {
	mu         sync.Mutex
	configs    []ICETransportConfig
	transports []*fakeTransport
	candidates []ice.Candidate
	gatherErr  error
}

func newFakeTransportFactory(t *testing.T, ports ...int) *fakeTransportFactory {
	t.Helper()

	factory := &fakeTransportFactory{}
	for _, port := range ports {
		factory.candidates = append(factory.candidates, newHostCandidate(t, "192.168.1.5", port))
	}

	return factory
}

func (f *fakeTransportFactory) New(config ICETransportConfig) (ICETransport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	transport := &fakeTransport{candidates: f.candidates, gatherErr: f.gatherErr}
	f.configs = append(f.configs, config)
	f.transports = append(f.transports, transport)

	return transport, nil
}

func (f *fakeTransportFactory) lastConfig() ICETransportConfig {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.configs) == 0 {
		return ICETransportConfig{}
	}

	return f.configs[len(f.configs)-1]
}

func (f *fakeTransportFactory) lastTransport() *fakeTransport {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.transports) == 0 {
		return nil
	}

	return f.transports[len(f.transports)-1]
}

type fakeTransport struct {
	mu         sync.Mutex
	candidates []ice.Candidate
	gatherErr  error
	gathers    int
	remote     []ice.Candidate
	closed     bool
}

func (f *fakeTransport) Gather(onCandidate func(ice.Candidate)) error {
	f.mu.Lock()
	f.gathers++
	if f.gatherErr != nil {
		f.mu.Unlock()

		return f.gatherErr
	}
	candidates := f.candidates
	f.mu.Unlock()

	go func() {
		for _, c := range candidates {
			onCandidate(c)
		}
		onCandidate(nil)
	}()

	return nil
}

func (f *fakeTransport) AddRemoteCandidate(candidate ice.Candidate) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.remote = append(f.remote, candidate)

	return nil
}

func (f *fakeTransport) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.closed = true

	return nil
}

func (f *fakeTransport) remoteCandidates() []ice.Candidate {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]ice.Candidate{}, f.remote...)
}

func (f *fakeTransport) gatherCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.gathers
}

func (f *fakeTransport) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.closed
}
