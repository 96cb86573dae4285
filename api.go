// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package jsep

import (
	"github.com/pion/logging"
)

// API bundles the settings shared by the PeerConnections it creates.
// The package level NewPeerConnection uses an API with default settings.
type API struct {
	settingEngine *SettingEngine
	sdpCodec      SDPCodec
}

// NewAPI Creates a new API object for keeping semi-global settings to PeerConnection objects.
func NewAPI(options ...func(*API)) *API {
	a := &API{}

	for _, o := range options {
		o(a)
	}

	if a.settingEngine == nil {
		a.settingEngine = &SettingEngine{}
	}

	if a.settingEngine.LoggerFactory == nil {
		a.settingEngine.LoggerFactory = logging.NewDefaultLoggerFactory()
	}

	if a.sdpCodec == nil {
		a.sdpCodec = NewJSEPCodec(a.settingEngine.LoggerFactory)
	}

	return a
}

// WithSettingEngine allows providing a SettingEngine to the API.
// Settings should not be changed after passing the engine to an API.
func WithSettingEngine(s SettingEngine) func(a *API) {
	return func(a *API) {
		a.settingEngine = &s
	}
}

// WithSDPCodec replaces the codec descriptions are serialized with.
func WithSDPCodec(codec SDPCodec) func(a *API) {
	return func(a *API) {
		a.sdpCodec = codec
	}
}

// SDPCodec returns the codec used to serialize descriptions for signaling.
func (api *API) SDPCodec() SDPCodec {
	return api.sdpCodec
}
