// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package jsep

import (
	"fmt"
	"net"
	"strings"

	"github.com/pion/logging"
	"github.com/pion/stun/v3"
)

// ICEServer describes a single STUN or TURN server that the ICE transport
// can use to discover candidates.
type ICEServer struct {
	URI      string `json:"uri"`
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
}

// ParseICEServer parses a stun: or turn: URI into STUN and TURN server
// records. A turn: entry yields a TURN record and a STUN record for the same
// host, since a TURN server also answers binding requests. Ports that are
// not given default to defaultPort.
//
// Accepted forms are stun:<host>[:<port>] and turn:[<user>@]<host>[:<port>].
// Anything else, including trailing whitespace separated tokens, fails with
// ErrMalformedServerURI.
func ParseICEServer(server ICEServer, defaultPort int) (stunServers, turnServers []*stun.URI, err error) {
	rawScheme, rest, found := strings.Cut(server.URI, ":")
	if !found {
		return nil, nil, fmt.Errorf("%w: missing scheme in %q", ErrMalformedServerURI, server.URI)
	}
	if strings.ContainsAny(rest, " \t\r\n") {
		return nil, nil, fmt.Errorf("%w: unexpected whitespace in %q", ErrMalformedServerURI, server.URI)
	}

	scheme := stun.NewSchemeType(rawScheme)
	username := server.Username
	switch scheme {
	case stun.SchemeTypeSTUN:
	case stun.SchemeTypeTURN:
		if user, hostPort, ok := strings.Cut(rest, "@"); ok {
			username, rest = user, hostPort
		}
	default:
		return nil, nil, fmt.Errorf("%w: %w: %s", ErrMalformedServerURI, errUnsupportedServerScheme, rawScheme)
	}

	uri, err := stun.ParseURI(rawScheme + ":" + rest)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %q: %w", ErrMalformedServerURI, server.URI, err)
	}
	if !hasExplicitPort(rest) {
		uri.Port = defaultPort
	}
	if uri.Port < 0 || uri.Port > 65535 {
		return nil, nil, fmt.Errorf("%w: %q: %w: %d", ErrMalformedServerURI, server.URI, stun.ErrPort, uri.Port)
	}

	stunServer := &stun.URI{
		Scheme: stun.SchemeTypeSTUN,
		Host:   uri.Host,
		Port:   uri.Port,
		Proto:  stun.ProtoTypeUDP,
	}
	if scheme == stun.SchemeTypeSTUN {
		return []*stun.URI{stunServer}, nil, nil
	}

	uri.Username, uri.Password = username, server.Password

	return []*stun.URI{stunServer}, []*stun.URI{uri}, nil
}

// hasExplicitPort reports whether the host part of an opaque stun/turn URI,
// with any query stripped, carries a port.
func hasExplicitPort(opaque string) bool {
	hostPort, _, _ := strings.Cut(opaque, "?")
	_, _, err := net.SplitHostPort(hostPort)

	return err == nil
}

// parseICEServers accumulates the STUN and TURN records of every server.
// Malformed entries are logged and skipped so a bad URI degrades to "no
// server configured" instead of failing PeerConnection creation.
func parseICEServers(
	servers []ICEServer,
	defaultPort int,
	log logging.LeveledLogger,
) (stunServers, turnServers []*stun.URI) {
	for _, server := range servers {
		if server.URI == "" {
			continue
		}

		stunURIs, turnURIs, err := ParseICEServer(server, defaultPort)
		if err != nil {
			log.Warnf("Ignoring ICE server: %v", err)

			continue
		}
		stunServers = append(stunServers, stunURIs...)
		turnServers = append(turnServers, turnURIs...)
	}

	return stunServers, turnServers
}
