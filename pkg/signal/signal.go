// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

// Package signal carries session descriptions and ICE candidates between
// two peers over a websocket.
package signal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pion/jsep"
	"github.com/pion/logging"
)

// MessageType names the payload of a Message.
type MessageType string

// Message types exchanged on a Conn.
const (
	MessageTypeOffer     MessageType = "offer"
	MessageTypeAnswer    MessageType = "answer"
	MessageTypeCandidate MessageType = "candidate"
)

const handshakeTimeout = 10 * time.Second

var (
	errUnknownMessageType = errors.New("signal: unknown message type")
	errEmptyCandidate     = errors.New("signal: candidate message without candidate")
	errNilDescription     = errors.New("signal: nil session description")
)

// Message is the JSON frame written to the websocket.
type Message struct {
	Type      MessageType            `json:"type"`
	SDP       string                 `json:"sdp,omitempty"`
	Candidate *jsep.ICECandidateInit `json:"candidate,omitempty"`
}

// Signal is a received message. Exactly one field is set.
type Signal struct {
	Description *jsep.SessionDescription
	Candidate   *jsep.ICECandidateInit
}

// Conn is a signaling channel. Sends may be called concurrently, Receive
// must be called from a single goroutine.
type Conn struct {
	ws      *websocket.Conn
	codec   jsep.SDPCodec
	writeMu sync.Mutex
	log     logging.LeveledLogger
}

// Dial connects to a signaling endpoint served by Upgrade.
func Dial(ctx context.Context, url string, codec jsep.SDPCodec, loggerFactory logging.LoggerFactory) (*Conn, error) {
	dialer := websocket.Dialer{
		HandshakeTimeout: handshakeTimeout,
	}

	ws, resp, err := dialer.DialContext(ctx, url, nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("signal: dial %s: %w", url, err)
	}

	return NewConn(ws, codec, loggerFactory), nil
}

// Upgrade turns an HTTP request into a signaling channel.
func Upgrade(w http.ResponseWriter, r *http.Request, codec jsep.SDPCodec, loggerFactory logging.LoggerFactory) (*Conn, error) {
	upgrader := websocket.Upgrader{
		HandshakeTimeout: handshakeTimeout,
		CheckOrigin:      func(*http.Request) bool { return true },
	}

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, fmt.Errorf("signal: upgrade: %w", err)
	}

	return NewConn(ws, codec, loggerFactory), nil
}

// NewConn wraps an established websocket. A nil codec selects the default
// SDP codec.
func NewConn(ws *websocket.Conn, codec jsep.SDPCodec, loggerFactory logging.LoggerFactory) *Conn {
	if loggerFactory == nil {
		loggerFactory = logging.NewDefaultLoggerFactory()
	}
	if codec == nil {
		codec = jsep.NewJSEPCodec(loggerFactory)
	}

	return &Conn{
		ws:    ws,
		codec: codec,
		log:   loggerFactory.NewLogger("signal"),
	}
}

// SendDescription serializes desc and writes it to the peer.
func (c *Conn) SendDescription(desc *jsep.SessionDescription) error {
	if desc == nil {
		return errNilDescription
	}

	text, err := c.codec.Marshal(desc)
	if err != nil {
		return err
	}

	msgType := MessageTypeOffer
	if desc.Type() == jsep.SDPTypeAnswer {
		msgType = MessageTypeAnswer
	}

	return c.write(Message{Type: msgType, SDP: text})
}

// SendCandidate writes a local candidate to the peer.
func (c *Conn) SendCandidate(candidate *jsep.ICECandidate) error {
	if candidate == nil {
		return errEmptyCandidate
	}
	init := candidate.ToJSON()

	return c.write(Message{Type: MessageTypeCandidate, Candidate: &init})
}

func (c *Conn) write(msg Message) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.log.Tracef("sending %s", msg.Type)

	return c.ws.WriteJSON(msg)
}

// Receive blocks until the next message arrives.
func (c *Conn) Receive() (Signal, error) {
	var msg Message
	if err := c.ws.ReadJSON(&msg); err != nil {
		return Signal{}, err
	}
	c.log.Tracef("received %s", msg.Type)

	switch msg.Type {
	case MessageTypeOffer, MessageTypeAnswer:
		desc, err := c.codec.Unmarshal(msg.SDP, jsep.NewSDPType(string(msg.Type)))
		if err != nil {
			return Signal{}, err
		}

		return Signal{Description: desc}, nil
	case MessageTypeCandidate:
		if msg.Candidate == nil {
			return Signal{}, errEmptyCandidate
		}

		return Signal{Candidate: msg.Candidate}, nil
	default:
		return Signal{}, fmt.Errorf("%w: %q", errUnknownMessageType, msg.Type)
	}
}

// Close sends a close frame and closes the websocket.
func (c *Conn) Close() error {
	c.writeMu.Lock()
	err := c.ws.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second),
	)
	c.writeMu.Unlock()

	if closeErr := c.ws.Close(); closeErr != nil {
		return closeErr
	}
	if err != nil && !errors.Is(err, websocket.ErrCloseSent) {
		c.log.Debugf("close frame not sent: %v", err)
	}

	return nil
}
