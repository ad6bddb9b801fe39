// Package client implements the terminal client: a websocket connection
// to a table server and a Bubble Tea UI for playing hands.
package client

import (
	"fmt"

	"github.com/gorilla/websocket"

	"github.com/tymlipari/MRECards/internal/protocol"
)

// Conn is the client side of a table connection. Reads are surfaced
// through the Messages channel; the channel closes when the connection
// drops.
type Conn struct {
	ws       *websocket.Conn
	messages chan interface{}
}

// Dial connects to a table server and starts the read loop.
func Dial(url string) (*Conn, error) {
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", url, err)
	}

	c := &Conn{
		ws:       ws,
		messages: make(chan interface{}, 32),
	}
	go c.readLoop()
	return c, nil
}

// Messages returns the channel of decoded server messages.
func (c *Conn) Messages() <-chan interface{} {
	return c.messages
}

// Join requests a seat under the given name.
func (c *Conn) Join(name string) error {
	return c.Send(&protocol.Join{Type: protocol.TypeJoin, Name: name})
}

// Act answers an action request.
func (c *Conn) Act(action string, amount int) error {
	return c.Send(&protocol.Action{Type: protocol.TypeAction, Action: action, Amount: amount})
}

// Send writes a message to the server.
func (c *Conn) Send(msg interface{}) error {
	return c.ws.WriteJSON(msg)
}

// Close closes the connection.
func (c *Conn) Close() error {
	return c.ws.Close()
}

func (c *Conn) readLoop() {
	defer close(c.messages)
	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			return
		}
		msg, err := protocol.Decode(data)
		if err != nil {
			continue
		}
		c.messages <- msg
	}
}
