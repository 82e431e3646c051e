package ws

// Client is one connected browser, keyed by a server-assigned UUID.
// The relay never sees the underlying socket; the id is the player key
// everywhere.
type Client struct {
	id   string
	send chan []byte
}

func newClient(id string) *Client {
	return &Client{
		id:   id,
		send: make(chan []byte, sendBuffer),
	}
}

// ID returns the connection identifier.
func (c *Client) ID() string { return c.id }

// enqueue hands a frame to the writePump. A stalled client's full
// buffer drops the frame rather than blocking the hub.
func (c *Client) enqueue(raw []byte) {
	select {
	case c.send <- raw:
	default:
	}
}
