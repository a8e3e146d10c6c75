package osc

import (
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/golang/glog"
)

const (
	DefaultTCPPort = 3032
	DefaultUDPPort = 8000

	queueSize = 1024
)

// Client sends commands to a console. Send never blocks the caller: messages
// are queued and written by a single goroutine, and dropped when the queue is
// full. Console write errors are logged, not returned.
type Client struct {
	conn    net.Conn
	framed  bool
	queue   chan Message
	done    chan struct{}
	inbound chan Message

	mu     sync.Mutex
	closed bool
}

// Dial connects to a console. network is "tcp" (SLIP framed) or "udp".
func Dial(network string, addr string) (*Client, error) {
	switch network {
	case "tcp", "udp":
	default:
		return nil, fmt.Errorf("osc: unsupported network %q", network)
	}
	conn, err := net.DialTimeout(network, addr, 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("osc: dial %s %s: %w", network, addr, err)
	}
	c := &Client{
		conn:    conn,
		framed:  network == "tcp",
		queue:   make(chan Message, queueSize),
		done:    make(chan struct{}),
		inbound: make(chan Message, 64),
	}
	go c.writeLoop()
	if c.framed {
		go c.readLoop()
	}
	glog.Infof("[osc]connected %s %s\n", network, addr)
	return c, nil
}

// Inbound carries messages the console sends back over TCP. It is closed
// once the connection is.
func (c *Client) Inbound() <-chan Message {
	return c.inbound
}

// Send queues a single string-argument command, the form consoles accept for
// command-line input.
func (c *Client) Send(address string, argument string) {
	c.SendMessage(NewMessage(address, argument))
}

func (c *Client) SendMessage(m Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		glog.Warningf("[osc]send after close %s\n", m)
		return
	}
	select {
	case c.queue <- m:
	default:
		glog.Warningf("[osc]queue full, drop %s\n", m)
	}
}

// Close flushes queued messages and closes the connection.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	close(c.queue)
	c.mu.Unlock()

	<-c.done
	err := c.conn.Close()
	if !c.framed {
		close(c.inbound)
	}
	return err
}

func (c *Client) writeLoop() {
	defer close(c.done)
	for m := range c.queue {
		packet, err := m.Encode()
		if err != nil {
			glog.Warningf("[osc]encode %s: %s\n", m, err)
			continue
		}
		if c.framed {
			packet = slipEncode(packet)
		}
		if _, err := c.conn.Write(packet); err != nil {
			glog.Warningf("[osc]write %s: %s\n", m, err)
			continue
		}
		glog.V(2).Infof("[osc]-> %s\n", m)
	}
}

func (c *Client) readLoop() {
	defer close(c.inbound)
	buf := make([]byte, 0, 65536)
	tmp := make([]byte, 4096)
	for {
		n, err := c.conn.Read(tmp)
		if err != nil {
			return
		}
		buf = append(buf, tmp[:n]...)
		for {
			frame, rest, ok := nextFrame(buf)
			if !ok {
				break
			}
			buf = rest
			m, err := Decode(frame)
			if err != nil {
				continue
			}
			select {
			case c.inbound <- m:
			default:
			}
		}
	}
}
