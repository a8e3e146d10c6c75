package osc

import (
	"fmt"
	"net"
	"sync"
	"time"
)

// MockServer is a console stand-in that records every message it receives.
type MockServer struct {
	network  string
	listener net.Listener
	packet   net.PacketConn

	mu       sync.Mutex
	conns    []net.Conn
	received []Message
	notify   chan struct{}
}

func NewMockServer(network string) (*MockServer, error) {
	m := &MockServer{network: network, notify: make(chan struct{}, 1)}
	switch network {
	case "tcp":
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return nil, err
		}
		m.listener = ln
		go m.serve()
	case "udp":
		pc, err := net.ListenPacket("udp", "127.0.0.1:0")
		if err != nil {
			return nil, err
		}
		m.packet = pc
		go m.servePackets()
	default:
		return nil, fmt.Errorf("osc: unsupported network %q", network)
	}
	return m, nil
}

func (m *MockServer) Addr() string {
	if m.listener != nil {
		return m.listener.Addr().String()
	}
	return m.packet.LocalAddr().String()
}

func (m *MockServer) Close() error {
	if m.packet != nil {
		return m.packet.Close()
	}
	err := m.listener.Close()
	m.mu.Lock()
	for _, conn := range m.conns {
		conn.Close()
	}
	m.mu.Unlock()
	return err
}

func (m *MockServer) Messages() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Message, len(m.received))
	copy(out, m.received)
	return out
}

// WaitFor blocks until at least n messages arrived or timeout passes, and
// returns what was received.
func (m *MockServer) WaitFor(n int, timeout time.Duration) []Message {
	deadline := time.After(timeout)
	for {
		msgs := m.Messages()
		if len(msgs) >= n {
			return msgs
		}
		select {
		case <-m.notify:
		case <-deadline:
			return m.Messages()
		}
	}
}

// Reply pushes a message to every connected TCP client.
func (m *MockServer) Reply(msg Message) error {
	packet, err := msg.Encode()
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, conn := range m.conns {
		conn.Write(slipEncode(packet))
	}
	return nil
}

func (m *MockServer) record(data []byte) {
	msg, err := Decode(data)
	if err != nil {
		return
	}
	m.mu.Lock()
	m.received = append(m.received, msg)
	m.mu.Unlock()
	select {
	case m.notify <- struct{}{}:
	default:
	}
}

func (m *MockServer) serve() {
	for {
		conn, err := m.listener.Accept()
		if err != nil {
			return
		}
		m.mu.Lock()
		m.conns = append(m.conns, conn)
		m.mu.Unlock()
		go m.handleConn(conn)
	}
}

func (m *MockServer) handleConn(conn net.Conn) {
	buf := make([]byte, 0, 65536)
	tmp := make([]byte, 4096)
	for {
		n, err := conn.Read(tmp)
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
			m.record(frame)
		}
	}
}

func (m *MockServer) servePackets() {
	buf := make([]byte, 65536)
	for {
		n, _, err := m.packet.ReadFrom(buf)
		if err != nil {
			return
		}
		data := make([]byte, n)
		copy(data, buf[:n])
		m.record(data)
	}
}
