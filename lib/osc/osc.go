// Package osc speaks OSC 1.0 to lighting consoles over UDP or SLIP-framed TCP.
package osc

import (
	"encoding/binary"
	"fmt"
	"math"
)

type Message struct {
	Address string
	Args    []any
}

func NewMessage(addr string, args ...any) Message {
	return Message{Address: addr, Args: args}
}

func (m Message) String() string {
	s := m.Address
	for _, arg := range m.Args {
		s += fmt.Sprintf(" %v", arg)
	}
	return s
}

func pad(n int) int {
	return (4 - n%4) % 4
}

func appendString(buf []byte, s string) []byte {
	buf = append(buf, s...)
	buf = append(buf, 0)
	for i, n := 0, pad(len(s)+1); i < n; i++ {
		buf = append(buf, 0)
	}
	return buf
}

func typeTag(arg any) (byte, error) {
	switch v := arg.(type) {
	case int32:
		return 'i', nil
	case float32:
		return 'f', nil
	case string:
		return 's', nil
	case []byte:
		return 'b', nil
	case int64:
		return 'h', nil
	case float64:
		return 'd', nil
	case bool:
		if v {
			return 'T', nil
		}
		return 'F', nil
	case nil:
		return 'N', nil
	}
	return 0, fmt.Errorf("osc: unsupported argument type %T", arg)
}

// Encode returns the OSC packet for m. Arguments must be int32, float32,
// string, []byte, int64, float64, bool or nil.
func (m Message) Encode() ([]byte, error) {
	if len(m.Address) == 0 || m.Address[0] != '/' {
		return nil, fmt.Errorf("osc: invalid address %q", m.Address)
	}

	tags := []byte{','}
	for _, arg := range m.Args {
		t, err := typeTag(arg)
		if err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}

	var buf []byte
	buf = appendString(buf, m.Address)
	buf = appendString(buf, string(tags))

	for _, arg := range m.Args {
		switch v := arg.(type) {
		case int32:
			buf = binary.BigEndian.AppendUint32(buf, uint32(v))
		case float32:
			buf = binary.BigEndian.AppendUint32(buf, math.Float32bits(v))
		case string:
			buf = appendString(buf, v)
		case []byte:
			buf = binary.BigEndian.AppendUint32(buf, uint32(len(v)))
			buf = append(buf, v...)
			for i, n := 0, pad(len(v)); i < n; i++ {
				buf = append(buf, 0)
			}
		case int64:
			buf = binary.BigEndian.AppendUint64(buf, uint64(v))
		case float64:
			buf = binary.BigEndian.AppendUint64(buf, math.Float64bits(v))
		}
	}

	return buf, nil
}

func readString(data []byte, pos int) (string, int, error) {
	end := pos
	for end < len(data) && data[end] != 0 {
		end++
	}
	if end >= len(data) {
		return "", pos, fmt.Errorf("osc: unterminated string")
	}
	return string(data[pos:end]), end + 1 + pad(end-pos+1), nil
}

func Decode(data []byte) (Message, error) {
	if len(data) < 4 {
		return Message{}, fmt.Errorf("osc: message too short")
	}

	addr, pos, err := readString(data, 0)
	if err != nil {
		return Message{}, err
	}
	m := Message{Address: addr}

	if pos >= len(data) || data[pos] != ',' {
		return m, nil
	}
	tags, pos, err := readString(data, pos)
	if err != nil {
		return m, err
	}

	for _, t := range tags[1:] {
		switch t {
		case 'i':
			if pos+4 > len(data) {
				return m, fmt.Errorf("osc: truncated int32")
			}
			m.Args = append(m.Args, int32(binary.BigEndian.Uint32(data[pos:])))
			pos += 4
		case 'f':
			if pos+4 > len(data) {
				return m, fmt.Errorf("osc: truncated float32")
			}
			m.Args = append(m.Args, math.Float32frombits(binary.BigEndian.Uint32(data[pos:])))
			pos += 4
		case 's':
			var s string
			s, pos, err = readString(data, pos)
			if err != nil {
				return m, err
			}
			m.Args = append(m.Args, s)
		case 'b':
			if pos+4 > len(data) {
				return m, fmt.Errorf("osc: truncated blob size")
			}
			size := int(binary.BigEndian.Uint32(data[pos:]))
			pos += 4
			if pos+size > len(data) {
				return m, fmt.Errorf("osc: truncated blob")
			}
			b := make([]byte, size)
			copy(b, data[pos:pos+size])
			m.Args = append(m.Args, b)
			pos += size + pad(size)
		case 'h':
			if pos+8 > len(data) {
				return m, fmt.Errorf("osc: truncated int64")
			}
			m.Args = append(m.Args, int64(binary.BigEndian.Uint64(data[pos:])))
			pos += 8
		case 'd':
			if pos+8 > len(data) {
				return m, fmt.Errorf("osc: truncated float64")
			}
			m.Args = append(m.Args, math.Float64frombits(binary.BigEndian.Uint64(data[pos:])))
			pos += 8
		case 'T':
			m.Args = append(m.Args, true)
		case 'F':
			m.Args = append(m.Args, false)
		case 'N':
			m.Args = append(m.Args, nil)
		default:
			return m, fmt.Errorf("osc: unknown type tag %q", t)
		}
	}

	return m, nil
}
