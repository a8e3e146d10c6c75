package osc

const (
	slipEnd    = 0xC0
	slipEsc    = 0xDB
	slipEscEnd = 0xDC
	slipEscEsc = 0xDD
)

// SLIP framing (RFC 1055) as used by OSC 1.1 stream transports.

func slipEncode(data []byte) []byte {
	out := make([]byte, 0, len(data)+2)
	out = append(out, slipEnd)
	for _, b := range data {
		switch b {
		case slipEnd:
			out = append(out, slipEsc, slipEscEnd)
		case slipEsc:
			out = append(out, slipEsc, slipEscEsc)
		default:
			out = append(out, b)
		}
	}
	return append(out, slipEnd)
}

func slipDecode(data []byte) []byte {
	out := make([]byte, 0, len(data))
	for i := 0; i < len(data); i++ {
		if data[i] != slipEsc || i+1 >= len(data) {
			out = append(out, data[i])
			continue
		}
		switch data[i+1] {
		case slipEscEnd:
			out = append(out, slipEnd)
		case slipEscEsc:
			out = append(out, slipEsc)
		}
		i++
	}
	return out
}

// nextFrame pulls the first complete frame off data. Empty frames between
// back-to-back END bytes are skipped.
func nextFrame(data []byte) (frame []byte, rest []byte, ok bool) {
	start := -1
	for i, b := range data {
		if b != slipEnd {
			continue
		}
		if start == -1 || i == start+1 {
			start = i
			continue
		}
		return slipDecode(data[start+1 : i]), data[i+1:], true
	}
	return nil, data, false
}
