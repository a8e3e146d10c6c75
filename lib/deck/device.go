// Package deck drives an Elgato Stream Deck as a controller palette: one key
// per controller, painted with its name and color, pressed to mute.
package deck

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"

	xdraw "golang.org/x/image/draw"

	"rafaelmartins.com/p/usbhid"
)

const elgatoVendorID = 0x0fd9

type Model struct {
	Name     string
	Keys     int
	KeyCols  int
	KeySize  int
	FlipKeys bool
}

var ModelXL = Model{
	Name:     "XL",
	Keys:     32,
	KeyCols:  8,
	KeySize:  96,
	FlipKeys: true,
}

var ModelPlus = Model{
	Name:    "Plus",
	Keys:    8,
	KeyCols: 4,
	KeySize: 120,
}

var productModels = map[uint16]*Model{
	0x006c: &ModelXL,
	0x008f: &ModelXL,
	0x0084: &ModelPlus,
}

// Device is an open Stream Deck. Only the keys are used; encoders and the
// touch strip of the Plus are ignored.
type Device struct {
	dev   *usbhid.Device
	model *Model
}

func Open() (*Device, error) {
	devices, err := usbhid.Enumerate(func(dev *usbhid.Device) bool {
		return dev.VendorId() == elgatoVendorID && productModels[dev.ProductId()] != nil
	})
	if err != nil {
		return nil, fmt.Errorf("deck: enumerate: %w", err)
	}
	if len(devices) == 0 {
		return nil, fmt.Errorf("deck: no device found")
	}

	dev := devices[0]
	if err := dev.Open(true); err != nil {
		return nil, fmt.Errorf("deck: open: %w", err)
	}
	return &Device{dev: dev, model: productModels[dev.ProductId()]}, nil
}

func (d *Device) Model() *Model   { return d.model }
func (d *Device) Close() error    { return d.dev.Close() }
func (d *Device) Product() string { return d.dev.Product() }

func (d *Device) SetBrightness(perc byte) error {
	pl := make([]byte, d.dev.GetFeatureReportLength())
	pl[0] = 0x08
	pl[1] = min(perc, 100)
	return d.dev.SetFeatureReport(3, pl)
}

// SetKeyImage scales img to the key and uploads it as a JPEG.
func (d *Device) SetKeyImage(key int, img image.Image) error {
	if key < 0 || key >= d.model.Keys {
		return fmt.Errorf("deck: invalid key %d", key)
	}

	sz := d.model.KeySize
	dst := image.NewRGBA(image.Rect(0, 0, sz, sz))
	xdraw.BiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Over, nil)
	if d.model.FlipKeys {
		dst = rotate180(dst)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 100}); err != nil {
		return err
	}
	return d.writeKey(byte(key), buf.Bytes())
}

func (d *Device) ClearKey(key int) error {
	return d.SetKeyImage(key, &image.Uniform{color.Black})
}

func rotate180(src *image.RGBA) *image.RGBA {
	b := src.Bounds()
	out := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			out.Set(b.Max.X-1-x, b.Max.Y-1-y, src.At(x, y))
		}
	}
	return out
}

// writeKey splits a key image into output reports: an 8 byte header of
// command, key, last flag, chunk length and page, then the payload.
func (d *Device) writeKey(key byte, data []byte) error {
	reportLen := int(d.dev.GetOutputReportLength())
	const hdrLen = 8
	chunkLen := reportLen - hdrLen

	for page, start := 0, 0; start < len(data); page++ {
		end := min(start+chunkLen, len(data))
		last := byte(0)
		if end == len(data) {
			last = 1
		}
		chunk := data[start:end]

		report := make([]byte, reportLen)
		copy(report, []byte{
			0x02, 0x07, key, last,
			byte(len(chunk)), byte(len(chunk) >> 8),
			byte(page), byte(page >> 8),
		})
		copy(report[hdrLen:], chunk)
		if err := d.dev.SetOutputReport(2, report); err != nil {
			return err
		}
		start = end
	}
	return nil
}

type KeyEvent struct {
	Key     int
	Pressed bool
}

// ReadKeys blocks reading input reports and sends a KeyEvent for every key
// whose state changed.
func (d *Device) ReadKeys(ch chan<- KeyEvent) error {
	states := make([]byte, d.model.Keys)
	for {
		_, buf, err := d.dev.GetInputReport()
		if err != nil {
			return err
		}
		if len(buf) < 4 || buf[0] != 0x00 {
			continue
		}
		for i, st := range keyStates(buf, d.model.Keys) {
			if st != states[i] {
				ch <- KeyEvent{Key: i, Pressed: st > 0}
				states[i] = st
			}
		}
	}
}

// keyStates picks the per-key bytes out of a key input report, which start
// after a 3 byte header.
func keyStates(buf []byte, keys int) []byte {
	const start = 3
	if len(buf) <= start {
		return nil
	}
	return buf[start:min(len(buf), start+keys)]
}
