package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/golang/glog"
	"gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"stagecpv/lib/cpv"
	"stagecpv/lib/deck"
	"stagecpv/lib/dialect"
	"stagecpv/lib/osc"
	"stagecpv/lib/patch"
	"stagecpv/lib/show"
	"stagecpv/lib/surface"
)

var (
	showFile     = flag.String("show", "show.yaml", "show file")
	patchFile    = flag.String("patch", "patch.yaml", "patch file")
	dialectsFile = flag.String("dialects", "", "extra console dialects")
	consoleAddr  = flag.String("console", fmt.Sprintf("127.0.0.1:%d", osc.DefaultTCPPort), "console OSC address")
	network      = flag.String("network", "tcp", "console transport, tcp or udp")
	fps          = flag.Int("fps", 30, "playback frames per second")
	surfacePort  = flag.String("surface", "x-touch", "MIDI port of the control surface, empty to disable")
	useDeck      = flag.Bool("deck", false, "show a mute palette on an attached Stream Deck")
)

type runner struct {
	mu        sync.Mutex
	show      *show.Show
	pipeline  *cpv.Pipeline
	transport *surface.Transport
	desk      *surface.Desk
	palette   *deck.Palette
}

func (r *runner) gateContext() cpv.GateContext {
	return cpv.NewGateContext(r.show.Flags, r.transport)
}

// edit runs a surface edit, mirrored across the selection, and moves the
// motor faders of everything it touched. The caller holds r.mu.
func (r *runner) edit(c cpv.Controller, param cpv.Parameter) error {
	err := r.pipeline.Edit(r.gateContext(), c, param, cpv.EditOptions{AllSelected: true})
	if r.desk != nil {
		for _, o := range r.show.CoSelected(c) {
			r.desk.Echo(o)
		}
		for _, o := range r.show.Downstream(c) {
			r.desk.Echo(o)
		}
	}
	return err
}

func (r *runner) frame() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.pipeline.Frame(r.gateContext(), r.show.Controllers()); err != nil {
		glog.Warningf("[run]frame %d: %v\n", r.transport.Frame(), err)
	}
}

func main() {
	flag.Parse()
	defer glog.Flush()

	s, err := show.LoadFile(*showFile)
	if err != nil {
		glog.Exitf("[run]%v\n", err)
	}
	patches, err := patch.LoadFile(*patchFile)
	if err != nil {
		glog.Exitf("[run]%v\n", err)
	}
	dialects := dialect.NewRegistry()
	if *dialectsFile != "" {
		if err := dialects.LoadFile(*dialectsFile); err != nil {
			glog.Exitf("[run]%v\n", err)
		}
	}

	client, err := osc.Dial(*network, *consoleAddr)
	if err != nil {
		glog.Exitf("[run]%v\n", err)
	}
	defer client.Close()
	go func() {
		for m := range client.Inbound() {
			glog.V(1).Infof("[run]<- %s\n", m)
		}
	}()

	r := &runner{show: s, transport: &surface.Transport{}}
	r.pipeline, err = cpv.New(cpv.Config{
		Console:   s.Console,
		Harmony:   s.Harmony,
		Patches:   patches,
		Dialects:  dialects,
		Sink:      client,
		Scene:     s,
		Topology:  s,
		Selection: s,
	})
	if err != nil {
		glog.Exitf("[run]%v\n", err)
	}

	if *surfacePort != "" {
		defer midi.CloseDriver()
		stop, err := r.listen(*surfacePort)
		if err != nil {
			glog.Exitf("[run]surface: %v\n", err)
		}
		defer stop()
	}

	var presses chan deck.KeyEvent
	if *useDeck {
		dev, err := deck.Open()
		if err != nil {
			glog.Exitf("[run]%v\n", err)
		}
		defer dev.Close()
		presses = r.openDeck(dev)
	}

	// Push the whole show once so the console starts from the file's look.
	r.frame()
	glog.Infof("[run]%s ready, %d controllers\n", s.Console, len(s.Controllers()))

	ticker := time.NewTicker(time.Second / time.Duration(max(1, *fps)))
	defer ticker.Stop()
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	for {
		select {
		case <-ticker.C:
			if r.transport.Tick() {
				r.frame()
			}
		case ev := <-presses:
			r.mu.Lock()
			if err := r.palette.Press(ev); err != nil {
				glog.Warningf("[run]deck key %d: %v\n", ev.Key, err)
			}
			r.mu.Unlock()
		case <-sig:
			return
		}
	}
}

func (r *runner) listen(port string) (func(), error) {
	inPort, err := surface.FindInPort(port)
	if err != nil {
		return nil, err
	}
	outPort, err := surface.FindOutPort(port)
	if err != nil {
		return nil, err
	}
	out, err := surface.NewOutput(outPort, surface.DeviceIDXTouch)
	if err != nil {
		return nil, err
	}

	r.desk = &surface.Desk{
		Controllers: r.show.Controllers(),
		Transport:   r.transport,
		Output:      out,
		Edit:        r.edit,
		PanStep:     2,
	}
	if err := r.desk.Refresh(); err != nil {
		return nil, err
	}

	glog.Infof("[run]surface on %s\n", inPort)
	return midi.ListenTo(inPort, func(msg midi.Message, timestampms int32) {
		action, ok := surface.Decode(msg)
		if !ok {
			return
		}
		glog.V(2).Infof("[run]%s\n", action)
		r.mu.Lock()
		defer r.mu.Unlock()
		if err := r.desk.Handle(action); err != nil {
			glog.Warningf("[run]%s: %v\n", action, err)
		}
	})
}

// openDeck paints the palette and starts reading key presses. A mute flipped
// on the deck is mirrored on the surface LEDs.
func (r *runner) openDeck(dev *deck.Device) chan deck.KeyEvent {
	r.palette = &deck.Palette{
		Controllers: r.show.Controllers(),
		Keys:        dev,
		Model:       dev.Model(),
		Changed: func(cpv.Controller) {
			if r.desk == nil {
				return
			}
			if err := r.desk.Refresh(); err != nil {
				glog.Warningf("[run]surface: %v\n", err)
			}
		},
	}
	if err := dev.SetBrightness(80); err != nil {
		glog.Warningf("[run]deck: %v\n", err)
	}
	if err := r.palette.Refresh(); err != nil {
		glog.Warningf("[run]deck: %v\n", err)
	}
	glog.Infof("[run]deck %s\n", dev.Product())

	presses := make(chan deck.KeyEvent, 64)
	go func() {
		if err := dev.ReadKeys(presses); err != nil {
			glog.Warningf("[run]deck: %v\n", err)
		}
	}()
	return presses
}
