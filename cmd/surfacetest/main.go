package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"stagecpv/lib/cpv"
	"stagecpv/lib/surface"
)

func main() {
	defer midi.CloseDriver()

	inPort, err := surface.FindInPort("x-touch")
	if err != nil {
		fmt.Println("Available MIDI input ports:")
		for _, p := range midi.GetInPorts() {
			fmt.Printf("  %s\n", p)
		}
		fmt.Fprintf(os.Stderr, "\nError: %v\n", err)
		os.Exit(1)
	}

	outPort, err := surface.FindOutPort("x-touch")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	out, err := surface.NewOutput(outPort, surface.DeviceIDExtender)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var strips []cpv.Controller
	for i := 0; i < surface.Strips; i++ {
		strips = append(strips, &cpv.Direct{
			Header:   cpv.Header{ID: cpv.NewControllerID(), Name: fmt.Sprintf("Strip %d", i+1)},
			Channels: []cpv.Channel{cpv.Channel(i + 1)},
		})
	}

	desk := &surface.Desk{
		Controllers: strips,
		Transport:   &surface.Transport{},
		Output:      out,
		PanStep:     5,
	}
	// Strips are paired so that moving one fader drives its neighbour's motor.
	desk.Edit = func(c cpv.Controller, param cpv.Parameter) error {
		v, _ := c.Common().Value(param)
		fmt.Printf("  %s %s = %s\n", c.Common().Name, param, v)
		if param != cpv.Intensity {
			return nil
		}
		for i, s := range strips {
			if s == c {
				pair := strips[i^1]
				pair.Common().SetValue(param, v)
				desk.Echo(pair)
			}
		}
		return nil
	}
	if err := desk.Refresh(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Listening on: %s\n", inPort)

	stop, err := midi.ListenTo(inPort, func(msg midi.Message, timestampms int32) {
		action, ok := surface.Decode(msg)
		if !ok {
			return
		}
		fmt.Println(action)
		if err := desk.Handle(action); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		switch action.Control {
		case surface.Play, surface.Stop, surface.Scrub, surface.PlayPause, surface.Jog:
			fmt.Printf("  transport %s frame %d\n", desk.Transport.Status(), desk.Transport.Frame())
		}
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listening: %v\n", err)
		os.Exit(1)
	}
	defer stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	fmt.Println()
}
