package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/docopt/docopt-go"

	"stagecpv/lib/colorsplit"
	"stagecpv/lib/cpv"
	"stagecpv/lib/dialect"
	"stagecpv/lib/osc"
	"stagecpv/lib/patch"
	"stagecpv/lib/show"
)

const version = "0.1.0"

const usage = `Console command tool.

Usage:
    cpvctl render --patch=<file> [--console=<name>] [--dialects=<file>]
        [--mode=<mode>] <channel> <parameter> <value>
    cpvctl send --patch=<file> --addr=<addr> [--network=<net>]
        [--console=<name>] [--dialects=<file>]
        [--mode=<mode>] <channel> <parameter> <value>
    cpvctl simplify <channel>...
    cpvctl dialects [--dialects=<file>]
    cpvctl check --show=<file> --patch=<file> [--dialects=<file>]

Options:
    -h --help           Show this screen.
    --version           Show version.
    --patch=<file>      Patch file.
    --show=<file>       Show file.
    --dialects=<file>   Extra console dialects.
    --console=<name>    Console dialect [default: eos].
    --addr=<addr>       Console OSC address, host:port.
    --network=<net>     tcp or udp [default: tcp].
    --mode=<mode>       absolute, raise or lower [default: absolute].

Values are a number, a color name, or r,g,b in 0-100.`

func main() {
	opts, err := docopt.ParseArgs(usage, os.Args[1:], version)
	if err != nil {
		panic(err)
	}

	if render_, _ := opts.Bool("render"); render_ {
		err = render(opts, nil)
	} else if send_, _ := opts.Bool("send"); send_ {
		err = send(opts)
	} else if simplify_, _ := opts.Bool("simplify"); simplify_ {
		err = simplify(opts)
	} else if dialects_, _ := opts.Bool("dialects"); dialects_ {
		err = listDialects(opts)
	} else if check_, _ := opts.Bool("check"); check_ {
		err = check(opts)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadDialects(opts docopt.Opts) (*dialect.Registry, error) {
	reg := dialect.NewRegistry()
	if path, _ := opts.String("--dialects"); path != "" {
		if err := reg.LoadFile(path); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

type printer struct{}

func (printer) Send(address string, argument string) {
	fmt.Printf("%s %s\n", address, argument)
}

// render runs a single direct edit through a pipeline. With sink nil the
// command is printed instead of sent.
func render(opts docopt.Opts, sink cpv.Sink) error {
	if sink == nil {
		sink = printer{}
	}
	patchFile, _ := opts.String("--patch")
	patches, err := patch.LoadFile(patchFile)
	if err != nil {
		return err
	}
	reg, err := loadDialects(opts)
	if err != nil {
		return err
	}
	console, _ := opts.String("--console")
	p, err := cpv.New(cpv.Config{Console: console, Patches: patches, Dialects: reg, Sink: sink})
	if err != nil {
		return err
	}

	channel, err := opts.Int("<channel>")
	if err != nil {
		return err
	}
	param, _ := opts.String("<parameter>")
	raw, _ := opts.String("<value>")
	value, err := parseValue(raw)
	if err != nil {
		return err
	}

	c := &cpv.Direct{
		Header:   cpv.Header{ID: cpv.NewControllerID(), Name: "cpvctl"},
		Channels: []cpv.Channel{cpv.Channel(channel)},
	}
	c.SetValue(cpv.Parameter(param), value)

	mode, _ := opts.String("--mode")
	switch mode {
	case "absolute":
		return p.Edit(cpv.GateContext{}, c, cpv.Parameter(param), cpv.EditOptions{})
	case "raise", "lower":
		if value.IsColor() {
			return fmt.Errorf("%s needs a scalar value", mode)
		}
		m := cpv.Raise
		if mode == "lower" {
			m = cpv.Lower
		}
		pub := &cpv.Publisher{Patches: patches}
		if pub.Dialect, err = reg.Get(console); err != nil {
			return err
		}
		r, err := pub.Render(cpv.Request{Source: c, Channel: cpv.Channel(channel), Parameter: cpv.Parameter(param), Mode: m, Value: value})
		if err != nil {
			return err
		}
		sink.Send(pub.Dialect.Address, r.Command(strconv.Itoa(channel)))
		return nil
	}
	return fmt.Errorf("unknown mode %q", mode)
}

func send(opts docopt.Opts) error {
	network, _ := opts.String("--network")
	addr, _ := opts.String("--addr")
	client, err := osc.Dial(network, addr)
	if err != nil {
		return err
	}
	defer client.Close()

	return render(opts, client)
}

func parseValue(s string) (cpv.Value, error) {
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return cpv.Scalar(f), nil
	}
	if r, g, b, ok := colorsplit.Named(s); ok {
		return cpv.Color3(r, g, b), nil
	}
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return cpv.Value{}, fmt.Errorf("cannot parse value %q", s)
	}
	var rgb [3]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return cpv.Value{}, fmt.Errorf("cannot parse value %q: %w", s, err)
		}
		rgb[i] = v
	}
	return cpv.Color3(rgb[0], rgb[1], rgb[2]), nil
}

func simplify(opts docopt.Opts) error {
	raw, _ := opts["<channel>"].([]string)
	var chans []int
	for _, s := range raw {
		ch, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("bad channel %q", s)
		}
		chans = append(chans, ch)
	}
	fmt.Println(cpv.Simplify(chans))
	return nil
}

func listDialects(opts docopt.Opts) error {
	reg, err := loadDialects(opts)
	if err != nil {
		return err
	}
	for _, name := range reg.Names() {
		d, _ := reg.Get(name)
		fmt.Printf("%-8s %-14s rounding=%d format=%s\n", d.Name, d.Address, d.RoundingPoints, d.Format)
	}
	return nil
}

// check loads a show and patch together and reports controller channels
// that would fail to render.
func check(opts docopt.Opts) error {
	showFile, _ := opts.String("--show")
	s, err := show.LoadFile(showFile)
	if err != nil {
		return err
	}
	patchFile, _ := opts.String("--patch")
	patches, err := patch.LoadFile(patchFile)
	if err != nil {
		return err
	}
	reg, err := loadDialects(opts)
	if err != nil {
		return err
	}
	if _, err := reg.Get(s.Console); err != nil {
		return &cpv.DialectNotFoundError{Console: s.Console}
	}

	var problems int
	for _, c := range s.Controllers() {
		var chans []cpv.Channel
		switch c := c.(type) {
		case *cpv.Direct:
			chans = c.Channels
		case *cpv.Mixer:
			chans = c.Channels
		}
		for _, ch := range chans {
			if _, err := patches.Get(int(ch)); err != nil {
				fmt.Printf("%s: %v\n", c.Common().Name, &cpv.PatchNotFoundError{Channel: ch})
				problems++
			}
		}
	}
	for _, t := range s.Targets() {
		if _, err := patches.Get(int(t.Channel)); err != nil {
			fmt.Printf("fixture: %v\n", &cpv.PatchNotFoundError{Channel: t.Channel})
			problems++
		}
	}
	if problems > 0 {
		return fmt.Errorf("%d problems", problems)
	}
	fmt.Printf("ok: %d controllers, %d fixtures, %d patched channels\n", len(s.Controllers()), len(s.Targets()), len(patches.Channels()))
	return nil
}
