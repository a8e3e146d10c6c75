package cpv

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
)

type HarmonyMode int

const (
	// HTP keeps the highest value per channel and parameter.
	HTP HarmonyMode = iota
	// Democracy averages every contributor with equal weight.
	Democracy
)

func (m HarmonyMode) String() string {
	switch m {
	case HTP:
		return "htp"
	case Democracy:
		return "democracy"
	}
	return fmt.Sprintf("harmony(%d)", int(m))
}

func ParseHarmonyMode(s string) (HarmonyMode, error) {
	switch strings.ToLower(s) {
	case "", "htp":
		return HTP, nil
	case "democracy":
		return Democracy, nil
	}
	return 0, fmt.Errorf("cpv: unknown harmony mode %q", s)
}

func (m *HarmonyMode) UnmarshalYAML(node *yaml.Node) error {
	mode, err := ParseHarmonyMode(node.Value)
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

// HarmonizedRequest is one console command covering every channel that
// shares its source, parameter and rendered value.
type HarmonizedRequest struct {
	Source    ControllerID
	Parameter Parameter
	Mode      Mode
	Channels  []int
	Rendered  Rendered
}

func (h HarmonizedRequest) ChannelExpr() string {
	return Simplify(h.Channels)
}

func (h HarmonizedRequest) Command() string {
	if len(h.Channels) == 0 {
		panic(fmt.Sprintf("cpv: harmonized %s%s from %s has no channels", h.Mode.Prefix(), h.Parameter, h.Source))
	}
	return h.Rendered.Command(h.ChannelExpr())
}

type Harmonizer struct {
	Mode   HarmonyMode
	Render func(Request) (Rendered, error)
}

// Harmonize reduces a batch of collected requests to one request per
// channel and parameter, then groups identical commands across channels.
// Requests that fail to render are dropped and their errors joined.
func (h *Harmonizer) Harmonize(reqs []Request) ([]HarmonizedRequest, error) {
	resolved := h.resolve(dedupe(reqs))

	type groupKey struct {
		source ControllerID
		mode   Mode
		param  Parameter
		text   string
	}
	var (
		out   []HarmonizedRequest
		index = map[groupKey]int{}
		errs  []error
	)
	for _, r := range resolved {
		rendered, err := h.Render(r)
		if errors.Is(err, errParameterDisabled) {
			continue
		}
		if err != nil {
			errs = append(errs, err)
			continue
		}
		k := groupKey{r.sourceID(), r.Mode, r.Parameter, rendered.key()}
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, HarmonizedRequest{
				Source:    k.source,
				Parameter: r.Parameter,
				Mode:      r.Mode,
				Rendered:  rendered,
			})
		}
		out[i].Channels = append(out[i].Channels, int(r.Channel))
	}
	for i := range out {
		slices.Sort(out[i].Channels)
	}
	return out, errors.Join(errs...)
}

type slot struct {
	channel Channel
	mode    Mode
	param   Parameter
}

func dedupe(reqs []Request) []Request {
	type exact struct {
		slot
		value Value
	}
	seen := map[exact]bool{}
	out := make([]Request, 0, len(reqs))
	for _, r := range reqs {
		k := exact{slot{r.Channel, r.Mode, r.Parameter}, r.Value}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, r)
	}
	return out
}

// resolve leaves one request per slot, in order of first appearance.
func (h *Harmonizer) resolve(reqs []Request) []Request {
	var order []slot
	groups := map[slot][]Request{}
	for _, r := range reqs {
		k := slot{r.Channel, r.Mode, r.Parameter}
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], r)
	}

	out := make([]Request, 0, len(order))
	for _, k := range order {
		g := groups[k]
		win := g[0]
		switch h.Mode {
		case Democracy:
			sum := win.Value
			for _, r := range g[1:] {
				sum = sum.Add(r.Value)
			}
			win.Value = sum.Scale(1 / float64(len(g)))
		default:
			for _, r := range g[1:] {
				if r.Value.Magnitude() > win.Value.Magnitude() {
					win = r
				}
			}
		}
		out = append(out, win)
	}
	return out
}

// Simplify writes channels as a console range expression, e.g.
// "1 Thru 3 + 10 Thru 11 + 15".
func Simplify(channels []int) string {
	chans := slices.Clone(channels)
	slices.Sort(chans)
	chans = slices.Compact(chans)

	var parts []string
	for i := 0; i < len(chans); {
		j := i
		for j+1 < len(chans) && chans[j+1] == chans[j]+1 {
			j++
		}
		if i == j {
			parts = append(parts, strconv.Itoa(chans[i]))
		} else {
			parts = append(parts, strconv.Itoa(chans[i])+" Thru "+strconv.Itoa(chans[j]))
		}
		i = j + 1
	}
	return strings.Join(parts, " + ")
}
