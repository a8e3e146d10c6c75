package dialect

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
)

type Registry struct {
	mu       sync.RWMutex
	dialects map[string]*Dialect
}

// NewRegistry returns a registry preloaded with the built-in dialects.
func NewRegistry() *Registry {
	r := &Registry{dialects: map[string]*Dialect{}}
	for _, d := range Builtin() {
		r.dialects[d.Name] = d
	}
	return r
}

// Register adds d, replacing any dialect with the same name.
func (r *Registry) Register(d *Dialect) error {
	if d.Format == "" {
		d.Format = FormatPlain
	}
	if err := d.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dialects[d.Name] = d
	return nil
}

func (r *Registry) Get(name string) (*Dialect, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.dialects[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return d, nil
}

func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := maps.Keys(r.dialects)
	slices.Sort(names)
	return names
}

type file struct {
	Dialects []*Dialect `yaml:"dialects"`
}

func (r *Registry) Parse(buf []byte) error {
	var f file
	if err := yaml.Unmarshal(buf, &f); err != nil {
		return fmt.Errorf("dialect: %w", err)
	}
	for _, d := range f.Dialects {
		if err := r.Register(d); err != nil {
			return err
		}
	}
	return nil
}

func (r *Registry) LoadFile(path string) error {
	buf, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return r.Parse(buf)
}
