package session

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/andreyvit/savecodec"
	"github.com/andreyvit/savecodec/plot"
)

var ErrUnknownFormat = errors.New("unknown save format")

// Format describes one kind of save file.
type Format struct {
	Name       string
	Extensions []string // lowercase, with the dot

	// New returns an empty root value to decode into.
	New func() savecodec.Value

	// Detect reports whether data looks like this format. Optional.
	Detect func(data []byte) bool
}

func (f *Format) String() string { return f.Name }

func (f *Format) matchesExt(ext string) bool {
	for _, e := range f.Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

var PlotFormat = &Format{
	Name:       "plot",
	Extensions: []string{plot.FileExt},
	New:        func() savecodec.Value { return plot.NewFile() },
	Detect:     plot.Detect,
}

type Registry struct {
	formats []*Format
}

func NewRegistry(formats ...*Format) *Registry {
	r := &Registry{}
	for _, f := range formats {
		r.Register(f)
	}
	return r
}

// DefaultRegistry knows every format in this module.
func DefaultRegistry() *Registry {
	return NewRegistry(PlotFormat)
}

func (r *Registry) Register(f *Format) {
	if f.Name == "" || f.New == nil {
		panic(fmt.Errorf("invalid format %+v", f))
	}
	if r.Lookup(f.Name) != nil {
		panic(fmt.Errorf("duplicate format %q", f.Name))
	}
	r.formats = append(r.formats, f)
}

func (r *Registry) Lookup(name string) *Format {
	for _, f := range r.formats {
		if f.Name == name {
			return f
		}
	}
	return nil
}

func (r *Registry) Formats() []*Format {
	return r.formats
}

// Pick chooses a format for a file: by extension first, then by asking
// each format's Detect.
func (r *Registry) Pick(fileName string, data []byte) (*Format, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	if ext != "" {
		for _, f := range r.formats {
			if f.matchesExt(ext) {
				return f, nil
			}
		}
	}
	for _, f := range r.formats {
		if f.Detect != nil && f.Detect(data) {
			return f, nil
		}
	}
	return nil, fmt.Errorf("%s: %w", fileName, ErrUnknownFormat)
}
