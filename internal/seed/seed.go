// Package seed supplies the built-in events that are re-read on every start.
// Seed events are never written to the user's storage.
package seed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sadopc/agenda/internal/events"
	appLog "github.com/sadopc/agenda/internal/log"
)

//go:embed default.json
var defaultSeed []byte

// Format names the encoding of a seed payload.
type Format string

const (
	FormatJSON Format = "json"
	FormatICS  Format = "ics"
)

// Parse decodes a seed payload.
func Parse(format Format, data []byte) ([]events.Event, error) {
	switch format {
	case FormatJSON:
		return events.Decode(string(data))
	case FormatICS:
		return ParseICS(data)
	default:
		return nil, fmt.Errorf("unknown seed format %q", format)
	}
}

// formatForPath guesses the format from a file or URL path.
func formatForPath(p string) Format {
	switch strings.ToLower(filepath.Ext(p)) {
	case ".ics", ".ical", ".ifb":
		return FormatICS
	default:
		return FormatJSON
	}
}

// Embedded is the dataset compiled into the binary.
type Embedded struct{}

func (Embedded) Fetch(context.Context) ([]events.Event, error) {
	return Parse(FormatJSON, defaultSeed)
}

func (Embedded) String() string { return "embedded" }

// File reads a JSON or ICS file, chosen by extension.
type File struct {
	Path string
}

func (f File) Fetch(ctx context.Context) ([]events.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	evs, err := Parse(formatForPath(f.Path), data)
	if err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", f.Path, err)
	}
	appLog.Info("seed file loaded", "path", f.Path, "event_count", len(evs))
	return evs, nil
}

func (f File) String() string { return f.Path }

// Resolve maps a configuration value to a source:
//
//	"" or "embedded"  built-in dataset
//	"none"            no seed events
//	http(s)://...     HTTP source
//	anything else     file path
func Resolve(source string) (events.SeedSource, error) {
	source = strings.TrimSpace(source)
	switch {
	case source == "" || source == "embedded":
		return Embedded{}, nil
	case source == "none":
		return nil, nil
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		return NewHTTP(source), nil
	case strings.Contains(source, "://"):
		return nil, errors.New("unsupported seed scheme: " + source)
	default:
		return File{Path: source}, nil
	}
}
