package sound

import (
	"encoding/base64"
	"sort"
	"strings"
)

const (
	DefaultID = "digital"
	InlineID  = "inline"

	inlinePrefix = "data:audio/"
	base64Marker = ";base64,"
)

// Catalog maps the built-in sound ids to their audio URLs.
var Catalog = map[string]string{
	"digital": "https://actions.google.com/sounds/v1/alarms/digital_watch_alarm_long.ogg",
	"zen":     "https://actions.google.com/sounds/v1/alarms/beep_short.ogg",
	"forest":  "https://actions.google.com/sounds/v1/ambiences/morning_birds.ogg",
	"aurora":  "https://actions.google.com/sounds/v1/alarms/mechanical_clock_ringing.ogg",
}

// Source is a resolved sound: either a URL or decoded inline audio.
type Source struct {
	ID   string
	URL  string
	MIME string
	Data []byte
}

func (s Source) Inline() bool { return len(s.Data) > 0 }

// IDs lists the catalog keys in stable order.
func IDs() []string {
	out := make([]string, 0, len(Catalog))
	for id := range Catalog {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Resolve picks the catalog entry, else a decodable inline payload, else the
// default sound.
func Resolve(id string) Source {
	if url, ok := Catalog[id]; ok {
		return Source{ID: id, URL: url}
	}
	if src, ok := decodeInline(id); ok {
		return src
	}
	return Source{ID: DefaultID, URL: Catalog[DefaultID]}
}

// IsValid reports whether id resolves to itself rather than the default.
func IsValid(id string) bool {
	if _, ok := Catalog[id]; ok {
		return true
	}
	_, ok := decodeInline(id)
	return ok
}

func decodeInline(raw string) (Source, bool) {
	if !strings.HasPrefix(raw, inlinePrefix) {
		return Source{}, false
	}
	idx := strings.Index(raw, base64Marker)
	if idx < 0 {
		return Source{}, false
	}
	mime := raw[len("data:"):idx]
	if mime == "audio/" {
		return Source{}, false
	}
	data, err := base64.StdEncoding.DecodeString(raw[idx+len(base64Marker):])
	if err != nil || len(data) == 0 {
		return Source{}, false
	}
	return Source{ID: InlineID, MIME: mime, Data: data}, true
}
