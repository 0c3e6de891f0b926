// Package binding converts the resolver's extracted string values into the
// typed argument list a handler invoker expects. The conversion set lives
// in a Registry keyed by lowercase type tags; hosts may register their own
// converters before the registry is handed to the binder.
package binding

import (
	"fmt"
	"net"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ConvertFunc converts captured text to a typed value.
type ConvertFunc func(text string) (any, error)

// Registry maps type tags to converters. Lookup is case-insensitive on the
// tag. The registry follows a build-then-read discipline: register during
// startup, then share it read-only with the binder.
type Registry struct {
	converters map[string]ConvertFunc
}

// NewRegistry returns a registry pre-populated with the built-in converter
// set: string, int, int32, int64, double, bool, datetime, date, time,
// duration, uuid, uri, filepath, dirpath, and ip, plus common aliases.
func NewRegistry() *Registry {
	r := &Registry{converters: make(map[string]ConvertFunc)}

	r.Register("string", func(text string) (any, error) { return text, nil })
	r.Register("int", convertInt)
	r.Register("int32", convertInt32)
	r.Register("int64", convertInt64)
	r.Register("long", convertInt64)
	r.Register("double", convertDouble)
	r.Register("float", convertDouble)
	r.Register("bool", convertBool)
	r.Register("datetime", convertDateTime)
	r.Register("date", convertDate)
	r.Register("time", convertTime)
	r.Register("duration", convertDuration)
	r.Register("uuid", convertUUID)
	r.Register("guid", convertUUID)
	r.Register("uri", convertURI)
	r.Register("url", convertURI)
	r.Register("filepath", convertPath)
	r.Register("file", convertPath)
	r.Register("dirpath", convertPath)
	r.Register("dir", convertPath)
	r.Register("ip", convertIP)

	return r
}

// Register adds or replaces the converter for a type tag.
func (r *Registry) Register(tag string, fn ConvertFunc) {
	r.converters[strings.ToLower(tag)] = fn
}

// Has reports whether a converter is registered for the tag.
func (r *Registry) Has(tag string) bool {
	_, ok := r.converters[strings.ToLower(tag)]
	return ok
}

// Convert converts text to the tagged type. It fails when no converter is
// registered for the tag or the registered converter rejects the text.
func (r *Registry) Convert(text, tag string) (any, error) {
	fn, ok := r.converters[strings.ToLower(tag)]
	if !ok {
		return nil, fmt.Errorf("no converter registered for type %q", tag)
	}
	return fn(text)
}

// TryConvert is Convert with an ok-style result.
func (r *Registry) TryConvert(text, tag string) (any, bool) {
	v, err := r.Convert(text, tag)
	return v, err == nil
}

func convertInt(text string) (any, error) {
	n, err := strconv.Atoi(text)
	if err != nil {
		return nil, fmt.Errorf("%q is not an integer", text)
	}
	return n, nil
}

func convertInt32(text string) (any, error) {
	n, err := strconv.ParseInt(text, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("%q is not a 32-bit integer", text)
	}
	return int32(n), nil
}

func convertInt64(text string) (any, error) {
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%q is not a 64-bit integer", text)
	}
	return n, nil
}

func convertDouble(text string) (any, error) {
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, fmt.Errorf("%q is not a number", text)
	}
	return f, nil
}

func convertBool(text string) (any, error) {
	switch strings.ToLower(text) {
	case "true", "yes", "1":
		return true, nil
	case "false", "no", "0":
		return false, nil
	}
	return nil, fmt.Errorf("%q is not a boolean", text)
}

var dateTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func convertDateTime(text string) (any, error) {
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t, nil
		}
	}
	return nil, fmt.Errorf("%q is not an ISO-8601 date-time", text)
}

func convertDate(text string) (any, error) {
	t, err := time.Parse("2006-01-02", text)
	if err != nil {
		return nil, fmt.Errorf("%q is not a date", text)
	}
	return t, nil
}

func convertTime(text string) (any, error) {
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, text); err == nil {
			return t, nil
		}
	}
	return nil, fmt.Errorf("%q is not a time of day", text)
}

func convertDuration(text string) (any, error) {
	d, err := time.ParseDuration(text)
	if err != nil {
		return nil, fmt.Errorf("%q is not a duration", text)
	}
	return d, nil
}

func convertUUID(text string) (any, error) {
	id, err := uuid.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("%q is not a UUID", text)
	}
	return id, nil
}

func convertURI(text string) (any, error) {
	u, err := url.ParseRequestURI(text)
	if err != nil {
		return nil, fmt.Errorf("%q is not a URI", text)
	}
	return u, nil
}

func convertPath(text string) (any, error) {
	if text == "" {
		return nil, fmt.Errorf("empty path")
	}
	return filepath.Clean(text), nil
}

func convertIP(text string) (any, error) {
	ip := net.ParseIP(text)
	if ip == nil {
		return nil, fmt.Errorf("%q is not an IP address", text)
	}
	return ip, nil
}
