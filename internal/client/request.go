package client

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"
)

// DefaultName is used when a request carries no name.
const DefaultName = "Person"

// Date and time layouts accepted by the chart service.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Request validation errors.
var (
	ErrMissingField = errors.New("missing required field")
	ErrBadDate      = errors.New("date must be YYYY-MM-DD")
	ErrBadTime      = errors.New("time must be HH:MM")
)

// Request is the birth data sent to the chart service.
type Request struct {
	Name  string `json:"name"`
	Date  string `json:"date"`
	Time  string `json:"time"`
	Place string `json:"place"`
}

// Normalized trims every field and fills the default name.
func (r Request) Normalized() Request {
	out := Request{
		Name:  strings.TrimSpace(r.Name),
		Date:  strings.TrimSpace(r.Date),
		Time:  strings.TrimSpace(r.Time),
		Place: strings.TrimSpace(r.Place),
	}
	if out.Name == "" {
		out.Name = DefaultName
	}
	return out
}

// Validate checks that date, time and place are present and well formed.
func (r Request) Validate() error {
	r = r.Normalized()

	var errs []error
	for _, f := range []struct{ name, value string }{
		{"date", r.Date},
		{"time", r.Time},
		{"place", r.Place},
	} {
		if f.value == "" {
			errs = append(errs, fmt.Errorf("%s: %w", f.name, ErrMissingField))
		}
	}
	if r.Date != "" {
		if _, err := time.Parse(DateLayout, r.Date); err != nil {
			errs = append(errs, fmt.Errorf("%q: %w", r.Date, ErrBadDate))
		}
	}
	if r.Time != "" {
		if _, err := time.Parse(TimeLayout, r.Time); err != nil {
			errs = append(errs, fmt.Errorf("%q: %w", r.Time, ErrBadTime))
		}
	}
	return errors.Join(errs...)
}

// CacheKey identifies the request in the response cache. It is derived the
// way the chart service keys its cache, but from the normalized request, so
// it only equals the service's key when the fields were already trimmed and
// named.
func (r Request) CacheKey() string {
	r = r.Normalized()
	sum := md5.Sum([]byte(r.Name + "_" + r.Date + "_" + r.Time + "_" + r.Place))
	return hex.EncodeToString(sum[:])
}
