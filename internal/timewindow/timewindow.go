// Package timewindow turns user supplied window input into a validated
// commit time range.
package timewindow

import (
	stderrors "errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/Kamar-Folarin/commitboard/internal/errors"
	"github.com/Kamar-Folarin/commitboard/internal/models"
)

var (
	ErrInvalidFormat = stderrors.New("invalid time window format")
	ErrInvalidRange  = stderrors.New("invalid time window range")
	ErrRangeTooLarge = stderrors.New("time window too large")
)

// DefaultMaxSpan is the widest window a report may cover
const DefaultMaxSpan = 90 * 24 * time.Hour

var (
	relativePattern = regexp.MustCompile(`^(\d+)([dh])$`)
	isoPattern      = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])-(0[1-9]|[12]\d|3[01])T([01]\d|2[0-3]):([0-5]\d):([0-5]\d)(\.\d{1,3})?Z$`)
)

var units = map[string]time.Duration{
	"h": time.Hour,
	"d": 24 * time.Hour,
}

// Request is the raw window input of a report command
type Request struct {
	Rel   string
	Since string
	Until string
}

// Resolver validates windows against a maximum span
type Resolver struct {
	MaxSpan time.Duration
	Now     func() time.Time
}

// NewResolver creates a resolver. A non-positive maxSpan takes the default.
func NewResolver(maxSpan time.Duration) *Resolver {
	if maxSpan <= 0 {
		maxSpan = DefaultMaxSpan
	}
	return &Resolver{MaxSpan: maxSpan, Now: time.Now}
}

func (r *Resolver) now() time.Time {
	if r.Now == nil {
		return time.Now().UTC()
	}
	return r.Now().UTC()
}

// ParseRelative resolves specs such as "24h" or "7d" to a window ending now.
func (r *Resolver) ParseRelative(spec string) (models.TimeWindow, error) {
	spec = strings.ToLower(strings.TrimSpace(spec))
	match := relativePattern.FindStringSubmatch(spec)
	if match == nil {
		return models.TimeWindow{}, invalidFormat(fmt.Sprintf("Invalid relative time %q. Expected formats like 7d or 24h.", spec))
	}

	n, err := strconv.ParseInt(match[1], 10, 64)
	if err != nil || n <= 0 {
		return models.TimeWindow{}, invalidFormat(fmt.Sprintf("Invalid relative time %q. The amount must be a positive number.", spec))
	}

	unit := units[match[2]]
	if n > int64(math.MaxInt64/int64(unit)) || time.Duration(n)*unit > r.MaxSpan {
		return models.TimeWindow{}, tooLarge(r.MaxSpan)
	}

	until := r.now()
	return models.TimeWindow{
		Since:    until.Add(-time.Duration(n) * unit),
		Until:    until,
		Relative: spec,
	}, nil
}

// ValidateAbsolute checks an explicit since/until pair
func (r *Resolver) ValidateAbsolute(since, until string) (models.TimeWindow, error) {
	sinceTime, err := parseISO(since)
	if err != nil {
		return models.TimeWindow{}, err
	}
	untilTime, err := parseISO(until)
	if err != nil {
		return models.TimeWindow{}, err
	}

	if sinceTime.After(untilTime) {
		return models.TimeWindow{}, apperrors.NewValidationError("`since` must not be later than `until`.", ErrInvalidRange)
	}
	if untilTime.Sub(sinceTime) > r.MaxSpan {
		return models.TimeWindow{}, tooLarge(r.MaxSpan)
	}

	return models.TimeWindow{Since: sinceTime, Until: untilTime}, nil
}

// Default returns the one day window ending now
func (r *Resolver) Default() models.TimeWindow {
	until := r.now()
	return models.TimeWindow{
		Since:    until.Add(-24 * time.Hour),
		Until:    until,
		Relative: "1d",
	}
}

// Resolve applies the precedence absolute, then relative, then default.
func (r *Resolver) Resolve(req Request) (models.TimeWindow, error) {
	since, until := strings.TrimSpace(req.Since), strings.TrimSpace(req.Until)
	switch {
	case since != "" || until != "":
		if since == "" || until == "" {
			return models.TimeWindow{}, invalidFormat("Both `since` and `until` are required for an absolute window.")
		}
		return r.ValidateAbsolute(since, until)
	case strings.TrimSpace(req.Rel) != "":
		return r.ParseRelative(req.Rel)
	default:
		return r.Default(), nil
	}
}

// FormatISO renders t in the canonical window form
func FormatISO(t time.Time) string {
	return t.UTC().Format(models.ISOLayout)
}

func parseISO(value string) (time.Time, error) {
	match := isoPattern.FindStringSubmatch(value)
	if match == nil {
		return time.Time{}, invalidFormat(fmt.Sprintf("Invalid timestamp %q. Use YYYY-MM-DDTHH:mm:ss(.sss)Z in UTC.", value))
	}

	parsed, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, invalidFormat(fmt.Sprintf("Invalid timestamp %q.", value))
	}

	// Reject calendar overflow such as 2024-02-30 by re-rendering with the
	// input's precision.
	layout := "2006-01-02T15:04:05"
	if frac := match[6]; frac != "" {
		layout += "." + strings.Repeat("0", len(frac)-1)
	}
	if parsed.UTC().Format(layout+"Z") != value {
		return time.Time{}, invalidFormat(fmt.Sprintf("Invalid calendar date %q.", value))
	}

	return parsed.UTC(), nil
}

func invalidFormat(message string) error {
	return apperrors.NewValidationError(message, ErrInvalidFormat)
}

func tooLarge(maxSpan time.Duration) error {
	days := int(maxSpan / (24 * time.Hour))
	return apperrors.NewValidationError(fmt.Sprintf("Time window too large. Max %d days.", days), ErrRangeTooLarge)
}
