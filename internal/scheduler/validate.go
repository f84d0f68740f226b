package scheduler

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/Kamar-Folarin/commitboard/internal/errors"
)

var clockPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)

// ParseClock parses "HH:mm" into hour and minute
func ParseClock(hhmm string) (hour, minute int, err error) {
	match := clockPattern.FindStringSubmatch(strings.TrimSpace(hhmm))
	if match == nil {
		return 0, 0, apperrors.NewValidationError(fmt.Sprintf("Invalid time %q. Use HH:mm, for example 08:00.", hhmm), nil)
	}
	hour, _ = strconv.Atoi(match[1])
	minute, _ = strconv.Atoi(match[2])
	if hour > 23 || minute > 59 {
		return 0, 0, apperrors.NewValidationError(fmt.Sprintf("Invalid time %q. Hours run 00-23 and minutes 00-59.", hhmm), nil)
	}
	return hour, minute, nil
}

// NormalizeClock returns hhmm in zero padded HH:mm form
func NormalizeClock(hhmm string) (string, error) {
	hour, minute, err := ParseClock(hhmm)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%02d:%02d", hour, minute), nil
}

// ValidateTimeZone accepts IANA zone names only
func ValidateTimeZone(tz string) error {
	tz = strings.TrimSpace(tz)
	if tz == "" || strings.EqualFold(tz, "Local") {
		return apperrors.NewValidationError(fmt.Sprintf("Invalid time zone %q. Use an IANA name such as America/Toronto or UTC.", tz), nil)
	}
	if _, err := time.LoadLocation(tz); err != nil {
		return apperrors.NewValidationError(fmt.Sprintf("Invalid time zone %q. Use an IANA name such as America/Toronto or UTC.", tz), err)
	}
	return nil
}

// CronSpec builds the daily cron expression for hhmm in tz
func CronSpec(hhmm, tz string) (string, error) {
	hour, minute, err := ParseClock(hhmm)
	if err != nil {
		return "", err
	}
	if err := ValidateTimeZone(tz); err != nil {
		return "", err
	}
	return fmt.Sprintf("CRON_TZ=%s %d %d * * *", tz, minute, hour), nil
}
