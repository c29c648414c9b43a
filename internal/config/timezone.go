package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const maxOffsetHours = 14

// parseLocation accepts an IANA zone name, "UTC"/"GMT", or a fixed offset
// such as "UTC+3", "UTC-5:30", "+3" or "-03:30".
func parseLocation(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	switch strings.ToUpper(name) {
	case "", "UTC", "GMT", "ETC/UTC":
		return time.UTC, nil
	}

	if loc, err := time.LoadLocation(name); err == nil {
		return loc, nil
	}

	offset, err := parseOffset(name)
	if err != nil {
		return nil, fmt.Errorf("unsupported timezone %q: %w", name, err)
	}
	if offset == 0 {
		return time.UTC, nil
	}
	return time.FixedZone(offsetName(offset), offset), nil
}

// parseOffset returns the offset in seconds east of UTC.
func parseOffset(s string) (int, error) {
	if len(s) >= 3 && strings.EqualFold(s[:3], "UTC") {
		s = strings.TrimSpace(s[3:])
	}
	if s == "" {
		return 0, nil
	}

	sign := 1
	switch s[0] {
	case '+':
	case '-':
		sign = -1
	default:
		return 0, errors.New("offset must start with + or -")
	}

	hours, minutes, hasMinutes := strings.Cut(s[1:], ":")
	h, err := strconv.Atoi(hours)
	if err != nil || h < 0 || h > maxOffsetHours {
		return 0, fmt.Errorf("bad offset hours %q", hours)
	}
	m := 0
	if hasMinutes {
		m, err = strconv.Atoi(minutes)
		if err != nil || m < 0 || m >= 60 {
			return 0, fmt.Errorf("bad offset minutes %q", minutes)
		}
	}

	return sign * (h*int(time.Hour/time.Second) + m*int(time.Minute/time.Second)), nil
}

func offsetName(offset int) string {
	sign := '+'
	if offset < 0 {
		sign, offset = '-', -offset
	}
	return fmt.Sprintf("UTC%c%02d:%02d", sign, offset/3600, offset%3600/60)
}
