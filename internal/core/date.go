package core

import (
	"errors"
	"strings"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04:05"
)

var (
	ErrInvalidDate = errors.New("invalid date")
	ErrInvalidTime = errors.New("invalid time")
)

// ParseDate checks that s is an ISO calendar date and returns it normalized.
func ParseDate(s string) (string, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return "", ErrInvalidDate
	}
	return t.Format(DateLayout), nil
}

// ParseClock checks that s is a 24h clock time (HH:MM or HH:MM:SS).
func ParseClock(s string) (string, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{ClockLayout, "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(ClockLayout), nil
		}
	}
	return "", ErrInvalidTime
}

// Today returns the calendar date of now.
func Today(now time.Time) string {
	return now.Format(DateLayout)
}

// Clock returns the wall clock time of now.
func Clock(now time.Time) string {
	return now.Format(ClockLayout)
}
