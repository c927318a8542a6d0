package pastebin

import (
	"strings"
	"time"
)

// VisibilityLevel controls whether a paste is listed publicly.
type VisibilityLevel int

const (
	// Public pastes appear in the service's public listings.
	Public VisibilityLevel = iota
	// Unlisted pastes are only reachable through their URL.
	Unlisted
)

// Code returns the value sent as api_paste_private.
func (v VisibilityLevel) Code() string {
	switch v {
	case Unlisted:
		return "1"
	default:
		return "0"
	}
}

func (v VisibilityLevel) String() string {
	switch v {
	case Unlisted:
		return "unlisted"
	default:
		return "public"
	}
}

// ParseVisibility parses "public"/"0" or "unlisted"/"1", ignoring case.
// ok is false when s matches neither.
func ParseVisibility(s string) (v VisibilityLevel, ok bool) {
	switch strings.ToLower(s) {
	case "public", "0":
		return Public, true
	case "unlisted", "1":
		return Unlisted, true
	}
	return Public, false
}

// ExpirationDate is how long the service keeps a paste.
type ExpirationDate int

const (
	Never ExpirationDate = iota
	TenMinutes
	OneHour
	OneDay
	OneWeek
	TwoWeeks
	OneMonth
	SixMonth
	OneYear
)

var expirationCodes = [...]string{
	Never:      "N",
	TenMinutes: "10M",
	OneHour:    "1H",
	OneDay:     "1D",
	OneWeek:    "1W",
	TwoWeeks:   "2W",
	OneMonth:   "1M",
	SixMonth:   "6M",
	OneYear:    "1Y",
}

const day = 24 * time.Hour

var expirationDurations = [...]time.Duration{
	Never:      0,
	TenMinutes: 10 * time.Minute,
	OneHour:    time.Hour,
	OneDay:     day,
	OneWeek:    7 * day,
	TwoWeeks:   14 * day,
	OneMonth:   30 * day,
	SixMonth:   180 * day,
	OneYear:    365 * day,
}

// Code returns the short code sent as api_paste_expire_date.
func (e ExpirationDate) Code() string {
	if e < Never || e > OneYear {
		return expirationCodes[Never]
	}
	return expirationCodes[e]
}

func (e ExpirationDate) String() string {
	return e.Code()
}

// Duration returns the lifetime the service enforces. Never is 0.
func (e ExpirationDate) Duration() time.Duration {
	if e < Never || e > OneYear {
		return 0
	}
	return expirationDurations[e]
}

// ParseExpiration matches s case-insensitively against the short codes
// ("N", "10M", "1H", ...). Whitespace is not trimmed.
func ParseExpiration(s string) (e ExpirationDate, ok bool) {
	s = strings.ToLower(s)
	for i, code := range expirationCodes {
		if strings.ToLower(code) == s {
			return ExpirationDate(i), true
		}
	}
	return Never, false
}
