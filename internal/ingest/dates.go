package ingest

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// lastUpdatedLayouts covers the stamps seen in directory exports, most
// specific first.
var lastUpdatedLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"1/2/2006 3:04:05 PM",
	"1/2/2006 15:04",
	"1/2/2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
}

var (
	isoDateRe   = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)
	usDateRe    = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{4})\b`)
	monthNameRe = regexp.MustCompile(`\b(January|February|March|April|May|June|July|August|September|October|November|December|Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\s+(\d{1,2}),?\s+(\d{4})\b`)
)

// ParseLastUpdated reads a market's last_updated stamp. Results are UTC.
func ParseLastUpdated(text string) (time.Time, error) {
	text = cleanDateString(text)
	if text == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	for _, layout := range lastUpdatedLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t.UTC(), nil
		}
	}
	if t := parseDateWithRegex(text); !t.IsZero() {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unable to parse date: %s", text)
}

// parseDateWithRegex finds a date embedded in surrounding text.
func parseDateWithRegex(text string) time.Time {
	if m := isoDateRe.FindString(text); m != "" {
		if t, err := time.Parse("2006-01-02", m); err == nil {
			return t
		}
	}
	if m := usDateRe.FindStringSubmatch(text); len(m) == 4 {
		if t, err := time.Parse("1/2/2006", fmt.Sprintf("%s/%s/%s", m[1], m[2], m[3])); err == nil {
			return t
		}
	}
	if m := monthNameRe.FindStringSubmatch(text); len(m) == 4 {
		s := fmt.Sprintf("%s %s, %s", m[1], m[2], m[3])
		for _, layout := range []string{"January 2, 2006", "Jan 2, 2006"} {
			if t, err := time.Parse(layout, s); err == nil {
				return t
			}
		}
	}
	return time.Time{}
}

// cleanDateString strips label prefixes such as "Updated:".
func cleanDateString(s string) string {
	prefixes := []string{"last updated:", "updated:", "updated on", "as of"}
	lower := strings.ToLower(s)
	for _, p := range prefixes {
		if idx := strings.Index(lower, p); idx != -1 {
			s = s[idx+len(p):]
			lower = lower[idx+len(p):]
		}
	}
	return strings.TrimSpace(s)
}
