// Package discover finds new job listings and feeds them into the listing
// store. It renders search result pages through a browser, parses the cards
// offline with goquery, and writes through the store's insert-if-absent
// paths so re-discovery is always a no-op.
package discover

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const searchBaseURL = "https://www.linkedin.com/jobs/search/"

// cardsPerPage is the board's fixed search page size.
const cardsPerPage = 25

// ExperienceLevel is the board's f_E filter value.
type ExperienceLevel string

const (
	ExperienceInternship ExperienceLevel = "1"
	ExperienceEntry      ExperienceLevel = "2"
	ExperienceAssociate  ExperienceLevel = "3"
	ExperienceMidSenior  ExperienceLevel = "4"
	ExperienceDirector   ExperienceLevel = "5"
	ExperienceExecutive  ExperienceLevel = "6"
)

// ParseExperienceLevel maps a config name to the board's filter value.
func ParseExperienceLevel(name string) (ExperienceLevel, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "internship":
		return ExperienceInternship, nil
	case "entry", "entry_level":
		return ExperienceEntry, nil
	case "associate":
		return ExperienceAssociate, nil
	case "mid_senior", "mid-senior":
		return ExperienceMidSenior, nil
	case "director":
		return ExperienceDirector, nil
	case "executive":
		return ExperienceExecutive, nil
	}
	return "", fmt.Errorf("unknown experience level %q", name)
}

// DatePosted is the board's f_TPR filter value (seconds of lookback).
type DatePosted string

const (
	DateAnyTime   DatePosted = ""
	DatePastMonth DatePosted = "r2592000"
	DatePastWeek  DatePosted = "r604800"
	DatePastDay   DatePosted = "r86400"
)

// ParseDatePosted maps a config name to the board's filter value.
func ParseDatePosted(name string) (DatePosted, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "any", "any_time":
		return DateAnyTime, nil
	case "past_month", "month":
		return DatePastMonth, nil
	case "past_week", "week":
		return DatePastWeek, nil
	case "past_24_hours", "past_day", "day":
		return DatePastDay, nil
	}
	return "", fmt.Errorf("unknown date-posted filter %q", name)
}

// SearchQuery describes one search results request.
type SearchQuery struct {
	Keywords         string
	Location         string
	ExperienceLevels []ExperienceLevel
	DatePosted       DatePosted
	QuickApplyOnly   bool

	// Page is zero-based; the board paginates by result offset.
	Page int
}

// URL builds the search results URL for the query, newest first.
func (q SearchQuery) URL() string {
	params := url.Values{}
	params.Set("keywords", q.Keywords)
	if q.Location != "" {
		params.Set("location", q.Location)
	}
	params.Set("sortBy", "DD")
	params.Set("start", strconv.Itoa(q.Page*cardsPerPage))

	if len(q.ExperienceLevels) > 0 {
		values := make([]string, len(q.ExperienceLevels))
		for i, level := range q.ExperienceLevels {
			values[i] = string(level)
		}
		params.Set("f_E", strings.Join(values, ","))
	}
	if q.DatePosted != DateAnyTime {
		params.Set("f_TPR", string(q.DatePosted))
	}
	if q.QuickApplyOnly {
		params.Set("f_AL", "true")
	}

	return searchBaseURL + "?" + params.Encode()
}
