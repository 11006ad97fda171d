package discover

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jordan/easyapply-agent/internal/db"
)

const listingURLFormat = "https://www.linkedin.com/jobs/view/%s/"

var jobViewPattern = regexp.MustCompile(`/jobs/view/(\d+)`)

const (
	selJobCard = ".jobs-search-results__list-item, .job-card-container"

	selCardTitle = ".job-card-list__title, .job-card-container__link, " +
		"a[data-control-name='job_card_title']"

	selCardOrganization = ".job-card-container__company-name, " +
		".job-card-container__primary-description, " +
		".artdeco-entity-lockup__subtitle"

	selCardLocation = ".job-card-container__metadata-item, " +
		".artdeco-entity-lockup__caption"

	selCardQuickApply = ".job-card-container__apply-method, " +
		"[class*='easy-apply'], " +
		".jobs-apply-button--top-card"

	selCardPostedDate = ".job-card-container__footer-item, time"

	selDetailDescription = ".jobs-description__content, " +
		".jobs-box__html-content, " +
		"[class*='description']"

	selDetailInsight = ".jobs-unified-top-card__job-insight, " +
		".job-details-jobs-unified-top-card__job-insight"

	selDetailApplicants = ".jobs-unified-top-card__applicant-count, " +
		"[class*='applicant']"
)

// ParseSearchResults extracts listing cards from a rendered search results
// page. Cards without a recoverable job id are dropped; everything else is
// normalized into store inputs tagged with the search term that found them.
func ParseSearchResults(html, searchTerm string) ([]db.ListingInput, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse search results: %w", err)
	}

	var inputs []db.ListingInput
	doc.Find(selJobCard).Each(func(_ int, card *goquery.Selection) {
		input, ok := parseCard(card, searchTerm)
		if ok {
			inputs = append(inputs, input)
		}
	})
	return inputs, nil
}

func parseCard(card *goquery.Selection, searchTerm string) (db.ListingInput, bool) {
	id := cardID(card)
	if id == "" {
		return db.ListingInput{}, false
	}

	input := db.ListingInput{
		ExternalID:   id,
		Title:        cardText(card, selCardTitle, "Unknown"),
		Organization: cardText(card, selCardOrganization, "Unknown"),
		Location:     cardText(card, selCardLocation, ""),
		PostedDate:   cardText(card, selCardPostedDate, ""),
		URL:          fmt.Sprintf(listingURLFormat, id),
		QuickApply:   cardQuickApply(card),
		SearchTerm:   searchTerm,
	}
	return input, true
}

// cardID reads the card's job id from its data attribute, falling back to
// the id embedded in any listing link.
func cardID(card *goquery.Selection) string {
	if id, ok := card.Attr("data-job-id"); ok && id != "" {
		return id
	}
	if id, ok := card.Find("[data-job-id]").First().Attr("data-job-id"); ok && id != "" {
		return id
	}
	href, ok := card.Find("a[href*='/jobs/view/']").First().Attr("href")
	if !ok {
		return ""
	}
	m := jobViewPattern.FindStringSubmatch(href)
	if m == nil {
		return ""
	}
	return m[1]
}

func cardText(card *goquery.Selection, selector, fallback string) string {
	text := strings.TrimSpace(card.Find(selector).First().Text())
	if text == "" {
		return fallback
	}
	return text
}

// cardQuickApply checks for the quick-apply badge, falling back to the
// card's text when the badge markup is absent.
func cardQuickApply(card *goquery.Selection) bool {
	if card.Find(selCardQuickApply).Length() > 0 {
		return true
	}
	return strings.Contains(strings.ToLower(card.Text()), "easy apply")
}

// ParseListingDetails extracts the detail fields from a rendered listing
// page. Missing sections leave their fields empty; enrichment is best
// effort.
func ParseListingDetails(html string) (db.ListingDetails, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return db.ListingDetails{}, fmt.Errorf("failed to parse listing page: %w", err)
	}

	details := db.ListingDetails{
		Description:    strings.TrimSpace(doc.Find(selDetailDescription).First().Text()),
		ApplicantCount: strings.TrimSpace(doc.Find(selDetailApplicants).First().Text()),
	}

	// The insight chips carry mixed facts; classify each by its text.
	doc.Find(selDetailInsight).Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		lower := strings.ToLower(text)
		switch {
		case strings.Contains(lower, "experience") || strings.Contains(lower, "level"):
			if details.ExperienceLevel == "" {
				details.ExperienceLevel = text
			}
		case strings.Contains(lower, "full-time") ||
			strings.Contains(lower, "part-time") ||
			strings.Contains(lower, "contract"):
			if details.EmploymentType == "" {
				details.EmploymentType = text
			}
		case strings.Contains(text, "$") || strings.Contains(lower, "salary"):
			if details.Compensation == "" {
				details.Compensation = text
			}
		}
	})

	return details, nil
}
