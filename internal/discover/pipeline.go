package discover

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jordan/easyapply-agent/internal/db"
)

// Renderer renders a URL to HTML. Satisfied by browser.Browser.
type Renderer interface {
	RenderPage(ctx context.Context, url string, wait time.Duration) (string, error)
}

// Store is the slice of the listing store the pipeline writes through.
type Store interface {
	InsertListingsBatch(ctx context.Context, inputs []db.ListingInput) ([]db.Listing, error)
	EnrichListing(ctx context.Context, externalID string, d db.ListingDetails) error
}

// detailEnrichLimit caps detail-page visits per keyword to stay under the
// board's rate limits.
const detailEnrichLimit = 5

// nearEndThreshold stops paging when a page comes back mostly empty.
const nearEndThreshold = 20

// Options configures one discovery run.
type Options struct {
	Keywords         []string
	Location         string
	ExperienceLevels []ExperienceLevel
	DatePosted       DatePosted
	QuickApplyOnly   bool

	// MaxPages bounds result pages fetched per keyword. Zero means 3.
	MaxPages int

	// FetchDetails visits newly added listings to back-fill description and
	// insight fields.
	FetchDetails bool

	// PageSettle is how long a rendered page gets to finish loading before
	// parsing. Zero means 3s.
	PageSettle time.Duration

	Verbose bool
}

func (o Options) withDefaults() Options {
	if o.MaxPages <= 0 {
		o.MaxPages = 3
	}
	if o.PageSettle <= 0 {
		o.PageSettle = 3 * time.Second
	}
	return o
}

// Result summarizes a discovery run.
type Result struct {
	Scanned int
	Added   int
}

// Pipeline renders search pages and feeds parsed cards into the store.
type Pipeline struct {
	store    Store
	renderer Renderer
}

func NewPipeline(store Store, renderer Renderer) *Pipeline {
	return &Pipeline{store: store, renderer: renderer}
}

// Run discovers listings for every keyword in opts. Per-page parse problems
// are logged and skipped; store errors abort the run.
func (p *Pipeline) Run(ctx context.Context, opts Options) (Result, error) {
	opts = opts.withDefaults()

	var result Result
	for i, keyword := range opts.Keywords {
		if i > 0 {
			if err := sleep(ctx, 3*time.Second); err != nil {
				return result, err
			}
		}

		keywordResult, err := p.runKeyword(ctx, keyword, opts)
		result.Scanned += keywordResult.Scanned
		result.Added += keywordResult.Added
		if err != nil {
			return result, err
		}
	}
	return result, nil
}

func (p *Pipeline) runKeyword(ctx context.Context, keyword string, opts Options) (Result, error) {
	var inputs []db.ListingInput

	for page := 0; page < opts.MaxPages; page++ {
		if page > 0 {
			if err := sleep(ctx, 2*time.Second); err != nil {
				return Result{}, err
			}
		}

		query := SearchQuery{
			Keywords:         keyword,
			Location:         opts.Location,
			ExperienceLevels: opts.ExperienceLevels,
			DatePosted:       opts.DatePosted,
			QuickApplyOnly:   opts.QuickApplyOnly,
			Page:             page,
		}

		html, err := p.renderer.RenderPage(ctx, query.URL(), opts.PageSettle)
		if err != nil {
			return Result{}, fmt.Errorf("failed to fetch results page %d for %q: %w", page, keyword, err)
		}

		cards, err := ParseSearchResults(html, keyword)
		if err != nil {
			log.Printf("[DISCOVER] skipping page %d for %q: %v", page, keyword, err)
			continue
		}
		if opts.Verbose {
			log.Printf("[DISCOVER] %q page %d: %d cards", keyword, page, len(cards))
		}
		inputs = append(inputs, cards...)

		if len(cards) < nearEndThreshold {
			break
		}
	}

	added, err := p.store.InsertListingsBatch(ctx, inputs)
	if err != nil {
		return Result{Scanned: len(inputs)}, fmt.Errorf("failed to store listings for %q: %w", keyword, err)
	}
	if opts.Verbose {
		log.Printf("[DISCOVER] %q: %d scanned, %d new", keyword, len(inputs), len(added))
	}

	result := Result{Scanned: len(inputs), Added: len(added)}

	if opts.FetchDetails {
		if err := p.enrich(ctx, added, opts); err != nil {
			return result, err
		}
	}
	return result, nil
}

// enrich visits a few of the newly added listings and back-fills detail
// fields. Parse problems are logged; only store and render errors abort.
func (p *Pipeline) enrich(ctx context.Context, added []db.Listing, opts Options) error {
	for i, listing := range added {
		if i >= detailEnrichLimit {
			return nil
		}
		if listing.URL == nil {
			continue
		}
		if err := sleep(ctx, time.Second); err != nil {
			return err
		}

		html, err := p.renderer.RenderPage(ctx, *listing.URL, opts.PageSettle)
		if err != nil {
			return fmt.Errorf("failed to fetch listing %s: %w", listing.ExternalID, err)
		}
		details, err := ParseListingDetails(html)
		if err != nil {
			log.Printf("[DISCOVER] skipping detail for %s: %v", listing.ExternalID, err)
			continue
		}
		if err := p.store.EnrichListing(ctx, listing.ExternalID, details); err != nil {
			return err
		}
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
