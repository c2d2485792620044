package jobs

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"splitpath/internal/db"
	"splitpath/internal/models"
	"splitpath/internal/validation"
)

// PathChecker performs background reachability checks on variant pages.
// A variant whose page 404s silently skews an experiment, so unhealthy
// variants are flagged for the dashboard.
type PathChecker struct {
	db       *db.DB
	baseURL  string
	interval time.Duration
	maxAge   time.Duration
	client   *http.Client
}

// NewPathChecker creates a new path checker. baseURL is the public base
// URL of the site hosting the variant pages.
func NewPathChecker(database *db.DB, baseURL string, interval, maxAge time.Duration) *PathChecker {
	return &PathChecker{
		db:       database,
		baseURL:  strings.TrimRight(baseURL, "/"),
		interval: interval,
		maxAge:   maxAge,
		client: &http.Client{
			Timeout: 10 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return errors.New("too many redirects")
				}
				return nil
			},
		},
	}
}

// Start begins the background check loop.
func (p *PathChecker) Start(ctx context.Context) {
	log.Printf("Path checker started (interval: %v, maxAge: %v)", p.interval, p.maxAge)

	// Run immediately on start
	p.checkAll(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Path checker stopped")
			return
		case <-ticker.C:
			p.checkAll(ctx)
		}
	}
}

// checkAll checks all variants of active experiments that need a check.
func (p *PathChecker) checkAll(ctx context.Context) {
	variants, err := p.db.GetVariantsNeedingHealthCheck(ctx, p.maxAge, 50)
	if err != nil {
		log.Printf("Path checker: failed to get variants: %v", err)
		return
	}

	if len(variants) == 0 {
		return
	}

	log.Printf("Path checker: checking %d variants", len(variants))

	for _, variant := range variants {
		// Check context before each variant
		select {
		case <-ctx.Done():
			return
		default:
		}

		status, errorMsg := p.checkPath(ctx, variant.Path)
		if err := p.db.UpdateVariantHealthStatus(ctx, variant.ID, status, errorMsg); err != nil {
			log.Printf("Path checker: failed to update variant %s: %v", variant.Name, err)
			continue
		}

		// Delay between checks to avoid hammering the hosting site
		time.Sleep(1 * time.Second)
	}
}

// checkPath performs a HEAD request against the variant's page.
// Validates the resulting URL before making the request to prevent SSRF.
func (p *PathChecker) checkPath(ctx context.Context, path string) (string, *string) {
	url := p.baseURL + path

	if valid, msg := validation.ValidateURLForHealthCheck(url); !valid {
		return models.HealthUnhealthy, &msg
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		errMsg := "invalid URL: " + err.Error()
		return models.HealthUnhealthy, &errMsg
	}

	req.Header.Set("User-Agent", "SplitPath-PathChecker/1.0")

	resp, err := p.client.Do(req)
	if err != nil {
		errMsg := "connection failed: " + err.Error()
		return models.HealthUnknown, &errMsg
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		errMsg := "unexpected status: " + resp.Status
		return models.HealthUnhealthy, &errMsg
	}

	return models.HealthHealthy, nil
}
