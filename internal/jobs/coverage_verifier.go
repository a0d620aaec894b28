package jobs

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"contentradar/internal/db"
	"contentradar/internal/models"
	"contentradar/internal/validation"
)

// CoverageVerifier periodically confirms that published topic pages are
// actually reachable and marks their matching keywords as covered.
type CoverageVerifier struct {
	db       *db.DB
	interval time.Duration
	client   *http.Client
}

// NewCoverageVerifier creates a new coverage verifier.
func NewCoverageVerifier(database *db.DB, interval, timeout time.Duration) *CoverageVerifier {
	return &CoverageVerifier{
		db:       database,
		interval: interval,
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return errors.New("too many redirects")
				}
				return nil
			},
		},
	}
}

// Start begins the background verification loop.
func (v *CoverageVerifier) Start(ctx context.Context) {
	log.Printf("Coverage verifier started (interval: %v)", v.interval)

	// Run immediately on start
	v.verifyAll(ctx)

	ticker := time.NewTicker(v.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Coverage verifier stopped")
			return
		case <-ticker.C:
			v.verifyAll(ctx)
		}
	}
}

// verifyAll checks every published topic's standalone page.
func (v *CoverageVerifier) verifyAll(ctx context.Context) {
	topics, err := v.db.PublishedTopics(ctx)
	if err != nil {
		log.Printf("Coverage verifier: failed to get topics: %v", err)
		return
	}

	if len(topics) == 0 {
		return
	}

	log.Printf("Coverage verifier: checking %d published topics", len(topics))

	for _, topic := range topics {
		// Check context before each topic
		select {
		case <-ctx.Done():
			return
		default:
		}

		if !v.pageReachable(ctx, topic.StandaloneURL) {
			continue
		}

		terms := CoverageTerms(&topic)
		if len(terms) == 0 {
			continue
		}

		marked, err := v.db.MarkCoveredByTerms(ctx, terms)
		if err != nil {
			log.Printf("Coverage verifier: failed to mark keywords for topic %d: %v", topic.ID, err)
			continue
		}
		if marked > 0 {
			log.Printf("Coverage verifier: topic %d confirmed, %d keywords marked covered", topic.ID, marked)
		}

		// Delay between checks to avoid overwhelming external servers
		time.Sleep(1 * time.Second)
	}
}

// pageReachable performs a HEAD request to check that a URL responds.
// Validates URLs before making requests to prevent SSRF attacks.
func (v *CoverageVerifier) pageReachable(ctx context.Context, url string) bool {
	if valid, msg := validation.ValidateURLForVerification(url); !valid {
		log.Printf("Coverage verifier: skipping %s: %s", url, msg)
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return false
	}

	req.Header.Set("User-Agent", "ContentRadar-CoverageVerifier/1.0")

	resp, err := v.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode >= 200 && resp.StatusCode < 400
}

// CoverageTerms returns the keyword terms a confirmed topic page covers:
// its label plus every search query, normalized and de-duplicated.
func CoverageTerms(topic *models.Topic) []string {
	seen := make(map[string]bool)
	var terms []string

	add := func(raw string) {
		term := validation.NormalizeTerm(raw)
		if term == "" || seen[term] {
			return
		}
		seen[term] = true
		terms = append(terms, term)
	}

	add(topic.Label)
	for _, q := range topic.SearchQueries {
		add(q)
	}
	return terms
}
