package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/cenkalti/backoff/v4"

	"github.com/pfrederiksen/gt-events/internal/event"
	"github.com/pfrederiksen/gt-events/internal/logger"
)

const (
	// MatchesURL is the default CS:GO match listing page.
	MatchesURL = "https://en.game-tournaments.com/csgo/matches"

	// UserAgent identifies the collector to the source site.
	UserAgent = "gt-events-collector/1.0 (github.com/pfrederiksen/gt-events)"

	// Timeout bounds a single fetch attempt.
	Timeout = 30 * time.Second

	maxRetries = 3
)

// TimestampPolicy decides what a malformed row timestamp does to the run.
type TimestampPolicy int

const (
	// TimestampSkip drops the row with a warning and continues. This is the
	// default; a single garbled row should not cost the whole schedule.
	TimestampSkip TimestampPolicy = iota

	// TimestampAbort fails the entire extraction on the first bad timestamp.
	TimestampAbort
)

// Result holds the outcome of one page extraction.
type Result struct {
	Events  []*event.Event
	Skipped int
}

// Scraper fetches and parses the match listing page.
type Scraper struct {
	client *http.Client
	url    string
	policy TimestampPolicy
}

// New creates a Scraper. An empty url selects the default matches page.
func New(url string, policy TimestampPolicy) *Scraper {
	if url == "" {
		url = MatchesURL
	}
	return &Scraper{
		client: &http.Client{Timeout: Timeout},
		url:    url,
		policy: policy,
	}
}

// FetchEvents fetches the listing page and extracts all match events in
// document order. Fetch and parse failures abort the run; row-level problems
// are handled per the timestamp policy and the matchup filters.
func (s *Scraper) FetchEvents(ctx context.Context) (*Result, error) {
	logger.Info("fetching match listing", logger.Fields{"url": s.url})

	body, err := s.fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	return s.extract(doc)
}

// fetch retrieves the raw page, retrying transient failures with
// exponential backoff. Non-2xx responses other than 5xx are permanent.
func (s *Scraper) fetch(ctx context.Context) (io.Reader, error) {
	var body io.Reader

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("User-Agent", UserAgent)

		resp, err := s.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			return fmt.Errorf("server error: status %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			return backoff.Permanent(fmt.Errorf("unexpected status code: %d", resp.StatusCode))
		}

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxRetries), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}
	return body, nil
}

// extract walks every matches table row by row and yields canonical events.
func (s *Scraper) extract(doc *goquery.Document) (*Result, error) {
	result := &Result{Events: make([]*event.Event, 0)}
	var rowErr error

	doc.Find("table.matches tr").EachWithBreak(func(i int, row *goquery.Selection) bool {
		anchor := row.Find("a.mlink").First()
		if anchor.Length() == 0 {
			// Header or filler row, not a match.
			return true
		}

		rawTime, ok := row.Find("span.sct").First().Attr("data-time")
		millis := int64(0)
		if ok {
			var err error
			millis, err = event.ParseTimestamp(rawTime)
			if err != nil {
				ok = false
			}
		}
		if !ok {
			if s.policy == TimestampAbort {
				rowErr = fmt.Errorf("row %d: unparsable timestamp %q", i, rawTime)
				return false
			}
			logger.Warn("skipping row with bad timestamp", logger.Fields{"row": i, "data_time": rawTime})
			logger.IncrCounter("rows.skipped.timestamp", 1)
			result.Skipped++
			return true
		}

		title := anchor.AttrOr("title", "")
		name, err := event.NormalizeName(title)
		if err != nil {
			if !errors.Is(err, event.ErrPlaceholder) {
				logger.Warn("could not normalize event name", logger.Fields{"row": i, "title": title})
			}
			logger.IncrCounter("rows.skipped.name", 1)
			result.Skipped++
			return true
		}

		evt := event.New(name, millis, anchor.AttrOr("href", ""))
		result.Events = append(result.Events, evt)

		logger.Info("extracted event", logger.Fields{
			"event_name": evt.EventName,
			"event_sha":  evt.EventSHA,
			"timestamp":  evt.EventTimestamp,
			"url":        evt.EventURL,
		})
		logger.IncrCounter("events.extracted", 1)
		return true
	})

	if rowErr != nil {
		return nil, rowErr
	}
	return result, nil
}
