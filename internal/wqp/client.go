// Package wqp reads monitoring coverage from the EPA Water Quality Portal.
package wqp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"github.com/mr1hm/go-water-safety/internal/geo"
	"github.com/mr1hm/go-water-safety/internal/httputil"
	"github.com/mr1hm/go-water-safety/internal/models"
)

const (
	DefaultBaseURL     = "https://www.waterqualitydata.us/wqx3"
	DefaultRadiusMiles = 15
	// ResultYears is how far back result searches reach.
	ResultYears = 2
)

var ErrUnavailable = errors.New("water quality portal unavailable")

type Client struct {
	fetcher *httputil.Fetcher
	baseURL string
	clock   clockwork.Clock
}

func NewClient(baseURL string, timeout time.Duration, clock clockwork.Clock) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Client{
		fetcher: httputil.NewFetcher("wqp", timeout),
		baseURL: strings.TrimRight(baseURL, "/"),
		clock:   clock,
	}
}

// Summary searches stations and recent results around p. A failed half marks
// the summary partial; ErrUnavailable is returned only when both fail.
func (c *Client) Summary(ctx context.Context, p geo.Point, radiusMiles float64) (*models.WaterQualitySummary, error) {
	if radiusMiles <= 0 {
		radiusMiles = DefaultRadiusMiles
	}

	var (
		stations           int
		results            ResultSummary
		stationErr, resErr error
	)

	// plain Group: one failing search must not cancel the other
	var g errgroup.Group
	g.Go(func() error {
		stations, stationErr = c.stations(ctx, p, radiusMiles)
		return nil
	})
	g.Go(func() error {
		results, resErr = c.results(ctx, p, radiusMiles)
		return nil
	})
	g.Wait()

	if stationErr != nil {
		slog.Warn("wqp station search failed", "error", stationErr, "lat", p.Lat, "lng", p.Lng)
	}
	if resErr != nil {
		slog.Warn("wqp result search failed", "error", resErr, "lat", p.Lat, "lng", p.Lng)
	}
	if stationErr != nil && resErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, errors.Join(stationErr, resErr))
	}

	return &models.WaterQualitySummary{
		StationCount:        stations,
		ResultCount:         results.Count,
		LatestYear:          results.LatestYear,
		CharacteristicNames: results.CharacteristicNames,
		Partial:             stationErr != nil || resErr != nil,
	}, nil
}

func (c *Client) stations(ctx context.Context, p geo.Point, radiusMiles float64) (int, error) {
	body, err := c.fetcher.Get(ctx, c.searchURL("/Station/search", p, radiusMiles, nil))
	if err != nil {
		return 0, err
	}
	return CountRows(body)
}

func (c *Client) results(ctx context.Context, p geo.Point, radiusMiles float64) (ResultSummary, error) {
	now := c.clock.Now()
	extra := url.Values{
		"startDateLo": {portalDate(now.AddDate(-ResultYears, 0, 0))},
		"startDateHi": {portalDate(now)},
	}
	body, err := c.fetcher.Get(ctx, c.searchURL("/Result/search", p, radiusMiles, extra))
	if err != nil {
		return ResultSummary{}, err
	}
	return SummarizeResults(body)
}

func (c *Client) searchURL(path string, p geo.Point, radiusMiles float64, extra url.Values) string {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(p.Lat, 'f', -1, 64))
	q.Set("long", strconv.FormatFloat(p.Lng, 'f', -1, 64))
	q.Set("within", strconv.FormatFloat(radiusMiles, 'f', -1, 64))
	q.Set("mimeType", "csv")
	for k, v := range extra {
		q[k] = v
	}
	return c.baseURL + path + "?" + q.Encode()
}

// portalDate formats t as MM-DD-YYYY.
func portalDate(t time.Time) string {
	return t.Format("01-02-2006")
}
