package cryptorank

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/davecgh/go-spew/spew"
	gocache "github.com/patrickmn/go-cache"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cast"
	"github.com/tidwall/gjson"
)

const (
	currenciesPath  = "/currencies"
	fundsPath       = "/funds/map"
	drophuntingPath = "/drophunting/activities"

	currencyLimit = 20
	fundLimit     = 20
	airdropLimit  = 10
)

// Client talks to the CryptoRank v2 REST API. The zero retry/cache settings
// reproduce the plain single-GET call path; both are opt-in.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	maxRetries int
	cache      *gocache.Cache
	cacheTTL   time.Duration
}

type Option func(*Client)

// WithTimeout bounds every outbound call.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithMaxRetries enables constant-interval retries of failed transport
// attempts. HTTP error statuses are never retried.
func WithMaxRetries(n int) Option {
	return func(c *Client) {
		c.maxRetries = n
	}
}

// WithCacheTTL enables a read-through cache keyed by (resource kind,
// arguments).
func WithCacheTTL(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.cache = gocache.New(d, 2*d)
			c.cacheTTL = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func NewClient(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchPrices returns current listings for the given ticker symbols.
func (c *Client) FetchPrices(ctx context.Context, symbols []string) ([]MarketRecord, *UpstreamError) {
	cacheKey := "prices|" + strings.Join(symbols, ",")
	if records, found := c.cached(cacheKey); found {
		return records, nil
	}

	params := url.Values{}
	params.Set("symbol", strings.Join(symbols, ","))
	params.Set("limit", strconv.Itoa(currencyLimit))
	params.Set("sortBy", "rank")
	params.Set("sortDirection", "ASC")
	params.Set("include", "percentChange")

	status, body, uerr := c.get(ctx, currenciesPath, params)
	if uerr != nil {
		return nil, uerr
	}
	if status != http.StatusOK {
		return nil, &UpstreamError{Class: ErrHTTP, Status: status}
	}

	records := parseCurrencies(body)
	c.store(cacheKey, records)
	return records, nil
}

// FetchTrending returns currency listings under one of three sort presets:
// "trending" (market cap descending), "gainers" and "losers" (percent change
// descending resp. ascending). Ordering is delegated to the provider.
func (c *Client) FetchTrending(ctx context.Context, preset string) ([]MarketRecord, *UpstreamError) {
	cacheKey := "trending|" + preset
	if records, found := c.cached(cacheKey); found {
		return records, nil
	}

	sortBy, sortDirection := "marketCap", "DESC"
	switch preset {
	case "gainers":
		sortBy, sortDirection = "percentChange", "DESC"
	case "losers":
		sortBy, sortDirection = "percentChange", "ASC"
	}

	params := url.Values{}
	params.Set("limit", strconv.Itoa(currencyLimit))
	params.Set("sortBy", sortBy)
	params.Set("sortDirection", sortDirection)
	params.Set("include", "percentChange")

	status, body, uerr := c.get(ctx, currenciesPath, params)
	if uerr != nil {
		return nil, uerr
	}
	if status != http.StatusOK {
		return nil, &UpstreamError{Class: ErrHTTP, Status: status}
	}

	records := parseCurrencies(body)
	c.store(cacheKey, records)
	return records, nil
}

// FetchFunds returns the investor and fund directory.
func (c *Client) FetchFunds(ctx context.Context) ([]MarketRecord, *UpstreamError) {
	cacheKey := "funds|"
	if records, found := c.cached(cacheKey); found {
		return records, nil
	}

	params := url.Values{}
	params.Set("limit", strconv.Itoa(fundLimit))

	status, body, uerr := c.get(ctx, fundsPath, params)
	if uerr != nil {
		return nil, uerr
	}
	if status != http.StatusOK {
		return nil, &UpstreamError{Class: ErrHTTP, Status: status}
	}

	var records []MarketRecord
	for _, el := range gjson.GetBytes(body, "data").Array() {
		records = append(records, MarketRecord{
			Name:     stringOr(el, "name", "Unknown"),
			FundType: stringOr(el, "type", "Unknown"),
			Tier:     cast.ToInt64(el.Get("tier").Value()),
		})
	}
	c.store(cacheKey, records)
	return records, nil
}

// FetchAirdrops returns airdrop activities, optionally filtered by status.
// A 403 from this endpoint means the account tier does not include it; that
// case yields a single synthetic record instead of an error so the user
// still gets an informative reply.
func (c *Client) FetchAirdrops(ctx context.Context, statusFilter string) ([]MarketRecord, *UpstreamError) {
	cacheKey := "drophunting|" + statusFilter
	if records, found := c.cached(cacheKey); found {
		return records, nil
	}

	params := url.Values{}
	params.Set("limit", strconv.Itoa(airdropLimit))
	params.Set("sortBy", "lastStatusUpdate")
	params.Set("sortDirection", "DESC")
	if statusFilter != "" {
		params.Set("status", statusFilter)
	}

	status, body, uerr := c.get(ctx, drophuntingPath, params)
	if uerr != nil {
		return nil, uerr
	}
	if status == http.StatusForbidden {
		log.Warn("drophunting endpoint returned 403, paid subscription required")
		return []MarketRecord{{
			Name:         "Developer Too Broke",
			RewardType:   "Paid API Required",
			Status:       "403 Forbidden",
			XScore:       "💸",
			PaidTierNote: "The developer is too broke to afford the paid version of the CryptoRank drophunting API endpoint!",
		}}, nil
	}
	if status != http.StatusOK {
		return nil, &UpstreamError{Class: ErrHTTP, Status: status}
	}

	var records []MarketRecord
	for _, el := range gjson.GetBytes(body, "data").Array() {
		raised, _ := floatField(el, "totalRaised")
		records = append(records, MarketRecord{
			Name:        stringOr(el, "name", "Unknown"),
			RewardType:  stringOr(el, "rewardType", "Unknown"),
			Status:      stringOr(el, "status", "Unknown"),
			TotalRaised: raised,
			XScore:      cast.ToString(el.Get("xScore").Value()),
		})
	}
	c.store(cacheKey, records)
	return records, nil
}

// get issues one authenticated GET. With retries enabled, only transport
// failures are retried; any received HTTP status is returned as-is.
func (c *Client) get(ctx context.Context, path string, params url.Values) (int, []byte, *UpstreamError) {
	if c.apiKey == "" {
		return 0, nil, &UpstreamError{Class: ErrMissingAPIKey, Detail: "no API key configured"}
	}

	requestURL := c.baseURL + path + "?" + params.Encode()

	operation := func() (*httpResult, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		// The key travels in a header so it can never leak into request logs.
		req.Header.Set("X-Api-Key", c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		return &httpResult{status: resp.StatusCode, body: body}, nil
	}

	var result *httpResult
	var err error
	if c.maxRetries > 0 {
		result, err = backoff.Retry(ctx, operation,
			backoff.WithMaxTries(uint(c.maxRetries+1)),
			backoff.WithBackOff(backoff.NewConstantBackOff(500*time.Millisecond)),
		)
	} else {
		result, err = operation()
	}
	if err != nil {
		log.Errorf("cryptorank GET %s failed: %v", path, err)
		return 0, nil, &UpstreamError{Class: ErrNetwork, Detail: err.Error()}
	}

	log.Debugf("cryptorank GET %s -> %d (%d bytes)", path, result.status, len(result.body))
	return result.status, result.body, nil
}

type httpResult struct {
	status int
	body   []byte
}

func (c *Client) cached(key string) ([]MarketRecord, bool) {
	if c.cache == nil {
		return nil, false
	}
	if v, found := c.cache.Get(key); found {
		if records, ok := v.([]MarketRecord); ok {
			return records, true
		}
	}
	return nil, false
}

func (c *Client) store(key string, records []MarketRecord) {
	if c.cache == nil {
		return
	}
	c.cache.Set(key, records, c.cacheTTL)
}

// parseCurrencies normalizes a /currencies payload. An element whose price
// cannot be read as a number is skipped; the rest of the batch survives.
func parseCurrencies(body []byte) []MarketRecord {
	var records []MarketRecord
	for _, el := range gjson.GetBytes(body, "data").Array() {
		price, ok := floatField(el, "price")
		if !ok {
			log.Debugf("skipping currency element with unparseable price: %s", spew.Sdump(el.Value()))
			continue
		}
		change, _ := floatField(el, "percentChange.24h")
		marketCap, _ := floatField(el, "marketCap")
		records = append(records, MarketRecord{
			Name:      el.Get("name").String(),
			Symbol:    el.Get("symbol").String(),
			Price:     price,
			Change24h: change,
			MarketCap: marketCap,
			Rank:      el.Get("rank").Int(),
		})
	}
	return records
}

// floatField reads a numeric field that the provider serializes either as a
// number or as a decimal string.
func floatField(el gjson.Result, path string) (float64, bool) {
	r := el.Get(path)
	switch r.Type {
	case gjson.Number:
		return r.Num, true
	case gjson.String:
		f, err := strconv.ParseFloat(r.Str, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func stringOr(el gjson.Result, path, fallback string) string {
	if r := el.Get(path); r.Exists() && r.String() != "" {
		return r.String()
	}
	return fallback
}
