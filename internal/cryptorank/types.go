package cryptorank

import "fmt"

// ErrorClass classifies why an upstream call produced no usable data.
type ErrorClass string

const (
	ErrMissingAPIKey ErrorClass = "missing_api_key"
	ErrHTTP          ErrorClass = "http_error"
	ErrNetwork       ErrorClass = "network_failure"
)

// UpstreamError is returned alongside an empty record list. It is never
// shown to the end user directly; the formatter maps it to a canned
// sentence.
type UpstreamError struct {
	Class  ErrorClass
	Status int
	Detail string
}

func (e *UpstreamError) Error() string {
	if e.Class == ErrHTTP {
		return fmt.Sprintf("%s: status %d", e.Class, e.Status)
	}
	return fmt.Sprintf("%s: %s", e.Class, e.Detail)
}

// MarketRecord is the normalized shape shared by all four resource kinds.
// Fields not delivered by a given endpoint stay at their zero value.
type MarketRecord struct {
	Name      string
	Symbol    string
	Price     float64
	Change24h float64
	MarketCap float64
	Rank      int64

	// funds
	FundType string
	Tier     int64

	// drophunting activities
	RewardType  string
	Status      string
	TotalRaised float64
	XScore      string

	// Set only by the drophunting 403 special case; a non-empty value marks
	// the record as a synthetic paid-tier notice rather than real data.
	PaidTierNote string
}
