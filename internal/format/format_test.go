package format

import (
	"fmt"
	"strings"
	"testing"

	"cryptorank-telegram-bot/internal/cryptorank"
	"cryptorank-telegram-bot/internal/types"
)

func TestFormatPriceBlock(t *testing.T) {
	records := []cryptorank.MarketRecord{{
		Name:      "Bitcoin",
		Symbol:    "BTC",
		Price:     65432.1,
		Change24h: -2.5,
		MarketCap: 1280000000000,
		Rank:      1,
	}}

	out := Format(types.KindPrice, records, nil)

	for _, want := range []string{"Bitcoin", "BTC", "$65,432.10", "-2.50%", "📉", "#1"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "📈") {
		t.Errorf("negative change rendered with up indicator:\n%s", out)
	}
}

func TestFormatZeroChangeCountsAsUp(t *testing.T) {
	records := []cryptorank.MarketRecord{{Name: "Tether", Symbol: "USDT", Price: 1.0, Change24h: 0}}

	out := Format(types.KindPrice, records, nil)
	if !strings.Contains(out, "📈") {
		t.Errorf("zero change must use the up indicator:\n%s", out)
	}
	if !strings.Contains(out, "+0.00%") {
		t.Errorf("zero change must render as +0.00%%:\n%s", out)
	}
}

func TestFormatCapsAtTenEntries(t *testing.T) {
	var records []cryptorank.MarketRecord
	for i := 1; i <= 15; i++ {
		records = append(records, cryptorank.MarketRecord{
			Name:   fmt.Sprintf("Coin%d", i),
			Symbol: fmt.Sprintf("C%d", i),
			Price:  float64(i),
		})
	}

	out := Format(types.KindTrending, records, nil)

	if !strings.Contains(out, "10. *Coin10") {
		t.Errorf("tenth entry missing:\n%s", out)
	}
	if strings.Contains(out, "11. *Coin11") {
		t.Errorf("eleventh entry must be dropped:\n%s", out)
	}
	// Order follows the input, never re-sorted.
	if strings.Index(out, "Coin1 ") > strings.Index(out, "Coin2 ") {
		t.Error("entries reordered")
	}
}

func TestFormatErrorSentences(t *testing.T) {
	cases := []struct {
		uerr *cryptorank.UpstreamError
		want string
	}{
		{&cryptorank.UpstreamError{Class: cryptorank.ErrMissingAPIKey}, "API key"},
		{&cryptorank.UpstreamError{Class: cryptorank.ErrHTTP, Status: 500}, "returned an error"},
		{&cryptorank.UpstreamError{Class: cryptorank.ErrNetwork}, "Could not reach"},
	}
	for _, c := range cases {
		out := Format(types.KindPrice, nil, c.uerr)
		if !strings.Contains(out, c.want) {
			t.Errorf("error %s: output %q does not mention %q", c.uerr.Class, out, c.want)
		}
	}
}

func TestFormatEmptyResult(t *testing.T) {
	out := Format(types.KindTrending, nil, nil)
	if !strings.Contains(out, "No data available") {
		t.Errorf("empty result must say no data, got %q", out)
	}
}

func TestFormatPaidTierNotice(t *testing.T) {
	records := []cryptorank.MarketRecord{{
		Name:         "Developer Too Broke",
		RewardType:   "Paid API Required",
		Status:       "403 Forbidden",
		XScore:       "💸",
		PaidTierNote: "The developer is too broke to afford the paid version of the CryptoRank drophunting API endpoint!",
	}}

	out := Format(types.KindDrophunting, records, nil)

	for _, want := range []string{"Developer Too Broke", "too broke to afford", "paid CryptoRank API subscription"} {
		if !strings.Contains(out, want) {
			t.Errorf("paid-tier notice missing %q:\n%s", want, out)
		}
	}
}

func TestFormatEscapesUpstreamText(t *testing.T) {
	records := []cryptorank.MarketRecord{{
		Name:   "Magic*Square",
		Symbol: "SQR_T",
		Price:  1.5,
	}}

	for _, kind := range []types.CommandKind{types.KindPrice, types.KindTrending} {
		out := Format(kind, records, nil)
		if !strings.Contains(out, "Magic\\*Square") {
			t.Errorf("%s: name not escaped:\n%s", kind, out)
		}
		if !strings.Contains(out, "SQR\\_T") {
			t.Errorf("%s: symbol not escaped:\n%s", kind, out)
		}
	}
}

func TestFormatFundMedals(t *testing.T) {
	records := []cryptorank.MarketRecord{
		{Name: "Fund A", FundType: "Venture", Tier: 1},
		{Name: "Fund B", FundType: "Venture", Tier: 2},
		{Name: "Fund C", FundType: "Angel", Tier: 3},
	}

	out := Format(types.KindFunds, records, nil)
	for _, medal := range []string{"🥇", "🥈", "🥉"} {
		if !strings.Contains(out, medal) {
			t.Errorf("fund list missing medal %s:\n%s", medal, out)
		}
	}
}

func TestAssembleDropsWholeBlocks(t *testing.T) {
	big := strings.Repeat("x", 3000) + "\n"
	blocks := []string{big, big}

	out := assemble("head", blocks)
	if len(out) > maxMessageLength {
		t.Fatalf("assembled message is %d chars, limit is %d", len(out), maxMessageLength)
	}
	if strings.Count(out, "xxx") == 0 {
		t.Error("first block must survive")
	}
	// The second block would split mid-entry, so it is dropped entirely.
	if strings.Count(out, strings.Repeat("x", 3000)) != 1 {
		t.Error("second block must be dropped whole")
	}
}
