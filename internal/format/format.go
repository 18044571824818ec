package format

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"cryptorank-telegram-bot/internal/cryptorank"
	"cryptorank-telegram-bot/internal/types"
	"cryptorank-telegram-bot/lib/helpers"
	"cryptorank-telegram-bot/lib/translation"
)

const (
	// Telegram rejects messages longer than this.
	maxMessageLength = 4096
	maxEntries       = 10
)

// Format renders a fetch result into one reply text. Upstream errors map to
// canned sentences; record lists render as per-kind blocks, capped at ten
// entries, in provider order.
func Format(kind types.CommandKind, records []cryptorank.MarketRecord, uerr *cryptorank.UpstreamError) string {
	if uerr != nil {
		return errorSentence(uerr)
	}
	if len(records) == 0 {
		return translation.Translate("😶 No data available right now. Please try again later.")
	}

	if kind == types.KindDrophunting && records[0].PaidTierNote != "" {
		return paidTierNotice(records[0])
	}

	records = lo.Slice(records, 0, maxEntries)

	var blocks []string
	switch kind {
	case types.KindPrice:
		for _, r := range records {
			blocks = append(blocks, priceBlock(r))
		}
	case types.KindTrending:
		for i, r := range records {
			blocks = append(blocks, trendingBlock(i+1, r))
		}
	case types.KindFunds:
		for i, r := range records {
			blocks = append(blocks, fundBlock(i+1, r))
		}
	case types.KindDrophunting:
		for i, r := range records {
			blocks = append(blocks, airdropBlock(i+1, r))
		}
	default:
		for _, r := range records {
			blocks = append(blocks, priceBlock(r))
		}
	}

	return assemble(header(kind), blocks)
}

func header(kind types.CommandKind) string {
	switch kind {
	case types.KindPrice:
		return translation.Translate("💰 *Current Prices:*")
	case types.KindTrending:
		return translation.Translate("🔥 *Trending Cryptocurrencies:*")
	case types.KindFunds:
		return translation.Translate("🏦 *Top Crypto Investors & Funds:*")
	case types.KindDrophunting:
		return translation.Translate("🎯 *Drophunting Activities:*")
	}
	return ""
}

func errorSentence(uerr *cryptorank.UpstreamError) string {
	switch uerr.Class {
	case cryptorank.ErrMissingAPIKey:
		return translation.Translate("❌ Could not fetch data. Please configure your CryptoRank API key.")
	case cryptorank.ErrHTTP:
		return translation.Translate("❌ The market data service returned an error. Please try again later.")
	default:
		return translation.Translate("❌ Could not reach the market data service. Please try again.")
	}
}

func priceBlock(r cryptorank.MarketRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*%s (%s)*: %s\n", helpers.EscapeMarkdown(r.Name), helpers.EscapeMarkdown(r.Symbol), helpers.FormatUSD(r.Price))
	fmt.Fprintf(&b, "%s 24h: %s\n", changeIndicator(r.Change24h), helpers.FormatPercent(r.Change24h))
	if r.MarketCap > 0 {
		fmt.Fprintf(&b, "Market Cap: %s\n", helpers.FormatRoundedUSD(r.MarketCap))
	}
	if r.Rank > 0 {
		fmt.Fprintf(&b, "Rank: %s\n", helpers.FormatRank(r.Rank))
	}
	return b.String()
}

func trendingBlock(position int, r cryptorank.MarketRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d. *%s (%s)* - %s\n", position, helpers.EscapeMarkdown(r.Name), helpers.EscapeMarkdown(r.Symbol), helpers.FormatUSD(r.Price))
	fmt.Fprintf(&b, "   %s %s (24h)\n", changeIndicator(r.Change24h), helpers.FormatPercent(r.Change24h))
	if r.MarketCap > 0 {
		fmt.Fprintf(&b, "   Market Cap: %s\n", helpers.FormatRoundedUSD(r.MarketCap))
	}
	return b.String()
}

func fundBlock(position int, r cryptorank.MarketRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d. *%s*\n", position, helpers.EscapeMarkdown(r.Name))
	fmt.Fprintf(&b, "   %s Type: %s\n", tierMedal(r.Tier), r.FundType)
	fmt.Fprintf(&b, "   Tier: %d\n", r.Tier)
	return b.String()
}

func airdropBlock(position int, r cryptorank.MarketRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d. *%s*\n", position, helpers.EscapeMarkdown(r.Name))
	fmt.Fprintf(&b, "   🎁 Reward: %s\n", r.RewardType)
	fmt.Fprintf(&b, "   📊 Status: %s\n", r.Status)
	if r.TotalRaised > 0 {
		fmt.Fprintf(&b, "   💰 Raised: %s\n", helpers.FormatRoundedUSD(r.TotalRaised))
	}
	fmt.Fprintf(&b, "   📱 X Score: %s\n", lo.Ternary(r.XScore != "", r.XScore, "N/A"))
	return b.String()
}

func paidTierNotice(r cryptorank.MarketRecord) string {
	var b strings.Builder
	b.WriteString(header(types.KindDrophunting) + "\n\n")
	fmt.Fprintf(&b, "💸 *%s*\n", helpers.EscapeMarkdown(r.Name))
	fmt.Fprintf(&b, "   🎁 Reward: %s\n", r.RewardType)
	fmt.Fprintf(&b, "   📊 Status: %s\n", r.Status)
	fmt.Fprintf(&b, "   📱 X Score: %s\n\n", r.XScore)
	fmt.Fprintf(&b, "*%s*\n\n", r.PaidTierNote)
	b.WriteString(translation.Translate("💡 This endpoint requires a paid CryptoRank API subscription."))
	return b.String()
}

// assemble joins header and blocks, dropping whole trailing blocks rather
// than splitting one across the transport's message limit.
func assemble(head string, blocks []string) string {
	var b strings.Builder
	b.WriteString(head + "\n\n")
	for _, block := range blocks {
		if b.Len()+len(block)+1 > maxMessageLength {
			break
		}
		b.WriteString(block + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// changeIndicator keys on sign; zero counts as up.
func changeIndicator(change float64) string {
	return lo.Ternary(change >= 0, "📈", "📉")
}

func tierMedal(tier int64) string {
	switch tier {
	case 1:
		return "🥇"
	case 2:
		return "🥈"
	default:
		return "🥉"
	}
}
