package bot

import (
	"strings"

	"cryptorank-telegram-bot/internal/types"
)

// commandTable maps slash-command prefixes to their kinds. Matching is a
// case-insensitive prefix match, so "/pricecheck" still routes to the price
// command; the remainder of the message after whitespace supplies the
// argument.
var commandTable = []struct {
	prefix string
	kind   types.CommandKind
}{
	{"/start", types.KindStart},
	{"/help", types.KindHelp},
	{"/price", types.KindPrice},
	{"/trending", types.KindTrending},
	{"/funds", types.KindFunds},
	{"/drophunting", types.KindDrophunting},
}

// cryptoKeywords gates the best-effort natural-language path: free text
// containing none of these goes straight to the AI adapter.
var cryptoKeywords = []string{
	"bitcoin", "btc", "ethereum", "eth", "crypto", "cryptocurrency",
	"price", "trending", "market", "trading", "drophunting", "airdrop",
	"rewards", "yield", "farming", "staking", "protocol", "token", "coin",
	"altcoin", "funds", "investors",
}

var (
	priceWords    = []string{"price", "cost", "value", "worth", "how much"}
	trendingWords = []string{"trending", "hot", "popular", "gaining", "losing"}
	fundsWords    = []string{"funds", "investors", "vc", "hedge", "capital", "investment"}
	airdropWords  = []string{"drophunting", "airdrop", "rewards", "activities", "drops"}
)

var knownTickers = map[string]bool{
	"BTC": true, "ETH": true, "ADA": true, "SOL": true, "DOT": true,
	"MATIC": true, "AVAX": true, "LINK": true, "UNI": true, "AAVE": true,
}

var coinAliases = map[string]string{
	"bitcoin":  "BTC",
	"ethereum": "ETH",
	"solana":   "SOL",
	"cardano":  "ADA",
}

// Classify resolves a text message to a command request. It is a pure
// function of the text and the fixed vocabulary above.
func Classify(text string) types.CommandRequest {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return types.CommandRequest{Kind: types.KindFreeText}
	}

	first := strings.ToLower(fields[0])
	if strings.HasPrefix(first, "/") {
		for _, cmd := range commandTable {
			if !strings.HasPrefix(first, cmd.prefix) {
				continue
			}
			req := types.CommandRequest{Kind: cmd.kind}
			if len(fields) > 1 {
				switch cmd.kind {
				case types.KindPrice:
					req.Argument = strings.ToUpper(fields[1])
				case types.KindTrending:
					req.Argument = strings.ToLower(fields[1])
				case types.KindDrophunting:
					req.Argument = fields[1]
				}
			}
			return req
		}
	}

	return types.CommandRequest{Kind: types.KindFreeText}
}

// deriveIntent guesses a structured action from free text by keyword
// containment. It is heuristic by design; unmatched text falls through to
// the AI adapter.
func deriveIntent(text string) (types.CommandRequest, bool) {
	lower := strings.ToLower(text)

	if !containsAny(lower, cryptoKeywords) {
		return types.CommandRequest{}, false
	}

	switch {
	case containsAny(lower, priceWords):
		return types.CommandRequest{Kind: types.KindPrice, Argument: guessSymbol(text)}, true
	case containsAny(lower, trendingWords):
		return types.CommandRequest{Kind: types.KindTrending}, true
	case containsAny(lower, fundsWords):
		return types.CommandRequest{Kind: types.KindFunds}, true
	case containsAny(lower, airdropWords):
		return types.CommandRequest{Kind: types.KindDrophunting}, true
	}

	return types.CommandRequest{}, false
}

// guessSymbol scans whitespace-split tokens for a known ticker or coin-name
// alias, defaulting to BTC when a price-like request names no coin.
func guessSymbol(text string) string {
	for _, token := range strings.Fields(text) {
		token = strings.Trim(token, "?!.,:;")
		if knownTickers[strings.ToUpper(token)] {
			return strings.ToUpper(token)
		}
		if symbol, ok := coinAliases[strings.ToLower(token)]; ok {
			return symbol
		}
	}
	return "BTC"
}

func containsAny(haystack string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(haystack, needle) {
			return true
		}
	}
	return false
}
