package bot

import (
	"context"
	"strings"

	log "github.com/sirupsen/logrus"

	"cryptorank-telegram-bot/internal/cryptorank"
	"cryptorank-telegram-bot/internal/format"
	"cryptorank-telegram-bot/internal/model"
	"cryptorank-telegram-bot/internal/types"
	"cryptorank-telegram-bot/lib/translation"
)

// MarketClient is the upstream market-data surface the dispatcher calls.
type MarketClient interface {
	FetchPrices(ctx context.Context, symbols []string) ([]cryptorank.MarketRecord, *cryptorank.UpstreamError)
	FetchTrending(ctx context.Context, preset string) ([]cryptorank.MarketRecord, *cryptorank.UpstreamError)
	FetchFunds(ctx context.Context) ([]cryptorank.MarketRecord, *cryptorank.UpstreamError)
	FetchAirdrops(ctx context.Context, statusFilter string) ([]cryptorank.MarketRecord, *cryptorank.UpstreamError)
}

// Responder answers free text that matched no structured command.
type Responder interface {
	Respond(ctx context.Context, text string) string
}

// Dispatcher routes one inbound update to a reply. It holds no per-update
// state and is safe for concurrent use.
type Dispatcher struct {
	market MarketClient
	ai     Responder
}

func NewDispatcher(market MarketClient, ai Responder) *Dispatcher {
	return &Dispatcher{market: market, ai: ai}
}

// Dispatch classifies the update, runs at most one upstream call and returns
// the reply. A nil return means no reply is owed (unknown button token).
// Nothing escapes: any panic becomes a generic apology.
func (d *Dispatcher) Dispatch(ctx context.Context, u types.InboundUpdate) (reply *types.ReplyPayload) {
	var chatID int64
	if u.Message != nil {
		chatID = u.Message.ChatID
	} else if u.Button != nil {
		chatID = u.Button.ChatID
	}

	defer func() {
		if r := recover(); r != nil {
			log.Errorf("recovered from panic while dispatching update: %v", r)
			reply = &types.ReplyPayload{
				ChatID: chatID,
				Text:   translation.Translate("❌ Sorry, something went wrong processing your request. Please try again."),
			}
		}
	}()

	if u.Button != nil {
		return d.handleButton(ctx, u.Button)
	}
	if u.Message == nil {
		return nil
	}

	req := Classify(u.Message.Text)
	log.Debugf("message from %s classified as %s (argument %q)", u.Message.Username, req.Kind, req.Argument)

	switch req.Kind {
	case types.KindStart:
		return &types.ReplyPayload{ChatID: chatID, Text: welcomeText(), Buttons: menuButtons()}
	case types.KindHelp:
		return &types.ReplyPayload{ChatID: chatID, Text: helpText()}
	case types.KindFreeText:
		return &types.ReplyPayload{ChatID: chatID, Text: d.handleFreeText(ctx, u.Message.Text)}
	default:
		return &types.ReplyPayload{ChatID: chatID, Text: d.runCommand(ctx, req)}
	}
}

// handleButton maps a callback token to its action. Unknown tokens are
// dropped without a reply; known ones edit the pressed message in place.
func (d *Dispatcher) handleButton(ctx context.Context, press *types.ButtonPress) *types.ReplyPayload {
	var text string
	switch press.ActionToken {
	case "price_menu":
		text = priceUsageText()
	case "trending_menu":
		text = d.runCommand(ctx, types.CommandRequest{Kind: types.KindTrending})
	case "funds_menu":
		text = d.runCommand(ctx, types.CommandRequest{Kind: types.KindFunds})
	case "drophunting_menu":
		text = d.runCommand(ctx, types.CommandRequest{Kind: types.KindDrophunting})
	case "help_menu":
		text = helpText()
	default:
		log.Debugf("ignoring unknown button token %q", press.ActionToken)
		return nil
	}

	return &types.ReplyPayload{
		ChatID:    press.ChatID,
		MessageID: press.MessageID,
		Text:      text,
	}
}

// runCommand performs the single upstream call a structured command needs
// and renders the result.
func (d *Dispatcher) runCommand(ctx context.Context, req types.CommandRequest) string {
	switch req.Kind {
	case types.KindPrice:
		if req.Argument == "" {
			return priceUsageText()
		}
		symbols := strings.Split(req.Argument, ",")
		for i := range symbols {
			symbols[i] = strings.ToUpper(strings.TrimSpace(symbols[i]))
		}
		records, uerr := d.market.FetchPrices(ctx, symbols)
		return format.Format(types.KindPrice, records, uerr)
	case types.KindTrending:
		preset := req.Argument
		if preset == "" {
			preset = "trending"
		}
		records, uerr := d.market.FetchTrending(ctx, preset)
		return format.Format(types.KindTrending, records, uerr)
	case types.KindFunds:
		records, uerr := d.market.FetchFunds(ctx)
		return format.Format(types.KindFunds, records, uerr)
	case types.KindDrophunting:
		records, uerr := d.market.FetchAirdrops(ctx, req.Argument)
		return format.Format(types.KindDrophunting, records, uerr)
	}
	return helpText()
}

// handleFreeText first tries the keyword heuristics; text that matches no
// crypto intent goes to the AI adapter.
func (d *Dispatcher) handleFreeText(ctx context.Context, text string) string {
	if req, ok := deriveIntent(text); ok {
		return d.runCommand(ctx, req)
	}
	if d.ai == nil {
		return model.FallbackMessage()
	}
	return d.ai.Respond(ctx, text)
}

func menuButtons() []types.Button {
	return []types.Button{
		{Label: "💰 Price Check", ActionToken: "price_menu"},
		{Label: "🔥 Trending", ActionToken: "trending_menu"},
		{Label: "🏦 Funds", ActionToken: "funds_menu"},
		{Label: "🎯 Drophunting", ActionToken: "drophunting_menu"},
		{Label: "❓ Help", ActionToken: "help_menu"},
	}
}

func welcomeText() string {
	return translation.Translate("🚀 *Welcome to CryptoRank Bot!*\n\n" +
		"I'm your cryptocurrency assistant. I can help you with:\n\n" +
		"💰 *Price Tracking* - Real-time crypto prices\n" +
		"🔥 *Trending Assets* - Hot cryptocurrencies\n" +
		"🏦 *Investment Data* - Top crypto investors and funds\n" +
		"🎯 *Drophunting* - Airdrop activities and rewards\n\n" +
		"Use the buttons below or type your request naturally!")
}

func helpText() string {
	return translation.Translate("🆘 *Bot Commands:*\n\n" +
		"*📋 Main Commands:*\n" +
		"/start - Welcome message and main menu\n" +
		"/help - Show this help message\n\n" +
		"*💰 Price Commands:*\n" +
		"/price <symbol> - Get current price (e.g., /price BTC)\n" +
		"/price <symbol1,symbol2> - Compare prices\n\n" +
		"*🔥 Market Commands:*\n" +
		"/trending - Trending cryptocurrencies\n" +
		"/trending gainers - Top gainers\n" +
		"/trending losers - Top losers\n\n" +
		"*🏦 Investment Commands:*\n" +
		"/funds - Top crypto investors and funds\n\n" +
		"*🎯 Drophunting Commands:*\n" +
		"/drophunting - Airdrop activities\n" +
		"/drophunting POTENTIAL - Activities with potential status\n\n" +
		"*💬 Natural Language:*\n" +
		"Just type naturally! Examples:\n" +
		"• 'What's the price of Bitcoin?'\n" +
		"• 'Show me trending cryptocurrencies'\n" +
		"• 'Top crypto investors and funds'\n" +
		"• 'Show me airdrop activities'")
}

func priceUsageText() string {
	return translation.Translate("💰 *Price Check*\n\n" +
		"Usage: /price BTC or /price BTC,ETH\n" +
		"Or ask naturally: 'What's the price of Bitcoin?'")
}
