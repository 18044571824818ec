package bot

import (
	"testing"

	"cryptorank-telegram-bot/internal/types"
)

func TestClassifyCommands(t *testing.T) {
	cases := []struct {
		text     string
		wantKind types.CommandKind
		wantArg  string
	}{
		{"/start", types.KindStart, ""},
		{"/help", types.KindHelp, ""},
		{"/price BTC", types.KindPrice, "BTC"},
		{"/price eth", types.KindPrice, "ETH"},
		{"/PRICE eth", types.KindPrice, "ETH"},
		{"/price", types.KindPrice, ""},
		{"/pricecheck BTC", types.KindPrice, "BTC"},
		{"/trending", types.KindTrending, ""},
		{"/trending GAINERS", types.KindTrending, "gainers"},
		{"/funds", types.KindFunds, ""},
		{"/drophunting", types.KindDrophunting, ""},
		{"/drophunting POTENTIAL", types.KindDrophunting, "POTENTIAL"},
		{"/unknown", types.KindFreeText, ""},
		{"hello there", types.KindFreeText, ""},
		{"", types.KindFreeText, ""},
		{"   ", types.KindFreeText, ""},
	}

	for _, c := range cases {
		got := Classify(c.text)
		if got.Kind != c.wantKind || got.Argument != c.wantArg {
			t.Errorf("Classify(%q) = (%s, %q), want (%s, %q)",
				c.text, got.Kind, got.Argument, c.wantKind, c.wantArg)
		}
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	first := Classify("/price BTC,ETH")
	for i := 0; i < 100; i++ {
		if got := Classify("/price BTC,ETH"); got != first {
			t.Fatalf("run %d: got %+v, want %+v", i, got, first)
		}
	}
}

func TestDeriveIntent(t *testing.T) {
	cases := []struct {
		text     string
		wantKind types.CommandKind
		wantArg  string
		wantOK   bool
	}{
		{"What's the price of Bitcoin?", types.KindPrice, "BTC", true},
		{"how much is ETH worth", types.KindPrice, "ETH", true},
		{"what is the bitcoin price", types.KindPrice, "BTC", true},
		{"crypto price please", types.KindPrice, "BTC", true},
		{"show me trending cryptocurrencies", types.KindTrending, "", true},
		{"top crypto investors and funds", types.KindFunds, "", true},
		{"show me airdrop activities", types.KindDrophunting, "", true},
		{"what's the weather like", "", "", false},
		{"tell me a joke", "", "", false},
	}

	for _, c := range cases {
		got, ok := deriveIntent(c.text)
		if ok != c.wantOK {
			t.Errorf("deriveIntent(%q) ok = %v, want %v", c.text, ok, c.wantOK)
			continue
		}
		if !ok {
			continue
		}
		if got.Kind != c.wantKind || got.Argument != c.wantArg {
			t.Errorf("deriveIntent(%q) = (%s, %q), want (%s, %q)",
				c.text, got.Kind, got.Argument, c.wantKind, c.wantArg)
		}
	}
}

func TestGuessSymbol(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"price of SOL?", "SOL"},
		{"how much is ethereum", "ETH"},
		{"what about cardano!", "ADA"},
		{"price please", "BTC"},
	}
	for _, c := range cases {
		if got := guessSymbol(c.text); got != c.want {
			t.Errorf("guessSymbol(%q) = %q, want %q", c.text, got, c.want)
		}
	}
}
