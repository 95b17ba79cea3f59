package extract

import "testing"

func TestSignalsEmptyInput(t *testing.T) {
	t.Parallel()

	for _, text := range []string{"", "   ", "\n\t", "a"} {
		if got := Signals(text); len(got) != 0 {
			t.Fatalf("expected no signals for %q, got %v", text, got)
		}
	}
}

func TestSignalsCatalogScan(t *testing.T) {
	t.Parallel()

	text := "Contact us on WhatsApp. Urgent hiring, no experience required! Send your passport copy."
	signals := Signals(text)

	for _, want := range []string{"whatsapp", "urgent hiring", "no experience required", "passport copy"} {
		if !contains(signals, want) {
			t.Fatalf("expected signal %q in %v", want, signals)
		}
	}
}

func TestSignalsNoDuplicates(t *testing.T) {
	t.Parallel()

	text := "whatsapp whatsapp WHATSAPP deposit deposit"
	signals := Signals(text)

	seen := make(map[string]int)
	for _, s := range signals {
		seen[s]++
		if seen[s] > 1 {
			t.Fatalf("signal %q reported twice in %v", s, signals)
		}
	}
}

func TestSignalsDeterministic(t *testing.T) {
	t.Parallel()

	text := "urgent hiring, pay a registration fee via gift card"
	first := Signals(text)
	for i := 0; i < 5; i++ {
		next := Signals(text)
		if len(next) != len(first) {
			t.Fatalf("non-deterministic result: %v vs %v", first, next)
		}
		for j := range next {
			if next[j] != first[j] {
				t.Fatalf("non-deterministic result: %v vs %v", first, next)
			}
		}
	}
}

func TestSignalsMoneyContext(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		text    string
		signal  string
		suspect bool
	}{
		{
			name:    "fee without salary context",
			text:    "fee will be Rs 500, to be sent before joining",
			signal:  "fee",
			suspect: true,
		},
		{
			name:    "safe word just past the window does not rescue",
			text:    "fee is due now. some filler text to push it out of range... stipend is defined much later",
			signal:  "fee",
			suspect: true,
		},
		{
			name:    "rs near stipend is safe",
			text:    "stipend of Rs 10000 per month",
			signal:  "rs",
			suspect: false,
		},
		{
			name:    "charge near salary is safe",
			text:    "salary package covers any relocation charge for you",
			signal:  "charge",
			suspect: false,
		},
		{
			name: "only first occurrence is inspected",
			// First "amount" sits next to "salary"; the later bare
			// occurrence must not be re-evaluated.
			text:    "salary amount is fixed. later you transfer an amount to us with no context words anywhere near it at all",
			signal:  "amount",
			suspect: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			signals := Signals(tt.text)
			if got := contains(signals, tt.signal); got != tt.suspect {
				t.Fatalf("signal %q present=%v, want %v (signals: %v)", tt.signal, got, tt.suspect, signals)
			}
		})
	}
}

func contains(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}
