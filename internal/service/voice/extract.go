package voice

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/seu-repo/comanda/internal/domain"
)

// Extractor turns a transcript into a structured order draft by
// rule-based matching against the menu catalog. Extraction never
// errors: speech that matches nothing becomes an unresolved line
// carrying the raw clause, so the operator can fix it instead of
// losing what the customer said. Same input, same output: no
// randomness, no external state.
//
// Matching is anchored and whole-word: the clause's item phrase, after
// quantity and article stripping, must equal a menu name or alias
// exactly (case-insensitive, naive plural fold on each word). A menu
// item appearing as a substring of a longer phrase never resolves;
// "a unicorn steak" stays unresolved even when "steak" is on the menu.
type Extractor struct{}

// NewExtractor creates the rule-based parser.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// numberWords maps spoken quantities, English and Portuguese, onto
// integers.
var numberWords = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5, "six": 6,
	"seven": 7, "eight": 8, "nine": 9, "ten": 10, "eleven": 11, "twelve": 12,
	"um": 1, "uma": 1, "dois": 2, "duas": 2, "tres": 3, "três": 3,
	"quatro": 4, "cinco": 5, "seis": 6, "sete": 7, "oito": 8, "nove": 9,
	"dez": 10, "onze": 11, "doze": 12,
}

// articles are stripped from the head of a clause; a bare article
// counts as quantity one.
var articles = map[string]bool{
	"a": true, "an": true, "the": true,
	"o": true, "os": true, "as": true,
}

// modifierWords open a modifier phrase such as "no butter" or
// "sem cebola". A clause led by one of these attaches to the preceding
// resolved line instead of resolving on its own.
var modifierWords = map[string]bool{
	"no": true, "without": true, "extra": true, "add": true,
	"hold": true, "light": true, "double": true,
	"sem": true, "mais": true, "pouco": true, "dobro": true,
}

// connectives separate clauses.
var connectives = map[string]bool{
	"and": true, "plus": true, "then": true, "also": true,
	"e": true, "tambem": true, "também": true,
}

// attachConnectives separate clauses and mark the next clause as an
// attachment candidate: "burger with no onions" attaches, while
// "burger with fries" resolves fries as its own line.
var attachConnectives = map[string]bool{
	"with": true, "com": true,
}

type clause struct {
	words []string
	// attachWord holds the "with"/"com" that introduced the clause, so
	// an unmatched attachment keeps its connective in the modifier
	// text ("com catupiry").
	attachWord string
}

func (c clause) raw() string {
	return strings.Join(c.words, " ")
}

// candidate is one normalized menu name or alias, kept in menu order
// so ties resolve deterministically.
type candidate struct {
	words []string
	item  *domain.MenuItem
}

// Extract parses the transcript against the menu. Lines come out in
// spoken order; quantity is always at least one.
func (e *Extractor) Extract(text string, menu []domain.MenuItem) *domain.ExtractedOrder {
	order := &domain.ExtractedOrder{Transcript: text}

	clauses := splitClauses(tokenize(text))
	if len(clauses) == 0 {
		return order
	}

	candidates := buildCandidates(menu)

	for _, c := range clauses {
		quantity, phrase := splitQuantity(c.words)
		if len(phrase) == 0 {
			continue
		}
		raw := c.raw()

		if item, tail, ok := resolve(phrase, candidates); ok {
			line := domain.OrderLine{
				ItemID:    item.ID,
				Name:      item.Name,
				Quantity:  quantity,
				UnitPrice: item.Price,
				Station:   item.Station,
				RawText:   raw,
			}
			if tail != "" {
				line.Modifiers = []string{tail}
			}
			order.Lines = append(order.Lines, line)
			continue
		}

		if c.attachWord != "" || modifierWords[phrase[0]] {
			modifier := strings.Join(phrase, " ")
			if !modifierWords[phrase[0]] {
				modifier = c.attachWord + " " + modifier
			}
			if attachModifier(order, modifier) {
				continue
			}
		}

		order.Lines = append(order.Lines, domain.OrderLine{
			Name:       strings.Join(phrase, " "),
			Quantity:   quantity,
			Unresolved: true,
			RawText:    raw,
		})
	}

	return order
}

// tokenize lowercases the transcript and splits it into word tokens.
// Commas and semicolons become explicit break tokens; every other
// punctuation mark, hyphens included, separates words.
func tokenize(text string) []string {
	var b strings.Builder
	b.Grow(len(text) + 8)

	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case r == ',' || r == ';':
			b.WriteString(" , ")
		default:
			b.WriteRune(' ')
		}
	}

	return strings.Fields(b.String())
}

// splitClauses groups tokens into clauses, breaking on connectives,
// comma tokens, and a fresh quantity token after the clause already
// has words ("2 pancakes 3 juices").
func splitClauses(tokens []string) []clause {
	var (
		clauses []clause
		cur     clause
	)

	flush := func(nextAttach string) {
		if len(cur.words) > 0 {
			clauses = append(clauses, cur)
		}
		cur = clause{attachWord: nextAttach}
	}

	for _, tok := range tokens {
		switch {
		case tok == ",":
			flush("")
		case connectives[tok]:
			flush("")
		case attachConnectives[tok]:
			flush(tok)
		case isQuantityToken(tok) && len(cur.words) > 0:
			flush(cur.attachWord)
			cur.words = append(cur.words, tok)
		default:
			cur.words = append(cur.words, tok)
		}
	}
	flush("")

	return clauses
}

// splitQuantity strips a leading quantity and any articles, returning
// the quantity (at least one) and the remaining item phrase.
func splitQuantity(words []string) (int, []string) {
	quantity := 1
	i := 0

	if i < len(words) {
		if n, ok := parseQuantity(words[i]); ok {
			quantity = n
			i++
		}
	}
	for i < len(words) && articles[words[i]] {
		i++
	}

	if quantity < 1 {
		quantity = 1
	}
	return quantity, words[i:]
}

// parseQuantity reads a numeral, a number word, or the "2x" shorthand.
func parseQuantity(tok string) (int, bool) {
	if n, ok := numberWords[tok]; ok {
		return n, true
	}
	trimmed := strings.TrimSuffix(tok, "x")
	if trimmed != tok && trimmed == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(trimmed); err == nil {
		return n, true
	}
	return 0, false
}

func isQuantityToken(tok string) bool {
	_, ok := parseQuantity(tok)
	return ok
}

// buildCandidates normalizes every menu name and alias, keeping menu
// order so equal-length matches always pick the same item.
func buildCandidates(menu []domain.MenuItem) []candidate {
	var out []candidate
	for i := range menu {
		item := &menu[i]
		for _, name := range item.Names() {
			words := tokenize(name)
			if len(words) > 0 {
				out = append(out, candidate{words: words, item: item})
			}
		}
	}
	return out
}

// resolve matches the phrase against the candidates. The whole phrase
// must be consumed by the matched name, except for a trailing modifier
// phrase ("pancakes no butter"). Longest candidate wins; ties go to
// the earliest menu entry.
func resolve(phrase []string, candidates []candidate) (*domain.MenuItem, string, bool) {
	var (
		best    *domain.MenuItem
		bestLen int
	)

	for _, cand := range candidates {
		n := len(cand.words)
		if n == 0 || n > len(phrase) || n <= bestLen {
			continue
		}
		if !wordsEqual(phrase[:n], cand.words) {
			continue
		}
		tail := phrase[n:]
		if len(tail) > 0 && !modifierWords[tail[0]] {
			continue
		}
		best = cand.item
		bestLen = n
	}

	if best == nil {
		return nil, "", false
	}
	return best, strings.Join(phrase[bestLen:], " "), true
}

// wordsEqual compares word slices with a naive plural fold, so
// "pancake" orders match the "pancakes" menu entry and vice versa.
func wordsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] && singular(a[i]) != singular(b[i]) {
			return false
		}
	}
	return true
}

func singular(w string) string {
	if len(w) > 3 && strings.HasSuffix(w, "s") {
		return w[:len(w)-1]
	}
	return w
}

// attachModifier appends the phrase to the most recent resolved line.
// Duplicate modifiers on the same line collapse.
func attachModifier(order *domain.ExtractedOrder, phrase string) bool {
	for i := len(order.Lines) - 1; i >= 0; i-- {
		if order.Lines[i].Unresolved {
			continue
		}
		for _, m := range order.Lines[i].Modifiers {
			if m == phrase {
				return true
			}
		}
		order.Lines[i].Modifiers = append(order.Lines[i].Modifiers, phrase)
		return true
	}
	return false
}
