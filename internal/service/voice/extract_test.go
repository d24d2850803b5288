package voice

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/seu-repo/comanda/internal/domain"
)

func menuOf(names ...string) []domain.MenuItem {
	items := make([]domain.MenuItem, len(names))
	for i, name := range names {
		items[i] = domain.MenuItem{
			ID:    name,
			Name:  name,
			Price: 10.0,
		}
	}
	return items
}

func TestExtract_QuantityAndTrailingModifier(t *testing.T) {
	// Arrange
	extractor := NewExtractor()
	menu := menuOf("pancakes")

	// Act
	order := extractor.Extract("2 pancakes and no butter", menu)

	// Assert
	if len(order.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(order.Lines))
	}
	line := order.Lines[0]
	if line.Unresolved {
		t.Fatalf("expected resolved line, got unresolved %q", line.RawText)
	}
	if line.Name != "pancakes" || line.Quantity != 2 {
		t.Errorf("expected 2x pancakes, got %dx %s", line.Quantity, line.Name)
	}
	if len(line.Modifiers) != 1 || line.Modifiers[0] != "no butter" {
		t.Errorf("expected modifier [no butter], got %v", line.Modifiers)
	}
	if len(order.Unresolved()) != 0 {
		t.Errorf("expected zero unresolved entries, got %d", len(order.Unresolved()))
	}
}

func TestExtract_NoSubstringFalsePositive(t *testing.T) {
	// Arrange
	extractor := NewExtractor()
	menu := menuOf("steak")

	// Act
	order := extractor.Extract("a unicorn steak", menu)

	// Assert
	if len(order.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(order.Lines))
	}
	line := order.Lines[0]
	if !line.Unresolved {
		t.Fatalf("expected unresolved entry, matched %q instead", line.Name)
	}
	if line.RawText != "a unicorn steak" {
		t.Errorf("expected raw clause preserved, got %q", line.RawText)
	}
	if line.Quantity != 1 {
		t.Errorf("expected quantity 1, got %d", line.Quantity)
	}
}

func TestExtract_IsDeterministic(t *testing.T) {
	// Arrange
	extractor := NewExtractor()
	menu := menuOf("pancakes", "coffee", "orange juice")
	transcript := "2 pancakes and no butter, three coffees with sugar and a unicorn steak"

	// Act
	first, err := json.Marshal(extractor.Extract(transcript, menu))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	second, err := json.Marshal(extractor.Extract(transcript, menu))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	// Assert
	if !bytes.Equal(first, second) {
		t.Errorf("expected byte-identical output, got\n%s\nvs\n%s", first, second)
	}
}

func TestExtract_DefaultQuantityIsOne(t *testing.T) {
	// Arrange
	extractor := NewExtractor()
	menu := menuOf("coffee")

	// Act
	order := extractor.Extract("coffee", menu)

	// Assert
	if len(order.Lines) != 1 || order.Lines[0].Quantity != 1 {
		t.Fatalf("expected single line with quantity 1, got %+v", order.Lines)
	}
}

func TestExtract_NumberWordsAndPluralFold(t *testing.T) {
	// Arrange
	extractor := NewExtractor()
	menu := menuOf("coffee", "coxinha")

	// Act
	order := extractor.Extract("three coffees e duas coxinhas", menu)

	// Assert
	if len(order.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(order.Lines))
	}
	if order.Lines[0].Name != "coffee" || order.Lines[0].Quantity != 3 {
		t.Errorf("expected 3x coffee, got %dx %s", order.Lines[0].Quantity, order.Lines[0].Name)
	}
	if order.Lines[1].Name != "coxinha" || order.Lines[1].Quantity != 2 {
		t.Errorf("expected 2x coxinha, got %dx %s", order.Lines[1].Quantity, order.Lines[1].Name)
	}
}

func TestExtract_CommaAndFreshQuantitySplitClauses(t *testing.T) {
	// Arrange
	extractor := NewExtractor()
	menu := menuOf("pancakes", "orange juice")

	// Act
	order := extractor.Extract("2 pancakes, 3 orange juices 1 pancake", menu)

	// Assert
	if len(order.Lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %+v", len(order.Lines), order.Lines)
	}
	if order.Lines[1].Name != "orange juice" || order.Lines[1].Quantity != 3 {
		t.Errorf("expected 3x orange juice, got %dx %s", order.Lines[1].Quantity, order.Lines[1].Name)
	}
	if order.Lines[2].Name != "pancakes" || order.Lines[2].Quantity != 1 {
		t.Errorf("expected 1x pancakes, got %dx %s", order.Lines[2].Quantity, order.Lines[2].Name)
	}
}

func TestExtract_WithClauseResolvesAsItemWhenOnMenu(t *testing.T) {
	// Arrange
	extractor := NewExtractor()
	menu := menuOf("burger", "fries")

	// Act
	order := extractor.Extract("a burger with fries", menu)

	// Assert
	if len(order.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %+v", len(order.Lines), order.Lines)
	}
	if order.Lines[0].Name != "burger" || order.Lines[1].Name != "fries" {
		t.Errorf("expected burger then fries, got %s then %s", order.Lines[0].Name, order.Lines[1].Name)
	}
	if len(order.Lines[0].Modifiers) != 0 {
		t.Errorf("expected no modifiers on burger, got %v", order.Lines[0].Modifiers)
	}
}

func TestExtract_WithClauseAttachesWhenNotOnMenu(t *testing.T) {
	// Arrange
	extractor := NewExtractor()
	menu := menuOf("coxinha")

	// Act
	order := extractor.Extract("coxinha com catupiry", menu)

	// Assert
	if len(order.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d: %+v", len(order.Lines), order.Lines)
	}
	if len(order.Lines[0].Modifiers) != 1 || order.Lines[0].Modifiers[0] != "com catupiry" {
		t.Errorf("expected modifier [com catupiry], got %v", order.Lines[0].Modifiers)
	}
}

func TestExtract_InlineModifierTail(t *testing.T) {
	// Arrange
	extractor := NewExtractor()
	menu := menuOf("x burger")

	// Act: the hyphen normalizes away, the tail stays on the line
	order := extractor.Extract("dois x-burger sem picles", menu)

	// Assert
	if len(order.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d: %+v", len(order.Lines), order.Lines)
	}
	line := order.Lines[0]
	if line.Unresolved || line.Name != "x burger" || line.Quantity != 2 {
		t.Fatalf("expected 2x x burger, got %+v", line)
	}
	if len(line.Modifiers) != 1 || line.Modifiers[0] != "sem picles" {
		t.Errorf("expected modifier [sem picles], got %v", line.Modifiers)
	}
}

func TestExtract_LongestCandidateWins(t *testing.T) {
	// Arrange
	extractor := NewExtractor()
	menu := menuOf("cheese", "cheese burger")

	// Act
	order := extractor.Extract("one cheese burger", menu)

	// Assert
	if len(order.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d: %+v", len(order.Lines), order.Lines)
	}
	if order.Lines[0].Name != "cheese burger" {
		t.Errorf("expected the longer match, got %s", order.Lines[0].Name)
	}
}

func TestExtract_AliasesResolve(t *testing.T) {
	// Arrange
	extractor := NewExtractor()
	menu := []domain.MenuItem{
		{ID: "item-1", Name: "refrigerante lata", Aliases: []string{"coca", "refri"}, Price: 6},
	}

	// Act
	order := extractor.Extract("duas cocas", menu)

	// Assert
	if len(order.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(order.Lines))
	}
	line := order.Lines[0]
	if line.Unresolved || line.Name != "refrigerante lata" || line.Quantity != 2 {
		t.Errorf("expected alias to resolve the canonical item, got %+v", line)
	}
}

func TestExtract_ModifierWithoutPrecedingEntryStaysUnresolved(t *testing.T) {
	// Arrange
	extractor := NewExtractor()
	menu := menuOf("pancakes")

	// Act
	order := extractor.Extract("no butter", menu)

	// Assert
	if len(order.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(order.Lines))
	}
	if !order.Lines[0].Unresolved {
		t.Errorf("expected unresolved entry, got %+v", order.Lines[0])
	}
	if order.Lines[0].RawText != "no butter" {
		t.Errorf("expected raw text preserved, got %q", order.Lines[0].RawText)
	}
}

func TestExtract_DuplicateModifiersCollapse(t *testing.T) {
	// Arrange
	extractor := NewExtractor()
	menu := menuOf("pancakes")

	// Act
	order := extractor.Extract("pancakes no butter and no butter", menu)

	// Assert
	if len(order.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d: %+v", len(order.Lines), order.Lines)
	}
	if len(order.Lines[0].Modifiers) != 1 {
		t.Errorf("expected duplicate modifier collapsed, got %v", order.Lines[0].Modifiers)
	}
}

func TestExtract_CaseInsensitive(t *testing.T) {
	// Arrange
	extractor := NewExtractor()
	menu := menuOf("Pastel de Queijo")

	// Act
	order := extractor.Extract("DOIS PASTEL DE QUEIJO", menu)

	// Assert
	if len(order.Lines) != 1 || order.Lines[0].Unresolved {
		t.Fatalf("expected resolved line, got %+v", order.Lines)
	}
	if order.Lines[0].Quantity != 2 {
		t.Errorf("expected quantity 2, got %d", order.Lines[0].Quantity)
	}
}

func TestExtract_EmptyTranscript(t *testing.T) {
	// Arrange
	extractor := NewExtractor()

	// Act
	order := extractor.Extract("", menuOf("pancakes"))

	// Assert
	if len(order.Lines) != 0 {
		t.Errorf("expected no lines, got %d", len(order.Lines))
	}
}

func TestExtract_PreservesSpokenOrder(t *testing.T) {
	// Arrange
	extractor := NewExtractor()
	menu := menuOf("coffee", "pancakes")

	// Act
	order := extractor.Extract("pancakes and something odd and coffee", menu)

	// Assert
	if len(order.Lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(order.Lines))
	}
	if order.Lines[0].Name != "pancakes" || !order.Lines[1].Unresolved || order.Lines[2].Name != "coffee" {
		t.Errorf("expected spoken order preserved, got %+v", order.Lines)
	}
}
