package shopping

import (
	"strings"
	"testing"

	"github.com/foodgram-app/foodgram/internal/storage"
)

func TestFileName(t *testing.T) {
	got := FileName("ivan")
	if got != "shopping_list_ivan.txt" {
		t.Fatalf("file name = %q", got)
	}
}

func TestRenderTextFormatsItems(t *testing.T) {
	items := []storage.ShoppingItem{
		{Name: "молоко", MeasurementUnit: "мл", TotalAmount: 500},
		{Name: "мука пшеничная", MeasurementUnit: "г", TotalAmount: 300},
	}
	user := storage.User{Username: "ivan", FirstName: "Иван"}

	text := RenderText(items, user)
	if !strings.HasPrefix(text, "Список покупок:\n") {
		t.Fatalf("unexpected header: %q", text)
	}
	if !strings.Contains(text, "• молоко - 500 мл\n") {
		t.Fatalf("missing milk line: %q", text)
	}
	if !strings.Contains(text, "• мука пшеничная - 300 г\n") {
		t.Fatalf("missing flour line: %q", text)
	}
	if !strings.HasSuffix(text, "Приятных покупок, Иван!") {
		t.Fatalf("unexpected sign-off: %q", text)
	}
}

func TestRenderTextFallsBackToUsername(t *testing.T) {
	text := RenderText(nil, storage.User{Username: "ivan"})
	if !strings.HasSuffix(text, "Приятных покупок, ivan!") {
		t.Fatalf("expected username sign-off: %q", text)
	}
}
