// Package shopping renders downloadable shopping lists.
package shopping

import (
	"fmt"
	"strings"

	"github.com/foodgram-app/foodgram/internal/storage"
)

const divider = "========================================"

// FileName builds the attachment name for a user's shopping list.
func FileName(username string) string {
	return fmt.Sprintf("shopping_list_%s.txt", username)
}

// RenderText formats aggregated shopping items as a plain-text list.
// The sign-off addresses the user by first name when one is set.
func RenderText(items []storage.ShoppingItem, user storage.User) string {
	var b strings.Builder
	b.WriteString("Список покупок:\n")
	b.WriteString(divider)
	b.WriteString("\n")
	for _, item := range items {
		fmt.Fprintf(&b, "• %s - %d %s\n", item.Name, item.TotalAmount, item.MeasurementUnit)
	}
	b.WriteString(divider)
	name := user.FirstName
	if name == "" {
		name = user.Username
	}
	fmt.Fprintf(&b, "\nПриятных покупок, %s!", name)
	return b.String()
}
