package api

import (
	"fmt"
	"strings"
)

// FormatBottleDetailed returns a multi-line description of a bottle.
func FormatBottleDetailed(b *Bottle) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%s\n", b.Label()))
	if b.Producer != "" {
		sb.WriteString(fmt.Sprintf("  Producer:  %s\n", b.Producer))
	}
	if b.Quantity > 0 {
		sb.WriteString(fmt.Sprintf("  Quantity:  %d\n", b.Quantity))
	}
	if b.LocationName != "" {
		sb.WriteString(fmt.Sprintf("  Location:  %s\n", b.LocationName))
	}
	if b.Shared {
		sb.WriteString("  Shared:    yes\n")
	}
	sb.WriteString(fmt.Sprintf("  ID:        %s\n", b.ID))

	return sb.String()
}

// FormatBottleCompact returns a one-line description of a bottle.
func FormatBottleCompact(b *Bottle) string {
	parts := []string{b.Label()}
	if b.Quantity > 1 {
		parts = append(parts, fmt.Sprintf("x%d", b.Quantity))
	}
	if b.LocationName != "" {
		parts = append(parts, b.LocationName)
	}
	if b.Shared {
		parts = append(parts, "(shared)")
	}
	return strings.Join(parts, "  ")
}

// FormatBottles renders a bottle list in the requested format
// ("detailed" or "compact").
func FormatBottles(bottles []Bottle, format string) string {
	var sb strings.Builder

	for i := range bottles {
		switch format {
		case "compact":
			sb.WriteString(FormatBottleCompact(&bottles[i]))
			sb.WriteString("\n")
		default:
			sb.WriteString(FormatBottleDetailed(&bottles[i]))
			if i < len(bottles)-1 {
				sb.WriteString("\n")
			}
		}
	}

	return sb.String()
}

// FormatRecipients renders a recipient list, one per line.
func FormatRecipients(recipients []Recipient) string {
	var sb strings.Builder

	for _, r := range recipients {
		if r.Email != "" {
			sb.WriteString(fmt.Sprintf("%s  <%s>\n", r.Name, r.Email))
		} else {
			sb.WriteString(fmt.Sprintf("%s\n", r.Name))
		}
	}

	return sb.String()
}
