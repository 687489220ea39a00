package config

import (
	"fmt"
	"strings"
)

// Element modes for the CLI. The core is generic; the driver has to
// commit to one concrete element type per model file.
const (
	ElementsRunes = "runes"
	ElementsBytes = "bytes"
)

// NormalizeElements canonicalizes an element mode string.
func NormalizeElements(raw string) (string, error) {
	elements := strings.ToLower(strings.TrimSpace(raw))
	if elements == "" {
		elements = ElementsRunes
	}
	switch elements {
	case ElementsRunes, ElementsBytes:
		return elements, nil
	case "chars":
		return ElementsRunes, nil
	default:
		return "", fmt.Errorf(
			"invalid element mode %q (expected %s|%s|chars)",
			raw, ElementsRunes, ElementsBytes,
		)
	}
}
