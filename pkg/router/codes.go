package router

import (
	"strconv"
	"strings"

	"virtual-attendant-be/pkg/catalog"
	"virtual-attendant-be/pkg/text"
)

const punctuation = " .,;:!?()-*#"

// codeMarkers introduce an option code anywhere in a message: "opcao 2.1".
var codeMarkers = map[string]bool{
	"opcao":  true,
	"op":     true,
	"item":   true,
	"numero": true,
}

// findMenuCode matches a message that is exactly an option code, or that
// names one after a marker word.
func findMenuCode(normalized string, menu []catalog.MenuOption) (catalog.MenuOption, bool) {
	if o, ok := lookupOption(menu, strings.Trim(normalized, punctuation)); ok {
		return o, true
	}
	tokens := text.Tokens(normalized)
	for i := 0; i+1 < len(tokens); i++ {
		if !codeMarkers[tokens[i]] {
			continue
		}
		if o, ok := lookupOption(menu, strings.TrimRight(tokens[i+1], ".")); ok {
			return o, true
		}
	}
	return catalog.MenuOption{}, false
}

func lookupOption(menu []catalog.MenuOption, code string) (catalog.MenuOption, bool) {
	if code == "" {
		return catalog.MenuOption{}, false
	}
	for _, o := range menu {
		if o.Code == code {
			return o, true
		}
	}
	return catalog.MenuOption{}, false
}

// choiceIndex parses a 1-based pick among n listed options.
func choiceIndex(normalized string, n int) (int, bool) {
	s := strings.Trim(normalized, punctuation)
	tokens := text.Tokens(s)
	if len(tokens) == 2 && codeMarkers[tokens[0]] {
		s = strings.TrimRight(tokens[1], ".")
	}
	i, err := strconv.Atoi(s)
	if err != nil || i < 1 || i > n {
		return 0, false
	}
	return i - 1, true
}
