package language

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	xlang "golang.org/x/text/language"
)

type entry struct {
	code string // ISO 639-1
	word string // full name, lowercase
}

// The transcriber supports many more, but these are the ones surfaced in the
// CLI help and accepted by name.
var catalog = []entry{
	{"en", "english"},
	{"es", "spanish"},
	{"fr", "french"},
	{"de", "german"},
	{"it", "italian"},
	{"pt", "portuguese"},
	{"ru", "russian"},
	{"ja", "japanese"},
	{"ko", "korean"},
	{"zh", "chinese"},
}

var (
	byCode  map[string]entry
	byWord  map[string]entry
	titling = cases.Title(xlang.English)
)

func init() {
	byCode = make(map[string]entry, len(catalog))
	byWord = make(map[string]entry, len(catalog))
	for _, e := range catalog {
		byCode[e.code] = e
		byWord[e.word] = e
	}
}

// Resolve turns a language name or ISO 639-1 code into the code handed to
// the transcriber. Empty input and the spellings of auto-detection resolve
// to the empty code. Unknown values fail so typos do not silently become
// auto-detect.
func Resolve(value string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	switch normalized {
	case "", "auto", "auto-detect", "autodetect":
		return "", nil
	}
	if e, ok := byCode[normalized]; ok {
		return e.code, nil
	}
	if e, ok := byWord[normalized]; ok {
		return e.code, nil
	}
	return "", fmt.Errorf("unknown language %q", value)
}

// DisplayName renders a code for the CLI ("en" -> "English"). The empty code
// renders as "Auto-detect".
func DisplayName(code string) string {
	if strings.TrimSpace(code) == "" {
		return "Auto-detect"
	}
	if e, ok := byCode[strings.ToLower(strings.TrimSpace(code))]; ok {
		return titling.String(e.word)
	}
	return code
}

// Names lists the supported display names, auto-detect first.
func Names() []string {
	names := make([]string, 0, len(catalog)+1)
	for _, e := range catalog {
		names = append(names, titling.String(e.word))
	}
	sort.Strings(names)
	return append([]string{"Auto-detect"}, names...)
}
