package executor

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"
)

// CommandName derives the simple type name of a command,
// e.g. *account.RegisterAccountCommand -> "RegisterAccountCommand". Executors
// use it for log attributes; callers may use it to key outcome records.
func CommandName(cmd any) string {
	t := reflect.TypeOf(cmd)
	if t == nil {
		return "unknown"
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() != "" {
		return t.Name()
	}
	return t.String()
}

// humanize turns a CamelCase type name into lower-case words:
// "RegisterAccountCommand" -> "register account command",
// "HTTPRequestCommand" -> "http request command".
func humanize(name string) string {
	var b strings.Builder
	runes := []rune(name)
	for i, r := range runes {
		if unicode.IsUpper(r) && i > 0 {
			prevLower := unicode.IsLower(runes[i-1])
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if prevLower || (unicode.IsUpper(runes[i-1]) && nextLower) {
				b.WriteByte(' ')
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// failureSummary builds a correctly pluralized message like
// "command completed with 2 failures".
func failureSummary(prefix string, n int) string {
	noun := "failures"
	if n == 1 {
		noun = "failure"
	}
	return fmt.Sprintf("%s %d %s", prefix, n, noun)
}
