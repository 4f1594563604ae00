package solution

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Answer is the string form of the value a part returned. The empty
// answer means the part is not solved yet.
type Answer string

// IsEmpty reports whether there is nothing to submit.
func (a Answer) IsEmpty() bool { return a == "" }

func (a Answer) String() string { return string(a) }

// AnswerOf converts a part's return value to an Answer. Surrounding
// whitespace is dropped and text is NFC normalised, so the same value always
// compares equal to what was stored or submitted before.
func AnswerOf(v any) Answer {
	var s string
	switch x := v.(type) {
	case nil:
		return ""
	case Answer:
		s = string(x)
	case string:
		s = x
	case fmt.Stringer:
		s = x.String()
	default:
		s = fmt.Sprint(x)
	}
	return Answer(norm.NFC.String(strings.TrimSpace(s)))
}
