package aoc

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Outcome is the verdict of the puzzle service on a submitted answer.
type Outcome string

const (
	OutcomeCorrect       Outcome = "correct"
	OutcomeIncorrect     Outcome = "incorrect"
	OutcomeAlreadySolved Outcome = "already-solved"
	OutcomeRateLimited   Outcome = "rate-limited"
)

// Result is a parsed submission response.
type Result struct {
	Outcome Outcome
	Message string

	// Wait is how long the service asked us to wait. Only set for
	// OutcomeRateLimited.
	Wait time.Duration
}

var waitRe = regexp.MustCompile(`You have (?:(\d+)m )?(\d+)s left to wait`)

// response prefixes of the answer page's first paragraph.
var outcomePrefixes = []struct {
	prefix  string
	outcome Outcome
}{
	{"That's the right answer", OutcomeCorrect},
	{"That's not the right answer", OutcomeIncorrect},
	{"You gave an answer too recently", OutcomeRateLimited},
	{"You don't seem to be solving the right level", OutcomeAlreadySolved},
}

// classify maps the text of the answer page to a Result. ok is false when
// the text matches no known response.
func classify(text string) (Result, bool) {
	text = strings.TrimSpace(text)
	for _, p := range outcomePrefixes {
		if !strings.HasPrefix(text, p.prefix) {
			continue
		}
		res := Result{Outcome: p.outcome, Message: text}
		if p.outcome == OutcomeRateLimited {
			res.Wait = parseWait(text)
		}
		return res, true
	}
	return Result{Message: text}, false
}

// parseWait extracts "You have 1m 30s left to wait" as a duration. The extra
// second matches the service's rounding down.
func parseWait(text string) time.Duration {
	m := waitRe.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	minutes, _ := strconv.Atoi(m[1])
	seconds, _ := strconv.Atoi(m[2])
	return time.Duration(60*minutes+seconds+1) * time.Second
}
