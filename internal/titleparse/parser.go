// Package titleparse infers timer settings from a workout block title such
// as "EMOM 10", "AMRAP 12 min", "5 varv" or "Intervaller 6 x 40/20".
//
// Parsing is a best-effort heuristic over case-folded tokens. The first
// mode keyword found scanning left to right wins, and the first value found
// for each field wins. Parse never panics; a title with nothing recognisable
// yields nil.
package titleparse

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/xvierd/wod-cli/internal/domain"
)

// Limits beyond which a number is treated as noise rather than a setting.
const (
	MaxRounds  = 100
	MaxMinutes = 300
	MaxSeconds = 3600

	// MinBarePairWork is the shortest work time accepted from a pair
	// written without a seconds unit, so "1/2" is not read as a timer.
	MinBarePairWork = 5
)

// ParsedTitle is the subset of timer settings recognised in a title.
// A nil field was not recognised and must not overwrite existing settings.
type ParsedTitle struct {
	Mode     *domain.TimerMode
	Rounds   *int
	WorkTime *int
	RestTime *int
}

// Fields lists the recognised settings by name.
func (p *ParsedTitle) Fields() []string {
	if p == nil {
		return nil
	}
	var fields []string
	if p.Mode != nil {
		fields = append(fields, "mode")
	}
	if p.Rounds != nil {
		fields = append(fields, "rounds")
	}
	if p.WorkTime != nil {
		fields = append(fields, "work_time")
	}
	if p.RestTime != nil {
		fields = append(fields, "rest_time")
	}
	return fields
}

// Merge overlays the recognised fields on base and normalizes the result.
// A nil ParsedTitle returns base untouched.
func (p *ParsedTitle) Merge(base domain.TimerSettings) domain.TimerSettings {
	if p == nil {
		return base
	}
	if p.Mode != nil {
		base.Mode = *p.Mode
	}
	if p.Rounds != nil {
		base.Rounds = *p.Rounds
	}
	if p.WorkTime != nil {
		base.WorkTime = *p.WorkTime
	}
	if p.RestTime != nil {
		base.RestTime = *p.RestTime
	}
	return base.Normalize()
}

func (p *ParsedTitle) empty() bool {
	return p.Mode == nil && p.Rounds == nil && p.WorkTime == nil && p.RestTime == nil
}

var modeWords = map[string]domain.TimerMode{
	"emom":        domain.ModeEMOM,
	"amrap":       domain.ModeAMRAP,
	"tabata":      domain.ModeTabata,
	"timecap":     domain.ModeTimeCap,
	"interval":    domain.ModeInterval,
	"intervals":   domain.ModeInterval,
	"intervall":   domain.ModeInterval,
	"intervaller": domain.ModeInterval,
	"stopwatch":   domain.ModeStopwatch,
	"stoppur":     domain.ModeStopwatch,
}

var roundWords = map[string]bool{
	"rounds":   true,
	"round":    true,
	"rds":      true,
	"rd":       true,
	"x":        true,
	"varv":     true,
	"omgång":   true,
	"omgångar": true,
}

var minuteWords = map[string]bool{
	"min":     true,
	"mins":    true,
	"minute":  true,
	"minutes": true,
	"minut":   true,
	"minuter": true,
}

// workRestPair matches "40/20" and "30s/15s".
var workRestPair = regexp.MustCompile(`(\d+)\s*(?:(sec|sek|s)\b)?\s*/\s*(\d+)\s*(?:(sec|sek|s)\b)?`)

type tokenKind int

const (
	wordToken tokenKind = iota
	numberToken
	pairToken
)

type token struct {
	kind  tokenKind
	text  string
	value int
	rest  int
	unit  bool
}

// Parse extracts timer settings from a block title.
func Parse(title string) *ParsedTitle {
	tokens := tokenize(strings.ToLower(title))
	if len(tokens) == 0 {
		return nil
	}

	p := &ParsedTitle{}
	winner := -1
	for i, tok := range tokens {
		if mode, ok := modeOf(tok); ok {
			m := mode
			p.Mode = &m
			winner = i
			break
		}
	}

	if p.Mode != nil && *p.Mode == domain.ModeTabata {
		p.Rounds = intPtr(domain.TabataRounds)
		p.WorkTime = intPtr(domain.TabataWorkTime)
		p.RestTime = intPtr(domain.TabataRestTime)
		return p
	}

	for i, tok := range tokens {
		switch tok.kind {
		case pairToken:
			if tok.value < MinBarePairWork && !tok.unit {
				continue
			}
			if p.WorkTime == nil && p.RestTime == nil && inRange(tok.value, MaxSeconds) && tok.rest >= 0 && tok.rest <= MaxSeconds {
				p.WorkTime = intPtr(tok.value)
				p.RestTime = intPtr(tok.rest)
			}
		case numberToken:
			p.bindNumber(tokens, i, winner)
		}
	}

	if p.Mode == nil && p.WorkTime != nil && p.RestTime != nil {
		m := domain.ModeInterval
		p.Mode = &m
	}
	if p.Mode != nil && *p.Mode == domain.ModeStopwatch {
		p.Rounds, p.WorkTime, p.RestTime = nil, nil, nil
	}
	if p.empty() {
		return nil
	}
	return p
}

// bindNumber attaches the number at tokens[i] to the keyword it sits next
// to. winner is the index of the mode keyword in effect, or -1.
func (p *ParsedTitle) bindNumber(tokens []token, i, winner int) {
	n := tokens[i].value
	next := peek(tokens, i+1)

	if next != nil && roundWords[next.text] {
		p.setRounds(n)
		return
	}

	minutes := next != nil && minuteWords[next.text]
	owner := -1
	switch {
	case i > 0 && isMode(tokens[i-1]):
		owner = i - 1
	case !minutes && next != nil && isMode(*next):
		owner = i + 1
	case minutes && isModeAt(tokens, i+2):
		owner = i + 2
	}

	if owner >= 0 && owner != winner {
		// Bound to a keyword that lost to an earlier one.
		return
	}
	if p.Mode == nil {
		return
	}

	switch *p.Mode {
	case domain.ModeEMOM:
		if owner >= 0 || minutes {
			p.setRounds(n)
		}
	case domain.ModeAMRAP, domain.ModeTimeCap:
		if (owner >= 0 || minutes) && inRange(n, MaxMinutes) && p.WorkTime == nil {
			p.WorkTime = intPtr(n * 60)
		}
	case domain.ModeInterval:
		if owner >= 0 && !minutes {
			p.setRounds(n)
		}
	}
}

func (p *ParsedTitle) setRounds(n int) {
	if p.Rounds == nil && inRange(n, MaxRounds) {
		p.Rounds = intPtr(n)
	}
}

func tokenize(s string) []token {
	var tokens []token
	for s != "" {
		loc := workRestPair.FindStringSubmatchIndex(s)
		head := s
		if loc != nil {
			head = s[:loc[0]]
		}
		tokens = append(tokens, scan(head)...)
		if loc == nil {
			break
		}
		work, err1 := strconv.Atoi(s[loc[2]:loc[3]])
		rest, err2 := strconv.Atoi(s[loc[6]:loc[7]])
		if err1 == nil && err2 == nil {
			unit := loc[4] >= 0 || loc[8] >= 0
			tokens = append(tokens, token{kind: pairToken, value: work, rest: rest, unit: unit})
		}
		s = s[loc[1]:]
	}
	return joinTimeCap(tokens)
}

// scan splits text into runs of letters and runs of ASCII digits.
func scan(s string) []token {
	var tokens []token
	runes := []rune(s)
	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case isDigit(r):
			j := i
			for j < len(runes) && isDigit(runes[j]) {
				j++
			}
			if v, err := strconv.Atoi(string(runes[i:j])); err == nil {
				tokens = append(tokens, token{kind: numberToken, value: v})
			}
			i = j
		case unicode.IsLetter(r):
			j := i
			for j < len(runes) && unicode.IsLetter(runes[j]) {
				j++
			}
			tokens = append(tokens, token{kind: wordToken, text: string(runes[i:j])})
			i = j
		default:
			i++
		}
	}
	return tokens
}

func joinTimeCap(tokens []token) []token {
	out := tokens[:0:0]
	for i := 0; i < len(tokens); i++ {
		if tokens[i].text == "time" && i+1 < len(tokens) && tokens[i+1].text == "cap" {
			out = append(out, token{kind: wordToken, text: "timecap"})
			i++
			continue
		}
		out = append(out, tokens[i])
	}
	return out
}

func modeOf(t token) (domain.TimerMode, bool) {
	if t.kind != wordToken {
		return "", false
	}
	m, ok := modeWords[t.text]
	return m, ok
}

func isMode(t token) bool {
	_, ok := modeOf(t)
	return ok
}

func isModeAt(tokens []token, i int) bool {
	t := peek(tokens, i)
	return t != nil && isMode(*t)
}

func peek(tokens []token, i int) *token {
	if i < 0 || i >= len(tokens) {
		return nil
	}
	return &tokens[i]
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func inRange(n, limit int) bool { return n >= 1 && n <= limit }

func intPtr(n int) *int { return &n }
