// Package textfit fits text into fixed boxes: line breaking by character
// budget and font-size shrinking by measured width.
//
// Everything here is a pure function of its inputs. Width measurement goes
// through the Metrics interface so the package has no font or filesystem
// dependency and both rendering backends share one set of decisions.
package textfit

import (
	"fmt"
	"strings"
)

// Overflow selects what the greedy packer does with tokens that do not fit
// into the requested line count.
type Overflow int

const (
	// OverflowEllipsis appends an ellipsis to the last line when tokens
	// were dropped.
	OverflowEllipsis Overflow = iota
	// OverflowTruncate drops excess tokens silently.
	OverflowTruncate
	// OverflowError fails instead of dropping tokens.
	OverflowError
)

// ParseOverflow maps a config policy name to an Overflow value.
func ParseOverflow(name string) (Overflow, error) {
	switch name {
	case "", "ellipsis":
		return OverflowEllipsis, nil
	case "truncate":
		return OverflowTruncate, nil
	case "error":
		return OverflowError, nil
	}
	return OverflowEllipsis, fmt.Errorf("unknown overflow policy %q", name)
}

// Tokenize splits text on spaces and commas. A comma stays attached to the
// token it follows; it is never a token of its own.
func Tokenize(text string) []string {
	var tokens []string
	var current strings.Builder

	for _, r := range text {
		switch r {
		case ' ', ',':
			if current.Len() > 0 {
				if r == ',' {
					current.WriteRune(',')
				}
				tokens = append(tokens, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}

	return tokens
}

// BreakLines breaks text into at most maxLines lines against a character
// threshold.
//
// With fewer than two tokens the text comes back unchanged as a single line.
// For maxLines == 2 the split point is chosen optimally: among all splits
// whose first line stays within the threshold, the one with the longest
// first line wins; if none qualifies the tokens are halved. Any other line
// count uses a greedy left-to-right packer governed by the overflow policy.
func BreakLines(text string, threshold, maxLines int, policy Overflow) ([]string, error) {
	tokens := Tokenize(text)
	if len(tokens) <= 1 {
		return []string{text}, nil
	}

	if maxLines == 2 {
		return splitOptimal(tokens, threshold), nil
	}

	return packGreedy(tokens, threshold, maxLines, policy)
}

// splitOptimal packs the first of two lines as full as possible without
// exceeding the threshold, falling back to the token midpoint when even the
// first token is too long.
func splitOptimal(tokens []string, threshold int) []string {
	bestBreak := 0
	bestLen := 0

	for i := 1; i < len(tokens); i++ {
		firstLen := joinedLen(tokens[:i])
		if firstLen <= threshold && firstLen > bestLen {
			bestLen = firstLen
			bestBreak = i
		}
	}

	if bestBreak == 0 {
		bestBreak = len(tokens) / 2
	}

	return []string{
		strings.Join(tokens[:bestBreak], " "),
		strings.Join(tokens[bestBreak:], " "),
	}
}

func packGreedy(tokens []string, threshold, maxLines int, policy Overflow) ([]string, error) {
	var lines []string
	var current []string

	for _, token := range tokens {
		if len(lines) >= maxLines {
			break
		}

		test := token
		if len(current) > 0 {
			test = strings.Join(current, " ") + " " + token
		}
		if len(test) <= threshold {
			current = append(current, token)
			continue
		}

		if len(current) > 0 {
			lines = append(lines, strings.Join(current, " "))
			current = []string{token}
		} else {
			// A single token over the threshold still occupies a line.
			lines = append(lines, token)
		}
	}

	if len(current) > 0 && len(lines) < maxLines {
		lines = append(lines, strings.Join(current, " "))
	}
	if len(lines) > maxLines {
		lines = lines[:maxLines]
	}

	// Tokens carry no interior spaces, so emitted token count falls straight
	// out of the joined lines.
	emitted := 0
	for _, line := range lines {
		emitted += len(strings.Fields(line))
	}

	if emitted < len(tokens) {
		switch policy {
		case OverflowError:
			return nil, fmt.Errorf("text needs more than %d lines at threshold %d", maxLines, threshold)
		case OverflowEllipsis:
			lines[len(lines)-1] += "…"
		}
	}

	return lines, nil
}

func joinedLen(tokens []string) int {
	n := 0
	for i, t := range tokens {
		if i > 0 {
			n++ // joining space
		}
		n += len(t)
	}
	return n
}
