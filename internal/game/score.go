package game

import (
	"slices"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Scores a single answer can earn in a category.
const (
	ScoreUnique    = 100
	ScoreDuplicate = 50
)

// Normalize produces the canonical form of an answer: surrounding whitespace
// trimmed, lowercased, and diacritics folded to their base Latin letters
// ("Bëár " -> "bear"). Challenged-answer lookups and duplicate detection both
// operate on this form.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	folder := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(folder, s)
	if err != nil {
		return s
	}
	return folded
}

// PlayerResult is one player's scored submission for a round.
type PlayerResult struct {
	Answers map[string]AnswerScore
	Total   int
}

// ScoreRound computes the per-player report for a completed round. It is a
// pure function of its inputs and deterministic: players are processed in
// ascending-id order, so re-deriving the report from the same submissions and
// challenge set yields identical output.
//
// Per category, an answer scores 0 when its normalized form is shorter than
// two characters, does not start with the round letter, or has been ruled
// invalid by a vote; otherwise it scores 100 when unique in its category and
// 50 when two or more players submitted the same normalized answer.
func ScoreRound(subs map[int]map[string]string, letter rune, challenged map[string]map[string]bool) map[int]PlayerResult {
	want := unicode.ToLower(letter)

	// First pass: one score per (category, normalized answer). A second
	// sighting of an answer demotes the shared entry to the duplicate score.
	table := make(map[string]map[string]int)
	ids := make([]int, 0, len(subs))
	for id := range subs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		for category, raw := range subs[id] {
			answer := Normalize(raw)
			if len([]rune(answer)) < 2 {
				continue
			}
			if []rune(answer)[0] != want {
				continue
			}
			col := table[category]
			if col == nil {
				col = make(map[string]int)
				table[category] = col
			}
			_, seen := col[answer]
			switch {
			case challenged[category][answer]:
				col[answer] = 0
			case seen:
				col[answer] = ScoreDuplicate
			default:
				col[answer] = ScoreUnique
			}
		}
	}

	// Second pass: look each player's raw answers back up against the table.
	// Anything absent from the table scored 0 but is still reported.
	results := make(map[int]PlayerResult, len(subs))
	for id, sub := range subs {
		res := PlayerResult{Answers: make(map[string]AnswerScore, len(sub))}
		for category, raw := range sub {
			score := table[category][Normalize(raw)]
			res.Answers[category] = AnswerScore{Answer: raw, Score: score}
			res.Total += score
		}
		results[id] = res
	}
	return results
}
