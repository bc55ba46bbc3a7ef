package game

// Vote is the transient record of a challenge being adjudicated. It exists
// only while the room is in VOTING and is discarded on resolution.
//
// Eligibility is snapshotted when the challenge is raised: every player
// connected at that moment except the challenger. Players joining mid-vote
// are neither asked nor waited on; players leaving mid-vote drop out of the
// requirement.
type Vote struct {
	ChallengerID int
	Word         string
	Field        string

	eligible map[int]bool
	ballots  map[int]bool // player id -> "the answer is valid"
}

func newVote(challengerID int, word, field string, voterIDs []int) *Vote {
	v := &Vote{
		ChallengerID: challengerID,
		Word:         word,
		Field:        field,
		eligible:     make(map[int]bool, len(voterIDs)),
		ballots:      make(map[int]bool),
	}
	for _, id := range voterIDs {
		if id != challengerID {
			v.eligible[id] = true
		}
	}
	return v
}

// Cast records a ballot. It reports false when the voter is the challenger,
// was not connected when the challenge was raised, or has already voted.
func (v *Vote) Cast(playerID int, valid bool) bool {
	if !v.eligible[playerID] {
		return false
	}
	if _, voted := v.ballots[playerID]; voted {
		return false
	}
	v.ballots[playerID] = valid
	return true
}

// Resolved reports whether every eligible voter still present in connected
// has cast a ballot and, if so, whether the challenge is upheld. The
// challenge succeeds only when "invalid" ballots strictly outnumber "valid"
// ones; a tie fails.
func (v *Vote) Resolved(connected map[int]bool) (done, upheld bool) {
	for id := range v.eligible {
		if !connected[id] {
			continue
		}
		if _, voted := v.ballots[id]; !voted {
			return false, false
		}
	}
	var valid, invalid int
	for _, b := range v.ballots {
		if b {
			valid++
		} else {
			invalid++
		}
	}
	return true, invalid > valid
}
