package game

import "encoding/json"

// Inbound message types (client -> room).
const (
	MsgName       = "name"
	MsgStartRound = "start_round"
	MsgChallenge  = "challenge"
	MsgVote       = "vote"
	MsgEndRound   = "end_round"
)

// Outbound message types (room -> client).
const (
	MsgWelcome     = "welcome"
	MsgPlayers     = "players"
	MsgNewRound    = "new_round"
	MsgFinishRound = "finish_round"
	MsgRoundScore  = "round_score"
	MsgScores      = "scores"
	MsgVoteResult  = "vote_result"
)

// Envelope is the wire format in both directions.
type Envelope struct {
	Type  string `json:"type"`
	Value any    `json:"value"`
}

// WelcomeValue is sent to a player once, right after their connection is
// registered.
type WelcomeValue struct {
	Name  string `json:"name"`
	State State  `json:"state"`
}

// Standing is one row of a roster or scoreboard broadcast, always emitted in
// ascending player-id order so clients see a stable sequence across snapshots.
type Standing struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// ChallengeValue announces a raised challenge to the voters.
type ChallengeValue struct {
	From  string `json:"from"`
	Word  string `json:"word"`
	Field string `json:"field"`
}

// AnswerScore pairs a player's raw answer with the score it earned. It
// marshals as a two-element array to match the wire format clients expect.
type AnswerScore struct {
	Answer string
	Score  int
}

func (a AnswerScore) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{a.Answer, a.Score})
}

func (a *AnswerScore) UnmarshalJSON(data []byte) error {
	var raw [2]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if err := json.Unmarshal(raw[0], &a.Answer); err != nil {
		return err
	}
	return json.Unmarshal(raw[1], &a.Score)
}

// RoundResult is one player's row in the per-round report.
type RoundResult struct {
	Name    string                 `json:"name"`
	Answers map[string]AnswerScore `json:"answers"`
	Score   int                    `json:"score"`
}

// RoundScoreValue is the per-round report. MyScore is personalized per
// recipient, so this message is built once per connected player.
type RoundScoreValue struct {
	Round   []RoundResult `json:"round"`
	MyScore int           `json:"my_score"`
}
