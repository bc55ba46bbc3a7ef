package game

import (
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"
)

// State is the room's position in its lifecycle. All player-originated
// actions are checked against it first; actions illegal for the current state
// are uniformly ignored rather than rejected with an error reply.
type State string

const (
	// StateReviewing is the idle/lobby state between rounds and the state a
	// scored round returns to. Challenges may only be raised here.
	StateReviewing State = "REVIEWING"
	// StatePlaying means a round's submission window is open.
	StatePlaying State = "PLAYING"
	// StateScoring means the window has closed (someone submitted) and the
	// room is collecting the remaining submissions.
	StateScoring State = "SCORING"
	// StateVoting means a challenge is being adjudicated.
	StateVoting State = "VOTING"
)

// Round is the mutable record of the current round. It is retained after
// scoring, until the next round starts, so that a successful challenge can
// re-score it.
type Round struct {
	Letter      rune
	Submissions map[int]map[string]string // player id -> category -> raw answer

	scored bool
}

// Config carries the room's tunables. Zero values get sane defaults.
type Config struct {
	// SettleDelay is the grace period between the first submission closing a
	// round and forced scoring. Zero disables forcing: the round then scores
	// only once every connected player has submitted.
	SettleDelay time.Duration
	Rand        *rand.Rand
	Logger      *zap.Logger
}

// Room is the single shared game session. It owns the player registry, the
// current round and vote, and is the sole mutator of all of them: every
// action locks the room and runs to completion, so no handler interleaves
// with another's partial execution. Outbound sends never block (see Sender),
// which keeps broadcasting under the lock safe.
type Room struct {
	mu          sync.Mutex
	logger      *zap.Logger
	rnd         *rand.Rand
	settleDelay time.Duration

	state    State
	registry *Registry
	round    *Round
	vote     *Vote
	settle   *settleTimer

	usedLetters map[rune]bool
	challenged  map[string]map[string]bool // category -> normalized answer -> invalid
}

func NewRoom(cfg Config) *Room {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Room{
		logger:      cfg.Logger,
		rnd:         cfg.Rand,
		settleDelay: cfg.SettleDelay,
		state:       StateReviewing,
		registry:    NewRegistry(),
		usedLetters: make(map[rune]bool),
		challenged:  make(map[string]map[string]bool),
	}
}

// State returns the room's current state.
func (r *Room) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Connect registers a new player, welcomes them and broadcasts the updated
// roster. It returns the assigned player id, which the connection adapter
// passes back with every subsequent action.
func (r *Room) Connect(sender Sender) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.registry.Add(petname(r.rnd), sender)
	r.logger.Info("player connected", zap.Int("player", p.ID), zap.String("name", p.Name))

	p.sender.Send(Envelope{Type: MsgWelcome, Value: WelcomeValue{Name: p.Name, State: r.state}})
	r.broadcastRosterLocked(MsgPlayers)
	return p.ID
}

// Disconnect removes a player. It is not an error: the round, if any, keeps
// going, and the departed slot simply stops counting toward completeness and
// vote quorum checks.
func (r *Room) Disconnect(id int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.registry.Remove(id)
	if p == nil {
		return
	}
	r.logger.Info("player disconnected", zap.Int("player", id), zap.String("name", p.Name))
	r.broadcastRosterLocked(MsgPlayers)

	if r.registry.Len() == 0 {
		r.settle.Stop()
		r.settle = nil
		r.vote = nil
		r.state = StateReviewing
		return
	}

	switch r.state {
	case StateScoring:
		// A non-submitter leaving can complete the round.
		r.maybeScoreLocked()
	case StateVoting:
		if r.vote != nil && r.vote.ChallengerID == id {
			// No challenger left to attribute the challenge to; abandon it.
			r.vote = nil
			r.state = StateReviewing
			r.broadcastLocked(Envelope{Type: MsgVoteResult, Value: false})
			return
		}
		r.resolveVoteLocked()
	}
}

// Rename updates a player's display name. Empty and duplicate names are
// permitted.
func (r *Room) Rename(id int, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.registry.Get(id)
	if !ok {
		return
	}
	r.logger.Info("player renamed", zap.Int("player", id), zap.String("name", name))
	p.Name = name
	r.broadcastRosterLocked(MsgPlayers)
}

// StartRound opens a new submission window: draws an unused letter, resets
// submissions and broadcasts new_round. Ignored outside REVIEWING, which
// makes concurrent start requests idempotent.
func (r *Room) StartRound(id int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateReviewing {
		r.logger.Debug("start_round ignored", zap.String("state", string(r.state)), zap.Int("player", id))
		return
	}
	if _, ok := r.registry.Get(id); !ok {
		return
	}

	letter := r.drawLetterLocked()
	r.round = &Round{
		Letter:      letter,
		Submissions: make(map[int]map[string]string),
	}
	r.state = StatePlaying
	r.logger.Info("round started", zap.String("letter", string(letter)))
	r.broadcastLocked(Envelope{Type: MsgNewRound, Value: string(letter)})
}

// SubmitAnswers records a player's answers for the active round. The first
// submission closes the window (PLAYING -> SCORING) and notifies the others;
// every submission after that is a late submission that re-triggers the
// completeness check rather than being dropped.
func (r *Room) SubmitAnswers(id int, answers map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.registry.Get(id); !ok {
		return
	}

	switch r.state {
	case StatePlaying:
		r.round.Submissions[id] = answers
		r.state = StateScoring
		r.broadcastExceptLocked(id, Envelope{Type: MsgFinishRound})
		if !r.maybeScoreLocked() && r.settleDelay > 0 {
			r.settle = startSettleTimer(r.settleDelay, r.forceScore)
		}
	case StateScoring:
		if _, dup := r.round.Submissions[id]; dup {
			r.logger.Debug("duplicate submission ignored", zap.Int("player", id))
			return
		}
		r.round.Submissions[id] = answers
		r.maybeScoreLocked()
	default:
		r.logger.Debug("end_round ignored", zap.String("state", string(r.state)), zap.Int("player", id))
	}
}

// Challenge asserts that a previously scored answer is invalid and opens a
// vote on it. Only legal between rounds (REVIEWING). Eligible voters are the
// players connected right now, minus the challenger.
func (r *Room) Challenge(id int, word, field string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateReviewing {
		r.logger.Debug("challenge ignored", zap.String("state", string(r.state)), zap.Int("player", id))
		return
	}
	p, ok := r.registry.Get(id)
	if !ok {
		return
	}

	r.vote = newVote(id, word, field, r.registry.IDs())
	r.state = StateVoting
	r.logger.Info("challenge raised",
		zap.Int("player", id), zap.String("word", word), zap.String("field", field))
	r.broadcastExceptLocked(id, Envelope{Type: MsgChallenge, Value: ChallengeValue{
		From:  p.Name,
		Word:  word,
		Field: field,
	}})

	// A challenger alone in the room has no voters; resolve immediately.
	r.resolveVoteLocked()
}

// CastVote records a ballot. value true means "the answer is valid".
func (r *Room) CastVote(id int, valid bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateVoting || r.vote == nil {
		r.logger.Debug("vote ignored", zap.String("state", string(r.state)), zap.Int("player", id))
		return
	}
	if _, ok := r.registry.Get(id); !ok {
		return
	}
	if !r.vote.Cast(id, valid) {
		r.logger.Debug("ballot rejected", zap.Int("player", id))
		return
	}
	r.resolveVoteLocked()
}

// resolveVoteLocked finishes the vote once every eligible, still-connected
// voter has cast a ballot. An upheld challenge records the normalized word as
// invalid for its category and re-scores the just-finished round with the
// grown challenge set; cumulative totals are left untouched either way.
func (r *Room) resolveVoteLocked() {
	connected := make(map[int]bool, r.registry.Len())
	for _, id := range r.registry.IDs() {
		connected[id] = true
	}
	done, upheld := r.vote.Resolved(connected)
	if !done {
		return
	}

	v := r.vote
	r.vote = nil
	r.state = StateReviewing
	r.logger.Info("vote resolved",
		zap.Bool("upheld", upheld), zap.String("word", v.Word), zap.String("field", v.Field))
	r.broadcastLocked(Envelope{Type: MsgVoteResult, Value: upheld})
	if !upheld {
		return
	}

	word := Normalize(v.Word)
	if r.challenged[v.Field] == nil {
		r.challenged[v.Field] = make(map[string]bool)
	}
	r.challenged[v.Field][word] = true

	if r.round != nil && len(r.round.Submissions) > 0 {
		r.scoreLocked()
	}
}

// maybeScoreLocked scores the round once every currently connected player has
// a recorded submission. Reports whether scoring happened.
func (r *Room) maybeScoreLocked() bool {
	if r.state != StateScoring || r.round == nil || r.registry.Len() == 0 {
		return false
	}
	for _, id := range r.registry.IDs() {
		if _, ok := r.round.Submissions[id]; !ok {
			return false
		}
	}
	r.scoreLocked()
	return true
}

// forceScore is the settle timer's expiry path: score with whatever
// submissions exist, unless scoring already happened.
func (r *Room) forceScore() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateScoring || r.round == nil || r.registry.Len() == 0 {
		return
	}
	r.logger.Info("settle delay expired, forcing score",
		zap.Int("submissions", len(r.round.Submissions)), zap.Int("players", r.registry.Len()))
	r.scoreLocked()
}

// scoreLocked derives the round report, sends each player their personalized
// round_score, applies round totals to cumulative scores (first scoring of a
// round only; re-scores after a challenge never touch totals), broadcasts the
// standings and returns the room to REVIEWING.
func (r *Room) scoreLocked() {
	r.settle.Stop()
	r.settle = nil

	results := ScoreRound(r.round.Submissions, r.round.Letter, r.challenged)

	players := r.registry.Ordered()
	rows := make([]RoundResult, 0, len(players))
	for _, p := range players {
		res := results[p.ID]
		rows = append(rows, RoundResult{Name: p.Name, Answers: res.Answers, Score: res.Total})
	}
	for _, p := range players {
		p.sender.Send(Envelope{Type: MsgRoundScore, Value: RoundScoreValue{
			Round:   rows,
			MyScore: results[p.ID].Total,
		}})
	}

	if !r.round.scored {
		for _, p := range players {
			p.Score += results[p.ID].Total
		}
	}
	r.round.scored = true

	r.broadcastRosterLocked(MsgScores)
	r.state = StateReviewing
	r.logger.Info("round scored", zap.String("letter", string(r.round.Letter)))
}

// drawLetterLocked picks a random letter not used before in this room. Once
// all 26 letters have been drawn the pool resets and letters may repeat.
func (r *Room) drawLetterLocked() rune {
	available := make([]rune, 0, 26)
	for c := 'A'; c <= 'Z'; c++ {
		if !r.usedLetters[c] {
			available = append(available, c)
		}
	}
	if len(available) == 0 {
		r.usedLetters = make(map[rune]bool)
		for c := 'A'; c <= 'Z'; c++ {
			available = append(available, c)
		}
	}
	letter := available[r.rnd.Intn(len(available))]
	r.usedLetters[letter] = true
	return letter
}

func (r *Room) broadcastLocked(msg Envelope) {
	for _, p := range r.registry.Ordered() {
		if !p.sender.Send(msg) {
			r.logger.Debug("dropped outbound message",
				zap.Int("player", p.ID), zap.String("type", msg.Type))
		}
	}
}

func (r *Room) broadcastExceptLocked(exclude int, msg Envelope) {
	for _, p := range r.registry.Ordered() {
		if p.ID == exclude {
			continue
		}
		if !p.sender.Send(msg) {
			r.logger.Debug("dropped outbound message",
				zap.Int("player", p.ID), zap.String("type", msg.Type))
		}
	}
}

func (r *Room) broadcastRosterLocked(msgType string) {
	players := r.registry.Ordered()
	standings := make([]Standing, 0, len(players))
	for _, p := range players {
		standings = append(standings, Standing{Name: p.Name, Score: p.Score})
	}
	r.broadcastLocked(Envelope{Type: msgType, Value: standings})
}
