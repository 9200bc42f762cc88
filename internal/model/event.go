package model

import (
	"encoding/json"
	"fmt"

	"github.com/samber/lo"
	ext "github.com/yola1107/kratos/v2/library/xgo"
)

// EventType tags the mini-game assigned to a circuit cell.
type EventType int32

const (
	EventNone EventType = iota
	EventQuiz
	EventFunding
	EventOpportunity
	EventChallenge
	EventDuel
)

var eventNames = map[EventType]string{
	EventNone:        "normal",
	EventQuiz:        "quiz",
	EventFunding:     "funding",
	EventOpportunity: "opportunity",
	EventChallenge:   "challenge",
	EventDuel:        "duel",
}

func (e EventType) String() string {
	if s, ok := eventNames[e]; ok {
		return s
	}
	return fmt.Sprintf("EventType(%d)", int32(e))
}

// MarshalJSON writes the wire name, so replicas and clients see
// "quiz"/"funding"/... instead of enum numbers.
func (e EventType) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.String())
}

func (e *EventType) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	for k, v := range eventNames {
		if v == s {
			*e = k
			return nil
		}
	}
	return fmt.Errorf("unknown event type %q", s)
}

// QuizPayload carries one timed question. The answer index ships with
// the payload; correctness is judged by the answering client (known
// trust gap, see DESIGN.md).
type QuizPayload struct {
	Question           string   `json:"question"`
	Options            []string `json:"options"`
	CorrectAnswerIndex int32    `json:"correctAnswerIndex"`
	Reward             int32    `json:"reward"`
	TimeLimitSeconds   int32    `json:"timeLimitSeconds"`
}

// FundingPayload grants tokens unconditionally.
type FundingPayload struct {
	Amount int32 `json:"amount"`
}

// EffectPayload backs opportunity (gain) and challenge (loss) cells.
type EffectPayload struct {
	Effect string `json:"effect"` // "tokens" | "loseTokens"
	Value  int32  `json:"value"`
}

// Event is the tagged union occupying GameState's single event slot.
// Exactly one payload pointer matches Type.
type Event struct {
	Type        EventType       `json:"type"`
	Quiz        *QuizPayload    `json:"quiz,omitempty"`
	Funding     *FundingPayload `json:"funding,omitempty"`
	Opportunity *EffectPayload  `json:"opportunity,omitempty"`
	Challenge   *EffectPayload  `json:"challenge,omitempty"`
	Duel        *DuelState      `json:"duel,omitempty"`
}

// EventResult is all the engine needs back from whichever surface
// rendered the mini-game. Reward may be negative (challenge).
type EventResult struct {
	OK     bool  `json:"ok"`
	Reward int32 `json:"reward"`
}

type quizQuestion struct {
	Question string
	Options  []string
	Answer   int32
}

// quizBank seeds quiz cells. Duel questions draw from the same pool.
var quizBank = []quizQuestion{
	{"What does MVP stand for?", []string{"Most Valuable Player", "Minimum Viable Product", "Maximum Value Proposition", "Minimum Valid Plan"}, 1},
	{"A pre-seed round typically funds what?", []string{"An IPO", "Idea validation", "A factory", "Dividends"}, 1},
	{"What is a cap table?", []string{"A meeting agenda", "Ownership breakdown", "A price list", "A tax form"}, 1},
	{"Churn rate measures what?", []string{"Customer loss", "Server load", "Ad spend", "Team size"}, 0},
	{"What is bootstrapping?", []string{"Hiring fast", "Self-funding growth", "Buying competitors", "Outsourcing"}, 1},
	{"CAC stands for?", []string{"Customer Acquisition Cost", "Capital Accrual Coefficient", "Corporate Audit Check", "Customer Account Credit"}, 0},
	{"A pivot means the startup...", []string{"Closes down", "Changes strategy", "Goes public", "Raises debt"}, 1},
	{"What is runway?", []string{"Office space", "Months of cash left", "A launch event", "Market share"}, 1},
	{"Product-market fit is reached when...", []string{"The product sells itself", "The app compiles", "A patent is granted", "The logo is ready"}, 0},
	{"An angel investor is...", []string{"A bank", "An early individual backer", "A regulator", "An accelerator"}, 1},
	{"ARR measures?", []string{"Annual Recurring Revenue", "Average Retention Rate", "Asset Return Ratio", "Annual Risk Report"}, 0},
	{"A term sheet is...", []string{"A cap on salaries", "A non-binding deal outline", "A hiring plan", "A court order"}, 1},
}

const (
	quizReward       int32 = 2
	quizTimeLimitSec int32 = 20
	fundingMin       int32 = 1
	fundingMax       int32 = 4 // inclusive upper bound 3, RandInt max is exclusive
	effectMin        int32 = 1
	effectMax        int32 = 4
)

// DrawEvent builds the payload for a freshly triggered cell event.
// Duel payloads are built separately once the opponent is known.
func DrawEvent(t EventType) *Event {
	switch t {
	case EventQuiz:
		q := quizBank[ext.RandInt(0, int32(len(quizBank)))]
		return &Event{Type: t, Quiz: &QuizPayload{
			Question:           q.Question,
			Options:            q.Options,
			CorrectAnswerIndex: q.Answer,
			Reward:             quizReward,
			TimeLimitSeconds:   quizTimeLimitSec,
		}}
	case EventFunding:
		return &Event{Type: t, Funding: &FundingPayload{Amount: ext.RandInt(fundingMin, fundingMax)}}
	case EventOpportunity:
		return &Event{Type: t, Opportunity: &EffectPayload{Effect: "tokens", Value: ext.RandInt(effectMin, effectMax)}}
	case EventChallenge:
		return &Event{Type: t, Challenge: &EffectPayload{Effect: "loseTokens", Value: ext.RandInt(effectMin, effectMax)}}
	default:
		return nil
	}
}

// drawDuelQuestions picks a shared fixed-size set for one duel.
func drawDuelQuestions(n int) []DuelQuestion {
	shuffled := lo.Shuffle(append([]quizQuestion(nil), quizBank...))
	out := make([]DuelQuestion, 0, n)
	for _, q := range shuffled[:n] {
		out = append(out, DuelQuestion{Question: q.Question, Options: q.Options, Answer: q.Answer})
	}
	return out
}
