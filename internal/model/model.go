package model

import "fmt"

// Pitch constants. All coordinates in the core use the 120x80 StatsBomb-style
// pitch; provider loaders convert at the boundary.
const (
	PitchLength = 120.0
	PitchWidth  = 80.0
	PitchArea   = PitchLength * PitchWidth // 9600

	HalfwayX    = 60.0
	FinalThirdX = 80.0

	BoxEdgeX = 102.0
	BoxMinY  = 18.0
	BoxMaxY  = 62.0
)

// GoalCentre is the centre of the goal being attacked.
var GoalCentre = Point{X: PitchLength, Y: PitchWidth / 2}

// Point is a 2D pitch position.
type Point struct{ X, Y float64 }

// Mirror reflects a point through the pitch centre, expressing an opposition
// event in the other team's attacking direction.
func (p Point) Mirror() Point {
	return Point{X: PitchLength - p.X, Y: PitchWidth - p.Y}
}

// InBox reports whether the point lies inside the attacking penalty box.
func (p Point) InBox() bool {
	return p.X >= BoxEdgeX && p.Y >= BoxMinY && p.Y <= BoxMaxY
}

// OnBoundary reports whether the point sits exactly on a pitch boundary line.
func (p Point) OnBoundary() bool {
	return p.X == 0 || p.X == PitchLength || p.Y == 0 || p.Y == PitchWidth
}

// EventType identifies the kind of match event.
type EventType int

const (
	TypeUnknown EventType = iota
	TypePass
	TypeCarry
	TypeShot
	TypeDribble
	TypeDuel
	TypeInterception
	TypeBallRecovery
	TypeBlock
	TypeClearance
	TypePressure
	TypeFoulCommitted
	TypeFoulWon
	TypeBallReceipt
	TypeMiscontrol
	TypeDispossessed
	TypeFiftyFifty
	TypeGoalKeeper
	TypeOffside
	TypeSubstitution
	TypeTacticalShift
	TypeError
	TypeOwnGoal
)

var eventTypeNames = map[EventType]string{
	TypePass:          "Pass",
	TypeCarry:         "Carry",
	TypeShot:          "Shot",
	TypeDribble:       "Dribble",
	TypeDuel:          "Duel",
	TypeInterception:  "Interception",
	TypeBallRecovery:  "Ball Recovery",
	TypeBlock:         "Block",
	TypeClearance:     "Clearance",
	TypePressure:      "Pressure",
	TypeFoulCommitted: "Foul Committed",
	TypeFoulWon:       "Foul Won",
	TypeBallReceipt:   "Ball Receipt*",
	TypeMiscontrol:    "Miscontrol",
	TypeDispossessed:  "Dispossessed",
	TypeFiftyFifty:    "50/50",
	TypeGoalKeeper:    "Goal Keeper",
	TypeOffside:       "Offside",
	TypeSubstitution:  "Substitution",
	TypeTacticalShift: "Tactical Shift",
	TypeError:         "Error",
	TypeOwnGoal:       "Own Goal Against",
}

func (t EventType) String() string {
	if s, ok := eventTypeNames[t]; ok {
		return s
	}
	return "Unknown"
}

// ParseEventType maps a provider type name to an EventType. Names the core
// does not know map to TypeUnknown; provider schemas evolve and an unknown
// type must never be fatal.
func ParseEventType(name string) EventType {
	for t, s := range eventTypeNames {
		if s == name {
			return t
		}
	}
	// Aliases seen across providers.
	switch name {
	case "Ball Receipt":
		return TypeBallReceipt
	case "BallRecovery":
		return TypeBallRecovery
	case "50-50":
		return TypeFiftyFifty
	}
	return TypeUnknown
}

// Outcome is the tri-state result of an event. Provider schemas encode
// success for passes, dribbles and receipts as an *absent* outcome field;
// that convention is resolved to an explicit value once, at ingestion, so
// no downstream code ever tests for missing fields.
type Outcome int

const (
	OutcomeNotApplicable Outcome = iota
	OutcomeSuccess
	OutcomeFailure
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "Success"
	case OutcomeFailure:
		return "Failure"
	default:
		return "N/A"
	}
}

// successDetails lists, per event type, the provider outcome strings that
// count as success. Types whose success is encoded by an absent outcome
// (Pass, Ball Receipt) are handled in ResolveOutcome directly.
var successDetails = map[EventType][]string{
	TypeShot:         {"Saved", "Goal", "Saved To Post"},
	TypeDribble:      {"Complete"},
	TypeDuel:         {"Won", "Success", "Success In Play", "Success Out"},
	TypeInterception: {"Won", "Success", "Success In Play", "Success Out"},
	TypeFiftyFifty:   {"Won", "Success To Team", "Success To Opposition"},
}

// ResolveOutcome computes the tri-state outcome for an event type and raw
// provider outcome string (empty when the provider omitted it).
func ResolveOutcome(t EventType, detail string) Outcome {
	switch t {
	case TypePass, TypeBallReceipt:
		if detail == "" {
			return OutcomeSuccess
		}
		return OutcomeFailure
	case TypeBallRecovery:
		if detail == "Recovery Failure" {
			return OutcomeFailure
		}
		return OutcomeSuccess
	case TypeShot, TypeDribble, TypeDuel, TypeInterception, TypeFiftyFifty:
		for _, s := range successDetails[t] {
			if detail == s {
				return OutcomeSuccess
			}
		}
		return OutcomeFailure
	default:
		return OutcomeNotApplicable
	}
}

// Event is one atomic match occurrence, normalized to the canonical schema.
// Optional locations are pointers: a nil Loc/EndLoc means the provider did
// not supply one, and computations that need it skip the row.
type Event struct {
	MatchID        int64
	ID             string // provider event id, used by assisted-shot back-references
	Index          int    // stable arrival order within the match
	Period         int    // 1,2 halves; 3,4 extra time; 5 penalties
	Minute         int    // clock minute within period
	Second         int
	CumulativeMins float64 // derived, continuous across periods

	Type          EventType
	SubType       string // pass_type / shot_type / duel_type, per provider
	Outcome       Outcome
	OutcomeDetail string // raw provider outcome name, "" when absent

	Team           string
	Player         string
	Position       string
	PossessionID   int // 0 when unknown; only comparable within one match
	PossessionTeam string

	Loc    *Point
	EndLoc *Point

	// Pass sub-fields.
	PassRecipient  string
	PassHeight     string // "Ground Pass", "Low Pass", "High Pass"
	PassLength     float64
	PassBodyPart   string
	PassGoalAssist bool
	PassShotAssist bool
	AssistedShotID string

	// Shot sub-fields.
	ShotXG float64

	// Substitution sub-field: the player coming on.
	SubReplacement string

	UnderPressure  bool
	Counterpress   bool // provider-flagged counterpress
	Offensive      bool // provider offensive flag on Block / Ball Recovery
	DribbleNoTouch bool
	OBVNet         float64 // net on-ball value added by the action

	// Derived tags, set by the tagger.
	PreAssist  bool
	XGAssisted float64
}

// Lineup is one player's participation record in one match. TimeOn/TimeOff
// are on the cumulative-minute axis; an unused substitute has 0/0.
type Lineup struct {
	MatchID       int64
	Player        string
	Team          string
	Position      string
	Starter       bool
	TimeOn        float64
	TimeOff       float64
	MinutesPlayed float64
}

// MatchSummary is a lightweight record for list/show commands.
type MatchSummary struct {
	MatchID     int64
	Provider    string
	Competition string
	Season      string
	MatchDate   string
	HomeTeam    string
	AwayTeam    string
	HomeScore   int
	AwayScore   int
}

func (m MatchSummary) Label() string {
	return fmt.Sprintf("%s %d - %d %s", m.HomeTeam, m.HomeScore, m.AwayScore, m.AwayTeam)
}

// PlayerMatchStats aggregates derived event tags per player per match.
type PlayerMatchStats struct {
	MatchID  int64
	Player   string
	Team     string
	Position string

	MinutesPlayed float64

	Passes             int
	PassesCompleted    int
	ProgressivePasses  int
	ProgressiveCarries int
	BoxEntries         int
	PreAssists         int
	Assists            int
	XGAssisted         float64

	Shots int
	XG    float64
	Goals int

	Touches           int
	OffensiveTouches  int
	DefensiveTouches  int
	BoxTouches        int
	FinalThirdTouches int

	Counterpressures int
	PossessionsWon   int
}

// PassPct returns pass completion percentage, 0 when no passes were made.
func (s *PlayerMatchStats) PassPct() float64 {
	if s.Passes == 0 {
		return 0
	}
	return float64(s.PassesCompleted) / float64(s.Passes) * 100
}

// Per90 scales a count to a per-90-minute rate, 0 for players with no minutes.
func (s *PlayerMatchStats) Per90(count int) float64 {
	if s.MinutesPlayed == 0 {
		return 0
	}
	return float64(count) / s.MinutesPlayed * 90
}

// Reaction labels for LossReaction records.
const (
	ReactionCounterpress    = "Counterpress"
	ReactionRecoveryAttempt = "Recovery Attempt"
	ReactionOppPassOut      = "Opposition Pass Out"
	ReactionOppPassBackward = "Opposition Pass Backward"
)

// LossReaction records the first pressure-relevant event after an in-play
// possession loss. Locations of opposition-sourced reactions are mirrored so
// every reaction is expressed from the losing team's attacking direction.
type LossReaction struct {
	MatchID       int64
	LossIndex     int
	Team          string // team that lost the ball
	Player        string
	Reaction      string
	ReactionIndex int
	ReactionType  EventType
	ElapsedSecs   float64
	Loc           *Point
}

// Counterattack outcome labels.
const (
	CounterMovedBackwards = "Moved Backwards"
	CounterIntoBox        = "Success - Into Box"
	CounterUnsuccessful   = "Unsuccessful"
	CounterSuccess        = "Success"
)

// Counterattack records the first meaningful action after an in-play
// possession win.
type Counterattack struct {
	MatchID     int64
	WinIndex    int
	Team        string // team that won the ball
	Player      string
	ActionIndex int
	ActionType  EventType
	Outcome     string
	ElapsedSecs float64
	StartLoc    *Point
	EndLoc      *Point
}

// Pass final outcome labels, in priority order.
const (
	PassOutcomeGoal         = "Goal"
	PassOutcomeShot         = "Shot"
	PassOutcomeHighOBV      = "High OBV Pass"
	PassOutcomeToTeam       = "To team"
	PassOutcomeUnsuccessful = "Unsuccessful"
)

// PassFinalOutcome classifies what a pass ultimately led to within its
// follow-on window.
type PassFinalOutcome struct {
	MatchID   int64
	PassIndex int
	Player    string
	Team      string
	Outcome   string
}

// LongBallReceipt records one long ball received by a target player and what
// the player did next.
type LongBallReceipt struct {
	MatchID   int64
	Period    int
	PassIndex int
	Matchtime string // mm:ss of the long ball within its period

	PassLoc    *Point
	ReceiptLoc *Point

	UnderPressure bool
	Miscontrol    bool

	InterimCarry       bool
	CarryUnderPressure bool
	CarryEnd           *Point

	NextAction        EventType
	HasNextAction     bool
	NextActionSuccess bool
	NextActionEnd     *Point
	SecsToNextAction  float64

	Retained bool // no miscontrol and team still in possession ~10s later
}

// SimulationResult aggregates a Monte Carlo match-outcome run.
type SimulationResult struct {
	MatchID  int64
	HomeTeam string
	AwayTeam string
	Trials   int

	HomeWinProb float64
	AwayWinProb float64
	DrawProb    float64

	HomeXPoints float64
	AwayXPoints float64

	HomeXG float64
	AwayXG float64
}
