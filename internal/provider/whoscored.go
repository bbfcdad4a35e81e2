package provider

import (
	"fmt"
	"io"
	"strconv"

	"github.com/tidwall/gjson"

	"github.com/jkds/go-football-metrics/internal/model"
)

// WhoScored type display names mapped onto canonical event types. Shot
// variants encode their outcome in the type name; those are handled in
// wsOutcome. Unlisted names map to TypeUnknown.
var wsTypes = map[string]model.EventType{
	"Pass":            model.TypePass,
	"Carry":           model.TypeCarry,
	"TakeOn":          model.TypeDribble,
	"Tackle":          model.TypeDuel,
	"Challenge":       model.TypeDuel,
	"Aerial":          model.TypeDuel,
	"Interception":    model.TypeInterception,
	"BallRecovery":    model.TypeBallRecovery,
	"BlockedPass":     model.TypeBlock,
	"Clearance":       model.TypeClearance,
	"Foul":            model.TypeFoulCommitted,
	"Dispossessed":    model.TypeDispossessed,
	"BallTouch":       model.TypeMiscontrol,
	"OffsideGiven":    model.TypeOffside,
	"SubstitutionOff": model.TypeSubstitution,
	"SavedShot":       model.TypeShot,
	"MissedShots":     model.TypeShot,
	"ShotOnPost":      model.TypeShot,
	"Goal":            model.TypeShot,
	"KeeperPickup":    model.TypeGoalKeeper,
	"Save":            model.TypeGoalKeeper,
}

// Restart marker codes in satisfiedEventsTypes: corners, free kicks,
// throw-ins and kick-offs across schema revisions.
var wsRestartCodes = map[int64]bool{
	31: true, 34: true, 42: true, 44: true,
	45: true, 48: true, 50: true, 51: true,
}

// Shot set-piece marker codes.
var wsShotSetPieceCodes = map[int64]bool{5: true, 6: true}

// Goal-assist marker code.
const wsAssistCode = 92

const wsScaleX = model.PitchLength / 100
const wsScaleY = model.PitchWidth / 100

// LoadWhoScoredEvents decodes a WhoScored match-centre document into
// canonical events. The 100x100 coordinate system is converted to the
// 120x80 pitch here; pass recipients are absent in this schema and are
// filled later by the engineering pass.
func LoadWhoScoredEvents(r io.Reader, matchID int64) ([]model.Event, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading events: %w", err)
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("match document is not valid JSON")
	}
	doc := gjson.ParseBytes(data)
	evs := doc.Get("events")
	if !evs.Exists() {
		return nil, fmt.Errorf("match document has no events array")
	}

	teams := map[int64]string{
		doc.Get("home.teamId").Int(): doc.Get("home.name").String(),
		doc.Get("away.teamId").Int(): doc.Get("away.name").String(),
	}
	players := map[string]string{}
	doc.Get("playerIdNameDictionary").ForEach(func(k, v gjson.Result) bool {
		players[k.String()] = v.String()
		return true
	})

	var events []model.Event
	var subsOn []wsSubOn
	index := 0
	evs.ForEach(func(_, g gjson.Result) bool {
		name := g.Get("type.displayName").String()
		t, ok := wsTypes[name]
		if !ok {
			t = model.TypeUnknown
		}

		e := model.Event{
			MatchID: matchID,
			ID:      g.Get("id").String(),
			Index:   index,
			Period:  int(g.Get("period.value").Int()),
			Minute:  int(g.Get("minute").Int()),
			Second:  int(g.Get("second").Int()),
			Type:    t,
			Team:    teams[g.Get("teamId").Int()],
			Player:  players[strconv.FormatInt(g.Get("playerId").Int(), 10)],
			Loc:     wsPoint(g, "x", "y"),
		}
		index++

		var codes []int64
		g.Get("satisfiedEventsTypes").ForEach(func(_, c gjson.Result) bool {
			codes = append(codes, c.Int())
			return true
		})

		success := g.Get("outcomeType.value").Int() == 1
		e.SubType, e.OutcomeDetail = wsOutcome(name, t, success, codes)
		if t == model.TypePass {
			e.EndLoc = wsPoint(g, "endX", "endY")
			for _, c := range codes {
				if c == wsAssistCode {
					e.PassGoalAssist = true
				}
			}
		}
		if t == model.TypeCarry {
			e.EndLoc = wsPoint(g, "endX", "endY")
		}

		e.Outcome = model.ResolveOutcome(e.Type, e.OutcomeDetail)
		if name == "SubstitutionOn" {
			subsOn = append(subsOn, wsSubOn{period: e.Period, minute: e.Minute, team: e.Team, player: e.Player})
		}
		events = append(events, e)
		return true
	})
	fillSubReplacements(events, subsOn)
	return events, nil
}

// wsSubOn is the incoming half of a WhoScored substitution pair. The schema
// records the off and on players as separate rows at the same clock.
type wsSubOn struct {
	period, minute int
	team, player   string
	used           bool
}

// fillSubReplacements attaches each SubstitutionOn player to the matching
// SubstitutionOff event, pairing by team and clock and consuming records in
// order so double substitutions resolve one-to-one.
func fillSubReplacements(events []model.Event, subsOn []wsSubOn) {
	for i := range events {
		e := &events[i]
		if e.Type != model.TypeSubstitution || e.SubReplacement != "" {
			continue
		}
		for j := range subsOn {
			on := &subsOn[j]
			if on.used || on.team != e.Team || on.period != e.Period || on.minute != e.Minute {
				continue
			}
			e.SubReplacement = on.player
			on.used = true
			break
		}
	}
}

// wsOutcome maps a WhoScored event onto the canonical sub-type and outcome
// detail vocabulary.
func wsOutcome(name string, t model.EventType, success bool, codes []int64) (subType, detail string) {
	switch t {
	case model.TypePass:
		for _, c := range codes {
			if wsRestartCodes[c] {
				subType = "Set Piece"
				break
			}
		}
		if !success {
			detail = "Incomplete"
		}
	case model.TypeShot:
		subType = "Open Play"
		for _, c := range codes {
			if wsShotSetPieceCodes[c] {
				subType = "Set Piece"
				break
			}
		}
		switch name {
		case "Goal":
			detail = "Goal"
		case "SavedShot":
			detail = "Saved"
		case "ShotOnPost":
			detail = "Post"
		default:
			detail = "Off T"
		}
	case model.TypeDribble:
		if success {
			detail = "Complete"
		} else {
			detail = "Incomplete"
		}
	case model.TypeDuel:
		if name == "Tackle" {
			subType = "Tackle"
		}
		if success {
			detail = "Won"
		} else {
			detail = "Lost In Play"
		}
	case model.TypeInterception:
		if success {
			detail = "Won"
		} else {
			detail = "Lost"
		}
	case model.TypeBallRecovery:
		if !success {
			detail = "Recovery Failure"
		}
	}
	return subType, detail
}

func wsPoint(g gjson.Result, xKey, yKey string) *model.Point {
	x, y := g.Get(xKey), g.Get(yKey)
	if !x.Exists() || !y.Exists() {
		return nil
	}
	return &model.Point{X: x.Float() * wsScaleX, Y: y.Float() * wsScaleY}
}
