package event

import "encoding/json"

// Payload is the tagged union of per-type event data. The concrete type is
// determined by the owning event's Type; decoding is keyed the same way.
type Payload interface {
	isPayload()
}

// Resources counts a team's expendable assets.
type Resources struct {
	Rerolls    int `json:"rerolls"`
	Apothecary int `json:"apothecary"`
}

// Inducement describes a pre-match purchase by one side.
type Inducement struct {
	Team   Team   `json:"team"`
	Kind   string `json:"kind"`
	Detail string `json:"detail,omitempty"`
}

// MatchStartPayload seeds team names, weather, resources and inducements.
// Absent fields leave the projection's defaults in place.
type MatchStartPayload struct {
	TeamAName   string       `json:"teamAName,omitempty"`
	TeamBName   string       `json:"teamBName,omitempty"`
	Weather     string       `json:"weather,omitempty"`
	ResourcesA  *Resources   `json:"resourcesA,omitempty"`
	ResourcesB  *Resources   `json:"resourcesB,omitempty"`
	Inducements []Inducement `json:"inducements,omitempty"`
}

// TurnSetPayload overwrites the turn marker. Nil fields are skipped.
type TurnSetPayload struct {
	Turn *int `json:"turn,omitempty"`
	Half *int `json:"half,omitempty"`
}

// HalfChangedPayload overwrites half and turn. Nil fields are skipped.
type HalfChangedPayload struct {
	Half *int `json:"half,omitempty"`
	Turn *int `json:"turn,omitempty"`
}

// TouchdownPayload carries the optional scorer slot.
type TouchdownPayload struct {
	Scorer string `json:"scorer,omitempty"`
}

// CompletionPayload carries the passer awarded completion SPP.
type CompletionPayload struct {
	Passer string `json:"passer,omitempty"`
}

// InterceptionPayload carries the intercepting player.
type InterceptionPayload struct {
	Player string `json:"player,omitempty"`
}

// InjuryPayload describes an injury and an optional apothecary
// intervention. Result and outcome values are the injury domain's
// enumeration strings; legacy values are tolerated and normalized by the
// outcome resolver.
type InjuryPayload struct {
	Victim            string `json:"victim,omitempty"`
	Causer            string `json:"causer,omitempty"`
	Cause             string `json:"cause,omitempty"`
	Result            string `json:"injuryResult,omitempty"`
	Stat              string `json:"stat,omitempty"`
	ApothecaryUsed    bool   `json:"apothecaryUsed,omitempty"`
	ApothecaryOutcome string `json:"apothecaryOutcome,omitempty"`
	ApothecaryStat    string `json:"apothecaryStat,omitempty"`
}

// PlayerPayload names a single player, used by KO events.
type PlayerPayload struct {
	Player string `json:"player,omitempty"`
}

// KickoffDetails carries key-specific data for the detail-bearing
// kickoff-table results. Time-penalty results set AppliedDelta (+1 or -1),
// weather-change results set NewWeather, and the free-form results carry
// Target/Outcome strings.
type KickoffDetails struct {
	NewWeather   string `json:"newWeather,omitempty"`
	AppliedDelta int    `json:"appliedDelta,omitempty"`
	Target       string `json:"target,omitempty"`
	Outcome      string `json:"outcome,omitempty"`
}

// KickoffEventPayload records a kickoff-table result for a drive.
type KickoffEventPayload struct {
	Drive     int             `json:"drive"`
	Kicking   Team            `json:"kickingTeam"`
	Receiving Team            `json:"receivingTeam"`
	Roll      *int            `json:"roll,omitempty"`
	Key       string          `json:"key"`
	Label     string          `json:"label"`
	Details   *KickoffDetails `json:"details,omitempty"`
}

// WellFormed reports whether the payload can participate in drive
// bookkeeping: a positive drive index, both sides restricted to A/B, and a
// non-empty table key.
func (p KickoffEventPayload) WellFormed() bool {
	return p.Drive >= 1 && p.Kicking.IsValid() && p.Receiving.IsValid() && p.Key != ""
}

// WeatherPayload overwrites the current weather.
type WeatherPayload struct {
	Weather string `json:"weather,omitempty"`
}

// NotePayload carries free-form text, also used by foul, turnover, kickoff,
// casualty and prayer events whose detail is narrative only.
type NotePayload struct {
	Text string `json:"text,omitempty"`
}

func (MatchStartPayload) isPayload()   {}
func (TurnSetPayload) isPayload()      {}
func (HalfChangedPayload) isPayload()  {}
func (TouchdownPayload) isPayload()    {}
func (CompletionPayload) isPayload()   {}
func (InterceptionPayload) isPayload() {}
func (InjuryPayload) isPayload()       {}
func (PlayerPayload) isPayload()       {}
func (KickoffEventPayload) isPayload() {}
func (WeatherPayload) isPayload()      {}
func (NotePayload) isPayload()         {}

// MarshalPayload encodes a payload to JSON. Nil payloads encode to nil.
func MarshalPayload(p Payload) ([]byte, error) {
	if p == nil {
		return nil, nil
	}
	data, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// decodeInto unmarshals data into a zero P. Empty input yields the zero
// payload so partial events keep folding; unknown fields are ignored.
func decodeInto[P Payload](data []byte) (Payload, error) {
	var p P
	if len(data) == 0 {
		return p, nil
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return p, nil
}

// UnmarshalPayload decodes payload JSON for the given event type.
func UnmarshalPayload(t Type, data []byte) (Payload, error) {
	switch t {
	case TypeMatchStart:
		return decodeInto[MatchStartPayload](data)
	case TypeTurnSet:
		return decodeInto[TurnSetPayload](data)
	case TypeHalfChanged:
		return decodeInto[HalfChangedPayload](data)
	case TypeTouchdown:
		return decodeInto[TouchdownPayload](data)
	case TypeCompletion:
		return decodeInto[CompletionPayload](data)
	case TypeInterception:
		return decodeInto[InterceptionPayload](data)
	case TypeInjury, TypeCasualty:
		return decodeInto[InjuryPayload](data)
	case TypeKO:
		return decodeInto[PlayerPayload](data)
	case TypeKickoffEvent:
		return decodeInto[KickoffEventPayload](data)
	case TypeWeatherSet:
		return decodeInto[WeatherPayload](data)
	case TypeNextTurn:
		return nil, nil
	default:
		// foul, turnover, kickoff, prayer_result, note: narrative text.
		return decodeInto[NotePayload](data)
	}
}
