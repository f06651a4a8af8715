package view

var battingInsights = map[string]string{
	"CSK":  "Legendary death-over finishing; boosting Powerplay aggression could elevate totals.",
	"MI":   "Deadly death overs and steady middle. A more explosive Powerplay can lift match totals.",
	"DC":   "Strong middle-overs, improving death-overs. Consistent Powerplay acceleration is key.",
	"SRH":  "Balanced order, strong middle and death. Powerplay explosiveness would boost competitiveness.",
	"GT":   "Powerplay scoring jumped from 7.35 to 8.95 RPO on the previous season. The other phases stay balanced but improved very little.",
	"KKR":  "The middle order struggled this season; big totals lean heavily on the openers and especially the finishers.",
	"LSG":  "Steady death-over muscle (about 10 RPO every year) underpins their totals, while Powerplay acceleration has jumped 30% in two seasons: a shift from consolidating starts to all-phase aggression.",
	"PBKS": "Death-overs run rate has surged to a franchise-best 12 RPO, yet Powerplay scoring still hovers near 9 RPO, so PBKS rely on end-overs fireworks to offset sluggish starts.",
	"RR":   "Middle overs still fluctuate around 8 to 9 RPO, but since 2020 both Powerplay and Death rates climb past 10 RPO: Rajasthan explode after the first six overs and finish with late fireworks.",
	"RCB":  "Sustaining about 9.5 RPO across Powerplay, Middle and Death gave RCB the balanced scoring profile behind their title-winning campaign.",
}

var bowlingInsights = map[string]string{
	"CSK":  "Death-over containment remains Chennai's trademark: despite a recent uptick they sit under 10 RPO while rivals push 11+. Powerplay and Middle hover in the mid-7s, the most evenly frugal attack in the league.",
	"MI":   "Since 2022 Powerplay economy has climbed from 7 to 8.5 RPO. At the death they improved, coming down from 11 to 9.5 RPO.",
	"DC":   "Middle-over economy has fallen to the mid-8 RPO range, yet Powerplay and Death have drifted above 9 RPO since 2023: DC need new-ball breakthroughs and end-overs control.",
	"SRH":  "Relatively controlled up front and in the middle, but leakage balloons past 10 RPO at the death, their biggest defensive gap.",
	"GT":   "Economy dipped steadily to 7.5 RPO by 2022, but sharp rises in Powerplay and Death took it back above 9 RPO in 2024-25 despite mid-innings control.",
	"KKR":  "Increasingly back-loaded: Middle-over economy sits just under 8 RPO while Death-over leakage has climbed beyond 11 RPO, leaving a pressing need for reliable finishers.",
	"LSG":  "After debut-season discipline (7.5 RPO) all three phases have loosened: Powerplay and Death near 10 RPO, Middle above 9 RPO. The unit needs new-ball penetration and reliable finishers.",
	"PBKS": "Economy has drifted upward across the board: Death above 10 RPO and Powerplay past 9 RPO. Tighter new-ball plans and end-overs discipline are overdue.",
	"RR":   "Death-over leakage has sat above 10 RPO for almost five seasons while Powerplay and Middle hover near 9 RPO: an expensive finish and a need for sharper execution across all 20 overs.",
	"RCB":  "Powerplay economy improved from 9.35 to 8.33 RPO but Death overs stay above 10 RPO: middle-over accuracy and death-over execution must sharpen to stem late leakage.",
}

var battingRecommendations = []string{
	"Strengthen Powerplay aggression (recruit openers/finishers).",
	"Maintain middle-overs control with spin-seam options.",
	"Optimize death-over matchups using analytics.",
}

var bowlingRecommendations = []string{
	"Prioritise new-ball specialists who swing or seam at pace.",
	"Encourage rapid over-rate and field-rotation drills to keep pressure constant; dot-ball clusters lower economy faster than sporadic wickets.",
	"Make yorker execution measurable: set in-nets targets (>=60% yorker accuracy under simulated crowd noise).",
}

// Insight returns the editorial note for a team, if any.
func Insight(team string, bowling bool) (string, bool) {
	m := battingInsights
	if bowling {
		m = bowlingInsights
	}
	s, ok := m[team]
	return s, ok
}

// Recommendations returns the general advice shown under team views.
func Recommendations(bowling bool) []string {
	if bowling {
		return append([]string(nil), bowlingRecommendations...)
	}
	return append([]string(nil), battingRecommendations...)
}

// ScoutingGroup is one role in the scouting shortlist.
type ScoutingGroup struct {
	Role    string   `json:"role"`
	Players []string `json:"players"`
}

var scouting = []ScoutingGroup{
	{Role: "Openers", Players: []string{"KL Rahul", "Faf du Plessis", "Rishab Pant", "Klaasen"}},
	{Role: "Middle Order", Players: []string{"Ishan Kishan", "Quinton de Kock", "Suryakumar Yadav"}},
	{Role: "Bowlers", Players: []string{"Washington Sundar", "Shivam Dubey", "T Natarajan", "C Sakaria", "Ferguson"}},
}

// Scouting returns the recommended players by role.
func Scouting() []ScoutingGroup {
	out := make([]ScoutingGroup, len(scouting))
	for i, g := range scouting {
		out[i] = ScoutingGroup{Role: g.Role, Players: append([]string(nil), g.Players...)}
	}
	return out
}
