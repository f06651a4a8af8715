package view

// BadgePlaceholder is shown for teams without a badge.
const BadgePlaceholder = "Logo not found for selected team."

// Badge is a team's terminal crest: a short code drawn in the team colors.
type Badge struct {
	Team       string `json:"team"`
	Code       string `json:"code,omitempty"`
	Foreground string `json:"foreground,omitempty"`
	Background string `json:"background,omitempty"`
}

// Missing reports whether no badge is known for the team.
func (b Badge) Missing() bool { return b.Code == "" }

var badges = map[string]Badge{
	"CSK":                     {Code: "CSK", Foreground: "#1E3A8A", Background: "#FDB913"},
	"DC":                      {Code: "DC", Foreground: "#FFFFFF", Background: "#17479E"},
	"DD":                      {Code: "DD", Foreground: "#FFFFFF", Background: "#00008B"},
	"GL":                      {Code: "GL", Foreground: "#FFFFFF", Background: "#E04F16"},
	"GT":                      {Code: "GT", Foreground: "#DBBE6E", Background: "#1B2133"},
	"KKR":                     {Code: "KKR", Foreground: "#F2C12E", Background: "#3A225D"},
	"PBKS":                    {Code: "PBKS", Foreground: "#FFFFFF", Background: "#DD1F2D"},
	"RR":                      {Code: "RR", Foreground: "#FFFFFF", Background: "#EA1A85"},
	"Kochi Tuskers Kerala":    {Code: "KTK", Foreground: "#FFFFFF", Background: "#5C2D91"},
	"Pune Warriors":           {Code: "PWI", Foreground: "#FFFFFF", Background: "#2F9BE3"},
	"Rising Pune Supergiants": {Code: "RPS", Foreground: "#FFFFFF", Background: "#D11D9B"},
	"LSG":                     {Code: "LSG", Foreground: "#FFFFFF", Background: "#0057E2"},
	"MI":                      {Code: "MI", Foreground: "#D1AB3E", Background: "#004BA0"},
	"RCB":                     {Code: "RCB", Foreground: "#FFFFFF", Background: "#D11D27"},
	"SRH":                     {Code: "SRH", Foreground: "#000000", Background: "#FF822A"},
}

// LookupBadge returns the badge for team; Missing reports a miss.
func LookupBadge(team string) Badge {
	b := badges[team]
	b.Team = team
	return b
}
