package model

import (
	"strconv"
	"strings"
)

// AvatarBaseURL prefixes owner avatar ids.
const AvatarBaseURL = "https://sleepercdn.com/avatars/"

// RosterRecord is the roster half of the identity feed.
type RosterRecord struct {
	RosterID int
	OwnerID  string
	TeamName string // roster metadata team_name, may be empty
}

// OwnerRecord is the owner half of the identity feed.
type OwnerRecord struct {
	OwnerID     string
	DisplayName string
	Avatar      string
	TeamName    string // metadata team_name
	Nickname    string // metadata team_nickname
	FirstName   string
	LastName    string
}

// Display carries the identity fields rendered next to a roster.
type Display struct {
	TeamName    string  `json:"custom_team_name"`
	ManagerName *string `json:"manager_name"`
	AvatarURL   *string `json:"avatar_url"`
}

// Identity resolves roster ids to display fields. A nil *Identity is valid
// and resolves every roster to its fallback label.
type Identity struct {
	rosters map[int]RosterRecord
	owners  map[string]OwnerRecord
}

// NewIdentity indexes the roster and owner feeds. Later records win on
// duplicate keys.
func NewIdentity(rosters []RosterRecord, owners []OwnerRecord) *Identity {
	id := &Identity{
		rosters: make(map[int]RosterRecord, len(rosters)),
		owners:  make(map[string]OwnerRecord, len(owners)),
	}
	for _, r := range rosters {
		id.rosters[r.RosterID] = r
	}
	for _, o := range owners {
		if o.OwnerID == "" {
			continue
		}
		id.owners[o.OwnerID] = o
	}
	return id
}

// Owner returns the owner record for rosterID, if both lookups resolve.
func (id *Identity) Owner(rosterID int) (OwnerRecord, bool) {
	if id == nil {
		return OwnerRecord{}, false
	}
	r, ok := id.rosters[rosterID]
	if !ok || r.OwnerID == "" {
		return OwnerRecord{}, false
	}
	o, ok := id.owners[r.OwnerID]
	return o, ok
}

// Resolve never fails: missing rosters or owners degrade to fallbacks.
func (id *Identity) Resolve(rosterID int) Display {
	var roster RosterRecord
	if id != nil {
		roster = id.rosters[rosterID]
	}
	owner, _ := id.Owner(rosterID)

	d := Display{
		TeamName: firstNonEmpty(roster.TeamName, owner.TeamName, owner.DisplayName),
	}
	if d.TeamName == "" {
		d.TeamName = FallbackTeamName(rosterID)
	}

	fullName := strings.TrimSpace(owner.FirstName + " " + owner.LastName)
	if m := firstNonEmpty(owner.Nickname, fullName, owner.DisplayName); m != "" {
		d.ManagerName = &m
	}
	if a := strings.TrimSpace(owner.Avatar); a != "" {
		u := AvatarBaseURL + a
		d.AvatarURL = &u
	}
	return d
}

// FallbackTeamName is the label used when no team name resolves.
func FallbackTeamName(rosterID int) string {
	return "Roster " + strconv.Itoa(rosterID)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
