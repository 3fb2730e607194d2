package sleeper

import "github.com/okian/allplay/internal/domain/model"

// Identity converts the roster and user feeds into the domain lookup.
func Identity(rosters []Roster, users []User) *model.Identity {
	rs := make([]model.RosterRecord, 0, len(rosters))
	for _, r := range rosters {
		rs = append(rs, model.RosterRecord{
			RosterID: r.RosterID,
			OwnerID:  r.OwnerID,
			TeamName: r.Metadata.TeamName,
		})
	}
	owners := make([]model.OwnerRecord, 0, len(users))
	for _, u := range users {
		owners = append(owners, model.OwnerRecord{
			OwnerID:     u.UserID,
			DisplayName: u.DisplayName,
			Avatar:      u.Avatar,
			TeamName:    u.Metadata.TeamName,
			Nickname:    u.Metadata.TeamNickname,
			FirstName:   u.Metadata.FirstName,
			LastName:    u.Metadata.LastName,
		})
	}
	return model.NewIdentity(rs, owners)
}
