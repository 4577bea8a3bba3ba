// Package permission computes platform-neutral channel overwrite sets for
// ticket channels. The discord adapter translates these into gateway calls.
package permission

import "github.com/zeakmc/gatekeeper/internal/domain"

// Permission is a bitmask over the channel rights the ticket pipeline manages.
type Permission int

const (
	ViewChannel Permission = 1 << iota
	SendMessages
)

// PrincipalKind distinguishes overwrite targets.
type PrincipalKind string

const (
	PrincipalEveryone PrincipalKind = "everyone"
	PrincipalMember   PrincipalKind = "member"
	PrincipalRole     PrincipalKind = "role"
)

// Overwrite grants and denies permissions for a single principal.
type Overwrite struct {
	PrincipalID string
	Kind        PrincipalKind
	Allow       Permission
	Deny        Permission
}

// TicketOverwrites computes the full overwrite set for a ticket channel:
// everyone is denied view, the creator is allowed view (and denied send once
// the ticket is closed), and each configured staff role is allowed view.
func TicketOverwrites(category *domain.CategoryConfig, creatorID string, closed bool) []Overwrite {
	overwrites := []Overwrite{
		{
			Kind: PrincipalEveryone,
			Deny: ViewChannel,
		},
	}

	creator := Overwrite{
		PrincipalID: creatorID,
		Kind:        PrincipalMember,
		Allow:       ViewChannel,
	}
	if closed {
		creator.Deny = SendMessages
	}
	overwrites = append(overwrites, creator)

	for _, roleID := range category.StaffRoles {
		overwrites = append(overwrites, Overwrite{
			PrincipalID: roleID,
			Kind:        PrincipalRole,
			Allow:       ViewChannel,
		})
	}
	return overwrites
}

// ParticipantOverwrite is the targeted edit applied when a user is added to a
// ticket, independent of the bulk set computation.
func ParticipantOverwrite(userID string) Overwrite {
	return Overwrite{
		PrincipalID: userID,
		Kind:        PrincipalMember,
		Allow:       ViewChannel | SendMessages,
	}
}
