package discord

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	util "github.com/zeakmc/gatekeeper/pkg/util"
)

// actorID returns the user id behind an interaction, whether it arrived from a
// guild (Member) or a direct message (User).
func actorID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

func actorUsername(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.Username
	}
	if i.User != nil {
		return i.User.Username
	}
	return ""
}

func actorTag(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.String()
	}
	if i.User != nil {
		return i.User.String()
	}
	return ""
}

// isStaff reports whether the interaction member carries the staff role or the
// Manage Server permission.
func isStaff(i *discordgo.InteractionCreate, staffRoleID string) bool {
	if i.Member == nil {
		return false
	}
	if hasRole(i.Member.Roles, staffRoleID) {
		return true
	}
	return i.Member.Permissions&discordgo.PermissionManageServer != 0
}

func hasRole(roles []string, roleID string) bool {
	if roleID == "" {
		return false
	}
	for _, r := range roles {
		if r == roleID {
			return true
		}
	}
	return false
}

// modalValue extracts the text input value from the given row of a modal
// submission. Missing rows yield an empty string rather than a panic.
func modalValue(data discordgo.ModalSubmitInteractionData, row int) string {
	if row >= len(data.Components) {
		return ""
	}
	actionsRow, ok := data.Components[row].(*discordgo.ActionsRow)
	if !ok || len(actionsRow.Components) == 0 {
		return ""
	}
	input, ok := actionsRow.Components[0].(*discordgo.TextInput)
	if !ok {
		return ""
	}
	return input.Value
}

// userMessage maps an error to the text shown to the member who triggered the
// command. Internal failures are kept vague on purpose.
func userMessage(err error) string {
	de := util.ToDomainError(err)
	switch de.Code {
	case util.CodeRateLimited:
		if remaining, ok := util.RemainingCooldown(err); ok {
			return "You are creating tickets too quickly. Please wait " + formatDuration(remaining) + "."
		}
		return "You are creating tickets too quickly. Please try again later."
	case util.CodePersistenceFailure, util.CodeEffectFailure:
		return "Something went wrong on our side. Please try again later."
	default:
		return de.Message
	}
}

// formatDuration renders a duration as a compact human string, e.g. "1h 5m" or
// "45s". Sub-second remainders round up so a cooldown never reads as zero.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		d = time.Second
	}
	d = d.Round(time.Second)

	var parts []string
	if h := d / time.Hour; h > 0 {
		parts = append(parts, fmt.Sprintf("%dh", h))
		d -= h * time.Hour
	}
	if m := d / time.Minute; m > 0 {
		parts = append(parts, fmt.Sprintf("%dm", m))
		d -= m * time.Minute
	}
	if s := d / time.Second; s > 0 || len(parts) == 0 {
		parts = append(parts, fmt.Sprintf("%ds", s))
	}
	return strings.Join(parts, " ")
}
