package domain

import "time"

// ButtonColor enumerates the presentation styles for a category button.
type ButtonColor string

const (
	ButtonColorPrimary   ButtonColor = "primary"
	ButtonColorSecondary ButtonColor = "secondary"
	ButtonColorSuccess   ButtonColor = "success"
	ButtonColorDanger    ButtonColor = "danger"
)

// MaxStaffRoles bounds how many staff roles a category may carry.
const MaxStaffRoles = 3

// CategoryConfig is a configured ticket type. Read-only to the ticket
// pipeline; mutated only by staff administration commands.
type CategoryConfig struct {
	ID              string
	GuildID         string
	Name            string
	Description     string
	ParentChannelID string
	StaffRoles      []string
	Enabled         bool
	ButtonColor     ButtonColor
	ButtonEmoji     string
	NamingTemplate  string
	AutoGreeting    string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
