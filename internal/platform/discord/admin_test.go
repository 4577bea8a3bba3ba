package discord

import (
	"testing"

	"github.com/bwmarrin/discordgo"

	"github.com/zeakmc/gatekeeper/internal/domain"
)

func panelCategories(n int) []domain.CategoryConfig {
	categories := make([]domain.CategoryConfig, 0, n)
	for i := 0; i < n; i++ {
		categories = append(categories, domain.CategoryConfig{
			ID:      "cat-" + string(rune('a'+i)),
			Name:    "Support",
			Enabled: true,
		})
	}
	return categories
}

func TestCategoryButtonRows(t *testing.T) {
	categories := panelCategories(2)
	categories[0].ButtonEmoji = "🎫"
	categories = append(categories, domain.CategoryConfig{ID: "off", Name: "Disabled", Enabled: false})

	rows := categoryButtonRows(categories)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	row := rows[0].(discordgo.ActionsRow)
	if len(row.Components) != 2 {
		t.Fatalf("disabled category must be skipped, got %d buttons", len(row.Components))
	}

	first := row.Components[0].(discordgo.Button)
	if first.Emoji == nil || first.Emoji.Name != "🎫" {
		t.Fatalf("expected emoji on first button, got %+v", first.Emoji)
	}
	if first.CustomID != openTicketID("cat-a") {
		t.Fatalf("unexpected custom id %q", first.CustomID)
	}
	second := row.Components[1].(discordgo.Button)
	if second.Emoji != nil {
		t.Fatalf("expected no emoji on second button, got %+v", second.Emoji)
	}
}

func TestCategoryButtonRowsChunksAtFive(t *testing.T) {
	rows := categoryButtonRows(panelCategories(7))
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if n := len(rows[0].(discordgo.ActionsRow).Components); n != 5 {
		t.Fatalf("expected 5 buttons in first row, got %d", n)
	}
	if n := len(rows[1].(discordgo.ActionsRow).Components); n != 2 {
		t.Fatalf("expected 2 buttons in second row, got %d", n)
	}
}

func TestOptSnowflakeIgnoresUnexpectedPayload(t *testing.T) {
	opts := map[string]*discordgo.ApplicationCommandInteractionDataOption{
		"channel": {Name: "channel", Value: 42.0},
	}
	if got := optChannel(opts, "channel"); got != "" {
		t.Fatalf("expected empty id for non-string payload, got %q", got)
	}
	if got := optRole(opts, "missing"); got != "" {
		t.Fatalf("expected empty id for absent option, got %q", got)
	}

	opts["user"] = &discordgo.ApplicationCommandInteractionDataOption{Name: "user", Value: "123456789012345678"}
	if got := optUser(opts, "user"); got != "123456789012345678" {
		t.Fatalf("unexpected id %q", got)
	}
}
