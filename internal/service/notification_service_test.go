package service

import (
	"context"
	"testing"

	"github.com/zeakmc/gatekeeper/internal/config"
	"github.com/zeakmc/gatekeeper/internal/events"
	"github.com/zeakmc/gatekeeper/internal/platform"
)

func newNotificationFixture(t *testing.T, dmOnCreate, dmOnClose bool) (*NotificationService, *fakeEffector, events.Dispatcher) {
	t.Helper()
	guilds := newFakeGuildRepo()
	cfg, err := guilds.Ensure(context.Background(), "g1")
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	cfg.DMOnCreate = dmOnCreate
	cfg.DMOnClose = dmOnClose
	if err := guilds.UpdateSettings(context.Background(), cfg); err != nil {
		t.Fatalf("update: %v", err)
	}

	effector := newFakeEffector()
	dispatcher := events.NewInMemoryDispatcher()
	svc := NewNotificationService(dispatcher, guilds, effector, config.DiscordConfig{WelcomeChannelID: "welcome"}, testLogger())
	svc.RegisterHandlers()
	return svc, effector, dispatcher
}

func TestTicketCreatedDMGated(t *testing.T) {
	_, effector, dispatcher := newNotificationFixture(t, false, false)

	_ = dispatcher.Publish(context.Background(), events.Event{
		Type:    events.EventTicketCreated,
		GuildID: "g1",
		RefID:   "11111111-aaaa",
		Payload: events.TicketCreatedPayload{CreatorID: "u1", ChannelID: "c1"},
	})
	if effector.callCount("SendDirectMessage") != 0 {
		t.Fatal("DM must not send with the toggle off")
	}
}

func TestTicketCreatedDMEnabled(t *testing.T) {
	_, effector, dispatcher := newNotificationFixture(t, true, false)

	_ = dispatcher.Publish(context.Background(), events.Event{
		Type:    events.EventTicketCreated,
		GuildID: "g1",
		RefID:   "11111111-aaaa",
		Payload: events.TicketCreatedPayload{CreatorID: "u1", ChannelID: "c1"},
	})
	if effector.callCount("SendDirectMessage") != 1 {
		t.Fatal("expected creation DM")
	}
}

func TestTicketClosedDMEnabled(t *testing.T) {
	_, effector, dispatcher := newNotificationFixture(t, false, true)

	_ = dispatcher.Publish(context.Background(), events.Event{
		Type:    events.EventTicketClosed,
		GuildID: "g1",
		RefID:   "11111111-aaaa",
		Payload: events.TicketClosedPayload{CreatorID: "u1", ChannelID: "c1"},
	})
	if effector.callCount("SendDirectMessage") != 1 {
		t.Fatal("expected close DM")
	}
}

func TestWelcomeMessage(t *testing.T) {
	svc, effector, _ := newNotificationFixture(t, false, false)

	svc.Welcome(context.Background(), platform.MemberJoined{GuildID: "g1", UserID: "u1", Username: "steve"})
	if effector.callCount("SendChannelMessage") != 1 {
		t.Fatal("expected welcome message")
	}
}
