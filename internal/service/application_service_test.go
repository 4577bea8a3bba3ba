package service

import (
	"context"
	"testing"

	"github.com/zeakmc/gatekeeper/internal/config"
	"github.com/zeakmc/gatekeeper/internal/domain"
	"github.com/zeakmc/gatekeeper/internal/events"
	"github.com/zeakmc/gatekeeper/internal/platform"
	util "github.com/zeakmc/gatekeeper/pkg/util"
)

func testDiscordConfig() config.DiscordConfig {
	return config.DiscordConfig{
		GuildID:              "g1",
		FormsChannelID:       "forms",
		ResultsChannelID:     "results",
		ConsoleChannelID:     "console",
		StaffRoleID:          "staff-role",
		WhitelistedRoleID:    "wl-role",
		ConsoleCommandPrefix: "!cmd ",
		WhitelistAddCommand:  "whitelist add {ign}",
		WhitelistRemoveCmd:   "whitelist remove {ign}",
	}
}

func newTestApplicationService() (*ApplicationService, *fakeAppRepo, *fakeEffector, *recordingDispatcher) {
	repo := newFakeAppRepo()
	effector := newFakeEffector()
	dispatcher := &recordingDispatcher{}
	svc := NewApplicationService(ApplicationDependencies{
		AppRepo:    repo,
		Dispatcher: dispatcher,
		Effector:   effector,
		Discord:    testDiscordConfig(),
		Logger:     testLogger(),
	})
	return svc, repo, effector, dispatcher
}

func TestSubmitCreatesPendingApplication(t *testing.T) {
	svc, _, effector, dispatcher := newTestApplicationService()

	app, err := svc.Submit(context.Background(), platform.SubmitApplication{
		RequesterID:  "u1",
		RequesterTag: "u1#0001",
		IGN:          "Steve",
		Platform:     "Java",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if app.Status != domain.ApplicationStatusPending {
		t.Fatalf("expected Pending, got %s", app.Status)
	}
	if app.Platform != "Java" {
		t.Fatalf("expected platform carried through, got %q", app.Platform)
	}
	if effector.callCount("SendApplicationReview") != 1 {
		t.Fatal("expected one review prompt")
	}
	if dispatcher.published(events.EventApplicationSubmitted) != 1 {
		t.Fatal("expected submitted event")
	}
}

func TestSubmitRejectsDuplicateActive(t *testing.T) {
	svc, _, _, _ := newTestApplicationService()

	if _, err := svc.Submit(context.Background(), platform.SubmitApplication{RequesterID: "u1", IGN: "Steve"}); err != nil {
		t.Fatalf("first submit: %v", err)
	}

	// Same requester, different name.
	_, err := svc.Submit(context.Background(), platform.SubmitApplication{RequesterID: "u1", IGN: "Alex"})
	if !util.IsCode(err, util.CodeDuplicateActive) {
		t.Fatalf("expected DUPLICATE_ACTIVE for requester, got %v", err)
	}

	// Different requester, same name.
	_, err = svc.Submit(context.Background(), platform.SubmitApplication{RequesterID: "u2", IGN: "Steve"})
	if !util.IsCode(err, util.CodeDuplicateActive) {
		t.Fatalf("expected DUPLICATE_ACTIVE for IGN, got %v", err)
	}
}

func TestSubmitRequiresIGN(t *testing.T) {
	svc, _, _, _ := newTestApplicationService()

	_, err := svc.Submit(context.Background(), platform.SubmitApplication{RequesterID: "u1", IGN: "   "})
	if !util.IsCode(err, util.CodeValidationFailed) {
		t.Fatalf("expected VALIDATION_FAILED, got %v", err)
	}
}

func TestDecideAcceptRunsProvisioning(t *testing.T) {
	svc, _, effector, dispatcher := newTestApplicationService()

	app, err := svc.Submit(context.Background(), platform.SubmitApplication{RequesterID: "u1", IGN: "Steve"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	decided, err := svc.Decide(context.Background(), platform.DecideApplication{
		ApplicationID: app.ID,
		StaffID:       "s1",
		Outcome:       platform.OutcomeAccept,
	})
	if err != nil {
		t.Fatalf("decide: %v", err)
	}
	if decided.Status != domain.ApplicationStatusAccepted {
		t.Fatalf("expected Accepted, got %s", decided.Status)
	}
	if decided.DecidedBy == nil || *decided.DecidedBy != "s1" {
		t.Fatalf("expected decided_by s1, got %v", decided.DecidedBy)
	}

	// Console command, role grant and announcement all fire on accept.
	if effector.callCount("SendChannelMessage") != 2 {
		t.Fatalf("expected console command and announcement, got %d messages", effector.callCount("SendChannelMessage"))
	}
	if effector.callCount("GrantRole") != 1 {
		t.Fatal("expected role grant")
	}
	if dispatcher.published(events.EventApplicationDecided) != 1 {
		t.Fatal("expected decided event")
	}
}

func TestDecideRejectSkipsProvisioning(t *testing.T) {
	svc, _, effector, _ := newTestApplicationService()

	app, _ := svc.Submit(context.Background(), platform.SubmitApplication{RequesterID: "u1", IGN: "Steve"})

	decided, err := svc.Decide(context.Background(), platform.DecideApplication{
		ApplicationID: app.ID,
		StaffID:       "s1",
		Outcome:       platform.OutcomeReject,
	})
	if err != nil {
		t.Fatalf("decide: %v", err)
	}
	if decided.Status != domain.ApplicationStatusRejected {
		t.Fatalf("expected Rejected, got %s", decided.Status)
	}
	if effector.callCount("GrantRole") != 0 {
		t.Fatal("reject must not grant the role")
	}
	// Only the rejection announcement.
	if effector.callCount("SendChannelMessage") != 1 {
		t.Fatalf("expected one message, got %d", effector.callCount("SendChannelMessage"))
	}
}

func TestDecideTwiceIsHardError(t *testing.T) {
	svc, _, effector, _ := newTestApplicationService()

	app, _ := svc.Submit(context.Background(), platform.SubmitApplication{RequesterID: "u1", IGN: "Steve"})
	if _, err := svc.Decide(context.Background(), platform.DecideApplication{ApplicationID: app.ID, StaffID: "s1", Outcome: platform.OutcomeAccept}); err != nil {
		t.Fatalf("first decide: %v", err)
	}
	grants := effector.callCount("GrantRole")

	_, err := svc.Decide(context.Background(), platform.DecideApplication{ApplicationID: app.ID, StaffID: "s2", Outcome: platform.OutcomeReject})
	if !util.IsCode(err, util.CodeAlreadyDecided) {
		t.Fatalf("expected ALREADY_DECIDED, got %v", err)
	}
	if effector.callCount("GrantRole") != grants {
		t.Fatal("re-decide must not re-run side effects")
	}
}

func TestDecideUnknownApplication(t *testing.T) {
	svc, _, _, _ := newTestApplicationService()

	_, err := svc.Decide(context.Background(), platform.DecideApplication{ApplicationID: "missing", StaffID: "s1", Outcome: platform.OutcomeAccept})
	if !util.IsCode(err, util.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestResubmitAfterRejection(t *testing.T) {
	svc, _, _, _ := newTestApplicationService()

	app, _ := svc.Submit(context.Background(), platform.SubmitApplication{RequesterID: "u1", IGN: "Steve"})
	if _, err := svc.Decide(context.Background(), platform.DecideApplication{ApplicationID: app.ID, StaffID: "s1", Outcome: platform.OutcomeReject}); err != nil {
		t.Fatalf("decide: %v", err)
	}

	// A rejected application is terminal and no longer blocks a new one.
	if _, err := svc.Submit(context.Background(), platform.SubmitApplication{RequesterID: "u1", IGN: "Steve"}); err != nil {
		t.Fatalf("resubmit after rejection: %v", err)
	}
}

func TestRemoveDeletesAndSignals(t *testing.T) {
	svc, repo, effector, dispatcher := newTestApplicationService()

	app, _ := svc.Submit(context.Background(), platform.SubmitApplication{RequesterID: "u1", IGN: "Steve"})
	if _, err := svc.Decide(context.Background(), platform.DecideApplication{ApplicationID: app.ID, StaffID: "s1", Outcome: platform.OutcomeAccept}); err != nil {
		t.Fatalf("decide: %v", err)
	}
	messagesBefore := effector.callCount("SendChannelMessage")

	removed, err := svc.Remove(context.Background(), platform.RemoveFromWhitelist{GuildID: "g1", StaffID: "s1", IGN: "Steve"})
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if removed.IGN != "Steve" {
		t.Fatalf("unexpected record: %+v", removed)
	}
	if len(repo.apps) != 0 {
		t.Fatalf("expected record deleted, %d remain", len(repo.apps))
	}
	if effector.callCount("SendChannelMessage") != messagesBefore+1 {
		t.Fatal("expected console removal command")
	}
	if effector.callCount("RevokeRole") != 1 {
		t.Fatal("expected role revoke")
	}
	if dispatcher.published(events.EventWhitelistRemoved) != 1 {
		t.Fatal("expected removal event")
	}
}

func TestRemoveUnknownIGN(t *testing.T) {
	svc, _, _, _ := newTestApplicationService()

	_, err := svc.Remove(context.Background(), platform.RemoveFromWhitelist{GuildID: "g1", StaffID: "s1", IGN: "Nobody"})
	if !util.IsCode(err, util.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}
