package service

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/zeakmc/gatekeeper/internal/domain"
	"github.com/zeakmc/gatekeeper/internal/events"
	"github.com/zeakmc/gatekeeper/internal/permission"
	"github.com/zeakmc/gatekeeper/internal/platform"
	"github.com/zeakmc/gatekeeper/internal/repository"
)

type fakeAppRepo struct {
	apps map[string]*domain.Application
}

func newFakeAppRepo() *fakeAppRepo {
	return &fakeAppRepo{apps: make(map[string]*domain.Application)}
}

func (f *fakeAppRepo) Create(ctx context.Context, app *domain.Application) error {
	if app.CreatedAt.IsZero() {
		app.CreatedAt = time.Now()
	}
	stored := *app
	f.apps[app.ID] = &stored
	return nil
}

func (f *fakeAppRepo) GetByID(ctx context.Context, id string) (*domain.Application, error) {
	app, ok := f.apps[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *app
	return &copied, nil
}

func (f *fakeAppRepo) GetByIGN(ctx context.Context, ign string) (*domain.Application, error) {
	var latest *domain.Application
	for _, app := range f.apps {
		if app.IGN != ign {
			continue
		}
		if latest == nil || app.CreatedAt.After(latest.CreatedAt) {
			latest = app
		}
	}
	if latest == nil {
		return nil, pgx.ErrNoRows
	}
	copied := *latest
	return &copied, nil
}

func (f *fakeAppRepo) FindActive(ctx context.Context, requesterID, ign string) (*domain.Application, error) {
	for _, app := range f.apps {
		if (app.RequesterID == requesterID || app.IGN == ign) && app.Status.Active() {
			copied := *app
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeAppRepo) SetDecision(ctx context.Context, id string, status domain.ApplicationStatus, staffID string, decidedAt time.Time) error {
	app, ok := f.apps[id]
	if !ok {
		return pgx.ErrNoRows
	}
	app.Status = status
	app.DecidedBy = &staffID
	app.DecidedAt = &decidedAt
	return nil
}

func (f *fakeAppRepo) DeleteByIGN(ctx context.Context, ign string) error {
	deleted := false
	for id, app := range f.apps {
		if app.IGN == ign {
			delete(f.apps, id)
			deleted = true
		}
	}
	if !deleted {
		return pgx.ErrNoRows
	}
	return nil
}

type fakeTicketRepo struct {
	tickets map[string]*domain.Ticket
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: make(map[string]*domain.Ticket)}
}

func (f *fakeTicketRepo) Create(ctx context.Context, ticket *domain.Ticket) error {
	if ticket.CreatedAt.IsZero() {
		ticket.CreatedAt = time.Now()
	}
	stored := *ticket
	stored.Participants = append([]string(nil), ticket.Participants...)
	f.tickets[ticket.ID] = &stored
	return nil
}

func (f *fakeTicketRepo) Update(ctx context.Context, ticket *domain.Ticket) error {
	if _, ok := f.tickets[ticket.ID]; !ok {
		return pgx.ErrNoRows
	}
	stored := *ticket
	stored.Participants = append([]string(nil), ticket.Participants...)
	f.tickets[ticket.ID] = &stored
	return nil
}

func (f *fakeTicketRepo) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	ticket, ok := f.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *ticket
	copied.Participants = append([]string(nil), ticket.Participants...)
	return &copied, nil
}

func (f *fakeTicketRepo) GetByChannel(ctx context.Context, channelID string) (*domain.Ticket, error) {
	for _, ticket := range f.tickets {
		if ticket.ChannelID == channelID {
			copied := *ticket
			copied.Participants = append([]string(nil), ticket.Participants...)
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeTicketRepo) AddParticipant(ctx context.Context, id, userID string) error {
	ticket, ok := f.tickets[id]
	if !ok {
		return pgx.ErrNoRows
	}
	if !ticket.HasParticipant(userID) {
		ticket.Participants = append(ticket.Participants, userID)
	}
	return nil
}

func (f *fakeTicketRepo) ListOpenByGuild(ctx context.Context, guildID string) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for _, ticket := range f.tickets {
		if ticket.GuildID == guildID && ticket.Status != domain.TicketStatusClosed {
			result = append(result, *ticket)
		}
	}
	return result, nil
}

type fakeGuildRepo struct {
	configs map[string]*domain.GuildConfig
}

func newFakeGuildRepo() *fakeGuildRepo {
	return &fakeGuildRepo{configs: make(map[string]*domain.GuildConfig)}
}

func (f *fakeGuildRepo) Ensure(ctx context.Context, guildID string) (*domain.GuildConfig, error) {
	if cfg, ok := f.configs[guildID]; ok {
		copied := *cfg
		return &copied, nil
	}
	cfg := &domain.GuildConfig{GuildID: guildID}
	f.configs[guildID] = cfg
	copied := *cfg
	return &copied, nil
}

func (f *fakeGuildRepo) Get(ctx context.Context, guildID string) (*domain.GuildConfig, error) {
	cfg, ok := f.configs[guildID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *cfg
	return &copied, nil
}

func (f *fakeGuildRepo) UpdateSettings(ctx context.Context, cfg *domain.GuildConfig) error {
	if _, ok := f.configs[cfg.GuildID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *cfg
	f.configs[cfg.GuildID] = &copied
	return nil
}

func (f *fakeGuildRepo) NextTicketNumber(ctx context.Context, guildID string) (int, error) {
	cfg, ok := f.configs[guildID]
	if !ok {
		return 0, pgx.ErrNoRows
	}
	cfg.TicketCounter++
	return cfg.TicketCounter, nil
}

func (f *fakeGuildRepo) BlacklistAdd(ctx context.Context, guildID, userID string) error {
	cfg, ok := f.configs[guildID]
	if !ok {
		return pgx.ErrNoRows
	}
	if !cfg.IsBlacklisted(userID) {
		cfg.Blacklist = append(cfg.Blacklist, userID)
	}
	return nil
}

func (f *fakeGuildRepo) BlacklistRemove(ctx context.Context, guildID, userID string) error {
	cfg, ok := f.configs[guildID]
	if !ok {
		return pgx.ErrNoRows
	}
	kept := cfg.Blacklist[:0]
	for _, id := range cfg.Blacklist {
		if id != userID {
			kept = append(kept, id)
		}
	}
	cfg.Blacklist = kept
	return nil
}

type fakeStatsRepo struct {
	stats map[string]*domain.UserStats
}

func newFakeStatsRepo() *fakeStatsRepo {
	return &fakeStatsRepo{stats: make(map[string]*domain.UserStats)}
}

func statsKey(guildID, userID string) string { return guildID + "|" + userID }

func (f *fakeStatsRepo) Get(ctx context.Context, guildID, userID string) (*domain.UserStats, error) {
	stats, ok := f.stats[statsKey(guildID, userID)]
	if !ok {
		return nil, nil
	}
	copied := *stats
	return &copied, nil
}

func (f *fakeStatsRepo) TouchTicketCreated(ctx context.Context, guildID, userID string, at time.Time) error {
	key := statsKey(guildID, userID)
	stats, ok := f.stats[key]
	if !ok {
		stats = &domain.UserStats{GuildID: guildID, UserID: userID}
		f.stats[key] = stats
	}
	stats.TicketsCreated++
	stamp := at
	stats.LastTicketAt = &stamp
	return nil
}

type fakeCategoryRepo struct {
	categories map[string]*domain.CategoryConfig
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{categories: make(map[string]*domain.CategoryConfig)}
}

func (f *fakeCategoryRepo) Create(ctx context.Context, category *domain.CategoryConfig) error {
	stored := *category
	f.categories[category.ID] = &stored
	return nil
}

func (f *fakeCategoryRepo) Update(ctx context.Context, category *domain.CategoryConfig) error {
	if _, ok := f.categories[category.ID]; !ok {
		return pgx.ErrNoRows
	}
	stored := *category
	f.categories[category.ID] = &stored
	return nil
}

func (f *fakeCategoryRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.categories[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.categories, id)
	return nil
}

func (f *fakeCategoryRepo) GetByID(ctx context.Context, id string) (*domain.CategoryConfig, error) {
	category, ok := f.categories[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *category
	return &copied, nil
}

func (f *fakeCategoryRepo) ListByGuild(ctx context.Context, guildID string) ([]domain.CategoryConfig, error) {
	var result []domain.CategoryConfig
	for _, category := range f.categories {
		if category.GuildID == guildID {
			result = append(result, *category)
		}
	}
	return result, nil
}

type fakeFeedbackRepo struct {
	records   []domain.Feedback
	createErr error
}

func (f *fakeFeedbackRepo) Create(ctx context.Context, feedback *domain.Feedback) error {
	if f.createErr != nil {
		return f.createErr
	}
	if feedback.SubmittedAt.IsZero() {
		feedback.SubmittedAt = time.Now()
	}
	f.records = append(f.records, *feedback)
	return nil
}

func (f *fakeFeedbackRepo) ListRecent(ctx context.Context, guildID string, limit int) ([]domain.Feedback, error) {
	var result []domain.Feedback
	for i := len(f.records) - 1; i >= 0 && len(result) < limit; i-- {
		if f.records[i].GuildID == guildID {
			result = append(result, f.records[i])
		}
	}
	return result, nil
}

func (f *fakeFeedbackRepo) Stats(ctx context.Context, guildID string, filter repository.FeedbackFilter) (*repository.FeedbackStats, error) {
	stats := &repository.FeedbackStats{Distribution: make(map[int]int64)}
	var weighted int64
	for _, record := range f.records {
		if record.GuildID != guildID {
			continue
		}
		if filter.StaffID != nil && (record.StaffID == nil || *record.StaffID != *filter.StaffID) {
			continue
		}
		if filter.Category != nil && record.Category != *filter.Category {
			continue
		}
		stats.Count++
		stats.Distribution[record.Rating]++
		weighted += int64(record.Rating)
	}
	if stats.Count > 0 {
		stats.AverageRating = float64(weighted) / float64(stats.Count)
	}
	return stats, nil
}

type fakeAuditRepo struct {
	actions []domain.StaffAction
}

func (f *fakeAuditRepo) Create(ctx context.Context, action *domain.StaffAction) error {
	if action.CreatedAt.IsZero() {
		action.CreatedAt = time.Now()
	}
	f.actions = append(f.actions, *action)
	return nil
}

func (f *fakeAuditRepo) ListByRef(ctx context.Context, guildID, refID string) ([]domain.StaffAction, error) {
	var result []domain.StaffAction
	for _, action := range f.actions {
		if action.GuildID == guildID && action.RefID == refID {
			result = append(result, action)
		}
	}
	return result, nil
}

// effectCall records a single invocation on the fake effector.
type effectCall struct {
	name string
	args []string
}

type fakeEffector struct {
	mu            sync.Mutex
	calls         []effectCall
	nextChannelID string
	channelErr    error
	messageErr    error
	introErr      error
}

func newFakeEffector() *fakeEffector {
	return &fakeEffector{nextChannelID: "chan-1"}
}

func (f *fakeEffector) record(name string, args ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, effectCall{name: name, args: args})
}

func (f *fakeEffector) callCount(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, call := range f.calls {
		if call.name == name {
			count++
		}
	}
	return count
}

func (f *fakeEffector) CreateTicketChannel(ctx context.Context, guildID string, spec platform.ChannelSpec) (string, error) {
	if f.channelErr != nil {
		return "", f.channelErr
	}
	f.record("CreateTicketChannel", guildID, spec.Name)
	return f.nextChannelID, nil
}

func (f *fakeEffector) ApplyOverwrites(ctx context.Context, guildID, channelID string, overwrites []permission.Overwrite) error {
	f.record("ApplyOverwrites", guildID, channelID)
	return nil
}

func (f *fakeEffector) EditParticipantOverwrite(ctx context.Context, channelID string, overwrite permission.Overwrite) error {
	f.record("EditParticipantOverwrite", channelID, overwrite.PrincipalID)
	return nil
}

func (f *fakeEffector) SendChannelMessage(ctx context.Context, channelID, content string) error {
	if f.messageErr != nil {
		return f.messageErr
	}
	f.record("SendChannelMessage", channelID, content)
	return nil
}

func (f *fakeEffector) SendDirectMessage(ctx context.Context, userID, content string) error {
	f.record("SendDirectMessage", userID, content)
	return nil
}

func (f *fakeEffector) GrantRole(ctx context.Context, guildID, userID, roleID string) error {
	f.record("GrantRole", guildID, userID, roleID)
	return nil
}

func (f *fakeEffector) RevokeRole(ctx context.Context, guildID, userID, roleID string) error {
	f.record("RevokeRole", guildID, userID, roleID)
	return nil
}

func (f *fakeEffector) SendApplicationReview(ctx context.Context, channelID string, app *domain.Application) error {
	f.record("SendApplicationReview", channelID, app.ID)
	return nil
}

func (f *fakeEffector) SendTicketIntro(ctx context.Context, channelID string, ticket *domain.Ticket, greeting string) error {
	if f.introErr != nil {
		return f.introErr
	}
	f.record("SendTicketIntro", channelID, ticket.ID)
	return nil
}

func (f *fakeEffector) SendFeedbackPrompt(ctx context.Context, userID, ticketID string) error {
	f.record("SendFeedbackPrompt", userID, ticketID)
	return nil
}

type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *recordingDispatcher) Publish(ctx context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(eventType events.EventType, handler events.EventHandler) {}

func (d *recordingDispatcher) published(eventType events.EventType) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	count := 0
	for _, event := range d.events {
		if event.Type == eventType {
			count++
		}
	}
	return count
}

func testLogger() *zap.Logger { return zap.NewNop() }
