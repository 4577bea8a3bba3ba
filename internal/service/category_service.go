package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/zeakmc/gatekeeper/internal/domain"
	"github.com/zeakmc/gatekeeper/internal/repository"
	util "github.com/zeakmc/gatekeeper/pkg/util"
)

// CategoryService manages ticket categories. Staff-only administration;
// read-only to the ticket pipeline.
type CategoryService struct {
	categories repository.CategoryRepository
}

// NewCategoryService constructs the service.
func NewCategoryService(categories repository.CategoryRepository) *CategoryService {
	return &CategoryService{categories: categories}
}

// CategoryInput describes a category creation or edit payload.
type CategoryInput struct {
	Name            string
	Description     string
	ParentChannelID string
	StaffRoles      []string
	ButtonColor     domain.ButtonColor
	ButtonEmoji     string
	NamingTemplate  string
	AutoGreeting    string
}

// Create registers a new ticket category for a guild.
func (s *CategoryService) Create(ctx context.Context, guildID string, input CategoryInput) (*domain.CategoryConfig, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, util.NewValidationError("category name is required", nil)
	}
	if len(input.StaffRoles) > domain.MaxStaffRoles {
		return nil, util.NewValidationError("too many staff roles", map[string]any{"max": domain.MaxStaffRoles})
	}

	category := &domain.CategoryConfig{
		ID:              uuid.NewString(),
		GuildID:         guildID,
		Name:            name,
		Description:     strings.TrimSpace(input.Description),
		ParentChannelID: input.ParentChannelID,
		StaffRoles:      input.StaffRoles,
		Enabled:         true,
		ButtonColor:     input.ButtonColor,
		ButtonEmoji:     input.ButtonEmoji,
		NamingTemplate:  input.NamingTemplate,
		AutoGreeting:    input.AutoGreeting,
	}
	if category.ButtonColor == "" {
		category.ButtonColor = domain.ButtonColorPrimary
	}
	if category.NamingTemplate == "" {
		category.NamingTemplate = DefaultNamingTemplate
	}

	if err := s.categories.Create(ctx, category); err != nil {
		return nil, util.NewPersistenceFailure(err)
	}
	return category, nil
}

// Update edits an existing category. Empty input fields keep their current
// values.
func (s *CategoryService) Update(ctx context.Context, id string, input CategoryInput) (*domain.CategoryConfig, error) {
	category, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(input.StaffRoles) > domain.MaxStaffRoles {
		return nil, util.NewValidationError("too many staff roles", map[string]any{"max": domain.MaxStaffRoles})
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		category.Name = name
	}
	if desc := strings.TrimSpace(input.Description); desc != "" {
		category.Description = desc
	}
	if input.ParentChannelID != "" {
		category.ParentChannelID = input.ParentChannelID
	}
	if len(input.StaffRoles) > 0 {
		category.StaffRoles = input.StaffRoles
	}
	if input.ButtonColor != "" {
		category.ButtonColor = input.ButtonColor
	}
	if input.ButtonEmoji != "" {
		category.ButtonEmoji = input.ButtonEmoji
	}
	if input.NamingTemplate != "" {
		category.NamingTemplate = input.NamingTemplate
	}
	if input.AutoGreeting != "" {
		category.AutoGreeting = input.AutoGreeting
	}

	if err := s.categories.Update(ctx, category); err != nil {
		return nil, util.NewPersistenceFailure(err)
	}
	return category, nil
}

// Delete removes a category. Existing tickets keep their category id; the
// reference is a soft invariant.
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	err := s.categories.Delete(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return util.NewNotFound("ticket category")
	}
	if err != nil {
		return util.NewPersistenceFailure(err)
	}
	return nil
}

// List returns all categories configured for a guild.
func (s *CategoryService) List(ctx context.Context, guildID string) ([]domain.CategoryConfig, error) {
	categories, err := s.categories.ListByGuild(ctx, guildID)
	if err != nil {
		return nil, util.NewPersistenceFailure(err)
	}
	return categories, nil
}

// SetEnabled toggles a category on or off.
func (s *CategoryService) SetEnabled(ctx context.Context, id string, enabled bool) (*domain.CategoryConfig, error) {
	category, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	category.Enabled = enabled
	if err := s.categories.Update(ctx, category); err != nil {
		return nil, util.NewPersistenceFailure(err)
	}
	return category, nil
}

// SetNamingTemplate sets the channel naming format for a category.
func (s *CategoryService) SetNamingTemplate(ctx context.Context, id, template string) (*domain.CategoryConfig, error) {
	template = strings.TrimSpace(template)
	if template == "" {
		return nil, util.NewValidationError("naming template is required", nil)
	}
	category, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	category.NamingTemplate = template
	if err := s.categories.Update(ctx, category); err != nil {
		return nil, util.NewPersistenceFailure(err)
	}
	return category, nil
}

func (s *CategoryService) get(ctx context.Context, id string) (*domain.CategoryConfig, error) {
	category, err := s.categories.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, util.NewNotFound("ticket category")
	}
	if err != nil {
		return nil, util.NewPersistenceFailure(err)
	}
	return category, nil
}
