package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/openopps/openopps-api/internal/config"
	"github.com/openopps/openopps-api/internal/constants"
	apierrors "github.com/openopps/openopps-api/internal/errors"
	"github.com/openopps/openopps-api/internal/models"
	"github.com/openopps/openopps-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DirectoryService owns identity records: signup, authentication,
// profile and tag updates, and per-user settings.
type DirectoryService struct {
	users    repository.UserRepository
	tags     repository.TagRepository
	notifier *NotificationService
	cfg      *config.Config
}

// NewDirectoryService creates a new DirectoryService.
func NewDirectoryService(users repository.UserRepository, tags repository.TagRepository, notifier *NotificationService, cfg *config.Config) *DirectoryService {
	return &DirectoryService{
		users:    users,
		tags:     tags,
		notifier: notifier,
		cfg:      cfg,
	}
}

// CreateUserInput represents the required information to register a user.
type CreateUserInput struct {
	Username string
	Password string
	Name     string
}

// CreateUser runs the creation pipeline in a fixed order: normalize the
// username, check the domain whitelist, hash the password, persist, then
// dispatch the welcome notification. The welcome dispatch is
// fire-and-forget and cannot fail the signup.
func (s *DirectoryService) CreateUser(input CreateUserInput) (*models.User, error) {
	username := strings.ToLower(strings.TrimSpace(input.Username))
	if username == "" || !strings.Contains(username, "@") {
		return nil, apierrors.Validation("username must be an email address")
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, apierrors.Validation(fmt.Sprintf("password must be at least %d characters", constants.MinPasswordLength))
	}

	if err := s.checkDomain(username); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		PasswordHash: string(hashed),
		Name:         strings.TrimSpace(input.Name),
	}

	if err := s.users.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apierrors.Conflicted("username already exists").Wrap(err)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.notifier.Dispatch(ActionUserWelcome, WelcomePayload{User: *user})

	return user, nil
}

// checkDomain enforces the configured mail-domain whitelist.
func (s *DirectoryService) checkDomain(username string) error {
	if !s.cfg.ValidateDomains {
		return nil
	}
	domains := s.cfg.DomainList()
	if len(domains) == 0 {
		return nil
	}

	at := strings.LastIndex(username, "@")
	mailDomain := username[at+1:]
	for _, d := range domains {
		if mailDomain == d || strings.HasSuffix(mailDomain, "."+d) {
			return nil
		}
	}
	return apierrors.Validation("invalid domain")
}

// Authenticate verifies credentials. Failed attempts are counted on the
// user record; a success resets the counter.
func (s *DirectoryService) Authenticate(username, password string) (*models.User, error) {
	user, err := s.users.FindByUsername(strings.ToLower(strings.TrimSpace(username)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierrors.Authorization("invalid username or password")
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if user.Disabled {
		return nil, apierrors.Authorization("account is disabled")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		user.PasswordAttempts++
		_ = s.users.Update(user)
		return nil, apierrors.Authorization("invalid username or password")
	}

	if user.PasswordAttempts != 0 {
		user.PasswordAttempts = 0
		_ = s.users.Update(user)
	}

	return user, nil
}

// GetUser retrieves a user with tags preloaded.
func (s *DirectoryService) GetUser(id uint64) (*models.User, error) {
	user, err := s.users.FindByID(id, "Tags")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierrors.Missing("user not found")
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// UpdateProfileInput carries optional profile fields; nil means
// unchanged.
type UpdateProfileInput struct {
	Name     *string
	Title    *string
	Bio      *string
	PhotoURL *string
}

// UpdateProfile applies partial profile changes.
func (s *DirectoryService) UpdateProfile(userID uint64, input UpdateProfileInput) (*models.User, error) {
	user, err := s.GetUser(userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apierrors.Validation("name cannot be empty")
		}
		user.Name = name
	}
	if input.Title != nil {
		user.Title = *input.Title
	}
	if input.Bio != nil {
		user.Bio = *input.Bio
	}
	if input.PhotoURL != nil {
		user.PhotoURL = *input.PhotoURL
	}

	if err := s.users.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// SetLocationAgency replaces the user's location and agency tags with
// exactly one of each.
func (s *DirectoryService) SetLocationAgency(userID, locationTagID, agencyTagID uint64) (*models.User, error) {
	user, err := s.GetUser(userID)
	if err != nil {
		return nil, err
	}

	tags, err := s.tags.FindByIDs([]uint64{locationTagID, agencyTagID})
	if err != nil {
		return nil, fmt.Errorf("failed to load tags: %w", err)
	}

	var location, agency *models.Tag
	for i := range tags {
		switch tags[i].Kind {
		case models.TagKindLocation:
			location = &tags[i]
		case models.TagKindAgency:
			agency = &tags[i]
		}
	}
	if location == nil || agency == nil {
		return nil, apierrors.Validation("a location tag and an agency tag are required")
	}

	// Keep tags of other kinds, swap location/agency.
	kept := make([]models.Tag, 0, len(user.Tags)+2)
	for _, t := range user.Tags {
		if t.Kind != models.TagKindLocation && t.Kind != models.TagKindAgency {
			kept = append(kept, t)
		}
	}
	kept = append(kept, *location, *agency)

	if err := s.users.ReplaceTags(user, kept); err != nil {
		return nil, fmt.Errorf("failed to replace tags: %w", err)
	}

	return s.GetUser(userID)
}

// SetLocationAgencyByName resolves a location and an agency by name,
// creating tags that do not exist yet, then applies them like
// SetLocationAgency. Profile pickers let users type values outside the
// existing tag list.
func (s *DirectoryService) SetLocationAgencyByName(userID uint64, location, agency string) (*models.User, error) {
	location = strings.TrimSpace(location)
	agency = strings.TrimSpace(agency)
	if location == "" || agency == "" {
		return nil, apierrors.Validation("a location and an agency are required")
	}

	loc, err := s.tags.FindOrCreate(models.TagKindLocation, location)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve location tag: %w", err)
	}
	ag, err := s.tags.FindOrCreate(models.TagKindAgency, agency)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve agency tag: %w", err)
	}

	return s.SetLocationAgency(userID, loc.ID, ag.ID)
}

// HasRequiredTags reports whether the user carries exactly one location
// tag and exactly one agency tag.
func (s *DirectoryService) HasRequiredTags(user *models.User) bool {
	return len(user.TagsOfKind(models.TagKindLocation)) == 1 &&
		len(user.TagsOfKind(models.TagKindAgency)) == 1
}

// SaveSetting stores a user setting, skipping the write when the active
// value is unchanged.
func (s *DirectoryService) SaveSetting(userID uint64, key, value string) error {
	current, err := s.users.FindActiveSetting(userID, key)
	if err == nil && current.Value == value {
		return nil
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to read setting: %w", err)
	}

	if _, err := s.users.SaveSetting(userID, key, value); err != nil {
		return fmt.Errorf("failed to save setting: %w", err)
	}
	return nil
}

// GetSetting returns the active value for a key, or "" when unset.
func (s *DirectoryService) GetSetting(userID uint64, key string) (string, error) {
	setting, err := s.users.FindActiveSetting(userID, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read setting: %w", err)
	}
	return setting.Value, nil
}

// ListTags returns every tag of one kind, for profile pickers.
func (s *DirectoryService) ListTags(kind models.TagKind) ([]models.Tag, error) {
	switch kind {
	case models.TagKindLocation, models.TagKindAgency, models.TagKindSkill, models.TagKindTopic:
	default:
		return nil, apierrors.Validation(fmt.Sprintf("unknown tag kind: %s", kind))
	}
	tags, err := s.tags.ListByKind(kind)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	return tags, nil
}

// SetDisabled toggles the login-disabled flag. Users are never hard
// deleted; this is the admin-facing off switch.
func (s *DirectoryService) SetDisabled(userID uint64, disabled bool) (*models.User, error) {
	user, err := s.GetUser(userID)
	if err != nil {
		return nil, err
	}
	user.Disabled = disabled
	if err := s.users.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}
