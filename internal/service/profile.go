package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/foliokit/folio/internal/apperr"
	"github.com/foliokit/folio/internal/fields"
	"github.com/foliokit/folio/internal/model"
	"github.com/foliokit/folio/internal/repository"
	"github.com/foliokit/folio/internal/storage"
	"github.com/foliokit/folio/internal/validation"
)

// ProfileInput carries a profile save. The first save creates the
// singleton and needs name and email.
type ProfileInput struct {
	Name         *string
	Email        *string
	Location     *string
	Bio          *string
	GitHub       *string
	LinkedIn     *string
	Skills       fields.Raw
	Avatar       *storage.Upload
	Resume       *storage.Upload
	RemoveAvatar bool
	RemoveResume bool
}

type ProfileService struct {
	profileRepo repository.ProfileRepository
	attachments *Attachments
}

func NewProfileService(profileRepo repository.ProfileRepository, attachments *Attachments) *ProfileService {
	return &ProfileService{
		profileRepo: profileRepo,
		attachments: attachments,
	}
}

func (s *ProfileService) Profile() (*model.Profile, error) {
	profile, err := s.profileRepo.Profile()
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return nil, apperr.NotFound("Profile not found")
		}
		return nil, apperr.E(apperr.KindPersistenceFailure, "Error fetching profile", err)
	}
	return profile, nil
}

// Save creates or updates the profile. New uploads are stored before the
// record changes; replaced or removed files are deleted after it persisted.
func (s *ProfileService) Save(ctx context.Context, in ProfileInput) (*model.Profile, error) {
	profile, err := s.profileRepo.Profile()
	creating := errors.Is(err, repository.ErrProfileNotFound)
	if err != nil && !creating {
		return nil, apperr.E(apperr.KindPersistenceFailure, "Error updating profile", err)
	}

	now := time.Now()
	if creating {
		profile = &model.Profile{
			ID:        uuid.New().String(),
			Skills:    model.StringList{},
			CreatedAt: now,
		}
		profile.Name, err = requireText(in.Name, "Name is required")
		if err != nil {
			return nil, err
		}
		profile.Email, err = requireText(in.Email, "Email is required")
		if err != nil {
			return nil, err
		}
	} else {
		err = overwriteText(&profile.Name, in.Name, "Name cannot be empty")
		if err != nil {
			return nil, err
		}
		err = overwriteText(&profile.Email, in.Email, "Email cannot be empty")
		if err != nil {
			return nil, err
		}
	}

	profile.Name = strings.TrimSpace(profile.Name)
	err = validation.ValidateName(profile.Name)
	if err != nil {
		return nil, apperr.E(apperr.KindValidation, err.Error(), err)
	}
	profile.Email = strings.ToLower(profile.Email)
	err = validation.ValidateEmail(profile.Email)
	if err != nil {
		return nil, apperr.E(apperr.KindValidation, err.Error(), err)
	}

	optionalText(&profile.Location, in.Location)
	optionalText(&profile.Bio, in.Bio)
	optionalText(&profile.GitHub, in.GitHub)
	optionalText(&profile.LinkedIn, in.LinkedIn)

	skills, present, err := normalizeList(in.Skills, "skills")
	if err != nil {
		return nil, err
	}
	if present {
		profile.Skills = skills
	}

	var discard []string
	if in.RemoveAvatar {
		discard = append(discard, profile.Avatar, profile.AvatarThumb)
		profile.Avatar = ""
		profile.AvatarThumb = ""
	}
	if in.RemoveResume {
		discard = append(discard, profile.Resume)
		profile.Resume = ""
	}

	if in.Avatar != nil {
		in.Avatar.Thumbnail = true
	}
	avatar, err := s.attachments.Store(ctx, in.Avatar)
	if err != nil {
		return nil, err
	}
	resume, err := s.attachments.Store(ctx, in.Resume)
	if err != nil {
		s.attachments.Rollback(ctx, avatar, err)
		return nil, err
	}

	if avatar != nil {
		discard = append(discard, profile.Avatar, profile.AvatarThumb)
		profile.Avatar = avatar.Ref
		profile.AvatarThumb = avatar.ThumbnailRef
	}
	if resume != nil {
		discard = append(discard, profile.Resume)
		profile.Resume = resume.Ref
	}

	profile.UpdatedAt = now
	if creating {
		err = s.profileRepo.Create(profile)
	} else {
		err = s.profileRepo.Update(profile)
	}
	if err != nil {
		s.attachments.Rollback(ctx, avatar, err)
		s.attachments.Rollback(ctx, resume, err)
		return nil, apperr.E(apperr.KindPersistenceFailure, "Error updating profile", fmt.Errorf("failed to save profile: %w", err))
	}

	s.attachments.Discard(ctx, discard...)
	return profile, nil
}
