package resumes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"resume-builder-api/internal/shared/metrics"
)

// Service holds the résumé use cases. Every operation is scoped to the
// calling user: a résumé owned by someone else looks exactly like a missing one.
type Service struct {
	Repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// CreateResume builds a new résumé for userID from the request payload.
func (s *Service) CreateResume(ctx context.Context, userID int64, in CreateInput) (sum Summary, err error) {
	defer func() { metrics.ObserveResumeWrite("create", err) }()

	if strings.TrimSpace(in.Title) == "" {
		return Summary{}, &ValidationError{Field: "title", Msg: "title is required"}
	}

	props := Props{
		UserID:     userID,
		Title:      in.Title,
		Summary:    in.Summary,
		Status:     StatusDraft,
		TemplateID: in.TemplateID,
	}
	if pi := in.PersonalInfo; pi != nil {
		props.ContactInformation = pi.contact()
		if props.Summary == nil && pi.Summary != "" {
			summary := pi.Summary
			props.Summary = &summary
		}
	}
	for _, p := range in.Projects {
		props.Projects = append(props.Projects, Project{
			Name:         p.Name,
			Description:  p.Description,
			URL:          p.URL,
			Technologies: append([]string{}, p.Technologies...),
		})
	}
	for _, l := range in.Languages {
		props.Languages = append(props.Languages, Language{Name: l.Name, Proficiency: l.Proficiency})
	}

	res, err := NewResume(props)
	if err != nil {
		return Summary{}, err
	}
	for _, e := range in.Education {
		if _, err = res.AddEducation(e.item()); err != nil {
			return Summary{}, err
		}
	}
	for _, e := range in.Experience {
		if _, err = res.AddExperience(e.item()); err != nil {
			return Summary{}, err
		}
	}
	for _, sk := range in.Skills {
		if _, err = res.AddSkill(sk.item()); err != nil {
			return Summary{}, err
		}
	}

	if err = s.Repo.Create(ctx, res); err != nil {
		return Summary{}, fmt.Errorf("create resume: %w", err)
	}
	return toSummary(res), nil
}

// GetResumeByID returns nil when the résumé is missing or not owned by userID.
func (s *Service) GetResumeByID(ctx context.Context, id, userID int64) (*Detail, error) {
	res, err := s.owned(ctx, id, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return toDetail(res), nil
}

func (s *Service) GetUserResumes(ctx context.Context, userID int64) ([]Summary, error) {
	list, err := s.Repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list resumes: %w", err)
	}
	out := make([]Summary, 0, len(list))
	for _, r := range list {
		out = append(out, toSummary(r))
	}
	return out, nil
}

// UpdateResume changes résumé-level fields. Child collections are persisted
// unchanged through the same full-replace write.
func (s *Service) UpdateResume(ctx context.Context, id, userID int64, in UpdateInput) (*Detail, error) {
	res, err := s.mutate(ctx, "update", id, userID, func(r *Resume) error {
		if in.Version != nil && *in.Version != r.Version() {
			return ErrVersionConflict
		}
		if in.Title != nil || in.Summary != nil {
			title := r.Title()
			if in.Title != nil {
				title = *in.Title
			}
			summary := r.Summary()
			if in.Summary != nil {
				summary = in.Summary
			}
			if err := r.UpdateBasicInfo(title, summary); err != nil {
				return err
			}
		}
		if in.Status != nil {
			if err := r.UpdateStatus(*in.Status); err != nil {
				return err
			}
		}
		if in.PersonalInfo != nil {
			if err := r.UpdateContactInformation(in.PersonalInfo.contact()); err != nil {
				return err
			}
		}
		if in.TemplateID != nil {
			r.SetTemplateID(in.TemplateID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toDetail(res), nil
}

func (s *Service) DeleteResume(ctx context.Context, id, userID int64) (err error) {
	defer func() { metrics.ObserveResumeWrite("delete", err) }()

	if _, err = s.owned(ctx, id, userID); err != nil {
		return err
	}
	if err = s.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return fmt.Errorf("delete resume: %w", err)
	}
	return nil
}

func (s *Service) AddEducation(ctx context.Context, id, userID int64, in EducationInput) (int, error) {
	var itemID int
	_, err := s.mutate(ctx, "add_education", id, userID, func(r *Resume) (err error) {
		itemID, err = r.AddEducation(in.item())
		return err
	})
	return itemID, err
}

func (s *Service) UpdateEducation(ctx context.Context, id, userID int64, itemID int, patch EducationPatch) error {
	_, err := s.mutate(ctx, "update_education", id, userID, func(r *Resume) error {
		return r.UpdateEducation(itemID, patch)
	})
	return err
}

func (s *Service) RemoveEducation(ctx context.Context, id, userID int64, itemID int) error {
	_, err := s.mutate(ctx, "remove_education", id, userID, func(r *Resume) error {
		r.RemoveEducation(itemID)
		return nil
	})
	return err
}

func (s *Service) AddExperience(ctx context.Context, id, userID int64, in ExperienceInput) (int, error) {
	var itemID int
	_, err := s.mutate(ctx, "add_experience", id, userID, func(r *Resume) (err error) {
		itemID, err = r.AddExperience(in.item())
		return err
	})
	return itemID, err
}

func (s *Service) UpdateExperience(ctx context.Context, id, userID int64, itemID int, patch ExperiencePatch) error {
	_, err := s.mutate(ctx, "update_experience", id, userID, func(r *Resume) error {
		return r.UpdateExperience(itemID, patch)
	})
	return err
}

func (s *Service) RemoveExperience(ctx context.Context, id, userID int64, itemID int) error {
	_, err := s.mutate(ctx, "remove_experience", id, userID, func(r *Resume) error {
		r.RemoveExperience(itemID)
		return nil
	})
	return err
}

func (s *Service) AddSkill(ctx context.Context, id, userID int64, in SkillInput) (int, error) {
	var itemID int
	_, err := s.mutate(ctx, "add_skill", id, userID, func(r *Resume) (err error) {
		itemID, err = r.AddSkill(in.item())
		return err
	})
	return itemID, err
}

func (s *Service) UpdateSkill(ctx context.Context, id, userID int64, itemID int, patch SkillPatch) error {
	_, err := s.mutate(ctx, "update_skill", id, userID, func(r *Resume) error {
		return r.UpdateSkill(itemID, patch)
	})
	return err
}

func (s *Service) RemoveSkill(ctx context.Context, id, userID int64, itemID int) error {
	_, err := s.mutate(ctx, "remove_skill", id, userID, func(r *Resume) error {
		r.RemoveSkill(itemID)
		return nil
	})
	return err
}

// mutate loads an owned résumé, applies fn and writes the result back.
func (s *Service) mutate(ctx context.Context, op string, id, userID int64, fn func(*Resume) error) (res *Resume, err error) {
	defer func() { metrics.ObserveResumeWrite(op, err) }()

	res, err = s.owned(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if err = fn(res); err != nil {
		if errors.Is(err, ErrItemNotFound) {
			err = fmt.Errorf("%w: %v", ErrEntryNotFound, err)
		}
		return nil, err
	}
	if err = s.Repo.Update(ctx, res); err != nil {
		if errors.Is(err, ErrVersionConflict) {
			return nil, err
		}
		// The row was present a moment ago, so a missing row here is a server fault.
		return nil, fmt.Errorf("update resume %d: %v", id, err)
	}
	return res, nil
}

func (s *Service) owned(ctx context.Context, id, userID int64) (*Resume, error) {
	res, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load resume: %w", err)
	}
	if res == nil || res.UserID() != userID {
		return nil, ErrNotFound
	}
	return res, nil
}
