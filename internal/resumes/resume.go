package resumes

import (
	"fmt"
	"strings"
	"time"
)

var timeNow = func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) }

// Resume is the aggregate root. Child items carry ids that are unique only
// within their own collection.
type Resume struct {
	props Props
}

// NewResume builds a validated aggregate from props. Status defaults to Draft,
// child collections to empty and timestamps to now. Child items without an id
// get max+1 in input order; a repeated id is a validation error.
func NewResume(p Props) (*Resume, error) {
	r := hydrate(p)
	r.props.Title = strings.TrimSpace(r.props.Title)
	if err := r.assignItemIDs(); err != nil {
		return nil, err
	}
	if err := validateStruct(r.props); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Resume) assignItemIDs() error {
	p := &r.props
	if err := assignIDs("education", p.Education, func(x *Education) *int { return &x.ID }); err != nil {
		return err
	}
	if err := assignIDs("experience", p.Experience, func(x *Experience) *int { return &x.ID }); err != nil {
		return err
	}
	if err := assignIDs("skills", p.Skills, func(x *Skill) *int { return &x.ID }); err != nil {
		return err
	}
	if err := assignIDs("projects", p.Projects, func(x *Project) *int { return &x.ID }); err != nil {
		return err
	}
	return assignIDs("languages", p.Languages, func(x *Language) *int { return &x.ID })
}

// hydrate rebuilds an aggregate from stored state without validation.
func hydrate(p Props) *Resume {
	p = p.clone()
	if p.Status == "" {
		p.Status = StatusDraft
	}
	if p.Version <= 0 {
		p.Version = 1
	}
	now := timeNow()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = p.CreatedAt
	}
	return &Resume{props: p}
}

func (r *Resume) ID() int64 { return r.props.ID }
func (r *Resume) UserID() int64 { return r.props.UserID }
func (r *Resume) Title() string { return r.props.Title }
func (r *Resume) Summary() *string { return cloneString(r.props.Summary) }
func (r *Resume) Status() Status { return r.props.Status }
func (r *Resume) TemplateID() *int64 { return cloneInt64(r.props.TemplateID) }
func (r *Resume) Version() int { return r.props.Version }
func (r *Resume) CreatedAt() time.Time { return r.props.CreatedAt }
func (r *Resume) UpdatedAt() time.Time { return r.props.UpdatedAt }
func (r *Resume) Props() Props { return r.props.clone() }
func (r *Resume) Education() []Education {
	return cloneEach(r.props.Education, Education.clone)
}
func (r *Resume) Experience() []Experience {
	return cloneEach(r.props.Experience, Experience.clone)
}
func (r *Resume) Skills() []Skill { return cloneEach(r.props.Skills, Skill.clone) }
func (r *Resume) Projects() []Project { return cloneEach(r.props.Projects, Project.clone) }
func (r *Resume) Languages() []Language {
	return cloneEach(r.props.Languages, func(l Language) Language { return l })
}

func (r *Resume) ContactInformation() *ContactInformation {
	if r.props.ContactInformation == nil {
		return nil
	}
	ci := *r.props.ContactInformation
	return &ci
}

func (r *Resume) touch() {
	r.props.UpdatedAt = timeNow()
}

// UpdateBasicInfo replaces title and summary.
func (r *Resume) UpdateBasicInfo(title string, summary *string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return &ValidationError{Field: "title", Msg: "title is required"}
	}
	if err := validateText("title", title); err != nil {
		return err
	}
	if summary != nil {
		if err := validateText("summary", *summary); err != nil {
			return err
		}
	}
	r.props.Title = title
	r.props.Summary = cloneString(summary)
	r.touch()
	return nil
}

func (r *Resume) UpdateStatus(s Status) error {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived:
	default:
		return &ValidationError{Field: "status", Msg: "status must be one of: Draft, Published, Archived"}
	}
	r.props.Status = s
	r.touch()
	return nil
}

// UpdateContactInformation replaces the contact block; nil removes it.
func (r *Resume) UpdateContactInformation(info *ContactInformation) error {
	if info != nil {
		if err := validateStruct(*info); err != nil {
			return err
		}
		ci := *info
		info = &ci
	}
	r.props.ContactInformation = info
	r.touch()
	return nil
}

func (r *Resume) SetTemplateID(id *int64) {
	r.props.TemplateID = cloneInt64(id)
	r.touch()
}

func (r *Resume) AddEducation(e Education) (int, error) {
	e = e.clone()
	e.ID = nextID(r.props.Education, func(x Education) int { return x.ID })
	if err := validateStruct(e); err != nil {
		return 0, err
	}
	r.props.Education = append(r.props.Education, e)
	r.touch()
	return e.ID, nil
}

func (r *Resume) UpdateEducation(id int, p EducationPatch) error {
	i := indexOf(r.props.Education, func(x Education) bool { return x.ID == id })
	if i < 0 {
		return fmt.Errorf("education %d: %w", id, ErrItemNotFound)
	}
	e := r.props.Education[i].clone()
	setIf(&e.Institution, p.Institution)
	setIf(&e.Degree, p.Degree)
	setIf(&e.FieldOfStudy, p.FieldOfStudy)
	setIf(&e.StartDate, p.StartDate)
	if p.EndDate != nil {
		e.EndDate = cloneDate(p.EndDate)
	}
	if p.Description != nil {
		e.Description = cloneString(p.Description)
	}
	if err := validateStruct(e); err != nil {
		return err
	}
	r.props.Education[i] = e
	r.touch()
	return nil
}

// RemoveEducation drops the item if present; a missing id is not an error.
func (r *Resume) RemoveEducation(id int) {
	r.props.Education = without(r.props.Education, func(x Education) bool { return x.ID == id })
	r.touch()
}

func (r *Resume) AddExperience(e Experience) (int, error) {
	e = e.clone()
	e.ID = nextID(r.props.Experience, func(x Experience) int { return x.ID })
	if err := validateStruct(e); err != nil {
		return 0, err
	}
	r.props.Experience = append(r.props.Experience, e)
	r.touch()
	return e.ID, nil
}

func (r *Resume) UpdateExperience(id int, p ExperiencePatch) error {
	i := indexOf(r.props.Experience, func(x Experience) bool { return x.ID == id })
	if i < 0 {
		return fmt.Errorf("experience %d: %w", id, ErrItemNotFound)
	}
	e := r.props.Experience[i].clone()
	setIf(&e.Company, p.Company)
	setIf(&e.Position, p.Position)
	setIf(&e.StartDate, p.StartDate)
	if p.Location != nil {
		e.Location = cloneString(p.Location)
	}
	if p.EndDate != nil {
		e.EndDate = cloneDate(p.EndDate)
	}
	if p.Description != nil {
		e.Description = cloneString(p.Description)
	}
	if p.Achievements != nil {
		e.Achievements = append([]string{}, p.Achievements...)
	}
	if err := validateStruct(e); err != nil {
		return err
	}
	r.props.Experience[i] = e
	r.touch()
	return nil
}

func (r *Resume) RemoveExperience(id int) {
	r.props.Experience = without(r.props.Experience, func(x Experience) bool { return x.ID == id })
	r.touch()
}

func (r *Resume) AddSkill(s Skill) (int, error) {
	s = s.clone()
	s.ID = nextID(r.props.Skills, func(x Skill) int { return x.ID })
	if err := validateStruct(s); err != nil {
		return 0, err
	}
	r.props.Skills = append(r.props.Skills, s)
	r.touch()
	return s.ID, nil
}

func (r *Resume) UpdateSkill(id int, p SkillPatch) error {
	i := indexOf(r.props.Skills, func(x Skill) bool { return x.ID == id })
	if i < 0 {
		return fmt.Errorf("skill %d: %w", id, ErrItemNotFound)
	}
	s := r.props.Skills[i].clone()
	setIf(&s.Name, p.Name)
	if p.Level != nil {
		lvl := *p.Level
		s.Level = &lvl
	}
	if p.Category != nil {
		s.Category = cloneString(p.Category)
	}
	if err := validateStruct(s); err != nil {
		return err
	}
	r.props.Skills[i] = s
	r.touch()
	return nil
}

func (r *Resume) RemoveSkill(id int) {
	r.props.Skills = without(r.props.Skills, func(x Skill) bool { return x.ID == id })
	r.touch()
}

// nextID returns max(existing)+1, or 1 for an empty collection.
// assignIDs fills ids <= 0 with max+1 after rejecting duplicate positive ids.
func assignIDs[T any](field string, items []T, id func(*T) *int) error {
	seen := make(map[int]bool, len(items))
	maxID := 0
	for i := range items {
		v := *id(&items[i])
		if v <= 0 {
			continue
		}
		if seen[v] {
			path := fmt.Sprintf("%s[%d].id", field, i)
			return &ValidationError{Field: path, Msg: fmt.Sprintf("%s %d is already used", path, v)}
		}
		seen[v] = true
		maxID = max(maxID, v)
	}
	for i := range items {
		if p := id(&items[i]); *p <= 0 {
			maxID++
			*p = maxID
		}
	}
	return nil
}

func nextID[T any](items []T, id func(T) int) int {
	highest := 0
	for _, item := range items {
		if v := id(item); v > highest {
			highest = v
		}
	}
	return highest + 1
}

func indexOf[T any](items []T, match func(T) bool) int {
	for i, item := range items {
		if match(item) {
			return i
		}
	}
	return -1
}

func without[T any](items []T, match func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if !match(item) {
			out = append(out, item)
		}
	}
	return out
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
