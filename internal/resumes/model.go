package resumes

import "time"

type Status string

const (
	StatusDraft     Status = "Draft"
	StatusPublished Status = "Published"
	StatusArchived  Status = "Archived"
)

type ContactInformation struct {
	Email    string `json:"email" validate:"required"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
	Website  string `json:"website,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	GitHub   string `json:"github,omitempty"`
}

type Education struct {
	ID           int     `json:"id"`
	Institution  string  `json:"institution" validate:"required,nohtml"`
	Degree       string  `json:"degree" validate:"required,nohtml"`
	FieldOfStudy string  `json:"fieldOfStudy" validate:"required,nohtml"`
	StartDate    Date    `json:"startDate" validate:"required"`
	EndDate      *Date   `json:"endDate,omitempty"`
	Description  *string `json:"description,omitempty" validate:"omitempty,nohtml"`
}

type Experience struct {
	ID           int      `json:"id"`
	Company      string   `json:"company" validate:"required,nohtml"`
	Position     string   `json:"position" validate:"required,nohtml"`
	Location     *string  `json:"location,omitempty" validate:"omitempty,nohtml"`
	StartDate    Date     `json:"startDate" validate:"required"`
	EndDate      *Date    `json:"endDate,omitempty"`
	Description  *string  `json:"description,omitempty" validate:"omitempty,nohtml"`
	Achievements []string `json:"achievements,omitempty" validate:"dive,nohtml"`
}

type Skill struct {
	ID       int     `json:"id"`
	Name     string  `json:"name" validate:"required,nohtml"`
	Level    *int    `json:"level,omitempty" validate:"omitempty,min=1,max=5"`
	Category *string `json:"category,omitempty" validate:"omitempty,nohtml"`
}

type Project struct {
	ID           int      `json:"id"`
	Name         string   `json:"name" validate:"required,nohtml"`
	Description  *string  `json:"description,omitempty" validate:"omitempty,nohtml"`
	URL          *string  `json:"url,omitempty"`
	Technologies []string `json:"technologies" validate:"dive,nohtml"`
}

type Language struct {
	ID          int    `json:"id"`
	Name        string `json:"name" validate:"required,nohtml"`
	Proficiency string `json:"proficiency" validate:"required,nohtml"`
}

// Props is the full property bag of a résumé.
type Props struct {
	ID                 int64               `json:"id"`
	UserID             int64               `json:"userId" validate:"gt=0"`
	Title              string              `json:"title" validate:"required,nohtml"`
	Summary            *string             `json:"summary,omitempty" validate:"omitempty,nohtml"`
	Status             Status              `json:"status" validate:"oneof=Draft Published Archived"`
	ContactInformation *ContactInformation `json:"contactInformation,omitempty"`
	TemplateID         *int64              `json:"templateId,omitempty"`
	Education          []Education         `json:"education" validate:"dive"`
	Experience         []Experience        `json:"experience" validate:"dive"`
	Skills             []Skill             `json:"skills" validate:"dive"`
	Projects           []Project           `json:"projects" validate:"dive"`
	Languages          []Language          `json:"languages" validate:"dive"`
	Version            int                 `json:"version"`
	CreatedAt          time.Time           `json:"createdAt"`
	UpdatedAt          time.Time           `json:"updatedAt"`
}

// Patches carry only the fields to change; nil leaves a field as is.

type EducationPatch struct {
	Institution  *string `json:"institution"`
	Degree       *string `json:"degree"`
	FieldOfStudy *string `json:"fieldOfStudy"`
	StartDate    *Date   `json:"startDate"`
	EndDate      *Date   `json:"endDate"`
	Description  *string `json:"description"`
}

type ExperiencePatch struct {
	Company      *string  `json:"company"`
	Position     *string  `json:"position"`
	Location     *string  `json:"location"`
	StartDate    *Date    `json:"startDate"`
	EndDate      *Date    `json:"endDate"`
	Description  *string  `json:"description"`
	Achievements []string `json:"achievements"`
}

type SkillPatch struct {
	Name     *string `json:"name"`
	Level    *int    `json:"level"`
	Category *string `json:"category"`
}

func (p Props) clone() Props {
	out := p
	out.Summary = cloneString(p.Summary)
	out.TemplateID = cloneInt64(p.TemplateID)
	if p.ContactInformation != nil {
		ci := *p.ContactInformation
		out.ContactInformation = &ci
	}
	out.Education = cloneEach(p.Education, Education.clone)
	out.Experience = cloneEach(p.Experience, Experience.clone)
	out.Skills = cloneEach(p.Skills, Skill.clone)
	out.Projects = cloneEach(p.Projects, Project.clone)
	out.Languages = cloneEach(p.Languages, func(l Language) Language { return l })
	return out
}

func (e Education) clone() Education {
	e.EndDate = cloneDate(e.EndDate)
	e.Description = cloneString(e.Description)
	return e
}

func (e Experience) clone() Experience {
	e.Location = cloneString(e.Location)
	e.EndDate = cloneDate(e.EndDate)
	e.Description = cloneString(e.Description)
	if e.Achievements != nil {
		e.Achievements = append([]string{}, e.Achievements...)
	}
	return e
}

func (s Skill) clone() Skill {
	if s.Level != nil {
		lvl := *s.Level
		s.Level = &lvl
	}
	s.Category = cloneString(s.Category)
	return s
}

func (p Project) clone() Project {
	p.Description = cloneString(p.Description)
	p.URL = cloneString(p.URL)
	p.Technologies = append([]string{}, p.Technologies...)
	return p
}

// cloneEach always returns a non-nil slice.
func cloneEach[T any](in []T, fn func(T) T) []T {
	out := make([]T, 0, len(in))
	for _, item := range in {
		out = append(out, fn(item))
	}
	return out
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneInt64(n *int64) *int64 {
	if n == nil {
		return nil
	}
	v := *n
	return &v
}

// cloneDate maps a zero date to nil, which is how both stores read it back.
func cloneDate(d *Date) *Date {
	if d == nil || d.IsZero() {
		return nil
	}
	v := *d
	return &v
}
