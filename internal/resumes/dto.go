package resumes

import (
	"bytes"
	"encoding/json"
	"time"
)

// PersonalInfo is the request-side contact block. Location maps to the stored
// address and Summary to the résumé summary.
type PersonalInfo struct {
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
	Summary  string `json:"summary,omitempty"`
	Website  string `json:"website,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	GitHub   string `json:"github,omitempty"`
}

type EducationInput struct {
	Institution  string  `json:"institution"`
	Degree       string  `json:"degree"`
	FieldOfStudy string  `json:"fieldOfStudy"`
	StartDate    Date    `json:"startDate"`
	EndDate      *Date   `json:"endDate"`
	Description  *string `json:"description"`
}

type ExperienceInput struct {
	Company      string   `json:"company"`
	Position     string   `json:"position"`
	Location     *string  `json:"location"`
	StartDate    Date     `json:"startDate"`
	EndDate      *Date    `json:"endDate"`
	Description  *string  `json:"description"`
	Achievements []string `json:"achievements"`
}

// SkillInput accepts either a bare name ("Go") or {name, level, category}.
type SkillInput struct {
	Name     string  `json:"name"`
	Level    *int    `json:"level"`
	Category *string `json:"category"`
}

func (s *SkillInput) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		return json.Unmarshal(b, &s.Name)
	}
	type plain SkillInput
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*s = SkillInput(p)
	return nil
}

type ProjectInput struct {
	Name         string   `json:"name"`
	Description  *string  `json:"description"`
	URL          *string  `json:"url"`
	Technologies []string `json:"technologies"`
}

type LanguageInput struct {
	Name        string `json:"name"`
	Proficiency string `json:"proficiency"`
}

type CreateInput struct {
	Title        string            `json:"title"`
	Summary      *string           `json:"summary"`
	TemplateID   *int64            `json:"templateId"`
	PersonalInfo *PersonalInfo     `json:"personalInfo"`
	Education    []EducationInput  `json:"education"`
	Experience   []ExperienceInput `json:"experience"`
	Skills       []SkillInput      `json:"skills"`
	Projects     []ProjectInput    `json:"projects"`
	Languages    []LanguageInput   `json:"languages"`
}

// UpdateInput changes résumé-level fields only; nil leaves a field untouched.
// Version, when set, must match the stored version.
type UpdateInput struct {
	Title        *string       `json:"title"`
	Summary      *string       `json:"summary"`
	Status       *Status       `json:"status"`
	TemplateID   *int64        `json:"templateId"`
	PersonalInfo *PersonalInfo `json:"personalInfo"`
	Version      *int          `json:"version"`
}

// Summary is the list/create response shape.
type Summary struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Detail is the full résumé as returned by GET /api/resumes/:id.
type Detail struct {
	ID           int64               `json:"id"`
	Title        string              `json:"title"`
	Summary      *string             `json:"summary"`
	Status       Status              `json:"status"`
	TemplateID   *int64              `json:"templateId"`
	PersonalInfo *ContactInformation `json:"personalInfo"`
	Education    []Education         `json:"education"`
	Experience   []Experience        `json:"experience"`
	Skills       []Skill             `json:"skills"`
	Projects     []Project           `json:"projects"`
	Languages    []Language          `json:"languages"`
	Version      int                 `json:"version"`
	CreatedAt    time.Time           `json:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt"`
}

// ItemRef is returned when a child item is added.
type ItemRef struct {
	ID int `json:"id"`
}

func toSummary(r *Resume) Summary {
	return Summary{
		ID:        r.ID(),
		Title:     r.Title(),
		CreatedAt: r.CreatedAt(),
		UpdatedAt: r.UpdatedAt(),
	}
}

func toDetail(r *Resume) *Detail {
	p := r.Props()
	return &Detail{
		ID:           p.ID,
		Title:        p.Title,
		Summary:      p.Summary,
		Status:       p.Status,
		TemplateID:   p.TemplateID,
		PersonalInfo: p.ContactInformation,
		Education:    p.Education,
		Experience:   p.Experience,
		Skills:       p.Skills,
		Projects:     p.Projects,
		Languages:    p.Languages,
		Version:      p.Version,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func (pi PersonalInfo) contact() *ContactInformation {
	return &ContactInformation{
		Email:    pi.Email,
		Phone:    pi.Phone,
		Address:  pi.Location,
		Website:  pi.Website,
		LinkedIn: pi.LinkedIn,
		GitHub:   pi.GitHub,
	}
}

func (in EducationInput) item() Education {
	return Education{
		Institution:  in.Institution,
		Degree:       in.Degree,
		FieldOfStudy: in.FieldOfStudy,
		StartDate:    in.StartDate,
		EndDate:      cloneDate(in.EndDate),
		Description:  in.Description,
	}
}

func (in ExperienceInput) item() Experience {
	return Experience{
		Company:      in.Company,
		Position:     in.Position,
		Location:     in.Location,
		StartDate:    in.StartDate,
		EndDate:      cloneDate(in.EndDate),
		Description:  in.Description,
		Achievements: in.Achievements,
	}
}

func (in SkillInput) item() Skill {
	return Skill{Name: in.Name, Level: in.Level, Category: in.Category}
}
