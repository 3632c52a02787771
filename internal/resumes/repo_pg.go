package resumes

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

type PGRepo struct {
	DB *sql.DB
}

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const resumeColumns = `id, user_id, title, summary, contact_information, template_id, status, version, created_at, updated_at`

func (r *PGRepo) FindByID(ctx context.Context, id int64) (*Resume, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+resumeColumns+` FROM resumes WHERE id = $1`, id)
	p, err := scanResume(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("load resume %d: %w", id, err)
	}
	if err := loadChildren(ctx, r.DB, []*Props{&p}); err != nil {
		return nil, err
	}
	return hydrate(p), nil
}

func (r *PGRepo) FindByUserID(ctx context.Context, userID int64) ([]*Resume, error) {
	rows, err := r.DB.QueryContext(ctx, `
SELECT `+resumeColumns+`
FROM resumes
WHERE user_id = $1
ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list resumes: %w", err)
	}
	var list []Props
	for rows.Next() {
		p, err := scanResume(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan resume: %w", err)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	ptrs := make([]*Props, len(list))
	for i := range list {
		ptrs[i] = &list[i]
	}
	if err := loadChildren(ctx, r.DB, ptrs); err != nil {
		return nil, err
	}
	out := make([]*Resume, 0, len(list))
	for _, p := range list {
		out = append(out, hydrate(p))
	}
	return out, nil
}

func (r *PGRepo) Create(ctx context.Context, res *Resume) (err error) {
	p := res.props
	contact, err := contactJSON(p.ContactInformation)
	if err != nil {
		return err
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	var id int64
	err = tx.QueryRowContext(ctx, `
INSERT INTO resumes (user_id, title, summary, contact_information, template_id, status, version, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id`,
		p.UserID, p.Title, p.Summary, contact, p.TemplateID, string(p.Status), p.Version, p.CreatedAt, p.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return fmt.Errorf("insert resume: %w", err)
	}

	if err = insertChildren(ctx, tx, id, p); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return err
	}
	res.props.ID = id
	return nil
}

func (r *PGRepo) Update(ctx context.Context, res *Resume) (err error) {
	p := res.props
	contact, err := contactJSON(p.ContactInformation)
	if err != nil {
		return err
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	result, err := tx.ExecContext(ctx, `
UPDATE resumes
SET title = $1, summary = $2, contact_information = $3, template_id = $4, status = $5,
    updated_at = $6, version = version + 1
WHERE id = $7 AND version = $8`,
		p.Title, p.Summary, contact, p.TemplateID, string(p.Status), p.UpdatedAt, p.ID, p.Version,
	)
	if err != nil {
		return fmt.Errorf("update resume: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		var current int
		err = tx.QueryRowContext(ctx, `SELECT version FROM resumes WHERE id = $1`, p.ID).Scan(&current)
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrNotFound
			return err
		}
		if err != nil {
			return err
		}
		err = ErrVersionConflict
		return err
	}

	// Technologies hang off project rows, so they go first.
	deletes := []string{
		`DELETE FROM project_technologies WHERE project_id IN (SELECT id FROM projects WHERE resume_id = $1)`,
		`DELETE FROM projects WHERE resume_id = $1`,
		`DELETE FROM education WHERE resume_id = $1`,
		`DELETE FROM experience WHERE resume_id = $1`,
		`DELETE FROM skills WHERE resume_id = $1`,
		`DELETE FROM languages WHERE resume_id = $1`,
	}
	for _, q := range deletes {
		if _, err = tx.ExecContext(ctx, q, p.ID); err != nil {
			return fmt.Errorf("clear children: %w", err)
		}
	}

	if err = insertChildren(ctx, tx, p.ID, p); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return err
	}
	res.props.Version = p.Version + 1
	return nil
}

// Delete removes the résumé row; foreign keys cascade to every child table.
func (r *PGRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM resumes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete resume: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func insertChildren(ctx context.Context, q queryer, resumeID int64, p Props) error {
	for pos, e := range p.Education {
		if _, err := q.ExecContext(ctx, `
INSERT INTO education (resume_id, item_id, position, institution, degree, field_of_study, start_date, end_date, description)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			resumeID, e.ID, pos, e.Institution, e.Degree, e.FieldOfStudy, e.StartDate, nullableDate(e.EndDate), e.Description,
		); err != nil {
			return fmt.Errorf("insert education: %w", err)
		}
	}

	for pos, e := range p.Experience {
		achievements, err := achievementsJSON(e.Achievements)
		if err != nil {
			return err
		}
		if _, err := q.ExecContext(ctx, `
INSERT INTO experience (resume_id, item_id, position, company, job_position, location, start_date, end_date, description, achievements)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			resumeID, e.ID, pos, e.Company, e.Position, e.Location, e.StartDate, nullableDate(e.EndDate), e.Description, achievements,
		); err != nil {
			return fmt.Errorf("insert experience: %w", err)
		}
	}

	for pos, s := range p.Skills {
		if _, err := q.ExecContext(ctx, `
INSERT INTO skills (resume_id, item_id, position, name, level, category)
VALUES ($1, $2, $3, $4, $5, $6)`,
			resumeID, s.ID, pos, s.Name, s.Level, s.Category,
		); err != nil {
			return fmt.Errorf("insert skill: %w", err)
		}
	}

	for pos, pr := range p.Projects {
		var projectID int64
		if err := q.QueryRowContext(ctx, `
INSERT INTO projects (resume_id, item_id, position, name, description, url)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id`,
			resumeID, pr.ID, pos, pr.Name, pr.Description, pr.URL,
		).Scan(&projectID); err != nil {
			return fmt.Errorf("insert project: %w", err)
		}
		for techPos, tech := range pr.Technologies {
			if _, err := q.ExecContext(ctx, `
INSERT INTO project_technologies (project_id, position, name)
VALUES ($1, $2, $3)`,
				projectID, techPos, tech,
			); err != nil {
				return fmt.Errorf("insert project technology: %w", err)
			}
		}
	}

	for pos, l := range p.Languages {
		if _, err := q.ExecContext(ctx, `
INSERT INTO languages (resume_id, item_id, position, name, proficiency)
VALUES ($1, $2, $3, $4, $5)`,
			resumeID, l.ID, pos, l.Name, l.Proficiency,
		); err != nil {
			return fmt.Errorf("insert language: %w", err)
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResume(row rowScanner) (Props, error) {
	var p Props
	var status string
	var contact []byte
	if err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.Title,
		&p.Summary,
		&contact,
		&p.TemplateID,
		&status,
		&p.Version,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return Props{}, err
	}
	p.Status = Status(status)
	if len(contact) > 0 {
		var ci ContactInformation
		if err := json.Unmarshal(contact, &ci); err != nil {
			return Props{}, fmt.Errorf("decode contact information: %w", err)
		}
		p.ContactInformation = &ci
	}
	return p, nil
}

// loadChildren fills the child collections of every resume in list with one
// query per child table.
func loadChildren(ctx context.Context, q queryer, list []*Props) error {
	if len(list) == 0 {
		return nil
	}
	byID := make(map[int64]*Props, len(list))
	ids := make([]string, 0, len(list))
	for _, p := range list {
		byID[p.ID] = p
		ids = append(ids, strconv.FormatInt(p.ID, 10))
	}
	// Array literal keeps the argument a plain string for every driver.
	idArray := "{" + strings.Join(ids, ",") + "}"

	if err := loadEducation(ctx, q, idArray, byID); err != nil {
		return err
	}
	if err := loadExperience(ctx, q, idArray, byID); err != nil {
		return err
	}
	if err := loadSkills(ctx, q, idArray, byID); err != nil {
		return err
	}
	if err := loadProjects(ctx, q, idArray, byID); err != nil {
		return err
	}
	return loadLanguages(ctx, q, idArray, byID)
}

func loadEducation(ctx context.Context, q queryer, idArray string, byID map[int64]*Props) error {
	rows, err := q.QueryContext(ctx, `
SELECT resume_id, item_id, institution, degree, field_of_study, start_date, end_date, description
FROM education WHERE resume_id = ANY($1::bigint[]) ORDER BY resume_id, position`, idArray)
	if err != nil {
		return fmt.Errorf("load education: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var resumeID int64
		var e Education
		if err := rows.Scan(&resumeID, &e.ID, &e.Institution, &e.Degree, &e.FieldOfStudy, &e.StartDate, &e.EndDate, &e.Description); err != nil {
			return fmt.Errorf("scan education: %w", err)
		}
		if p, ok := byID[resumeID]; ok {
			p.Education = append(p.Education, e)
		}
	}
	return rows.Err()
}

func loadExperience(ctx context.Context, q queryer, idArray string, byID map[int64]*Props) error {
	rows, err := q.QueryContext(ctx, `
SELECT resume_id, item_id, company, job_position, location, start_date, end_date, description, achievements
FROM experience WHERE resume_id = ANY($1::bigint[]) ORDER BY resume_id, position`, idArray)
	if err != nil {
		return fmt.Errorf("load experience: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var resumeID int64
		var e Experience
		var achievements []byte
		if err := rows.Scan(&resumeID, &e.ID, &e.Company, &e.Position, &e.Location, &e.StartDate, &e.EndDate, &e.Description, &achievements); err != nil {
			return fmt.Errorf("scan experience: %w", err)
		}
		if len(achievements) > 0 {
			if err := json.Unmarshal(achievements, &e.Achievements); err != nil {
				return fmt.Errorf("decode achievements: %w", err)
			}
		}
		if p, ok := byID[resumeID]; ok {
			p.Experience = append(p.Experience, e)
		}
	}
	return rows.Err()
}

func loadSkills(ctx context.Context, q queryer, idArray string, byID map[int64]*Props) error {
	rows, err := q.QueryContext(ctx, `
SELECT resume_id, item_id, name, level, category
FROM skills WHERE resume_id = ANY($1::bigint[]) ORDER BY resume_id, position`, idArray)
	if err != nil {
		return fmt.Errorf("load skills: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var resumeID int64
		var s Skill
		if err := rows.Scan(&resumeID, &s.ID, &s.Name, &s.Level, &s.Category); err != nil {
			return fmt.Errorf("scan skill: %w", err)
		}
		if p, ok := byID[resumeID]; ok {
			p.Skills = append(p.Skills, s)
		}
	}
	return rows.Err()
}

type projectKey struct {
	resumeID int64
	itemID   int
}

func loadProjects(ctx context.Context, q queryer, idArray string, byID map[int64]*Props) error {
	rows, err := q.QueryContext(ctx, `
SELECT resume_id, item_id, name, description, url
FROM projects WHERE resume_id = ANY($1::bigint[]) ORDER BY resume_id, position`, idArray)
	if err != nil {
		return fmt.Errorf("load projects: %w", err)
	}
	byItem := map[projectKey]int{}
	for rows.Next() {
		var resumeID int64
		pr := Project{Technologies: []string{}}
		if err := rows.Scan(&resumeID, &pr.ID, &pr.Name, &pr.Description, &pr.URL); err != nil {
			rows.Close()
			return fmt.Errorf("scan project: %w", err)
		}
		p, ok := byID[resumeID]
		if !ok {
			continue
		}
		byItem[projectKey{resumeID, pr.ID}] = len(p.Projects)
		p.Projects = append(p.Projects, pr)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()
	if len(byItem) == 0 {
		return nil
	}

	techRows, err := q.QueryContext(ctx, `
SELECT p.resume_id, p.item_id, t.name
FROM project_technologies t
JOIN projects p ON p.id = t.project_id
WHERE p.resume_id = ANY($1::bigint[])
ORDER BY p.resume_id, p.position, t.position`, idArray)
	if err != nil {
		return fmt.Errorf("load project technologies: %w", err)
	}
	defer techRows.Close()
	for techRows.Next() {
		var key projectKey
		var name string
		if err := techRows.Scan(&key.resumeID, &key.itemID, &name); err != nil {
			return fmt.Errorf("scan project technology: %w", err)
		}
		if i, ok := byItem[key]; ok {
			p := byID[key.resumeID]
			p.Projects[i].Technologies = append(p.Projects[i].Technologies, name)
		}
	}
	return techRows.Err()
}

func loadLanguages(ctx context.Context, q queryer, idArray string, byID map[int64]*Props) error {
	rows, err := q.QueryContext(ctx, `
SELECT resume_id, item_id, name, proficiency
FROM languages WHERE resume_id = ANY($1::bigint[]) ORDER BY resume_id, position`, idArray)
	if err != nil {
		return fmt.Errorf("load languages: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var resumeID int64
		var l Language
		if err := rows.Scan(&resumeID, &l.ID, &l.Name, &l.Proficiency); err != nil {
			return fmt.Errorf("scan language: %w", err)
		}
		if p, ok := byID[resumeID]; ok {
			p.Languages = append(p.Languages, l)
		}
	}
	return rows.Err()
}

func contactJSON(ci *ContactInformation) (any, error) {
	if ci == nil {
		return nil, nil
	}
	b, err := json.Marshal(ci)
	if err != nil {
		return nil, fmt.Errorf("encode contact information: %w", err)
	}
	return string(b), nil
}

func achievementsJSON(items []string) (any, error) {
	if items == nil {
		return nil, nil
	}
	b, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("encode achievements: %w", err)
	}
	return string(b), nil
}

func nullableDate(d *Date) any {
	if d == nil || d.IsZero() {
		return nil
	}
	return d.Time
}
