package talent

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"talenthub.org/internal/ids"
)

const uniqueViolation = "23505"

// PGStore implements Store using PostgreSQL. Matrix maps and skill lists
// are stored as jsonb columns.
type PGStore struct {
	db *sql.DB
}

var _ Store = (*PGStore)(nil)

func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) Employees() EmployeeStore             { return &pgEmployees{db: s.db} }
func (s *PGStore) Projects() ProjectStore               { return &pgProjects{db: s.db} }
func (s *PGStore) Assignments() AssignmentStore         { return &pgAssignments{db: s.db} }
func (s *PGStore) Matrices() MatrixStore                { return &pgMatrices{db: s.db} }
func (s *PGStore) Recommendations() RecommendationStore { return &pgRecommendations{db: s.db} }

// Employees ----------------------------------------------------------------

type pgEmployees struct{ db *sql.DB }

const employeeColumns = `id, employee_id, first_name, last_name, email, department, position, location,
	manager_id, mentor_id, hire_date, status, expected_departure, competency_matrix, retention_matrix`

func (s *pgEmployees) Create(ctx context.Context, e *Employee) error {
	if e.ID == "" {
		e.ID = ids.New()
	}
	competency, retention := marshalMatrices(e)
	_, err := s.db.ExecContext(ctx,
		`insert into employees(`+employeeColumns+`)
		 values($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`,
		e.ID, e.EmployeeID, e.FirstName, e.LastName, strings.ToLower(e.Email), e.Department, e.Position,
		e.Location, nullString(e.ManagerID), nullString(e.MentorID), e.HireDate, string(e.Status),
		e.ExpectedDeparture, competency, retention,
	)
	if isUniqueViolation(err) {
		return ErrAlreadyExists
	}
	return err
}

func (s *pgEmployees) Find(ctx context.Context, id string) (*Employee, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+employeeColumns+` from employees where id=$1`, id)
	return scanEmployee(row)
}

func (s *pgEmployees) FindByEmail(ctx context.Context, email string) (*Employee, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+employeeColumns+` from employees where email=$1`, strings.ToLower(email))
	return scanEmployee(row)
}

func (s *pgEmployees) List(ctx context.Context) ([]*Employee, error) {
	return s.query(ctx, `select `+employeeColumns+` from employees order by last_name, id`)
}

func (s *pgEmployees) ListByDepartment(ctx context.Context, department string) ([]*Employee, error) {
	return s.query(ctx,
		`select `+employeeColumns+` from employees where lower(department)=lower($1) order by last_name, id`,
		department)
}

func (s *pgEmployees) query(ctx context.Context, q string, args ...any) ([]*Employee, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, e)
	}
	return res, rows.Err()
}

func (s *pgEmployees) Update(ctx context.Context, e *Employee) error {
	competency, retention := marshalMatrices(e)
	res, err := s.db.ExecContext(ctx,
		`update employees set employee_id=$2, first_name=$3, last_name=$4, email=$5, department=$6,
		 position=$7, location=$8, manager_id=$9, mentor_id=$10, hire_date=$11, status=$12,
		 expected_departure=$13, competency_matrix=$14, retention_matrix=$15
		 where id=$1`,
		e.ID, e.EmployeeID, e.FirstName, e.LastName, strings.ToLower(e.Email), e.Department, e.Position,
		e.Location, nullString(e.ManagerID), nullString(e.MentorID), e.HireDate, string(e.Status),
		e.ExpectedDeparture, competency, retention,
	)
	if isUniqueViolation(err) {
		return ErrAlreadyExists
	}
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *pgEmployees) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `delete from employees where id=$1`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func scanEmployee(row rowScanner) (*Employee, error) {
	var (
		e                     Employee
		managerID, mentorID   sql.NullString
		hireDate, departure   sql.NullTime
		status                string
		competency, retention []byte
	)
	err := row.Scan(&e.ID, &e.EmployeeID, &e.FirstName, &e.LastName, &e.Email, &e.Department,
		&e.Position, &e.Location, &managerID, &mentorID, &hireDate, &status, &departure,
		&competency, &retention)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	e.Status = EmployeeStatus(status)
	e.ManagerID = managerID.String
	e.MentorID = mentorID.String
	if hireDate.Valid {
		t := hireDate.Time
		e.HireDate = &t
	}
	if departure.Valid {
		t := departure.Time
		e.ExpectedDeparture = &t
	}
	if len(competency) > 0 {
		_ = json.Unmarshal(competency, &e.CompetencyMatrix)
	}
	if len(retention) > 0 {
		_ = json.Unmarshal(retention, &e.RetentionMatrix)
	}
	return &e, nil
}

func marshalMatrices(e *Employee) ([]byte, []byte) {
	competency, _ := json.Marshal(e.CompetencyMatrix)
	retention, _ := json.Marshal(e.RetentionMatrix)
	return competency, retention
}

// Projects -----------------------------------------------------------------

type pgProjects struct{ db *sql.DB }

const projectColumns = `id, name, description, start_date, end_date, status, required_skills`

func (s *pgProjects) Create(ctx context.Context, p *Project) error {
	if p.ID == "" {
		p.ID = ids.New()
	}
	skills, _ := json.Marshal(p.RequiredSkills)
	_, err := s.db.ExecContext(ctx,
		`insert into projects(`+projectColumns+`) values($1,$2,$3,$4,$5,$6,$7)`,
		p.ID, p.Name, p.Description, p.StartDate, p.EndDate, string(p.Status), skills,
	)
	return err
}

func (s *pgProjects) Find(ctx context.Context, id string) (*Project, error) {
	row := s.db.QueryRowContext(ctx, `select `+projectColumns+` from projects where id=$1`, id)
	return scanProject(row)
}

func (s *pgProjects) List(ctx context.Context) ([]*Project, error) {
	rows, err := s.db.QueryContext(ctx, `select `+projectColumns+` from projects order by name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, p)
	}
	return res, rows.Err()
}

func (s *pgProjects) Update(ctx context.Context, p *Project) error {
	skills, _ := json.Marshal(p.RequiredSkills)
	res, err := s.db.ExecContext(ctx,
		`update projects set name=$2, description=$3, start_date=$4, end_date=$5, status=$6, required_skills=$7
		 where id=$1`,
		p.ID, p.Name, p.Description, p.StartDate, p.EndDate, string(p.Status), skills,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *pgProjects) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `delete from projects where id=$1`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func scanProject(row rowScanner) (*Project, error) {
	var (
		p          Project
		start, end sql.NullTime
		status     string
		skills     []byte
	)
	err := row.Scan(&p.ID, &p.Name, &p.Description, &start, &end, &status, &skills)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	p.Status = ProjectStatus(status)
	if start.Valid {
		t := start.Time
		p.StartDate = &t
	}
	if end.Valid {
		t := end.Time
		p.EndDate = &t
	}
	if len(skills) > 0 {
		_ = json.Unmarshal(skills, &p.RequiredSkills)
	}
	return &p, nil
}

// Assignments --------------------------------------------------------------

type pgAssignments struct{ db *sql.DB }

const assignmentColumns = `id, project_id, employee_id, role, start_date, end_date, utilization_percentage`

func (s *pgAssignments) Create(ctx context.Context, a *Assignment) error {
	if a.ID == "" {
		a.ID = ids.New()
	}
	_, err := s.db.ExecContext(ctx,
		`insert into project_assignments(`+assignmentColumns+`) values($1,$2,$3,$4,$5,$6,$7)`,
		a.ID, a.ProjectID, a.EmployeeID, a.Role, a.StartDate, a.EndDate, a.Utilization,
	)
	return err
}

func (s *pgAssignments) Find(ctx context.Context, id string) (*Assignment, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+assignmentColumns+` from project_assignments where id=$1`, id)
	return scanAssignment(row)
}

func (s *pgAssignments) ListByProject(ctx context.Context, projectID string) ([]*Assignment, error) {
	return s.query(ctx,
		`select `+assignmentColumns+` from project_assignments where project_id=$1 order by id`, projectID)
}

func (s *pgAssignments) ListByEmployee(ctx context.Context, employeeID string) ([]*Assignment, error) {
	return s.query(ctx,
		`select `+assignmentColumns+` from project_assignments where employee_id=$1 order by id`, employeeID)
}

func (s *pgAssignments) query(ctx context.Context, q string, args ...any) ([]*Assignment, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, a)
	}
	return res, rows.Err()
}

func (s *pgAssignments) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `delete from project_assignments where id=$1`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func scanAssignment(row rowScanner) (*Assignment, error) {
	var (
		a          Assignment
		start, end sql.NullTime
	)
	err := row.Scan(&a.ID, &a.ProjectID, &a.EmployeeID, &a.Role, &start, &end, &a.Utilization)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if start.Valid {
		t := start.Time
		a.StartDate = &t
	}
	if end.Valid {
		t := end.Time
		a.EndDate = &t
	}
	return &a, nil
}

// Matrices -----------------------------------------------------------------

type pgMatrices struct{ db *sql.DB }

const matrixColumns = `id, employee_id, business_understanding, leadership, innovation_capability,
	teamwork, adaptability, motivation, last_updated, updated_by`

func (s *pgMatrices) Upsert(ctx context.Context, m *IlbamMatrix) error {
	if m.ID == "" {
		m.ID = ids.New()
	}
	m.LastUpdated = time.Now().UTC()
	// On conflict the existing row keeps its id, so scan it back into m.ID.
	row := s.db.QueryRowContext(ctx,
		`insert into ilbam_matrices(`+matrixColumns+`)
		 values($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		 on conflict (employee_id) do update set
			business_understanding=excluded.business_understanding,
			leadership=excluded.leadership,
			innovation_capability=excluded.innovation_capability,
			teamwork=excluded.teamwork,
			adaptability=excluded.adaptability,
			motivation=excluded.motivation,
			last_updated=excluded.last_updated,
			updated_by=excluded.updated_by
		 returning id`,
		m.ID, m.EmployeeID, m.BusinessUnderstanding, m.Leadership, m.InnovationCapability,
		m.Teamwork, m.Adaptability, m.Motivation, m.LastUpdated, m.UpdatedBy,
	)
	return row.Scan(&m.ID)
}

func (s *pgMatrices) FindByEmployee(ctx context.Context, employeeID string) (*IlbamMatrix, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+matrixColumns+` from ilbam_matrices where employee_id=$1`, employeeID)
	var m IlbamMatrix
	err := row.Scan(&m.ID, &m.EmployeeID, &m.BusinessUnderstanding, &m.Leadership,
		&m.InnovationCapability, &m.Teamwork, &m.Adaptability, &m.Motivation, &m.LastUpdated, &m.UpdatedBy)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *pgMatrices) List(ctx context.Context) ([]*IlbamMatrix, error) {
	rows, err := s.db.QueryContext(ctx,
		`select `+matrixColumns+` from ilbam_matrices order by employee_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*IlbamMatrix
	for rows.Next() {
		var m IlbamMatrix
		if err := rows.Scan(&m.ID, &m.EmployeeID, &m.BusinessUnderstanding, &m.Leadership,
			&m.InnovationCapability, &m.Teamwork, &m.Adaptability, &m.Motivation,
			&m.LastUpdated, &m.UpdatedBy); err != nil {
			return nil, err
		}
		res = append(res, &m)
	}
	return res, rows.Err()
}

func (s *pgMatrices) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `delete from ilbam_matrices where id=$1`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// Recommendations ----------------------------------------------------------

type pgRecommendations struct{ db *sql.DB }

const recommendationColumns = `id, project_id, recommended_ids, alternative_ids, reasonings, confidence_score, created_at`

func (s *pgRecommendations) Create(ctx context.Context, r *Recommendation) error {
	if r.ID == "" {
		r.ID = ids.New()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	recommended, _ := json.Marshal(r.RecommendedIDs)
	alternatives, _ := json.Marshal(r.AlternativeIDs)
	reasonings, _ := json.Marshal(r.Reasonings)
	_, err := s.db.ExecContext(ctx,
		`insert into team_recommendations(`+recommendationColumns+`) values($1,$2,$3,$4,$5,$6,$7)`,
		r.ID, r.ProjectID, recommended, alternatives, reasonings, r.ConfidenceScore, r.CreatedAt,
	)
	return err
}

func (s *pgRecommendations) FindByProject(ctx context.Context, projectID string) (*Recommendation, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+recommendationColumns+` from team_recommendations
		 where project_id=$1 order by created_at desc limit 1`, projectID)
	return scanRecommendation(row)
}

func (s *pgRecommendations) List(ctx context.Context) ([]*Recommendation, error) {
	rows, err := s.db.QueryContext(ctx,
		`select `+recommendationColumns+` from team_recommendations order by created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*Recommendation
	for rows.Next() {
		r, err := scanRecommendation(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, r)
	}
	return res, rows.Err()
}

func (s *pgRecommendations) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `delete from team_recommendations where id=$1`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func scanRecommendation(row rowScanner) (*Recommendation, error) {
	var (
		r                                  Recommendation
		recommended, alternatives, reasons []byte
	)
	err := row.Scan(&r.ID, &r.ProjectID, &recommended, &alternatives, &reasons, &r.ConfidenceScore, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	_ = json.Unmarshal(recommended, &r.RecommendedIDs)
	_ = json.Unmarshal(alternatives, &r.AlternativeIDs)
	_ = json.Unmarshal(reasons, &r.Reasonings)
	return &r, nil
}

// helpers ------------------------------------------------------------------

type rowScanner interface {
	Scan(dest ...any) error
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
