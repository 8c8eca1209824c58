package talent

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"sort"
	"strings"
)

const (
	minRating = 1
	maxRating = 5
)

// Service wraps a Store with validation and the staffing rules of the
// domain.
type Service struct {
	store Store
}

// NewService constructs the talent service.
func NewService(store Store) (*Service, error) {
	if store == nil {
		return nil, errors.New("talent: store is required")
	}
	return &Service{store: store}, nil
}

// Employees ----------------------------------------------------------------

// CreateEmployee validates and persists a new employee record.
func (s *Service) CreateEmployee(ctx context.Context, e *Employee) (*Employee, error) {
	if err := validateEmployee(e); err != nil {
		return nil, err
	}
	if e.Status == "" {
		e.Status = EmployeeActive
	}
	if err := s.store.Employees().Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// GetEmployee returns the employee by id.
func (s *Service) GetEmployee(ctx context.Context, id string) (*Employee, error) {
	return s.store.Employees().Find(ctx, id)
}

// ListEmployees returns all employees, optionally filtered by department.
func (s *Service) ListEmployees(ctx context.Context, department string) ([]*Employee, error) {
	if strings.TrimSpace(department) != "" {
		return s.store.Employees().ListByDepartment(ctx, department)
	}
	return s.store.Employees().List(ctx)
}

// UpdateEmployee replaces an employee record.
func (s *Service) UpdateEmployee(ctx context.Context, e *Employee) (*Employee, error) {
	if strings.TrimSpace(e.ID) == "" {
		return nil, fmt.Errorf("%w: id is required", ErrInvalidInput)
	}
	if err := validateEmployee(e); err != nil {
		return nil, err
	}
	if e.Status == "" {
		e.Status = EmployeeActive
	}
	if err := s.store.Employees().Update(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// DeleteEmployee removes the employee along with its assignments and
// matrix rows.
func (s *Service) DeleteEmployee(ctx context.Context, id string) error {
	return s.store.Employees().Delete(ctx, id)
}

func validateEmployee(e *Employee) error {
	if strings.TrimSpace(e.FirstName) == "" || strings.TrimSpace(e.LastName) == "" {
		return fmt.Errorf("%w: first and last name are required", ErrInvalidInput)
	}
	email := strings.TrimSpace(strings.ToLower(e.Email))
	if email == "" {
		return fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("%w: malformed email", ErrInvalidInput)
	}
	e.Email = email
	if e.Status != "" {
		switch e.Status {
		case EmployeeActive, EmployeeOnNotice, EmployeeDeparted:
		default:
			return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, e.Status)
		}
	}
	if err := validateRatings("competency", e.CompetencyMatrix); err != nil {
		return err
	}
	return validateRatings("retention", e.RetentionMatrix)
}

func validateRatings(kind string, matrix map[string]int) error {
	for skill, rating := range matrix {
		if strings.TrimSpace(skill) == "" {
			return fmt.Errorf("%w: %s matrix has an unnamed entry", ErrInvalidInput, kind)
		}
		if rating < minRating || rating > maxRating {
			return fmt.Errorf("%w: %s rating for %q must be between %d and %d",
				ErrInvalidInput, kind, skill, minRating, maxRating)
		}
	}
	return nil
}

// Projects -----------------------------------------------------------------

// CreateProject validates and persists a new project.
func (s *Service) CreateProject(ctx context.Context, p *Project) (*Project, error) {
	if err := validateProject(p); err != nil {
		return nil, err
	}
	if p.Status == "" {
		p.Status = ProjectPlanning
	}
	if err := s.store.Projects().Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// GetProject returns the project by id.
func (s *Service) GetProject(ctx context.Context, id string) (*Project, error) {
	return s.store.Projects().Find(ctx, id)
}

// ListProjects returns all projects.
func (s *Service) ListProjects(ctx context.Context) ([]*Project, error) {
	return s.store.Projects().List(ctx)
}

// UpdateProject replaces a project record.
func (s *Service) UpdateProject(ctx context.Context, p *Project) (*Project, error) {
	if strings.TrimSpace(p.ID) == "" {
		return nil, fmt.Errorf("%w: id is required", ErrInvalidInput)
	}
	if err := validateProject(p); err != nil {
		return nil, err
	}
	if p.Status == "" {
		p.Status = ProjectPlanning
	}
	if err := s.store.Projects().Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// DeleteProject removes the project and its assignments.
func (s *Service) DeleteProject(ctx context.Context, id string) error {
	return s.store.Projects().Delete(ctx, id)
}

func validateProject(p *Project) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if p.Status != "" {
		switch p.Status {
		case ProjectPlanning, ProjectActive, ProjectOnHold, ProjectCompleted:
		default:
			return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, p.Status)
		}
	}
	if p.StartDate != nil && p.EndDate != nil && p.EndDate.Before(*p.StartDate) {
		return fmt.Errorf("%w: end date precedes start date", ErrInvalidInput)
	}
	return nil
}

// Assignments --------------------------------------------------------------

// Assign places an employee on a project. The sum of an employee's
// utilization across all assignments may not exceed 100 percent.
func (s *Service) Assign(ctx context.Context, a *Assignment) (*Assignment, error) {
	if a.Utilization <= 0 || a.Utilization > 100 {
		return nil, fmt.Errorf("%w: utilization must be between 1 and 100", ErrInvalidInput)
	}
	if _, err := s.store.Employees().Find(ctx, a.EmployeeID); err != nil {
		return nil, err
	}
	if _, err := s.store.Projects().Find(ctx, a.ProjectID); err != nil {
		return nil, err
	}
	existing, err := s.store.Assignments().ListByEmployee(ctx, a.EmployeeID)
	if err != nil {
		return nil, err
	}
	total := a.Utilization
	for _, cur := range existing {
		total += cur.Utilization
	}
	if total > 100 {
		return nil, ErrOverAllocated
	}
	if err := s.store.Assignments().Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// ProjectAssignments lists placements on a project.
func (s *Service) ProjectAssignments(ctx context.Context, projectID string) ([]*Assignment, error) {
	return s.store.Assignments().ListByProject(ctx, projectID)
}

// EmployeeAssignments lists placements of an employee.
func (s *Service) EmployeeAssignments(ctx context.Context, employeeID string) ([]*Assignment, error) {
	return s.store.Assignments().ListByEmployee(ctx, employeeID)
}

// Unassign removes a placement.
func (s *Service) Unassign(ctx context.Context, id string) error {
	return s.store.Assignments().Delete(ctx, id)
}

// Matrices -----------------------------------------------------------------

// UpsertMatrix creates or replaces the ILBAM matrix of an employee.
func (s *Service) UpsertMatrix(ctx context.Context, m *IlbamMatrix) (*IlbamMatrix, error) {
	if strings.TrimSpace(m.EmployeeID) == "" {
		return nil, fmt.Errorf("%w: employee id is required", ErrInvalidInput)
	}
	for name, rating := range map[string]int{
		"business_understanding": m.BusinessUnderstanding,
		"leadership":             m.Leadership,
		"innovation_capability":  m.InnovationCapability,
		"teamwork":               m.Teamwork,
		"adaptability":           m.Adaptability,
		"motivation":             m.Motivation,
	} {
		if rating < minRating || rating > maxRating {
			return nil, fmt.Errorf("%w: %s must be between %d and %d", ErrInvalidInput, name, minRating, maxRating)
		}
	}
	if _, err := s.store.Employees().Find(ctx, m.EmployeeID); err != nil {
		return nil, err
	}
	if err := s.store.Matrices().Upsert(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// MatrixForEmployee returns the employee's ILBAM matrix.
func (s *Service) MatrixForEmployee(ctx context.Context, employeeID string) (*IlbamMatrix, error) {
	return s.store.Matrices().FindByEmployee(ctx, employeeID)
}

// ListMatrices returns all ILBAM matrices.
func (s *Service) ListMatrices(ctx context.Context) ([]*IlbamMatrix, error) {
	return s.store.Matrices().List(ctx)
}

// DeleteMatrix removes a matrix by its id.
func (s *Service) DeleteMatrix(ctx context.Context, id string) error {
	return s.store.Matrices().Delete(ctx, id)
}

// Recommendations ----------------------------------------------------------

// RecommendTeam scores active employees against the project's required
// skills using their competency matrices and persists the result. The
// top teamSize employees are recommended, the next teamSize listed as
// alternatives.
func (s *Service) RecommendTeam(ctx context.Context, projectID string, teamSize int) (*Recommendation, error) {
	if teamSize <= 0 {
		return nil, fmt.Errorf("%w: team size must be positive", ErrInvalidInput)
	}
	project, err := s.store.Projects().Find(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if len(project.RequiredSkills) == 0 {
		return nil, fmt.Errorf("%w: project has no required skills", ErrInvalidInput)
	}
	employees, err := s.store.Employees().List(ctx)
	if err != nil {
		return nil, err
	}

	type scored struct {
		employee *Employee
		score    int
		covered  []string
	}
	var candidates []scored
	for _, e := range employees {
		if e.Status != EmployeeActive {
			continue
		}
		var score int
		var covered []string
		for _, skill := range project.RequiredSkills {
			if rating, ok := e.CompetencyMatrix[skill]; ok && rating >= minRating {
				score += rating
				covered = append(covered, skill)
			}
		}
		if score > 0 {
			candidates = append(candidates, scored{employee: e, score: score, covered: covered})
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].employee.ID < candidates[j].employee.ID
	})

	rec := &Recommendation{
		ProjectID:  projectID,
		Reasonings: make(map[string]string),
	}
	maxScore := len(project.RequiredSkills) * maxRating
	var confidenceSum int
	for i, c := range candidates {
		if i < teamSize {
			rec.RecommendedIDs = append(rec.RecommendedIDs, c.employee.ID)
			rec.Reasonings[c.employee.ID] = fmt.Sprintf("covers %d of %d required skills (%s)",
				len(c.covered), len(project.RequiredSkills), strings.Join(c.covered, ", "))
			confidenceSum += c.score * 100 / maxScore
			continue
		}
		if i < 2*teamSize {
			rec.AlternativeIDs = append(rec.AlternativeIDs, c.employee.ID)
		}
	}
	if n := len(rec.RecommendedIDs); n > 0 {
		rec.ConfidenceScore = confidenceSum / n
	}

	if err := s.store.Recommendations().Create(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// RecommendationForProject returns the latest persisted suggestion.
func (s *Service) RecommendationForProject(ctx context.Context, projectID string) (*Recommendation, error) {
	return s.store.Recommendations().FindByProject(ctx, projectID)
}

// ListRecommendations returns all persisted suggestions.
func (s *Service) ListRecommendations(ctx context.Context) ([]*Recommendation, error) {
	return s.store.Recommendations().List(ctx)
}

// DeleteRecommendation removes a suggestion.
func (s *Service) DeleteRecommendation(ctx context.Context, id string) error {
	return s.store.Recommendations().Delete(ctx, id)
}
