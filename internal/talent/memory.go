package talent

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"talenthub.org/internal/ids"
)

// InMemory implements Store with in-process concurrency safety. Used in
// tests and when no database DSN is configured.
type InMemory struct {
	mu              sync.RWMutex
	employees       map[string]*Employee
	projects        map[string]*Project
	assignments     map[string]*Assignment
	matrices        map[string]*IlbamMatrix // keyed by employee id
	recommendations map[string]*Recommendation
}

var _ Store = (*InMemory)(nil)

// NewInMemory creates an empty store.
func NewInMemory() *InMemory {
	return &InMemory{
		employees:       make(map[string]*Employee),
		projects:        make(map[string]*Project),
		assignments:     make(map[string]*Assignment),
		matrices:        make(map[string]*IlbamMatrix),
		recommendations: make(map[string]*Recommendation),
	}
}

func (s *InMemory) Employees() EmployeeStore             { return (*memEmployees)(s) }
func (s *InMemory) Projects() ProjectStore               { return (*memProjects)(s) }
func (s *InMemory) Assignments() AssignmentStore         { return (*memAssignments)(s) }
func (s *InMemory) Matrices() MatrixStore                { return (*memMatrices)(s) }
func (s *InMemory) Recommendations() RecommendationStore { return (*memRecommendations)(s) }

// Employees ----------------------------------------------------------------

type memEmployees InMemory

func (s *memEmployees) Create(ctx context.Context, e *Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.employees {
		if strings.EqualFold(existing.Email, e.Email) {
			return ErrAlreadyExists
		}
	}
	if e.ID == "" {
		e.ID = ids.New()
	}
	cp := cloneEmployee(e)
	s.employees[e.ID] = cp
	return nil
}

func (s *memEmployees) Find(ctx context.Context, id string) (*Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.employees[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneEmployee(e), nil
}

func (s *memEmployees) FindByEmail(ctx context.Context, email string) (*Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.employees {
		if strings.EqualFold(e.Email, email) {
			return cloneEmployee(e), nil
		}
	}
	return nil, ErrNotFound
}

func (s *memEmployees) List(ctx context.Context) ([]*Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Employee, 0, len(s.employees))
	for _, e := range s.employees {
		out = append(out, cloneEmployee(e))
	}
	sortEmployees(out)
	return out, nil
}

func (s *memEmployees) ListByDepartment(ctx context.Context, department string) ([]*Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Employee
	for _, e := range s.employees {
		if strings.EqualFold(e.Department, department) {
			out = append(out, cloneEmployee(e))
		}
	}
	sortEmployees(out)
	return out, nil
}

func (s *memEmployees) Update(ctx context.Context, e *Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.employees[e.ID]; !ok {
		return ErrNotFound
	}
	s.employees[e.ID] = cloneEmployee(e)
	return nil
}

func (s *memEmployees) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.employees[id]; !ok {
		return ErrNotFound
	}
	delete(s.employees, id)
	delete(s.matrices, id)
	for aid, a := range s.assignments {
		if a.EmployeeID == id {
			delete(s.assignments, aid)
		}
	}
	return nil
}

// Projects -----------------------------------------------------------------

type memProjects InMemory

func (s *memProjects) Create(ctx context.Context, p *Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		p.ID = ids.New()
	}
	cp := cloneProject(p)
	s.projects[p.ID] = cp
	return nil
}

func (s *memProjects) Find(ctx context.Context, id string) (*Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.projects[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneProject(p), nil
}

func (s *memProjects) List(ctx context.Context) ([]*Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Project, 0, len(s.projects))
	for _, p := range s.projects {
		out = append(out, cloneProject(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *memProjects) Update(ctx context.Context, p *Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[p.ID]; !ok {
		return ErrNotFound
	}
	s.projects[p.ID] = cloneProject(p)
	return nil
}

func (s *memProjects) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[id]; !ok {
		return ErrNotFound
	}
	delete(s.projects, id)
	for aid, a := range s.assignments {
		if a.ProjectID == id {
			delete(s.assignments, aid)
		}
	}
	return nil
}

// Assignments --------------------------------------------------------------

type memAssignments InMemory

func (s *memAssignments) Create(ctx context.Context, a *Assignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID == "" {
		a.ID = ids.New()
	}
	cp := *a
	s.assignments[a.ID] = &cp
	return nil
}

func (s *memAssignments) Find(ctx context.Context, id string) (*Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.assignments[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (s *memAssignments) ListByProject(ctx context.Context, projectID string) ([]*Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Assignment
	for _, a := range s.assignments {
		if a.ProjectID == projectID {
			cp := *a
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memAssignments) ListByEmployee(ctx context.Context, employeeID string) ([]*Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Assignment
	for _, a := range s.assignments {
		if a.EmployeeID == employeeID {
			cp := *a
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memAssignments) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.assignments[id]; !ok {
		return ErrNotFound
	}
	delete(s.assignments, id)
	return nil
}

// Matrices -----------------------------------------------------------------

type memMatrices InMemory

func (s *memMatrices) Upsert(ctx context.Context, m *IlbamMatrix) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.matrices[m.EmployeeID]; ok {
		m.ID = existing.ID
	} else if m.ID == "" {
		m.ID = ids.New()
	}
	m.LastUpdated = time.Now().UTC()
	cp := *m
	s.matrices[m.EmployeeID] = &cp
	return nil
}

func (s *memMatrices) FindByEmployee(ctx context.Context, employeeID string) (*IlbamMatrix, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.matrices[employeeID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (s *memMatrices) List(ctx context.Context) ([]*IlbamMatrix, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*IlbamMatrix, 0, len(s.matrices))
	for _, m := range s.matrices {
		cp := *m
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeID < out[j].EmployeeID })
	return out, nil
}

func (s *memMatrices) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, m := range s.matrices {
		if m.ID == id {
			delete(s.matrices, key)
			return nil
		}
	}
	return ErrNotFound
}

// Recommendations ----------------------------------------------------------

type memRecommendations InMemory

func (s *memRecommendations) Create(ctx context.Context, r *Recommendation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.ID == "" {
		r.ID = ids.New()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	cp := cloneRecommendation(r)
	s.recommendations[r.ID] = cp
	return nil
}

func (s *memRecommendations) FindByProject(ctx context.Context, projectID string) (*Recommendation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var latest *Recommendation
	for _, r := range s.recommendations {
		if r.ProjectID != projectID {
			continue
		}
		if latest == nil || r.CreatedAt.After(latest.CreatedAt) {
			latest = r
		}
	}
	if latest == nil {
		return nil, ErrNotFound
	}
	return cloneRecommendation(latest), nil
}

func (s *memRecommendations) List(ctx context.Context) ([]*Recommendation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Recommendation, 0, len(s.recommendations))
	for _, r := range s.recommendations {
		out = append(out, cloneRecommendation(r))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *memRecommendations) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.recommendations[id]; !ok {
		return ErrNotFound
	}
	delete(s.recommendations, id)
	return nil
}

// clone helpers keep callers from sharing internal map state.

func cloneEmployee(e *Employee) *Employee {
	cp := *e
	if e.CompetencyMatrix != nil {
		cp.CompetencyMatrix = make(map[string]int, len(e.CompetencyMatrix))
		for k, v := range e.CompetencyMatrix {
			cp.CompetencyMatrix[k] = v
		}
	}
	if e.RetentionMatrix != nil {
		cp.RetentionMatrix = make(map[string]int, len(e.RetentionMatrix))
		for k, v := range e.RetentionMatrix {
			cp.RetentionMatrix[k] = v
		}
	}
	return &cp
}

func cloneProject(p *Project) *Project {
	cp := *p
	if p.RequiredSkills != nil {
		cp.RequiredSkills = append([]string(nil), p.RequiredSkills...)
	}
	return &cp
}

func cloneRecommendation(r *Recommendation) *Recommendation {
	cp := *r
	cp.RecommendedIDs = append([]string(nil), r.RecommendedIDs...)
	cp.AlternativeIDs = append([]string(nil), r.AlternativeIDs...)
	if r.Reasonings != nil {
		cp.Reasonings = make(map[string]string, len(r.Reasonings))
		for k, v := range r.Reasonings {
			cp.Reasonings[k] = v
		}
	}
	return &cp
}

func sortEmployees(list []*Employee) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].LastName != list[j].LastName {
			return list[i].LastName < list[j].LastName
		}
		return list[i].ID < list[j].ID
	})
}
