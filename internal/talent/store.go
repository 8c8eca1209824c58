package talent

import "context"

// Store describes persistence operations for the talent domain.
type Store interface {
	Employees() EmployeeStore
	Projects() ProjectStore
	Assignments() AssignmentStore
	Matrices() MatrixStore
	Recommendations() RecommendationStore
}

// EmployeeStore manages employee records.
type EmployeeStore interface {
	Create(ctx context.Context, e *Employee) error
	Find(ctx context.Context, id string) (*Employee, error)
	FindByEmail(ctx context.Context, email string) (*Employee, error)
	List(ctx context.Context) ([]*Employee, error)
	ListByDepartment(ctx context.Context, department string) ([]*Employee, error)
	Update(ctx context.Context, e *Employee) error
	Delete(ctx context.Context, id string) error
}

// ProjectStore manages projects.
type ProjectStore interface {
	Create(ctx context.Context, p *Project) error
	Find(ctx context.Context, id string) (*Project, error)
	List(ctx context.Context) ([]*Project, error)
	Update(ctx context.Context, p *Project) error
	Delete(ctx context.Context, id string) error
}

// AssignmentStore manages employee placements on projects.
type AssignmentStore interface {
	Create(ctx context.Context, a *Assignment) error
	Find(ctx context.Context, id string) (*Assignment, error)
	ListByProject(ctx context.Context, projectID string) ([]*Assignment, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]*Assignment, error)
	Delete(ctx context.Context, id string) error
}

// MatrixStore manages ILBAM matrices, one per employee.
type MatrixStore interface {
	Upsert(ctx context.Context, m *IlbamMatrix) error
	FindByEmployee(ctx context.Context, employeeID string) (*IlbamMatrix, error)
	List(ctx context.Context) ([]*IlbamMatrix, error)
	Delete(ctx context.Context, id string) error
}

// RecommendationStore manages persisted staffing suggestions.
type RecommendationStore interface {
	Create(ctx context.Context, r *Recommendation) error
	FindByProject(ctx context.Context, projectID string) (*Recommendation, error)
	List(ctx context.Context) ([]*Recommendation, error)
	Delete(ctx context.Context, id string) error
}
