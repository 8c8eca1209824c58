// Package talent holds the workforce domain: employees with skill and
// retention matrices, projects, assignments, ILBAM matrices and team
// recommendations.
package talent

import "time"

// EmployeeStatus tracks whether an employee is on board.
type EmployeeStatus string

const (
	EmployeeActive   EmployeeStatus = "active"
	EmployeeOnNotice EmployeeStatus = "on_notice"
	EmployeeDeparted EmployeeStatus = "departed"
)

// Employee is a workforce record. CompetencyMatrix maps skill name to a
// 1..5 rating; RetentionMatrix maps retention factor to a 1..5 rating.
type Employee struct {
	ID                string         `json:"id"`
	EmployeeID        string         `json:"employee_id"`
	FirstName         string         `json:"first_name"`
	LastName          string         `json:"last_name"`
	Email             string         `json:"email"`
	Department        string         `json:"department"`
	Position          string         `json:"position"`
	Location          string         `json:"location"`
	ManagerID         string         `json:"manager_id,omitempty"`
	MentorID          string         `json:"mentor_id,omitempty"`
	HireDate          *time.Time     `json:"hire_date,omitempty"`
	Status            EmployeeStatus `json:"status"`
	ExpectedDeparture *time.Time     `json:"expected_departure,omitempty"`
	CompetencyMatrix  map[string]int `json:"competency_matrix,omitempty"`
	RetentionMatrix   map[string]int `json:"retention_matrix,omitempty"`
}

// ProjectStatus is the delivery state of a project.
type ProjectStatus string

const (
	ProjectPlanning  ProjectStatus = "planning"
	ProjectActive    ProjectStatus = "active"
	ProjectOnHold    ProjectStatus = "on_hold"
	ProjectCompleted ProjectStatus = "completed"
)

// Project groups assignments and the skills it requires.
type Project struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	Description    string        `json:"description,omitempty"`
	StartDate      *time.Time    `json:"start_date,omitempty"`
	EndDate        *time.Time    `json:"end_date,omitempty"`
	Status         ProjectStatus `json:"status"`
	RequiredSkills []string      `json:"required_skills,omitempty"`
}

// Assignment places an employee on a project with a utilization share.
type Assignment struct {
	ID          string     `json:"id"`
	ProjectID   string     `json:"project_id"`
	EmployeeID  string     `json:"employee_id"`
	Role        string     `json:"role,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	Utilization int        `json:"utilization_percentage"`
}

// IlbamMatrix is the behavioral assessment sheet, one per employee.
// Dimension ratings are 1..5.
type IlbamMatrix struct {
	ID                    string    `json:"id"`
	EmployeeID            string    `json:"employee_id"`
	BusinessUnderstanding int       `json:"business_understanding"`
	Leadership            int       `json:"leadership"`
	InnovationCapability  int       `json:"innovation_capability"`
	Teamwork              int       `json:"teamwork"`
	Adaptability          int       `json:"adaptability"`
	Motivation            int       `json:"motivation"`
	LastUpdated           time.Time `json:"last_updated"`
	UpdatedBy             string    `json:"updated_by,omitempty"`
}

// Recommendation is a persisted staffing suggestion for a project.
type Recommendation struct {
	ID              string            `json:"id"`
	ProjectID       string            `json:"project_id"`
	RecommendedIDs  []string          `json:"recommended_employee_ids"`
	AlternativeIDs  []string          `json:"alternative_employee_ids,omitempty"`
	Reasonings      map[string]string `json:"reasonings,omitempty"`
	ConfidenceScore int               `json:"confidence_score"`
	CreatedAt       time.Time         `json:"created_at"`
}
