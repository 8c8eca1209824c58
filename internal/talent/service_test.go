package talent

import (
	"context"
	"errors"
	"testing"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc, err := NewService(NewInMemory())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func mustEmployee(t *testing.T, svc *Service, e *Employee) *Employee {
	t.Helper()
	created, err := svc.CreateEmployee(context.Background(), e)
	if err != nil {
		t.Fatalf("CreateEmployee(%s): %v", e.Email, err)
	}
	return created
}

func mustProject(t *testing.T, svc *Service, p *Project) *Project {
	t.Helper()
	created, err := svc.CreateProject(context.Background(), p)
	if err != nil {
		t.Fatalf("CreateProject(%s): %v", p.Name, err)
	}
	return created
}

func TestCreateEmployeeValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	cases := map[string]*Employee{
		"missing name":    {Email: "e@x.com"},
		"missing email":   {FirstName: "A", LastName: "B"},
		"malformed email": {FirstName: "A", LastName: "B", Email: "nope"},
		"bad status":      {FirstName: "A", LastName: "B", Email: "e@x.com", Status: "gone"},
		"rating too high": {FirstName: "A", LastName: "B", Email: "e@x.com", CompetencyMatrix: map[string]int{"go": 9}},
		"rating too low":  {FirstName: "A", LastName: "B", Email: "e@x.com", RetentionMatrix: map[string]int{"pay": 0}},
	}
	for name, e := range cases {
		if _, err := svc.CreateEmployee(ctx, e); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("%s: expected ErrInvalidInput, got %v", name, err)
		}
	}
}

func TestCreateEmployeeDefaultsAndDuplicate(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created := mustEmployee(t, svc, &Employee{
		FirstName: "Alice", LastName: "Liddell", Email: "Alice@X.com",
		CompetencyMatrix: map[string]int{"go": 4},
	})
	if created.ID == "" || created.Status != EmployeeActive {
		t.Fatalf("unexpected employee: %+v", created)
	}
	if created.Email != "alice@x.com" {
		t.Fatalf("email not normalized: %s", created.Email)
	}

	_, err := svc.CreateEmployee(ctx, &Employee{FirstName: "A", LastName: "L", Email: "alice@x.com"})
	if !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestListEmployeesByDepartment(t *testing.T) {
	svc := newTestService(t)
	mustEmployee(t, svc, &Employee{FirstName: "A", LastName: "A", Email: "a@x.com", Department: "Platform"})
	mustEmployee(t, svc, &Employee{FirstName: "B", LastName: "B", Email: "b@x.com", Department: "Data"})

	platform, err := svc.ListEmployees(context.Background(), "platform")
	if err != nil {
		t.Fatalf("ListEmployees: %v", err)
	}
	if len(platform) != 1 || platform[0].Email != "a@x.com" {
		t.Fatalf("unexpected department filter result: %+v", platform)
	}

	all, err := svc.ListEmployees(context.Background(), "")
	if err != nil {
		t.Fatalf("ListEmployees: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 employees, got %d", len(all))
	}
}

func TestAssignEnforcesUtilizationBudget(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	emp := mustEmployee(t, svc, &Employee{FirstName: "A", LastName: "A", Email: "a@x.com"})
	first := mustProject(t, svc, &Project{Name: "Apollo"})
	second := mustProject(t, svc, &Project{Name: "Borealis"})

	if _, err := svc.Assign(ctx, &Assignment{ProjectID: first.ID, EmployeeID: emp.ID, Utilization: 60}); err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if _, err := svc.Assign(ctx, &Assignment{ProjectID: second.ID, EmployeeID: emp.ID, Utilization: 50}); !errors.Is(err, ErrOverAllocated) {
		t.Fatalf("expected ErrOverAllocated, got %v", err)
	}
	if _, err := svc.Assign(ctx, &Assignment{ProjectID: second.ID, EmployeeID: emp.ID, Utilization: 40}); err != nil {
		t.Fatalf("Assign within budget: %v", err)
	}

	placements, err := svc.EmployeeAssignments(ctx, emp.ID)
	if err != nil {
		t.Fatalf("EmployeeAssignments: %v", err)
	}
	if len(placements) != 2 {
		t.Fatalf("expected 2 assignments, got %d", len(placements))
	}
}

func TestAssignRequiresExistingRecords(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	emp := mustEmployee(t, svc, &Employee{FirstName: "A", LastName: "A", Email: "a@x.com"})

	_, err := svc.Assign(ctx, &Assignment{ProjectID: "missing", EmployeeID: emp.ID, Utilization: 10})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing project, got %v", err)
	}
	_, err = svc.Assign(ctx, &Assignment{ProjectID: "whatever", EmployeeID: "missing", Utilization: 10})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing employee, got %v", err)
	}
}

func TestUpsertMatrixReplacesExisting(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	emp := mustEmployee(t, svc, &Employee{FirstName: "A", LastName: "A", Email: "a@x.com"})

	first, err := svc.UpsertMatrix(ctx, &IlbamMatrix{
		EmployeeID: emp.ID, BusinessUnderstanding: 3, Leadership: 3,
		InnovationCapability: 3, Teamwork: 3, Adaptability: 3, Motivation: 3,
		UpdatedBy: "hr@x.com",
	})
	if err != nil {
		t.Fatalf("UpsertMatrix: %v", err)
	}

	second, err := svc.UpsertMatrix(ctx, &IlbamMatrix{
		EmployeeID: emp.ID, BusinessUnderstanding: 5, Leadership: 4,
		InnovationCapability: 4, Teamwork: 4, Adaptability: 4, Motivation: 4,
		UpdatedBy: "hr@x.com",
	})
	if err != nil {
		t.Fatalf("UpsertMatrix replace: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("upsert must keep the original id: %s vs %s", second.ID, first.ID)
	}

	got, err := svc.MatrixForEmployee(ctx, emp.ID)
	if err != nil {
		t.Fatalf("MatrixForEmployee: %v", err)
	}
	if got.BusinessUnderstanding != 5 {
		t.Fatalf("matrix not replaced: %+v", got)
	}
}

func TestUpsertMatrixValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	emp := mustEmployee(t, svc, &Employee{FirstName: "A", LastName: "A", Email: "a@x.com"})

	_, err := svc.UpsertMatrix(ctx, &IlbamMatrix{EmployeeID: emp.ID, BusinessUnderstanding: 6,
		Leadership: 3, InnovationCapability: 3, Teamwork: 3, Adaptability: 3, Motivation: 3})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	_, err = svc.UpsertMatrix(ctx, &IlbamMatrix{EmployeeID: "missing", BusinessUnderstanding: 3,
		Leadership: 3, InnovationCapability: 3, Teamwork: 3, Adaptability: 3, Motivation: 3})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRecommendTeamScoresBySkillCoverage(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	strong := mustEmployee(t, svc, &Employee{FirstName: "A", LastName: "A", Email: "a@x.com",
		CompetencyMatrix: map[string]int{"go": 5, "sql": 5}})
	weak := mustEmployee(t, svc, &Employee{FirstName: "B", LastName: "B", Email: "b@x.com",
		CompetencyMatrix: map[string]int{"go": 2}})
	mustEmployee(t, svc, &Employee{FirstName: "C", LastName: "C", Email: "c@x.com",
		Status: EmployeeDeparted, CompetencyMatrix: map[string]int{"go": 5, "sql": 5}})
	mustEmployee(t, svc, &Employee{FirstName: "D", LastName: "D", Email: "d@x.com",
		CompetencyMatrix: map[string]int{"cobol": 5}})

	project := mustProject(t, svc, &Project{Name: "Apollo", RequiredSkills: []string{"go", "sql"}})

	rec, err := svc.RecommendTeam(ctx, project.ID, 1)
	if err != nil {
		t.Fatalf("RecommendTeam: %v", err)
	}
	if len(rec.RecommendedIDs) != 1 || rec.RecommendedIDs[0] != strong.ID {
		t.Fatalf("unexpected recommendation: %+v", rec)
	}
	if len(rec.AlternativeIDs) != 1 || rec.AlternativeIDs[0] != weak.ID {
		t.Fatalf("unexpected alternatives: %+v", rec)
	}
	if rec.ConfidenceScore != 100 {
		t.Fatalf("expected full confidence for complete coverage, got %d", rec.ConfidenceScore)
	}
	if rec.Reasonings[strong.ID] == "" {
		t.Fatal("expected reasoning for recommended employee")
	}

	latest, err := svc.RecommendationForProject(ctx, project.ID)
	if err != nil {
		t.Fatalf("RecommendationForProject: %v", err)
	}
	if latest.ID != rec.ID {
		t.Fatalf("recommendation not persisted: %+v", latest)
	}
}

func TestRecommendTeamRequiresSkills(t *testing.T) {
	svc := newTestService(t)
	project := mustProject(t, svc, &Project{Name: "Apollo"})
	if _, err := svc.RecommendTeam(context.Background(), project.ID, 3); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestDeleteEmployeeCascades(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	emp := mustEmployee(t, svc, &Employee{FirstName: "A", LastName: "A", Email: "a@x.com"})
	project := mustProject(t, svc, &Project{Name: "Apollo"})
	if _, err := svc.Assign(ctx, &Assignment{ProjectID: project.ID, EmployeeID: emp.ID, Utilization: 50}); err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if _, err := svc.UpsertMatrix(ctx, &IlbamMatrix{EmployeeID: emp.ID, BusinessUnderstanding: 3,
		Leadership: 3, InnovationCapability: 3, Teamwork: 3, Adaptability: 3, Motivation: 3}); err != nil {
		t.Fatalf("UpsertMatrix: %v", err)
	}

	if err := svc.DeleteEmployee(ctx, emp.ID); err != nil {
		t.Fatalf("DeleteEmployee: %v", err)
	}
	if _, err := svc.MatrixForEmployee(ctx, emp.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("matrix must be removed with the employee, got %v", err)
	}
	placements, err := svc.ProjectAssignments(ctx, project.ID)
	if err != nil {
		t.Fatalf("ProjectAssignments: %v", err)
	}
	if len(placements) != 0 {
		t.Fatalf("assignments must be removed with the employee: %+v", placements)
	}
}
