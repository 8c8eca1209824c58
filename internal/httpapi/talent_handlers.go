package httpapi

import (
	"net/http"
	"strings"

	"talenthub.org/internal/audit"
	"talenthub.org/internal/auth"
	"talenthub.org/internal/talent"
)

// Employees ------------------------------------------------------------------

func (a *API) handleEmployeesCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		list, err := a.talent.ListEmployees(r.Context(), r.URL.Query().Get("department"))
		if err != nil {
			handleDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": list})
	case http.MethodPost:
		var req talent.Employee
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		created, err := a.talent.CreateEmployee(r.Context(), &req)
		if err != nil {
			handleDomainError(w, r, err)
			return
		}
		a.publish(r.Context(), "employee.create", "employee", created.ID)
		_ = audit.LogEvent(r.Context(), "talent.employee.create", map[string]any{
			"employee_id": created.ID,
			"email":       created.Email,
		})
		w.Header().Set("Location", "/v1/employees/"+created.ID)
		writeJSON(w, http.StatusCreated, created)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) handleEmployeeResource(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/v1/employees/")
	if path == "" {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}

	if id, ok := strings.CutSuffix(path, "/assignments"); ok {
		if r.Method != http.MethodGet {
			methodNotAllowed(w, r, http.MethodGet)
			return
		}
		list, err := a.talent.EmployeeAssignments(r.Context(), id)
		if err != nil {
			handleDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": list})
		return
	}
	if id, ok := strings.CutSuffix(path, "/ilbam"); ok {
		a.handleEmployeeMatrix(w, r, id)
		return
	}
	if strings.Contains(path, "/") {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		emp, err := a.talent.GetEmployee(r.Context(), path)
		if err != nil {
			handleDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, emp)
	case http.MethodPut:
		var req talent.Employee
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		req.ID = path
		updated, err := a.talent.UpdateEmployee(r.Context(), &req)
		if err != nil {
			handleDomainError(w, r, err)
			return
		}
		a.publish(r.Context(), "employee.update", "employee", updated.ID)
		writeJSON(w, http.StatusOK, updated)
	case http.MethodDelete:
		if err := a.talent.DeleteEmployee(r.Context(), path); err != nil {
			handleDomainError(w, r, err)
			return
		}
		a.publish(r.Context(), "employee.delete", "employee", path)
		_ = audit.LogEvent(r.Context(), "talent.employee.delete", map[string]any{
			"employee_id": path,
		})
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}

func (a *API) handleEmployeeMatrix(w http.ResponseWriter, r *http.Request, employeeID string) {
	switch r.Method {
	case http.MethodGet:
		m, err := a.talent.MatrixForEmployee(r.Context(), employeeID)
		if err != nil {
			handleDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, m)
	case http.MethodPut:
		var req talent.IlbamMatrix
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		req.EmployeeID = employeeID
		if identity, ok := auth.IdentityFromContext(r.Context()); ok && req.UpdatedBy == "" {
			req.UpdatedBy = identity.Email
		}
		saved, err := a.talent.UpsertMatrix(r.Context(), &req)
		if err != nil {
			handleDomainError(w, r, err)
			return
		}
		a.publish(r.Context(), "ilbam.upsert", "employee", employeeID)
		writeJSON(w, http.StatusOK, saved)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPut)
	}
}

// Projects -------------------------------------------------------------------

type recommendRequest struct {
	TeamSize int `json:"team_size"`
}

func (a *API) handleProjectsCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		list, err := a.talent.ListProjects(r.Context())
		if err != nil {
			handleDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": list})
	case http.MethodPost:
		var req talent.Project
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		created, err := a.talent.CreateProject(r.Context(), &req)
		if err != nil {
			handleDomainError(w, r, err)
			return
		}
		a.publish(r.Context(), "project.create", "project", created.ID)
		_ = audit.LogEvent(r.Context(), "talent.project.create", map[string]any{
			"project_id": created.ID,
			"name":       created.Name,
		})
		w.Header().Set("Location", "/v1/projects/"+created.ID)
		writeJSON(w, http.StatusCreated, created)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) handleProjectResource(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/v1/projects/")
	if path == "" {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}

	if id, ok := strings.CutSuffix(path, "/assignments"); ok {
		if r.Method != http.MethodGet {
			methodNotAllowed(w, r, http.MethodGet)
			return
		}
		list, err := a.talent.ProjectAssignments(r.Context(), id)
		if err != nil {
			handleDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": list})
		return
	}
	if id, ok := strings.CutSuffix(path, "/recommendation"); ok {
		if r.Method != http.MethodGet {
			methodNotAllowed(w, r, http.MethodGet)
			return
		}
		rec, err := a.talent.RecommendationForProject(r.Context(), id)
		if err != nil {
			handleDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, rec)
		return
	}
	if id, ok := strings.CutSuffix(path, "/recommend"); ok {
		a.recommendTeam(w, r, id)
		return
	}
	if strings.Contains(path, "/") {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		p, err := a.talent.GetProject(r.Context(), path)
		if err != nil {
			handleDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	case http.MethodPut:
		var req talent.Project
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		req.ID = path
		updated, err := a.talent.UpdateProject(r.Context(), &req)
		if err != nil {
			handleDomainError(w, r, err)
			return
		}
		a.publish(r.Context(), "project.update", "project", updated.ID)
		writeJSON(w, http.StatusOK, updated)
	case http.MethodDelete:
		if err := a.talent.DeleteProject(r.Context(), path); err != nil {
			handleDomainError(w, r, err)
			return
		}
		a.publish(r.Context(), "project.delete", "project", path)
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}

func (a *API) recommendTeam(w http.ResponseWriter, r *http.Request, projectID string) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var req recommendRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	rec, err := a.talent.RecommendTeam(r.Context(), projectID, req.TeamSize)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}

	a.publish(r.Context(), "recommendation.create", "project", projectID)
	_ = audit.LogEvent(r.Context(), "talent.recommend", map[string]any{
		"project_id": projectID,
		"team_size":  req.TeamSize,
	})
	writeJSON(w, http.StatusCreated, rec)
}

// Assignments ----------------------------------------------------------------

func (a *API) handleAssignmentsCollection(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var req talent.Assignment
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	created, err := a.talent.Assign(r.Context(), &req)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}

	a.publish(r.Context(), "assignment.create", "assignment", created.ID)
	_ = audit.LogEvent(r.Context(), "talent.assign", map[string]any{
		"assignment_id": created.ID,
		"project_id":    created.ProjectID,
		"employee_id":   created.EmployeeID,
		"utilization":   created.Utilization,
	})
	w.Header().Set("Location", "/v1/assignments/"+created.ID)
	writeJSON(w, http.StatusCreated, created)
}

func (a *API) handleAssignmentResource(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/v1/assignments/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	if r.Method != http.MethodDelete {
		methodNotAllowed(w, r, http.MethodDelete)
		return
	}

	if err := a.talent.Unassign(r.Context(), id); err != nil {
		handleDomainError(w, r, err)
		return
	}
	a.publish(r.Context(), "assignment.delete", "assignment", id)
	w.WriteHeader(http.StatusNoContent)
}

// Matrices -------------------------------------------------------------------

func (a *API) handleMatricesCollection(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	list, err := a.talent.ListMatrices(r.Context())
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": list})
}
