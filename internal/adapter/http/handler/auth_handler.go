package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/fxdesk/cashdesk/internal/adapter/http/dto"
	"github.com/fxdesk/cashdesk/internal/domain"
	"github.com/fxdesk/cashdesk/internal/infrastructure/auth"
	"github.com/fxdesk/cashdesk/internal/usecase"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	employeeRepo usecase.EmployeeRepository
	auditRepo    usecase.AuditRepository
	jwtManager   *auth.JWTManager
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(employeeRepo usecase.EmployeeRepository, auditRepo usecase.AuditRepository, jwtManager *auth.JWTManager) *AuthHandler {
	return &AuthHandler{
		employeeRepo: employeeRepo,
		auditRepo:    auditRepo,
		jwtManager:   jwtManager,
	}
}

// Login authenticates an employee and issues a JWT.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required", "")
		return
	}

	employee, err := h.employeeRepo.GetByEmail(r.Context(), req.Email)
	if err != nil {
		// Same response for unknown email and wrong password.
		writeError(w, http.StatusUnauthorized, "invalid credentials", "")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(employee.HashedPassword), []byte(req.Password)); err != nil {
		writeError(w, http.StatusUnauthorized, "invalid credentials", "")
		return
	}

	if !employee.Active {
		writeError(w, http.StatusForbidden, "account is deactivated", "")
		return
	}

	token, err := h.jwtManager.Generate(employee)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate token", err.Error())
		return
	}

	if err := h.auditRepo.Create(r.Context(), &domain.AuditLog{
		ActorID:      employee.ID,
		Action:       string(domain.AuditActionEmployeeLogin),
		ResourceType: "employee",
		ResourceID:   employee.ID,
		Severity:     domain.AuditSeverityInfo,
		CreatedAt:    time.Now().UTC(),
	}); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to record login", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.LoginResponse{
		Token: token,
		Employee: dto.EmployeeInfo{
			ID:    employee.ID,
			Email: employee.Email,
			Name:  employee.Name,
			Role:  string(employee.Role),
		},
	})
}
