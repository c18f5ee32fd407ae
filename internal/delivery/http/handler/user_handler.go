package handler

import (
	"context"
	"net/http"
	"strconv"

	"beauty-center-backend/internal/delivery/dto"
	"beauty-center-backend/internal/usecase"
	"beauty-center-backend/pkg/response"
	"beauty-center-backend/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type UserHandler struct {
	userUsecase usecase.UserUsecase
	validator   *validator.CustomValidator
}

func NewUserHandler(userUsecase usecase.UserUsecase, validator *validator.CustomValidator) *UserHandler {
	return &UserHandler{
		userUsecase: userUsecase,
		validator:   validator,
	}
}

// Create handles user creation by an administrator
// @Summary Create a user
// @Tags Users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateUserRequest true "Create User Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /users [post]
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateUserRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	user, err := h.userUsecase.Create(r.Context(), &req)
	if err != nil {
		writeError(w, err, "Failed to create user")
		return
	}

	response.Success(w, http.StatusCreated, "User created successfully", user)
}

// GetAll handles listing users
// @Summary List users
// @Tags Users
// @Security BearerAuth
// @Produce json
// @Param role_id query int false "Role ID"
// @Param company_id query string false "Company ID"
// @Success 200 {object} response.Response
// @Router /users [get]
func (h *UserHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	companyID, err := queryUUID(r, "company_id")
	if err != nil {
		response.BadRequest(w, "Invalid company_id")
		return
	}

	query := dto.UserQuery{
		PageQuery: pageQuery(r),
		CompanyID: companyID,
	}
	if raw := r.URL.Query().Get("role_id"); raw != "" {
		roleID, err := strconv.Atoi(raw)
		if err != nil {
			response.BadRequest(w, "Invalid role_id")
			return
		}
		query.RoleID = &roleID
	}

	users, total, err := h.userUsecase.GetAll(r.Context(), query)
	if err != nil {
		response.InternalServerError(w, "Failed to get users")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Users retrieved successfully", users, pageMeta(query.PageQuery, total))
}

func (h *UserHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "user")
	if !ok {
		return
	}

	user, err := h.userUsecase.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err, "Failed to get user")
		return
	}

	response.Success(w, http.StatusOK, "User retrieved successfully", user)
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "user")
	if !ok {
		return
	}

	var req dto.UpdateUserRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	user, err := h.userUsecase.Update(r.Context(), id, &req)
	if err != nil {
		writeError(w, err, "Failed to update user")
		return
	}

	response.Success(w, http.StatusOK, "User updated successfully", user)
}

// ChangePassword handles password changes
// @Summary Change a user's password
// @Description Users change their own password with the old one; admins may reset any password
// @Tags Users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body dto.ChangePasswordRequest true "Change Password Request"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /users/{id}/password [put]
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "user")
	if !ok {
		return
	}

	var req dto.ChangePasswordRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	if err := h.userUsecase.ChangePassword(r.Context(), id, &req); err != nil {
		writeError(w, err, "Failed to change password")
		return
	}

	response.Success(w, http.StatusOK, "Password changed successfully", nil)
}

func (h *UserHandler) AddRole(w http.ResponseWriter, r *http.Request) {
	h.changeRole(w, r, h.userUsecase.AddRole, "Role added successfully")
}

func (h *UserHandler) RemoveRole(w http.ResponseWriter, r *http.Request) {
	h.changeRole(w, r, h.userUsecase.RemoveRole, "Role removed successfully")
}

func (h *UserHandler) changeRole(
	w http.ResponseWriter,
	r *http.Request,
	change func(ctx context.Context, id uuid.UUID, roleID int) (*dto.UserResponse, error),
	message string,
) {
	id, ok := pathUUID(w, r, "id", "user")
	if !ok {
		return
	}

	roleID, err := strconv.Atoi(mux.Vars(r)["roleId"])
	if err != nil {
		response.BadRequest(w, "Invalid role ID")
		return
	}

	user, err := change(r.Context(), id, roleID)
	if err != nil {
		writeError(w, err, "Failed to change user roles")
		return
	}

	response.Success(w, http.StatusOK, message, user)
}

func (h *UserHandler) Activate(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, true)
}

func (h *UserHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, false)
}

func (h *UserHandler) setActive(w http.ResponseWriter, r *http.Request, active bool) {
	id, ok := pathUUID(w, r, "id", "user")
	if !ok {
		return
	}

	user, err := h.userUsecase.SetActive(r.Context(), id, active)
	if err != nil {
		writeError(w, err, "Failed to update user")
		return
	}

	response.Success(w, http.StatusOK, "User updated successfully", user)
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "user")
	if !ok {
		return
	}

	if err := h.userUsecase.Delete(r.Context(), id); err != nil {
		writeError(w, err, "Failed to delete user")
		return
	}

	response.Success(w, http.StatusOK, "User deleted successfully", nil)
}
