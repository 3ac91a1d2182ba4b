package handlers

import (
	"github.com/gofiber/fiber/v2"

	"inspection-api/domain/dto"
	"inspection-api/domain/services"
	"inspection-api/interfaces/api/middleware"
	"inspection-api/pkg/utils"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "User not authenticated")
	}

	profile, err := h.userService.GetProfile(c.UserContext(), user.ID)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, "Profile retrieved successfully", profile)
}

// CompleteProfile stores signup details; the account then waits for approval
func (h *UserHandler) CompleteProfile(c *fiber.Ctx) error {
	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "User not authenticated")
	}

	var req dto.CompleteProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ValidationErrorResponse(c, "Invalid request body")
	}

	profile, err := h.userService.CompleteProfile(c.UserContext(), user.ID, &req)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, "Profile completed, awaiting approval", profile)
}

func (h *UserHandler) ListMembers(c *fiber.Ctx) error {
	members, err := h.userService.ListMembers(c.UserContext(), c.Query("user_type"))
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, "Members retrieved successfully", members)
}

func (h *UserHandler) ChangeRole(c *fiber.Ctx) error {
	actor, err := middleware.RequesterFrom(c)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	userID, ok := paramID(c, "id")
	if !ok {
		return utils.ValidationErrorResponse(c, "Invalid user ID")
	}

	var req dto.ChangeRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ValidationErrorResponse(c, "Invalid request body")
	}

	user, err := h.userService.ChangeRole(c.UserContext(), actor, userID, req.UserType)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, "Role updated successfully", user)
}

func (h *UserHandler) DeactivateMember(c *fiber.Ctx) error {
	actor, err := middleware.RequesterFrom(c)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	userID, ok := paramID(c, "id")
	if !ok {
		return utils.ValidationErrorResponse(c, "Invalid user ID")
	}

	if err := h.userService.DeactivateMember(c.UserContext(), actor, userID); err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, "Member deactivated", nil)
}

func (h *UserHandler) ListPending(c *fiber.Ctx) error {
	users, err := h.userService.ListPending(c.UserContext())
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, "Pending users retrieved successfully", users)
}

// DecideApproval approves or rejects a pending signup
func (h *UserHandler) DecideApproval(c *fiber.Ctx) error {
	actor, err := middleware.RequesterFrom(c)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	userID, ok := paramID(c, "id")
	if !ok {
		return utils.ValidationErrorResponse(c, "Invalid user ID")
	}

	var req dto.ApprovalRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ValidationErrorResponse(c, "Invalid request body")
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return utils.AppErrorResponse(c, err)
	}

	user, err := h.userService.DecideApproval(c.UserContext(), actor, userID, req.Action == "approve")
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, "Approval recorded", user)
}
