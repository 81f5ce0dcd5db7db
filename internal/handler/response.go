package handler

import (
	"errors"
	"log"
	"strconv"

	"devmarket/internal/middleware"
	"devmarket/internal/model"
	"devmarket/internal/service"
	"devmarket/pkg/storage"
	"devmarket/pkg/validator"

	"github.com/gofiber/fiber/v2"
)

// errorStatus maps domain errors to HTTP status codes
var errorStatus = []struct {
	err    error
	status int
}{
	{service.ErrInvalidCredentials, fiber.StatusUnauthorized},
	{service.ErrSessionReplaced, fiber.StatusUnauthorized},
	{service.ErrUserInactive, fiber.StatusUnauthorized},

	{service.ErrForbidden, fiber.StatusForbidden},
	{service.ErrDownloadDenied, fiber.StatusForbidden},
	{service.ErrSellerNotApproved, fiber.StatusForbidden},

	{service.ErrNotFound, fiber.StatusNotFound},
	{service.ErrUserNotFound, fiber.StatusNotFound},
	{service.ErrProductNotFound, fiber.StatusNotFound},
	{service.ErrNoSourceFile, fiber.StatusNotFound},

	{service.ErrConflict, fiber.StatusConflict},
	{service.ErrEmailExists, fiber.StatusConflict},
	{service.ErrUsernameExists, fiber.StatusConflict},
	{service.ErrUserHasRecords, fiber.StatusConflict},
	{service.ErrCategoryExists, fiber.StatusConflict},
	{service.ErrCategoryInUse, fiber.StatusConflict},
	{service.ErrProductNotAvailable, fiber.StatusConflict},
	{service.ErrProductHasOrders, fiber.StatusConflict},
	{service.ErrAccessRequestExists, fiber.StatusConflict},

	{service.ErrWrongPassword, fiber.StatusBadRequest},
	{service.ErrWeakPassword, fiber.StatusBadRequest},
	{service.ErrInvalidRole, fiber.StatusBadRequest},
	{service.ErrCannotDeleteSelf, fiber.StatusBadRequest},
	{service.ErrInvalidTransition, fiber.StatusBadRequest},
	{service.ErrOwnProduct, fiber.StatusBadRequest},
	{service.ErrInvalidDecision, fiber.StatusBadRequest},
	{service.ErrPaymentNotConfirmed, fiber.StatusBadRequest},
	{service.ErrInvalidPayment, fiber.StatusBadRequest},
	{service.ErrEmptyMessage, fiber.StatusBadRequest},
	{service.ErrMessageSelf, fiber.StatusBadRequest},
	{service.ErrInvalidStatus, fiber.StatusBadRequest},
	{service.ErrInvalidSetting, fiber.StatusBadRequest},
	{validator.ErrValidation, fiber.StatusBadRequest},
	{storage.ErrExtensionNotAllowed, fiber.StatusBadRequest},
}

func statusFor(err error) int {
	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			return e.status
		}
	}
	return fiber.StatusInternalServerError
}

// fail writes err as {"error": ...}. Unknown errors are logged and hidden from the client.
func fail(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		log.Printf("Error on %s %s: %v", c.Method(), c.Path(), err)
		if errors.Is(err, service.ErrCheckoutFailed) {
			return c.Status(status).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(status).JSON(fiber.Map{"error": "Internal server error"})
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

func paramID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid " + name)
	}
	return uint(id), nil
}

func queryUint(c *fiber.Ctx, name string) uint {
	v, err := strconv.ParseUint(c.Query(name), 10, 64)
	if err != nil {
		return 0
	}
	return uint(v)
}

// actor is only called behind RequireAuth, which guarantees the value
func actor(c *fiber.Ctx) model.Actor {
	a, _ := middleware.CurrentActor(c)
	return a
}
