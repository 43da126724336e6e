package session

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/start", authMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		if userID == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "user_id missing")
		}
		sess, err := svc.Start(c.Context(), userID)
		if err != nil {
			if errors.Is(err, ErrActiveSessionExists) {
				return fiber.NewError(fiber.StatusConflict, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(sess)
	})

	r.Post("/:id/stop", authMiddleware, func(c *fiber.Ctx) error {
		var req StopRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		sess, err := svc.Stop(c.Context(), c.Params("id"), req)
		if err != nil {
			switch {
			case errors.Is(err, ErrNotFound):
				return fiber.NewError(fiber.StatusNotFound, err.Error())
			case errors.Is(err, ErrMessageTooLong), errors.Is(err, ErrInvalidRating):
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(sess)
	})

	r.Delete("/:id", authMiddleware, func(c *fiber.Ctx) error {
		if err := svc.Discard(c.Context(), c.Params("id")); err != nil {
			if errors.Is(err, ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	r.Get("/active", authMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		sess, err := svc.Active(c.Context(), userID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		if sess == nil {
			return c.JSON(fiber.Map{"active": nil})
		}
		return c.JSON(fiber.Map{"active": sess})
	})

	r.Get("/history", authMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		limit := c.QueryInt("limit", 50)
		if limit <= 0 || limit > 1000 {
			limit = 50
		}
		sessions, err := svc.Closed(c.Context(), userID, limit)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(sessions)
	})
}
