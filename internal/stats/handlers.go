package stats

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Get("/me", authMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		snap, err := svc.SnapshotForUser(c.Context(), userID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(snap)
	})

	r.Get("/me/streak", authMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		streak, err := svc.StreakForUser(c.Context(), userID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(fiber.Map{"current_streak": streak})
	})

	r.Get("/me/regularity", authMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		score, err := svc.RegularityForUser(c.Context(), userID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(fiber.Map{"regularity_score": score})
	})

	r.Get("/me/calendar", authMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		year := c.QueryInt("year")
		month := c.QueryInt("month")
		if year < 1 || month < 1 || month > 12 {
			return fiber.NewError(fiber.StatusBadRequest, "year and month (1-12) required")
		}
		days, err := svc.CalendarForUser(c.Context(), userID, year, time.Month(month))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(days)
	})
}
