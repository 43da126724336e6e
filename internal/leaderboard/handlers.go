package leaderboard

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Get("/friends", authMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		category := Category(strings.ToLower(c.Query("category", string(CategoryStreak))))
		if !category.Valid() {
			return fiber.NewError(fiber.StatusBadRequest, "unknown category")
		}
		entries, err := svc.Friends(c.Context(), userID, category)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		if entries == nil {
			entries = []Entry{}
		}
		return c.JSON(entries)
	})

	r.Get("/leagues/:id", authMiddleware, func(c *fiber.Ctx) error {
		members, err := svc.League(c.Context(), c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		if members == nil {
			members = []LeagueMemberStats{}
		}
		return c.JSON(members)
	})
}
