package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/travelbunk/backend/src/connections"
	"github.com/travelbunk/backend/src/lib"
)

// SendRequest handles POST /api/send-request.
func SendRequest(c *fiber.Ctx) error {
	var body struct {
		FromEmail string         `json:"fromEmail"`
		ToEmail   string         `json:"toEmail"`
		Trip      map[string]any `json:"trip"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.JSON(lib.FailResponse("Invalid payload"))
	}

	res := manager.SendRequest(c.Context(), body.FromEmail, body.ToEmail, body.Trip)
	return writeResult(c, res)
}

// RespondRequest handles POST /api/respond-request.
func RespondRequest(c *fiber.Ctx) error {
	var body struct {
		ToEmail   string `json:"toEmail"`
		FromEmail string `json:"fromEmail"`
		Action    string `json:"action"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.JSON(lib.FailResponse("Invalid payload"))
	}

	res := manager.RespondRequest(c.Context(), body.ToEmail, body.FromEmail, body.Action)
	return writeResult(c, res)
}

// GetRequests handles GET /api/requests?email=.
func GetRequests(c *fiber.Ctx) error {
	email := c.Query("email")

	incoming, outgoing, res := manager.ListRequests(c.Context(), email)
	if !res.OK {
		return writeResult(c, res)
	}
	return c.JSON(fiber.Map{
		"success":      true,
		"requests":     incoming,
		"sentRequests": outgoing,
	})
}

// ConnectionStatus handles GET /api/connection-status?from=&to=.
func ConnectionStatus(c *fiber.Ctx) error {
	status, res := manager.Status(c.Context(), c.Query("from"), c.Query("to"))
	if !res.OK {
		return writeResult(c, res)
	}
	return c.JSON(fiber.Map{"success": true, "status": status})
}

// writeResult maps a manager result to the API envelope. Handled failures
// stay HTTP 200 with success=false; only store failures surface as 500.
func writeResult(c *fiber.Ctx, res connections.Result) error {
	if res.OK {
		return c.JSON(lib.SuccessResponse())
	}
	if res.Kind == connections.KindStore {
		return c.Status(fiber.StatusInternalServerError).JSON(lib.FailResponse(res.Message))
	}
	return c.JSON(lib.FailResponse(res.Message))
}
