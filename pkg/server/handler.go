package server

import (
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/5h1v4n1-2025/daruma/pkg/pipeline"
)

type generateRequest struct {
	Text string `json:"text"`
}

// generateAudio is the main endpoint: free-form text in, one mp3 out.
func (s *Server) generateAudio(c *fiber.Ctx) error {
	var req generateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "request body must be JSON with a \"text\" field",
		})
	}
	if strings.TrimSpace(req.Text) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "text must not be empty",
		})
	}

	result, err := s.runner.Run(c.UserContext(), req.Text)
	if err != nil {
		status, message := errorStatus(err)
		return c.Status(status).JSON(fiber.Map{"error": message})
	}

	c.Set(fiber.HeaderContentType, result.Audio.MIMEType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="speech.mp3"`)
	c.Set("X-Request-Id", result.RequestID)
	return c.Send(result.Audio.Data)
}

func (s *Server) listVoices(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"voices":   s.registry.Catalog(),
		"narrator": s.registry.NarratorID(),
	})
}

func (s *Server) healthz(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// errorStatus maps pipeline error kinds to HTTP statuses. Internal
// details stay in the log; clients get the category.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, pipeline.ErrInvalidInput):
		return fiber.StatusBadRequest, err.Error()
	case errors.Is(err, pipeline.ErrTimeout):
		return fiber.StatusGatewayTimeout, "audio generation timed out"
	case errors.Is(err, pipeline.ErrUpstream):
		return fiber.StatusBadGateway, "an upstream service failed"
	default:
		log.Printf("Unclassified pipeline failure: %v", err)
		return fiber.StatusInternalServerError, "internal error"
	}
}
