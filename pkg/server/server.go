package server

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/5h1v4n1-2025/daruma/pkg/pipeline"
	"github.com/5h1v4n1-2025/daruma/pkg/voices"
)

// Runner is the pipeline surface the HTTP layer depends on.
type Runner interface {
	Run(ctx context.Context, text string) (*pipeline.Result, error)
}

// Server exposes the audio generation pipeline over HTTP.
type Server struct {
	app      *fiber.App
	runner   Runner
	registry *voices.Registry
}

func New(runner Runner, registry *voices.Registry, requestTimeout time.Duration) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "daruma",
		BodyLimit:    4 * 1024 * 1024,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: requestTimeout + 30*time.Second,
	})

	s := &Server{
		app:      app,
		runner:   runner,
		registry: registry,
	}

	app.Post("/generate-audio", s.generateAudio)
	app.Get("/voices", s.listVoices)
	app.Get("/healthz", s.healthz)
	app.Static("/", "./static")

	return s
}

// App exposes the fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Listen(addr string) error {
	log.Printf("Listening on %s", addr)
	return s.app.Listen(addr)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
