package api

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/Akki1725/socially/internal/auth"
	"github.com/Akki1725/socially/internal/config"
	"github.com/Akki1725/socially/internal/identity"
	"github.com/Akki1725/socially/internal/service"
	"github.com/Akki1725/socially/internal/ws"
)

type Server struct {
	app   *fiber.App
	svc   *service.ChatService
	users identity.Directory
	log   *zap.SugaredLogger
	port  int
}

func NewServer(cfg *config.Config, svc *service.ChatService, users identity.Directory, hub *ws.Hub, validator *auth.Validator, log *zap.SugaredLogger) *Server {
	app := fiber.New(fiber.Config{AppName: "socially-chat"})
	s := &Server{app: app, svc: svc, users: users, log: log, port: cfg.App.Port}

	app.Use(recover.New())
	app.Use(fiberlogger.New())

	app.Get("/healthz", func(c *fiber.Ctx) error { return c.SendString("ok") })

	api := app.Group("/api", JWTAuth(validator))
	api.Get("/chats", s.listChats)
	api.Get("/chats/:otherUserId", s.getChat)
	api.Post("/chats/:otherUserId/messages", s.sendMessage)
	api.Get("/users/:userId", s.getUser)

	app.Use("/ws", ws.UpgradeMiddleware())
	app.Get("/ws", websocket.New(hub.Handler(validator)))

	return s
}

// App exposes the underlying fiber app, mainly for tests.
func (s *Server) App() *fiber.App { return s.app }

func (s *Server) Listen() error {
	return s.app.Listen(fmt.Sprintf(":%d", s.port))
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}
