package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/skinlens/skinlens/config"
	"github.com/skinlens/skinlens/pkg/models"
	"github.com/skinlens/skinlens/pkg/predict"
	"github.com/skinlens/skinlens/pkg/session"
)

// Predictor is the outbound inference call. The real implementation is
// predict.Client; tests substitute their own.
type Predictor interface {
	Predict(ctx context.Context, img *models.SelectedImage) (*models.PredictionResult, error)
}

type Service struct {
	cfg       *config.Config
	e         *echo.Echo
	sessions  session.Store
	predictor Predictor
}

func NewService(cfg *config.Config) *Service {
	return &Service{
		e:         echo.New(),
		cfg:       cfg,
		sessions:  session.NewStore(time.Duration(cfg.Session.TTLMinutes) * time.Minute),
		predictor: predict.NewClient(cfg.Backend.URL),
	}
}

func (s *Service) StartService() error {
	//setting up echo server with middleware
	s.e.Use(middleware.Logger())
	s.e.Use(middleware.Recover())
	s.e.HideBanner = true
	s.e.Renderer = newPageRenderer()

	s.registerRoutes()

	log.Printf("analyzing against inference endpoint %s", s.cfg.Backend.URL)
	if err := s.e.Start(s.cfg.Server.Host + s.cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %v", err)
	}
	return nil
}

func (s *Service) registerRoutes() {
	s.e.GET("/", s.Page)
	s.e.GET("/healthz", s.Health)
	s.e.POST("/upload", s.Upload)
	s.e.POST("/analyze", s.Analyze)
	s.e.POST("/reset", s.Reset)
	s.e.GET("/preview/:id", s.Preview)

	//api routes
	v1 := s.e.Group("/api/v1")
	v1.GET("/session", s.SessionStatus)
}
