package export

import (
	"errors"

	"render-manager/core/logger"
	"render-manager/core/renderer"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for figure export.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the export routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/render")
	group.Post("/", h.HandleRender)
	group.Post("/upload", h.HandleUpload)
	group.Get("/status", h.HandleStatus)
	group.Get("/formats", h.HandleFormats)
}

// renderRequest is the JSON body accepted by the render endpoints.
type renderRequest struct {
	Figure     any     `json:"figure"`
	Format     string  `json:"format"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	Scale      float64 `json:"scale"`
	ObjectName string  `json:"object_name"`
}

// HandleRender renders a figure and returns the raw image bytes.
// @Summary Render Figure
// @Description Render figure JSON into a static image using the supervised render server.
// @Tags render
// @Accept json
// @Produce png
// @Param request body export.renderRequest true "Figure and image options"
// @Success 200 {file} binary "Image bytes"
// @Failure 400 {object} map[string]string "Invalid format or options"
// @Failure 500 {object} map[string]string "Render failed"
// @Router /render [post]
func (h *Handler) HandleRender(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req renderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON body"})
	}
	if req.Figure == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing figure"})
	}

	data, format, err := h.service.ToImage(c.Context(), req.Figure, ImageOptions{
		Format: req.Format,
		Width:  req.Width,
		Height: req.Height,
		Scale:  req.Scale,
	})
	if err != nil {
		return renderFailure(c, l, err)
	}

	c.Set(fiber.HeaderContentType, renderer.ContentTypeFor(format))
	return c.Send(data)
}

// HandleUpload renders a figure and uploads the image to object storage.
// @Summary Render and Upload
// @Description Render figure JSON and store the image in the configured bucket.
// @Tags render
// @Accept json
// @Produce json
// @Param request body export.renderRequest true "Figure, image options and object name"
// @Success 200 {object} map[string]string "Object name"
// @Failure 400 {object} map[string]string "Invalid format or options"
// @Failure 500 {object} map[string]string "Render or upload failed"
// @Router /render/upload [post]
func (h *Handler) HandleUpload(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	if h.service.store == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "storage is not configured"})
	}

	var req renderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON body"})
	}
	if req.Figure == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing figure"})
	}
	if req.ObjectName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing object_name"})
	}

	object, err := h.service.Upload(c.Context(), req.Figure, req.ObjectName, ImageOptions{
		Format: req.Format,
		Width:  req.Width,
		Height: req.Height,
		Scale:  req.Scale,
	})
	if err != nil {
		return renderFailure(c, l, err)
	}

	return c.JSON(fiber.Map{"object": object})
}

// HandleStatus returns the current state of the supervised render server.
// @Summary Render Server Status
// @Description Current state, executable, version and process details of the render server.
// @Tags render
// @Produce json
// @Success 200 {object} renderer.Status "Server status"
// @Router /render/status [get]
func (h *Handler) HandleStatus(c *fiber.Ctx) error {
	return c.JSON(h.service.sup.Status())
}

// HandleFormats lists the supported image formats.
// @Summary Supported Formats
// @Description List of image formats accepted by the render endpoints.
// @Tags render
// @Produce json
// @Success 200 {object} map[string][]string "Formats"
// @Router /render/formats [get]
func (h *Handler) HandleFormats(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"formats": renderer.ValidFormats})
}

// renderFailure maps service errors onto HTTP status codes.
func renderFailure(c *fiber.Ctx, l *zap.Logger, err error) error {
	var formatErr *renderer.FormatError
	var configErr *renderer.ConfigError
	if errors.As(err, &formatErr) || errors.As(err, &configErr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	l.Error("Render failed", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}
