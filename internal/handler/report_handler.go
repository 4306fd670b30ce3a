package handler

import (
	"time"

	"go-storefront/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type ReportHandler struct {
	service service.ReportService
	errorResponder
}

func NewReportHandler(s service.ReportService, log *zap.Logger) *ReportHandler {
	return &ReportHandler{service: s, errorResponder: newErrorResponder(log)}
}

// GET /api/v1/dashboard/stats
func (h *ReportHandler) GetDashboardStats(c *fiber.Ctx) error {
	stats, err := h.service.GetDashboardStats(c.UserContext())
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(stats)
}

// GET /api/v1/dashboard/stock-movement?days=7
func (h *ReportHandler) GetStockMovement(c *fiber.Ctx) error {
	data, err := h.service.GetStockMovement(c.UserContext(), c.QueryInt("days", 7))
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(data)
}

// GetSalesSummary defaults to the last 30 days
// GET /api/v1/reports/sales?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *ReportHandler) GetSalesSummary(c *fiber.Ctx) error {
	from, err := queryDate(c, "from", false)
	if err != nil {
		return badRequest(c, "Invalid from date, use YYYY-MM-DD")
	}
	to, err := queryDate(c, "to", true)
	if err != nil {
		return badRequest(c, "Invalid to date, use YYYY-MM-DD")
	}

	end := time.Now()
	if to != nil {
		end = *to
	}
	start := end.AddDate(0, 0, -30)
	if from != nil {
		start = *from
	}

	report, err := h.service.GetSalesSummary(c.UserContext(), start, end)
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(report)
}

// GET /api/v1/reports/low-stock?page=&limit=
func (h *ReportHandler) GetLowStock(c *fiber.Ctx) error {
	page := pageFrom(c)
	products, total, err := h.service.GetLowStock(c.UserContext(), page)
	if err != nil {
		return h.respond(c, err)
	}
	return paginated(c, productResponses(products), total, page)
}
