package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/pricewatch/internal/logger"
	"github.com/jonesrussell/pricewatch/internal/models"
)

// historyDateFormat is the timestamp layout the chart frontend consumes.
const historyDateFormat = "2006-01-02 15:04:05"

// ProductStore is the registry surface the handlers need.
type ProductStore interface {
	Create(ctx context.Context, product *models.Product) error
	List(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id int64) (*models.Product, error)
}

// HistoryStore reads recorded price observations.
type HistoryStore interface {
	ListByProduct(ctx context.Context, productID int64) ([]models.PricePoint, error)
}

// ProductHandler serves the product registry and price history endpoints.
type ProductHandler struct {
	products ProductStore
	history  HistoryStore
	logger   logger.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(products ProductStore, history HistoryStore, log logger.Logger) *ProductHandler {
	return &ProductHandler{
		products: products,
		history:  history,
		logger:   log,
	}
}

// createRequest is the add-product payload. All fields are required.
type createRequest struct {
	Name        string   `json:"name"         binding:"required"`
	URL         string   `json:"url"          binding:"required"`
	TargetPrice *float64 `json:"target_price" binding:"required"`
	UserEmail   string   `json:"user_email"   binding:"required,email"`
}

// productResponse is the shape returned by List; it omits the recipient email.
type productResponse struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	URL         string  `json:"url"`
	TargetPrice float64 `json:"target_price"`
}

// historyPoint is one charted observation.
type historyPoint struct {
	Price float64 `json:"price"`
	Date  string  `json:"date"`
}

// List handles GET /api/v1/products.
func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.products.List(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list products", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list products"})
		return
	}

	out := make([]productResponse, 0, len(products))
	for i := range products {
		out = append(out, productResponse{
			ID:          products[i].ID,
			Name:        products[i].Name,
			URL:         products[i].URL,
			TargetPrice: products[i].TargetPrice,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"products": out,
		"count":    len(out),
	})
}

// Create handles POST /api/v1/products. Returns 201 with the new id, 409 on a
// duplicate URL, 400 on missing fields, and 500 otherwise.
func (h *ProductHandler) Create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Debug("Invalid add-product request", logger.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields", "details": err.Error()})
		return
	}

	product := models.Product{
		Name:        req.Name,
		URL:         req.URL,
		TargetPrice: *req.TargetPrice,
		UserEmail:   req.UserEmail,
	}

	if err := h.products.Create(c.Request.Context(), &product); err != nil {
		if errors.Is(err, models.ErrDuplicateURL) {
			c.JSON(http.StatusConflict, gin.H{"error": models.ErrDuplicateURL.Error()})
			return
		}
		h.logger.Error("Failed to create product",
			logger.String("url", req.URL),
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		return
	}

	h.logger.Info("Product created",
		logger.Int64("product_id", product.ID),
		logger.String("product_name", product.Name),
	)

	c.JSON(http.StatusCreated, gin.H{"id": product.ID})
}

// History handles GET /api/v1/products/:id/history. Observations come back
// ascending by recorded time, formatted for the chart frontend.
func (h *ProductHandler) History(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return
	}

	ctx := c.Request.Context()

	if _, getErr := h.products.GetByID(ctx, id); getErr != nil {
		if errors.Is(getErr, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": models.ErrNotFound.Error()})
			return
		}
		h.logger.Error("Failed to load product", logger.Int64("product_id", id), logger.Error(getErr))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load product"})
		return
	}

	points, err := h.history.ListByProduct(ctx, id)
	if err != nil {
		h.logger.Error("Failed to load price history", logger.Int64("product_id", id), logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load price history"})
		return
	}

	out := make([]historyPoint, 0, len(points))
	for i := range points {
		out = append(out, historyPoint{
			Price: points[i].Price,
			Date:  points[i].RecordedAt.Format(historyDateFormat),
		})
	}

	c.JSON(http.StatusOK, out)
}
