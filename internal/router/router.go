// Package router exposes a catalog resolver over HTTP using the same wire
// shape catalog.HTTPResolver consumes. It backs the local catalogd stub.
package router

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hammamikhairi/ottocart/internal/catalog"
	"github.com/hammamikhairi/ottocart/internal/domain"
	"github.com/hammamikhairi/ottocart/internal/logger"
)

// maxIngredients bounds a single search request.
const maxIngredients = 100

// NewRouter wires the health check and product search routes. When apiKey
// is non-empty, searches must carry it in the "api-key" header.
func NewRouter(resolver domain.CatalogResolver, log *logger.Logger, apiKey string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLog(log))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	h := &searchHandler{resolver: resolver, log: log}
	v1 := r.Group("/v1")
	if apiKey != "" {
		v1.Use(requireKey(apiKey))
	}
	v1.POST("/products/search", h.Search())

	return r
}

type searchHandler struct {
	resolver domain.CatalogResolver
	log      *logger.Logger
}

// Search handles POST /v1/products/search.
func (h *searchHandler) Search() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req catalog.SearchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		if len(req.Ingredients) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "ingredients required"})
			return
		}
		if len(req.Ingredients) > maxIngredients {
			c.JSON(http.StatusBadRequest, gin.H{"error": "too many ingredients"})
			return
		}

		options := h.resolver.Resolve(c.Request.Context(), domain.ResolveRequest{
			RecipeID:    req.RecipeID,
			UserID:      req.UserID,
			Ingredients: req.Ingredients,
		})

		resp := catalog.SearchResponse{Results: make([]catalog.SearchResult, 0, len(options))}
		for _, opt := range options {
			products := make([]map[string]any, 0, len(opt.Candidates))
			for _, p := range opt.Candidates {
				products = append(products, encodeProduct(p))
			}
			resp.Results = append(resp.Results, catalog.SearchResult{
				Ingredient: opt.IngredientName,
				Products:   products,
			})
		}
		c.JSON(http.StatusOK, resp)
	}
}

// encodeProduct renders a candidate with a string price so no precision is
// lost on the wire.
func encodeProduct(p domain.ProductCandidate) map[string]any {
	m := map[string]any{
		"product_id": p.ProductID,
		"name":       p.Name,
		"price":      p.Price.StringFixed(2),
	}
	if p.ImageURL != "" {
		m["image_url"] = p.ImageURL
	}
	return m
}

func requireKey(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.TrimSpace(c.GetHeader("api-key")) != key {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}

func requestLog(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("%s %s %d (%s)", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start).Round(time.Microsecond))
	}
}
