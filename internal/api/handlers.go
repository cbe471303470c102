// internal/api/handlers.go
package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"mandi-workers/internal/common/errors"
	"mandi-workers/internal/common/logger"
	"mandi-workers/internal/mandi"

	"github.com/gin-gonic/gin"
)

const readyTimeout = 2 * time.Second

type handlers struct {
	service     string
	catalog     *mandi.Catalog
	defaultMode mandi.RankMode
	maxItems    int
	checks      map[string]Check
	logger      logger.Logger
}

type scenarioSummary struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description"`
	MandiCount  int    `json:"mandiCount"`
}

type recommendationRequest struct {
	Scenario         string          `json:"scenario" binding:"required"`
	ProductName      string          `json:"productName" binding:"required,max=100"`
	RequiredQuantity float64         `json:"requiredQuantity" binding:"required,gt=0"`
	ResalePrice      *float64        `json:"resalePrice" binding:"omitempty,gte=0"`
	Requester        *mandi.GeoPoint `json:"requester"`
	Mode             string          `json:"mode"`
}

type recommendationResponse struct {
	Scenario         string                 `json:"scenario"`
	ProductName      string                 `json:"productName"`
	RequiredQuantity float64                `json:"requiredQuantity"`
	ResalePrice      float64                `json:"resalePrice"`
	Mode             mandi.RankMode         `json:"mode"`
	QualifiedCount   int                    `json:"qualifiedCount"`
	Recommendations  []mandi.Recommendation `json:"recommendations"`
}

func errorBody(code, message string) gin.H {
	return gin.H{"error": gin.H{"code": code, "message": message}}
}

func (h *handlers) abortWithError(c *gin.Context, status int, err *errors.StandardError) {
	c.AbortWithStatusJSON(status, gin.H{"error": gin.H{
		"code":    err.Code,
		"message": err.Message,
		"details": err.Details,
	}})
}

func (h *handlers) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": h.service,
	})
}

func (h *handlers) ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readyTimeout)
	defer cancel()

	status := http.StatusOK
	results := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			status = http.StatusServiceUnavailable
			results[name] = err.Error()
			h.logger.Warn("readiness check failed", map[string]interface{}{
				"check": name,
				"error": err,
			})
			continue
		}
		results[name] = "ok"
	}

	state := "ready"
	if status != http.StatusOK {
		state = "not_ready"
	}
	c.JSON(status, gin.H{"status": state, "checks": results})
}

func (h *handlers) listScenarios(c *gin.Context) {
	keys := h.catalog.ScenarioKeys()
	out := make([]scenarioSummary, 0, len(keys))
	for _, key := range keys {
		sc := h.catalog.Scenarios[key]
		out = append(out, scenarioSummary{
			Key:         key,
			Name:        sc.Name,
			Description: sc.Description,
			MandiCount:  len(sc.Markets),
		})
	}
	c.JSON(http.StatusOK, gin.H{"scenarios": out, "retailer": h.catalog.Retailer})
}

func (h *handlers) getScenario(c *gin.Context) {
	sc, err := h.catalog.Scenario(c.Param("key"))
	if err != nil {
		h.abortWithError(c, http.StatusNotFound, errors.NewScenarioNotFoundError(c.Param("key")))
		return
	}
	c.JSON(http.StatusOK, sc)
}

func (h *handlers) listMandis(c *gin.Context) {
	markets := h.catalog.AllMarkets()
	if product := strings.TrimSpace(c.Query("product")); product != "" {
		filtered := make([]mandi.Market, 0, len(markets))
		for _, m := range markets {
			if _, ok := mandi.FindListing(m, product); ok {
				filtered = append(filtered, m)
			}
		}
		markets = filtered
	}
	if markets == nil {
		markets = []mandi.Market{}
	}
	c.JSON(http.StatusOK, gin.H{"mandis": markets, "count": len(markets)})
}

func (h *handlers) recommend(c *gin.Context) {
	var body recommendationRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.abortWithError(c, http.StatusBadRequest, errors.NewInvalidPurchaseRequestError(err.Error()))
		return
	}

	sc, err := h.catalog.Scenario(body.Scenario)
	if err != nil {
		h.abortWithError(c, http.StatusNotFound, errors.NewScenarioNotFoundError(body.Scenario))
		return
	}

	mode := h.defaultMode
	if body.Mode != "" {
		if mode, err = mandi.ParseRankMode(body.Mode); err != nil {
			h.abortWithError(c, http.StatusBadRequest, errors.NewInvalidRankModeError(body.Mode))
			return
		}
	}
	if mode == "" {
		mode = mandi.ModeBalanced
	}

	req := mandi.PurchaseRequest{
		ProductName:      strings.TrimSpace(body.ProductName),
		RequiredQuantity: body.RequiredQuantity,
		Requester:        h.catalog.Retailer.Point(),
		Mode:             mode,
	}
	if body.Requester != nil {
		req.Requester = *body.Requester
	}
	if body.ResalePrice != nil {
		req.ResalePrice = *body.ResalePrice
	} else if p, ok := h.catalog.Retailer.ResalePrice(req.ProductName); ok {
		req.ResalePrice = p
	} else {
		h.abortWithError(c, http.StatusBadRequest, errors.NewInvalidPurchaseRequestError(
			fmt.Sprintf("no resale price given or configured for %q", req.ProductName)))
		return
	}

	recs := mandi.Recommend(sc.Markets, req)
	qualified := len(recs)
	if h.maxItems > 0 && len(recs) > h.maxItems {
		recs = recs[:h.maxItems]
	}

	c.JSON(http.StatusOK, recommendationResponse{
		Scenario:         sc.Key,
		ProductName:      req.ProductName,
		RequiredQuantity: req.RequiredQuantity,
		ResalePrice:      req.ResalePrice,
		Mode:             mode,
		QualifiedCount:   qualified,
		Recommendations:  recs,
	})
}
