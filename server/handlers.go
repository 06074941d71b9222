package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"foodpipeline/brands"
	"foodpipeline/review"
)

// handleNormalizePreview показывает как разрешится сырое название бренда
// без записи в каталог
func (s *Server) handleNormalizePreview(c *gin.Context) {
	raw := c.Query("brand")
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "brand query parameter is required"})
		return
	}
	productName := c.Query("product_name")

	match := s.resolver.ResolveCanonical(raw, productName)
	c.JSON(http.StatusOK, gin.H{
		"raw":        raw,
		"normalized": brands.Normalize(raw),
		"canonical":  match.Canonical,
		"slug":       match.Slug,
		"tier":       match.Tier,
		"score":      match.Score,
		"method":     match.Method,
		"auto_apply": match.Tier.AutoApply(),
	})
}

// handleReviewList возвращает ожидающие проверки элементы очереди
func (s *Server) handleReviewList(c *gin.Context) {
	limit := 100
	if v := c.Query("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = parsed
	}

	items, err := s.reviews.ListPending(limit)
	if err != nil {
		s.logger.Error("Failed to list review queue", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list review queue"})
		return
	}
	if items == nil {
		items = []*review.Item{}
	}

	c.JSON(http.StatusOK, gin.H{"items": items, "count": len(items)})
}

// handleReviewApprove одобряет кандидата: статус в очереди меняется и
// разрешение применяется к каталогу
func (s *Server) handleReviewApprove(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid review item id"})
		return
	}

	item, err := s.reviews.Get(id)
	if err != nil {
		s.logger.Error("Failed to load review item", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load review item"})
		return
	}
	if item == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "review item not found"})
		return
	}
	if item.Status != review.StatusPending {
		c.JSON(http.StatusConflict, gin.H{"error": "review item is not pending"})
		return
	}
	if item.Candidate == "" {
		c.JSON(http.StatusConflict, gin.H{"error": "review item has no candidate to apply"})
		return
	}

	if s.db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog database is not configured"})
		return
	}

	slug := brands.DeriveSlug(item.Candidate)
	rebuild := func(key string) string {
		return brands.RebuildProductKey(key, slug)
	}
	if err := s.db.ApplyBrandResolution(c.Request.Context(), item.ProductKey, item.Candidate, slug,
		string(brands.TierHigh), "review_api", rebuild); err != nil {
		s.logger.Error("Failed to apply approved resolution",
			"id", id, "product_key", item.ProductKey, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to apply resolution"})
		return
	}

	if err := s.reviews.SetStatus(id, review.StatusApproved); err != nil {
		s.logger.Error("Failed to mark review item approved", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update review status"})
		return
	}

	s.logger.Info("Review item approved",
		"id", id, "product_key", item.ProductKey, "canonical", item.Candidate)
	c.JSON(http.StatusOK, gin.H{"id": id, "status": review.StatusApproved, "canonical": item.Candidate})
}

// handleReviewReject отклоняет кандидата, каталог не меняется
func (s *Server) handleReviewReject(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid review item id"})
		return
	}

	item, err := s.reviews.Get(id)
	if err != nil {
		s.logger.Error("Failed to load review item", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load review item"})
		return
	}
	if item == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "review item not found"})
		return
	}
	if item.Status != review.StatusPending {
		c.JSON(http.StatusConflict, gin.H{"error": "review item is not pending"})
		return
	}

	if err := s.reviews.SetStatus(id, review.StatusRejected); err != nil {
		s.logger.Error("Failed to mark review item rejected", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update review status"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "status": review.StatusRejected})
}

// handleQualitySummary возвращает сводку гейта качества по брендам
func (s *Server) handleQualitySummary(c *gin.Context) {
	if s.gate == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "quality gate is not configured"})
		return
	}

	report, err := s.gate.Evaluate(c.Request.Context())
	if err != nil {
		s.logger.Error("Failed to evaluate quality gate", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to evaluate quality gate"})
		return
	}

	c.JSON(http.StatusOK, report)
}
