package handler

import (
	"net/http"
	"strconv"

	"bookclub/internal/models"
	"bookclub/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type GroupHandler interface {
	GetGroups(c *gin.Context)
}

type groupHandler struct {
	groups *service.GroupsService
	logger *zap.Logger
}

func NewGroupHandler(groups *service.GroupsService, logger *zap.Logger) GroupHandler {
	return &groupHandler{groups: groups, logger: logger}
}

// GetGroups handles GET /api/groups?all=true
func (h *groupHandler) GetGroups(c *gin.Context) {
	includeInactive := false
	if raw := c.Query("all"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid all flag"})
			return
		}
		includeInactive = v
	}

	groups := h.groups.Groups(includeInactive)
	if groups == nil {
		groups = []models.Group{}
	}
	c.JSON(http.StatusOK, gin.H{"groups": groups})
}
