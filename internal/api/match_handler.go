package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/wfunc/pong-game/internal/middleware"
	"github.com/wfunc/pong-game/internal/service"
)

// MatchHandler 对局处理器
type MatchHandler struct {
	matchService service.MatchService
}

// NewMatchHandler 创建对局处理器
func NewMatchHandler(matchService service.MatchService) *MatchHandler {
	return &MatchHandler{
		matchService: matchService,
	}
}

// GetMatch 获取指定对局
func (h *MatchHandler) GetMatch(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "INVALID_REQUEST",
			Message: "无效的对局ID",
		})
		return
	}

	match, err := h.matchService.GetMatch(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Code:    "MATCH_NOT_FOUND",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, match)
}

// History 当前用户的历史对局
func (h *MatchHandler) History(c *gin.Context) {
	authID, ok := middleware.GetAuthID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Code:    "UNAUTHORIZED",
			Message: "未登录",
		})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	matches, total, err := h.matchService.History(c.Request.Context(), authID, page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    "HISTORY_FAILED",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, ListResponse{
		Total: total,
		Page:  page,
		Items: matches,
	})
}

// Recent 最近结束的对局
func (h *MatchHandler) Recent(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	matches, err := h.matchService.Recent(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    "RECENT_FAILED",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, matches)
}
