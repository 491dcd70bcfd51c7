package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/richardliu001/point-service/internal/model"
	"github.com/richardliu001/point-service/internal/service"
)

// RegisterHandlers binds the point operations under /point.
func RegisterHandlers(r gin.IRouter, svc *service.PointService) {
	p := r.Group("/point")
	{
		p.GET("/:id", pointHandler(svc))
		p.GET("/:id/histories", historyHandler(svc))
		p.PATCH("/:id/charge", chargeHandler(svc))
		p.PATCH("/:id/use", useHandler(svc))
	}
}

type userPointResp struct {
	ID           int64 `json:"id"`
	Point        int64 `json:"point"`
	UpdateMillis int64 `json:"updateMillis"`
}

type pointHistoryResp struct {
	ID           int64                 `json:"id"`
	UserID       int64                 `json:"userId"`
	Amount       int64                 `json:"amount"`
	Type         model.TransactionType `json:"type"`
	UpdateMillis int64                 `json:"updateMillis"`
}

type errorResp struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func toUserPointResp(p model.UserPoint) userPointResp {
	return userPointResp{ID: p.ID, Point: p.Point, UpdateMillis: p.UpdatedAt.UnixMilli()}
}

func writeError(c *gin.Context, err error) {
	var pe *service.PointError
	if errors.As(err, &pe) {
		c.JSON(pe.Status, errorResp{Code: pe.Code, Message: pe.Message})
		return
	}
	c.JSON(http.StatusInternalServerError, errorResp{Code: "INTERNAL_ERROR", Message: "internal server error"})
}

func badRequest(c *gin.Context, code, msg string) {
	c.JSON(http.StatusBadRequest, errorResp{Code: code, Message: msg})
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, "INVALID_USER_ID", "invalid user id")
		return 0, false
	}
	return id, true
}

// bindAmount accepts either a bare JSON integer or {"amount": n}.
func bindAmount(c *gin.Context) (int64, bool) {
	body, err := c.GetRawData()
	if err != nil {
		badRequest(c, "INVALID_REQUEST", "unreadable body")
		return 0, false
	}
	var amount *int64
	if err := json.Unmarshal(body, &amount); err == nil && amount != nil {
		return *amount, true
	}
	var req struct {
		Amount *int64 `json:"amount"`
	}
	if err := json.Unmarshal(body, &req); err != nil || req.Amount == nil {
		badRequest(c, "INVALID_REQUEST", "body must be an integer amount")
		return 0, false
	}
	return *req.Amount, true
}

func pointHandler(svc *service.PointService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		p, err := svc.GetPoint(c, id)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, toUserPointResp(p))
	}
}

func historyHandler(svc *service.PointService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		hs, err := svc.GetHistories(c, id)
		if err != nil {
			writeError(c, err)
			return
		}
		resp := make([]pointHistoryResp, 0, len(hs))
		for _, h := range hs {
			resp = append(resp, pointHistoryResp{
				ID: h.ID, UserID: h.UserID, Amount: h.Amount, Type: h.Type, UpdateMillis: h.UpdatedAt.UnixMilli(),
			})
		}
		c.JSON(http.StatusOK, resp)
	}
}

func chargeHandler(svc *service.PointService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		amount, ok := bindAmount(c)
		if !ok {
			return
		}
		p, err := svc.Charge(c, id, amount)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, toUserPointResp(p))
	}
}

func useHandler(svc *service.PointService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		amount, ok := bindAmount(c)
		if !ok {
			return
		}
		p, err := svc.Use(c, id, amount)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, toUserPointResp(p))
	}
}
