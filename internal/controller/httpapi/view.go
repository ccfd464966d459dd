package httpapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Freeeeeet/schedule_grid/internal/gesture"
	"github.com/Freeeeeet/schedule_grid/internal/model"
	"github.com/Freeeeeet/schedule_grid/internal/orchestrator"
	"github.com/Freeeeeet/schedule_grid/internal/session"
	"github.com/Freeeeeet/schedule_grid/internal/tzclock"
)

var errBadRequest = errors.New("bad request")

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errBadRequest, fmt.Sprintf(format, args...))
}

type SetViewRequest struct {
	Mode   *string           `json:"mode,omitempty"`
	Date   *string           `json:"date,omitempty"`
	Filter []model.EventType `json:"filter"`
}

type PointerDownRequest struct {
	Date string  `json:"date" binding:"required"`
	Y    float64 `json:"y"`
}

type PointerMoveRequest struct {
	Y float64 `json:"y"`
}

type EdgeDownRequest struct {
	EventID string       `json:"event_id" binding:"required"`
	Edge    gesture.Edge `json:"edge" binding:"required"`
}

// PointerUpResponse итог жеста: открытая панель создания или перенесённое событие
type PointerUpResponse struct {
	Panel    *orchestrator.CreatePanel `json:"panel,omitempty"`
	Event    *model.CalendarEvent      `json:"event,omitempty"`
	Snapshot orchestrator.Snapshot     `json:"snapshot"`
}

// ========================
// Вид и навигация
// ========================

func (s *Server) getView(ctx *gin.Context) {
	var snap orchestrator.Snapshot
	err := sessionFrom(ctx).Do(func(o *orchestrator.Orchestrator) error {
		if err := session.Refresh(ctx.Request.Context(), o, s.service); err != nil {
			return err
		}
		snap = o.Snapshot()
		return nil
	})
	if err != nil {
		s.abortWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, snap)
}

func (s *Server) setView(ctx *gin.Context) {
	var req SetViewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var mode orchestrator.Mode
	if req.Mode != nil {
		parsed, ok := orchestrator.ParseMode(*req.Mode)
		if !ok {
			s.abortWithError(ctx, badRequest("unknown mode %q", *req.Mode))
			return
		}
		mode = parsed
	}

	var date tzclock.Date
	if req.Date != nil {
		parsed, err := tzclock.ParseDate(*req.Date)
		if err != nil {
			s.abortWithError(ctx, badRequest("invalid date %q", *req.Date))
			return
		}
		date = parsed
	}

	for _, t := range req.Filter {
		if !t.Valid() {
			s.abortWithError(ctx, badRequest("unknown event type %q", t))
			return
		}
	}

	s.mutateView(ctx, func(o *orchestrator.Orchestrator) {
		if mode != "" {
			o.SetMode(mode)
		}
		if !date.IsZero() {
			o.SetViewDate(date)
		}
		if req.Filter != nil {
			o.SetFilter(req.Filter...)
		}
	})
}

func (s *Server) navigate(ctx *gin.Context) {
	direction := ctx.Param("direction")

	var step func(o *orchestrator.Orchestrator)
	switch direction {
	case "prev":
		step = (*orchestrator.Orchestrator).Prev
	case "next":
		step = (*orchestrator.Orchestrator).Next
	case "today":
		step = (*orchestrator.Orchestrator).Today
	default:
		s.abortWithError(ctx, badRequest("unknown direction %q", direction))
		return
	}

	s.mutateView(ctx, step)
}

// mutateView меняет вид, перезагружает события нового интервала и отдаёт снимок
func (s *Server) mutateView(ctx *gin.Context, fn func(o *orchestrator.Orchestrator)) {
	var snap orchestrator.Snapshot
	err := sessionFrom(ctx).Do(func(o *orchestrator.Orchestrator) error {
		fn(o)
		if err := session.Refresh(ctx.Request.Context(), o, s.service); err != nil {
			return err
		}
		snap = o.Snapshot()
		return nil
	})
	if err != nil {
		s.abortWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, snap)
}

// ========================
// Жесты
// ========================

func (s *Server) pointerDown(ctx *gin.Context) {
	var req PointerDownRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	day, err := tzclock.ParseDate(req.Date)
	if err != nil {
		s.abortWithError(ctx, badRequest("invalid date %q", req.Date))
		return
	}

	var (
		accepted bool
		snap     orchestrator.Snapshot
	)
	_ = sessionFrom(ctx).Do(func(o *orchestrator.Orchestrator) error {
		accepted = o.PointerDown(day, req.Y)
		snap = o.Snapshot()
		return nil
	})

	ctx.JSON(http.StatusOK, gin.H{"accepted": accepted, "snapshot": snap})
}

func (s *Server) pointerMove(ctx *gin.Context) {
	var req PointerMoveRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// только состояние жеста, без снимка вида
	resp := gin.H{}
	_ = sessionFrom(ctx).Do(func(o *orchestrator.Orchestrator) error {
		o.PointerMove(req.Y)

		state := o.Gesture()
		resp["gesture"] = gesture.Kind(state)
		switch g := state.(type) {
		case gesture.Dragging:
			resp["selection"] = g.Selection
		case gesture.Resizing:
			resp["preview"] = g.Preview
		}
		return nil
	})

	ctx.JSON(http.StatusOK, resp)
}

// pointerUp завершает жест. Перенос отправляется сервису без блокировки сессии;
// при ошибке коллекция перезагружается и событие возвращается на сохранённое место.
func (s *Server) pointerUp(ctx *gin.Context) {
	sess := sessionFrom(ctx)

	var (
		resp   PointerUpResponse
		commit orchestrator.Commit
	)
	_ = sess.Do(func(o *orchestrator.Orchestrator) error {
		commit = o.PointerUp()
		resp.Panel = commit.Panel
		resp.Snapshot = o.Snapshot()
		return nil
	})

	if commit.Reschedule == nil {
		ctx.JSON(http.StatusOK, resp)
		return
	}

	updated, updateErr := s.service.UpdateEvent(ctx.Request.Context(), *commit.Reschedule)
	err := sess.Do(func(o *orchestrator.Orchestrator) error {
		if updateErr != nil {
			if refreshErr := session.Refresh(ctx.Request.Context(), o, s.service); refreshErr != nil {
				return errors.Join(updateErr, refreshErr)
			}
			return updateErr
		}
		o.UpsertEvent(*updated)
		resp.Event = updated
		resp.Snapshot = o.Snapshot()
		return nil
	})
	if err != nil {
		s.abortWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

func (s *Server) edgeDown(ctx *gin.Context) {
	var req EdgeDownRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var snap orchestrator.Snapshot
	err := sessionFrom(ctx).Do(func(o *orchestrator.Orchestrator) error {
		if err := o.EdgeDown(req.EventID, req.Edge); err != nil {
			return err
		}
		snap = o.Snapshot()
		return nil
	})
	if err != nil {
		s.abortWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, snap)
}

func (s *Server) dismiss(ctx *gin.Context) {
	var snap orchestrator.Snapshot
	_ = sessionFrom(ctx).Do(func(o *orchestrator.Orchestrator) error {
		o.Dismiss()
		snap = o.Snapshot()
		return nil
	})
	ctx.JSON(http.StatusOK, snap)
}
