package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Freeeeeet/schedule_grid/internal/model"
	"github.com/Freeeeeet/schedule_grid/internal/orchestrator"
)

// EventResponse событие и состояние вида после изменения
type EventResponse struct {
	Event    *model.CalendarEvent  `json:"event"`
	Snapshot orchestrator.Snapshot `json:"snapshot"`
}

// submitPanel отправляет панель создания сервису. Блокировка сессии на время
// запроса снимается, панель до ответа помечена как ожидающая.
func (s *Server) submitPanel(ctx *gin.Context) {
	var draft orchestrator.CreateDraft
	if err := ctx.ShouldBindJSON(&draft); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess := sessionFrom(ctx)

	var req model.CreateEventRequest
	err := sess.Do(func(o *orchestrator.Orchestrator) error {
		var err error
		req, err = o.SubmitCreate(draft)
		return err
	})
	if err != nil {
		s.abortWithError(ctx, err)
		return
	}

	created, createErr := s.service.CreateEvent(ctx.Request.Context(), req)

	var resp EventResponse
	_ = sess.Do(func(o *orchestrator.Orchestrator) error {
		o.FinishCreate(created)
		if createErr == nil && req.SyncTargets != nil {
			o.SetSyncTargets(req.SyncTargets)
		}
		resp = EventResponse{Event: created, Snapshot: o.Snapshot()}
		return nil
	})
	if createErr != nil {
		s.abortWithError(ctx, createErr)
		return
	}

	s.logger.Info("Event created",
		zap.String("event_id", resp.Event.ID),
		zap.String("type", string(resp.Event.EventType)),
		zap.Time("start", resp.Event.StartTime),
	)
	ctx.JSON(http.StatusCreated, resp)
}

func (s *Server) openEvent(ctx *gin.Context) {
	id := ctx.Param("id")

	var resp EventResponse
	err := sessionFrom(ctx).Do(func(o *orchestrator.Orchestrator) error {
		if err := o.OpenEvent(id); err != nil {
			return err
		}
		ev, _ := o.Event(id)
		resp = EventResponse{Event: &ev, Snapshot: o.Snapshot()}
		return nil
	})
	if err != nil {
		s.abortWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// eventAction подтверждение, отмена или неявка из панели просмотра
func (s *Server) eventAction(ctx *gin.Context) {
	id := ctx.Param("id")
	action := model.EventAction(ctx.Param("action"))
	sess := sessionFrom(ctx)

	var req model.UpdateEventRequest
	err := sess.Do(func(o *orchestrator.Orchestrator) error {
		var err error
		req, err = o.ActionRequest(id, action)
		return err
	})
	if err != nil {
		s.abortWithError(ctx, err)
		return
	}

	updated, err := s.service.UpdateEvent(ctx.Request.Context(), req)
	if err != nil {
		s.abortWithError(ctx, err)
		return
	}

	var resp EventResponse
	_ = sess.Do(func(o *orchestrator.Orchestrator) error {
		o.CloseEvent(id)
		o.UpsertEvent(*updated)
		resp = EventResponse{Event: updated, Snapshot: o.Snapshot()}
		return nil
	})

	s.logger.Info("Event action applied",
		zap.String("event_id", id),
		zap.String("action", string(action)),
		zap.String("status", string(updated.Status)),
	)
	ctx.JSON(http.StatusOK, resp)
}
