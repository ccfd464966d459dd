package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Freeeeeet/schedule_grid/internal/model"
	"github.com/Freeeeeet/schedule_grid/internal/orchestrator"
	"github.com/Freeeeeet/schedule_grid/internal/render"
	"github.com/Freeeeeet/schedule_grid/internal/session"
)

const defaultContactsLimit = 20

func (s *Server) listHolidays(ctx *gin.Context) {
	year := s.avail.Clock().Today().Year
	if raw := ctx.Query("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			s.abortWithError(ctx, badRequest("invalid year %q", raw))
			return
		}
		year = parsed
	}

	ctx.JSON(http.StatusOK, gin.H{
		"year":     year,
		"holidays": s.avail.Holidays().Year(year),
	})
}

func (s *Server) listContacts(ctx *gin.Context) {
	limit := defaultContactsLimit
	if raw := ctx.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			s.abortWithError(ctx, badRequest("invalid limit %q", raw))
			return
		}
		limit = parsed
	}

	contacts, err := s.service.Contacts(ctx.Request.Context(), ctx.Query("search"), limit)
	if err != nil {
		s.abortWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"contacts": contacts})
}

func (s *Server) getSettings(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"settings":      s.avail.Settings(),
		"working_hours": s.avail.Label(),
	})
}

// putSettings сохраняет настройки. Работающие сессии продолжают жить со старой
// моделью доступности, новые значения применяются при следующем запуске.
func (s *Server) putSettings(ctx *gin.Context) {
	var settings model.AvailabilitySettings
	if err := ctx.ShouldBindJSON(&settings); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.service.SaveSettings(ctx.Request.Context(), settings); err != nil {
		s.abortWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"settings": settings})
}

// exportICS выгружает видимые события в iCalendar: без отменённых и с фильтром
// сессии. Без from/to берётся интервал текущего вида.
func (s *Server) exportICS(ctx *gin.Context) {
	from, to, explicit, err := exportRange(ctx)
	if err != nil {
		s.abortWithError(ctx, err)
		return
	}

	var events []model.CalendarEvent
	err = sessionFrom(ctx).Do(func(o *orchestrator.Orchestrator) error {
		if !explicit {
			if err := session.Refresh(ctx.Request.Context(), o, s.service); err != nil {
				return err
			}
			events = o.Visible()
			return nil
		}

		loaded, err := s.service.ListEvents(ctx.Request.Context(), from, to)
		if err != nil {
			return err
		}
		events = o.Filter(loaded)
		return nil
	})
	if err != nil {
		s.abortWithError(ctx, err)
		return
	}

	data, err := render.ICS(events, time.Now())
	if err != nil {
		s.abortWithError(ctx, err)
		return
	}

	ctx.Header("Content-Disposition", `attachment; filename="events.ics"`)
	ctx.Data(http.StatusOK, "text/calendar; charset=utf-8", data)
}

// exportRange разбирает from/to. explicit=false, если оба не заданы.
func exportRange(ctx *gin.Context) (time.Time, time.Time, bool, error) {
	rawFrom, rawTo := ctx.Query("from"), ctx.Query("to")
	if rawFrom == "" && rawTo == "" {
		return time.Time{}, time.Time{}, false, nil
	}

	from, err := time.Parse(time.RFC3339, rawFrom)
	if err != nil {
		return time.Time{}, time.Time{}, true, badRequest("invalid from %q", rawFrom)
	}
	to, err := time.Parse(time.RFC3339, rawTo)
	if err != nil {
		return time.Time{}, time.Time{}, true, badRequest("invalid to %q", rawTo)
	}
	return from, to, true, nil
}

// weekImage отдаёт PNG текущего недельного или дневного вида
func (s *Server) weekImage(ctx *gin.Context) {
	var (
		snap   orchestrator.Snapshot
		bounds model.WorkingBounds
	)
	err := sessionFrom(ctx).Do(func(o *orchestrator.Orchestrator) error {
		if err := session.Refresh(ctx.Request.Context(), o, s.service); err != nil {
			return err
		}
		snap = o.Snapshot()
		bounds = o.Availability().Bounds()
		return nil
	})
	if err != nil {
		s.abortWithError(ctx, err)
		return
	}

	data, err := render.WeekImage(snap, bounds)
	if errors.Is(err, render.ErrNoColumns) {
		s.abortWithError(ctx, badRequest("view %q has no day columns", snap.Mode))
		return
	}
	if err != nil {
		s.abortWithError(ctx, err)
		return
	}

	ctx.Data(http.StatusOK, "image/png", data)
}
