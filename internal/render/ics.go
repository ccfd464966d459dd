package render

import (
	"bytes"
	"fmt"
	"io"
	"time"

	ics "github.com/emersion/go-ical"

	"github.com/Freeeeeet/schedule_grid/internal/model"
)

const productID = "-//schedule_grid//Calendar//EN"

// icsStatus статус события в терминах iCalendar
func icsStatus(s model.EventStatus) string {
	switch s {
	case model.EventStatusConfirmed, model.EventStatusCompleted:
		return "CONFIRMED"
	case model.EventStatusCancelled:
		return "CANCELLED"
	default:
		return "TENTATIVE"
	}
}

// WriteICS кодирует события в календарь iCalendar. stamp - значение DTSTAMP.
func WriteICS(w io.Writer, events []model.CalendarEvent, stamp time.Time) error {
	cal := ics.NewCalendar()
	cal.Props.SetText(ics.PropVersion, "2.0")
	cal.Props.SetText(ics.PropProductID, productID)

	for _, ev := range events {
		comp := ics.NewComponent(ics.CompEvent)

		comp.Props.SetText(ics.PropUID, ev.ID)
		comp.Props.SetText(ics.PropSummary, ev.Title)
		comp.Props.SetDateTime(ics.PropDateTimeStamp, stamp.UTC())
		comp.Props.SetDateTime(ics.PropDateTimeStart, ev.StartTime.UTC())
		comp.Props.SetDateTime(ics.PropDateTimeEnd, ev.EndTime.UTC())
		comp.Props.SetText(ics.PropStatus, icsStatus(ev.Status))
		comp.Props.SetText(ics.PropCategories, string(ev.EventType))

		if ev.Notes != "" {
			comp.Props.SetText(ics.PropDescription, ev.Notes)
		}
		if ev.Contact != nil && ev.Contact.Name != "" {
			comp.Props.SetText("X-CONTACT", ev.Contact.Name)
		}
		comp.Props.SetText("X-EVENT-STATUS", string(ev.Status))

		cal.Children = append(cal.Children, comp)
	}

	if err := ics.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("encode ICS: %w", err)
	}
	return nil
}

// ICS как WriteICS, но возвращает байты
func ICS(events []model.CalendarEvent, stamp time.Time) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteICS(&buf, events, stamp); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
