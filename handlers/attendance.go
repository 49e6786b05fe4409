package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"

	"workforce/models"
	"workforce/services"
)

type AttendanceHandler struct {
	service *services.Service
}

func NewAttendanceHandler(svc *services.Service) *AttendanceHandler {
	return &AttendanceHandler{service: svc}
}

func (h *AttendanceHandler) ClockIn(w http.ResponseWriter, r *http.Request) {
	attendance, err := h.service.ClockIn(r.Context(), principal(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newAttendanceResponse(attendance))
}

func (h *AttendanceHandler) ClockOut(w http.ResponseWriter, r *http.Request) {
	attendance, err := h.service.ClockOut(r.Context(), principal(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newAttendanceResponse(attendance))
}

// List returns the visible attendances, optionally narrowed to one
// employee with ?employee=.
func (h *AttendanceHandler) List(w http.ResponseWriter, r *http.Request) {
	employeeID, err := queryID(r, "employee")
	if err != nil {
		writeError(w, r, err)
		return
	}

	attendances, err := h.service.ListAttendance(r.Context(), principal(r), employeeID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newAttendanceResponses(attendances))
}

// ExportCSV writes one month of visible attendances as CSV.
func (h *AttendanceHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	month, _ := strconv.Atoi(r.URL.Query().Get("month"))
	year, _ := strconv.Atoi(r.URL.Query().Get("year"))

	attendances, err := h.service.ExportAttendance(r.Context(), principal(r), month, year)
	if err != nil {
		writeError(w, r, err)
		return
	}

	filename := fmt.Sprintf("attendance_%d_%02d.csv", year, month)
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))

	writer := csv.NewWriter(w)
	defer writer.Flush()

	writer.Write([]string{"Employee", "Full Name", "Date", "Clock In", "Clock Out", "Hours"})
	for i := range attendances {
		writer.Write(attendanceRow(&attendances[i]))
	}
}

func attendanceRow(a *models.Attendance) []string {
	name, fullName := "", ""
	if a.Employee != nil {
		name = a.Employee.Username
		fullName = a.Employee.FullName()
	}

	clockOut, hours := "", ""
	if a.ClockOut != nil {
		clockOut = a.ClockOut.Format("15:04")
	}
	if worked := a.TimeWorked(); worked != nil {
		hours = fmt.Sprintf("%.2f", *worked)
	}

	return []string{
		name,
		fullName,
		a.Date.Format(models.DateLayout),
		a.ClockIn.Format("15:04"),
		clockOut,
		hours,
	}
}
