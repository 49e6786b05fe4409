package handlers

import (
	"net/http"

	"workforce/services"
)

type ReportHandler struct {
	service *services.Service
}

func NewReportHandler(svc *services.Service) *ReportHandler {
	return &ReportHandler{service: svc}
}

func (h *ReportHandler) Report(w http.ResponseWriter, r *http.Request) {
	employeeID, err := queryID(r, "employee")
	if err != nil {
		writeError(w, r, err)
		return
	}

	report, err := h.service.Report(r.Context(), principal(r), employeeID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// Notifications lists the computed alerts, or only their count with
// ?unread=true.
func (h *ReportHandler) Notifications(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.service.Notifications(r.Context(), principal(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	if r.URL.Query().Get("unread") == "true" {
		writeJSON(w, http.StatusOK, map[string]int{"count": len(alerts)})
		return
	}
	writeJSON(w, http.StatusOK, map[string][]services.Alert{"alerts": alerts})
}
