package events

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"union-ganadera/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// SubmitObserver recibe el resultado de cada envío (métricas).
type SubmitObserver interface {
	EventSubmitted(kind, outcome string)
}

func RegisterRoutes(r chi.Router, svc *Service, obs SubmitObserver) {
	r.Route("/events", func(er chi.Router) {
		er.Post("/", submitEventHandler(svc, obs))
		er.Get("/", listMyEventsHandler(svc))

		// Detalle por tipo: /events/weight, /events/weight/animal/{animalID}, /events/weight/{id}
		for _, k := range DetailKinds {
			er.Route("/"+string(k), func(kr chi.Router) {
				kr.Get("/", listDetailsHandler(svc, k))
				kr.Get("/animal/{animalID}", listDetailsByAnimalHandler(svc, k))
				kr.Get("/{id}", getDetailHandler(svc, k))
				if k == KindIllness {
					kr.Get("/{id}/treatments", listTreatmentsByIllnessHandler(svc))
				}
			})
		}

		er.Get("/{eventID}", getEventHandler(svc))
	})

	r.Get("/animals/{animalID}/events", listAnimalEventsHandler(svc))
}

// submitEventRequest es el cuerpo para registrar un evento: type + data libre según el tipo.
type submitEventRequest struct {
	Type string          `json:"type" enums:"weight,diet,vaccination,deworming,lab,sale,transfer,illness,treatment,general"`
	Data json.RawMessage `json:"data" swaggertype:"object"`
}

// eventResponse es la entrada genérica del libro de eventos.
type eventResponse struct {
	ID        string    `json:"id"`
	SubjectID string    `json:"subject_id"`
	Timestamp time.Time `json:"timestamp"`
	Notes     string    `json:"notes"`
}

type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

// submitEventHandler godoc
// @Summary Registrar evento
// @Description Registra un evento de un bovino. weight, diet, sale, transfer y tipos desconocidos (general) requieren ser dueño del bovino. vaccination, deworming, lab, illness y treatment requieren rol veterinario; el veterinario registrado siempre es quien llama. Autenticación: `X-Debug-User-ID` + `X-Debug-User-Role` (dev) o `Authorization: Bearer <token>` (prod).
// @Tags events
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param X-Debug-User-Role header string false "Solo en modo dev: owner, veterinarian, admin"
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body submitEventRequest true "type + data (subject_id, notes y campos del tipo)"
// @Success 201 {object} eventResponse
// @Failure 400 {object} errorResponse "validation_error"
// @Failure 401 {object} errorResponse "unauthorized"
// @Failure 403 {object} errorResponse "unauthorized"
// @Failure 404 {object} errorResponse "not_found"
// @Failure 500 {object} errorResponse "backend_failure"
// @Router /events [post]
func submitEventHandler(svc *Service, obs SubmitObserver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			writeErrorJSON(w, http.StatusUnauthorized, "unauthorized", "missing credentials")
			return
		}

		var req submitEventRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeErrorJSON(w, http.StatusBadRequest, "validation_error", "invalid json")
			return
		}

		kind := ParseKind(req.Type)
		e, err := svc.Submit(r.Context(), kind, req.Data, Actor{ID: claims.UserID, Role: claims.Role})
		if obs != nil {
			obs.EventSubmitted(string(kind), ErrorKind(err))
		}
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toEventResponse(e))
	}
}

// listMyEventsHandler godoc
// @Summary Listar mis eventos
// @Description Eventos de todos los bovinos del usuario, más reciente primero.
// @Tags events
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param skip query int false "Desplazamiento (default 0)"
// @Param limit query int false "Máximo a devolver (1-200, default 100)"
// @Success 200 {array} eventResponse
// @Failure 401 {object} errorResponse
// @Router /events [get]
func listMyEventsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			writeErrorJSON(w, http.StatusUnauthorized, "unauthorized", "missing credentials")
			return
		}

		page, err := parsePage(r)
		if err != nil {
			writeError(w, err)
			return
		}

		items, err := svc.ListMine(r.Context(), claims.UserID, page)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toEventResponses(items))
	}
}

// getEventHandler godoc
// @Summary Obtener evento
// @Tags events
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param eventID path string true "ID del evento"
// @Success 200 {object} eventResponse
// @Failure 401 {object} errorResponse
// @Failure 403 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /events/{eventID} [get]
func getEventHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			writeErrorJSON(w, http.StatusUnauthorized, "unauthorized", "missing credentials")
			return
		}

		e, err := svc.Get(r.Context(), chi.URLParam(r, "eventID"), claims.UserID)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toEventResponse(e))
	}
}

// listAnimalEventsHandler godoc
// @Summary Listar eventos de un bovino
// @Tags events
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param animalID path string true "ID del bovino"
// @Param skip query int false "Desplazamiento (default 0)"
// @Param limit query int false "Máximo a devolver (1-200, default 100)"
// @Success 200 {array} eventResponse
// @Failure 401 {object} errorResponse
// @Failure 403 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /animals/{animalID}/events [get]
func listAnimalEventsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			writeErrorJSON(w, http.StatusUnauthorized, "unauthorized", "missing credentials")
			return
		}

		page, err := parsePage(r)
		if err != nil {
			writeError(w, err)
			return
		}

		items, err := svc.ListForAnimal(r.Context(), chi.URLParam(r, "animalID"), claims.UserID, page)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toEventResponses(items))
	}
}

// listDetailsHandler godoc
// @Summary Listar detalles de un tipo
// @Description Entradas del tipo indicado de todos los bovinos del usuario, con los campos del detalle aplanados.
// @Tags events
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param kind path string true "Tipo" Enums(weight,diet,vaccination,deworming,lab,sale,transfer,illness,treatment)
// @Param skip query int false "Desplazamiento (default 0)"
// @Param limit query int false "Máximo a devolver (1-200, default 100)"
// @Success 200 {array} object
// @Failure 401 {object} errorResponse
// @Router /events/{kind} [get]
func listDetailsHandler(svc *Service, kind Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			writeErrorJSON(w, http.StatusUnauthorized, "unauthorized", "missing credentials")
			return
		}

		page, err := parsePage(r)
		if err != nil {
			writeError(w, err)
			return
		}

		items, err := svc.ListDetails(r.Context(), kind, DetailFilter{Page: page}, claims.UserID)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toDetailResponses(items))
	}
}

// listDetailsByAnimalHandler godoc
// @Summary Listar detalles de un tipo para un bovino
// @Tags events
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param kind path string true "Tipo" Enums(weight,diet,vaccination,deworming,lab,sale,transfer,illness,treatment)
// @Param animalID path string true "ID del bovino"
// @Param skip query int false "Desplazamiento (default 0)"
// @Param limit query int false "Máximo a devolver (1-200, default 100)"
// @Success 200 {array} object
// @Failure 401 {object} errorResponse
// @Failure 403 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /events/{kind}/animal/{animalID} [get]
func listDetailsByAnimalHandler(svc *Service, kind Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			writeErrorJSON(w, http.StatusUnauthorized, "unauthorized", "missing credentials")
			return
		}

		page, err := parsePage(r)
		if err != nil {
			writeError(w, err)
			return
		}

		items, err := svc.ListDetails(r.Context(), kind, DetailFilter{
			SubjectID: chi.URLParam(r, "animalID"),
			Page:      page,
		}, claims.UserID)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toDetailResponses(items))
	}
}

// getDetailHandler godoc
// @Summary Obtener detalle de un evento
// @Tags events
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param kind path string true "Tipo" Enums(weight,diet,vaccination,deworming,lab,sale,transfer,illness,treatment)
// @Param id path string true "ID del evento"
// @Success 200 {object} object
// @Failure 401 {object} errorResponse
// @Failure 403 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /events/{kind}/{id} [get]
func getDetailHandler(svc *Service, kind Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			writeErrorJSON(w, http.StatusUnauthorized, "unauthorized", "missing credentials")
			return
		}

		d, err := svc.GetDetail(r.Context(), kind, chi.URLParam(r, "id"), claims.UserID)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toDetailResponse(d))
	}
}

// listTreatmentsByIllnessHandler godoc
// @Summary Tratamientos de una enfermedad
// @Tags events
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param id path string true "ID de la enfermedad (illness_id)"
// @Param skip query int false "Desplazamiento (default 0)"
// @Param limit query int false "Máximo a devolver (1-200, default 100)"
// @Success 200 {array} object
// @Failure 401 {object} errorResponse
// @Failure 403 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /events/illness/{id}/treatments [get]
func listTreatmentsByIllnessHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			writeErrorJSON(w, http.StatusUnauthorized, "unauthorized", "missing credentials")
			return
		}

		page, err := parsePage(r)
		if err != nil {
			writeError(w, err)
			return
		}

		items, err := svc.ListDetails(r.Context(), KindTreatment, DetailFilter{
			IllnessID: chi.URLParam(r, "id"),
			Page:      page,
		}, claims.UserID)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toDetailResponses(items))
	}
}

func parsePage(r *http.Request) (Page, error) {
	var p Page
	q := r.URL.Query()
	if v := strings.TrimSpace(q.Get("skip")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return Page{}, errors.Join(ErrValidation, errors.New("skip must be a non-negative integer"))
		}
		p.Offset = n
	}
	if v := strings.TrimSpace(q.Get("limit")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 200 {
			return Page{}, errors.Join(ErrValidation, errors.New("limit must be between 1 and 200"))
		}
		p.Limit = n
	}
	return p, nil
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusOf(err)
	detail := err.Error()
	if status == http.StatusInternalServerError {
		// no exponer detalles del almacenamiento
		detail = "internal error"
	}
	writeErrorJSON(w, status, ErrorKind(err), detail)
}

func writeErrorJSON(w http.ResponseWriter, status int, kind, detail string) {
	writeJSON(w, status, errorResponse{Error: kind, Detail: detail})
}

func toEventResponse(e LedgerEntry) eventResponse {
	return eventResponse{
		ID:        e.ID,
		SubjectID: e.SubjectID,
		Timestamp: e.Timestamp,
		Notes:     e.Notes,
	}
}

func toEventResponses(items []LedgerEntry) []eventResponse {
	out := make([]eventResponse, 0, len(items))
	for _, e := range items {
		out = append(out, toEventResponse(e))
	}
	return out
}

// toDetailResponse aplana entrada + detalle en un solo objeto JSON.
func toDetailResponse(d Detail) map[string]any {
	out := map[string]any{}
	if d.Row != nil {
		if b, err := json.Marshal(d.Row); err == nil {
			_ = json.Unmarshal(b, &out)
		}
	}
	out["id"] = d.Entry.ID
	out["subject_id"] = d.Entry.SubjectID
	out["timestamp"] = d.Entry.Timestamp
	out["notes"] = d.Entry.Notes
	out["kind"] = d.Kind
	return out
}

func toDetailResponses(items []Detail) []map[string]any {
	out := make([]map[string]any, 0, len(items))
	for _, d := range items {
		out = append(out, toDetailResponse(d))
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
