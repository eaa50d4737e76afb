package addresses

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"union-ganadera/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/addresses", func(ar chi.Router) {
		ar.Post("/", createAddressHandler(svc))
		ar.Get("/", listAddressesHandler(svc))
		ar.Get("/{addressID}", getAddressHandler(svc))
		ar.Patch("/{addressID}", updateAddressHandler(svc))
		ar.Delete("/{addressID}", deleteAddressHandler(svc))
	})
}

type addressResponse struct {
	ID           string `json:"id"`
	OwnerID      string `json:"owner_id"`
	Street       string `json:"street"`
	Neighborhood string `json:"neighborhood"`
	PostalCode   string `json:"postal_code"`
	State        string `json:"state"`
	Municipality string `json:"municipality"`
}

// createAddressHandler godoc
// @Summary Crear domicilio
// @Tags addresses
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body Input true "Domicilio"
// @Success 201 {object} addressResponse
// @Failure 400 {string} string "invalid json"
// @Failure 401 {string} string "unauthorized"
// @Router /addresses [post]
func createAddressHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var in Input
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		a, err := svc.Create(r.Context(), claims.UserID, in)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toAddressResponse(a))
	}
}

// listAddressesHandler godoc
// @Summary Listar domicilios del usuario
// @Tags addresses
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param skip query int false "Desplazamiento (default 0)"
// @Param limit query int false "Máximo a devolver (1-200, default 100)"
// @Success 200 {array} addressResponse
// @Failure 401 {string} string "unauthorized"
// @Router /addresses [get]
func listAddressesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		skip, limit := page(r)
		items, err := svc.List(r.Context(), claims.UserID, skip, limit)
		if err != nil {
			writeError(w, err)
			return
		}

		out := make([]addressResponse, 0, len(items))
		for _, a := range items {
			out = append(out, toAddressResponse(a))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// getAddressHandler godoc
// @Summary Obtener domicilio
// @Tags addresses
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param addressID path string true "ID del domicilio"
// @Success 200 {object} addressResponse
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "address not found"
// @Router /addresses/{addressID} [get]
func getAddressHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		a, err := svc.Get(r.Context(), chi.URLParam(r, "addressID"), claims.UserID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAddressResponse(a))
	}
}

// updateAddressHandler godoc
// @Summary Actualizar domicilio
// @Tags addresses
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param addressID path string true "ID del domicilio"
// @Param payload body Input true "Campos a modificar"
// @Success 200 {object} addressResponse
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "address not found"
// @Router /addresses/{addressID} [patch]
func updateAddressHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var in Input
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		a, err := svc.Update(r.Context(), chi.URLParam(r, "addressID"), claims.UserID, in)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAddressResponse(a))
	}
}

// deleteAddressHandler godoc
// @Summary Eliminar domicilio
// @Tags addresses
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param addressID path string true "ID del domicilio"
// @Success 200 {object} addressResponse
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "address not found"
// @Router /addresses/{addressID} [delete]
func deleteAddressHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		a, err := svc.Delete(r.Context(), chi.URLParam(r, "addressID"), claims.UserID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAddressResponse(a))
	}
}

func page(r *http.Request) (skip, limit int) {
	skip, _ = strconv.Atoi(r.URL.Query().Get("skip"))
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 || limit > 200 {
		limit = 100
	}
	return skip, limit
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "address not found", http.StatusNotFound)
	case errors.Is(err, ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toAddressResponse(a Address) addressResponse {
	return addressResponse{
		ID:           a.ID,
		OwnerID:      a.OwnerID,
		Street:       a.Street,
		Neighborhood: a.Neighborhood,
		PostalCode:   a.PostalCode,
		State:        a.State,
		Municipality: a.Municipality,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
