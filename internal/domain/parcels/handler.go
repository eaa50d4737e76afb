package parcels

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"union-ganadera/internal/domain/animals"
	"union-ganadera/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/parcels", func(pr chi.Router) {
		pr.Post("/", createParcelHandler(svc))
		pr.Get("/", listParcelsHandler(svc))
		pr.Get("/{parcelID}", getParcelHandler(svc))
		pr.Patch("/{parcelID}", updateParcelHandler(svc))
		pr.Delete("/{parcelID}", deleteParcelHandler(svc))

		pr.Get("/{parcelID}/animals", listParcelAnimalsHandler(svc))
	})
}

type parcelResponse struct {
	ID           string   `json:"id"`
	OwnerID      string   `json:"owner_id"`
	AddressID    *string  `json:"address_id"`
	CadastralKey string   `json:"cadastral_key"`
	TotalArea    *float64 `json:"total_area"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
}

// createParcelHandler godoc
// @Summary Crear predio
// @Tags parcels
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body Input true "Predio"
// @Success 201 {object} parcelResponse
// @Failure 400 {string} string "invalid json"
// @Failure 401 {string} string "unauthorized"
// @Failure 409 {string} string "clave catastral duplicada"
// @Router /parcels [post]
func createParcelHandler(svc *Service) http.HandlerFunc {
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

		p, err := svc.Create(r.Context(), claims.UserID, in)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toParcelResponse(p))
	}
}

// listParcelsHandler godoc
// @Summary Listar predios del usuario
// @Tags parcels
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param skip query int false "Desplazamiento (default 0)"
// @Param limit query int false "Máximo a devolver (1-200, default 100)"
// @Success 200 {array} parcelResponse
// @Failure 401 {string} string "unauthorized"
// @Router /parcels [get]
func listParcelsHandler(svc *Service) http.HandlerFunc {
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

		out := make([]parcelResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toParcelResponse(p))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// getParcelHandler godoc
// @Summary Obtener predio
// @Tags parcels
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param parcelID path string true "ID del predio"
// @Success 200 {object} parcelResponse
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "parcel not found"
// @Router /parcels/{parcelID} [get]
func getParcelHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		p, err := svc.Get(r.Context(), chi.URLParam(r, "parcelID"), claims.UserID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toParcelResponse(p))
	}
}

// updateParcelHandler godoc
// @Summary Actualizar predio
// @Tags parcels
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param parcelID path string true "ID del predio"
// @Param payload body Input true "Campos a modificar"
// @Success 200 {object} parcelResponse
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "parcel not found"
// @Router /parcels/{parcelID} [patch]
func updateParcelHandler(svc *Service) http.HandlerFunc {
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

		p, err := svc.Update(r.Context(), chi.URLParam(r, "parcelID"), claims.UserID, in)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toParcelResponse(p))
	}
}

// deleteParcelHandler godoc
// @Summary Eliminar predio
// @Tags parcels
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param parcelID path string true "ID del predio"
// @Success 200 {object} parcelResponse
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "parcel not found"
// @Router /parcels/{parcelID} [delete]
func deleteParcelHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		p, err := svc.Delete(r.Context(), chi.URLParam(r, "parcelID"), claims.UserID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toParcelResponse(p))
	}
}

// listParcelAnimalsHandler godoc
// @Summary Bovinos de un predio
// @Tags parcels
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param parcelID path string true "ID del predio"
// @Param skip query int false "Desplazamiento (default 0)"
// @Param limit query int false "Máximo a devolver (1-200, default 100)"
// @Success 200 {array} object
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "parcel not found"
// @Router /parcels/{parcelID}/animals [get]
func listParcelAnimalsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		skip, limit := page(r)
		items, err := svc.Animals(r.Context(), chi.URLParam(r, "parcelID"), claims.UserID, skip, limit)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, animals.ToResponse(items))
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
		http.Error(w, "parcel not found", http.StatusNotFound)
	case errors.Is(err, ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, ErrConflict):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toParcelResponse(p Parcel) parcelResponse {
	return parcelResponse{
		ID:           p.ID,
		OwnerID:      p.OwnerID,
		AddressID:    p.AddressID,
		CadastralKey: p.CadastralKey,
		TotalArea:    p.TotalArea,
		Latitude:     p.Latitude,
		Longitude:    p.Longitude,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
