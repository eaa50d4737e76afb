package animals

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

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/animals", func(ar chi.Router) {
		ar.Post("/", createAnimalHandler(svc))
		ar.Get("/", listAnimalsHandler(svc))
		ar.Get("/search", searchAnimalHandler(svc))

		ar.Get("/{animalID}", getAnimalHandler(svc))
		ar.Patch("/{animalID}", updateAnimalHandler(svc))
		ar.Delete("/{animalID}", deleteAnimalHandler(svc))
	})
}

type createAnimalRequest struct {
	TagBarcode    string   `json:"tag_barcode"`
	TagRFID       string   `json:"tag_rfid"`
	Name          string   `json:"name"`
	MotherID      *string  `json:"mother_id"`
	FatherID      *string  `json:"father_id"`
	ParcelID      *string  `json:"parcel_id"`
	Breed         string   `json:"breed"`
	BirthDate     string   `json:"birth_date"` // YYYY-MM-DD opcional
	Sex           Sex      `json:"sex" enums:"M,F,X"`
	BirthWeight   *float64 `json:"birth_weight"`
	CurrentWeight *float64 `json:"current_weight"`
	Purpose       string   `json:"purpose"`
}

type updateAnimalRequest struct {
	// Punteros para PATCH real: nil = no tocar.
	TagBarcode    *string  `json:"tag_barcode"`
	TagRFID       *string  `json:"tag_rfid"`
	Name          *string  `json:"name"`
	MotherID      *string  `json:"mother_id"`
	FatherID      *string  `json:"father_id"`
	ParcelID      *string  `json:"parcel_id"`
	Breed         *string  `json:"breed"`
	BirthDate     *string  `json:"birth_date"`
	Sex           *Sex     `json:"sex" enums:"M,F,X"`
	BirthWeight   *float64 `json:"birth_weight"`
	CurrentWeight *float64 `json:"current_weight"`
	Purpose       *string  `json:"purpose"`
}

// animalResponse representa un bovino devuelto por la API.
type animalResponse struct {
	ID              string     `json:"id"`
	OwnerID         string     `json:"owner_id"`
	OriginalOwnerID string     `json:"original_owner_id"`
	ParcelID        *string    `json:"parcel_id"`
	TagBarcode      string     `json:"tag_barcode"`
	TagRFID         string     `json:"tag_rfid"`
	Folio           string     `json:"folio"`
	Name            string     `json:"name"`
	MotherID        *string    `json:"mother_id"`
	FatherID        *string    `json:"father_id"`
	Breed           string     `json:"breed"`
	BirthDate       *time.Time `json:"birth_date,omitempty"`
	Sex             Sex        `json:"sex"`
	BirthWeight     *float64   `json:"birth_weight"`
	CurrentWeight   *float64   `json:"current_weight"`
	Purpose         string     `json:"purpose"`
	Status          string     `json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// createAnimalHandler godoc
// @Summary Registrar bovino
// @Description Registra un bovino a nombre del usuario autenticado y le asigna un folio de 7 caracteres. Autenticación: `X-Debug-User-ID` (dev) o `Authorization: Bearer <token>` (prod).
// @Tags animals
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body createAnimalRequest true "Datos del bovino; birth_date en formato YYYY-MM-DD"
// @Success 201 {object} animalResponse
// @Failure 400 {string} string "invalid json / reglas de negocio"
// @Failure 401 {string} string "unauthorized"
// @Failure 409 {string} string "arete duplicado"
// @Router /animals [post]
func createAnimalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createAnimalRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		bd, err := parseDate(req.BirthDate)
		if err != nil {
			http.Error(w, "birth_date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		a, err := svc.Create(r.Context(), claims.UserID, CreateInput{
			TagBarcode:    req.TagBarcode,
			TagRFID:       req.TagRFID,
			Name:          req.Name,
			MotherID:      req.MotherID,
			FatherID:      req.FatherID,
			ParcelID:      req.ParcelID,
			Breed:         req.Breed,
			BirthDate:     bd,
			Sex:           req.Sex,
			BirthWeight:   req.BirthWeight,
			CurrentWeight: req.CurrentWeight,
			Purpose:       req.Purpose,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toAnimalResponse(a))
	}
}

// listAnimalsHandler godoc
// @Summary Listar bovinos del usuario
// @Tags animals
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param parcel_id query string false "Filtrar por predio"
// @Param skip query int false "Desplazamiento (default 0)"
// @Param limit query int false "Máximo a devolver (1-200, default 100)"
// @Success 200 {array} animalResponse
// @Failure 401 {string} string "unauthorized"
// @Router /animals [get]
func listAnimalsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		skip, limit, err := ParsePage(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		items, err := svc.List(r.Context(), ListFilter{
			OwnerID:  claims.UserID,
			ParcelID: strings.TrimSpace(r.URL.Query().Get("parcel_id")),
			Offset:   skip,
			Limit:    limit,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toAnimalResponses(items))
	}
}

// searchAnimalHandler godoc
// @Summary Buscar bovino
// @Description Devuelve el primer bovino del usuario que coincide. Prioridad: tag_barcode, luego tag_rfid, luego name.
// @Tags animals
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param tag_barcode query string false "Arete (código de barras)"
// @Param tag_rfid query string false "Arete RFID"
// @Param name query string false "Nombre"
// @Success 200 {object} animalResponse
// @Failure 400 {string} string "falta criterio"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "animal not found"
// @Router /animals/search [get]
func searchAnimalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		q := r.URL.Query()
		a, err := svc.Search(r.Context(), SearchQuery{
			OwnerID:    claims.UserID,
			TagBarcode: q.Get("tag_barcode"),
			TagRFID:    q.Get("tag_rfid"),
			Name:       q.Get("name"),
		})
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toAnimalResponse(a))
	}
}

// getAnimalHandler godoc
// @Summary Obtener bovino
// @Tags animals
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param animalID path string true "ID del bovino"
// @Success 200 {object} animalResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "animal not found"
// @Router /animals/{animalID} [get]
func getAnimalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		a, err := svc.GetOwned(r.Context(), chi.URLParam(r, "animalID"), claims.UserID)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toAnimalResponse(a))
	}
}

// updateAnimalHandler godoc
// @Summary Actualizar bovino
// @Description Actualiza parcialmente un bovino del usuario. El folio no se puede modificar.
// @Tags animals
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param animalID path string true "ID del bovino"
// @Param payload body updateAnimalRequest true "Campos a modificar"
// @Success 200 {object} animalResponse
// @Failure 400 {string} string "invalid json / reglas de negocio"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "animal not found"
// @Router /animals/{animalID} [patch]
func updateAnimalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req updateAnimalRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var bd *time.Time
		if req.BirthDate != nil {
			t, err := parseDate(*req.BirthDate)
			if err != nil || t == nil {
				http.Error(w, "birth_date must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			bd = t
		}

		a, err := svc.Update(r.Context(), chi.URLParam(r, "animalID"), claims.UserID, UpdateInput{
			TagBarcode:    req.TagBarcode,
			TagRFID:       req.TagRFID,
			Name:          req.Name,
			MotherID:      req.MotherID,
			FatherID:      req.FatherID,
			ParcelID:      req.ParcelID,
			Breed:         req.Breed,
			BirthDate:     bd,
			Sex:           req.Sex,
			BirthWeight:   req.BirthWeight,
			CurrentWeight: req.CurrentWeight,
			Purpose:       req.Purpose,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toAnimalResponse(a))
	}
}

// deleteAnimalHandler godoc
// @Summary Eliminar bovino
// @Tags animals
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param animalID path string true "ID del bovino"
// @Success 200 {object} animalResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "animal not found"
// @Router /animals/{animalID} [delete]
func deleteAnimalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		a, err := svc.Delete(r.Context(), chi.URLParam(r, "animalID"), claims.UserID)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toAnimalResponse(a))
	}
}

// ParsePage lee skip/limit del query string.
func ParsePage(r *http.Request) (skip, limit int, err error) {
	q := r.URL.Query()
	if v := strings.TrimSpace(q.Get("skip")); v != "" {
		skip, err = strconv.Atoi(v)
		if err != nil || skip < 0 {
			return 0, 0, errors.New("skip must be a non-negative integer")
		}
	}
	if v := strings.TrimSpace(q.Get("limit")); v != "" {
		limit, err = strconv.Atoi(v)
		if err != nil || limit < 1 || limit > MaxLimit {
			return 0, 0, errors.New("limit must be between 1 and 200")
		}
	}
	return skip, limit, nil
}

func parseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		http.Error(w, "animal not found", http.StatusNotFound)
	case errors.Is(err, ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, ErrConflict):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toAnimalResponse(a Animal) animalResponse {
	return animalResponse{
		ID:              a.ID,
		OwnerID:         a.OwnerID,
		OriginalOwnerID: a.OriginalOwnerID,
		ParcelID:        a.ParcelID,
		TagBarcode:      a.TagBarcode,
		TagRFID:         a.TagRFID,
		Folio:           a.Folio,
		Name:            a.Name,
		MotherID:        a.MotherID,
		FatherID:        a.FatherID,
		Breed:           a.Breed,
		BirthDate:       a.BirthDate,
		Sex:             a.Sex,
		BirthWeight:     a.BirthWeight,
		CurrentWeight:   a.CurrentWeight,
		Purpose:         a.Purpose,
		Status:          a.Status,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

func toAnimalResponses(items []Animal) []animalResponse {
	out := make([]animalResponse, 0, len(items))
	for _, a := range items {
		out = append(out, toAnimalResponse(a))
	}
	return out
}

// ToResponse expone la representación JSON del bovino para otros módulos (p. ej. /parcels/{id}/animals).
func ToResponse(items []Animal) any {
	return toAnimalResponses(items)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
