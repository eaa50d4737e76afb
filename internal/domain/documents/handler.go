package documents

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

// maxUploadBytes limita el tamaño del multipart.
const maxUploadBytes = 20 << 20

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/documents", func(dr chi.Router) {
		dr.Post("/", uploadDocumentHandler(svc))
		dr.Get("/", listDocumentsHandler(svc))
		dr.Delete("/{docID}", deleteDocumentHandler(svc))
	})
}

// documentResponse representa un documento del usuario.
type documentResponse struct {
	ID               string    `json:"id"`
	DocType          DocType   `json:"doc_type"`
	OriginalFilename string    `json:"original_filename"`
	CreatedAt        time.Time `json:"created_at"`
	Authored         bool      `json:"authored"`
	DownloadURL      *string   `json:"download_url"`
}

// uploadDocumentHandler godoc
// @Summary Subir documento
// @Description Sube un archivo (multipart) del tipo indicado. Si el usuario ya tenía un documento de ese tipo se reemplaza.
// @Tags documents
// @Accept mpfd
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param doc_type formData string true "Tipo" Enums(id_front,id_back,proof_of_address,parcel,vet_license,brand,other)
// @Param file formData file true "Archivo"
// @Success 201 {object} documentResponse
// @Failure 400 {string} string "doc_type / file inválidos"
// @Failure 401 {string} string "unauthorized"
// @Failure 500 {string} string "could not upload file"
// @Router /documents [post]
func uploadDocumentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			http.Error(w, "invalid multipart form", http.StatusBadRequest)
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "file is required", http.StatusBadRequest)
			return
		}
		defer file.Close()

		d, err := svc.Upload(r.Context(), claims.UserID, UploadInput{
			Type:        DocType(strings.TrimSpace(r.FormValue("doc_type"))),
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Body:        file,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toDocumentResponse(Listed{Document: d}))
	}
}

// listDocumentsHandler godoc
// @Summary Listar documentos
// @Description Lista los documentos del usuario con una URL de descarga prefirmada (null si no se pudo firmar).
// @Tags documents
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param skip query int false "Desplazamiento (default 0)"
// @Param limit query int false "Máximo a devolver (1-200, default 100)"
// @Success 200 {array} documentResponse
// @Failure 401 {string} string "unauthorized"
// @Router /documents [get]
func listDocumentsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		if skip < 0 {
			skip = 0
		}
		if limit <= 0 || limit > 200 {
			limit = 100
		}

		items, err := svc.List(r.Context(), claims.UserID, skip, limit)
		if err != nil {
			writeError(w, err)
			return
		}

		out := make([]documentResponse, 0, len(items))
		for _, l := range items {
			out = append(out, toDocumentResponse(l))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// deleteDocumentHandler godoc
// @Summary Eliminar documento
// @Tags documents
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param docID path string true "ID del documento"
// @Success 200 {object} documentResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "document not found"
// @Failure 500 {string} string "could not delete file from storage"
// @Router /documents/{docID} [delete]
func deleteDocumentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		d, err := svc.Delete(r.Context(), chi.URLParam(r, "docID"), claims.UserID)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toDocumentResponse(Listed{Document: d}))
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "document not found", http.StatusNotFound)
	case errors.Is(err, ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, ErrStorage):
		http.Error(w, "storage error", http.StatusInternalServerError)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toDocumentResponse(l Listed) documentResponse {
	return documentResponse{
		ID:               l.ID,
		DocType:          l.Type,
		OriginalFilename: l.OriginalFilename,
		CreatedAt:        l.CreatedAt,
		Authored:         l.Authored,
		DownloadURL:      l.DownloadURL,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
