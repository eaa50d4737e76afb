package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"union-ganadera/internal/platform/metrics"
	"union-ganadera/internal/router"
)

type user struct {
	id   string
	role string
}

var (
	owner    = user{id: "owner-1", role: "owner"}
	stranger = user{id: "owner-2", role: "owner"}
	vet      = user{id: "vet-1", role: "veterinarian"}
)

func TestHTTP_EndToEnd_WeightByOwner(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	animalID := createAnimal(t, ts.URL, owner, map[string]any{"name": "Pinta", "current_weight": 380})

	st, body := doReq(t, ts.URL, "POST", "/events", owner, map[string]any{
		"type": "weight",
		"data": map[string]any{"subject_id": animalID, "new_weight": 410.5},
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201 submit weight, got %d body=%s", st, string(body))
	}
	var entry struct {
		ID        string `json:"id"`
		SubjectID string `json:"subject_id"`
		Timestamp string `json:"timestamp"`
	}
	_ = json.Unmarshal(body, &entry)
	if entry.SubjectID != animalID || entry.Timestamp == "" || entry.ID == "" {
		t.Fatalf("unexpected entry body=%s", string(body))
	}

	st, body = doReq(t, ts.URL, "GET", "/events/weight/"+entry.ID, owner, nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 weight detail, got %d body=%s", st, string(body))
	}
	var detail map[string]any
	_ = json.Unmarshal(body, &detail)
	if detail["new_weight"] != 410.5 || detail["previous_weight"] != float64(380) {
		t.Fatalf("unexpected weight detail %v", detail)
	}

	// el peso actual del bovino se actualiza
	st, body = doReq(t, ts.URL, "GET", "/animals/"+animalID, owner, nil)
	if st != http.StatusOK || !strings.Contains(string(body), `"current_weight":410.5`) {
		t.Fatalf("animal not updated: %d body=%s", st, string(body))
	}

	// otro usuario no puede registrar peso
	st, body = doReq(t, ts.URL, "POST", "/events", stranger, map[string]any{
		"type": "weight",
		"data": map[string]any{"subject_id": animalID, "new_weight": 1},
	})
	if st != http.StatusForbidden || errorKind(body) != "unauthorized" {
		t.Fatalf("expected 403 unauthorized, got %d body=%s", st, string(body))
	}
}

func TestHTTP_EndToEnd_VaccinationRequiresVet(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	animalID := createAnimal(t, ts.URL, owner, map[string]any{"name": "Lucera"})
	payload := map[string]any{
		"type": "vaccination",
		"data": map[string]any{
			"subject_id": animalID, "type": "rabies", "lot": "L1", "lab": "LabX", "next_due_date": "2026-01-01",
		},
	}

	// el dueño no es veterinario
	st, body := doReq(t, ts.URL, "POST", "/events", owner, payload)
	if st != http.StatusForbidden || errorKind(body) != "unauthorized" {
		t.Fatalf("expected 403 for owner vaccination, got %d body=%s", st, string(body))
	}

	st, body = doReq(t, ts.URL, "POST", "/events", vet, payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 vet vaccination, got %d body=%s", st, string(body))
	}
	var entry struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &entry)

	st, body = doReq(t, ts.URL, "GET", "/events/vaccination/animal/"+animalID, owner, nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 listing vaccinations, got %d body=%s", st, string(body))
	}
	var list []map[string]any
	_ = json.Unmarshal(body, &list)
	if len(list) != 1 || list[0]["id"] != entry.ID {
		t.Fatalf("unexpected vaccinations %s", string(body))
	}
	if list[0]["veterinarian_id"] != vet.id || list[0]["next_due_date"] != "2026-01-01" {
		t.Fatalf("unexpected vaccination detail %v", list[0])
	}
}

func TestHTTP_Events_ErrorShapes(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	animalID := createAnimal(t, ts.URL, owner, map[string]any{"name": "Canela"})

	cases := []struct {
		name   string
		as     *user
		body   map[string]any
		status int
		kind   string
	}{
		{"no credentials", nil, map[string]any{"type": "diet"}, http.StatusUnauthorized, "unauthorized"},
		{"missing field", &owner, map[string]any{"type": "diet", "data": map[string]any{"subject_id": animalID}}, http.StatusBadRequest, "validation_error"},
		{"unknown animal", &owner, map[string]any{"type": "diet", "data": map[string]any{"subject_id": "nope", "feed": "pasto"}}, http.StatusNotFound, "not_found"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var u user
			if tc.as != nil {
				u = *tc.as
			}
			st, body := doReq(t, ts.URL, "POST", "/events", u, tc.body)
			if st != tc.status || errorKind(body) != tc.kind {
				t.Fatalf("got %d body=%s", st, string(body))
			}
		})
	}

	// tipo desconocido => evento general del dueño
	st, body := doReq(t, ts.URL, "POST", "/events", owner, map[string]any{
		"type": "castración",
		"data": map[string]any{"subject_id": animalID, "notes": "sin detalle"},
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201 general event, got %d body=%s", st, string(body))
	}
	st, body = doReq(t, ts.URL, "GET", "/animals/"+animalID+"/events", owner, nil)
	if st != http.StatusOK || !strings.Contains(string(body), "sin detalle") {
		t.Fatalf("expected general event listed, got %d body=%s", st, string(body))
	}
	st, _ = doReq(t, ts.URL, "GET", "/animals/"+animalID+"/events", stranger, nil)
	if st != http.StatusForbidden {
		t.Fatalf("expected 403 listing someone else's events, got %d", st)
	}
}

func TestHTTP_IllnessTreatments(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	animalID := createAnimal(t, ts.URL, owner, map[string]any{"name": "Negra"})

	st, body := doReq(t, ts.URL, "POST", "/events", vet, map[string]any{
		"type": "illness",
		"data": map[string]any{"subject_id": animalID, "type": "mastitis"},
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201 illness, got %d body=%s", st, string(body))
	}
	var entry struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &entry)

	st, body = doReq(t, ts.URL, "GET", "/events/illness/"+entry.ID, owner, nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 illness detail, got %d body=%s", st, string(body))
	}
	var illness struct {
		IllnessID string `json:"illness_id"`
	}
	_ = json.Unmarshal(body, &illness)

	st, body = doReq(t, ts.URL, "POST", "/events", vet, map[string]any{
		"type": "treatment",
		"data": map[string]any{
			"subject_id": animalID, "illness_id": illness.IllnessID,
			"medication": "penicilina", "dose": "5ml", "period": "3 días",
		},
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201 treatment, got %d body=%s", st, string(body))
	}

	st, body = doReq(t, ts.URL, "GET", "/events/illness/"+illness.IllnessID+"/treatments", owner, nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 treatments, got %d body=%s", st, string(body))
	}
	var treatments []map[string]any
	_ = json.Unmarshal(body, &treatments)
	if len(treatments) != 1 || treatments[0]["medication"] != "penicilina" {
		t.Fatalf("unexpected treatments %s", string(body))
	}
}

func TestHTTP_Documents(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	upload := func(content string) string {
		t.Helper()
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		_ = mw.WriteField("doc_type", "id_front")
		fw, _ := mw.CreateFormFile("file", "ine.PDF")
		_, _ = fw.Write([]byte(content))
		_ = mw.Close()

		req, _ := http.NewRequest("POST", ts.URL+"/documents", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req.Header.Set("X-Debug-User-ID", owner.id)
		res, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("upload: %v", err)
		}
		defer res.Body.Close()
		body, _ := io.ReadAll(res.Body)
		if res.StatusCode != http.StatusCreated {
			t.Fatalf("expected 201 upload, got %d body=%s", res.StatusCode, string(body))
		}
		var d struct {
			ID string `json:"id"`
		}
		_ = json.Unmarshal(body, &d)
		return d.ID
	}

	first := upload("v1")
	second := upload("v2")
	if first == second {
		t.Fatalf("replacement must create a new document")
	}

	// un solo documento por tipo
	st, body := doReq(t, ts.URL, "GET", "/documents", owner, nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 list documents, got %d body=%s", st, string(body))
	}
	var docs []struct {
		ID          string  `json:"id"`
		DownloadURL *string `json:"download_url"`
	}
	_ = json.Unmarshal(body, &docs)
	if len(docs) != 1 || docs[0].ID != second || docs[0].DownloadURL == nil {
		t.Fatalf("unexpected documents %s", string(body))
	}

	if st, _ := doReq(t, ts.URL, "DELETE", "/documents/"+second, stranger, nil); st != http.StatusForbidden {
		t.Fatalf("expected 403 deleting someone else's document, got %d", st)
	}
	if st, _ := doReq(t, ts.URL, "DELETE", "/documents/"+second, owner, nil); st != http.StatusNoContent && st != http.StatusOK {
		t.Fatalf("expected delete to succeed, got %d", st)
	}
}

func TestHTTP_BannedUserIsForbidden(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	st, _ := doReq(t, ts.URL, "GET", "/animals", user{id: "u-banned", role: "banned"}, nil)
	if st != http.StatusForbidden {
		t.Fatalf("expected 403 for banned user, got %d", st)
	}
}

func TestHTTP_HealthAndMetrics(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{Metrics: metrics.New()}))
	defer ts.Close()

	if st, body := doReq(t, ts.URL, "GET", "/health", user{}, nil); st != http.StatusOK || string(body) != "ok" {
		t.Fatalf("health: %d %s", st, string(body))
	}

	_, _ = doReq(t, ts.URL, "POST", "/events", owner, map[string]any{"type": "diet", "data": map[string]any{}})

	st, body := doReq(t, ts.URL, "GET", "/metrics", user{}, nil)
	if st != http.StatusOK {
		t.Fatalf("metrics: %d", st)
	}
	if !strings.Contains(string(body), `outcome="validation_error"`) {
		t.Fatalf("expected event submission counter in metrics output")
	}
}

func createAnimal(t *testing.T, baseURL string, u user, payload map[string]any) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/animals", u, payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create animal, got %d body=%s", st, string(body))
	}

	var resp struct {
		ID    string `json:"id"`
		Folio string `json:"folio"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == "" || len(resp.Folio) != 7 {
		t.Fatalf("create animal: missing id or folio body=%s", string(body))
	}
	return resp.ID
}

func errorKind(body []byte) string {
	var e struct {
		Error string `json:"error"`
	}
	_ = json.Unmarshal(body, &e)
	return e.Error
}

func doReq(t *testing.T, baseURL, method, path string, u user, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if u.id != "" {
		req.Header.Set("X-Debug-User-ID", u.id)
		req.Header.Set("X-Debug-User-Role", u.role)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	b, _ := io.ReadAll(res.Body)
	return res.StatusCode, b
}
