package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"union-ganadera/internal/ports/blob"
)

// fakeS3 implementa lo mínimo de S3 (PUT/HEAD/DELETE con path-style) para no salir a la red.
type fakeS3 struct {
	mu    sync.Mutex
	state map[string]fakeObj
}

type fakeObj struct {
	body        []byte
	contentType string
}

func (f *fakeS3) RoundTrip(req *http.Request) (*http.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	parts := strings.SplitN(strings.TrimPrefix(req.URL.Path, "/"), "/", 2)
	key := ""
	if len(parts) == 2 {
		key = parts[1]
	}

	empty := io.NopCloser(bytes.NewReader(nil))
	switch req.Method {
	case http.MethodPut:
		body, _ := io.ReadAll(req.Body)
		if dec, ok := decodeChunked(body); ok {
			body = dec
		}
		f.state[key] = fakeObj{body: body, contentType: req.Header.Get("Content-Type")}
		return &http.Response{StatusCode: http.StatusOK, Body: empty, Header: http.Header{"ETag": {`"etag"`}}}, nil
	case http.MethodHead:
		if o, ok := f.state[key]; ok {
			return &http.Response{StatusCode: http.StatusOK, Body: empty, Header: http.Header{
				"Content-Length": {strconv.Itoa(len(o.body))},
				"Content-Type":   {o.contentType},
				"Last-Modified":  {time.Now().UTC().Format(http.TimeFormat)},
			}}, nil
		}
		return &http.Response{StatusCode: http.StatusNotFound, Body: empty, Header: http.Header{}}, nil
	case http.MethodDelete:
		delete(f.state, key)
		return &http.Response{StatusCode: http.StatusNoContent, Body: empty, Header: http.Header{}}, nil
	}
	return &http.Response{StatusCode: http.StatusNotImplemented, Body: empty, Header: http.Header{}}, nil
}

// decodeChunked quita el framing aws-chunked de un solo bloque: <hex>[;...]\r\n<body>\r\n0\r\n...
func decodeChunked(b []byte) ([]byte, bool) {
	s := string(b)
	head, rest, ok := strings.Cut(s, "\r\n")
	if !ok {
		return nil, false
	}
	head, _, _ = strings.Cut(head, ";")
	n, err := strconv.ParseInt(head, 16, 64)
	if err != nil || int64(len(rest)) < n {
		return nil, false
	}
	if !strings.HasPrefix(rest[n:], "\r\n0") {
		return nil, false
	}
	return []byte(rest[:n]), true
}

func newFakeStore(t *testing.T, publicURL string) (*Store, *fakeS3) {
	t.Helper()
	fake := &fakeS3{state: map[string]fakeObj{}}
	st, err := New(context.Background(), Config{
		Region:          "us-east-1",
		Bucket:          "docs",
		Endpoint:        "https://s3.internal.local",
		PublicURL:       publicURL,
		PathStyle:       true,
		AccessKeyID:     "AKIA",
		SecretAccessKey: "SECRET",
		HTTPClient:      &http.Client{Transport: fake},
	})
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return st, fake
}

func TestNew_RequiresBucket(t *testing.T) {
	if _, err := New(context.Background(), Config{}); err == nil {
		t.Fatalf("expected error without bucket")
	}
}

func TestStore_PutHeadDelete(t *testing.T) {
	st, fake := newFakeStore(t, "")
	ctx := context.Background()

	info, err := st.Put(ctx, "u1/id_front/a.png", bytes.NewReader([]byte("hello")), blob.PutOptions{ContentType: "image/png"})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if info.Key != "u1/id_front/a.png" || info.ContentType != "image/png" || info.Size != 5 {
		t.Fatalf("unexpected info %#v", info)
	}
	if _, ok := fake.state["u1/id_front/a.png"]; !ok {
		t.Fatalf("object not stored, state=%v", keys(fake))
	}

	if err := st.Delete(ctx, "u1/id_front/a.png"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(fake.state) != 0 {
		t.Fatalf("expected empty bucket, got %v", keys(fake))
	}
}

func TestStore_PresignUsesPublicURL(t *testing.T) {
	st, _ := newFakeStore(t, "https://files.example.com")

	u, err := st.PresignGet(context.Background(), "u1/other/x.pdf", 10*time.Minute)
	if err != nil {
		t.Fatalf("presign: %v", err)
	}
	if !strings.HasPrefix(u, "https://files.example.com/docs/u1/other/x.pdf") {
		t.Fatalf("unexpected url %s", u)
	}
	if !strings.Contains(u, "X-Amz-Expires=600") {
		t.Fatalf("expected 600s expiry in %s", u)
	}
}

func TestMapErr(t *testing.T) {
	other := errors.New("boom")
	if err := mapErr("k", other); errors.Is(err, blob.ErrNotFound) || !errors.Is(err, other) {
		t.Fatalf("unexpected mapping %v", err)
	}
}

func keys(f *fakeS3) string {
	out := make([]string, 0, len(f.state))
	for k := range f.state {
		out = append(out, k)
	}
	return fmt.Sprint(out)
}
