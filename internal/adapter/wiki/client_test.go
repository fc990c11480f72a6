package wiki

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/heartmarshall/terminology-bot/internal/config"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeWiki emulates the subset of the MediaWiki action API the client uses.
type fakeWiki struct {
	mu       sync.Mutex
	logins   int
	uploads  map[string]string
	pages    map[string]string
	password string
}

func newFakeWiki() *fakeWiki {
	return &fakeWiki{uploads: map[string]string{}, pages: map[string]string{}, password: "secret"}
}

func (f *fakeWiki) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	} else if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	loggedIn := false
	if c, err := r.Cookie("session"); err == nil && c.Value == "ok" {
		loggedIn = true
	}

	switch r.FormValue("action") {
	case "query":
		if r.FormValue("type") == "login" {
			io.WriteString(w, `{"query":{"tokens":{"logintoken":"login+\\"}}}`)
			return
		}
		if !loggedIn {
			io.WriteString(w, `{"query":{"tokens":{"csrftoken":"+\\"}}}`)
			return
		}
		io.WriteString(w, `{"query":{"tokens":{"csrftoken":"csrf+\\"}}}`)

	case "login":
		if r.PostFormValue("lgtoken") != `login+\` || r.PostFormValue("lgpassword") != f.password {
			io.WriteString(w, `{"login":{"result":"Failed","reason":"Incorrect username or password entered."}}`)
			return
		}
		f.logins++
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "ok", Path: "/"})
		io.WriteString(w, `{"login":{"result":"Success"}}`)

	case "upload":
		if r.FormValue("token") != `csrf+\` {
			io.WriteString(w, `{"error":{"code":"badtoken","info":"Invalid CSRF token."}}`)
			return
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			io.WriteString(w, `{"error":{"code":"missingparam","info":"file"}}`)
			return
		}
		data, _ := io.ReadAll(file)
		f.uploads[r.FormValue("filename")] = string(data)
		io.WriteString(w, `{"upload":{"result":"Success"}}`)

	case "edit":
		if r.PostFormValue("token") != `csrf+\` {
			io.WriteString(w, `{"error":{"code":"badtoken","info":"Invalid CSRF token."}}`)
			return
		}
		f.pages[r.PostFormValue("title")] = r.PostFormValue("text")
		io.WriteString(w, `{"edit":{"result":"Success"}}`)

	default:
		io.WriteString(w, `{"error":{"code":"badvalue","info":"unknown action"}}`)
	}
}

func newTestClient(t *testing.T, srv *httptest.Server, password string) *Client {
	t.Helper()
	c, err := NewClient(config.WikiConfig{
		APIURL:   srv.URL + "/api.php",
		User:     "bot",
		Password: password,
		Timeout:  5 * time.Second,
	}, newTestLogger())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func TestClient_EditLogsInOnce(t *testing.T) {
	t.Parallel()

	fake := newFakeWiki()
	srv := httptest.NewServer(fake)
	defer srv.Close()

	c := newTestClient(t, srv, "secret")
	ctx := context.Background()

	if err := c.Edit(ctx, "Juba", "**juba**", "publish"); err != nil {
		t.Fatalf("Edit: unexpected error: %v", err)
	}
	if err := c.Edit(ctx, "Valet", "**valet**", "publish"); err != nil {
		t.Fatalf("Edit: unexpected error: %v", err)
	}

	if fake.logins != 1 {
		t.Errorf("logins = %d, want 1", fake.logins)
	}
	if fake.pages["Juba"] != "**juba**" {
		t.Errorf("page text = %q", fake.pages["Juba"])
	}
}

func TestClient_Upload(t *testing.T) {
	t.Parallel()

	fake := newFakeWiki()
	srv := httptest.NewServer(fake)
	defer srv.Close()

	c := newTestClient(t, srv, "secret")

	if err := c.Upload(context.Background(), "abc.jpg", strings.NewReader("jpeg"), "photo of juba"); err != nil {
		t.Fatalf("Upload: unexpected error: %v", err)
	}
	if fake.uploads["abc.jpg"] != "jpeg" {
		t.Errorf("uploaded content = %q, want %q", fake.uploads["abc.jpg"], "jpeg")
	}
}

func TestClient_LoginFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(newFakeWiki())
	defer srv.Close()

	c := newTestClient(t, srv, "wrong")

	err := c.Edit(context.Background(), "Juba", "text", "publish")
	if !errors.Is(err, ErrAPI) {
		t.Fatalf("expected ErrAPI, got %v", err)
	}
	if !strings.Contains(err.Error(), "Failed") {
		t.Errorf("error should carry the login result: %v", err)
	}
}

func TestClient_HTTPError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := newTestClient(t, srv, "secret")

	err := c.Login(context.Background())
	if err == nil || !strings.Contains(err.Error(), "unexpected status 502") {
		t.Fatalf("expected status error, got %v", err)
	}
}
