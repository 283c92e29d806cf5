package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type recordedRequest struct {
	method string
	path   string
	auth   string
	body   map[string]any
}

// newTestServer answers every request with status and body and records
// what it received.
func newTestServer(t *testing.T, status int, body string) (*httptest.Server, *[]recordedRequest) {
	t.Helper()

	var got []recordedRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recordedRequest{
			method: r.Method,
			path:   r.URL.Path,
			auth:   r.Header.Get("Authorization"),
		}

		raw, _ := io.ReadAll(r.Body)
		if len(raw) > 0 {
			_ = json.Unmarshal(raw, &rec.body)
		}

		got = append(got, rec)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	return srv, &got
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)

	err := cmd.Execute()

	return out.String(), err
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("expected short unchanged, got %q", got)
	}

	if got := truncate("longerstring", 6); got != "lon..." {
		t.Fatalf("expected lon..., got %q", got)
	}

	if got := truncate("abcdef", 2); got != "ab" {
		t.Fatalf("expected ab, got %q", got)
	}
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := printJSON(&buf, struct {
		A int `json:"a"`
	}{A: 1}); err != nil {
		t.Fatalf("printJSON failed: %v", err)
	}

	expected := "{\n  \"a\": 1\n}\n"
	if buf.String() != expected {
		t.Fatalf("unexpected json output:\n%s", buf.String())
	}

	buf.Reset()
	if err := printJSON(&buf, []byte(`{"b":2}`)); err != nil {
		t.Fatalf("printJSON failed: %v", err)
	}

	if buf.String() != "{\n  \"b\": 2\n}\n" {
		t.Fatalf("unexpected raw json output:\n%s", buf.String())
	}
}

func TestHashPasswordCmd(t *testing.T) {
	orig := bcryptGenerate
	bcryptGenerate = func(p []byte, cost int) ([]byte, error) {
		return []byte("hashed-value"), nil
	}
	defer func() { bcryptGenerate = orig }()

	cmd := hashPasswordCmd()
	cmd.SetArgs([]string{"secret"})

	var out bytes.Buffer
	cmd.SetOut(&out)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("command failed: %v", err)
	}

	if strings.TrimSpace(out.String()) != "hashed-value" {
		t.Fatalf("expected hashed-value, got %q", out.String())
	}
}

func TestClientsCreate(t *testing.T) {
	srv, got := newTestServer(t, http.StatusOK, `{"id":"c1","nom":"Dupond","prenom":"Jean"}`)

	out, err := runCLI(t, "--url", srv.URL, "--token", "tok", "clients", "create", "Jean", "Dupond")
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}

	req := (*got)[0]
	if req.method != http.MethodPost || req.path != "/api/clients" {
		t.Fatalf("unexpected request %s %s", req.method, req.path)
	}
	if req.auth != "Bearer tok" {
		t.Fatalf("expected bearer token, got %q", req.auth)
	}
	if req.body["prenom"] != "Jean" || req.body["nom"] != "Dupond" {
		t.Fatalf("unexpected body %v", req.body)
	}
	if !strings.Contains(out, `"id": "c1"`) {
		t.Fatalf("expected pretty-printed client, got %q", out)
	}
}

func TestComptesOperations(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		method   string
		path     string
		wantBody map[string]any
	}{
		{
			name:     "open",
			args:     []string{"comptes", "open", "c1", "100"},
			method:   http.MethodPost,
			path:     "/api/clients/c1/comptes",
			wantBody: map[string]any{"solde": "100"},
		},
		{
			name:     "credit",
			args:     []string{"comptes", "credit", "a1", "12.50"},
			method:   http.MethodPost,
			path:     "/api/comptes/a1/operations",
			wantBody: map[string]any{"valeur": "12.5", "operationType": "CREDIT"},
		},
		{
			name:     "debit",
			args:     []string{"comptes", "debit", "a1", "3"},
			method:   http.MethodPost,
			path:     "/api/comptes/a1/operations",
			wantBody: map[string]any{"valeur": "3", "operationType": "DEBIT"},
		},
		{
			name:     "virement",
			args:     []string{"comptes", "virement", "a1", "a2", "5"},
			method:   http.MethodPost,
			path:     "/api/comptes/a1/operations/virements",
			wantBody: map[string]any{"valeur": "5", "idCompteDestinataire": "a2"},
		},
		{
			name:   "get",
			args:   []string{"comptes", "get", "a1"},
			method: http.MethodGet,
			path:   "/api/comptes/a1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, got := newTestServer(t, http.StatusOK, `{"solde":1}`)

			if _, err := runCLI(t, append([]string{"--url", srv.URL}, tt.args...)...); err != nil {
				t.Fatalf("command failed: %v", err)
			}

			req := (*got)[0]
			if req.method != tt.method || req.path != tt.path {
				t.Fatalf("expected %s %s, got %s %s", tt.method, tt.path, req.method, req.path)
			}

			for k, v := range tt.wantBody {
				if req.body[k] != v {
					t.Fatalf("body[%s] = %v, want %v", k, req.body[k], v)
				}
			}
		})
	}
}

func TestComptesOpsPrintsTable(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusOK,
		`[{"id":"01HZXABCDEFGHJKMNPQRSTVWXY","operationType":"OPEN","valeur":100,"dateOperation":"2024-01-01T00:00:00Z"}]`)

	out, err := runCLI(t, "--url", srv.URL, "comptes", "ops", "a1")
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}

	if !strings.Contains(out, "TYPE") || !strings.Contains(out, "01HZXABCD...") || !strings.Contains(out, "OPEN") {
		t.Fatalf("unexpected table output:\n%s", out)
	}
}

func TestComptesClose(t *testing.T) {
	srv, got := newTestServer(t, http.StatusNoContent, "")

	out, err := runCLI(t, "--url", srv.URL, "comptes", "close", "a1")
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}

	if (*got)[0].method != http.MethodDelete {
		t.Fatalf("expected DELETE, got %s", (*got)[0].method)
	}
	if !strings.Contains(out, "account a1 closed") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestAPIErrorIsReported(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusBadRequest, `{"error":"insufficient balance"}`)

	_, err := runCLI(t, "--url", srv.URL, "comptes", "debit", "a1", "1000")
	if err == nil {
		t.Fatal("expected error")
	}

	if !strings.Contains(err.Error(), "insufficient balance") || !strings.Contains(err.Error(), "400") {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestInvalidAmount(t *testing.T) {
	_, err := runCLI(t, "--url", "http://127.0.0.1:1", "comptes", "credit", "a1", "abc")
	if err == nil || !strings.Contains(err.Error(), "invalid amount") {
		t.Fatalf("expected invalid amount error, got %v", err)
	}
}

func TestAuthRegister(t *testing.T) {
	srv, got := newTestServer(t, http.StatusOK, `{"access_token":"a","refresh_token":"r"}`)

	out, err := runCLI(t, "--url", srv.URL, "auth", "register", "jean@example.com", "password123",
		"--firstname", "Jean", "--lastname", "Dupond")
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}

	req := (*got)[0]
	if req.path != "/api/v1/auth/register" || req.body["email"] != "jean@example.com" || req.body["firstname"] != "Jean" {
		t.Fatalf("unexpected request %s %v", req.path, req.body)
	}
	if !strings.Contains(out, `"access_token": "a"`) {
		t.Fatalf("unexpected output %q", out)
	}
}
