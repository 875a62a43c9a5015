package registry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ByLCY/faktura/invoice"
)

const alzaJSON = `{
  "ico": "27082440",
  "obchodniJmeno": "Alza.cz a.s.",
  "sidlo": {
    "kodStatu": "CZ",
    "nazevObce": "Praha",
    "nazevCastiObce": "Holešovice",
    "nazevMestskeCastiObvodu": "Praha-Holešovice",
    "nazevUlice": "Jankovcova",
    "cisloDomovni": 1522,
    "cisloOrientacni": 53,
    "psc": 17000
  },
  "dic": "CZ27082440"
}`

func newServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, time.Second)
}

func TestResolve(t *testing.T) {
	var gotPath string
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(alzaJSON))
	})

	e, err := c.Resolve(context.Background(), "27082440")
	require.NoError(t, err)
	assert.Equal(t, "/ekonomicke-subjekty/27082440", gotPath)
	assert.Equal(t, "Alza.cz a.s.", e.Name)
	assert.Equal(t, invoice.RegistrationNumber("27082440"), e.Identifier)
	assert.Equal(t, "CZ27082440", e.VATNumber)
	assert.Equal(t, "Jankovcova 1522/53", e.Address.FirstLine())
	assert.Equal(t, "170 00 Praha - Holešovice", e.Address.SecondLine())
}

func TestResolveFallbacks(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"obchodniJmeno":"Jan Novák","sidlo":{"nazevObce":"Lhota","nazevCastiObce":"Lhota","cisloDomovni":7,"psc":1000}}`))
	})

	e, err := c.Resolve(context.Background(), "25596641")
	require.NoError(t, err)
	assert.Equal(t, "Lhota 7", e.Address.FirstLine())
	assert.Equal(t, "010 00 Lhota", e.Address.SecondLine())
	assert.False(t, e.VATRegistered())
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"not found", http.StatusNotFound, `{}`, ErrNotFound},
		{"server error", http.StatusInternalServerError, ``, ErrBadResponse},
		{"rate limited", http.StatusTooManyRequests, ``, ErrBadResponse},
		{"broken json", http.StatusOK, `{"obchodniJmeno":`, ErrBadResponse},
		{"missing name", http.StatusOK, `{"sidlo":{}}`, ErrBadResponse},
		{"bad postal code", http.StatusOK, `{"obchodniJmeno":"X","sidlo":{"psc":1234567}}`, ErrBadResponse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			_, err := c.Resolve(context.Background(), "27082440")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestResolveHonorsContext(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Resolve(ctx, "27082440")
	assert.ErrorIs(t, err, ErrNetwork)
}

func TestNewDefaults(t *testing.T) {
	c := New("", 0)
	assert.Equal(t, DefaultBaseURL, c.baseURL)
	assert.Equal(t, 10*time.Second, c.httpClient.Timeout)
}
