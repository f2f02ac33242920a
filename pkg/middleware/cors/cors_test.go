package cors

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, allowed []string, method, origin string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(New(allowed))
	r.Any("/comparisons", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(method, "/comparisons", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCORSAllowsListedOrigin(t *testing.T) {
	w := serve(t, []string{"https://fund.example.com/"}, http.MethodGet, "https://fund.example.com")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "https://fund.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	require.Contains(t, w.Header().Get("Access-Control-Expose-Headers"), "Content-Disposition")
}

func TestCORSRejectsUnknownOrigin(t *testing.T) {
	w := serve(t, []string{"https://fund.example.com"}, http.MethodGet, "https://evil.example.com")
	require.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSPreflight(t *testing.T) {
	w := serve(t, nil, http.MethodOptions, "https://any.example.com")
	require.Equal(t, http.StatusNoContent, w.Code)
	require.Equal(t, "https://any.example.com", w.Header().Get("Access-Control-Allow-Origin"))
}
