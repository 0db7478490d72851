package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/tagom-pos/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/tagom-pos/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testCompanyID = "00000000-0000-0000-0000-000000000002"
	testIssuer    = "tagom-pos-test"
	testExpMin    = 60
)

// newProtectedApp monta dos rutas con la misma topología de permisos que el
// router real: los ajustes de stock exigen admin o bodeguero, las ventas solo
// exigen un token válido.
func newProtectedApp() *fiber.App {
	app := fiber.New()
	api := app.Group("/api", apphttp.AuthMiddleware(testJWTSecret))
	api.Post("/stock/adjustments",
		apphttp.RequireRole("admin", "bodeguero"),
		func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"role": apphttp.GetRole(c)})
		},
	)
	api.Post("/sales", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id":    apphttp.GetUserID(c),
			"company_id": apphttp.GetCompanyID(c),
		})
	})
	return app
}

// bearerFor genera el header Authorization para un usuario con el rol dado.
func bearerFor(t *testing.T, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testCompanyID, role, testIssuer, testExpMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

func hit(t *testing.T, app *fiber.App, path, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Autorización por rol sobre los ajustes de stock
// ──────────────────────────────────────────────────────────────────────────────

func TestAjustesDeStock_AdminYBodegueroPueden(t *testing.T) {
	app := newProtectedApp()

	for _, role := range []string{"admin", "bodeguero"} {
		resp := hit(t, app, "/api/stock/adjustments", bearerFor(t, role))
		assert.Equal(t, http.StatusOK, resp.StatusCode, "rol %s debe poder ajustar stock", role)

		var body map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		resp.Body.Close()
		assert.Equal(t, role, body["role"])
	}
}

func TestAjustesDeStock_VendedorRecibe403(t *testing.T) {
	app := newProtectedApp()
	resp := hit(t, app, "/api/stock/adjustments", bearerFor(t, "vendedor"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode,
		"un vendedor no ajusta inventario")

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "FORBIDDEN")
}

func TestVentas_CualquierRolAutenticadoPuede(t *testing.T) {
	app := newProtectedApp()
	resp := hit(t, app, "/api/sales", bearerFor(t, "vendedor"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// El handler lee la identidad desde los locals que carga el middleware.
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body["user_id"])
	assert.Equal(t, testCompanyID, body["company_id"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Rechazos del middleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_SinHeaderRetorna401(t *testing.T) {
	app := newProtectedApp()
	resp := hit(t, app, "/api/sales", "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_TOKEN")
}

func TestAuthMiddleware_TokenMalformadoRetorna401(t *testing.T) {
	app := newProtectedApp()

	for _, header := range []string{
		"Bearer token.invalido.aqui",
		"Basic dXNlcjpwYXNz", // esquema equivocado
	} {
		resp := hit(t, app, "/api/sales", header)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "header %q", header)
		resp.Body.Close()
	}
}

// Un token firmado sin claim de rol no identifica qué puede hacer el usuario.
func TestAuthMiddleware_TokenSinRolRetorna401(t *testing.T) {
	app := newProtectedApp()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testCompanyID, "", testIssuer, testExpMin)
	require.NoError(t, err)

	resp := hit(t, app, "/api/sales", "Bearer "+tok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_ROLE")
}

// ──────────────────────────────────────────────────────────────────────────────
// pkg/jwt — generación y verificación
// ──────────────────────────────────────────────────────────────────────────────

func TestJWT_IdaYVueltaConRol(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testCompanyID, "bodeguero", testIssuer, testExpMin)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	userID, companyID, role, err := pkgjwt.Parse(testJWTSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, testUserID, userID)
	assert.Equal(t, testCompanyID, companyID)
	assert.Equal(t, "bodeguero", role)
}

func TestJWT_TokenExpiradoRetornaError(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testCompanyID, "admin", testIssuer, -1)
	require.NoError(t, err)

	_, _, _, err = pkgjwt.Parse(testJWTSecret, tok)
	assert.Error(t, err)
}

func TestJWT_SecretIncorrectoRetornaError(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testCompanyID, "admin", testIssuer, testExpMin)
	require.NoError(t, err)

	_, _, _, err = pkgjwt.Parse("otro-secret-completamente-distinto", tok)
	assert.Error(t, err)
}
