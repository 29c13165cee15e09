package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/comanda-app/comanda/config"
	"github.com/comanda-app/comanda/database"
	"github.com/comanda-app/comanda/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type app struct {
	t      *testing.T
	deps   *Deps
	engine *gin.Engine
}

func newApp(t *testing.T) *app {
	t.Helper()
	cfg := config.Config{DBDriver: "sqlite", DBDSN: "file::memory:", Timezone: "UTC", CORSOrigin: "*"}
	db, err := config.InitDB(cfg)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	f, err := os.Open("../database/testdata/seed.yaml")
	require.NoError(t, err)
	defer f.Close()
	_, err = database.Seed(db, f)
	require.NoError(t, err)

	d := NewDeps(db, cfg, nil, nil)
	// Jumat 19:00, jam buka
	d.Orders.Now = func() time.Time { return time.Date(2024, 6, 7, 19, 0, 0, 0, time.UTC) }
	return &app{t: t, deps: d, engine: SetupRouter(d)}
}

func (a *app) call(method, url, token string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.RemoteAddr = "192.168.0.10:5000"
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	var out map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

func (a *app) login(email, password string) string {
	a.t.Helper()
	w, out := a.call(http.MethodPost, "/auth/login", "", gin.H{"email": email, "password": password})
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())
	return out["data"].(map[string]interface{})["token"].(string)
}

func (a *app) productID(name string) string {
	var p models.Product
	require.NoError(a.t, a.deps.DB.Where("tenant_slug = ? AND name = ?", "sabor", name).First(&p).Error)
	return p.ID
}

func TestHealth(t *testing.T) {
	a := newApp(t)
	w, _ := a.call(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}

func TestRootRedirectsToDefaultTenant(t *testing.T) {
	a := newApp(t)
	w, _ := a.call(http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	a.deps.Config.DefaultTenant = "sabor"
	a.engine = SetupRouter(a.deps)
	w, _ = a.call(http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/t/sabor/menu", w.Header().Get("Location"))
}

func TestPublicMenuAndUnknownTenant(t *testing.T) {
	a := newApp(t)
	w, _ := a.call(http.MethodGet, "/t/sabor/menu", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "X-Burger")

	w, _ = a.call(http.MethodGet, "/t/nada/menu", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminRoutesNeedRole(t *testing.T) {
	a := newApp(t)
	w, _ := a.call(http.MethodGet, "/admin/orders", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	chef := a.login("ze@sabor.com.br", "cozinha123")
	w, _ = a.call(http.MethodGet, "/admin/orders", chef, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w, _ = a.call(http.MethodGet, "/admin/kitchen/board", chef, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = a.call(http.MethodPost, "/auth/login", "", gin.H{"email": "ze@sabor.com.br", "password": "salah"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOrderLifecycleOverHTTP(t *testing.T) {
	a := newApp(t)
	burger := a.productID("X-Burger")

	w, out := a.call(http.MethodPost, "/t/sabor/orders", "", gin.H{
		"customer_name":     "Maria",
		"customer_whatsapp": "(11) 98888-7777",
		"type":              "delivery",
		"address":           "Rua A, 10",
		"payment_method":    "pix",
		"items":             []gin.H{{"product_id": burger, "quantity": 2, "selected_sides": []string{"Bacon"}}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	data := out["data"].(map[string]interface{})
	assert.Contains(t, data["whatsapp_link"], "https://wa.me/5511999990000")
	order := data["order"].(map[string]interface{})
	id := order["id"].(string)
	assert.Equal(t, "pending", order["status"])

	admin := a.login("ana@sabor.com.br", "segredo123")

	// pending cannot jump to finished
	w, _ = a.call(http.MethodPost, "/admin/kitchen/orders/"+id+"/advance", admin, gin.H{"status": "finished"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = a.call(http.MethodPost, "/admin/kitchen/orders/"+id+"/advance", admin, gin.H{"status": "bogus"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, out = a.call(http.MethodPost, "/admin/kitchen/orders/"+id+"/advance", admin, gin.H{"status": "preparing"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "preparing", out["data"].(map[string]interface{})["order"].(map[string]interface{})["status"])

	w, _ = a.call(http.MethodDelete, "/admin/kitchen/orders/"+id, admin, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = a.call(http.MethodDelete, "/admin/kitchen/orders/"+id+"?confirm=true&return_stock=true", admin, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = a.call(http.MethodGet, "/admin/orders/"+id, admin, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCounterSaleShowsOnBoard(t *testing.T) {
	a := newApp(t)
	admin := a.login("ana@sabor.com.br", "segredo123")
	w, _ := a.call(http.MethodPost, "/admin/orders/counter", admin, gin.H{
		"table_number": "7",
		"items":        []gin.H{{"product_id": a.productID("Coca-Cola"), "quantity": 1}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	_, err := a.deps.Monitor.ProcessPending(context.Background())
	require.NoError(t, err)

	w, _ = a.call(http.MethodGet, "/admin/kitchen/board?type=dine-in", admin, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"table_number":"7"`)
}

func TestRegisterNeedsAdminAfterFirstUser(t *testing.T) {
	a := newApp(t)
	body := gin.H{"tenant_slug": "sabor", "name": "Leo", "email": "leo@sabor.com.br", "password": "senha123", "role": "staff"}

	w, _ := a.call(http.MethodPost, "/auth/register", "", body)
	assert.Equal(t, http.StatusForbidden, w.Code)

	admin := a.login("ana@sabor.com.br", "segredo123")
	w, _ = a.call(http.MethodPost, "/auth/register", admin, body)
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w, _ = a.call(http.MethodPost, "/auth/register", admin, body)
	assert.Equal(t, http.StatusConflict, w.Code)

	// tenant baru: user pertama jadi admin
	w, out := a.call(http.MethodPost, "/auth/register", "", gin.H{
		"tenant_slug": "brasa", "tenant_name": "Brasa Grill",
		"name": "Rui", "email": "rui@brasa.com.br", "password": "senha123", "role": "chef",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "admin", out["data"].(map[string]interface{})["role"])
}

func TestLogoutRevokesToken(t *testing.T) {
	a := newApp(t)
	admin := a.login("ana@sabor.com.br", "segredo123")
	w, _ := a.call(http.MethodGet, "/admin/me", admin, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = a.call(http.MethodPost, "/auth/logout", admin, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = a.call(http.MethodGet, "/admin/me", admin, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
