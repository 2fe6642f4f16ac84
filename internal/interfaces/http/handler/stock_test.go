package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apppicklist "github.com/jaworekmichal/ddd-wro-warehouse/internal/application/picklist"
	appwarehouse "github.com/jaworekmichal/ddd-wro-warehouse/internal/application/warehouse"
	"github.com/jaworekmichal/ddd-wro-warehouse/internal/domain/warehouse"
	"github.com/jaworekmichal/ddd-wro-warehouse/internal/infrastructure/event"
	"github.com/jaworekmichal/ddd-wro-warehouse/internal/infrastructure/persistence"
	"github.com/jaworekmichal/ddd-wro-warehouse/internal/infrastructure/stock"
	"github.com/jaworekmichal/ddd-wro-warehouse/internal/interfaces/http/router"
)

// newTestServer wires the full HTTP surface over an in-memory store,
// the way cmd/server does it. Route setup must go through the router
// so the custom binding rules are installed.
func newTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := zap.NewNop()
	store := persistence.NewMemoryEventStore()
	serializer := event.NewWarehouseSerializer()
	bus := event.NewInMemoryEventBus(logger)

	validator := &warehouse.BasicPaletteValidator{MinBoxes: 1}
	locations := warehouse.NewBasicLocationPicker(nil, warehouse.Storage("A", ""))
	repo := stock.NewRepository(store, serializer, validator, locations, logger, stock.Options{})
	t.Cleanup(repo.Stop)

	stocks := appwarehouse.NewStockService(repo, bus, nil, logger)
	fifo := apppicklist.NewFifoService(stocks, logger)
	bus.Subscribe(fifo)

	engine := gin.New()
	router.NewRouter(engine).
		Register(NewStockHandler(stocks)).
		Register(NewPickListHandler(fifo)).
		Setup()
	return engine
}

func doJSON(t *testing.T, engine *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func registerPalette(t *testing.T, engine *gin.Engine, refNo, id string, boxes int) {
	t.Helper()
	w := doJSON(t, engine, http.MethodPost, "/api/v1/products/"+refNo+"/palettes",
		gin.H{"id": id, "scanned_boxes": boxes})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestStockHandler_RegisterPalette(t *testing.T) {
	engine := newTestServer(t)

	w := doJSON(t, engine, http.MethodPost, "/api/v1/products/P-1/palettes",
		gin.H{"id": "900001", "scanned_boxes": 10})

	require.Equal(t, http.StatusCreated, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
}

func TestStockHandler_RegisterPaletteValidation(t *testing.T) {
	engine := newTestServer(t)

	tests := []struct {
		name string
		body gin.H
	}{
		{name: "missing id", body: gin.H{"scanned_boxes": 10}},
		{name: "bad id charset", body: gin.H{"id": "no spaces", "scanned_boxes": 10}},
		{name: "negative boxes", body: gin.H{"id": "900001", "scanned_boxes": -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, engine, http.MethodPost, "/api/v1/products/P-1/palettes", tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestStockHandler_PaletteLocation(t *testing.T) {
	engine := newTestServer(t)
	registerPalette(t, engine, "P-1", "900001", 10)

	w := doJSON(t, engine, http.MethodGet, "/api/v1/products/P-1/palettes/900001/location", nil)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	data := body["data"].(map[string]any)
	location := data["location"].(map[string]any)
	assert.Equal(t, "production", location["kind"])
}

func TestStockHandler_LocationOfUnknownPalette(t *testing.T) {
	engine := newTestServer(t)

	w := doJSON(t, engine, http.MethodGet, "/api/v1/products/P-1/palettes/999999/location", nil)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	data := body["data"].(map[string]any)
	location := data["location"].(map[string]any)
	assert.Equal(t, "unknown", location["kind"])
}

func TestStockHandler_PickAndStore(t *testing.T) {
	engine := newTestServer(t)
	registerPalette(t, engine, "P-1", "900001", 10)

	w := doJSON(t, engine, http.MethodPost, "/api/v1/products/P-1/palettes/900001/pick",
		gin.H{"operator": "jan"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, engine, http.MethodPost, "/api/v1/products/P-1/palettes/900001/store",
		gin.H{"area": "B", "slot": "12"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, engine, http.MethodGet, "/api/v1/products/P-1/palettes/900001/location", nil)
	require.Equal(t, http.StatusOK, w.Code)
	location := decodeBody(t, w)["data"].(map[string]any)["location"].(map[string]any)
	assert.Equal(t, "storage", location["kind"])
	assert.Equal(t, "B", location["area"])
	assert.Equal(t, "12", location["slot"])
}

func TestStockHandler_PickUnknownPalette(t *testing.T) {
	engine := newTestServer(t)
	registerPalette(t, engine, "P-1", "900001", 10)

	w := doJSON(t, engine, http.MethodPost, "/api/v1/products/P-1/palettes/999999/pick",
		gin.H{"operator": "jan"})

	require.Equal(t, http.StatusNotFound, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, false, body["success"])
}

func TestStockHandler_PickUnknownProduct(t *testing.T) {
	engine := newTestServer(t)

	w := doJSON(t, engine, http.MethodPost, "/api/v1/products/P-9/palettes/900001/pick",
		gin.H{"operator": "jan"})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStockHandler_LockUnlockDelivered(t *testing.T) {
	engine := newTestServer(t)
	registerPalette(t, engine, "P-1", "900001", 10)

	w := doJSON(t, engine, http.MethodPost, "/api/v1/products/P-1/palettes/900001/lock",
		gin.H{"reason": "damaged wrap"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, engine, http.MethodPost, "/api/v1/products/P-1/palettes/900001/unlock", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, engine, http.MethodPost, "/api/v1/products/P-1/palettes/900001/delivered", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// delivered palettes have no location anymore
	w = doJSON(t, engine, http.MethodGet, "/api/v1/products/P-1/palettes/900001/location", nil)
	require.Equal(t, http.StatusOK, w.Code)
	location := decodeBody(t, w)["data"].(map[string]any)["location"].(map[string]any)
	assert.Equal(t, "unknown", location["kind"])
}

func TestStockHandler_DestroyedPalette(t *testing.T) {
	engine := newTestServer(t)
	registerPalette(t, engine, "P-1", "900001", 10)

	w := doJSON(t, engine, http.MethodPost, "/api/v1/products/P-1/palettes/900001/destroyed",
		gin.H{"reason": "crushed"})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestPickListHandler_BuildPickList(t *testing.T) {
	engine := newTestServer(t)
	registerPalette(t, engine, "P-1", "900001", 10)
	registerPalette(t, engine, "P-1", "900002", 10)

	w := doJSON(t, engine, http.MethodPost, "/api/v1/picklists",
		gin.H{"items": []gin.H{{"ref_no": "P-1", "amount": 2}}})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decodeBody(t, w)
	items := body["data"].(map[string]any)["items"].([]any)
	require.Len(t, items, 2)
	first := items[0].(map[string]any)["label"].(map[string]any)
	assert.Equal(t, "900001", first["id"])
}

func TestPickListHandler_Validation(t *testing.T) {
	engine := newTestServer(t)

	tests := []struct {
		name string
		body gin.H
	}{
		{name: "empty items", body: gin.H{"items": []gin.H{}}},
		{name: "zero amount", body: gin.H{"items": []gin.H{{"ref_no": "P-1", "amount": 0}}}},
		{name: "missing ref_no", body: gin.H{"items": []gin.H{{"amount": 1}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, engine, http.MethodPost, "/api/v1/picklists", tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}
