package controller

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/avelane/storefront/catalog/internal/service"
)

func TestInsertProductRequiresAuth(t *testing.T) {
	router := mux.NewRouter()
	catalogService := service.CatalogService{}
	AttachCatalogController(router, &catalogService)

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(
		http.MethodPost,
		"/products",
		strings.NewReader(`{"id":"prod-1","name":"Cashmere Scarf","slug":"cashmere-scarf","price":"129.90"}`),
	)
	router.ServeHTTP(recorder, req)

	assert.EqualValues(t, http.StatusUnauthorized, recorder.Code)
}

func TestBatchLookupIsOpen(t *testing.T) {
	router := mux.NewRouter()
	catalogService := service.CatalogService{}
	AttachCatalogController(router, &catalogService)

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/products/batch", strings.NewReader(`{not json`))
	router.ServeHTTP(recorder, req)

	assert.EqualValues(t, http.StatusBadRequest, recorder.Code)
}
