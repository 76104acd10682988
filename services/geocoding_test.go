package services

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dev-kani/MERN-FavPlaces-Project-Backend/models"
)

func TestResolve(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[{"lat":"59.9343","lon":"30.3351"}]`)
	}))
	defer server.Close()

	service := &GeocodingService{BaseURL: server.URL}

	location, err := service.Resolve("Nevsky Prospect 1")
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if gotQuery != "Nevsky Prospect 1" {
		t.Errorf("адрес не передан геокодеру: %q", gotQuery)
	}
	if location.Latitude != 59.9343 || location.Longitude != 30.3351 {
		t.Errorf("координаты не совпадают: %+v", location)
	}
}

// Адрес, который геокодер не нашёл, даёт ошибку со статусом 422
func TestResolveNoResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[]`)
	}))
	defer server.Close()

	service := &GeocodingService{BaseURL: server.URL}

	_, err := service.Resolve("definitely not an address")
	if err == nil {
		t.Fatal("ожидалась ошибка")
	}

	var httpErr *models.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("ожидалась HTTPError, получено: %v", err)
	}
	if httpErr.Status() != http.StatusUnprocessableEntity {
		t.Errorf("ожидался статус 422, получен %d", httpErr.Status())
	}
}

// Сбой самого геокодера — это не HTTPError, ответ клиенту уйдёт с 500
func TestResolveServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	service := &GeocodingService{BaseURL: server.URL}

	_, err := service.Resolve("1 Main St")
	if err == nil {
		t.Fatal("ожидалась ошибка")
	}

	var httpErr *models.HTTPError
	if errors.As(err, &httpErr) {
		t.Errorf("ошибка транспорта не должна быть HTTPError: %v", err)
	}
}
