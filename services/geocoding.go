package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/dev-kani/MERN-FavPlaces-Project-Backend/database"
	"github.com/dev-kani/MERN-FavPlaces-Project-Backend/models"
)

// GeocodingService преобразует почтовый адрес в координаты через внешний
// геокодер (совместимый с Nominatim). Успешные ответы кешируются в Redis
type GeocodingService struct {
	BaseURL string
}

// NewGeocodingService создает новый экземпляр GeocodingService
func NewGeocodingService() *GeocodingService {
	baseURL := os.Getenv("GEOCODER_URL")
	if baseURL == "" {
		baseURL = "https://nominatim.openstreetmap.org"
	}
	return &GeocodingService{BaseURL: baseURL}
}

// Resolve возвращает координаты для адреса.
// Если геокодер не нашёл адрес, возвращается ошибка со статусом 422
func (s *GeocodingService) Resolve(address string) (models.Location, error) {
	ctx := context.Background()
	cacheKey := fmt.Sprintf("geocode:address:%s", address)

	// Проверяем, есть ли координаты в кеше
	if database.RedisClient != nil {
		if cached, err := database.RedisClient.Get(ctx, cacheKey).Result(); err == nil {
			var location models.Location
			if err := json.Unmarshal([]byte(cached), &location); err == nil {
				return location, nil
			}
		}
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctxWithTimeout, "GET", s.BaseURL+"/search", nil)
	if err != nil {
		return models.Location{}, fmt.Errorf("ошибка при создании запроса: %v", err)
	}

	q := req.URL.Query()
	q.Set("q", address)
	q.Set("format", "json")
	q.Set("limit", "1")
	req.URL.RawQuery = q.Encode()
	req.Header.Set("User-Agent", "fav-places-backend")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return models.Location{}, fmt.Errorf("ошибка при отправке запроса: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.Location{}, fmt.Errorf("ошибка: статус ответа %d", resp.StatusCode)
	}

	var results []struct {
		Lat string `json:"lat"`
		Lon string `json:"lon"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return models.Location{}, fmt.Errorf("ошибка парсинга JSON: %v", err)
	}

	if len(results) == 0 {
		return models.Location{}, models.NewHTTPError("Could not find location for the specified address", http.StatusUnprocessableEntity)
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return models.Location{}, fmt.Errorf("ошибка парсинга широты: %v", err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return models.Location{}, fmt.Errorf("ошибка парсинга долготы: %v", err)
	}

	location := models.Location{Latitude: lat, Longitude: lon}

	// Сохраняем координаты в кеш на сутки
	if database.RedisClient != nil {
		if data, err := json.Marshal(location); err == nil {
			if err := database.RedisClient.Set(ctx, cacheKey, data, 24*time.Hour).Err(); err != nil {
				fmt.Printf("Ошибка при сохранении в Redis: %v\n", err)
			}
		}
	}

	return location, nil
}
