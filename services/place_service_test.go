package services

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/dev-kani/MERN-FavPlaces-Project-Backend/dto"
	"github.com/dev-kani/MERN-FavPlaces-Project-Backend/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// Отдельная in-memory база на каждый тест
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("не удалось открыть тестовую базу: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Place{}); err != nil {
		t.Fatalf("не удалось выполнить миграцию: %v", err)
	}
	return db
}

func newTestGeocoder(t *testing.T, response string) *GeocodingService {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, response)
	}))
	t.Cleanup(server.Close)

	return &GeocodingService{BaseURL: server.URL}
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	user := &models.User{Username: username, Password: "hash", Email: username + "@example.com"}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("не удалось создать пользователя: %v", err)
	}
	return user
}

func createTestPlace(t *testing.T, db *gorm.DB, creatorID uint) *models.Place {
	t.Helper()

	place := &models.Place{
		Title:       "Cafe",
		Description: "Coffee shop",
		Address:     "1 Main St",
		Location:    models.Location{Latitude: 40.7, Longitude: -74.0},
		Image:       "uploads/cafe.jpg",
		CreatorID:   creatorID,
	}
	if err := db.Create(place).Error; err != nil {
		t.Fatalf("не удалось создать место: %v", err)
	}
	if err := db.Model(&models.User{}).Where("id = ?", creatorID).
		UpdateColumn("places_count", gorm.Expr("places_count + ?", 1)).Error; err != nil {
		t.Fatalf("не удалось обновить счётчик мест: %v", err)
	}
	return place
}

func placesCount(t *testing.T, db *gorm.DB, userID uint) uint {
	t.Helper()

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		t.Fatalf("не удалось прочитать пользователя: %v", err)
	}
	return user.PlacesCount
}

func httpStatus(t *testing.T, err error) int {
	t.Helper()

	var httpErr *models.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("ожидалась HTTPError, получено: %v", err)
	}
	return httpErr.Status()
}

func TestGetPlaceByID(t *testing.T) {
	db := newTestDB(t)
	service := NewPlaceService(db, nil)

	user := createTestUser(t, db, "u1")
	place := createTestPlace(t, db, user.ID)

	got, err := service.GetPlaceByID(place.ID)
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if got.ID != place.ID {
		t.Errorf("ожидался ID %d, получен %d", place.ID, got.ID)
	}
	if got.Title != "Cafe" || got.Address != "1 Main St" {
		t.Errorf("поля места не совпадают: %+v", got)
	}
}

func TestGetPlaceByIDNotFound(t *testing.T) {
	db := newTestDB(t)
	service := NewPlaceService(db, nil)

	_, err := service.GetPlaceByID(12345)
	if err == nil {
		t.Fatal("ожидалась ошибка для несуществующего места")
	}
	if status := httpStatus(t, err); status != http.StatusNotFound {
		t.Errorf("ожидался статус 404, получен %d", status)
	}
}

func TestGetPlacesByUserID(t *testing.T) {
	db := newTestDB(t)
	service := NewPlaceService(db, nil)

	user := createTestUser(t, db, "u1")
	createTestPlace(t, db, user.ID)
	createTestPlace(t, db, user.ID)

	places, err := service.GetPlacesByUserID(user.ID)
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if len(places) != 2 {
		t.Errorf("ожидалось 2 места, получено %d", len(places))
	}
}

// Пользователь без мест и несуществующий пользователь не различаются: оба дают 404
func TestGetPlacesByUserIDNoPlaces(t *testing.T) {
	db := newTestDB(t)
	service := NewPlaceService(db, nil)

	user := createTestUser(t, db, "empty")

	_, err := service.GetPlacesByUserID(user.ID)
	if err == nil {
		t.Fatal("ожидалась ошибка для пользователя без мест")
	}
	if status := httpStatus(t, err); status != http.StatusNotFound {
		t.Errorf("ожидался статус 404, получен %d", status)
	}

	_, err = service.GetPlacesByUserID(99999)
	if err == nil {
		t.Fatal("ожидалась ошибка для несуществующего пользователя")
	}
	if status := httpStatus(t, err); status != http.StatusNotFound {
		t.Errorf("ожидался статус 404, получен %d", status)
	}
}

func TestCreatePlace(t *testing.T) {
	db := newTestDB(t)
	geocoder := newTestGeocoder(t, `[{"lat":"40.7128","lon":"-74.0060"}]`)
	service := NewPlaceService(db, geocoder)

	user := createTestUser(t, db, "u1")
	countBefore := placesCount(t, db, user.ID)

	input := dto.CreatePlaceDTO{Title: "Cafe", Description: "Coffee shop", Address: "1 Main St"}
	place, err := service.CreatePlace(user.ID, input, "uploads/cafe.jpg")
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	if place.CreatorID != user.ID {
		t.Errorf("ожидался создатель %d, получен %d", user.ID, place.CreatorID)
	}
	if place.Location.Latitude != 40.7128 || place.Location.Longitude != -74.0060 {
		t.Errorf("координаты не совпадают с ответом геокодера: %+v", place.Location)
	}
	if place.Image != "uploads/cafe.jpg" {
		t.Errorf("путь к изображению не сохранён: %s", place.Image)
	}
	if count := placesCount(t, db, user.ID); count != countBefore+1 {
		t.Errorf("счётчик мест должен вырасти на 1: было %d, стало %d", countBefore, count)
	}
}

func TestCreatePlaceUnknownUser(t *testing.T) {
	db := newTestDB(t)
	geocoder := newTestGeocoder(t, `[{"lat":"40.7","lon":"-74.0"}]`)
	service := NewPlaceService(db, geocoder)

	input := dto.CreatePlaceDTO{Title: "Cafe", Description: "Coffee shop", Address: "1 Main St"}
	_, err := service.CreatePlace(777, input, "uploads/cafe.jpg")
	if err == nil {
		t.Fatal("ожидалась ошибка для несуществующего пользователя")
	}
	if status := httpStatus(t, err); status != http.StatusNotFound {
		t.Errorf("ожидался статус 404, получен %d", status)
	}

	var count int64
	db.Model(&models.Place{}).Count(&count)
	if count != 0 {
		t.Errorf("место не должно создаваться без пользователя, найдено %d", count)
	}
}

// Нерезолвящийся адрес не должен оставлять следов ни в местах, ни у пользователя
func TestCreatePlaceUnresolvableAddress(t *testing.T) {
	db := newTestDB(t)
	geocoder := newTestGeocoder(t, `[]`)
	service := NewPlaceService(db, geocoder)

	user := createTestUser(t, db, "u1")

	input := dto.CreatePlaceDTO{Title: "Cafe", Description: "Coffee shop", Address: "nowhere at all"}
	_, err := service.CreatePlace(user.ID, input, "uploads/cafe.jpg")
	if err == nil {
		t.Fatal("ожидалась ошибка геокодера")
	}
	if status := httpStatus(t, err); status != http.StatusUnprocessableEntity {
		t.Errorf("ожидался статус 422, получен %d", status)
	}

	var count int64
	db.Model(&models.Place{}).Count(&count)
	if count != 0 {
		t.Errorf("место не должно создаваться при ошибке геокодера, найдено %d", count)
	}
	if count := placesCount(t, db, user.ID); count != 0 {
		t.Errorf("счётчик мест не должен меняться, получен %d", count)
	}
}

// Если транзакция создания падает, не должно остаться ни места, ни изменённого счётчика
func TestCreatePlaceTransactionRollback(t *testing.T) {
	db := newTestDB(t)
	geocoder := newTestGeocoder(t, `[{"lat":"40.7","lon":"-74.0"}]`)
	service := NewPlaceService(db, geocoder)

	user := createTestUser(t, db, "u1")

	// Ломаем запись мест: транзакция должна откатиться целиком
	if err := db.Migrator().DropTable(&models.Place{}); err != nil {
		t.Fatalf("не удалось удалить таблицу мест: %v", err)
	}

	input := dto.CreatePlaceDTO{Title: "Cafe", Description: "Coffee shop", Address: "1 Main St"}
	_, err := service.CreatePlace(user.ID, input, "uploads/cafe.jpg")
	if err == nil {
		t.Fatal("ожидалась ошибка транзакции")
	}
	if status := httpStatus(t, err); status != http.StatusInternalServerError {
		t.Errorf("ожидался статус 500, получен %d", status)
	}

	if count := placesCount(t, db, user.ID); count != 0 {
		t.Errorf("счётчик мест должен остаться 0 после отката, получен %d", count)
	}

	if err := db.AutoMigrate(&models.Place{}); err != nil {
		t.Fatalf("не удалось восстановить таблицу мест: %v", err)
	}
	var count int64
	db.Model(&models.Place{}).Count(&count)
	if count != 0 {
		t.Errorf("после отката не должно быть записей мест, найдено %d", count)
	}
}

// Создатель исчезает уже после записи места: обновление счётчика не находит
// строку пользователя, и транзакция откатывает вставленное место
func TestCreatePlaceRollbackAfterPlaceWrite(t *testing.T) {
	db := newTestDB(t)
	geocoder := newTestGeocoder(t, `[{"lat":"40.7","lon":"-74.0"}]`)
	service := NewPlaceService(db, geocoder)

	user := createTestUser(t, db, "u1")

	// Сразу после вставки места удаляем пользователя той же транзакцией
	err := db.Callback().Create().After("gorm:create").Register("drop_creator", func(tx *gorm.DB) {
		if tx.Statement.Table != "places" {
			return
		}
		if err := tx.Session(&gorm.Session{NewDB: true}).
			Exec("DELETE FROM users WHERE id = ?", user.ID).Error; err != nil {
			t.Errorf("не удалось удалить пользователя внутри транзакции: %v", err)
		}
	})
	if err != nil {
		t.Fatalf("не удалось зарегистрировать callback: %v", err)
	}

	input := dto.CreatePlaceDTO{Title: "Cafe", Description: "Coffee shop", Address: "1 Main St"}
	_, err = service.CreatePlace(user.ID, input, "uploads/cafe.jpg")
	if err == nil {
		t.Fatal("ожидалась ошибка транзакции")
	}
	if status := httpStatus(t, err); status != http.StatusInternalServerError {
		t.Errorf("ожидался статус 500, получен %d", status)
	}

	var count int64
	db.Model(&models.Place{}).Count(&count)
	if count != 0 {
		t.Errorf("вставка места должна откатиться, найдено %d", count)
	}
	var users int64
	db.Model(&models.User{}).Where("id = ?", user.ID).Count(&users)
	if users != 1 {
		t.Error("удаление пользователя внутри транзакции тоже должно откатиться")
	}
}

// Причина сбоя базы не уходит клиенту, но попадает в лог
func TestGetPlaceByIDLogsLookupError(t *testing.T) {
	db := newTestDB(t)
	service := NewPlaceService(db, nil)

	if err := db.Migrator().DropTable(&models.Place{}); err != nil {
		t.Fatalf("не удалось удалить таблицу мест: %v", err)
	}

	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	_, err := service.GetPlaceByID(1)
	if err == nil {
		t.Fatal("ожидалась ошибка")
	}
	if status := httpStatus(t, err); status != http.StatusInternalServerError {
		t.Errorf("ожидался статус 500, получен %d", status)
	}
	if !strings.Contains(buf.String(), "Ошибка поиска места") {
		t.Errorf("причина сбоя должна попадать в лог, получено: %q", buf.String())
	}
}

func TestUpdatePlace(t *testing.T) {
	db := newTestDB(t)
	service := NewPlaceService(db, nil)

	user := createTestUser(t, db, "u1")
	place := createTestPlace(t, db, user.ID)

	input := dto.UpdatePlaceDTO{Title: "New Cafe", Description: "Better coffee"}
	updated, err := service.UpdatePlace(user.ID, place.ID, input)
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if updated.Title != "New Cafe" || updated.Description != "Better coffee" {
		t.Errorf("поля не обновились: %+v", updated)
	}

	// Остальные поля должны остаться нетронутыми
	var stored models.Place
	if err := db.First(&stored, place.ID).Error; err != nil {
		t.Fatalf("не удалось прочитать место: %v", err)
	}
	if stored.Address != place.Address || stored.Location != place.Location ||
		stored.Image != place.Image || stored.CreatorID != place.CreatorID {
		t.Errorf("обновились лишние поля: %+v", stored)
	}
}

func TestUpdatePlaceNotCreator(t *testing.T) {
	db := newTestDB(t)
	service := NewPlaceService(db, nil)

	owner := createTestUser(t, db, "owner")
	stranger := createTestUser(t, db, "stranger")
	place := createTestPlace(t, db, owner.ID)

	input := dto.UpdatePlaceDTO{Title: "Hacked", Description: "Hacked place"}
	_, err := service.UpdatePlace(stranger.ID, place.ID, input)
	if err == nil {
		t.Fatal("ожидалась ошибка авторизации")
	}
	if status := httpStatus(t, err); status != http.StatusUnauthorized {
		t.Errorf("ожидался статус 401, получен %d", status)
	}

	var stored models.Place
	if err := db.First(&stored, place.ID).Error; err != nil {
		t.Fatalf("не удалось прочитать место: %v", err)
	}
	if stored.Title != place.Title || stored.Description != place.Description {
		t.Errorf("место изменилось без прав: %+v", stored)
	}
}

// У ошибки поиска места при обновлении статус не задан и по умолчанию равен 500
func TestUpdatePlaceLookupFailureStatus(t *testing.T) {
	db := newTestDB(t)
	service := NewPlaceService(db, nil)

	user := createTestUser(t, db, "u1")

	input := dto.UpdatePlaceDTO{Title: "Title", Description: "Description"}
	_, err := service.UpdatePlace(user.ID, 4242, input)
	if err == nil {
		t.Fatal("ожидалась ошибка")
	}
	if status := httpStatus(t, err); status != http.StatusInternalServerError {
		t.Errorf("ожидался статус 500 по умолчанию, получен %d", status)
	}
}

func TestDeletePlace(t *testing.T) {
	db := newTestDB(t)
	service := NewPlaceService(db, nil)

	user := createTestUser(t, db, "u1")
	place := createTestPlace(t, db, user.ID)

	deleted, err := service.DeletePlace(place.ID)
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if deleted.ID != place.ID {
		t.Errorf("удалено не то место: %d", deleted.ID)
	}

	_, err = service.GetPlaceByID(place.ID)
	if err == nil {
		t.Fatal("место должно быть удалено")
	}
	if status := httpStatus(t, err); status != http.StatusNotFound {
		t.Errorf("ожидался статус 404 после удаления, получен %d", status)
	}

	if count := placesCount(t, db, user.ID); count != 0 {
		t.Errorf("счётчик мест должен вернуться к 0, получен %d", count)
	}
}

func TestDeletePlaceNotFound(t *testing.T) {
	db := newTestDB(t)
	service := NewPlaceService(db, nil)

	_, err := service.DeletePlace(31337)
	if err == nil {
		t.Fatal("ожидалась ошибка для несуществующего места")
	}
	if status := httpStatus(t, err); status != http.StatusNotFound {
		t.Errorf("ожидался статус 404, получен %d", status)
	}
}

// Если создателя больше нет, удаление откатывается и место остаётся
func TestDeletePlaceTransactionRollback(t *testing.T) {
	db := newTestDB(t)
	service := NewPlaceService(db, nil)

	user := createTestUser(t, db, "u1")
	place := createTestPlace(t, db, user.ID)

	if err := db.Exec("DELETE FROM users WHERE id = ?", user.ID).Error; err != nil {
		t.Fatalf("не удалось удалить пользователя: %v", err)
	}

	_, err := service.DeletePlace(place.ID)
	if err == nil {
		t.Fatal("ожидалась ошибка транзакции")
	}
	if status := httpStatus(t, err); status != http.StatusInternalServerError {
		t.Errorf("ожидался статус 500, получен %d", status)
	}

	var count int64
	db.Model(&models.Place{}).Where("id = ?", place.ID).Count(&count)
	if count != 1 {
		t.Error("место должно остаться после отката удаления")
	}
}
