package services

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/dev-kani/MERN-FavPlaces-Project-Backend/dto"
	"github.com/dev-kani/MERN-FavPlaces-Project-Backend/models"

	"gorm.io/gorm"
)

// PlaceService представляет сервис для работы с местами
type PlaceService struct {
	DB       *gorm.DB
	Geocoder *GeocodingService
	Events   *WebSocketHandler // Может быть nil, тогда события не рассылаются
}

// NewPlaceService создает новый экземпляр PlaceService
func NewPlaceService(db *gorm.DB, geocoder *GeocodingService) *PlaceService {
	return &PlaceService{DB: db, Geocoder: geocoder}
}

// GetPlaceByID возвращает место по его ID
func (s *PlaceService) GetPlaceByID(placeID uint) (*models.Place, error) {
	var place models.Place
	if err := s.DB.First(&place, placeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewHTTPError(fmt.Sprintf("Could not find a place for the provided id: %d", placeID), http.StatusNotFound)
		}
		// Ошибка самого запроса к базе: статус не задаём, ответ уйдёт с 500
		log.Printf("Ошибка поиска места %d: %v", placeID, err)
		return nil, models.NewHTTPError(fmt.Sprintf("There is no place with id: %d", placeID), 0)
	}
	return &place, nil
}

// GetPlacesByUserID возвращает список мест пользователя.
// Несуществующий пользователь и пользователь без мест не различаются: оба случая — 404
func (s *PlaceService) GetPlacesByUserID(userID uint) ([]models.Place, error) {
	var user models.User
	if err := s.DB.Preload("Places").First(&user, userID).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("Ошибка поиска мест пользователя %d: %v", userID, err)
		}
		return nil, models.NewHTTPError(fmt.Sprintf("Could not find places for this user with id: %d", userID), http.StatusNotFound)
	}

	if len(user.Places) == 0 {
		return nil, models.NewHTTPError(fmt.Sprintf("Could not find places for the provided user id: %d", userID), http.StatusNotFound)
	}

	return user.Places, nil
}

// CreatePlace создает новое место для пользователя.
// Запись места и счётчик мест пользователя обновляются в одной транзакции:
// либо сохраняется и то и другое, либо ничего
func (s *PlaceService) CreatePlace(userID uint, input dto.CreatePlaceDTO, imagePath string) (*models.Place, error) {
	// Получаем координаты по адресу; ошибка геокодера уходит клиенту без изменений
	location, err := s.Geocoder.Resolve(input.Address)
	if err != nil {
		return nil, err
	}

	place := &models.Place{
		Title:       input.Title,
		Description: input.Description,
		Address:     input.Address,
		Location:    location,
		Image:       imagePath,
		CreatorID:   userID,
	}

	// Проверяем, что пользователь существует
	var user models.User
	if err := s.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewHTTPError(fmt.Sprintf("Could not find a user for id: %d", userID), http.StatusNotFound)
		}
		log.Printf("Ошибка поиска пользователя %d: %v", userID, err)
		return nil, models.NewHTTPError(fmt.Sprintf("Could not find a user with id: %d", userID), http.StatusInternalServerError)
	}

	// Сохраняем место и увеличиваем счётчик мест пользователя в одной транзакции
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(place).Error; err != nil {
			return err
		}

		res := tx.Model(&models.User{}).Where("id = ?", user.ID).
			UpdateColumn("places_count", gorm.Expr("places_count + ?", 1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Пользователь исчез между проверкой и транзакцией — откатываем место
			return gorm.ErrRecordNotFound
		}

		return nil
	})
	if err != nil {
		log.Printf("Транзакция создания места для пользователя %d не прошла: %v", userID, err)
		return nil, models.NewHTTPError("Creating a new place was unsuccessful, please try again!", http.StatusInternalServerError)
	}

	if s.Events != nil {
		s.Events.Broadcast("place_created", place)
	}

	return place, nil
}

// UpdatePlace обновляет название и описание места.
// Остальные поля (адрес, координаты, изображение, создатель) не редактируются
func (s *PlaceService) UpdatePlace(userID uint, placeID uint, input dto.UpdatePlaceDTO) (*models.Place, error) {
	var place models.Place
	if err := s.DB.First(&place, placeID).Error; err != nil {
		// Статус не задаём, ответ уйдёт с 500
		log.Printf("Ошибка поиска места %d: %v", placeID, err)
		return nil, models.NewHTTPError(fmt.Sprintf("There is no place with id: %d", placeID), 0)
	}

	// Редактировать место может только его создатель
	if place.CreatorID != userID {
		return nil, models.NewHTTPError("You are not allowed to edit this place", http.StatusUnauthorized)
	}

	if err := s.DB.Model(&place).Updates(map[string]interface{}{
		"title":       input.Title,
		"description": input.Description,
	}).Error; err != nil {
		log.Printf("Ошибка сохранения места %d: %v", place.ID, err)
		return nil, models.NewHTTPError("Updating the place was unsuccessful, please try again!", http.StatusInternalServerError)
	}

	return &place, nil
}

// DeletePlace удаляет место и уменьшает счётчик мест его создателя в одной транзакции.
// Возвращает удалённое место, чтобы контроллер мог убрать файл изображения.
// TODO: проверять, что место удаляет его создатель (сравнить place.CreatorID с userID из токена)
func (s *PlaceService) DeletePlace(placeID uint) (*models.Place, error) {
	var place models.Place
	if err := s.DB.Preload("Creator").First(&place, placeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewHTTPError(fmt.Sprintf("There is no place with id: %d", placeID), http.StatusNotFound)
		}
		log.Printf("Ошибка поиска места %d: %v", placeID, err)
		return nil, models.NewHTTPError(fmt.Sprintf("There is no place with id: %d", placeID), http.StatusInternalServerError)
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Place{}, place.ID).Error; err != nil {
			return err
		}

		res := tx.Model(&models.User{}).Where("id = ?", place.CreatorID).
			UpdateColumn("places_count", gorm.Expr("places_count - ?", 1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Создатель не найден — откатываем удаление, чтобы не потерять связь
			return gorm.ErrRecordNotFound
		}

		return nil
	})
	if err != nil {
		log.Printf("Транзакция удаления места %d не прошла: %v", place.ID, err)
		return nil, models.NewHTTPError("Deleting the place was unsuccessful, please try again!", http.StatusInternalServerError)
	}

	if s.Events != nil {
		s.Events.Broadcast("place_deleted", &place)
	}

	return &place, nil
}
