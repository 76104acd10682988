package controllers

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/dev-kani/MERN-FavPlaces-Project-Backend/dto"
	"github.com/dev-kani/MERN-FavPlaces-Project-Backend/services"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// MessageResponse — структура для ответа с сообщением
type MessageResponse struct {
	Message string `json:"message"`
}

// PlaceController — контроллер для обработки запросов на места
type PlaceController struct {
	Service *services.PlaceService
}

// GetPlaceByID godoc
// @Summary      Получить место по ID
// @Description  Возвращает место по его идентификатору
// @Tags         places
// @Produce      json
// @Param        pid  path      int  true  "ID места"
// @Success      200  {object}  map[string]models.Place
// @Failure      404  {object}  MessageResponse
// @Failure      500  {object}  MessageResponse
// @Router       /places/{pid} [get]
func (c *PlaceController) GetPlaceByID(ctx *gin.Context) {
	placeID := parseUint(ctx.Param("pid"))

	place, err := c.Service.GetPlaceByID(placeID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"place": place})
}

// GetPlacesByUserID godoc
// @Summary      Получить места пользователя
// @Description  Возвращает список мест, созданных пользователем
// @Tags         places
// @Produce      json
// @Param        uid  path      int  true  "ID пользователя"
// @Success      200  {object}  map[string][]models.Place
// @Failure      404  {object}  MessageResponse
// @Router       /places/user/{uid} [get]
func (c *PlaceController) GetPlacesByUserID(ctx *gin.Context) {
	userID := parseUint(ctx.Param("uid"))

	places, err := c.Service.GetPlacesByUserID(userID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"places": places})
}

// CreatePlace godoc
// @Summary      Создать место
// @Description  Создаёт новое место с изображением; координаты вычисляются по адресу
// @Tags         places
// @Accept       mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        title        formData  string  true  "Название места"
// @Param        description  formData  string  true  "Описание места"
// @Param        address      formData  string  true  "Почтовый адрес"
// @Param        image        formData  file    true  "Изображение места"
// @Success      201  {object}  map[string]models.Place
// @Failure      404  {object}  MessageResponse
// @Failure      422  {object}  MessageResponse
// @Failure      500  {object}  MessageResponse
// @Router       /places [post]
func (c *PlaceController) CreatePlace(ctx *gin.Context) {
	var input dto.CreatePlaceDTO

	// Проверяем и парсим поля формы
	if err := ctx.ShouldBind(&input); err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, MessageResponse{Message: "Invalid inputs passed, please check data"})
		return
	}

	// Извлекаем userID из контекста
	userID, exists := ctx.Get("userID")
	if !exists {
		ctx.JSON(http.StatusUnauthorized, MessageResponse{Message: "User not authenticated"})
		return
	}

	// Преобразуем userID в тип uint
	userIDUint, ok := userID.(uint)
	if !ok {
		ctx.JSON(http.StatusInternalServerError, MessageResponse{Message: "Failed to parse userID"})
		return
	}

	// Сохраняем загруженное изображение
	file, err := ctx.FormFile("image")
	if err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, MessageResponse{Message: "Invalid inputs passed, please check data"})
		return
	}

	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "uploads"
	}
	imagePath := filepath.Join(uploadDir, fmt.Sprintf("%d_%s", time.Now().UnixNano(), filepath.Base(file.Filename)))
	if err := ctx.SaveUploadedFile(file, imagePath); err != nil {
		ctx.JSON(http.StatusInternalServerError, MessageResponse{Message: "Could not save the uploaded image"})
		return
	}

	// Вызываем сервис для создания места
	place, err := c.Service.CreatePlace(userIDUint, input, imagePath)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"place": place})
}

// UpdatePlace godoc
// @Summary      Обновить место
// @Description  Обновляет название и описание места; доступно только создателю
// @Tags         places
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        pid    path      int                 true  "ID места"
// @Param        input  body      dto.UpdatePlaceDTO  true  "Новые данные места"
// @Success      200  {object}  map[string]models.Place
// @Failure      401  {object}  MessageResponse
// @Failure      422  {object}  MessageResponse
// @Failure      500  {object}  MessageResponse
// @Router       /places/{pid} [patch]
func (c *PlaceController) UpdatePlace(ctx *gin.Context) {
	var input dto.UpdatePlaceDTO

	// Проверяем и парсим тело запроса
	if err := ctx.ShouldBindBodyWith(&input, binding.JSON); err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, MessageResponse{Message: "Invalid inputs passed, please check data"})
		return
	}

	userID := ctx.GetUint("userID") // userID кладёт в контекст middleware
	placeID := parseUint(ctx.Param("pid"))

	place, err := c.Service.UpdatePlace(userID, placeID, input)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"place": place})
}

// DeletePlace godoc
// @Summary      Удалить место
// @Description  Удаляет место и его изображение
// @Tags         places
// @Produce      json
// @Security     BearerAuth
// @Param        pid  path      int  true  "ID места"
// @Success      200  {object}  MessageResponse
// @Failure      404  {object}  MessageResponse
// @Failure      500  {object}  MessageResponse
// @Router       /places/{pid} [delete]
func (c *PlaceController) DeletePlace(ctx *gin.Context) {
	placeID := parseUint(ctx.Param("pid"))

	place, err := c.Service.DeletePlace(placeID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	// Удаляем файл изображения в фоне; ошибка удаления только логируется
	// и на ответ клиенту не влияет
	imagePath := place.Image
	go func() {
		if err := os.Remove(imagePath); err != nil {
			log.Printf("Не удалось удалить файл изображения %s: %v", imagePath, err)
		}
	}()

	ctx.JSON(http.StatusOK, MessageResponse{Message: fmt.Sprintf("The Place Deleted with id: %d", place.ID)})
}

func parseUint(value string) uint {
	// Преобразование строки в uint с обработкой ошибок
	var parsed uint
	_, err := fmt.Sscanf(value, "%d", &parsed)
	if err != nil {
		return 0
	}
	return parsed
}
