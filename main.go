package main

import (
	"net/http"
	"os"

	backgroundprocesses "github.com/dev-kani/MERN-FavPlaces-Project-Backend/background_processes"
	"github.com/dev-kani/MERN-FavPlaces-Project-Backend/controllers"
	"github.com/dev-kani/MERN-FavPlaces-Project-Backend/database"
	docs "github.com/dev-kani/MERN-FavPlaces-Project-Backend/docs"
	middleware "github.com/dev-kani/MERN-FavPlaces-Project-Backend/midellware"
	"github.com/dev-kani/MERN-FavPlaces-Project-Backend/services"

	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

// Helloworld godoc
// @Summary Returns "helloworld"
// @Description A simple example endpoint that responds with the string "helloworld"
// @Tags Example
// @Accept json
// @Produce json
// @Success 200 {string} string "helloworld"
// @Security BearerAuth
// @Router /helloworld [get]
func Helloworld(c *gin.Context) {
	c.JSON(http.StatusOK, "helloworld")
}

func main() {
	// Инициализация подключения к базе данных и Redis
	database.InitDB()
	database.InitRedis()

	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "uploads"
	}

	// Инициализация сервисов
	registService := &services.RegistService{
		DB: database.GetDB(),
	}
	authService := &services.AuthService{
		DB: database.GetDB(),
	}
	geocodingService := services.NewGeocodingService()
	wsHandler := services.NewWebSocketHandler()
	placeService := services.NewPlaceService(database.GetDB(), geocodingService)
	placeService.Events = wsHandler

	// Инициализация контроллеров
	regisController := &controllers.RegistController{
		Service_regist: registService,
		Service_auth:   authService,
	}

	placeController := &controllers.PlaceController{
		Service: placeService,
	}

	// Фоновая очистка осиротевших изображений
	cleanup := &backgroundprocesses.DeleteImages{
		DB:        database.GetDB(),
		UploadDir: uploadDir,
	}
	go cleanup.CleanupOrphanImages()

	// Настройка маршрутов и Swagger документации
	r := gin.Default()
	docs.SwaggerInfo.BasePath = "/api"

	// Открытые маршруты
	v1 := r.Group("/api")
	{
		v1.POST("/register", regisController.RegisterUser)
		v1.POST("/login", regisController.LoginUser)
		v1.GET("/places/:pid", placeController.GetPlaceByID)
		v1.GET("/places/user/:uid", placeController.GetPlacesByUserID)
	}

	// Защищённые маршруты
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.GET("/helloworld", Helloworld)
		protected.POST("/places", placeController.CreatePlace)
		protected.PATCH("/places/:pid", placeController.UpdatePlace)
		protected.DELETE("/places/:pid", placeController.DeletePlace)
	}

	// WebSocket с событиями о создании и удалении мест
	r.GET("/ws", func(c *gin.Context) {
		wsHandler.HandleWebSocket(c.Writer, c.Request)
	})

	// Маршрут для Swagger документации
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))

	// Запуск сервера
	r.Run(":8080")
}
