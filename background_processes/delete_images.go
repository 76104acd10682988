package backgroundprocesses

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dev-kani/MERN-FavPlaces-Project-Backend/models"

	"gorm.io/gorm"
)

// DeleteImages чистит каталог загрузок от осиротевших файлов:
// изображений, на которые не ссылается ни одно место (например, если
// транзакция создания места не прошла после загрузки файла)
type DeleteImages struct {
	DB        *gorm.DB
	UploadDir string
}

// CleanupOrphanImages запускается раз в 1 час и удаляет осиротевшие файлы старше 1 часа
func (s *DeleteImages) CleanupOrphanImages() {
	ticker := time.NewTicker(1 * time.Hour) // Запуск каждые 1 час
	defer ticker.Stop()

	for range ticker.C {
		s.sweep()
	}
}

func (s *DeleteImages) sweep() {
	entries, err := os.ReadDir(s.UploadDir)
	if err != nil {
		fmt.Printf("Ошибка при чтении каталога загрузок: %v\n", err)
		return
	}

	cutoffTime := time.Now().Add(-1 * time.Hour)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoffTime) {
			// Свежие файлы не трогаем: место для них может ещё создаваться
			continue
		}

		path := filepath.Join(s.UploadDir, entry.Name())
		var count int64
		if err := s.DB.Model(&models.Place{}).Where("image = ?", path).Count(&count).Error; err != nil {
			fmt.Printf("Ошибка при проверке изображения %s: %v\n", path, err)
			continue
		}
		if count > 0 {
			continue
		}

		if err := os.Remove(path); err != nil {
			fmt.Printf("Ошибка при удалении файла %s: %v\n", path, err)
		} else {
			fmt.Println("Осиротевший файл удалён: " + path)
		}
	}
}
