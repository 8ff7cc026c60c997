package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/fincontrol/finance-app/internal/database"
	"github.com/fincontrol/finance-app/models"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

func CreateCategoryHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var category models.Category
		if err := c.ShouldBindJSON(&category); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный формат данных. Проверьте введённые значения."})
			return
		}

		if category.UserID == 0 || category.Name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Все поля должны быть заполнены и корректны"})
			return
		}

		if err := database.CreateCategory(c.Request.Context(), pool, &category); err != nil {
			log.Printf("Ошибка создания категории: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось создать категорию"})
			return
		}
		c.JSON(http.StatusCreated, category)
	}
}

func ListCategoriesHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := strconv.Atoi(c.Query("user_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный user_id"})
			return
		}

		categories, err := database.ListCategories(c.Request.Context(), pool, userID)
		if err != nil {
			log.Printf("Ошибка получения категорий: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось получить категории"})
			return
		}
		c.JSON(http.StatusOK, categories)
	}
}

func DeleteCategoryHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный ID категории"})
			return
		}

		if err := database.DeleteCategory(c.Request.Context(), pool, id); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Категория не найдена"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Категория удалена"})
	}
}
