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

func GetPreferenceHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := strconv.Atoi(c.Param("user_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный user_id"})
			return
		}

		pref, err := database.GetUserPreference(c.Request.Context(), pool, userID)
		if err != nil {
			log.Printf("Ошибка получения настроек пользователя %d: %v", userID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось получить настройки"})
			return
		}
		c.JSON(http.StatusOK, pref)
	}
}

func UpdatePreferenceHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := strconv.Atoi(c.Param("user_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный user_id"})
			return
		}

		var pref models.UserPreference
		if err := c.ShouldBindJSON(&pref); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный формат данных. Проверьте введённые значения."})
			return
		}
		pref.UserID = userID

		if pref.BudgetAlertThreshold <= 0 || pref.BudgetAlertThreshold > 100 {
			pref.BudgetAlertThreshold = 80
		}

		if err := database.UpsertUserPreference(c.Request.Context(), pool, &pref); err != nil {
			log.Printf("Ошибка сохранения настроек пользователя %d: %v", userID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось сохранить настройки"})
			return
		}
		c.JSON(http.StatusOK, pref)
	}
}
