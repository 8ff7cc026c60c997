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

func CreateRecurringHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var recurring models.RecurringTransaction
		if err := c.ShouldBindJSON(&recurring); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный формат данных. Проверьте введённые значения."})
			return
		}

		if recurring.UserID == 0 || recurring.BankAccountID == 0 || !recurring.Amount.IsPositive() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Все поля должны быть заполнены и корректны"})
			return
		}
		switch recurring.Frequency {
		case models.FrequencyDaily, models.FrequencyWeekly, models.FrequencyMonthly:
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректная периодичность"})
			return
		}
		recurring.IsActive = true

		if err := database.CreateRecurringTransaction(c.Request.Context(), pool, &recurring); err != nil {
			log.Printf("Ошибка создания регулярной транзакции: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось создать регулярную транзакцию"})
			return
		}
		c.JSON(http.StatusCreated, recurring)
	}
}

func GetRecurringHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный ID"})
			return
		}

		recurring, err := database.GetRecurringTransactionByID(c.Request.Context(), pool, id)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Регулярная транзакция не найдена"})
			return
		}
		c.JSON(http.StatusOK, recurring)
	}
}

func DeleteRecurringHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный ID"})
			return
		}

		if err := database.DeactivateRecurringTransaction(c.Request.Context(), pool, id); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Регулярная транзакция не найдена"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Регулярная транзакция отключена"})
	}
}
