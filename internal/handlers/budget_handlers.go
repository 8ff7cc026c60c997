package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/fincontrol/finance-app/internal/alerts"
	"github.com/fincontrol/finance-app/internal/database"
	"github.com/fincontrol/finance-app/models"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

func CreateBudgetHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var budget models.Budget
		if err := c.ShouldBindJSON(&budget); err != nil {
			log.Printf("Ошибка привязки JSON: %v", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный формат данных. Проверьте введённые значения."})
			return
		}

		if budget.UserID == 0 || !budget.Amount.IsPositive() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Все поля должны быть заполнены и корректны"})
			return
		}
		if (budget.Month == nil) != (budget.Year == nil) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Месяц и год указываются вместе"})
			return
		}
		if budget.Month != nil && (*budget.Month < 1 || *budget.Month > 12) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный месяц"})
			return
		}
		if budget.AlertThreshold == 0 {
			budget.AlertThreshold = 80
		}
		budget.IsActive = true

		if err := database.CreateBudget(c.Request.Context(), pool, &budget); err != nil {
			log.Printf("Ошибка создания бюджета: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось создать бюджет"})
			return
		}
		c.JSON(http.StatusCreated, budget)
	}
}

func GetBudgetHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный ID бюджета"})
			return
		}

		budget, err := database.GetBudgetByID(c.Request.Context(), pool, id)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Бюджет не найден"})
			return
		}
		c.JSON(http.StatusOK, budget)
	}
}

func UpdateBudgetHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный ID бюджета"})
			return
		}

		existing, err := database.GetBudgetByID(c.Request.Context(), pool, id)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Бюджет не найден"})
			return
		}

		var budget models.Budget
		if err := c.ShouldBindJSON(&budget); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный формат данных. Проверьте введённые значения."})
			return
		}
		budget.ID = id
		budget.UserID = existing.UserID

		if !budget.Amount.IsPositive() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Все поля должны быть заполнены и корректны"})
			return
		}
		if budget.AlertThreshold == 0 {
			budget.AlertThreshold = existing.AlertThreshold
		}

		if err := database.UpdateBudget(c.Request.Context(), pool, &budget); err != nil {
			log.Printf("Ошибка обновления бюджета: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось обновить бюджет"})
			return
		}
		c.JSON(http.StatusOK, budget)
	}
}

func DeleteBudgetHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный ID бюджета"})
			return
		}

		if err := database.DeleteBudget(c.Request.Context(), pool, id); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Бюджет не найден"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Бюджет удалён"})
	}
}

// BudgetStatusHandler отдаёт текущий расход бюджета за его период.
func BudgetStatusHandler(pool *pgxpool.Pool, engine *alerts.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный ID бюджета"})
			return
		}

		budget, err := database.GetBudgetByID(c.Request.Context(), pool, id)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Бюджет не найден"})
			return
		}

		status, err := engine.GetStatus(c.Request.Context(), budget)
		if err != nil {
			log.Printf("Ошибка расчёта статуса бюджета %d: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось рассчитать статус бюджета"})
			return
		}
		c.JSON(http.StatusOK, status)
	}
}

// CheckBudgetHandler запускает проверку одного бюджета синхронно и
// возвращает результат рассылки.
func CheckBudgetHandler(pool *pgxpool.Pool, engine *alerts.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный ID бюджета"})
			return
		}

		budget, err := database.GetBudgetByID(c.Request.Context(), pool, id)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Бюджет не найден"})
			return
		}

		result, err := engine.CheckAndSend(c.Request.Context(), budget.ID, budget.UserID)
		if err != nil {
			log.Printf("Ошибка проверки бюджета %d: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось проверить бюджет"})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}
