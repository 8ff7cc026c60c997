package handlers

import (
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fincontrol/finance-app/internal/alerts"
	"github.com/fincontrol/finance-app/internal/database"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

func ListBudgetAlertsHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		budgetID, err := strconv.Atoi(c.Query("budget_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный budget_id"})
			return
		}

		alertLog, err := database.ListBudgetAlerts(c.Request.Context(), pool, budgetID)
		if err != nil {
			log.Printf("Ошибка получения журнала уведомлений: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось получить журнал уведомлений"})
			return
		}
		c.JSON(http.StatusOK, alertLog)
	}
}

// cronAuthorized сверяет Bearer-токен с CRON_SECRET из окружения.
// Пустой CRON_SECRET отключает проверку.
func cronAuthorized(c *gin.Context) bool {
	secret := os.Getenv("CRON_SECRET")
	if secret == "" {
		return true
	}
	token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	return token == secret
}

// CronBudgetAlertsHandler — точка входа для внешнего планировщика:
// последовательный обход всех активных бюджетов.
func CronBudgetAlertsHandler(engine *alerts.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !cronAuthorized(c) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Неверный токен"})
			return
		}

		result, err := engine.SweepAll(c.Request.Context())
		if err != nil {
			log.Printf("Ошибка обхода бюджетов: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось проверить бюджеты"})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// CronRecurringHandler материализует наступившие регулярные транзакции.
func CronRecurringHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !cronAuthorized(c) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Неверный токен"})
			return
		}

		processed, err := database.ProcessDueRecurring(c.Request.Context(), pool, time.Now())
		if err != nil {
			log.Printf("Ошибка обработки регулярных транзакций: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось обработать регулярные транзакции"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"processed": processed})
	}
}
