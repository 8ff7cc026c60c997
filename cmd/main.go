package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/fincontrol/finance-app/internal/alerts"
	"github.com/fincontrol/finance-app/internal/database"
	"github.com/fincontrol/finance-app/internal/notify"
	"github.com/fincontrol/finance-app/internal/routes"
	"github.com/fincontrol/finance-app/utils"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

// ScheduleBudgetAlerts ежедневно обходит активные бюджеты. Тот же код
// доступен внешнему планировщику через /api/cron/budget-alerts.
func ScheduleBudgetAlerts(engine *alerts.Engine) {
	c := cron.New()
	_, err := c.AddFunc("@daily", func() {
		result, err := engine.SweepAll(context.Background())
		if err != nil {
			log.Printf("Ошибка обхода бюджетов: %v", err)
			return
		}
		log.Printf("Проверено бюджетов: %d", result.Checked)
	})
	if err != nil {
		log.Fatalf("Ошибка настройки CRON-задачи для проверки бюджетов: %v", err)
	}
	c.Start()
}

// ScheduleRecurringTransactions ежедневно материализует регулярные транзакции.
func ScheduleRecurringTransactions(pool *pgxpool.Pool) {
	c := cron.New()
	_, err := c.AddFunc("@daily", func() {
		processed, err := database.ProcessDueRecurring(context.Background(), pool, time.Now())
		if err != nil {
			log.Printf("Ошибка обработки регулярных транзакций: %v", err)
		} else {
			log.Printf("Регулярных транзакций обработано: %d", processed)
		}
	})
	if err != nil {
		log.Fatalf("Ошибка настройки CRON-задачи для регулярных транзакций: %v", err)
	}
	c.Start()
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Ошибка загрузки .env файла: %v", err)
	}

	pool, err := database.ConnectDB()
	if err != nil {
		log.Fatalf("Ошибка подключения к БД: %v", err)
	}
	defer pool.Close()

	engine := alerts.NewEngine(
		database.NewAlertStore(pool),
		notify.NewEmailSink(),
		notify.NewTelegramSink(),
	)

	ScheduleBudgetAlerts(engine)
	ScheduleRecurringTransactions(pool)

	r := routes.SetupRouter(pool, engine)

	// Кэш курсов валют создаётся здесь и живёт столько же, сколько сервер
	rates := utils.NewRateCache("https://v6.exchangerate-api.com/v6/"+os.Getenv("EXCHANGE_API_KEY")+"/latest/", time.Hour)
	r.GET("/api/rates/:code", func(c *gin.Context) {
		rate, err := rates.Rate(c.Param("code"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Курс валюты не найден"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"currency": c.Param("code"), "rate": rate})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Сервер запущен на порту %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Ошибка запуска сервера: %v", err)
	}
}
