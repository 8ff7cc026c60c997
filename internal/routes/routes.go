package routes

import (
	"github.com/fincontrol/finance-app/internal/alerts"
	"github.com/fincontrol/finance-app/internal/handlers"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin == "http://localhost:3000" || origin == "http://localhost:3001" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(200)
			return
		}

		c.Next()
	}
}

func SetupRouter(pool *pgxpool.Pool, engine *alerts.Engine) *gin.Engine {
	r := gin.Default()
	r.Use(CORSMiddleware())

	api := r.Group("/api")

	api.POST("/transactions", handlers.CreateTransactionHandler(pool, engine))
	api.GET("/transactions", handlers.ListTransactionsHandler(pool))
	api.PUT("/transactions/:id", handlers.UpdateTransactionHandler(pool, engine))
	api.DELETE("/transactions/:id", handlers.DeleteTransactionHandler(pool, engine))

	api.POST("/accounts", handlers.CreateBankAccountHandler(pool))
	api.GET("/accounts", handlers.ListBankAccountsHandler(pool))
	api.GET("/accounts/:id", handlers.GetBankAccountHandler(pool))
	api.POST("/accounts/:id/recompute", handlers.RecomputeBalanceHandler(pool))

	api.POST("/budgets", handlers.CreateBudgetHandler(pool))
	api.GET("/budgets/:id", handlers.GetBudgetHandler(pool))
	api.PUT("/budgets/:id", handlers.UpdateBudgetHandler(pool))
	api.DELETE("/budgets/:id", handlers.DeleteBudgetHandler(pool))
	api.GET("/budgets/:id/status", handlers.BudgetStatusHandler(pool, engine))
	api.POST("/budgets/:id/check", handlers.CheckBudgetHandler(pool, engine))

	api.GET("/budget-alerts", handlers.ListBudgetAlertsHandler(pool))

	api.GET("/preferences/:user_id", handlers.GetPreferenceHandler(pool))
	api.PUT("/preferences/:user_id", handlers.UpdatePreferenceHandler(pool))

	api.POST("/categories", handlers.CreateCategoryHandler(pool))
	api.GET("/categories", handlers.ListCategoriesHandler(pool))
	api.DELETE("/categories/:id", handlers.DeleteCategoryHandler(pool))

	api.POST("/recurring", handlers.CreateRecurringHandler(pool))
	api.GET("/recurring/:id", handlers.GetRecurringHandler(pool))
	api.DELETE("/recurring/:id", handlers.DeleteRecurringHandler(pool))

	// Точки входа для внешнего планировщика
	api.GET("/cron/budget-alerts", handlers.CronBudgetAlertsHandler(engine))
	api.POST("/cron/recurring", handlers.CronRecurringHandler(pool))

	return r
}
