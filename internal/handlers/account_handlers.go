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

func CreateBankAccountHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var account models.BankAccount
		if err := c.ShouldBindJSON(&account); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный формат данных. Проверьте введённые значения."})
			return
		}

		if account.UserID == 0 || account.Name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Все поля должны быть заполнены и корректны"})
			return
		}
		account.IsActive = true

		if err := database.CreateBankAccount(c.Request.Context(), pool, &account); err != nil {
			log.Printf("Ошибка создания счёта: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось создать счёт"})
			return
		}
		c.JSON(http.StatusCreated, account)
	}
}

func GetBankAccountHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный ID счёта"})
			return
		}

		account, err := database.GetBankAccountByID(c.Request.Context(), pool, id)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Счёт не найден"})
			return
		}
		c.JSON(http.StatusOK, account)
	}
}

func ListBankAccountsHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := strconv.Atoi(c.Query("user_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный user_id"})
			return
		}

		accounts, err := database.ListBankAccounts(c.Request.Context(), pool, userID)
		if err != nil {
			log.Printf("Ошибка получения списка счетов: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось получить счета"})
			return
		}
		c.JSON(http.StatusOK, accounts)
	}
}

// RecomputeBalanceHandler пересчитывает баланс счёта с нуля по транзакциям.
// Нужен для устранения расхождений кэшируемого баланса.
func RecomputeBalanceHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный ID счёта"})
			return
		}

		balance, err := database.RecomputeBalance(c.Request.Context(), pool, id)
		if err != nil {
			log.Printf("Ошибка пересчёта баланса счёта %d: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось пересчитать баланс"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"account_id": id, "balance": balance})
	}
}
