package handlers

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/fincontrol/finance-app/internal/alerts"
	"github.com/fincontrol/finance-app/internal/database"
	"github.com/fincontrol/finance-app/models"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func validTransaction(t *models.Transaction) bool {
	switch t.Type {
	case models.TransactionIncome, models.TransactionExpense, models.TransactionTransfer, models.TransactionInvestment:
	default:
		return false
	}
	switch t.Status {
	case models.StatusPending, models.StatusCompleted, models.StatusFailed:
	default:
		return false
	}
	return t.UserID != 0 && t.BankAccountID != 0 && t.Amount.IsPositive()
}

// checkBudgetsAsync запускает фоновую проверку бюджетов пользователя.
// Ответ клиенту от её результата не зависит, ошибки только логируются.
func checkBudgetsAsync(engine *alerts.Engine, userID int) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		engine.CheckUser(ctx, userID)
	}()
}

func CreateTransactionHandler(pool *pgxpool.Pool, engine *alerts.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		var transaction models.Transaction
		if err := c.ShouldBindJSON(&transaction); err != nil {
			log.Printf("Ошибка привязки JSON: %v", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный формат данных. Проверьте введённые значения."})
			return
		}

		if transaction.Date.IsZero() {
			transaction.Date = time.Now()
		}
		transaction.IsActive = true

		if !validTransaction(&transaction) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Все поля должны быть заполнены и корректны"})
			return
		}

		// Вставка строки и изменение баланса — одна транзакция БД:
		// либо сохраняется и то, и другое, либо ничего
		err := pgx.BeginFunc(c.Request.Context(), pool, func(tx pgx.Tx) error {
			if err := database.CreateTransaction(c.Request.Context(), tx, &transaction); err != nil {
				return err
			}
			return database.ApplyBalanceChange(c.Request.Context(), tx, database.BalanceCreate, &transaction, nil)
		})
		if err != nil {
			log.Printf("Ошибка создания транзакции: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось создать транзакцию"})
			return
		}

		checkBudgetsAsync(engine, transaction.UserID)
		c.JSON(http.StatusCreated, transaction)
	}
}

func UpdateTransactionHandler(pool *pgxpool.Pool, engine *alerts.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный ID транзакции"})
			return
		}

		// Снимок до изменения нужен для расчёта дельты баланса
		oldTx, err := database.GetTransactionByID(c.Request.Context(), pool, id)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Транзакция не найдена"})
			return
		}

		var transaction models.Transaction
		if err := c.ShouldBindJSON(&transaction); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный формат данных. Проверьте введённые значения."})
			return
		}
		transaction.ID = id
		transaction.UserID = oldTx.UserID
		transaction.IsActive = oldTx.IsActive
		if transaction.Date.IsZero() {
			transaction.Date = oldTx.Date
		}

		if !validTransaction(&transaction) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Все поля должны быть заполнены и корректны"})
			return
		}

		err = pgx.BeginFunc(c.Request.Context(), pool, func(tx pgx.Tx) error {
			if err := database.UpdateTransaction(c.Request.Context(), tx, &transaction); err != nil {
				return err
			}
			return database.ApplyBalanceChange(c.Request.Context(), tx, database.BalanceUpdate, &transaction, oldTx)
		})
		if err != nil {
			log.Printf("Ошибка обновления транзакции: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось обновить транзакцию"})
			return
		}

		checkBudgetsAsync(engine, transaction.UserID)
		c.JSON(http.StatusOK, transaction)
	}
}

func DeleteTransactionHandler(pool *pgxpool.Pool, engine *alerts.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный ID транзакции"})
			return
		}

		oldTx, err := database.GetTransactionByID(c.Request.Context(), pool, id)
		if err != nil || !oldTx.IsActive {
			c.JSON(http.StatusNotFound, gin.H{"error": "Транзакция не найдена"})
			return
		}

		err = pgx.BeginFunc(c.Request.Context(), pool, func(tx pgx.Tx) error {
			if err := database.SoftDeleteTransaction(c.Request.Context(), tx, id); err != nil {
				return err
			}
			return database.ApplyBalanceChange(c.Request.Context(), tx, database.BalanceDelete, nil, oldTx)
		})
		if err != nil {
			log.Printf("Ошибка удаления транзакции: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось удалить транзакцию"})
			return
		}

		checkBudgetsAsync(engine, oldTx.UserID)
		c.JSON(http.StatusOK, gin.H{"message": "Транзакция удалена"})
	}
}

func ListTransactionsHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := strconv.Atoi(c.Query("user_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный user_id"})
			return
		}

		from, err := parseDateParam(c.Query("from"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректная дата from"})
			return
		}
		to, err := parseDateParam(c.Query("to"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректная дата to"})
			return
		}

		transactions, err := database.ListTransactions(c.Request.Context(), pool, userID, from, to)
		if err != nil {
			log.Printf("Ошибка получения списка транзакций: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось получить транзакции"})
			return
		}
		c.JSON(http.StatusOK, transactions)
	}
}

func parseDateParam(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t, err = time.Parse("2006-01-02", value)
		if err != nil {
			return nil, err
		}
	}
	return &t, nil
}
