package utils

import (
	"context"
	"log"
	"math/rand"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/fincontrol/finance-app/internal/database"
	"github.com/fincontrol/finance-app/models"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var expenseCategories = []string{"Продукты", "Транспорт", "Развлечения", "Коммунальные услуги", "Здоровье", "Одежда"}

// GenerateTestData наполняет базу тестовыми данными: счета, категории,
// транзакции, бюджеты и настройки для одного пользователя.
func GenerateTestData(pool *pgxpool.Pool, userID int) error {
	ctx := context.Background()

	account := &models.BankAccount{
		UserID:    userID,
		Name:      gofakeit.Company(),
		Currency:  "RUB",
		Balance:   decimal.Zero,
		IsActive:  true,
		IsPrimary: true,
	}
	if err := database.CreateBankAccount(ctx, pool, account); err != nil {
		return err
	}

	var categoryIDs []int
	for _, name := range expenseCategories {
		category := &models.Category{UserID: userID, Name: name, Type: "EXPENSE"}
		if err := database.CreateCategory(ctx, pool, category); err != nil {
			return err
		}
		categoryIDs = append(categoryIDs, category.ID)
	}

	now := time.Now()
	for i := 0; i < 40; i++ {
		categoryID := categoryIDs[rand.Intn(len(categoryIDs))]
		txType := models.TransactionExpense
		if rand.Intn(4) == 0 {
			txType = models.TransactionIncome
		}

		transaction := &models.Transaction{
			UserID:        userID,
			BankAccountID: account.ID,
			CategoryID:    &categoryID,
			Amount:        decimal.NewFromFloat(gofakeit.Price(100, 5000)).Round(2),
			Currency:      "RUB",
			Type:          txType,
			Status:        models.StatusCompleted,
			IsActive:      true,
			Description:   gofakeit.ProductName(),
			Date:          now.AddDate(0, 0, -rand.Intn(28)),
		}

		err := database.CreateTransaction(ctx, pool, transaction)
		if err != nil {
			log.Printf("Ошибка генерации транзакции: %v", err)
			continue
		}
		if err := database.ApplyBalanceChange(ctx, pool, database.BalanceCreate, transaction, nil); err != nil {
			log.Printf("Ошибка применения баланса для транзакции %d: %v", transaction.ID, err)
		}
	}

	month := int(now.Month())
	year := now.Year()
	for _, categoryID := range categoryIDs[:3] {
		categoryID := categoryID
		budget := &models.Budget{
			UserID:         userID,
			CategoryID:     &categoryID,
			Amount:         decimal.NewFromFloat(gofakeit.Price(10000, 50000)).Round(2),
			Month:          &month,
			Year:           &year,
			AlertThreshold: 80,
			IsActive:       true,
		}
		if err := database.CreateBudget(ctx, pool, budget); err != nil {
			log.Printf("Ошибка генерации бюджета: %v", err)
		}
	}

	pref := &models.UserPreference{
		UserID:               userID,
		Email:                gofakeit.Email(),
		EmailNotifications:   true,
		BudgetAlerts:         true,
		BudgetAlertThreshold: 80,
	}
	if err := database.UpsertUserPreference(ctx, pool, pref); err != nil {
		return err
	}

	log.Printf("Тестовые данные для user_id=%d успешно созданы", userID)
	return nil
}
