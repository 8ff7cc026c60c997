package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/fincontrol/finance-app/models"
	"github.com/jackc/pgx/v5"
)

func CreateBankAccount(ctx context.Context, db DBTX, account *models.BankAccount) error {
	query := `
		INSERT INTO bank_accounts (user_id, name, currency, balance, is_active, is_primary)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	err := db.QueryRow(ctx, query,
		account.UserID,
		account.Name,
		account.Currency,
		account.Balance,
		account.IsActive,
		account.IsPrimary).Scan(&account.ID)
	if err != nil {
		return fmt.Errorf("ошибка при добавлении счёта: %v", err)
	}
	return nil
}

func GetBankAccountByID(ctx context.Context, db DBTX, accountID int) (*models.BankAccount, error) {
	query := `
		SELECT id, user_id, name, currency, balance, is_active, is_primary
		FROM bank_accounts
		WHERE id = $1`

	account := &models.BankAccount{}
	err := db.QueryRow(ctx, query, accountID).Scan(
		&account.ID,
		&account.UserID,
		&account.Name,
		&account.Currency,
		&account.Balance,
		&account.IsActive,
		&account.IsPrimary,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("счёт с ID %d не найден", accountID)
		}
		return nil, fmt.Errorf("ошибка при получении счёта: %v", err)
	}

	return account, nil
}

func ListBankAccounts(ctx context.Context, db DBTX, userID int) ([]models.BankAccount, error) {
	query := `
		SELECT id, user_id, name, currency, balance, is_active, is_primary
		FROM bank_accounts
		WHERE user_id = $1 AND is_active = TRUE
		ORDER BY is_primary DESC, id`

	rows, err := db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении списка счетов: %v", err)
	}
	defer rows.Close()

	var accounts []models.BankAccount
	for rows.Next() {
		var a models.BankAccount
		if err := rows.Scan(&a.ID, &a.UserID, &a.Name, &a.Currency, &a.Balance, &a.IsActive, &a.IsPrimary); err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}
