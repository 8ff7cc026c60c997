package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/fincontrol/finance-app/models"
	"github.com/jackc/pgx/v5"
)

func CreateCategory(ctx context.Context, db DBTX, category *models.Category) error {
	query := `
		INSERT INTO categories (user_id, name, type)
		VALUES ($1, $2, $3)
		RETURNING id`

	err := db.QueryRow(ctx, query,
		category.UserID,
		category.Name,
		category.Type).Scan(&category.ID)
	if err != nil {
		return fmt.Errorf("ошибка при добавлении категории: %v", err)
	}
	return nil
}

func GetCategoryByID(ctx context.Context, db DBTX, categoryID int) (*models.Category, error) {
	query := `
		SELECT id, user_id, name, type
		FROM categories
		WHERE id = $1`

	category := &models.Category{}
	err := db.QueryRow(ctx, query, categoryID).Scan(
		&category.ID,
		&category.UserID,
		&category.Name,
		&category.Type,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("категория с ID %d не найдена", categoryID)
		}
		return nil, fmt.Errorf("ошибка при получении категории: %v", err)
	}

	return category, nil
}

func ListCategories(ctx context.Context, db DBTX, userID int) ([]models.Category, error) {
	query := `
		SELECT id, user_id, name, type
		FROM categories
		WHERE user_id = $1
		ORDER BY name`

	rows, err := db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении списка категорий: %v", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Type); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func DeleteCategory(ctx context.Context, db DBTX, categoryID int) error {
	query := `
		DELETE FROM categories
		WHERE id = $1`

	result, err := db.Exec(ctx, query, categoryID)
	if err != nil {
		return fmt.Errorf("ошибка удаления категории: %v", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("категория с ID %d не найдена", categoryID)
	}
	return nil
}
