package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"richmarket-bot/internal/models"
)

func (s *Store) Categories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.WithContext(ctx).Order("name").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (s *Store) ItemsByCategory(ctx context.Context, categoryID uint) ([]models.Item, error) {
	var items []models.Item
	err := s.db.WithContext(ctx).
		Where("category_id = ?", categoryID).
		Order("name").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("list items of category %d: %w", categoryID, err)
	}
	return items, nil
}

func (s *Store) ItemByID(ctx context.Context, itemID uint) (*models.Item, error) {
	var item models.Item
	err := s.db.WithContext(ctx).Preload("Category").First(&item, itemID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup item %d: %w", itemID, err)
	}
	return &item, nil
}

func (s *Store) UpdateItemPrice(ctx context.Context, itemID uint, price float64) error {
	result := s.db.WithContext(ctx).Model(&models.Item{}).Where("id = ?", itemID).Update("price", price)
	if result.Error != nil {
		return fmt.Errorf("update price of item %d: %w", itemID, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (s *Store) UpdateItemName(ctx context.Context, itemID uint, name string) error {
	result := s.db.WithContext(ctx).Model(&models.Item{}).Where("id = ?", itemID).Update("name", name)
	if result.Error != nil {
		return fmt.Errorf("update name of item %d: %w", itemID, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrItemNotFound
	}
	return nil
}
