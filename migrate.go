package main

import (
	"context"

	"wardrobeAPI/internal/schema"
)

func runMigrate(ctx context.Context) error {
	dbPool, err := connectDB(ctx)
	if err != nil {
		return err
	}
	defer dbPool.Close()

	if err := schema.Apply(ctx, dbPool); err != nil {
		return err
	}
	logger.Info("database schema is up to date")
	return nil
}
