package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-note-keeper/internal/logger"
	"github.com/MKhiriev/go-note-keeper/models"
)

type imageRepository struct {
	*DB
	logger *logger.Logger
}

func NewImageRepository(db *DB, logger *logger.Logger) ImageRepository {
	return &imageRepository{
		DB:     db,
		logger: logger,
	}
}

func (r *imageRepository) Add(ctx context.Context, image models.Image) (string, error) {
	log := logger.FromContext(ctx)

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).
			Str("func", "imageRepository.Add").
			Str("image_id", image.ID).
			Msg("failed to begin transaction for image save")
		return "", fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, saveImage, image.ID, image.Data, image.Timestamp)
	if err != nil {
		log.Err(err).
			Str("func", "imageRepository.Add").
			Str("image_id", image.ID).
			Msg("failed to execute insert for image")
		return "", fmt.Errorf("%w (id=%s): %w", ErrExecutingStatement, image.ID, err)
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).
			Str("func", "imageRepository.Add").
			Str("image_id", image.ID).
			Msg("failed to commit image save transaction")
		return "", fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return image.ID, nil
}

func (r *imageRepository) Get(ctx context.Context, id string) (models.Image, error) {
	log := logger.FromContext(ctx)

	var image models.Image
	row := r.DB.QueryRowContext(ctx, getImage, id)

	scanErr := row.Scan(&image.ID, &image.Data, &image.Timestamp)
	if scanErr != nil {
		if errors.Is(scanErr, sql.ErrNoRows) {
			return models.Image{}, ErrImageNotFound
		}
		log.Err(scanErr).
			Str("func", "imageRepository.Get").
			Str("image_id", id).
			Msg("failed to scan image row")
		return models.Image{}, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
	}

	return image, nil
}

func (r *imageRepository) Delete(ctx context.Context, id string) (bool, error) {
	log := logger.FromContext(ctx)

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).
			Str("func", "imageRepository.Delete").
			Str("image_id", id).
			Msg("failed to begin transaction for image delete")
		return false, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, deleteImage, id)
	if err != nil {
		log.Err(err).
			Str("func", "imageRepository.Delete").
			Str("image_id", id).
			Msg("failed to execute delete for image")
		return false, fmt.Errorf("%w (id=%s): %w", ErrExecutingStatement, id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Err(err).
			Str("func", "imageRepository.Delete").
			Str("image_id", id).
			Msg("failed to get rows affected after image delete")
		return false, fmt.Errorf("failed to get rows affected (id=%s): %w", id, err)
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).
			Str("func", "imageRepository.Delete").
			Str("image_id", id).
			Msg("failed to commit image delete transaction")
		return false, fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return rowsAffected > 0, nil
}
