// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

const (
	// INSERT OR IGNORE makes content-addressed writes idempotent: a second
	// upload of identical bytes maps to the same primary key and keeps the
	// original row untouched.
	saveImage = `
		INSERT OR IGNORE INTO images (
			id,
			data,
			timestamp
		) VALUES ($1, $2, $3);`

	getImage = `
		SELECT
			id,
			data,
			timestamp
		FROM images
		WHERE id = $1;`

	deleteImage = `
		DELETE FROM images
		WHERE id = $1;`
)
