// Package mediacache provides a SQLite-backed cache for generated images.
// Each (year) timeline image and each (year, dayType) vision board is an
// independently replaceable cache entry.
package mediacache

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/futureline/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// Cache provides SQLite-backed image caching.
type Cache struct {
	db *sql.DB
}

// Open opens or creates the cache database at the given path.
func Open(dbPath string) (*Cache, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close closes the cache database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// SaveTimelineImage stores the image for a year, replacing any prior one.
func (c *Cache) SaveTimelineImage(img model.TimelineImage) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := c.db.Exec(`INSERT OR REPLACE INTO timeline_images (year, image_url, generated_at)
		VALUES (?, ?, ?)`, img.Year, img.ImageURL, now)
	return err
}

// TimelineImage returns the cached image for a year, or ok=false.
func (c *Cache) TimelineImage(year int) (model.TimelineImage, bool, error) {
	var img model.TimelineImage
	err := c.db.QueryRow("SELECT year, image_url FROM timeline_images WHERE year = ?", year).
		Scan(&img.Year, &img.ImageURL)
	if err == sql.ErrNoRows {
		return img, false, nil
	}
	if err != nil {
		return img, false, err
	}
	return img, true, nil
}

// TimelineImages returns all cached per-year images keyed by year.
func (c *Cache) TimelineImages() (map[int]string, error) {
	rows, err := c.db.Query("SELECT year, image_url FROM timeline_images")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	result := make(map[int]string)
	for rows.Next() {
		var year int
		var url string
		if err := rows.Scan(&year, &url); err != nil {
			return nil, err
		}
		result[year] = url
	}
	return result, rows.Err()
}

// SaveBoard stores a vision board for (year, dayType), replacing any prior
// set for that key in the same transaction.
func (c *Cache) SaveBoard(year int, dt model.DayType, images []model.BoardImage) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM vision_boards WHERE year = ? AND day_type = ?", year, string(dt)); err != nil {
		return err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	for _, img := range images {
		_, err := tx.Exec(`INSERT INTO vision_boards
			(year, day_type, idx, image_url, scene_description, generated_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			year, string(dt), img.Index, img.ImageURL, img.SceneDescription, now,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Board returns the cached board for (year, dayType) in index order.
// An empty slice means no board is cached for that key.
func (c *Cache) Board(year int, dt model.DayType) ([]model.BoardImage, error) {
	rows, err := c.db.Query(`SELECT idx, image_url, scene_description
		FROM vision_boards WHERE year = ? AND day_type = ? ORDER BY idx`, year, string(dt))
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var images []model.BoardImage
	for rows.Next() {
		var img model.BoardImage
		if err := rows.Scan(&img.Index, &img.ImageURL, &img.SceneDescription); err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

// DeleteBoard invalidates the board for one (year, dayType) key.
func (c *Cache) DeleteBoard(year int, dt model.DayType) error {
	_, err := c.db.Exec("DELETE FROM vision_boards WHERE year = ? AND day_type = ?", year, string(dt))
	return err
}

// DeleteTimelineImage invalidates the cached image for one year.
func (c *Cache) DeleteTimelineImage(year int) error {
	_, err := c.db.Exec("DELETE FROM timeline_images WHERE year = ?", year)
	return err
}

// Clear drops every cached image.
func (c *Cache) Clear() error {
	if _, err := c.db.Exec("DELETE FROM vision_boards"); err != nil {
		return err
	}
	_, err := c.db.Exec("DELETE FROM timeline_images")
	return err
}

// BoardCount returns the number of cached vision boards.
func (c *Cache) BoardCount() (int, error) {
	var count int
	err := c.db.QueryRow("SELECT COUNT(DISTINCT year || '/' || day_type) FROM vision_boards").Scan(&count)
	return count, err
}
