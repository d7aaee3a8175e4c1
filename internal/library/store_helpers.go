package library

import (
	"time"
)

const itemColumns = "id, path, format, mb_trackid, mood_acoustic, artist, title, album, created_at, updated_at"

func scanItem(scanner interface{ Scan(dest ...any) error }) (*Item, error) {
	var (
		item                   Item
		createdRaw, updatedRaw string
	)
	if err := scanner.Scan(
		&item.ID,
		&item.Path,
		&item.Format,
		&item.MBTrackID,
		&item.MoodAcoustic,
		&item.Artist,
		&item.Title,
		&item.Album,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		item.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw); err == nil {
		item.UpdatedAt = updated
	}
	return &item, nil
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}
