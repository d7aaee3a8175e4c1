package library

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Item is one audio file in the catalog.
type Item struct {
	ID           int64
	Path         string
	Format       string
	MBTrackID    string
	MoodAcoustic string
	Artist       string
	Title        string
	Album        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identifier returns the MusicBrainz recording id.
func (i Item) Identifier() string { return i.MBTrackID }

// FileFormat returns the format tag.
func (i Item) FileFormat() string { return i.Format }

// ExistingAnalysis returns the mood_acoustic value, which is populated once
// AcousticBrainz data has been fetched for the track.
func (i Item) ExistingAnalysis() string { return i.MoodAcoustic }

// FilePath returns the path of the audio file.
func (i Item) FilePath() string { return i.Path }

// ItemID returns the catalog row id.
func (i Item) ItemID() int64 { return i.ID }

// DisplayName renders "artist - title", falling back to the file name.
func (i Item) DisplayName() string {
	artist := strings.TrimSpace(i.Artist)
	title := strings.TrimSpace(i.Title)
	switch {
	case artist != "" && title != "":
		return fmt.Sprintf("%s - %s", artist, title)
	case title != "":
		return title
	default:
		return filepath.Base(i.Path)
	}
}

// Field names accepted by SetField and by field:value query terms.
const (
	FieldPath         = "path"
	FieldFormat       = "format"
	FieldMBTrackID    = "mb_trackid"
	FieldMoodAcoustic = "mood_acoustic"
	FieldArtist       = "artist"
	FieldTitle        = "title"
	FieldAlbum        = "album"
)

// EditableFields lists the fields SetField may change.
func EditableFields() []string {
	return []string{FieldFormat, FieldMBTrackID, FieldMoodAcoustic, FieldArtist, FieldTitle, FieldAlbum}
}

func (i Item) field(name string) (string, bool) {
	switch name {
	case FieldPath:
		return i.Path, true
	case FieldFormat:
		return i.Format, true
	case FieldMBTrackID:
		return i.MBTrackID, true
	case FieldMoodAcoustic:
		return i.MoodAcoustic, true
	case FieldArtist:
		return i.Artist, true
	case FieldTitle:
		return i.Title, true
	case FieldAlbum:
		return i.Album, true
	default:
		return "", false
	}
}
