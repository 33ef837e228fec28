package repository

import (
	"encoding/base64"
	"errors"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
)

// ErrInvalidCursor is returned by ParseCursor for malformed input.
var ErrInvalidCursor = errors.New("invalid cursor")

// Cursor marks a position in a (created_at DESC, id DESC) ordering.
// A zero ID means the cursor only carries a timestamp.
type Cursor struct {
	CreatedAt time.Time
	ID        uint
}

// NewCursor returns the cursor positioned at the given row.
func NewCursor(createdAt time.Time, id uint) *Cursor {
	return &Cursor{CreatedAt: createdAt.UTC(), ID: id}
}

// ParseCursor accepts either an opaque token produced by Encode or a bare
// RFC 3339 timestamp. An empty string yields a nil cursor.
func ParseCursor(raw string) (*Cursor, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	if ts, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return &Cursor{CreatedAt: ts.UTC()}, nil
	}

	decoded, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return nil, ErrInvalidCursor
	}
	tsPart, idPart, ok := strings.Cut(string(decoded), "|")
	if !ok {
		return nil, ErrInvalidCursor
	}
	ts, err := time.Parse(time.RFC3339Nano, tsPart)
	if err != nil {
		return nil, ErrInvalidCursor
	}
	id, err := strconv.ParseUint(idPart, 10, 64)
	if err != nil || id == 0 {
		return nil, ErrInvalidCursor
	}
	return &Cursor{CreatedAt: ts.UTC(), ID: uint(id)}, nil
}

// Encode returns the opaque form of the cursor.
func (c *Cursor) Encode() string {
	if c == nil {
		return ""
	}
	raw := c.CreatedAt.UTC().Format(time.RFC3339Nano) + "|" + strconv.FormatUint(uint64(c.ID), 10)
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// Apply restricts db to rows strictly after the cursor in
// (created_at DESC, id DESC) order. A nil cursor adds no predicate.
func (c *Cursor) Apply(db *gorm.DB, table string) *gorm.DB {
	if c == nil {
		return db
	}
	createdAt := table + ".created_at"
	if c.ID == 0 {
		return db.Where(createdAt+" < ?", c.CreatedAt)
	}
	return db.Where(
		"("+createdAt+" < ? OR ("+createdAt+" = ? AND "+table+".id < ?))",
		c.CreatedAt, c.CreatedAt, c.ID,
	)
}
