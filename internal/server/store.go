package server

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// HydrationLimit caps how many records a room history fetch returns.
const HydrationLimit = 1000

var ErrRoomNotFound = errors.New("room not found")

type Room struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Slug      string    `gorm:"uniqueIndex;not null" json:"slug"`
	CreatedAt time.Time `json:"createdAt"`
}

// Chat is one persisted shape record. Message holds the raw
// JSON-encoded shape exactly as it arrived; ShapeID is unique so a
// delete can address the record directly.
type Chat struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	RoomID    uint      `gorm:"index;not null" json:"roomId"`
	ShapeID   string    `gorm:"uniqueIndex;not null" json:"shapeId"`
	UserID    string    `gorm:"not null" json:"userId"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// Store is the durable source of truth for shapes. Clients rebuild
// their in-memory caches from it on every (re)join.
type Store struct {
	db *gorm.DB
}

// OpenStore opens (or creates) the sqlite database at path and migrates
// the schema. Use ":memory:" for tests.
func OpenStore(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", path, err)
	}
	if err := db.AutoMigrate(&Room{}, &Chat{}); err != nil {
		return nil, fmt.Errorf("migrate store: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) CreateRoom(slug string) (*Room, error) {
	room := &Room{Slug: slug}
	if err := s.db.Create(room).Error; err != nil {
		return nil, fmt.Errorf("create room %s: %w", slug, err)
	}
	return room, nil
}

func (s *Store) RoomBySlug(slug string) (*Room, error) {
	var room Room
	err := s.db.Where("slug = ?", slug).First(&room).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("room by slug %s: %w", slug, err)
	}
	return &room, nil
}

func (s *Store) SaveChat(roomID uint, shapeID, userID, message string) error {
	chat := &Chat{RoomID: roomID, ShapeID: shapeID, UserID: userID, Message: message}
	if err := s.db.Create(chat).Error; err != nil {
		return fmt.Errorf("save chat %s: %w", shapeID, err)
	}
	return nil
}

// DeleteByShapeID removes the record for a shape. Deleting a shape that
// is already gone is a benign no-op: two clients may erase the same
// shape concurrently.
func (s *Store) DeleteByShapeID(shapeID string) error {
	res := s.db.Where("shape_id = ?", shapeID).Delete(&Chat{})
	if res.Error != nil {
		return fmt.Errorf("delete chat %s: %w", shapeID, res.Error)
	}
	return nil
}

// ListByRoom returns up to limit records most-recent-first. Hydrating
// clients reverse the page to restore creation order before replay.
func (s *Store) ListByRoom(roomID uint, limit int) ([]Chat, error) {
	if limit <= 0 || limit > HydrationLimit {
		limit = HydrationLimit
	}
	var chats []Chat
	err := s.db.Where("room_id = ?", roomID).
		Order("id desc").
		Limit(limit).
		Find(&chats).Error
	if err != nil {
		return nil, fmt.Errorf("list chats for room %d: %w", roomID, err)
	}
	return chats, nil
}
