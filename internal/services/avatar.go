package services

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"os"
	"strings"
	"time"

	_ "image/jpeg"
	_ "image/png"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/google/uuid"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"gorm.io/gorm"

	"github.com/dailytaiyari/backend/internal/clients/media"
	"github.com/dailytaiyari/backend/internal/logger"
	"github.com/dailytaiyari/backend/internal/types"
)

type AvatarService interface {
	CreateUserAvatar(ctx context.Context, tx *gorm.DB, user *types.User) error
	CreateUserAvatarFromImage(ctx context.Context, tx *gorm.DB, user *types.User, raw []byte) error
	GenerateUserAvatar(user *types.User) (bytes.Buffer, error)
}

type avatarService struct {
	db       *gorm.DB
	log      *logger.Logger
	store    media.Store
	bgColors []color.NRGBA
	fontFace font.Face
}

func NewAvatarService(db *gorm.DB, log *logger.Logger, store media.Store) (AvatarService, error) {
	serviceLog := log.With("service", "AvatarService")

	fontPath := os.Getenv("AVATAR_FONT")
	if strings.TrimSpace(fontPath) == "" {
		return nil, fmt.Errorf("env var AVATAR_FONT is empty")
	}
	serviceLog.Info("Loading avatar font", "font", fontPath)

	face, err := loadFontFace(fontPath, 206)
	if err != nil {
		return nil, fmt.Errorf("could not load avatar font: %w", err)
	}

	return &avatarService{
		db:    db,
		log:   serviceLog,
		store: store,
		bgColors: []color.NRGBA{
			{R: 0x0E, G: 0x7C, B: 0x7B, A: 0xFF},
			{R: 0xD6, G: 0x28, B: 0x39, A: 0xFF},
			{R: 0x1D, G: 0x4E, B: 0x89, A: 0xFF},
			{R: 0xF4, G: 0x7C, B: 0x20, A: 0xFF},
			{R: 0x5B, G: 0x2A, B: 0x86, A: 0xFF},
			{R: 0x2B, G: 0x8A, B: 0x3E, A: 0xFF},
		},
		fontFace: face,
	}, nil
}

func (as *avatarService) CreateUserAvatar(ctx context.Context, tx *gorm.DB, user *types.User) error {
	buf, err := as.GenerateUserAvatar(user)
	if err != nil {
		return err
	}

	oldKey := strings.TrimSpace(user.AvatarMediaKey)

	// Versioned key so browsers never serve a stale cached avatar
	newKey := fmt.Sprintf("user_avatar/%s/%d.png", user.ID.String(), time.Now().UnixNano())

	if err := as.store.Save(newKey, buf.Bytes()); err != nil {
		return fmt.Errorf("failed to save user avatar: %w", err)
	}

	user.AvatarMediaKey = newKey
	user.AvatarURL = as.store.PublicURL(newKey)

	if oldKey != "" && oldKey != newKey {
		if err := as.store.Delete(oldKey); err != nil {
			as.log.Warn("failed to delete old avatar (ignored)", "oldKey", oldKey, "error", err)
		}
	}
	return nil
}

func (as *avatarService) GenerateUserAvatar(user *types.User) (bytes.Buffer, error) {
	const size = 512

	dc := gg.NewContext(size, size)

	dc.DrawCircle(float64(size)/2, float64(size)/2, float64(size)/2)
	dc.Clip()

	base := as.colorFor(user.ID)
	dc.SetColor(base)
	dc.DrawRectangle(0, 0, float64(size), float64(size))
	dc.Fill()

	initials := computeInitials(user.FirstName, user.LastName)

	dc.SetFontFace(as.fontFace)
	tw, th := dc.MeasureString(initials)
	cx, cy := float64(size)/2, float64(size)/2

	dc.SetColor(color.White)
	dc.DrawString(initials, cx-(tw/2)+5, cy+(th/2)-10)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return buf, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf, nil
}

func (as *avatarService) CreateUserAvatarFromImage(ctx context.Context, tx *gorm.DB, user *types.User, raw []byte) error {
	if user == nil || user.ID == uuid.Nil {
		return fmt.Errorf("user required")
	}

	processed, err := processUploadedAvatar(raw, 512)
	if err != nil {
		return err
	}

	oldKey := strings.TrimSpace(user.AvatarMediaKey)
	newKey := fmt.Sprintf("user_avatar/%s/%d.png", user.ID.String(), time.Now().UnixNano())

	if err := as.store.Save(newKey, processed.Bytes()); err != nil {
		return fmt.Errorf("failed to save user avatar: %w", err)
	}

	user.AvatarMediaKey = newKey
	user.AvatarURL = as.store.PublicURL(newKey)

	if oldKey != "" && oldKey != newKey {
		if err := as.store.Delete(oldKey); err != nil {
			as.log.Warn("failed to delete old avatar (ignored)", "oldKey", oldKey, "error", err)
		}
	}
	return nil
}

func processUploadedAvatar(raw []byte, size int) (bytes.Buffer, error) {
	var out bytes.Buffer

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return out, fmt.Errorf("decode image: %w", err)
	}

	// Center-crop to square
	b := img.Bounds()
	w := b.Dx()
	h := b.Dy()
	side := w
	if h < w {
		side = h
	}
	x0 := b.Min.X + (w-side)/2
	y0 := b.Min.Y + (h-side)/2

	cropRect := image.Rect(0, 0, side, side)
	cropped := image.NewRGBA(cropRect)
	draw.Draw(cropped, cropRect, img, image.Point{X: x0, Y: y0}, draw.Src)

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), cropped, cropped.Bounds(), draw.Over, nil)

	dc := gg.NewContext(size, size)
	dc.DrawCircle(float64(size)/2, float64(size)/2, float64(size)/2)
	dc.Clip()
	dc.DrawImage(dst, 0, 0)

	if err := dc.EncodePNG(&out); err != nil {
		return out, fmt.Errorf("encode png: %w", err)
	}
	return out, nil
}

// colorFor is deterministic per user so regenerated avatars keep their
// background.
func (as *avatarService) colorFor(id uuid.UUID) color.NRGBA {
	var sum int
	for _, b := range id {
		sum += int(b)
	}
	return as.bgColors[sum%len(as.bgColors)]
}

func computeInitials(first, last string) string {
	fInit := "?"
	if len(first) > 0 {
		fInit = strings.ToUpper(first[:1])
	}
	lInit := "?"
	if len(last) > 0 {
		lInit = strings.ToUpper(last[:1])
	}
	return fInit + lInit
}

func loadFontFace(fontPath string, size float64) (font.Face, error) {
	fontBytes, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read font file: %w", err)
	}
	parsedFont, err := truetype.Parse(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TTF: %w", err)
	}
	face := truetype.NewFace(parsedFont, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	return face, nil
}
