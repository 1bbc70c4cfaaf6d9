package qr

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"log/slog"
	"os"

	qrcode "github.com/skip2/go-qrcode"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/inconsolata"
	"golang.org/x/image/math/fixed"
)

const imgSize = 512

type position struct {
	x, y int
}

type renderOpts struct {
	bitmap  *image.RGBA
	face    *basicfont.Face
	calcPos func(string, *font.Drawer) position
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening image: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			slog.Warn("closing image file", "path", path, "error", err)
		}
	}()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	return img, nil
}

func createFontDrawer(s string, ro renderOpts) *font.Drawer {
	fd := &font.Drawer{
		Dst:  ro.bitmap,
		Src:  image.NewUniform(color.RGBA{0, 0, 0, 255}),
		Face: ro.face,
	}

	pos := ro.calcPos(s, fd)
	fd.Dot = fixed.Point26_6{X: fixed.I(pos.x), Y: fixed.I(pos.y)}

	return fd
}

// addLabel draws text onto the PNG at path, centered at top or bottom.
func addLabel(path, text, pos string) error {
	img, err := loadImage(path)
	if err != nil {
		return err
	}

	bitmap := image.NewRGBA(img.Bounds())
	draw.Draw(bitmap, bitmap.Bounds(), img, image.Point{}, draw.Src)

	opts := renderOpts{bitmap: bitmap}

	switch pos {
	case "top":
		opts.face = inconsolata.Bold8x16
		opts.calcPos = calcTop
	default:
		opts.face = inconsolata.Regular8x16
		opts.calcPos = calcBottom
	}

	fd := createFontDrawer(text, opts)
	fd.DrawString(text)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}

	defer func() {
		if err := f.Close(); err != nil {
			slog.Warn("closing output file", "path", path, "error", err)
		}
	}()

	if err := png.Encode(f, bitmap); err != nil {
		return fmt.Errorf("encoding image: %w", err)
	}

	return nil
}

func calcBottom(s string, fd *font.Drawer) position {
	labelWidth := fd.MeasureString(s).Ceil()
	labelHeight := fd.Face.Metrics().Height.Ceil()

	x := (fd.Dst.Bounds().Dx() - labelWidth) / 2
	y := fd.Dst.Bounds().Dy() - labelHeight

	return position{x, y}
}

func calcTop(s string, fd *font.Drawer) position {
	labelWidth := fd.MeasureString(s).Ceil()
	labelHeight := fd.Face.Metrics().Height.Ceil()

	x := (fd.Dst.Bounds().Dx() - labelWidth) / 2
	y := labelHeight * 2

	return position{x, y}
}

func writePNG(qr *qrcode.QRCode, prefix string) (*os.File, error) {
	f, err := os.CreateTemp("", prefix+"-*.png")
	if err != nil {
		return nil, fmt.Errorf("creating temp file: %w", err)
	}

	if err := qr.WriteFile(imgSize, f.Name()); err != nil {
		return nil, fmt.Errorf("writing qr-code: %w", err)
	}

	return f, nil
}
