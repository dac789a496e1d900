package suar

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/image/draw"

	"github.com/suarindonesia/website/internal/store"
)

const (
	maxImageWidth  = 1200
	thumbWidth     = 320
	jpegQuality    = 80
	maxUploadSize  = 10 << 20 // 10MB
	uploadsSubdir  = "uploads"
	assetImage     = "image"
	assetDocument  = "document"
	uploadsURLBase = "/public/" + uploadsSubdir
)

// ErrUnsupportedAsset is returned for uploads that are neither an image nor
// a PDF document.
var ErrUnsupportedAsset = errors.New("suar: unsupported asset type")

// Asset is an uploaded file recorded in the assets collection.
type Asset struct {
	URL          string `json:"url"`
	Type         string `json:"type"`
	Thumb        string `json:"thumb,omitempty"`
	OriginalName string `json:"original_name"`
	Width        int    `json:"width,omitempty"`
	Height       int    `json:"height,omitempty"`
	Size         int    `json:"size"`
	UploadedAt   string `json:"uploaded_at"`
}

// processedAsset is an Asset with its encoded files, before they are
// written under the uploads directory.
type processedAsset struct {
	Asset
	name  string
	ext   string
	data  []byte
	thumb []byte
}

// processAsset reads an upload and prepares it for storage. Images are
// re-encoded as JPEG, scaled down to maxImageWidth, and get a thumbnail.
// PDF documents are stored as they are.
func processAsset(src io.Reader, originalName string) (processedAsset, error) {
	raw, err := io.ReadAll(io.LimitReader(src, maxUploadSize+1))
	if err != nil {
		return processedAsset{}, fmt.Errorf("read upload: %w", err)
	}
	if len(raw) > maxUploadSize {
		return processedAsset{}, fmt.Errorf("upload larger than %d bytes", maxUploadSize)
	}

	p := processedAsset{
		Asset: Asset{
			OriginalName: originalName,
			UploadedAt:   time.Now().UTC().Format(time.RFC3339),
		},
		name: slugifyFilename(originalName),
	}

	switch ct := http.DetectContentType(raw); {
	case ct == "application/pdf":
		p.Type = assetDocument
		p.ext = ".pdf"
		p.data = raw
	case strings.HasPrefix(ct, "image/"):
		img, _, err := image.Decode(bytes.NewReader(raw))
		if err != nil {
			return processedAsset{}, fmt.Errorf("decode image: %w", err)
		}
		img = scaleToWidth(img, maxImageWidth)
		if p.data, err = encodeJPEG(img); err != nil {
			return processedAsset{}, err
		}
		if p.thumb, err = encodeJPEG(scaleToWidth(img, thumbWidth)); err != nil {
			return processedAsset{}, err
		}
		p.Type = assetImage
		p.ext = ".jpg"
		p.Width, p.Height = img.Bounds().Dx(), img.Bounds().Dy()
	default:
		return processedAsset{}, fmt.Errorf("%w: %s", ErrUnsupportedAsset, ct)
	}
	p.Size = len(p.data)
	return p, nil
}

// scaleToWidth resizes img to width, keeping its aspect ratio. Narrower
// images are returned unchanged.
func scaleToWidth(img image.Image, width int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= width {
		return img
	}
	newH := max(1, h*width/w)
	dst := image.NewRGBA(image.Rect(0, 0, width, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

func encodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// saveAsset writes p under the uploads directory with a name no other file
// or asset record uses, and records it in the assets collection.
func (a *App) saveAsset(ctx context.Context, p processedAsset) (Asset, error) {
	dir := filepath.Join(a.Config.StaticDir, uploadsSubdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Asset{}, fmt.Errorf("create uploads dir: %w", err)
	}

	filename, err := a.uniqueFilename(ctx, dir, p.name, p.ext)
	if err != nil {
		return Asset{}, err
	}
	if err := os.WriteFile(filepath.Join(dir, filename), p.data, 0o644); err != nil {
		return Asset{}, fmt.Errorf("write asset: %w", err)
	}
	asset := p.Asset
	asset.URL = path.Join(uploadsURLBase, filename)

	if p.thumb != nil {
		thumbName := strings.TrimSuffix(filename, p.ext) + "-thumb" + p.ext
		if err := os.WriteFile(filepath.Join(dir, thumbName), p.thumb, 0o644); err != nil {
			return Asset{}, fmt.Errorf("write thumbnail: %w", err)
		}
		asset.Thumb = path.Join(uploadsURLBase, thumbName)
	}

	rec := store.Record{
		"url":           asset.URL,
		"type":          asset.Type,
		"thumb":         asset.Thumb,
		"original_name": asset.OriginalName,
		"width":         asset.Width,
		"height":        asset.Height,
		"size":          asset.Size,
		"uploaded_at":   asset.UploadedAt,
	}
	if err := a.Store.Add(ctx, store.Assets, rec); err != nil {
		return Asset{}, fmt.Errorf("record asset: %w", err)
	}
	return asset, nil
}

// uniqueFilename appends a counter to name until neither the uploads
// directory nor the assets collection has it.
func (a *App) uniqueFilename(ctx context.Context, dir, name, ext string) (string, error) {
	candidate := name + ext
	for counter := 2; ; counter++ {
		_, statErr := os.Stat(filepath.Join(dir, candidate))
		_, recorded, err := a.Store.Get(ctx, store.Assets, path.Join(uploadsURLBase, candidate))
		if err != nil {
			return "", err
		}
		if statErr != nil && !recorded {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d%s", name, counter, ext)
	}
}

func (a *App) handleAssetUpload(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin")
	}

	file, err := c.FormFile("file")
	if err != nil {
		return c.String(http.StatusBadRequest, "No file provided")
	}
	if file.Size > maxUploadSize {
		return c.String(http.StatusBadRequest, "File too large (max 10MB)")
	}
	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	p, err := processAsset(src, file.Filename)
	if err != nil {
		return c.String(http.StatusBadRequest, "Invalid asset: "+err.Error())
	}
	asset, err := a.saveAsset(c.Request().Context(), p)
	if err != nil {
		return err
	}
	c.Logger().Infof("asset %s uploaded (%s, %d bytes)", asset.URL, asset.Type, asset.Size)
	return a.renderAdminDashboard(c, "Aset tersimpan: "+asset.URL)
}
