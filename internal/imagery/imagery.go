// Package imagery fetches the decorative pictures shown next to the assessment pages.
// Failures here are cosmetic and never reach the assessment itself.
package imagery

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"time"

	"golang.org/x/image/draw"
)

const (
	DefaultWidth  = 400
	DefaultHeight = 300

	maxImageBytes = 10 << 20
)

// Sources lists the pictures used on each page.
var Sources = map[string][]string{
	"home": {
		"https://pixabay.com/get/g918fe6c03ecb945018127f1f619de9c20d2e30a757b3d3a89e06980bc1a5dfac1e1171832b695971630f66084b08647381873a33514b443eb01ac375a510d556_1280.jpg",
	},
	"results": {
		"https://pixabay.com/get/g7d722d3469313ad7bbfb033901376ac6682db1fe0d745646c1bdacfab2e0e1f3131ff84ac0aa1a534da7eeb0a5fecb5f8aaae9fbabf4cc9bffc51c47c5ba85a5_1280.jpg",
	},
	"diet": {
		"https://pixabay.com/get/gb4e6036085cd6071e7a82005f2590c728dce4a00f944db39351f59d3f8d01c5391abcb5742ff4d6ef0f7b70d72ee8781426dff6fba15059b408eb9bedb8039c8_1280.jpg",
		"https://pixabay.com/get/g0f984fc514c525d5e3de1acfd2eb5507e8aac42f8802274fdbf78c173dce2915bad257f822253d626dded94a758014d66fa5e18da4b7c69ae2a0cc5a2e8d7056_1280.jpg",
	},
}

type Fetcher struct {
	client *http.Client
	width  int
	height int
}

func NewFetcher(timeout time.Duration) *Fetcher {
	return &Fetcher{
		client: &http.Client{Timeout: timeout},
		width:  DefaultWidth,
		height: DefaultHeight,
	}
}

// FetchBase64 downloads an image, resizes it and returns it as base64-encoded JPEG.
func (f *Fetcher) FetchBase64(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build image request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch image: unexpected status %d", resp.StatusCode)
	}

	src, _, err := image.Decode(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}

	dst := image.NewRGBA(image.Rect(0, 0, f.width, f.height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 85}); err != nil {
		return "", fmt.Errorf("encode image: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// FetchPage fetches every picture for a page. A failed image is skipped; the error
// is only returned when nothing could be fetched.
func (f *Fetcher) FetchPage(ctx context.Context, page string) ([]string, error) {
	urls, ok := Sources[page]
	if !ok {
		return nil, fmt.Errorf("no images for page %q", page)
	}

	var (
		images  []string
		lastErr error
	)
	for _, u := range urls {
		img, err := f.FetchBase64(ctx, u)
		if err != nil {
			lastErr = err
			continue
		}
		images = append(images, img)
	}
	if len(images) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return images, nil
}
