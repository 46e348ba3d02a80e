package converter

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "image/gif"

	"github.com/blezek/tga"
	_ "github.com/oov/psd"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
)

type textureCache struct {
	srcDir   string
	textures map[string]*textureInfo
}

type textureInfo struct {
	name string
	id   *uint32
	img  image.Image
	err  error
}

func newTextureCache(srcDir string) *textureCache {
	return &textureCache{srcDir: srcDir, textures: map[string]*textureInfo{}}
}

func (c *textureCache) get(name string) *textureInfo {
	if t, ok := c.textures[name]; ok {
		return t
	}
	t := &textureInfo{name: name}
	c.textures[name] = t
	return t
}

func (c *textureCache) path(name string) string {
	return filepath.Join(c.srcDir, filepath.FromSlash(name))
}

func (c *textureCache) getImage(name string) (image.Image, error) {
	t := c.get(name)
	if t.img != nil || t.err != nil {
		return t.img, t.err
	}

	f, err := os.Open(c.path(t.name))
	if err != nil {
		t.err = err
		return nil, err
	}
	defer f.Close()

	t.img, _, t.err = image.Decode(f)
	if t.err != nil && strings.ToLower(filepath.Ext(t.name)) == ".tga" {
		// no magic number in tga.
		f.Seek(0, io.SeekStart)
		t.img, t.err = tga.Decode(f)
	}
	return t.img, t.err
}

func textureMimeType(name string) (mime string, native bool) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg":
		return "image/jpeg", true
	case ".png":
		return "image/png", true
	}
	return "image/png", false
}

// encodeTexture decodes the texture and encodes it again, scaled by scale and
// limited to limit pixels wide if limit > 0.
func (c *textureCache) encodeTexture(name, mime string, scale float32, limit int) (io.Reader, error) {
	img, err := c.getImage(name)
	if err != nil {
		return nil, err
	}
	rect := img.Bounds()

	if limit > 0 {
		sz := int(float32(rect.Dx()) * scale)
		if sz > limit {
			scale *= float32(limit) / float32(sz)
		}
	}

	if scale != 1.0 {
		dst := image.NewRGBA(image.Rect(0, 0, int(float32(rect.Dx())*scale), int(float32(rect.Dy())*scale)))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, rect, draw.Over, nil)
		img = dst
	}

	w := new(bytes.Buffer)
	if mime == "image/png" {
		err = png.Encode(w, img)
	} else {
		err = jpeg.Encode(w, img, nil)
	}
	if err != nil {
		return nil, err
	}
	return w, nil
}

func (c *textureCache) hasAlpha(name string) bool {
	if name == "" {
		return false
	}
	if mime, _ := textureMimeType(name); mime == "image/jpeg" {
		return false
	}
	img, err := c.getImage(name)
	if err != nil {
		return false
	}
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return !o.Opaque()
	}
	return false
}
