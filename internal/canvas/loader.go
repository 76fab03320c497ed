package canvas

import (
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"os"
	"strings"

	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

var ErrNoImage = errors.New("no base image source")

// Loader fetches and decodes the base image.
type Loader interface {
	Load(src string) (image.Image, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(src string) (image.Image, error)

func (f LoaderFunc) Load(src string) (image.Image, error) { return f(src) }

// FileLoader reads images from the local filesystem.
type FileLoader struct{}

func (FileLoader) Load(src string) (image.Image, error) {
	if src == "" {
		return nil, ErrNoImage
	}
	f, err := os.Open(strings.TrimPrefix(src, "file://"))
	if err != nil {
		return nil, fmt.Errorf("open base image: %w", err)
	}
	defer f.Close()
	return decode(f)
}

// HTTPLoader downloads images over http or https. The default client has
// no timeout, so a stalled server keeps the canvas loading.
type HTTPLoader struct {
	Client *http.Client
}

func (l HTTPLoader) Load(src string) (image.Image, error) {
	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Get(src)
	if err != nil {
		return nil, fmt.Errorf("fetch base image: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch base image: %s", resp.Status)
	}
	return decode(resp.Body)
}

// LoaderFor picks a loader by the scheme of src.
func LoaderFor(src string) Loader {
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		return HTTPLoader{}
	}
	return FileLoader{}
}

func decode(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode base image: %w", err)
	}
	return img, nil
}
