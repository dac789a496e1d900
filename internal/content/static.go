package content

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"github.com/suarindonesia/website/internal/logging"
)

// StaticFile is the name of the static content file inside the content
// directory.
const StaticFile = "site.yaml"

// Slide is one hero carousel slide.
type Slide struct {
	Title    string `yaml:"title"`
	Subtitle string `yaml:"subtitle"`
	Image    string `yaml:"image"`
	Link     string `yaml:"link"`
}

// Service is one program area on the layanan page. ID doubles as the anchor
// the page exposes, so "/layanan#hiv-aids" scrolls to it.
type Service struct {
	ID          string   `yaml:"id"`
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Points      []string `yaml:"points"`
}

// Product is one item on the produk page.
type Product struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Image       string `yaml:"image"`
	Link        string `yaml:"link"`
}

// Section is a titled block of paragraphs.
type Section struct {
	Title      string   `yaml:"title"`
	Paragraphs []string `yaml:"paragraphs"`
}

// Profile is the organisation profile.
type Profile struct {
	Vision   string    `yaml:"vision"`
	Mission  []string  `yaml:"mission"`
	Sections []Section `yaml:"sections"`
}

// Contact holds the organisation's contact details.
type Contact struct {
	Address string `yaml:"address"`
	Phone   string `yaml:"phone"`
	Email   string `yaml:"email"`
	MapURL  string `yaml:"map_url"`
}

// SiteContent is everything loaded from StaticFile.
type SiteContent struct {
	Slides      []Slide   `yaml:"slides"`
	Services    []Service `yaml:"services"`
	Products    []Product `yaml:"products"`
	Supervision Section   `yaml:"supervision"`
	Profile     Profile   `yaml:"profile"`
	Contact     Contact   `yaml:"contact"`
}

// DefaultContent is served when no content file exists.
func DefaultContent() SiteContent {
	return SiteContent{
		Slides: []Slide{{
			Title:    "Suar Indonesia",
			Subtitle: "Mendampingi komunitas untuk hidup sehat dan setara.",
			Link:     "/suar-indonesia",
		}},
		Services: []Service{
			{ID: "hiv-aids", Title: "HIV & AIDS", Description: "Pendampingan, tes dan rujukan layanan."},
			{ID: "kesehatan-reproduksi", Title: "Kesehatan Reproduksi", Description: "Edukasi dan konseling kesehatan reproduksi."},
		},
		Supervision: Section{Title: "Supervisi Program"},
		Profile:     Profile{Vision: "Masyarakat yang sehat, setara dan bebas stigma."},
	}
}

// Static holds the site content loaded from a YAML file and can reload it
// when the file changes.
type Static struct {
	path string
	log  logging.Logger

	mu      sync.RWMutex
	content SiteContent
}

// LoadStatic reads dir/StaticFile. A missing file yields DefaultContent; a
// malformed one is an error.
func LoadStatic(dir string, log logging.Logger) (*Static, error) {
	if log == nil {
		log = logging.Discard()
	}
	s := &Static{path: filepath.Join(dir, StaticFile), log: log, content: DefaultContent()}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// NewStatic returns a Static serving c that is not backed by a file.
func NewStatic(c SiteContent) *Static {
	return &Static{log: logging.Discard(), content: c}
}

// Content returns the current content.
func (s *Static) Content() SiteContent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.content
}

// Service returns the service with id.
func (s *Static) Service(id string) (Service, bool) {
	for _, svc := range s.Content().Services {
		if svc.ID == id {
			return svc, true
		}
	}
	return Service{}, false
}

// Reload re-reads the content file. On error the previous content is kept.
func (s *Static) Reload() error {
	if s.path == "" {
		return nil
	}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.log.Infof("content: %s not found, using defaults", s.path)
		return nil
	}
	if err != nil {
		return fmt.Errorf("content: read %s: %w", s.path, err)
	}
	var c SiteContent
	if err := yaml.Unmarshal(data, &c); err != nil {
		return fmt.Errorf("content: parse %s: %w", s.path, err)
	}
	s.mu.Lock()
	s.content = c
	s.mu.Unlock()
	return nil
}

// Watch reloads the content whenever the file is written, until ctx is
// done. Bursts of events are collapsed into one reload after delay.
func (s *Static) Watch(ctx context.Context, delay time.Duration) error {
	if s.path == "" {
		return errors.New("content: static content has no file")
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("content: watch: %w", err)
	}
	// editors replace files on save, so watch the directory.
	if err := w.Add(filepath.Dir(s.path)); err != nil {
		w.Close()
		return fmt.Errorf("content: watch %s: %w", filepath.Dir(s.path), err)
	}

	go func() {
		defer w.Close()
		var timer *time.Timer
		defer func() {
			if timer != nil {
				timer.Stop()
			}
		}()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != filepath.Clean(s.path) {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
					continue
				}
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(delay, func() {
					if err := s.Reload(); err != nil {
						s.log.Errorf("%v", err)
						return
					}
					s.log.Infof("content: reloaded %s", s.path)
				})
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				s.log.Warnf("content: watcher: %v", err)
			}
		}
	}()
	return nil
}
