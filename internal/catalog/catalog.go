package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed data/lessons.yaml
var defaultCatalogYAML []byte

// ErrUnknownLesson is returned when a lesson name is not in the catalog.
var ErrUnknownLesson = errors.New("unknown lesson")

// UnknownLessonError names the lesson that could not be found.
type UnknownLessonError struct {
	Name string
}

func (e *UnknownLessonError) Error() string {
	return fmt.Sprintf("unknown lesson %q", e.Name)
}

func (e *UnknownLessonError) Unwrap() error { return ErrUnknownLesson }

// Catalog is an ordered, read-only collection of lessons.
// It is safe to share across learners.
type Catalog struct {
	version string
	lessons []Lesson
	index   map[string]int
}

// New builds a validated catalog from lessons in prerequisite order.
func New(version string, lessons []Lesson) (*Catalog, error) {
	if err := validateCatalog(version, lessons); err != nil {
		return nil, err
	}

	c := &Catalog{
		version: version,
		lessons: make([]Lesson, len(lessons)),
		index:   make(map[string]int, len(lessons)),
	}
	for i, l := range lessons {
		c.lessons[i] = l.clone()
		c.index[l.Name] = i
	}
	return c, nil
}

// Load parses a YAML catalog document.
func Load(r io.Reader) (*Catalog, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return New(doc.Version, doc.Lessons)
}

// LoadFile reads and parses the catalog at path.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Default returns the built-in finance catalog.
// It panics if the embedded data is invalid; that is a build defect.
func Default() *Catalog {
	c, err := Load(bytes.NewReader(defaultCatalogYAML))
	if err != nil {
		panic(fmt.Sprintf("embedded catalog is invalid: %v", err))
	}
	return c
}

// Version returns the catalog format version.
func (c *Catalog) Version() string {
	return c.version
}

// Len returns the number of lessons.
func (c *Catalog) Len() int {
	return len(c.lessons)
}

// Lesson returns the lesson at position i.
func (c *Catalog) Lesson(i int) (Lesson, bool) {
	if i < 0 || i >= len(c.lessons) {
		return Lesson{}, false
	}
	return c.lessons[i].clone(), true
}

// Lookup finds a lesson by name and returns it with its catalog position.
func (c *Catalog) Lookup(name string) (Lesson, int, bool) {
	i, ok := c.index[name]
	if !ok {
		return Lesson{}, -1, false
	}
	return c.lessons[i].clone(), i, true
}

// Names returns lesson names in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.lessons))
	for i, l := range c.lessons {
		names[i] = l.Name
	}
	return names
}

// Lessons returns a copy of all lessons in catalog order.
func (c *Catalog) Lessons() []Lesson {
	out := make([]Lesson, len(c.lessons))
	for i, l := range c.lessons {
		out[i] = l.clone()
	}
	return out
}

// With returns a new catalog with lesson appended at the end of the chain.
func (c *Catalog) With(lesson Lesson) (*Catalog, error) {
	lessons := append(c.Lessons(), lesson)
	return New(c.version, lessons)
}

// Save writes the catalog as YAML.
func (c *Catalog) Save(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(document{Version: c.version, Lessons: c.lessons}); err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	return enc.Close()
}

// WriteFile saves the catalog to path, replacing any existing file.
func (c *Catalog) WriteFile(path string) error {
	var buf bytes.Buffer
	if err := c.Save(&buf); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write catalog: %w", err)
	}
	return nil
}
