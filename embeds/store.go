// Package embeds manages named message embed templates kept in a single JSON document.
//
// The document is a JSON object mapping template names to templates. It is read
// from its Document on every call and written back in full on every change;
// nothing is cached between calls, so edits made by hand are picked up on the
// next access.
//
// Rendering turns a template into a *discordgo.MessageEmbed, replacing
// {identifier} placeholders in the title, description, field names and values,
// footer text and author name with caller supplied parameters.
package embeds

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"

	"github.com/bwmarrin/discordgo"
	"github.com/oklahomer/go-kasumi/logger"
)

// Store reads, writes and renders templates.
type Store struct {
	doc Document
}

// NewStore creates a Store backed by doc.
func NewStore(doc Document) *Store {
	return &Store{doc: doc}
}

// Open creates a Store backed by the JSON file at path.
func Open(path string) *Store {
	return NewStore(NewFileDocument(path))
}

// EnsureInitialized creates the document as an empty object when it does not exist.
func (s *Store) EnsureInitialized() error {
	unlock, err := s.doc.Lock()
	if err != nil {
		return fmt.Errorf("lock template document: %w", err)
	}
	defer unlock()

	return s.ensure()
}

func (s *Store) ensure() error {
	_, err := s.doc.Read()
	if errors.Is(err, fs.ErrNotExist) {
		return s.doc.Write([]byte("{}\n"))
	}
	return err
}

// load reads and decodes the document. The caller holds the lock.
func (s *Store) load() (*document, error) {
	if err := s.ensure(); err != nil {
		return nil, err
	}
	data, err := s.doc.Read()
	if err != nil {
		return nil, err
	}
	return decodeDocument(data)
}

// view reads the document for a read-only operation.
// A corrupt document is reported and treated as empty.
func (s *Store) view() (*document, error) {
	if err := s.EnsureInitialized(); err != nil {
		return nil, err
	}
	data, err := s.doc.Read()
	if err != nil {
		return nil, err
	}

	doc, err := decodeDocument(data)
	if errors.Is(err, ErrDocumentCorrupt) {
		logger.Warnf("Treating template document as empty: %+v", err)
		return &document{}, nil
	}
	return doc, err
}

// List returns the template names in document order.
func (s *Store) List() ([]string, error) {
	doc, err := s.view()
	if err != nil {
		return nil, err
	}
	return doc.names(), nil
}

// Get returns the named template. The second return value is false when no
// template has that name.
func (s *Store) Get(name string) (*Template, bool, error) {
	doc, err := s.view()
	if err != nil {
		return nil, false, err
	}

	raw, ok := doc.lookup(name)
	if !ok {
		return nil, false, nil
	}

	t := &Template{}
	if err := json.Unmarshal(raw, t); err != nil {
		return nil, false, fmt.Errorf("decode template %q: %w", name, err)
	}
	return t, true, nil
}

// Insert stores t under name, replacing any template with the same name, and
// writes the document back. It reports false when the document could not be
// read or written; the cause is logged. A corrupt document is never overwritten.
func (s *Store) Insert(name string, t *Template) bool {
	raw, err := json.Marshal(t)
	if err != nil {
		logger.Errorf("Failed to encode embed %q: %+v", name, err)
		return false
	}

	err = s.update(func(doc *document) bool {
		doc.set(name, raw)
		return true
	})
	if err != nil {
		logger.Errorf("Error inserting embed %q: %+v", name, err)
		return false
	}
	return true
}

// Delete removes the named template and writes the document back.
// It reports false when no template has that name or when the document could
// not be read or written.
func (s *Store) Delete(name string) bool {
	removed := false
	err := s.update(func(doc *document) bool {
		removed = doc.remove(name)
		return removed
	})
	if err != nil {
		logger.Errorf("Error deleting embed %q: %+v", name, err)
		return false
	}
	return removed
}

// update runs a read-modify-write cycle under the document lock.
// mutate reports whether the document changed and needs writing.
func (s *Store) update(mutate func(doc *document) bool) error {
	unlock, err := s.doc.Lock()
	if err != nil {
		return fmt.Errorf("lock template document: %w", err)
	}
	defer unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	if !mutate(doc) {
		return nil
	}

	data, err := doc.encode()
	if err != nil {
		return err
	}
	return s.doc.Write(data)
}

// Render builds the embed of the named template, substituting params into its
// text attributes. It returns nil and no error when no template has that name
// or the template has no attribute set, since an empty embed cannot be sent.
// A placeholder without a matching parameter fails with ErrSubstitution and a
// malformed color with ErrColorParse.
func (s *Store) Render(name string, params map[string]string) (*discordgo.MessageEmbed, error) {
	t, ok, err := s.Get(name)
	if err != nil {
		return nil, err
	}
	if !ok || t.Empty() {
		return nil, nil
	}
	return t.Render(params)
}

// Render builds the embed described by t. See Store.Render.
func (t *Template) Render(params map[string]string) (*discordgo.MessageEmbed, error) {
	r := &renderer{params: params}

	embed := &discordgo.MessageEmbed{
		Title:       r.text("title", t.Title),
		Description: r.text("description", t.Description),
		URL:         t.URL,
		Timestamp:   t.Timestamp,
	}

	if len(t.Color) > 0 {
		color, err := t.Color.Value()
		if err != nil {
			return nil, err
		}
		embed.Color = color
	}

	for i, f := range t.Fields {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   r.text(fmt.Sprintf("fields[%d].name", i), f.Name),
			Value:  r.text(fmt.Sprintf("fields[%d].value", i), f.Value),
			Inline: f.Inline,
		})
	}

	if t.Footer != nil {
		embed.Footer = &discordgo.MessageEmbedFooter{
			Text:    r.text("footer.text", t.Footer.Text),
			IconURL: t.Footer.IconURL,
		}
	}

	if t.Thumbnail != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: t.Thumbnail}
	}

	if t.Image != "" {
		embed.Image = &discordgo.MessageEmbedImage{URL: t.Image}
	}

	if t.Author != nil {
		embed.Author = &discordgo.MessageEmbedAuthor{
			Name:    r.text("author.name", t.Author.Name),
			URL:     t.Author.URL,
			IconURL: t.Author.IconURL,
		}
	}

	if r.err != nil {
		return nil, r.err
	}
	return embed, nil
}

// renderer substitutes parameters and keeps the first failure.
type renderer struct {
	params map[string]string
	err    error
}

func (r *renderer) text(attribute, s string) string {
	if r.err != nil {
		return ""
	}
	out, err := interpolate(s, r.params)
	if err != nil {
		r.err = fmt.Errorf("%s: %w", attribute, err)
		return ""
	}
	return out
}
