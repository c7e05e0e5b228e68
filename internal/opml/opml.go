// ABOUTME: OPML import/export for sources grouped by collection
// ABOUTME: Collections map to folder outlines; kind and category ride on attrs

package opml

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/curateapp/curator/internal/models"
)

// Subscription is one source as carried in an OPML document.
type Subscription struct {
	URL        string
	Title      string
	Collection string // folder name; empty means root
	Kind       models.SourceKind
	Category   string
}

// Document is a parsed OPML file: a title plus subscriptions grouped by
// collection folder.
type Document struct {
	Title         string
	Subscriptions []Subscription
}

type opmlXML struct {
	XMLName xml.Name `xml:"opml"`
	Version string   `xml:"version,attr"`
	Head    headXML  `xml:"head"`
	Body    bodyXML  `xml:"body"`
}

type headXML struct {
	Title string `xml:"title"`
}

type bodyXML struct {
	Outlines []outlineXML `xml:"outline"`
}

type outlineXML struct {
	Text     string       `xml:"text,attr"`
	Title    string       `xml:"title,attr,omitempty"`
	Type     string       `xml:"type,attr,omitempty"`
	XMLURL   string       `xml:"xmlUrl,attr,omitempty"`
	Category string       `xml:"category,attr,omitempty"`
	Children []outlineXML `xml:"outline,omitempty"`
}

// Parse reads OPML data and flattens it to subscriptions. One level of
// folders is honored; deeper nesting collapses into the top folder.
func Parse(r io.Reader) (*Document, error) {
	var raw opmlXML
	if err := xml.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode OPML: %w", err)
	}

	doc := &Document{Title: raw.Head.Title}
	for _, outline := range raw.Body.Outlines {
		doc.collect(outline, "")
	}
	return doc, nil
}

// ParseFile reads OPML data from a file.
func ParseFile(path string) (*Document, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer file.Close()
	return Parse(file)
}

func (d *Document) collect(outline outlineXML, folder string) {
	if outline.XMLURL != "" {
		title := outline.Title
		if title == "" {
			title = outline.Text
		}
		kind := models.SourceKind(outline.Type)
		if kind == "" || kind == "rss" {
			kind = models.KindFeed
		}
		d.Subscriptions = append(d.Subscriptions, Subscription{
			URL:        outline.XMLURL,
			Title:      title,
			Collection: folder,
			Kind:       kind,
			Category:   outline.Category,
		})
		return
	}

	name := outline.Text
	if folder != "" {
		name = folder
	}
	for _, child := range outline.Children {
		d.collect(child, name)
	}
}

// Collections returns the distinct folder names in document order.
func (d *Document) Collections() []string {
	seen := make(map[string]bool)
	var out []string
	for _, sub := range d.Subscriptions {
		if sub.Collection == "" || seen[sub.Collection] {
			continue
		}
		seen[sub.Collection] = true
		out = append(out, sub.Collection)
	}
	return out
}

// Export builds a Document from the given collections and sources, grouping
// sources under their collection's name.
func Export(title string, collections []*models.Collection, sources []*models.Source) *Document {
	names := make(map[string]string, len(collections))
	for _, c := range collections {
		names[c.ID] = c.Name
	}

	doc := &Document{Title: title}
	for _, src := range sources {
		var category string
		if src.Category != nil {
			category = *src.Category
		}
		doc.Subscriptions = append(doc.Subscriptions, Subscription{
			URL:        src.URL,
			Title:      src.Name,
			Collection: names[src.CollectionID],
			Kind:       src.Kind,
			Category:   category,
		})
	}
	return doc
}

// Write serializes the document as OPML 2.0.
func (d *Document) Write(w io.Writer) error {
	raw := opmlXML{
		Version: "2.0",
		Head:    headXML{Title: d.Title},
	}

	folders := make(map[string]int)
	for _, sub := range d.Subscriptions {
		node := outlineXML{
			Text:     sub.Title,
			Title:    sub.Title,
			Type:     outlineType(sub.Kind),
			XMLURL:   sub.URL,
			Category: sub.Category,
		}
		if sub.Collection == "" {
			raw.Body.Outlines = append(raw.Body.Outlines, node)
			continue
		}
		idx, ok := folders[sub.Collection]
		if !ok {
			raw.Body.Outlines = append(raw.Body.Outlines, outlineXML{Text: sub.Collection})
			idx = len(raw.Body.Outlines) - 1
			folders[sub.Collection] = idx
		}
		raw.Body.Outlines[idx].Children = append(raw.Body.Outlines[idx].Children, node)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(raw); err != nil {
		return fmt.Errorf("encode OPML: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// WriteFile writes the document to a file, creating parent directories.
func (d *Document) WriteFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer file.Close()
	return d.Write(file)
}

// outlineType maps a source kind onto the conventional OPML type attr.
// Plain feeds use "rss" for interoperability; other kinds keep their name.
func outlineType(kind models.SourceKind) string {
	if kind == models.KindFeed || kind == "" {
		return "rss"
	}
	return string(kind)
}
