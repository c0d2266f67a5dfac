package blog

import (
	"bytes"
	_ "embed"
	"encoding/xml"
	"strings"
	"time"

	"github.com/ink-kai/inkworld/config"
	"github.com/pkg/errors"
)

//go:embed xsl/rss.xsl
var rssStylesheet []byte

//go:embed xsl/atom.xsl
var atomStylesheet []byte

// FeedMeta describes the site a feed belongs to.
type FeedMeta struct {
	Title       string
	Description string
	// SiteURL is the absolute origin, without a trailing slash.
	SiteURL   string
	Language  string
	Copyright string
}

// FeedFile returns the file name of a feed type inside the blog route.
func FeedFile(kind string) string {
	return kind + ".xml"
}

// Stylesheet returns the XSLT file served next to a feed.
func Stylesheet(kind string) (name string, content []byte) {
	if kind == config.FeedAtom {
		return "atom.xsl", atomStylesheet
	}
	return "rss.xsl", rssStylesheet
}

type rssFeed struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	Language      string    `xml:"language,omitempty"`
	Copyright     string    `xml:"copyright,omitempty"`
	LastBuildDate string    `xml:"lastBuildDate,omitempty"`
	Items         []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string   `xml:"title"`
	Link        string   `xml:"link"`
	GUID        string   `xml:"guid"`
	PubDate     string   `xml:"pubDate"`
	Description string   `xml:"description"`
	Categories  []string `xml:"category"`
}

type atomFeed struct {
	XMLName  xml.Name    `xml:"http://www.w3.org/2005/Atom feed"`
	ID       string      `xml:"id"`
	Title    string      `xml:"title"`
	Subtitle string      `xml:"subtitle,omitempty"`
	Updated  string      `xml:"updated"`
	Links    []atomLink  `xml:"link"`
	Rights   string      `xml:"rights,omitempty"`
	Entries  []atomEntry `xml:"entry"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr,omitempty"`
}

type atomText struct {
	Type string `xml:"type,attr"`
	Body string `xml:",chardata"`
}

type atomPerson struct {
	Name string `xml:"name"`
	URI  string `xml:"uri,omitempty"`
}

type atomCategory struct {
	Term string `xml:"term,attr"`
}

type atomEntry struct {
	Title      string         `xml:"title"`
	ID         string         `xml:"id"`
	Link       atomLink       `xml:"link"`
	Updated    string         `xml:"updated"`
	Summary    atomText       `xml:"summary"`
	Content    atomText       `xml:"content"`
	Authors    []atomPerson   `xml:"author"`
	Categories []atomCategory `xml:"category"`
}

// Feed renders the RSS or Atom feed of the blog.
func (b *Blog) Feed(kind string, meta FeedMeta) ([]byte, error) {
	origin := strings.TrimRight(meta.SiteURL, "/")
	title := meta.Title
	if b.Options.FeedOptions.Title != "" {
		title = b.Options.FeedOptions.Title
	}
	description := meta.Description
	if b.Options.FeedOptions.Description != "" {
		description = b.Options.FeedOptions.Description
	}

	var updated time.Time
	if len(b.Posts) > 0 {
		updated = b.Posts[0].Date
	}

	var doc interface{}
	switch kind {
	case config.FeedRSS:
		feed := rssFeed{Version: "2.0", Channel: rssChannel{
			Title:       title,
			Link:        origin + b.RoutePrefix,
			Description: description,
			Language:    meta.Language,
			Copyright:   meta.Copyright,
		}}
		if !updated.IsZero() {
			feed.Channel.LastBuildDate = updated.UTC().Format(time.RFC1123Z)
		}
		for _, p := range b.Posts {
			feed.Channel.Items = append(feed.Channel.Items, rssItem{
				Title:       p.Title,
				Link:        origin + p.Permalink,
				GUID:        origin + p.Permalink,
				PubDate:     p.Date.UTC().Format(time.RFC1123Z),
				Description: string(p.SummaryHTML),
				Categories:  p.Tags,
			})
		}
		doc = feed
	case config.FeedAtom:
		feed := atomFeed{
			ID:       origin + b.RoutePrefix,
			Title:    title,
			Subtitle: description,
			Updated:  atomUpdated(updated).UTC().Format(time.RFC3339),
			Links:    []atomLink{{Href: origin + b.RoutePrefix}},
			Rights:   meta.Copyright,
		}
		for _, p := range b.Posts {
			entry := atomEntry{
				Title:   p.Title,
				ID:      origin + p.Permalink,
				Link:    atomLink{Href: origin + p.Permalink},
				Updated: p.Date.UTC().Format(time.RFC3339),
				Summary: atomText{Type: "html", Body: string(p.SummaryHTML)},
				Content: atomText{Type: "html", Body: string(p.HTML)},
			}
			for _, a := range p.Authors {
				entry.Authors = append(entry.Authors, atomPerson{Name: a.Name, URI: a.URL})
			}
			for _, tag := range p.Tags {
				entry.Categories = append(entry.Categories, atomCategory{Term: tag})
			}
			feed.Entries = append(feed.Entries, entry)
		}
		doc = feed
	default:
		return nil, errors.Errorf("unknown feed type %q", kind)
	}

	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, errors.WithStack(err)
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	if b.Options.FeedOptions.XSLT {
		name, _ := Stylesheet(kind)
		buf.WriteString(`<?xml-stylesheet type="text/xsl" href="` + name + `"?>` + "\n")
	}
	buf.Write(body)
	return buf.Bytes(), nil
}

// atomUpdated falls back to the build time for a blog without posts, since
// Atom requires a feed level <updated>.
func atomUpdated(newest time.Time) time.Time {
	if newest.IsZero() {
		return time.Now()
	}
	return newest
}
