// Package extract maps the markup of a dataset page to dataset.Fields.
//
// Every field is located through a structural anchor (an element found by its
// exact class attribute and, for labels, its text) and a fixed path from the
// anchor to the value. A missing anchor only leaves its own field absent.
package extract

import (
	"context"
	"hfscrape/internal/dataset"
	"hfscrape/lib/htmlutil"
	"hfscrape/lib/textutil"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("hfscrape.internal.extract")

const SizeLabel = "Size of downloaded dataset files"

const (
	CategoryModalities = "Modalities:"
	CategoryFormats    = "Formats:"
	CategoryTags       = "Tags:"
	CategoryLibraries  = "Libraries:"
)

var (
	creatorContainer = htmlutil.ClassSelector("div", "group flex flex-none items-center")
	creatorLink      = htmlutil.ClassSelector("a", "text-gray-400 hover:text-blue-600")
	nameContainer    = htmlutil.ClassSelector("div", "max-w-full")
	nameLink         = htmlutil.ClassSelector("a", "break-words font-mono font-semibold hover:text-blue-600")

	descriptionContainer = htmlutil.ClassSelector("div", "2xl:pr-6")

	sizeLabel = htmlutil.ClassSelector("div", "truncate text-xs text-gray-400")
	sizeValue = htmlutil.ClassSelector("div", "truncate text-sm")

	categoryLabel     = htmlutil.ClassSelector("span", "mb-1 mr-1 p-1 text-sm leading-tight text-gray-400 md:mb-1.5")
	categoryContainer = htmlutil.ClassSelector("div", "mr-1 flex flex-wrap items-center")
	categoryValue     = htmlutil.ClassSelector("a", "mb-1 mr-1 md:mb-1.5 md:mr-1.5 rounded-lg")
)

func text(n htmlutil.Node) *string {
	t := n.Text()
	return &t
}

// findLabeled returns the first element matching selector whose text
// contains label.
func findLabeled(doc htmlutil.Node, selector, label string) (htmlutil.Node, bool) {
	for _, n := range doc.FindAll(selector) {
		if textutil.ContainsLabel(n.Text(), label) {
			return n, true
		}
	}
	return nil, false
}

// nestedLink finds the first `container`, then the first `link` inside it.
func nestedLink(doc htmlutil.Node, container, link string) *string {
	c, ok := doc.FindFirst(container)
	if !ok {
		return nil
	}
	a, ok := c.FindFirst(link)
	if !ok {
		return nil
	}
	return text(a)
}

func Creator(doc htmlutil.Node) *string {
	return nestedLink(doc, creatorContainer, creatorLink)
}

func Name(doc htmlutil.Node) *string {
	return nestedLink(doc, nameContainer, nameLink)
}

func Description(doc htmlutil.Node) *string {
	n, ok := doc.FindFirst(descriptionContainer)
	if !ok {
		return nil
	}
	return text(n)
}

func Size(doc htmlutil.Node) *string {
	label, ok := findLabeled(doc, sizeLabel, SizeLabel)
	if !ok {
		return nil
	}
	value, ok := label.Next(sizeValue)
	if !ok {
		return nil
	}
	return text(value)
}

// Category returns the values listed next to a category label like
// "Tags:", an empty slice when the label or its container is missing.
func Category(doc htmlutil.Node, category string) []string {
	values := []string{}
	label, ok := findLabeled(doc, categoryLabel, category)
	if !ok {
		return values
	}
	container, ok := label.Parent(categoryContainer)
	if !ok {
		return values
	}
	for _, a := range container.FindAll(categoryValue) {
		values = append(values, a.Text())
	}
	return values
}

// Extract runs every field lookup against doc.
func Extract(doc htmlutil.Node) dataset.Fields {
	return dataset.Fields{
		Creator:     Creator(doc),
		Name:        Name(doc),
		Description: Description(doc),
		Size:        Size(doc),
		Modalities:  Category(doc, CategoryModalities),
		Formats:     Category(doc, CategoryFormats),
		Tags:        Category(doc, CategoryTags),
		Libraries:   Category(doc, CategoryLibraries),
	}
}

// Record parses markup and builds the record for entry. Markup that cannot
// be parsed yields a record made only of fallbacks.
func Record(ctx context.Context, entry dataset.Entry, markup string, opts dataset.Options) dataset.Record {
	_, span := tracer.Start(ctx, "Record")
	defer span.End()
	span.SetAttributes(
		attribute.Int("id", entry.Id),
		attribute.String("link", entry.Link),
	)

	doc, err := htmlutil.Parse(strings.NewReader(markup))
	if err != nil {
		span.RecordError(err)
		return dataset.NewRecord(entry, dataset.Fields{}, opts)
	}
	return dataset.NewRecord(entry, Extract(doc), opts)
}
