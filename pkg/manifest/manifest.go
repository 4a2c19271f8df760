// Package manifest parses the package.xml metadata file that the mod
// ecosystem ships inside each mod folder. The schema is external input and
// tolerated-missing: absent elements simply leave fields empty.
package manifest

import (
	"github.com/beevik/etree"

	"modlink/pkg/errors"
)

// Filename is the manifest file expected inside each mod folder.
const Filename = "package.xml"

// Meta holds the fields read from a package.xml manifest.
type Meta struct {
	Title       string
	ID          string
	Version     string
	Author      string
	Description string
}

// Parse reads manifest metadata from raw XML bytes.
func Parse(data []byte) (Meta, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return Meta{}, errors.Wrap(err, errors.ErrManifestParse, "malformed manifest XML")
	}

	root := doc.Root()
	if root == nil {
		return Meta{}, errors.New(errors.ErrManifestParse, "manifest has no root element")
	}

	return Meta{
		Title:       elementText(root, "title"),
		ID:          elementText(root, "id"),
		Version:     elementText(root, "version"),
		Author:      elementText(root, "author"),
		Description: elementText(root, "description"),
	}, nil
}

func elementText(root *etree.Element, tag string) string {
	if el := root.SelectElement(tag); el != nil {
		return el.Text()
	}
	return ""
}
