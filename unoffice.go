// Copyright 2026 Conductor OSS
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.

// Package unoffice extracts structured content from Office Open XML
// documents (.docx, .xlsx, .pptx) without the originating office suite.
// Parse builds an immutable Document from the container bytes; the
// ToMarkdown, ToText and ToJSON renderers are pure functions over it, so a
// Document may be shared across goroutines once built.
package unoffice

import (
	"errors"
	"io"
	"os"

	"github.com/nicholasgasior/unoffice/internal/ooxml"
)

// Parse builds a Document from an in-memory OOXML container. The document
// format is detected from the package content types, never from a file
// name.
func Parse(data []byte) (*Document, error) {
	c, err := ooxml.Open(data)
	if err != nil {
		return nil, &ContainerError{Err: err}
	}
	pkg, err := ooxml.ParsePackage(c)
	if err != nil {
		return nil, classifyPackageError(err)
	}
	format, mainPart, err := detectFormat(pkg)
	if err != nil {
		return nil, err
	}
	if !c.Exists(mainPart) {
		return nil, &SchemaError{Part: mainPart, Msg: "main part missing from container"}
	}

	doc := &Document{
		Format:   format,
		Metadata: readCoreProperties(c.ReadPart),
	}
	resources := collectResources(pkg, mainPart)

	var sections []Section
	switch format {
	case FormatWord:
		sections, err = buildWord(pkg, mainPart, resources)
	case FormatSheet:
		sections, err = buildSheet(pkg, mainPart)
	case FormatSlide:
		sections, err = buildSlide(pkg, mainPart, resources)
	}
	if err != nil {
		return nil, err
	}
	doc.Sections = sections
	doc.Resources = resources.list
	return doc, nil
}

// ParseReader reads r to the end and parses the bytes.
func ParseReader(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &ContainerError{Err: err}
	}
	return Parse(data)
}

// ParseFile parses a document from disk. The file extension is not
// consulted: content is ground truth.
func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ContainerError{Err: err}
	}
	return Parse(data)
}

// ExtractText parses the container and renders it as plain text in one
// step.
func ExtractText(data []byte) (string, error) {
	doc, err := Parse(data)
	if err != nil {
		return "", err
	}
	return ToText(doc), nil
}

// classifyPackageError maps OPC-layer failures onto the public taxonomy.
func classifyPackageError(err error) error {
	switch {
	case errors.Is(err, ooxml.ErrMalformedXML):
		return &XMLError{Err: err}
	case errors.Is(err, ooxml.ErrMissingContentTypes):
		return &PackageError{Err: err}
	case errors.Is(err, ooxml.ErrPartNotFound):
		return &ContainerError{Err: err}
	default:
		return &PackageError{Err: err}
	}
}
