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

package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/nicholasgasior/unoffice"
)

var version = "dev"

func main() {
	var (
		format      string
		output      string
		jsonMode    string
		frontmatter bool
		escape      bool
		spacing     bool
		showVersion bool
	)

	flag.StringVar(&format, "f", "md", "Output format: md, text or json")
	flag.StringVar(&format, "format", "md", "Output format: md, text or json")
	flag.StringVar(&output, "o", "", "Output file (default: stdout)")
	flag.StringVar(&output, "output", "", "Output file (default: stdout)")
	flag.StringVar(&jsonMode, "json-mode", "pretty", "JSON layout: pretty or compact")
	flag.BoolVar(&frontmatter, "frontmatter", false, "Prepend YAML frontmatter to Markdown output")
	flag.BoolVar(&escape, "escape", false, "Escape Markdown-significant characters in document text")
	flag.BoolVar(&spacing, "spacing", false, "Blank line between paragraphs in Markdown output")
	flag.BoolVar(&showVersion, "v", false, "Show version")
	flag.BoolVar(&showVersion, "version", false, "Show version")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: unoffice [flags] [source]\n\n")
		fmt.Fprintf(os.Stderr, "Extract content from .docx, .xlsx and .pptx documents.\n\n")
		fmt.Fprintf(os.Stderr, "Arguments:\n")
		fmt.Fprintf(os.Stderr, "  source    File to convert (reads stdin if omitted)\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("unoffice %s\n", version)
		os.Exit(0)
	}

	var doc *unoffice.Document
	var err error

	args := flag.Args()
	if len(args) == 0 {
		data, readErr := io.ReadAll(os.Stdin)
		if readErr != nil {
			fmt.Fprintf(os.Stderr, "Error reading stdin: %v\n", readErr)
			os.Exit(1)
		}
		doc, err = unoffice.Parse(data)
	} else {
		doc, err = unoffice.ParseFile(args[0])
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var result string
	switch format {
	case "md", "markdown":
		var opts []unoffice.MarkdownOption
		if frontmatter {
			opts = append(opts, unoffice.WithFrontmatter())
		}
		if escape {
			opts = append(opts, unoffice.WithEscapeSpecial())
		}
		if spacing {
			opts = append(opts, unoffice.WithParagraphSpacing())
		}
		result = unoffice.ToMarkdown(doc, opts...)
	case "text", "txt":
		result = unoffice.ToText(doc)
	case "json":
		mode := unoffice.JSONPretty
		switch jsonMode {
		case "pretty":
		case "compact":
			mode = unoffice.JSONCompact
		default:
			fmt.Fprintf(os.Stderr, "Error: unknown JSON mode %q\n", jsonMode)
			os.Exit(1)
		}
		result, err = unoffice.ToJSON(doc, mode)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown format %q\n", format)
		os.Exit(1)
	}

	if output != "" {
		dir := filepath.Dir(output)
		if dir != "." {
			os.MkdirAll(dir, 0o755)
		}
		if writeErr := os.WriteFile(output, []byte(result+"\n"), 0o644); writeErr != nil {
			fmt.Fprintf(os.Stderr, "Error writing output: %v\n", writeErr)
			os.Exit(1)
		}
	} else {
		fmt.Print(result)
		fmt.Println()
	}
}
