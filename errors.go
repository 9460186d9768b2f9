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

package unoffice

import (
	"errors"
	"fmt"
)

// ContainerError is returned when the input is not a readable ZIP container
// or a required entry cannot be read from it.
type ContainerError struct {
	Part string // entry path, empty when the archive itself is unreadable
	Err  error
}

func (e *ContainerError) Error() string {
	if e.Part == "" {
		return fmt.Sprintf("container: %v", e.Err)
	}
	return fmt.Sprintf("container: part %q: %v", e.Part, e.Err)
}

func (e *ContainerError) Unwrap() error { return e.Err }

// XMLError is returned when a part's payload fails to parse as XML.
type XMLError struct {
	Part string
	Err  error
}

func (e *XMLError) Error() string {
	if e.Part == "" {
		return fmt.Sprintf("xml: %v", e.Err)
	}
	return fmt.Sprintf("xml: part %q: %v", e.Part, e.Err)
}

func (e *XMLError) Unwrap() error { return e.Err }

// PackageError is returned when the OPC layer is inconsistent: a missing
// [Content_Types].xml, a dangling relationship ID, or a package whose root
// relationships identify no main document part.
type PackageError struct {
	Part string
	Err  error
}

func (e *PackageError) Error() string {
	if e.Part == "" {
		return fmt.Sprintf("package: %v", e.Err)
	}
	return fmt.Sprintf("package: part %q: %v", e.Part, e.Err)
}

func (e *PackageError) Unwrap() error { return e.Err }

// SchemaError is returned when a format part is well-formed XML but violates
// the format's structure, such as a workbook sheet entry without a
// relationship ID.
type SchemaError struct {
	Part string
	Msg  string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema: part %q: %s", e.Part, e.Msg)
}

// RenderError is returned when a renderer cannot produce output, such as a
// failed JSON encode.
type RenderError struct {
	Format string
	Err    error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s: %v", e.Format, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// UnsupportedFormatError is returned when the container holds none of the
// recognised document formats.
type UnsupportedFormatError struct {
	Detail string
}

func (e *UnsupportedFormatError) Error() string {
	if e.Detail == "" {
		return "unsupported format"
	}
	return "unsupported format: " + e.Detail
}

// IsContainerError reports whether the error is a ContainerError.
func IsContainerError(err error) bool {
	var target *ContainerError
	return errors.As(err, &target)
}

// IsUnsupportedFormat reports whether the error is an UnsupportedFormatError.
func IsUnsupportedFormat(err error) bool {
	var target *UnsupportedFormatError
	return errors.As(err, &target)
}
