// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pamtag

import (
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/kballard/go-shellquote"
)

// Marshal renders the pam-tagged fields of v as module arguments. True bool
// fields become bare flags; zero-valued fields are omitted.
func Marshal(v any) ([]string, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, fmt.Errorf("pamtag: cannot marshal %s", rv.Kind())
	}
	rt := rv.Type()
	var out []string
	for i := 0; i < rv.NumField(); i++ {
		field := rv.Field(i)
		sf := rt.Field(i)
		tag, ok := sf.Tag.Lookup("pam")
		if !ok || tag == "-" || !sf.IsExported() {
			continue
		}
		if field.IsZero() {
			continue
		}
		name := parseTag(tag).name
		if name == "" {
			name = strings.ToUpper(sf.Name)
		}
		if field.Kind() == reflect.Bool {
			out = append(out, name)
			continue
		}
		out = append(out, name+"="+formatValue(field))
	}
	return out, nil
}

func formatValue(v reflect.Value) string {
	if v.Kind() == reflect.Pointer {
		if _, ok := v.Interface().(fmt.Stringer); ok {
			return fmt.Sprint(v.Interface())
		}
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.Slice:
		parts := make([]string, v.Len())
		for i := range parts {
			parts[i] = quoteListElem(formatValue(v.Index(i)))
		}
		return strings.Join(parts, ",")
	case reflect.Int32:
		if v.Type() == reflect.TypeFor[rune]() {
			return string(rune(v.Int()))
		}
	}
	return fmt.Sprint(v.Interface())
}

// quoteListElem quotes list elements that contain a comma so the list
// converter splits them back correctly.
func quoteListElem(s string) string {
	switch {
	case !strings.Contains(s, ","):
		return s
	case !strings.Contains(s, `"`):
		return `"` + s + `"`
	case !strings.Contains(s, "'"):
		return "'" + s + "'"
	}
	return s
}

// Line renders v as a single shell-quoted argument line.
func Line(v any) (string, error) {
	args, err := Marshal(v)
	if err != nil {
		return "", err
	}
	return shellquote.Join(args...), nil
}

// Encode writes the arguments of v to w, one per line.
func Encode(w io.Writer, v any) error {
	args, err := Marshal(v)
	if err != nil {
		return err
	}
	for _, a := range args {
		if _, err := fmt.Fprintln(w, a); err != nil {
			return err
		}
	}
	return nil
}

// Write writes the arguments of v to the named file, one per line.
func Write(name string, v any) error {
	f, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create file: %v", err)
	}
	defer f.Close()
	if err := Encode(f, v); err != nil {
		return fmt.Errorf("failed to marshal arguments: %v", err)
	}
	return f.Close()
}
