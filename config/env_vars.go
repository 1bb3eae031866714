// Copyright 2024 - 2025, the Driftnote contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

var (
	errNeedStructPointer  = errors.New("configuration target must be a pointer to a struct")
	errSliceOfStringsOnly = errors.New("slice fields must hold strings")
	errUnhandledFieldKind = errors.New("no conversion for field kind")
)

// readEnv walks a config struct and fills fields carrying an `env` tag
// from the corresponding environment variables. Unset variables leave
// fields alone; defaults are SetDefaults' job.
func readEnv(spec any) error {
	v := reflect.ValueOf(spec)
	if v.Kind() != reflect.Ptr {
		return fmt.Errorf("%w, got %s", errNeedStructPointer, v.Kind())
	}

	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return fmt.Errorf("%w, got a pointer to %s", errNeedStructPointer, v.Kind())
	}

	t := v.Type()

	for i := range v.NumField() {
		field := v.Field(i)
		meta := t.Field(i)

		name, overwrite := parseEnvTag(meta.Tag.Get("env"))

		// Untagged struct fields, embedded ones included, are walked
		// for their own tags.
		if name == "" {
			if field.Kind() == reflect.Struct {
				if err := readEnv(field.Addr().Interface()); err != nil {
					return err
				}
			}

			continue
		}

		value, set := os.LookupEnv(name)
		if !set || !field.CanSet() {
			continue
		}

		// Without the overwrite option an env var only fills fields
		// still at their zero value, so values from the YAML file win.
		if !overwrite && !isZero(field) {
			continue
		}

		if err := assign(field, meta.Name, name, value); err != nil {
			return err
		}
	}

	return nil
}

// parseEnvTag splits an `env` tag into the variable name and the
// overwrite option.
func parseEnvTag(tag string) (string, bool) {
	name, opts, _ := strings.Cut(tag, ",")

	return name, slices.Contains(strings.Split(opts, ","), "overwrite")
}

// assign converts raw to the field's kind and stores it.
func assign(field reflect.Value, fieldName, envName, raw string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(raw)

	case reflect.Bool:
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return parseError("bool", fieldName, envName, raw, err)
		}

		field.SetBool(parsed)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if field.Type() == reflect.TypeFor[time.Duration]() {
			parsed, err := time.ParseDuration(raw)
			if err != nil {
				return parseError("duration", fieldName, envName, raw, err)
			}

			field.SetInt(int64(parsed))

			break
		}

		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return parseError("int", fieldName, envName, raw, err)
		}

		field.SetInt(parsed)

	case reflect.Slice:
		// The only slices in the configuration are string lists.
		if field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("%w, field %s", errSliceOfStringsOnly, fieldName)
		}

		field.Set(reflect.ValueOf(splitList(raw)))

	case reflect.Struct:
		return readEnv(field.Addr().Interface())

	default:
		return fmt.Errorf("%w %s, field %s", errUnhandledFieldKind, field.Kind(), fieldName)
	}

	return nil
}

func parseError(kind, fieldName, envName, raw string, err error) error {
	return fmt.Errorf("env var %s: parsing %q as %s for field %s: %w",
		envName, raw, kind, fieldName, err)
}

// splitList turns a comma-separated value into its non-empty, trimmed
// elements.
func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))

	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}

	return out
}

// isZero reports whether a field still holds its zero value. Strings
// and slices count as zero when empty, structs when every field is
// zero.
func isZero(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String, reflect.Slice:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Struct:
		for i := range v.NumField() {
			if !isZero(v.Field(i)) {
				return false
			}
		}

		return true
	}

	return false
}

// loadDotEnv loads a .env file from the working directory or, failing
// that, from the directory of the binary. Variables already present in
// the environment always win; godotenv never overrides them.
//
// A missing .env file is not an error.
func loadDotEnv() error {
	var candidates []string

	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, ".env"))
	}

	exeDir := "."
	if exe, err := os.Executable(); err == nil {
		exeDir = filepath.Dir(exe)
	}

	candidates = append(candidates, filepath.Join(exeDir, ".env"))

	for _, path := range candidates {
		if _, err := os.Stat(path); err != nil {
			continue
		}

		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		log.Info().Str("path", path).Msg("Applied .env file")

		return nil
	}

	log.Info().Msg("No .env file present")

	return nil
}
