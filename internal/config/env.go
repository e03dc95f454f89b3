package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
)

// fileSuffix names the companion variable of a `file` tagged field that points
// at a file holding the value, as mounted by Docker and Kubernetes secrets.
const fileSuffix = "_FILE"

// envTag is the parsed form of `env:"NAME[,file]"`.
type envTag struct {
	name     string
	fromFile bool
}

func parseEnvTag(raw string) envTag {
	name, opts, _ := strings.Cut(raw, ",")
	return envTag{name: strings.TrimSpace(name), fromFile: strings.TrimSpace(opts) == "file"}
}

// lookup returns the variable value, falling back to the contents of the
// NAME_FILE file for `file` tagged fields.
func (t envTag) lookup() (string, bool, error) {
	if v, ok := os.LookupEnv(t.name); ok {
		return strings.TrimSpace(v), true, nil
	}
	if !t.fromFile {
		return "", false, nil
	}
	path, ok := os.LookupEnv(t.name + fileSuffix)
	if !ok || strings.TrimSpace(path) == "" {
		return "", false, nil
	}
	data, err := os.ReadFile(strings.TrimSpace(path))
	if err != nil {
		return "", false, fmt.Errorf("reading %s%s: %w", t.name, fileSuffix, err)
	}
	return strings.TrimSpace(string(data)), true, nil
}

// applyEnv walks the configuration tree and overrides every tagged field whose
// variable is set. Nested sections are visited depth first.
func applyEnv(v reflect.Value) error {
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}

	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		field := v.Field(i)

		if field.Kind() == reflect.Struct {
			if err := applyEnv(field); err != nil {
				return err
			}
			continue
		}

		raw, ok := sf.Tag.Lookup("env")
		if !ok {
			continue
		}
		tag := parseEnvTag(raw)
		value, set, err := tag.lookup()
		if err != nil {
			return err
		}
		if !set {
			continue
		}
		if err := assign(field, value); err != nil {
			return fmt.Errorf("%s: %w", tag.name, err)
		}
	}
	return nil
}

func assign(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Int:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer %q", value)
		}
		field.SetInt(int64(n))
	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean %q", value)
		}
		field.SetBool(b)
	case reflect.Map:
		if field.Type() != reflect.TypeOf(map[string]string(nil)) {
			return fmt.Errorf("unsupported map type %s", field.Type())
		}
		m, err := ParseCollegeCodes(value)
		if err != nil {
			return err
		}
		field.Set(reflect.ValueOf(m))
	default:
		return fmt.Errorf("unsupported field type %s", field.Kind())
	}
	return nil
}
