package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-formfields"
	"github.com/goliatone/go-formfields/pkg/i18ntext"
	"github.com/goliatone/go-formfields/pkg/model"
	"github.com/goliatone/go-formfields/pkg/prompt"
	"github.com/goliatone/go-formfields/pkg/render"
)

type cliFlags struct {
	config    string
	form      string
	field     string
	fieldType string
	namespace string
	logLevel  string
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	mode := os.Args[1]

	fs := flag.NewFlagSet(mode, flag.ExitOnError)
	var f cliFlags
	fs.StringVar(&f.config, "config", "", "YAML configuration file (locales, forms)")
	fs.StringVar(&f.form, "form", "", "configured form id")
	fs.StringVar(&f.field, "field", "title", "field name")
	fs.StringVar(&f.fieldType, "type", string(model.FieldTypeI18nText), "field type when the field is not configured")
	fs.StringVar(&f.namespace, "namespace", "", "input name prefix")
	fs.StringVar(&f.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	if err := fs.Parse(os.Args[2:]); err != nil {
		os.Exit(2)
	}

	logger := newLogger(f.logLevel)
	rt, err := newRuntime(f, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("configure runtime")
	}

	ctx := context.Background()
	input := strings.Join(fs.Args(), " ")

	switch mode {
	case "decode":
		err = runDecode(rt, f, input)
	case "encode":
		err = runEncode(rt, f, input)
	case "prompt":
		err = runPrompt(ctx, rt, f)
	case "render":
		err = runRender(ctx, rt, f, input)
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		if errors.Is(err, prompt.ErrAborted) {
			os.Exit(130)
		}
		logger.Fatal().Err(err).Str("mode", mode).Msg("formfields-cli failed")
	}
}

func usage() {
	name := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "Usage: %s <decode|encode|prompt|render> [flags] [input]\n\n", name)
	fmt.Fprintln(os.Stderr, "  decode  query string (or stdin) -> JSON value")
	fmt.Fprintln(os.Stderr, "  encode  JSON value (or stdin) -> query string")
	fmt.Fprintln(os.Stderr, "  prompt  ask for each locale interactively -> JSON value")
	fmt.Fprintln(os.Stderr, "  render  JSON object of field values (or stdin) -> HTML form")
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		lvl = zerolog.WarnLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(lvl).
		With().
		Timestamp().
		Logger()
}

func newRuntime(f cliFlags, logger zerolog.Logger) (*formfields.Runtime, error) {
	opts := []formfields.Option{
		formfields.WithLogger(logger),
		formfields.WithNamespace(f.namespace),
	}
	if f.config == "" {
		return formfields.Default(opts...)
	}
	return formfields.Load(f.config, opts...)
}

func resolveField(rt *formfields.Runtime, f cliFlags) (model.Field, error) {
	if f.form == "" {
		return model.Field{Name: f.field, Type: model.FieldType(f.fieldType)}, nil
	}
	form, err := rt.Form(f.form)
	if err != nil {
		return model.Field{}, err
	}
	field, ok := form.Field(f.field)
	if !ok {
		return model.Field{}, fmt.Errorf("form %q has no field %q", f.form, f.field)
	}
	return field, nil
}

func readInput(arg string) (string, error) {
	if strings.TrimSpace(arg) != "" {
		return arg, nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func runDecode(rt *formfields.Runtime, f cliFlags, arg string) error {
	field, err := resolveField(rt, f)
	if err != nil {
		return err
	}
	raw, err := readInput(arg)
	if err != nil {
		return err
	}
	params, err := url.ParseQuery(strings.TrimPrefix(raw, "?"))
	if err != nil {
		return fmt.Errorf("parse query: %w", err)
	}

	handler, err := rt.Handlers.HandlerFor(field, "")
	if err != nil {
		return err
	}
	value, err := handler.Value(field, field.InputName(f.namespace), params, nil, string(field.Type), nil)
	if err != nil {
		return err
	}
	return writeJSON(os.Stdout, value)
}

func runEncode(rt *formfields.Runtime, f cliFlags, arg string) error {
	field, err := resolveField(rt, f)
	if err != nil {
		return err
	}
	raw, err := readInput(arg)
	if err != nil {
		return err
	}
	value, err := decodeValue(field, json.RawMessage(raw))
	if err != nil {
		return err
	}

	handler, err := rt.Handlers.HandlerFor(field, "")
	if err != nil {
		return err
	}
	params, err := handler.ParamValue(field.InputName(f.namespace), value, field.Pattern)
	if err != nil {
		return err
	}

	// url.Values.Encode drops keys without values, which would lose the
	// cleared-field marker.
	pairs := make([]string, 0, len(params))
	for _, hidden := range render.HiddenFromParams(params) {
		pairs = append(pairs, url.QueryEscape(hidden.Name)+"="+url.QueryEscape(hidden.Value))
	}
	_, err = fmt.Fprintln(os.Stdout, strings.Join(pairs, "&"))
	return err
}

func runPrompt(ctx context.Context, rt *formfields.Runtime, f cliFlags) error {
	field, err := resolveField(rt, f)
	if err != nil {
		return err
	}
	if !field.Localized() {
		return fmt.Errorf("field %q is not localized", field.Name)
	}
	set, err := prompt.CollectSet(ctx, prompt.SurveyDriver{}, field, prompt.CollectOptions{
		Locales:       rt.Locales.Supported(),
		DefaultLocale: rt.Locales.DefaultLocale(),
	})
	if err != nil {
		return err
	}
	return writeJSON(os.Stdout, set)
}

func runRender(ctx context.Context, rt *formfields.Runtime, f cliFlags, arg string) error {
	if f.form == "" {
		return errors.New("render requires -form")
	}
	form, err := rt.Form(f.form)
	if err != nil {
		return err
	}

	raw, err := readInput(arg)
	if err != nil {
		return err
	}
	values := map[string]any{}
	if raw != "" {
		var payload map[string]json.RawMessage
		if err := json.Unmarshal([]byte(raw), &payload); err != nil {
			return fmt.Errorf("parse values: %w", err)
		}
		for name, data := range payload {
			field, ok := form.Field(name)
			if !ok {
				continue
			}
			value, err := decodeValue(field, data)
			if err != nil {
				return err
			}
			values[name] = value
		}
	}

	out, err := rt.Render(ctx, f.form, formfields.RenderOptions{Values: values})
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(out)
	return err
}

func decodeValue(field model.Field, data json.RawMessage) (any, error) {
	if field.Localized() {
		var set *i18ntext.Set
		if err := json.Unmarshal(data, &set); err != nil {
			return nil, fmt.Errorf("parse %s value: %w", field.Name, err)
		}
		if set == nil {
			return nil, nil
		}
		return set, nil
	}

	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, fmt.Errorf("parse %s value: %w", field.Name, err)
	}
	return value, nil
}

func writeJSON(w io.Writer, value any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}
