package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/danmuck/lrpmp/internal/config"
	"github.com/danmuck/lrpmp/internal/logging"
	"github.com/danmuck/lrpmp/protocol/codec"
	"github.com/danmuck/lrpmp/protocol/field"
	"github.com/danmuck/lrpmp/protocol/kind"
	"github.com/danmuck/lrpmp/protocol/message"
	"github.com/danmuck/lrpmp/protocol/schema"
	"github.com/danmuck/lrpmp/protocol/uri"
	"gopkg.in/yaml.v3"
)

type kindRow struct {
	Code      uint8    `yaml:"code"`
	Name      string   `yaml:"name"`
	Source    string   `yaml:"source"`
	MinFields int      `yaml:"min_fields"`
	MaxFields int      `yaml:"max_fields"`
	Fields    []string `yaml:"fields,omitempty"`
}

func kindRows(reg *kind.Registry) []kindRow {
	var rows []kindRow
	for _, k := range kind.StandardKinds() {
		lo, hi := k.FieldCount()
		rows = append(rows, kindRow{Code: k.Code(), Name: k.Name(), Source: "standard", MinFields: lo, MaxFields: hi, Fields: k.FieldNames()})
	}
	for _, c := range reg.Customs() {
		rows = append(rows, kindRow{Code: c.Code, Name: c.Name, Source: "custom", MinFields: c.MinFields, MaxFields: c.MaxFields})
	}
	return rows
}

func runKinds(e env, args []string) error {
	fs := newFlagSet(e, "kinds")
	format := fs.String("format", "text", "output format: text|yaml")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	reg, err := e.cfg.Registry()
	if err != nil {
		return err
	}
	rows := kindRows(reg)

	switch *format {
	case "yaml":
		enc := yaml.NewEncoder(e.stdout)
		enc.SetIndent(2)
		if err := enc.Encode(rows); err != nil {
			return err
		}
		return enc.Close()
	case "text":
		tw := tabwriter.NewWriter(e.stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "CODE\tNAME\tSOURCE\tFIELDS")
		for _, r := range rows {
			fields := strings.Join(r.Fields, ",")
			if r.Source == "custom" {
				fields = fieldRange(r.MinFields, r.MaxFields)
			}
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", r.Code, r.Name, r.Source, fields)
		}
		return tw.Flush()
	default:
		return fmt.Errorf("%w: unknown format %q", errUsage, *format)
	}
}

func fieldRange(lo, hi int) string {
	if hi == kind.Unbounded {
		return fmt.Sprintf("%d..", lo)
	}
	return fmt.Sprintf("%d..%d", lo, hi)
}

func runURI(e env, args []string) error {
	fs := newFlagSet(e, "uri")
	pattern := fs.String("match", "", "pattern uri to match against")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: expected exactly one uri", errUsage)
	}
	u, err := uri.Parse(fs.Arg(0))
	if err != nil {
		return err
	}
	fmt.Fprintf(e.stdout, "uri=%s segments=%d wildcards=%d\n", u, u.SegmentCount(), u.WildcardCount())
	if *pattern == "" {
		return nil
	}
	p, err := uri.Parse(*pattern)
	if err != nil {
		return fmt.Errorf("pattern: %w", err)
	}
	fmt.Fprintf(e.stdout, "match=%t\n", uri.Match(p, u))
	return nil
}

func runTranscode(e env, args []string) error {
	fs := newFlagSet(e, "transcode")
	from := fs.String("from", e.cfg.Codec, "input codec: json|cbor|tlv")
	to := fs.String("to", e.cfg.Codec, "output codec: json|cbor|tlv")
	inFramed := fs.Bool("in-framed", e.cfg.Framed, "input is framed")
	framed := fs.Bool("framed", e.cfg.Framed, "frame the output")
	compress := fs.Bool("compress", e.cfg.Compress, "zstd compress framed output")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	reg, err := e.cfg.Registry()
	if err != nil {
		return err
	}

	dec, closeDec, err := openDecoder(e.stdin, stream{codec: *from, framed: *inFramed}, e.cfg, reg)
	if err != nil {
		return err
	}
	defer closeDec()
	enc, closeEnc, err := openEncoder(e.stdout, stream{codec: *to, framed: *framed, compress: *compress}, e.cfg)
	if err != nil {
		return err
	}
	defer closeEnc()

	n := 0
	for {
		m, err := message.DecodeGeneric(dec)
		if errors.Is(err, codec.ErrEOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("message %d: %w", n, err)
		}
		if err := schema.Validate(m.Kind(), m.Fields()); err != nil {
			return fmt.Errorf("message %d: %w", n, err)
		}
		if err := m.Encode(enc); err != nil {
			return fmt.Errorf("message %d: %w", n, err)
		}
		n++
	}
	logging.Infof("transcoded %d messages %s -> %s", n, *from, *to)
	return nil
}

func runCall(e env, args []string) error {
	fs := newFlagSet(e, "call")
	procedure := fs.String("procedure", "", "procedure uri")
	body := fs.String("body", "null", "JSON call body")
	id := fs.Uint64("id", 0, "request id; random when 0")
	out := fs.String("codec", e.cfg.Codec, "output codec: json|cbor|tlv")
	framed := fs.Bool("framed", e.cfg.Framed, "frame the output")
	compress := fs.Bool("compress", e.cfg.Compress, "zstd compress framed output")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *procedure == "" {
		return fmt.Errorf("%w: -procedure is required", errUsage)
	}
	proc, err := uri.Parse(*procedure)
	if err != nil {
		return err
	}
	if proc.HasWildcard() {
		return fmt.Errorf("procedure %s must not contain wildcards", proc)
	}
	var payload any
	if err := json.Unmarshal([]byte(*body), &payload); err != nil {
		return fmt.Errorf("%w: body: %v", errUsage, err)
	}
	requestID := field.ID(*id)
	if requestID == 0 {
		requestID = field.GlobalID()
	}

	enc, closeEnc, err := openEncoder(e.stdout, stream{codec: *out, framed: *framed, compress: *compress}, e.cfg)
	if err != nil {
		return err
	}
	defer closeEnc()
	call := message.NewCall(requestID, proc, field.NewBody(payload), field.NewMeta(nil))
	if err := call.Encode(enc); err != nil {
		return err
	}
	logging.Debugf("call id=%d procedure=%s", requestID, proc)
	return nil
}

func runInit(e env, args []string) error {
	fs := newFlagSet(e, "init")
	force := fs.Bool("force", false, "overwrite an existing file")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: expected a target path", errUsage)
	}
	path := fs.Arg(0)
	if err := config.WriteTemplate(path, *force); err != nil {
		return err
	}
	if _, err := config.Load(path); err != nil {
		return err
	}
	fmt.Fprintf(e.stdout, "wrote config template to %s\n", path)
	return nil
}
