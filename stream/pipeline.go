package stream

import (
	"fmt"
	"os"
	"strings"

	"github.com/Ender-Wang/Swifka-sub000/avro"
	"github.com/Ender-Wang/Swifka-sub000/config"
	"github.com/Ender-Wang/Swifka-sub000/display"
	"github.com/Ender-Wang/Swifka-sub000/errors"
	"github.com/Ender-Wang/Swifka-sub000/protobuf"
	"github.com/Ender-Wang/Swifka-sub000/schemacache"
)

// Caches groups the schema caches a pipeline reads through. Callers own
// them; sharing one set across consumers shares the parsed schemas.
type Caches struct {
	Proto *schemacache.ProtoCache
	Avro  *schemacache.AvroCache
}

// NewCaches creates an empty cache set.
func NewCaches() (*Caches, error) {
	protoCache, err := schemacache.New[*protobuf.Schema]()
	if err != nil {
		return nil, err
	}
	avroCache, err := schemacache.New[*avro.Schema]()
	if err != nil {
		return nil, err
	}
	return &Caches{Proto: protoCache, Avro: avroCache}, nil
}

// BuildPipeline resolves decoder config into a display pipeline, loading
// and caching schema files as needed. Schema files are cached by path,
// so rebuilding a pipeline after a config change reuses parses for
// unchanged files.
func BuildPipeline(cfg config.DecoderConfig, caches *Caches) (display.Pipeline, error) {
	switch cfg.Format {
	case config.FormatRaw:
		return display.RawPipeline(), nil

	case config.FormatProtobuf:
		if cfg.ProtoSchemaFile == "" {
			return display.RawPipeline(), nil
		}
		text, err := os.ReadFile(cfg.ProtoSchemaFile)
		if err != nil {
			return nil, errors.WrapInvalid(err, "stream", "BuildPipeline", "read proto schema file")
		}
		schema, err := schemacache.GetProto(caches.Proto, cfg.ProtoSchemaFile, string(text))
		if err != nil {
			return nil, err
		}
		if cfg.StrictSchema && len(schema.Warnings) > 0 {
			return nil, errors.WrapInvalid(
				fmt.Errorf("%w: schema %s parsed with warnings: %s",
					errors.ErrInvalidSchema, cfg.ProtoSchemaFile, strings.Join(schema.Warnings, "; ")),
				"stream", "BuildPipeline", "check schema warnings")
		}
		return display.ProtoPipeline(schema, cfg.ProtoMessage, cfg.FormatOptions()), nil

	case config.FormatAvro:
		text, err := os.ReadFile(cfg.AvroSchemaFile)
		if err != nil {
			return nil, errors.WrapInvalid(err, "stream", "BuildPipeline", "read avro schema file")
		}
		schema, err := schemacache.GetAvro(caches.Avro, cfg.AvroSchemaFile, string(text))
		if err != nil {
			return nil, err
		}
		return display.AvroPipeline(schema), nil

	default:
		return nil, errors.WrapInvalid(
			fmt.Errorf("%w: unknown format %q", errors.ErrInvalidConfig, cfg.Format),
			"stream", "BuildPipeline", "select pipeline")
	}
}
