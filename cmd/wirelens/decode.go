package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Ender-Wang/Swifka-sub000/config"
	"github.com/Ender-Wang/Swifka-sub000/stream"
)

// runDecode decodes a single payload file and prints the rendering.
func runDecode(args []string) error {
	flags := flag.NewFlagSet("decode", flag.ContinueOnError)
	format := flags.String("format", config.FormatRaw, "payload format: raw, protobuf, or avro")
	protoSchema := flags.String("proto-schema", "", "path to a .proto schema file")
	message := flags.String("message", "", "target message type name within the proto schema")
	avroSchema := flags.String("avro-schema", "", "path to an Avro JSON schema file")
	pretty := flags.Bool("pretty", false, "print the indented rendering instead of one line")
	maxDepth := flags.Int("max-depth", 16, "nested message recursion cap")
	previewLen := flags.Int("preview-len", 32, "hex preview length for byte fields")
	strict := flags.Bool("strict", false, "reject proto schemas that parse with warnings")
	if err := flags.Parse(args); err != nil {
		return err
	}

	if flags.NArg() != 1 {
		flags.Usage()
		return fmt.Errorf("expected exactly one payload file")
	}

	decoderCfg := config.DecoderConfig{
		Format:          *format,
		ProtoSchemaFile: *protoSchema,
		ProtoMessage:    *message,
		AvroSchemaFile:  *avroSchema,
		MaxNestedDepth:  *maxDepth,
		BytesPreviewLen: *previewLen,
		StrictSchema:    *strict,
	}
	// A bare -format protobuf without a schema file is the raw pass; the
	// cross-field rules are the same ones Load applies.
	cfg := config.Default()
	cfg.Decoder = decoderCfg
	if err := cfg.Validate(); err != nil {
		return err
	}

	payload, err := os.ReadFile(flags.Arg(0))
	if err != nil {
		return fmt.Errorf("read payload: %w", err)
	}

	caches, err := stream.NewCaches()
	if err != nil {
		return err
	}
	pipeline, err := stream.BuildPipeline(cfg.Decoder, caches)
	if err != nil {
		return err
	}

	rendering, decodeErr := pipeline(payload)
	if *pretty {
		fmt.Println(rendering.Pretty)
	} else {
		fmt.Println(rendering.Flat)
	}
	if decodeErr != nil {
		return fmt.Errorf("decode: %w", decodeErr)
	}
	return nil
}

// loadConsumeConfig parses consume flags and loads the config file.
func loadConsumeConfig(args []string) (*config.Config, error) {
	flags := flag.NewFlagSet("consume", flag.ContinueOnError)
	configPath := flags.String("config", "", "path to a YAML config file")
	url := flags.String("url", "", "NATS server URL (overrides config)")
	streamName := flags.String("stream", "", "JetStream stream name (overrides config)")
	subject := flags.String("subject", "", "subject filter (overrides config)")
	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if *url != "" {
		cfg.Stream.URL = *url
	}
	if *streamName != "" {
		cfg.Stream.Stream = *streamName
	}
	if *subject != "" {
		cfg.Stream.Subject = *subject
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
