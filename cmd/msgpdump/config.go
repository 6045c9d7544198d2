package main

import (
	"os"

	"gopkg.in/yaml.v2"

	"github.com/hulthe/msgpack-go"
)

// options is the shape of the YAML file passed via --config. It picks which
// Config composition msgpdump applies to the stream it decodes.
type options struct {
	StructLayout  string `yaml:"struct_layout"`
	VariantIdent  string `yaml:"variant_ident"`
	HumanReadable bool   `yaml:"human_readable"`
	MaxDepth      int    `yaml:"max_depth"`
}

// loadOptions reads and parses the YAML options file at path. An empty path
// returns the zero-value options, which map to msgpack's defaults.
func loadOptions(path string) (options, error) {
	var o options
	if path == "" {
		return o, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return o, err
	}
	if err := yaml.Unmarshal(data, &o); err != nil {
		return o, err
	}
	return o, nil
}

// msgpackOptions translates the parsed YAML options into msgpack.Option
// values.
func (o options) msgpackOptions() []msgpack.Option {
	var opts []msgpack.Option
	switch o.StructLayout {
	case "map":
		opts = append(opts, msgpack.WithStructMap())
	case "tuple", "":
		opts = append(opts, msgpack.WithStructTuple())
	}
	if o.VariantIdent == "index" {
		opts = append(opts, msgpack.WithVariantIndex())
	}
	if o.HumanReadable {
		opts = append(opts, msgpack.WithHumanReadable())
	}
	if o.MaxDepth > 0 {
		opts = append(opts, msgpack.WithMaxDepth(o.MaxDepth))
	}
	return opts
}
