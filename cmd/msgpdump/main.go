// Command msgpdump decodes a MessagePack stream from a file or stdin and
// prints each top-level value as Go syntax. It is a convenience entry point,
// not part of the msgpack package's core API, and doubles as the home for
// this module's CLI, logging, and configuration-file dependencies.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"github.com/hulthe/msgpack-go"
)

var log = logrus.New()

func main() {
	app := cli.NewApp()
	app.Name = "msgpdump"
	app.Usage = "decode and print a MessagePack stream"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config, c",
			Usage: "path to a YAML options file selecting the Config composition",
		},
		cli.BoolFlag{
			Name:  "verbose, v",
			Usage: "log the index of each decoded value",
		},
	}
	app.Action = dumpCommand
	if err := app.Run(os.Args); err != nil {
		log.WithError(err).Fatal("msgpdump failed")
	}
}

func dumpCommand(c *cli.Context) error {
	sessionID := uuid.New()
	logger := log.WithField("session", sessionID.String())

	opts, err := loadOptions(c.String("config"))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	var input *os.File
	if path := c.Args().First(); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("opening %s: %w", path, err)
		}
		defer f.Close()
		input = f
	} else {
		input = os.Stdin
	}

	dec := msgpack.NewDecoder(input, opts.msgpackOptions()...)
	verbose := c.Bool("verbose")

	for i := 0; ; i++ {
		var v any
		err := dec.Decode(&v)
		if err != nil {
			if err == io.EOF {
				break
			}
			return fmt.Errorf("decoding value %d: %w", i, err)
		}
		if verbose {
			logger.WithFields(logrus.Fields{"index": i}).Info("decoded value")
		}
		fmt.Printf("%#v\n", v)
	}
	return nil
}
