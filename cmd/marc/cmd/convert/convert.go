/*
 * Copyright 2021 National Library of Norway.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *       http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */


package convert

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nlnwa/gomarc"
	"github.com/nlnwa/gomarc/internal"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const (
	formatMarc = "marc"
	formatXML  = "xml"
)

var formats = []string{formatMarc, formatXML}

type conf struct {
	inFile  string
	outFile string
	to      string
	strict  bool
}

func NewCommand() *cobra.Command {
	c := &conf{}
	var cmd = &cobra.Command{
		Use:   "convert IN OUT",
		Short: "Convert between binary MARC and MARCXML",
		Long: `Convert between binary MARC and MARCXML.

The input format is detected from the content. The output format is set with --to, or taken from
the extension of OUT when --to is not set (.xml gives MARCXML). Use - as OUT to write to stdout.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return errors.New("expected input and output file names")
			}
			c.inFile, c.outFile = args[0], args[1]
			if c.to == "" {
				c.to = formatMarc
				if strings.EqualFold(filepath.Ext(c.outFile), ".xml") {
					c.to = formatXML
				}
			}
			if !internal.Contains(formats, c.to) {
				return fmt.Errorf("unknown format '%s', must be one of %v", c.to, formats)
			}
			return convert(c, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&c.to, "to", "t", "", "output format, one of marc, xml")
	cmd.Flags().BoolVarP(&c.strict, "strict", "s", false, "strict parsing")

	return cmd
}

// recordSource returns the next record or io.EOF.
type recordSource func() (*gomarc.Record, error)

// recordSink writes one record.
type recordSink func(*gomarc.Record) error

func convert(c *conf, stdout io.Writer) (err error) {
	in, err := os.Open(c.inFile)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	var opts []gomarc.RecordOption
	if c.strict {
		opts = append(opts, gomarc.WithStrictValidation())
	}
	next, err := newSource(bufio.NewReader(in), opts)
	if err != nil {
		return err
	}

	var out io.Writer = stdout
	if c.outFile != "-" {
		f, createErr := os.Create(c.outFile)
		if createErr != nil {
			return createErr
		}
		defer func() {
			if closeErr := f.Close(); err == nil {
				err = closeErr
			}
		}()
		out = f
	}
	bw := bufio.NewWriter(out)

	write, finish := newSink(bw, c.to)
	count := 0
	for {
		record, err := next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("record %d in %s: %w", count, c.inFile, err)
		}
		if err := write(record); err != nil {
			return fmt.Errorf("record %d in %s: %w", count, c.inFile, err)
		}
		count++
	}
	if err := finish(); err != nil {
		return err
	}
	log.Infof("Converted %d records from %s to %s", count, c.inFile, c.outFile)
	return bw.Flush()
}

// newSource detects the input format by looking at the first byte which is not white space.
func newSource(r *bufio.Reader, opts []gomarc.RecordOption) (recordSource, error) {
	var isXML bool
	for {
		b, err := r.Peek(1)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if bytes.ContainsAny(b, " \t\r\n") {
			_, _ = r.Discard(1)
			continue
		}
		isXML = b[0] == '<'
		break
	}

	if isXML {
		return gomarc.NewXMLDecoder(r).Decode, nil
	}
	u := gomarc.NewUnmarshaler(opts...)
	return func() (*gomarc.Record, error) {
		record, _, validation, err := u.Unmarshal(r)
		if err == nil && !validation.Valid() {
			log.Warn(validation)
		}
		return record, err
	}, nil
}

func newSink(w io.Writer, format string) (recordSink, func() error) {
	if format == formatXML {
		enc := gomarc.NewXMLEncoder(w)
		return enc.Encode, enc.Close
	}
	m := gomarc.NewMarshaler()
	return func(r *gomarc.Record) error {
		_, err := m.Marshal(w, r)
		return err
	}, func() error { return nil }
}
