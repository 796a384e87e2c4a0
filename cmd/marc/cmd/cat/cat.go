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


package cat

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"
	"github.com/nlnwa/gomarc"
	"github.com/nlnwa/gomarc/internal"
	"github.com/spf13/cobra"
)

type conf struct {
	offset      int64
	recordCount int
	strict      bool
	fileName    string
	id          []string
	paths       []string
	fieldPaths  []gomarc.FieldPath
}

var (
	tagColor       = color.New(color.FgCyan, color.Bold).SprintFunc()
	indicatorColor = color.New(color.FgYellow).SprintFunc()
	codeColor      = color.New(color.FgGreen).SprintFunc()
)

func NewCommand() *cobra.Command {
	c := &conf{}
	var cmd = &cobra.Command{
		Use:   "cat FILE",
		Short: "Print records from MARC files",
		Long: `Print records from MARC files.

Each record is printed as the leader followed by one line per field. When one or more field paths
are given with --path, only the content they select is printed. A path is a tag like 020 or a tag
and a subfield code like 245$a.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New("missing file name")
			}
			c.fileName = args[0]
			if c.offset >= 0 && c.recordCount == 0 {
				c.recordCount = 1
			}
			if c.offset < 0 {
				c.offset = 0
			}
			for _, p := range c.paths {
				fp, err := gomarc.ParseFieldPath(p)
				if err != nil {
					return err
				}
				c.fieldPaths = append(c.fieldPaths, fp)
			}
			sort.Strings(c.id)
			return readFile(c, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().Int64VarP(&c.offset, "offset", "o", -1, "record offset")
	cmd.Flags().IntVarP(&c.recordCount, "record-count", "c", 0, "The maximum number of records to show")
	cmd.Flags().BoolVarP(&c.strict, "strict", "s", false, "strict parsing")
	cmd.Flags().StringArrayVar(&c.id, "id", []string{}, "specify control numbers to cat")
	cmd.Flags().StringArrayVarP(&c.paths, "path", "p", []string{}, "only print content selected by field path")

	return cmd
}

func readFile(c *conf, out, errOut io.Writer) error {
	var opts []gomarc.RecordOption
	if c.strict {
		opts = append(opts, gomarc.WithStrictValidation())
	}
	mf, err := gomarc.NewMarcFileReader(c.fileName, c.offset, opts...)
	if err != nil {
		return err
	}
	defer func() { _ = mf.Close() }()

	count := 0

	for {
		record, currentOffset, validation, err := mf.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			_, _ = fmt.Fprintf(errOut, "Error: %v, rec num: %d, Offset %d\n", err, count, currentOffset)
			break
		}
		if len(c.id) > 0 && !internal.Contains(c.id, record.ControlNumber()) {
			continue
		}
		count++

		if !validation.Valid() {
			_, _ = fmt.Fprintf(errOut, "Offset %d: %s", currentOffset, validation)
		}
		if len(c.fieldPaths) > 0 {
			printContent(out, record, c.fieldPaths)
		} else {
			printRecord(out, record)
		}

		if c.recordCount > 0 && count >= c.recordCount {
			break
		}
	}
	_, _ = fmt.Fprintln(errOut, "Count: ", count)
	return nil
}

func printContent(w io.Writer, record *gomarc.Record, paths []gomarc.FieldPath) {
	for _, p := range paths {
		for _, s := range record.ContentWith(p) {
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", record.ControlNumber(), p, s)
		}
	}
}

func printRecord(w io.Writer, record *gomarc.Record) {
	_, _ = fmt.Fprintf(w, "%s %s\n", tagColor("LDR"), record.Leader)
	for _, f := range record.Fields {
		if v, ok := f.ControlValue(); ok {
			_, _ = fmt.Fprintf(w, "%s    %s\n", tagColor(f.Tag()), v)
			continue
		}
		ind1, ind2, _ := f.Indicators()
		_, _ = fmt.Fprintf(w, "%s %s%s ", tagColor(f.Tag()), indicatorColor(ind1), indicatorColor(ind2))
		for _, s := range f.Subfields() {
			_, _ = fmt.Fprintf(w, "%s%s", codeColor("$"+string(s.Code)), s.Content)
		}
		_, _ = fmt.Fprintln(w)
	}
	_, _ = fmt.Fprintln(w)
}
