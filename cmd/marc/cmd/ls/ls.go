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


package ls

import (
	"errors"
	"fmt"
	"io"
	"sort"

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
}

func NewCommand() *cobra.Command {
	c := &conf{}
	var cmd = &cobra.Command{
		Use:   "ls FILE",
		Short: "List records from MARC files",
		Long:  ``,
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
			sort.Strings(c.id)
			return readFile(c, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().Int64VarP(&c.offset, "offset", "o", -1, "record offset")
	cmd.Flags().IntVarP(&c.recordCount, "record-count", "c", 0, "The maximum number of records to show")
	cmd.Flags().BoolVarP(&c.strict, "strict", "s", false, "strict parsing")
	cmd.Flags().StringArrayVar(&c.id, "id", []string{}, "specify control numbers to ls")

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
		record, currentOffset, _, err := mf.Next()
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

		printRecord(out, currentOffset, record)

		if c.recordCount > 0 && count >= c.recordCount {
			break
		}
	}
	_, _ = fmt.Fprintln(errOut, "Count: ", count)
	return nil
}

func printRecord(w io.Writer, offset int64, record *gomarc.Record) {
	var title string
	if t := record.ContentWith(gomarc.NewSubfieldPath(gomarc.TitleStatementTag, "a")); len(t) > 0 {
		title = internal.CropString(t[0], 60)
	}
	_, _ = fmt.Fprintf(w, "%9d %-12s %c %c %3d %s\n", offset, record.ControlNumber(), record.Kind(), record.Status(), len(record.Fields), title)
}
