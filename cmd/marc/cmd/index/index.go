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


package index

import (
	"errors"
	"fmt"
	"io"

	"github.com/nlnwa/gomarc"
	"github.com/nlnwa/gomarc/pkg/index"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type indexFormat struct {
	name string
}

func (f *indexFormat) String() string {
	if f.name == "" {
		return "json"
	}
	return f.name
}

func (f *indexFormat) Set(name string) error {
	switch name {
	case "json", "db":
	default:
		return fmt.Errorf("unknown format %v", name)
	}
	f.name = name
	return nil
}

func (f *indexFormat) Type() string {
	return "indexFormat"
}

type conf struct {
	fileNames []string
	format    indexFormat
	strict    bool
}

func NewCommand() *cobra.Command {
	c := &conf{}
	var cmd = &cobra.Command{
		Use:   "index FILE...",
		Short: "Index the control numbers of the records in the given MARC files",
		Long: `Index the control numbers of the records in the given MARC files.

With --format json one line is written to stdout per record. With --format db the records are
added to the index database in --index-dir.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New("missing file name")
			}
			c.fileNames = args
			// Bound here since serve binds the same key
			if err := viper.BindPFlag("index-dir", cmd.Flags().Lookup("index-dir")); err != nil {
				return err
			}
			return runE(c, cmd.OutOrStdout())
		},
	}

	cmd.Flags().VarP(&c.format, "format", "f", "index format, one of json, db")
	cmd.Flags().BoolVarP(&c.strict, "strict", "s", false, "strict parsing")
	cmd.Flags().StringP("index-dir", "", ".", "Index directory")

	return cmd
}

func runE(c *conf, out io.Writer) (err error) {
	var writer index.RecordWriter
	switch c.format.String() {
	case "db":
		db, openErr := index.NewIndexDb(index.DefaultOptions().WithDir(viper.GetString("index-dir")))
		if openErr != nil {
			return openErr
		}
		defer func() {
			if closeErr := db.Close(); err == nil {
				err = closeErr
			}
		}()
		writer = &index.DbWriter{Db: db}
	default:
		writer = &index.JsonWriter{W: out}
	}

	var opts []gomarc.RecordOption
	if c.strict {
		opts = append(opts, gomarc.WithStrictValidation())
	}

	total := 0
	for _, fileName := range c.fileNames {
		count, err := index.IndexFile(writer, fileName, opts...)
		total += count
		if err != nil {
			return fmt.Errorf("indexing %s: %w", fileName, err)
		}
		log.Infof("Indexed %d records from %s", count, fileName)
	}
	log.Infof("Indexed %d records from %d files", total, len(c.fileNames))
	return nil
}
