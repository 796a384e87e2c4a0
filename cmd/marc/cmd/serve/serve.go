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


package serve

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/nlnwa/gomarc/pkg/index"
	"github.com/nlnwa/gomarc/pkg/server"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve [DIR...]",
		Short: "Start the MARC server to serve indexed records",
		Long:  ``,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := viper.BindPFlags(cmd.Flags()); err != nil {
				return err
			}
			if len(args) > 0 {
				viper.Set("marc-dir", args)
			}
			return runE()
		},
	}

	cmd.Flags().IntP("port", "p", 9999, "Server listening port")
	cmd.Flags().IntP("watch-depth", "d", 4, "The maximum directory depth when auto indexing")
	cmd.Flags().BoolP("auto-index", "", true, "Enable automatic indexing")
	cmd.Flags().DurationP("index-delay", "", 10*time.Second, "Time to wait after the last change to a file before it is indexed")
	cmd.Flags().IntP("index-workers", "", 8, "Number of files to index concurrently")

	cmd.Flags().StringP("index-dir", "", ".", "Index directory")
	cmd.Flags().StringSliceP("marc-dir", "", []string{"."}, "List of directories containing MARC files")
	cmd.Flags().IntP("batch-max-size", "", 10000, "Maximum number of records to keep in memory before writing to the index")
	cmd.Flags().DurationP("batch-max-wait", "", 5*time.Second, "Maximum time to keep records in memory before writing to the index")
	return cmd
}

func runE() error {
	opts := index.DefaultOptions().
		WithDir(viper.GetString("index-dir")).
		WithWatchDepth(viper.GetInt("watch-depth")).
		WithIndexDelay(viper.GetDuration("index-delay")).
		WithWorkers(viper.GetInt("index-workers")).
		WithBatchMaxSize(viper.GetInt("batch-max-size")).
		WithBatchMaxWait(viper.GetDuration("batch-max-wait"))

	db, err := index.NewIndexDb(opts)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Errorf("Failed to close index: %v", err)
		}
	}()

	if viper.GetBool("auto-index") {
		log.Infof("Starting autoindexer")
		autoindexer, err := index.NewAutoIndexer(db, viper.GetStringSlice("marc-dir"), opts)
		if err != nil {
			return err
		}
		defer autoindexer.Shutdown()
	}

	var loggingMw mux.MiddlewareFunc = func(h http.Handler) http.Handler {
		return handlers.CombinedLoggingHandler(os.Stdout, h)
	}

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%v", viper.GetInt("port")),
		Handler: server.Handler(db, loggingMw),
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigs
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(ctx)
	}()

	log.Infof("Starting web server at http://localhost:%v", viper.GetInt("port"))
	if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
