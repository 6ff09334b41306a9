package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/shiplabel/shiplabel-backend/internal/app"
	"github.com/shiplabel/shiplabel-backend/internal/pkg/dbctx"
	"github.com/shiplabel/shiplabel-backend/internal/services"
)

func newSeedCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load shipping services and saved presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader
			if file != "" {
				f, err := os.Open(file)
				if err != nil {
					return fmt.Errorf("open seed file: %w", err)
				}
				defer f.Close()
				r = f
			}
			data, err := services.LoadSeed(r)
			if err != nil {
				return err
			}

			a, err := app.New(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			report, err := a.Services.Seed.Seed(dbctx.Context{Ctx: cmd.Context()}, data)
			if err != nil {
				return err
			}
			a.Log.Info("seed complete",
				"services", report.Services,
				"saved_addresses", report.SavedAddresses,
				"saved_packages", report.SavedPackages,
			)
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "seed YAML file (defaults to the built-in data)")
	return cmd
}

type importOutput struct {
	BatchID string   `json:"batch_id"`
	Created int      `json:"created"`
	IDs     []uint   `json:"shipment_ids"`
	Errors  []string `json:"errors"`
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Create shipments from a CSV or XLSX order export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}

			a, err := app.New(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := a.Services.Upload.Upload(cmd.Context(), raw, filepath.Base(args[0]))
			var uerr *services.UploadError
			if errors.As(err, &uerr) && uerr.Result != nil {
				res = uerr.Result
			} else if err != nil {
				return err
			}

			out := importOutput{BatchID: res.BatchID, Created: len(res.Shipments), Errors: res.Errors}
			for _, s := range res.Shipments {
				out.IDs = append(out.IDs, s.ID)
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if encErr := enc.Encode(out); encErr != nil {
				return encErr
			}
			return err
		},
	}
}
