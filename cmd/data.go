package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/frahmantamala/mvd-portal/internal"
	"github.com/frahmantamala/mvd-portal/internal/core/events"
	"github.com/frahmantamala/mvd-portal/internal/datatransfer"
	"github.com/spf13/cobra"
)

var (
	dataCollections string
	dataOut         string
	dataFormat      string
)

var dataCmd = &cobra.Command{
	Use:   "data",
	Short: "Export or import portal collections",
}

var dataExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write selected collections to a JSON or XLSX file",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDataTransfer(func(ctx context.Context, svc *datatransfer.Service) error {
			var names []string
			for _, n := range strings.Split(dataCollections, ",") {
				if n = strings.TrimSpace(n); n != "" {
					names = append(names, n)
				}
			}

			var (
				body []byte
				err  error
			)
			if dataFormat == "xlsx" {
				body, err = svc.ExportWorkbook(ctx, names)
			} else {
				body, err = svc.Export(ctx, names)
			}
			if err != nil {
				return err
			}

			if dataOut == "" || dataOut == "-" {
				_, err = os.Stdout.Write(body)
				return err
			}
			if err := os.WriteFile(dataOut, body, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", dataOut, err)
			}
			fmt.Printf("exported to %s\n", dataOut)
			return nil
		})
	},
}

var dataImportCmd = &cobra.Command{
	Use:   "import <file.json>",
	Short: "Merge collections from a JSON export into the stored state",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		payload, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}
		return withDataTransfer(func(ctx context.Context, svc *datatransfer.Service) error {
			imported, err := svc.Import(ctx, payload)
			if err != nil {
				return err
			}
			fmt.Printf("imported: %s\n", strings.Join(imported, ", "))
			return nil
		})
	},
}

func withDataTransfer(fn func(ctx context.Context, svc *datatransfer.Service) error) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	initLogger(cfg)
	lg := slog.Default()

	ctx, cancel := internal.WithTimeout(context.Background(), 0)
	defer cancel()

	st, err := openStore(ctx, cfg, lg)
	if err != nil {
		return err
	}
	defer st.Close()

	// The command exits right after Import returns.
	bus := events.NewEventBus(lg, events.WithSyncDelivery())
	events.SubscribeAudit(bus, lg)
	return fn(ctx, datatransfer.NewService(st, bus, lg))
}

func init() {
	dataExportCmd.Flags().StringVar(&dataCollections, "collections", "", "comma separated collection names (default employees,leaders,fleet)")
	dataExportCmd.Flags().StringVarP(&dataOut, "out", "o", "", "output file, stdout when empty")
	dataExportCmd.Flags().StringVar(&dataFormat, "format", "json", "json or xlsx")

	dataCmd.AddCommand(dataExportCmd)
	dataCmd.AddCommand(dataImportCmd)
}
