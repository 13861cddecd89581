package main

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func envOr(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func newRootCmd() *cobra.Command {
	cl := &client{
		BaseURL:   envOr("LEADFLOW_API_URL", "http://localhost:8080"),
		OutFormat: envOr("LEADFLOW_OUT", "text"),
		HTTP:      &http.Client{Timeout: 2 * time.Minute},
	}

	root := &cobra.Command{
		Use:           "leadctl",
		Short:         "CLI para subir archivos de leads y consultar distribuciones",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cl.OutFormat != "json" && cl.OutFormat != "text" {
				return fmt.Errorf("--out debe ser json|text (recibido %q)", cl.OutFormat)
			}
			cl.Out = cmd.OutOrStdout()
			return nil
		},
	}
	root.PersistentFlags().StringVar(&cl.BaseURL, "api-url", cl.BaseURL, "URL base del API (env LEADFLOW_API_URL)")
	root.PersistentFlags().StringVar(&cl.OutFormat, "out", cl.OutFormat, "Formato de salida: json|text")

	uploadCmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Sube un .csv/.xls/.xlsx y reparte los leads entre los agentes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, body, err := cl.upload(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := check(status, body); err != nil {
				return err
			}
			return cl.print(body)
		},
	}

	distCmd := &cobra.Command{
		Use:   "distributions",
		Short: "Lista las distribuciones del último lote",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			status, body, err := cl.distributions(cmd.Context())
			if err != nil {
				return err
			}
			if err := check(status, body); err != nil {
				return err
			}
			return cl.print(body)
		},
	}

	root.AddCommand(uploadCmd, distCmd)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
