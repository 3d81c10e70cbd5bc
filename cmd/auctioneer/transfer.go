package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/cloudx-io/auctioneer/session"
	"github.com/cloudx-io/auctioneer/snapshot"
)

const formatYAML = "yaml"

func newExportCmd(a *app) *cobra.Command {
	var (
		format string
		output string
		sealed bool
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the session snapshot to a file or stdout",
		Long: `Export the session as json, cbor or yaml. With --sealed the snapshot is
written in the configured format and signed with the operator's key, for
participants to check with "auctioneer verify".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if format == "" {
				format = a.cfg.Snapshot.Format
			}
			return a.withSession(cmd, readSession, func(_ context.Context, s *session.Session) error {
				data, err := exportBytes(s, format, sealed)
				if err != nil {
					return err
				}
				return writeOutput(cmd.OutOrStdout(), output, data)
			})
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "json, cbor or yaml (default snapshot.format)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&sealed, "sealed", false, "sign the export with the configured signing key")
	return cmd
}

func exportBytes(s *session.Session, format string, sealed bool) ([]byte, error) {
	if sealed {
		return s.ExportSealed()
	}
	if format == formatYAML {
		snap, err := s.Snapshot()
		if err != nil {
			return nil, err
		}
		data, err := yaml.Marshal(snap)
		if err != nil {
			return nil, fmt.Errorf("marshal snapshot YAML: %w", err)
		}
		return data, nil
	}
	f, err := snapshot.ParseFormat(format)
	if err != nil {
		return nil, invalidInput(err)
	}
	return s.Export(f)
}

func writeOutput(stdout io.Writer, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func newImportCmd(a *app) *cobra.Command {
	var noVerify bool
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the session with a snapshot file",
		Long: `Load a json or cbor snapshot, sealed or not, and make it the session.
Sealed files are verified against the configured signing key unless
--no-verify is given. Use "-" to read from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			return a.withSession(cmd, replaceSession, func(ctx context.Context, s *session.Session) error {
				r, err := s.Import(ctx, data, !noVerify)
				if err != nil {
					return err
				}
				printReceipt(cmd, r)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&noVerify, "no-verify", false, "accept a sealed file without checking its signature")
	return cmd
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, invalidInput(err)
	}
	return data, nil
}
