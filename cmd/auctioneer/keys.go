package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cloudx-io/auctioneer/operator"
	"github.com/cloudx-io/auctioneer/seal"
	"github.com/cloudx-io/auctioneer/validation"
)

func newKeygenCmd() *cobra.Command {
	var (
		out   string
		force bool
	)
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Create a snapshot signing key",
		Long: `Write a new P-256 signing key to --out and print its public key.
Point snapshot.signing_key at the file and hand the public key to participants.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			key, err := seal.GenerateKey()
			if err != nil {
				return err
			}
			private, err := key.PrivateKeyPEM()
			if err != nil {
				return err
			}
			public, err := key.PublicKeyPEM()
			if err != nil {
				return err
			}

			flags := os.O_WRONLY | os.O_CREATE | os.O_EXCL
			if force {
				flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
			}
			f, err := os.OpenFile(out, flags, 0o600)
			if err != nil {
				return invalidInputf("failed to create key file: %w", err)
			}
			if _, err := f.Write(private); err != nil {
				f.Close()
				return fmt.Errorf("failed to write key file: %w", err)
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("failed to write key file: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Key ID: %s\n%s", key.ID, public)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "private key file to create")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing key file")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func newPasswdCmd() *cobra.Command {
	var cost int
	cmd := &cobra.Command{
		Use:   "passwd",
		Short: "Hash an operator password read from stdin",
		Long: `Read a password from the first line of stdin and print the bcrypt hash
to use as operator.password_hash.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			password, err := readLine(cmd.InOrStdin())
			if err != nil {
				return err
			}
			hash, err := operator.HashPassword(password, cost)
			if err != nil {
				return invalidInput(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
	cmd.Flags().IntVar(&cost, "cost", 0, "bcrypt cost (default 10)")
	return cmd
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func newVerifyCmd(a *app) *cobra.Command {
	var (
		publicKey    string
		stateHash    string
		outputFormat string
	)
	cmd := &cobra.Command{
		Use:   "verify [file]",
		Short: "Check a sealed snapshot against the operator's public key",
		Long: `Verify the signature of a sealed snapshot, check that the ledger it holds
is consistent and, with --state-hash, that it matches a printed receipt.
Without a file the stored session is checked.

Exit codes: 0 verification passed, 1 verification failed, 2 invalid input.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			keyPEM, err := os.ReadFile(publicKey)
			if err != nil {
				return invalidInputf("failed to read public key: %w", err)
			}

			var sealed []byte
			if len(args) == 1 {
				sealed, err = readInput(cmd.InOrStdin(), args[0])
			} else {
				sealed, err = a.loadStored(cmd.Context())
			}
			if err != nil {
				return err
			}

			result, err := validation.ValidateSnapshot(&validation.SnapshotValidationInput{
				Sealed:            sealed,
				PublicKeyPEM:      string(keyPEM),
				ExpectedStateHash: stateHash,
			})
			if err != nil {
				return invalidInput(err)
			}

			if outputFormat == "json" {
				if err := outputJSON(cmd.OutOrStdout(), result); err != nil {
					return err
				}
			} else {
				outputText(cmd.OutOrStdout(), result)
			}
			if !result.IsValid() {
				return errVerificationFailed
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&publicKey, "public-key", "", "operator's public key PEM file")
	cmd.Flags().StringVar(&stateHash, "state-hash", "", "state hash from an operation receipt")
	cmd.Flags().StringVar(&outputFormat, "format", "text", "output format: text or json")
	_ = cmd.MarkFlagRequired("public-key")
	return cmd
}

func (a *app) loadStored(ctx context.Context) ([]byte, error) {
	st, closeStore, err := a.openStore()
	if err != nil {
		return nil, err
	}
	defer closeStore()
	return st.Load(ctx, a.cfg.Session.Name)
}

func outputJSON(w io.Writer, result *validation.SnapshotValidationResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func outputText(w io.Writer, result *validation.SnapshotValidationResult) {
	fmt.Fprintln(w, "=== Snapshot Verification Results ===")
	fmt.Fprintln(w)

	if result.IsValid() {
		fmt.Fprintln(w, "✓ VALIDATION PASSED")
	} else {
		fmt.Fprintln(w, "✗ VALIDATION FAILED")
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Signature Valid:  %v\n", result.SignatureValid)
	fmt.Fprintf(w, "Key ID Match:     %v\n", result.KeyIDMatch)
	fmt.Fprintf(w, "Ledger Valid:     %v\n", result.LedgerValid)
	fmt.Fprintf(w, "State Hash Match: %v\n", result.StateHashMatch)
	if result.SessionID != "" {
		fmt.Fprintf(w, "Session ID:       %s\n", result.SessionID)
	}
	if result.StateHash != "" {
		fmt.Fprintf(w, "State Hash:       %s\n", result.StateHash)
	}

	if len(result.ValidationDetails) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Details:")
		for _, detail := range result.ValidationDetails {
			fmt.Fprintf(w, "  - %s\n", detail)
		}
	}
}
