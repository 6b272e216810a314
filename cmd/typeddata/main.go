package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"go.uber.org/zap"

	"github.com/wippyai/typeddata/eip712"
	"github.com/wippyai/typeddata/signer"
)

type options struct {
	requestFile string
	keyHex      string
	sigHex      string
	address     string
	interactive bool
	verbose     bool
	lenient     bool
}

func main() {
	var opts options
	flag.StringVar(&opts.requestFile, "request", "", "Path to signature request JSON (- for stdin)")
	flag.StringVar(&opts.keyHex, "key", "", "Hex private key to sign with (optional)")
	flag.StringVar(&opts.sigHex, "sig", "", "Hex signature to verify (optional)")
	flag.StringVar(&opts.address, "address", "", "Expected signer address for -sig (defaults to the -key address)")
	flag.BoolVar(&opts.interactive, "i", false, "Ask for approval in a TUI before signing")
	flag.BoolVar(&opts.verbose, "v", false, "Verbose logging")
	flag.BoolVar(&opts.lenient, "lenient", false, "Accept an EIP712Domain declaration that differs from the domain")
	flag.Parse()

	if opts.requestFile == "" {
		fmt.Fprintln(os.Stderr, "Usage: typeddata -request <file.json> [-key hex] [-i]")
		fmt.Fprintln(os.Stderr, "       typeddata -request <file.json> -sig hex -address 0x...")
		os.Exit(1)
	}

	if opts.verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync() //nolint:errcheck
		eip712.SetLogger(logger)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, opts, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, out io.Writer) error {
	data, err := readRequest(opts.requestFile)
	if err != nil {
		return fmt.Errorf("read request: %w", err)
	}

	req, err := eip712.ParseSignatureRequest(data)
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	parseOpts := eip712.DefaultParseOptions()
	parseOpts.StrictDomainType = !opts.lenient
	domain, msg, err := eip712.FromSignatureRequest(req, parseOpts)
	if err != nil {
		return fmt.Errorf("build: %w", err)
	}

	hashStruct, err := msg.HashStruct()
	if err != nil {
		return fmt.Errorf("hash: %w", err)
	}
	digest, err := msg.SignHash()
	if err != nil {
		return fmt.Errorf("hash: %w", err)
	}

	fmt.Fprintf(out, "Domain:          %s\n", domain.EncodeType())
	fmt.Fprintf(out, "Separator:       %s\n", domain.Separator().Hex())
	fmt.Fprintf(out, "Primary type:    %s\n", msg.Type().EncodeType())
	fmt.Fprintf(out, "Type hash:       %s\n", msg.Type().TypeHash().Hex())
	fmt.Fprintf(out, "Struct hash:     %s\n", hashStruct.Hex())
	fmt.Fprintf(out, "Sign hash:       %s\n", digest.Hex())

	address := opts.address
	if opts.keyHex != "" {
		key, err := signer.FromHex(opts.keyHex)
		if err != nil {
			return err
		}
		if address == "" {
			address = key.Address().Hex()
		}

		if opts.interactive {
			approved, err := runApproval(ctx, req)
			if err != nil {
				return fmt.Errorf("approval: %w", err)
			}
			if !approved {
				fmt.Fprintln(out, "Signing rejected.")
				return nil
			}
		}

		sig, err := msg.Sign(key)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Signer:          %s\n", key.Address().Hex())
		fmt.Fprintf(out, "Signature:       %s\n", hexutil.Encode(sig))
	}

	if opts.sigHex != "" {
		if address == "" {
			return fmt.Errorf("-sig requires -address or -key")
		}
		sig, err := hexutil.Decode(opts.sigHex)
		if err != nil {
			return fmt.Errorf("decode signature: %w", err)
		}
		ok, err := msg.VerifySignature(sig, address, nil)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Verified:        %t (%s)\n", ok, address)
	}

	return nil
}

func readRequest(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}
