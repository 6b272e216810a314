package main

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/wippyai/typeddata/approval"
	"github.com/wippyai/typeddata/eip712"
)

func runApproval(ctx context.Context, req *eip712.SignatureRequest) (bool, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return false, fmt.Errorf("interactive approval needs a terminal")
	}
	decision, err := approval.Run(ctx, req, os.Stdin, os.Stdout)
	if err != nil {
		return false, err
	}
	return decision == approval.Approved, nil
}
